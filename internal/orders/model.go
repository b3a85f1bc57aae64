package orders

import "time"

// Order is one imported line item from the superstore spreadsheet. The
// source spreadsheet repeats order ids across line items, so OrderRef is
// suffixed with the row index at import time to keep it unique.
type Order struct {
	ID              string     `json:"id"`
	OrderRef        string     `json:"orderId"`
	OrderDate       *time.Time `json:"orderDate,omitempty"`
	ShipDate        *time.Time `json:"shipDate,omitempty"`
	ShipMode        string     `json:"shipMode,omitempty"`
	CustomerID      string     `json:"customerId,omitempty"`
	CustomerName    string     `json:"customerName,omitempty"`
	Segment         string     `json:"segment,omitempty"`
	Country         string     `json:"country,omitempty"`
	City            string     `json:"city,omitempty"`
	State           string     `json:"state,omitempty"`
	Region          string     `json:"region,omitempty"`
	ProductID       string     `json:"productId,omitempty"`
	Category        string     `json:"category,omitempty"`
	SubCategory     string     `json:"subCategory,omitempty"`
	ProductName     string     `json:"productName"`
	Sales           float64    `json:"sales"`
	Quantity        int        `json:"quantity"`
	Profit          float64    `json:"profit"`
	Brand           string     `json:"brand,omitempty"`
	DiscountPercent float64    `json:"discountPercent"`
	Cost            float64    `json:"cost"`
	CreatedAt       time.Time  `json:"createdAt"`
}
