package orders

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const orderInsertColumns = 23

func (r *PGRepo) InsertBatch(ctx context.Context, batch []Order) error {
	if len(batch) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO orders (
	id, order_id, order_date, ship_date, ship_mode, customer_id, customer_name,
	segment, country, city, state, region, product_id, category, sub_category,
	product_name, sales, quantity, profit, brand, discount_percent, cost, created_at
) VALUES `)

	args := make([]any, 0, len(batch)*orderInsertColumns)
	for i, o := range batch {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * orderInsertColumns
		sb.WriteString("(")
		for j := 1; j <= orderInsertColumns; j++ {
			if j > 1 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", base+j)
		}
		sb.WriteString(")")
		args = append(args,
			o.ID, o.OrderRef, o.OrderDate, o.ShipDate,
			nullString(o.ShipMode), nullString(o.CustomerID), nullString(o.CustomerName),
			nullString(o.Segment), nullString(o.Country), nullString(o.City),
			nullString(o.State), nullString(o.Region), nullString(o.ProductID),
			nullString(o.Category), nullString(o.SubCategory), o.ProductName,
			o.Sales, o.Quantity, o.Profit, nullString(o.Brand),
			o.DiscountPercent, o.Cost, o.CreatedAt,
		)
	}
	sb.WriteString(" ON CONFLICT (order_id) DO NOTHING")

	_, err := r.DB.ExecContext(ctx, sb.String(), args...)
	return err
}

func (r *PGRepo) AllIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM orders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *PGRepo) HasAssignments(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_orders WHERE user_id = $1)`, userID,
	).Scan(&exists)
	return exists, err
}

func (r *PGRepo) Assign(ctx context.Context, userID string, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO user_orders (id, user_id, order_id) VALUES `)
	args := make([]any, 0, len(orderIDs)*3)
	for i, orderID := range orderIDs {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 3
		fmt.Fprintf(&sb, "($%d, $%d, $%d)", base+1, base+2, base+3)
		args = append(args, uuid.NewString(), userID, orderID)
	}
	sb.WriteString(" ON CONFLICT (user_id, order_id) DO NOTHING")

	_, err := r.DB.ExecContext(ctx, sb.String(), args...)
	return err
}

func (r *PGRepo) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	const query = `
SELECT o.id, o.order_id, o.order_date, o.ship_date, o.ship_mode, o.customer_id,
       o.customer_name, o.segment, o.country, o.city, o.state, o.region,
       o.product_id, o.category, o.sub_category, o.product_name, o.sales,
       o.quantity, o.profit, o.brand, o.discount_percent, o.cost, o.created_at
FROM orders o
JOIN user_orders uo ON uo.order_id = o.id
WHERE uo.user_id = $1
ORDER BY o.order_date DESC NULLS LAST`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(rows *sql.Rows) (Order, error) {
	var o Order
	var orderDate, shipDate sql.NullTime
	var shipMode, customerID, customerName, segment, country, city sql.NullString
	var state, region, productID, category, subCategory, brand sql.NullString
	var sales, profit, discount, cost sql.NullFloat64
	var quantity sql.NullInt64
	err := rows.Scan(
		&o.ID, &o.OrderRef, &orderDate, &shipDate, &shipMode, &customerID,
		&customerName, &segment, &country, &city, &state, &region,
		&productID, &category, &subCategory, &o.ProductName, &sales,
		&quantity, &profit, &brand, &discount, &cost, &o.CreatedAt,
	)
	if err != nil {
		return Order{}, err
	}
	if orderDate.Valid {
		t := orderDate.Time
		o.OrderDate = &t
	}
	if shipDate.Valid {
		t := shipDate.Time
		o.ShipDate = &t
	}
	o.ShipMode = shipMode.String
	o.CustomerID = customerID.String
	o.CustomerName = customerName.String
	o.Segment = segment.String
	o.Country = country.String
	o.City = city.String
	o.State = state.String
	o.Region = region.String
	o.ProductID = productID.String
	o.Category = category.String
	o.SubCategory = subCategory.String
	o.Brand = brand.String
	o.Sales = sales.Float64
	o.Profit = profit.Float64
	o.DiscountPercent = discount.Float64
	o.Cost = cost.Float64
	o.Quantity = int(quantity.Int64)
	return o, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ Repo = (*PGRepo)(nil)
