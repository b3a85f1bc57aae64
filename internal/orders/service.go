package orders

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"returns-backend/internal/shared/telemetry"
)

const (
	importBatchSize  = 500
	assignmentCount  = 10
	orderDateLayouts = "1/2/2006" // spreadsheet exports use US short dates
)

// Service imports the superstore spreadsheet and assigns demo orders to
// users.
type Service struct {
	Repo Repo
	rand *rand.Rand
}

func NewService(repo Repo) *Service {
	return &Service{
		Repo: repo,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ImportCSV parses a spreadsheet export and batch-inserts the line items.
// Order ids repeat across line items in the source data, so each row's id is
// suffixed with its index. Returns the number of rows inserted.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	if _, ok := cols["Order ID"]; !ok {
		return 0, fmt.Errorf("csv missing Order ID column")
	}

	now := time.Now().UTC()
	total := 0
	index := 0
	batch := make([]Order, 0, importBatchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := s.Repo.InsertBatch(ctx, batch); err != nil {
			return fmt.Errorf("insert order batch: %w", err)
		}
		total += len(batch)
		batch = batch[:0]
		return nil
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("read csv row %d: %w", index+1, err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		order := Order{
			ID:              uuid.NewString(),
			OrderRef:        fmt.Sprintf("%s-%d", field("Order ID"), index),
			OrderDate:       parseDate(field("Order Date")),
			ShipDate:        parseDate(field("Ship Date")),
			ShipMode:        field("Ship Mode"),
			CustomerID:      field("Customer ID"),
			CustomerName:    field("Customer Name"),
			Segment:         field("Segment"),
			Country:         field("Country"),
			City:            field("City"),
			State:           field("State"),
			Region:          field("Region"),
			ProductID:       field("Product ID"),
			Category:        field("Category"),
			SubCategory:     field("Sub-Category"),
			ProductName:     field("Product Name"),
			Sales:           parseFloat(field("Sales")),
			Quantity:        parseInt(field("Quantity")),
			Profit:          parseFloat(field("Profit")),
			Brand:           field("Brand"),
			DiscountPercent: parseFloat(field("Discount %")),
			Cost:            parseFloat(field("Cost")),
			CreatedAt:       now,
		}
		batch = append(batch, order)
		index++

		if len(batch) >= importBatchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}

	telemetry.Info("orders imported", map[string]any{"count": total})
	return total, nil
}

// AssignRandom gives a user a random sample of orders to file claims
// against. Idempotent: a user who already has assignments keeps them.
func (s *Service) AssignRandom(ctx context.Context, userID string) (assigned int, already bool, err error) {
	has, err := s.Repo.HasAssignments(ctx, userID)
	if err != nil {
		return 0, false, err
	}
	if has {
		return 0, true, nil
	}

	ids, err := s.Repo.AllIDs(ctx)
	if err != nil {
		return 0, false, err
	}
	if len(ids) == 0 {
		return 0, false, ErrNoOrders
	}

	s.rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	n := assignmentCount
	if len(ids) < n {
		n = len(ids)
	}
	if err := s.Repo.Assign(ctx, userID, ids[:n]); err != nil {
		return 0, false, err
	}
	return n, false, nil
}

// ListForUser returns the orders assigned to a user.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	return s.Repo.ListForUser(ctx, userID)
}

func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	for _, layout := range []string{orderDateLayouts, "2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

func parseFloat(v string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	return f
}

func parseInt(v string) int {
	n, _ := strconv.Atoi(v)
	return n
}
