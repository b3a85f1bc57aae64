package orders

import (
	"context"
	"errors"
)

var ErrNoOrders = errors.New("no orders available")

// Repo defines persistence operations for orders and per-user assignments.
type Repo interface {
	// InsertBatch stores a batch of imported line items.
	InsertBatch(ctx context.Context, batch []Order) error
	// AllIDs lists every order id, used by the random assigner.
	AllIDs(ctx context.Context) ([]string, error)
	// HasAssignments reports whether a user already has orders assigned.
	HasAssignments(ctx context.Context, userID string) (bool, error)
	// Assign links the given orders to a user.
	Assign(ctx context.Context, userID string, orderIDs []string) error
	// ListForUser returns the orders assigned to a user.
	ListForUser(ctx context.Context, userID string) ([]Order, error)
}
