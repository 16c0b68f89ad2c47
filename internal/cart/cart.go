package cart

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/kushal-tech/houseofneelam/internal/domain"
)

var (
	errStoreRequired   = errors.New("cart: store is required")
	errSessionRequired = errors.New("cart: session id is required")
)

// ErrInvalidProduct indicates an add with no product id or a negative price.
var ErrInvalidProduct = errors.New("cart: invalid product")

// Aggregate mutates one session's cart and mirrors every mutation into the
// store. Saves are suppressed until Load has completed so an empty initial
// state can never clobber previously persisted lines.
type Aggregate struct {
	mu        sync.Mutex
	store     Store
	sessionID string
	lines     []domain.CartLine
	loaded    bool
}

// NewAggregate binds an aggregate to a session's persisted cart.
func NewAggregate(store Store, sessionID string) (*Aggregate, error) {
	if store == nil {
		return nil, errStoreRequired
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, errSessionRequired
	}
	return &Aggregate{store: store, sessionID: sessionID}, nil
}

// Load hydrates the aggregate from the store. A missing cart is an empty
// cart, not an error. Load is idempotent; repeat calls are no-ops.
func (a *Aggregate) Load(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loaded {
		return nil
	}
	lines, err := a.store.Load(ctx, a.sessionID)
	switch {
	case errors.Is(err, ErrCartNotFound):
		lines = nil
	case err != nil:
		return err
	}
	a.lines = lines
	a.loaded = true
	return nil
}

// Add appends a new line for the product, or increments the existing line's
// quantity. Quantities below one count as one. No upper bound is enforced
// here; the remote API rejects over-stock at order creation.
func (a *Aggregate) Add(ctx context.Context, product domain.Product, quantity int) error {
	if strings.TrimSpace(product.ProductID) == "" || product.Price < 0 {
		return ErrInvalidProduct
	}
	if quantity < 1 {
		quantity = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.lines {
		if a.lines[i].ProductID == product.ProductID {
			a.lines[i].Quantity += quantity
			return a.persist(ctx)
		}
	}
	a.lines = append(a.lines, domain.CartLine{
		ProductID: product.ProductID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		Images:    product.Images,
		Category:  product.Category,
	})
	return a.persist(ctx)
}

// Remove deletes the line for the product; absent lines are a no-op.
func (a *Aggregate) Remove(ctx context.Context, productID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.removeLocked(productID)
	return a.persist(ctx)
}

// SetQuantity replaces the stored quantity. Values of zero or below remove
// the line, which keeps the quantity >= 1 invariant intact.
func (a *Aggregate) SetQuantity(ctx context.Context, productID string, quantity int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if quantity <= 0 {
		a.removeLocked(productID)
		return a.persist(ctx)
	}
	for i := range a.lines {
		if a.lines[i].ProductID == productID {
			a.lines[i].Quantity = quantity
			break
		}
	}
	return a.persist(ctx)
}

// Clear empties the cart. Called after a confirmed order.
func (a *Aggregate) Clear(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lines = nil
	return a.persist(ctx)
}

// Total derives the cart total as the sum of price times quantity. It is
// recomputed on every call and never stored.
func (a *Aggregate) Total() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	var total float64
	for _, line := range a.lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// Lines returns a copy of the current line items in insertion order.
func (a *Aggregate) Lines() []domain.CartLine {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.CartLine, len(a.lines))
	copy(out, a.lines)
	return out
}

// Empty reports whether the cart holds no lines.
func (a *Aggregate) Empty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.lines) == 0
}

func (a *Aggregate) removeLocked(productID string) {
	for i := range a.lines {
		if a.lines[i].ProductID == productID {
			a.lines = append(a.lines[:i], a.lines[i+1:]...)
			return
		}
	}
}

// persist mirrors the current lines into the store. Callers hold the mutex.
// Writes before the initial load completes are dropped on purpose.
func (a *Aggregate) persist(ctx context.Context) error {
	if !a.loaded {
		return nil
	}
	return a.store.Save(ctx, a.sessionID, a.lines)
}
