package domain

import (
	"time"
)

// SortBy enumerates the catalog sort orders accepted by the remote API.
type SortBy string

const (
	// SortNewest orders products by creation time, newest first.
	SortNewest SortBy = "newest"
	// SortPriceLow orders products by price, cheapest first.
	SortPriceLow SortBy = "price_low"
	// SortPriceHigh orders products by price, most expensive first.
	SortPriceHigh SortBy = "price_high"
	// SortPopular orders products by purchase count.
	SortPopular SortBy = "popular"
	// SortRating orders products by average review rating.
	SortRating SortBy = "rating"
)

// ValidSortBy reports whether the value is one of the accepted sort orders.
func ValidSortBy(s SortBy) bool {
	switch s {
	case SortNewest, SortPriceLow, SortPriceHigh, SortPopular, SortRating:
		return true
	}
	return false
}

// ProductFilter carries catalog listing filters forwarded to the remote API.
type ProductFilter struct {
	Category    string
	Subcategory string
	MinPrice    *float64
	MaxPrice    *float64
	SortBy      SortBy
	InStock     bool
}

// Product mirrors the remote catalog representation consumed by the storefront.
type Product struct {
	ProductID   string    `json:"product_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	InStock     bool      `json:"in_stock"`
	Rating      float64   `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// Category groups products for navigation.
type Category struct {
	CategoryID    string    `json:"category_id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug,omitempty"`
	Description   string    `json:"description,omitempty"`
	Image         string    `json:"image,omitempty"`
	Subcategories []string  `json:"subcategories,omitempty"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
	UpdatedAt     time.Time `json:"updated_at,omitempty"`
}

// WishlistItem pairs a saved product with the time it was added.
type WishlistItem struct {
	Product
	AddedAt time.Time `json:"added_at"`
}

// Review is one customer rating for a product. Rating is always 1..5.
type Review struct {
	ReviewID  string    `json:"review_id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CartLine is one product+quantity entry in a cart. ProductID is unique within
// a cart and Quantity is always >= 1; a reduction to zero removes the line.
type CartLine struct {
	ProductID string   `json:"product_id"`
	Name      string   `json:"name"`
	Price     float64  `json:"price"`
	Quantity  int      `json:"quantity"`
	Images    []string `json:"images"`
	Category  string   `json:"category,omitempty"`
}

// OrderStatus enumerates fulfilment states owned by the remote system.
type OrderStatus string

const (
	// OrderPending indicates the order exists but payment is not confirmed.
	OrderPending OrderStatus = "pending"
	// OrderConfirmed indicates payment succeeded and fulfilment may begin.
	OrderConfirmed OrderStatus = "confirmed"
	// OrderShipped indicates the order left the warehouse.
	OrderShipped OrderStatus = "shipped"
	// OrderDelivered indicates the order reached the customer.
	OrderDelivered OrderStatus = "delivered"
)

// PaymentStatus enumerates the remote payment states for an order.
type PaymentStatus string

const (
	// PaymentUnpaid means no successful capture is recorded.
	PaymentUnpaid PaymentStatus = "unpaid"
	// PaymentPaid means the processor captured the full amount.
	PaymentPaid PaymentStatus = "paid"
)

// OrderItem is the immutable snapshot of a cart line taken at submission time.
type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
}

// Order is owned by the remote system; the storefront only reads it.
type Order struct {
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id,omitempty"`
	Items         []OrderItem   `json:"items"`
	GuestEmail    string        `json:"guest_email,omitempty"`
	GuestPhone    string        `json:"guest_phone,omitempty"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TotalAmount   float64       `json:"total_amount"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SessionOutcome enumerates terminal payment-session states reported by the
// remote status endpoint.
type SessionOutcome string

const (
	// OutcomePaid means the processor captured the payment.
	OutcomePaid SessionOutcome = "paid"
	// OutcomeExpired means the session lapsed before completion.
	OutcomeExpired SessionOutcome = "expired"
	// OutcomeCancelled means the customer abandoned the session.
	OutcomeCancelled SessionOutcome = "cancelled"
	// OutcomeOpen means the session has no terminal outcome yet.
	OutcomeOpen SessionOutcome = "open"
)

// Role separates storefront customers from back-office operators.
type Role string

const (
	// RoleCustomer is the default storefront role.
	RoleCustomer Role = "customer"
	// RoleAdmin unlocks the back-office surface.
	RoleAdmin Role = "admin"
)

// User is held in memory for the lifetime of a storefront session only.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user may reach the back-office surface.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// DashboardStats summarises back-office order metrics.
type DashboardStats struct {
	TotalOrders    int     `json:"total_orders"`
	PendingOrders  int     `json:"pending_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalProducts  int     `json:"total_products"`
	TotalCustomers int     `json:"total_customers"`
}
