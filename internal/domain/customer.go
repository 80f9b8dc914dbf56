package domain

import "time"

// CustomerStats is a cache derived from the customer's bookings. Only the stats
// aggregator writes it.
type CustomerStats struct {
	TotalSpent       float64 `json:"total_spent" firestore:"totalSpent"`
	TotalBookings    int     `json:"total_bookings" firestore:"totalBookings"`
	ActiveBookings   int     `json:"active_bookings" firestore:"activeBookings"`
	TotalOutstanding float64 `json:"total_outstanding" firestore:"totalOutstanding"`
}

type Customer struct {
	ID        string        `json:"id" firestore:"-"`
	Name      string        `json:"name" firestore:"name"`
	Phone     string        `json:"phone" firestore:"phone"`
	Email     string        `json:"email,omitempty" firestore:"email,omitempty"`
	Address   string        `json:"address,omitempty" firestore:"address,omitempty"`
	City      string        `json:"city,omitempty" firestore:"city,omitempty"`
	Notes     string        `json:"notes,omitempty" firestore:"notes,omitempty"`
	Stats     CustomerStats `json:"stats" firestore:"stats"`
	CreatedAt time.Time     `json:"created_at" firestore:"createdAt"`
}
