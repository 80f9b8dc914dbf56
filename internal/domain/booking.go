package domain

import "time"

type BookingStatus string

const (
	BookingStatusDraft              BookingStatus = "Draft"
	BookingStatusWaitingForDelivery BookingStatus = "Waiting for Delivery"
	BookingStatusWaitingForReturn   BookingStatus = "Waiting for Return"
	BookingStatusCompleted          BookingStatus = "Completed"
	BookingStatusPostponed          BookingStatus = "Postponed"
)

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusDraft, BookingStatusWaitingForDelivery, BookingStatusWaitingForReturn,
		BookingStatusCompleted, BookingStatusPostponed:
		return true
	}
	return false
}

// LineItem is one rented piece within a booking. Lease, partner and share
// percentage are a snapshot taken when the line was first composed; later edits
// to the item do not reprice old bookings.
type LineItem struct {
	ItemID            string     `json:"item_id" firestore:"itemId"`
	ItemName          string     `json:"item_name" firestore:"itemName"`
	Lease             LeaseTerms `json:"lease" firestore:"lease"`
	CalculatedPrice   float64    `json:"calculated_price" firestore:"calculatedPrice"`
	IsCollaborated    bool       `json:"is_collaborated" firestore:"isCollaborated"`
	OwnerID           *string    `json:"owner_id,omitempty" firestore:"ownerId,omitempty"`
	OwnerSharePercent float64    `json:"owner_share_percent,omitempty" firestore:"ownerSharePercent,omitempty"`
	OwnerShare        float64    `json:"owner_share" firestore:"ownerShare"`
}

type Advance struct {
	ID     string    `json:"id" firestore:"id"`
	Amount float64   `json:"amount" firestore:"amount"`
	Date   time.Time `json:"date" firestore:"date"`
	Note   string    `json:"note,omitempty" firestore:"note,omitempty"`
}

type BookingTotals struct {
	TotalRent    float64 `json:"total_rent" firestore:"totalRent"`
	TotalCharges float64 `json:"total_charges" firestore:"totalCharges"`
	TotalAmount  float64 `json:"total_amount" firestore:"totalAmount"`
	TotalAdvance float64 `json:"total_advance" firestore:"totalAdvance"`
	DueAmount    float64 `json:"due_amount" firestore:"dueAmount"`
}

type Booking struct {
	ID             string        `json:"id" firestore:"-"`
	CustomerID     string        `json:"customer_id" firestore:"customerId"`
	Items          []LineItem    `json:"items" firestore:"items"`
	DeliveryDate   *time.Time    `json:"delivery_date,omitempty" firestore:"deliveryDate"`
	ReturnDate     *time.Time    `json:"return_date,omitempty" firestore:"returnDate"`
	StartDate      *time.Time    `json:"start_date,omitempty" firestore:"startDate"`
	EndDate        *time.Time    `json:"end_date,omitempty" firestore:"endDate"`
	DeliveryCharge float64       `json:"delivery_charge" firestore:"deliveryCharge"`
	OtherCharges   float64       `json:"other_charges" firestore:"otherCharges"`
	Advances       []Advance     `json:"advances" firestore:"advances"`
	Totals         BookingTotals `json:"totals" firestore:"totals"`
	Status         BookingStatus `json:"status" firestore:"status"`
	Notes          string        `json:"notes,omitempty" firestore:"notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time     `json:"updated_at" firestore:"updatedAt"`
}

// HasItem reports whether any line of the booking references itemID.
func (b *Booking) HasItem(itemID string) bool {
	for _, li := range b.Items {
		if li.ItemID == itemID {
			return true
		}
	}
	return false
}

// ItemIDs returns the distinct item ids of the booking in line order.
func (b *Booking) ItemIDs() []string {
	seen := make(map[string]bool, len(b.Items))
	ids := make([]string, 0, len(b.Items))
	for _, li := range b.Items {
		if li.ItemID == "" || seen[li.ItemID] {
			continue
		}
		seen[li.ItemID] = true
		ids = append(ids, li.ItemID)
	}
	return ids
}

// BookingPatch is a partial booking update. Nil fields are left untouched.
type BookingPatch struct {
	Status    *BookingStatus
	Advances  []Advance
	Totals    *BookingTotals
	UpdatedAt time.Time
}

type BookingFilter struct {
	CustomerID string
	Status     BookingStatus
}
