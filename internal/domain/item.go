package domain

import "time"

type SizeKind string

const (
	SizeKindFixed SizeKind = "fixed"
	SizeKindRange SizeKind = "range"
	SizeKindFree  SizeKind = "free"
)

type Size struct {
	Kind  SizeKind `json:"kind" firestore:"kind"`
	Value string   `json:"value,omitempty" firestore:"value,omitempty"`
	Min   string   `json:"min,omitempty" firestore:"min,omitempty"`
	Max   string   `json:"max,omitempty" firestore:"max,omitempty"`
}

type Item struct {
	ID                string     `json:"id" firestore:"-"`
	Name              string     `json:"name" firestore:"name"`
	Category          string     `json:"category" firestore:"category"`
	Color             string     `json:"color,omitempty" firestore:"color,omitempty"`
	Size              Size       `json:"size" firestore:"size"`
	Lease             LeaseTerms `json:"lease" firestore:"lease"`
	Available         bool       `json:"available" firestore:"isAvailable"`
	IsCollaborated    bool       `json:"is_collaborated" firestore:"isCollaborated"`
	OwnerID           *string    `json:"owner_id,omitempty" firestore:"ownerId,omitempty"`
	OwnerSharePercent float64    `json:"owner_share_percent,omitempty" firestore:"ownerSharePercent,omitempty"`
	ImageURL          string     `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	CreatedAt         time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt         time.Time  `json:"updated_at" firestore:"updatedAt"`
}

// OwnedBy reports whether the item is a collaborated piece belonging to partnerID.
func (i *Item) OwnedBy(partnerID string) bool {
	return i.IsCollaborated && i.OwnerID != nil && *i.OwnerID == partnerID
}
