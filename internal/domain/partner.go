package domain

type PartnerItemPayout struct {
	ItemID     string  `json:"item_id"`
	ItemName   string  `json:"item_name"`
	Bookings   int     `json:"bookings"`
	Revenue    float64 `json:"revenue"`
	OwnerShare float64 `json:"owner_share"`
}

// PartnerPayout is computed on every read and never stored.
type PartnerPayout struct {
	PartnerID         string              `json:"partner_id"`
	PartnerItemsCount int                 `json:"partner_items_count"`
	TotalRevenue      float64             `json:"total_revenue"`
	OwnerShare        float64             `json:"owner_share"`
	Items             []PartnerItemPayout `json:"items"`
}
