package domain

type LeaseMode string

const (
	LeaseModeFixed  LeaseMode = "fixed"
	LeaseModePerDay LeaseMode = "per-day"
	LeaseModeRange  LeaseMode = "range"
)

// LeasePrice is one of FixedPrice, PerDayPrice or RangePrice.
type LeasePrice interface {
	Mode() LeaseMode
	isLeasePrice()
}

type FixedPrice struct {
	Value float64
}

type PerDayPrice struct {
	Rate float64
}

// RangePrice carries a min/max pair. Only Min is ever charged; Max is shown to staff.
type RangePrice struct {
	Min float64
	Max float64
}

func (FixedPrice) Mode() LeaseMode  { return LeaseModeFixed }
func (PerDayPrice) Mode() LeaseMode { return LeaseModePerDay }
func (RangePrice) Mode() LeaseMode  { return LeaseModeRange }

func (FixedPrice) isLeasePrice()  {}
func (PerDayPrice) isLeasePrice() {}
func (RangePrice) isLeasePrice()  {}

// LeaseTerms is the stored (flat) form of a lease price. Records coming from the
// document store are loosely typed, so every amount is optional.
type LeaseTerms struct {
	Mode       LeaseMode `json:"mode" firestore:"leaseType"`
	Price      *float64  `json:"price,omitempty" firestore:"price,omitempty"`
	RentPerDay *float64  `json:"rent_per_day,omitempty" firestore:"rentPerDay,omitempty"`
	MinPrice   *float64  `json:"min_price,omitempty" firestore:"minPrice,omitempty"`
	MaxPrice   *float64  `json:"max_price,omitempty" firestore:"maxPrice,omitempty"`
}

// Variant decodes the terms into a tagged LeasePrice. It returns false when the
// mode is unknown or the amount the mode needs is missing.
func (t LeaseTerms) Variant() (LeasePrice, bool) {
	switch t.Mode {
	case LeaseModeFixed:
		if t.Price == nil {
			return nil, false
		}
		return FixedPrice{Value: *t.Price}, true
	case LeaseModePerDay:
		if t.RentPerDay == nil {
			return nil, false
		}
		return PerDayPrice{Rate: *t.RentPerDay}, true
	case LeaseModeRange:
		if t.MinPrice == nil {
			return nil, false
		}
		upper := *t.MinPrice
		if t.MaxPrice != nil {
			upper = *t.MaxPrice
		}
		return RangePrice{Min: *t.MinPrice, Max: upper}, true
	default:
		return nil, false
	}
}

// TermsOf flattens a LeasePrice back into its stored form.
func TermsOf(p LeasePrice) LeaseTerms {
	switch v := p.(type) {
	case FixedPrice:
		return LeaseTerms{Mode: LeaseModeFixed, Price: &v.Value}
	case PerDayPrice:
		return LeaseTerms{Mode: LeaseModePerDay, RentPerDay: &v.Rate}
	case RangePrice:
		return LeaseTerms{Mode: LeaseModeRange, MinPrice: &v.Min, MaxPrice: &v.Max}
	default:
		return LeaseTerms{}
	}
}
