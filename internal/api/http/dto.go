package http

import (
	"time"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/service"
	"wardrobe-rental-backend/internal/utils"
)

// Dates travel as yyyy-mm-dd strings. Amounts accept numbers or numeric strings.
type advanceRequest struct {
	ID     string            `json:"id"`
	Amount domain.FlexAmount `json:"amount"`
	Date   string            `json:"date"`
	Note   string            `json:"note"`
}

type bookingRequest struct {
	CustomerID     string                `json:"customer_id"`
	Items          []service.LineRequest `json:"items"`
	DeliveryDate   string                `json:"delivery_date"`
	ReturnDate     string                `json:"return_date"`
	StartDate      string                `json:"start_date"`
	EndDate        string                `json:"end_date"`
	DeliveryCharge domain.FlexAmount     `json:"delivery_charge"`
	OtherCharges   domain.FlexAmount     `json:"other_charges"`
	Advances       []advanceRequest      `json:"advances"`
	Notes          string                `json:"notes"`

	AsDraft               bool   `json:"as_draft"`
	SkipAvailabilityCheck bool   `json:"skip_availability_check"`
	ExcludeBookingID      string `json:"exclude_booking_id"`
}

func (req bookingRequest) toInput() (service.BookingInput, error) {
	errs := domain.ValidationErrors{}
	parse := func(field, value string) *time.Time {
		t, err := utils.ParseOptionalDate(value)
		if err != nil {
			errs.Add(field, err.Error())
		}
		return t
	}

	in := service.BookingInput{
		CustomerID:     req.CustomerID,
		Items:          req.Items,
		DeliveryDate:   parse("deliveryDate", req.DeliveryDate),
		ReturnDate:     parse("returnDate", req.ReturnDate),
		StartDate:      parse("startDate", req.StartDate),
		EndDate:        parse("endDate", req.EndDate),
		DeliveryCharge: req.DeliveryCharge.Float(),
		OtherCharges:   req.OtherCharges.Float(),
		Notes:          req.Notes,
	}
	// An omitted list stays nil so an update keeps recorded payments.
	if req.Advances != nil {
		in.Advances = make([]domain.Advance, 0, len(req.Advances))
	}
	for _, a := range req.Advances {
		adv := domain.Advance{ID: a.ID, Amount: a.Amount.Float(), Note: a.Note}
		if d := parse("advances", a.Date); d != nil {
			adv.Date = *d
		}
		in.Advances = append(in.Advances, adv)
	}

	if err := errs.Err(); err != nil {
		return service.BookingInput{}, err
	}
	return in, nil
}

type statusRequest struct {
	Status domain.BookingStatus `json:"status"`
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type bookingResponse struct {
	*domain.Booking
	AllowedTransitions []domain.BookingStatus `json:"allowed_transitions"`
}

func newBookingResponse(b *domain.Booking) bookingResponse {
	allowed := service.AllowedTransitions(b.Status)
	if allowed == nil {
		allowed = []domain.BookingStatus{}
	}
	return bookingResponse{Booking: b, AllowedTransitions: allowed}
}
