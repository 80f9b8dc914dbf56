package service

import (
	"context"
	"fmt"
	"sort"

	"wardrobe-rental-backend/internal/domain"
	"wardrobe-rental-backend/internal/logger"
	"wardrobe-rental-backend/internal/repository"
	"wardrobe-rental-backend/internal/utils"
)

// lineOwnedBy trusts the line's own snapshot. An item that became a partner
// piece later does not claim lines booked before that.
func lineOwnedBy(li domain.LineItem, partnerID string) bool {
	return li.IsCollaborated && li.OwnerID != nil && *li.OwnerID == partnerID
}

// ComputePayout sums a partner's revenue across all bookings regardless of
// status. OwnerShare is the amount captured on each line at booking time.
func ComputePayout(partnerID string, items map[string]domain.Item, bookings map[string]domain.Booking) domain.PartnerPayout {
	payout := domain.PartnerPayout{PartnerID: partnerID}
	perItem := make(map[string]*domain.PartnerItemPayout)

	for id, it := range items {
		if !it.OwnedBy(partnerID) {
			continue
		}
		payout.PartnerItemsCount++
		perItem[id] = &domain.PartnerItemPayout{ItemID: id, ItemName: it.Name}
	}

	for _, b := range bookings {
		for _, li := range b.Items {
			if !lineOwnedBy(li, partnerID) {
				continue
			}

			payout.TotalRevenue += li.CalculatedPrice
			payout.OwnerShare += li.OwnerShare

			row, ok := perItem[li.ItemID]
			if !ok {
				row = &domain.PartnerItemPayout{ItemID: li.ItemID, ItemName: li.ItemName}
				perItem[li.ItemID] = row
			}
			row.Bookings++
			row.Revenue += li.CalculatedPrice
			row.OwnerShare += li.OwnerShare
		}
	}

	payout.Items = make([]domain.PartnerItemPayout, 0, len(perItem))
	for _, row := range perItem {
		payout.Items = append(payout.Items, *row)
	}
	sort.Slice(payout.Items, func(i, j int) bool {
		if payout.Items[i].Revenue != payout.Items[j].Revenue {
			return payout.Items[i].Revenue > payout.Items[j].Revenue
		}
		return payout.Items[i].ItemID < payout.Items[j].ItemID
	})
	return payout
}

// SharePercentOf is the partner percentage captured on a line. Lines stored
// before the percentage was kept fall back to their share over their price.
func SharePercentOf(li domain.LineItem) float64 {
	if !li.IsCollaborated {
		return 0
	}
	if li.OwnerSharePercent > 0 {
		return li.OwnerSharePercent
	}
	if li.CalculatedPrice > 0 {
		return li.OwnerShare * 100 / li.CalculatedPrice
	}
	return 0
}

// lineShare is the partner's cut of a priced line.
func lineShare(li domain.LineItem) float64 {
	if !li.IsCollaborated || li.OwnerSharePercent <= 0 {
		return 0
	}
	return utils.RoundMoney(li.CalculatedPrice * li.OwnerSharePercent / 100)
}

type partnerService struct {
	itemRepo    repository.ItemRepository
	bookingRepo repository.BookingRepository
}

func NewPartnerService(itemRepo repository.ItemRepository, bookingRepo repository.BookingRepository) PartnerService {
	return &partnerService{itemRepo: itemRepo, bookingRepo: bookingRepo}
}

func (s *partnerService) GetPayout(ctx context.Context, partnerID string) (*domain.PartnerPayout, error) {
	logger.EnterMethod("partnerService.GetPayout", "partnerID", partnerID)

	if partnerID == "" {
		return nil, fmt.Errorf("%w: partner id is required", domain.ErrInvalidInput)
	}

	items, err := s.itemRepo.ListAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("partnerService.GetPayout", err, "partnerID", partnerID)
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		logger.ExitMethodWithError("partnerService.GetPayout", err, "partnerID", partnerID)
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	payout := ComputePayout(partnerID, items, bookings)
	logger.ExitMethod("partnerService.GetPayout", "partnerID", partnerID,
		"items", payout.PartnerItemsCount, "totalRevenue", payout.TotalRevenue)
	return &payout, nil
}
