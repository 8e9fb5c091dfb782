package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"

	"github.com/cinestock/cinestock-backend/internal/stock/ledger"
)

// Snapshot returns the inventory, optionally filtered by a
// case-insensitive name substring and an exact category match.
func (s *StockService) Snapshot(ctx context.Context, nameFilter, category string) ([]*ledger.Item, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]*ledger.Item, 0, len(items))
	for _, item := range items {
		if matchesFilter(item, nameFilter, category) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// LowStock returns items whose pack total is below their minimum, in
// item insertion order.
func (s *StockService) LowStock(ctx context.Context) ([]*ledger.Item, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	low := make([]*ledger.Item, 0)
	for _, item := range items {
		if item.IsLowStock() {
			low = append(low, item)
		}
	}
	return low, nil
}

// ExpiringVariant is one batch inside the expiry warning window.
type ExpiringVariant struct {
	ItemName        string `json:"item_name"`
	Category        string `json:"category"`
	Location        string `json:"location"`
	Expiry          string `json:"expiry"`
	PackQuantity    int    `json:"pack_quantity"`
	UnitQuantity    int    `json:"unit_quantity"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
}

// Expiring returns all variants expiring within horizonDays, sorted
// ascending by days until expiry. A horizon of zero or less uses the
// default window.
func (s *StockService) Expiring(ctx context.Context, horizonDays int) ([]ExpiringVariant, error) {
	if horizonDays <= 0 {
		horizonDays = ledger.ExpiryHorizonDays
	}

	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	expiring := make([]ExpiringVariant, 0)
	for _, item := range items {
		for _, v := range item.Variants {
			if !v.IsExpiringSoon(now, horizonDays) {
				continue
			}
			days, _ := v.DaysUntilExpiry(now)
			expiring = append(expiring, ExpiringVariant{
				ItemName:        item.Name,
				Category:        item.Category,
				Location:        v.Location,
				Expiry:          v.Expiry,
				PackQuantity:    v.PackQuantity,
				UnitQuantity:    v.UnitQuantity,
				DaysUntilExpiry: days,
			})
		}
	}

	sort.SliceStable(expiring, func(a, b int) bool {
		return expiring[a].DaysUntilExpiry < expiring[b].DaysUntilExpiry
	})
	return expiring, nil
}

// RecentMovements returns the most recent movements, newest first.
// typeFilter narrows to incoming or outgoing; dateFilter narrows to a
// single day. Empty filters match everything.
func (s *StockService) RecentMovements(ctx context.Context, limit int, typeFilter, dateFilter string) ([]*ledger.Movement, error) {
	movements, err := s.movementRepo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if typeFilter == "" && dateFilter == "" {
		return movements, nil
	}

	filtered := make([]*ledger.Movement, 0, len(movements))
	for _, mv := range movements {
		if typeFilter != "" && string(mv.Type) != typeFilter {
			continue
		}
		if dateFilter != "" && mv.Timestamp.Format(ledger.ExpiryLayout) != dateFilter {
			continue
		}
		filtered = append(filtered, mv)
	}
	return filtered, nil
}

// MovementHistory returns movements inside an inclusive date range.
func (s *StockService) MovementHistory(ctx context.Context, start, end string) ([]*ledger.Movement, error) {
	return s.movementRepo.ByDateRange(ctx, start, end)
}

// RenderInventoryCSV renders the inventory snapshot as CSV with a
// header row. One row per variant; items without variants get a
// single row with empty batch columns.
func (s *StockService) RenderInventoryCSV(items []*ledger.Item) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"item", "category", "location", "expiry", "pack_quantity", "unit_quantity", "unit_price", "total_packs", "total_units", "min_packs", "value"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, item := range items {
		if len(item.Variants) == 0 {
			row := []string{item.Name, item.Category, "", "", "0", "0", "",
				strconv.Itoa(item.TotalPacks), strconv.Itoa(item.TotalUnits),
				strconv.Itoa(item.MinPacks), "0.00"}
			if err := w.Write(row); err != nil {
				return nil, err
			}
			continue
		}

		for _, v := range item.Variants {
			value := v.UnitPrice * ledger.Normalized(v.PackQuantity, v.UnitQuantity, item.UnitsPerPack)
			row := []string{
				item.Name,
				item.Category,
				v.Location,
				v.Expiry,
				strconv.Itoa(v.PackQuantity),
				strconv.Itoa(v.UnitQuantity),
				formatMoney(v.UnitPrice),
				strconv.Itoa(item.TotalPacks),
				strconv.Itoa(item.TotalUnits),
				strconv.Itoa(item.MinPacks),
				formatMoney(value),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderMovementsCSV renders a movement list as CSV with a header row.
func (s *StockService) RenderMovementsCSV(movements []*ledger.Movement) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"timestamp", "item", "type", "pack_quantity", "unit_quantity", "location", "expiry", "unit_price", "performer", "notes"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, mv := range movements {
		row := []string{
			mv.Timestamp.Format("2006-01-02 15:04:05"),
			mv.ItemName,
			string(mv.Type),
			strconv.Itoa(mv.PackQuantity),
			strconv.Itoa(mv.UnitQuantity),
			mv.Location,
			mv.Expiry,
			formatMoney(mv.UnitPrice),
			mv.Performer,
			mv.Notes,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderExpiringCSV renders the expiring-variant report as CSV.
func (s *StockService) RenderExpiringCSV(expiring []ExpiringVariant) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"item", "category", "location", "expiry", "days_until_expiry", "pack_quantity", "unit_quantity"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range expiring {
		row := []string{
			e.ItemName,
			e.Category,
			e.Location,
			e.Expiry,
			strconv.Itoa(e.DaysUntilExpiry),
			strconv.Itoa(e.PackQuantity),
			strconv.Itoa(e.UnitQuantity),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderLowStockCSV renders the low-stock report as CSV.
func (s *StockService) RenderLowStockCSV(items []*ledger.Item) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"item", "category", "total_packs", "min_packs", "shortfall"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, item := range items {
		row := []string{
			item.Name,
			item.Category,
			strconv.Itoa(item.TotalPacks),
			strconv.Itoa(item.MinPacks),
			strconv.Itoa(item.MinPacks - item.TotalPacks),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
