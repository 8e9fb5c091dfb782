package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinestock/cinestock-backend/internal/stock/ledger"
)

func (f *fixture) seedCatalog(t *testing.T) {
	t.Helper()

	for _, tc := range []struct {
		name, category string
	}{
		{"Popcorn Box", "concessions"},
		{"Popcorn Refill", "concessions"},
		{"Cola Cup", "drinks"},
	} {
		req := popcornRequest()
		req.Name = tc.name
		req.Category = tc.category
		_, err := f.svc.CreateItem(testCtx(), req)
		require.NoError(t, err)
	}
}

func TestSnapshotFilters(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	all, err := f.svc.Snapshot(testCtx(), "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byName, err := f.svc.Snapshot(testCtx(), "popcorn", "")
	require.NoError(t, err)
	require.Len(t, byName, 2)
	assert.Equal(t, "Popcorn Box", byName[0].Name)

	byCategory, err := f.svc.Snapshot(testCtx(), "", "drinks")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Cola Cup", byCategory[0].Name)

	// Category is exact match, not substring.
	none, err := f.svc.Snapshot(testCtx(), "", "drink")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLowStockKeepsInsertionOrder(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	// Stock up the middle item only; the other two stay below minimum.
	f.mustReceive(t, "Popcorn Refill", 10, "A1", "")

	low, err := f.svc.LowStock(testCtx())
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Popcorn Box", low[0].Name)
	assert.Equal(t, "Cola Cup", low[1].Name)
}

func TestExpiringSortedByDaysAscending(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)

	f.mustReceive(t, "Popcorn Box", 2, "A1", "2024-02-20")
	f.mustReceive(t, "Cola Cup", 3, "B1", "2024-02-05")
	f.mustReceive(t, "Popcorn Refill", 1, "C1", "2024-06-01")
	f.mustReceive(t, "Popcorn Box", 4, "SHELF", "")

	expiring, err := f.svc.Expiring(testCtx(), 0)
	require.NoError(t, err)
	require.Len(t, expiring, 2, "far-future and non-perishable variants stay out")
	assert.Equal(t, "Cola Cup", expiring[0].ItemName)
	assert.Equal(t, 4, expiring[0].DaysUntilExpiry)
	assert.Equal(t, "Popcorn Box", expiring[1].ItemName)
	assert.Equal(t, 19, expiring[1].DaysUntilExpiry)
}

func TestRecentMovementsFilters(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)
	f.mustReceive(t, "Popcorn Box", 5, "A1", "")

	_, _, err := f.svc.ApplyTransaction(testCtx(), ledger.TransactionRequest{
		Type:         ledger.MovementOutgoing,
		ItemName:     "Popcorn Box",
		PackQuantity: 1,
	})
	require.NoError(t, err)

	outgoing, err := f.svc.RecentMovements(testCtx(), 0, "outgoing", "")
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, ledger.MovementOutgoing, outgoing[0].Type)

	today, err := f.svc.RecentMovements(testCtx(), 0, "", testNow.Format(ledger.ExpiryLayout))
	require.NoError(t, err)
	assert.Len(t, today, 2)

	otherDay, err := f.svc.RecentMovements(testCtx(), 0, "", "1999-01-01")
	require.NoError(t, err)
	assert.Empty(t, otherDay)
}

func TestMovementHistoryDelegatesDateRange(t *testing.T) {
	f := newFixture(t)
	f.seedCatalog(t)
	f.mustReceive(t, "Popcorn Box", 2, "A1", "")

	history, err := f.svc.MovementHistory(testCtx(), testNow.Format(ledger.ExpiryLayout), testNow.Format(ledger.ExpiryLayout))
	require.NoError(t, err)
	assert.Len(t, history, 1)

	empty, err := f.svc.MovementHistory(testCtx(), "2020-01-01", "2020-12-31")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRenderInventoryCSV(t *testing.T) {
	f := newFixture(t)

	req := popcornRequest()
	req.Name = `Popcorn "Jumbo", Salted`
	_, err := f.svc.CreateItem(testCtx(), req)
	require.NoError(t, err)
	f.mustReceive(t, req.Name, 2, "A1", "2024-03-01")

	items, err := f.svc.ListItems(testCtx())
	require.NoError(t, err)

	out, err := f.svc.RenderInventoryCSV(items)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "item,category,location,expiry,pack_quantity,unit_quantity,unit_price,total_packs,total_units,min_packs,value", lines[0])
	// Commas and quotes in values are quoted with internal quotes doubled.
	assert.True(t, strings.HasPrefix(lines[1], `"Popcorn ""Jumbo"", Salted",`), "got %q", lines[1])
	assert.Contains(t, lines[1], "4.50")
}

func TestRenderInventoryCSVEmptyItemGetsOneRow(t *testing.T) {
	f := newFixture(t)
	f.mustCreatePopcorn(t)

	items, err := f.svc.ListItems(testCtx())
	require.NoError(t, err)

	out, err := f.svc.RenderInventoryCSV(items)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Popcorn Box,concessions,,,0,0,,0,0,5,0.00", lines[1])
}

func TestRenderLowStockCSV(t *testing.T) {
	f := newFixture(t)
	f.mustCreatePopcorn(t)
	f.mustReceive(t, "Popcorn Box", 2, "A1", "")

	low, err := f.svc.LowStock(testCtx())
	require.NoError(t, err)

	out, err := f.svc.RenderLowStockCSV(low)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "item,category,total_packs,min_packs,shortfall", lines[0])
	assert.Equal(t, "Popcorn Box,concessions,2,5,3", lines[1])
}

func TestRenderExpiringCSV(t *testing.T) {
	f := newFixture(t)
	f.mustCreatePopcorn(t)
	f.mustReceive(t, "Popcorn Box", 3, "A1", "2024-02-11")

	expiring, err := f.svc.Expiring(testCtx(), 0)
	require.NoError(t, err)

	out, err := f.svc.RenderExpiringCSV(expiring)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "item,category,location,expiry,days_until_expiry,pack_quantity,unit_quantity", lines[0])
	assert.Equal(t, "Popcorn Box,concessions,A1,2024-02-11,10,3,0", lines[1])
}

func TestRenderMovementsCSV(t *testing.T) {
	f := newFixture(t)

	movements := []*ledger.Movement{{
		ID:           "mv-1",
		ItemName:     "Popcorn Box",
		Type:         ledger.MovementOutgoing,
		PackQuantity: 3,
		Performer:    "dana",
		Notes:        "evening show, screen 4",
		Timestamp:    time.Date(2024, 2, 1, 18, 30, 0, 0, time.UTC),
	}}

	out, err := f.svc.RenderMovementsCSV(movements)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "timestamp,item,type,pack_quantity,unit_quantity,location,expiry,unit_price,performer,notes", lines[0])
	assert.Equal(t, `2024-02-01 18:30:00,Popcorn Box,outgoing,3,0,,,0.00,dana,"evening show, screen 4"`, lines[1])
}
