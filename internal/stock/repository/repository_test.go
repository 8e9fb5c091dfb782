package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinestock/cinestock-backend/internal/stock/ledger"
	"github.com/cinestock/cinestock-backend/internal/stock/repository"
	"github.com/cinestock/cinestock-backend/pkg/docstore"
	"github.com/cinestock/cinestock-backend/pkg/errors"
)

func testItem(name string) *ledger.Item {
	return &ledger.Item{
		SchemaVersion: ledger.ItemSchemaVersion,
		ID:            "id-" + name,
		Name:          name,
		Category:      "concessions",
		UnitSingular:  "box",
		UnitPlural:    "boxes",
		PackSingular:  "carton",
		PackPlural:    "cartons",
		UnitsPerPack:  24,
		MinPacks:      5,
	}
}

func TestItemRepositorySaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewItemRepository(docstore.NewMemory())

	item := testItem("Popcorn Box")
	item.Variants = []*ledger.Variant{{Location: "A1", Expiry: "2024-03-01", UnitPrice: 4.5, PackQuantity: 10}}
	item.TotalPacks = 10
	require.NoError(t, repo.Save(ctx, item))

	got, err := repo.GetByName(ctx, "Popcorn Box")
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
	assert.Equal(t, 10, got.TotalPacks)
	require.Len(t, got.Variants, 1)
	assert.Equal(t, "A1", got.Variants[0].Location)
}

func TestItemRepositoryGetByNameNotFound(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewItemRepository(docstore.NewMemory())

	_, err := repo.GetByName(ctx, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestItemRepositoryListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewItemRepository(docstore.NewMemory())

	for _, name := range []string{"Popcorn Box", "Cola Cup", "Nacho Tray"} {
		require.NoError(t, repo.Save(ctx, testItem(name)))
	}
	// Re-saving must not move the item to the end.
	require.NoError(t, repo.Save(ctx, testItem("Popcorn Box")))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Popcorn Box", items[0].Name)
	assert.Equal(t, "Cola Cup", items[1].Name)
	assert.Equal(t, "Nacho Tray", items[2].Name)
}

func TestItemRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewItemRepository(docstore.NewMemory())

	require.NoError(t, repo.Save(ctx, testItem("Popcorn Box")))
	require.NoError(t, repo.Delete(ctx, "Popcorn Box"))

	_, err := repo.GetByName(ctx, "Popcorn Box")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = repo.Delete(ctx, "Popcorn Box")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestItemRepositoryPersistenceErrorPropagates(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemory()
	repo := repository.NewItemRepository(store)

	store.FailNext = fmt.Errorf("connection reset")
	err := repo.Save(ctx, testItem("Popcorn Box"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPersistence))

	// FailNext is consumed; the next call succeeds.
	require.NoError(t, repo.Save(ctx, testItem("Popcorn Box")))
}

func appendMovement(t *testing.T, repo *repository.MovementRepository, id string, ts time.Time) {
	t.Helper()
	require.NoError(t, repo.Append(context.Background(), &ledger.Movement{
		SchemaVersion: ledger.MovementSchemaVersion,
		ID:            id,
		ItemName:      "Popcorn Box",
		Type:          ledger.MovementIncoming,
		PackQuantity:  1,
		Performer:     "dana",
		Timestamp:     ts,
	}))
}

func TestMovementRepositoryRecentNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMovementRepository(docstore.NewMemory())

	base := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		appendMovement(t, repo, fmt.Sprintf("mv-%d", i), base.Add(time.Duration(i)*time.Hour))
	}

	recent, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "mv-4", recent[0].ID)
	assert.Equal(t, "mv-3", recent[1].ID)
	assert.Equal(t, "mv-2", recent[2].ID)
}

func TestMovementRepositoryByDateRangeInclusive(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMovementRepository(docstore.NewMemory())

	appendMovement(t, repo, "before", time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC))
	appendMovement(t, repo, "start-day", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	appendMovement(t, repo, "middle", time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC))
	appendMovement(t, repo, "end-day", time.Date(2024, 2, 10, 23, 0, 0, 0, time.UTC))
	appendMovement(t, repo, "after", time.Date(2024, 2, 11, 0, 1, 0, 0, time.UTC))

	got, err := repo.ByDateRange(ctx, "2024-02-01", "2024-02-10")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "start-day", got[0].ID)
	assert.Equal(t, "middle", got[1].ID)
	assert.Equal(t, "end-day", got[2].ID)
}

func TestMovementRepositoryByDateRangeOpenEnded(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMovementRepository(docstore.NewMemory())

	appendMovement(t, repo, "old", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	appendMovement(t, repo, "new", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	got, err := repo.ByDateRange(ctx, "2024-02-01", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ID)

	got, err = repo.ByDateRange(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMovementRepositoryByItem(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMovementRepository(docstore.NewMemory())

	appendMovement(t, repo, "mv-1", time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, repo.Append(ctx, &ledger.Movement{
		ID: "mv-other", ItemName: "Cola Cup", Type: ledger.MovementOutgoing,
		PackQuantity: 1, Timestamp: time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC),
	}))

	got, err := repo.ByItem(ctx, "Popcorn Box")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mv-1", got[0].ID)
}

func TestPickingRepositoryRecentLimit(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPickingRepository(docstore.NewMemory())

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Save(ctx, &repository.PickingList{
			SchemaVersion: repository.PickingSchemaVersion,
			ID:            fmt.Sprintf("pick-%d", i),
			Name:          fmt.Sprintf("Screening %d", i),
			Status:        repository.PickingPending,
			CreatedBy:     "dana",
			CreatedAt:     time.Date(2024, 2, 1, 8+i, 0, 0, 0, time.UTC),
		}))
	}

	recent, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "pick-3", recent[0].ID)
	assert.Equal(t, "pick-2", recent[1].ID)
}

func TestPickingRepositoryStatusRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewPickingRepository(docstore.NewMemory())

	picked := time.Date(2024, 2, 2, 14, 0, 0, 0, time.UTC)
	p := &repository.PickingList{
		SchemaVersion: repository.PickingSchemaVersion,
		ID:            "pick-1",
		Name:          "Evening show",
		Status:        repository.PickingPending,
		Lines:         []repository.PickingLine{{ItemName: "Popcorn Box", PackQuantity: 2}},
		CreatedBy:     "dana",
		CreatedAt:     time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(ctx, p))

	p.Status = repository.PickingDone
	p.PickedBy = "omer"
	p.PickedAt = &picked
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByID(ctx, "pick-1")
	require.NoError(t, err)
	assert.Equal(t, repository.PickingDone, got.Status)
	assert.Equal(t, "omer", got.PickedBy)
	require.NotNil(t, got.PickedAt)
	assert.True(t, picked.Equal(*got.PickedAt))
	require.Len(t, got.Lines, 1)
}

func TestPickingRepositoryGetByIDNotFound(t *testing.T) {
	_, err := repository.NewPickingRepository(docstore.NewMemory()).GetByID(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
