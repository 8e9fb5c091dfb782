package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinestock/cinestock-backend/internal/stock/repository"
	"github.com/cinestock/cinestock-backend/internal/stock/service"
	"github.com/cinestock/cinestock-backend/pkg/errors"
)

func TestCreatePicking(t *testing.T) {
	f := newFixture(t)
	f.mustCreatePopcorn(t)

	p, err := f.svc.CreatePicking(testCtx(), service.CreatePickingRequest{
		Name:  "Evening show",
		Lines: []repository.PickingLine{{ItemName: "Popcorn Box", PackQuantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, repository.PickingPending, p.Status)
	assert.Equal(t, "dana", p.CreatedBy)
	assert.Equal(t, testNow, p.CreatedAt)

	got, err := f.svc.GetPicking(testCtx(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestCreatePickingValidation(t *testing.T) {
	f := newFixture(t)
	f.mustCreatePopcorn(t)

	_, err := f.svc.CreatePicking(testCtx(), service.CreatePickingRequest{Name: "Empty"})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = f.svc.CreatePicking(testCtx(), service.CreatePickingRequest{
		Name:  "Zero quantity",
		Lines: []repository.PickingLine{{ItemName: "Popcorn Box"}},
	})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = f.svc.CreatePicking(testCtx(), service.CreatePickingRequest{
		Name:  "Unknown item",
		Lines: []repository.PickingLine{{ItemName: "No Such Item", PackQuantity: 1}},
	})
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestCompletePickingAppliesOutgoing(t *testing.T) {
	f := newFixture(t)
	f.mustCreatePopcorn(t)
	f.mustReceive(t, "Popcorn Box", 10, "A1", "2024-03-01")

	p, err := f.svc.CreatePicking(testCtx(), service.CreatePickingRequest{
		Name:  "Evening show",
		Lines: []repository.PickingLine{{ItemName: "Popcorn Box", PackQuantity: 3}},
	})
	require.NoError(t, err)

	done, results, err := f.svc.CompletePicking(testCtx(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.PickingDone, done.Status)
	assert.Equal(t, "dana", done.PickedBy)
	require.NotNil(t, done.PickedAt)
	require.Len(t, results, 1)
	assert.Empty(t, results[0].Error)

	item, err := f.svc.GetItem(testCtx(), "Popcorn Box")
	require.NoError(t, err)
	assert.Equal(t, 7, item.TotalPacks)

	f.published.AssertEventPublished(t, "stock.picking.completed")
}

func TestCompletePickingRecordsFailedRowsAndContinues(t *testing.T) {
	f := newFixture(t)
	f.mustCreatePopcorn(t)
	f.mustReceive(t, "Popcorn Box", 10, "A1", "2024-03-01")

	p, err := f.svc.CreatePicking(testCtx(), service.CreatePickingRequest{
		Name: "Mixed",
		Lines: []repository.PickingLine{
			{ItemName: "Popcorn Box", PackQuantity: 1},
			{ItemName: "Popcorn Box", PackQuantity: 2},
		},
	})
	require.NoError(t, err)

	// Delete the item between creation and completion: both rows now
	// fail, but the list still completes.
	require.NoError(t, f.svc.DeleteItem(testCtx(), "Popcorn Box"))

	done, results, err := f.svc.CompletePicking(testCtx(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.PickingDone, done.Status)
	require.Len(t, results, 2)
	assert.NotEmpty(t, results[0].Error)
	assert.NotEmpty(t, results[1].Error)
}

func TestCompletePickingRequiresPending(t *testing.T) {
	f := newFixture(t)
	f.mustCreatePopcorn(t)

	p, err := f.svc.CreatePicking(testCtx(), service.CreatePickingRequest{
		Name:  "Once",
		Lines: []repository.PickingLine{{ItemName: "Popcorn Box", PackQuantity: 1}},
	})
	require.NoError(t, err)

	_, _, err = f.svc.CompletePicking(testCtx(), p.ID)
	require.NoError(t, err)

	_, _, err = f.svc.CompletePicking(testCtx(), p.ID)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestCancelPicking(t *testing.T) {
	f := newFixture(t)
	f.mustCreatePopcorn(t)
	f.mustReceive(t, "Popcorn Box", 5, "A1", "")

	p, err := f.svc.CreatePicking(testCtx(), service.CreatePickingRequest{
		Name:  "Changed plans",
		Lines: []repository.PickingLine{{ItemName: "Popcorn Box", PackQuantity: 2}},
	})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelPicking(testCtx(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, repository.PickingCancelled, cancelled.Status)
	assert.Equal(t, "dana", cancelled.CancelledBy)

	item, err := f.svc.GetItem(testCtx(), "Popcorn Box")
	require.NoError(t, err)
	assert.Equal(t, 5, item.TotalPacks, "cancelling must not touch stock")

	_, _, err = f.svc.CompletePicking(testCtx(), p.ID)
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestRecentPickingsNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.mustCreatePopcorn(t)

	var ids []string
	for _, name := range []string{"First", "Second", "Third"} {
		p, err := f.svc.CreatePicking(testCtx(), service.CreatePickingRequest{
			Name:  name,
			Lines: []repository.PickingLine{{ItemName: "Popcorn Box", PackQuantity: 1}},
		})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	recent, err := f.svc.RecentPickings(testCtx(), 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[2], recent[0].ID)
	assert.Equal(t, ids[1], recent[1].ID)
}
