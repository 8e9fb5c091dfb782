package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/cinestock/cinestock-backend/internal/stock/ledger"
	"github.com/cinestock/cinestock-backend/internal/stock/repository"
	"github.com/cinestock/cinestock-backend/pkg/actor"
	"github.com/cinestock/cinestock-backend/pkg/errors"
)

// CreatePickingRequest describes a new picking list.
type CreatePickingRequest struct {
	Name  string                   `json:"name" validate:"required"`
	Notes string                   `json:"notes,omitempty"`
	Lines []repository.PickingLine `json:"lines" validate:"required,min=1,dive"`
}

// CreatePicking creates a pending picking list. Stock is untouched
// until the list is completed.
func (s *StockService) CreatePicking(ctx context.Context, req CreatePickingRequest) (*repository.PickingList, error) {
	if len(req.Lines) == 0 {
		return nil, errors.Validation(map[string]string{"lines": "at least one line is required"})
	}
	for _, line := range req.Lines {
		if line.ItemName == "" {
			return nil, errors.Validation(map[string]string{"lines": "every line needs an item name"})
		}
		if line.PackQuantity <= 0 && line.UnitQuantity <= 0 {
			return nil, errors.Validation(map[string]string{"lines": "every line needs a positive quantity"})
		}
		if _, err := s.itemRepo.GetByName(ctx, line.ItemName); err != nil {
			return nil, err
		}
	}

	p := &repository.PickingList{
		SchemaVersion: repository.PickingSchemaVersion,
		ID:            uuid.New().String(),
		Name:          req.Name,
		Status:        repository.PickingPending,
		Lines:         req.Lines,
		Notes:         req.Notes,
		CreatedBy:     actor.FromContext(ctx).Performer(),
		CreatedAt:     s.clock.Now(),
	}

	if err := s.pickingRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info().Str("picking_id", p.ID).Str("name", p.Name).Msg("picking list created")
	return p, nil
}

// GetPicking returns one picking list.
func (s *StockService) GetPicking(ctx context.Context, id string) (*repository.PickingList, error) {
	return s.pickingRepo.GetByID(ctx, id)
}

// RecentPickings returns the most recent picking lists, newest first.
func (s *StockService) RecentPickings(ctx context.Context, limit int) ([]*repository.PickingList, error) {
	return s.pickingRepo.Recent(ctx, limit)
}

// CompletePicking applies every line of a pending list as an outgoing
// transaction, then marks the list done. Lines are independent rows:
// one failing row is recorded and the rest still run, matching batch
// transaction semantics.
func (s *StockService) CompletePicking(ctx context.Context, id string) (*repository.PickingList, []RowResult, error) {
	p, err := s.pickingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.Status != repository.PickingPending {
		return nil, nil, errors.Conflict("picking list is not pending")
	}

	rows := make([]ledger.TransactionRequest, len(p.Lines))
	for i, line := range p.Lines {
		rows[i] = ledger.TransactionRequest{
			Type:         ledger.MovementOutgoing,
			ItemName:     line.ItemName,
			PackQuantity: line.PackQuantity,
			UnitQuantity: line.UnitQuantity,
			Notes:        "picking: " + p.Name,
		}
	}
	results := s.ApplyTransactions(ctx, rows)

	now := s.clock.Now()
	p.Status = repository.PickingDone
	p.PickedBy = actor.FromContext(ctx).Performer()
	p.PickedAt = &now
	if err := s.pickingRepo.Save(ctx, p); err != nil {
		return nil, results, err
	}

	s.publisher.PublishPickingCompleted(ctx, p)
	s.logger.Info().Str("picking_id", p.ID).Msg("picking list completed")
	return p, results, nil
}

// CancelPicking marks a pending list cancelled without touching
// stock.
func (s *StockService) CancelPicking(ctx context.Context, id string) (*repository.PickingList, error) {
	p, err := s.pickingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != repository.PickingPending {
		return nil, errors.Conflict("picking list is not pending")
	}

	p.Status = repository.PickingCancelled
	p.CancelledBy = actor.FromContext(ctx).Performer()
	if err := s.pickingRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
