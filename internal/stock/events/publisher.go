// Package events publishes stock domain events. Publishing is
// best-effort: failures are logged and never fail the transaction
// that triggered them.
package events

import (
	"context"

	"github.com/cinestock/cinestock-backend/internal/stock/ledger"
	"github.com/cinestock/cinestock-backend/internal/stock/repository"
	"github.com/cinestock/cinestock-backend/pkg/logger"
	"github.com/cinestock/cinestock-backend/pkg/messaging"
)

// Transport delivers serialized events to the broker.
type Transport interface {
	Publish(ctx context.Context, eventType string, data interface{}) error
}

// StockEventPublisher publishes stock-related events. A nil publisher
// is valid and drops everything, so services can run without a broker.
type StockEventPublisher struct {
	publisher Transport
	logger    *logger.Logger
}

// NewStockEventPublisher creates a new stock event publisher
func NewStockEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*StockEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeStockEvents, "stock-service", log)
	if err != nil {
		return nil, err
	}

	return &StockEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// NewStockEventPublisherWithTransport creates a publisher over a
// custom transport. Used by tests.
func NewStockEventPublisherWithTransport(t Transport, log *logger.Logger) *StockEventPublisher {
	return &StockEventPublisher{publisher: t, logger: log}
}

// PublishMovementRecorded publishes a movement recorded event
func (p *StockEventPublisher) PublishMovementRecorded(ctx context.Context, mv *ledger.Movement) {
	if p == nil {
		return
	}

	data := messaging.MovementRecordedEvent{
		MovementID:   mv.ID,
		ItemName:     mv.ItemName,
		MovementType: string(mv.Type),
		PackQuantity: mv.PackQuantity,
		UnitQuantity: mv.UnitQuantity,
		Performer:    mv.Performer,
	}

	if err := p.publisher.Publish(ctx, messaging.EventMovementRecorded, data); err != nil {
		p.logger.Error().Err(err).Str("movement_id", mv.ID).Msg("failed to publish movement recorded event")
	}
}

// PublishLowStock publishes a low stock alert event
func (p *StockEventPublisher) PublishLowStock(ctx context.Context, item *ledger.Item) {
	if p == nil {
		return
	}

	data := messaging.LowStockEvent{
		ItemName:   item.Name,
		TotalPacks: item.TotalPacks,
		MinPacks:   item.MinPacks,
	}

	if err := p.publisher.Publish(ctx, messaging.EventLowStock, data); err != nil {
		p.logger.Error().Err(err).Str("item", item.Name).Msg("failed to publish low stock event")
	}
}

// PublishExpiringSoon publishes an expiring stock alert event
func (p *StockEventPublisher) PublishExpiringSoon(ctx context.Context, item *ledger.Item, v *ledger.Variant, days int) {
	if p == nil {
		return
	}

	data := messaging.ExpiringSoonEvent{
		ItemName:        item.Name,
		Location:        v.Location,
		Expiry:          v.Expiry,
		DaysUntilExpiry: days,
	}

	if err := p.publisher.Publish(ctx, messaging.EventExpiringSoon, data); err != nil {
		p.logger.Error().Err(err).Str("item", item.Name).Msg("failed to publish expiring stock event")
	}
}

// PublishItemCreated publishes an item created event
func (p *StockEventPublisher) PublishItemCreated(ctx context.Context, item *ledger.Item) {
	if p == nil {
		return
	}

	data := messaging.ItemEvent{ItemName: item.Name, Category: item.Category}
	if err := p.publisher.Publish(ctx, messaging.EventItemCreated, data); err != nil {
		p.logger.Error().Err(err).Str("item", item.Name).Msg("failed to publish item created event")
	}
}

// PublishItemDeleted publishes an item deleted event
func (p *StockEventPublisher) PublishItemDeleted(ctx context.Context, item *ledger.Item) {
	if p == nil {
		return
	}

	data := messaging.ItemEvent{ItemName: item.Name, Category: item.Category}
	if err := p.publisher.Publish(ctx, messaging.EventItemDeleted, data); err != nil {
		p.logger.Error().Err(err).Str("item", item.Name).Msg("failed to publish item deleted event")
	}
}

// PublishPickingCompleted publishes a picking completed event
func (p *StockEventPublisher) PublishPickingCompleted(ctx context.Context, pick *repository.PickingList) {
	if p == nil {
		return
	}

	data := messaging.PickingCompletedEvent{
		PickingID: pick.ID,
		Name:      pick.Name,
		PickedBy:  pick.PickedBy,
		LineCount: len(pick.Lines),
	}

	if err := p.publisher.Publish(ctx, messaging.EventPickingCompleted, data); err != nil {
		p.logger.Error().Err(err).Str("picking_id", pick.ID).Msg("failed to publish picking completed event")
	}
}
