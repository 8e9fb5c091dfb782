package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventMovementRecorded = "stock.movement.recorded"
	EventItemCreated      = "stock.item.created"
	EventItemDeleted      = "stock.item.deleted"
	EventLowStock         = "stock.alert.low_stock"
	EventExpiringSoon     = "stock.alert.expiring"
	EventPickingCompleted = "stock.picking.completed"
)

// Exchange names
const (
	ExchangeStockEvents = "stock.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            uuid.New().String(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// MovementRecordedEvent is emitted after a transaction row is committed.
type MovementRecordedEvent struct {
	MovementID   string `json:"movement_id"`
	ItemName     string `json:"item_name"`
	MovementType string `json:"movement_type"`
	PackQuantity int    `json:"pack_quantity"`
	UnitQuantity int    `json:"unit_quantity"`
	Performer    string `json:"performer"`
}

// LowStockEvent is emitted when a transaction leaves an item below its
// minimum pack count.
type LowStockEvent struct {
	ItemName   string `json:"item_name"`
	TotalPacks int    `json:"total_packs"`
	MinPacks   int    `json:"min_packs"`
}

// ExpiringSoonEvent is emitted when a variant falls inside the expiry
// warning window.
type ExpiringSoonEvent struct {
	ItemName        string `json:"item_name"`
	Location        string `json:"location"`
	Expiry          string `json:"expiry"`
	DaysUntilExpiry int    `json:"days_until_expiry"`
}

// ItemEvent is emitted on item create/delete.
type ItemEvent struct {
	ItemName string `json:"item_name"`
	Category string `json:"category"`
}

// PickingCompletedEvent is emitted when a picking list is completed.
type PickingCompletedEvent struct {
	PickingID string `json:"picking_id"`
	Name      string `json:"name"`
	PickedBy  string `json:"picked_by"`
	LineCount int    `json:"line_count"`
}
