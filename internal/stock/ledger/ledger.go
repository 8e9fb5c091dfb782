package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/cinestock/cinestock-backend/pkg/clock"
	"github.com/cinestock/cinestock-backend/pkg/errors"
)

// MovementType classifies a stock transaction.
type MovementType string

const (
	MovementIncoming MovementType = "incoming"
	MovementOutgoing MovementType = "outgoing"
)

// OverdraftPolicy controls what happens when an outgoing request
// exceeds available stock.
type OverdraftPolicy string

const (
	// OverdraftAllow depletes stock to zero and silently absorbs the
	// unfulfilled remainder. Totals may legitimately reach zero but
	// never go negative.
	OverdraftAllow OverdraftPolicy = "allow"
)

// TransactionRequest is one stock event to apply to a single item.
// UnitPrice is a pointer so a missing price on incoming can be told
// apart from an explicit zero.
type TransactionRequest struct {
	Type         MovementType `json:"type" validate:"required,oneof=incoming outgoing"`
	ItemName     string       `json:"item_name" validate:"required"`
	PackQuantity int          `json:"pack_quantity" validate:"gte=0"`
	UnitQuantity int          `json:"unit_quantity" validate:"gte=0"`
	Location     string       `json:"location,omitempty"`
	Expiry       string       `json:"expiry,omitempty"`
	UnitPrice    *float64     `json:"unit_price,omitempty"`
	Notes        string       `json:"notes,omitempty"`
}

// Movement is the immutable record of one applied transaction.
type Movement struct {
	SchemaVersion int          `json:"schema_version"`
	ID            string       `json:"id"`
	ItemName      string       `json:"item_name"`
	Type          MovementType `json:"type"`
	PackQuantity  int          `json:"pack_quantity"`
	UnitQuantity  int          `json:"unit_quantity"`
	Location      string       `json:"location,omitempty"`
	Expiry        string       `json:"expiry,omitempty"`
	UnitPrice     float64      `json:"unit_price,omitempty"`
	Notes         string       `json:"notes,omitempty"`
	Performer     string       `json:"performer"`
	Timestamp     time.Time    `json:"timestamp"`
}

// Engine applies transactions to items. The clock stamps movement
// timestamps; inject a fixed clock in tests.
type Engine struct {
	clock  clock.Clock
	policy OverdraftPolicy
}

// NewEngine creates a ledger engine with the overdraft-allow policy.
func NewEngine(clk clock.Clock) *Engine {
	return &Engine{clock: clk, policy: OverdraftAllow}
}

// Validate checks the request preconditions. It runs before any
// mutation, so a failing request leaves the item untouched.
func (e *Engine) Validate(req TransactionRequest) error {
	details := map[string]string{}

	if req.ItemName == "" {
		details["item_name"] = "item name is required"
	}
	if req.Type != MovementIncoming && req.Type != MovementOutgoing {
		details["type"] = "type must be incoming or outgoing"
	}
	if req.PackQuantity < 0 || req.UnitQuantity < 0 {
		details["quantity"] = "quantities must not be negative"
	} else if req.PackQuantity == 0 && req.UnitQuantity == 0 {
		details["quantity"] = "at least one of pack or unit quantity must be positive"
	}
	if !ValidExpiry(req.Expiry) {
		details["expiry"] = "expiry must be a date in YYYY-MM-DD format"
	}

	if req.Type == MovementIncoming {
		if req.Location == "" {
			details["location"] = "location is required for incoming stock"
		}
		if req.UnitPrice == nil {
			details["unit_price"] = "unit price is required for incoming stock"
		} else if *req.UnitPrice < 0 {
			details["unit_price"] = "unit price must not be negative"
		}
	}

	if len(details) > 0 {
		return errors.Validation(details)
	}
	return nil
}

// Apply validates the request and applies it to the item, returning
// the movement record. The item's variants and totals are mutated in
// place; the caller owns persistence of both item and movement.
func (e *Engine) Apply(item *Item, req TransactionRequest, performer string) (*Movement, error) {
	if err := e.Validate(req); err != nil {
		return nil, err
	}

	switch req.Type {
	case MovementIncoming:
		e.applyIncoming(item, req)
	case MovementOutgoing:
		e.applyOutgoing(item, req)
	}

	item.RecomputeTotals()
	now := e.clock.Now()
	item.UpdatedAt = now

	mv := &Movement{
		SchemaVersion: MovementSchemaVersion,
		ID:            uuid.New().String(),
		ItemName:      item.Name,
		Type:          req.Type,
		PackQuantity:  req.PackQuantity,
		UnitQuantity:  req.UnitQuantity,
		Location:      req.Location,
		Expiry:        req.Expiry,
		Notes:         req.Notes,
		Performer:     performer,
		Timestamp:     now,
	}
	if req.UnitPrice != nil {
		mv.UnitPrice = *req.UnitPrice
	}
	return mv, nil
}

// applyIncoming merges the delivery into the batch matching
// (location, expiry), creating it when absent. The transaction price
// overwrites the variant price: last write wins, never averaged.
func (e *Engine) applyIncoming(item *Item, req TransactionRequest) {
	v := item.FindOrCreateVariant(req.Location, req.Expiry)
	v.PackQuantity += req.PackQuantity
	v.UnitQuantity += req.UnitQuantity
	v.UnitPrice = *req.UnitPrice
}

// applyOutgoing depletes variants oldest-expiry-first. Pack and unit
// counters deplete independently and may exhaust from different
// variants. Under OverdraftAllow a shortfall is absorbed without
// error once stock runs out.
func (e *Engine) applyOutgoing(item *Item, req TransactionRequest) {
	item.SortByExpiry()

	packsNeeded := req.PackQuantity
	unitsNeeded := req.UnitQuantity

	for _, v := range item.Variants {
		if packsNeeded == 0 && unitsNeeded == 0 {
			break
		}

		if packsNeeded > 0 {
			take := min(packsNeeded, v.PackQuantity)
			v.PackQuantity -= take
			packsNeeded -= take
		}
		if unitsNeeded > 0 {
			take := min(unitsNeeded, v.UnitQuantity)
			v.UnitQuantity -= take
			unitsNeeded -= take
		}
	}

	item.Prune()
}
