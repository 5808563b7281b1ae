package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/inkandthread/printshop-backend/pkg/enums"
)

// PricingBreakdown is the immutable quote snapshot copied onto an order at
// creation time. It is a tagged union: exactly one of Single or Multi is set,
// selected by Kind, so downstream readers match exhaustively instead of
// probing optional fields.
type PricingBreakdown struct {
	Kind   enums.BreakdownKind `json:"kind"`
	Single *QuoteBreakdown     `json:"single,omitempty"`
	Multi  *MultiGarmentQuote  `json:"multi,omitempty"`
}

// SingleBreakdown wraps a single-garment quote into a persisted snapshot.
func SingleBreakdown(quote QuoteBreakdown) PricingBreakdown {
	return PricingBreakdown{Kind: enums.BreakdownKindSingle, Single: &quote}
}

// MultiBreakdown wraps a multi-garment quote into a persisted snapshot.
func MultiBreakdown(quote MultiGarmentQuote) PricingBreakdown {
	return PricingBreakdown{Kind: enums.BreakdownKindMulti, Multi: &quote}
}

// Validate checks that the tag and payload agree.
func (b PricingBreakdown) Validate() error {
	switch b.Kind {
	case enums.BreakdownKindSingle:
		if b.Single == nil || b.Multi != nil {
			return fmt.Errorf("pricing breakdown: single kind requires single payload only")
		}
	case enums.BreakdownKindMulti:
		if b.Multi == nil || b.Single != nil {
			return fmt.Errorf("pricing breakdown: multi kind requires multi payload only")
		}
	default:
		return fmt.Errorf("pricing breakdown: unknown kind %q", b.Kind)
	}
	return nil
}

// Value implements driver.Valuer so the snapshot persists as jsonb.
func (b PricingBreakdown) Value() (driver.Value, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner for the jsonb column.
func (b *PricingBreakdown) Scan(value interface{}) error {
	if value == nil {
		*b = PricingBreakdown{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("pricing breakdown: unsupported scan type %T", value)
	}

	var decoded PricingBreakdown
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	if err := decoded.Validate(); err != nil {
		return err
	}
	*b = decoded
	return nil
}
