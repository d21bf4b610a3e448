package bybit

import (
	"strconv"

	"execnotify/models"
)

// EventFilter rejects execution records that are feed noise rather than
// fills worth notifying about.
type EventFilter struct {
	tradeOnly bool
}

// NewEventFilter returns a filter. When tradeOnly is set, execution types
// other than Trade (funding settlements, ADL, delivery) are rejected.
func NewEventFilter(tradeOnly bool) *EventFilter {
	return &EventFilter{tradeOnly: tradeOnly}
}

// Accept applies the rejection rules in order: missing identifier,
// non-trade execution type, degenerate quantity.
func (f *EventFilter) Accept(ev models.ExecutionEvent) bool {
	if ev.ExecID == "" {
		return false
	}
	if f.tradeOnly && ev.ExecType != "" && ev.ExecType != models.ExecTypeTrade {
		return false
	}
	if ev.ExecQty == "" || ev.ExecQty == "0" {
		return false
	}
	if qty, err := strconv.ParseFloat(ev.ExecQty, 64); err == nil && qty == 0 {
		return false
	}
	return true
}
