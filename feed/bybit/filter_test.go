package bybit

import (
	"testing"

	"execnotify/models"
)

func validEvent() models.ExecutionEvent {
	return models.ExecutionEvent{
		ExecID:    "A1",
		Symbol:    "BTCUSDT",
		Side:      "Buy",
		ExecPrice: "50000",
		ExecQty:   "0.01",
		ExecType:  "Trade",
	}
}

func TestAcceptValidTrade(t *testing.T) {
	f := NewEventFilter(true)
	if !f.Accept(validEvent()) {
		t.Fatal("valid trade rejected")
	}
}

func TestRejectMissingExecID(t *testing.T) {
	f := NewEventFilter(true)
	ev := validEvent()
	ev.ExecID = ""
	if f.Accept(ev) {
		t.Fatal("event without execId accepted")
	}
}

func TestRejectDegenerateQuantity(t *testing.T) {
	f := NewEventFilter(true)
	for _, qty := range []string{"", "0", "0.0", "0.000"} {
		ev := validEvent()
		ev.ExecQty = qty
		if f.Accept(ev) {
			t.Errorf("event with quantity %q accepted", qty)
		}
	}

	ev := validEvent()
	ev.ExecQty = "0.001"
	if !f.Accept(ev) {
		t.Error("positive quantity rejected")
	}
	// Non-numeric quantities pass through; the formatter renders them as-is.
	ev.ExecQty = "n/a"
	if !f.Accept(ev) {
		t.Error("unparseable quantity rejected")
	}
}

func TestExecTypeRule(t *testing.T) {
	strict := NewEventFilter(true)
	lenient := NewEventFilter(false)

	for _, execType := range []string{"Funding", "AdlTrade", "BustTrade", "Delivery"} {
		ev := validEvent()
		ev.ExecType = execType
		if strict.Accept(ev) {
			t.Errorf("strict filter accepted execType %q", execType)
		}
		if !lenient.Accept(ev) {
			t.Errorf("lenient filter rejected execType %q", execType)
		}
	}

	// An absent execType is accepted under both variants.
	ev := validEvent()
	ev.ExecType = ""
	if !strict.Accept(ev) || !lenient.Accept(ev) {
		t.Error("event without execType rejected")
	}
}
