package notify

import (
	"reflect"
	"strings"
	"testing"

	"execnotify/models"
)

func sampleEvent() models.ExecutionEvent {
	return models.ExecutionEvent{
		ExecID:    "A1",
		Symbol:    "BTCUSDT",
		Side:      "Buy",
		ExecPrice: "50000",
		ExecQty:   "0.01",
		ExecType:  "Trade",
	}
}

func TestFormatExecutionBuySide(t *testing.T) {
	msg := FormatExecution(sampleEvent())

	if !strings.Contains(msg.Text, "BTCUSDT") || !strings.Contains(msg.Text, "🟢") {
		t.Fatalf("unexpected title: %q", msg.Text)
	}
	if len(msg.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(msg.Attachments))
	}
	att := msg.Attachments[0]
	if att.Color != colorLong {
		t.Errorf("buy fill should use the long color, got %q", att.Color)
	}
	if att.Footer != "execId: A1" {
		t.Errorf("footer missing raw id: %q", att.Footer)
	}

	got := map[string]string{}
	for _, f := range att.Fields {
		got[f.Title] = f.Value
	}
	want := map[string]string{"Symbol": "BTCUSDT", "Side": "LONG", "Price": "50000", "Quantity": "0.01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("fields = %v, want %v", got, want)
	}
}

func TestFormatExecutionSellSide(t *testing.T) {
	ev := sampleEvent()
	ev.Side = "Sell"
	msg := FormatExecution(ev)

	att := msg.Attachments[0]
	if att.Color != colorShort {
		t.Errorf("sell fill should use the short color, got %q", att.Color)
	}
	if !strings.Contains(msg.Text, "🔴") {
		t.Errorf("sell title missing red marker: %q", msg.Text)
	}
	for _, f := range att.Fields {
		if f.Title == "Side" && f.Value != "SHORT" {
			t.Errorf("side label = %q, want SHORT", f.Value)
		}
	}
}

func TestFormatExecutionIsPure(t *testing.T) {
	ev := sampleEvent()
	first := FormatExecution(ev)
	second := FormatExecution(ev)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("same event produced different payloads")
	}
}

func TestFormatExecutionMissingFields(t *testing.T) {
	msg := FormatExecution(models.ExecutionEvent{ExecID: "A2", Side: "Sell"})
	if len(msg.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(msg.Attachments))
	}
	// Missing symbol/price/qty render empty, never abort the event.
	for _, f := range msg.Attachments[0].Fields {
		if f.Title == "Side" && f.Value == "" {
			t.Error("side label missing")
		}
	}
	if msg.Attachments[0].Footer != "execId: A2" {
		t.Errorf("unexpected footer: %q", msg.Attachments[0].Footer)
	}
}

func TestFormatStartup(t *testing.T) {
	msg := FormatStartup("ExecNotify", "1.0.0", "testnet")
	for _, part := range []string{"ExecNotify", "1.0.0", "testnet", "🟢"} {
		if !strings.Contains(msg.Text, part) {
			t.Errorf("startup message missing %q: %q", part, msg.Text)
		}
	}
}
