package models

import (
	"encoding/json"
	"testing"
)

func TestFrameDecodeExecutionPush(t *testing.T) {
	raw := `{"topic":"execution","id":"msg-1","creationTime":1700000000000,` +
		`"data":[{"execId":"A1","symbol":"BTCUSDT","side":"Buy","execPrice":"50000","execQty":"0.01","execType":"Trade"}]}`

	var f Frame
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if f.Topic != TopicExecution {
		t.Fatalf("unexpected topic: %q", f.Topic)
	}
	if f.IsAuthAck() {
		t.Fatal("data push misclassified as auth ack")
	}

	var events []ExecutionEvent
	if err := json.Unmarshal(f.Data, &events); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.ExecID != "A1" || ev.Symbol != "BTCUSDT" || ev.Side != SideBuy ||
		ev.ExecPrice != "50000" || ev.ExecQty != "0.01" || ev.ExecType != ExecTypeTrade {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestFrameDecodeAuthAck(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		ack     bool
		success bool
	}{
		{"success", `{"op":"auth","success":true,"conn_id":"c1"}`, true, true},
		{"rejected", `{"op":"auth","success":false,"ret_msg":"error: invalid signature"}`, true, false},
		{"pong", `{"op":"pong","success":true}`, false, false},
	}
	for _, c := range cases {
		var f Frame
		if err := json.Unmarshal([]byte(c.raw), &f); err != nil {
			t.Fatalf("%s: unmarshal: %v", c.name, err)
		}
		if got := f.IsAuthAck(); got != c.ack {
			t.Errorf("%s: IsAuthAck = %v, want %v", c.name, got, c.ack)
		}
		if c.ack && *f.Success != c.success {
			t.Errorf("%s: success = %v, want %v", c.name, *f.Success, c.success)
		}
	}
}

func TestSubscribeRequestJSON(t *testing.T) {
	req := SubscribeRequest{Op: OpSubscribe, Args: []string{TopicExecution}, ReqID: "r-1"}
	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"op":"subscribe","args":["execution"],"req_id":"r-1"}`
	if string(data) != want {
		t.Fatalf("unexpected payload: %s", data)
	}
}
