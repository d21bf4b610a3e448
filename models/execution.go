package models

import "encoding/json"

const (
	// TopicExecution is the private stream topic carrying account fills.
	TopicExecution = "execution"

	// ExecTypeTrade marks a regular trade execution. Other tags (Funding,
	// AdlTrade, BustTrade, Delivery) are settlement noise, not fills.
	ExecTypeTrade = "Trade"

	OpAuth      = "auth"
	OpSubscribe = "subscribe"
	OpPong      = "pong"

	SideBuy  = "Buy"
	SideSell = "Sell"
)

// Frame is the envelope of every inbound message on the Bybit v5 private
// stream. Control acknowledgements populate Op/Success, data pushes populate
// Topic/Data. Unknown shapes decode into the zero value and are ignored.
type Frame struct {
	Topic   string          `json:"topic"`
	Op      string          `json:"op"`
	Success *bool           `json:"success,omitempty"`
	RetMsg  string          `json:"ret_msg,omitempty"`
	ConnID  string          `json:"conn_id,omitempty"`
	ReqID   string          `json:"req_id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// IsAuthAck reports whether the frame acknowledges the auth request.
func (f *Frame) IsAuthAck() bool {
	return f.Op == OpAuth && f.Success != nil
}

// ExecutionEvent is one fill record from an execution push. Prices and
// quantities stay strings as delivered; the notifier never does arithmetic
// on them.
type ExecutionEvent struct {
	ExecID      string `json:"execId"`
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`
	OrderID     string `json:"orderId"`
	OrderLinkID string `json:"orderLinkId"`
	ExecPrice   string `json:"execPrice"`
	ExecQty     string `json:"execQty"`
	ExecType    string `json:"execType"`
	ExecFee     string `json:"execFee"`
	ExecTime    string `json:"execTime"`
	Category    string `json:"category"`
	IsMaker     bool   `json:"isMaker"`
}

// AuthRequest is the outbound authentication control frame. Args carry
// [apiKey, expiresMillis, signatureHex] in that order.
type AuthRequest struct {
	Op   string        `json:"op"`
	Args []interface{} `json:"args"`
}

// SubscribeRequest is the outbound topic subscription control frame.
type SubscribeRequest struct {
	Op    string   `json:"op"`
	Args  []string `json:"args"`
	ReqID string   `json:"req_id,omitempty"`
}
