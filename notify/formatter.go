// Package notify renders execution events into Slack webhook payloads and
// delivers them best-effort.
package notify

import (
	"strings"

	"execnotify/models"
)

const (
	colorLong  = "#2eb886"
	colorShort = "#d72b3f"
)

// Message is a Slack incoming-webhook payload.
type Message struct {
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment is a legacy Slack attachment; webhooks still render these.
type Attachment struct {
	Color  string  `json:"color,omitempty"`
	Fields []Field `json:"fields,omitempty"`
	Footer string  `json:"footer,omitempty"`
}

// Field is one titled value inside an attachment.
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// FormatExecution maps one fill to its notification payload. Buy fills are
// labelled LONG with a green marker, everything else SHORT with a red one.
// Missing optional fields render empty rather than failing the event.
func FormatExecution(ev models.ExecutionEvent) Message {
	label := "SHORT"
	emoji := "🔴"
	color := colorShort
	if strings.EqualFold(ev.Side, models.SideBuy) {
		label = "LONG"
		emoji = "🟢"
		color = colorLong
	}

	title := emoji + " New fill"
	if ev.Symbol != "" {
		title += ": " + ev.Symbol
	}

	return Message{
		Text: title,
		Attachments: []Attachment{{
			Color: color,
			Fields: []Field{
				{Title: "Symbol", Value: ev.Symbol, Short: true},
				{Title: "Side", Value: label, Short: true},
				{Title: "Price", Value: ev.ExecPrice, Short: true},
				{Title: "Quantity", Value: ev.ExecQty, Short: true},
			},
			Footer: "execId: " + ev.ExecID,
		}},
	}
}

// FormatStartup builds the once-per-process startup announcement.
func FormatStartup(name, version, environment string) Message {
	return Message{
		Text: "🟢 " + name + " " + version + " started (" + environment + "), watching the private execution stream",
	}
}
