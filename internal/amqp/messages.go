package amqp

import (
	"encoding/json"
	"sort"
	"time"

	"calsheets/internal/core"
)

// RunCompletedMessage announces the outcome of one daily run to downstream
// consumers.
type RunCompletedMessage struct {
	RunID     string        `json:"run_id"`
	Day       string        `json:"day"` // YYYY-MM-DD
	Status    string        `json:"status"`
	Calendars int           `json:"calendars"`
	Events    int           `json:"events"`
	Cells     []CellMessage `json:"cells"`
	Skipped   []SkippedTab  `json:"skipped,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type CellMessage struct {
	Tab   string  `json:"tab"`
	Range string  `json:"range"`
	Hours float64 `json:"hours"`
	Error string  `json:"error,omitempty"`
}

type SkippedTab struct {
	Tab    string `json:"tab"`
	Reason string `json:"reason"`
}

// NewRunCompletedMessage builds the message for a finished run
func NewRunCompletedMessage(s core.RunSummary) *RunCompletedMessage {
	msg := &RunCompletedMessage{
		RunID:     s.RunID,
		Day:       s.Day.Format(time.DateOnly),
		Status:    s.Status(),
		Calendars: s.Calendars,
		Events:    s.Events,
		Cells:     make([]CellMessage, 0, len(s.Writes)),
		Timestamp: time.Now(),
	}
	if s.Err != nil {
		msg.Error = s.Err.Error()
	}
	for _, w := range s.Writes {
		cell := CellMessage{Tab: w.Tab, Range: w.Range, Hours: w.Hours}
		if w.Err != nil {
			cell.Error = w.Err.Error()
		}
		msg.Cells = append(msg.Cells, cell)
	}
	for tab, err := range s.Skipped {
		skipped := SkippedTab{Tab: tab}
		if err != nil {
			skipped.Reason = err.Error()
		}
		msg.Skipped = append(msg.Skipped, skipped)
	}
	sort.Slice(msg.Skipped, func(i, j int) bool { return msg.Skipped[i].Tab < msg.Skipped[j].Tab })
	return msg
}

// ToJSON converts the message to JSON bytes
func (m *RunCompletedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RunCompletedMessageFromJSON creates a message from JSON bytes
func RunCompletedMessageFromJSON(data []byte) (*RunCompletedMessage, error) {
	var msg RunCompletedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
