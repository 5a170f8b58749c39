package log

import "time"

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRunID      = "run_id"
	FieldDay        = "day"
	FieldTab        = "tab"
	FieldRange      = "range"
	FieldHours      = "hours"
	FieldCalendar   = "calendar"
	FieldCalendarID = "calendar_id"
	FieldEvents     = "events"
	FieldTitle      = "title"
	FieldUpdated    = "updated_cells"
	FieldDuration   = "duration_ms"
	FieldSuccess    = "success"
	FieldError      = "error"
	FieldOperation  = "operation"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentConfig    = "config"
	ComponentAuth      = "auth"
	ComponentCalendar  = "calendar"
	ComponentSheets    = "sheets"
	ComponentAggregate = "aggregate"
	ComponentWriter    = "writer"
	ComponentJob       = "job"
	ComponentHistory   = "history"
	ComponentAMQP      = "amqp"
	ComponentBackend   = "backend"
)

// Operations defines standard operation names
const (
	OpLoad      = "load"
	OpList      = "list"
	OpResolve   = "resolve"
	OpAggregate = "aggregate"
	OpAddress   = "address"
	OpUpdate    = "update"
	OpRecord    = "record"
	OpPublish   = "publish"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRun adds the run identifier and the day it covers
func (f LogFields) WithRun(runID string, day time.Time) LogFields {
	f[FieldRunID] = runID
	f[FieldDay] = day.Format(time.DateOnly)
	return f
}

// WithCell adds the tab, its A1 range and the hours written there
func (f LogFields) WithCell(tab, rng string, hours float64) LogFields {
	f[FieldTab] = tab
	if rng != "" {
		f[FieldRange] = rng
	}
	f[FieldHours] = hours
	return f
}

// WithCalendar adds calendar name and id
func (f LogFields) WithCalendar(name, id string) LogFields {
	f[FieldCalendar] = name
	f[FieldCalendarID] = id
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
