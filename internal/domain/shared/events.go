package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event records a completed state change; delivery
// (history, notifications) is the consumer's concern, not the domain's.
const (
	EventScoresEncoded         EventType = "scoresheet.scores_encoded"
	EventScoreSheetSubmitted   EventType = "scoresheet.submitted"
	EventResponsibleAssigned   EventType = "responsible.assigned"
	EventResponsibleUnassigned EventType = "responsible.unassigned"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	CorrelationID string    `json:"correlation_id,omitempty"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event with a fresh uuid.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Score Sheet Events
// ═══════════════════════════════════════════════════════════════════════════

// ScoresEncodedEvent is emitted when one or more scores were encoded on a sheet.
type ScoresEncodedEvent struct {
	BaseEvent
	UnitCode            string   `json:"unit_code"`
	Year                int      `json:"year"`
	Session             int      `json:"session"`
	EncodedBy           string   `json:"encoded_by"`
	RegistrationNumbers []string `json:"registration_numbers"`
}

// Payload implements Event interface.
func (e ScoresEncodedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"unit_code":            e.UnitCode,
		"year":                 e.Year,
		"session":              e.Session,
		"encoded_by":           e.EncodedBy,
		"registration_numbers": e.RegistrationNumbers,
	}
}

// NewScoresEncodedEvent creates a new ScoresEncodedEvent.
func NewScoresEncodedEvent(sheetID, unitCode string, year, session int, encodedBy string, nomas []string) ScoresEncodedEvent {
	return ScoresEncodedEvent{
		BaseEvent:           NewBaseEvent(EventScoresEncoded, sheetID),
		UnitCode:            unitCode,
		Year:                year,
		Session:             session,
		EncodedBy:           encodedBy,
		RegistrationNumbers: nomas,
	}
}

// ScoreSheetSubmittedEvent is emitted when a sheet's pending scores were submitted.
type ScoreSheetSubmittedEvent struct {
	BaseEvent
	UnitCode       string `json:"unit_code"`
	Year           int    `json:"year"`
	Session        int    `json:"session"`
	SubmittedBy    string `json:"submitted_by"`
	SubmittedCount int    `json:"submitted_count"`
}

// Payload implements Event interface.
func (e ScoreSheetSubmittedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"unit_code":       e.UnitCode,
		"year":            e.Year,
		"session":         e.Session,
		"submitted_by":    e.SubmittedBy,
		"submitted_count": e.SubmittedCount,
	}
}

// NewScoreSheetSubmittedEvent creates a new ScoreSheetSubmittedEvent.
func NewScoreSheetSubmittedEvent(sheetID, unitCode string, year, session int, submittedBy string, count int) ScoreSheetSubmittedEvent {
	return ScoreSheetSubmittedEvent{
		BaseEvent:      NewBaseEvent(EventScoreSheetSubmitted, sheetID),
		UnitCode:       unitCode,
		Year:           year,
		Session:        session,
		SubmittedBy:    submittedBy,
		SubmittedCount: count,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Responsibility Events
// ═══════════════════════════════════════════════════════════════════════════

// ResponsibleAssignedEvent is emitted when a teacher becomes score responsible
// for a teaching unit. PreviousTeacherID is empty when the unit had none.
type ResponsibleAssignedEvent struct {
	BaseEvent
	UnitCode          string `json:"unit_code"`
	Year              int    `json:"year"`
	TeacherID         string `json:"teacher_id"`
	PreviousTeacherID string `json:"previous_teacher_id,omitempty"`
}

// Payload implements Event interface.
func (e ResponsibleAssignedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"unit_code":           e.UnitCode,
		"year":                e.Year,
		"teacher_id":          e.TeacherID,
		"previous_teacher_id": e.PreviousTeacherID,
	}
}

// NewResponsibleAssignedEvent creates a new ResponsibleAssignedEvent.
func NewResponsibleAssignedEvent(unitCode string, year int, teacherID, previousTeacherID string) ResponsibleAssignedEvent {
	return ResponsibleAssignedEvent{
		BaseEvent:         NewBaseEvent(EventResponsibleAssigned, teacherID),
		UnitCode:          unitCode,
		Year:              year,
		TeacherID:         teacherID,
		PreviousTeacherID: previousTeacherID,
	}
}

// ResponsibleUnassignedEvent is emitted when a teaching unit is removed from a
// teacher's responsibility set.
type ResponsibleUnassignedEvent struct {
	BaseEvent
	UnitCode  string `json:"unit_code"`
	Year      int    `json:"year"`
	TeacherID string `json:"teacher_id"`
}

// Payload implements Event interface.
func (e ResponsibleUnassignedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"unit_code":  e.UnitCode,
		"year":       e.Year,
		"teacher_id": e.TeacherID,
	}
}

// NewResponsibleUnassignedEvent creates a new ResponsibleUnassignedEvent.
func NewResponsibleUnassignedEvent(unitCode string, year int, teacherID string) ResponsibleUnassignedEvent {
	return ResponsibleUnassignedEvent{
		BaseEvent: NewBaseEvent(EventResponsibleUnassigned, teacherID),
		UnitCode:  unitCode,
		Year:      year,
		TeacherID: teacherID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Publishing
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler processes a published event.
type EventHandler func(event Event) error

// EventPublisher publishes domain events after a use case completes.
type EventPublisher interface {
	// Publish delivers the event to subscribed handlers.
	Publish(event Event) error
}
