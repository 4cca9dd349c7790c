package events

import "time"

const (
	PayrollGeneratedType     = "payroll_generated"
	PayrollStatusChangedType = "payroll_status_changed"
	PayrollDeletedType       = "payroll_deleted"
)

// PayrollGeneratedEvent is emitted once per batch, keyed by period.
type PayrollGeneratedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	Month      int       `json:"month"`
	Year       int       `json:"year"`
	Count      int       `json:"count"`
	PayrollIDs []string  `json:"payroll_ids"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PayrollStatusChangedEvent struct {
	EventType   string     `json:"event_type"`
	RequestID   string     `json:"request_id,omitempty"`
	PayrollID   string     `json:"payroll_id"`
	EmployeeID  string     `json:"employee_id"`
	Status      string     `json:"status"`
	PaymentDate *time.Time `json:"payment_date,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
}

type PayrollDeletedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	PayrollID  string    `json:"payroll_id"`
	EmployeeID string    `json:"employee_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
