package events

import "time"

const (
	EmployeeCreatedType = "employee_created"
	EmployeeDeletedType = "employee_deleted"
)

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	UserID     string    `json:"user_id"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}

type EmployeeDeletedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
