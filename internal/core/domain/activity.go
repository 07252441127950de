package domain

import "time"

// Activity types known to the system.
const (
	ActivityCall    = "call"
	ActivityEmail   = "email"
	ActivityMeeting = "meeting"
	ActivityTask    = "task"
)

// ValidActivityType reports whether t is a known activity type.
func ValidActivityType(t string) bool {
	return t == ActivityCall || t == ActivityEmail || t == ActivityMeeting || t == ActivityTask
}

// Activity is an append-only child of a deal. Activities are never
// mutated or deleted on their own; they only go away when their deal's
// owner is deleted and the cascade removes them.
type Activity struct {
	ID          int64      `json:"id"`
	Subject     string     `json:"subject"`
	Type        *string    `json:"type"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	DealID      int64      `json:"dealId"`
}
