package domain

import "time"

// EventType names a notification worthy event emitted by the core.
type EventType string

const (
	EventTransactionCreated     EventType = "transaction.created"
	EventTransactionApproved    EventType = "transaction.approved"
	EventTransactionRejected    EventType = "transaction.rejected"
	EventBudgetThresholdReached EventType = "budget.threshold_reached"
	EventZakatPaymentRecorded   EventType = "zakat.payment_recorded"
	EventZakatDueReminder       EventType = "zakat.due_reminder"
	EventBillDueReminder        EventType = "bill.due_reminder"
	EventBillOverdue            EventType = "bill.overdue"
	EventBillPaid               EventType = "bill.paid"
	EventSavingsMilestone       EventType = "savings_goal.milestone"
	EventSavingsGoalCompleted   EventType = "savings_goal.completed"
)

// Event is published after the state change it describes has committed.
type Event struct {
	EventID    string         `json:"event_id"`
	Type       EventType      `json:"type"`
	FamilyID   string         `json:"family_id"`
	ActorID    string         `json:"actor_id,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}
