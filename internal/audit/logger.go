package audit

import (
	"encoding/json"
	"log"
	"time"
)

// Event is one audit record emitted on a state-changing credit
// operation. Events go to the process log stream as JSON; shipping them
// elsewhere is an operational concern.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	TenantID  string    `json:"tenant_id"`
	UserID    string    `json:"user_id,omitempty"`
	EntityID  string    `json:"entity_id"`
	Status    string    `json:"status"`
	Details   any       `json:"details,omitempty"`
}

type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

func (a *Logger) LogPurchase(tenantID, userID, purchaseID, operation string) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: operation,
		TenantID:  tenantID,
		UserID:    userID,
		EntityID:  purchaseID,
		Status:    "SUCCESS",
	})
}

func (a *Logger) LogPayment(tenantID, userID, installmentID, entryID, operation string) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: operation,
		TenantID:  tenantID,
		UserID:    userID,
		EntityID:  installmentID,
		Status:    "SUCCESS",
		Details:   map[string]string{"entry_id": entryID},
	})
}

func (a *Logger) LogError(tenantID, entityID, operation string, err error) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: operation,
		TenantID:  tenantID,
		EntityID:  entityID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (a *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	log.Printf("AUDIT: %s", string(data))
}
