package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"created_at"`
	CreatedBy     string    `json:"created_by"` // UserID Reference
	LastUpdatedAt time.Time `json:"updated_at"`
	LastUpdatedBy string    `json:"updated_by"` // UserID Reference
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"
