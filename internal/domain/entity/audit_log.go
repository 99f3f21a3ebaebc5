package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// AuditLog is an append-only record of a state change made by a subject
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorID   string    `gorm:"type:varchar(128);index" json:"actor_id,omitempty"`
	Action    string    `gorm:"type:varchar(100);not null;index" json:"action"`
	Metadata  JSON      `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// JSON type for GORM JSONB support
type JSON map[string]interface{}

// Value returns json value, implement driver.Valuer interface
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan scan value into Jsonb, implements sql.Scanner interface
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB value:", value))
	}

	result := map[string]interface{}{}
	err := json.Unmarshal(bytes, &result)
	*j = JSON(result)
	return err
}

// Common audit actions
const (
	AuditActionDonorProfileSave        = "donor_profile.save"
	AuditActionDonorAvailability       = "donor_profile.availability"
	AuditActionDonorEligibility        = "donor_profile.eligibility"
	AuditActionHospitalProfileSave     = "hospital_profile.save"
	AuditActionBatchDispatch           = "request_batch.dispatch"
	AuditActionRequestAccept           = "blood_request.accept"
	AuditActionRequestDecline          = "blood_request.decline"
	AuditActionRequestCancel           = "blood_request.cancel"
	AuditActionNotificationRead        = "notification.read"
	AuditActionNotificationAcknowledge = "notification.acknowledge"
)
