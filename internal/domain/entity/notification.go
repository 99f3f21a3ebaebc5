package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const NotificationTypeRequestAccepted = "request_accepted"

// DonorSnapshot is the donor contact data frozen at acceptance time
type DonorSnapshot struct {
	Name       string     `gorm:"type:varchar(255)" json:"name"`
	Phone      string     `gorm:"type:varchar(32)" json:"phone"`
	BloodGroup BloodGroup `gorm:"type:varchar(3)" json:"blood_group"`
	Age        int        `json:"age"`
	Weight     int        `json:"weight"`
	City       string     `gorm:"type:varchar(100)" json:"city"`
	State      string     `gorm:"type:varchar(100)" json:"state"`
}

// Notification tells a hospital that a donor accepted one of its requests.
// Donor is written once on create and never updated.
type Notification struct {
	ID                 uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	HospitalID         string        `gorm:"type:varchar(128);not null;index" json:"hospital_id"`
	DonorID            string        `gorm:"type:varchar(128);not null" json:"donor_id"`
	RequestID          uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex" json:"request_id"`
	Type               string        `gorm:"type:varchar(50);not null" json:"type"`
	Message            string        `gorm:"type:text" json:"message"`
	Donor              DonorSnapshot `gorm:"embedded;embeddedPrefix:donor_" json:"donor_details"`
	Read               bool          `gorm:"column:is_read;not null" json:"read"`
	ReadAt             *time.Time    `json:"read_at,omitempty"`
	HospitalAccepted   bool          `gorm:"not null" json:"hospital_accepted"`
	HospitalAcceptedAt *time.Time    `json:"hospital_accepted_at,omitempty"`
	CreatedAt          time.Time     `gorm:"not null" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NewAcceptedNotification builds the hospital notification for an accepted request
func NewAcceptedNotification(req *BloodRequest, donor *DonorProfile, at time.Time) *Notification {
	snapshot := donor.Snapshot()
	return &Notification{
		ID:         uuid.New(),
		HospitalID: req.HospitalID,
		DonorID:    donor.DonorID,
		RequestID:  req.ID,
		Type:       NotificationTypeRequestAccepted,
		Message:    fmt.Sprintf("%s has accepted your blood donation request", snapshot.Name),
		Donor:      snapshot,
		CreatedAt:  at,
	}
}
