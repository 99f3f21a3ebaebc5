package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// HealthCondition is the donor's self-reported health state
type HealthCondition string

const (
	HealthConditionHealthy          HealthCondition = "healthy"
	HealthConditionMinorIllness     HealthCondition = "minor_illness"
	HealthConditionChronicCondition HealthCondition = "chronic_condition"
	HealthConditionOnMedication     HealthCondition = "on_medication"
	HealthConditionRecentSurgery    HealthCondition = "recent_surgery"
)

func (h HealthCondition) IsValid() bool {
	switch h {
	case HealthConditionHealthy, HealthConditionMinorIllness, HealthConditionChronicCondition,
		HealthConditionOnMedication, HealthConditionRecentSurgery:
		return true
	}
	return false
}

// DonorProfile holds a donor's medical and contact data together with the
// derived eligibility verdict. IsEligible and EligibilityReasons are written
// only from an EligibilityEvaluator result.
type DonorProfile struct {
	DonorID              string           `gorm:"type:varchar(128);primaryKey" json:"donor_id"`
	Name                 string           `gorm:"type:varchar(255);not null" json:"name"`
	Phone                string           `gorm:"type:varchar(32);not null" json:"phone"`
	Email                string           `gorm:"type:varchar(255)" json:"email,omitempty"`
	BloodGroup           BloodGroup       `gorm:"type:varchar(3);not null;index:idx_donor_match,priority:1" json:"blood_group"`
	Age                  int              `gorm:"not null" json:"age"`
	Weight               int              `gorm:"not null" json:"weight"`
	HealthCondition      HealthCondition  `gorm:"type:varchar(32);not null" json:"health_condition"`
	Hemoglobin           *decimal.Decimal `gorm:"type:numeric(4,1)" json:"hemoglobin,omitempty"`
	LastDonationDate     *time.Time       `gorm:"type:date" json:"last_donation_date,omitempty"`
	City                 string           `gorm:"type:varchar(100)" json:"city"`
	State                string           `gorm:"type:varchar(100)" json:"state"`
	Country              string           `gorm:"type:varchar(100)" json:"country"`
	Pincode              string           `gorm:"type:varchar(20)" json:"pincode,omitempty"`
	IsEligible           bool             `gorm:"not null;index:idx_donor_match,priority:2" json:"is_eligible"`
	EligibilityReasons   StringList       `gorm:"type:jsonb;not null" json:"eligibility_reasons"`
	EligibilityCheckedAt time.Time        `gorm:"not null" json:"eligibility_checked_at"`
	IsAvailable          bool             `gorm:"not null;index:idx_donor_match,priority:3" json:"is_available"`
	CreatedAt            time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DonorProfile) TableName() string {
	return "donor_profiles"
}

// Matches reports whether the donor belongs to the match set for bloodGroup
func (d *DonorProfile) Matches(bloodGroup BloodGroup) bool {
	return d.BloodGroup == bloodGroup && d.IsEligible && d.IsAvailable
}

// Snapshot copies the contact fields shared with a hospital on acceptance
func (d *DonorProfile) Snapshot() DonorSnapshot {
	return DonorSnapshot{
		Name:       d.Name,
		Phone:      d.Phone,
		BloodGroup: d.BloodGroup,
		Age:        d.Age,
		Weight:     d.Weight,
		City:       d.City,
		State:      d.State,
	}
}

// ApplyEligibility overwrites the derived eligibility fields
func (d *DonorProfile) ApplyEligibility(eligible bool, reasons []string, checkedAt time.Time) {
	d.IsEligible = eligible
	d.EligibilityReasons = append(StringList{}, reasons...)
	d.EligibilityCheckedAt = checkedAt
}

// StringList is an ordered list of strings stored as a JSONB array
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New(fmt.Sprint("Failed to unmarshal JSONB string list:", value))
	}

	result := []string{}
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*l = StringList(result)
	return nil
}
