package entity

import "time"

// HospitalContact is the hospital contact block copied into every request
type HospitalContact struct {
	Name    string `gorm:"type:varchar(255)" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `gorm:"type:varchar(32)" json:"phone"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	State   string `gorm:"type:varchar(100)" json:"state"`
	Country string `gorm:"type:varchar(100)" json:"country"`
	Pincode string `gorm:"type:varchar(20)" json:"pincode,omitempty"`
}

// HospitalProfile represents a hospital account's details
type HospitalProfile struct {
	HospitalID string    `gorm:"type:varchar(128);primaryKey" json:"hospital_id"`
	Name       string    `gorm:"column:hospital_name;type:varchar(255);not null" json:"hospital_name"`
	Address    string    `gorm:"type:text;not null" json:"address"`
	Phone      string    `gorm:"type:varchar(32);not null" json:"phone"`
	City       string    `gorm:"type:varchar(100)" json:"city"`
	State      string    `gorm:"type:varchar(100)" json:"state"`
	Country    string    `gorm:"type:varchar(100)" json:"country"`
	Pincode    string    `gorm:"type:varchar(20)" json:"pincode,omitempty"`
	Email      string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (HospitalProfile) TableName() string {
	return "hospital_profiles"
}

func (h *HospitalProfile) Contact() HospitalContact {
	return HospitalContact{
		Name:    h.Name,
		Address: h.Address,
		Phone:   h.Phone,
		City:    h.City,
		State:   h.State,
		Country: h.Country,
		Pincode: h.Pincode,
	}
}
