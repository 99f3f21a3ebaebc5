package entity

// Role names as asserted by the identity provider
const (
	RoleDonor    = "donor"
	RoleHospital = "hospital"
)

// Subject is the authenticated caller. ID is the opaque subject identifier
// issued by the identity provider and is used as donor_id or hospital_id.
type Subject struct {
	ID   string
	Role string
}

func (s Subject) IsDonor() bool {
	return s.Role == RoleDonor
}

func (s Subject) IsHospital() bool {
	return s.Role == RoleHospital
}
