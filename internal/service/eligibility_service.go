package service

import (
	"time"

	"blood-donor-service/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// Eligibility rule thresholds and messages
const (
	MinDonorAge             = 18
	MaxDonorAge             = 65
	MinDonorWeightKg        = 50
	MinDaysBetweenDonations = 90

	ReasonAgeRange        = "Age must be between 18-65 years"
	ReasonWeight          = "Weight must be at least 50kg"
	ReasonDonationGap     = "Must wait at least 90 days since last donation"
	ReasonHealthCondition = "Must be in good health condition"
	ReasonHemoglobin      = "Hemoglobin level must be at least 12.5 g/dL"
)

// MinHemoglobin is the lowest acceptable hemoglobin level in g/dL
var MinHemoglobin = decimal.RequireFromString("12.5")

// EligibilityResult is the verdict for one profile. Reasons keeps rule order.
type EligibilityResult struct {
	IsEligible bool
	Reasons    []string
	CheckedAt  time.Time
}

// EligibilityEvaluator decides whether a donor may currently donate.
// It has no side effects; callers persist the result.
type EligibilityEvaluator struct {
	now func() time.Time
}

func NewEligibilityEvaluator(now func() time.Time) *EligibilityEvaluator {
	if now == nil {
		now = time.Now
	}
	return &EligibilityEvaluator{now: now}
}

// Evaluate checks the profile against every rule as of the evaluator's clock
func (e *EligibilityEvaluator) Evaluate(profile *entity.DonorProfile) EligibilityResult {
	return EvaluateAt(profile, e.now())
}

// EvaluateAt checks all rules independently and collects the violations
func EvaluateAt(profile *entity.DonorProfile, asOf time.Time) EligibilityResult {
	reasons := make([]string, 0, 5)

	if profile.Age < MinDonorAge || profile.Age > MaxDonorAge {
		reasons = append(reasons, ReasonAgeRange)
	}

	if profile.Weight < MinDonorWeightKg {
		reasons = append(reasons, ReasonWeight)
	}

	if profile.LastDonationDate != nil && DaysSince(*profile.LastDonationDate, asOf) < MinDaysBetweenDonations {
		reasons = append(reasons, ReasonDonationGap)
	}

	if profile.HealthCondition != entity.HealthConditionHealthy {
		reasons = append(reasons, ReasonHealthCondition)
	}

	if profile.Hemoglobin != nil && profile.Hemoglobin.LessThan(MinHemoglobin) {
		reasons = append(reasons, ReasonHemoglobin)
	}

	return EligibilityResult{
		IsEligible: len(reasons) == 0,
		Reasons:    reasons,
		CheckedAt:  asOf,
	}
}

// DaysSince returns the number of whole days elapsed from then to asOf.
// A date in the future yields a negative count.
func DaysSince(then, asOf time.Time) int {
	elapsed := asOf.Sub(then)
	days := int(elapsed / (24 * time.Hour))
	if elapsed < 0 && elapsed%(24*time.Hour) != 0 {
		days--
	}
	return days
}
