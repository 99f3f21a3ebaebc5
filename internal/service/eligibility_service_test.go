package service

import (
	"testing"
	"time"

	"blood-donor-service/internal/domain/entity"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evalTime = time.Date(2025, 8, 20, 10, 30, 0, 0, time.UTC)

func healthyProfile() *entity.DonorProfile {
	return &entity.DonorProfile{
		DonorID:         "donor-1",
		Name:            "Asha",
		BloodGroup:      entity.BloodGroupOPos,
		Age:             30,
		Weight:          60,
		HealthCondition: entity.HealthConditionHealthy,
	}
}

func hb(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func daysAgo(n int) *time.Time {
	d := evalTime.AddDate(0, 0, -n)
	return &d
}

func TestEvaluateAt_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *entity.DonorProfile)
		eligible bool
		reasons  []string
	}{
		{
			name:     "under age",
			mutate:   func(p *entity.DonorProfile) { p.Age = 17 },
			eligible: false,
			reasons:  []string{ReasonAgeRange},
		},
		{
			name:     "under weight",
			mutate:   func(p *entity.DonorProfile) { p.Weight = 40 },
			eligible: false,
			reasons:  []string{ReasonWeight},
		},
		{
			name: "fully eligible with hemoglobin and old donation",
			mutate: func(p *entity.DonorProfile) {
				p.Hemoglobin = hb("13.0")
				p.LastDonationDate = daysAgo(100)
			},
			eligible: true,
			reasons:  []string{},
		},
		{
			name: "every rule violated keeps rule order",
			mutate: func(p *entity.DonorProfile) {
				p.Age = 70
				p.Weight = 45
				p.LastDonationDate = daysAgo(10)
				p.HealthCondition = entity.HealthConditionRecentSurgery
				p.Hemoglobin = hb("11.9")
			},
			eligible: false,
			reasons: []string{
				ReasonAgeRange,
				ReasonWeight,
				ReasonDonationGap,
				ReasonHealthCondition,
				ReasonHemoglobin,
			},
		},
		{
			name:     "hemoglobin absent adds no reason",
			mutate:   func(p *entity.DonorProfile) { p.Hemoglobin = nil },
			eligible: true,
			reasons:  []string{},
		},
		{
			name:     "hemoglobin exactly at threshold",
			mutate:   func(p *entity.DonorProfile) { p.Hemoglobin = hb("12.5") },
			eligible: true,
			reasons:  []string{},
		},
		{
			name:     "hemoglobin below threshold",
			mutate:   func(p *entity.DonorProfile) { p.Hemoglobin = hb("12.4") },
			eligible: false,
			reasons:  []string{ReasonHemoglobin},
		},
		{
			name:     "age bounds are inclusive",
			mutate:   func(p *entity.DonorProfile) { p.Age = 65 },
			eligible: true,
			reasons:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := healthyProfile()
			tt.mutate(p)

			result := EvaluateAt(p, evalTime)

			assert.Equal(t, tt.eligible, result.IsEligible)
			assert.Equal(t, tt.reasons, result.Reasons)
			assert.Equal(t, evalTime, result.CheckedAt)
		})
	}
}

func TestEvaluateAt_AgeOutsideRange(t *testing.T) {
	for _, age := range []int{0, 1, 10, 17, 66, 80, 120} {
		p := healthyProfile()
		p.Age = age

		result := EvaluateAt(p, evalTime)

		assert.False(t, result.IsEligible, "age %d", age)
		assert.Contains(t, result.Reasons, ReasonAgeRange, "age %d", age)
	}
}

func TestEvaluateAt_WeightBelowMinimum(t *testing.T) {
	for _, weight := range []int{1, 30, 49} {
		p := healthyProfile()
		p.Weight = weight
		// other rules also failing must not hide the weight reason
		p.Age = 16

		result := EvaluateAt(p, evalTime)

		assert.False(t, result.IsEligible, "weight %d", weight)
		assert.Contains(t, result.Reasons, ReasonWeight, "weight %d", weight)
	}
}

func TestEvaluateAt_UnhealthyConditions(t *testing.T) {
	conditions := []entity.HealthCondition{
		entity.HealthConditionMinorIllness,
		entity.HealthConditionChronicCondition,
		entity.HealthConditionOnMedication,
		entity.HealthConditionRecentSurgery,
	}
	for _, c := range conditions {
		p := healthyProfile()
		p.HealthCondition = c
		p.Hemoglobin = hb("14.2")

		result := EvaluateAt(p, evalTime)

		assert.False(t, result.IsEligible, string(c))
		assert.Equal(t, []string{ReasonHealthCondition}, result.Reasons)
	}
}

func TestEvaluateAt_DonationGapBoundary(t *testing.T) {
	t.Run("exactly 90 days is eligible", func(t *testing.T) {
		p := healthyProfile()
		p.LastDonationDate = daysAgo(90)

		result := EvaluateAt(p, evalTime)

		assert.True(t, result.IsEligible)
		assert.Empty(t, result.Reasons)
	})

	t.Run("89 days is ineligible", func(t *testing.T) {
		p := healthyProfile()
		p.LastDonationDate = daysAgo(89)

		result := EvaluateAt(p, evalTime)

		assert.False(t, result.IsEligible)
		assert.Equal(t, []string{ReasonDonationGap}, result.Reasons)
	})

	t.Run("date-only value 90 days back is eligible later that day", func(t *testing.T) {
		p := healthyProfile()
		d := time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC)
		p.LastDonationDate = &d

		result := EvaluateAt(p, evalTime)

		assert.True(t, result.IsEligible)
	})

	t.Run("future donation date is ineligible", func(t *testing.T) {
		p := healthyProfile()
		future := evalTime.AddDate(0, 0, 3)
		p.LastDonationDate = &future

		result := EvaluateAt(p, evalTime)

		assert.False(t, result.IsEligible)
	})
}

func TestEligibilityEvaluator_Idempotent(t *testing.T) {
	evaluator := NewEligibilityEvaluator(func() time.Time { return evalTime })
	p := healthyProfile()
	p.Weight = 48
	p.LastDonationDate = daysAgo(30)

	first := evaluator.Evaluate(p)
	second := evaluator.Evaluate(p)

	require.Equal(t, first, second)
	assert.Equal(t, []string{ReasonWeight, ReasonDonationGap}, first.Reasons)
}

func TestDaysSince(t *testing.T) {
	base := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysSince(base, base))
	assert.Equal(t, 0, DaysSince(base, base.Add(23*time.Hour)))
	assert.Equal(t, 1, DaysSince(base, base.Add(24*time.Hour)))
	assert.Equal(t, 90, DaysSince(base, base.AddDate(0, 0, 90)))
	assert.Equal(t, -1, DaysSince(base, base.Add(-time.Hour)))
}
