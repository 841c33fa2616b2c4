// Package evaluation classifies a subscription's monthly usage against its
// cost and folds the results into a dashboard. Everything here is pure.
package evaluation

import (
	"math"

	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
)

// Status thresholds on the efficiency rate, closed lower bounds.
const (
	EfficientThreshold = 100.0
	KeepThreshold      = 70.0
	ReviewThreshold    = 40.0
)

// NormalizeUsage returns usage relative to the category's reference value.
// Callers must have enforced the unit bounds already.
func NormalizeUsage(usageValue int, category model.Category) float64 {
	if usageValue < 0 {
		panic("evaluation: negative usage value reached the normalizer")
	}
	if category.ReferenceValue <= 0 {
		return 0
	}
	return float64(usageValue) / float64(category.ReferenceValue)
}

// MonthlyEquivalent converts a per-cycle cost share into a per-month cost.
func MonthlyEquivalent(userShareCost int64, cycle model.BillingCycle) int64 {
	return userShareCost / cycle.Months()
}

// ratePrecision drops float noise (0.7*100 = 70.00000000000001) so that
// threshold comparisons see the intended value.
const ratePrecision = 1e6

// EfficiencyRate turns a normalized usage rate into a percentage using the
// formula selected by the category type. Productivity tools get no credit
// past the reference day count.
func EfficiencyRate(normalized float64, categoryType model.CategoryType) float64 {
	rate := math.Round(normalized*100*ratePrecision) / ratePrecision
	if categoryType == model.TypeProductivity {
		return math.Min(rate, 100)
	}
	return rate
}

// StatusFor picks the evaluation status. Zero usage is always GHOST.
func StatusFor(rate float64, usageValue int) model.EvaluationStatus {
	switch {
	case usageValue == 0:
		return model.EvalGhost
	case rate >= EfficientThreshold:
		return model.EvalEfficient
	case rate >= KeepThreshold:
		return model.EvalKeep
	case rate >= ReviewThreshold:
		return model.EvalReview
	default:
		return model.EvalInefficient
	}
}

// ProjectAnnualWaste is the yearly cost of the unused share of a monthly cost.
func ProjectAnnualWaste(monthlyCost int64, rate float64) int64 {
	unused := 1 - math.Min(rate, 100)/100
	waste := math.Round(unused * float64(monthlyCost) * 12)
	if waste < 0 {
		return 0
	}
	return int64(waste)
}

// CostPerUnit returns the rounded monthly cost per unit of usage, or nil when
// nothing was used.
func CostPerUnit(monthlyCost int64, usageValue int) *int64 {
	if usageValue <= 0 {
		return nil
	}
	v := int64(math.Round(float64(monthlyCost) / float64(usageValue)))
	return &v
}

// Classify evaluates one subscription against its usage record for a month.
func Classify(sub model.Subscription, category model.Category, usage model.UsageRecord) model.Classification {
	monthly := sub.MonthlyShareCost
	rate := EfficiencyRate(NormalizeUsage(usage.UsageValue, category), category.Type)

	c := model.Classification{
		SubscriptionID: sub.ID,
		CategoryName:   category.Name,
		Name:           sub.Name,
		EfficiencyRate: rate,
		Status:         StatusFor(rate, usage.UsageValue),
		Trial:          sub.IsTrial(),
		CostPerUnit:    CostPerUnit(monthly, usage.UsageValue),
		MonthlyCost:    monthly,
	}
	if c.Trial {
		c.PotentialAnnualWaste = ProjectAnnualWaste(monthly, rate)
	} else {
		c.AnnualWaste = ProjectAnnualWaste(monthly, rate)
	}
	return c
}
