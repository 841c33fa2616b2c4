package model

// EvaluationStatus is the keep/cut recommendation for one month of usage
type EvaluationStatus string

const (
	EvalEfficient   EvaluationStatus = "EFFICIENT"
	EvalKeep        EvaluationStatus = "KEEP"
	EvalReview      EvaluationStatus = "REVIEW"
	EvalInefficient EvaluationStatus = "INEFFICIENT"
	EvalGhost       EvaluationStatus = "GHOST"
)

// EvaluationStatuses lists every status, best to worst.
var EvaluationStatuses = []EvaluationStatus{
	EvalEfficient, EvalKeep, EvalReview, EvalInefficient, EvalGhost,
}

// Classification is the derived evaluation of a subscription for one month.
// Exactly one of AnnualWaste and PotentialAnnualWaste is meaningful, chosen by Trial.
type Classification struct {
	SubscriptionID       int64            `json:"id"`
	CategoryName         string           `json:"categoryName"`
	Name                 string           `json:"name"`
	EfficiencyRate       float64          `json:"efficiencyRate"`
	Status               EvaluationStatus `json:"status"`
	AnnualWaste          int64            `json:"annualWaste"`
	Trial                bool             `json:"trial"`
	PotentialAnnualWaste int64            `json:"potentialAnnualWaste"`
	CostPerUnit          *int64           `json:"costPerUnit"`

	// MonthlyCost is the monthly-equivalent cost the evaluation was based on
	MonthlyCost int64 `json:"-"`
}

// Dashboard is the month-level view over all evaluated subscriptions
type Dashboard struct {
	TotalMonthlyCost         int64            `json:"totalMonthlyCost"`
	TotalAnnualWasteEstimate int64            `json:"totalAnnualWasteEstimate"`
	Subscriptions            []Classification `json:"subscriptions"`
}
