package model

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var wonPrinter = message.NewPrinter(language.Korean)

// FormatWon formats an amount in won with thousands separators, e.g. 17,000원
func FormatWon(amount int64) string {
	return wonPrinter.Sprintf("%d원", amount)
}

// Label returns the Korean display name of the status
func (s EvaluationStatus) Label() string {
	switch s {
	case EvalEfficient:
		return "효율적"
	case EvalKeep:
		return "유지 가능"
	case EvalReview:
		return "재검토 필요"
	case EvalInefficient:
		return "비효율"
	case EvalGhost:
		return "유령 구독"
	}
	return ""
}

// Description returns the recommendation text shown next to the status
func (s EvaluationStatus) Description() string {
	switch s {
	case EvalEfficient:
		return "기준 이상 활용 중 - 유지 권장"
	case EvalKeep:
		return "준수한 활용도 - 유지 가능"
	case EvalReview:
		return "저활용 - 이용 패턴 재검토 필요"
	case EvalInefficient:
		return "심각한 저활용 - 해지 고려"
	case EvalGhost:
		return "미사용 - 즉시 해지 권장"
	}
	return ""
}

// Color returns the hex color used for the status badge
func (s EvaluationStatus) Color() string {
	switch s {
	case EvalEfficient:
		return "#22c55e"
	case EvalKeep:
		return "#3b82f6"
	case EvalReview:
		return "#eab308"
	case EvalInefficient:
		return "#f97316"
	case EvalGhost:
		return "#ef4444"
	}
	return ""
}

func (c BillingCycle) Label() string {
	switch c {
	case CycleMonthly:
		return "월간"
	case CycleQuarterly:
		return "분기"
	case CycleAnnual:
		return "연간"
	}
	return ""
}

func (u UsageUnit) Label() string {
	switch u {
	case UnitMinutes:
		return "분"
	case UnitDays:
		return "일"
	}
	return ""
}

// CategoryLabel returns the Korean display name for a catalog category name.
// Unknown names are returned unchanged.
func CategoryLabel(name string) string {
	switch name {
	case "OTT":
		return "OTT"
	case "MUSIC":
		return "음악 스트리밍"
	case "EBOOK":
		return "전자책"
	case "AI_TOOL":
		return "AI 도구"
	case "WORK_TOOL":
		return "업무 도구"
	case "CLOUD":
		return "클라우드 스토리지"
	}
	return name
}

// VerifyLabels checks that every enum member has a display mapping.
func VerifyLabels() error {
	for _, s := range EvaluationStatuses {
		if s.Label() == "" || s.Description() == "" || s.Color() == "" {
			return fmt.Errorf("evaluation status %s has no label mapping", s)
		}
	}
	for _, c := range []BillingCycle{CycleMonthly, CycleQuarterly, CycleAnnual} {
		if c.Label() == "" {
			return fmt.Errorf("billing cycle %s has no label mapping", c)
		}
	}
	for _, u := range []UsageUnit{UnitMinutes, UnitDays} {
		if u.Label() == "" {
			return fmt.Errorf("usage unit %s has no label mapping", u)
		}
	}
	return nil
}
