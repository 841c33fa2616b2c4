// Package validation holds the request rules shared by the API and the
// dashboard client. Messages match the ones the client shows inline.
package validation

import (
	"fmt"
	"strings"

	"github.com/jueunk617/subscription-keep-or-cut/internal/apperr"
	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
)

const minutesPerDay = 24 * 60

// Dashboard query bounds
const (
	MinYear = 2000
	MaxYear = 2100
)

// SubscriptionInput is the user-supplied part of a new subscription
type SubscriptionInput struct {
	CategoryID    int64
	Name          string
	TotalCost     int64
	UserShareCost int64
	BillingCycle  model.BillingCycle
	Status        model.SubscriptionStatus
}

// Subscription checks a new subscription against the rules and the names the
// user already has. It returns nil when the input is acceptable.
func Subscription(in SubscriptionInput, existingNames []string) []apperr.FieldError {
	var errs []apperr.FieldError

	if in.CategoryID <= 0 {
		errs = append(errs, apperr.FieldError{Field: "categoryId", Message: "카테고리를 선택해주세요"})
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs = append(errs, apperr.FieldError{Field: "name", Message: "구독 이름을 입력해주세요"})
	} else if containsName(existingNames, name) {
		errs = append(errs, apperr.FieldError{Field: "name", Message: "이미 등록된 구독 이름입니다"})
	}

	if in.TotalCost < 0 {
		errs = append(errs, apperr.FieldError{Field: "totalCost", Message: "총 비용을 입력해주세요"})
	}
	if in.UserShareCost < 0 {
		errs = append(errs, apperr.FieldError{Field: "userShareCost", Message: "사용자 부담 금액을 입력해주세요"})
	} else if in.UserShareCost > in.TotalCost {
		errs = append(errs, apperr.FieldError{Field: "userShareCost", Message: "사용자 부담 금액은 총 비용보다 클 수 없습니다"})
	}

	if !in.BillingCycle.Valid() {
		errs = append(errs, apperr.FieldError{Field: "billingCycle", Message: "결제 주기를 선택해주세요"})
	}
	if !in.Status.Valid() {
		errs = append(errs, apperr.FieldError{Field: "status", Message: "구독 상태를 선택해주세요"})
	}
	return errs
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}

// MaxUsage returns the largest usage value a month can hold in the given unit
func MaxUsage(unit model.UsageUnit, month model.YearMonth) int {
	days := month.DaysIn()
	if unit == model.UnitMinutes {
		return days * minutesPerDay
	}
	return days
}

// NegativeUsage is the field error for a usage value below zero
var NegativeUsage = apperr.FieldError{Field: "usageValue", Message: "0 이상의 숫자를 입력해주세요"}

// Usage checks a usage value against the unit bound of its month.
func Usage(value int, unit model.UsageUnit, month model.YearMonth) []apperr.FieldError {
	if value < 0 {
		return []apperr.FieldError{NegativeUsage}
	}
	limit := MaxUsage(unit, month)
	if value <= limit {
		return nil
	}
	m := int(month.Month)
	if unit == model.UnitMinutes {
		return []apperr.FieldError{{Field: "usageValue", Message: fmt.Sprintf("%d월의 최대 이용 가능 시간은 %d분입니다", m, limit)}}
	}
	return []apperr.FieldError{{Field: "usageValue", Message: fmt.Sprintf("%d월은 %d일까지 있습니다", m, limit)}}
}

// UsageMonth parses the YYYY-MM date of a usage submission
func UsageMonth(date string) (model.YearMonth, []apperr.FieldError) {
	if strings.TrimSpace(date) == "" {
		return model.YearMonth{}, []apperr.FieldError{{Field: "date", Message: "연/월 정보는 필수입니다."}}
	}
	ym, err := model.ParseYearMonth(date)
	if err != nil {
		return model.YearMonth{}, []apperr.FieldError{{Field: "date", Message: "연/월 형식이 올바르지 않습니다. (예: yyyy-MM)"}}
	}
	return ym, nil
}

// DashboardMonth checks the year and month of a dashboard query
func DashboardMonth(year, month int) (model.YearMonth, []apperr.FieldError) {
	var errs []apperr.FieldError
	if year < MinYear || year > MaxYear {
		errs = append(errs, apperr.FieldError{Field: "year", Message: fmt.Sprintf("%d 이상 %d 이하여야 합니다", MinYear, MaxYear)})
	}
	if month < 1 || month > 12 {
		errs = append(errs, apperr.FieldError{Field: "month", Message: "1 이상 12 이하여야 합니다"})
	}
	if len(errs) > 0 {
		return model.YearMonth{}, errs
	}
	ym, _ := model.NewYearMonth(year, month)
	return ym, nil
}
