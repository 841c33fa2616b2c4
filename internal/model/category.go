package model

// UsageUnit is the unit a category's usage is recorded in
type UsageUnit string

const (
	UnitMinutes UsageUnit = "MINUTES"
	UnitDays    UsageUnit = "DAYS"
)

// CategoryType selects the efficiency formula for a category
type CategoryType string

const (
	TypeContent      CategoryType = "CONTENT"
	TypeProductivity CategoryType = "PRODUCTIVITY"
)

// Category represents a usage classification for subscriptions
type Category struct {
	ID             int64        `json:"id" db:"id"`
	Name           string       `json:"name" db:"name"`
	ReferenceValue int          `json:"referenceValue" db:"reference_value"`
	Unit           UsageUnit    `json:"unit" db:"unit"`
	Type           CategoryType `json:"type" db:"type"`
}

func (u UsageUnit) Valid() bool {
	switch u {
	case UnitMinutes, UnitDays:
		return true
	}
	return false
}

func (t CategoryType) Valid() bool {
	switch t {
	case TypeContent, TypeProductivity:
		return true
	}
	return false
}
