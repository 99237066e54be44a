package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionStatus хранимый статус подписки.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "Active"
	SubscriptionInactive  SubscriptionStatus = "Inactive"
	SubscriptionCancelled SubscriptionStatus = "Cancelled"
)

// DaysPerPlanMonth длина месяца тарифа в днях.
const DaysPerPlanMonth = 30

// SubscriptionPlan тарифный план.
type SubscriptionPlan struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	DurationMonths int             `json:"duration_months"`
}

// Period возвращает срок действия подписки по этому плану.
func (p SubscriptionPlan) Period() time.Duration {
	return time.Duration(p.DurationMonths*DaysPerPlanMonth) * 24 * time.Hour
}

// Subscription подписка пользователя на план.
type Subscription struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"user_id"`
	PlanID    int64              `json:"plan_id"`
	PlanName  string             `json:"plan_name,omitempty"`
	Status    SubscriptionStatus `json:"status"`
	StartDate time.Time          `json:"start_date"`
	EndDate   *time.Time         `json:"end_date,omitempty"`
}

// IsActive истинно, только если статус Active и срок ещё не истёк.
// Истечение вычисляется лениво: хранимый статус при этом не меняется.
func (s Subscription) IsActive(now time.Time) bool {
	return s.Status == SubscriptionActive && (s.EndDate == nil || s.EndDate.After(now))
}

// EffectiveStatus статус с учётом истечения срока.
func (s Subscription) EffectiveStatus(now time.Time) SubscriptionStatus {
	if s.Status == SubscriptionActive && !s.IsActive(now) {
		return SubscriptionInactive
	}
	return s.Status
}
