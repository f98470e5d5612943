package services

import (
	"fmt"
	"math"
	"time"

	"github.com/vsinha/pantry/pkg/domain/entities"
)

const day = 24 * time.Hour

// Expiration describes how close an item is to its due date
type Expiration struct {
	DueDate   time.Time
	DaysUntil int
	Warning   bool
	Expired   bool
}

// Describe renders the countdown for display
func (e Expiration) Describe() string {
	switch {
	case e.DaysUntil < 0:
		n := -e.DaysUntil
		if n == 1 {
			return "expired 1 day ago"
		}
		return fmt.Sprintf("expired %d days ago", n)
	case e.DaysUntil == 0:
		return "expires today"
	case e.DaysUntil == 1:
		return "expires in 1 day"
	default:
		return fmt.Sprintf("expires in %d days", e.DaysUntil)
	}
}

// EffectiveDueDate resolves the item's due date. A relative rule
// (EstimatedDueDays after the last purchase) wins over the stored date.
func EffectiveDueDate(item *entities.Item, lastPurchase *time.Time) (time.Time, bool) {
	if item.EstimatedDueDays != nil && lastPurchase != nil {
		return lastPurchase.AddDate(0, 0, *item.EstimatedDueDays), true
	}
	if item.DueDate != nil {
		return *item.DueDate, true
	}
	return time.Time{}, false
}

// DaysUntil returns the whole days left until due, rounded up
func DaysUntil(due, now time.Time) int {
	return int(math.Ceil(float64(due.Sub(now)) / float64(day)))
}

// EvaluateExpiration computes the countdown and warning state for an item.
// The boolean is false when the item has no due date at all. An absent
// expiration threshold never warns.
func EvaluateExpiration(item *entities.Item, lastPurchase *time.Time, now time.Time) (Expiration, bool) {
	due, ok := EffectiveDueDate(item, lastPurchase)
	if !ok {
		return Expiration{}, false
	}

	days := DaysUntil(due, now)
	return Expiration{
		DueDate:   due,
		DaysUntil: days,
		Warning:   item.ExpirationThreshold != nil && days <= *item.ExpirationThreshold,
		Expired:   days < 0,
	}, true
}
