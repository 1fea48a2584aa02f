package leave

import (
	"github.com/shopspring/decimal"

	"github.com/warp/hr-engine/date"
)

// TenureDays returns the elapsed whole days between the hire date and the
// evaluation date. Negative tenures (hire date in the future) count as zero.
func TenureDays(hireDate, asOf date.Date) int {
	days := date.DaysBetween(hireDate, asOf)
	if days < 0 {
		return 0
	}
	return days
}

// Multiplier returns the annual-leave accrual multiplier for the given
// tenure. Tier bounds are inclusive below, exclusive above: a tenure of
// exactly 365 days already earns the second tier. Side-effect free, always
// returns a value.
func (p Policy) Multiplier(tenureDays int) decimal.Decimal {
	mult := decimal.Zero
	for _, tier := range p.tiers {
		if tenureDays >= tier.MinTenureDays {
			mult = tier.Multiplier
		}
	}
	return mult
}

// AccrualFor is the convenience form used by the workflow: the multiplier
// for an actor hired on hireDate, evaluated at asOf.
func (p Policy) AccrualFor(hireDate, asOf date.Date) decimal.Decimal {
	return p.Multiplier(TenureDays(hireDate, asOf))
}
