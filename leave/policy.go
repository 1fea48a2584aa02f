/*
policy.go - Leave policy configuration

PURPOSE:
  Bundles the numbers that govern entitlements: base day counts per leave
  type and the tenure multiplier tiers applied to annual leave. Policies can
  be defined in JSON so HR can adjust entitlements without a code change.

JSON SCHEMA:
  {
    "base_days": {"ANNUAL": 14, "MARRIAGE": 3, "MATERNITY": 112},
    "tenure_tiers": [
      {"min_tenure_days": 0,    "multiplier": "0"},
      {"min_tenure_days": 365,  "multiplier": "1"},
      {"min_tenure_days": 1825, "multiplier": "1.5"},
      {"min_tenure_days": 2555, "multiplier": "2"},
      {"min_tenure_days": 3650, "multiplier": "2.5"}
    ]
  }

  Omitted fields fall back to the defaults above. Multipliers are decimal
  strings to avoid float drift.

SEE ALSO:
  - accrual.go: how the tiers are evaluated
  - balance.go: where base x multiplier becomes a balance
*/
package leave

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Tier maps a minimum tenure (in days, inclusive) to an annual-leave
// multiplier. Tiers are kept sorted ascending by MinTenureDays.
type Tier struct {
	MinTenureDays int
	Multiplier    decimal.Decimal
}

// Policy holds the entitlement configuration for one company or deployment.
type Policy struct {
	baseDays map[Type]int
	tiers    []Tier
}

// DefaultPolicy returns the statutory defaults: 14 annual days scaled by the
// tenure tiers, 3 marriage days, 112 maternity days.
func DefaultPolicy() Policy {
	return Policy{
		baseDays: map[Type]int{
			TypeAnnual:    14,
			TypeMarriage:  3,
			TypeMaternity: 112,
		},
		tiers: []Tier{
			{MinTenureDays: 0, Multiplier: decimal.Zero},
			{MinTenureDays: 365, Multiplier: decimal.NewFromInt(1)},
			{MinTenureDays: 1825, Multiplier: decimal.RequireFromString("1.5")},
			{MinTenureDays: 2555, Multiplier: decimal.NewFromInt(2)},
			{MinTenureDays: 3650, Multiplier: decimal.RequireFromString("2.5")},
		},
	}
}

// Base returns the base entitlement in days for the leave type.
func (p Policy) Base(t Type) int {
	return p.baseDays[t]
}

// Tiers returns a copy of the multiplier tiers.
func (p Policy) Tiers() []Tier {
	out := make([]Tier, len(p.tiers))
	copy(out, p.tiers)
	return out
}

// =============================================================================
// JSON PARSING
// =============================================================================

type policyJSON struct {
	BaseDays    map[string]int `json:"base_days"`
	TenureTiers []struct {
		MinTenureDays int    `json:"min_tenure_days"`
		Multiplier    string `json:"multiplier"`
	} `json:"tenure_tiers"`
}

// ParsePolicy builds a Policy from its JSON form. Missing sections keep the
// defaults; unknown leave types and malformed multipliers are rejected.
func ParsePolicy(data []byte) (Policy, error) {
	var raw policyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Policy{}, fmt.Errorf("parse policy: %w", err)
	}

	policy := DefaultPolicy()

	for name, days := range raw.BaseDays {
		t := Type(name)
		if !t.Valid() {
			return Policy{}, fmt.Errorf("parse policy: unknown leave type %q", name)
		}
		if days < 0 {
			return Policy{}, fmt.Errorf("parse policy: negative base days for %q", name)
		}
		policy.baseDays[t] = days
	}

	if len(raw.TenureTiers) > 0 {
		tiers := make([]Tier, 0, len(raw.TenureTiers))
		for _, rt := range raw.TenureTiers {
			if rt.MinTenureDays < 0 {
				return Policy{}, fmt.Errorf("parse policy: negative tier bound %d", rt.MinTenureDays)
			}
			mult, err := decimal.NewFromString(rt.Multiplier)
			if err != nil {
				return Policy{}, fmt.Errorf("parse policy: multiplier %q: %w", rt.Multiplier, err)
			}
			tiers = append(tiers, Tier{MinTenureDays: rt.MinTenureDays, Multiplier: mult})
		}
		sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinTenureDays < tiers[j].MinTenureDays })
		if tiers[0].MinTenureDays != 0 {
			return Policy{}, fmt.Errorf("parse policy: first tier must start at tenure 0, got %d", tiers[0].MinTenureDays)
		}
		policy.tiers = tiers
	}

	return policy, nil
}
