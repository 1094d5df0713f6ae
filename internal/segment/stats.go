package segment

import (
	"github.com/KaramelBytes/tablerag-cli/internal/dataset"
)

// Statistics is a derived, read-only aggregate over a segment. All
// percentages are 0-100 and keep full floating precision; one-decimal
// rounding happens only at the document construction boundary.
type Statistics struct {
	Count      int
	TotalCount int
	// Percentage of the total population.
	Percentage float64

	// Parent-relative figures, set only for multi-dimension segments.
	HasParent       bool
	ParentCount     int
	PercentOfParent float64
	PercentOfTotal  float64

	AvgPurchase     float64
	TotalPurchase   float64
	AvgSatisfaction float64
	// Boolean-column rates, expressed 0-100.
	DiscountUsage     float64
	LoyaltyMembership float64
}

// Compute derives statistics for a segment against the full population.
// Callers must skip empty segments; the engine assumes len(seg) > 0 and
// len(population) > 0.
func Compute(seg, population []dataset.Record) Statistics {
	n := float64(len(seg))
	var purchase, satisfaction float64
	var discount, loyalty int
	for _, r := range seg {
		purchase += r.PurchaseAmount
		satisfaction += r.Satisfaction
		if r.DiscountUsed {
			discount++
		}
		if r.LoyaltyMember {
			loyalty++
		}
	}
	return Statistics{
		Count:             len(seg),
		TotalCount:        len(population),
		Percentage:        n / float64(len(population)) * 100,
		AvgPurchase:       purchase / n,
		TotalPurchase:     purchase,
		AvgSatisfaction:   satisfaction / n,
		DiscountUsage:     float64(discount) / n * 100,
		LoyaltyMembership: float64(loyalty) / n * 100,
	}
}

// ComputeWithParent derives statistics for a multi-dimension segment whose
// parent is the subset matching only the first dimension. The same
// non-empty precondition applies to seg and parent.
func ComputeWithParent(seg, parent, population []dataset.Record) Statistics {
	s := Compute(seg, population)
	s.HasParent = true
	s.ParentCount = len(parent)
	s.PercentOfParent = float64(len(seg)) / float64(len(parent)) * 100
	s.PercentOfTotal = float64(len(seg)) / float64(len(population)) * 100
	return s
}
