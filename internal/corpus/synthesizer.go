package corpus

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/KaramelBytes/tablerag-cli/internal/dataset"
	"github.com/KaramelBytes/tablerag-cli/internal/segment"
)

// Synthesizer turns the loaded table into the three document families:
// one document per row, one per non-empty single-dimension segment, and
// one per non-empty multi-dimension segment. Output is deterministic for a
// fixed table and dimension configuration: rows are processed in table
// order and distinct values in first-seen order.
type Synthesizer struct {
	dims   []segment.Dimension
	pairs  []segment.Pair
	logger *zap.Logger
}

// NewSynthesizer builds a synthesizer over the configured dimension
// registries. A nil logger disables event emission.
func NewSynthesizer(dims []segment.Dimension, pairs []segment.Pair, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{dims: dims, pairs: pairs, logger: logger}
}

// Build synthesizes the full document corpus for the given records.
func (s *Synthesizer) Build(records []dataset.Record) []Document {
	docs := make([]Document, 0, len(records))

	for i, r := range records {
		docs = append(docs, rowDocument(i, r))
	}
	s.logger.Info("row documents created", zap.Int("count", len(records)))

	single := 0
	for _, dim := range s.dims {
		for _, value := range dim.Values(records) {
			seg := dim.Filter(records, value)
			if len(seg) == 0 {
				continue
			}
			stats := segment.Compute(seg, records)
			docs = append(docs, segmentDocument(dim, value, seg, stats))
			single++
		}
	}
	s.logger.Info("single-dimension documents created", zap.Int("count", single))

	multi := 0
	for _, pair := range s.pairs {
		pairCount := 0
		for _, v1 := range pair.First.Values(records) {
			parent := pair.First.Filter(records, v1)
			if len(parent) == 0 {
				continue
			}
			parentStats := segment.Compute(parent, records)
			for _, v2 := range pair.Second.Values(records) {
				joint := pair.Second.Filter(parent, v2)
				if len(joint) == 0 {
					continue
				}
				stats := segment.ComputeWithParent(joint, parent, records)
				docs = append(docs, multiSegmentDocument(pair, v1, v2, joint, stats, parentStats))
				pairCount++
			}
		}
		s.logger.Info("dimension pair synthesized",
			zap.String("dimension1", pair.First.Key),
			zap.String("dimension2", pair.Second.Key),
			zap.Int("segments", pairCount))
		multi += pairCount
	}

	s.logger.Info("corpus synthesized",
		zap.Int("rows", len(records)),
		zap.Int("single_dimension", single),
		zap.Int("multi_dimension", multi),
		zap.Int("total", len(docs)))
	return docs
}

// rowDocument renders one customer row as a fixed-section narrative.
func rowDocument(idx int, r dataset.Record) Document {
	demographics := []string{
		"Customer ID: " + dataset.FormatValue(r.CustomerID),
		"Age: " + dataset.FormatValue(r.Age),
		"Gender: " + dataset.FormatValue(r.Gender),
		"Income Level: " + dataset.FormatValue(r.IncomeLevel),
		"Marital Status: " + dataset.FormatValue(r.MaritalStatus),
		"Education: " + dataset.FormatValue(r.EducationLevel),
		"Occupation Level: " + dataset.FormatValue(r.Occupation),
		"Location: " + dataset.FormatValue(r.Location),
	}
	purchase := []string{
		"Category: " + dataset.FormatValue(r.PurchaseCategory),
		fmt.Sprintf("Amount: $%.2f", r.PurchaseAmount),
		"Frequency: " + dataset.FormatValue(r.PurchaseFrequency) + " times",
		"Channel: " + dataset.FormatValue(r.PurchaseChannel),
		"Date: " + dataset.FormatValue(r.PurchaseTime),
	}
	behavior := []string{
		"Brand Loyalty: " + dataset.FormatValue(r.BrandLoyalty) + "/5",
		"Product Rating: " + dataset.FormatValue(r.ProductRating) + "/5",
		"Research Time: " + dataset.FormatValue(r.ResearchHours) + " hours",
		"Social Media Influence: " + dataset.FormatValue(r.SocialMediaInfluence),
		"Discount Sensitivity: " + dataset.FormatValue(r.DiscountSensitivity),
		"Return Rate: " + dataset.FormatValue(r.ReturnRate),
		"Satisfaction: " + dataset.FormatValue(r.Satisfaction) + "/10",
		"Ad Engagement: " + dataset.FormatValue(r.AdEngagement),
		"Used Discount: " + dataset.FormatValue(r.DiscountUsed),
		"Loyalty Program Member: " + dataset.FormatValue(r.LoyaltyMember),
		"Purchase Intent: " + dataset.FormatValue(r.PurchaseIntent),
		"Shipping Preference: " + dataset.FormatValue(r.ShippingPreference),
		"Time to Decision: " + dataset.FormatValue(r.TimeToDecision) + " days",
	}
	tech := []string{
		"Device: " + dataset.FormatValue(r.Device),
		"Payment: " + dataset.FormatValue(r.PaymentMethod),
	}

	content := strings.Join([]string{
		fmt.Sprintf("Customer data (Row %d):", idx),
		"Demographics: " + strings.Join(demographics, " | "),
		"Purchase: " + strings.Join(purchase, " | "),
		"Shopping Behavior: " + strings.Join(behavior, " | "),
		"Technology: " + strings.Join(tech, " | "),
	}, "\n")

	metadata := r.Fields()
	metadata["doc_type"] = DocTypeCustomerRow
	metadata["row_idx"] = strconv.Itoa(idx)
	return Document{Content: content, Metadata: metadata}
}

// segmentDocument renders a single-dimension segment with its statistics
// and distribution breakdowns.
func segmentDocument(dim segment.Dimension, value string, seg []dataset.Record, stats segment.Statistics) Document {
	title := dim.Name + ": " + value
	parts := []string{
		"Segment Analysis: " + title,
		fmt.Sprintf("Total customers in this segment: %d (%s of all customers)", stats.Count, pct(stats.Percentage)),
		"Purchase metrics:",
		"- Average purchase amount: " + money(stats.AvgPurchase),
		"- Total purchase amount: " + money(stats.TotalPurchase),
		fmt.Sprintf("- Average customer satisfaction: %.1f/10", stats.AvgSatisfaction),
		"Customer profile:",
		"- Discount usage rate: " + pct(stats.DiscountUsage),
		"- Loyalty program membership: " + pct(stats.LoyaltyMembership),
	}

	if dim.Key != dataset.ColPurchaseChannel {
		parts = append(parts, "Purchase channel distribution:")
		parts = append(parts, breakdownLines(seg, func(r dataset.Record) string { return r.PurchaseChannel }, 0)...)
	}
	if dim.Key != dataset.ColPurchaseCategory {
		parts = append(parts, "Top product categories:")
		parts = append(parts, breakdownLines(seg, func(r dataset.Record) string { return r.PurchaseCategory }, 5)...)
	}
	if dim.Key != dataset.ColDevice {
		parts = append(parts, "Device usage:")
		parts = append(parts, breakdownLines(seg, func(r dataset.Record) string { return r.Device }, 0)...)
	}

	metadata := map[string]string{
		"doc_type":           DocTypeSegment,
		"dimension":          dim.Key,
		"segment_value":      value,
		"segment_name":       title,
		"count":              strconv.Itoa(stats.Count),
		"percentage":         pct(stats.Percentage),
		"avg_purchase":       money(stats.AvgPurchase),
		"total_purchase":     money(stats.TotalPurchase),
		"avg_satisfaction":   fmt.Sprintf("%.1f", stats.AvgSatisfaction),
		"discount_usage":     pct(stats.DiscountUsage),
		"loyalty_membership": pct(stats.LoyaltyMembership),
	}
	return Document{Content: strings.Join(parts, "\n"), Metadata: metadata}
}

// multiSegmentDocument renders a cross-tabulated segment: joint counts,
// parent-relative percentages, breakdowns and conditional insights.
func multiSegmentDocument(pair segment.Pair, v1, v2 string, joint []dataset.Record, stats, parentStats segment.Statistics) Document {
	title := pair.First.Name + ": " + v1 + " + " + pair.Second.Name + ": " + v2
	parts := []string{
		"Multi-Dimension Segment Analysis: " + title,
		"Customer counts:",
		fmt.Sprintf("- Total in this segment: %d", stats.Count),
		fmt.Sprintf("- Percentage of %s: %s: %s", pair.First.Name, v1, pct(stats.PercentOfParent)),
		"- Percentage of all customers: " + pct(stats.PercentOfTotal),
		"Purchase metrics:",
		"- Average purchase amount: " + money(stats.AvgPurchase),
		"- Total purchase amount: " + money(stats.TotalPurchase),
		fmt.Sprintf("- Average customer satisfaction: %.1f/10", stats.AvgSatisfaction),
		"Customer profile:",
		"- Discount usage rate: " + pct(stats.DiscountUsage),
		"- Loyalty program membership: " + pct(stats.LoyaltyMembership),
	}

	if pair.First.Key != dataset.ColGender && pair.Second.Key != dataset.ColGender {
		parts = append(parts, "Gender distribution:")
		parts = append(parts, breakdownLines(joint, func(r dataset.Record) string { return r.Gender }, 0)...)
	}
	if pair.First.Key != dataset.ColPurchaseCategory && pair.Second.Key != dataset.ColPurchaseCategory {
		parts = append(parts, "Top product categories:")
		parts = append(parts, breakdownLines(joint, func(r dataset.Record) string { return r.PurchaseCategory }, 3)...)
	}

	if stats.PercentOfParent > 50 {
		parts = append(parts, fmt.Sprintf("Insight: Most customers of the parent segment (%s) fall in this segment.", pct(stats.PercentOfParent)))
	}
	if stats.AvgPurchase > parentStats.AvgPurchase*1.2 {
		parts = append(parts, "Insight: This segment spends significantly more than its parent segment average.")
	}
	if stats.AvgSatisfaction > parentStats.AvgSatisfaction*1.1 {
		parts = append(parts, "Insight: This segment has significantly higher satisfaction than its parent segment.")
	}

	metadata := map[string]string{
		"doc_type":             DocTypeMultiSegment,
		"dimension1":           pair.First.Key,
		"dimension2":           pair.Second.Key,
		"value1":               v1,
		"value2":               v2,
		"segment_name":         title,
		"count":                strconv.Itoa(stats.Count),
		"parent_count":         strconv.Itoa(stats.ParentCount),
		"percentage_of_parent": pct(stats.PercentOfParent),
		"percentage_of_total":  pct(stats.PercentOfTotal),
		"avg_purchase":         money(stats.AvgPurchase),
		"total_purchase":       money(stats.TotalPurchase),
		"avg_satisfaction":     fmt.Sprintf("%.1f", stats.AvgSatisfaction),
		"discount_usage":       pct(stats.DiscountUsage),
		"loyalty_membership":   pct(stats.LoyaltyMembership),
	}
	return Document{Content: strings.Join(parts, "\n"), Metadata: metadata}
}

// breakdownLines renders "- value: x.x%" lines for the distribution of an
// accessor over a segment, sorted by descending frequency. Ties keep
// first-seen order; top > 0 truncates to the most frequent values.
func breakdownLines(recs []dataset.Record, value func(dataset.Record) string, top int) []string {
	type share struct {
		value string
		count int
	}
	index := map[string]int{}
	var shares []share
	for _, r := range recs {
		v := value(r)
		if i, ok := index[v]; ok {
			shares[i].count++
			continue
		}
		index[v] = len(shares)
		shares = append(shares, share{value: v, count: 1})
	}
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].count > shares[j].count })
	if top > 0 && len(shares) > top {
		shares = shares[:top]
	}
	lines := make([]string, len(shares))
	for i, sh := range shares {
		lines[i] = fmt.Sprintf("- %s: %s", sh.value, pct(float64(sh.count)/float64(len(recs))*100))
	}
	return lines
}

// pct renders a 0-100 percentage at the one-decimal display precision used
// throughout document content and metadata.
func pct(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }
