package corpus

import (
	"strings"
	"testing"

	"github.com/KaramelBytes/tablerag-cli/internal/dataset"
	"github.com/KaramelBytes/tablerag-cli/internal/segment"
)

func fixtureRecords() []dataset.Record {
	return []dataset.Record{
		{CustomerID: "C1", Age: 22, Gender: "Female", IncomeLevel: "High", MaritalStatus: "Single", PurchaseCategory: "Electronics", PurchaseAmount: 100, PurchaseChannel: "Online", Satisfaction: 8, DiscountUsed: true, LoyaltyMember: true, Device: "Smartphone"},
		{CustomerID: "C2", Age: 31, Gender: "Female", IncomeLevel: "Low", MaritalStatus: "Married", PurchaseCategory: "Clothing", PurchaseAmount: 200, PurchaseChannel: "In-Store", Satisfaction: 6, DiscountUsed: false, LoyaltyMember: true, Device: "Desktop"},
		{CustomerID: "C3", Age: 45, Gender: "Male", IncomeLevel: "High", MaritalStatus: "Single", PurchaseCategory: "Electronics", PurchaseAmount: 400, PurchaseChannel: "Online", Satisfaction: 9, DiscountUsed: true, LoyaltyMember: false, Device: "Tablet"},
		{CustomerID: "C4", Age: 58, Gender: "Male", IncomeLevel: "Middle", MaritalStatus: "Married", PurchaseCategory: "Groceries", PurchaseAmount: 50, PurchaseChannel: "Online", Satisfaction: 5, DiscountUsed: false, LoyaltyMember: false, Device: "Smartphone"},
	}
}

func fixtureDimensions() []segment.Dimension {
	return []segment.Dimension{
		segment.NewColumnDimension(dataset.ColGender, "Gender", func(r dataset.Record) string { return r.Gender }),
		segment.NewColumnDimension(dataset.ColPurchaseChannel, "Purchase Channel", func(r dataset.Record) string { return r.PurchaseChannel }),
		segment.AgeDimension(),
	}
}

func fixturePairs() []segment.Pair {
	gender := segment.NewColumnDimension(dataset.ColGender, "Gender", func(r dataset.Record) string { return r.Gender })
	channel := segment.NewColumnDimension(dataset.ColPurchaseChannel, "Purchase Channel", func(r dataset.Record) string { return r.PurchaseChannel })
	return []segment.Pair{{First: gender, Second: channel}}
}

func buildFixture(t *testing.T) []Document {
	t.Helper()
	s := NewSynthesizer(fixtureDimensions(), fixturePairs(), nil)
	return s.Build(fixtureRecords())
}

func TestBuildRowDocuments(t *testing.T) {
	docs := buildFixture(t)
	recs := fixtureRecords()

	var rows []Document
	for _, d := range docs {
		if d.Type() == DocTypeCustomerRow {
			rows = append(rows, d)
		}
	}
	if len(rows) != len(recs) {
		t.Fatalf("expected %d row documents, got %d", len(recs), len(rows))
	}
	first := rows[0]
	if first.Metadata["row_idx"] != "0" {
		t.Errorf("row_idx = %q, want 0", first.Metadata["row_idx"])
	}
	if first.Metadata[dataset.ColGender] != "Female" {
		t.Errorf("row metadata should mirror columns, Gender = %q", first.Metadata[dataset.ColGender])
	}
	for _, section := range []string{"Customer data (Row 0):", "Demographics:", "Purchase:", "Shopping Behavior:", "Technology:"} {
		if !strings.Contains(first.Content, section) {
			t.Errorf("row content missing section %q", section)
		}
	}
	if !strings.Contains(first.Content, "Amount: $100.00") {
		t.Errorf("row content missing formatted amount: %s", first.Content)
	}
}

func TestBuildSegmentDocuments(t *testing.T) {
	docs := buildFixture(t)

	var female Document
	found := false
	for _, d := range docs {
		if d.Type() == DocTypeSegment && d.Metadata["dimension"] == dataset.ColGender && d.Metadata["segment_value"] == "Female" {
			female = d
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("no segment document for Gender=Female")
	}
	if female.Metadata["count"] != "2" {
		t.Errorf("count = %q, want 2", female.Metadata["count"])
	}
	if female.Metadata["percentage"] != "50.0%" {
		t.Errorf("percentage = %q, want 50.0%%", female.Metadata["percentage"])
	}
	if female.Metadata["avg_purchase"] != "$150.00" {
		t.Errorf("avg_purchase = %q", female.Metadata["avg_purchase"])
	}
	// Breakdowns exclude the segment's own dimension but include others.
	if !strings.Contains(female.Content, "Purchase channel distribution:") {
		t.Errorf("expected channel breakdown in gender segment")
	}
	if !strings.Contains(female.Content, "Device usage:") {
		t.Errorf("expected device breakdown in gender segment")
	}

	for _, d := range docs {
		if d.Type() == DocTypeSegment && d.Metadata["dimension"] == dataset.ColPurchaseChannel {
			if strings.Contains(d.Content, "Purchase channel distribution:") {
				t.Errorf("channel segment should not break down by channel")
			}
		}
	}
}

func TestBuildSkipsEmptyAgeBuckets(t *testing.T) {
	docs := buildFixture(t)
	// Fixture ages are 22, 31, 45 and 58, so the 35-44 bucket is empty and
	// must not produce a document.
	for _, d := range docs {
		if d.Type() == DocTypeSegment && d.Metadata["dimension"] == "Age_Group" && d.Metadata["segment_value"] == "35-44" {
			t.Fatalf("empty age bucket produced a document: %v", d.Metadata)
		}
	}
}

func TestMultiSegmentMetadataKeys(t *testing.T) {
	docs := buildFixture(t)
	want := []string{
		"doc_type", "dimension1", "dimension2", "value1", "value2",
		"segment_name", "count", "parent_count", "percentage_of_parent",
		"percentage_of_total", "avg_purchase", "total_purchase",
		"avg_satisfaction", "discount_usage", "loyalty_membership",
	}
	checked := 0
	for _, d := range docs {
		if d.Type() != DocTypeMultiSegment {
			continue
		}
		checked++
		if len(d.Metadata) != len(want) {
			t.Fatalf("multi-segment metadata has %d keys, want %d: %v", len(d.Metadata), len(want), d.Metadata)
		}
		for _, k := range want {
			if _, ok := d.Metadata[k]; !ok {
				t.Fatalf("multi-segment metadata missing key %q", k)
			}
		}
	}
	if checked == 0 {
		t.Fatalf("no multi-dimension documents synthesized")
	}
}

func TestMultiSegmentParentPercentages(t *testing.T) {
	docs := buildFixture(t)
	for _, d := range docs {
		if d.Type() != DocTypeMultiSegment {
			continue
		}
		if d.Metadata["value1"] == "Male" && d.Metadata["value2"] == "Online" {
			if d.Metadata["count"] != "2" || d.Metadata["parent_count"] != "2" {
				t.Fatalf("Male+Online counts: %v", d.Metadata)
			}
			if d.Metadata["percentage_of_parent"] != "100.0%" {
				t.Fatalf("percentage_of_parent = %q", d.Metadata["percentage_of_parent"])
			}
			if !strings.Contains(d.Content, "Insight: Most customers of the parent segment") {
				t.Fatalf("expected parent-share insight, content:\n%s", d.Content)
			}
			return
		}
	}
	t.Fatalf("Male+Online multi-segment document not found")
}

func TestBuildIdempotent(t *testing.T) {
	s := NewSynthesizer(fixtureDimensions(), fixturePairs(), nil)
	a := s.Build(fixtureRecords())
	b := s.Build(fixtureRecords())
	if len(a) != len(b) {
		t.Fatalf("document counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Content != b[i].Content {
			t.Fatalf("content differs at document %d", i)
		}
		if len(a[i].Metadata) != len(b[i].Metadata) {
			t.Fatalf("metadata differs at document %d", i)
		}
		for k, v := range a[i].Metadata {
			if b[i].Metadata[k] != v {
				t.Fatalf("metadata %q differs at document %d: %q vs %q", k, i, v, b[i].Metadata[k])
			}
		}
	}
}
