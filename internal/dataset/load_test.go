package dataset

import (
	"errors"
	"strings"
	"testing"
)

func sampleHeader() string {
	return strings.Join(RequiredColumns, ",")
}

func sampleRow() string {
	return strings.Join([]string{
		"CUST-001", "34", "Female", "High", "Single", "Bachelor's", "Engineer", "Seattle",
		"Electronics", `"$1,249.99"`, "7", "Online", "3/15/2024",
		"4", "4.5", "2.5", "High", "Somewhat Sensitive", "0.1",
		"8", "High", "Yes", "True", "Need-based", "Standard", "3",
		"Smartphone", "Credit Card",
	}, ",")
}

func TestReadTypedFields(t *testing.T) {
	recs, err := Read(strings.NewReader(sampleHeader() + "\n" + sampleRow() + "\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Age != 34 {
		t.Errorf("Age = %d, want 34", r.Age)
	}
	if r.PurchaseAmount != 1249.99 {
		t.Errorf("PurchaseAmount = %v, want 1249.99", r.PurchaseAmount)
	}
	if !r.DiscountUsed {
		t.Errorf("DiscountUsed should coerce 'Yes' to true")
	}
	if !r.LoyaltyMember {
		t.Errorf("LoyaltyMember should coerce 'True' to true")
	}
	if got := r.PurchaseTime.Format("2006-01-02"); got != "2024-03-15" {
		t.Errorf("PurchaseTime = %s, want 2024-03-15", got)
	}
	if r.Satisfaction != 8 {
		t.Errorf("Satisfaction = %v, want 8", r.Satisfaction)
	}
}

func TestReadMissingColumnsFatal(t *testing.T) {
	_, err := Read(strings.NewReader("Customer_ID,Age,Gender\nC1,20,Male\n"))
	var mce *MissingColumnsError
	if !errors.As(err, &mce) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	if len(mce.Columns) == 0 {
		t.Fatalf("expected missing columns to be enumerated")
	}
	for _, c := range mce.Columns {
		if c == ColCustomerID || c == ColAge || c == ColGender {
			t.Errorf("column %s reported missing but present", c)
		}
	}
}

func TestFieldsMirrorsEveryColumn(t *testing.T) {
	recs, err := Read(strings.NewReader(sampleHeader() + "\n" + sampleRow() + "\n"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	fields := recs[0].Fields()
	if len(fields) != len(RequiredColumns) {
		t.Fatalf("Fields has %d entries, want %d", len(fields), len(RequiredColumns))
	}
	for _, c := range RequiredColumns {
		if _, ok := fields[c]; !ok {
			t.Errorf("missing field for column %s", c)
		}
	}
	if fields[ColDiscountUsed] != "true" {
		t.Errorf("Discount_Used = %q, want true", fields[ColDiscountUsed])
	}
	if fields[ColPurchaseTime] != "2024-03-15" {
		t.Errorf("Time_of_Purchase = %q, want 2024-03-15", fields[ColPurchaseTime])
	}
}

func TestParseDateLenient(t *testing.T) {
	if !parseDate("not-a-date").IsZero() {
		t.Errorf("malformed date should yield zero time")
	}
	if parseDate("12/1/2023").IsZero() {
		t.Errorf("M/D/YYYY should parse")
	}
}
