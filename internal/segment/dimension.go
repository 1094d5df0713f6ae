package segment

import (
	"github.com/KaramelBytes/tablerag-cli/internal/dataset"
)

// AgeBucket is a labeled inclusive age range. Min==0 marks the lowest
// bucket, which uses an open lower bound (everything up to Max).
type AgeBucket struct {
	Label string
	Min   int
	Max   int
}

func (b AgeBucket) contains(age int) bool {
	if b.Min == 0 {
		return age <= b.Max
	}
	return age >= b.Min && age <= b.Max
}

// Dimension is a named grouping key over records: either a direct column
// accessor or a derived age-bucket rule.
type Dimension struct {
	// Key is the stable identifier used in document metadata,
	// e.g. "Gender" or "Age_Group".
	Key string
	// Name is the display name used in segment titles, e.g. "Age Group".
	Name string

	value   func(dataset.Record) string
	buckets []AgeBucket
}

// Pair configures a cross-tabulation of two dimensions.
type Pair struct {
	First  Dimension
	Second Dimension
}

// NewColumnDimension builds a dimension over a direct column accessor.
func NewColumnDimension(key, name string, value func(dataset.Record) string) Dimension {
	return Dimension{Key: key, Name: name, value: value}
}

// NewAgeDimension builds the derived age-bucket dimension.
func NewAgeDimension(key, name string, buckets []AgeBucket) Dimension {
	return Dimension{Key: key, Name: name, buckets: buckets}
}

// Derived reports whether values come from a bucketing rule rather than a
// column.
func (d Dimension) Derived() bool { return len(d.buckets) > 0 }

// ValueOf returns the dimension value for a single record.
func (d Dimension) ValueOf(r dataset.Record) string {
	if d.Derived() {
		for _, b := range d.buckets {
			if b.contains(r.Age) {
				return b.Label
			}
		}
		return ""
	}
	return d.value(r)
}

// Values enumerates the distinct dimension values. For derived dimensions
// the configured bucket labels are returned in configuration order; for
// column dimensions values appear in first-seen row order, which keeps the
// synthesized corpus reproducible for a fixed input table.
func (d Dimension) Values(recs []dataset.Record) []string {
	if d.Derived() {
		out := make([]string, len(d.buckets))
		for i, b := range d.buckets {
			out[i] = b.Label
		}
		return out
	}
	seen := make(map[string]struct{}, 16)
	var out []string
	for _, r := range recs {
		v := d.value(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Filter returns the subset of records matching the given dimension value.
func (d Dimension) Filter(recs []dataset.Record, value string) []dataset.Record {
	var match func(dataset.Record) bool
	if d.Derived() {
		var bucket *AgeBucket
		for i := range d.buckets {
			if d.buckets[i].Label == value {
				bucket = &d.buckets[i]
				break
			}
		}
		if bucket == nil {
			return nil
		}
		match = func(r dataset.Record) bool { return bucket.contains(r.Age) }
	} else {
		match = func(r dataset.Record) bool { return d.value(r) == value }
	}
	var out []dataset.Record
	for _, r := range recs {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}

// DefaultAgeGroups is the configured age bucketing of the source dataset.
func DefaultAgeGroups() []AgeBucket {
	return []AgeBucket{
		{Label: "Under 25", Min: 0, Max: 24},
		{Label: "25-34", Min: 25, Max: 34},
		{Label: "35-44", Min: 35, Max: 44},
		{Label: "45-54", Min: 45, Max: 54},
		{Label: "55+", Min: 55, Max: 150},
	}
}

// DefaultSingleDimensions returns the configured single-dimension registry.
// The derived age dimension comes last, matching the order segment
// documents are synthesized in.
func DefaultSingleDimensions() []Dimension {
	return []Dimension{
		NewColumnDimension(dataset.ColGender, "Gender", func(r dataset.Record) string { return r.Gender }),
		NewColumnDimension(dataset.ColIncomeLevel, "Income Level", func(r dataset.Record) string { return r.IncomeLevel }),
		NewColumnDimension(dataset.ColMaritalStatus, "Marital Status", func(r dataset.Record) string { return r.MaritalStatus }),
		NewColumnDimension(dataset.ColEducationLevel, "Education Level", func(r dataset.Record) string { return r.EducationLevel }),
		NewColumnDimension(dataset.ColPurchaseCategory, "Purchase Category", func(r dataset.Record) string { return r.PurchaseCategory }),
		NewColumnDimension(dataset.ColPurchaseChannel, "Purchase Channel", func(r dataset.Record) string { return r.PurchaseChannel }),
		NewColumnDimension(dataset.ColDevice, "Shopping Device", func(r dataset.Record) string { return r.Device }),
		NewColumnDimension(dataset.ColPaymentMethod, "Payment Method", func(r dataset.Record) string { return r.PaymentMethod }),
		AgeDimension(),
	}
}

// AgeDimension returns the derived age-bucket dimension with the default
// buckets.
func AgeDimension() Dimension {
	return NewAgeDimension("Age_Group", "Age Group", DefaultAgeGroups())
}

// DefaultDimensionPairs returns the configured cross-tabulation registry.
func DefaultDimensionPairs() []Pair {
	gender := NewColumnDimension(dataset.ColGender, "Gender", func(r dataset.Record) string { return r.Gender })
	marital := NewColumnDimension(dataset.ColMaritalStatus, "Marital Status", func(r dataset.Record) string { return r.MaritalStatus })
	income := NewColumnDimension(dataset.ColIncomeLevel, "Income Level", func(r dataset.Record) string { return r.IncomeLevel })
	category := NewColumnDimension(dataset.ColPurchaseCategory, "Purchase Category", func(r dataset.Record) string { return r.PurchaseCategory })
	channel := NewColumnDimension(dataset.ColPurchaseChannel, "Purchase Channel", func(r dataset.Record) string { return r.PurchaseChannel })
	discount := NewColumnDimension(dataset.ColDiscountUsed, "Discount Used", func(r dataset.Record) string { return dataset.FormatValue(r.DiscountUsed) })
	device := NewColumnDimension(dataset.ColDevice, "Shopping Device", func(r dataset.Record) string { return r.Device })
	age := AgeDimension()

	return []Pair{
		{First: gender, Second: discount},
		{First: category, Second: channel},
		{First: marital, Second: channel},
		{First: income, Second: category},
		{First: age, Second: category},
		{First: age, Second: device},
	}
}
