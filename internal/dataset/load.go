package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// MissingColumnsError reports required columns absent from the CSV header.
// It is fatal: synthesis never starts against an incomplete schema.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("source table missing required columns: %s", strings.Join(e.Columns, ", "))
}

// LoadCSV reads and validates the e-commerce table from disk.
func LoadCSV(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses CSV content into typed Records. The header is validated
// against RequiredColumns before any row is parsed.
func Read(src io.Reader) ([]Record, error) {
	r := csv.NewReader(src)
	r.ReuseRecord = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &MissingColumnsError{Columns: RequiredColumns}
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	var records []Record
	for {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}
		cell := func(col string) string {
			i := idx[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		rec := Record{
			CustomerID:           cell(ColCustomerID),
			Age:                  parseInt(cell(ColAge)),
			Gender:               cell(ColGender),
			IncomeLevel:          cell(ColIncomeLevel),
			MaritalStatus:        cell(ColMaritalStatus),
			EducationLevel:       cell(ColEducationLevel),
			Occupation:           cell(ColOccupation),
			Location:             cell(ColLocation),
			PurchaseCategory:     cell(ColPurchaseCategory),
			PurchaseAmount:       parseAmount(cell(ColPurchaseAmount)),
			PurchaseFrequency:    parseInt(cell(ColPurchaseFrequency)),
			PurchaseChannel:      cell(ColPurchaseChannel),
			PurchaseTime:         parseDate(cell(ColPurchaseTime)),
			BrandLoyalty:         parseFloat(cell(ColBrandLoyalty)),
			ProductRating:        parseFloat(cell(ColProductRating)),
			ResearchHours:        parseFloat(cell(ColResearchHours)),
			SocialMediaInfluence: cell(ColSocialMediaInfluence),
			DiscountSensitivity:  cell(ColDiscountSensitivity),
			ReturnRate:           parseFloat(cell(ColReturnRate)),
			Satisfaction:         parseFloat(cell(ColSatisfaction)),
			AdEngagement:         cell(ColAdEngagement),
			DiscountUsed:         parseBool(cell(ColDiscountUsed)),
			LoyaltyMember:        parseBool(cell(ColLoyaltyMember)),
			PurchaseIntent:       cell(ColPurchaseIntent),
			ShippingPreference:   cell(ColShippingPreference),
			TimeToDecision:       parseFloat(cell(ColTimeToDecision)),
			Device:               cell(ColDevice),
			PaymentMethod:        cell(ColPaymentMethod),
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseAmount strips a leading currency sign and thousands separators
// before numeric parsing ("$1,234.50" -> 1234.5).
func parseAmount(s string) float64 {
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return parseFloat(s)
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

func parseInt(s string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n
	}
	// Tolerate integer-valued floats like "34.0".
	return int(parseFloat(s))
}

// parseBool coerces the boolean-ish spellings seen in the source data.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true
	default:
		return false
	}
}

// parseDate accepts M/D/YYYY; malformed dates become the zero time, which
// FormatValue renders as "N/A".
func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{"1/2/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
