package dataset

import (
	"fmt"
	"time"
)

// Column names expected in the source CSV header.
const (
	ColCustomerID           = "Customer_ID"
	ColAge                  = "Age"
	ColGender               = "Gender"
	ColIncomeLevel          = "Income_Level"
	ColMaritalStatus        = "Marital_Status"
	ColEducationLevel       = "Education_Level"
	ColOccupation           = "Occupation"
	ColLocation             = "Location"
	ColPurchaseCategory     = "Purchase_Category"
	ColPurchaseAmount       = "Purchase_Amount"
	ColPurchaseFrequency    = "Frequency_of_Purchase"
	ColPurchaseChannel      = "Purchase_Channel"
	ColPurchaseTime         = "Time_of_Purchase"
	ColBrandLoyalty         = "Brand_Loyalty"
	ColProductRating        = "Product_Rating"
	ColResearchHours        = "Time_Spent_on_Product_Research(hours)"
	ColSocialMediaInfluence = "Social_Media_Influence"
	ColDiscountSensitivity  = "Discount_Sensitivity"
	ColReturnRate           = "Return_Rate"
	ColSatisfaction         = "Customer_Satisfaction"
	ColAdEngagement         = "Engagement_with_Ads"
	ColDiscountUsed         = "Discount_Used"
	ColLoyaltyMember        = "Customer_Loyalty_Program_Member"
	ColPurchaseIntent       = "Purchase_Intent"
	ColShippingPreference   = "Shipping_Preference"
	ColTimeToDecision       = "Time_to_Decision"
	ColDevice               = "Device_Used_for_Shopping"
	ColPaymentMethod        = "Payment_Method"
)

// RequiredColumns lists every column the loader expects in the header.
// A header missing any of these aborts the run before synthesis.
var RequiredColumns = []string{
	ColCustomerID, ColAge, ColGender, ColIncomeLevel, ColMaritalStatus,
	ColEducationLevel, ColOccupation, ColLocation,
	ColPurchaseCategory, ColPurchaseAmount, ColPurchaseFrequency,
	ColPurchaseChannel, ColPurchaseTime,
	ColBrandLoyalty, ColProductRating, ColResearchHours,
	ColSocialMediaInfluence, ColDiscountSensitivity, ColReturnRate,
	ColSatisfaction, ColAdEngagement, ColDiscountUsed, ColLoyaltyMember,
	ColPurchaseIntent, ColShippingPreference, ColTimeToDecision,
	ColDevice, ColPaymentMethod,
}

// Record is one row of the source e-commerce table with typed fields.
// Records are immutable once loaded.
type Record struct {
	// Demographics
	CustomerID     string
	Age            int
	Gender         string
	IncomeLevel    string
	MaritalStatus  string
	EducationLevel string
	Occupation     string
	Location       string

	// Transaction
	PurchaseCategory  string
	PurchaseAmount    float64
	PurchaseFrequency int
	PurchaseChannel   string
	PurchaseTime      time.Time

	// Behavior
	BrandLoyalty         float64
	ProductRating        float64
	ResearchHours        float64
	SocialMediaInfluence string
	DiscountSensitivity  string
	ReturnRate           float64
	Satisfaction         float64
	AdEngagement         string
	DiscountUsed         bool
	LoyaltyMember        bool
	PurchaseIntent       string
	ShippingPreference   string
	TimeToDecision       float64

	// Technology
	Device        string
	PaymentMethod string
}

// Fields mirrors every column as a metadata-ready string keyed by the
// canonical column name. Values go through FormatValue so the corpus
// metadata stays deterministic regardless of the field's native type.
func (r Record) Fields() map[string]string {
	return map[string]string{
		ColCustomerID:           FormatValue(r.CustomerID),
		ColAge:                  FormatValue(r.Age),
		ColGender:               FormatValue(r.Gender),
		ColIncomeLevel:          FormatValue(r.IncomeLevel),
		ColMaritalStatus:        FormatValue(r.MaritalStatus),
		ColEducationLevel:       FormatValue(r.EducationLevel),
		ColOccupation:           FormatValue(r.Occupation),
		ColLocation:             FormatValue(r.Location),
		ColPurchaseCategory:     FormatValue(r.PurchaseCategory),
		ColPurchaseAmount:       FormatValue(r.PurchaseAmount),
		ColPurchaseFrequency:    FormatValue(r.PurchaseFrequency),
		ColPurchaseChannel:      FormatValue(r.PurchaseChannel),
		ColPurchaseTime:         FormatValue(r.PurchaseTime),
		ColBrandLoyalty:         FormatValue(r.BrandLoyalty),
		ColProductRating:        FormatValue(r.ProductRating),
		ColResearchHours:        FormatValue(r.ResearchHours),
		ColSocialMediaInfluence: FormatValue(r.SocialMediaInfluence),
		ColDiscountSensitivity:  FormatValue(r.DiscountSensitivity),
		ColReturnRate:           FormatValue(r.ReturnRate),
		ColSatisfaction:         FormatValue(r.Satisfaction),
		ColAdEngagement:         FormatValue(r.AdEngagement),
		ColDiscountUsed:         FormatValue(r.DiscountUsed),
		ColLoyaltyMember:        FormatValue(r.LoyaltyMember),
		ColPurchaseIntent:       FormatValue(r.PurchaseIntent),
		ColShippingPreference:   FormatValue(r.ShippingPreference),
		ColTimeToDecision:       FormatValue(r.TimeToDecision),
		ColDevice:               FormatValue(r.Device),
		ColPaymentMethod:        FormatValue(r.PaymentMethod),
	}
}

func (r Record) String() string {
	return fmt.Sprintf("Record(%s, age=%d, %s)", r.CustomerID, r.Age, r.Gender)
}
