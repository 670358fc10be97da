package records

import (
	"encoding/json"
	"fmt"
)

// Category identifies one of the four metric endpoints.
type Category string

const (
	CategoryFinancial Category = "financial"
	CategoryHR        Category = "hr"
	CategoryRND       Category = "rnd"
	CategorySecurity  Category = "security"
)

// Categories lists every category in fetch order.
var Categories = []Category{CategoryFinancial, CategoryHR, CategoryRND, CategorySecurity}

// Path returns the endpoint path relative to the API base, e.g. "/financial/".
func (c Category) Path() string {
	return "/" + string(c) + "/"
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q: must be one of %v", s, Categories)
	}
	return c, nil
}

// FinancialRecord is one division×quarter×year row.
type FinancialRecord struct {
	Division                  string   `json:"Division"`
	Quarter                   string   `json:"Quarter"`
	Year                      int      `json:"Year"`
	RevenueM                  float64  `json:"Revenue_M"`
	NetProfitM                float64  `json:"Net_Profit_M"`
	OperatingCostsM           float64  `json:"Operating_Costs_M,omitempty"`
	EmployeeCount             int      `json:"Employee_Count,omitempty"`
	RDInvestmentM             float64  `json:"RD_Investment_M,omitempty"`
	MarketSharePct            *float64 `json:"Market_Share_Pct,omitempty"`
	CustomerSatisfactionScore float64  `json:"Customer_Satisfaction_Score,omitempty"`
}

// HRRecord is one department×date row. Date is lexicographically sortable.
type HRRecord struct {
	Department                string  `json:"Department"`
	Date                      string  `json:"Date"`
	RetentionRatePct          float64 `json:"Retention_Rate_Pct"`
	EmployeeLevel             string  `json:"Employee_Level,omitempty"`
	TrainingHoursAnnual       int     `json:"Training_Hours_Annual,omitempty"`
	PerformanceRating         float64 `json:"Performance_Rating,omitempty"`
	EmployeeSatisfactionScore float64 `json:"Employee_Satisfaction_Score,omitempty"`
}

// RNDRecord is one research project.
type RNDRecord struct {
	ProjectName      string  `json:"Project_Name"`
	BudgetAllocatedM float64 `json:"Budget_Allocated_M"`
	BudgetSpentM     float64 `json:"Budget_Spent_M"`
	ProjectID        string  `json:"Project_ID,omitempty"`
	Division         string  `json:"Division,omitempty"`
	Status           string  `json:"Status,omitempty"`
	StartDate        string  `json:"Start_Date,omitempty"`
}

// SecurityRecord is one district×date row.
type SecurityRecord struct {
	District            string  `json:"District"`
	Date                string  `json:"Date"`
	SecurityIncidents   int     `json:"Security_Incidents"`
	ResponseTimeMinutes float64 `json:"Response_Time_Minutes,omitempty"`
	PublicSafetyScore   float64 `json:"Public_Safety_Score,omitempty"`
}

// Row is the set of record kinds a Payload can carry.
type Row interface {
	FinancialRecord | HRRecord | RNDRecord | SecurityRecord
}

// Payload is the envelope returned by every endpoint.
//
// Summary is the backend-precomputed aggregate; it is never interpreted by
// the data layer beyond lookups for display. Skipped counts rows dropped by
// lenient decoding and is zero in strict mode.
type Payload[T Row] struct {
	Records []T             `json:"records"`
	Summary json.RawMessage `json:"summary,omitempty"`
	Skipped int             `json:"-"`
}

// Len returns the number of decoded rows.
func (p *Payload[T]) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Records)
}

// SummaryMap decodes the summary into a generic map.
// A missing or non-object summary yields an empty map.
func (p *Payload[T]) SummaryMap() map[string]any {
	out := map[string]any{}
	if p == nil || len(p.Summary) == 0 {
		return out
	}
	if err := json.Unmarshal(p.Summary, &out); err != nil {
		return map[string]any{}
	}
	return out
}

type (
	FinancialPayload = Payload[FinancialRecord]
	HRPayload        = Payload[HRRecord]
	RNDPayload       = Payload[RNDRecord]
	SecurityPayload  = Payload[SecurityRecord]
)
