package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Fixture payloads mirror the backend's response bodies. The numbers are
// chosen so expected chart values can be checked by hand:
//
//   - 2024 revenue: Aerospace 900, Foods 800, Biotech 300 (total 2000)
//   - latest HR date 2024-02, latest security date 2024-01-02
//   - six R&D projects, so a top-5 prefix drops "Aerial Drone"
const (
	FinancialJSON = `{
  "records": [
    {"Division": "Wayne Aerospace", "Quarter": "Q1", "Year": 2023, "Revenue_M": 300, "Net_Profit_M": 40, "Employee_Count": 2000, "Customer_Satisfaction_Score": 8.5},
    {"Division": "Wayne Foods", "Quarter": "Q1", "Year": 2023, "Revenue_M": 200, "Net_Profit_M": 20, "Employee_Count": 1500, "Customer_Satisfaction_Score": 8.1},
    {"Division": "Wayne Aerospace", "Quarter": "Q1", "Year": 2024, "Revenue_M": 400, "Net_Profit_M": 55.5, "Employee_Count": 2100, "Customer_Satisfaction_Score": 8.7},
    {"Division": "Wayne Foods", "Quarter": "Q1", "Year": 2024, "Revenue_M": 350, "Net_Profit_M": 30, "Employee_Count": 1600, "Customer_Satisfaction_Score": 8.3},
    {"Division": "Wayne Biotech", "Quarter": "Q1", "Year": 2024, "Revenue_M": 300, "Net_Profit_M": 12.25, "Employee_Count": 900, "Market_Share_Pct": null, "Customer_Satisfaction_Score": 8.4},
    {"Division": "Wayne Aerospace", "Quarter": "Q2", "Year": 2024, "Revenue_M": 500, "Net_Profit_M": 60, "Employee_Count": 2200, "Customer_Satisfaction_Score": 8.8},
    {"Division": "Wayne Foods", "Quarter": "Q2", "Year": 2024, "Revenue_M": 450, "Net_Profit_M": 31, "Employee_Count": 2200, "Customer_Satisfaction_Score": 8.4}
  ],
  "summary": {
    "total_revenue": 2500,
    "total_profit": 248.75,
    "avg_satisfaction": 8.456,
    "total_employees": 12500,
    "divisions": ["Wayne Aerospace", "Wayne Foods", "Wayne Biotech"]
  }
}`

	HRJSON = `{
  "records": [
    {"Department": "Engineering", "Employee_Level": "Senior", "Date": "2024-01", "Retention_Rate_Pct": 90.5},
    {"Department": "Legal", "Employee_Level": "Senior", "Date": "2024-01", "Retention_Rate_Pct": 85},
    {"Department": "Engineering", "Employee_Level": "Senior", "Date": "2024-02", "Retention_Rate_Pct": 91},
    {"Department": "Legal", "Employee_Level": "Senior", "Date": "2024-02", "Retention_Rate_Pct": 86.5},
    {"Department": "Finance", "Employee_Level": "Senior", "Date": "2024-02", "Retention_Rate_Pct": 88}
  ],
  "summary": {"avg_retention_rate": 88.2, "departments": ["Engineering", "Legal", "Finance"]}
}`

	RNDJSON = `{
  "records": [
    {"Project_ID": "RD001", "Project_Name": "Quantum Armor", "Division": "Wayne Aerospace", "Status": "Active", "Budget_Allocated_M": 12.5, "Budget_Spent_M": 9.75},
    {"Project_ID": "RD002", "Project_Name": "Cryo Shield", "Division": "Wayne Biotech", "Status": "Active", "Budget_Allocated_M": 8, "Budget_Spent_M": 8.5},
    {"Project_ID": "RD003", "Project_Name": "Grapple Gun", "Division": "Wayne Aerospace", "Status": "Completed", "Budget_Allocated_M": 3, "Budget_Spent_M": 1.5},
    {"Project_ID": "RD004", "Project_Name": "Tumbler Mk II", "Division": "Wayne Aerospace", "Status": "Active", "Budget_Allocated_M": 20, "Budget_Spent_M": 18},
    {"Project_ID": "RD005", "Project_Name": "Cowl Optics", "Division": "Wayne Biotech", "Status": "Active", "Budget_Allocated_M": 5.25, "Budget_Spent_M": 4},
    {"Project_ID": "RD006", "Project_Name": "Aerial Drone", "Division": "Wayne Aerospace", "Status": "Planning", "Budget_Allocated_M": 7, "Budget_Spent_M": 2}
  ],
  "summary": {"total_projects": 6, "active_projects": 4}
}`

	SecurityJSON = `{
  "records": [
    {"Date": "2024-01-01", "District": "Downtown", "Security_Incidents": 12, "Response_Time_Minutes": 6.5},
    {"Date": "2024-01-01", "District": "Old Gotham", "Security_Incidents": 20, "Response_Time_Minutes": 9},
    {"Date": "2024-01-02", "District": "Downtown", "Security_Incidents": 9, "Response_Time_Minutes": 6},
    {"Date": "2024-01-02", "District": "Old Gotham", "Security_Incidents": 17, "Response_Time_Minutes": 8.5},
    {"Date": "2024-01-02", "District": "The Narrows", "Security_Incidents": 31, "Response_Time_Minutes": 12}
  ],
  "summary": {"total_incidents": 89, "districts": ["Downtown", "Old Gotham", "The Narrows"]}
}`
)

// FixtureBodies returns the fixture payloads keyed by category name.
func FixtureBodies() map[string]string {
	return map[string]string{
		"financial": FinancialJSON,
		"hr":        HRJSON,
		"rnd":       RNDJSON,
		"security":  SecurityJSON,
	}
}

// WriteFixtureDir writes the fixture payloads as <category>.json files into a
// fresh temporary directory and returns its path.
func WriteFixtureDir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range FixtureBodies() {
		if err := os.WriteFile(filepath.Join(dir, name+".json"), []byte(body), 0644); err != nil {
			t.Fatalf("writing fixture %s: %v", name, err)
		}
	}
	return dir
}
