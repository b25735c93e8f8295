package schema

// CheckResult holds the results of a CI policy check.
type CheckResult struct {
	Passed        bool             `json:"passed"`
	Target        string           `json:"target"`
	FailOn        Severity         `json:"failOn"`
	MinScore      int              `json:"minScore"`
	OverallScore  int              `json:"overallScore"`
	OverallGrade  Grade            `json:"overallGrade"`
	TotalPackages int              `json:"totalPackages"`
	Violations    []RiskAlert      `json:"violations"`  // Alerts at or above FailOn
	ScoreFailed   bool             `json:"scoreFailed"` // OverallScore < MinScore
	CountBySev    map[Severity]int `json:"countBySeverity"`
}
