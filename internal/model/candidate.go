package model

// CompanyCandidate is one company parsed out of free-text completion output.
// Fields default to "Unknown" when the text does not carry them.
type CompanyCandidate struct {
	Name           string `json:"name"`
	Website        string `json:"website"`
	Revenue        string `json:"revenue"`
	Headquarters   string `json:"headquarters"`
	EmployeeCount  string `json:"employee_count"`
	VerifiedSource string `json:"verified_source"`

	// Contacts is filled by the optional contact-discovery step.
	Contacts []Contact `json:"contacts,omitempty"`
}

// ValidationOutcome records why a candidate was accepted or rejected.
type ValidationOutcome struct {
	Candidate CompanyCandidate `json:"candidate"`
	Accepted  bool             `json:"accepted"`
	Reasons   []string         `json:"reasons,omitempty"`

	// Parsed numeric forms, zero when unparseable.
	Employees       int     `json:"employees,omitempty"`
	RevenueMillions float64 `json:"revenue_millions,omitempty"`
}
