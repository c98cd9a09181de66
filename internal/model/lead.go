package model

// LeadRecord is the canonical fused record for one lead query. Fields the
// pipeline cannot populate stay empty so downstream sheets keep their columns.
type LeadRecord struct {
	LeadName    string `json:"lead_name"`
	Designation string `json:"designation"`
	Department  string `json:"department"`

	CompanyName string `json:"company_name"`
	Website     string `json:"website"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	LinkedIn    string `json:"linkedin"`

	City      string `json:"city"`
	Region    string `json:"region"`
	Country   string `json:"country"`
	Locations string `json:"locations"`
	Timezone  string `json:"timezone"`

	IndustrySegment string `json:"industry_segment"`
	IndustryType    string `json:"industry_type"`
	Rating          string `json:"rating"`
	ReviewCount     string `json:"review_count"`

	// Property fields are left blank for manual enrichment.
	PropertyType     string `json:"property_type"`
	NumProperties    string `json:"num_properties"`
	NumRooms         string `json:"num_rooms"`
	AverageDailyRate string `json:"average_daily_rate"`

	// Alternates retained alongside the primary picks, sorted.
	AllEmails []string `json:"all_emails,omitempty"`
	AllPhones []string `json:"all_phones,omitempty"`
}

// SearchResult is one organic result from a search job.
type SearchResult struct {
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	SiteLinks   []SiteLink `json:"siteLinks,omitempty"`
}

// SiteLink is a sub-link attached to an organic search result.
type SiteLink struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// Contact is a discovered person at a company.
type Contact struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	LinkedIn string `json:"linkedin"`
	Snippet  string `json:"snippet,omitempty"`
}
