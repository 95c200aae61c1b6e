package screening

import (
	"github.com/firmify/board-candidate-screener/registry"
	"github.com/firmify/board-candidate-screener/roles"
)

// ScreeningRequest carries every filter of one screening run. Zero values
// mean "no filter" except TopN, which defaults when unset.
type ScreeningRequest struct {
	County         string   `json:"county,omitempty"`
	KommuneNumbers []string `json:"kommuneNumbers,omitempty"`
	MinEmployees   int      `json:"minEmployees,omitempty"`
	MaxEmployees   int      `json:"maxEmployees,omitempty"`
	Segments       []string `json:"segments,omitempty"`
	Private        bool     `json:"private"`
	Public         bool     `json:"public"`
	OnlyWithSite   bool     `json:"onlyWithSite"`
	TopN           int      `json:"topN,omitempty"`
	RoleCategories []string `json:"roleCategories,omitempty"`
	ActiveOnly     bool     `json:"activeOnly"`
}

// CompanyRow is one ranked company with its derived segment labels.
type CompanyRow struct {
	registry.Company
	Segments []string `json:"segments"`
}

// PersonRow is one officer/board position at one of the ranked companies.
type PersonRow struct {
	Name         string `json:"name"`
	RoleCategory string `json:"roleCategory"`
	RoleCode     string `json:"roleCode"`
	Company      string `json:"company"`
	OrgNr        string `json:"orgNr"`
	Employees    int    `json:"employees"`
	Industry     string `json:"industry"`
	Sector       string `json:"sector"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Active       bool   `json:"active"`
	RegistryLink string `json:"registryLink"`
}

type ScreeningResult struct {
	TotalHits int          `json:"totalHits"`
	Companies []CompanyRow `json:"companies"`
	People    []PersonRow  `json:"people"`
}

type OrganisationRoles struct {
	OrgNr   string             `json:"orgNr"`
	Records []roles.RoleRecord `json:"records"`
}

// FilterVocabulary is served to clients so they can present the available
// segment, county and role-category choices.
type FilterVocabulary struct {
	Segments       []string `json:"segments"`
	Counties       []string `json:"counties"`
	RoleCategories []string `json:"roleCategories"`
}
