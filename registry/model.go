package registry

// Raw Enhetsregisteret search payload. Only the fields the screener consumes
// are mapped; everything else in the response is ignored.
type searchPayload struct {
	Embedded struct {
		Units []unit `json:"enheter"`
	} `json:"_embedded"`
	Page PageInfo `json:"page"`
}

type unit struct {
	OrgNr           string     `json:"organisasjonsnummer"`
	Name            string     `json:"navn"`
	Website         string     `json:"hjemmeside"`
	Employees       int        `json:"antallAnsatte"`
	BusinessAddress *address   `json:"forretningsadresse"`
	OrgForm         *codedItem `json:"organisasjonsform"`
	IndustryCode1   *codedItem `json:"naeringskode1"`
	IndustryCode2   *codedItem `json:"naeringskode2"`
	IndustryCode3   *codedItem `json:"naeringskode3"`
	SectorCode      *codedItem `json:"institusjonellSektorkode"`
}

type address struct {
	Municipality   string `json:"kommune"`
	MunicipalityNo string `json:"kommunenummer"`
}

type codedItem struct {
	Code        string `json:"kode"`
	Description string `json:"beskrivelse"`
}

type PageInfo struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

// Company is a normalized registry unit.
type Company struct {
	OrgNr          string   `json:"orgNr"`
	Name           string   `json:"name"`
	Website        string   `json:"website,omitempty"`
	Municipality   string   `json:"municipality,omitempty"`
	MunicipalityNo string   `json:"municipalityNo,omitempty"`
	Employees      int      `json:"employees"`
	OrgForm        string   `json:"orgForm,omitempty"`
	NACECodes      []string `json:"naceCodes,omitempty"`
	Sector         string   `json:"sector"`
}

type UnitPage struct {
	Companies []Company `json:"companies"`
	Page      PageInfo  `json:"page"`
}

// SearchQuery carries the registry-side filters. Everything else (county
// prefixes, segments, sector, website) is filtered locally by the caller.
type SearchQuery struct {
	KommuneNumbers []string
	MinEmployees   int
	MaxEmployees   int
}
