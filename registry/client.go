package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	logger "github.com/Financial-Times/go-logger"
)

const (
	SectorPublic  = "Offentlig"
	SectorPrivate = "Privat"
)

// Organisation forms that mark a unit as public sector regardless of its
// institutional sector code.
var publicOrgForms = map[string]bool{
	"KOMM":  true,
	"FYLKE": true,
	"KF":    true,
	"FKF":   true,
	"IKS":   true,
	"STAT":  true,
	"SF":    true,
	"ORGL":  true,
}

type Client interface {
	SearchUnits(ctx context.Context, query SearchQuery, page int, size int) (UnitPage, error)
	Healthcheck() fthealth.Check
}

type HTTPClient struct {
	address    *url.URL
	httpClient *http.Client
}

func NewClient(address string) (Client, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, err
	}
	return &HTTPClient{
		address:    u,
		httpClient: http.DefaultClient,
	}, nil
}

// SearchUnits runs one page of an Enhetsregisteret unit search and returns
// the normalized companies plus the registry's paging metadata.
func (c *HTTPClient) SearchUnits(ctx context.Context, query SearchQuery, page int, size int) (UnitPage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))
	if len(query.KommuneNumbers) > 0 {
		params.Set("kommunenummer", strings.Join(query.KommuneNumbers, ","))
	}
	if query.MinEmployees > 0 {
		params.Set("fraAntallAnsatte", strconv.Itoa(query.MinEmployees))
	}
	if query.MaxEmployees > 0 {
		params.Set("tilAntallAnsatte", strconv.Itoa(query.MaxEmployees))
	}

	respBody, status, err := c.makeRequest(ctx, "/enheter", params)
	if err != nil {
		logger.WithError(err).Error("Could not search registry units")
		return UnitPage{}, err
	}
	if status != http.StatusOK {
		logger.WithField("status", status).Error("Registry unit search returned invalid status")
		return UnitPage{}, fmt.Errorf("registry unit search returned status %d", status)
	}

	payload := searchPayload{}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return UnitPage{}, err
	}

	companies := make([]Company, 0, len(payload.Embedded.Units))
	for _, u := range payload.Embedded.Units {
		companies = append(companies, normalizeUnit(u))
	}
	return UnitPage{Companies: companies, Page: payload.Page}, nil
}

func normalizeUnit(u unit) Company {
	c := Company{
		OrgNr:     u.OrgNr,
		Name:      u.Name,
		Website:   strings.TrimSpace(u.Website),
		Employees: u.Employees,
		Sector:    inferSector(u),
	}
	if u.BusinessAddress != nil {
		c.Municipality = u.BusinessAddress.Municipality
		c.MunicipalityNo = u.BusinessAddress.MunicipalityNo
	}
	if u.OrgForm != nil {
		c.OrgForm = u.OrgForm.Code
	}
	for _, nk := range []*codedItem{u.IndustryCode1, u.IndustryCode2, u.IndustryCode3} {
		if nk != nil && nk.Code != "" {
			c.NACECodes = append(c.NACECodes, nk.Code)
		}
	}
	return c
}

// Institutional sector codes starting with "6" are public administration;
// a public organisation form also marks the unit as public.
func inferSector(u unit) string {
	if u.SectorCode != nil && strings.HasPrefix(u.SectorCode.Code, "6") {
		return SectorPublic
	}
	if u.OrgForm != nil && publicOrgForms[strings.ToUpper(u.OrgForm.Code)] {
		return SectorPublic
	}
	return SectorPrivate
}

func (c *HTTPClient) Healthcheck() fthealth.Check {
	return fthealth.Check{
		ID:               "registry-unit-api-check",
		Name:             "Registry unit API is accessible",
		BusinessImpact:   "Company screening searches cannot be served",
		Severity:         1,
		PanicGuide:       "https://github.com/firmify/board-candidate-screener",
		TechnicalSummary: "The public registry unit search endpoint is inaccessible. Check registry status and the configured API address.",
		Timeout:          10 * time.Second,
		Checker: func() (string, error) {
			params := url.Values{}
			params.Set("size", "1")
			_, status, err := c.makeRequest(context.Background(), "/enheter", params)
			if err != nil {
				errMsg := "failed to reach registry unit API"
				return errMsg, errors.New(errMsg)
			}
			if status != http.StatusOK {
				errMsg := "bad status from registry unit API"
				return errMsg, errors.New(errMsg)
			}
			return "", nil
		},
	}
}

func (c *HTTPClient) makeRequest(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	finalURL := *c.address
	finalURL.Path = strings.TrimRight(finalURL.Path, "/") + path
	finalURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL.String(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}
	return respBody, resp.StatusCode, nil
}
