package roles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	logger "github.com/Financial-Times/go-logger"
)

var (
	// ErrNotFound is returned when no role endpoint variant produced a
	// usable JSON document for the organisation.
	ErrNotFound = errors.New("role document not found")
)

// The registry's role API has moved between these paths over time. They are
// tried in order and the first 200 JSON response wins.
var defaultEndpointPaths = []string{
	"/enheter/%s/roller",
	"/roller/organisasjonsnummer/%s",
	"/roller/enheter/%s",
}

type Client interface {
	GetRoleDocument(ctx context.Context, orgNr string) (interface{}, error)
	Healthcheck() fthealth.Check
}

type RegistryClient struct {
	address    *url.URL
	paths      []string
	httpClient *http.Client
}

func NewClient(address string) (Client, error) {
	u, err := url.Parse(address)
	if err != nil {
		return nil, err
	}
	return &RegistryClient{
		address:    u,
		paths:      defaultEndpointPaths,
		httpClient: http.DefaultClient,
	}, nil
}

// GetRoleDocument fetches the raw role document for one organisation,
// trying each known endpoint variant in turn. The document is returned
// untyped; its shape is not stable and is handled by Extract.
func (c *RegistryClient) GetRoleDocument(ctx context.Context, orgNr string) (interface{}, error) {
	for _, path := range c.paths {
		body, status, contentType, err := c.makeRequest(ctx, fmt.Sprintf(path, orgNr))
		if err != nil {
			logger.WithError(err).WithField("orgnr", orgNr).Debug("Role endpoint variant unreachable")
			continue
		}
		if status != http.StatusOK || !strings.Contains(contentType, "application/json") {
			continue
		}
		var doc interface{}
		if err := json.Unmarshal(body, &doc); err != nil {
			logger.WithError(err).WithField("orgnr", orgNr).Debug("Role endpoint returned unparsable JSON")
			continue
		}
		return doc, nil
	}
	return nil, ErrNotFound
}

func (c *RegistryClient) Healthcheck() fthealth.Check {
	return fthealth.Check{
		ID:               "registry-roles-api-check",
		Name:             "Registry role API is accessible",
		BusinessImpact:   "Officer and board roles cannot be shown for screened companies",
		Severity:         2,
		PanicGuide:       "https://github.com/firmify/board-candidate-screener",
		TechnicalSummary: "The public registry role endpoints are inaccessible. Check registry status and the configured API address.",
		Timeout:          10 * time.Second,
		Checker: func() (string, error) {
			_, status, _, err := c.makeRequest(context.Background(), "/roller/rolletyper")
			if err != nil {
				errMsg := "failed to reach registry role API"
				return errMsg, errors.New(errMsg)
			}
			if status != http.StatusOK {
				errMsg := "bad status from registry role API"
				return errMsg, errors.New(errMsg)
			}
			return "", nil
		},
	}
}

func (c *RegistryClient) makeRequest(ctx context.Context, path string) ([]byte, int, string, error) {
	finalURL := *c.address
	finalURL.Path = strings.TrimRight(finalURL.Path, "/") + path

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL.String(), nil)
	if err != nil {
		return nil, 0, "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, "", err
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, "", err
	}
	return respBody, resp.StatusCode, resp.Header.Get("Content-Type"), nil
}
