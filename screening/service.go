package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	logger "github.com/Financial-Times/go-logger"

	"github.com/firmify/board-candidate-screener/archive"
	"github.com/firmify/board-candidate-screener/cache"
	"github.com/firmify/board-candidate-screener/registry"
	"github.com/firmify/board-candidate-screener/roles"
)

const (
	defaultTopN      = 10
	registryLinkBase = "https://w2.brreg.no/enhet/sok/detalj.jsp?orgnr="
	roleCacheKey     = "roles:"
)

var (
	ErrUnknownCounty = errors.New("unknown county")
	// ErrRolesNotFound is returned when neither the live registry endpoints
	// nor the archive hold a role document for the organisation.
	ErrRolesNotFound = errors.New("no role document available for organisation")
)

type Service interface {
	RunScreening(ctx context.Context, req ScreeningRequest, tid string) (ScreeningResult, error)
	GetOrganisationRoles(ctx context.Context, orgNr string, activeOnly bool, tid string) (OrganisationRoles, error)
	InvalidateRoleCache(ctx context.Context, orgNr string) error
	FilterVocabulary() FilterVocabulary
	Healthchecks() []fthealth.Check
}

type ScreeningService struct {
	registry registry.Client
	roles    roles.Client
	cache    cache.Cache
	archive  archive.Client
	pageSize int
	cacheTTL time.Duration
}

// NewService wires the screener's collaborators. The archive client may be
// nil, in which case the fallback read and the write-through are skipped.
func NewService(
	registryClient registry.Client,
	rolesClient roles.Client,
	documentCache cache.Cache,
	archiveClient archive.Client,
	pageSize int,
	cacheTTL time.Duration) Service {

	return &ScreeningService{
		registry: registryClient,
		roles:    rolesClient,
		cache:    documentCache,
		archive:  archiveClient,
		pageSize: pageSize,
		cacheTTL: cacheTTL,
	}
}

func (s *ScreeningService) RunScreening(ctx context.Context, req ScreeningRequest, tid string) (ScreeningResult, error) {
	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}

	countyPrefix := ""
	if req.County != "" {
		prefix, ok := countyPrefixes[req.County]
		if !ok {
			return ScreeningResult{}, fmt.Errorf("%w: %s", ErrUnknownCounty, req.County)
		}
		countyPrefix = prefix
	}

	candidates, totalHits, err := s.collectCandidates(ctx, req, countyPrefix, topN)
	if err != nil {
		return ScreeningResult{}, err
	}

	// Rank on employee count and keep the top N.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Employees > candidates[j].Employees
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	people := s.collectPeople(ctx, req, candidates, tid)

	logger.WithTransactionID(tid).Infof("Screening ranked %d of %d companies and found %d people", len(candidates), totalHits, len(people))
	return ScreeningResult{
		TotalHits: totalHits,
		Companies: candidates,
		People:    people,
	}, nil
}

// collectCandidates pages through the registry search, applying the local
// filters, until the result set is exhausted or comfortably larger than the
// requested top N.
func (s *ScreeningService) collectCandidates(ctx context.Context, req ScreeningRequest, countyPrefix string, topN int) ([]CompanyRow, int, error) {
	query := registry.SearchQuery{
		KommuneNumbers: req.KommuneNumbers,
		MinEmployees:   req.MinEmployees,
		MaxEmployees:   req.MaxEmployees,
	}

	enough := topN * 3
	if enough < topN+100 {
		enough = topN + 100
	}

	var candidates []CompanyRow
	totalHits := 0
	for page := 0; ; page++ {
		unitPage, err := s.registry.SearchUnits(ctx, query, page, s.pageSize)
		if err != nil {
			return nil, 0, err
		}
		if page == 0 {
			totalHits = unitPage.Page.TotalElements
		}

		for _, company := range unitPage.Companies {
			if countyPrefix != "" && !strings.HasPrefix(company.MunicipalityNo, countyPrefix) {
				continue
			}
			labels := segmentLabels(company.NACECodes)
			if !matchesSegments(labels, req.Segments) {
				continue
			}
			if !matchesSector(company.Sector, req.Private, req.Public) {
				continue
			}
			if req.OnlyWithSite && !hasSite(company.Website) {
				continue
			}
			candidates = append(candidates, CompanyRow{Company: company, Segments: labels})
		}

		if page+1 >= unitPage.Page.TotalPages {
			break
		}
		if len(candidates) >= enough {
			break
		}
	}
	return candidates, totalHits, nil
}

func (s *ScreeningService) collectPeople(ctx context.Context, req ScreeningRequest, companies []CompanyRow, tid string) []PersonRow {
	people := []PersonRow{}
	for _, company := range companies {
		doc, err := s.getRoleDocument(ctx, company.OrgNr, tid)
		if err != nil {
			// Role lookups are best effort; a company without a usable
			// role document still appears in the company table.
			logger.WithTransactionID(tid).WithField("orgnr", company.OrgNr).Warn("No role document available, skipping roles for organisation")
			continue
		}
		for _, record := range roles.Extract(doc) {
			category, keep := roleCategoryFor(record.RoleCode, req.RoleCategories)
			if !keep {
				continue
			}
			if req.ActiveOnly && !record.Active {
				continue
			}
			people = append(people, PersonRow{
				Name:         record.PersonName,
				RoleCategory: category,
				RoleCode:     record.RoleCode,
				Company:      company.Name,
				OrgNr:        company.OrgNr,
				Employees:    company.Employees,
				Industry:     strings.Join(company.Segments, ", "),
				Sector:       company.Sector,
				StartDate:    record.StartDate,
				EndDate:      record.EndDate,
				Active:       record.Active,
				RegistryLink: registryLinkBase + company.OrgNr,
			})
		}
	}
	return people
}

func (s *ScreeningService) GetOrganisationRoles(ctx context.Context, orgNr string, activeOnly bool, tid string) (OrganisationRoles, error) {
	doc, err := s.getRoleDocument(ctx, orgNr, tid)
	if err != nil {
		return OrganisationRoles{}, err
	}

	records := roles.Extract(doc)
	if activeOnly {
		active := records[:0]
		for _, r := range records {
			if r.Active {
				active = append(active, r)
			}
		}
		records = active
	}
	return OrganisationRoles{OrgNr: orgNr, Records: records}, nil
}

// getRoleDocument resolves a role document through the cache, then the live
// registry endpoints, then the archive. Successful live fetches are written
// back to both.
func (s *ScreeningService) getRoleDocument(ctx context.Context, orgNr string, tid string) (interface{}, error) {
	key := roleCacheKey + orgNr

	cached, found, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.WithError(err).WithTransactionID(tid).WithField("orgnr", orgNr).Warn("Role cache read failed")
	}
	if found {
		var doc interface{}
		if err := json.Unmarshal(cached, &doc); err == nil {
			return doc, nil
		}
		logger.WithTransactionID(tid).WithField("orgnr", orgNr).Warn("Discarding unparsable cached role document")
	}

	doc, err := s.roles.GetRoleDocument(ctx, orgNr)
	if err == nil {
		if raw, merr := json.Marshal(doc); merr == nil {
			if cerr := s.cache.Set(ctx, key, raw, s.cacheTTL); cerr != nil {
				logger.WithError(cerr).WithTransactionID(tid).WithField("orgnr", orgNr).Warn("Role cache write failed")
			}
			if s.archive != nil {
				//nolint:errcheck
				s.archive.PutRoleDocument(ctx, orgNr, raw, tid)
			}
		}
		return doc, nil
	}
	if !errors.Is(err, roles.ErrNotFound) {
		return nil, err
	}

	if s.archive != nil {
		found, body, archiveTID, aerr := s.archive.GetRoleDocument(ctx, orgNr)
		if aerr != nil {
			logger.WithError(aerr).WithTransactionID(tid).WithField("orgnr", orgNr).Warn("Role archive read failed")
		} else if found {
			var doc interface{}
			if err := json.Unmarshal(body, &doc); err == nil {
				logger.WithTransactionID(tid).WithField("orgnr", orgNr).Infof("Serving archived role document stored under transaction %s", archiveTID)
				return doc, nil
			}
		}
	}
	return nil, ErrRolesNotFound
}

func (s *ScreeningService) InvalidateRoleCache(ctx context.Context, orgNr string) error {
	return s.cache.Delete(ctx, roleCacheKey+orgNr)
}

func (s *ScreeningService) FilterVocabulary() FilterVocabulary {
	return FilterVocabulary{
		Segments:       segmentNames(),
		Counties:       countyNames(),
		RoleCategories: roleCategoryNames(),
	}
}

func (s *ScreeningService) Healthchecks() []fthealth.Check {
	checks := []fthealth.Check{
		s.registry.Healthcheck(),
		s.roles.Healthcheck(),
		s.cache.Healthcheck(),
	}
	if s.archive != nil {
		checks = append(checks, s.archive.Healthcheck())
	}
	return checks
}

// Selecting both sectors, or neither, passes everything through.
func matchesSector(sector string, private bool, public bool) bool {
	if private == public {
		return true
	}
	if private {
		return sector == registry.SectorPrivate
	}
	return sector == registry.SectorPublic
}

func hasSite(url string) bool {
	return len(strings.TrimSpace(url)) > 3
}
