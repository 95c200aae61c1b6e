package screening

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rcrowley/go-metrics"
	log "github.com/sirupsen/logrus"

	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	"github.com/Financial-Times/go-logger"
	"github.com/Financial-Times/http-handlers-go/httphandlers"
	status "github.com/Financial-Times/service-status-go/httphandlers"
)

type ScreeningHandler struct {
	svc            Service
	requestTimeout time.Duration
}

func NewHandler(svc Service, timeout time.Duration) ScreeningHandler {
	return ScreeningHandler{svc: svc, requestTimeout: timeout}
}

func (h *ScreeningHandler) RunScreeningHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	tid := newTransactionID()
	w.Header().Set("X-Request-Id", tid)

	var req ScreeningRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "{\"message\":\"Invalid screening request: %v\"}", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	type screeningOutcome struct {
		Result ScreeningResult
		Err    error
	}
	ch := make(chan screeningOutcome)
	go func() {
		result, err := h.svc.RunScreening(ctx, req, tid)
		ch <- screeningOutcome{Result: result, Err: err}
	}()

	var outcome screeningOutcome
	select {
	case outcome = <-ch:
	case <-ctx.Done():
		outcome.Err = ctx.Err()
	}

	if outcome.Err != nil {
		if errors.Is(outcome.Err, ErrUnknownCounty) {
			w.WriteHeader(http.StatusBadRequest)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		fmt.Fprintf(w, "{\"message\":\"%v\"}", outcome.Err)
		return
	}

	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	json.NewEncoder(w).Encode(outcome.Result)
}

func (h *ScreeningHandler) GetRolesHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgNr := vars["orgnr"]
	activeOnly := r.URL.Query().Get("active") == "true"
	w.Header().Set("Content-Type", "application/json")
	tid := newTransactionID()
	w.Header().Set("X-Request-Id", tid)

	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()

	orgRoles, err := h.svc.GetOrganisationRoles(ctx, orgNr, activeOnly, tid)
	if err != nil {
		if errors.Is(err, ErrRolesNotFound) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, "{\"message\":\"No role document found for organisation %s.\"}", orgNr)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "{\"message\":\"%v\"}", err)
		return
	}

	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	json.NewEncoder(w).Encode(orgRoles)
}

func (h *ScreeningHandler) InvalidateRolesCacheHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	orgNr := vars["orgnr"]

	if err := h.svc.InvalidateRoleCache(r.Context(), orgNr); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "{\"message\":\"%v\"}", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScreeningHandler) GetFiltersHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	json.NewEncoder(w).Encode(h.svc.FilterVocabulary())
}

func (h *ScreeningHandler) RegisterHandlers(router *mux.Router) {
	logger.Info("Registering handlers")

	router.Handle("/screenings", handlers.MethodHandler{
		"POST": http.HandlerFunc(h.RunScreeningHandler),
	})
	router.Handle("/organisations/{orgnr:[0-9]{9}}/roles", handlers.MethodHandler{
		"GET": http.HandlerFunc(h.GetRolesHandler),
	})
	router.Handle("/organisations/{orgnr:[0-9]{9}}/roles/cache", handlers.MethodHandler{
		"DELETE": http.HandlerFunc(h.InvalidateRolesCacheHandler),
	})
	router.Handle("/filters", handlers.MethodHandler{
		"GET": http.HandlerFunc(h.GetFiltersHandler),
	})
}

func (h *ScreeningHandler) RegisterAdminHandlers(router *mux.Router, healthService *HealthService, requestLoggingEnabled bool) http.Handler {
	logger.Info("Registering admin handlers")

	hc := fthealth.HealthCheck{
		SystemCode:  healthService.config.appSystemCode,
		Name:        healthService.config.appName,
		Description: healthService.config.description,
		Checks:      healthService.Checks,
	}
	thc := fthealth.TimedHealthCheck{HealthCheck: hc, Timeout: 10 * time.Second}

	var monitoringRouter http.Handler = router
	if requestLoggingEnabled {
		monitoringRouter = httphandlers.TransactionAwareRequestLoggingHandler(log.StandardLogger(), monitoringRouter)
	}
	monitoringRouter = httphandlers.HTTPMetricsHandler(metrics.DefaultRegistry, monitoringRouter)

	serveMux := http.NewServeMux()
	serveMux.HandleFunc("/__health", fthealth.Handler(thc))
	serveMux.HandleFunc(status.GTGPath, status.NewGoodToGoHandler(healthService.GTG))
	serveMux.HandleFunc(status.BuildInfoPath, status.BuildInfoHandler)
	serveMux.Handle("/", monitoringRouter)

	return serveMux
}

func newTransactionID() string {
	return "tid_" + uuid.NewString()
}
