// Package api exposes the report pipeline over HTTP: running queries against
// stored entries, ingesting note files, and fetching cached reports.
package api

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"hermannm.dev/timereport/clause"
	"hermannm.dev/timereport/entrystore"
	"hermannm.dev/timereport/query"
	"hermannm.dev/timereport/report"
)

type ReportAPI struct {
	store       entrystore.EntryStore
	parser      *query.Parser
	interpreter *query.Interpreter
	executor    report.Executor
	router      *http.ServeMux
	config      Config

	cache *reportCache
}

type Config struct {
	Port        string
	HoursPerDay float64
}

func NewReportAPI(
	store entrystore.EntryStore,
	registry *clause.Registry,
	router *http.ServeMux,
	config Config,
) ReportAPI {
	api := ReportAPI{
		store:       store,
		parser:      query.NewParser(registry),
		interpreter: query.NewInterpreter(registry),
		executor:    report.NewExecutor(config.HoursPerDay),
		router:      router,
		config:      config,
		cache:       newReportCache(),
	}

	api.router.HandleFunc("POST /query", api.RunQuery)
	api.router.HandleFunc("POST /ingest", api.IngestNoteFile)
	api.router.HandleFunc("GET /reports/{id}", api.GetReport)
	api.router.HandleFunc("GET /entries", api.ExportEntries)

	return api
}

func (api ReportAPI) ListenAndServe() error {
	return http.ListenAndServe(fmt.Sprintf(":%s", api.config.Port), api.router)
}

// reportCache stores generated reports by ID, and maps query signatures to
// previously generated reports. Queries are deterministic against a given
// entry set, so a cached report stays valid until the next ingestion.
type reportCache struct {
	lock        sync.RWMutex
	reports     map[uuid.UUID]CachedReport
	bySignature map[string]uuid.UUID
}

type CachedReport struct {
	ID    uuid.UUID         `json:"id"`
	Query string            `json:"query"`
	Data  report.ReportData `json:"data"`
}

func newReportCache() *reportCache {
	return &reportCache{
		reports:     make(map[uuid.UUID]CachedReport),
		bySignature: make(map[string]uuid.UUID),
	}
}

func (cache *reportCache) get(id uuid.UUID) (CachedReport, bool) {
	cache.lock.RLock()
	defer cache.lock.RUnlock()

	cached, found := cache.reports[id]
	return cached, found
}

func (cache *reportCache) getBySignature(signature string) (CachedReport, bool) {
	cache.lock.RLock()
	defer cache.lock.RUnlock()

	id, found := cache.bySignature[signature]
	if !found {
		return CachedReport{}, false
	}
	cached, found := cache.reports[id]
	return cached, found
}

func (cache *reportCache) put(signature string, cached CachedReport) {
	cache.lock.Lock()
	defer cache.lock.Unlock()

	cache.reports[cached.ID] = cached
	cache.bySignature[signature] = cached.ID
}

func (cache *reportCache) clear() {
	cache.lock.Lock()
	defer cache.lock.Unlock()

	clear(cache.reports)
	clear(cache.bySignature)
}
