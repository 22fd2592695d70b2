package api

import (
	"context"
	"io"
	"net/http"

	"github.com/google/uuid"
	"hermannm.dev/timereport/ast"
	"hermannm.dev/timereport/query"
)

// Expects:
//   - request body: raw query text
//
// Returns:
//   - JSON-encoded CachedReport, with the ID for later retrieval
func (api ReportAPI) RunQuery(res http.ResponseWriter, req *http.Request) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		sendClientError(res, err, "failed to read query from request body")
		return
	}
	queryText := string(body)
	if queryText == "" {
		sendClientError(res, nil, "missing query in request body")
		return
	}

	parsedQuery, err := api.parser.Parse(queryText)
	if err != nil {
		sendClientError(res, err, "failed to parse query")
		return
	}

	// Queries that format identically are the same query, so the canonical
	// formatting doubles as the cache signature.
	signature := ast.Format(parsedQuery)
	if cached, found := api.cache.getBySignature(signature); found {
		sendJSON(res, cached)
		return
	}

	descriptor, err := api.interpreter.Interpret(parsedQuery)
	if err != nil {
		sendClientError(res, err, "invalid query")
		return
	}

	cached, err := api.generateReport(req.Context(), queryText, descriptor, signature)
	if err != nil {
		sendServerError(res, err, "failed to generate report")
		return
	}

	sendJSON(res, cached)
}

func (api ReportAPI) generateReport(
	ctx context.Context, queryText string, descriptor *query.Descriptor, signature string,
) (CachedReport, error) {
	entries, err := api.store.Entries(ctx)
	if err != nil {
		return CachedReport{}, err
	}

	cached := CachedReport{
		ID:    uuid.New(),
		Query: queryText,
		Data:  api.executor.Execute(descriptor, entries),
	}
	api.cache.put(signature, cached)
	return cached, nil
}

// Expects:
//   - path parameter 'id': report ID from a previous query response
//
// Returns:
//   - JSON-encoded CachedReport
func (api ReportAPI) GetReport(res http.ResponseWriter, req *http.Request) {
	id, err := uuid.Parse(req.PathValue("id"))
	if err != nil {
		sendClientError(res, err, "invalid report ID in request path")
		return
	}

	cached, found := api.cache.get(id)
	if !found {
		sendError(res, "report not found", http.StatusNotFound)
		return
	}

	sendJSON(res, cached)
}
