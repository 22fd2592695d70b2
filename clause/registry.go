// Package clause implements the handler registry for extension clause
// families. Extension clauses (service mix, rollover, utilization thresholds,
// contract, value filters, alerts, forecasts) are never hard-wired into the
// parser or interpreter: the parser only recognizes their leading keyword,
// and everything else goes through a registered Handler.
package clause

import (
	"sort"
	"strings"

	"hermannm.dev/timereport/ast"
)

// Handler validates and interprets one extension clause kind.
type Handler interface {
	// Kind returns the clause keyword this handler claims, in lower case.
	Kind() string
	Validate(clause *ast.ExtensionClause) ast.ValidationResult
	// Interpret produces the clause's typed config for the query descriptor.
	Interpret(clause *ast.ExtensionClause) (Result, error)
}

// Result is a typed extension clause config, stored in the descriptor's
// extensions bag keyed by clause kind.
type Result interface {
	ClauseKind() string
}

// Registry maps clause kinds to their handlers. A nil *Registry behaves as an
// empty one: registration is dropped and every lookup misses, so hosts
// without extension clauses need no setup.
type Registry struct {
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// NewDefaultRegistry returns a registry with every built-in extension clause
// handler registered.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.Register(ServiceMixHandler{})
	registry.Register(RolloverHandler{})
	registry.Register(UtilizationHandler{})
	registry.Register(ContractHandler{})
	registry.Register(ValueHandler{})
	registry.Register(AlertHandler{})
	registry.Register(ForecastHandler{})
	return registry
}

// Register adds a handler for its clause kind. Registering a second handler
// for the same kind overwrites the first; neither case crashes the host.
func (registry *Registry) Register(handler Handler) {
	if registry == nil || registry.handlers == nil || handler == nil {
		return
	}
	registry.handlers[strings.ToLower(handler.Kind())] = handler
}

// HandlerFor looks up the handler for a clause kind (case-insensitive).
// Lookups before any registration simply miss.
func (registry *Registry) HandlerFor(kind string) (Handler, bool) {
	if registry == nil || registry.handlers == nil {
		return nil, false
	}
	handler, found := registry.handlers[strings.ToLower(kind)]
	return handler, found
}

// Kinds returns the registered clause kinds in sorted order, for use in
// parser diagnostics.
func (registry *Registry) Kinds() []string {
	if registry == nil || registry.handlers == nil {
		return nil
	}
	kinds := make([]string, 0, len(registry.handlers))
	for kind := range registry.handlers {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}
