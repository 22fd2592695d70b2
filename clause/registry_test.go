package clause_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"hermannm.dev/timereport/ast"
	"hermannm.dev/timereport/clause"
)

type stubHandler struct {
	kind string
}

func (handler stubHandler) Kind() string { return handler.kind }

func (handler stubHandler) Validate(*ast.ExtensionClause) ast.ValidationResult {
	return ast.ValidationResult{Valid: true}
}

func (handler stubHandler) Interpret(*ast.ExtensionClause) (clause.Result, error) {
	return nil, nil
}

func TestRegisterAndLookup(t *testing.T) {
	registry := clause.NewRegistry()
	registry.Register(stubHandler{kind: "budget"})

	handler, found := registry.HandlerFor("budget")
	require.True(t, found)
	assert.Equal(t, "budget", handler.Kind())
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	registry := clause.NewRegistry()
	registry.Register(stubHandler{kind: "budget"})

	_, found := registry.HandlerFor("BUDGET")
	assert.True(t, found)
}

func TestLookupMiss(t *testing.T) {
	registry := clause.NewRegistry()

	handler, found := registry.HandlerFor("nonexistent")
	assert.False(t, found)
	assert.Nil(t, handler)
}

func TestDoubleRegistrationOverwrites(t *testing.T) {
	registry := clause.NewRegistry()

	first := stubHandler{kind: "budget"}
	second := stubHandler{kind: "BUDGET"}

	require.NotPanics(t, func() {
		registry.Register(first)
		registry.Register(second)
	})

	handler, found := registry.HandlerFor("budget")
	require.True(t, found)
	assert.Equal(t, second, handler)
	assert.Len(t, registry.Kinds(), 1)
}

func TestNilRegistryBehavesAsEmpty(t *testing.T) {
	var registry *clause.Registry

	require.NotPanics(t, func() {
		registry.Register(stubHandler{kind: "budget"})
	})

	_, found := registry.HandlerFor("budget")
	assert.False(t, found)
	assert.Empty(t, registry.Kinds())
}

func TestDefaultRegistryKindsAreSorted(t *testing.T) {
	kinds := clause.NewDefaultRegistry().Kinds()

	expected := []string{
		"alert", "contract", "forecast", "rollover", "services", "utilization", "value",
	}
	assert.Equal(t, expected, kinds)
}
