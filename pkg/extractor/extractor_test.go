package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplySimpleGetExtract(t *testing.T) {
	ctx := map[string]string{}
	name := "ID"
	bound := Apply(`{"id":"abc"}`, []Spec{{Pattern: "$.id", Name: &name}}, ctx)
	assert.Equal(t, []string{"ID"}, bound)
	assert.Equal(t, "abc", ctx["ID"])
}

func TestApplyEmptyResultNoBinding(t *testing.T) {
	ctx := map[string]string{}
	name := "MISSING"
	bound := Apply(`{"id":"abc"}`, []Spec{{Pattern: "$.nope", Name: &name}}, ctx)
	assert.Empty(t, bound)
	assert.NotContains(t, ctx, "MISSING")
}

func TestApplyNoNameSkipsBinding(t *testing.T) {
	ctx := map[string]string{}
	bound := Apply(`{"id":"abc"}`, []Spec{{Pattern: "$.id", Name: nil}}, ctx)
	assert.Empty(t, bound)
	assert.Empty(t, ctx)
}

func TestApplyNumericValueFormatting(t *testing.T) {
	ctx := map[string]string{}
	name := "COUNT"
	Apply(`{"count":42}`, []Spec{{Pattern: "$.count", Name: &name}}, ctx)
	assert.Equal(t, "42", ctx["COUNT"])
}
