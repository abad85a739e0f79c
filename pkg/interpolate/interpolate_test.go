package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpolateSimple(t *testing.T) {
	ctx := map[string]string{"id": "42"}
	got := Interpolate("/users/{id}", ctx, Simple)
	assert.Equal(t, "/users/42", got)
}

func TestInterpolateMissingKeyLeftLiteral(t *testing.T) {
	ctx := map[string]string{"id": "42"}
	got := Interpolate("/users/{id}/{missing}", ctx, Multi)
	assert.Equal(t, "/users/42/{missing}", got)
}

func TestInterpolateMultiIdempotent(t *testing.T) {
	ctx := map[string]string{"a": "x", "b": "y"}
	body := `{"a":"{a}","b":"{b}"}`
	once := Interpolate(body, ctx, Multi)
	twice := Interpolate(once, ctx, Multi)
	assert.Equal(t, once, twice)
}

func TestContainsInterpolation(t *testing.T) {
	assert.True(t, ContainsInterpolation("{name}", Multi))
	assert.False(t, ContainsInterpolation("literal", Multi))
}

func TestMapContainsInterpolation(t *testing.T) {
	m := map[string]string{"Authorization": "Bearer {token}"}
	assert.True(t, MapContainsInterpolation(m, Multi))
	m["Authorization"] = "Bearer abc"
	assert.False(t, MapContainsInterpolation(m, Multi))
}

func TestMapInterpolate(t *testing.T) {
	ctx := map[string]string{"token": "abc123"}
	m := map[string]string{"Authorization": "Bearer {token}"}
	out := MapInterpolate(m, ctx, Multi)
	assert.Equal(t, "Bearer abc123", out["Authorization"])
}
