package jsonpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDollarReturnsWholeDocument(t *testing.T) {
	doc := `{"id":"abc"}`
	v, found, err := Evaluate(doc, "$")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, map[string]any{"id": "abc"}, v)
}

func TestSimpleDottedAccess(t *testing.T) {
	doc := `{"user":{"name":"ada"}}`
	v, found, err := Evaluate(doc, "$.user.name")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ada", v)
}

func TestMissingKeyYieldsNoMatch(t *testing.T) {
	doc := `{"id":"abc"}`
	_, found, err := Evaluate(doc, "$.missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestIndex(t *testing.T) {
	doc := `{"items":[10,20,30]}`
	v, found, err := Evaluate(doc, "$.items[1]")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float64(20), v)
}

func TestRange(t *testing.T) {
	doc := `{"items":[10,20,30,40]}`
	v, found, err := Evaluate(doc, "$.items[1:3]")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []any{float64(20), float64(30)}, v)
}

func TestFilterNumeric(t *testing.T) {
	doc := `{"items":[{"price":5},{"price":15}]}`
	v, found, err := Evaluate(doc, "$.items[?(@.price <= 10)]")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []any{map[string]any{"price": float64(5)}}, v)
}

func TestFilterOnNonArrayYieldsNoMatch(t *testing.T) {
	doc := `{"items":{"price":5}}`
	_, found, err := Evaluate(doc, "$.items[?(@.price == 10)]")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMultiselectArray(t *testing.T) {
	doc := `{"user":{"a":1,"b":2,"c":3}}`
	v, found, err := Evaluate(doc, "$.user[a,b,c]")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, v)
}

func TestMultiselectHash(t *testing.T) {
	doc := `{"user":{"name":"ada","age":30}}`
	v, found, err := Evaluate(doc, "$.user{Name:name,Age:age}")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, map[string]any{"Name": "ada", "Age": float64(30)}, v)
}

func TestMultiselectElementWiseOverArray(t *testing.T) {
	doc := `{"items":[{"a":1,"b":2},{"a":3,"b":4}]}`
	v, found, err := Evaluate(doc, "$.items[a,b]")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []any{
		[]any{float64(1), float64(2)},
		[]any{float64(3), float64(4)},
	}, v)
}

func TestStatusCodeStringMatchBoundary(t *testing.T) {
	// 200 matches "200" exactly and must not match "2000" — covered at
	// the testcheck layer, but jsonpath's literal parsing must not
	// silently coerce numeric-looking strings either.
	doc := `{"code":"200"}`
	v, found, err := Evaluate(doc, "$.code")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "200", v)
}

func TestMalformedPathIsParseError(t *testing.T) {
	_, _, err := Evaluate(`{}`, "not-rooted")
	assert.Error(t, err)
}
