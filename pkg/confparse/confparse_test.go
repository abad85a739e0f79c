package confparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMap(t *testing.T) {
	assert.Equal(t, map[string]string{"k1": "v1", "k2": "v2"}, ParseMap("k1:v1,k2:v2"))
	assert.Equal(t, map[string]string{}, ParseMap(""))
}

func TestParseOptionMap(t *testing.T) {
	out := ParseOptionMap("k:,k2:v")
	assert.Nil(t, out["k"])
	if assert.NotNil(t, out["k2"]) {
		assert.Equal(t, "v", *out["k2"])
	}
}

func TestParseOptionPairsPreservesOrder(t *testing.T) {
	pairs := ParseOptionPairs("$.id:ID,$.other:ID")
	if assert.Len(t, pairs, 2) {
		assert.Equal(t, "$.id", pairs[0].Key)
		assert.Equal(t, "$.other", pairs[1].Key)
		if assert.NotNil(t, pairs[0].Value) {
			assert.Equal(t, "ID", *pairs[0].Value)
		}
		if assert.NotNil(t, pairs[1].Value) {
			assert.Equal(t, "ID", *pairs[1].Value)
		}
	}
}

func TestParseOptionPairsEmpty(t *testing.T) {
	assert.Nil(t, ParseOptionPairs(""))
}

func TestParseGroupedCartesian(t *testing.T) {
	groups := ParseGrouped("k:v1|v2,k2:v3|v4")
	want := []map[string]string{
		{"k": "v1", "k2": "v3"},
		{"k": "v1", "k2": "v4"},
		{"k": "v2", "k2": "v3"},
		{"k": "v2", "k2": "v4"},
	}
	assert.Equal(t, want, groups)
}

func TestParseGroupedEmpty(t *testing.T) {
	assert.Nil(t, ParseGrouped(""))
}

func TestParseGroupedSkipsEmptyAlternatives(t *testing.T) {
	groups := ParseGrouped("k:,k2:v3|v4")
	want := []map[string]string{
		{"k2": "v3"},
		{"k2": "v4"},
	}
	assert.Equal(t, want, groups)
}

func TestParseMapRoundTrip(t *testing.T) {
	in := map[string]string{"k1": "v1", "k2": "v2"}
	serialized := "k1:v1,k2:v2"
	assert.Equal(t, in, ParseMap(serialized))
}
