package testcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeExactStringMatch(t *testing.T) {
	outcome := Check(200, nil, map[string]string{"STATUS_CODE": "200"})
	assert.True(t, outcome.Success)
}

func TestStatusCodeDoesNotMatchPrefix(t *testing.T) {
	outcome := Check(200, nil, map[string]string{"STATUS_CODE": "2000"})
	assert.False(t, outcome.Success)
}

func TestContextKeyComparison(t *testing.T) {
	ctx := map[string]string{"ID": "abc"}
	outcome := Check(200, ctx, map[string]string{"ID": "abc"})
	assert.True(t, outcome.Success)
}

func TestMissingContextKeyFailsAgainstNonEmptyExpectation(t *testing.T) {
	outcome := Check(200, map[string]string{}, map[string]string{"ID": "abc"})
	assert.False(t, outcome.Success)
	assert.Equal(t, "", outcome.Results[0].Got)
}

func TestAllMustPassForOverallSuccess(t *testing.T) {
	ctx := map[string]string{"ID": "abc"}
	outcome := Check(404, ctx, map[string]string{"STATUS_CODE": "200", "ID": "abc"})
	assert.False(t, outcome.Success)
}
