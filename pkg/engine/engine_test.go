package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackcoderx/talon/pkg/domain"
	"github.com/blackcoderx/talon/pkg/extractor"
	"github.com/blackcoderx/talon/pkg/store/filestore"
)

func strPtr(s string) *string { return &s }

func TestRunStepExtractsAndChecksExpectation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id": 42, "name": "ok"}`))
	}))
	defer srv.Close()

	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	e := New(s)

	action := domain.DomainAction{
		Verb: "GET",
		URL:  srv.URL,
		ExtractPath: []extractor.Spec{
			{Pattern: "$.id", Name: strPtr("ID")},
		},
		Expect: map[string]string{"STATUS_CODE": "200"},
	}

	ctx := map[string]string{}
	result, err := e.RunStep(context.Background(), action, ctx, nil, true)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.True(t, result.Records[0].Result.IsSuccess())
	assert.Equal(t, "42", ctx["ID"])
	require.Len(t, result.Checks, 1)
	assert.True(t, result.Checks[0].Success)

	persisted, err := s.GetConf()
	require.NoError(t, err)
	assert.Equal(t, "42", persisted["ID"])
}

func TestRunStepFailsCanBeRunGate(t *testing.T) {
	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	e := New(s)

	action := domain.DomainAction{
		Verb: "GET",
		URL:  "https://example.com/users/{missing}",
	}

	_, err = e.RunStep(context.Background(), action, map[string]string{}, nil, false)
	require.Error(t, err)
}

func TestRunChainStopsOnExpectationFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	e := New(s)

	chain := []domain.DomainAction{
		{Verb: "GET", URL: srv.URL, Expect: map[string]string{"STATUS_CODE": "200"}},
		{Verb: "GET", URL: srv.URL},
	}

	results, err := e.RunChain(context.Background(), chain, map[string]string{}, nil, true)
	require.Error(t, err)
	assert.Len(t, results, 1)
}

func TestRunStepSkipsAlreadyBoundExtractionWithoutForce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id": 99}`))
	}))
	defer srv.Close()

	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)
	e := New(s)

	action := domain.DomainAction{
		Verb: "GET",
		URL:  srv.URL,
		ExtractPath: []extractor.Spec{
			{Pattern: "$.id", Name: strPtr("ID")},
		},
	}

	ctx := map[string]string{"ID": "preexisting"}
	_, err = e.RunStep(context.Background(), action, ctx, nil, false)
	require.NoError(t, err)
	assert.Equal(t, "preexisting", ctx["ID"])
}
