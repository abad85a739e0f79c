package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackcoderx/talon/pkg/store/filestore"
)

const openapiDoc = `
openapi: 3.0.0
info:
  title: Demo
  version: "1.0"
paths:
  /users/{id}:
    get:
      summary: get-user
      parameters:
        - name: verbose
          in: query
          schema:
            type: boolean
      responses:
        "200":
          description: ok
`

const postmanDoc = `{
  "info": {"name": "Demo", "schema": "https://schema.getpostman.com/json/collection/v2.1.0/collection.json", "_postman_id": "abc"},
  "item": [
    {
      "name": "list-users",
      "request": {
        "method": "GET",
        "header": [{"key": "X-Trace", "value": "1"}],
        "url": {"raw": "https://api.example.com/users", "query": [{"key": "page", "value": "1"}]}
      }
    }
  ]
}`

func TestDetectOpenAPI(t *testing.T) {
	p, err := Detect([]byte(openapiDoc))
	require.NoError(t, err)
	assert.IsType(t, OpenAPIParser{}, p)
}

func TestDetectPostman(t *testing.T) {
	p, err := Detect([]byte(postmanDoc))
	require.NoError(t, err)
	assert.IsType(t, PostmanParser{}, p)
}

func TestDetectUnknownFormat(t *testing.T) {
	_, err := Detect([]byte("not a spec at all"))
	require.Error(t, err)
}

func TestImportOpenAPICreatesAction(t *testing.T) {
	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	n, err := Import([]byte(openapiDoc), "demo", s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	actions, err := s.GetActions("demo")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "GET", actions[0].Chain[0].Verb)
	assert.Equal(t, "/users/{id}", actions[0].Chain[0].URL)
}

func TestImportPostmanCreatesAction(t *testing.T) {
	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	n, err := Import([]byte(postmanDoc), "demo", s)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	actions, err := s.GetActions("demo")
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, "https://api.example.com/users", actions[0].Chain[0].URL)
}

func TestImportUpsertsByName(t *testing.T) {
	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	_, err = Import([]byte(postmanDoc), "demo", s)
	require.NoError(t, err)
	_, err = Import([]byte(postmanDoc), "demo", s)
	require.NoError(t, err)

	actions, err := s.GetActions("demo")
	require.NoError(t, err)
	assert.Len(t, actions, 1)
}
