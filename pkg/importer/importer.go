// Package importer ingests OpenAPI 3.x and Postman 2.1 collection documents
// into stored Actions, per spec.md §4.7. Grounded on
// pkg/core/tools/spec_ingester/parser.go (SpecParser, ParsedSpec,
// ParsedEndpoint), openapi_parser.go, and postman_parser.go, adapted from
// an intermediate "graph" indexing step into a direct Action projection —
// this repo has no knowledge graph, so endpoints become Actions straight
// away, upserted into a project by endpoint name.
package importer

import (
	"fmt"
	"strings"

	"github.com/pb33f/libopenapi"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	postman "github.com/rbretecher/go-postman-collection"

	"github.com/blackcoderx/talon/pkg/domain"
	"github.com/blackcoderx/talon/pkg/store"
	"github.com/blackcoderx/talon/pkg/talonerr"
)

// Endpoint is the intermediate representation one format parser produces,
// format-agnostic like ParsedSpec/ParsedEndpoint in the teacher's ingester.
type Endpoint struct {
	Method      string
	Path        string
	Summary     string
	Description string
	HasBody     bool
	QueryParams []string
	Headers     []string
}

// Parser recognizes and parses one spec format.
type Parser interface {
	DetectFormat(content []byte) bool
	Parse(content []byte) ([]Endpoint, error)
}

// Parsers is every format this package understands, tried in order against
// DetectFormat the same way spec_ingester/tool.go picks a parser.
var Parsers = []Parser{OpenAPIParser{}, PostmanParser{}}

// Detect returns the first Parser willing to handle content.
func Detect(content []byte) (Parser, error) {
	for _, p := range Parsers {
		if p.DetectFormat(content) {
			return p, nil
		}
	}
	return nil, talonerr.Newf(talonerr.ParseError, "importer: unrecognized spec format")
}

// Import parses content, converts every endpoint into a one-step Action
// chain, and upserts each into project via s. Actions already present under
// the same (project, name) are overwritten — merge-by-name, the only write
// path s.UpsertAction exposes.
func Import(content []byte, project string, s store.Store) (imported int, err error) {
	parser, err := Detect(content)
	if err != nil {
		return 0, err
	}
	endpoints, err := parser.Parse(content)
	if err != nil {
		return 0, talonerr.Wrap(talonerr.ParseError, err)
	}

	for _, ep := range endpoints {
		action := toAction(ep, project)
		if err := s.UpsertAction(action); err != nil {
			return imported, talonerr.Wrap(talonerr.StoreError, err)
		}
		imported++
	}
	return imported, nil
}

func toAction(ep Endpoint, project string) store.Action {
	name := actionName(ep)

	headers := map[string]string{}
	for _, h := range ep.Headers {
		headers[h] = "{" + strings.ToUpper(h) + "}"
	}

	queryGroups := []map[string]string(nil)
	if len(ep.QueryParams) > 0 {
		group := map[string]string{}
		for _, q := range ep.QueryParams {
			group[q] = "{" + strings.ToUpper(q) + "}"
		}
		queryGroups = []map[string]string{group}
	}

	step := domain.DomainAction{
		Verb:        strings.ToUpper(ep.Method),
		URL:         ep.Path,
		Headers:     headers,
		QueryParams: queryGroups,
	}

	return store.Action{
		Name:        name,
		ProjectName: project,
		Chain:       []domain.DomainAction{step},
	}
}

func actionName(ep Endpoint) string {
	if ep.Summary != "" {
		return ep.Summary
	}
	return strings.ToLower(ep.Method) + "-" + strings.Trim(strings.ReplaceAll(ep.Path, "/", "-"), "-")
}

// --- OpenAPI ---

// OpenAPIParser recognizes and parses OpenAPI 3.x documents.
type OpenAPIParser struct{}

func (OpenAPIParser) DetectFormat(content []byte) bool {
	s := string(content)
	return strings.Contains(s, "openapi") || strings.Contains(s, "swagger")
}

func (OpenAPIParser) Parse(content []byte) ([]Endpoint, error) {
	document, err := libopenapi.NewDocument(content)
	if err != nil {
		return nil, fmt.Errorf("parse openapi document: %w", err)
	}
	model, err := document.BuildV3Model()
	if err != nil {
		return nil, fmt.Errorf("build openapi v3 model: %w", err)
	}

	var endpoints []Endpoint
	for pair := model.Model.Paths.PathItems.First(); pair != nil; pair = pair.Next() {
		path := pair.Key()
		item := pair.Value()

		ops := map[string]*v3.Operation{
			"GET": item.Get, "POST": item.Post, "PUT": item.Put,
			"DELETE": item.Delete, "PATCH": item.Patch,
		}
		for method, op := range ops {
			if op == nil {
				continue
			}
			ep := Endpoint{
				Method:  method,
				Path:    path,
				Summary: op.Summary,
				HasBody: op.RequestBody != nil,
			}
			for _, param := range op.Parameters {
				switch param.In {
				case "query":
					ep.QueryParams = append(ep.QueryParams, param.Name)
				case "header":
					ep.Headers = append(ep.Headers, param.Name)
				}
			}
			endpoints = append(endpoints, ep)
		}
	}
	return endpoints, nil
}

// --- Postman ---

// PostmanParser recognizes and parses Postman Collection v2.1 documents.
type PostmanParser struct{}

func (PostmanParser) DetectFormat(content []byte) bool {
	s := string(content)
	return strings.Contains(s, "_postman_id") || (strings.Contains(s, "info") && strings.Contains(s, "schema"))
}

func (PostmanParser) Parse(content []byte) ([]Endpoint, error) {
	collection, err := postman.ParseCollection(strings.NewReader(string(content)))
	if err != nil {
		return nil, fmt.Errorf("parse postman collection: %w", err)
	}
	var endpoints []Endpoint
	collectItems(collection.Items, &endpoints)
	return endpoints, nil
}

func collectItems(items []*postman.Items, out *[]Endpoint) {
	for _, item := range items {
		if item.IsGroup() {
			collectItems(item.Items, out)
			continue
		}
		if item.Request == nil {
			continue
		}
		req := item.Request
		ep := Endpoint{
			Method:  string(req.Method),
			Summary: item.Name,
			HasBody: req.Body != nil,
		}
		if req.URL != nil {
			ep.Path = req.URL.Raw
			for _, q := range req.URL.Query {
				ep.QueryParams = append(ep.QueryParams, q.Key)
			}
		}
		for _, h := range req.Header {
			ep.Headers = append(ep.Headers, h.Key)
		}
		*out = append(*out, ep)
	}
}
