// Package httpclient dispatches a single HTTP request and reports a
// FetchResult. The transport is valyala/fasthttp — a teacher dependency
// that was declared in go.mod but never imported by any teacher package
// (the teacher's web server uses net/http); this gives it a concrete job.
// Grounded on original_source/src/http.rs::fetch.
package httpclient

import (
	"crypto/tls"
	"mime/multipart"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/blackcoderx/talon/pkg/confparse"
	"github.com/blackcoderx/talon/pkg/talonerr"
)

// Body describes the optional request body and how it should be encoded.
type Body struct {
	Content    string
	URLEncoded bool
	FormData   bool
}

// Request is everything needed to dispatch one HTTP call. Pre-scripts
// (pkg/scripthost) mutate a value of this shape before dispatch.
type Request struct {
	Verb     string
	URL      string
	Headers  map[string]string
	Query    map[string]string
	Body     *Body
	Insecure bool
	TimeoutS int
}

// FetchResult is the outcome of one dispatched request.
type FetchResult struct {
	Status   int
	Headers  map[string]string
	Response string
	Duration time.Duration
}

// IsSuccess reports whether the status falls in [200, 400), per spec.md's
// FetchResult.is_success definition.
func (r FetchResult) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 400
}

var supportedVerbs = map[string]string{
	"GET":    fasthttp.MethodGet,
	"POST":   fasthttp.MethodPost,
	"PUT":    fasthttp.MethodPut,
	"DELETE": fasthttp.MethodDelete,
	"PATCH":  fasthttp.MethodPatch,
}

// Fetch issues req and measures wall-clock duration from just before send
// to just after the response body is fully read.
func Fetch(req Request) (FetchResult, error) {
	method, ok := supportedVerbs[strings.ToUpper(req.Verb)]
	if !ok {
		return FetchResult{}, talonerr.Newf(talonerr.UnsupportedVerb, "httpclient: unsupported verb %q", req.Verb)
	}

	fullURL, err := withQuery(req.URL, req.Query)
	if err != nil {
		return FetchResult{}, talonerr.Wrap(talonerr.ParseError, err)
	}

	httpReq := fasthttp.AcquireRequest()
	httpResp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(httpReq)
	defer fasthttp.ReleaseResponse(httpResp)

	httpReq.SetRequestURI(fullURL)
	httpReq.Header.SetMethod(method)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if req.Body != nil {
		if err := applyBody(httpReq, req.Headers, *req.Body); err != nil {
			return FetchResult{}, err
		}
	}

	client := &fasthttp.Client{
		TLSConfig: &tls.Config{InsecureSkipVerify: req.Insecure}, //nolint:gosec // explicit per-action opt-in
	}

	timeout := time.Duration(req.TimeoutS) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	start := time.Now()
	err = client.DoTimeout(httpReq, httpResp, timeout)
	duration := time.Since(start)
	if err != nil {
		return FetchResult{}, talonerr.Wrap(talonerr.HttpError, err)
	}

	headers := map[string]string{}
	httpResp.Header.VisitAll(func(key, value []byte) {
		headers[string(key)] = string(value)
	})

	return FetchResult{
		Status:   httpResp.StatusCode(),
		Headers:  headers,
		Response: string(httpResp.Body()),
		Duration: duration,
	}, nil
}

func withQuery(base string, query map[string]string) (string, error) {
	if len(query) == 0 {
		return base, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func applyBody(req *fasthttp.Request, headers map[string]string, body Body) error {
	if body.URLEncoded {
		m := confparse.ParseMap(body.Content)
		values := url.Values{}
		for k, v := range m {
			values.Set(k, v)
		}
		req.Header.SetContentType("application/x-www-form-urlencoded")
		req.SetBodyString(values.Encode())
		return nil
	}
	if body.FormData {
		m := confparse.ParseMap(body.Content)
		var buf strings.Builder
		w := multipart.NewWriter(&buf)
		for k, v := range m {
			if err := w.WriteField(k, v); err != nil {
				return talonerr.Wrap(talonerr.ParseError, err)
			}
		}
		if err := w.Close(); err != nil {
			return talonerr.Wrap(talonerr.ParseError, err)
		}
		req.Header.SetContentType(w.FormDataContentType())
		req.SetBodyString(buf.String())
		return nil
	}
	req.SetBodyString(body.Content)
	return nil
}
