// Package auth builds Authorization header values and fetches OAuth2
// tokens, for use as ordinary DomainAction header values rather than as
// agent tool calls. Grounded on pkg/core/tools/shared/auth.go's four tools
// (BearerTool, BasicTool, OAuth2Tool, HelperTool), stripped of the
// JSON-args/VariableStore indirection and exposed as direct functions.
package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/blackcoderx/talon/pkg/talonerr"
)

// Bearer formats a Bearer authorization header value.
func Bearer(token string) string {
	return "Bearer " + token
}

// Basic formats an HTTP Basic authorization header value.
func Basic(username, password string) string {
	credentials := username + ":" + password
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
}

// Flow names an OAuth2 grant type TokenRequest supports.
type Flow string

const (
	ClientCredentials Flow = "client_credentials"
	Password          Flow = "password"
)

// TokenRequest describes an OAuth2 token fetch.
type TokenRequest struct {
	Flow         Flow
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	Username     string
	Password     string
}

// Token fetches an OAuth2 access token for req.Flow. authorization_code is
// deliberately unsupported: it requires a browser redirect, which has no
// place in a headless CLI action run.
func Token(ctx context.Context, req TokenRequest) (*oauth2.Token, error) {
	if req.TokenURL == "" || req.ClientID == "" || req.ClientSecret == "" {
		return nil, talonerr.Newf(talonerr.ParseError, "auth: token_url, client_id, and client_secret are required")
	}

	switch req.Flow {
	case ClientCredentials:
		cfg := clientcredentials.Config{
			ClientID:     req.ClientID,
			ClientSecret: req.ClientSecret,
			TokenURL:     req.TokenURL,
			Scopes:       req.Scopes,
		}
		tok, err := cfg.Token(ctx)
		if err != nil {
			return nil, talonerr.Wrap(talonerr.HttpError, err)
		}
		return tok, nil
	case Password:
		if req.Username == "" || req.Password == "" {
			return nil, talonerr.Newf(talonerr.ParseError, "auth: username and password are required for the password flow")
		}
		cfg := oauth2.Config{
			ClientID:     req.ClientID,
			ClientSecret: req.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: req.TokenURL},
			Scopes:       req.Scopes,
		}
		tok, err := cfg.PasswordCredentialsToken(ctx, req.Username, req.Password)
		if err != nil {
			return nil, talonerr.Wrap(talonerr.HttpError, err)
		}
		return tok, nil
	default:
		return nil, talonerr.Newf(talonerr.ParseError, "auth: unsupported flow %q (use client_credentials or password)", req.Flow)
	}
}

// JWTClaims is the decoded header and payload of a JWT, with signature
// verification deliberately out of scope (no secret key is available to an
// action runner inspecting a token it received).
type JWTClaims struct {
	Header  map[string]any
	Payload map[string]any
}

// ParseJWT decodes a JWT's header and payload without verifying its
// signature. A leading "Bearer " prefix is stripped if present.
func ParseJWT(token string) (JWTClaims, error) {
	token = strings.TrimPrefix(token, "Bearer ")
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return JWTClaims{}, talonerr.Newf(talonerr.ParseError, "auth: invalid JWT format (expected 3 parts, got %d)", len(parts))
	}

	header, err := decodeJWTSegment(parts[0])
	if err != nil {
		return JWTClaims{}, talonerr.Wrap(talonerr.ParseError, err)
	}
	payload, err := decodeJWTSegment(parts[1])
	if err != nil {
		return JWTClaims{}, talonerr.Wrap(talonerr.ParseError, err)
	}
	return JWTClaims{Header: header, Payload: payload}, nil
}

func decodeJWTSegment(segment string) (map[string]any, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(segment)
	if err != nil {
		switch len(segment) % 4 {
		case 2:
			segment += "=="
		case 3:
			segment += "="
		}
		decoded, err = base64.URLEncoding.DecodeString(segment)
		if err != nil {
			return nil, fmt.Errorf("decode jwt segment: %w", err)
		}
	}
	var claims map[string]any
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return nil, fmt.Errorf("unmarshal jwt segment: %w", err)
	}
	return claims, nil
}

// DecodeBasic reverses Basic: it splits a decoded "Basic <base64>" header
// back into username and password, for inspecting a captured header value.
func DecodeBasic(header string) (username, password string, err error) {
	encoded := strings.TrimPrefix(header, "Basic ")
	decoded, decErr := base64.StdEncoding.DecodeString(encoded)
	if decErr != nil {
		return "", "", talonerr.Wrap(talonerr.ParseError, decErr)
	}
	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 {
		return "", "", talonerr.Newf(talonerr.ParseError, "auth: invalid Basic auth format (expected username:password)")
	}
	return parts[0], parts[1], nil
}
