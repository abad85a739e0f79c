package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackcoderx/talon/pkg/auth"
	"github.com/blackcoderx/talon/pkg/confparse"
	"github.com/blackcoderx/talon/pkg/domain"
	"github.com/blackcoderx/talon/pkg/engine"
	"github.com/blackcoderx/talon/pkg/httpclient"
	"github.com/blackcoderx/talon/pkg/store"
	"github.com/blackcoderx/talon/pkg/talonerr"
)

var (
	actionVerb        string
	actionURL         string
	actionBody        []string
	actionURLEncoded  bool
	actionFormData    bool
	actionPathParams  []string
	actionQueryParams []string
	actionExtractPath []string
	actionExpect      []string
	actionChain       []string
	actionSaveAs      string
	actionForce       bool
	actionNoPrint     bool
	actionInsecure    bool

	actionBearerToken   string
	actionBasicAuth     string
	actionOAuthFlow     string
	actionOAuthTokenURL string
	actionOAuthClientID string
	actionOAuthSecret   string
	actionOAuthScopes   string
	actionOAuthUsername string
	actionOAuthPassword string
)

var actionCmd = &cobra.Command{
	Use:   "action <name>",
	Short: "Run an ad-hoc or saved HTTP action, optionally chained",
	Long: `action runs a DomainAction chain: a first step from --verb/--url (or a
stored Action looked up by <name>) followed by any --chain "VERB:URL"
entries. Per-step vectors (--body, --path-params, --query-params,
--extract-path) must each have length 1 (shared across every step) or
length n+1 where n is the number of --chain entries.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		return runAction(name)
	},
}

func init() {
	actionCmd.Flags().StringVar(&actionVerb, "verb", "", "HTTP verb for an ad-hoc action")
	actionCmd.Flags().StringVar(&actionURL, "url", "", "URL for an ad-hoc action")
	actionCmd.Flags().StringArrayVar(&actionBody, "body", nil, "request body per step (repeatable)")
	actionCmd.Flags().BoolVar(&actionURLEncoded, "url-encoded", false, "encode --body as application/x-www-form-urlencoded")
	actionCmd.Flags().BoolVar(&actionFormData, "form-data", false, "encode --body as multipart/form-data")
	actionCmd.Flags().StringArrayVar(&actionPathParams, "path-params", nil, "grouped path params per step, e.g. id:1|2 (repeatable)")
	actionCmd.Flags().StringArrayVar(&actionQueryParams, "query-params", nil, "grouped query params per step (repeatable)")
	actionCmd.Flags().StringArrayVar(&actionExtractPath, "extract-path", nil, "jsonpath:varname extraction specs per step (repeatable)")
	actionCmd.Flags().StringArrayVar(&actionExpect, "expect", nil, "expectation key:value pairs for the last step")
	actionCmd.Flags().StringArrayVar(&actionChain, "chain", nil, "additional chained step as VERB:URL (repeatable)")
	actionCmd.Flags().StringVar(&actionSaveAs, "save-as", "", "persist this chain as a named Action before running")
	actionCmd.Flags().BoolVar(&actionForce, "force", false, "bypass the already-extracted skip-guard")
	actionCmd.Flags().BoolVar(&actionNoPrint, "no-print", false, "suppress result output")
	actionCmd.Flags().BoolVar(&actionInsecure, "insecure", false, "skip TLS certificate verification")

	actionCmd.Flags().StringVar(&actionBearerToken, "bearer-token", "", "set Authorization: Bearer <token> on every step")
	actionCmd.Flags().StringVar(&actionBasicAuth, "basic-auth", "", "set Authorization: Basic on every step, as user:pass")
	actionCmd.Flags().StringVar(&actionOAuthFlow, "oauth-flow", "", "fetch a bearer token first: client_credentials or password")
	actionCmd.Flags().StringVar(&actionOAuthTokenURL, "oauth-token-url", "", "OAuth2 token endpoint")
	actionCmd.Flags().StringVar(&actionOAuthClientID, "oauth-client-id", "", "OAuth2 client id")
	actionCmd.Flags().StringVar(&actionOAuthSecret, "oauth-client-secret", "", "OAuth2 client secret")
	actionCmd.Flags().StringVar(&actionOAuthScopes, "oauth-scopes", "", "comma-separated OAuth2 scopes")
	actionCmd.Flags().StringVar(&actionOAuthUsername, "oauth-username", "", "username for the password grant")
	actionCmd.Flags().StringVar(&actionOAuthPassword, "oauth-password", "", "password for the password grant")
}

func runAction(name string) error {
	s, e, err := bootstrap()
	if err != nil {
		return err
	}

	chain, err := buildChainFromFlags()
	if err != nil {
		return err
	}

	var owning *store.Action
	if len(chain) == 0 {
		if name == "" {
			return talonerr.Newf(talonerr.ParseError, "action: either a saved <name> or --verb/--url is required")
		}
		saved, err := s.GetAction(name, projectOrDefault())
		if err != nil {
			return talonerr.Wrap(talonerr.StoreError, err)
		}
		owning = &saved
		chain = saved.Chain
	} else if name != "" || actionSaveAs != "" {
		saveName := actionSaveAs
		if saveName == "" {
			saveName = name
		}
		saved := store.Action{Name: saveName, ProjectName: projectOrDefault(), Chain: chain}
		if err := s.UpsertAction(saved); err != nil {
			return talonerr.Wrap(talonerr.StoreError, err)
		}
		owning = &saved
	}

	authHeader, err := resolveAuthHeader(context.Background())
	if err != nil {
		return err
	}
	if authHeader != "" {
		for i := range chain {
			if chain[i].Headers == nil {
				chain[i].Headers = map[string]string{}
			}
			chain[i].Headers["Authorization"] = authHeader
		}
	}

	ctx, err := s.GetConf()
	if err != nil {
		ctx = map[string]string{}
	}

	results, runErr := e.RunChain(context.Background(), chain, ctx, owning, actionForce)
	if !actionNoPrint {
		printResults(results)
	}
	return runErr
}

// buildChainFromFlags builds a chain purely from --verb/--url/--chain/etc,
// returning an empty chain when none of those flags were supplied (the
// caller then falls back to a stored Action by name).
func buildChainFromFlags() ([]domain.DomainAction, error) {
	if actionVerb == "" && actionURL == "" && len(actionChain) == 0 {
		return nil, nil
	}

	n := len(actionChain) + 1
	bodies, err := alignVector(actionBody, n)
	if err != nil {
		return nil, fmt.Errorf("--body: %w", err)
	}
	pathParamGroups, err := alignVector(actionPathParams, n)
	if err != nil {
		return nil, fmt.Errorf("--path-params: %w", err)
	}
	queryParamGroups, err := alignVector(actionQueryParams, n)
	if err != nil {
		return nil, fmt.Errorf("--query-params: %w", err)
	}
	extractSpecs, err := alignVector(actionExtractPath, n)
	if err != nil {
		return nil, fmt.Errorf("--extract-path: %w", err)
	}

	steps := make([]domain.DomainAction, 0, n)
	steps = append(steps, domain.DomainAction{Verb: strings.ToUpper(actionVerb), URL: actionURL})
	for _, c := range actionChain {
		verb, url, ok := strings.Cut(c, ":")
		if !ok {
			return nil, talonerr.Newf(talonerr.ParseError, "action: malformed --chain entry %q (want VERB:URL)", c)
		}
		steps = append(steps, domain.DomainAction{Verb: strings.ToUpper(verb), URL: url})
	}

	expect := confparse.ParseMap(strings.Join(actionExpect, ","))

	for i := range steps {
		steps[i].Insecure = actionInsecure
		if b := bodies[i]; b != "" {
			steps[i].Body = &httpclient.Body{Content: b, URLEncoded: actionURLEncoded, FormData: actionFormData}
		}
		if p := pathParamGroups[i]; p != "" {
			steps[i].PathParams = confparse.ParseGrouped(p)
		}
		if q := queryParamGroups[i]; q != "" {
			steps[i].QueryParams = confparse.ParseGrouped(q)
		}
		if ep := extractSpecs[i]; ep != "" {
			steps[i].ExtractPath = append(steps[i].ExtractPath, engine.ParseExtractSpecs(ep)...)
		}
		if i == len(steps)-1 && len(expect) > 0 {
			steps[i].Expect = expect
		}
	}
	return steps, nil
}

// resolveAuthHeader builds the Authorization header value requested by
// --oauth-flow/--bearer-token/--basic-auth, in that precedence order, or ""
// if none were given. --oauth-flow fetches a fresh token through pkg/auth's
// client-credentials/password grants before every run.
func resolveAuthHeader(ctx context.Context) (string, error) {
	switch {
	case actionOAuthFlow != "":
		var scopes []string
		if actionOAuthScopes != "" {
			scopes = strings.Split(actionOAuthScopes, ",")
		}
		tok, err := auth.Token(ctx, auth.TokenRequest{
			Flow:         auth.Flow(actionOAuthFlow),
			TokenURL:     actionOAuthTokenURL,
			ClientID:     actionOAuthClientID,
			ClientSecret: actionOAuthSecret,
			Scopes:       scopes,
			Username:     actionOAuthUsername,
			Password:     actionOAuthPassword,
		})
		if err != nil {
			return "", err
		}
		return auth.Bearer(tok.AccessToken), nil
	case actionBearerToken != "":
		return auth.Bearer(actionBearerToken), nil
	case actionBasicAuth != "":
		user, pass, ok := strings.Cut(actionBasicAuth, ":")
		if !ok {
			return "", talonerr.Newf(talonerr.ParseError, "action: --basic-auth wants user:pass")
		}
		return auth.Basic(user, pass), nil
	default:
		return "", nil
	}
}

// alignVector enforces spec.md §6's flag semantics: a per-step vector must
// have length 1 (shared) or exactly n.
func alignVector(values []string, n int) ([]string, error) {
	switch len(values) {
	case 0:
		return make([]string, n), nil
	case 1:
		out := make([]string, n)
		for i := range out {
			out[i] = values[0]
		}
		return out, nil
	case n:
		return values, nil
	default:
		return nil, talonerr.Newf(talonerr.ParseError, "expected 1 or %d entries, got %d", n, len(values))
	}
}
