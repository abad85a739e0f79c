// Package jsonpath implements the dollar/at-rooted path dialect used for
// extraction and assertions: dotted descent, "[n]" index, "[a:b]" slice,
// "[?(expr)]" filter predicates, and ".[a,b,c]" / ".{K:v}" multiselect.
//
// The core token set and recursive-descent parser are ported from
// original_source/src/json_path.rs (JspToken, CmpToken, JspExp, evaluate).
// Two deliberate departures from that original, both noted in DESIGN.md:
//
//   - Multi-segment attribute paths (e.g. "@.user.name") descend through
//     each nested object in turn; the original's evaluate() re-reads every
//     attribute off the same outer value, which only happens to work for
//     single-segment paths.
//   - A literal comparison operand (a bare identifier, a number, or a
//     quoted string) evaluates to that literal directly; the original
//     instead tries an object-key lookup of the literal text, which cannot
//     succeed and leaves numeric/string filter literals dead code.
//
// Multiselect (".[a,b,c]" and ".{K:v}") has no original_source counterpart;
// it is new grammar named by the specification, built by extending the
// ported bracket-dispatch structure with a third, comma-delimited form.
package jsonpath

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/blackcoderx/talon/pkg/talonerr"
)

// Evaluate parses jsonStr as JSON and evaluates the path expression search
// against it. found is false when the path does not resolve (missing key,
// filter on a non-array, out-of-range index) — this is not an error.
// err is non-nil only for a malformed path or invalid JSON document.
func Evaluate(jsonStr, search string) (value any, found bool, err error) {
	var root any
	if err := json.Unmarshal([]byte(jsonStr), &root); err != nil {
		return nil, false, talonerr.Wrap(talonerr.ParseError, err)
	}

	if search == "$" {
		return root, true, nil
	}

	rest, ok := strings.CutPrefix(search, "$.")
	if !ok {
		return nil, false, talonerr.Newf(talonerr.ParseError, "jsonpath: path must be \"$\" or start with \"$.\": %q", search)
	}

	segments, err := parseSegments(rest)
	if err != nil {
		return nil, false, err
	}

	current := root
	for _, seg := range segments {
		if seg.name != "" {
			m, ok := current.(map[string]any)
			if !ok {
				return nil, false, nil
			}
			v, exists := m[seg.name]
			if !exists {
				return nil, false, nil
			}
			current = v
		}
		switch {
		case seg.expr != nil:
			v, ok := evalExpr(root, current, seg.expr)
			if !ok {
				return nil, false, nil
			}
			current = v
		case seg.multiFields != nil:
			current = applyMultiArray(current, seg.multiFields)
		case seg.multiHash != nil:
			current = applyMultiHash(current, seg.multiHash)
		}
	}
	return current, true, nil
}

type segment struct {
	name        string
	expr        *expr
	multiFields []string
	multiHash   []kvPair
}

type kvPair struct{ key, path string }

// parseSegments tokenizes a dotted path into segments, keeping a bracket or
// brace group intact across internal dots — ported from
// original_source/src/json_path.rs::parse_input_js_path, extended to also
// track "{"/"}" balance for hash multiselect.
func parseSegments(path string) ([]segment, error) {
	var raw []string
	var pending strings.Builder
	open := false

	for _, chunk := range strings.Split(path, ".") {
		opensUnclosed := (strings.Contains(chunk, "[") && !strings.Contains(chunk, "]")) ||
			(strings.Contains(chunk, "{") && !strings.Contains(chunk, "}"))
		closes := strings.HasSuffix(chunk, "]") || strings.HasSuffix(chunk, "}")

		if opensUnclosed {
			if open {
				pending.WriteString("." + chunk)
			} else {
				pending.WriteString(chunk)
			}
			open = true
			continue
		}
		if open && !closes {
			pending.WriteString("." + chunk)
			continue
		}

		var value string
		if open {
			value = pending.String() + "." + chunk
		} else {
			value = chunk
		}
		raw = append(raw, value)
		if closes {
			open = false
			pending.Reset()
		}
	}

	segs := make([]segment, 0, len(raw))
	for _, token := range raw {
		seg, err := parseOneSegment(token)
		if err != nil {
			return nil, err
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func parseOneSegment(token string) (segment, error) {
	idx := strings.IndexAny(token, "[{")
	if idx < 0 {
		return segment{name: token}, nil
	}
	name := token[:idx]
	rest := token[idx:]

	if strings.HasPrefix(rest, "{") {
		content := strings.TrimSuffix(strings.TrimPrefix(rest, "{"), "}")
		pairs, err := parseHash(content)
		if err != nil {
			return segment{}, err
		}
		return segment{name: name, multiHash: pairs}, nil
	}

	content := strings.TrimSuffix(strings.TrimPrefix(rest, "["), "]")
	switch {
	case strings.HasPrefix(content, "?"):
		e, err := parseExpr(strings.TrimPrefix(content, "?"))
		if err != nil {
			return segment{}, err
		}
		return segment{name: name, expr: e}, nil
	case strings.Contains(content, ":"):
		e, err := parseExpr("[" + content + "]")
		if err != nil {
			return segment{}, err
		}
		return segment{name: name, expr: e}, nil
	case strings.Contains(content, ","):
		fields := splitTrim(content, ",")
		return segment{name: name, multiFields: fields}, nil
	default:
		e, err := parseExpr("[" + content + "]")
		if err != nil {
			return segment{}, err
		}
		return segment{name: name, expr: e}, nil
	}
}

func parseHash(content string) ([]kvPair, error) {
	var pairs []kvPair
	for _, part := range strings.Split(content, ",") {
		k, v, err := splitTwo(part, ":")
		if err != nil {
			return nil, talonerr.Wrap(talonerr.ParseError, err)
		}
		pairs = append(pairs, kvPair{key: k, path: v})
	}
	return pairs, nil
}

func splitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func applyMultiArray(current any, fields []string) any {
	if arr, ok := current.([]any); ok {
		out := make([]any, len(arr))
		for i, el := range arr {
			out[i] = pickFields(el, fields)
		}
		return out
	}
	return pickFields(current, fields)
}

func pickFields(v any, fields []string) []any {
	out := make([]any, len(fields))
	for i, f := range fields {
		val, _ := descend(v, strings.Split(f, "."))
		out[i] = val
	}
	return out
}

func applyMultiHash(current any, pairs []kvPair) any {
	if arr, ok := current.([]any); ok {
		out := make([]any, len(arr))
		for i, el := range arr {
			out[i] = pickHash(el, pairs)
		}
		return out
	}
	return pickHash(current, pairs)
}

func pickHash(v any, pairs []kvPair) map[string]any {
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		val, _ := descend(v, strings.Split(p.path, "."))
		out[p.key] = val
	}
	return out
}

func descend(v any, path []string) (any, bool) {
	cur := v
	for _, key := range path {
		if key == "" {
			continue
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		val, exists := m[key]
		if !exists {
			return nil, false
		}
		cur = val
	}
	return cur, true
}

// --- filter expression sub-language: index / range / value / comparison ---

type exprKind int

const (
	kindIndex exprKind = iota
	kindRange
	kindValue
	kindCmp
)

type expr struct {
	kind       exprKind
	index      int
	rangeStart int
	rangeEnd   int
	root       byte // '@', '$', or 0 for a literal/bare value
	attrs      []string
	cmp        string
	left       *expr
	right      *expr
}

// cmpTokens in longest-match-first declaration order, mirroring CmpToken's
// enum order in the original (Eq, Neq, Gte, Gt, Lte, Lt) so that ">="
// matches before ">" and "<=" before "<".
var cmpTokens = []string{"==", "!=", ">=", ">", "<=", "<"}

func parseExpr(s string) (*expr, error) {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		return parseExpr(s[1 : len(s)-1])
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		content := s[1 : len(s)-1]
		if strings.HasPrefix(content, "?") {
			return parseExpr(strings.TrimPrefix(content, "?"))
		}
		if strings.Contains(content, ":") {
			left, right, err := splitTwo(content, ":")
			if err != nil {
				return nil, talonerr.Wrap(talonerr.ParseError, err)
			}
			start, err1 := strconv.Atoi(left)
			end, err2 := strconv.Atoi(right)
			if err1 != nil || err2 != nil {
				return nil, talonerr.Newf(talonerr.ParseError, "jsonpath: invalid index range %q", content)
			}
			return &expr{kind: kindRange, rangeStart: start, rangeEnd: end}, nil
		}
		idx, err := strconv.Atoi(content)
		if err != nil {
			return nil, talonerr.Newf(talonerr.ParseError, "jsonpath: invalid index %q", content)
		}
		return &expr{kind: kindIndex, index: idx}, nil
	}

	if cmp, ok := findCmpToken(s); ok {
		left, right, err := splitTwo(s, cmp)
		if err != nil {
			return nil, talonerr.Wrap(talonerr.ParseError, err)
		}
		le, err := parseExpr(left)
		if err != nil {
			return nil, err
		}
		re, err := parseExpr(right)
		if err != nil {
			return nil, err
		}
		return &expr{kind: kindCmp, cmp: cmp, left: le, right: re}, nil
	}

	if strings.HasPrefix(s, "@") || strings.HasPrefix(s, "$") {
		parts := strings.Split(s, ".")
		return &expr{kind: kindValue, root: parts[0][0], attrs: parts[1:]}, nil
	}

	return &expr{kind: kindValue, root: 0, attrs: []string{s}}, nil
}

func findCmpToken(s string) (string, bool) {
	for _, tok := range cmpTokens {
		if strings.Contains(s, tok) {
			return tok, true
		}
	}
	return "", false
}

func splitTwo(s, sep string) (left, right string, err error) {
	parts := strings.SplitN(s, sep, 2)
	if len(parts) != 2 {
		return "", "", talonerr.Newf(talonerr.ParseError, "jsonpath: expected left and right of %q in %q", sep, s)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

func evalExpr(root, current any, e *expr) (any, bool) {
	switch e.kind {
	case kindIndex:
		arr, ok := current.([]any)
		if !ok || e.index < 0 || e.index >= len(arr) {
			return nil, false
		}
		return arr[e.index], true

	case kindRange:
		arr, ok := current.([]any)
		if !ok || e.rangeStart < 0 || e.rangeEnd > len(arr) || e.rangeStart > e.rangeEnd {
			return nil, false
		}
		out := make([]any, e.rangeEnd-e.rangeStart)
		copy(out, arr[e.rangeStart:e.rangeEnd])
		return out, true

	case kindValue:
		if e.root != '@' && e.root != '$' {
			return literalValue(e.attrs[0]), true
		}
		target := current
		if e.root == '$' {
			target = root
		}
		return descend(target, e.attrs)

	case kindCmp:
		arr, ok := current.([]any)
		if !ok {
			return nil, false
		}
		out := make([]any, 0, len(arr))
		for _, el := range arr {
			lv, lok := evalExpr(root, el, e.left)
			rv, rok := evalExpr(root, el, e.right)
			if !lok || !rok {
				continue
			}
			if compare(e.cmp, lv, rv) {
				out = append(out, el)
			}
		}
		return out, true
	}
	return nil, false
}

// literalValue interprets a bare comparison operand as a number, a
// single-quoted string (quotes stripped), or otherwise as its raw text.
func literalValue(lit string) any {
	if n, err := strconv.ParseFloat(lit, 64); err == nil {
		return n
	}
	if strings.HasPrefix(lit, "'") && strings.HasSuffix(lit, "'") && len(lit) >= 2 {
		return strings.Trim(lit, "'")
	}
	return lit
}

func compare(cmp string, l, r any) bool {
	if lf, ok := l.(float64); ok {
		if rf, ok := r.(float64); ok {
			return compareOrdered(cmp, lf, rf)
		}
		return false
	}
	if ls, ok := l.(string); ok {
		if rs, ok := r.(string); ok {
			return compareOrdered(cmp, ls, rs)
		}
		return false
	}
	return false
}

type ordered interface {
	~float64 | ~string
}

func compareOrdered[T ordered](cmp string, l, r T) bool {
	switch cmp {
	case "==":
		return l == r
	case "!=":
		return l != r
	case ">=":
		return l >= r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case "<":
		return l < r
	default:
		return false
	}
}
