// Package confparse parses the comma/colon CLI-style configuration strings
// used throughout talon's flags: plain maps, option-maps where a value may
// be absent, and grouped maps that expand "|"-alternatives into a cartesian
// product of concrete maps. Grounded on
// original_source/src/utils.rs (parse_conf_to_map, parse_multiple_conf,
// parse_multiple_conf_as_opt).
package confparse

import "strings"

// ParseMap parses "k1:v1,k2:v2" into {k1:v1, k2:v2}. Empty input yields an
// empty, non-nil map.
func ParseMap(s string) map[string]string {
	out := map[string]string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := splitOnce(pair)
		if !ok {
			continue
		}
		out[k] = v
	}
	return out
}

// ParseOptionMap parses "k:,k2:v" into an option-map where a key with no
// value after the colon maps to (ok=false), used for extraction specs where
// the destination variable name may be omitted.
func ParseOptionMap(s string) map[string]*string {
	out := map[string]*string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := splitOnce(pair)
		if !ok {
			continue
		}
		if v == "" {
			out[k] = nil
			continue
		}
		val := v
		out[k] = &val
	}
	return out
}

// OptionPair is one entry of an option-map, order-preserved.
type OptionPair struct {
	Key   string
	Value *string
}

// ParseOptionPairs parses "k:,k2:v" the same way ParseOptionMap does, but
// returns the entries as a slice in declared order instead of a map — for
// callers (like extraction specs) where two entries can target the same
// key and declaration order must still be deterministic.
func ParseOptionPairs(s string) []OptionPair {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []OptionPair
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := splitOnce(pair)
		if !ok {
			continue
		}
		if v == "" {
			out = append(out, OptionPair{Key: k})
			continue
		}
		val := v
		out = append(out, OptionPair{Key: k, Value: &val})
	}
	return out
}

// ParseGrouped parses "k:v1|v2,k2:v3|v4" into the cartesian product of
// per-key alternatives, in lexicographic product order over the keys as
// declared: [{k:v1,k2:v3}, {k:v1,k2:v4}, {k:v2,k2:v3}, {k:v2,k2:v4}].
// A key whose alternative list is empty after splitting is skipped
// entirely rather than collapsing the whole product to nothing.
func ParseGrouped(s string) []map[string]string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	type kv struct {
		key  string
		alts []string
	}
	var entries []kv
	for _, pair := range strings.Split(s, ",") {
		k, v, ok := splitOnce(pair)
		if !ok {
			continue
		}
		alts := splitNonEmpty(v, "|")
		if len(alts) == 0 {
			continue
		}
		entries = append(entries, kv{key: k, alts: alts})
	}
	if len(entries) == 0 {
		return nil
	}

	groups := []map[string]string{{}}
	for _, e := range entries {
		var next []map[string]string
		for _, g := range groups {
			for _, alt := range e.alts {
				merged := make(map[string]string, len(g)+1)
				for k, v := range g {
					merged[k] = v
				}
				merged[e.key] = alt
				next = append(next, merged)
			}
		}
		groups = next
	}
	return groups
}

func splitOnce(pair string) (key, value string, ok bool) {
	idx := strings.Index(pair, ":")
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(pair[:idx])
	value = strings.TrimSpace(pair[idx+1:])
	if key == "" {
		return "", "", false
	}
	return key, value, true
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
