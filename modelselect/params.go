package modelselect

import "sort"

// ParamGrid maps parameter names to the candidate values to try. For a
// pipeline the names use the step__param form.
type ParamGrid map[string][]interface{}

// Candidates enumerates every combination of the grid's values. Keys are
// walked in sorted order with the last key varying fastest, so the
// enumeration order is identical on every run. A key with no values yields
// no candidates; an empty grid yields a single empty candidate.
func (g ParamGrid) Candidates() []map[string]interface{} {
	if len(g) == 0 {
		return []map[string]interface{}{{}}
	}

	keys := make([]string, 0, len(g))
	for key := range g {
		if len(g[key]) == 0 {
			return nil
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	total := 1
	for _, key := range keys {
		total *= len(g[key])
	}

	out := make([]map[string]interface{}, 0, total)
	idx := make([]int, len(keys))
	for {
		candidate := make(map[string]interface{}, len(keys))
		for ki, key := range keys {
			candidate[key] = g[key][idx[ki]]
		}
		out = append(out, candidate)

		pos := len(keys) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(g[keys[pos]]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}
	return out
}

// copyParams returns a shallow copy of a parameter map.
func copyParams(params map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for key, value := range params {
		out[key] = value
	}
	return out
}
