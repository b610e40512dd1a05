package docstore

import (
	"encoding/json"
	"sort"
	"time"
)

// Fields decodes a document body into its top-level fields. Used by backends
// that filter and sort on the client side.
func Fields(data json.RawMessage) (map[string]interface{}, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Matches reports whether the decoded fields satisfy every filter. A filter
// on a missing field never matches.
func Matches(fields map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		val, ok := fields[f.Field]
		if !ok {
			return false
		}
		if !compare(val, f.Op, f.Value) {
			return false
		}
	}
	return true
}

// Order sorts documents in place by a top-level field. Documents missing the
// field sort first. Ties keep their original order.
func Order(docs []Document, field string, descending bool) {
	if field == "" {
		return
	}
	keys := make([]interface{}, len(docs))
	for i, d := range docs {
		if fields, err := Fields(d.Data); err == nil {
			keys[i] = fields[field]
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		less := lessValue(keys[i], keys[j])
		if descending {
			return lessValue(keys[j], keys[i])
		}
		return less
	})
}

// compare evaluates stored-value OP filter-value. Values of incompatible
// types never match (except !=, which matches).
func compare(stored interface{}, op Operator, want interface{}) bool {
	// Timestamps serialize as RFC3339 strings; compare as instants when the
	// filter value is a time.Time.
	if wt, ok := want.(time.Time); ok {
		s, ok := stored.(string)
		if !ok {
			return op == OpNe
		}
		st, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return op == OpNe
		}
		switch op {
		case OpEq:
			return st.Equal(wt)
		case OpNe:
			return !st.Equal(wt)
		case OpLt:
			return st.Before(wt)
		case OpLte:
			return !st.After(wt)
		case OpGt:
			return st.After(wt)
		case OpGte:
			return !st.Before(wt)
		}
		return false
	}

	if sf, sok := toFloat(stored); sok {
		wf, wok := toFloat(want)
		if !wok {
			return op == OpNe
		}
		switch op {
		case OpEq:
			return sf == wf
		case OpNe:
			return sf != wf
		case OpLt:
			return sf < wf
		case OpLte:
			return sf <= wf
		case OpGt:
			return sf > wf
		case OpGte:
			return sf >= wf
		}
		return false
	}

	if ss, ok := stored.(string); ok {
		ws, ok := want.(string)
		if !ok {
			return op == OpNe
		}
		switch op {
		case OpEq:
			return ss == ws
		case OpNe:
			return ss != ws
		case OpLt:
			return ss < ws
		case OpLte:
			return ss <= ws
		case OpGt:
			return ss > ws
		case OpGte:
			return ss >= ws
		}
		return false
	}

	if sb, ok := stored.(bool); ok {
		wb, ok := want.(bool)
		if !ok {
			return op == OpNe
		}
		switch op {
		case OpEq:
			return sb == wb
		case OpNe:
			return sb != wb
		}
		return false
	}

	return op == OpNe
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func lessValue(a, b interface{}) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af < bf
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return as < bs
		}
	}
	return false
}
