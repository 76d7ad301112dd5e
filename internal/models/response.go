package models

import (
	"encoding/json"
	"time"
)

// Response is one recorded answer. Later writes to the same question id
// overwrite earlier ones; no history is kept.
type Response struct {
	QuestionID string    `json:"question_id"`
	Value      any       `json:"value"`
	Timestamp  time.Time `json:"timestamp"`
}

// ResponseSet maps question id to the latest recorded answer. The engine is
// the only writer; everything handed out of the engine is a copy.
type ResponseSet map[string]Response

// Clone returns a shallow copy of the set. Answer values are never mutated
// after recording, so sharing them is safe.
func (rs ResponseSet) Clone() ResponseSet {
	out := make(ResponseSet, len(rs))
	for id, r := range rs {
		out[id] = r
	}
	return out
}

// Number reads a numeric answer. JSON decoding yields float64, but values
// recorded in-process may be any Go numeric type.
func (rs ResponseSet) Number(id string) (float64, bool) {
	r, ok := rs[id]
	if !ok {
		return 0, false
	}
	return AsNumber(r.Value)
}

// NumberOrZero reads a numeric answer, treating a missing or non-numeric
// answer as 0. Scorers rely on this for best-effort partial results.
func (rs ResponseSet) NumberOrZero(id string) float64 {
	n, _ := rs.Number(id)
	return n
}

// Bool reads a boolean answer.
func (rs ResponseSet) Bool(id string) (bool, bool) {
	r, ok := rs[id]
	if !ok {
		return false, false
	}
	b, ok := r.Value.(bool)
	return b, ok
}

// BoolOrFalse reads a boolean answer, treating missing as false.
func (rs ResponseSet) BoolOrFalse(id string) bool {
	b, _ := rs.Bool(id)
	return b
}

// String reads a single-choice or text answer.
func (rs ResponseSet) String(id string) (string, bool) {
	r, ok := rs[id]
	if !ok {
		return "", false
	}
	s, ok := r.Value.(string)
	return s, ok
}

// Strings reads a multiselect answer. JSON decoding yields []any, in-process
// callers typically record []string; both are accepted.
func (rs ResponseSet) Strings(id string) ([]string, bool) {
	r, ok := rs[id]
	if !ok {
		return nil, false
	}
	return AsStrings(r.Value)
}

// Contains reports whether a multiselect answer includes the given option.
func (rs ResponseSet) Contains(id, option string) bool {
	values, ok := rs.Strings(id)
	if !ok {
		return false
	}
	for _, v := range values {
		if v == option {
			return true
		}
	}
	return false
}

// AsNumber coerces the supported numeric representations to float64.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// AsStrings coerces the supported list representations to []string.
func AsStrings(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
