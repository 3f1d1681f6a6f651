// Package grading implements answer-correctness checking for every question
// type. The service grades Mix-Mode submissions with it, and frontends embed
// it directly for the non-adaptive quiz flow, so both paths agree on what
// counts as correct.
package grading

import (
	"reflect"
	"sort"
	"strings"

	"mix-service/pkg/mix"
)

// IsCorrect reports whether userAnswer matches correctAnswer under the rule
// for questionType:
//
//	mcq, scenario_mcq   one-element key array vs selected key, trimmed,
//	                    case-insensitive
//	mca                 sorted-array equality, duplicates kept
//	sequencing          order-sensitive array equality
//	categorization      same category keys, order-independent items per
//	                    category
//	matching            sorted "premise-response" pair arrays
//	true_false          case-insensitive string equality
//	fill_in_the_blank   trimmed case-insensitive string equality
//	anything else       trimmed case-insensitive string comparison
//
// Values may be native Go slices and maps or the generic shapes produced by
// JSON and BSON decoding. A value whose shape does not fit the question type
// is never coerced; the answer is simply incorrect.
func IsCorrect(questionType string, correctAnswer, userAnswer interface{}) bool {
	switch questionType {
	case mix.TypeMCQ, mix.TypeScenarioMCQ:
		key, ok := singleKey(correctAnswer)
		if !ok {
			return false
		}
		selected, ok := toString(userAnswer)
		if !ok {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(key), strings.TrimSpace(selected))

	case mix.TypeMCA:
		want, ok := toStringSlice(correctAnswer)
		if !ok {
			return false
		}
		got, ok := toStringSlice(userAnswer)
		if !ok {
			return false
		}
		return equalUnordered(want, got)

	case mix.TypeSequencing:
		want, ok := toStringSlice(correctAnswer)
		if !ok {
			return false
		}
		got, ok := toStringSlice(userAnswer)
		if !ok {
			return false
		}
		return equalOrdered(want, got)

	case mix.TypeCategorization:
		want, ok := toCategoryMap(correctAnswer)
		if !ok {
			return false
		}
		got, ok := toCategoryMap(userAnswer)
		if !ok {
			return false
		}
		if len(want) != len(got) {
			return false
		}
		for category, items := range want {
			placed, present := got[category]
			if !present || !equalUnordered(items, placed) {
				return false
			}
		}
		return true

	case mix.TypeMatching:
		want, ok := toStringSlice(correctAnswer)
		if !ok {
			return false
		}
		got, ok := toStringSlice(userAnswer)
		if !ok {
			return false
		}
		return equalUnordered(want, got)

	case mix.TypeTrueFalse:
		want, ok := toString(correctAnswer)
		if !ok {
			return false
		}
		got, ok := toString(userAnswer)
		if !ok {
			return false
		}
		return strings.EqualFold(want, got)

	case mix.TypeFillInTheBlank:
		want, ok := toString(correctAnswer)
		if !ok {
			return false
		}
		got, ok := toString(userAnswer)
		if !ok {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(got))

	default:
		want, ok := toString(correctAnswer)
		if !ok {
			return false
		}
		got, ok := toString(userAnswer)
		if !ok {
			return false
		}
		return strings.EqualFold(strings.TrimSpace(want), strings.TrimSpace(got))
	}
}

// singleKey unwraps the one-element answer array of single-choice types.
func singleKey(v interface{}) (string, bool) {
	keys, ok := toStringSlice(v)
	if !ok || len(keys) != 1 {
		return "", false
	}
	return keys[0], true
}

func toString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// toStringSlice accepts []string plus any slice of string-valued elements,
// including named generic types like bson.A.
func toStringSlice(v interface{}) ([]string, bool) {
	if v == nil {
		return nil, false
	}
	if s, ok := v.([]string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return nil, false
	}
	out := make([]string, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		el, ok := rv.Index(i).Interface().(string)
		if !ok {
			return nil, false
		}
		out[i] = el
	}
	return out, true
}

// toCategoryMap accepts map[string][]string plus any string-keyed map whose
// values are string slices, including bson.M documents.
func toCategoryMap(v interface{}) (map[string][]string, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := v.(map[string][]string); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string][]string, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, ok := iter.Key().Interface().(string)
		if !ok {
			return nil, false
		}
		items, ok := toStringSlice(iter.Value().Interface())
		if !ok {
			return nil, false
		}
		out[key] = items
	}
	return out, true
}

func equalOrdered(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// equalUnordered compares as sorted sequences, so duplicate entries are not
// collapsed.
func equalUnordered(a, b []string) bool {
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	return equalOrdered(as, bs)
}
