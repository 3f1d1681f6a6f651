package grading

import (
	"testing"

	"mix-service/pkg/mix"
)

func TestSingleChoice(t *testing.T) {
	tests := []struct {
		name    string
		qType   string
		correct interface{}
		user    interface{}
		want    bool
	}{
		{"exact match", mix.TypeMCQ, []string{"B"}, "B", true},
		{"case insensitive", mix.TypeMCQ, []string{"b"}, "B", true},
		{"trimmed", mix.TypeMCQ, []string{" B "}, "B", true},
		{"wrong key", mix.TypeMCQ, []string{"B"}, "C", false},
		{"scenario mcq same rule", mix.TypeScenarioMCQ, []string{"a"}, " A ", true},
		{"multi element correct array rejected", mix.TypeMCQ, []string{"A", "B"}, "A", false},
		{"user array not coerced", mix.TypeMCQ, []string{"B"}, []string{"B"}, false},
		{"nil user answer", mix.TypeMCQ, []string{"B"}, nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCorrect(tc.qType, tc.correct, tc.user); got != tc.want {
				t.Errorf("IsCorrect(%s) = %v, want %v", tc.name, got, tc.want)
			}
		})
	}
}

func TestMultipleChoiceAnswers(t *testing.T) {
	tests := []struct {
		name    string
		correct interface{}
		user    interface{}
		want    bool
	}{
		{"order ignored", []string{"A", "C"}, []string{"C", "A"}, true},
		{"same order", []string{"A", "C"}, []string{"A", "C"}, true},
		{"missing selection", []string{"A", "C"}, []string{"A"}, false},
		{"extra selection", []string{"A", "C"}, []string{"A", "C", "D"}, false},
		{"duplicates kept", []string{"A", "C"}, []string{"A", "A", "C"}, false},
		{"generic slice elements", []interface{}{"A", "C"}, []interface{}{"C", "A"}, true},
		{"non string element", []string{"A", "C"}, []interface{}{"A", 3}, false},
		{"plain string not coerced", []string{"A", "C"}, "A,C", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCorrect(mix.TypeMCA, tc.correct, tc.user); got != tc.want {
				t.Errorf("IsCorrect(mca, %v, %v) = %v, want %v", tc.correct, tc.user, got, tc.want)
			}
		})
	}
}

func TestSequencing(t *testing.T) {
	correct := []string{"first", "second", "third"}

	if !IsCorrect(mix.TypeSequencing, correct, []string{"first", "second", "third"}) {
		t.Error("exact order should be correct")
	}
	if IsCorrect(mix.TypeSequencing, correct, []string{"second", "first", "third"}) {
		t.Error("reordered sequence should be incorrect")
	}
	if IsCorrect(mix.TypeSequencing, correct, []string{"first", "second"}) {
		t.Error("short sequence should be incorrect")
	}
}

func TestCategorization(t *testing.T) {
	correct := map[string][]string{
		"x": {"a", "b"},
		"y": {"c"},
	}

	tests := []struct {
		name string
		user interface{}
		want bool
	}{
		{"same placement", map[string][]string{"x": {"a", "b"}, "y": {"c"}}, true},
		{"item order ignored", map[string][]string{"x": {"b", "a"}, "y": {"c"}}, true},
		{"missing category", map[string][]string{"x": {"a", "b"}}, false},
		{"extra category", map[string][]string{"x": {"a", "b"}, "y": {"c"}, "z": {}}, false},
		{"item in wrong category", map[string][]string{"x": {"a", "c"}, "y": {"b"}}, false},
		{"generic map shape", map[string]interface{}{"x": []interface{}{"b", "a"}, "y": []interface{}{"c"}}, true},
		{"slice not coerced", []string{"a", "b", "c"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCorrect(mix.TypeCategorization, correct, tc.user); got != tc.want {
				t.Errorf("IsCorrect(categorization, %v) = %v, want %v", tc.user, got, tc.want)
			}
		})
	}
}

func TestMatching(t *testing.T) {
	correct := []string{"1-A", "2-B", "3-C"}

	if !IsCorrect(mix.TypeMatching, correct, []string{"3-C", "1-A", "2-B"}) {
		t.Error("pair order should be ignored")
	}
	if IsCorrect(mix.TypeMatching, correct, []string{"1-B", "2-A", "3-C"}) {
		t.Error("swapped pairing should be incorrect")
	}
	if IsCorrect(mix.TypeMatching, correct, []string{"1-A", "2-B"}) {
		t.Error("missing pair should be incorrect")
	}
}

func TestStringComparisons(t *testing.T) {
	tests := []struct {
		name    string
		qType   string
		correct interface{}
		user    interface{}
		want    bool
	}{
		{"true false case insensitive", mix.TypeTrueFalse, "true", "True", true},
		{"true false mismatch", mix.TypeTrueFalse, "true", "false", false},
		{"true false not trimmed", mix.TypeTrueFalse, "true", " true", false},
		{"fill in blank trimmed", mix.TypeFillInTheBlank, "mitochondria", "  Mitochondria ", true},
		{"fill in blank wrong", mix.TypeFillInTheBlank, "mitochondria", "chloroplast", false},
		{"unknown type falls back to string compare", "short_answer", "osmosis", " Osmosis ", true},
		{"unknown type mismatch", "short_answer", "osmosis", "diffusion", false},
		{"non string shapes incorrect", mix.TypeTrueFalse, "true", []string{"true"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsCorrect(tc.qType, tc.correct, tc.user); got != tc.want {
				t.Errorf("IsCorrect(%s, %v, %v) = %v, want %v", tc.qType, tc.correct, tc.user, got, tc.want)
			}
		})
	}
}

// Decoded documents arrive as named generic types, not the builtin slices.
type decodedArray []interface{}

type decodedDoc map[string]interface{}

func TestDecodedShapes(t *testing.T) {
	if !IsCorrect(mix.TypeMCA, decodedArray{"A", "C"}, []string{"C", "A"}) {
		t.Error("named slice type should grade like a plain slice")
	}
	if !IsCorrect(mix.TypeCategorization, decodedDoc{"x": decodedArray{"a", "b"}}, map[string][]string{"x": {"b", "a"}}) {
		t.Error("named map type should grade like a plain map")
	}
	if !IsCorrect(mix.TypeMCQ, decodedArray{"B"}, "b") {
		t.Error("named one-element array should unwrap for mcq")
	}
}
