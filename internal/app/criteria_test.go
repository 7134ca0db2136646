package app

import (
	"math"
	"testing"

	"ipodeck/internal/model"
)

func TestCompositeScoreEqualsWeightedMean(t *testing.T) {
	cases := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"all zero", []float64{0, 0, 0, 0, 0, 0, 0, 0}, 0},
		{"all max", []float64{10, 10, 10, 10, 10, 10, 10, 10}, 100},
		{"mixed", []float64{5, 6, 7, 8, 4, 3, 9, 10}, 65},
		{"fractional", []float64{7.5, 7.5, 7.5, 7.5, 7.5, 7.5, 7.5, 7.5}, 75},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			scores := make([]model.CriterionScore, len(tc.scores))
			for i, s := range tc.scores {
				scores[i] = model.CriterionScore{Name: criteriaDefinitions[i].Name, Score: s}
			}
			got := compositeScore(scores)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("compositeScore = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReadinessLevelBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{0, "Not Ready"},
		{25, "Not Ready"},
		{40, "Not Ready"},
		{40.1, "Developing"},
		{41, "Developing"},
		{65, "Developing"},
		{65.1, "Ready"},
		{66, "Ready"},
		{85, "Ready"},
		{85.1, "Highly Ready"},
		{86, "Highly Ready"},
		{100, "Highly Ready"},
	}
	for _, tc := range cases {
		if got := readinessLevel(tc.score); got != tc.want {
			t.Errorf("readinessLevel(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestCriteriaFixedSet(t *testing.T) {
	criteria := Criteria()
	if len(criteria) != criterionCount {
		t.Fatalf("expected %d criteria, got %d", criterionCount, len(criteria))
	}
	var totalWeight float64
	seen := map[string]bool{}
	for _, c := range criteria {
		if c.Name == "" || c.Description == "" {
			t.Errorf("criterion %+v has empty fields", c)
		}
		if seen[c.Name] {
			t.Errorf("duplicate criterion %q", c.Name)
		}
		seen[c.Name] = true
		totalWeight += c.Weight
	}
	if math.Abs(totalWeight-100) > 1e-9 {
		t.Errorf("criterion weights sum to %v, want 100", totalWeight)
	}
}

func TestCriteriaReturnsCopy(t *testing.T) {
	first := Criteria()
	first[0].Name = "mutated"
	if Criteria()[0].Name == "mutated" {
		t.Fatal("Criteria() must not expose the internal slice")
	}
}
