package domain

import (
	"math"
	"testing"

	"github.com/google/uuid"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func allRated(spec FormSpec, rating string) map[string]string {
	ratings := make(map[string]string, len(spec.Criteria))
	for _, c := range spec.Criteria {
		ratings[c.Name] = rating
	}
	return ratings
}

func TestTotalAllPendingIsZero(t *testing.T) {
	for _, formType := range FormTypes {
		spec, ok := SpecForForm(formType)
		if !ok {
			t.Fatalf("missing spec for %s", formType)
		}
		if got := spec.Total(allRated(spec, RatingPending)); got != 0 {
			t.Fatalf("%s: all-pending total = %v, want 0", formType, got)
		}
		if got := spec.Total(nil); got != 0 {
			t.Fatalf("%s: nil ratings total = %v, want 0", formType, got)
		}
	}
}

func TestTotalAllExcellent(t *testing.T) {
	cases := map[string]float64{
		FormSRSSupervisor:   23.75,
		FormSRSCommittee:    23.75,
		FormMidSupervisor:   16.625,
		FormFinalCommittee:  14.25,
		FormFinalSupervisor: 14.25,
		FormScopeDocument:   0,
	}
	for formType, want := range cases {
		spec, _ := SpecForForm(formType)
		got := spec.Total(allRated(spec, RatingExcellent))
		if !almostEqual(got, want) {
			t.Fatalf("%s: all-excellent total = %v, want %v", formType, got, want)
		}
		if !almostEqual(spec.MaxTotal(), want) {
			t.Fatalf("%s: MaxTotal() = %v, want %v", formType, spec.MaxTotal(), want)
		}
	}
}

func TestTotalMixedRatings(t *testing.T) {
	spec, _ := SpecForForm(FormMidSupervisor)
	ratings := allRated(spec, RatingPending)
	first := spec.Criteria[0]
	ratings[first.Name] = RatingGood

	want := 0.70 * first.MaxPoints
	if got := spec.Total(ratings); !almostEqual(got, want) {
		t.Fatalf("total = %v, want %v", got, want)
	}
}

func TestTotalIgnoresForeignCriteria(t *testing.T) {
	spec, _ := SpecForForm(FormFinalSupervisor)
	ratings := map[string]string{"no_such_criterion": RatingExcellent}
	if got := spec.Total(ratings); got != 0 {
		t.Fatalf("total = %v, want 0 for unknown criterion", got)
	}
	if spec.HasCriterion("no_such_criterion") {
		t.Fatal("HasCriterion accepted an unknown name")
	}
}

func TestRatingMultipliers(t *testing.T) {
	cases := map[string]float64{
		RatingPending:   0,
		RatingMarginal:  0.15,
		RatingAdequate:  0.40,
		RatingGood:      0.70,
		RatingExcellent: 0.95,
	}
	for rating, want := range cases {
		if got := RatingMultiplier(rating); !almostEqual(got, want) {
			t.Fatalf("multiplier(%s) = %v, want %v", rating, got, want)
		}
		if !ValidRating(rating) {
			t.Fatalf("ValidRating(%s) = false", rating)
		}
	}
	if ValidRating("outstanding") {
		t.Fatal("ValidRating accepted an unknown rating")
	}
	if got := RatingMultiplier("outstanding"); got != 0 {
		t.Fatalf("unknown rating multiplier = %v, want 0", got)
	}
}

func TestNewEvaluationFormSeedsAllCriteria(t *testing.T) {
	for _, formType := range FormTypes {
		spec, _ := SpecForForm(formType)
		form := NewEvaluationForm(uuid.New(), formType)
		ratings := form.CriterionRatings()
		if len(ratings) != len(spec.Criteria) {
			t.Fatalf("%s: seeded %d criteria, want %d", formType, len(ratings), len(spec.Criteria))
		}
		for name, rating := range ratings {
			if rating != RatingPending {
				t.Fatalf("%s: criterion %s seeded as %s, want pending", formType, name, rating)
			}
		}
		if got := form.TotalMarks(); got != 0 {
			t.Fatalf("%s: fresh form total = %v, want 0", formType, got)
		}
	}
}

func TestScopeDocumentCarriesNoMarks(t *testing.T) {
	spec, _ := SpecForForm(FormScopeDocument)
	if spec.Evaluator != RoleCommitteeMember {
		t.Fatalf("scope document evaluator = %s, want committee member", spec.Evaluator)
	}
	for _, c := range spec.Criteria {
		if c.MaxPoints != 0 {
			t.Fatalf("scope document criterion %s carries %v points, want 0", c.Name, c.MaxPoints)
		}
	}
}
