package services_test

import (
	"context"
	"math"
	"net/http"
	"testing"

	"github.com/fypms/backend/internal/data/repos/testutil"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/pointers"
	"github.com/fypms/backend/internal/services"
)

// seedAcceptedSupervision places a group under an accepted supervision with
// its full set of evaluation forms.
func seedAcceptedSupervision(t *testing.T, e *env) (*types.Student, *types.Supervisor, *types.Supervision) {
	t.Helper()
	ctx := context.Background()
	alice, _, group, sup, project := seedAcceptedGroup(t, e)
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionAccepted)

	forms := make([]*types.EvaluationForm, 0, len(types.FormTypes))
	for _, formType := range types.FormTypes {
		forms = append(forms, types.NewEvaluationForm(s.ID, formType))
	}
	if _, err := e.formRepo.Create(ctx, nil, forms); err != nil {
		t.Fatalf("seed forms: %v", err)
	}
	return alice, sup, s
}

func TestEvaluationUpdateComputesTotal(t *testing.T) {
	e := newEnv(t)
	_, sup, s := seedAcceptedSupervision(t, e)
	svc := e.evaluationService()

	spec, _ := types.SpecForForm(types.FormMidSupervisor)
	ratings := map[string]string{}
	for _, c := range spec.Criteria {
		ratings[c.Name] = types.RatingExcellent
	}

	view, err := svc.UpdateForm(asUser(sup.User), s.ID, types.FormMidSupervisor, services.UpdateEvaluationFormInput{
		Ratings: ratings,
		Comment: pointers.String("solid progress"),
	})
	if err != nil {
		t.Fatalf("update form: %v", err)
	}
	if math.Abs(view.TotalMarks-16.625) > 1e-9 {
		t.Fatalf("total = %v, want 16.625", view.TotalMarks)
	}
	if view.Comment != "solid progress" {
		t.Fatalf("comment = %q", view.Comment)
	}

	// Totals are derived on read, never stored.
	reloaded, err := svc.GetForm(asUser(sup.User), s.ID, types.FormMidSupervisor)
	if err != nil {
		t.Fatalf("reload form: %v", err)
	}
	if math.Abs(reloaded.TotalMarks-16.625) > 1e-9 {
		t.Fatalf("reloaded total = %v, want 16.625", reloaded.TotalMarks)
	}
}

func TestEvaluationRoleGating(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, sup, s := seedAcceptedSupervision(t, e)
	panel := testutil.SeedPanel(t, ctx, e.tx, "panel-b")
	member := testutil.SeedCommitteeMember(t, ctx, e.tx, "chair", panel.ID)

	svc := e.evaluationService()
	ratings := map[string]string{}

	// A supervisor form rejects committee writes and vice versa.
	_, err := svc.UpdateForm(asUser(member.User), s.ID, types.FormMidSupervisor, services.UpdateEvaluationFormInput{Ratings: ratings})
	wantStatus(t, err, http.StatusForbidden)
	_, err = svc.UpdateForm(asUser(sup.User), s.ID, types.FormMidCommittee, services.UpdateEvaluationFormInput{Ratings: ratings})
	wantStatus(t, err, http.StatusForbidden)

	// Students never write marks, but they read them.
	_, err = svc.UpdateForm(asUser(alice.User), s.ID, types.FormMidSupervisor, services.UpdateEvaluationFormInput{Ratings: ratings})
	wantStatus(t, err, http.StatusForbidden)
	if _, err := svc.GetForm(asUser(alice.User), s.ID, types.FormMidSupervisor); err != nil {
		t.Fatalf("student read: %v", err)
	}
}

func TestEvaluationForeignSupervisorForbidden(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, _, s := seedAcceptedSupervision(t, e)
	stranger := testutil.SeedSupervisor(t, ctx, e.tx, "stranger")

	svc := e.evaluationService()
	_, err := svc.UpdateForm(asUser(stranger.User), s.ID, types.FormMidSupervisor, services.UpdateEvaluationFormInput{})
	wantStatus(t, err, http.StatusForbidden)
}

func TestEvaluationRejectsUnknownCriteriaAndRatings(t *testing.T) {
	e := newEnv(t)
	_, sup, s := seedAcceptedSupervision(t, e)
	svc := e.evaluationService()

	_, err := svc.UpdateForm(asUser(sup.User), s.ID, types.FormMidSupervisor, services.UpdateEvaluationFormInput{
		Ratings: map[string]string{"no_such_criterion": types.RatingGood},
	})
	wantStatus(t, err, http.StatusBadRequest)

	spec, _ := types.SpecForForm(types.FormMidSupervisor)
	_, err = svc.UpdateForm(asUser(sup.User), s.ID, types.FormMidSupervisor, services.UpdateEvaluationFormInput{
		Ratings: map[string]string{spec.Criteria[0].Name: "outstanding"},
	})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestEvaluationRequiresAcceptedSupervision(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, _, group, sup, project := seedAcceptedGroup(t, e)
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionPending)
	forms := []*types.EvaluationForm{types.NewEvaluationForm(s.ID, types.FormMidSupervisor)}
	if _, err := e.formRepo.Create(ctx, nil, forms); err != nil {
		t.Fatalf("seed form: %v", err)
	}

	svc := e.evaluationService()
	_, err := svc.UpdateForm(asUser(sup.User), s.ID, types.FormMidSupervisor, services.UpdateEvaluationFormInput{})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestEvaluationScopeDocumentFlags(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	_, sup, s := seedAcceptedSupervision(t, e)
	panel := testutil.SeedPanel(t, ctx, e.tx, "panel-b")
	member := testutil.SeedCommitteeMember(t, ctx, e.tx, "chair", panel.ID)

	svc := e.evaluationService()

	view, err := svc.UpdateForm(asUser(member.User), s.ID, types.FormScopeDocument, services.UpdateEvaluationFormInput{
		PlagiarismChecked: pointers.Ptr(true),
		Approved:          pointers.Ptr(true),
	})
	if err != nil {
		t.Fatalf("scope review: %v", err)
	}
	if view.PlagiarismChecked == nil || !*view.PlagiarismChecked {
		t.Fatal("plagiarism flag not persisted")
	}
	if view.Approved == nil || !*view.Approved {
		t.Fatal("approval flag not persisted")
	}

	// Review flags belong to the scope document form only.
	_, err = svc.UpdateForm(asUser(sup.User), s.ID, types.FormMidSupervisor, services.UpdateEvaluationFormInput{
		Approved: pointers.Ptr(true),
	})
	wantStatus(t, err, http.StatusBadRequest)
}
