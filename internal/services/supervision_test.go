package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/fypms/backend/internal/data/repos/testutil"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/services"
)

func seedAcceptedGroup(t *testing.T, e *env) (*types.Student, *types.Student, *types.Group, *types.Supervisor, *types.Project) {
	t.Helper()
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
	bob := testutil.SeedStudent(t, ctx, e.tx, "bob")
	cat := testutil.SeedCategory(t, ctx, e.tx, "web")
	panel := testutil.SeedPanel(t, ctx, e.tx, "panel-a")
	sup := testutil.SeedSupervisor(t, ctx, e.tx, "prof")
	project := testutil.SeedProject(t, ctx, e.tx, cat.ID, panel.ID)
	group := testutil.SeedGroup(t, ctx, e.tx, alice.ID, bob.ID, cat.ID, types.GroupAccepted)
	return alice, bob, group, sup, project
}

func TestSupervisionCreateProvisionsAllForms(t *testing.T) {
	e := newEnv(t)
	alice, _, group, sup, project := seedAcceptedGroup(t, e)

	svc := e.supervisionService()
	s, err := svc.Create(asUser(alice.User), services.CreateSupervisionInput{
		GroupID:      group.ID,
		SupervisorID: sup.ID,
		ProjectID:    project.ID,
	})
	if err != nil {
		t.Fatalf("create supervision: %v", err)
	}
	if s.Status != types.SupervisionPending {
		t.Fatalf("status = %s, want pending", s.Status)
	}

	forms, err := e.formRepo.ListBySupervisionID(context.Background(), nil, s.ID)
	if err != nil {
		t.Fatalf("list forms: %v", err)
	}
	if len(forms) != len(types.FormTypes) {
		t.Fatalf("provisioned %d forms, want %d", len(forms), len(types.FormTypes))
	}
	seen := map[string]bool{}
	for _, form := range forms {
		seen[form.FormType] = true
		if got := form.TotalMarks(); got != 0 {
			t.Fatalf("fresh form %s total = %v, want 0", form.FormType, got)
		}
	}
	for _, formType := range types.FormTypes {
		if !seen[formType] {
			t.Fatalf("missing form %s", formType)
		}
	}
}

func TestSupervisionCreateRequiresAcceptedGroup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
	bob := testutil.SeedStudent(t, ctx, e.tx, "bob")
	cat := testutil.SeedCategory(t, ctx, e.tx, "web")
	panel := testutil.SeedPanel(t, ctx, e.tx, "panel-a")
	sup := testutil.SeedSupervisor(t, ctx, e.tx, "prof")
	project := testutil.SeedProject(t, ctx, e.tx, cat.ID, panel.ID)
	group := testutil.SeedGroup(t, ctx, e.tx, alice.ID, bob.ID, cat.ID, types.GroupPending)

	svc := e.supervisionService()
	_, err := svc.Create(asUser(alice.User), services.CreateSupervisionInput{
		GroupID:      group.ID,
		SupervisorID: sup.ID,
		ProjectID:    project.ID,
	})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestSupervisionInitiatorCannotConfirm(t *testing.T) {
	e := newEnv(t)
	alice, bob, group, sup, project := seedAcceptedGroup(t, e)

	svc := e.supervisionService()
	s, err := svc.Create(asUser(alice.User), services.CreateSupervisionInput{
		GroupID:      group.ID,
		SupervisorID: sup.ID,
		ProjectID:    project.ID,
	})
	if err != nil {
		t.Fatalf("create supervision: %v", err)
	}

	_, err = svc.Respond(asUser(alice.User), s.ID, types.SupervisionAcceptedByStudent)
	wantStatus(t, err, http.StatusForbidden)

	got, err := svc.Respond(asUser(bob.User), s.ID, types.SupervisionAcceptedByStudent)
	if err != nil {
		t.Fatalf("partner confirm: %v", err)
	}
	if got.Status != types.SupervisionAcceptedByStudent {
		t.Fatalf("status = %s, want accepted_by_student", got.Status)
	}
}

func TestSupervisorAcceptRequiresStudentConfirmation(t *testing.T) {
	e := newEnv(t)
	alice, bob, group, sup, project := seedAcceptedGroup(t, e)

	svc := e.supervisionService()
	s, err := svc.Create(asUser(alice.User), services.CreateSupervisionInput{
		GroupID:      group.ID,
		SupervisorID: sup.ID,
		ProjectID:    project.ID,
	})
	if err != nil {
		t.Fatalf("create supervision: %v", err)
	}

	_, err = svc.Respond(asUser(sup.User), s.ID, types.SupervisionAccepted)
	wantStatus(t, err, http.StatusBadRequest)

	if _, err := svc.Respond(asUser(bob.User), s.ID, types.SupervisionAcceptedByStudent); err != nil {
		t.Fatalf("partner confirm: %v", err)
	}
	got, err := svc.Respond(asUser(sup.User), s.ID, types.SupervisionAccepted)
	if err != nil {
		t.Fatalf("supervisor accept: %v", err)
	}
	if got.Status != types.SupervisionAccepted {
		t.Fatalf("status = %s, want accepted", got.Status)
	}
}

func TestSupervisionStudentCannotAccept(t *testing.T) {
	e := newEnv(t)
	alice, bob, group, sup, project := seedAcceptedGroup(t, e)

	svc := e.supervisionService()
	s, err := svc.Create(asUser(alice.User), services.CreateSupervisionInput{
		GroupID:      group.ID,
		SupervisorID: sup.ID,
		ProjectID:    project.ID,
	})
	if err != nil {
		t.Fatalf("create supervision: %v", err)
	}

	_, err = svc.Respond(asUser(bob.User), s.ID, types.SupervisionAccepted)
	wantStatus(t, err, http.StatusForbidden)
}

func TestSupervisionDuplicateRequestConflicts(t *testing.T) {
	e := newEnv(t)
	alice, _, group, sup, project := seedAcceptedGroup(t, e)

	svc := e.supervisionService()
	input := services.CreateSupervisionInput{
		GroupID:      group.ID,
		SupervisorID: sup.ID,
		ProjectID:    project.ID,
	}
	if _, err := svc.Create(asUser(alice.User), input); err != nil {
		t.Fatalf("first request: %v", err)
	}
	_, err := svc.Create(asUser(alice.User), input)
	wantStatus(t, err, http.StatusBadRequest)
}

func TestSupervisionListScopedByRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, _, group, sup, project := seedAcceptedGroup(t, e)
	outsider := testutil.SeedStudent(t, ctx, e.tx, "outsider")
	otherSup := testutil.SeedSupervisor(t, ctx, e.tx, "other-prof")
	testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionPending)

	svc := e.supervisionService()

	mine, err := svc.List(asUser(alice.User), "", "")
	if err != nil {
		t.Fatalf("student list: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("student sees %d supervisions, want 1", len(mine))
	}

	none, err := svc.List(asUser(outsider.User), "", "")
	if err != nil {
		t.Fatalf("outsider list: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("outsider sees %d supervisions, want 0", len(none))
	}

	foreign, err := svc.List(asUser(otherSup.User), "", "")
	if err != nil {
		t.Fatalf("other supervisor list: %v", err)
	}
	if len(foreign) != 0 {
		t.Fatalf("other supervisor sees %d supervisions, want 0", len(foreign))
	}
}

func TestSupervisionListRequestedFilter(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, group, sup, project := seedAcceptedGroup(t, e)
	testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionPending)

	svc := e.supervisionService()

	to, err := svc.List(asUser(alice.User), "", "to")
	if err != nil {
		t.Fatalf("list requested=to: %v", err)
	}
	if len(to) != 1 {
		t.Fatalf("initiator sees %d own requests, want 1", len(to))
	}

	none, err := svc.List(asUser(alice.User), "", "from")
	if err != nil {
		t.Fatalf("list requested=from: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("initiator sees %d partner requests, want 0", len(none))
	}

	from, err := svc.List(asUser(bob.User), "", "from")
	if err != nil {
		t.Fatalf("partner list requested=from: %v", err)
	}
	if len(from) != 1 {
		t.Fatalf("partner sees %d incoming requests, want 1", len(from))
	}

	_, err = svc.List(asUser(alice.User), "", "sideways")
	wantStatus(t, err, http.StatusBadRequest)
}
