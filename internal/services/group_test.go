package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/fypms/backend/internal/data/repos"
	"github.com/fypms/backend/internal/data/repos/testutil"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/services"
)

func TestGroupSendRequestToSelf(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
	cat := testutil.SeedCategory(t, ctx, e.tx, "web")

	svc := e.groupService()
	_, err := svc.SendRequest(asUser(alice.User), services.SendGroupRequestInput{
		PartnerID:  alice.ID,
		CategoryID: cat.ID,
	})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestGroupSendRequestIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
	bob := testutil.SeedStudent(t, ctx, e.tx, "bob")
	cat := testutil.SeedCategory(t, ctx, e.tx, "web")

	svc := e.groupService()
	input := services.SendGroupRequestInput{PartnerID: bob.ID, CategoryID: cat.ID}

	first, err := svc.SendRequest(asUser(alice.User), input)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := svc.SendRequest(asUser(alice.User), input)
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("re-sent request created a new group: %s vs %s", first.ID, second.ID)
	}
}

func TestGroupOnlyRecipientAccepts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
	bob := testutil.SeedStudent(t, ctx, e.tx, "bob")
	cat := testutil.SeedCategory(t, ctx, e.tx, "web")
	g := testutil.SeedGroup(t, ctx, e.tx, alice.ID, bob.ID, cat.ID, types.GroupPending)

	svc := e.groupService()
	_, err := svc.Respond(asUser(alice.User), g.ID, types.GroupAccepted)
	wantStatus(t, err, http.StatusForbidden)

	got, err := svc.Respond(asUser(bob.User), g.ID, types.GroupAccepted)
	if err != nil {
		t.Fatalf("recipient accept: %v", err)
	}
	if got.Status != types.GroupAccepted {
		t.Fatalf("status = %s, want accepted", got.Status)
	}
}

func TestGroupAcceptCancelsCompetingRequests(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
	bob := testutil.SeedStudent(t, ctx, e.tx, "bob")
	carol := testutil.SeedStudent(t, ctx, e.tx, "carol")
	dave := testutil.SeedStudent(t, ctx, e.tx, "dave")
	cat := testutil.SeedCategory(t, ctx, e.tx, "web")

	main := testutil.SeedGroup(t, ctx, e.tx, alice.ID, bob.ID, cat.ID, types.GroupPending)
	competingAlice := testutil.SeedGroup(t, ctx, e.tx, carol.ID, alice.ID, cat.ID, types.GroupPending)
	competingBob := testutil.SeedGroup(t, ctx, e.tx, bob.ID, dave.ID, cat.ID, types.GroupPending)
	unrelated := testutil.SeedGroup(t, ctx, e.tx, carol.ID, dave.ID, cat.ID, types.GroupPending)

	svc := e.groupService()
	if _, err := svc.Respond(asUser(bob.User), main.ID, types.GroupAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}

	for _, tc := range []struct {
		id   uuid.UUID
		want string
	}{
		{main.ID, types.GroupAccepted},
		{competingAlice.ID, types.GroupCanceled},
		{competingBob.ID, types.GroupCanceled},
		{unrelated.ID, types.GroupPending},
	} {
		g, err := e.groupRepo.GetByID(ctx, nil, tc.id)
		if err != nil {
			t.Fatalf("reload group: %v", err)
		}
		if g.Status != tc.want {
			t.Fatalf("group %s status = %s, want %s", g.ID, g.Status, tc.want)
		}
	}
}

func TestGroupRejectAndCancelCancelCompetingRequests(t *testing.T) {
	for _, tc := range []struct {
		status  string
		respond func(e *env, g *types.Group, initiator, invited *types.Student) error
	}{
		{types.GroupRejected, func(e *env, g *types.Group, _, invited *types.Student) error {
			_, err := e.groupService().Respond(asUser(invited.User), g.ID, types.GroupRejected)
			return err
		}},
		{types.GroupCanceled, func(e *env, g *types.Group, initiator, _ *types.Student) error {
			_, err := e.groupService().Respond(asUser(initiator.User), g.ID, types.GroupCanceled)
			return err
		}},
	} {
		t.Run(tc.status, func(t *testing.T) {
			e := newEnv(t)
			ctx := context.Background()
			alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
			bob := testutil.SeedStudent(t, ctx, e.tx, "bob")
			carol := testutil.SeedStudent(t, ctx, e.tx, "carol")
			cat := testutil.SeedCategory(t, ctx, e.tx, "web")

			main := testutil.SeedGroup(t, ctx, e.tx, alice.ID, bob.ID, cat.ID, types.GroupPending)
			competing := testutil.SeedGroup(t, ctx, e.tx, carol.ID, bob.ID, cat.ID, types.GroupPending)

			if err := tc.respond(e, main, alice, bob); err != nil {
				t.Fatalf("respond %s: %v", tc.status, err)
			}

			got, err := e.groupRepo.GetByID(ctx, nil, main.ID)
			if err != nil {
				t.Fatalf("reload group: %v", err)
			}
			if got.Status != tc.status {
				t.Fatalf("group status = %s, want %s", got.Status, tc.status)
			}
			other, err := e.groupRepo.GetByID(ctx, nil, competing.ID)
			if err != nil {
				t.Fatalf("reload competing group: %v", err)
			}
			if other.Status != types.GroupCanceled {
				t.Fatalf("competing group status after %s = %s, want canceled", tc.status, other.Status)
			}
		})
	}
}

func TestGroupRespondTerminalStateConflicts(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
	bob := testutil.SeedStudent(t, ctx, e.tx, "bob")
	cat := testutil.SeedCategory(t, ctx, e.tx, "web")
	g := testutil.SeedGroup(t, ctx, e.tx, alice.ID, bob.ID, cat.ID, types.GroupRejected)

	svc := e.groupService()
	_, err := svc.Respond(asUser(bob.User), g.ID, types.GroupAccepted)
	wantStatus(t, err, http.StatusBadRequest)
}

func TestGroupSendRequestBlockedByAcceptedGroup(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
	bob := testutil.SeedStudent(t, ctx, e.tx, "bob")
	carol := testutil.SeedStudent(t, ctx, e.tx, "carol")
	cat := testutil.SeedCategory(t, ctx, e.tx, "web")
	testutil.SeedGroup(t, ctx, e.tx, alice.ID, bob.ID, cat.ID, types.GroupAccepted)

	svc := e.groupService()
	_, err := svc.SendRequest(asUser(carol.User), services.SendGroupRequestInput{
		PartnerID:  alice.ID,
		CategoryID: cat.ID,
	})
	wantStatus(t, err, http.StatusBadRequest)
}

func TestGroupListStudentsForRequest(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
	bob := testutil.SeedStudent(t, ctx, e.tx, "bob")
	carol := testutil.SeedStudent(t, ctx, e.tx, "carol")
	dave := testutil.SeedStudent(t, ctx, e.tx, "dave")
	cat := testutil.SeedCategory(t, ctx, e.tx, "web")
	testutil.SeedGroup(t, ctx, e.tx, carol.ID, dave.ID, cat.ID, types.GroupAccepted)

	svc := e.groupService()
	students, err := svc.ListStudents(asUser(alice.User), repos.StudentFilter{}, true)
	if err != nil {
		t.Fatalf("list students: %v", err)
	}
	for _, s := range students {
		if s.ID == alice.ID {
			t.Fatal("candidate list contains the caller")
		}
		if s.ID == carol.ID || s.ID == dave.ID {
			t.Fatalf("candidate list contains already-grouped student %s", s.RegistrationNo)
		}
	}
	found := false
	for _, s := range students {
		if s.ID == bob.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("candidate list is missing an available student")
	}
}

func TestGroupCategoryChangeByInitiatorOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
	bob := testutil.SeedStudent(t, ctx, e.tx, "bob")
	web := testutil.SeedCategory(t, ctx, e.tx, "web")
	ml := testutil.SeedCategory(t, ctx, e.tx, "ml")
	group := testutil.SeedGroup(t, ctx, e.tx, alice.ID, bob.ID, web.ID, types.GroupPending)

	svc := e.groupService()

	_, err := svc.UpdateCategory(asUser(bob.User), group.ID, ml.ID)
	wantStatus(t, err, http.StatusForbidden)

	updated, err := svc.UpdateCategory(asUser(alice.User), group.ID, ml.ID)
	if err != nil {
		t.Fatalf("initiator category change: %v", err)
	}
	if updated.CategoryID != ml.ID {
		t.Fatalf("category = %s, want %s", updated.CategoryID, ml.ID)
	}

	accepted := testutil.SeedGroup(t, ctx, e.tx, alice.ID, bob.ID, web.ID, types.GroupAccepted)
	_, err = svc.UpdateCategory(asUser(alice.User), accepted.ID, web.ID)
	wantStatus(t, err, http.StatusBadRequest)
}
