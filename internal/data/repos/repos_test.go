package repos_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fypms/backend/internal/data/repos"
	"github.com/fypms/backend/internal/data/repos/testutil"
	types "github.com/fypms/backend/internal/domain"
)

func TestSupervisorListFiltersByCategory(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	supRepo := repos.NewSupervisorRepo(tx, log)

	web := testutil.SeedCategory(t, ctx, tx, "web")
	ml := testutil.SeedCategory(t, ctx, tx, "ml")
	webProf := testutil.SeedSupervisor(t, ctx, tx, "web-prof")
	mlProf := testutil.SeedSupervisor(t, ctx, tx, "ml-prof")

	if err := supRepo.ReplaceCategories(ctx, tx, webProf, []*types.ProjectCategory{web}); err != nil {
		t.Fatalf("assign web categories: %v", err)
	}
	if err := supRepo.ReplaceCategories(ctx, tx, mlProf, []*types.ProjectCategory{ml}); err != nil {
		t.Fatalf("assign ml categories: %v", err)
	}

	got, err := supRepo.List(ctx, tx, testutil.PtrUUID(web.ID))
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(got) != 1 || got[0].ID != webProf.ID {
		t.Fatalf("category filter returned %d supervisors", len(got))
	}

	all, err := supRepo.List(ctx, tx, nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered list returned %d supervisors, want 2", len(all))
	}
}

func TestUserTokenDeleteExpired(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	tokenRepo := repos.NewUserTokenRepo(tx, log)

	u := testutil.SeedUser(t, ctx, tx, "tok-user", types.RoleStudent)
	stale := &types.UserToken{
		ID: uuid.New(), UserID: u.ID,
		AccessToken: "stale-access", RefreshToken: "stale-refresh",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	fresh := &types.UserToken{
		ID: uuid.New(), UserID: u.ID,
		AccessToken: "fresh-access", RefreshToken: "fresh-refresh",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if _, err := tokenRepo.Create(ctx, tx, []*types.UserToken{stale, fresh}); err != nil {
		t.Fatalf("seed tokens: %v", err)
	}

	if err := tokenRepo.DeleteExpired(ctx, tx, time.Now()); err != nil {
		t.Fatalf("delete expired: %v", err)
	}

	if _, err := tokenRepo.GetByRefreshToken(ctx, tx, "stale-refresh"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("stale token survived: %v", err)
	}
	if _, err := tokenRepo.GetByRefreshToken(ctx, tx, "fresh-refresh"); err != nil {
		t.Fatalf("fresh token pruned: %v", err)
	}
}

func TestGroupListPendingInvolvingAnyExcludesAcceptedRequest(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	groupRepo := repos.NewGroupRepo(tx, log)

	alice := testutil.SeedStudent(t, ctx, tx, "alice")
	bob := testutil.SeedStudent(t, ctx, tx, "bob")
	carol := testutil.SeedStudent(t, ctx, tx, "carol")
	cat := testutil.SeedCategory(t, ctx, tx, "web")

	accepted := testutil.SeedGroup(t, ctx, tx, alice.ID, bob.ID, cat.ID, types.GroupPending)
	competing := testutil.SeedGroup(t, ctx, tx, carol.ID, alice.ID, cat.ID, types.GroupPending)
	rejected := testutil.SeedGroup(t, ctx, tx, carol.ID, bob.ID, cat.ID, types.GroupRejected)

	pending, err := groupRepo.ListPendingInvolvingAny(ctx, tx, []uuid.UUID{alice.ID, bob.ID}, accepted.ID)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != competing.ID {
		t.Fatalf("pending list = %d entries, want only the competing request", len(pending))
	}
	_ = rejected
}

func TestEvaluationFormLookupBySupervisionAndType(t *testing.T) {
	ctx := context.Background()
	tx := testutil.Tx(t, testutil.DB(t))
	log := testutil.Logger(t)
	formRepo := repos.NewEvaluationFormRepo(tx, log)

	alice := testutil.SeedStudent(t, ctx, tx, "alice")
	bob := testutil.SeedStudent(t, ctx, tx, "bob")
	cat := testutil.SeedCategory(t, ctx, tx, "web")
	panel := testutil.SeedPanel(t, ctx, tx, "panel-a")
	sup := testutil.SeedSupervisor(t, ctx, tx, "prof")
	project := testutil.SeedProject(t, ctx, tx, cat.ID, panel.ID)
	group := testutil.SeedGroup(t, ctx, tx, alice.ID, bob.ID, cat.ID, types.GroupAccepted)
	s := testutil.SeedSupervision(t, ctx, tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionAccepted)

	forms := make([]*types.EvaluationForm, 0, len(types.FormTypes))
	for _, formType := range types.FormTypes {
		forms = append(forms, types.NewEvaluationForm(s.ID, formType))
	}
	if _, err := formRepo.Create(ctx, tx, forms); err != nil {
		t.Fatalf("seed forms: %v", err)
	}

	form, err := formRepo.GetBySupervisionAndType(ctx, tx, s.ID, types.FormSRSCommittee)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if form.FormType != types.FormSRSCommittee {
		t.Fatalf("form type = %s", form.FormType)
	}

	form.Ratings["requirements_analysis"] = types.RatingGood
	if err := formRepo.Save(ctx, tx, form); err != nil {
		t.Fatalf("save: %v", err)
	}
	reloaded, err := formRepo.GetBySupervisionAndType(ctx, tx, s.ID, types.FormSRSCommittee)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.CriterionRatings()["requirements_analysis"] != types.RatingGood {
		t.Fatal("rating did not persist")
	}
}
