package services_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/fypms/backend/internal/data/repos"
	"github.com/fypms/backend/internal/data/repos/testutil"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/services"
	"github.com/fypms/backend/internal/storage"
)

func (e *env) catalogService(t *testing.T) services.CatalogService {
	t.Helper()
	store, err := storage.NewLocalMediaStore(t.TempDir(), e.log)
	if err != nil {
		t.Fatalf("media store: %v", err)
	}
	return services.NewCatalogService(e.tx, e.log, e.categoryRepo, e.panelRepo, e.projectRepo, e.proposalRepo, e.templateRepo, e.studentRepo, e.committeeRepo, store)
}

func TestCatalogWritesAreCommitteeOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")

	svc := e.catalogService(t)
	_, err := svc.CreateCategory(asUser(alice.User), "machine learning")
	wantStatus(t, err, http.StatusForbidden)
	_, err = svc.CreatePanel(asUser(alice.User), "panel-x")
	wantStatus(t, err, http.StatusForbidden)
}

func TestCatalogCategoryNameUnique(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)

	svc := e.catalogService(t)
	if _, err := svc.CreateCategory(ctx, "web"); err != nil {
		t.Fatalf("create category: %v", err)
	}
	_, err := svc.CreateCategory(ctx, "web")
	wantStatus(t, err, http.StatusBadRequest)
}

func TestCatalogCreateProjectValidatesReferences(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)
	background := context.Background()
	cat := testutil.SeedCategory(t, background, e.tx, "web")
	panel := testutil.SeedPanel(t, background, e.tx, "panel-p")

	svc := e.catalogService(t)
	project, err := svc.CreateProject(ctx, services.CreateProjectInput{
		CategoryID: cat.ID,
		PanelID:    panel.ID,
		Name:       "inventory system",
		Language:   "Go",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if project.CategoryID != cat.ID {
		t.Fatalf("project category = %s, want %s", project.CategoryID, cat.ID)
	}

	_, err = svc.CreateProject(ctx, services.CreateProjectInput{
		CategoryID: cat.ID,
		PanelID:    project.ID, // not a panel
		Name:       "broken",
	})
	wantStatus(t, err, http.StatusNotFound)
}

func TestProposalsScopedToOwnerForStudents(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")
	bob := testutil.SeedStudent(t, ctx, e.tx, "bob")

	svc := e.catalogService(t)
	if _, err := svc.CreateProposal(asUser(alice.User), services.CreateProposalInput{
		Title:       "smart campus",
		Description: "sensors everywhere",
	}, "", nil); err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	mine, err := svc.ListProposals(asUser(alice.User))
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("owner sees %d proposals, want 1", len(mine))
	}

	others, err := svc.ListProposals(asUser(bob.User))
	if err != nil {
		t.Fatalf("other student list: %v", err)
	}
	if len(others) != 0 {
		t.Fatalf("other student sees %d proposals, want 0", len(others))
	}
}

func TestTemplateUploadValidatesTypeAndSemester(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)

	svc := e.catalogService(t)
	_, err := svc.UploadTemplate(ctx, "thesis", types.Semester7, "Thesis Template", "t.docx", strings.NewReader("doc"))
	wantStatus(t, err, http.StatusBadRequest)
	_, err = svc.UploadTemplate(ctx, types.TemplateSRS, "semester_9", "SRS Template", "srs.docx", strings.NewReader("doc"))
	wantStatus(t, err, http.StatusBadRequest)

	template, err := svc.UploadTemplate(ctx, types.TemplateSRS, types.Semester7, "SRS Template", "srs.docx", strings.NewReader("doc"))
	if err != nil {
		t.Fatalf("upload template: %v", err)
	}

	listed, err := svc.ListTemplates(ctx, repos.TemplateFilter{TemplateType: types.TemplateSRS})
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != template.ID {
		t.Fatalf("template listing = %d entries", len(listed))
	}
}
