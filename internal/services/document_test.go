package services_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/fypms/backend/internal/data/repos/testutil"
	types "github.com/fypms/backend/internal/domain"
)

func TestDocumentUploadRequiresAcceptedSupervision(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, _, group, sup, project := seedAcceptedGroup(t, e)
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionPending)

	svc := e.documentService(t)
	_, err := svc.Upload(asUser(alice.User), s.ID, types.DocSRS, "SRS v1", "srs.pdf", strings.NewReader("pdf"))
	wantStatus(t, err, http.StatusBadRequest)
}

func TestDocumentUploaderCannotConfirmOwnUpload(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, group, sup, project := seedAcceptedGroup(t, e)
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionAccepted)

	svc := e.documentService(t)
	doc, err := svc.Upload(asUser(alice.User), s.ID, types.DocSRS, "SRS v1", "srs.pdf", strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.Status != types.SupervisionPending {
		t.Fatalf("fresh upload status = %s, want pending", doc.Status)
	}

	_, err = svc.Transition(asUser(alice.User), doc.ID, types.SupervisionAcceptedByStudent)
	wantStatus(t, err, http.StatusForbidden)

	got, err := svc.Transition(asUser(bob.User), doc.ID, types.SupervisionAcceptedByStudent)
	if err != nil {
		t.Fatalf("partner confirm: %v", err)
	}
	if got.Status != types.SupervisionAcceptedByStudent {
		t.Fatalf("status = %s, want accepted_by_student", got.Status)
	}
}

func TestDocumentStudentCannotAccept(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, group, sup, project := seedAcceptedGroup(t, e)
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionAccepted)

	svc := e.documentService(t)
	doc, err := svc.Upload(asUser(alice.User), s.ID, types.DocSRS, "SRS v1", "srs.pdf", strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	_, err = svc.Transition(asUser(bob.User), doc.ID, types.SupervisionAccepted)
	wantStatus(t, err, http.StatusForbidden)
}

func TestDocumentSupervisorAcceptFlow(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, group, sup, project := seedAcceptedGroup(t, e)
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionAccepted)

	svc := e.documentService(t)
	doc, err := svc.Upload(asUser(alice.User), s.ID, types.DocSRS, "SRS v1", "srs.pdf", strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	// Acceptance needs the partner's confirmation first.
	_, err = svc.Transition(asUser(sup.User), doc.ID, types.SupervisionAccepted)
	wantStatus(t, err, http.StatusBadRequest)

	if _, err := svc.Transition(asUser(bob.User), doc.ID, types.SupervisionAcceptedByStudent); err != nil {
		t.Fatalf("partner confirm: %v", err)
	}
	got, err := svc.Transition(asUser(sup.User), doc.ID, types.SupervisionAccepted)
	if err != nil {
		t.Fatalf("supervisor accept: %v", err)
	}
	if got.Status != types.SupervisionAccepted {
		t.Fatalf("status = %s, want accepted", got.Status)
	}
}

func TestDocumentVisibilityByRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, bob, group, sup, project := seedAcceptedGroup(t, e)
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionAccepted)

	svc := e.documentService(t)
	pending, err := svc.Upload(asUser(alice.User), s.ID, types.DocSRS, "SRS draft", "srs.pdf", strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("upload pending: %v", err)
	}
	confirmed, err := svc.Upload(asUser(alice.User), s.ID, types.DocSDD, "SDD draft", "sdd.pdf", strings.NewReader("pdf"))
	if err != nil {
		t.Fatalf("upload confirmed: %v", err)
	}
	if _, err := svc.Transition(asUser(bob.User), confirmed.ID, types.SupervisionAcceptedByStudent); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Group members see every revision.
	mine, err := svc.List(asUser(alice.User), s.ID)
	if err != nil {
		t.Fatalf("student list: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("student sees %d documents, want 2", len(mine))
	}

	// The supervisor only sees confirmed uploads.
	theirs, err := svc.List(asUser(sup.User), s.ID)
	if err != nil {
		t.Fatalf("supervisor list: %v", err)
	}
	if len(theirs) != 1 {
		t.Fatalf("supervisor sees %d documents, want 1", len(theirs))
	}
	if theirs[0].ID != confirmed.ID {
		t.Fatalf("supervisor sees %s, want the confirmed upload", theirs[0].ID)
	}
	_ = pending
}

func TestDocumentDownloadRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, _, group, sup, project := seedAcceptedGroup(t, e)
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionAccepted)

	svc := e.documentService(t)
	doc, err := svc.Upload(asUser(alice.User), s.ID, types.DocFinalReport, "Final Report", "report.pdf", strings.NewReader("report body"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	got, rc, err := svc.Open(asUser(alice.User), doc.ID)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	if got.ID != doc.ID {
		t.Fatalf("opened %s, want %s", got.ID, doc.ID)
	}
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != "report body" {
		t.Fatalf("body = %q", body)
	}
}

func TestDocumentUploadRejectsUnknownType(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, _, group, sup, project := seedAcceptedGroup(t, e)
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionAccepted)

	svc := e.documentService(t)
	_, err := svc.Upload(asUser(alice.User), s.ID, "thesis", "Thesis", "t.pdf", strings.NewReader("pdf"))
	wantStatus(t, err, http.StatusBadRequest)
}
