package services_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/fypms/backend/internal/data/repos/testutil"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/services"
)

func (e *env) chatService() services.ChatService {
	return services.NewChatService(e.tx, e.log, e.chatRepo, e.supvRepo, e.studentRepo, e.supRepo)
}

func TestChatRequiresAcceptedSupervision(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, _, group, sup, project := seedAcceptedGroup(t, e)
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionPending)

	svc := e.chatService()
	_, err := svc.Send(asUser(alice.User), s.ID, "hello")
	wantStatus(t, err, http.StatusBadRequest)
}

func TestChatParticipantsOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, _, group, sup, project := seedAcceptedGroup(t, e)
	outsider := testutil.SeedStudent(t, ctx, e.tx, "outsider")
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionAccepted)

	svc := e.chatService()
	if _, err := svc.Send(asUser(alice.User), s.ID, "hello professor"); err != nil {
		t.Fatalf("member send: %v", err)
	}
	if _, err := svc.Send(asUser(sup.User), s.ID, "hello group"); err != nil {
		t.Fatalf("supervisor send: %v", err)
	}
	_, err := svc.Send(asUser(outsider.User), s.ID, "let me in")
	wantStatus(t, err, http.StatusForbidden)
}

func TestChatListAfterCursor(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice, _, group, sup, project := seedAcceptedGroup(t, e)
	s := testutil.SeedSupervision(t, ctx, e.tx, group.ID, sup.ID, project.ID, alice.ID, types.SupervisionAccepted)

	svc := e.chatService()
	first, err := svc.Send(asUser(alice.User), s.ID, "first")
	if err != nil {
		t.Fatalf("send first: %v", err)
	}
	if _, err := svc.Send(asUser(sup.User), s.ID, "second"); err != nil {
		t.Fatalf("send second: %v", err)
	}

	all, err := svc.List(asUser(alice.User), s.ID, nil)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("listed %d messages, want 2", len(all))
	}
	if all[0].Message != "first" || all[1].Message != "second" {
		t.Fatalf("messages out of order: %q then %q", all[0].Message, all[1].Message)
	}

	newer, err := svc.List(asUser(alice.User), s.ID, testutil.PtrUUID(first.ID))
	if err != nil {
		t.Fatalf("list after cursor: %v", err)
	}
	if len(newer) != 1 || newer[0].Message != "second" {
		t.Fatalf("cursor list = %d messages, want only the second", len(newer))
	}
}
