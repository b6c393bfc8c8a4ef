package services_test

import (
	"context"
	"net/http"
	"testing"

	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/apierr"
	"github.com/fypms/backend/internal/pkg/ctxutil"
	"github.com/fypms/backend/internal/services"
)

func registerStudent(t *testing.T, svc services.AuthService, username string) *types.Student {
	t.Helper()
	student, err := svc.RegisterStudent(context.Background(), services.RegisterStudentInput{
		Username:       username,
		Email:          username + "@uni.edu",
		Password:       "correct-horse",
		RegistrationNo: "REG-" + username,
		Department:     "CS",
		Semester:       types.Semester7,
		BatchNo:        "2023",
	})
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	return student
}

func TestLoginRoleMismatchLooksLikeBadCredentials(t *testing.T) {
	e := newEnv(t)
	svc := e.authService()
	registerStudent(t, svc, "alice")
	ctx := context.Background()

	if _, _, err := svc.Login(ctx, types.RoleStudent, "alice", "correct-horse"); err != nil {
		t.Fatalf("student login: %v", err)
	}

	_, _, wrongPass := svc.Login(ctx, types.RoleStudent, "alice", "wrong-password")
	_, _, wrongRole := svc.Login(ctx, types.RoleSupervisor, "alice", "correct-horse")
	_, _, unknown := svc.Login(ctx, types.RoleStudent, "nobody", "correct-horse")

	for name, err := range map[string]error{
		"wrong password": wrongPass,
		"wrong role":     wrongRole,
		"unknown user":   unknown,
	} {
		if err == nil {
			t.Fatalf("%s: expected an error", name)
		}
		apiErr := apierr.From(err)
		if apiErr.Status != http.StatusUnauthorized || apiErr.Code != "invalid_credentials" {
			t.Fatalf("%s: got status=%d code=%s, want uniform credential error", name, apiErr.Status, apiErr.Code)
		}
	}
}

func TestLoginUsernameIsCaseInsensitive(t *testing.T) {
	e := newEnv(t)
	svc := e.authService()
	registerStudent(t, svc, "Alice")

	if _, _, err := svc.Login(context.Background(), types.RoleStudent, "alice", "correct-horse"); err != nil {
		t.Fatalf("lowercased login: %v", err)
	}
}

func TestAccessTokenCarriesRole(t *testing.T) {
	e := newEnv(t)
	svc := e.authService()
	student := registerStudent(t, svc, "alice")
	ctx := context.Background()

	access, _, err := svc.Login(ctx, types.RoleStudent, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	rd := ctxutil.GetRequestData(authed)
	if rd == nil {
		t.Fatal("no request data on context")
	}
	if rd.Role != types.RoleStudent {
		t.Fatalf("role = %s, want student", rd.Role)
	}
	if rd.UserID != student.UserID {
		t.Fatalf("user id = %s, want %s", rd.UserID, student.UserID)
	}
}

func TestSetContextRejectsForgedToken(t *testing.T) {
	e := newEnv(t)
	svc := e.authService()

	_, err := svc.SetContextFromToken(context.Background(), "not-a-jwt")
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	e := newEnv(t)
	svc := e.authService()
	registerStudent(t, svc, "alice")
	ctx := context.Background()

	_, refresh, err := svc.Login(ctx, types.RoleStudent, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	access2, refresh2, err := svc.Refresh(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access2 == "" || refresh2 == "" || refresh2 == refresh {
		t.Fatal("refresh did not issue a new token pair")
	}

	// The consumed refresh token must not work twice.
	_, _, err = svc.Refresh(ctx, refresh)
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	e := newEnv(t)
	svc := e.authService()
	registerStudent(t, svc, "alice")
	ctx := context.Background()

	access, refresh, err := svc.Login(ctx, types.RoleStudent, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}

	if err := svc.ChangePassword(authed, "wrong-password", "fresh-password"); err == nil {
		t.Fatal("change password accepted a wrong old password")
	}
	if err := svc.ChangePassword(authed, "correct-horse", "fresh-password"); err != nil {
		t.Fatalf("change password: %v", err)
	}

	_, _, err = svc.Refresh(ctx, refresh)
	wantStatus(t, err, http.StatusUnauthorized)

	if _, _, err := svc.Login(ctx, types.RoleStudent, "alice", "fresh-password"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	e := newEnv(t)
	svc := e.authService()
	registerStudent(t, svc, "alice")
	ctx := context.Background()

	access, refresh, err := svc.Login(ctx, types.RoleStudent, "alice", "correct-horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	authed, err := svc.SetContextFromToken(ctx, access)
	if err != nil {
		t.Fatalf("set context: %v", err)
	}
	if err := svc.Logout(authed); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_, _, err = svc.Refresh(ctx, refresh)
	wantStatus(t, err, http.StatusUnauthorized)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	e := newEnv(t)
	svc := e.authService()
	registerStudent(t, svc, "alice")

	_, err := svc.RegisterStudent(context.Background(), services.RegisterStudentInput{
		Username:       "alice",
		Email:          "other@uni.edu",
		Password:       "correct-horse",
		RegistrationNo: "REG-other",
		Department:     "CS",
		Semester:       types.Semester7,
		BatchNo:        "2023",
	})
	wantStatus(t, err, http.StatusBadRequest)
}
