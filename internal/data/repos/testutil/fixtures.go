package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/fypms/backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username, role string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@uni.edu",
		Password: "pw",
		Role:     role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedStudent(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.Student {
	tb.Helper()
	u := SeedUser(tb, ctx, tx, username, types.RoleStudent)
	s := &types.Student{
		ID:             uuid.New(),
		UserID:         u.ID,
		RegistrationNo: fmt.Sprintf("REG-%s", u.ID.String()[:8]),
		Department:     "CS",
		Semester:       types.Semester7,
		BatchNo:        "2023",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed student: %v", err)
	}
	s.User = u
	return s
}

func SeedSupervisor(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.Supervisor {
	tb.Helper()
	u := SeedUser(tb, ctx, tx, username, types.RoleSupervisor)
	s := &types.Supervisor{
		ID:           uuid.New(),
		UserID:       u.ID,
		SupervisorID: fmt.Sprintf("SUP-%s", u.ID.String()[:8]),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed supervisor: %v", err)
	}
	s.User = u
	return s
}

func SeedPanel(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Panel {
	tb.Helper()
	p := &types.Panel{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed panel: %v", err)
	}
	return p
}

func SeedCommitteeMember(tb testing.TB, ctx context.Context, tx *gorm.DB, username string, panelID uuid.UUID) *types.CommitteeMember {
	tb.Helper()
	u := SeedUser(tb, ctx, tx, username, types.RoleCommitteeMember)
	m := &types.CommitteeMember{
		ID:          uuid.New(),
		UserID:      u.ID,
		CommitteeID: fmt.Sprintf("COM-%s", u.ID.String()[:8]),
		PanelID:     panelID,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed committee member: %v", err)
	}
	m.User = u
	return m
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.ProjectCategory {
	tb.Helper()
	c := &types.ProjectCategory{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, categoryID, panelID uuid.UUID) *types.Project {
	tb.Helper()
	p := &types.Project{
		ID:         uuid.New(),
		CategoryID: categoryID,
		PanelID:    panelID,
		Name:       "project",
		Language:   "Go",
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedGroup(tb testing.TB, ctx context.Context, tx *gorm.DB, student1ID, student2ID, categoryID uuid.UUID, status string) *types.Group {
	tb.Helper()
	g := &types.Group{
		ID:         uuid.New(),
		Student1ID: student1ID,
		Student2ID: student2ID,
		CategoryID: categoryID,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(g).Error; err != nil {
		tb.Fatalf("seed group: %v", err)
	}
	return g
}

func SeedSupervision(tb testing.TB, ctx context.Context, tx *gorm.DB, groupID, supervisorID, projectID, createdByID uuid.UUID, status string) *types.Supervision {
	tb.Helper()
	s := &types.Supervision{
		ID:           uuid.New(),
		GroupID:      groupID,
		SupervisorID: supervisorID,
		ProjectID:    projectID,
		CreatedByID:  createdByID,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed supervision: %v", err)
	}
	return s
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
