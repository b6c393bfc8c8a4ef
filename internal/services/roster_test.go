package services_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/fypms/backend/internal/data/repos/testutil"
	types "github.com/fypms/backend/internal/domain"
)

const rosterHeader = "username,email,password,registration_no,department,semester,batch_no\n"

func committeeCtx(t *testing.T, e *env) context.Context {
	t.Helper()
	ctx := context.Background()
	panel := testutil.SeedPanel(t, ctx, e.tx, "panel-roster")
	member := testutil.SeedCommitteeMember(t, ctx, e.tx, "registrar", panel.ID)
	return asUser(member.User)
}

func TestRosterImportCreatesStudents(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)

	input := rosterHeader +
		"ali,ali@uni.edu,password-one,REG-001,CS,semester_7,2023\n" +
		"sara,sara@uni.edu,password-two,REG-002,CS,semester_7,2023\n"

	result, err := e.rosterService().ImportStudents(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 2 || len(result.Errors) != 0 {
		t.Fatalf("imported=%d errors=%v, want 2 clean rows", result.Imported, result.Errors)
	}

	student, err := e.studentRepo.GetByRegistrationNo(context.Background(), nil, "REG-001")
	if err != nil {
		t.Fatalf("load imported student: %v", err)
	}
	if student.User == nil || student.User.Role != types.RoleStudent {
		t.Fatal("imported student has no student account")
	}
}

func TestRosterImportIsAllOrNothing(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)

	input := rosterHeader +
		"good,good@uni.edu,password-one,REG-100,CS,semester_7,2023\n" +
		"bad,bad@uni.edu,short,REG-101,CS,semester_7,2023\n"

	result, err := e.rosterService().ImportStudents(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 0 {
		t.Fatalf("imported = %d, want 0 after a rejected batch", result.Imported)
	}
	if len(result.Errors) != 1 || result.Errors[0].Line != 3 {
		t.Fatalf("errors = %+v, want one error on line 3", result.Errors)
	}

	// The valid row must have rolled back with the batch.
	_, err = e.userRepo.GetByUsername(context.Background(), nil, "good")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("valid row survived a rejected batch: %v", err)
	}
}

func TestRosterImportFlagsInBatchDuplicates(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)

	input := rosterHeader +
		"dup,dup@uni.edu,password-one,REG-200,CS,semester_7,2023\n" +
		"dup,dup2@uni.edu,password-two,REG-201,CS,semester_7,2023\n"

	result, err := e.rosterService().ImportStudents(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Imported != 0 || len(result.Errors) != 1 {
		t.Fatalf("imported=%d errors=%+v, want a rejected duplicate", result.Imported, result.Errors)
	}
}

func TestRosterImportCommitteeOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.SeedStudent(t, ctx, e.tx, "alice")

	_, err := e.rosterService().ImportStudents(asUser(alice.User), strings.NewReader(rosterHeader))
	wantStatus(t, err, http.StatusForbidden)
}

func TestRosterImportRejectsBadHeader(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)

	_, err := e.rosterService().ImportStudents(ctx, strings.NewReader("name,password\n"))
	wantStatus(t, err, http.StatusBadRequest)
}

func TestRosterExportRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)

	input := rosterHeader +
		"ali,ali@uni.edu,password-one,REG-001,CS,semester_7,2023\n"
	if _, err := e.rosterService().ImportStudents(ctx, strings.NewReader(input)); err != nil {
		t.Fatalf("import: %v", err)
	}

	var buf bytes.Buffer
	if err := e.rosterService().ExportStudents(ctx, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if len(records) < 2 {
		t.Fatalf("export has %d rows, want header plus at least one student", len(records))
	}
	found := false
	for _, rec := range records[1:] {
		if rec[0] == "ali" {
			found = true
			if rec[2] != "REG-001" {
				t.Fatalf("exported registration_no = %q, want REG-001", rec[2])
			}
		}
	}
	if !found {
		t.Fatal("imported student missing from export")
	}
}

func TestRosterImportUpsertsByRegistrationNo(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)
	svc := e.rosterService()

	first := rosterHeader + "ali,ali@uni.edu,password-one,REG-001,CS,semester_7,2023\n"
	if _, err := svc.ImportStudents(ctx, strings.NewReader(first)); err != nil {
		t.Fatalf("first import: %v", err)
	}

	// Same registration_no again: the row updates in place, password blank
	// keeps the existing credential.
	second := rosterHeader + "ali,ali@uni.edu,,REG-001,SE,semester_8,2023\n"
	result, err := svc.ImportStudents(ctx, strings.NewReader(second))
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if result.Imported != 1 || len(result.Errors) != 0 {
		t.Fatalf("imported=%d errors=%v, want a clean in-place update", result.Imported, result.Errors)
	}

	student, err := e.studentRepo.GetByRegistrationNo(context.Background(), nil, "REG-001")
	if err != nil {
		t.Fatalf("load student: %v", err)
	}
	if student.Department != "SE" || student.Semester != "semester_8" {
		t.Fatalf("student not updated: department=%q semester=%q", student.Department, student.Semester)
	}
	if _, err := e.userRepo.GetByUsername(context.Background(), nil, "ali"); err != nil {
		t.Fatalf("account lost during update: %v", err)
	}
}

func TestRosterImportSupervisorsCreatesCategories(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)

	input := "username,email,password,supervisor_id,research_interest,academic_background,categories\n" +
		"drsmith,smith@uni.edu,password-one,SUP-01,distributed systems,PhD CMU,web;ml\n"
	result, err := e.rosterService().ImportSupervisors(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("import supervisors: %v", err)
	}
	if result.Imported != 1 || len(result.Errors) != 0 {
		t.Fatalf("imported=%d errors=%v, want 1 clean row", result.Imported, result.Errors)
	}

	sup, err := e.supRepo.GetBySupervisorID(context.Background(), nil, "SUP-01")
	if err != nil {
		t.Fatalf("load imported supervisor: %v", err)
	}
	if sup.User == nil || sup.User.Role != types.RoleSupervisor {
		t.Fatal("imported supervisor has no supervisor account")
	}
	if len(sup.Categories) != 2 {
		t.Fatalf("supervisor has %d categories, want 2", len(sup.Categories))
	}
}

func TestRosterImportCommitteeMembersAssignsPanel(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)

	input := "username,email,password,committee_id,panel\n" +
		"chair,chair@uni.edu,password-one,COM-01,panel-a\n"
	result, err := e.rosterService().ImportCommitteeMembers(ctx, strings.NewReader(input))
	if err != nil {
		t.Fatalf("import committee members: %v", err)
	}
	if result.Imported != 1 || len(result.Errors) != 0 {
		t.Fatalf("imported=%d errors=%v, want 1 clean row", result.Imported, result.Errors)
	}

	member, err := e.committeeRepo.GetByCommitteeID(context.Background(), nil, "COM-01")
	if err != nil {
		t.Fatalf("load imported member: %v", err)
	}
	if member.Panel == nil || member.Panel.Name != "panel-a" {
		t.Fatal("imported member not attached to its panel")
	}
}

func TestRosterImportCategoriesIsIdempotent(t *testing.T) {
	e := newEnv(t)
	ctx := committeeCtx(t, e)
	svc := e.rosterService()

	input := "name\nweb\nml\n"
	for run := 0; run < 2; run++ {
		result, err := svc.ImportCategories(ctx, strings.NewReader(input))
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if result.Imported != 2 || len(result.Errors) != 0 {
			t.Fatalf("run %d: imported=%d errors=%v", run, result.Imported, result.Errors)
		}
	}

	categories, err := e.categoryRepo.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("have %d categories after two runs, want 2", len(categories))
	}
}
