package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/fypms/backend/internal/data/repos"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/apierr"
	"github.com/fypms/backend/internal/pkg/logger"
)

// Required CSV headers per roster entity. Rows are matched on the natural
// key (registration_no, supervisor_id, committee_id, category name) and
// either update the existing record or create a new one.
var (
	studentColumns    = []string{"username", "email", "password", "registration_no", "department", "semester", "batch_no"}
	supervisorColumns = []string{"username", "email", "password", "supervisor_id", "research_interest", "academic_background", "categories"}
	committeeColumns  = []string{"username", "email", "password", "committee_id", "panel"}
	categoryColumns   = []string{"name"}
)

// RosterRowError reports a single rejected row by its 1-based line number.
type RosterRowError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type RosterImportResult struct {
	Imported int              `json:"imported"`
	Errors   []RosterRowError `json:"errors,omitempty"`
}

type RosterService interface {
	ImportStudents(ctx context.Context, r io.Reader) (*RosterImportResult, error)
	ImportSupervisors(ctx context.Context, r io.Reader) (*RosterImportResult, error)
	ImportCommitteeMembers(ctx context.Context, r io.Reader) (*RosterImportResult, error)
	ImportCategories(ctx context.Context, r io.Reader) (*RosterImportResult, error)
	ExportStudents(ctx context.Context, w io.Writer) error
	ExportSupervisors(ctx context.Context, w io.Writer) error
	ExportCommitteeMembers(ctx context.Context, w io.Writer) error
	ExportCategories(ctx context.Context, w io.Writer) error
}

type rosterService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	studentRepo   repos.StudentRepo
	supRepo       repos.SupervisorRepo
	committeeRepo repos.CommitteeMemberRepo
	panelRepo     repos.PanelRepo
	catRepo       repos.ProjectCategoryRepo
}

func NewRosterService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	studentRepo repos.StudentRepo,
	supRepo repos.SupervisorRepo,
	committeeRepo repos.CommitteeMemberRepo,
	panelRepo repos.PanelRepo,
	catRepo repos.ProjectCategoryRepo,
) RosterService {
	serviceLog := log.With("service", "RosterService")
	return &rosterService{
		db:            db,
		log:           serviceLog,
		userRepo:      userRepo,
		studentRepo:   studentRepo,
		supRepo:       supRepo,
		committeeRepo: committeeRepo,
		panelRepo:     panelRepo,
		catRepo:       catRepo,
	}
}

var errRosterRejected = errors.New("roster rejected")

type rosterRow struct {
	line   int
	record []string
}

// runImport applies every row of a CSV roster or none of them. All rows run
// inside one transaction; on any bad row the whole batch rolls back and the
// per-row errors come back to the caller for correction.
func (rs *rosterService) runImport(ctx context.Context, r io.Reader, columns []string, apply func(tx *gorm.DB, row rosterRow) error) (*RosterImportResult, error) {
	if _, err := requireCommittee(ctx); err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, apierr.Validation("failed to read roster header: %v", err)
	}
	if err := checkRosterHeader(header, columns); err != nil {
		return nil, err
	}

	var rows []rosterRow
	result := &RosterImportResult{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, RosterRowError{Line: line, Error: err.Error()})
			continue
		}
		rows = append(rows, rosterRow{line: line, record: record})
	}

	txErr := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := apply(tx, row); err != nil {
				result.Errors = append(result.Errors, RosterRowError{Line: row.line, Error: err.Error()})
				continue
			}
			result.Imported++
		}
		if len(result.Errors) > 0 {
			return errRosterRejected
		}
		return nil
	})
	if txErr != nil && !errors.Is(txErr, errRosterRejected) {
		return nil, txErr
	}
	if len(result.Errors) > 0 {
		result.Imported = 0
		rs.log.Warn("roster import rejected", "rows", len(rows), "errors", len(result.Errors))
	} else {
		rs.log.Info("roster imported", "rows", result.Imported)
	}
	return result, nil
}

// ensureAccount creates or updates the login account behind a roster row.
// On update the password column is optional and only resets the credential
// when present.
func (rs *rosterService) ensureAccount(ctx context.Context, tx *gorm.DB, existing *types.User, username, email, password, role string) (*types.User, error) {
	if username == "" {
		return nil, errors.New("username is required")
	}
	owner, err := rs.userRepo.GetByUsername(ctx, tx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	if existing == nil {
		if owner != nil {
			return nil, fmt.Errorf("username %q is already taken", username)
		}
		if len(password) < 8 {
			return nil, errors.New("password must be at least 8 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user := &types.User{
			ID:       uuid.New(),
			Username: username,
			Email:    email,
			Password: string(hashed),
			Role:     role,
		}
		if _, err := rs.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return user, nil
	}

	if owner != nil && owner.ID != existing.ID {
		return nil, fmt.Errorf("username %q is already taken", username)
	}
	fields := map[string]interface{}{"username": username, "email": email}
	if password != "" {
		if len(password) < 8 {
			return nil, errors.New("password must be at least 8 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password"] = string(hashed)
	}
	if err := rs.userRepo.UpdateFields(ctx, tx, existing.ID, fields); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	existing.Username = username
	existing.Email = email
	return existing, nil
}

func (rs *rosterService) ImportStudents(ctx context.Context, r io.Reader) (*RosterImportResult, error) {
	seenUsernames := map[string]int{}
	seenRegNos := map[string]int{}
	return rs.runImport(ctx, r, studentColumns, func(tx *gorm.DB, row rosterRow) error {
		username := strings.ToLower(strings.TrimSpace(row.record[0]))
		email := strings.ToLower(strings.TrimSpace(row.record[1]))
		password := row.record[2]
		regNo := strings.TrimSpace(row.record[3])
		department := strings.TrimSpace(row.record[4])
		semester := strings.TrimSpace(row.record[5])
		batchNo := strings.TrimSpace(row.record[6])

		if regNo == "" {
			return errors.New("registration_no is required")
		}
		if prev, ok := seenUsernames[username]; ok {
			return fmt.Errorf("duplicate username (also on line %d)", prev)
		}
		if prev, ok := seenRegNos[regNo]; ok {
			return fmt.Errorf("duplicate registration_no (also on line %d)", prev)
		}
		seenUsernames[username] = row.line
		seenRegNos[regNo] = row.line
		if semester != "" && !types.ValidSemester(semester) {
			return fmt.Errorf("invalid semester %q", semester)
		}

		existing, err := rs.studentRepo.GetByRegistrationNo(ctx, tx, regNo)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check registration_no: %w", err)
		}
		if existing == nil {
			user, err := rs.ensureAccount(ctx, tx, nil, username, email, password, types.RoleStudent)
			if err != nil {
				return err
			}
			student := &types.Student{
				ID:             uuid.New(),
				UserID:         user.ID,
				RegistrationNo: regNo,
				Department:     department,
				Semester:       semester,
				BatchNo:        batchNo,
			}
			if _, err := rs.studentRepo.Create(ctx, tx, []*types.Student{student}); err != nil {
				return fmt.Errorf("failed to create student profile: %w", err)
			}
			return nil
		}
		if _, err := rs.ensureAccount(ctx, tx, existing.User, username, email, password, types.RoleStudent); err != nil {
			return err
		}
		return rs.studentRepo.UpdateFields(ctx, tx, existing.ID, map[string]interface{}{
			"department": department,
			"semester":   semester,
			"batch_no":   batchNo,
		})
	})
}

func (rs *rosterService) ImportSupervisors(ctx context.Context, r io.Reader) (*RosterImportResult, error) {
	seenUsernames := map[string]int{}
	seenCodes := map[string]int{}
	return rs.runImport(ctx, r, supervisorColumns, func(tx *gorm.DB, row rosterRow) error {
		username := strings.ToLower(strings.TrimSpace(row.record[0]))
		email := strings.ToLower(strings.TrimSpace(row.record[1]))
		password := row.record[2]
		code := strings.TrimSpace(row.record[3])
		interest := strings.TrimSpace(row.record[4])
		background := strings.TrimSpace(row.record[5])
		categoryNames := splitRosterList(row.record[6])

		if code == "" {
			return errors.New("supervisor_id is required")
		}
		if prev, ok := seenUsernames[username]; ok {
			return fmt.Errorf("duplicate username (also on line %d)", prev)
		}
		if prev, ok := seenCodes[code]; ok {
			return fmt.Errorf("duplicate supervisor_id (also on line %d)", prev)
		}
		seenUsernames[username] = row.line
		seenCodes[code] = row.line

		categories, err := rs.ensureCategories(ctx, tx, categoryNames)
		if err != nil {
			return err
		}

		existing, err := rs.supRepo.GetBySupervisorID(ctx, tx, code)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check supervisor_id: %w", err)
		}
		if existing == nil {
			user, err := rs.ensureAccount(ctx, tx, nil, username, email, password, types.RoleSupervisor)
			if err != nil {
				return err
			}
			supervisor := &types.Supervisor{
				ID:                 uuid.New(),
				UserID:             user.ID,
				SupervisorID:       code,
				ResearchInterest:   interest,
				AcademicBackground: background,
			}
			if _, err := rs.supRepo.Create(ctx, tx, []*types.Supervisor{supervisor}); err != nil {
				return fmt.Errorf("failed to create supervisor profile: %w", err)
			}
			if len(categories) > 0 {
				if err := rs.supRepo.ReplaceCategories(ctx, tx, supervisor, categories); err != nil {
					return fmt.Errorf("failed to assign categories: %w", err)
				}
			}
			return nil
		}
		if _, err := rs.ensureAccount(ctx, tx, existing.User, username, email, password, types.RoleSupervisor); err != nil {
			return err
		}
		if err := rs.supRepo.UpdateFields(ctx, tx, existing.ID, map[string]interface{}{
			"research_interest":   interest,
			"academic_background": background,
		}); err != nil {
			return fmt.Errorf("failed to update supervisor profile: %w", err)
		}
		if len(categories) > 0 {
			if err := rs.supRepo.ReplaceCategories(ctx, tx, existing, categories); err != nil {
				return fmt.Errorf("failed to assign categories: %w", err)
			}
		}
		return nil
	})
}

func (rs *rosterService) ImportCommitteeMembers(ctx context.Context, r io.Reader) (*RosterImportResult, error) {
	seenUsernames := map[string]int{}
	seenCodes := map[string]int{}
	return rs.runImport(ctx, r, committeeColumns, func(tx *gorm.DB, row rosterRow) error {
		username := strings.ToLower(strings.TrimSpace(row.record[0]))
		email := strings.ToLower(strings.TrimSpace(row.record[1]))
		password := row.record[2]
		code := strings.TrimSpace(row.record[3])
		panelName := strings.TrimSpace(row.record[4])

		if code == "" {
			return errors.New("committee_id is required")
		}
		if panelName == "" {
			return errors.New("panel is required")
		}
		if prev, ok := seenUsernames[username]; ok {
			return fmt.Errorf("duplicate username (also on line %d)", prev)
		}
		if prev, ok := seenCodes[code]; ok {
			return fmt.Errorf("duplicate committee_id (also on line %d)", prev)
		}
		seenUsernames[username] = row.line
		seenCodes[code] = row.line

		panel, err := rs.panelRepo.GetByName(ctx, tx, panelName)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			panel = &types.Panel{ID: uuid.New(), Name: panelName}
			if _, err := rs.panelRepo.Create(ctx, tx, []*types.Panel{panel}); err != nil {
				return fmt.Errorf("failed to create panel: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to check panel: %w", err)
		}

		existing, err := rs.committeeRepo.GetByCommitteeID(ctx, tx, code)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check committee_id: %w", err)
		}
		if existing == nil {
			user, err := rs.ensureAccount(ctx, tx, nil, username, email, password, types.RoleCommitteeMember)
			if err != nil {
				return err
			}
			member := &types.CommitteeMember{
				ID:          uuid.New(),
				UserID:      user.ID,
				CommitteeID: code,
				PanelID:     panel.ID,
			}
			if _, err := rs.committeeRepo.Create(ctx, tx, []*types.CommitteeMember{member}); err != nil {
				return fmt.Errorf("failed to create committee member profile: %w", err)
			}
			return nil
		}
		if _, err := rs.ensureAccount(ctx, tx, existing.User, username, email, password, types.RoleCommitteeMember); err != nil {
			return err
		}
		return rs.committeeRepo.UpdateFields(ctx, tx, existing.ID, map[string]interface{}{
			"panel_id": panel.ID,
		})
	})
}

func (rs *rosterService) ImportCategories(ctx context.Context, r io.Reader) (*RosterImportResult, error) {
	seenNames := map[string]int{}
	return rs.runImport(ctx, r, categoryColumns, func(tx *gorm.DB, row rosterRow) error {
		name := strings.TrimSpace(row.record[0])
		if name == "" {
			return errors.New("name is required")
		}
		if prev, ok := seenNames[name]; ok {
			return fmt.Errorf("duplicate name (also on line %d)", prev)
		}
		seenNames[name] = row.line

		_, err := rs.catRepo.GetByName(ctx, tx, name)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check category: %w", err)
		}
		category := &types.ProjectCategory{ID: uuid.New(), Name: name}
		if _, err := rs.catRepo.Create(ctx, tx, []*types.ProjectCategory{category}); err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		return nil
	})
}

func (rs *rosterService) ensureCategories(ctx context.Context, tx *gorm.DB, names []string) ([]*types.ProjectCategory, error) {
	categories := make([]*types.ProjectCategory, 0, len(names))
	for _, name := range names {
		category, err := rs.catRepo.GetByName(ctx, tx, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			category = &types.ProjectCategory{ID: uuid.New(), Name: name}
			if _, err := rs.catRepo.Create(ctx, tx, []*types.ProjectCategory{category}); err != nil {
				return nil, fmt.Errorf("failed to create category %q: %w", name, err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("failed to check category %q: %w", name, err)
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func (rs *rosterService) ExportStudents(ctx context.Context, w io.Writer) error {
	if _, err := requireCommittee(ctx); err != nil {
		return err
	}
	students, err := rs.studentRepo.List(ctx, nil, repos.StudentFilter{})
	if err != nil {
		return fmt.Errorf("failed to list students: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"username", "email", "registration_no", "department", "semester", "batch_no"}); err != nil {
		return fmt.Errorf("failed to write roster header: %w", err)
	}
	for _, s := range students {
		var username, email string
		if s.User != nil {
			username = s.User.Username
			email = s.User.Email
		}
		row := []string{username, email, s.RegistrationNo, s.Department, s.Semester, s.BatchNo}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write roster row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (rs *rosterService) ExportSupervisors(ctx context.Context, w io.Writer) error {
	if _, err := requireCommittee(ctx); err != nil {
		return err
	}
	supervisors, err := rs.supRepo.List(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to list supervisors: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"username", "email", "supervisor_id", "research_interest", "academic_background", "categories"}); err != nil {
		return fmt.Errorf("failed to write roster header: %w", err)
	}
	for _, s := range supervisors {
		var username, email string
		if s.User != nil {
			username = s.User.Username
			email = s.User.Email
		}
		names := make([]string, 0, len(s.Categories))
		for _, c := range s.Categories {
			names = append(names, c.Name)
		}
		row := []string{username, email, s.SupervisorID, s.ResearchInterest, s.AcademicBackground, strings.Join(names, ";")}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write roster row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (rs *rosterService) ExportCommitteeMembers(ctx context.Context, w io.Writer) error {
	if _, err := requireCommittee(ctx); err != nil {
		return err
	}
	members, err := rs.committeeRepo.List(ctx, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to list committee members: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"username", "email", "committee_id", "panel"}); err != nil {
		return fmt.Errorf("failed to write roster header: %w", err)
	}
	for _, m := range members {
		var username, email, panelName string
		if m.User != nil {
			username = m.User.Username
			email = m.User.Email
		}
		if m.Panel != nil {
			panelName = m.Panel.Name
		}
		row := []string{username, email, m.CommitteeID, panelName}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write roster row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func (rs *rosterService) ExportCategories(ctx context.Context, w io.Writer) error {
	if _, err := requireCommittee(ctx); err != nil {
		return err
	}
	categories, err := rs.catRepo.List(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name"}); err != nil {
		return fmt.Errorf("failed to write roster header: %w", err)
	}
	for _, c := range categories {
		if err := writer.Write([]string{c.Name}); err != nil {
			return fmt.Errorf("failed to write roster row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// splitRosterList parses a semicolon-separated cell like "web;ml".
func splitRosterList(cell string) []string {
	var out []string
	for _, part := range strings.Split(cell, ";") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func checkRosterHeader(header, columns []string) error {
	if len(header) != len(columns) {
		return apierr.Validation("roster header must have %d columns, got %d", len(columns), len(header))
	}
	for i, want := range columns {
		if strings.ToLower(strings.TrimSpace(header[i])) != want {
			return apierr.Validation("roster column %d must be %q, got %q", i+1, want, header[i])
		}
	}
	return nil
}
