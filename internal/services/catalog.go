package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fypms/backend/internal/data/repos"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/apierr"
	"github.com/fypms/backend/internal/pkg/ctxutil"
	"github.com/fypms/backend/internal/pkg/logger"
	"github.com/fypms/backend/internal/storage"
)

type CreateProjectInput struct {
	CategoryID      uuid.UUID `json:"category_id"`
	PanelID         uuid.UUID `json:"panel_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Language        string    `json:"language"`
	Functionalities string    `json:"functionalities"`
}

type CreateProposalInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ProposalLink string `json:"proposal_link"`
}

// PanelDetail pairs a panel with its committee members.
type PanelDetail struct {
	Panel   *types.Panel             `json:"panel"`
	Members []*types.CommitteeMember `json:"members"`
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]*types.ProjectCategory, error)
	GetCategory(ctx context.Context, categoryID uuid.UUID) (*types.ProjectCategory, error)
	CreateCategory(ctx context.Context, name string) (*types.ProjectCategory, error)
	ListPanels(ctx context.Context) ([]*types.Panel, error)
	GetPanel(ctx context.Context, panelID uuid.UUID) (*PanelDetail, error)
	CreatePanel(ctx context.Context, name string) (*types.Panel, error)
	ListProjects(ctx context.Context, filter repos.ProjectFilter) ([]*types.Project, error)
	GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, error)
	CreateProject(ctx context.Context, input CreateProjectInput) (*types.Project, error)
	GetStudent(ctx context.Context, studentID uuid.UUID) (*types.Student, error)
	ListCommitteeMembers(ctx context.Context, panelID *uuid.UUID) ([]*types.CommitteeMember, error)
	GetCommitteeMember(ctx context.Context, memberID uuid.UUID) (*types.CommitteeMember, error)
	CreateProposal(ctx context.Context, input CreateProposalInput, filename string, file io.Reader) (*types.ProjectProposal, error)
	ListProposals(ctx context.Context) ([]*types.ProjectProposal, error)
	UploadTemplate(ctx context.Context, templateType, semester, title, filename string, file io.Reader) (*types.DocumentTemplate, error)
	ListTemplates(ctx context.Context, filter repos.TemplateFilter) ([]*types.DocumentTemplate, error)
}

type catalogService struct {
	db            *gorm.DB
	log           *logger.Logger
	catRepo       repos.ProjectCategoryRepo
	panelRepo     repos.PanelRepo
	projectRepo   repos.ProjectRepo
	proposalRepo  repos.ProjectProposalRepo
	templateRepo  repos.DocumentTemplateRepo
	studentRepo   repos.StudentRepo
	committeeRepo repos.CommitteeMemberRepo
	store         storage.MediaStore
}

func NewCatalogService(
	db *gorm.DB,
	log *logger.Logger,
	catRepo repos.ProjectCategoryRepo,
	panelRepo repos.PanelRepo,
	projectRepo repos.ProjectRepo,
	proposalRepo repos.ProjectProposalRepo,
	templateRepo repos.DocumentTemplateRepo,
	studentRepo repos.StudentRepo,
	committeeRepo repos.CommitteeMemberRepo,
	store storage.MediaStore,
) CatalogService {
	serviceLog := log.With("service", "CatalogService")
	return &catalogService{
		db:            db,
		log:           serviceLog,
		catRepo:       catRepo,
		panelRepo:     panelRepo,
		projectRepo:   projectRepo,
		proposalRepo:  proposalRepo,
		templateRepo:  templateRepo,
		studentRepo:   studentRepo,
		committeeRepo: committeeRepo,
		store:         store,
	}
}

func requireCommittee(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	if rd.Role != types.RoleCommitteeMember {
		return nil, apierr.Forbidden("only committee members manage the catalog")
	}
	return rd, nil
}

func (cs *catalogService) ListCategories(ctx context.Context) ([]*types.ProjectCategory, error) {
	categories, err := cs.catRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (cs *catalogService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*types.ProjectCategory, error) {
	category, err := cs.catRepo.GetWithSupervisors(ctx, nil, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("project category")
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	return category, nil
}

func (cs *catalogService) CreateCategory(ctx context.Context, name string) (*types.ProjectCategory, error) {
	if _, err := requireCommittee(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Validation("category name is required")
	}
	if existing, err := cs.catRepo.GetByName(ctx, nil, name); err == nil && existing != nil {
		return nil, apierr.Conflict("category %q already exists", name)
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check category: %w", err)
	}
	category := &types.ProjectCategory{ID: uuid.New(), Name: name}
	if _, err := cs.catRepo.Create(ctx, nil, []*types.ProjectCategory{category}); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (cs *catalogService) ListPanels(ctx context.Context) ([]*types.Panel, error) {
	panels, err := cs.panelRepo.List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list panels: %w", err)
	}
	return panels, nil
}

func (cs *catalogService) GetPanel(ctx context.Context, panelID uuid.UUID) (*PanelDetail, error) {
	panel, err := cs.panelRepo.GetByID(ctx, nil, panelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("panel")
		}
		return nil, fmt.Errorf("failed to load panel: %w", err)
	}
	members, err := cs.committeeRepo.List(ctx, nil, &panel.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list panel members: %w", err)
	}
	return &PanelDetail{Panel: panel, Members: members}, nil
}

func (cs *catalogService) CreatePanel(ctx context.Context, name string) (*types.Panel, error) {
	if _, err := requireCommittee(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Validation("panel name is required")
	}
	panel := &types.Panel{ID: uuid.New(), Name: name}
	if _, err := cs.panelRepo.Create(ctx, nil, []*types.Panel{panel}); err != nil {
		return nil, fmt.Errorf("failed to create panel: %w", err)
	}
	return panel, nil
}

func (cs *catalogService) ListProjects(ctx context.Context, filter repos.ProjectFilter) ([]*types.Project, error) {
	projects, err := cs.projectRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (cs *catalogService) GetProject(ctx context.Context, projectID uuid.UUID) (*types.Project, error) {
	project, err := cs.projectRepo.GetByID(ctx, nil, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("project")
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return project, nil
}

func (cs *catalogService) GetStudent(ctx context.Context, studentID uuid.UUID) (*types.Student, error) {
	student, err := cs.studentRepo.GetByID(ctx, nil, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("student")
		}
		return nil, fmt.Errorf("failed to load student: %w", err)
	}
	return student, nil
}

func (cs *catalogService) ListCommitteeMembers(ctx context.Context, panelID *uuid.UUID) ([]*types.CommitteeMember, error) {
	members, err := cs.committeeRepo.List(ctx, nil, panelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list committee members: %w", err)
	}
	return members, nil
}

func (cs *catalogService) GetCommitteeMember(ctx context.Context, memberID uuid.UUID) (*types.CommitteeMember, error) {
	member, err := cs.committeeRepo.GetByID(ctx, nil, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("committee member")
		}
		return nil, fmt.Errorf("failed to load committee member: %w", err)
	}
	return member, nil
}

func (cs *catalogService) CreateProject(ctx context.Context, input CreateProjectInput) (*types.Project, error) {
	if _, err := requireCommittee(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apierr.Validation("project name is required")
	}
	if _, err := cs.catRepo.GetByID(ctx, nil, input.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("project category")
		}
		return nil, fmt.Errorf("failed to load category: %w", err)
	}
	if _, err := cs.panelRepo.GetByID(ctx, nil, input.PanelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("panel")
		}
		return nil, fmt.Errorf("failed to load panel: %w", err)
	}
	project := &types.Project{
		ID:              uuid.New(),
		CategoryID:      input.CategoryID,
		PanelID:         input.PanelID,
		Name:            strings.TrimSpace(input.Name),
		Description:     strings.TrimSpace(input.Description),
		Language:        strings.TrimSpace(input.Language),
		Functionalities: strings.TrimSpace(input.Functionalities),
	}
	if _, err := cs.projectRepo.Create(ctx, nil, []*types.Project{project}); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// CreateProposal records a student-pitched idea, optionally with an attached
// file. Either a link or a file is enough.
func (cs *catalogService) CreateProposal(ctx context.Context, input CreateProposalInput, filename string, file io.Reader) (*types.ProjectProposal, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.Role != types.RoleStudent {
		return nil, apierr.Forbidden("only students submit proposals")
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apierr.Validation("title is required")
	}
	caller, err := cs.studentRepo.GetByUserID(ctx, nil, rd.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("student profile")
		}
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}

	var key string
	if file != nil {
		key, err = cs.store.Save(storage.BucketProposals, filename, file)
		if err != nil {
			return nil, fmt.Errorf("failed to store proposal file: %w", err)
		}
	}

	proposal := &types.ProjectProposal{
		ID:           uuid.New(),
		StudentID:    caller.ID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		ProposalLink: strings.TrimSpace(input.ProposalLink),
		ProposalFile: key,
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := cs.proposalRepo.Create(ctx, nil, []*types.ProjectProposal{proposal}); err != nil {
		if key != "" {
			if rmErr := cs.store.Remove(key); rmErr != nil {
				cs.log.Warn("failed to remove orphaned proposal file", "key", key, "error", rmErr)
			}
		}
		return nil, fmt.Errorf("failed to create proposal: %w", err)
	}
	return proposal, nil
}

func (cs *catalogService) ListProposals(ctx context.Context) ([]*types.ProjectProposal, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	if rd.Role == types.RoleStudent {
		caller, err := cs.studentRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load student profile: %w", err)
		}
		return cs.proposalRepo.ListByStudentIDs(ctx, nil, []uuid.UUID{caller.ID})
	}
	return cs.proposalRepo.List(ctx, nil)
}

func (cs *catalogService) UploadTemplate(ctx context.Context, templateType, semester, title, filename string, file io.Reader) (*types.DocumentTemplate, error) {
	rd, err := requireCommittee(ctx)
	if err != nil {
		return nil, err
	}
	if !types.ValidTemplateType(templateType) {
		return nil, apierr.Validation("invalid template type %q", templateType)
	}
	if !types.ValidSemester(semester) {
		return nil, apierr.Validation("invalid semester %q", semester)
	}
	if strings.TrimSpace(title) == "" {
		return nil, apierr.Validation("title is required")
	}
	member, err := cs.committeeRepo.GetByUserID(ctx, nil, rd.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("committee member profile")
		}
		return nil, fmt.Errorf("failed to load committee member profile: %w", err)
	}

	key, err := cs.store.Save(storage.BucketTemplates, filename, file)
	if err != nil {
		return nil, fmt.Errorf("failed to store template file: %w", err)
	}

	template := &types.DocumentTemplate{
		ID:           uuid.New(),
		UploadedByID: &member.ID,
		TemplateType: templateType,
		Semester:     semester,
		Title:        strings.TrimSpace(title),
		StoredFile:   key,
		UploadedAt:   time.Now().UTC(),
	}
	if _, err := cs.templateRepo.Create(ctx, nil, []*types.DocumentTemplate{template}); err != nil {
		if rmErr := cs.store.Remove(key); rmErr != nil {
			cs.log.Warn("failed to remove orphaned template file", "key", key, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return template, nil
}

func (cs *catalogService) ListTemplates(ctx context.Context, filter repos.TemplateFilter) ([]*types.DocumentTemplate, error) {
	templates, err := cs.templateRepo.List(ctx, nil, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return templates, nil
}
