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

type DocumentService interface {
	Upload(ctx context.Context, supervisionID uuid.UUID, documentType, title, filename string, r io.Reader) (*types.Document, error)
	List(ctx context.Context, supervisionID uuid.UUID) ([]*types.Document, error)
	Transition(ctx context.Context, documentID uuid.UUID, status string) (*types.Document, error)
	Open(ctx context.Context, documentID uuid.UUID) (*types.Document, io.ReadCloser, error)
}

type documentService struct {
	db          *gorm.DB
	log         *logger.Logger
	docRepo     repos.DocumentRepo
	supvRepo    repos.SupervisionRepo
	studentRepo repos.StudentRepo
	supRepo     repos.SupervisorRepo
	store       storage.MediaStore
}

func NewDocumentService(
	db *gorm.DB,
	log *logger.Logger,
	docRepo repos.DocumentRepo,
	supvRepo repos.SupervisionRepo,
	studentRepo repos.StudentRepo,
	supRepo repos.SupervisorRepo,
	store storage.MediaStore,
) DocumentService {
	serviceLog := log.With("service", "DocumentService")
	return &documentService{
		db:          db,
		log:         serviceLog,
		docRepo:     docRepo,
		supvRepo:    supvRepo,
		studentRepo: studentRepo,
		supRepo:     supRepo,
		store:       store,
	}
}

func (ds *documentService) Upload(ctx context.Context, supervisionID uuid.UUID, documentType, title, filename string, r io.Reader) (*types.Document, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.Role != types.RoleStudent {
		return nil, apierr.Forbidden("only students upload deliverables")
	}
	if !types.ValidDocumentType(documentType) {
		return nil, apierr.Validation("invalid document type %q", documentType)
	}
	if strings.TrimSpace(title) == "" {
		return nil, apierr.Validation("title is required")
	}

	caller, err := ds.studentRepo.GetByUserID(ctx, nil, rd.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("student profile")
		}
		return nil, fmt.Errorf("failed to load student profile: %w", err)
	}
	s, err := ds.supvRepo.GetByID(ctx, nil, supervisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("supervision")
		}
		return nil, fmt.Errorf("failed to load supervision: %w", err)
	}
	if s.Group == nil || (s.Group.Student1ID != caller.ID && s.Group.Student2ID != caller.ID) {
		return nil, apierr.Forbidden("not a member of this supervision's group")
	}
	if s.Status != types.SupervisionAccepted {
		return nil, apierr.Conflict("supervision is %s, uploads require an accepted supervision", s.Status)
	}

	key, err := ds.store.Save(storage.BucketDocuments, filename, r)
	if err != nil {
		return nil, fmt.Errorf("failed to store document file: %w", err)
	}

	doc := &types.Document{
		ID:            uuid.New(),
		SupervisionID: s.ID,
		UploadedByID:  caller.ID,
		DocumentType:  documentType,
		Status:        types.SupervisionPending,
		Title:         strings.TrimSpace(title),
		StoredFile:    key,
		UploadedAt:    time.Now().UTC(),
	}
	if _, err := ds.docRepo.Create(ctx, nil, []*types.Document{doc}); err != nil {
		if rmErr := ds.store.Remove(key); rmErr != nil {
			ds.log.Warn("failed to remove orphaned document file", "key", key, "error", rmErr)
		}
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return doc, nil
}

// List scopes documents by role. Group members see every revision; the
// supervisor and committee only see documents the other student has
// confirmed or that are already accepted.
func (ds *documentService) List(ctx context.Context, supervisionID uuid.UUID) ([]*types.Document, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	s, err := ds.supvRepo.GetByID(ctx, nil, supervisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("supervision")
		}
		return nil, fmt.Errorf("failed to load supervision: %w", err)
	}

	var statuses []string
	switch rd.Role {
	case types.RoleStudent:
		caller, err := ds.studentRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load student profile: %w", err)
		}
		if s.Group == nil || (s.Group.Student1ID != caller.ID && s.Group.Student2ID != caller.ID) {
			return nil, apierr.Forbidden("not a member of this supervision's group")
		}
	case types.RoleSupervisor:
		caller, err := ds.supRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to load supervisor profile: %w", err)
		}
		if s.SupervisorID != caller.ID {
			return nil, apierr.Forbidden("supervision belongs to another supervisor")
		}
		statuses = []string{types.SupervisionAcceptedByStudent, types.SupervisionAccepted}
	case types.RoleCommitteeMember:
		statuses = []string{types.SupervisionAcceptedByStudent, types.SupervisionAccepted}
	default:
		return nil, apierr.Forbidden("unknown role")
	}

	docs, err := ds.docRepo.ListBySupervisionIDs(ctx, nil, []uuid.UUID{supervisionID}, statuses)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Transition drives the document review states. The uploader can never
// confirm their own upload; students can never mark a document accepted,
// that is the supervisor's call.
func (ds *documentService) Transition(ctx context.Context, documentID uuid.UUID, status string) (*types.Document, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}

	var doc *types.Document
	err := ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d, err := ds.docRepo.GetByID(ctx, tx, documentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierr.NotFound("document")
			}
			return fmt.Errorf("failed to load document: %w", err)
		}
		s, err := ds.supvRepo.GetByID(ctx, tx, d.SupervisionID)
		if err != nil {
			return fmt.Errorf("failed to load supervision: %w", err)
		}

		switch rd.Role {
		case types.RoleStudent:
			caller, err := ds.studentRepo.GetByUserID(ctx, tx, rd.UserID)
			if err != nil {
				return fmt.Errorf("failed to load student profile: %w", err)
			}
			if s.Group == nil || (s.Group.Student1ID != caller.ID && s.Group.Student2ID != caller.ID) {
				return apierr.Forbidden("not a member of this supervision's group")
			}
			switch status {
			case types.SupervisionAcceptedByStudent:
				if d.UploadedByID == caller.ID {
					return apierr.Forbidden("the uploader cannot confirm their own document")
				}
				if d.Status != types.SupervisionPending {
					return apierr.Conflict("document is %s, expected pending", d.Status)
				}
			case types.SupervisionCanceled:
				if d.Status == types.SupervisionAccepted || d.Status == types.SupervisionRejected {
					return apierr.Conflict("document is %s and can no longer be canceled", d.Status)
				}
			default:
				return apierr.Forbidden("students may only confirm or cancel a document")
			}
		case types.RoleSupervisor:
			caller, err := ds.supRepo.GetByUserID(ctx, tx, rd.UserID)
			if err != nil {
				return fmt.Errorf("failed to load supervisor profile: %w", err)
			}
			if s.SupervisorID != caller.ID {
				return apierr.Forbidden("supervision belongs to another supervisor")
			}
			switch status {
			case types.SupervisionAccepted:
				if d.Status != types.SupervisionAcceptedByStudent {
					return apierr.Conflict("document is %s, acceptance requires student confirmation first", d.Status)
				}
			case types.SupervisionRejected:
				if d.Status == types.SupervisionAccepted || d.Status == types.SupervisionCanceled {
					return apierr.Conflict("document is %s and can no longer be rejected", d.Status)
				}
			default:
				return apierr.Forbidden("supervisors may only accept or reject a document")
			}
		default:
			return apierr.Forbidden("committee members do not review document uploads")
		}

		if err := ds.docRepo.UpdateStatus(ctx, tx, d.ID, status); err != nil {
			return fmt.Errorf("failed to update document status: %w", err)
		}
		d.Status = status
		doc = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (ds *documentService) Open(ctx context.Context, documentID uuid.UUID) (*types.Document, io.ReadCloser, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, nil, apierr.Credential()
	}
	doc, err := ds.docRepo.GetByID(ctx, nil, documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apierr.NotFound("document")
		}
		return nil, nil, fmt.Errorf("failed to load document: %w", err)
	}
	visible, err := ds.List(ctx, doc.SupervisionID)
	if err != nil {
		return nil, nil, err
	}
	allowed := false
	for _, v := range visible {
		if v.ID == doc.ID {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, nil, apierr.Forbidden("document is not visible to this role yet")
	}
	f, err := ds.store.Open(doc.StoredFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document file: %w", err)
	}
	return doc, f, nil
}
