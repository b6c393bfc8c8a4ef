package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fypms/backend/internal/data/repos"
	types "github.com/fypms/backend/internal/domain"
	"github.com/fypms/backend/internal/pkg/apierr"
	"github.com/fypms/backend/internal/pkg/ctxutil"
	"github.com/fypms/backend/internal/pkg/logger"
)

type ChatService interface {
	Send(ctx context.Context, supervisionID uuid.UUID, message string) (*types.ChatMessage, error)
	List(ctx context.Context, supervisionID uuid.UUID, afterMessageID *uuid.UUID) ([]*types.ChatMessage, error)
}

type chatService struct {
	db          *gorm.DB
	log         *logger.Logger
	chatRepo    repos.ChatMessageRepo
	supvRepo    repos.SupervisionRepo
	studentRepo repos.StudentRepo
	supRepo     repos.SupervisorRepo
}

func NewChatService(
	db *gorm.DB,
	log *logger.Logger,
	chatRepo repos.ChatMessageRepo,
	supvRepo repos.SupervisionRepo,
	studentRepo repos.StudentRepo,
	supRepo repos.SupervisorRepo,
) ChatService {
	serviceLog := log.With("service", "ChatService")
	return &chatService{
		db:          db,
		log:         serviceLog,
		chatRepo:    chatRepo,
		supvRepo:    supvRepo,
		studentRepo: studentRepo,
		supRepo:     supRepo,
	}
}

// participant verifies the caller belongs to the accepted supervision and
// returns the sender fields for a new message.
func (cs *chatService) participant(ctx context.Context, rd *ctxutil.RequestData, s *types.Supervision) (*uuid.UUID, *uuid.UUID, string, error) {
	switch rd.Role {
	case types.RoleStudent:
		caller, err := cs.studentRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to load student profile: %w", err)
		}
		if s.Group == nil || (s.Group.Student1ID != caller.ID && s.Group.Student2ID != caller.ID) {
			return nil, nil, "", apierr.Forbidden("not a member of this supervision's group")
		}
		return &caller.ID, nil, types.AuthorStudent, nil
	case types.RoleSupervisor:
		caller, err := cs.supRepo.GetByUserID(ctx, nil, rd.UserID)
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to load supervisor profile: %w", err)
		}
		if s.SupervisorID != caller.ID {
			return nil, nil, "", apierr.Forbidden("supervision belongs to another supervisor")
		}
		return nil, &caller.ID, types.AuthorSupervisor, nil
	}
	return nil, nil, "", apierr.Forbidden("only the group and its supervisor use this chat")
}

func (cs *chatService) Send(ctx context.Context, supervisionID uuid.UUID, message string) (*types.ChatMessage, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	if strings.TrimSpace(message) == "" {
		return nil, apierr.Validation("message is required")
	}
	s, err := cs.supvRepo.GetByID(ctx, nil, supervisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("supervision")
		}
		return nil, fmt.Errorf("failed to load supervision: %w", err)
	}
	if s.Status != types.SupervisionAccepted {
		return nil, apierr.Conflict("supervision is %s, chat requires an accepted supervision", s.Status)
	}
	studentID, supervisorID, sentBy, err := cs.participant(ctx, rd, s)
	if err != nil {
		return nil, err
	}

	msg := &types.ChatMessage{
		ID:            uuid.New(),
		SupervisionID: s.ID,
		StudentID:     studentID,
		SupervisorID:  supervisorID,
		Message:       strings.TrimSpace(message),
		SentBy:        sentBy,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := cs.chatRepo.Create(ctx, nil, []*types.ChatMessage{msg}); err != nil {
		return nil, fmt.Errorf("failed to create chat message: %w", err)
	}
	return msg, nil
}

// List returns messages in order; with afterMessageID set only those sent
// after the given message, which is how clients poll for updates.
func (cs *chatService) List(ctx context.Context, supervisionID uuid.UUID, afterMessageID *uuid.UUID) ([]*types.ChatMessage, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil {
		return nil, apierr.Credential()
	}
	s, err := cs.supvRepo.GetByID(ctx, nil, supervisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("supervision")
		}
		return nil, fmt.Errorf("failed to load supervision: %w", err)
	}
	if _, _, _, err := cs.participant(ctx, rd, s); err != nil {
		return nil, err
	}

	var after time.Time
	if afterMessageID != nil {
		last, err := cs.chatRepo.GetByID(ctx, nil, *afterMessageID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.NotFound("message")
			}
			return nil, fmt.Errorf("failed to load cursor message: %w", err)
		}
		if last.SupervisionID != supervisionID {
			return nil, apierr.Validation("cursor message belongs to another supervision")
		}
		after = last.CreatedAt
	}

	messages, err := cs.chatRepo.ListBySupervisionID(ctx, nil, supervisionID, after)
	if err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}
