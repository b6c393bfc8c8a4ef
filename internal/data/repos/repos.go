package repos

import (
	"gorm.io/gorm"

	"github.com/fypms/backend/internal/data/repos/catalog"
	"github.com/fypms/backend/internal/data/repos/groups"
	"github.com/fypms/backend/internal/data/repos/identity"
	"github.com/fypms/backend/internal/data/repos/supervision"
	"github.com/fypms/backend/internal/pkg/logger"
)

type UserRepo = identity.UserRepo
type UserTokenRepo = identity.UserTokenRepo
type StudentRepo = identity.StudentRepo
type SupervisorRepo = identity.SupervisorRepo
type CommitteeMemberRepo = identity.CommitteeMemberRepo
type PanelRepo = identity.PanelRepo
type StudentFilter = identity.StudentFilter

type ProjectCategoryRepo = catalog.ProjectCategoryRepo
type ProjectRepo = catalog.ProjectRepo
type ProjectProposalRepo = catalog.ProjectProposalRepo
type DocumentTemplateRepo = catalog.DocumentTemplateRepo
type ProjectFilter = catalog.ProjectFilter
type TemplateFilter = catalog.TemplateFilter

type GroupRepo = groups.GroupRepo
type GroupCommentRepo = groups.GroupCommentRepo

type SupervisionRepo = supervision.SupervisionRepo
type EvaluationFormRepo = supervision.EvaluationFormRepo
type DocumentRepo = supervision.DocumentRepo
type SupervisionCommentRepo = supervision.SupervisionCommentRepo
type ChatMessageRepo = supervision.ChatMessageRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return identity.NewUserRepo(db, baseLog)
}
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return identity.NewUserTokenRepo(db, baseLog)
}
func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return identity.NewStudentRepo(db, baseLog)
}
func NewSupervisorRepo(db *gorm.DB, baseLog *logger.Logger) SupervisorRepo {
	return identity.NewSupervisorRepo(db, baseLog)
}
func NewCommitteeMemberRepo(db *gorm.DB, baseLog *logger.Logger) CommitteeMemberRepo {
	return identity.NewCommitteeMemberRepo(db, baseLog)
}
func NewPanelRepo(db *gorm.DB, baseLog *logger.Logger) PanelRepo {
	return identity.NewPanelRepo(db, baseLog)
}

func NewProjectCategoryRepo(db *gorm.DB, baseLog *logger.Logger) ProjectCategoryRepo {
	return catalog.NewProjectCategoryRepo(db, baseLog)
}
func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return catalog.NewProjectRepo(db, baseLog)
}
func NewProjectProposalRepo(db *gorm.DB, baseLog *logger.Logger) ProjectProposalRepo {
	return catalog.NewProjectProposalRepo(db, baseLog)
}
func NewDocumentTemplateRepo(db *gorm.DB, baseLog *logger.Logger) DocumentTemplateRepo {
	return catalog.NewDocumentTemplateRepo(db, baseLog)
}

func NewGroupRepo(db *gorm.DB, baseLog *logger.Logger) GroupRepo {
	return groups.NewGroupRepo(db, baseLog)
}
func NewGroupCommentRepo(db *gorm.DB, baseLog *logger.Logger) GroupCommentRepo {
	return groups.NewGroupCommentRepo(db, baseLog)
}

func NewSupervisionRepo(db *gorm.DB, baseLog *logger.Logger) SupervisionRepo {
	return supervision.NewSupervisionRepo(db, baseLog)
}
func NewEvaluationFormRepo(db *gorm.DB, baseLog *logger.Logger) EvaluationFormRepo {
	return supervision.NewEvaluationFormRepo(db, baseLog)
}
func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return supervision.NewDocumentRepo(db, baseLog)
}
func NewSupervisionCommentRepo(db *gorm.DB, baseLog *logger.Logger) SupervisionCommentRepo {
	return supervision.NewSupervisionCommentRepo(db, baseLog)
}
func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return supervision.NewChatMessageRepo(db, baseLog)
}
