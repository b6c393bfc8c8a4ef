package domain

import (
	"time"

	"github.com/google/uuid"
)

// Deliverable document types.
const (
	DocScope       = "scope_document"
	DocSRS         = "srs_document"
	DocSDD         = "sdd_document"
	DocFinalReport = "final_report_document"
)

func ValidDocumentType(documentType string) bool {
	switch documentType {
	case DocScope, DocSRS, DocSDD, DocFinalReport:
		return true
	}
	return false
}

// Document is an uploaded deliverable moving through the same
// pending → accepted_by_student → accepted/rejected/canceled review states
// as a Supervision.
type Document struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	SupervisionID uuid.UUID    `gorm:"type:uuid;not null;index" json:"supervision_id"`
	Supervision   *Supervision `gorm:"constraint:OnDelete:CASCADE;foreignKey:SupervisionID;references:ID" json:"-"`
	UploadedByID  uuid.UUID    `gorm:"type:uuid;not null;index" json:"uploaded_by_id"`
	UploadedBy    *Student     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UploadedByID;references:ID" json:"uploaded_by,omitempty"`
	DocumentType  string       `gorm:"not null;index;column:document_type" json:"document_type"`
	Status        string       `gorm:"not null;default:'pending';index;column:status" json:"status"`
	Title         string       `gorm:"not null;column:title" json:"title"`
	StoredFile    string       `gorm:"not null;column:stored_file" json:"stored_file"`
	UploadedAt    time.Time    `gorm:"not null" json:"uploaded_at"`
}

func (Document) TableName() string { return "document" }

// Committee-published template types.
const (
	TemplateSRS         = "srs_template"
	TemplateSDD         = "sdd_template"
	TemplateFinalReport = "final_report_template"
)

func ValidTemplateType(templateType string) bool {
	switch templateType {
	case TemplateSRS, TemplateSDD, TemplateFinalReport:
		return true
	}
	return false
}

// DocumentTemplate is a semester-scoped boilerplate document published by a
// committee member for students to start from.
type DocumentTemplate struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UploadedByID *uuid.UUID       `gorm:"type:uuid;index" json:"uploaded_by_id,omitempty"`
	UploadedBy   *CommitteeMember `gorm:"constraint:OnDelete:SET NULL;foreignKey:UploadedByID;references:ID" json:"uploaded_by,omitempty"`
	TemplateType string           `gorm:"not null;index;column:template_type" json:"template_type"`
	Semester     string           `gorm:"not null;index;column:semester" json:"semester"`
	Title        string           `gorm:"not null;column:title" json:"title"`
	StoredFile   string           `gorm:"not null;column:stored_file" json:"stored_file"`
	UploadedAt   time.Time        `gorm:"not null" json:"uploaded_at"`
}

func (DocumentTemplate) TableName() string { return "document_template" }
