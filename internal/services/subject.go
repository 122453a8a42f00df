package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studyplan-backend/internal/data/repos"
	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/platform/apierr"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type CreateSubjectInput struct {
	Name         string `json:"name"`
	University   string `json:"university"`
	SyllabusText string `json:"syllabus_text"`
}

type SubjectService interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateSubjectInput) (*types.Subject, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.Subject, error)
	Get(ctx context.Context, userID, subjectID uuid.UUID) (*types.Subject, error)
}

type subjectService struct {
	db       *gorm.DB
	log      *logger.Logger
	subjects repos.SubjectRepo
}

func NewSubjectService(db *gorm.DB, log *logger.Logger, subjects repos.SubjectRepo) SubjectService {
	return &subjectService{
		db:       db,
		log:      log.With("service", "SubjectService"),
		subjects: subjects,
	}
}

func (s *subjectService) Create(ctx context.Context, userID uuid.UUID, in CreateSubjectInput) (*types.Subject, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.BadRequest("missing_name", fmt.Errorf("subject name is required"))
	}

	row := &types.Subject{
		UserID:       userID,
		Name:         name,
		University:   strings.TrimSpace(in.University),
		SyllabusText: strings.TrimSpace(in.SyllabusText),
	}
	if err := s.subjects.Create(dbctx.Of(ctx), row); err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	s.log.Info("subject created", "subject_id", row.ID, "user_id", userID)
	return row, nil
}

func (s *subjectService) List(ctx context.Context, userID uuid.UUID) ([]*types.Subject, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	return s.subjects.ListByUser(dbctx.Of(ctx), userID)
}

func (s *subjectService) Get(ctx context.Context, userID, subjectID uuid.UUID) (*types.Subject, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	row, err := s.subjects.GetByID(dbctx.Of(ctx), userID, subjectID)
	if err != nil {
		return nil, fmt.Errorf("load subject: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("subject_not_found", fmt.Errorf("subject %s not found", subjectID))
	}
	return row, nil
}
