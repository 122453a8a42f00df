package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type StudyProgressRepo interface {
	// UpsertCompletion writes completed and completed_at, keeping existing notes.
	UpsertCompletion(dbc dbctx.Context, row *types.StudyProgress) error
	// UpsertNotes writes notes, keeping the existing completion state.
	UpsertNotes(dbc dbctx.Context, row *types.StudyProgress) error
	ListBySubject(dbc dbctx.Context, userID, subjectID uuid.UUID) ([]*types.StudyProgress, error)
}

type studyProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudyProgressRepo(db *gorm.DB, baseLog *logger.Logger) StudyProgressRepo {
	return &studyProgressRepo{db: db, log: baseLog.With("repo", "StudyProgressRepo")}
}

func (r *studyProgressRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *studyProgressRepo) UpsertCompletion(dbc dbctx.Context, row *types.StudyProgress) error {
	return r.upsert(dbc, row, "completed", "completed_at")
}

func (r *studyProgressRepo) UpsertNotes(dbc dbctx.Context, row *types.StudyProgress) error {
	return r.upsert(dbc, row, "notes")
}

func (r *studyProgressRepo) upsert(dbc dbctx.Context, row *types.StudyProgress, columns ...string) error {
	if row == nil || row.UserID == uuid.Nil || row.SubjectID == uuid.Nil || row.TopicID == "" {
		return nil
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}

	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "subject_id"},
				{Name: "topic_id"},
			},
			DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
		}).
		Create(row).Error
}

func (r *studyProgressRepo) ListBySubject(dbc dbctx.Context, userID, subjectID uuid.UUID) ([]*types.StudyProgress, error) {
	out := []*types.StudyProgress{}
	if userID == uuid.Nil || subjectID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND subject_id = ?", userID, subjectID).
		Order("topic_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
