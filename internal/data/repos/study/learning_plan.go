package study

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type LearningPlanRepo interface {
	// Upsert stores the plan for row.SubjectID, replacing any previous plan.
	Upsert(dbc dbctx.Context, row *types.LearningPlan) error
	GetBySubject(dbc dbctx.Context, userID, subjectID uuid.UUID) (*types.LearningPlan, error)
}

type learningPlanRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLearningPlanRepo(db *gorm.DB, baseLog *logger.Logger) LearningPlanRepo {
	return &learningPlanRepo{db: db, log: baseLog.With("repo", "LearningPlanRepo")}
}

func (r *learningPlanRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *learningPlanRepo) Upsert(dbc dbctx.Context, row *types.LearningPlan) error {
	if row == nil || row.SubjectID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}

	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"plan_data", "updated_at"}),
		}).
		Create(row).Error
}

func (r *learningPlanRepo) GetBySubject(dbc dbctx.Context, userID, subjectID uuid.UUID) (*types.LearningPlan, error) {
	if userID == uuid.Nil || subjectID == uuid.Nil {
		return nil, nil
	}
	var row types.LearningPlan
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("subject_id = ? AND user_id = ?", subjectID, userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
