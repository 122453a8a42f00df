package study

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studyplan-backend/internal/domain"
	"github.com/yungbote/studyplan-backend/internal/platform/dbctx"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
)

type SubjectRepo interface {
	Create(dbc dbctx.Context, row *types.Subject) error
	// GetByID returns nil without error when the subject does not exist or belongs to another user.
	GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.Subject, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Subject, error)
	UpdateTotalHours(dbc dbctx.Context, id uuid.UUID, hours float64) error
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{db: db, log: baseLog.With("repo", "SubjectRepo")}
}

func (r *subjectRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *subjectRepo) Create(dbc dbctx.Context, row *types.Subject) error {
	if row == nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).Create(row).Error
}

func (r *subjectRepo) GetByID(dbc dbctx.Context, userID, id uuid.UUID) (*types.Subject, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row types.Subject
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *subjectRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Subject, error) {
	out := []*types.Subject{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subjectRepo) UpdateTotalHours(dbc dbctx.Context, id uuid.UUID, hours float64) error {
	if id == uuid.Nil {
		return nil
	}
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Subject{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_estimated_hours": hours,
			"updated_at":            time.Now().UTC(),
		}).Error
}
