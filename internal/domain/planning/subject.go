package planning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Subject is a course a user is studying, with the syllabus it was created from.
type Subject struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name                string         `gorm:"column:name;not null" json:"name"`
	University          string         `gorm:"column:university" json:"university,omitempty"`
	SyllabusText        string         `gorm:"column:syllabus_text;type:text" json:"syllabus_text,omitempty"`
	TotalEstimatedHours float64        `gorm:"column:total_estimated_hours;not null;default:0" json:"total_estimated_hours"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Subject) TableName() string { return "subject" }

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// LearningPlan stores the generated plan document for a subject; one row per subject.
type LearningPlan struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	SubjectID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_learning_plan_subject" json:"subject_id"`
	Subject   *Subject       `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubjectID;references:ID" json:"-"`
	PlanData  datatypes.JSON `gorm:"column:plan_data;type:jsonb;not null" json:"plan_data"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

func (LearningPlan) TableName() string { return "learning_plan" }

func (p *LearningPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// StudyProgress is a user's completion flag and notes for one topic of a subject.
// (user_id, subject_id, topic_id) is unique and writes upsert on it.
type StudyProgress struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_study_progress_key" json:"user_id"`
	SubjectID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_study_progress_key" json:"subject_id"`
	Subject     *Subject   `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubjectID;references:ID" json:"-"`
	TopicID     string     `gorm:"column:topic_id;not null;uniqueIndex:idx_study_progress_key" json:"topic_id"`
	Completed   bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Notes       string     `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (StudyProgress) TableName() string { return "study_progress" }

func (p *StudyProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
