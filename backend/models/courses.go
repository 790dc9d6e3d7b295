package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	Name        string          `gorm:"not null" json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"price"`
	TeacherID   uint            `gorm:"index;not null" json:"teacher_id"`
	Teacher     User            `json:"-"`
	MaxStudents *int            `json:"max_students"` // nil means unlimited
	Contents    []CourseContent `json:"-"`
	Members     []CourseMember  `json:"-"`
}

const (
	RoleStudent   = "std"
	RoleAssistant = "ast"
)

// CourseMember is the enrollment record of a user in a course.
type CourseMember struct {
	gorm.Model
	CourseID uint   `gorm:"uniqueIndex:idx_course_member;not null" json:"course_id"`
	UserID   uint   `gorm:"uniqueIndex:idx_course_member;not null" json:"user_id"`
	Role     string `gorm:"size:3;default:std" json:"role"`
	Course   Course `json:"-"`
	User     User   `json:"-"`
}

type CourseContent struct {
	gorm.Model
	CourseID           uint       `gorm:"index;not null" json:"course_id"`
	Course             Course     `json:"-"`
	Name               string     `gorm:"not null" json:"name"`
	Description        string     `json:"description"`
	VideoURL           string     `json:"video_url"`
	FileAttachment     string     `json:"file_attachment"`
	ScheduledStartTime *time.Time `gorm:"index" json:"scheduled_start_time"`
	ScheduledEndTime   *time.Time `json:"scheduled_end_time"`
}

func (cc *CourseContent) BeforeSave(tx *gorm.DB) error {
	cc.ScheduledStartTime = utcPtr(cc.ScheduledStartTime)
	cc.ScheduledEndTime = utcPtr(cc.ScheduledEndTime)
	return nil
}

// IsAvailable reports whether the content's schedule window contains now.
func (cc CourseContent) IsAvailable(now time.Time) bool {
	return IsAvailable(cc.ScheduledStartTime, cc.ScheduledEndTime, now)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
