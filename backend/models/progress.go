package models

import (
	"time"

	"gorm.io/gorm"
)

// ContentCompletion marks that a user has finished a course content item.
type ContentCompletion struct {
	gorm.Model
	UserID      uint          `gorm:"uniqueIndex:idx_user_content;not null" json:"user_id"`
	User        User          `json:"-"`
	ContentID   uint          `gorm:"uniqueIndex:idx_user_content;not null" json:"content_id"`
	Content     CourseContent `json:"-"`
	CompletedAt time.Time     `json:"completed_at"`
}

func (cc *ContentCompletion) BeforeCreate(tx *gorm.DB) error {
	if cc.CompletedAt.IsZero() {
		cc.CompletedAt = time.Now()
	}
	cc.CompletedAt = cc.CompletedAt.UTC()
	return nil
}

// All lists every model for auto-migration.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&CourseMember{},
		&CourseContent{},
		&Comment{},
		&Announcement{},
		&Category{},
		&ContentCompletion{},
	}
}
