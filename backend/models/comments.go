package models

import "gorm.io/gorm"

type Comment struct {
	gorm.Model
	ContentID  uint          `gorm:"index;not null" json:"content_id"`
	Content    CourseContent `json:"-"`
	UserID     uint          `gorm:"index;not null" json:"user_id"`
	User       User          `json:"-"`
	Comment    string        `gorm:"not null" json:"comment"`
	IsApproved bool          `gorm:"default:false" json:"is_approved"`
}
