package models

import (
	"time"

	"gorm.io/gorm"
)

type Announcement struct {
	gorm.Model
	CourseID  uint      `gorm:"index;not null" json:"course_id"`
	Course    Course    `json:"-"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"not null" json:"content"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedBy uint      `gorm:"index;not null" json:"created_by"`
}

func (a *Announcement) BeforeSave(tx *gorm.DB) error {
	a.StartDate = a.StartDate.UTC()
	a.EndDate = a.EndDate.UTC()
	return nil
}

func (a Announcement) IsActive(now time.Time) bool {
	return IsActive(a.StartDate, a.EndDate, now)
}
