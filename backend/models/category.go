package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name      string `gorm:"not null" json:"name"`
	CreatedBy *uint  `gorm:"index" json:"created_by"`
	Creator   *User  `gorm:"foreignKey:CreatedBy" json:"-"`
}
