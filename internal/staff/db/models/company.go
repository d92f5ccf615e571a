// Package models contains the persistence models of the staff service,
// configured to work using GORM as the ORM.
package models

import (
	"time"
)

// Company is a row of the companies table.
type Company struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	EmpPrefix string `gorm:"size:4;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
