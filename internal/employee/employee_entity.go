package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Employee struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CompanyID            uuid.UUID      `gorm:"type:uuid;not null;index"`
	EmployeeNumber       string         `gorm:"size:32;not null"`
	FullName             string         `gorm:"size:255;not null"`
	Email                string         `gorm:"size:255;not null"`
	Phone                string         `gorm:"size:32"`
	PrimaryPositionID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	PrimaryDepartmentID  uuid.UUID      `gorm:"type:uuid;not null"`
	SupervisorPositionID *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedAt            time.Time      `gorm:"autoCreateTime"`
	UpdatedAt            time.Time      `gorm:"autoUpdateTime"`
	DeletedAt            gorm.DeletedAt `gorm:"index"`
}
