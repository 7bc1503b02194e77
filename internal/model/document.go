package model

import (
	"time"

	"gorm.io/datatypes"
)

// Document MySQL 驱动下按路径保存的 JSON 文档
type Document struct {
	Path      string         `gorm:"primaryKey;type:varchar(512)" json:"path"`
	Body      datatypes.JSON `gorm:"type:json;not null" json:"body"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (Document) TableName() string {
	return "documents"
}
