package repository

import (
	"context"
	"errors"

	"gradebook_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SQLDocumentStore 文档保存在 documents 表，path 为主键
type SQLDocumentStore struct {
	DB *gorm.DB
}

func NewSQLDocumentStore(db *gorm.DB) *SQLDocumentStore {
	return &SQLDocumentStore{DB: db}
}

func (s *SQLDocumentStore) Get(ctx context.Context, path string) ([]byte, bool, error) {
	var doc model.Document
	err := s.DB.WithContext(ctx).Where("path = ?", JoinPath(path)).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(doc.Body), true, nil
}

func (s *SQLDocumentStore) Set(ctx context.Context, path string, body []byte) error {
	doc := model.Document{
		Path: JoinPath(path),
		Body: datatypes.JSON(body),
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc).Error
}

func (s *SQLDocumentStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
