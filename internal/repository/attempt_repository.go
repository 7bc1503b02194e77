package repository

import (
	"context"

	"gradebook_backend/internal/model"
)

// AttemptRepository 读取三种来源的原始作答文档，只读
type AttemptRepository struct {
	Store DocumentStore
}

func NewAttemptRepository(store DocumentStore) *AttemptRepository {
	return &AttemptRepository{Store: store}
}

func (r *AttemptRepository) FindRegular(ctx context.Context, courseID, quizID, studentID string) (*model.RegularRecord, error) {
	var record model.RegularRecord
	found, err := getJSON(ctx, r.Store, RegularResultPath(courseID, quizID, studentID), &record)
	if err != nil || !found {
		return nil, err
	}
	return &record, nil
}

func (r *AttemptRepository) FindLive(ctx context.Context, courseID, quizID string) (model.LiveDocument, error) {
	var doc model.LiveDocument
	found, err := getJSON(ctx, r.Store, LiveResultPath(courseID, quizID), &doc)
	if err != nil || !found {
		return nil, err
	}
	return doc, nil
}

func (r *AttemptRepository) FindCustom(ctx context.Context, courseID, quizID, studentID string) (model.CustomDocument, error) {
	var doc model.CustomDocument
	found, err := getJSON(ctx, r.Store, CustomResultPath(courseID, quizID, studentID), &doc)
	if err != nil || !found {
		return nil, err
	}
	return doc, nil
}
