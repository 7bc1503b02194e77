package repository

import (
	"context"

	"gradebook_backend/internal/model"
)

type QuizRepository struct {
	Store DocumentStore
}

func NewQuizRepository(store DocumentStore) *QuizRepository {
	return &QuizRepository{Store: store}
}

// FindByCourse 返回按ID排序的测验列表，课程没有测验时返回空切片
func (r *QuizRepository) FindByCourse(ctx context.Context, courseID string) ([]model.Quiz, error) {
	var catalog model.QuizCatalog
	found, err := getJSON(ctx, r.Store, QuizzesPath(courseID), &catalog)
	if err != nil {
		return nil, err
	}
	if !found {
		return []model.Quiz{}, nil
	}
	return catalog.Sorted(courseID), nil
}

func (r *QuizRepository) FindVideoTitles(ctx context.Context, courseID string) (model.ContentIndex, error) {
	return r.findTitles(ctx, VideosPath(courseID))
}

func (r *QuizRepository) FindSlideTitles(ctx context.Context, courseID string) (model.ContentIndex, error) {
	return r.findTitles(ctx, SlidesPath(courseID))
}

func (r *QuizRepository) findTitles(ctx context.Context, path string) (model.ContentIndex, error) {
	index := model.ContentIndex{}
	if _, err := getJSON(ctx, r.Store, path, &index); err != nil {
		return model.ContentIndex{}, err
	}
	return index, nil
}
