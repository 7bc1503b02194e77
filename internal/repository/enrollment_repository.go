package repository

import (
	"context"

	"gradebook_backend/internal/model"
)

type EnrollmentRepository struct {
	Store DocumentStore
}

func NewEnrollmentRepository(store DocumentStore) *EnrollmentRepository {
	return &EnrollmentRepository{Store: store}
}

// FindStudentIDsByCourse 读取全局选课索引后按课程过滤
func (r *EnrollmentRepository) FindStudentIDsByCourse(ctx context.Context, courseID string) ([]string, error) {
	var index model.EnrollmentIndex
	if _, err := getJSON(ctx, r.Store, EnrollmentsPath(), &index); err != nil {
		return nil, err
	}
	return index.StudentsInCourse(courseID), nil
}
