package repository

import (
	"context"
	"fmt"
	"strings"

	"gradebook_backend/internal/util"

	json "github.com/goccy/go-json"
)

// DocumentStore 按层级路径存取 JSON 文档。路径不存在时返回 found=false，不返回错误
type DocumentStore interface {
	Get(ctx context.Context, path string) ([]byte, bool, error)
	Set(ctx context.Context, path string, doc []byte) error
	Ping(ctx context.Context) error
}

func QuizzesPath(courseID string) string {
	return JoinPath("quizzes", courseID)
}

func VideosPath(courseID string) string {
	return JoinPath("videos", courseID)
}

func SlidesPath(courseID string) string {
	return JoinPath("slides", courseID)
}

func EnrollmentsPath() string {
	return "enrollments"
}

func UserPath(userID string) string {
	return JoinPath("users", userID)
}

func RegularResultPath(courseID, quizID, studentID string) string {
	return JoinPath("quiz_results", courseID, quizID, studentID)
}

func LiveResultPath(courseID, quizID string) string {
	return JoinPath("live_quiz_results", courseID, quizID)
}

func CustomResultPath(courseID, quizID, studentID string) string {
	return JoinPath("custom_quiz_results", courseID, quizID, studentID)
}

// JoinPath 去掉各段首尾的斜杠后拼接
func JoinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

func getJSON(ctx context.Context, store DocumentStore, path string, dest interface{}) (bool, error) {
	data, found, err := store.Get(ctx, path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("%w at %s: %v", util.ErrMalformedDocument, path, err)
	}
	return true, nil
}

// PutJSON 序列化后写入，供种子数据和测试使用
func PutJSON(ctx context.Context, store DocumentStore, path string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, path, data)
}
