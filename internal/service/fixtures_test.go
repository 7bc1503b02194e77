package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gradebook_backend/internal/model"
	"gradebook_backend/internal/repository"

	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store down")

// failingStore 对指定前缀的路径返回读取错误
type failingStore struct {
	repository.DocumentStore
	prefixes []string
}

func (s *failingStore) Get(ctx context.Context, path string) ([]byte, bool, error) {
	for _, prefix := range s.prefixes {
		if strings.HasPrefix(path, prefix) {
			return nil, false, errStoreDown
		}
	}
	return s.DocumentStore.Get(ctx, path)
}

// seedCourse 课程 c1：两个视频测验（q2 为诊断测验）和一个幻灯片测验；
// ana 与 ben 选了 c1，zed 只选了 c2
func seedCourse(t *testing.T) *repository.MemoryDocumentStore {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryDocumentStore()

	put := func(path string, value interface{}) {
		require.NoError(t, repository.PutJSON(ctx, store, path, value))
	}

	q1 := newQuiz("q1", 4, 1, percentage(70))
	q1.VideoID = "v1"
	q2 := newQuiz("q2", 2, 0, nil)
	q2.VideoID = "abcdefghijk"
	q2.IsDiagnostic = true
	slide := newQuiz("slide_s1", 2, 0, nil)
	slide.VideoID = ""

	put(repository.QuizzesPath("c1"), model.QuizCatalog{"q1": q1, "q2": q2, "slide_s1": slide})
	put(repository.VideosPath("c1"), model.ContentIndex{"v1": {Title: "Intro video"}})
	put(repository.SlidesPath("c1"), model.ContentIndex{"s1": {Title: "Deck one"}})

	// zed 的选课记录字段类型不同，不能影响 c1 的汇总
	put(repository.EnrollmentsPath(), map[string]interface{}{
		"ana": map[string]interface{}{"c1": map[string]interface{}{"enrolledAt": 1}},
		"ben": map[string]interface{}{"c1": map[string]interface{}{"enrolledAt": 2}},
		"zed": map[string]interface{}{"c2": map[string]interface{}{"enrolledAt": "2024-01-01T00:00:00Z"}},
	})
	put(repository.UserPath("ana"), model.UserProfile{DisplayName: "Ana", Email: "ana@school.edu"})
	put(repository.UserPath("ben"), model.UserProfile{Email: "ben@school.edu"})

	put(repository.RegularResultPath("c1", "q1", "ana"), map[string]interface{}{
		"correctAnswers": 3,
		"totalQuestions": 4,
		"score":          75,
		"submittedAt":    "2024-03-09T14:05:07.000Z",
	})
	put(repository.RegularResultPath("c1", "q2", "ana"), model.RegularRecord{CorrectAnswers: 2, TotalQuestions: 2})
	put(repository.CustomResultPath("c1", "slide_s1", "ana"), map[string]interface{}{"a1": map[string]string{"answer": "x"}})
	put(repository.LiveResultPath("c1", "q1"), map[string]interface{}{
		"ben": map[string]int{"correctAnswers": 4, "wrongAnswers": 0},
	})

	return store
}

func newTestAggregation(store repository.DocumentStore) *GradeAggregationService {
	return NewGradeAggregationService(
		repository.NewQuizRepository(store),
		repository.NewEnrollmentRepository(store),
		repository.NewUserRepository(store),
		NewResultReader(repository.NewAttemptRepository(store)),
		testOptions,
	)
}
