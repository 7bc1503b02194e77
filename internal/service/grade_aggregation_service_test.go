package service

import (
	"context"
	"errors"
	"testing"

	"gradebook_backend/internal/model"
	"gradebook_backend/internal/repository"
	"gradebook_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeAggregatedGrades(t *testing.T) {
	svc := newTestAggregation(seedCourse(t))

	result, err := svc.ComputeAggregatedGrades(context.Background(), "c1")
	require.NoError(t, err)

	require.Len(t, result.Quizzes, 3)
	assert.Equal(t, "Intro video", result.Quizzes[0].Name)
	assert.Equal(t, "abcdefgh...", result.Quizzes[1].Name)
	assert.Equal(t, "Deck one", result.Quizzes[2].Name)
	assert.True(t, result.Quizzes[2].IsSlide)
	assert.Equal(t, 4, result.Quizzes[0].MultipleChoiceCount)
	assert.Equal(t, 1, result.Quizzes[0].OpenCount)
	assert.Equal(t, map[string]string{"v1": "Intro video", "abcdefghijk": "abcdefgh..."}, result.VideoNames)
	assert.Equal(t, map[string]string{"s1": "Deck one"}, result.SlideNames)

	require.Len(t, result.Students, 2)
	ana, ben := result.Students[0], result.Students[1]
	assert.Equal(t, "Ana", ana.Name)
	assert.Equal(t, "ben", ben.Name)
	_, found := result.FindStudent("zed")
	assert.False(t, found)

	assert.Equal(t, 7.5, ana.Grades[0].Grade)
	assert.True(t, ana.Grades[0].Details.RegularRecorded)
	assert.Equal(t, 5.0, ana.Grades[2].Grade)
	assert.Equal(t, 6.25, ana.AverageGrade)
	assert.Len(t, ana.DiagnosticGrades, 1)
	assert.Len(t, ana.EvaluativeGrades, 2)
	assert.Equal(t, 3, ana.AttemptedQuizzes)
	assert.Equal(t, 2, ana.PassedQuizzes)
	assert.Equal(t, 100, ana.CompletionRate)

	assert.Equal(t, 10.0, ben.Grades[0].Grade)
	assert.True(t, ben.Grades[0].HasBonus)
	assert.False(t, ben.Grades[0].Details.RegularRecorded)
	assert.False(t, ben.Grades[2].HasAttempt)
	assert.Equal(t, 5.0, ben.AverageGrade)
	assert.Equal(t, 1, ben.AttemptedQuizzes)
	assert.Equal(t, 33, ben.CompletionRate)

	assert.Equal(t, model.ClassSummary{
		TotalStudents:          2,
		TotalQuizzes:           3,
		DiagnosticQuizzes:      1,
		EvaluativeQuizzes:      2,
		VideoQuizzes:           2,
		SlideQuizzes:           1,
		AverageClassGrade:      5.63,
		AverageCompletionRate:  66.5,
		StudentsWithAllQuizzes: 1,
	}, result.Summary)
}

func TestComputeAggregatedGradesIsIdempotent(t *testing.T) {
	svc := newTestAggregation(seedCourse(t))
	ctx := context.Background()

	first, err := svc.ComputeAggregatedGrades(ctx, "c1")
	require.NoError(t, err)
	second, err := svc.ComputeAggregatedGrades(ctx, "c1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeAggregatedGradesEmptyCourse(t *testing.T) {
	// 没有测验时不读取选课索引
	store := &failingStore{DocumentStore: seedCourse(t), prefixes: []string{"enrollments"}}
	svc := newTestAggregation(store)

	result, err := svc.ComputeAggregatedGrades(context.Background(), "no-quizzes")
	require.NoError(t, err)
	assert.Empty(t, result.Quizzes)
	assert.Empty(t, result.Students)
	assert.NotNil(t, result.Students)
	assert.Equal(t, model.ClassSummary{}, result.Summary)
}

func TestComputeAggregatedGradesErrors(t *testing.T) {
	tests := []struct {
		name     string
		courseID string
		prefixes []string
		wantErr  error
	}{
		{name: "missing course id", courseID: "", wantErr: util.ErrCourseIDRequired},
		{name: "catalog unavailable", courseID: "c1", prefixes: []string{"quizzes/"}, wantErr: errStoreDown},
		{name: "enrollments unavailable", courseID: "c1", prefixes: []string{"enrollments"}, wantErr: errStoreDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &failingStore{DocumentStore: seedCourse(t), prefixes: tt.prefixes}
			result, err := newTestAggregation(store).ComputeAggregatedGrades(context.Background(), tt.courseID)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestComputeAggregatedGradesMalformedCatalog(t *testing.T) {
	store := seedCourse(t)
	require.NoError(t, store.Set(context.Background(), repository.QuizzesPath("c1"), []byte(`[1,2`)))

	_, err := newTestAggregation(store).ComputeAggregatedGrades(context.Background(), "c1")
	assert.True(t, errors.Is(err, util.ErrMalformedDocument))
}

func TestComputeAggregatedGradesAttemptFailuresCountAsZero(t *testing.T) {
	store := &failingStore{DocumentStore: seedCourse(t), prefixes: []string{"quiz_results/", "live_quiz_results/"}}

	result, err := newTestAggregation(store).ComputeAggregatedGrades(context.Background(), "c1")
	require.NoError(t, err)

	ana, found := result.FindStudent("ana")
	require.True(t, found)
	assert.Equal(t, 0.0, ana.Grades[0].Grade)
	assert.False(t, ana.Grades[0].HasAttempt)
	assert.False(t, ana.Grades[0].Details.RegularRecorded)
	// 自定义题不受影响
	assert.Equal(t, 5.0, ana.Grades[2].Grade)

	ben, found := result.FindStudent("ben")
	require.True(t, found)
	assert.Equal(t, 0, ben.AttemptedQuizzes)
}

func TestComputeAggregatedGradesTitleAndProfileFallback(t *testing.T) {
	store := &failingStore{DocumentStore: seedCourse(t), prefixes: []string{"videos/", "slides/", "users/"}}

	result, err := newTestAggregation(store).ComputeAggregatedGrades(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, "v1", result.Quizzes[0].Name)
	assert.Equal(t, "abcdefgh...", result.Quizzes[1].Name)
	assert.Equal(t, "s1", result.Quizzes[2].Name)
	assert.Equal(t, "Unknown user ana", result.Students[0].Name)
	assert.Empty(t, result.Students[0].Email)
}

func TestComputeAggregatedGradesUpdateOptions(t *testing.T) {
	svc := newTestAggregation(seedCourse(t))
	ctx := context.Background()

	svc.UpdateOptions(GradingOptions{DefaultMinPercentage: 40, NameFallbackLength: 3})
	result, err := svc.ComputeAggregatedGrades(ctx, "c1")
	require.NoError(t, err)

	assert.Equal(t, 40.0, result.Quizzes[2].MinPercentage)
	assert.Equal(t, 70.0, result.Quizzes[0].MinPercentage)
	assert.Equal(t, "abc...", result.Quizzes[1].Name)
	ana, found := result.FindStudent("ana")
	require.True(t, found)
	assert.Equal(t, 3, ana.PassedQuizzes)
}

func TestComputeStudentGrades(t *testing.T) {
	svc := newTestAggregation(seedCourse(t))
	ctx := context.Background()

	summary, err := svc.ComputeStudentGrades(ctx, "c1", "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana", summary.Name)
	assert.Equal(t, 6.25, summary.AverageGrade)

	_, err = svc.ComputeStudentGrades(ctx, "c1", "zed")
	assert.ErrorIs(t, err, util.ErrStudentNotEnrolled)

	_, err = svc.ComputeStudentGrades(ctx, "", "ana")
	assert.ErrorIs(t, err, util.ErrCourseIDRequired)
}

func TestSummarizeStudentExcludesDiagnostic(t *testing.T) {
	summary := SummarizeStudent("s1", "S", "", "", []model.GradeResult{
		{QuizID: "q1", Grade: 6, HasAttempt: true, PassedWithBonus: false},
		{QuizID: "q2", Grade: 10, IsDiagnostic: true, HasAttempt: true, PassedWithBonus: true},
		{QuizID: "q3", Grade: 0},
	})

	assert.Equal(t, 3.0, summary.AverageGrade)
	assert.Equal(t, 2, summary.AttemptedQuizzes)
	assert.Equal(t, 1, summary.PassedQuizzes)
	assert.Equal(t, 67, summary.CompletionRate)
}

func TestSummarizeClassAverage(t *testing.T) {
	summary := SummarizeClass([]model.StudentSummary{
		{AverageGrade: 6.0, CompletionRate: 100, TotalQuizzes: 2, AttemptedQuizzes: 2},
		{AverageGrade: 8.0, CompletionRate: 50, TotalQuizzes: 2, AttemptedQuizzes: 1},
	}, []model.QuizInfo{{ID: "q1"}, {ID: "slide_q2", IsSlide: true}})

	assert.Equal(t, 7.0, summary.AverageClassGrade)
	assert.Equal(t, 75.0, summary.AverageCompletionRate)
	assert.Equal(t, 1, summary.StudentsWithAllQuizzes)
	assert.Equal(t, 1, summary.VideoQuizzes)
	assert.Equal(t, 1, summary.SlideQuizzes)
}

func TestComputeAggregatedGradesCancelledContext(t *testing.T) {
	svc := newTestAggregation(seedCourse(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := svc.ComputeAggregatedGrades(ctx, "c1")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestComputeAggregatedGradesSequential(t *testing.T) {
	store := seedCourse(t)
	parallel, err := newTestAggregation(store).ComputeAggregatedGrades(context.Background(), "c1")
	require.NoError(t, err)

	svc := newTestAggregation(store)
	svc.UpdateOptions(GradingOptions{DefaultMinPercentage: 70, NameFallbackLength: 8, MaxConcurrency: 1})
	sequential, err := svc.ComputeAggregatedGrades(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, parallel, sequential)
}

func TestComputeAggregatedGradesIgnoresOtherCoursesEnrollmentShape(t *testing.T) {
	store := seedCourse(t)
	require.NoError(t, store.Set(context.Background(), repository.EnrollmentsPath(), []byte(`{
		"ana": {"c1": {"enrolledAt": 1}},
		"ben": {"c1": {"enrolledAt": "2024-01-01T00:00:00Z", "status": 3}},
		"zed": {"c2": {"enrolledAt": "2024-01-01T00:00:00Z"}},
		"old": "legacy"
	}`)))

	result, err := newTestAggregation(store).ComputeAggregatedGrades(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, result.Students, 2)
	assert.Equal(t, "ana", result.Students[0].StudentID)
	assert.Equal(t, "ben", result.Students[1].StudentID)
}
