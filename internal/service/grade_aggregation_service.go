package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gradebook_backend/internal/model"
	"gradebook_backend/internal/repository"
	"gradebook_backend/internal/util"
	"gradebook_backend/pkg/logger"
	"gradebook_backend/pkg/monitoring"
	"gradebook_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// GradeAggregationService 按课程汇总所有学生所有测验的成绩。
// 不做缓存，每次调用都重新读取三种作答记录；存储在汇总期间只读
type GradeAggregationService struct {
	QuizRepo       *repository.QuizRepository
	EnrollmentRepo *repository.EnrollmentRepository
	UserRepo       *repository.UserRepository
	Reader         *ResultReader

	mu      sync.RWMutex
	options GradingOptions
}

func NewGradeAggregationService(
	quizRepo *repository.QuizRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
	reader *ResultReader,
	options GradingOptions,
) *GradeAggregationService {
	return &GradeAggregationService{
		QuizRepo:       quizRepo,
		EnrollmentRepo: enrollmentRepo,
		UserRepo:       userRepo,
		Reader:         reader,
		options:        options,
	}
}

func (s *GradeAggregationService) Options() GradingOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.options
}

// UpdateOptions 配置热更新后生效于之后的汇总
func (s *GradeAggregationService) UpdateOptions(options GradingOptions) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = options
}

// courseContext 一次汇总内共享的只读数据
type courseContext struct {
	courseID string
	quizzes  []model.Quiz
	infos    []model.QuizInfo
	options  GradingOptions
}

// ComputeAggregatedGrades 课程目录或选课索引读取失败时直接返回错误；
// 单条作答记录读取失败按零处理，不影响其他学生和测验
func (s *GradeAggregationService) ComputeAggregatedGrades(ctx context.Context, courseID string) (result *model.AggregationResult, err error) {
	if courseID == "" {
		return nil, util.ErrCourseIDRequired
	}

	ctx, span := tracing.Tracer.Start(ctx, "GradeAggregationService.ComputeAggregatedGrades")
	span.SetAttributes(attribute.String("course.id", courseID))
	start := time.Now()
	outcome := "success"
	defer func() {
		if err != nil {
			outcome = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		monitoring.AggregationCounter.WithLabelValues(outcome).Inc()
		monitoring.AggregationDuration.Observe(time.Since(start).Seconds())
		span.End()
	}()

	cc, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	result = &model.AggregationResult{
		CourseID:   courseID,
		Quizzes:    cc.infos,
		VideoNames: map[string]string{},
		SlideNames: map[string]string{},
		Students:   []model.StudentSummary{},
	}
	if len(cc.quizzes) == 0 {
		outcome = "empty"
		return result, nil
	}
	for _, info := range cc.infos {
		if info.IsSlide {
			result.SlideNames[info.ContentID] = info.Name
		} else {
			result.VideoNames[info.ContentID] = info.Name
		}
	}

	studentIDs, err := s.EnrollmentRepo.FindStudentIDsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}

	summaries := make([]model.StudentSummary, len(studentIDs))
	g, gctx := errgroup.WithContext(ctx)
	if n := cc.options.MaxConcurrency; n > 0 {
		g.SetLimit(n)
	}
	for i, studentID := range studentIDs {
		i, studentID := i, studentID
		g.Go(func() error {
			summary, err := s.computeStudent(gctx, cc, studentID)
			if err != nil {
				return err
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Name != summaries[j].Name {
			return summaries[i].Name < summaries[j].Name
		}
		return summaries[i].StudentID < summaries[j].StudentID
	})

	result.Students = summaries
	result.Summary = SummarizeClass(summaries, cc.infos)

	logger.Log.Info("Course grades aggregated",
		zap.String("courseId", courseID),
		zap.Int("quizzes", len(cc.quizzes)),
		zap.Int("students", len(summaries)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

// ComputeStudentGrades 只计算一个学生，学生未选该课程时返回 ErrStudentNotEnrolled
func (s *GradeAggregationService) ComputeStudentGrades(ctx context.Context, courseID, studentID string) (*model.StudentSummary, error) {
	if courseID == "" {
		return nil, util.ErrCourseIDRequired
	}

	ctx, span := tracing.Tracer.Start(ctx, "GradeAggregationService.ComputeStudentGrades")
	defer span.End()

	studentIDs, err := s.EnrollmentRepo.FindStudentIDsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	idx := sort.SearchStrings(studentIDs, studentID)
	if idx >= len(studentIDs) || studentIDs[idx] != studentID {
		return nil, util.ErrStudentNotEnrolled
	}

	cc, err := s.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	summary, err := s.computeStudent(ctx, cc, studentID)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

func (s *GradeAggregationService) loadCourse(ctx context.Context, courseID string) (*courseContext, error) {
	options := s.Options()

	quizzes, err := s.QuizRepo.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("load quizzes: %w", err)
	}

	cc := &courseContext{
		courseID: courseID,
		quizzes:  quizzes,
		infos:    []model.QuizInfo{},
		options:  options,
	}
	if len(quizzes) == 0 {
		return cc, nil
	}

	// 名称读取失败不影响汇总，使用截断的ID代替
	videos, err := s.QuizRepo.FindVideoTitles(ctx, courseID)
	if err != nil {
		logger.Log.Warn("Failed to load video titles", zap.String("courseId", courseID), zap.Error(err))
	}
	slides, err := s.QuizRepo.FindSlideTitles(ctx, courseID)
	if err != nil {
		logger.Log.Warn("Failed to load slide titles", zap.String("courseId", courseID), zap.Error(err))
	}

	for _, quiz := range quizzes {
		multipleChoice, open := quiz.CountQuestions()
		index := videos
		if quiz.IsSlide() {
			index = slides
		}
		cc.infos = append(cc.infos, model.QuizInfo{
			ID:                  quiz.ID,
			Name:                contentName(index, quiz.ContentID(), options.NameFallbackLength),
			ContentID:           quiz.ContentID(),
			IsSlide:             quiz.IsSlide(),
			IsDiagnostic:        quiz.IsDiagnostic,
			MinPercentage:       quiz.PassThreshold(options.DefaultMinPercentage),
			MultipleChoiceCount: multipleChoice,
			OpenCount:           open,
		})
	}
	return cc, nil
}

func (s *GradeAggregationService) computeStudent(ctx context.Context, cc *courseContext, studentID string) (model.StudentSummary, error) {
	ctx, span := tracing.Tracer.Start(ctx, "GradeAggregationService.computeStudent")
	span.SetAttributes(attribute.String("student.id", studentID))
	defer span.End()

	name, email, photo := s.resolveProfile(ctx, studentID)

	grades := make([]model.GradeResult, len(cc.quizzes))
	g, gctx := errgroup.WithContext(ctx)
	for j := range cc.quizzes {
		j := j
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			grades[j] = s.gradeQuiz(gctx, cc, cc.quizzes[j], cc.infos[j], studentID)
			// 请求取消后读取失败会被当作零分，结果不能使用
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return model.StudentSummary{}, err
	}

	return SummarizeStudent(studentID, name, email, photo, grades), nil
}

// gradeQuiz 三种来源并发读取，全部完成后再计算
func (s *GradeAggregationService) gradeQuiz(ctx context.Context, cc *courseContext, quiz model.Quiz, info model.QuizInfo, studentID string) model.GradeResult {
	var regular, live, custom ReadResult
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		regular = s.Reader.ReadRegular(ctx, studentID, cc.courseID, quiz.ID)
	}()
	go func() {
		defer wg.Done()
		live = s.Reader.ReadLive(ctx, studentID, cc.courseID, quiz.ID)
	}()
	go func() {
		defer wg.Done()
		custom = s.Reader.ReadCustom(ctx, studentID, cc.courseID, quiz.ID, info.MultipleChoiceCount)
	}()
	wg.Wait()

	input := GradeInput{
		Regular:         s.coalesce(ctx, regular, cc.courseID, quiz.ID, studentID),
		Live:            s.coalesce(ctx, live, cc.courseID, quiz.ID, studentID),
		Custom:          s.coalesce(ctx, custom, cc.courseID, quiz.ID, studentID),
		RegularRecorded: regular.Err == nil && regular.Found,
	}
	grade := CalculateGrade(quiz, input, cc.options)
	grade.QuizName = info.Name
	return grade
}

// coalesce 读取错误统一在这里记录并按零处理
func (s *GradeAggregationService) coalesce(ctx context.Context, res ReadResult, courseID, quizID, studentID string) model.AttemptCounts {
	if res.Err != nil {
		monitoring.AttemptReadFailures.WithLabelValues(res.Source).Inc()
		trace.SpanFromContext(ctx).AddEvent("attempt read failed", trace.WithAttributes(
			attribute.String("source", res.Source),
			attribute.String("quiz.id", quizID),
		))
		logger.Log.Warn("Attempt read failed, counted as zero",
			zap.String("source", res.Source),
			zap.String("courseId", courseID),
			zap.String("quizId", quizID),
			zap.String("studentId", studentID),
			zap.Error(res.Err),
		)
	}
	return res.CountsOrZero()
}

func (s *GradeAggregationService) resolveProfile(ctx context.Context, studentID string) (name, email, photo string) {
	profile, found, err := s.UserRepo.FindProfile(ctx, studentID)
	if err != nil {
		logger.Log.Warn("Failed to load user profile", zap.String("studentId", studentID), zap.Error(err))
	}
	if err != nil || !found {
		return model.UnknownUserName(studentID), "", ""
	}
	return profile.ResolveName(studentID), profile.Email, profile.PhotoURL
}

func contentName(index model.ContentIndex, contentID string, fallbackLength int) string {
	if entry, ok := index[contentID]; ok && entry.Title != "" {
		return entry.Title
	}
	if len(contentID) <= fallbackLength {
		return contentID
	}
	return contentID[:fallbackLength] + "..."
}

// SummarizeStudent 平均分只统计非诊断测验
func SummarizeStudent(studentID, name, email, photo string, grades []model.GradeResult) model.StudentSummary {
	summary := model.StudentSummary{
		StudentID:        studentID,
		Name:             name,
		Email:            email,
		PhotoURL:         photo,
		Grades:           grades,
		DiagnosticGrades: []model.GradeResult{},
		EvaluativeGrades: []model.GradeResult{},
		TotalQuizzes:     len(grades),
	}

	var sum float64
	for _, grade := range grades {
		if grade.IsDiagnostic {
			summary.DiagnosticGrades = append(summary.DiagnosticGrades, grade)
		} else {
			summary.EvaluativeGrades = append(summary.EvaluativeGrades, grade)
			sum += grade.Grade
		}
		if grade.HasAttempt {
			summary.AttemptedQuizzes++
			if grade.PassedWithBonus {
				summary.PassedQuizzes++
			}
		}
	}

	if n := len(summary.EvaluativeGrades); n > 0 {
		summary.AverageGrade = util.Round(sum/float64(n), 2)
	}
	if summary.TotalQuizzes > 0 {
		summary.CompletionRate = int(util.Round(float64(summary.AttemptedQuizzes)/float64(summary.TotalQuizzes)*100, 0))
	}
	return summary
}

func SummarizeClass(students []model.StudentSummary, quizzes []model.QuizInfo) model.ClassSummary {
	summary := model.ClassSummary{
		TotalStudents: len(students),
		TotalQuizzes:  len(quizzes),
	}
	for _, quiz := range quizzes {
		if quiz.IsDiagnostic {
			summary.DiagnosticQuizzes++
		} else {
			summary.EvaluativeQuizzes++
		}
		if quiz.IsSlide {
			summary.SlideQuizzes++
		} else {
			summary.VideoQuizzes++
		}
	}

	if len(students) == 0 {
		return summary
	}

	var gradeSum, completionSum float64
	for _, student := range students {
		gradeSum += student.AverageGrade
		completionSum += float64(student.CompletionRate)
		if student.AttemptedQuizzes == student.TotalQuizzes {
			summary.StudentsWithAllQuizzes++
		}
	}
	n := float64(len(students))
	summary.AverageClassGrade = util.Round(gradeSum/n, 2)
	summary.AverageCompletionRate = util.Round(completionSum/n, 1)
	return summary
}
