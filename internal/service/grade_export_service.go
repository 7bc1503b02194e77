package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gradebook_backend/internal/model"
	"gradebook_backend/internal/util"
	"gradebook_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const notAttemptedCell = "-"

// ExportToCSV 纯函数。所有单元格都用双引号包裹，数据中的双引号不做转义
func ExportToCSV(result *model.AggregationResult) string {
	var b strings.Builder

	header := []string{"Student", "Email"}
	for _, quiz := range result.Quizzes {
		header = append(header,
			quiz.Name+" - Grade",
			quiz.Name+" - Regular",
			quiz.Name+" - Live bonus",
			quiz.Name+" - Custom bonus",
		)
	}
	header = append(header, "Average", "Quizzes attempted", "Quizzes passed", "Completion rate")
	writeRow(&b, header)

	for _, student := range result.Students {
		row := []string{student.Name, student.Email}
		for i := range result.Quizzes {
			row = append(row, quizCells(student, result.Quizzes[i].ID)...)
		}
		row = append(row,
			util.FormatFixed(student.AverageGrade, 2),
			fmt.Sprintf("%d/%d", student.AttemptedQuizzes, student.TotalQuizzes),
			fmt.Sprintf("%d/%d", student.PassedQuizzes, student.TotalQuizzes),
			strconv.Itoa(student.CompletionRate)+"%",
		)
		writeRow(&b, row)
	}

	footer := make([]string, len(header))
	footer[0] = "Class summary"
	footer[len(footer)-4] = util.FormatFixed(result.Summary.AverageClassGrade, 2)
	footer[len(footer)-1] = util.FormatFixed(result.Summary.AverageCompletionRate, 1) + "%"
	writeRow(&b, footer)

	return b.String()
}

// quizCells 未作答的测验四列都输出 "-"，与 0 分区分
func quizCells(student model.StudentSummary, quizID string) []string {
	for _, grade := range student.Grades {
		if grade.QuizID != quizID {
			continue
		}
		if !grade.HasAttempt {
			break
		}
		return []string{
			util.FormatFixed(grade.Grade, 2),
			strconv.Itoa(grade.Details.RegularCorrect),
			strconv.Itoa(grade.Details.LiveCorrect),
			strconv.Itoa(grade.Details.CustomCorrect),
		}
	}
	return []string{notAttemptedCell, notAttemptedCell, notAttemptedCell, notAttemptedCell}
}

func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(cell)
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// ExportFileName 下载文件名
func ExportFileName(courseID string, now time.Time) string {
	return fmt.Sprintf("grades-%s-%s.csv", courseID, now.Format(util.ExportFormat))
}

type ExportArchive struct {
	CourseID   string    `json:"courseId"`
	ObjectName string    `json:"objectName"`
	URL        string    `json:"url"`
	Students   int       `json:"students"`
	Quizzes    int       `json:"quizzes"`
	CreatedAt  time.Time `json:"createdAt"`
}

type GradeExportService struct {
	Aggregation *GradeAggregationService
	Storage     *StorageService
	Now         func() time.Time
}

func NewGradeExportService(aggregation *GradeAggregationService, storage *StorageService) *GradeExportService {
	return &GradeExportService{
		Aggregation: aggregation,
		Storage:     storage,
		Now:         time.Now,
	}
}

// ExportCourse 汇总并生成 CSV
func (s *GradeExportService) ExportCourse(ctx context.Context, courseID string) (string, *model.AggregationResult, error) {
	result, err := s.Aggregation.ComputeAggregatedGrades(ctx, courseID)
	if err != nil {
		return "", nil, err
	}
	return ExportToCSV(result), result, nil
}

// ArchiveCourse 生成 CSV 并上传到对象存储
func (s *GradeExportService) ArchiveCourse(ctx context.Context, courseID string) (*ExportArchive, error) {
	csv, result, err := s.ExportCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.Archive(ctx, result, csv)
}

// Archive 上传已经生成的 CSV，不重新汇总
func (s *GradeExportService) Archive(ctx context.Context, result *model.AggregationResult, csv string) (*ExportArchive, error) {
	courseID := result.CourseID
	now := s.Now()
	objectName := fmt.Sprintf("grades/%s/%s-%s.csv", courseID, now.Format(util.ExportFormat), uuid.New().String())
	url, err := s.Storage.Upload(ctx, objectName, strings.NewReader(csv), int64(len(csv)), util.MimeCSV)
	if err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	logger.Log.Info("Grade export archived",
		zap.String("courseId", courseID),
		zap.String("object", objectName),
		zap.Int("students", len(result.Students)),
	)

	return &ExportArchive{
		CourseID:   courseID,
		ObjectName: objectName,
		URL:        url,
		Students:   len(result.Students),
		Quizzes:    len(result.Quizzes),
		CreatedAt:  now,
	}, nil
}
