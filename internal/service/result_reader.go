package service

import (
	"context"

	"gradebook_backend/internal/model"
	"gradebook_backend/pkg/logger"

	"go.uber.org/zap"
)

// AttemptSource 三种作答记录的原始读取
type AttemptSource interface {
	FindRegular(ctx context.Context, courseID, quizID, studentID string) (*model.RegularRecord, error)
	FindLive(ctx context.Context, courseID, quizID string) (model.LiveDocument, error)
	FindCustom(ctx context.Context, courseID, quizID, studentID string) (model.CustomDocument, error)
}

// ReadResult 单次读取的结果。读取器不吞错误，由调用方决定是否按零处理
type ReadResult struct {
	Source    string
	Counts    model.AttemptCounts
	Found     bool
	LiveShape model.LiveShape
	Regular   *model.RegularRecord
	Err       error
}

// CountsOrZero 读取失败时返回全零计数
func (r ReadResult) CountsOrZero() model.AttemptCounts {
	if r.Err != nil {
		return model.AttemptCounts{}
	}
	return r.Counts
}

type ResultReader struct {
	Attempts AttemptSource
}

func NewResultReader(attempts AttemptSource) *ResultReader {
	return &ResultReader{Attempts: attempts}
}

// ReadRegular 单点读取，原样返回记录
func (r *ResultReader) ReadRegular(ctx context.Context, studentID, courseID, quizID string) ReadResult {
	res := ReadResult{Source: model.SourceRegular}
	record, err := r.Attempts.FindRegular(ctx, courseID, quizID, studentID)
	if err != nil {
		res.Err = err
		return res
	}
	if record == nil {
		return res
	}

	res.Found = true
	res.Regular = record
	res.Counts.CorrectAnswers = record.CorrectAnswers
	res.Counts.TimesDrawn = record.TotalQuestions
	if record.TotalQuestions > record.CorrectAnswers {
		res.Counts.WrongAnswers = record.TotalQuestions - record.CorrectAnswers
	}
	return res
}

// ReadLive 每次读取都重新识别存储结构
func (r *ResultReader) ReadLive(ctx context.Context, studentID, courseID, quizID string) ReadResult {
	res := ReadResult{Source: model.SourceLive}
	doc, err := r.Attempts.FindLive(ctx, courseID, quizID)
	if err != nil {
		res.Err = err
		return res
	}
	if len(doc) == 0 {
		return res
	}

	res.LiveShape = model.DetectLiveShape(doc)
	switch res.LiveShape {
	case model.LiveShapePerQuestion:
		res.Counts = model.CountPerQuestion(doc, studentID)
	case model.LiveShapePerStudent:
		counts, err := model.CountPerStudent(doc, studentID)
		if err != nil {
			res.Err = err
			return res
		}
		res.Counts = counts
	default:
		// 无法识别的结构按零处理
		logger.Log.Debug("Unrecognized live result layout",
			zap.String("courseId", courseID),
			zap.String("quizId", quizID),
			zap.Stringer("shape", res.LiveShape),
		)
		return res
	}

	if res.Counts.TimesDrawn == 0 {
		res.Counts.TimesDrawn = res.Counts.CorrectAnswers + res.Counts.WrongAnswers
	}
	res.Found = res.Counts != (model.AttemptCounts{})
	return res
}

// ReadCustom 自定义题目：显式计数优先，否则按子答案条目数
func (r *ResultReader) ReadCustom(ctx context.Context, studentID, courseID, quizID string, totalQuestions int) ReadResult {
	res := ReadResult{Source: model.SourceCustom}
	doc, err := r.Attempts.FindCustom(ctx, courseID, quizID, studentID)
	if err != nil {
		res.Err = err
		return res
	}
	if doc == nil {
		return res
	}

	counts, err := model.CountCustom(doc, totalQuestions)
	if err != nil {
		res.Err = err
		return res
	}
	res.Found = true
	res.Counts = counts
	return res
}
