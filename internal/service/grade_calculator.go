package service

import (
	"gradebook_backend/internal/config"
	"gradebook_backend/internal/model"
	"gradebook_backend/internal/util"
)

// GradingOptions 汇总时使用的默认参数，由配置显式传入
type GradingOptions struct {
	DefaultMinPercentage float64
	NameFallbackLength   int
	// MaxConcurrency 同时计算的学生数上限
	MaxConcurrency int
}

func NewGradingOptions(cfg config.GradingConfig) GradingOptions {
	opts := GradingOptions{
		DefaultMinPercentage: cfg.DefaultMinPercentage,
		NameFallbackLength:   cfg.NameFallbackLength,
		MaxConcurrency:       cfg.MaxConcurrency,
	}
	if opts.NameFallbackLength <= 0 {
		opts.NameFallbackLength = config.DefaultNameFallback
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = config.DefaultMaxConcurrency
	}
	return opts
}

// GradeInput 一个学生在一个测验上三种来源的归一化计数
type GradeInput struct {
	Regular         model.AttemptCounts
	Live            model.AttemptCounts
	Custom          model.AttemptCounts
	RegularRecorded bool
}

// CalculateGrade 纯函数。分母只统计选择题；直播和自定义题作为加分叠加，总分不封顶
func CalculateGrade(quiz model.Quiz, in GradeInput, opts GradingOptions) model.GradeResult {
	multipleChoice, open := quiz.CountQuestions()

	regularCorrect := in.Regular.CorrectAnswers
	liveCorrect := in.Live.CorrectAnswers
	customCorrect := in.Custom.CorrectAnswers

	var base, liveBonus, customBonus float64
	if multipleChoice > 0 {
		n := float64(multipleChoice)
		base = 100 * float64(regularCorrect) / n
		liveBonus = 100 * float64(liveCorrect) / n
		customBonus = 100 * float64(customCorrect) / n
	}

	total := base + liveBonus + customBonus
	grade := total / 10
	minPercentage := quiz.PassThreshold(opts.DefaultMinPercentage)

	return model.GradeResult{
		QuizID:          quiz.ID,
		IsDiagnostic:    quiz.IsDiagnostic,
		IsSlide:         quiz.IsSlide(),
		MinPercentage:   minPercentage,
		TotalQuestions:  multipleChoice,
		OpenQuestions:   open,
		BasePercentage:  util.Round(base, 1),
		LiveBonus:       util.Round(liveBonus, 1),
		CustomBonus:     util.Round(customBonus, 1),
		BonusPercentage: util.Round(liveBonus+customBonus, 1),
		TotalPercentage: util.Round(total, 1),
		Grade:           util.Round(grade, 2),
		PassedBase:      base >= minPercentage,
		PassedWithBonus: total >= minPercentage,
		HasAttempt:      regularCorrect > 0 || liveCorrect > 0 || customCorrect > 0,
		HasBonus:        liveCorrect > 0 || customCorrect > 0,
		Details: model.GradeDetails{
			RegularCorrect:  regularCorrect,
			LiveCorrect:     liveCorrect,
			LiveWrong:       in.Live.WrongAnswers,
			LiveTimesDrawn:  in.Live.TimesDrawn,
			CustomCorrect:   customCorrect,
			RegularRecorded: in.RegularRecorded,
		},
	}
}
