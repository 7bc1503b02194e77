package model

import (
	"sort"
	"strings"
)

const (
	QuestionTypeMultipleChoice = "multiple"
	QuestionTypeOpen           = "open"

	// SlideQuizPrefix 幻灯片测验的ID前缀，其余测验来自视频
	SlideQuizPrefix = "slide_"
)

type Question struct {
	Question      string   `json:"question"`
	Type          string   `json:"type,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectOption *int     `json:"correctOption,omitempty"`
}

// IsMultipleChoice 只有带正确选项的选择题参与计分
func (q Question) IsMultipleChoice() bool {
	if q.Type == QuestionTypeOpen {
		return false
	}
	return q.CorrectOption != nil
}

type Quiz struct {
	ID            string     `json:"id"`
	CourseID      string     `json:"courseId"`
	VideoID       string     `json:"videoId"`
	MinPercentage *float64   `json:"minPercentage,omitempty"`
	IsDiagnostic  bool       `json:"isDiagnostic"`
	Questions     []Question `json:"questions"`
}

func (q Quiz) IsSlide() bool {
	return strings.HasPrefix(q.ID, SlideQuizPrefix)
}

// ContentID 测验引用的视频或幻灯片ID
func (q Quiz) ContentID() string {
	if q.VideoID != "" {
		return q.VideoID
	}
	return strings.TrimPrefix(q.ID, SlideQuizPrefix)
}

// CountQuestions 返回选择题数量和开放题数量
func (q Quiz) CountQuestions() (multipleChoice, open int) {
	for _, question := range q.Questions {
		if question.IsMultipleChoice() {
			multipleChoice++
		} else {
			open++
		}
	}
	return multipleChoice, open
}

// PassThreshold 测验未设置及格线时使用默认值
func (q Quiz) PassThreshold(defaultMin float64) float64 {
	if q.MinPercentage == nil || *q.MinPercentage < 0 {
		return defaultMin
	}
	return *q.MinPercentage
}

// QuizCatalog quizzes/{courseId} 文档：quizId -> 测验
type QuizCatalog map[string]Quiz

// Sorted 按测验ID排序，并补全 ID 与 CourseID
func (c QuizCatalog) Sorted(courseID string) []Quiz {
	quizzes := make([]Quiz, 0, len(c))
	for id, quiz := range c {
		quiz.ID = id
		quiz.CourseID = courseID
		quizzes = append(quizzes, quiz)
	}
	sort.Slice(quizzes, func(i, j int) bool { return quizzes[i].ID < quizzes[j].ID })
	return quizzes
}

type ContentTitle struct {
	Title string `json:"title"`
}

// ContentIndex videos/{courseId} 与 slides/{courseId} 文档
type ContentIndex map[string]ContentTitle

// QuizInfo 汇总结果中的测验元信息
type QuizInfo struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	ContentID           string  `json:"contentId"`
	IsSlide             bool    `json:"isSlide"`
	IsDiagnostic        bool    `json:"isDiagnostic"`
	MinPercentage       float64 `json:"minPercentage"`
	MultipleChoiceCount int     `json:"multipleChoiceCount"`
	OpenCount           int     `json:"openCount"`
}
