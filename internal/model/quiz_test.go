package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestQuizCountQuestions(t *testing.T) {
	quiz := Quiz{Questions: []Question{
		{Question: "a", Options: []string{"x", "y"}, CorrectOption: intPtr(0)},
		{Question: "b", Type: QuestionTypeMultipleChoice, CorrectOption: intPtr(1)},
		{Question: "c", Type: QuestionTypeOpen},
		{Question: "d", Type: QuestionTypeOpen, CorrectOption: intPtr(0)},
		{Question: "e"},
	}}

	multipleChoice, open := quiz.CountQuestions()
	assert.Equal(t, 2, multipleChoice)
	assert.Equal(t, 3, open)
}

func TestQuizPassThreshold(t *testing.T) {
	tests := []struct {
		name string
		min  *float64
		want float64
	}{
		{name: "unset", want: 70},
		{name: "explicit", min: floatPtr(50), want: 50},
		{name: "zero", min: floatPtr(0), want: 0},
		{name: "negative uses default", min: floatPtr(-1), want: 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quiz{MinPercentage: tt.min}.PassThreshold(70))
		})
	}
}

func TestQuizContent(t *testing.T) {
	video := Quiz{ID: "q1", VideoID: "vid-1"}
	assert.False(t, video.IsSlide())
	assert.Equal(t, "vid-1", video.ContentID())

	slide := Quiz{ID: "slide_deck-7"}
	assert.True(t, slide.IsSlide())
	assert.Equal(t, "deck-7", slide.ContentID())
}

func TestQuizCatalogSorted(t *testing.T) {
	catalog := QuizCatalog{
		"q2":      {VideoID: "v2"},
		"q1":      {VideoID: "v1"},
		"slide_a": {},
	}

	quizzes := catalog.Sorted("c1")
	ids := make([]string, len(quizzes))
	for i, quiz := range quizzes {
		ids[i] = quiz.ID
		assert.Equal(t, "c1", quiz.CourseID)
	}
	assert.Equal(t, []string{"q1", "q2", "slide_a"}, ids)
}
