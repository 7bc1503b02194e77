package model

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func liveDoc(t *testing.T, raw string) LiveDocument {
	t.Helper()
	var doc LiveDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestDetectLiveShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want LiveShape
	}{
		{
			name: "per question with sets",
			raw:  `{"q1":{"correctAnswers":{"s1":true},"wrongAnswers":{"s2":true}}}`,
			want: LiveShapePerQuestion,
		},
		{
			name: "per question with arrays",
			raw:  `{"q1":{"correctAnswers":["s1"],"wrongAnswers":[]}}`,
			want: LiveShapePerQuestion,
		},
		{
			name: "per student",
			raw:  `{"s1":{"correctAnswers":3,"wrongAnswers":1,"timesDrawn":4}}`,
			want: LiveShapePerStudent,
		},
		{
			name: "null counts skipped",
			raw:  `{"a":{"correctAnswers":null},"b":{"correctAnswers":2}}`,
			want: LiveShapePerStudent,
		},
		{name: "unrecognized", raw: `{"q1":{"foo":1}}`, want: LiveShapeUnknown},
		{name: "scalar entries", raw: `{"q1":5}`, want: LiveShapeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLiveShape(liveDoc(t, tt.raw)))
		})
	}
}

func TestCountPerQuestion(t *testing.T) {
	doc := liveDoc(t, `{
		"q1":{"correctAnswers":{"s1":true},"wrongAnswers":{"s2":true}},
		"q2":{"correctAnswers":{"s1":true,"s2":true}},
		"q3":{"correctAnswers":["s3"],"wrongAnswers":["s1"]},
		"q4":{"correctAnswers":{"s1":false}}
	}`)

	tests := []struct {
		name      string
		studentID string
		want      AttemptCounts
	}{
		{name: "mixed", studentID: "s1", want: AttemptCounts{CorrectAnswers: 2, WrongAnswers: 1, TimesDrawn: 3}},
		{name: "one wrong one right", studentID: "s2", want: AttemptCounts{CorrectAnswers: 1, WrongAnswers: 1, TimesDrawn: 2}},
		{name: "array set", studentID: "s3", want: AttemptCounts{CorrectAnswers: 1, TimesDrawn: 1}},
		{name: "never drawn", studentID: "s9", want: AttemptCounts{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountPerQuestion(doc, tt.studentID))
		})
	}
}

func TestCountPerStudent(t *testing.T) {
	doc := liveDoc(t, `{"s1":{"correctAnswers":3,"wrongAnswers":1,"timesDrawn":5},"s2":"broken"}`)

	counts, err := CountPerStudent(doc, "s1")
	require.NoError(t, err)
	assert.Equal(t, AttemptCounts{CorrectAnswers: 3, WrongAnswers: 1, TimesDrawn: 5}, counts)

	counts, err = CountPerStudent(doc, "missing")
	require.NoError(t, err)
	assert.Equal(t, AttemptCounts{}, counts)

	_, err = CountPerStudent(doc, "s2")
	assert.Error(t, err)
}

func TestCountCustom(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		total int
		want  AttemptCounts
	}{
		{
			name:  "explicit count wins over entries",
			raw:   `{"correctAnswers":2,"a1":{},"a2":{},"a3":{}}`,
			total: 5,
			want:  AttemptCounts{CorrectAnswers: 2, WrongAnswers: 3, TimesDrawn: 5},
		},
		{
			name:  "explicit wrong count",
			raw:   `{"correctAnswers":1,"wrongAnswers":1}`,
			total: 5,
			want:  AttemptCounts{CorrectAnswers: 1, WrongAnswers: 1, TimesDrawn: 2},
		},
		{
			name:  "child entries",
			raw:   `{"a1":{"answer":"x"},"a2":{"answer":"y"}}`,
			total: 5,
			want:  AttemptCounts{CorrectAnswers: 2, TimesDrawn: 2},
		},
		{
			name:  "non numeric count falls back to entries",
			raw:   `{"correctAnswers":{"x":1}}`,
			total: 3,
			want:  AttemptCounts{CorrectAnswers: 1, TimesDrawn: 1},
		},
		{name: "empty", raw: `{}`, total: 3, want: AttemptCounts{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var doc CustomDocument
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &doc))
			got, err := CountCustom(doc, tt.total)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLiveShapeString(t *testing.T) {
	assert.Equal(t, "per_question", LiveShapePerQuestion.String())
	assert.Equal(t, "per_student", LiveShapePerStudent.String())
	assert.Equal(t, "unknown", LiveShapeUnknown.String())
}

func TestRegularRecordToleratesUnusedFields(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "numeric", raw: `{"correctAnswers":3,"totalQuestions":4,"score":75,"submittedAt":1710000000000}`},
		{name: "iso timestamp", raw: `{"correctAnswers":3,"totalQuestions":4,"score":75,"submittedAt":"2024-03-09T14:05:07.000Z"}`},
		{name: "string score", raw: `{"correctAnswers":3,"totalQuestions":4,"score":"75%","submittedAt":{".sv":"timestamp"}}`},
		{name: "missing extras", raw: `{"correctAnswers":3,"totalQuestions":4}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var record RegularRecord
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &record))
			assert.Equal(t, 3, record.CorrectAnswers)
			assert.Equal(t, 4, record.TotalQuestions)
		})
	}
}
