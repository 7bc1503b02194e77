package model

import (
	"bytes"
	"sort"

	json "github.com/goccy/go-json"
)

const (
	SourceRegular = "regular"
	SourceLive    = "live"
	SourceCustom  = "custom"
)

// AttemptCounts 三种作答来源归一化后的计数，缺失记录全部为零
type AttemptCounts struct {
	CorrectAnswers int `json:"correctAnswers"`
	WrongAnswers   int `json:"wrongAnswers"`
	TimesDrawn     int `json:"timesDrawn"`
}

// RegularRecord quiz_results/{courseId}/{quizId}/{studentId}。
// 计分只用 correctAnswers 和 totalQuestions，其余字段原样保留，类型不做约束
type RegularRecord struct {
	CorrectAnswers int             `json:"correctAnswers"`
	TotalQuestions int             `json:"totalQuestions"`
	Score          json.RawMessage `json:"score,omitempty"`
	SubmittedAt    json.RawMessage `json:"submittedAt,omitempty"`
}

// LiveShape 课堂实时测验的两种存储结构
type LiveShape int

const (
	LiveShapeUnknown LiveShape = iota
	// LiveShapePerQuestion questionId -> {correctAnswers:{sid:true}, wrongAnswers:{sid:true}}
	LiveShapePerQuestion
	// LiveShapePerStudent sid -> {correctAnswers:n, wrongAnswers:n, timesDrawn:n}
	LiveShapePerStudent
)

func (s LiveShape) String() string {
	switch s {
	case LiveShapePerQuestion:
		return "per_question"
	case LiveShapePerStudent:
		return "per_student"
	default:
		return "unknown"
	}
}

// LiveDocument live_quiz_results/{courseId}/{quizId}
type LiveDocument map[string]json.RawMessage

type liveStudentEntry struct {
	CorrectAnswers int `json:"correctAnswers"`
	WrongAnswers   int `json:"wrongAnswers"`
	TimesDrawn     int `json:"timesDrawn"`
}

// DetectLiveShape 每次读取都要重新判断，同一课程内不同测验的结构可能不同
func DetectLiveShape(doc LiveDocument) LiveShape {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		var entry map[string]json.RawMessage
		if err := json.Unmarshal(doc[k], &entry); err != nil {
			continue
		}
		for _, field := range []string{"correctAnswers", "wrongAnswers"} {
			raw, ok := entry[field]
			if !ok {
				continue
			}
			switch firstByte(raw) {
			case '{', '[':
				return LiveShapePerQuestion
			case 'n', 0:
				// null 不能判断
			default:
				return LiveShapePerStudent
			}
		}
	}
	return LiveShapeUnknown
}

// CountPerQuestion 遍历每道题，检查学生是否在答对/答错集合中
func CountPerQuestion(doc LiveDocument, studentID string) AttemptCounts {
	var counts AttemptCounts
	for _, raw := range doc {
		var entry map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		correct := containsStudent(entry["correctAnswers"], studentID)
		wrong := containsStudent(entry["wrongAnswers"], studentID)
		if correct {
			counts.CorrectAnswers++
		}
		if wrong {
			counts.WrongAnswers++
		}
		if correct || wrong {
			counts.TimesDrawn++
		}
	}
	return counts
}

// CountPerStudent 直接读取学生的累计计数
func CountPerStudent(doc LiveDocument, studentID string) (AttemptCounts, error) {
	raw, ok := doc[studentID]
	if !ok {
		return AttemptCounts{}, nil
	}
	var entry liveStudentEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return AttemptCounts{}, err
	}
	return AttemptCounts{
		CorrectAnswers: entry.CorrectAnswers,
		WrongAnswers:   entry.WrongAnswers,
		TimesDrawn:     entry.TimesDrawn,
	}, nil
}

// containsStudent 集合可能是 {sid:true} 也可能是 [sid, ...]
func containsStudent(raw json.RawMessage, studentID string) bool {
	switch firstByte(raw) {
	case '{':
		var set map[string]json.RawMessage
		if err := json.Unmarshal(raw, &set); err != nil {
			return false
		}
		v, ok := set[studentID]
		if !ok {
			return false
		}
		return !bytes.Equal(bytes.TrimSpace(v), []byte("false")) && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
	case '[':
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return false
		}
		for _, id := range list {
			if id == studentID {
				return true
			}
		}
	}
	return false
}

// CustomDocument custom_quiz_results/{courseId}/{quizId}/{studentId}
type CustomDocument map[string]json.RawMessage

// CountCustom 显式的 correctAnswers 计数优先，否则按子答案条目数计
func CountCustom(doc CustomDocument, totalQuestions int) (AttemptCounts, error) {
	var counts AttemptCounts
	if raw, ok := doc["correctAnswers"]; ok && isNumber(raw) {
		if err := json.Unmarshal(raw, &counts.CorrectAnswers); err != nil {
			return AttemptCounts{}, err
		}
		if wrong, ok := doc["wrongAnswers"]; ok && isNumber(wrong) {
			if err := json.Unmarshal(wrong, &counts.WrongAnswers); err != nil {
				return AttemptCounts{}, err
			}
		} else if totalQuestions > counts.CorrectAnswers {
			counts.WrongAnswers = totalQuestions - counts.CorrectAnswers
		}
		counts.TimesDrawn = counts.CorrectAnswers + counts.WrongAnswers
		return counts, nil
	}

	counts.CorrectAnswers = len(doc)
	counts.TimesDrawn = len(doc)
	return counts, nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

func isNumber(raw json.RawMessage) bool {
	b := firstByte(raw)
	return b == '-' || (b >= '0' && b <= '9')
}
