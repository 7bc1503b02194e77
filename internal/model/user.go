package model

import (
	"sort"
	"strings"

	json "github.com/goccy/go-json"
)

// UserProfile users/{studentId}
type UserProfile struct {
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}

// ResolveName displayName -> firstName+lastName -> 邮箱前缀 -> "Unknown user " + ID前缀
func (p UserProfile) ResolveName(userID string) string {
	if name := strings.TrimSpace(p.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(p.FirstName + " " + p.LastName); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(p.Email, "@"); ok && local != "" {
		return local
	}
	return UnknownUserName(userID)
}

func UnknownUserName(userID string) string {
	prefix := userID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return "Unknown user " + prefix
}

// EnrollmentIndex enrollments 全局索引：studentId -> courseId -> 选课记录。
// 过滤只看课程键是否存在，选课记录本身不解码
type EnrollmentIndex map[string]json.RawMessage

// StudentsInCourse 没有按课程的索引，只能全量扫描后过滤。
// 无法解析的学生条目跳过，不影响其他学生
func (idx EnrollmentIndex) StudentsInCourse(courseID string) []string {
	var students []string
	for studentID, raw := range idx {
		var courses map[string]json.RawMessage
		if err := json.Unmarshal(raw, &courses); err != nil {
			continue
		}
		if _, ok := courses[courseID]; ok {
			students = append(students, studentID)
		}
	}
	sort.Strings(students)
	return students
}
