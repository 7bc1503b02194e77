package model

// GradeDetails 各来源原始答对数，用于审计和前端展示
type GradeDetails struct {
	RegularCorrect  int  `json:"regularCorrect"`
	LiveCorrect     int  `json:"liveCorrect"`
	LiveWrong       int  `json:"liveWrong"`
	LiveTimesDrawn  int  `json:"liveTimesDrawn"`
	CustomCorrect   int  `json:"customCorrect"`
	RegularRecorded bool `json:"regularRecorded"`
}

// GradeResult 单个学生单个测验的成绩，每次请求重新计算，不持久化。
// TotalPercentage 与 Grade 不设上限，加分可以超过 100% / 10 分
type GradeResult struct {
	QuizID          string       `json:"quizId"`
	QuizName        string       `json:"quizName"`
	IsDiagnostic    bool         `json:"isDiagnostic"`
	IsSlide         bool         `json:"isSlide"`
	MinPercentage   float64      `json:"minPercentage"`
	TotalQuestions  int          `json:"totalQuestions"`
	OpenQuestions   int          `json:"openQuestions"`
	BasePercentage  float64      `json:"basePercentage"`
	LiveBonus       float64      `json:"liveBonus"`
	CustomBonus     float64      `json:"customBonus"`
	BonusPercentage float64      `json:"bonusPercentage"`
	TotalPercentage float64      `json:"totalPercentage"`
	Grade           float64      `json:"grade"`
	PassedBase      bool         `json:"passedBase"`
	PassedWithBonus bool         `json:"passedWithBonus"`
	HasAttempt      bool         `json:"hasAttempt"`
	HasBonus        bool         `json:"hasBonus"`
	Details         GradeDetails `json:"details"`
}

type StudentSummary struct {
	StudentID        string        `json:"studentId"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	PhotoURL         string        `json:"photoURL,omitempty"`
	Grades           []GradeResult `json:"grades"`
	DiagnosticGrades []GradeResult `json:"diagnosticGrades"`
	EvaluativeGrades []GradeResult `json:"evaluativeGrades"`
	AverageGrade     float64       `json:"averageGrade"`
	TotalQuizzes     int           `json:"totalQuizzes"`
	AttemptedQuizzes int           `json:"attemptedQuizzes"`
	PassedQuizzes    int           `json:"passedQuizzes"`
	CompletionRate   int           `json:"completionRate"`
}

type ClassSummary struct {
	TotalStudents          int     `json:"totalStudents"`
	TotalQuizzes           int     `json:"totalQuizzes"`
	DiagnosticQuizzes      int     `json:"diagnosticQuizzes"`
	EvaluativeQuizzes      int     `json:"evaluativeQuizzes"`
	VideoQuizzes           int     `json:"videoQuizzes"`
	SlideQuizzes           int     `json:"slideQuizzes"`
	AverageClassGrade      float64 `json:"averageClassGrade"`
	AverageCompletionRate  float64 `json:"averageCompletionRate"`
	StudentsWithAllQuizzes int     `json:"studentsWithAllQuizzes"`
}

type AggregationResult struct {
	CourseID   string            `json:"courseId"`
	Quizzes    []QuizInfo        `json:"quizzes"`
	VideoNames map[string]string `json:"videoNames"`
	SlideNames map[string]string `json:"slideNames"`
	Students   []StudentSummary  `json:"students"`
	Summary    ClassSummary      `json:"summary"`
}

// FindStudent 按学生ID查找汇总
func (r *AggregationResult) FindStudent(studentID string) (*StudentSummary, bool) {
	for i := range r.Students {
		if r.Students[i].StudentID == studentID {
			return &r.Students[i], true
		}
	}
	return nil, false
}
