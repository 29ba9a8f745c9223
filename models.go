package quizarena

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// QuizType distinguishes programming quizzes from general-knowledge ones.
type QuizType string

const (
	QuizTypeTechnical QuizType = "technical"
	QuizTypeGeneral   QuizType = "general"
)

// Difficulty levels accepted for quiz generation.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyExpert       = "expert"
)

// Limits applied to user-supplied and AI-supplied values.
const (
	MaxTopicLen      = 255
	MaxLanguageLen   = 50
	MaxQuestionLen   = 2000
	MaxOptionLen     = 255
	MaxMessageLen    = 500
	MinQuestionCount = 1
	MaxQuestionCount = 20
	MaxAnswerSeconds = 3600
)

// Quiz represents one generated quiz session owned by a user.
// Score is a percentage (0-100) and is meaningful only once CompletedAt is set.
type Quiz struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Type           QuizType   `json:"quiz_type"`
	Language       string     `json:"language"` // language or subject label
	Topic          string     `json:"topic"`
	Difficulty     string     `json:"difficulty"`
	TotalQuestions int        `json:"total_questions"`
	ModelUsed      string     `json:"model_used"`
	Score          int        `json:"score"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether every question of the quiz has been answered.
func (q *Quiz) Completed() bool {
	return q.CompletedAt != nil
}

// Question belongs to exactly one quiz. Questions are created in bulk at
// generation time and are immutable afterwards except for explanation text.
type Question struct {
	ID          string   `json:"id"`
	QuizID      string   `json:"quiz_id"`
	Text        string   `json:"text"`
	CodeSnippet string   `json:"code_snippet,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Options     []Option `json:"options,omitempty"`
}

// CorrectOption returns the option marked correct, or nil if none is loaded.
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

// Option is one multiple-choice answer for a question. Exactly one option
// per question carries IsCorrect=true; generation enforces this.
type Option struct {
	ID         string `json:"id"`
	QuestionID string `json:"question_id"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"is_correct"`
}

// Answer records the user's choice for one question of one quiz. A nil
// SelectedOptionID means the question was skipped. At most one answer may
// exist per (quiz, question) pair.
type Answer struct {
	ID               string  `json:"id"`
	QuizID           string  `json:"quiz_id"`
	QuestionID       string  `json:"question_id"`
	SelectedOptionID *string `json:"selected_option_id,omitempty"`
	IsCorrect        bool    `json:"is_correct"`
	TimeTaken        int     `json:"time_taken"` // seconds, clamped to [0, MaxAnswerSeconds]
	ErrorExplanation string  `json:"error_explanation,omitempty"`
}

// Skipped reports whether the answer was a blank submission.
func (a *Answer) Skipped() bool {
	return a.SelectedOptionID == nil
}

// User is a minimal account record. Password handling lives outside this
// module; the server only keeps a session identity.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserProfile holds the gamification state for one user. It is created
// together with the user and updated whenever a quiz completes.
type UserProfile struct {
	UserID              string     `json:"user_id"`
	XP                  int        `json:"xp"`
	Level               int        `json:"level"`
	CurrentStreak       int        `json:"current_streak"`
	LongestStreak       int        `json:"longest_streak"`
	LastQuizDate        *time.Time `json:"last_quiz_date,omitempty"` // calendar date, time part zero
	TotalCorrectAnswers int        `json:"total_correct_answers"`
	TotalStudyTime      int        `json:"total_study_time"` // seconds
	BestScore           int        `json:"best_score"`
}

// XPForNextLevel returns the XP required to go from the current level to the
// next one. Thresholds grow linearly: level N to N+1 costs N*100.
func (p *UserProfile) XPForNextLevel() int {
	return p.Level * 100
}

// XPInCurrentLevel returns the XP earned since the current level was reached.
func (p *UserProfile) XPInCurrentLevel() int {
	consumed := 0
	for l := 1; l < p.Level; l++ {
		consumed += l * 100
	}
	return p.XP - consumed
}

// XPProgressPercent returns progress toward the next level as 0-100.
func (p *UserProfile) XPProgressPercent() int {
	next := p.XPForNextLevel()
	if next == 0 {
		return 100
	}
	pct := p.XPInCurrentLevel() * 100 / next
	if pct > 100 {
		pct = 100
	}
	return pct
}

// Badge requirement kinds.
const (
	RequireLevel   = "level"
	RequireStreak  = "streak"
	RequireScore   = "score"
	RequireCorrect = "correct"
)

// Badge is a named achievement unlocked when a profile metric crosses a
// threshold.
type Badge struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Icon             string `json:"icon"`
	Description      string `json:"description"`
	RequirementType  string `json:"requirement_type"`
	RequirementValue int    `json:"requirement_value"`
}

// UserBadge marks a badge as earned by a user. A (user, badge) pair is
// awarded at most once.
type UserBadge struct {
	UserID   string    `json:"user_id"`
	BadgeID  string    `json:"badge_id"`
	EarnedAt time.Time `json:"earned_at"`
}

// AIModel is a selectable generation model. At most one row is marked
// default at a time.
type AIModel struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ModelName   string `json:"model_name"` // the API string, e.g. "gpt-4o-mini"
	IsActive    bool   `json:"is_active"`
	IsDefault   bool   `json:"is_default"`
}

// NormalizeDifficulty lowercases and validates a difficulty label, falling
// back to intermediate for anything unrecognized.
func NormalizeDifficulty(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case DifficultyBeginner:
		return DifficultyBeginner
	case DifficultyExpert:
		return DifficultyExpert
	default:
		return DifficultyIntermediate
	}
}

// ClampQuestionCount bounds a requested question count to [1, 20], using the
// default of 5 for non-positive input.
func ClampQuestionCount(n int) int {
	if n <= 0 {
		return 5
	}
	if n > MaxQuestionCount {
		return MaxQuestionCount
	}
	return n
}

// Truncate cuts s to at most n bytes.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// FormatDuration renders a second count as "1h 2m 3s", "2m 30s" or "45s".
func FormatDuration(seconds int) string {
	switch {
	case seconds >= 3600:
		return strconv.Itoa(seconds/3600) + "h " + strconv.Itoa((seconds%3600)/60) + "m " + strconv.Itoa(seconds%60) + "s"
	case seconds >= 60:
		return strconv.Itoa(seconds/60) + "m " + strconv.Itoa(seconds%60) + "s"
	default:
		return strconv.Itoa(seconds) + "s"
	}
}

const idCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewID generates a short random identifier in the same alphabet used for
// quiz and question IDs.
func NewID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = idCharset[rand.Intn(len(idCharset))]
	}
	return string(b)
}
