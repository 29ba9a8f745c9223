package quizarena

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a throwaway sqlite database with the full schema.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.CloseDB() })
	require.NoError(t, db.CreateTables())
	return db
}

// sampleQuestions returns two shaped questions ready for persistence.
func sampleQuestions() []GeneratedQuestion {
	return []GeneratedQuestion{
		{
			Text:        "Which keyword starts a goroutine?",
			Explanation: "The go statement runs the call concurrently.",
			Options: []GeneratedOption{
				{Text: "async"},
				{Text: "go", IsCorrect: true},
				{Text: "spawn"},
				{Text: "thread"},
			},
		},
		{
			Text:        "What does cap() return for a slice?",
			CodeSnippet: "s := make([]int, 2, 8)",
			Options: []GeneratedOption{
				{Text: "2"},
				{Text: "8", IsCorrect: true},
				{Text: "10"},
				{Text: "0"},
			},
		},
	}
}

// createTestQuiz persists a quiz with sampleQuestions for the given user.
func createTestQuiz(t *testing.T, db *DB, userID string) *Quiz {
	t.Helper()
	quiz := &Quiz{
		ID:         NewID(8),
		UserID:     userID,
		Type:       QuizTypeTechnical,
		Language:   "Go",
		Topic:      "Concurrency",
		Difficulty: DifficultyIntermediate,
		ModelUsed:  "gpt-4o-mini",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, db.CreateQuizWithQuestions(quiz, sampleQuestions()))
	return quiz
}

func TestCreateUserAndProfile(t *testing.T) {
	db := newTestDB(t)

	user, err := db.CreateUser("alice@example.com", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)

	found, err := db.GetUserByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "Alice", found.DisplayName)

	_, err = db.GetUserByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	// The profile is created alongside the user, starting at level 1.
	profile, err := db.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.Level)
	assert.Equal(t, 0, profile.XP)
	assert.Nil(t, profile.LastQuizDate)

	// Duplicate emails are rejected by the unique constraint.
	_, err = db.CreateUser("alice@example.com", "Alice Again")
	assert.Error(t, err)
}

func TestProfileRoundTrip(t *testing.T) {
	db := newTestDB(t)
	user, err := db.CreateUser("bob@example.com", "Bob")
	require.NoError(t, err)

	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	profile := &UserProfile{
		UserID:              user.ID,
		XP:                  250,
		Level:               2,
		CurrentStreak:       3,
		LongestStreak:       9,
		LastQuizDate:        &date,
		TotalCorrectAnswers: 40,
		TotalStudyTime:      1200,
		BestScore:           90,
	}
	require.NoError(t, db.UpdateProfile(profile))

	loaded, err := db.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, profile.XP, loaded.XP)
	assert.Equal(t, profile.LongestStreak, loaded.LongestStreak)
	require.NotNil(t, loaded.LastQuizDate)
	assert.Equal(t, date, *loaded.LastQuizDate)
}

func TestModelRegistry(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.SeedModels(DefaultModels))

	models, err := db.ListActiveModels()
	require.NoError(t, err)
	require.Len(t, models, len(DefaultModels))

	// Seeding again must not duplicate rows.
	require.NoError(t, db.SeedModels(DefaultModels))
	models, err = db.ListActiveModels()
	require.NoError(t, err)
	assert.Len(t, models, len(DefaultModels))

	def, err := db.DefaultModel()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", def.ModelName)
}

func TestSetDefaultModelKeepsSingleDefault(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.SeedModels(DefaultModels))

	models, err := db.ListActiveModels()
	require.NoError(t, err)

	var target *AIModel
	for i := range models {
		if !models[i].IsDefault {
			target = &models[i]
			break
		}
	}
	require.NotNil(t, target)

	require.NoError(t, db.SetDefaultModel(target.ID))

	def, err := db.DefaultModel()
	require.NoError(t, err)
	assert.Equal(t, target.ID, def.ID)

	models, err = db.ListActiveModels()
	require.NoError(t, err)
	defaults := 0
	for _, m := range models {
		if m.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	assert.ErrorIs(t, db.SetDefaultModel("missing"), ErrNotFound)
}

func TestCreateQuizWithQuestions(t *testing.T) {
	db := newTestDB(t)
	user, err := db.CreateUser("carol@example.com", "Carol")
	require.NoError(t, err)

	quiz := createTestQuiz(t, db, user.ID)
	assert.Equal(t, 2, quiz.TotalQuestions)

	loaded, err := db.GetQuiz(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.Topic, loaded.Topic)
	assert.Equal(t, "gpt-4o-mini", loaded.ModelUsed)
	assert.False(t, loaded.Completed())

	questions, err := db.GetQuestions(quiz.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Which keyword starts a goroutine?", questions[0].Text)
	require.Len(t, questions[0].Options, 4)

	correct := questions[0].CorrectOption()
	require.NotNil(t, correct)
	assert.Equal(t, "go", correct.Text)
}

func TestGetQuizForUserOwnership(t *testing.T) {
	db := newTestDB(t)
	owner, err := db.CreateUser("owner@example.com", "Owner")
	require.NoError(t, err)
	other, err := db.CreateUser("other@example.com", "Other")
	require.NoError(t, err)

	quiz := createTestQuiz(t, db, owner.ID)

	_, err = db.GetQuizForUser(quiz.ID, owner.ID)
	assert.NoError(t, err)

	_, err = db.GetQuizForUser(quiz.ID, other.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = db.GetQuizForUser("missing", owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListQuizzesForUser(t *testing.T) {
	db := newTestDB(t)
	user, err := db.CreateUser("dave@example.com", "Dave")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		quiz := &Quiz{
			ID:         NewID(8),
			UserID:     user.ID,
			Type:       QuizTypeGeneral,
			Language:   "History",
			Topic:      "Rome",
			Difficulty: DifficultyBeginner,
			CreatedAt:  time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.CreateQuizWithQuestions(quiz, sampleQuestions()))
	}

	quizzes, err := db.ListQuizzesForUser(user.ID, 0)
	require.NoError(t, err)
	require.Len(t, quizzes, 3)
	assert.True(t, quizzes[0].CreatedAt.After(quizzes[2].CreatedAt), "newest first")

	limited, err := db.ListQuizzesForUser(user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestNextUnansweredQuestion(t *testing.T) {
	db := newTestDB(t)
	user, err := db.CreateUser("eve@example.com", "Eve")
	require.NoError(t, err)
	quiz := createTestQuiz(t, db, user.ID)

	questions, err := db.GetQuestions(quiz.ID)
	require.NoError(t, err)

	next, err := db.NextUnansweredQuestion(quiz.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, questions[0].ID, next.ID)

	require.NoError(t, createAnswer(db.conn, &Answer{
		ID: NewID(12), QuizID: quiz.ID, QuestionID: questions[0].ID,
	}))

	next, err = db.NextUnansweredQuestion(quiz.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, questions[1].ID, next.ID)

	require.NoError(t, createAnswer(db.conn, &Answer{
		ID: NewID(12), QuizID: quiz.ID, QuestionID: questions[1].ID,
	}))

	next, err = db.NextUnansweredQuestion(quiz.ID)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestSeedBadgesIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.SeedBadges(DefaultBadges))
	require.NoError(t, db.SeedBadges(DefaultBadges))

	user, err := db.CreateUser("frank@example.com", "Frank")
	require.NoError(t, err)

	unearned, err := db.GetUnearnedBadges(user.ID)
	require.NoError(t, err)
	assert.Len(t, unearned, len(DefaultBadges))
}

func TestUserQuizStats(t *testing.T) {
	db := newTestDB(t)
	user, err := db.CreateUser("grace@example.com", "Grace")
	require.NoError(t, err)

	stats, err := db.UserQuizStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalQuizzes)
	assert.Equal(t, 0.0, stats.AverageScore)

	createTestQuiz(t, db, user.ID)
	createTestQuiz(t, db, user.ID)

	stats, err = db.UserQuizStats(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalQuizzes)
	assert.Equal(t, 2, stats.IncompleteCount)
}
