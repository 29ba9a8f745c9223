package quizarena

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupScoringTest(t *testing.T) (*DB, *Quiz, []Question) {
	t.Helper()
	db := newTestDB(t)
	require.NoError(t, db.SeedBadges(DefaultBadges))

	user, err := db.CreateUser("player@example.com", "Player")
	require.NoError(t, err)

	quiz := createTestQuiz(t, db, user.ID)
	questions, err := db.GetQuestions(quiz.ID)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	return db, quiz, questions
}

func TestSubmitAnswerAdvancesAndCompletes(t *testing.T) {
	db, quiz, questions := setupScoringTest(t)

	correct := questions[0].CorrectOption()
	require.NotNil(t, correct)

	result, err := db.SubmitAnswer(quiz.ID, questions[0].ID, &correct.ID, 10)
	require.NoError(t, err)
	assert.False(t, result.Duplicate)
	assert.False(t, result.Completed)
	require.NotNil(t, result.NextQuestion)
	assert.Equal(t, questions[1].ID, result.NextQuestion.ID)
	assert.Equal(t, 50.0, result.Progress)

	// The last answer completes the quiz and runs the gamification pipeline.
	wrong := &questions[1].Options[0]
	require.False(t, wrong.IsCorrect)
	result, err = db.SubmitAnswer(quiz.ID, questions[1].ID, &wrong.ID, 20)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	assert.Nil(t, result.NextQuestion)
	assert.Equal(t, 100.0, result.Progress)

	require.NotNil(t, result.Report)
	// 1 correct of 2 in 30s: 10 base + int((30-15)/5) time bonus.
	assert.Equal(t, 13, result.Report.XPEarned)
	assert.Equal(t, 1, result.Report.CurrentStreak)

	finished, err := db.GetQuiz(quiz.ID)
	require.NoError(t, err)
	assert.True(t, finished.Completed())
	assert.Equal(t, 50, finished.Score)

	profile, err := db.GetProfile(finished.UserID)
	require.NoError(t, err)
	assert.Equal(t, 13, profile.XP)
	assert.Equal(t, 1, profile.TotalCorrectAnswers)
	assert.Equal(t, 30, profile.TotalStudyTime)
	assert.Equal(t, 50, profile.BestScore)
}

func TestSubmitAnswerDuplicateIsNoOp(t *testing.T) {
	db, quiz, questions := setupScoringTest(t)

	correct := questions[0].CorrectOption()
	_, err := db.SubmitAnswer(quiz.ID, questions[0].ID, &correct.ID, 10)
	require.NoError(t, err)

	// A second submission for the same question records nothing and serves
	// the same next question, regardless of the choice sent.
	wrong := &questions[0].Options[0]
	result, err := db.SubmitAnswer(quiz.ID, questions[0].ID, &wrong.ID, 99)
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	require.NotNil(t, result.NextQuestion)
	assert.Equal(t, questions[1].ID, result.NextQuestion.ID)

	answers, err := db.GetAnswers(quiz.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.True(t, answers[0].IsCorrect, "the first submission won")
	assert.Equal(t, 10, answers[0].TimeTaken)
}

func TestSubmitAnswerSkip(t *testing.T) {
	db, quiz, questions := setupScoringTest(t)

	result, err := db.SubmitAnswer(quiz.ID, questions[0].ID, nil, 5)
	require.NoError(t, err)
	assert.False(t, result.Completed)

	answers, err := db.GetAnswers(quiz.ID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.True(t, answers[0].Skipped())
	assert.False(t, answers[0].IsCorrect)
}

func TestSubmitAnswerClampsTime(t *testing.T) {
	db, quiz, questions := setupScoringTest(t)

	_, err := db.SubmitAnswer(quiz.ID, questions[0].ID, nil, 999999)
	require.NoError(t, err)
	_, err = db.SubmitAnswer(quiz.ID, questions[1].ID, nil, -7)
	require.NoError(t, err)

	answers, err := db.GetAnswers(quiz.ID)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, MaxAnswerSeconds, answers[0].TimeTaken)
	assert.Equal(t, 0, answers[1].TimeTaken)
}

func TestSubmitAnswerRejectsForeignOption(t *testing.T) {
	db, quiz, questions := setupScoringTest(t)

	// An option belonging to a different question is not a valid choice.
	foreign := questions[1].Options[0].ID
	_, err := db.SubmitAnswer(quiz.ID, questions[0].ID, &foreign, 5)
	assert.ErrorIs(t, err, ErrNotFound)

	bogus := "nope"
	_, err = db.SubmitAnswer(quiz.ID, questions[0].ID, &bogus, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComputeResults(t *testing.T) {
	db, quiz, questions := setupScoringTest(t)

	correct := questions[0].CorrectOption()
	_, err := db.SubmitAnswer(quiz.ID, questions[0].ID, &correct.ID, 40)
	require.NoError(t, err)
	_, err = db.SubmitAnswer(quiz.ID, questions[1].ID, nil, 20)
	require.NoError(t, err)

	finished, err := db.GetQuiz(quiz.ID)
	require.NoError(t, err)

	results, err := db.ComputeResults(finished)
	require.NoError(t, err)
	assert.Equal(t, 1, results.Correct)
	assert.Equal(t, 1, results.Skipped)
	assert.Equal(t, 0, results.Wrong)
	assert.Equal(t, 50, results.ScorePercent)
	assert.Equal(t, 60, results.TotalTime)
	assert.Equal(t, "1m 0s", results.Duration)
}

func TestComputeResultsHealsLostScore(t *testing.T) {
	db, quiz, questions := setupScoringTest(t)

	correct := questions[0].CorrectOption()
	_, err := db.SubmitAnswer(quiz.ID, questions[0].ID, &correct.ID, 10)
	require.NoError(t, err)
	_, err = db.SubmitAnswer(quiz.ID, questions[1].ID, nil, 10)
	require.NoError(t, err)

	// Simulate a completion whose score update was lost.
	_, err = db.conn.Exec("UPDATE quizzes SET score = 0 WHERE id = ?", quiz.ID)
	require.NoError(t, err)

	broken, err := db.GetQuiz(quiz.ID)
	require.NoError(t, err)
	require.Equal(t, 0, broken.Score)

	results, err := db.ComputeResults(broken)
	require.NoError(t, err)
	assert.Equal(t, 50, results.ScorePercent)

	healed, err := db.GetQuiz(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, healed.Score)
}

func TestRetryQuiz(t *testing.T) {
	db, quiz, questions := setupScoringTest(t)

	correct := questions[0].CorrectOption()
	_, err := db.SubmitAnswer(quiz.ID, questions[0].ID, &correct.ID, 10)
	require.NoError(t, err)
	_, err = db.SubmitAnswer(quiz.ID, questions[1].ID, nil, 10)
	require.NoError(t, err)

	require.NoError(t, db.RetryQuiz(quiz.ID))

	reset, err := db.GetQuiz(quiz.ID)
	require.NoError(t, err)
	assert.False(t, reset.Completed())
	assert.Equal(t, 0, reset.Score)

	answers, err := db.GetAnswers(quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, answers)

	// The quiz replays from the first question.
	next, err := db.NextUnansweredQuestion(quiz.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, questions[0].ID, next.ID)
}

func TestBackfillExplanations(t *testing.T) {
	db, quiz, questions := setupScoringTest(t)

	correct := questions[0].CorrectOption()
	_, err := db.SubmitAnswer(quiz.ID, questions[0].ID, &correct.ID, 10)
	require.NoError(t, err)
	wrong := &questions[1].Options[0]
	_, err = db.SubmitAnswer(quiz.ID, questions[1].ID, &wrong.ID, 10)
	require.NoError(t, err)

	gen := NewQuizGenerator(&stubGateway{textResponse: "Capacity counts the backing array."})

	filled, err := db.BackfillExplanations(context.Background(), gen, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, filled, "only the wrong answer needs an explanation")

	answers, err := db.GetAnswers(quiz.ID)
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Empty(t, answers[0].ErrorExplanation)
	assert.Equal(t, "Capacity counts the backing array.", answers[1].ErrorExplanation)

	// A second pass finds nothing left to fill.
	filled, err = db.BackfillExplanations(context.Background(), gen, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, filled)
}

func TestScorePercent(t *testing.T) {
	assert.Equal(t, 0, scorePercent(0, 0))
	assert.Equal(t, 0, scorePercent(3, 0))
	assert.Equal(t, 50, scorePercent(1, 2))
	assert.Equal(t, 67, scorePercent(2, 3))
	assert.Equal(t, 100, scorePercent(5, 5))
}
