package quizarena

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"
)

// SubmitResult is the next state after an answer submission.
type SubmitResult struct {
	Duplicate    bool            `json:"duplicate"`
	Completed    bool            `json:"completed"`
	NextQuestion *Question       `json:"next_question,omitempty"`
	Progress     float64         `json:"progress"` // answered / total * 100
	Report       *ProgressReport `json:"report,omitempty"`
}

// SubmitAnswer records the user's choice for one question and advances the
// quiz. A nil selectedOptionID is a skip, scored as incorrect. Re-submitting
// an already-answered question never creates a second row; it just reports
// the next unanswered question as if only the first submission existed.
//
// When the last question is answered the quiz transitions to completed:
// score and completion timestamp are written and the gamification engine
// runs, all inside one transaction.
func (db *DB) SubmitAnswer(quizID, questionID string, selectedOptionID *string, elapsedSeconds int) (*SubmitResult, error) {
	quiz, err := db.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}

	question, err := db.GetQuestion(quizID, questionID)
	if err != nil {
		return nil, err
	}

	exists, err := db.AnswerExists(quizID, questionID)
	if err != nil {
		return nil, err
	}
	if exists {
		return db.nextState(quiz, true)
	}

	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	if elapsedSeconds > MaxAnswerSeconds {
		elapsedSeconds = MaxAnswerSeconds
	}

	answer := &Answer{
		ID:         NewID(12),
		QuizID:     quizID,
		QuestionID: questionID,
		TimeTaken:  elapsedSeconds,
	}
	if selectedOptionID != nil {
		var selected *Option
		for i := range question.Options {
			if question.Options[i].ID == *selectedOptionID {
				selected = &question.Options[i]
				break
			}
		}
		if selected == nil {
			return nil, ErrNotFound
		}
		answer.SelectedOptionID = &selected.ID
		answer.IsCorrect = selected.IsCorrect
	}

	if err := createAnswer(db.conn, answer); err != nil {
		// The unique (quiz, question) constraint is the safety net against a
		// double-submit race; treat the loser as a duplicate submission.
		if again, checkErr := db.AnswerExists(quizID, questionID); checkErr == nil && again {
			return db.nextState(quiz, true)
		}
		return nil, err
	}

	return db.nextState(quiz, false)
}

// nextState determines the question to serve next, finishing the quiz when
// none remains.
func (db *DB) nextState(quiz *Quiz, duplicate bool) (*SubmitResult, error) {
	next, err := db.NextUnansweredQuestion(quiz.ID)
	if err != nil {
		return nil, err
	}

	answered, err := db.countAnswers(quiz.ID)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{
		Duplicate:    duplicate,
		NextQuestion: next,
	}
	if quiz.TotalQuestions > 0 {
		result.Progress = float64(answered) / float64(quiz.TotalQuestions) * 100
	}

	if next != nil {
		return result, nil
	}

	result.Completed = true
	if quiz.Completed() {
		// Already finalized earlier; nothing left to do.
		return result, nil
	}

	report, err := db.completeQuiz(quiz)
	if err != nil {
		return nil, err
	}
	result.Report = report
	return result, nil
}

// completeQuiz writes the final score and completion timestamp and runs the
// gamification pipeline, atomically.
func (db *DB) completeQuiz(quiz *Quiz) (*ProgressReport, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	correct, err := countCorrectAnswers(tx, quiz.ID)
	if err != nil {
		return nil, err
	}

	var totalTime int
	if err := tx.QueryRow(
		"SELECT COALESCE(SUM(time_taken), 0) FROM answers WHERE quiz_id = ?", quiz.ID,
	).Scan(&totalTime); err != nil {
		return nil, fmt.Errorf("failed to sum answer times: %w", err)
	}

	score := scorePercent(correct, quiz.TotalQuestions)
	now := time.Now()
	if _, err := tx.Exec(
		"UPDATE quizzes SET score = ?, completed_at = ? WHERE id = ?",
		score, now, quiz.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to finalize quiz: %w", err)
	}

	report, err := applyQuizCompletion(tx, quiz.UserID, QuizOutcome{
		CorrectCount:   correct,
		TotalTime:      totalTime,
		TotalQuestions: quiz.TotalQuestions,
		ScorePercent:   score,
	}, now)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit completion: %w", err)
	}

	quiz.Score = score
	quiz.CompletedAt = &now
	log.Printf("Quiz %s completed: score=%d%%, correct=%d/%d", quiz.ID, score, correct, quiz.TotalQuestions)
	return report, nil
}

// QuizResults tallies a quiz outcome for display. Skips count as incorrect
// but are reported separately from wrong choices.
type QuizResults struct {
	Correct      int    `json:"correct"`
	Skipped      int    `json:"skipped"`
	Wrong        int    `json:"wrong"`
	ScorePercent int    `json:"score_percent"`
	TotalTime    int    `json:"total_time"`
	Duration     string `json:"duration"`
}

// ComputeResults tallies correct/skipped/wrong and the percentage score for
// a quiz. A stored score of 0 with correct answers present is recomputed and
// persisted, healing quizzes whose completion update was lost.
func (db *DB) ComputeResults(quiz *Quiz) (*QuizResults, error) {
	answers, err := db.GetAnswers(quiz.ID)
	if err != nil {
		return nil, err
	}

	results := &QuizResults{}
	for _, a := range answers {
		switch {
		case a.IsCorrect:
			results.Correct++
		case a.Skipped():
			results.Skipped++
		}
		results.TotalTime += a.TimeTaken
	}
	results.Wrong = quiz.TotalQuestions - results.Correct - results.Skipped
	results.Duration = FormatDuration(results.TotalTime)

	if quiz.Score == 0 && results.Correct > 0 {
		quiz.Score = scorePercent(results.Correct, quiz.TotalQuestions)
		if _, err := db.conn.Exec("UPDATE quizzes SET score = ? WHERE id = ?", quiz.Score, quiz.ID); err != nil {
			return nil, fmt.Errorf("failed to heal quiz score: %w", err)
		}
	}
	results.ScorePercent = quiz.Score
	return results, nil
}

// RetryQuiz deletes every answer of the quiz and clears its score and
// completion state so it can be replayed from the start.
func (db *DB) RetryQuiz(quizID string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM answers WHERE quiz_id = ?", quizID); err != nil {
		return fmt.Errorf("failed to delete answers: %w", err)
	}
	if _, err := tx.Exec("UPDATE quizzes SET score = 0, completed_at = NULL WHERE id = ?", quizID); err != nil {
		return fmt.Errorf("failed to reset quiz: %w", err)
	}

	return tx.Commit()
}

// BackfillExplanations generates remediation text for every wrong or skipped
// answer of the quiz that has none yet, using the given generation service,
// and stores it on the answer row. Best-effort per answer.
func (db *DB) BackfillExplanations(ctx context.Context, gen *QuizGenerator, quizID string) (int, error) {
	answers, err := db.GetAnswers(quizID)
	if err != nil {
		return 0, err
	}

	questions, err := db.GetQuestions(quizID)
	if err != nil {
		return 0, err
	}
	byID := make(map[string]*Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	filled := 0
	for _, a := range answers {
		if a.IsCorrect || a.ErrorExplanation != "" {
			continue
		}
		question := byID[a.QuestionID]
		if question == nil {
			continue
		}

		userText := "Skipped"
		if a.SelectedOptionID != nil {
			for _, opt := range question.Options {
				if opt.ID == *a.SelectedOptionID {
					userText = opt.Text
					break
				}
			}
		}
		correctText := "Unknown"
		if correct := question.CorrectOption(); correct != nil {
			correctText = correct.Text
		}

		explanation := gen.GenerateExplanation(ctx, question.Text, userText, correctText)
		if err := db.UpdateAnswerExplanation(a.ID, explanation); err != nil {
			return filled, err
		}
		filled++
	}
	return filled, nil
}

func (db *DB) countAnswers(quizID string) (int, error) {
	var n int
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM answers WHERE quiz_id = ?", quizID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count answers: %w", err)
	}
	return n, nil
}

// scorePercent rounds correct/total to a whole percentage, 0 for an empty
// quiz.
func scorePercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
