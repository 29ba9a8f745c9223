package quizarena

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Sentinel errors for lookup and ownership checks.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
)

const dateLayout = "2006-01-02"

// dbtx is satisfied by both *sql.DB and *sql.Tx so helpers can run inside or
// outside a transaction.
type dbtx interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// DB is the quiz database connection.
type DB struct {
	conn *sql.DB
}

// OpenDB opens (and pings) a sqlite database at the given path. Foreign keys
// are enabled so the Quiz -> Question -> Option -> Answer ownership tree
// cascades on delete.
func OpenDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{conn: conn}, nil
}

// CloseDB closes the database connection.
func (db *DB) CloseDB() error {
	return db.conn.Close()
}

// CreateTables creates the schema if it does not exist yet.
func (db *DB) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			display_name TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			xp INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 1,
			current_streak INTEGER NOT NULL DEFAULT 0,
			longest_streak INTEGER NOT NULL DEFAULT 0,
			last_quiz_date TEXT,
			total_correct_answers INTEGER NOT NULL DEFAULT 0,
			total_study_time INTEGER NOT NULL DEFAULT 0,
			best_score INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS ai_models (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			model_name TEXT NOT NULL UNIQUE,
			is_active INTEGER NOT NULL DEFAULT 1,
			is_default INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			quiz_type TEXT NOT NULL,
			language TEXT NOT NULL,
			topic TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			total_questions INTEGER NOT NULL DEFAULT 0,
			model_used TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			completed_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			text TEXT NOT NULL,
			code_snippet TEXT NOT NULL DEFAULT '',
			explanation TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS options (
			id TEXT PRIMARY KEY,
			question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			text TEXT NOT NULL,
			is_correct INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS answers (
			id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
			question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
			selected_option_id TEXT REFERENCES options(id),
			is_correct INTEGER NOT NULL DEFAULT 0,
			time_taken INTEGER NOT NULL DEFAULT 0,
			error_explanation TEXT NOT NULL DEFAULT '',
			UNIQUE(quiz_id, question_id)
		)`,
		`CREATE TABLE IF NOT EXISTS badges (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			icon TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			requirement_type TEXT NOT NULL,
			requirement_value INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_badges (
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			badge_id TEXT NOT NULL REFERENCES badges(id) ON DELETE CASCADE,
			earned_at DATETIME NOT NULL,
			UNIQUE(user_id, badge_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_user ON quizzes(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_quiz ON questions(quiz_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_answers_quiz ON answers(quiz_id, is_correct)`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Users & profiles

// CreateUser inserts a user together with its empty profile. Both writes
// happen in one transaction.
func (db *DB) CreateUser(email, displayName string) (*User, error) {
	user := &User{
		ID:          NewID(12),
		Email:       email,
		DisplayName: displayName,
		CreatedAt:   time.Now(),
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO users (id, email, display_name, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Email, user.DisplayName, user.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if _, err := tx.Exec(
		"INSERT INTO profiles (user_id, level) VALUES (?, 1)", user.ID,
	); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user: %w", err)
	}
	return user, nil
}

// GetUserByEmail looks a user up by email.
func (db *DB) GetUserByEmail(email string) (*User, error) {
	var user User
	err := db.conn.QueryRow(
		"SELECT id, email, display_name, created_at FROM users WHERE email = ?", email,
	).Scan(&user.ID, &user.Email, &user.DisplayName, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetProfile loads the gamification profile for a user.
func (db *DB) GetProfile(userID string) (*UserProfile, error) {
	return getProfile(db.conn, userID)
}

func getProfile(q dbtx, userID string) (*UserProfile, error) {
	var profile UserProfile
	var lastDate sql.NullString
	err := q.QueryRow(
		`SELECT user_id, xp, level, current_streak, longest_streak, last_quiz_date,
		        total_correct_answers, total_study_time, best_score
		 FROM profiles WHERE user_id = ?`, userID,
	).Scan(&profile.UserID, &profile.XP, &profile.Level, &profile.CurrentStreak,
		&profile.LongestStreak, &lastDate, &profile.TotalCorrectAnswers,
		&profile.TotalStudyTime, &profile.BestScore)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if lastDate.Valid {
		d, err := time.ParseInLocation(dateLayout, lastDate.String, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse last quiz date: %w", err)
		}
		profile.LastQuizDate = &d
	}
	return &profile, nil
}

// UpdateProfile persists all mutable profile fields.
func (db *DB) UpdateProfile(profile *UserProfile) error {
	return updateProfile(db.conn, profile)
}

func updateProfile(q dbtx, profile *UserProfile) error {
	var lastDate interface{}
	if profile.LastQuizDate != nil {
		lastDate = profile.LastQuizDate.Format(dateLayout)
	}
	_, err := q.Exec(
		`UPDATE profiles SET xp = ?, level = ?, current_streak = ?, longest_streak = ?,
		        last_quiz_date = ?, total_correct_answers = ?, total_study_time = ?, best_score = ?
		 WHERE user_id = ?`,
		profile.XP, profile.Level, profile.CurrentStreak, profile.LongestStreak,
		lastDate, profile.TotalCorrectAnswers, profile.TotalStudyTime, profile.BestScore,
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// AI model registry

// SeedModels upserts the selectable models and marks the named one default.
func (db *DB) SeedModels(models []AIModel) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range models {
		if _, err := tx.Exec(
			`INSERT INTO ai_models (id, display_name, model_name, is_active, is_default)
			 VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT(model_name) DO UPDATE SET display_name = excluded.display_name, is_active = excluded.is_active`,
			NewID(8), m.DisplayName, m.ModelName, m.IsActive, m.IsDefault,
		); err != nil {
			return fmt.Errorf("failed to seed model %s: %w", m.ModelName, err)
		}
	}

	return tx.Commit()
}

// ListActiveModels returns the models selectable on the setup screen.
func (db *DB) ListActiveModels() ([]AIModel, error) {
	rows, err := db.conn.Query(
		"SELECT id, display_name, model_name, is_active, is_default FROM ai_models WHERE is_active = 1 ORDER BY display_name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var models []AIModel
	for rows.Next() {
		var m AIModel
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.ModelName, &m.IsActive, &m.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan model: %w", err)
		}
		models = append(models, m)
	}
	return models, rows.Err()
}

// GetActiveModel returns an active model by id.
func (db *DB) GetActiveModel(id string) (*AIModel, error) {
	var m AIModel
	err := db.conn.QueryRow(
		"SELECT id, display_name, model_name, is_active, is_default FROM ai_models WHERE id = ? AND is_active = 1", id,
	).Scan(&m.ID, &m.DisplayName, &m.ModelName, &m.IsActive, &m.IsDefault)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model: %w", err)
	}
	return &m, nil
}

// DefaultModel returns the model currently marked default, if any.
func (db *DB) DefaultModel() (*AIModel, error) {
	var m AIModel
	err := db.conn.QueryRow(
		"SELECT id, display_name, model_name, is_active, is_default FROM ai_models WHERE is_default = 1 AND is_active = 1",
	).Scan(&m.ID, &m.DisplayName, &m.ModelName, &m.IsActive, &m.IsDefault)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default model: %w", err)
	}
	return &m, nil
}

// SetDefaultModel marks one model default. Other defaults are cleared first,
// inside the same transaction, so at most one default exists at a time.
func (db *DB) SetDefaultModel(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("UPDATE ai_models SET is_default = 0 WHERE id != ?", id); err != nil {
		return fmt.Errorf("failed to clear defaults: %w", err)
	}

	res, err := tx.Exec("UPDATE ai_models SET is_default = 1 WHERE id = ? AND is_active = 1", id)
	if err != nil {
		return fmt.Errorf("failed to set default: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Quizzes & questions

// CreateQuizWithQuestions persists a quiz together with its questions and
// options in one all-or-nothing transaction.
func (db *DB) CreateQuizWithQuestions(quiz *Quiz, generated []GeneratedQuestion) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	quiz.TotalQuestions = len(generated)
	if _, err := tx.Exec(
		`INSERT INTO quizzes (id, user_id, quiz_type, language, topic, difficulty, total_questions, model_used, score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)`,
		quiz.ID, quiz.UserID, quiz.Type, quiz.Language, quiz.Topic, quiz.Difficulty,
		quiz.TotalQuestions, quiz.ModelUsed, quiz.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}

	for i, gq := range generated {
		questionID := NewID(8)
		if _, err := tx.Exec(
			"INSERT INTO questions (id, quiz_id, position, text, code_snippet, explanation) VALUES (?, ?, ?, ?, ?, ?)",
			questionID, quiz.ID, i+1, gq.Text, gq.CodeSnippet, gq.Explanation,
		); err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}

		for _, opt := range gq.Options {
			if _, err := tx.Exec(
				"INSERT INTO options (id, question_id, text, is_correct) VALUES (?, ?, ?, ?)",
				NewID(8), questionID, opt.Text, opt.IsCorrect,
			); err != nil {
				return fmt.Errorf("failed to create option: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quiz: %w", err)
	}
	return nil
}

func scanQuiz(row *sql.Row) (*Quiz, error) {
	var quiz Quiz
	var completedAt sql.NullTime
	err := row.Scan(&quiz.ID, &quiz.UserID, &quiz.Type, &quiz.Language, &quiz.Topic,
		&quiz.Difficulty, &quiz.TotalQuestions, &quiz.ModelUsed, &quiz.Score,
		&quiz.CreatedAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan quiz: %w", err)
	}
	if completedAt.Valid {
		quiz.CompletedAt = &completedAt.Time
	}
	return &quiz, nil
}

const quizColumns = "id, user_id, quiz_type, language, topic, difficulty, total_questions, model_used, score, created_at, completed_at"

// GetQuiz retrieves a quiz by id.
func (db *DB) GetQuiz(id string) (*Quiz, error) {
	return scanQuiz(db.conn.QueryRow("SELECT "+quizColumns+" FROM quizzes WHERE id = ?", id))
}

// GetQuizForUser retrieves a quiz and enforces ownership: ErrNotFound when
// the quiz does not exist, ErrForbidden when it belongs to someone else.
func (db *DB) GetQuizForUser(id, userID string) (*Quiz, error) {
	quiz, err := db.GetQuiz(id)
	if err != nil {
		return nil, err
	}
	if quiz.UserID != userID {
		return nil, ErrForbidden
	}
	return quiz, nil
}

// ListQuizzesForUser returns the user's quizzes, newest first.
func (db *DB) ListQuizzesForUser(userID string, limit int) ([]Quiz, error) {
	query := "SELECT " + quizColumns + " FROM quizzes WHERE user_id = ? ORDER BY created_at DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []Quiz
	for rows.Next() {
		var quiz Quiz
		var completedAt sql.NullTime
		if err := rows.Scan(&quiz.ID, &quiz.UserID, &quiz.Type, &quiz.Language, &quiz.Topic,
			&quiz.Difficulty, &quiz.TotalQuestions, &quiz.ModelUsed, &quiz.Score,
			&quiz.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quiz: %w", err)
		}
		if completedAt.Valid {
			quiz.CompletedAt = &completedAt.Time
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, rows.Err()
}

// QuizStats are the dashboard aggregates over a user's quiz history.
type QuizStats struct {
	TotalQuizzes    int     `json:"total_quizzes"`
	AverageScore    float64 `json:"average_score"`
	IncompleteCount int     `json:"incomplete_count"`
}

// UserQuizStats computes history aggregates for the dashboard.
func (db *DB) UserQuizStats(userID string) (*QuizStats, error) {
	var stats QuizStats
	var avg sql.NullFloat64
	err := db.conn.QueryRow(
		`SELECT COUNT(*), AVG(score), COALESCE(SUM(CASE WHEN completed_at IS NULL THEN 1 ELSE 0 END), 0)
		 FROM quizzes WHERE user_id = ?`, userID,
	).Scan(&stats.TotalQuizzes, &avg, &stats.IncompleteCount)
	if err != nil {
		return nil, fmt.Errorf("failed to compute quiz stats: %w", err)
	}
	if avg.Valid {
		stats.AverageScore = avg.Float64
	}
	return &stats, nil
}

// GetQuestions returns all questions of a quiz, in order, with options.
func (db *DB) GetQuestions(quizID string) ([]Question, error) {
	rows, err := db.conn.Query(
		"SELECT id, quiz_id, text, code_snippet, explanation FROM questions WHERE quiz_id = ? ORDER BY position",
		quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	defer rows.Close()

	var questions []Question
	for rows.Next() {
		var q Question
		if err := rows.Scan(&q.ID, &q.QuizID, &q.Text, &q.CodeSnippet, &q.Explanation); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	for i := range questions {
		opts, err := db.getOptions(questions[i].ID)
		if err != nil {
			return nil, err
		}
		questions[i].Options = opts
	}
	return questions, nil
}

// GetQuestion returns one question of a quiz, with options. ErrNotFound when
// the question does not exist or belongs to a different quiz.
func (db *DB) GetQuestion(quizID, questionID string) (*Question, error) {
	var q Question
	err := db.conn.QueryRow(
		"SELECT id, quiz_id, text, code_snippet, explanation FROM questions WHERE id = ? AND quiz_id = ?",
		questionID, quizID,
	).Scan(&q.ID, &q.QuizID, &q.Text, &q.CodeSnippet, &q.Explanation)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	opts, err := db.getOptions(q.ID)
	if err != nil {
		return nil, err
	}
	q.Options = opts
	return &q, nil
}

func (db *DB) getOptions(questionID string) ([]Option, error) {
	rows, err := db.conn.Query(
		"SELECT id, question_id, text, is_correct FROM options WHERE question_id = ? ORDER BY rowid",
		questionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get options: %w", err)
	}
	defer rows.Close()

	var options []Option
	for rows.Next() {
		var opt Option
		if err := rows.Scan(&opt.ID, &opt.QuestionID, &opt.Text, &opt.IsCorrect); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

// NextUnansweredQuestion returns the first question of the quiz without an
// answer, or nil when every question has one.
func (db *DB) NextUnansweredQuestion(quizID string) (*Question, error) {
	var questionID string
	err := db.conn.QueryRow(
		`SELECT q.id FROM questions q
		 WHERE q.quiz_id = ? AND NOT EXISTS (
		     SELECT 1 FROM answers a WHERE a.quiz_id = q.quiz_id AND a.question_id = q.id
		 )
		 ORDER BY q.position LIMIT 1`, quizID,
	).Scan(&questionID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find next question: %w", err)
	}
	return db.GetQuestion(quizID, questionID)
}

// ---------------------------------------------------------------------------
// Answers

// GetAnswers returns all answers recorded for a quiz, in question order.
func (db *DB) GetAnswers(quizID string) ([]Answer, error) {
	rows, err := db.conn.Query(
		`SELECT a.id, a.quiz_id, a.question_id, a.selected_option_id, a.is_correct, a.time_taken, a.error_explanation
		 FROM answers a JOIN questions q ON q.id = a.question_id
		 WHERE a.quiz_id = ? ORDER BY q.position`, quizID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	defer rows.Close()

	var answers []Answer
	for rows.Next() {
		var a Answer
		var selected sql.NullString
		if err := rows.Scan(&a.ID, &a.QuizID, &a.QuestionID, &selected, &a.IsCorrect, &a.TimeTaken, &a.ErrorExplanation); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		if selected.Valid {
			a.SelectedOptionID = &selected.String
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}

// AnswerExists reports whether the (quiz, question) pair already has an
// answer row.
func (db *DB) AnswerExists(quizID, questionID string) (bool, error) {
	var exists bool
	err := db.conn.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM answers WHERE quiz_id = ? AND question_id = ?)",
		quizID, questionID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check answer: %w", err)
	}
	return exists, nil
}

func createAnswer(q dbtx, answer *Answer) error {
	var selected interface{}
	if answer.SelectedOptionID != nil {
		selected = *answer.SelectedOptionID
	}
	_, err := q.Exec(
		`INSERT INTO answers (id, quiz_id, question_id, selected_option_id, is_correct, time_taken, error_explanation)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		answer.ID, answer.QuizID, answer.QuestionID, selected, answer.IsCorrect, answer.TimeTaken, answer.ErrorExplanation,
	)
	if err != nil {
		return fmt.Errorf("failed to create answer: %w", err)
	}
	return nil
}

func countCorrectAnswers(q dbtx, quizID string) (int, error) {
	var n int
	err := q.QueryRow("SELECT COUNT(*) FROM answers WHERE quiz_id = ? AND is_correct = 1", quizID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count correct answers: %w", err)
	}
	return n, nil
}

// UpdateAnswerExplanation stores remediation text on an answer row.
func (db *DB) UpdateAnswerExplanation(answerID, explanation string) error {
	_, err := db.conn.Exec("UPDATE answers SET error_explanation = ? WHERE id = ?", explanation, answerID)
	if err != nil {
		return fmt.Errorf("failed to update explanation: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Badges

// SeedBadges inserts badge definitions that do not exist yet.
func (db *DB) SeedBadges(badges []Badge) error {
	for _, b := range badges {
		if _, err := db.conn.Exec(
			`INSERT INTO badges (id, name, icon, description, requirement_type, requirement_value)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(name) DO NOTHING`,
			NewID(8), b.Name, b.Icon, b.Description, b.RequirementType, b.RequirementValue,
		); err != nil {
			return fmt.Errorf("failed to seed badge %s: %w", b.Name, err)
		}
	}
	return nil
}

// GetUnearnedBadges lists every badge the user has not earned yet.
func (db *DB) GetUnearnedBadges(userID string) ([]Badge, error) {
	return getUnearnedBadges(db.conn, userID)
}

func getUnearnedBadges(q dbtx, userID string) ([]Badge, error) {
	rows, err := q.Query(
		`SELECT b.id, b.name, b.icon, b.description, b.requirement_type, b.requirement_value
		 FROM badges b
		 WHERE NOT EXISTS (SELECT 1 FROM user_badges ub WHERE ub.badge_id = b.id AND ub.user_id = ?)`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	var badges []Badge
	for rows.Next() {
		var b Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Icon, &b.Description, &b.RequirementType, &b.RequirementValue); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}

// CreateUserBadge records a badge as earned. The unique constraint on
// (user, badge) rejects duplicates.
func (db *DB) CreateUserBadge(userID, badgeID string, earnedAt time.Time) error {
	return createUserBadge(db.conn, userID, badgeID, earnedAt)
}

func createUserBadge(q dbtx, userID, badgeID string, earnedAt time.Time) error {
	_, err := q.Exec(
		"INSERT INTO user_badges (user_id, badge_id, earned_at) VALUES (?, ?, ?)",
		userID, badgeID, earnedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to award badge: %w", err)
	}
	return nil
}

// EarnedBadge is a badge joined with when the user earned it.
type EarnedBadge struct {
	Badge
	EarnedAt time.Time `json:"earned_at"`
}

// ListEarnedBadges returns the user's badges, most recent first.
func (db *DB) ListEarnedBadges(userID string, limit int) ([]EarnedBadge, error) {
	query := `SELECT b.id, b.name, b.icon, b.description, b.requirement_type, b.requirement_value, ub.earned_at
	 FROM user_badges ub JOIN badges b ON b.id = ub.badge_id
	 WHERE ub.user_id = ? ORDER BY ub.earned_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list earned badges: %w", err)
	}
	defer rows.Close()

	var badges []EarnedBadge
	for rows.Next() {
		var b EarnedBadge
		if err := rows.Scan(&b.ID, &b.Name, &b.Icon, &b.Description, &b.RequirementType, &b.RequirementValue, &b.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan earned badge: %w", err)
		}
		badges = append(badges, b)
	}
	return badges, rows.Err()
}
