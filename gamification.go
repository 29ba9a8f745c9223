package quizarena

import (
	"fmt"
	"time"
)

// QuizOutcome is the summary of a completed quiz, fed to the gamification
// engine.
type QuizOutcome struct {
	CorrectCount   int `json:"correct_count"`
	TotalTime      int `json:"total_time"` // seconds across all questions
	TotalQuestions int `json:"total_questions"`
	ScorePercent   int `json:"score_percent"`
}

// ProgressReport describes what a completed quiz did to the user's profile.
type ProgressReport struct {
	XPEarned      int     `json:"xp_earned"`
	TotalXP       int     `json:"total_xp"`
	Level         int     `json:"level"`
	LeveledUp     bool    `json:"leveled_up"`
	CurrentStreak int     `json:"current_streak"`
	NewBadges     []Badge `json:"new_badges,omitempty"`
}

// QuizXP computes the experience points earned from one completed quiz.
//
// Base: 10 XP per correct answer. Time bonus: with 30s per question as par,
// every full 5 seconds under par earns 1 XP per correct answer. Perfect
// bonus: +50 XP for answering everything correctly.
func QuizXP(correctCount, totalTime, totalQuestions int) int {
	baseXP := correctCount * 10

	timeBonus := 0
	if correctCount > 0 && totalQuestions > 0 {
		avgTime := float64(totalTime) / float64(totalQuestions)
		if avgTime < 30 {
			bonusPerAnswer := int((30 - avgTime) / 5)
			timeBonus = correctCount * bonusPerAnswer
		}
	}

	perfectBonus := 0
	if correctCount == totalQuestions && totalQuestions > 0 {
		perfectBonus = 50
	}

	return baseXP + timeBonus + perfectBonus
}

// LevelForXP derives the level for a total XP amount. Going from level N to
// N+1 costs N*100 XP: 0-99 is level 1, 100-299 level 2, 300-599 level 3.
func LevelForXP(totalXP int) int {
	level := 1
	consumed := 0
	for {
		needed := level * 100
		if totalXP < consumed+needed {
			return level
		}
		consumed += needed
		level++
	}
}

// UpdateStreak applies one quiz completion on the given calendar day to the
// profile's streak counters. A repeat on the same day leaves the streak
// untouched; a gap of two or more days resets it to 1. LastQuizDate is
// always moved to today. Returns the streak and whether today is a new day.
func UpdateStreak(profile *UserProfile, today time.Time) (int, bool) {
	today = dateOnly(today)
	isNewDay := profile.LastQuizDate == nil || !profile.LastQuizDate.Equal(today)

	switch {
	case profile.LastQuizDate == nil:
		profile.CurrentStreak = 1
	case profile.LastQuizDate.Equal(today.AddDate(0, 0, -1)):
		profile.CurrentStreak++
	case profile.LastQuizDate.Equal(today):
		// Same-day repeat does not double-count.
	default:
		profile.CurrentStreak = 1
	}

	if profile.CurrentStreak > profile.LongestStreak {
		profile.LongestStreak = profile.CurrentStreak
	}
	profile.LastQuizDate = &today

	return profile.CurrentStreak, isNewDay
}

// badgeMetric maps a badge requirement kind onto the profile metric it
// tests against.
func badgeMetric(profile *UserProfile, requirementType string) (int, bool) {
	switch requirementType {
	case RequireLevel:
		return profile.Level, true
	case RequireStreak:
		return profile.CurrentStreak, true
	case RequireScore:
		return profile.BestScore, true
	case RequireCorrect:
		return profile.TotalCorrectAnswers, true
	default:
		return 0, false
	}
}

// ApplyQuizCompletion runs the gamification pipeline for one completed quiz.
// The order is fixed: add XP, recompute level, update streak, update cached
// aggregates, persist the profile, then evaluate badges against the updated
// profile.
func (db *DB) ApplyQuizCompletion(userID string, outcome QuizOutcome, now time.Time) (*ProgressReport, error) {
	return applyQuizCompletion(db.conn, userID, outcome, now)
}

func applyQuizCompletion(q dbtx, userID string, outcome QuizOutcome, now time.Time) (*ProgressReport, error) {
	profile, err := getProfile(q, userID)
	if err != nil {
		return nil, err
	}

	earned := QuizXP(outcome.CorrectCount, outcome.TotalTime, outcome.TotalQuestions)
	profile.XP += earned

	newLevel := LevelForXP(profile.XP)
	leveledUp := newLevel > profile.Level
	profile.Level = newLevel

	UpdateStreak(profile, now)

	profile.TotalCorrectAnswers += outcome.CorrectCount
	profile.TotalStudyTime += outcome.TotalTime
	if outcome.ScorePercent > profile.BestScore {
		profile.BestScore = outcome.ScorePercent
	}

	if err := updateProfile(q, profile); err != nil {
		return nil, fmt.Errorf("failed to persist profile: %w", err)
	}

	newBadges, err := awardBadges(q, userID, profile, now)
	if err != nil {
		return nil, err
	}

	VerboseLog("Gamification: user=%s xp=+%d level=%d streak=%d badges=%d",
		userID, earned, profile.Level, profile.CurrentStreak, len(newBadges))

	return &ProgressReport{
		XPEarned:      earned,
		TotalXP:       profile.XP,
		Level:         profile.Level,
		LeveledUp:     leveledUp,
		CurrentStreak: profile.CurrentStreak,
		NewBadges:     newBadges,
	}, nil
}

// AwardBadges checks every badge the user has not earned yet against the
// profile and records the qualifying ones. Each (user, badge) pair is
// awarded at most once; re-running the check produces no duplicates.
func (db *DB) AwardBadges(userID string, profile *UserProfile, now time.Time) ([]Badge, error) {
	return awardBadges(db.conn, userID, profile, now)
}

func awardBadges(q dbtx, userID string, profile *UserProfile, now time.Time) ([]Badge, error) {
	candidates, err := getUnearnedBadges(q, userID)
	if err != nil {
		return nil, err
	}

	var awarded []Badge
	for _, badge := range candidates {
		metric, ok := badgeMetric(profile, badge.RequirementType)
		if !ok || metric < badge.RequirementValue {
			continue
		}
		if err := createUserBadge(q, userID, badge.ID, now); err != nil {
			return nil, err
		}
		awarded = append(awarded, badge)
	}
	return awarded, nil
}

// dateOnly strips the time-of-day part, keeping the calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
