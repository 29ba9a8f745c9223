package quizarena

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizXP(t *testing.T) {
	tests := []struct {
		name           string
		correct        int
		totalTime      int
		totalQuestions int
		want           int
	}{
		{"all correct and fast", 5, 50, 5, 120},   // 50 base + 5*4 time bonus + 50 perfect
		{"all correct at par", 5, 150, 5, 100},    // avg 30s, no time bonus
		{"partial score", 3, 150, 5, 30},          // avg 30s, no bonuses
		{"partial and fast", 2, 50, 5, 28},        // 20 base + 2*int(20/5)
		{"nothing correct", 0, 10, 5, 0},          // fast but no correct answers, no bonus
		{"empty quiz", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuizXP(tt.correct, tt.totalTime, tt.totalQuestions))
		})
	}
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 2, LevelForXP(299))
	assert.Equal(t, 3, LevelForXP(300))
	assert.Equal(t, 3, LevelForXP(599))
	assert.Equal(t, 4, LevelForXP(600))
}

func TestUpdateStreak(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.ParseInLocation(dateLayout, s, time.UTC)
		require.NoError(t, err)
		return d
	}

	profile := &UserProfile{}

	// First quiz ever starts a streak.
	streak, newDay := UpdateStreak(profile, day("2026-08-01"))
	assert.Equal(t, 1, streak)
	assert.True(t, newDay)
	assert.Equal(t, 1, profile.LongestStreak)

	// Consecutive day extends it.
	streak, newDay = UpdateStreak(profile, day("2026-08-02"))
	assert.Equal(t, 2, streak)
	assert.True(t, newDay)

	// Same-day repeat changes nothing.
	streak, newDay = UpdateStreak(profile, day("2026-08-02"))
	assert.Equal(t, 2, streak)
	assert.False(t, newDay)
	assert.Equal(t, 2, profile.LongestStreak)

	// A two-day gap resets the streak but keeps the longest.
	streak, newDay = UpdateStreak(profile, day("2026-08-05"))
	assert.Equal(t, 1, streak)
	assert.True(t, newDay)
	assert.Equal(t, 2, profile.LongestStreak)
	require.NotNil(t, profile.LastQuizDate)
	assert.Equal(t, day("2026-08-05"), *profile.LastQuizDate)
}

func TestUpdateStreakStripsTimeOfDay(t *testing.T) {
	profile := &UserProfile{}

	late := time.Date(2026, 8, 1, 23, 59, 0, 0, time.UTC)
	UpdateStreak(profile, late)

	early := time.Date(2026, 8, 2, 0, 5, 0, 0, time.UTC)
	streak, _ := UpdateStreak(profile, early)
	assert.Equal(t, 2, streak, "calendar days, not 24h windows, drive the streak")
}

func TestApplyQuizCompletion(t *testing.T) {
	db := newTestDB(t)
	user, err := db.CreateUser("streak@example.com", "Streak")
	require.NoError(t, err)
	require.NoError(t, db.SeedBadges(DefaultBadges))

	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	report, err := db.ApplyQuizCompletion(user.ID, QuizOutcome{
		CorrectCount:   5,
		TotalTime:      50,
		TotalQuestions: 5,
		ScorePercent:   100,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, 120, report.XPEarned)
	assert.Equal(t, 120, report.TotalXP)
	assert.Equal(t, 2, report.Level)
	assert.True(t, report.LeveledUp)
	assert.Equal(t, 1, report.CurrentStreak)

	// A perfect score unlocks the 100%-score badge immediately.
	var names []string
	for _, b := range report.NewBadges {
		names = append(names, b.Name)
	}
	assert.Contains(t, names, "Perfectionist")

	profile, err := db.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 120, profile.XP)
	assert.Equal(t, 2, profile.Level)
	assert.Equal(t, 5, profile.TotalCorrectAnswers)
	assert.Equal(t, 50, profile.TotalStudyTime)
	assert.Equal(t, 100, profile.BestScore)

	// A second, worse quiz the same day adds XP but keeps the best score and
	// does not re-award the badge.
	report, err = db.ApplyQuizCompletion(user.ID, QuizOutcome{
		CorrectCount:   1,
		TotalTime:      300,
		TotalQuestions: 5,
		ScorePercent:   20,
	}, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, report.NewBadges)
	assert.Equal(t, 1, report.CurrentStreak)

	profile, err = db.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, profile.BestScore)
	assert.Equal(t, 6, profile.TotalCorrectAnswers)
}

func TestAwardBadgesOnlyOnce(t *testing.T) {
	db := newTestDB(t)
	user, err := db.CreateUser("badges@example.com", "Badges")
	require.NoError(t, err)
	require.NoError(t, db.SeedBadges(DefaultBadges))

	profile := &UserProfile{UserID: user.ID, Level: 5, CurrentStreak: 7}
	now := time.Now()

	awarded, err := db.AwardBadges(user.ID, profile, now)
	require.NoError(t, err)
	require.Len(t, awarded, 2)

	var names []string
	for _, b := range awarded {
		names = append(names, b.Name)
	}
	assert.ElementsMatch(t, []string{"Level 5", "Week Warrior"}, names)

	// Re-running against the same profile awards nothing new.
	awarded, err = db.AwardBadges(user.ID, profile, now)
	require.NoError(t, err)
	assert.Empty(t, awarded)

	earned, err := db.ListEarnedBadges(user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, earned, 2)
}

func TestAwardBadgesBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	user, err := db.CreateUser("low@example.com", "Low")
	require.NoError(t, err)
	require.NoError(t, db.SeedBadges(DefaultBadges))

	profile := &UserProfile{UserID: user.ID, Level: 4, CurrentStreak: 6, BestScore: 99, TotalCorrectAnswers: 99}
	awarded, err := db.AwardBadges(user.ID, profile, time.Now())
	require.NoError(t, err)
	assert.Empty(t, awarded)
}
