package quizarena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoSessionFlow(t *testing.T) {
	session := NewDemoSession("Space", sampleQuestions())
	require.Len(t, session.Questions, 2)
	assert.False(t, session.Finished())

	current := session.Current()
	require.NotNil(t, current)
	assert.Equal(t, "go", current.CorrectAnswer)

	correct, finished := session.Submit("go")
	assert.True(t, correct)
	assert.False(t, finished)
	assert.Equal(t, 1, session.Score)

	correct, finished = session.Submit("10")
	assert.False(t, correct)
	assert.True(t, finished)
	assert.Nil(t, session.Current())

	results := session.Results()
	assert.Equal(t, "Space", results.Topic)
	assert.Equal(t, 1, results.Correct)
	assert.Equal(t, 1, results.Wrong)
	assert.Equal(t, 0, results.Skipped)
	assert.Equal(t, 50, results.ScorePercent)
}

func TestDemoSessionSkip(t *testing.T) {
	session := NewDemoSession("Trivia", sampleQuestions())

	correct, _ := session.Submit("")
	assert.False(t, correct)
	session.Submit("")

	results := session.Results()
	assert.Equal(t, 0, results.Correct)
	assert.Equal(t, 2, results.Skipped)
	assert.Equal(t, 0, results.Wrong)
	assert.Equal(t, 0, results.ScorePercent)
}

func TestDemoSessionSubmitPastEnd(t *testing.T) {
	session := NewDemoSession("Tiny", sampleQuestions()[:1])

	session.Submit("go")
	require.True(t, session.Finished())

	correct, finished := session.Submit("go")
	assert.False(t, correct)
	assert.True(t, finished)
	assert.Len(t, session.Answers, 1, "submissions past the end record nothing")
}
