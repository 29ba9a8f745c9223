package quizarena

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTechnicalQuizPrompt(t *testing.T) {
	prompt := RenderTechnicalQuizPrompt("Go", "channels", "expert", 7, true)
	assert.Contains(t, prompt, "expert-level programmer in Go")
	assert.Contains(t, prompt, "channels")
	assert.Contains(t, prompt, "exactly 7 questions")
	assert.Contains(t, prompt, "MUST include a relevant code snippet")

	prompt = RenderTechnicalQuizPrompt("Go", "channels", "expert", 7, false)
	assert.Contains(t, prompt, "Do NOT include long code snippets")
}

func TestRenderGeneralQuizPrompt(t *testing.T) {
	prompt := RenderGeneralQuizPrompt("History", "Ancient Rome", "beginner", 5)
	assert.Contains(t, prompt, "Ancient Rome")
	assert.Contains(t, prompt, "Subject area: History")
	assert.Contains(t, prompt, "exactly 5 questions")
}

func TestSanitizeMessage(t *testing.T) {
	assert.Equal(t, "say 'hi'", sanitizeMessage(`say "hi"`))

	long := strings.Repeat("a", MaxMessageLen+100)
	assert.Len(t, sanitizeMessage(long), MaxMessageLen)
}
