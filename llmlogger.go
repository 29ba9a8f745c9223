package quizarena

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LLMLogger writes a per-quiz transcript of every prompt sent to the AI
// provider and every response received, for debugging bad generations.
type LLMLogger struct {
	file *os.File
	mu   sync.Mutex
}

// NewLLMLogger creates a transcript logger under log/<quiz-id>.log.
func NewLLMLogger(quizID, topic string) (*LLMLogger, error) {
	if err := os.MkdirAll("log", 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.Create(filepath.Join("log", fmt.Sprintf("%s.log", quizID)))
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &LLMLogger{file: file}
	logger.logf("=== Quiz %s (%s) ===\n", quizID, topic)
	logger.logf("Started: %s\n\n", time.Now().Format(time.RFC3339))
	return logger, nil
}

func (ll *LLMLogger) logf(format string, args ...interface{}) {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(ll.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	ll.file.Sync()
}

// LogRequest records a prompt before it is sent.
func (ll *LLMLogger) LogRequest(model, prompt string) {
	ll.logf("--- REQUEST (%s) ---\n%s\n\n", model, prompt)
}

// LogResponse records the raw provider response.
func (ll *LLMLogger) LogResponse(model, response string) {
	ll.logf("--- RESPONSE (%s) ---\n%s\n\n", model, response)
}

// Close finalizes and closes the transcript file.
func (ll *LLMLogger) Close() error {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	if ll.file == nil {
		return nil
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(ll.file, "[%s] === Complete: %s ===\n", timestamp, time.Now().Format(time.RFC3339))
	return ll.file.Close()
}
