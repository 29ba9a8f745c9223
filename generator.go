package quizarena

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"
)

// QuizGenerator orchestrates quiz generation: render a prompt, call the
// gateway, shape the returned question list. Intent parsing is best-effort
// and never blocks quiz creation; generation failures surface as *AIError.
type QuizGenerator struct {
	gw TextGenerator
}

// NewQuizGenerator creates a generation service on top of a gateway.
func NewQuizGenerator(gw TextGenerator) *QuizGenerator {
	return &QuizGenerator{gw: gw}
}

// GeneratedQuestion is one shaped question as returned by the AI, ready to
// be persisted. Exactly one option is marked correct.
type GeneratedQuestion struct {
	Text        string            `json:"text"`
	CodeSnippet string            `json:"code_snippet,omitempty"`
	Explanation string            `json:"explanation,omitempty"`
	Options     []GeneratedOption `json:"options"`
}

// GeneratedOption is one candidate answer of a generated question.
type GeneratedOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

// CorrectText returns the text of the option marked correct.
func (q *GeneratedQuestion) CorrectText() string {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.Text
		}
	}
	return ""
}

// GenerateTechnicalQuiz generates a programming quiz. On failure the error
// is an *AIError carrying the classified kind, message and suggestion.
func (qg *QuizGenerator) GenerateTechnicalQuiz(ctx context.Context, language, topic, level string, numQuestions int, includeCode bool) ([]GeneratedQuestion, error) {
	prompt := RenderTechnicalQuizPrompt(language, topic, level, numQuestions, includeCode)

	start := time.Now()
	log.Printf("Generating quiz: model=%s, language=%s, topic=%s, level=%s, questions=%d",
		qg.gw.ModelName(), language, topic, level, numQuestions)

	raw, err := qg.gw.GenerateJSON(ctx, prompt)
	if err != nil {
		log.Printf("Quiz generation failed after %.2fs: %v", time.Since(start).Seconds(), err)
		return nil, err
	}

	questions, err := qg.shapeQuestions(raw)
	if err != nil {
		return nil, err
	}

	log.Printf("Quiz generated: %d questions in %.2fs", len(questions), time.Since(start).Seconds())
	return questions, nil
}

// GenerateGeneralQuiz generates a general-knowledge quiz on any subject.
func (qg *QuizGenerator) GenerateGeneralQuiz(ctx context.Context, subject, topic, level string, numQuestions int) ([]GeneratedQuestion, error) {
	prompt := RenderGeneralQuizPrompt(subject, topic, level, numQuestions)

	raw, err := qg.gw.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return qg.shapeQuestions(raw)
}

// shapeQuestions parses the gateway's JSON payload and normalizes it:
// defaults for missing fields, bounded lengths, and the correctness flag set
// by exact-value match against correct_answer. Questions where no option
// matches are rejected; when several match, only the first stays correct.
func (qg *QuizGenerator) shapeQuestions(raw string) ([]GeneratedQuestion, error) {
	var payload struct {
		Questions []struct {
			Text          string        `json:"text"`
			CodeSnippet   string        `json:"code_snippet"`
			Options       []interface{} `json:"options"`
			CorrectAnswer interface{}   `json:"correct_answer"`
			Explanation   string        `json:"explanation"`
		} `json:"questions"`
	}

	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, ClassifyError(fmt.Errorf("failed to parse response: %w", err), qg.gw.ModelName())
	}

	questions := make([]GeneratedQuestion, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		correct := stringifyValue(q.CorrectAnswer)

		question := GeneratedQuestion{
			Text:        Truncate(q.Text, MaxQuestionLen),
			CodeSnippet: q.CodeSnippet,
			Explanation: q.Explanation,
			Options:     make([]GeneratedOption, 0, len(q.Options)),
		}

		matched := false
		for _, rawOpt := range q.Options {
			text := Truncate(stringifyValue(rawOpt), MaxOptionLen)
			isCorrect := !matched && text == Truncate(correct, MaxOptionLen)
			if isCorrect {
				matched = true
			}
			question.Options = append(question.Options, GeneratedOption{Text: text, IsCorrect: isCorrect})
		}

		if !matched {
			VerboseLog("Rejecting generated question with no matching correct option: %q", question.Text)
			continue
		}

		questions = append(questions, question)
	}

	return questions, nil
}

// QuizIntent is the structured form of a free-text programming quiz request.
type QuizIntent struct {
	Language string `json:"language"`
	Topic    string `json:"topic"`
	Level    string `json:"level"`
	Count    int    `json:"count"`
}

// ParseIntent converts natural language into programming quiz parameters.
// Parsing is best-effort: any failure yields fixed defaults instead of an
// error, so a bad guess never blocks quiz creation.
func (qg *QuizGenerator) ParseIntent(ctx context.Context, userMessage string) QuizIntent {
	fallback := QuizIntent{Language: "General", Topic: "Random", Level: "Intermediate", Count: 5}

	raw, err := qg.gw.GenerateJSON(ctx, RenderIntentPrompt(userMessage))
	if err != nil {
		log.Printf("Intent parsing error: %v", err)
		return fallback
	}

	var intent QuizIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		log.Printf("Intent parsing error: %v", err)
		return fallback
	}
	if intent.Language == "" {
		intent.Language = fallback.Language
	}
	if intent.Topic == "" {
		intent.Topic = fallback.Topic
	}
	if intent.Level == "" {
		intent.Level = fallback.Level
	}
	intent.Count = ClampQuestionCount(intent.Count)
	return intent
}

// GeneralIntent is the structured form of a free-text general quiz request.
type GeneralIntent struct {
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
	Level   string `json:"level"`
	Count   int    `json:"count"`
}

// ParseGeneralIntent converts natural language into general quiz parameters,
// with the same best-effort defaulting as ParseIntent.
func (qg *QuizGenerator) ParseGeneralIntent(ctx context.Context, userMessage string) GeneralIntent {
	fallback := GeneralIntent{Subject: "General Knowledge", Topic: "Trivia", Level: "Intermediate", Count: 5}

	raw, err := qg.gw.GenerateJSON(ctx, RenderGeneralIntentPrompt(userMessage))
	if err != nil {
		log.Printf("General intent parsing error: %v", err)
		return fallback
	}

	var intent GeneralIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		log.Printf("General intent parsing error: %v", err)
		return fallback
	}
	if intent.Subject == "" {
		intent.Subject = fallback.Subject
	}
	if intent.Topic == "" {
		intent.Topic = fallback.Topic
	}
	if intent.Level == "" {
		intent.Level = fallback.Level
	}
	intent.Count = ClampQuestionCount(intent.Count)
	return intent
}

// GenerateExplanation produces a short remediation text for a wrong answer.
// Best-effort: on failure it returns a static fallback, distinguishing quota
// exhaustion from generic failure.
func (qg *QuizGenerator) GenerateExplanation(ctx context.Context, questionText, userAnswer, correctAnswer string) string {
	prompt := RenderExplanationPrompt(questionText, userAnswer, correctAnswer)

	text, err := qg.gw.GenerateText(ctx, prompt)
	if err != nil {
		log.Printf("Explanation generation error: %v", err)
		if aiErr, ok := AsAIError(err); ok && aiErr.Kind == ErrKindQuota {
			return fmt.Sprintf("Could not generate explanation (API quota exceeded for %s). Try a different model.", qg.gw.ModelName())
		}
		return "Unable to generate explanation at this moment."
	}
	return text
}

// stringifyValue renders an AI-provided JSON value the way it would compare
// for equality: strings as-is, integral numbers without a fraction part.
func stringifyValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
