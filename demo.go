package quizarena

// Demo mode lets anonymous visitors play a quiz without an account. All
// state lives in a small JSON/gob-serializable structure kept in the
// browser session: nothing is persisted, no gamification runs, and results
// are discarded once displayed.

// DemoQuestion is one question of an ephemeral quiz. The correct answer is
// stored by value, not by option id, since demo questions have no rows.
type DemoQuestion struct {
	Text          string   `json:"text"`
	CodeSnippet   string   `json:"code_snippet,omitempty"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// DemoAnswer logs one submission within a demo session.
type DemoAnswer struct {
	QuestionIndex int    `json:"question_index"`
	Selected      string `json:"selected"` // empty = skipped
	Correct       bool   `json:"correct"`
}

// DemoSession is the per-browser-session state of a demo quiz.
type DemoSession struct {
	Topic        string         `json:"topic"`
	Questions    []DemoQuestion `json:"questions"`
	CurrentIndex int            `json:"current_index"`
	Score        int            `json:"score"` // running count of correct answers
	Answers      []DemoAnswer   `json:"answers"`
}

// NewDemoSession builds a session from generated questions.
func NewDemoSession(topic string, generated []GeneratedQuestion) *DemoSession {
	questions := make([]DemoQuestion, 0, len(generated))
	for _, gq := range generated {
		dq := DemoQuestion{
			Text:          gq.Text,
			CodeSnippet:   gq.CodeSnippet,
			CorrectAnswer: gq.CorrectText(),
			Explanation:   gq.Explanation,
		}
		for _, opt := range gq.Options {
			dq.Options = append(dq.Options, opt.Text)
		}
		questions = append(questions, dq)
	}
	return &DemoSession{Topic: topic, Questions: questions}
}

// Current returns the question to play next, or nil when the session is
// finished.
func (s *DemoSession) Current() *DemoQuestion {
	if s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// Finished reports whether every question has been answered.
func (s *DemoSession) Finished() bool {
	return s.CurrentIndex >= len(s.Questions)
}

// Submit records an answer for the current question and advances. An empty
// selection is a skip. Correctness is an exact match of the selected value
// against the stored correct answer. Submitting past the end is a no-op.
func (s *DemoSession) Submit(selected string) (correct bool, finished bool) {
	current := s.Current()
	if current == nil {
		return false, true
	}

	correct = selected != "" && selected == current.CorrectAnswer
	if correct {
		s.Score++
	}
	s.Answers = append(s.Answers, DemoAnswer{
		QuestionIndex: s.CurrentIndex,
		Selected:      selected,
		Correct:       correct,
	})
	s.CurrentIndex++
	return correct, s.Finished()
}

// DemoResults is the throwaway tally shown at the end of a demo session.
type DemoResults struct {
	Topic        string `json:"topic"`
	Correct      int    `json:"correct"`
	Skipped      int    `json:"skipped"`
	Wrong        int    `json:"wrong"`
	Total        int    `json:"total"`
	ScorePercent int    `json:"score_percent"`
}

// Results tallies the session with the same rules as the persistent engine:
// skips count as incorrect but are reported separately.
func (s *DemoSession) Results() DemoResults {
	results := DemoResults{Topic: s.Topic, Total: len(s.Questions)}
	for _, a := range s.Answers {
		switch {
		case a.Correct:
			results.Correct++
		case a.Selected == "":
			results.Skipped++
		}
	}
	results.Wrong = results.Total - results.Correct - results.Skipped
	results.ScorePercent = scorePercent(results.Correct, results.Total)
	return results
}
