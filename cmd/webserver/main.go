package main

import (
	"context"
	"encoding/gob"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"quizarena"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
)

const (
	userSessionName = "quizarena-user"
	demoSessionName = "quizarena-demo"

	generationTimeout = 2 * time.Minute
)

// Server holds the shared dependencies of all HTTP handlers.
type Server struct {
	db           *quizarena.DB
	store        *sessions.CookieStore
	apiKey       string
	defaultModel string
}

func init() {
	gob.Register(quizarena.DemoSession{})
}

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded configuration from .env")
	}

	quizarena.SetVerbose(os.Getenv("QUIZARENA_VERBOSE") == "1")

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required")
	}

	dbPath := os.Getenv("QUIZARENA_DB")
	if dbPath == "" {
		dbPath = "./quizarena.db"
	}

	db, err := quizarena.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.CloseDB()

	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}
	if err := db.SeedModels(quizarena.DefaultModels); err != nil {
		log.Fatalf("Failed to seed AI models: %v", err)
	}
	if err := db.SeedBadges(quizarena.DefaultBadges); err != nil {
		log.Fatalf("Failed to seed badges: %v", err)
	}

	sessionKey := os.Getenv("SESSION_KEY")
	if sessionKey == "" {
		sessionKey = "quizarena-dev-session-key"
		log.Printf("SESSION_KEY not set, using insecure development key")
	}

	defaultModel := os.Getenv("DEFAULT_AI_MODEL")
	if defaultModel == "" {
		defaultModel = "gpt-4o-mini"
	}

	server := &Server{
		db:           db,
		store:        sessions.NewCookieStore([]byte(sessionKey)),
		apiKey:       apiKey,
		defaultModel: defaultModel,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", server.handleLogin)
	mux.HandleFunc("POST /api/logout", server.handleLogout)
	mux.HandleFunc("GET /api/models", server.handleListModels)

	mux.HandleFunc("POST /api/quiz", server.handleCreateQuiz)
	mux.HandleFunc("POST /api/chat", server.handleChatQuiz)
	mux.HandleFunc("GET /api/quiz/{id}", server.handlePlayQuiz)
	mux.HandleFunc("POST /api/quiz/{id}/answers/{questionID}", server.handleSubmitAnswer)
	mux.HandleFunc("GET /api/quiz/{id}/results", server.handleResults)
	mux.HandleFunc("POST /api/quiz/{id}/explanations", server.handleExplanations)
	mux.HandleFunc("POST /api/quiz/{id}/retry", server.handleRetry)
	mux.HandleFunc("GET /api/dashboard", server.handleDashboard)

	mux.HandleFunc("POST /api/demo", server.handleDemoStart)
	mux.HandleFunc("GET /api/demo", server.handleDemoQuestion)
	mux.HandleFunc("POST /api/demo/answers", server.handleDemoSubmit)
	mux.HandleFunc("GET /api/demo/results", server.handleDemoResults)
	mux.HandleFunc("DELETE /api/demo", server.handleDemoReset)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8180"
	}

	log.Printf("Starting server on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, mux))
}

// ---------------------------------------------------------------------------
// JSON plumbing

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeAIError renders a classified gateway failure with its suggestion so
// the client can show something actionable.
func writeAIError(w http.ResponseWriter, aiErr *quizarena.AIError) {
	status := http.StatusBadGateway
	if aiErr.Kind == quizarena.ErrKindQuota {
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, map[string]string{
		"error_type": string(aiErr.Kind),
		"error":      aiErr.Message,
		"suggestion": aiErr.Suggestion,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// ---------------------------------------------------------------------------
// Sessions & identity

// currentUserID returns the logged-in user id, or "" for anonymous visitors.
func (s *Server) currentUserID(r *http.Request) string {
	session, _ := s.store.Get(r, userSessionName)
	if id, ok := session.Values["user_id"].(string); ok {
		return id
	}
	return ""
}

// requireUser rejects anonymous requests. Password authentication lives
// outside this service; the session only carries an identity.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := s.currentUserID(r)
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "login required")
		return "", false
	}
	return userID, true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		DisplayName string `json:"display_name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	user, err := s.db.GetUserByEmail(email)
	if errors.Is(err, quizarena.ErrNotFound) {
		name := strings.TrimSpace(req.DisplayName)
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		user, err = s.db.CreateUser(email, name)
	}
	if err != nil {
		log.Printf("Login failed: %v", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	session, _ := s.store.Get(r, userSessionName)
	session.Values["user_id"] = user.ID
	if err := session.Save(r, w); err != nil {
		log.Printf("Session save error: %v", err)
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.store.Get(r, userSessionName)
	session.Options.MaxAge = -1
	session.Save(r, w)
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Models

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.db.ListActiveModels()
	if err != nil {
		log.Printf("Failed to list models: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list models")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"models": models})
}

// resolveModel picks the model to generate with: the requested registry
// entry when valid, otherwise the registry default, otherwise the configured
// fallback.
func (s *Server) resolveModel(modelID string) string {
	if modelID != "" {
		if m, err := s.db.GetActiveModel(modelID); err == nil {
			return m.ModelName
		}
	}
	if m, err := s.db.DefaultModel(); err == nil {
		return m.ModelName
	}
	return s.defaultModel
}

// generatorFor builds a generation service bound to the given model, with a
// per-quiz transcript logger when quizID is non-empty.
func (s *Server) generatorFor(modelName, quizID, topic string) (*quizarena.QuizGenerator, func()) {
	gateway := quizarena.NewGateway(s.apiKey, modelName)
	cleanup := func() {}

	if quizID != "" {
		if logger, err := quizarena.NewLLMLogger(quizID, topic); err != nil {
			log.Printf("Failed to create LLM logger for quiz %s: %v", quizID, err)
		} else {
			gateway.SetLogger(logger)
			cleanup = func() { logger.Close() }
		}
	}

	return quizarena.NewQuizGenerator(gateway), cleanup
}

// ---------------------------------------------------------------------------
// Quiz creation

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Topic          string `json:"topic"`
		Language       string `json:"language"`
		CustomLanguage string `json:"custom_language"`
		Level          string `json:"level"`
		NumQuestions   int    `json:"num_questions"`
		IncludeCode    bool   `json:"include_code"`
		ModelID        string `json:"model_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	topic := strings.TrimSpace(quizarena.Truncate(req.Topic, quizarena.MaxTopicLen))
	if topic == "" {
		writeError(w, http.StatusBadRequest, "Please enter a topic.")
		return
	}

	language := strings.TrimSpace(req.CustomLanguage)
	if language == "" {
		language = req.Language
	}
	language = quizarena.Truncate(language, quizarena.MaxLanguageLen)
	if language == "" {
		language = "Python"
	}

	level := quizarena.NormalizeDifficulty(req.Level)
	count := quizarena.ClampQuestionCount(req.NumQuestions)
	modelName := s.resolveModel(req.ModelID)

	quizID := quizarena.NewID(12)
	gen, cleanup := s.generatorFor(modelName, quizID, topic)
	defer cleanup()

	ctx, cancel := context.WithTimeout(r.Context(), generationTimeout)
	defer cancel()

	questions, err := gen.GenerateTechnicalQuiz(ctx, language, topic, level, count, req.IncludeCode)
	if err != nil {
		if aiErr, ok := quizarena.AsAIError(err); ok {
			writeAIError(w, aiErr)
			return
		}
		writeError(w, http.StatusBadGateway, "AI failed to generate quiz.")
		return
	}
	if len(questions) == 0 {
		writeError(w, http.StatusBadGateway, "AI failed to generate quiz. Try again or select a different AI model.")
		return
	}

	quiz := &quizarena.Quiz{
		ID:         quizID,
		UserID:     userID,
		Type:       quizarena.QuizTypeTechnical,
		Language:   language,
		Topic:      quizarena.Truncate(language+": "+topic, quizarena.MaxTopicLen),
		Difficulty: level,
		ModelUsed:  modelName,
		CreatedAt:  time.Now(),
	}
	if err := s.db.CreateQuizWithQuestions(quiz, questions); err != nil {
		log.Printf("Failed to store quiz: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store quiz")
		return
	}

	writeJSON(w, http.StatusCreated, quiz)
}

func (s *Server) handleChatQuiz(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Message      string `json:"message"`
		NumQuestions int    `json:"num_questions"`
		ModelID      string `json:"model_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	message := strings.TrimSpace(quizarena.Truncate(req.Message, quizarena.MaxMessageLen))
	if message == "" {
		writeError(w, http.StatusBadRequest, "Please type something.")
		return
	}

	modelName := s.resolveModel(req.ModelID)
	quizID := quizarena.NewID(12)
	gen, cleanup := s.generatorFor(modelName, quizID, message)
	defer cleanup()

	ctx, cancel := context.WithTimeout(r.Context(), generationTimeout)
	defer cancel()

	// Intent parsing is best-effort; a failed parse falls back to defaults
	// instead of blocking the flow.
	intent := gen.ParseGeneralIntent(ctx, message)
	count := intent.Count
	if req.NumQuestions > 0 {
		count = quizarena.ClampQuestionCount(req.NumQuestions)
	}

	subject := quizarena.Truncate(intent.Subject, quizarena.MaxLanguageLen)
	questions, err := gen.GenerateGeneralQuiz(ctx, subject, quizarena.Truncate(intent.Topic, quizarena.MaxTopicLen), intent.Level, count)
	if err != nil {
		if aiErr, ok := quizarena.AsAIError(err); ok {
			writeAIError(w, aiErr)
			return
		}
		writeError(w, http.StatusBadGateway, "I couldn't generate a quiz for that.")
		return
	}
	if len(questions) == 0 {
		writeError(w, http.StatusBadGateway, "I couldn't generate a quiz for that. Try being more specific.")
		return
	}

	quiz := &quizarena.Quiz{
		ID:         quizID,
		UserID:     userID,
		Type:       quizarena.QuizTypeGeneral,
		Language:   subject,
		Topic:      quizarena.Truncate(intent.Subject+": "+intent.Topic, quizarena.MaxTopicLen),
		Difficulty: quizarena.NormalizeDifficulty(intent.Level),
		ModelUsed:  modelName,
		CreatedAt:  time.Now(),
	}
	if err := s.db.CreateQuizWithQuestions(quiz, questions); err != nil {
		log.Printf("Failed to store quiz: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to store quiz")
		return
	}

	writeJSON(w, http.StatusCreated, quiz)
}

// ---------------------------------------------------------------------------
// Quiz play

// optionView hides the correctness flag from players.
type optionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type questionView struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	CodeSnippet string       `json:"code_snippet,omitempty"`
	Options     []optionView `json:"options"`
}

func viewQuestion(q *quizarena.Question) *questionView {
	if q == nil {
		return nil
	}
	view := &questionView{ID: q.ID, Text: q.Text, CodeSnippet: q.CodeSnippet}
	for _, opt := range q.Options {
		view.Options = append(view.Options, optionView{ID: opt.ID, Text: opt.Text})
	}
	return view
}

// quizForRequest loads the quiz in the path and enforces ownership.
func (s *Server) quizForRequest(w http.ResponseWriter, r *http.Request) (*quizarena.Quiz, bool) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return nil, false
	}

	quiz, err := s.db.GetQuizForUser(r.PathValue("id"), userID)
	if errors.Is(err, quizarena.ErrNotFound) {
		writeError(w, http.StatusNotFound, "quiz not found")
		return nil, false
	}
	if errors.Is(err, quizarena.ErrForbidden) {
		writeError(w, http.StatusForbidden, "this quiz belongs to another user")
		return nil, false
	}
	if err != nil {
		log.Printf("Failed to load quiz: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load quiz")
		return nil, false
	}
	return quiz, true
}

func (s *Server) handlePlayQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.quizForRequest(w, r)
	if !ok {
		return
	}

	next, err := s.db.NextUnansweredQuestion(quiz.ID)
	if err != nil {
		log.Printf("Failed to find next question: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load question")
		return
	}

	answers, err := s.db.GetAnswers(quiz.ID)
	if err != nil {
		log.Printf("Failed to load answers: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load quiz state")
		return
	}

	progress := 0.0
	if quiz.TotalQuestions > 0 {
		progress = float64(len(answers)) / float64(quiz.TotalQuestions) * 100
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz":             quiz,
		"current_question": viewQuestion(next),
		"progress":         progress,
		"completed":        next == nil,
		"is_last":          next != nil && len(answers)+1 == quiz.TotalQuestions,
	})
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.quizForRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		OptionID  string `json:"option_id"`
		Action    string `json:"action"` // "skip" submits a blank answer
		TimeTaken int    `json:"time_taken"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	var selected *string
	if req.Action != "skip" && req.OptionID != "" {
		selected = &req.OptionID
	}

	result, err := s.db.SubmitAnswer(quiz.ID, r.PathValue("questionID"), selected, req.TimeTaken)
	if errors.Is(err, quizarena.ErrNotFound) {
		writeError(w, http.StatusNotFound, "question or option not found")
		return
	}
	if err != nil {
		log.Printf("Failed to submit answer: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to submit answer")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"duplicate":     result.Duplicate,
		"completed":     result.Completed,
		"next_question": viewQuestion(result.NextQuestion),
		"progress":      result.Progress,
		"report":        result.Report,
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.quizForRequest(w, r)
	if !ok {
		return
	}

	results, err := s.db.ComputeResults(quiz)
	if err != nil {
		log.Printf("Failed to compute results: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to compute results")
		return
	}

	questions, err := s.db.GetQuestions(quiz.ID)
	if err != nil {
		log.Printf("Failed to load questions: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load questions")
		return
	}
	answers, err := s.db.GetAnswers(quiz.ID)
	if err != nil {
		log.Printf("Failed to load answers: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load answers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quiz":      quiz,
		"results":   results,
		"questions": questions,
		"answers":   answers,
	})
}

func (s *Server) handleExplanations(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.quizForRequest(w, r)
	if !ok {
		return
	}

	// Use the same model that generated the quiz.
	modelName := quiz.ModelUsed
	if modelName == "" {
		modelName = s.resolveModel("")
	}
	gen, cleanup := s.generatorFor(modelName, "", "")
	defer cleanup()

	ctx, cancel := context.WithTimeout(r.Context(), generationTimeout)
	defer cancel()

	filled, err := s.db.BackfillExplanations(ctx, gen, quiz.ID)
	if err != nil {
		log.Printf("Failed to backfill explanations: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to generate explanations")
		return
	}

	answers, err := s.db.GetAnswers(quiz.ID)
	if err != nil {
		log.Printf("Failed to load answers: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load answers")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"explained": filled,
		"answers":   answers,
	})
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	quiz, ok := s.quizForRequest(w, r)
	if !ok {
		return
	}

	if err := s.db.RetryQuiz(quiz.ID); err != nil {
		log.Printf("Failed to retry quiz: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to reset quiz")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "reset", "quiz_id": quiz.ID})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	profile, err := s.db.GetProfile(userID)
	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	stats, err := s.db.UserQuizStats(userID)
	if err != nil {
		log.Printf("Failed to load stats: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	quizzes, err := s.db.ListQuizzesForUser(userID, 12)
	if err != nil {
		log.Printf("Failed to load quizzes: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load quizzes")
		return
	}

	badges, err := s.db.ListEarnedBadges(userID, 6)
	if err != nil {
		log.Printf("Failed to load badges: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load badges")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"level_progress": map[string]int{
			"xp_for_next_level":   profile.XPForNextLevel(),
			"xp_in_current_level": profile.XPInCurrentLevel(),
			"percent":             profile.XPProgressPercent(),
		},
		"stats":   stats,
		"quizzes": quizzes,
		"badges":  badges,
	})
}

// ---------------------------------------------------------------------------
// Demo (guest) mode

func (s *Server) demoSession(r *http.Request) (*sessions.Session, *quizarena.DemoSession) {
	session, _ := s.store.Get(r, demoSessionName)
	if state, ok := session.Values["demo"].(quizarena.DemoSession); ok {
		return session, &state
	}
	return session, nil
}

func (s *Server) saveDemo(w http.ResponseWriter, r *http.Request, session *sessions.Session, state *quizarena.DemoSession) {
	session.Values["demo"] = *state
	if err := session.Save(r, w); err != nil {
		log.Printf("Demo session save error: %v", err)
	}
}

func (s *Server) handleDemoStart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic string `json:"topic"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	topic := strings.TrimSpace(quizarena.Truncate(req.Topic, quizarena.MaxTopicLen))
	if topic == "" {
		topic = "General Knowledge"
	}

	gen, cleanup := s.generatorFor(s.resolveModel(""), "", "")
	defer cleanup()

	ctx, cancel := context.WithTimeout(r.Context(), generationTimeout)
	defer cancel()

	questions, err := gen.GenerateGeneralQuiz(ctx, "General Knowledge", topic, quizarena.DifficultyBeginner, 5)
	if err != nil {
		if aiErr, ok := quizarena.AsAIError(err); ok {
			writeAIError(w, aiErr)
			return
		}
		writeError(w, http.StatusBadGateway, "failed to generate demo quiz")
		return
	}
	if len(questions) == 0 {
		writeError(w, http.StatusBadGateway, "failed to generate demo quiz")
		return
	}

	state := quizarena.NewDemoSession(topic, questions)
	session, _ := s.demoSession(r)
	s.saveDemo(w, r, session, state)

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"topic": state.Topic,
		"total": len(state.Questions),
	})
}

// demoQuestionView hides the correct answer from the client.
type demoQuestionView struct {
	Index       int      `json:"index"`
	Text        string   `json:"text"`
	CodeSnippet string   `json:"code_snippet,omitempty"`
	Options     []string `json:"options"`
}

func (s *Server) handleDemoQuestion(w http.ResponseWriter, r *http.Request) {
	_, state := s.demoSession(r)
	if state == nil {
		writeError(w, http.StatusNotFound, "no demo quiz in progress")
		return
	}

	current := state.Current()
	if current == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"finished": true})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"finished": false,
		"topic":    state.Topic,
		"total":    len(state.Questions),
		"question": demoQuestionView{
			Index:       state.CurrentIndex,
			Text:        current.Text,
			CodeSnippet: current.CodeSnippet,
			Options:     current.Options,
		},
	})
}

func (s *Server) handleDemoSubmit(w http.ResponseWriter, r *http.Request) {
	session, state := s.demoSession(r)
	if state == nil {
		writeError(w, http.StatusNotFound, "no demo quiz in progress")
		return
	}

	var req struct {
		Answer string `json:"answer"` // empty = skip
	}
	if !decodeBody(w, r, &req) {
		return
	}

	current := state.Current()
	if current == nil {
		writeError(w, http.StatusConflict, "demo quiz already finished")
		return
	}

	correct, finished := state.Submit(req.Answer)
	s.saveDemo(w, r, session, state)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"correct":        correct,
		"correct_answer": current.CorrectAnswer,
		"explanation":    current.Explanation,
		"finished":       finished,
		"score":          state.Score,
	})
}

func (s *Server) handleDemoResults(w http.ResponseWriter, r *http.Request) {
	_, state := s.demoSession(r)
	if state == nil {
		writeError(w, http.StatusNotFound, "no demo quiz in progress")
		return
	}
	writeJSON(w, http.StatusOK, state.Results())
}

func (s *Server) handleDemoReset(w http.ResponseWriter, r *http.Request) {
	session, _ := s.store.Get(r, demoSessionName)
	delete(session.Values, "demo")
	session.Options.MaxAge = -1
	session.Save(r, w)
	w.WriteHeader(http.StatusNoContent)
}
