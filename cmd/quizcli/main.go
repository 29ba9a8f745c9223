package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"quizarena"
)

func main() {
	var (
		topic      = flag.String("topic", "", "Quiz topic (required)")
		language   = flag.String("language", "Python", "Programming language for technical quizzes")
		subject    = flag.String("subject", "General Knowledge", "Subject area for general quizzes")
		general    = flag.Bool("general", false, "Generate a general-knowledge quiz instead of a technical one")
		level      = flag.String("level", "intermediate", "Difficulty level (beginner, intermediate, expert)")
		questions  = flag.Int("questions", 5, "Number of questions to generate (1-20)")
		withCode   = flag.Bool("code", false, "Include code snippets in technical questions")
		model      = flag.String("model", "gpt-4o-mini", "AI model to generate with")
		apiKey     = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		outputFile = flag.String("output", "", "Output file for quiz JSON (default: stdout)")
		playMode   = flag.Bool("play", false, "Play the quiz interactively in the terminal")
		verbose    = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	quizarena.SetVerbose(*verbose)

	if *topic == "" {
		log.Fatal("Topic is required. Use -topic flag.")
	}

	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
		if *apiKey == "" {
			log.Fatal("OpenAI API key is required. Use -api-key flag or set OPENAI_API_KEY environment variable.")
		}
	}

	count := quizarena.ClampQuestionCount(*questions)
	difficulty := quizarena.NormalizeDifficulty(*level)

	gen := quizarena.NewQuizGenerator(quizarena.NewGateway(*apiKey, *model))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var (
		generated []quizarena.GeneratedQuestion
		err       error
	)
	if *general {
		generated, err = gen.GenerateGeneralQuiz(ctx, *subject, *topic, difficulty, count)
	} else {
		generated, err = gen.GenerateTechnicalQuiz(ctx, *language, *topic, difficulty, count, *withCode)
	}
	if err != nil {
		if aiErr, ok := quizarena.AsAIError(err); ok {
			log.Fatalf("Generation failed (%s): %s\nSuggestion: %s", aiErr.Kind, aiErr.Message, aiErr.Suggestion)
		}
		log.Fatalf("Generation failed: %v", err)
	}
	if len(generated) == 0 {
		log.Fatal("The AI returned no usable questions. Try a different topic or model.")
	}

	if *playMode {
		playQuiz(*topic, generated)
		return
	}

	output, err := json.MarshalIndent(map[string]interface{}{
		"topic":     *topic,
		"level":     difficulty,
		"questions": generated,
	}, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal quiz: %v", err)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, output, 0644); err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		log.Printf("Quiz saved to: %s", *outputFile)
	} else {
		fmt.Println(string(output))
	}
}

// playQuiz runs the generated quiz in the terminal using the same ephemeral
// session player the web demo mode uses.
func playQuiz(topic string, generated []quizarena.GeneratedQuestion) {
	session := quizarena.NewDemoSession(topic, generated)
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Printf("Quiz on: %s (%d questions)\n", topic, len(session.Questions))
	fmt.Println("Answer with A-D, or press Enter to skip.")
	fmt.Println()

	labels := []string{"A", "B", "C", "D", "E", "F"}
	for !session.Finished() {
		q := session.Current()
		fmt.Printf("Q%d. %s\n", session.CurrentIndex+1, q.Text)
		if q.CodeSnippet != "" {
			fmt.Printf("\n%s\n", q.CodeSnippet)
		}
		for i, opt := range q.Options {
			if i < len(labels) {
				fmt.Printf("  %s) %s\n", labels[i], opt)
			}
		}

		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		input := strings.ToUpper(strings.TrimSpace(scanner.Text()))

		selected := ""
		for i, label := range labels {
			if input == label && i < len(q.Options) {
				selected = q.Options[i]
				break
			}
		}

		correct, _ := session.Submit(selected)
		switch {
		case selected == "":
			fmt.Printf("Skipped. The answer was: %s\n", q.CorrectAnswer)
		case correct:
			fmt.Println("Correct!")
		default:
			fmt.Printf("Wrong. The answer was: %s\n", q.CorrectAnswer)
		}
		if q.Explanation != "" {
			fmt.Printf("   %s\n", q.Explanation)
		}
		fmt.Println()
	}

	results := session.Results()
	fmt.Printf("Final score: %d%% (%d correct, %d wrong, %d skipped out of %d)\n",
		results.ScorePercent, results.Correct, results.Wrong, results.Skipped, results.Total)
}
