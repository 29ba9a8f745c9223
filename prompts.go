package quizarena

import (
	"fmt"
	"strings"
)

// Prompt templates for quiz generation, intent parsing and explanation
// generation. Each Render* function produces the final prompt string sent to
// the gateway.

const technicalQuizPrompt = `You are an expert technical interviewer.
Generate a multiple-choice quiz for a %s-level programmer in %s.
The specific topic is: %s.

Constraints:
1. Generate exactly %d questions.
2. %s
3. Provide 4 options for each question.
4. Indicate the correct option.
5. Provide a brief explanation.

Output Format (Strict JSON):
{
  "questions": [
    {
      "text": "The question text here (do not include the code here)",
      "code_snippet": "def example():\n    return 'Optional code here'",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer": "Option A",
      "explanation": "Why this is correct."
    }
  ]
}`

const withCodeInstruction = "Each question MUST include a relevant code snippet that the user must analyze to answer."
const withoutCodeInstruction = "Questions should be conceptual. Do NOT include long code snippets."

// RenderTechnicalQuizPrompt fills the programming-quiz template. The code
// instruction sentence changes depending on whether snippets were requested.
func RenderTechnicalQuizPrompt(language, topic, level string, numQuestions int, includeCode bool) string {
	instruction := withoutCodeInstruction
	if includeCode {
		instruction = withCodeInstruction
	}
	return fmt.Sprintf(technicalQuizPrompt, level, language, topic, numQuestions, instruction)
}

const generalQuizPrompt = `You are an expert educator and quiz master.
Generate a multiple-choice quiz about: %s
Subject area: %s
Difficulty level: %s

Constraints:
1. Generate exactly %d questions.
2. Questions should test knowledge, not opinion.
3. Provide 4 options for each question.
4. Only ONE option should be correct.
5. Provide a brief explanation for each answer.

Output Format (Strict JSON):
{
  "questions": [
    {
      "text": "The question text here",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correct_answer": "Option A",
      "explanation": "Why this is correct."
    }
  ]
}`

// RenderGeneralQuizPrompt fills the general-knowledge quiz template.
func RenderGeneralQuizPrompt(subject, topic, level string, numQuestions int) string {
	return fmt.Sprintf(generalQuizPrompt, topic, subject, level, numQuestions)
}

const intentPrompt = `Analyze the user's request: "%s"

Extract the following parameters to generate a coding quiz:
1. Language (e.g., Python, JavaScript, SQL). If implied, infer it. Defaults to "General Programming".
2. Topic (e.g., Decorators, React Hooks). If general, use "General Knowledge".
3. Difficulty (Beginner, Intermediate, Expert). Default to Intermediate.
4. Count (Number of questions). Default to 5. Max 20.

Output ONLY valid JSON in this format:
{
  "language": "Python",
  "topic": "Decorators",
  "level": "Expert",
  "count": 5
}`

// RenderIntentPrompt fills the programming intent-extraction template.
func RenderIntentPrompt(userMessage string) string {
	return fmt.Sprintf(intentPrompt, sanitizeMessage(userMessage))
}

const generalIntentPrompt = `Analyze the user's request: "%s"

Extract the following parameters to generate a quiz on ANY topic:
1. Subject (e.g., History, Science, Geography, Movies, Sports). Be specific.
2. Topic (e.g., World War 2, Solar System, European Capitals). Be specific.
3. Difficulty (Beginner, Intermediate, Expert). Default to Intermediate.
4. Count (Number of questions). Default to 5. Max 20.

Output ONLY valid JSON in this format:
{
  "subject": "History",
  "topic": "Ancient Rome",
  "level": "Intermediate",
  "count": 5
}`

// RenderGeneralIntentPrompt fills the general intent-extraction template.
func RenderGeneralIntentPrompt(userMessage string) string {
	return fmt.Sprintf(generalIntentPrompt, sanitizeMessage(userMessage))
}

const explanationPrompt = `A user answered a quiz question incorrectly.
Question: "%s"
User Answer: "%s"
Correct Answer: "%s"

Task:
Explain briefly (in 2 sentences max) why the user's answer is wrong and why the correct answer is right.
Be encouraging but technically precise.`

// RenderExplanationPrompt fills the remediation-explanation template.
func RenderExplanationPrompt(questionText, userAnswer, correctAnswer string) string {
	return fmt.Sprintf(explanationPrompt, questionText, userAnswer, correctAnswer)
}

// sanitizeMessage keeps user text from breaking out of the quoted context in
// the intent prompts.
func sanitizeMessage(msg string) string {
	msg = Truncate(msg, MaxMessageLen)
	return strings.ReplaceAll(msg, `"`, `'`)
}
