package aiquiz

import "fmt"

const systemPrompt = `
You write multiple-choice questions for university course quizzes.

Rules:
1. Only write questions about academic subjects.
2. Each question has exactly four options and exactly one correct option.
3. Difficulty is one of easy, medium or hard:
   - easy: definitions and basic concepts
   - medium: applying or interpreting a concept
   - hard: analysis, deduction or calculation
4. All options have similar length and structure. Wrong options are plausible.
5. Never reveal the answer in the question text.

Answer with pure JSON and nothing else, in this shape:

[
  {
    "question": "<question text>",
    "options": ["<option A>", "<option B>", "<option C>", "<option D>"],
    "correctAnswer": "C",
    "explanation": "<short explanation of the correct option>"
  }
]
`

func BuildUserPrompt(req DraftRequest) string {
	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = "medium"
	}
	return fmt.Sprintf(
		"Write %d multiple-choice questions about %q with %s difficulty. "+
			"Follow the JSON format from the instructions exactly.",
		req.count(), req.Topic, difficulty,
	)
}
