package questiongen

import (
	"fmt"
	"strings"

	"github.com/adhyaya/adhyaya/internal/quiz"
)

const systemPrompt = `You write revision questions for a learner going back over material they studied earlier.

Rules:
- Write one multiple-choice question about the given study unit at the given difficulty.
- Provide exactly 4 options with exactly one correct. Distractors should reflect common misconceptions, not random filler.
- Easy questions check recall of a definition or fact. Medium questions ask the learner to apply an idea. Hard questions combine ideas or ask why.
- Keep the prompt self-contained and under 300 characters.
- The explanation says briefly why the correct option is right.
- Do not repeat any question from the "already asked" list.`

var difficultyGuide = map[quiz.Difficulty]string{
	quiz.Easy:   "easy (recall a fact or definition)",
	quiz.Medium: "medium (apply an idea to a simple case)",
	quiz.Hard:   "hard (combine ideas or explain why)",
}

// buildUserMessage renders input for the model.
func buildUserMessage(input Input, cfg Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Study unit: %s\n", input.UnitRef)

	level, ok := difficultyGuide[input.Difficulty]
	if !ok {
		level = string(input.Difficulty)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n", level)

	b.WriteString("\nAlready asked in this quiz:\n")
	b.WriteString(buildDedup(input.PriorQuestions, cfg.MaxPriorQuestions))
	return b.String()
}

// buildDedup numbers the most recent max prompts, or returns "None".
func buildDedup(prior []string, max int) string {
	if len(prior) == 0 {
		return "None"
	}
	if max > 0 && len(prior) > max {
		prior = prior[len(prior)-max:]
	}

	var b strings.Builder
	for i, q := range prior {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
