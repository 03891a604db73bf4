package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/adhyaya/adhyaya/internal/llm"
	"github.com/adhyaya/adhyaya/internal/questiongen"
	"github.com/adhyaya/adhyaya/internal/quiz"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Check the LLM question generator",
}

var llmTestCmd = &cobra.Command{
	Use:   "test [unit]",
	Short: "Generate one question to verify the provider configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		unit := "The water cycle"
		if len(args) > 0 {
			unit = strings.Join(args, " ")
		}
		diffVal, _ := cmd.Flags().GetString("difficulty")
		diff, err := quiz.ParseDifficulty(diffVal)
		if err != nil {
			return err
		}

		c, ok := llmConfig()
		if !ok {
			return errors.New("no LLM provider configured: set ADHYAYA_LLM_PROVIDER and its API key, or GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY")
		}

		ctx, cancel := withTimeout(cmd.Context())
		defer cancel()

		provider, err := llm.NewProvider(ctx, c, nil, lg)
		if err != nil {
			return err
		}
		fmt.Printf("Provider: %s (%s)\n", c.Provider, provider.ModelID())

		gen := questiongen.New(provider, questiongen.DefaultConfig(), lg)
		q, err := gen.Generate(ctx, questiongen.Input{UnitRef: unit, Difficulty: diff})
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		fmt.Printf("\n%s\n", q.Prompt)
		for i, ch := range q.Choices {
			mark := " "
			if i == q.AnswerIndex {
				mark = "✓"
			}
			fmt.Printf("  %s %d) %s\n", mark, i+1, ch)
		}
		if q.Explanation != "" {
			fmt.Printf("\n%s\n", q.Explanation)
		}
		return nil
	},
}

func init() {
	llmTestCmd.Flags().String("difficulty", string(quiz.Medium), "Difficulty: easy, medium or hard")
	llmCmd.AddCommand(llmTestCmd)
}
