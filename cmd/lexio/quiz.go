package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/lexio-app/lexio/internal/content"
	"github.com/lexio-app/lexio/internal/quiz"
)

type ModeFlag quiz.Mode

// Set implements pflag.Value.
func (m *ModeFlag) Set(v string) error {
	mode := quiz.Mode(v)
	if !mode.Valid() {
		return fmt.Errorf("invalid value %q, valid values are %q or %q", v, quiz.ModeDaily, quiz.ModeFriday)
	}
	*m = ModeFlag(mode)
	return nil
}

// String implements pflag.Value.
func (m *ModeFlag) String() string {
	if m == nil {
		return ""
	}
	return string(*m)
}

// Type implements pflag.Value.
func (m *ModeFlag) Type() string {
	return "ModeFlag"
}

var _ pflag.Value = (*ModeFlag)(nil)

func newQuizCommand() *cobra.Command {
	quizCommand := &cobra.Command{
		Use:   "quiz",
		Short: "Quiz commands for previewing generated quizzes",
	}

	quizCommand.AddCommand(newQuizPreviewCommand())

	return quizCommand
}

func newQuizPreviewCommand() *cobra.Command {
	mode := ModeFlag(quiz.ModeDaily)
	var numQuestions int
	var showAnswers bool
	var seed int64

	command := &cobra.Command{
		Use:   "preview <week id>",
		Short: "Compose a quiz from a week's content and print it without saving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			quizMode := quiz.Mode(mode)

			ctx := cmd.Context()
			weekID := args[0]
			vocab := content.NewDBVocabRepository(db)
			affixes := content.NewDBAffixRepository(db)

			words, err := vocab.FindByWeek(ctx, weekID)
			if err != nil {
				return fmt.Errorf("vocab.FindByWeek() > %w", err)
			}
			if len(words) == 0 {
				return fmt.Errorf("week %q has no vocabulary words", weekID)
			}
			weekAffixes, err := affixes.FindByWeek(ctx, weekID)
			if err != nil {
				return fmt.Errorf("affixes.FindByWeek() > %w", err)
			}

			rng := rand.New(rand.NewSource(seed))
			if seed == 0 {
				rng = rand.New(rand.NewSource(time.Now().UnixNano()))
			}
			composer := quiz.NewComposer(rng)
			questions, key := composer.Compose(quiz.Params{
				Mode:           quizMode,
				NumQuestions:   numQuestions,
				CurrentWords:   previewWords(words),
				CurrentAffixes: previewAffixes(weekAffixes),
			})

			printQuestions(questions, key, showAnswers)
			return nil
		},
	}

	flags := command.Flags()
	flags.Var(&mode, "mode", "Quiz mode: daily or friday")
	flags.IntVar(&numQuestions, "questions", 10, "Number of questions to compose")
	flags.BoolVar(&showAnswers, "show-answers", false, "Highlight the correct choice of each question")
	flags.Int64Var(&seed, "seed", 0, "Random seed for reproducible previews (0 uses the clock)")

	return command
}

func printQuestions(questions []quiz.Question, key quiz.AnswerKey, showAnswers bool) {
	bold := color.New(color.Bold)

	for i, question := range questions {
		bold.Printf("%d. %s\n", i+1, question.Prompt)
		for j, choice := range question.Choices {
			if showAnswers && key.CorrectIndex[question.ID] == j {
				color.Green("   %c) %s", 'a'+j, choice)
				continue
			}
			fmt.Printf("   %c) %s\n", 'a'+j, choice)
		}
		fmt.Println()
	}
}

func previewWords(words []content.VocabWord) []quiz.Word {
	out := make([]quiz.Word, 0, len(words))
	for _, word := range words {
		out = append(out, quiz.Word{ID: word.ID, Word: word.Word, Definition: word.Definition})
	}
	return out
}

func previewAffixes(affixes []content.Affix) []quiz.Affix {
	out := make([]quiz.Affix, 0, len(affixes))
	for _, affix := range affixes {
		out = append(out, quiz.Affix{ID: affix.ID, Affix: affix.Affix, Meaning: affix.Meaning})
	}
	return out
}
