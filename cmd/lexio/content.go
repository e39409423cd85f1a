package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexio-app/lexio/internal/content"
	"github.com/lexio-app/lexio/internal/etymology"
	"github.com/lexio-app/lexio/internal/inference"
	"github.com/lexio-app/lexio/internal/inference/openai"
)

func newContentCommand() *cobra.Command {
	contentCommand := &cobra.Command{
		Use:   "content",
		Short: "Manage weekly instructional content",
	}

	contentCommand.AddCommand(newContentSeedCommand())
	contentCommand.AddCommand(newContentClarifyCommand())
	contentCommand.AddCommand(newContentVerifyAffixesCommand())

	return contentCommand
}

func newContentVerifyAffixesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify-affixes <week id>",
		Short: "Check a week's affixes against the etymology dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Etymology.DatasetURL == "" {
				return fmt.Errorf("etymology.dataset_url is not configured")
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			ctx := cmd.Context()
			weekAffixes, err := content.NewDBAffixRepository(db).FindByWeek(ctx, args[0])
			if err != nil {
				return fmt.Errorf("affixes.FindByWeek() > %w", err)
			}
			if len(weekAffixes) == 0 {
				return fmt.Errorf("week %q has no affixes", args[0])
			}

			cache := etymology.NewCache(etymology.NewReader(cfg.Etymology.DatasetURL), time.Hour)
			unverified := 0
			for _, affix := range weekAffixes {
				ok, err := cache.Verify(ctx, affix.Affix)
				if err != nil {
					return fmt.Errorf("cache.Verify(%s) > %w", affix.Affix, err)
				}
				if !ok {
					unverified++
					fmt.Printf("Not found in dataset: %s (%s)\n", affix.Affix, affix.Kind)
				}
			}

			fmt.Printf("Verified %d of %d affixes\n", len(weekAffixes)-unverified, len(weekAffixes))
			return nil
		},
	}
}

func newContentSeedCommand() *cobra.Command {
	var teacherUID string

	command := &cobra.Command{
		Use:   "seed <seed file>",
		Short: "Load a week of vocabulary words and affixes from a YAML file",
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

			seed, err := content.LoadSeedFile(args[0])
			if err != nil {
				return err
			}

			seeder := content.NewSeeder(
				content.NewDBWeekRepository(db),
				content.NewDBVocabRepository(db),
				content.NewDBAffixRepository(db),
			)
			weekID, err := seeder.Apply(cmd.Context(), teacherUID, seed)
			if err != nil {
				return fmt.Errorf("seeder.Apply() > %w", err)
			}

			fmt.Printf("Created week %s with %d words and %d affixes\n",
				weekID, len(seed.Words), len(seed.Affixes))
			return nil
		},
	}

	command.Flags().StringVar(&teacherUID, "teacher", "", "Teacher UID owning the new week")
	_ = command.MarkFlagRequired("teacher")

	return command
}

func newContentClarifyCommand() *cobra.Command {
	var gradeLevel int

	command := &cobra.Command{
		Use:   "clarify <week id>",
		Short: "Generate clarification notes for a week's words with OpenAI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.OpenAI.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable is required")
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			fmt.Printf("Using OpenAI provider (model: %s)\n", cfg.OpenAI.Model)
			openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, inference.DefaultMaxRetryAttempts)
			defer func() {
				_ = openaiClient.Close()
			}()

			clarifier := content.NewClarifier(content.NewDBVocabRepository(db), openaiClient)
			result, err := clarifier.ClarifyWeek(cmd.Context(), args[0], gradeLevel)
			if err != nil {
				return fmt.Errorf("clarifier.ClarifyWeek() > %w", err)
			}

			for _, word := range result.SkippedWords {
				fmt.Printf("Skipping unknown word %q in response\n", word)
			}
			fmt.Printf("Updated clarifications for %d of %d words\n", result.Updated, result.TotalWords)
			return nil
		},
	}

	command.Flags().IntVar(&gradeLevel, "grade", 3, "Target reading grade level")

	return command
}
