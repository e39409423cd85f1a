package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lexio-app/lexio/internal/content"
	"github.com/lexio-app/lexio/internal/roster"
)

func newRosterCommand() *cobra.Command {
	rosterCommand := &cobra.Command{
		Use:   "roster",
		Short: "Manage a teacher's student roster",
	}

	rosterCommand.AddCommand(newRosterImportCommand())

	return rosterCommand
}

func newRosterImportCommand() *cobra.Command {
	var teacherUID string
	var sheetName string
	var startRow int

	command := &cobra.Command{
		Use:   "import <xlsx file>",
		Short: "Import students from a class spreadsheet",
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

			importConfig := roster.DefaultImportConfig(args[0])
			importConfig.SheetName = sheetName
			importConfig.StartRow = startRow

			importer := roster.NewImporter(content.NewDBStudentRepository(db))
			result, err := importer.Import(cmd.Context(), teacherUID, importConfig)
			if err != nil {
				return fmt.Errorf("importer.Import() > %w", err)
			}

			fmt.Printf("Processed %d rows: %d imported, %d skipped, %d failed\n",
				result.TotalProcessed, result.Imported, result.Skipped, len(result.Errors))
			for _, importError := range result.Errors {
				fmt.Printf("  %s\n", importError)
			}
			return nil
		},
	}

	flags := command.Flags()
	flags.StringVar(&teacherUID, "teacher", "", "Teacher UID owning the imported students")
	flags.StringVar(&sheetName, "sheet", "Sheet1", "Name of the sheet to import")
	flags.IntVar(&startRow, "start-row", 2, "First row to import (1-based)")
	_ = command.MarkFlagRequired("teacher")

	return command
}
