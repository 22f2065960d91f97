package cli

import (
	"context"
	"fmt"
	"log"

	"colmeia-quiz-service/internal/app"
	"colmeia-quiz-service/internal/infra/excel"
	"colmeia-quiz-service/internal/infra/file"
	"colmeia-quiz-service/internal/infra/postgres"
	pgmigrations "colmeia-quiz-service/internal/infra/postgres/migrations"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/spf13/cobra"
)

type importOptions struct {
	xlsxPath   string
	sheet      string
	outPath    string
	toPostgres bool
}

// NewImportQuestionsCmd converts an xlsx question sheet into a bank document.
func NewImportQuestionsCmd(configPath *string) *cobra.Command {
	opts := importOptions{}
	cmd := &cobra.Command{
		Use:   "import-questions",
		Short: "Import the question bank from an Excel workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImportQuestions(cmd.Context(), *configPath, opts)
		},
	}
	cmd.Flags().StringVar(&opts.xlsxPath, "xlsx", "", "workbook with question, category, answer, weight columns")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "sheet name (defaults to the first sheet)")
	cmd.Flags().StringVar(&opts.outPath, "out", "", "write the bank as JSON to this path")
	cmd.Flags().BoolVar(&opts.toPostgres, "to-postgres", false, "store the bank in postgres (postgres.url)")
	_ = cmd.MarkFlagRequired("xlsx")
	return cmd
}

func runImportQuestions(ctx context.Context, configPath string, opts importOptions) error {
	if opts.outPath == "" && !opts.toPostgres {
		return fmt.Errorf("nothing to do: pass --out and/or --to-postgres")
	}

	cfg := excel.DefaultImportConfig(opts.xlsxPath)
	cfg.SheetName = opts.sheet
	result, err := excel.ImportQuestions(cfg)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		log.Printf("WARN: [Import] %s", msg)
	}

	// Same validation the server applies at startup.
	bank, err := app.NewQuestionBank(result.Questions)
	if err != nil {
		return err
	}
	if bank.Len() == 0 {
		return fmt.Errorf("no questions found in %s", opts.xlsxPath)
	}
	log.Printf("INFO: [Import] %d questions read, %d rows skipped", bank.Len(), result.Skipped)

	if opts.outPath != "" {
		if err := file.WriteQuestions(opts.outPath, result.Questions); err != nil {
			return err
		}
		log.Printf("INFO: [Import] wrote %s", opts.outPath)
	}

	if opts.toPostgres {
		conf, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if conf.Postgres.URL == "" {
			return fmt.Errorf("postgres url not configured")
		}
		if err := pgmigrations.Apply(ctx, conf.Postgres.URL); err != nil {
			return err
		}
		pool, err := pgxpool.Connect(ctx, conf.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.NewQuestionLoader(pool, conf.Questions.BankID).SaveQuestions(ctx, result.Questions); err != nil {
			return err
		}
		log.Printf("INFO: [Import] stored bank %q in postgres", conf.Questions.BankID)
	}
	return nil
}
