package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spigell/resume-ranker/internal/document"
	"github.com/spigell/resume-ranker/internal/filtering"
	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/pipeline"
	"github.com/spigell/resume-ranker/internal/ranking"
	"github.com/spigell/resume-ranker/internal/report"
	"github.com/spigell/resume-ranker/internal/textsource"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowPreviews   = "Show previews"
	PromptResultsToFile  = "Dump results to file"
	PromptExportToXLSX   = "Export to XLSX"
	PromptExit           = "Exit"
	jobDescriptionSource = "job description"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowPreviews, PromptResultsToFile, PromptExportToXLSX, PromptExit},
}

var rankCmd = &cobra.Command{
	Use:   "rank [files...]",
	Short: "Rank documents against a job description",
	Run: func(cmd *cobra.Command, args []string) {
		rank(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().String("job", "", "job description text")
	rankCmd.Flags().String("job-file", "", "file with the job description (.txt, .md, .pdf, .docx); wins over --job")
	rankCmd.Flags().StringP("format", "f", string(report.Table), "report format: table, json, yaml or xlsx")
	rankCmd.Flags().StringP("output", "o", "", "write the report to a file instead of stdout")
	rankCmd.Flags().Int("top", 0, "show only the best N documents")
	rankCmd.Flags().Float64("minimum-score", 0, "hide documents scoring below this value")
	rankCmd.Flags().StringSlice("exclude", nil, "document names to leave out of the report")
	rankCmd.Flags().BoolP("yes", "y", false, "do not show the interactive menu after ranking")

	viper.BindPFlag("job", rankCmd.Flags().Lookup("job"))
	viper.BindPFlag("job-file", rankCmd.Flags().Lookup("job-file"))
	viper.BindPFlag("output.format", rankCmd.Flags().Lookup("format"))
	viper.BindPFlag("output.file", rankCmd.Flags().Lookup("output"))
	viper.BindPFlag("filters.top", rankCmd.Flags().Lookup("top"))
	viper.BindPFlag("filters.minimum-score", rankCmd.Flags().Lookup("minimum-score"))
	viper.BindPFlag("filters.exclude", rankCmd.Flags().Lookup("exclude"))
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the resume-ranker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	format, err := report.ParseFormat(outputConfig(config).Format)
	if err != nil {
		logger.Fatal("parsing report format", zap.Error(err))
	}

	p := newPipeline(config, logger)

	job, err := textsource.Load(ctx, textsource.Source{
		Name:      jobDescriptionSource,
		Value:     config.Job,
		File:      config.JobFile,
		Extractor: p.Extractor(),
	})
	if err != nil {
		logger.Fatal(
			"loading the job description",
			zap.Error(err),
			zap.String("hint", "pass --job or --job-file, or set 'job' or 'job-file' in the configuration file"),
		)
	}

	docs, err := loadDocuments(config, args)
	if err != nil {
		logger.Fatal("loading documents", zap.Error(err))
	}

	logger.Info("loaded documents", zap.Int("count", docs.Len()))

	outcome, err := p.Process(ctx, job, docs.Items)
	if err != nil {
		logger.Fatal("ranking documents", zap.Error(err))
	}

	if outcome.Failures > 0 {
		logger.Warn("some documents could not be read",
			zap.Int("failures", outcome.Failures),
			zap.Int("documents", docs.Len()),
		)
	}

	if outcome.Status == pipeline.StatusNoMatches {
		logger.Info("no document shares any term with the job description")
	}

	results, err := filtering.Run(ctx, filterConfig(config), filtering.Deps{Logger: logger}, filtering.Default(), ranking.NewResults(outcome.Results))
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	rep := report.New(outcome, results)
	if err := writeReport(format, outputConfig(config).File, rep, logger); err != nil {
		logger.Fatal("writing the report", zap.Error(err))
	}

	if cmd.Flag("yes").Value.String() == "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, outcome, docs, results, rep); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, outcome *pipeline.Outcome, docs *document.Documents, results *ranking.Results, rep report.Report) error {
	switch action {
	case PromptShowPreviews:
		return report.WritePreviews(os.Stdout, outcome.Documents, docs.Items, report.PreviewLength)
	case PromptResultsToFile:
		filename, err := results.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExportToXLSX:
		filename, err := exportToTmpFile(rep)
		if err != nil {
			return fmt.Errorf("export to xlsx: %w", err)
		}
		logger.Info("exported results to workbook", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func newPipeline(config *Config, logger *zap.Logger) *pipeline.Pipeline {
	cfg := pipeline.Config{MatchedTerms: ranking.DefaultMatchedTerms}

	if config.Extraction != nil {
		cfg.Extraction.Workers = config.Extraction.Workers
		cfg.Extraction.Timeout = config.Extraction.Timeout
	}

	if config.Tokenizer != nil {
		cfg.MinTokenLength = config.Tokenizer.MinLength
		cfg.StopWords = config.Tokenizer.StopWords
		if config.Tokenizer.MatchedTerms != 0 {
			cfg.MatchedTerms = config.Tokenizer.MatchedTerms
		}
	}

	return pipeline.New(cfg, logger)
}

// loadDocuments reads the configured documents followed by the ones given as
// arguments. Clashing file names get a numeric suffix.
func loadDocuments(config *Config, args []string) (*document.Documents, error) {
	entries := make([]DocumentConfig, 0, len(config.Documents)+len(args))
	entries = append(entries, config.Documents...)
	for _, arg := range args {
		entries = append(entries, DocumentConfig{Path: arg})
	}

	if len(entries) == 0 {
		return nil, errors.New("no documents given: pass files as arguments or list them under 'documents' in the configuration file")
	}

	docs := &document.Documents{}
	for _, entry := range entries {
		doc, err := document.ReadFile(entry.Path, entry.Format)
		if err != nil {
			return nil, err
		}
		docs.Append(doc)
	}

	return docs, nil
}

func filterConfig(config *Config) *filtering.Config {
	if config.Filters == nil {
		return &filtering.Config{}
	}

	return &filtering.Config{
		Exclude:      config.Filters.Exclude,
		MinimumScore: config.Filters.MinimumScore,
		Top:          config.Filters.Top,
	}
}

func outputConfig(config *Config) OutputConfig {
	if config.Output == nil {
		return OutputConfig{}
	}
	return *config.Output
}

// writeReport writes to file, or to stdout when file is empty. A workbook is
// never written to a terminal and goes to a temporary file instead.
func writeReport(format report.Format, file string, rep report.Report, logger *zap.Logger) error {
	if file == "" && format == report.XLSX {
		filename, err := exportToTmpFile(rep)
		if err != nil {
			return err
		}
		logger.Info("exported results to workbook", zap.String("filename", filename))
		return nil
	}

	var w io.Writer = os.Stdout
	if file != "" {
		f, err := os.Create(file)
		if err != nil {
			return fmt.Errorf("creating report file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := report.Write(w, format, rep); err != nil {
		return err
	}

	if file != "" {
		logger.Info("report written", zap.String("filename", file), zap.String("format", string(format)))
	}

	return nil
}

func exportToTmpFile(rep report.Report) (string, error) {
	file, err := os.CreateTemp("", "ranking_*.xlsx")
	if err != nil {
		return "", err
	}
	defer file.Close()

	if err := report.WriteXLSX(file, rep); err != nil {
		return "", err
	}

	return file.Name(), nil
}
