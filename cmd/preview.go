package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spigell/resume-ranker/internal/logger"
	"github.com/spigell/resume-ranker/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var previewCmd = &cobra.Command{
	Use:   "preview [files...]",
	Short: "Print the beginning of the text extracted from each document",
	Run: func(cmd *cobra.Command, args []string) {
		preview(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().IntP("length", "l", report.PreviewLength, "how many characters of each document to show")
}

func preview(cmd *cobra.Command, args []string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	docs, err := loadDocuments(config, args)
	if err != nil {
		logger.Fatal("loading documents", zap.Error(err))
	}

	length, err := cmd.Flags().GetInt("length")
	if err != nil {
		logger.Fatal("reading length flag", zap.Error(err))
	}

	texts := newPipeline(config, logger).Preview(context.Background(), docs.Items)

	if err := report.WritePreviews(os.Stdout, texts, docs.Items, length); err != nil {
		logger.Fatal("writing previews", zap.Error(err))
	}
}
