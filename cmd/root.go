package cmd

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/resume-ranker/internal/document"
)

const (
	app       = "resume-ranker"
	envPrefix = "RESUME_RANKER"
)

type Config struct {
	Job        string            `mapstructure:"job"`
	JobFile    string            `mapstructure:"job-file"`
	Documents  []DocumentConfig  `mapstructure:"-"`
	Extraction *ExtractionConfig `mapstructure:"extraction"`
	Tokenizer  *TokenizerConfig  `mapstructure:"tokenizer"`
	Filters    *FiltersConfig    `mapstructure:"filters"`
	Output     *OutputConfig     `mapstructure:"output"`
}

// DocumentConfig is one entry of the documents list. A bare string in the
// config file is a path with the format detected from its extension.
type DocumentConfig struct {
	Path   string          `mapstructure:"path"`
	Format document.Format `mapstructure:"format"`
}

type ExtractionConfig struct {
	Workers int           `mapstructure:"workers"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TokenizerConfig struct {
	MinLength    int  `mapstructure:"min-length"`
	StopWords    bool `mapstructure:"stop-words"`
	MatchedTerms int  `mapstructure:"matched-terms"`
}

type FiltersConfig struct {
	Exclude      []string `mapstructure:"exclude"`
	MinimumScore float64  `mapstructure:"minimum-score"`
	Top          int      `mapstructure:"top"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-ranker previews resumes and ranks them against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().Int("workers", 0, "concurrent extractions (default is the number of CPUs)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "per document extraction timeout, e.g. 30s (default is none)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("extraction.workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("extraction.timeout", rootCmd.PersistentFlags().Lookup("timeout"))

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

func initConfig() {
	// The version command needs no config.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The default config file is optional, an explicit one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	config.Documents, err = decodeDocuments(viper.Get("documents"))
	if err != nil {
		return config, err
	}

	return config, nil
}

// decodeDocuments decodes the raw documents list, accepting plain paths and
// {path, format} entries side by side.
func decodeDocuments(raw any) ([]DocumentConfig, error) {
	if raw == nil {
		return nil, nil
	}

	var docs []DocumentConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			pathToDocumentHook,
			formatHook,
		),
		ErrorUnused:      true,
		WeaklyTypedInput: false,
		Result:           &docs,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding documents: %w", err)
	}

	for i, doc := range docs {
		if strings.TrimSpace(doc.Path) == "" {
			return nil, fmt.Errorf("decoding documents: entry %d has no path", i)
		}
	}

	return docs, nil
}

func pathToDocumentHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(DocumentConfig{}) {
		return data, nil
	}
	return DocumentConfig{Path: data.(string)}, nil
}

func formatHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(document.Format("")) {
		return data, nil
	}

	tag := strings.TrimSpace(data.(string))
	if tag == "" {
		return document.Format(""), nil
	}
	return document.ParseFormat(tag), nil
}
