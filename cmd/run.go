package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-scout/internal/ai"
	"github.com/spigell/job-scout/internal/ai/gemini"
	"github.com/spigell/job-scout/internal/export"
	"github.com/spigell/job-scout/internal/filtering"
	"github.com/spigell/job-scout/internal/headhunter"
	"github.com/spigell/job-scout/internal/listing"
	"github.com/spigell/job-scout/internal/logger"
	"github.com/spigell/job-scout/internal/query"
	"github.com/spigell/job-scout/internal/resume"
	"github.com/spigell/job-scout/internal/secrets"
	"github.com/spigell/job-scout/internal/utils"
)

const (
	PromptSearch          = "Search jobs"
	PromptShowResume      = "Show parsed resume"
	PromptExit            = "Exit"
	PromptExport          = "Export results"
	PromptReportByCompany = "Report by companies"
	PromptListingsToFile  = "Dump listings to file"
	PromptFilters         = "Show filters"
)

var errExit = errors.New("exit requested")

var startPrompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptSearch, PromptShowResume, PromptExit},
}

var resultsPrompt = promptui.Select{
	Label: "What to do with the results?",
	Items: []string{PromptExport, PromptReportByCompany, PromptListingsToFile, PromptFilters, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search jobs matching a resume and export the best matches",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

type runOptions struct {
	resumePath  string
	skills      []string
	titles      []string
	locations   []string
	outputDir   string
	format      string
	autoApprove bool
}

func init() {
	rootCmd.AddCommand(runCmd)
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("resume", "r", "", "resume file (pdf, docx or txt)")
	cmd.Flags().String("skills", "", "comma-separated extra skills to search for")
	cmd.Flags().String("titles", "", "comma-separated job titles. Suggested by the model when unset")
	cmd.Flags().String("locations", "", "comma-separated locations (default is remote)")
	cmd.Flags().StringP("output-dir", "o", ".", "directory for exported results")
	cmd.Flags().String("format", export.FormatBoth, "export format: csv, markdown or both")
	cmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation and export the results right away")
}

func optionsFromFlags(cmd *cobra.Command) runOptions {
	flags := cmd.Flags()
	get := func(name string) string {
		value, _ := flags.GetString(name)
		return strings.TrimSpace(value)
	}
	autoApprove, _ := flags.GetBool("auto-approve")

	return runOptions{
		resumePath:  get("resume"),
		skills:      utils.SplitList(get("skills")),
		titles:      utils.SplitList(get("titles")),
		locations:   utils.SplitList(get("locations")),
		outputDir:   get("output-dir"),
		format:      strings.ToLower(get("format")),
		autoApprove: autoApprove,
	}
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	logger = logger.With(zap.String("run_id", uuid.NewString()))

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}
	if config == nil || config.AI == nil || config.Search == nil {
		logger.Fatal("config is required")
	}
	if config.Exclude == nil {
		config.Exclude = &ExcludeConfig{}
	}

	opts := optionsFromFlags(cmd)

	logger.Info("starting the job-scout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if opts.resumePath == "" {
		logger.Fatal("resume file is required", zap.String("hint", "pass it with --resume"))
	}

	text, err := resume.ReadFile(opts.resumePath)
	if err != nil {
		logger.Fatal("reading the resume", zap.Error(err))
	}

	parsed := resume.Parse(text)
	logger.Info("resume parsed",
		zap.Int("skills", len(parsed.Skills)),
		zap.Int("positions", len(parsed.Experience)),
		zap.Int("education", len(parsed.Education)),
	)

	scorer, suggester, err := newAI(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai clients", zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY or GEMINI_API_KEY_FILE environment variable or the 'ai.api-key-file' key in the configuration file"),
		)
	}

	sources, err := newSources(config.Search, logger)
	if err != nil {
		logger.Fatal("configuring sources", zap.Error(err))
	}

	if !opts.autoApprove {
		if err := startLoop(logger, parsed); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	queries := query.New(suggester, logger).Generate(ctx, parsed, opts.skills, opts.titles, opts.locations)
	logger.Info("starting the search", zap.Strings("queries", queries))

	collector := listing.NewCollector(listing.CollectorConfig{
		MinDelay: config.Search.MinDelay,
		MaxDelay: config.Search.MaxDelay,
	}, logger, sources...)

	listings, err := collector.Collect(ctx, queries)
	if err != nil {
		logger.Fatal("collecting listings", zap.Error(err))
	}

	logger.Info("getting listings", zap.Int("count", listings.Len()))

	if listings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no listings found"))
		return
	}

	steps := prepareFilters(config, parsed, scorer, logger)

	listings, err = filtering.Run(ctx, steps, listings, logger)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if listings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no listings left after filters"))
		return
	}

	action := PromptExport
	for {
		var err error
		if !opts.autoApprove {
			_, action, err = resultsPrompt.Run()
			if err != nil {
				if errors.Is(err, promptui.ErrInterrupt) {
					return
				}
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of listings", zap.Int("count", listings.Len()))

		if err := handleAction(action, logger, opts, steps, listings); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}

		if opts.autoApprove {
			return
		}
	}
}

func startLoop(logger *zap.Logger, parsed *resume.Record) error {
	for {
		_, action, err := startPrompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				return errExit
			}
			return err
		}

		switch action {
		case PromptSearch:
			return nil
		case PromptShowResume:
			pretty, _ := json.MarshalIndent(struct {
				Skills     []string            `json:"skills"`
				Experience []resume.Experience `json:"experience"`
				Education  []resume.Education  `json:"education"`
			}{parsed.Skills, parsed.Experience, parsed.Education}, "", "  ")
			logger.Info(string(pretty))
		case PromptExit:
			logger.Info("exiting", zap.String("reason", "got exit from prompt"))
			return errExit
		default:
			return fmt.Errorf("invalid action: %s", action)
		}
	}
}

func handleAction(action string, logger *zap.Logger, opts runOptions, steps []filtering.Filter, listings *listing.Listings) error {
	switch action {
	case PromptExport:
		written, err := export.ToDir(opts.outputDir, opts.format, listings)
		if err != nil {
			return fmt.Errorf("export results: %w", err)
		}
		logger.Info("results exported", zap.Strings("files", written), zap.Int("listings count", listings.Len()))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(listings.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("listings count", listings.Len()))
		return nil
	case PromptListingsToFile:
		filename, err := listings.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptFilters:
		for _, status := range filtering.Describe(steps) {
			logger.Info("filter",
				zap.String("name", status.Name),
				zap.Bool("enabled", status.Enabled),
				zap.String("reason", status.Reason),
				zap.Any("details", status.Details),
			)
		}
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func newAI(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Scorer, ai.TitleSuggester, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != ai.ProviderGemini {
		return nil, nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, nil, err
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:         apiKey,
		Model:          cfg.Model,
		Timeout:        cfg.RequestTimeout,
		ThinkingBudget: cfg.ThinkingBudget,
		MaxLogLength:   cfg.MaxLogLength,
	}, logger)
	if err != nil {
		return nil, nil, err
	}

	return gemini.NewMatcher(generator, logger), gemini.NewTitleSuggester(generator, logger), nil
}

func newSources(cfg *SearchConfig, logger *zap.Logger) ([]listing.Source, error) {
	names := cfg.Sources
	if len(names) == 0 {
		names = []string{sourceLinkedIn}
	}

	var sources []listing.Source
	for _, name := range names {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case sourceLinkedIn:
			linkedIn := &LinkedInConfig{}
			if cfg.LinkedIn != nil {
				linkedIn = cfg.LinkedIn
			}
			sources = append(sources, listing.NewLinkedIn(listing.LinkedInConfig{
				Endpoint:  linkedIn.Endpoint,
				Timeout:   cfg.RequestTimeout,
				Selectors: linkedIn.Selectors,
			}, logger))
		case sourceHeadHunter:
			hh := &HeadHunterConfig{}
			if cfg.HeadHunter != nil {
				hh = cfg.HeadHunter
			}
			sources = append(sources, headhunter.New(logger, headhunter.Config{
				APIURL:    hh.APIURL,
				UserAgent: hh.UserAgent,
				PerPage:   hh.PerPage,
				MaxPages:  hh.MaxPages,
				Timeout:   cfg.RequestTimeout,
				Params:    hh.Params,
			}))
		default:
			return nil, fmt.Errorf("unknown source %q", name)
		}
	}

	return sources, nil
}

func prepareFilters(config *Config, parsed *resume.Record, scorer ai.Scorer, logger *zap.Logger) []filtering.Filter {
	relevance := filtering.NewRelevance(&filtering.RelevanceConfig{
		Enabled:          true,
		Threshold:        config.AI.MatchThreshold,
		DefaultScore:     config.AI.DefaultScore,
		IncludeDefaulted: config.AI.IncludeDefaulted,
		Provider:         ai.ProviderGemini,
		Model:            config.AI.Model,
	}, &filtering.RelevanceDeps{
		Logger: logger,
		Scorer: scorer,
		Resume: parsed,
	})

	return []filtering.Filter{
		filtering.NewExcludedCompanies(config.Exclude.Companies, logger),
		filtering.NewExcludeFile(config.Exclude.File, logger),
		relevance,
	}
}
