package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobradar/jobradar/internal/ai"
	"github.com/jobradar/jobradar/internal/ai/gemini"
	"github.com/jobradar/jobradar/internal/fetch"
	"github.com/jobradar/jobradar/internal/job"
	"github.com/jobradar/jobradar/internal/logger"
	"github.com/jobradar/jobradar/internal/pipeline"
	"github.com/jobradar/jobradar/internal/profile"
	"github.com/jobradar/jobradar/internal/report"
	"github.com/jobradar/jobradar/internal/secrets"
	"github.com/jobradar/jobradar/internal/seen"
)

const (
	PromptExit            = "Exit"
	PromptReportByCompany = "Report by company"
	PromptShowSummary     = "Show summary"
	PromptRankedToFile    = "Dump ranked postings to file"
)

var errExit = errors.New("exit requested")

var runPrompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowSummary, PromptReportByCompany, PromptRankedToFile, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, score and rank postings, then write the reports",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "write reports and exit without the interactive prompt")
	runCmd.Flags().Bool("new-only", false, "only include postings not seen in prior runs")
	runCmd.Flags().Float64("min-score", -1, "override the profile's minimum score for this run")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting job-radar", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	prof, err := profile.Load(config.profilePath())
	if err != nil {
		logger.Fatal("loading profile",
			zap.Error(err),
			zap.String("hint", "run 'job-radar init' to create a profile"),
		)
	}

	applyRunOverrides(cmd, prof)

	if err := prof.Validate(); err != nil {
		logger.Fatal("invalid profile", zap.Error(err))
	}

	store, err := seen.Open(config.seenDBPath())
	if err != nil {
		logger.Fatal("opening seen-state store", zap.Error(err))
	}
	defer store.Close()

	state, err := store.Load()
	if err != nil {
		logger.Fatal("loading seen-state", zap.Error(err))
	}

	query := buildQuery(config, prof)
	logger.Info("starting the search", zap.String("search", query.Search))

	fetcher := fetch.New(logger, enabledSources(config)...)
	raw := fetcher.FetchAll(ctx, query, func(source string, count int, err error) {
		if err != nil {
			logger.Warn("source finished with error", zap.String("source", source), zap.Error(err))
			return
		}
		logger.Info("source finished", zap.String("source", source), zap.Int("count", count))
	})

	deps := &pipeline.Deps{
		Profile: prof,
		Logger:  logger,
		State:   state,
		Now:     time.Now,
	}

	ranked, summary, err := pipeline.Run(ctx, deps, raw)
	if err != nil {
		logger.Fatal("pipeline failed", zap.Error(err))
	}

	if err := store.Save(state); err != nil {
		logger.Fatal("saving seen-state", zap.Error(err))
	}

	logger.Info("pipeline completed",
		zap.Int("fetched", summary.TotalFetched),
		zap.Int("rejected", summary.Rejected),
		zap.Int("unique", summary.AfterDedupe),
		zap.Int("ranked", summary.AfterMinScore),
		zap.Int("new", summary.NewCount),
	)

	annotateWithAI(ctx, config.AI, prof, ranked, logger)

	data := report.NewData(prof, ranked, summary, time.Now())
	writeReports(config, data, logger)

	if cmd.Flag("auto-approve").Value.String() == "true" {
		return
	}

	for {
		_, action, err := runPrompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, ranked, summary); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, ranked *job.ScoredPostings, summary pipeline.Summary) error {
	switch action {
	case PromptShowSummary:
		pretty, _ := json.MarshalIndent(summary, "", "  ")
		logger.Info(string(pretty), zap.Int("ranked count", ranked.Len()))
		return nil
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(ranked.ReportByCompany(), "", "  ")
		logger.Info(string(pretty), zap.Int("ranked count", ranked.Len()))
		return nil
	case PromptRankedToFile:
		filename, err := ranked.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// applyRunOverrides lets flags tighten the profile for one run without
// touching the saved profile.
func applyRunOverrides(cmd *cobra.Command, prof *profile.Profile) {
	if cmd == nil {
		return
	}

	if flag := cmd.Flag("new-only"); flag != nil && strings.EqualFold(flag.Value.String(), "true") {
		prof.NewOnly = true
	}

	if flag := cmd.Flag("min-score"); flag != nil && flag.Changed {
		if v, err := cmd.Flags().GetFloat64("min-score"); err == nil && v >= 0 {
			prof.MinScore = v
		}
	}
}

// buildQuery derives the search text from the config, falling back to the
// profile's first target title, then its first core skill.
func buildQuery(config *Config, prof *profile.Profile) fetch.Query {
	search := ""
	if config != nil {
		search = strings.TrimSpace(config.Search)
	}
	if search == "" && len(prof.TargetTitles) > 0 {
		search = prof.TargetTitles[0]
	}
	if search == "" && len(prof.CoreSkills) > 0 {
		search = prof.CoreSkills[0]
	}

	return fetch.Query{Search: search, Location: prof.Location}
}

func enabledSources(config *Config) []fetch.Source {
	enabled := func(toggle *bool) bool {
		return toggle == nil || *toggle
	}

	var sources SourcesConfig
	if config != nil && config.Sources != nil {
		sources = *config.Sources
	}

	var out []fetch.Source
	if enabled(sources.Remotive) {
		out = append(out, fetch.NewRemotive())
	}
	if enabled(sources.Arbeitnow) {
		out = append(out, fetch.NewArbeitnow())
	}
	if enabled(sources.WeWorkRemotely) {
		out = append(out, fetch.NewWeWorkRemotely())
	}
	return out
}

func writeReports(config *Config, data *report.Data, logger *zap.Logger) {
	renderer, err := report.New(config.reportDir())
	if err != nil {
		logger.Fatal("preparing report renderer", zap.Error(err))
	}

	html := true
	markdown := true
	if config != nil && config.Report != nil {
		html = config.Report.HTML
		markdown = config.Report.Markdown
		if !html && !markdown {
			html = true
		}
	}

	if html {
		path, err := renderer.WriteHTML(data)
		if err != nil {
			logger.Fatal("writing html report", zap.Error(err))
		}
		logger.Info("report written", zap.String("path", path))
	}

	if markdown {
		path, err := renderer.WriteMarkdown(data)
		if err != nil {
			logger.Fatal("writing markdown report", zap.Error(err))
		}
		logger.Info("report written", zap.String("path", path))
	}
}

// annotateWithAI asks the configured matcher for a verdict on the top-tier
// postings. Failures annotate the posting and move on; the run never fails
// because the AI did.
func annotateWithAI(ctx context.Context, cfg *AIConfig, prof *profile.Profile, ranked *job.ScoredPostings, zlog *zap.Logger) {
	if cfg == nil || !cfg.Enabled {
		return
	}

	matcher, err := newAIMatcher(ctx, cfg, zlog)
	if err != nil {
		zlog.Warn("skipping AI annotation", zap.Error(err))
		return
	}

	for _, posting := range ranked.ByTier(job.TierHero) {
		assessment, err := matcher.Evaluate(ctx, prof, posting)
		if err != nil {
			zlog.Warn("AI evaluation failed",
				zap.String("posting_key", posting.Key),
				zap.Error(err),
			)
			posting.AI = &job.AIAssessment{Error: err.Error()}
			continue
		}

		posting.AI = &job.AIAssessment{
			Fit:    assessment.Fit,
			Score:  assessment.Score,
			Reason: assessment.Reason,
		}

		zlog.Info("AI assessment attached",
			zap.String("posting_key", posting.Key),
			zap.Bool("ai_fit", assessment.Fit),
			zap.Float64("ai_score", assessment.Score),
		)
	}
}

func newAIMatcher(ctx context.Context, cfg *AIConfig, zlog *zap.Logger) (ai.Matcher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai annotation is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	aiLogger := logger.WithAIFields(zlog, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, aiLogger)
	if err != nil {
		return nil, err
	}

	minScore := cfg.MinimumFitScore
	if minScore < 0 {
		minScore = 0
	}

	return gemini.NewMatcher(generator, minScore, cfg.Gemini.MaxLogLength, aiLogger), nil
}
