package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jobscout/jobscout/internal/jobs"
	"github.com/jobscout/jobscout/internal/logger"
	"github.com/jobscout/jobscout/internal/match"
	"github.com/jobscout/jobscout/internal/registry"
	"github.com/jobscout/jobscout/internal/source"
)

const (
	PromptRankedToFile   = "Dump ranked jobs to file"
	PromptReportBySource = "Report by source"
	PromptExit           = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptRankedToFile, PromptReportBySource, PromptExit},
}

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search all enabled job sources, rank the results against your profile",
	Run: func(cmd *cobra.Command, _ []string) {
		search(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolP("auto-approve", "y", false, "do not prompt for post-search actions, dump ranked jobs and exit")

	viper.BindPFlag("auto-approve", searchCmd.Flags().Lookup("auto-approve"))
}

// search is the main command for the cli.
func search(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting jobscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil || config.Search == nil || len(config.Search.Keywords) == 0 {
		logger.Fatal("search keywords are required under the search section")
	}

	profile, err := loadProfile(config)
	if err != nil {
		logger.Fatal("loading profile",
			zap.Error(err),
			zap.String("hint", "set JOBSCOUT_PROFILE_FILE or the 'profile-file' key in the configuration file"),
		)
	}

	reg, err := registry.New(config.Sources, logger)
	if err != nil {
		logger.Fatal("building source registry", zap.Error(err))
	}

	reg.StartSweeper()
	defer reg.StopSweeper()

	logger.Info("starting the search",
		zap.Strings("keywords", config.Search.Keywords),
		zap.Int("sources", len(reg.Adapters())),
	)

	result, err := reg.Aggregator().SearchAll(ctx, *config.Search)
	if err != nil {
		var allFailed *source.AllFailedError
		if errors.As(err, &allFailed) {
			logger.Fatal("every source failed", zap.Int("sources", len(allFailed.Failures)), zap.Error(err))
		}
		logger.Fatal("search failed", zap.Error(err))
	}

	for _, failure := range result.Errors {
		logger.Warn("source unavailable", zap.String("source", failure.Source), zap.Error(failure.Err))
	}

	found := jobs.FilterByQuery(result.Jobs, *config.Search)
	if dropped := len(result.Jobs) - len(found); dropped > 0 {
		logger.Info("filtered jobs against the query", zap.Int("dropped", dropped), zap.Int("kept", len(found)))
	}
	result.Jobs = found

	if len(result.Jobs) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs found"))
		return
	}

	scorer := match.NewScorer()
	ranked := scorer.Rank(result.Jobs, profile)

	logger.Info("ranked jobs",
		zap.Int("count", len(ranked)),
		zap.Int("top_score", ranked[0].Result.Score),
	)

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := handleAction(PromptRankedToFile, ranked, logger); err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, ranked, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, ranked []match.RankedJob, logger *zap.Logger) error {
	switch action {
	case PromptRankedToFile:
		filename, err := match.DumpToTmpFile(ranked)
		if err != nil {
			return fmt.Errorf("dump ranked jobs to file: %w", err)
		}
		logger.Info("dumped ranked jobs to file", zap.String("filename", filename))
		return nil
	case PromptReportBySource:
		pretty, _ := json.MarshalIndent(match.ReportBySource(ranked), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", len(ranked)))
		return nil
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func loadProfile(config *Config) (*jobs.Profile, error) {
	path := config.ProfileFile
	if path == "" {
		path = viper.GetString("profile-file")
	}
	if path == "" {
		return nil, errors.New("profile file is not configured")
	}
	return jobs.LoadProfile(path)
}
