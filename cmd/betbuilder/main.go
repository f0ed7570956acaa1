package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/betbuilder/internal/cache"
	"github.com/yourusername/betbuilder/internal/config"
	"github.com/yourusername/betbuilder/internal/database"
	"github.com/yourusername/betbuilder/internal/datasource"
	"github.com/yourusername/betbuilder/internal/explain"
	"github.com/yourusername/betbuilder/internal/health"
	applogger "github.com/yourusername/betbuilder/internal/logger"
	"github.com/yourusername/betbuilder/internal/metrics"
	"github.com/yourusername/betbuilder/internal/repository"
	"github.com/yourusername/betbuilder/internal/scheduler"
	"github.com/yourusername/betbuilder/internal/scoring"
	"github.com/yourusername/betbuilder/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile    string
	dateFlag      string
	awsRegion     string
	awsSecretName string

	logger    *logrus.Logger
	cfg       *config.Config
	db        *database.DB
	repos     *repository.Repositories
	oddsCache *cache.OddsCache
	pipeline  *service.PipelineService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&awsRegion, "aws-region", "", "AWS region for secrets overlay")
	rootCmd.PersistentFlags().StringVar(&awsSecretName, "aws-secret", "", "AWS Secrets Manager secret name")
	pipelineCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Target date (YYYY-MM-DD, defaults to today)")
	settleCmd.Flags().StringVarP(&dateFlag, "date", "d", "", "Target date (YYYY-MM-DD, defaults to today)")
}

var rootCmd = &cobra.Command{
	Use:   "betbuilder",
	Short: "Football prediction scoring and settlement engine",
	Long: `Scores per-market confidence for upcoming fixtures, assembles
combination bets from converging markets, and settles them once results
are in.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the selection pipeline once",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := targetDate()
		if err != nil {
			return err
		}

		m, err := pipeline.Run(cmd.Context(), date)
		if err != nil {
			return err
		}
		logger.WithField("metrics", m.String()).Info("pipeline finished")
		return nil
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Settle pending bets and refresh trebles",
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := targetDate()
		if err != nil {
			return err
		}
		return pipeline.SettleRun(cmd.Context(), date)
	},
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run scheduled pipeline and settlement jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDaemon(cmd.Context())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("betbuilder %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd.AddCommand(pipelineCmd, settleCmd, daemonCmd, versionCmd)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if awsSecretName != "" {
		if err := config.LoadSecretsFromAWS(cfg, awsRegion, awsSecretName); err != nil {
			return fmt.Errorf("loading secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	logger = applogger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("building repositories: %w", err)
	}

	oddsCache = cache.NewOddsCache(&cfg.Redis, logger)

	provider := datasource.NewProvider(&cfg.Provider, logger)
	estimator := scoring.NewEstimator(&cfg.Betting, logger)
	filter := service.NewMarketFilter(&cfg.Betting)
	builder := service.NewBetBuilderService(&cfg.Betting, repos.Combination, logger)
	settlement := service.NewSettlementService(repos.Bet, repos.Fixture, cfg.Betting.StakePerBet, logger)
	trebles := service.NewTrebleService(repos.Bet, cfg.Betting.StakePerBet, logger)
	explainer := explain.NewGenerator(cfg.Explain, logger)

	pipeline = service.NewPipelineService(
		&cfg.Betting, provider, repos, oddsCache,
		estimator, filter, builder, settlement, trebles, explainer, logger,
	)
	return nil
}

func teardown() {
	if oddsCache != nil {
		_ = oddsCache.Close()
	}
	if db != nil {
		db.Close()
	}
}

func targetDate() (time.Time, error) {
	if dateFlag == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	date, err := time.Parse("2006-01-02", dateFlag)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", dateFlag, err)
	}
	return date, nil
}

func runDaemon(ctx context.Context) error {
	sched := scheduler.NewScheduler(pipeline, logger)
	if err := sched.SchedulePipeline(cfg.Schedule.PipelineCron); err != nil {
		return err
	}
	if err := sched.ScheduleSettlement(cfg.Schedule.SettlementIntervalMinutes); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		if err := sched.Stop(); err != nil {
			logger.WithError(err).Error("stopping scheduler")
		}
	}()

	healthSrv := health.NewServer(fmt.Sprintf(":%d", cfg.Metrics.Port), db, logger)
	healthSrv.SetReady(true)

	errCh := make(chan error, 1)
	go func() {
		errCh <- healthSrv.Start(ctx)
	}()

	// Live score stream flips finished fixtures straight into settlement
	// scope instead of waiting for the next provider poll.
	if cfg.Provider.StreamURL != "" {
		stream := datasource.NewStreamClient(cfg.Provider.StreamURL, cfg.Provider.APIKey, logger)
		stream.OnUpdate(func(update datasource.FixtureUpdate) {
			if update.Status != "FT" {
				return
			}
			settleCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := pipeline.SettleRun(settleCtx, time.Now().UTC().Truncate(24*time.Hour)); err != nil {
				logger.WithError(err).Warn("stream-triggered settlement failed")
			}
		})
		if err := stream.Connect(ctx); err != nil {
			logger.WithError(err).Warn("live stream unavailable, relying on scheduled settlement")
		} else {
			defer stream.Close()
		}
	}

	logger.WithField("next_run", sched.NextRun().Format(time.RFC3339)).Info("daemon running")

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("health server: %w", err)
		}
		return nil
	}
}
