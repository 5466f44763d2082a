package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/focusqueue/core/internal/adapters/cache"
	"github.com/focusqueue/core/internal/adapters/calendar"
	httpHandlers "github.com/focusqueue/core/internal/adapters/http"
	"github.com/focusqueue/core/internal/adapters/repository"
	"github.com/focusqueue/core/internal/application/scheduler"
	"github.com/focusqueue/core/internal/application/services"
	"github.com/focusqueue/core/internal/infrastructure/config"
	"github.com/focusqueue/core/internal/infrastructure/database"
	"github.com/focusqueue/core/internal/infrastructure/lifecycle"
	"github.com/focusqueue/core/internal/infrastructure/logger"
	"github.com/focusqueue/core/internal/infrastructure/metrics"
	"github.com/focusqueue/core/internal/infrastructure/server"
	"github.com/focusqueue/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the FocusQueue API server",
		Long:  "Start the API server together with the activity poller and the calendar sync job",
		Run: func(cmd *cobra.Command, args []string) {
			runServer(*configPath)
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand(configPath *string) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration(*configPath, "up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration(*configPath, "down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion(*configPath)
		},
	})

	return migrateCmd
}

// NewCalendarCommand creates the calendar command
func NewCalendarCommand(configPath *string) *cobra.Command {
	calendarCmd := &cobra.Command{
		Use:   "calendar",
		Short: "External calendar commands",
	}

	calendarCmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Import today's calendar events as time blocks",
		Run: func(cmd *cobra.Command, args []string) {
			a := bootstrap(*configPath)
			defer a.close()

			if a.gateway == nil {
				log.Fatal("Calendar is disabled; set calendar.enabled to sync")
			}

			blocks, err := a.dayPlanService.SyncToday(cmd.Context())
			if err != nil {
				log.Fatalf("Calendar sync failed: %v", err)
			}
			for _, b := range blocks {
				fmt.Printf("%s-%s  %-6s %s\n", b.StartTime, b.EndTime, b.Mode, b.Title)
			}
		},
	})

	return calendarCmd
}

// NewActivityCommand creates the activity command
func NewActivityCommand(configPath *string) *cobra.Command {
	activityCmd := &cobra.Command{
		Use:   "activity",
		Short: "Resolve and print the current activity",
		Long:  "Resolve and print the current activity. With --cached the last activity published to Redis is printed instead, falling back to resolving when nothing is cached",
		Run: func(cmd *cobra.Command, args []string) {
			cached, _ := cmd.Flags().GetBool("cached")

			a := bootstrap(*configPath)
			defer a.close()

			if cached {
				if a.redisNotifier == nil {
					log.Fatal("Redis is disabled; set redis.enabled to read the cached activity")
				}
				activity, err := a.redisNotifier.Current(cmd.Context())
				if err != nil {
					log.Fatalf("Failed to read cached activity: %v", err)
				}
				if activity != nil {
					printJSON(activity)
					return
				}
				a.logger.Infow("No cached activity, resolving")
			}

			activity, err := a.activityService.Resolve(cmd.Context())
			if err != nil {
				log.Fatalf("Failed to resolve activity: %v", err)
			}
			printJSON(activity)
		},
	}
	activityCmd.Flags().Bool("cached", false, "Print the activity last published to Redis")

	return activityCmd
}

// NewTokenCommand creates the token command
func NewTokenCommand(configPath *string) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "API token commands",
	}

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a bearer token for the API",
		Run: func(cmd *cobra.Command, args []string) {
			subject, _ := cmd.Flags().GetString("subject")

			cfg := loadConfig(*configPath)
			authService := services.NewAuthService(cfg.JWT, logger.NewNop())
			token, err := authService.Issue(subject, time.Now())
			if err != nil {
				log.Fatalf("Failed to issue token: %v", err)
			}
			printJSON(token)
		},
	}
	issueCmd.Flags().String("subject", "focusqueue-client", "Token subject, usually the client name")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}

// app holds everything the commands share
type app struct {
	cfg      *config.Config
	logger   *logger.Logger
	db       *database.DB
	metrics  *metrics.Recorder
	gateway  ports.CalendarGateway
	notifier ports.ActivityNotifier
	redis    *redis.Client
	closers  []func() error

	redisNotifier *cache.RedisNotifier

	activityService *services.ActivityService
	dayPlanService  *services.DayPlanService
	taskService     *services.TaskService
	noteService     *services.NoteService
	journalService  *services.JournalService
	authService     *services.AuthService
}

func loadConfig(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

func bootstrap(configPath string) *app {
	cfg := loadConfig(configPath)

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		appLogger.Fatalw("Failed to connect to database", "error", err)
	}
	if cfg.Database.AutoMigrate {
		if err := db.MigrateUp(); err != nil {
			appLogger.Fatalw("Failed to migrate database", "error", err)
		}
	}

	loc, err := cfg.Calendar.Location()
	if err != nil {
		appLogger.Fatalw("Invalid time zone", "error", err)
	}
	clock := services.NewSystemClock(loc)

	a := &app{cfg: cfg, logger: appLogger, db: db}
	a.closers = append(a.closers, db.Close)

	if cfg.Metrics.Enabled {
		a.metrics = metrics.New()
	}

	if cfg.Calendar.Enabled {
		credentials := calendar.NewFileCredentialSupplier(cfg.Calendar.CredentialsFile, cfg.Calendar.TokenFile, appLogger)
		a.gateway = calendar.NewGoogleGateway(credentials, cfg.Calendar.CalendarID, loc, appLogger)
	}

	if cfg.Redis.Enabled {
		client, err := cache.NewClient(cfg.Redis)
		if err != nil {
			appLogger.Fatalw("Failed to connect to Redis", "error", err)
		}
		a.redis = client
		a.closers = append(a.closers, client.Close)
		a.redisNotifier = cache.NewRedisNotifier(client, cfg.Redis.Channel, cfg.Redis.ActivityTTL, appLogger)
		a.notifier = a.redisNotifier
	} else {
		a.notifier = cache.NewMemoryNotifier(appLogger)
	}

	blockRepo := repository.NewTimeBlockRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	queueRepo := repository.NewQueueRepository(db)

	a.activityService = services.NewActivityService(blockRepo, taskRepo, queueRepo, repository.NewProgressRepository(db),
		a.notifier, clock, cfg.Resolver, a.metrics, appLogger)
	a.dayPlanService = services.NewDayPlanService(blockRepo, a.gateway, clock, a.metrics, appLogger)
	a.taskService = services.NewTaskService(taskRepo, queueRepo, clock, cfg.Timer, a.metrics, appLogger)
	a.noteService = services.NewNoteService(repository.NewNoteRepository(db), clock, appLogger)
	a.journalService = services.NewJournalService(repository.NewJournalRepository(db), clock, appLogger)
	if cfg.JWT.AuthEnabled() {
		a.authService = services.NewAuthService(cfg.JWT, appLogger)
	}

	return a
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warnw("Close failed", "error", err)
		}
	}
	_ = a.logger.Close()
}

func runServer(configPath string) {
	a := bootstrap(configPath)
	cfg := a.cfg

	handlers := &httpHandlers.Handlers{
		Activity: httpHandlers.NewActivityHandler(a.activityService, a.logger),
		DayPlan:  httpHandlers.NewDayPlanHandler(a.dayPlanService, a.logger),
		Task:     httpHandlers.NewTaskHandler(a.taskService, a.logger),
		Note:     httpHandlers.NewNoteHandler(a.noteService, a.logger),
		Journal:  httpHandlers.NewJournalHandler(a.journalService, a.logger),
	}
	srv := server.New(cfg, a.db, handlers, a.authService, a.metrics, a.logger)
	if a.redis != nil {
		srv.AddHealthCheck("redis", func(ctx context.Context) error {
			return a.redis.Ping(ctx).Err()
		})
	}

	var syncer scheduler.Syncer
	if a.gateway != nil {
		syncer = a.dayPlanService
	}
	jobs, err := scheduler.New(scheduler.Config{
		PollSchedule: cfg.Resolver.PollSchedule,
		SyncSchedule: cfg.Calendar.SyncSchedule,
		JobTimeout:   30 * time.Second,
	}, a.activityService, syncer, a.logger)
	if err != nil {
		a.logger.Fatalw("Failed to configure scheduler", "error", err)
	}

	shutdown := lifecycle.New(cfg.Server.ShutdownTimeout, a.logger)
	shutdown.Register("storage", func(context.Context) error {
		a.close()
		return nil
	})
	shutdown.Register("scheduler", jobs.Stop)
	shutdown.Register("http", srv.Shutdown)

	ctx, cancel := shutdown.Listen(context.Background())
	defer cancel()

	jobs.Start()

	a.logger.Infow("Starting FocusQueue API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"calendar", cfg.Calendar.Enabled,
		"auth", cfg.JWT.AuthEnabled(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			a.logger.Errorw("Server stopped", "error", err)
		}
	}

	if err := shutdown.Shutdown(context.Background()); err != nil {
		log.Printf("Shutdown finished with errors: %v", err)
		os.Exit(1)
	}
}

func openDatabase(configPath string) *database.DB {
	cfg := loadConfig(configPath)
	db, err := database.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func runMigration(configPath, direction string) {
	db := openDatabase(configPath)
	defer db.Close()

	var err error
	switch direction {
	case "up":
		err = db.MigrateUp()
	case "down":
		err = db.MigrateDown()
	}
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Printf("Migration %s completed successfully\n", direction)
}

func showMigrationVersion(configPath string) {
	db := openDatabase(configPath)
	defer db.Close()

	version, dirty, err := db.MigrationVersion()
	if err != nil {
		log.Fatalf("Failed to get migration version: %v", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}
