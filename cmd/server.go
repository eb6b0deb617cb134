package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hotel-reservation/internal/data/entity"
	"hotel-reservation/internal/data/repository"
	"hotel-reservation/internal/usecase"
	"hotel-reservation/internal/wire"
	"hotel-reservation/pkg/database"
	"hotel-reservation/pkg/event"
	"hotel-reservation/pkg/utils"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

type ServeOptions struct {
	*RootOptions
	Migrate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:          "serve",
		Short:        "Start the HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "apply the schema before serving (postgres driver only)")

	return cmd
}

func runServer(parent context.Context, opts *ServeOptions) error {
	config, logger, err := setup(opts.RootOptions)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.String("driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, closeDB, err := openRepository(ctx, config, opts.Migrate, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	publisher := newPublisher(config, logger)
	defer publisher.Close()

	app := wire.Wiring(repos, config, logger, usecase.WithPublisher(publisher))
	if err := app.Service.Load(ctx); err != nil {
		return fmt.Errorf("load reservation state: %w", err)
	}

	runCtx, cancelRun := context.WithCancel(context.Background())
	background := make(chan struct{})
	go func() {
		defer close(background)
		app.Service.Run(runCtx)
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.App.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err = <-serveErr:
		logger.Error("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	// the ledger flusher writes what is left when it stops
	cancelRun()
	<-background
	if flushErr := app.Service.Flush(shutdownCtx); flushErr != nil {
		logger.Error("Final ledger flush failed", zap.Error(flushErr))
	}

	logger.Info("Server stopped")
	return err
}

func openRepository(ctx context.Context, config *utils.Config, migrate bool, logger *zap.Logger) (*repository.Repository, func(), error) {
	switch config.Database.Driver {
	case utils.DriverMemory:
		repos := repository.NewMemoryRepository(logger)
		seedDevSessions(repos, config, logger)
		logger.Warn("Using in-memory storage; state is lost on restart")
		return repos, func() {}, nil

	case utils.DriverPostgres:
		db, err := database.InitDB(ctx, config.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		logger.Info("Database connected successfully")

		if migrate {
			if err := database.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, nil, err
			}
			logger.Info("Schema applied")
		}
		return repository.NewRepository(db, logger), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", config.Database.Driver)
	}
}

// seedDevSessions registers the static tokens from config so the memory
// driver can be exercised without the auth service.
func seedDevSessions(repos *repository.Repository, config *utils.Config, logger *zap.Logger) {
	sessions, ok := repos.Session.(*repository.MemorySessionRepository)
	if !ok {
		return
	}

	now := time.Now()
	for token, role := range map[string]entity.UserRole{
		config.Auth.DevAdminToken:    entity.RoleAdmin,
		config.Auth.DevCustomerToken: entity.RoleCustomer,
	} {
		if token == "" {
			continue
		}
		sessions.Put(entity.Session{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
			CustomerID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(token)),
			Token:      token,
			Role:       role,
			ExpiresAt:  now.AddDate(1, 0, 0),
		})
		logger.Info("Dev session registered", zap.String("role", string(role)))
	}
}

func newPublisher(config *utils.Config, logger *zap.Logger) event.Publisher {
	if len(config.Kafka.Brokers) == 0 {
		logger.Info("No Kafka brokers configured; booking events are dropped")
		return event.NopPublisher{}
	}
	logger.Info("Publishing booking events to Kafka",
		zap.Strings("brokers", config.Kafka.Brokers),
		zap.String("topic", config.Kafka.Topic))
	return event.NewKafkaPublisher(config.Kafka.Brokers, config.Kafka.Topic, logger)
}
