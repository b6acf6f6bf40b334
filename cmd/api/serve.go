package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"hyroxbox-directory/internal/auth"
	"hyroxbox-directory/internal/database"
	"hyroxbox-directory/internal/hyroxbox"
	"hyroxbox-directory/internal/region"
	"hyroxbox-directory/internal/server"
)

var migrateOnStart bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply pending migrations before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, database.Options{
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.DBMaxOpen,
		MaxIdleConns: cfg.DBMaxIdle,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	if migrateOnStart {
		applied, err := database.MigrateUp(db)
		if err != nil {
			return err
		}
		logger.Info("migrations applied", zap.Int("count", applied))
	}

	identity := auth.NewIdentityClient(auth.IdentityConfig{
		BaseURL:     cfg.SupabaseURL,
		AnonKey:     cfg.SupabaseKey,
		RedirectURL: cfg.RedirectURL,
	}, logger)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.AdminEmails, 24*time.Hour)
	accounts := auth.NewAuthService(identity, tokens, auth.BootstrapAdmin{
		Username:     cfg.AdminUser,
		PasswordHash: cfg.AdminPwdHash,
	}, logger)
	if !accounts.Enabled() {
		logger.Warn("no admin authentication configured; the admin console is unreachable")
	}

	router, err := server.NewRouter(server.Deps{
		Regions:       region.NewRegionService(db),
		Boxes:         hyroxbox.NewBoxService(db),
		Accounts:      accounts,
		Authenticator: accounts,
		CORSOrigins:   cfg.CORSOrigins,
		SecureCookies: cfg.IsProduction(),
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
