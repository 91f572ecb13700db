package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"mangashelf/internal/api"
	"mangashelf/internal/auth"
	"mangashelf/internal/config"
	"mangashelf/internal/grpcserver"
	"mangashelf/internal/history"
	"mangashelf/internal/logger"
	synchub "mangashelf/internal/sync"
	"mangashelf/internal/workflow"
	"mangashelf/pkg/database"
)

func main() {
	configPath := flag.String("config", "", "configuration file (yaml or toml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	closer, err := logger.Configure(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		logrus.Fatalf("configure logging: %v", err)
	}
	defer closer.Close()

	var (
		db   *sql.DB
		repo *history.Repo
	)
	if cfg.Database.Enabled {
		db, err = database.OpenAndMigrate(database.Config{Path: cfg.Database.Path})
		if err != nil {
			logrus.Fatalf("open history db: %v", err)
		}
		defer db.Close()
		repo = history.NewRepo(db)
	}

	hub := synchub.NewHub()
	comparer := &workflow.Comparer{
		History:       repo,
		Events:        hub,
		LogCollisions: cfg.Compare.LogCollisions,
	}

	tokenSvc := auth.TokenService{
		Secret:   []byte(cfg.Auth.JWTSecret),
		Issuer:   cfg.Auth.JWTIssuer,
		Duration: time.Duration(cfg.Auth.TokenTTLHours) * time.Hour,
	}
	if cfg.Auth.AdminPasswordHash == "" {
		logrus.Warn("[auth] no admin password hash configured, /auth/login is disabled")
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Deps{
		DB:       db,
		History:  repo,
		Hub:      hub,
		Comparer: comparer,
		Tokens:   tokenSvc,
		Auth:     auth.NewHandler(tokenSvc, cfg.Auth.AdminUser, cfg.Auth.AdminPasswordHash),
		Server:   cfg.Server,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcserver.LogInterceptor(),
		grpcserver.AuthInterceptor(tokenSvc),
	))
	grpcserver.Register(grpcSrv, grpcserver.NewServer(comparer, repo))

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			errCh <- err
			return
		}
		logrus.Infof("gRPC server listening on %s", cfg.Server.GRPCAddr)
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Infof("HTTP API server listening on %s", cfg.Server.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logrus.Infof("shutdown signal received: %s", sig)
	case err := <-errCh:
		logrus.Errorf("server error: %v", err)
	}

	logrus.Info("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("http shutdown error: %v", err)
	}
	grpcSrv.GracefulStop()

	wg.Wait()
	logrus.Info("servers stopped")
}
