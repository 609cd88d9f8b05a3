package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/neoqrc/internal/app/server"
	grpcserver "github.com/atinyakov/neoqrc/internal/app/server/grpc"
	"github.com/atinyakov/neoqrc/internal/app/service"
	"github.com/atinyakov/neoqrc/internal/cache"
	"github.com/atinyakov/neoqrc/internal/config"
	"github.com/atinyakov/neoqrc/internal/events"
	"github.com/atinyakov/neoqrc/internal/geo"
	"github.com/atinyakov/neoqrc/internal/logger"
	"github.com/atinyakov/neoqrc/internal/maintenance"
	"github.com/atinyakov/neoqrc/internal/ratelimit"
	"github.com/atinyakov/neoqrc/internal/redirect"
	"github.com/atinyakov/neoqrc/internal/repository"
	"github.com/atinyakov/neoqrc/internal/storage"
	"github.com/atinyakov/neoqrc/internal/worker"

	_ "net/http/pprof"
)

var buildVersion string
var buildDate string
var buildCommit string

const (
	pprofAddr       = "localhost:6060"
	geoTimeout      = 2 * time.Second
	shutdownTimeout = 5 * time.Second
)

func main() {
	options, err := config.Parse()
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		panic(err)
	}

	fmt.Printf("Build version: %s\n", orNA(buildVersion))
	fmt.Printf("Build date: %s\n", orNA(buildDate))
	fmt.Printf("Build commit: %s\n", orNA(buildCommit))

	log := logger.New()
	if err := log.InitRotating(options.LogLevel, options.LogFile); err != nil {
		panic(err)
	}
	zapLogger := log.Log
	defer func() {
		_ = zapLogger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}

func run(ctx context.Context, options *config.Options, zapLogger *zap.Logger) error {
	if options.EnablePprof {
		go func() {
			zapLogger.Info("Starting pprof server", zap.String("addr", pprofAddr))
			if err := http.ListenAndServe(pprofAddr, nil); err != nil {
				zapLogger.Error("pprof server error", zap.Error(err))
			}
		}()
	}

	var s service.Storage
	switch {
	case options.DatabaseDSN != "":
		zapLogger.Info("using db")
		db, err := repository.InitDB(options.DatabaseDSN, zapLogger)
		if err != nil {
			return err
		}
		defer db.Close()
		s = repository.CreateRepository(db, zapLogger)
		zapLogger.Info("Database connected and tables ready.")
	case options.FilePath != "":
		zapLogger.Info("using file", zap.String("filePath", options.FilePath))
		fs, err := storage.NewFileStorage(options.FilePath, zapLogger)
		if err != nil {
			return err
		}
		s = fs
	default:
		zapLogger.Info("using in memory storage")
		ms, err := storage.CreateMemoryStorage()
		if err != nil {
			return err
		}
		s = ms
	}

	redirects, err := cache.NewRedirectCache(options.CacheTTL.Duration, zapLogger)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	var (
		limiter     ratelimit.Limiter
		invalidator service.CacheInvalidator = redirects
	)
	if options.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: options.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		zapLogger.Info("using redis rate limiter", zap.String("addr", options.RedisAddr))
		limiter = ratelimit.NewRedis(client)

		broadcaster := cache.NewBroadcaster(redirects, client, zapLogger)
		invalidator = broadcaster
		g.Go(func() error {
			return broadcaster.Run(ctx)
		})
	} else {
		if options.DatabaseDSN != "" {
			zapLogger.Warn("redis is not configured, redirect cache invalidations stay local to this instance")
		}
		memory := ratelimit.NewMemory()
		if err := maintenance.NewScheduler(zapLogger, maintenance.DefaultSweepSpec, memory).Start(ctx); err != nil {
			return err
		}
		limiter = memory
	}

	qrService := service.NewQRService(
		s,
		service.NewAllocator(s, service.DefaultMaxAttempts),
		geo.NewClient(options.GeoAPIURL, geoTimeout, zapLogger),
		invalidator,
		zapLogger,
		options.ResultHostname,
	)
	auth := service.NewAuth(qrService, options.JWTSecret)

	var publisher worker.Publisher
	if len(options.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(options.KafkaBrokers, options.KafkaTopic, zapLogger)
		defer func() {
			if err := kp.Close(); err != nil {
				zapLogger.Warn("kafka writer close failed", zap.Error(err))
			}
		}()
		publisher = kp
	}
	scans := worker.NewScanWorker(zapLogger, s, publisher, worker.DefaultBufferSize, worker.DefaultFlushInterval)
	resolver := redirect.NewResolver(s, redirects, scans, options.LookupTimeout.Duration, zapLogger)

	router := server.Init(server.Options{
		Logger:        zapLogger,
		Service:       qrService,
		Auth:          auth,
		Lookup:        resolver,
		Limiter:       limiter,
		TrustedSubnet: options.TrustedSubnet,
		TrustedProxy:  options.TrustedProxy,
		Countdown:     options.CountdownSeconds,
	})

	httpServer := &http.Server{
		Addr:    options.Port,
		Handler: router,
	}

	grpcServer := grpcserver.New(grpcserver.Options{
		Addr:          options.GRPCPort,
		TrustedSubnet: options.TrustedSubnet,
		Logger:        zapLogger,
		Service:       qrService,
		Auth:          auth,
		Lookup:        resolver,
	})

	// Stopped only after both servers have drained.
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	g.Go(func() error {
		return scans.Run(workerCtx)
	})

	g.Go(func() error {
		var err error
		if options.EnableHTTPS {
			manager := &autocert.Manager{
				Cache:      autocert.DirCache("cache-dir"),
				Prompt:     autocert.AcceptTOS,
				HostPolicy: autocert.HostWhitelist(options.HTTPSHosts...),
			}
			httpServer.Addr = ":443"
			httpServer.TLSConfig = manager.TLSConfig()
			zapLogger.Info("Server is running with TLS", zap.Strings("hosts", options.HTTPSHosts))
			err = httpServer.ListenAndServeTLS("", "")
		} else {
			zapLogger.Info("Server is running", zap.String("hostname", options.Port))
			err = httpServer.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		return grpcServer.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		zapLogger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		grpcServer.GracefulStop()
		err := httpServer.Shutdown(shutdownCtx)
		stopWorker()
		return err
	})

	return g.Wait()
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
