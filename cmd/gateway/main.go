package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/busline/gateway/api"
	"github.com/busline/gateway/auth"
	"github.com/busline/gateway/config"
	"github.com/busline/gateway/database"
	"github.com/busline/gateway/logger"
	"github.com/busline/gateway/observe"
	"github.com/busline/gateway/rpc"
	"github.com/busline/gateway/seats"
	"github.com/busline/gateway/server"
	"github.com/busline/gateway/server/endpoint"
	"github.com/busline/gateway/server/middleware"
	"github.com/busline/gateway/version"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml (default: search standard locations)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.GetVersionInfo())
		return
	}

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)
	log := logger.New(&cfg.Logging, cfg.Name)

	if err := run(cfg, log); err != nil {
		log.Error("Gateway exited", map[string]interface{}{
			logger.FieldError: err.Error(),
		})
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info("Starting gateway", map[string]interface{}{
		"version":     version.GetShortVersion(),
		"environment": cfg.Environment,
	})

	var metrics *observe.Metrics
	if cfg.Observe.TracingEnabled {
		tp, err := observe.InitTracer(ctx, observe.TracerConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: version.Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Observe.Endpoint,
			Insecure:       cfg.Observe.Insecure,
			SampleRate:     cfg.Observe.SampleRate,
		})
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer shutdownProvider(log, "tracer", tp.Shutdown)
	}
	if cfg.Observe.MetricsEnabled {
		mp, err := observe.InitMeter(ctx, observe.MeterConfig{
			ServiceName:    cfg.Name,
			ServiceVersion: version.Version,
			Environment:    cfg.Environment,
			Endpoint:       cfg.Observe.Endpoint,
			Insecure:       cfg.Observe.Insecure,
			Interval:       cfg.Observe.Interval,
		})
		if err != nil {
			return fmt.Errorf("init meter: %w", err)
		}
		defer shutdownProvider(log, "meter", mp.Shutdown)

		metrics, err = observe.NewMetrics(observe.Meter(cfg.Name))
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
	}

	db, err := database.New(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(&seats.Bus{}, &seats.Seat{}); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
	}

	issuer := auth.NewIssuer(&cfg.Auth)
	users, err := auth.NewUserStore(cfg.Auth.Users, nil)
	if err != nil {
		return fmt.Errorf("init user store: %w", err)
	}
	seatSvc := seats.NewService(db, log)

	srv := server.New(cfg.Server, log)

	gateOpts := []middleware.GateOption{}
	rpcGateOpts := []rpc.GateInterceptorOption{}
	if metrics != nil {
		gateOpts = append(gateOpts, middleware.WithMetrics(metrics))
		rpcGateOpts = append(rpcGateOpts, rpc.WithMetrics(metrics))
	}
	gate := middleware.NewGate(issuer.Codec(), log, gateOpts...)

	api.RegisterRoutes(srv.GinEngine(), gate,
		api.NewAuthHandler(issuer, users, log),
		api.NewSeatHandler(seatSvc, log),
		cfg.Name,
		map[string]endpoint.Pinger{"database": db.PingContext},
	)

	rpcGate := rpc.NewGateInterceptor(issuer.Codec(), rpc.DefaultRules(), log, rpcGateOpts...)
	grpcSrv := rpc.NewServer(rpcGate, log,
		rpc.NewAuthService(issuer, users, log),
		rpc.NewSeatService(seatSvc, log),
	)
	srv.Handle("/"+rpc.AuthServiceName+"/", grpcSrv)
	srv.Handle("/"+rpc.SeatServiceName+"/", grpcSrv)

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	log.Info("Gateway listening", map[string]interface{}{
		"addr": srv.Addr(),
	})

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	grpcSrv.GracefulStop()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("stop server: %w", err)
	}
	return nil
}

func shutdownProvider(log *logger.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Warn("Provider shutdown failed", map[string]interface{}{
			"provider":        name,
			logger.FieldError: err.Error(),
		})
	}
}
