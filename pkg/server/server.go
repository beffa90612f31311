// Package server assembles the HTTP API: database, migrations, Kafka,
// dependency injection, and the echo router.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectoinject/ectocontainer"
	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/laurel/config"
	activityrepo "github.com/Ramsey-B/laurel/internal/repositories/activity"
	buildingrepo "github.com/Ramsey-B/laurel/internal/repositories/building"
	organizationrepo "github.com/Ramsey-B/laurel/internal/repositories/organization"
	organizationactivityrepo "github.com/Ramsey-B/laurel/internal/repositories/organizationactivity"
	"github.com/Ramsey-B/laurel/internal/services/directory"
	seedsvc "github.com/Ramsey-B/laurel/internal/services/seed"
	"github.com/Ramsey-B/laurel/pkg/database"
	"github.com/Ramsey-B/laurel/pkg/events"
	"github.com/Ramsey-B/laurel/pkg/kafka"
	"github.com/Ramsey-B/laurel/pkg/middleware"
	activityroutes "github.com/Ramsey-B/laurel/pkg/routes/activity"
	buildingroutes "github.com/Ramsey-B/laurel/pkg/routes/building"
	"github.com/Ramsey-B/laurel/pkg/routes/health"
	organizationroutes "github.com/Ramsey-B/laurel/pkg/routes/organization"
	seedroutes "github.com/Ramsey-B/laurel/pkg/routes/seed"
	"github.com/Ramsey-B/laurel/pkg/startup"
	"github.com/Ramsey-B/laurel/pkg/tracing"
	"github.com/Ramsey-B/laurel/pkg/tracing/exporters"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Server is the fully wired directory service
type Server struct {
	cfg      *config.Config
	logger   ectologger.Logger
	echo     *echo.Echo
	db       database.DB
	sqlxDB   *sqlx.DB
	producer *kafka.Producer
	health   *health.Checker
	startup  *startup.Startup
	tracer   *sdktrace.TracerProvider
}

// New builds the server: connects nothing yet, but wires every component and
// route. Start brings the dependencies up in order.
func New(cfg *config.Config, logger ectologger.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	s.tracer = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(&exporters.ConsoleExporter{}),
	)
	otel.SetTracerProvider(s.tracer)
	tracing.SetTracer(s.tracer.Tracer(cfg.AppName))

	sqlxDB, err := sqlx.Open(cfg.DatabaseDriver, postgresDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	sqlxDB.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	sqlxDB.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	sqlxDB.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)
	s.sqlxDB = sqlxDB
	s.db = database.NewDatabaseInstance(sqlxDB, logger)

	if cfg.KafkaProducerEnabled {
		s.producer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaOutputTopic,
			BatchSize:    cfg.KafkaBatchSize,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			Compression:  cfg.KafkaCompression,
		}, logger)
	}

	var publisher events.Publisher
	if s.producer != nil {
		publisher = s.producer
	}
	emitter := events.NewEmitter(publisher, logger)

	buildings := buildingrepo.NewRepository(s.db, logger)
	activities := activityrepo.NewRepository(s.db, logger)
	organizations := organizationrepo.NewRepository(s.db, logger)
	associations := organizationactivityrepo.NewRepository(s.db, logger)

	directoryService := directory.NewService(organizations, buildings, associations, logger)
	generator := seedsvc.NewDataGenerator(buildings, activities, organizations, associations, emitter, logger, seedsvc.Options{
		MinBuildings:     cfg.SeedMinBuildings,
		MaxBuildings:     cfg.SeedMaxBuildings,
		MinOrganizations: cfg.SeedMinOrganizations,
		MaxOrganizations: cfg.SeedMaxOrganizations,
	}, time.Now().UnixNano())

	container, err := ectoinject.NewDIDefaultContainer()
	if err != nil {
		return nil, fmt.Errorf("failed to create DI container: %w", err)
	}
	if err := registerDependencies(container, registrations{
		db:            s.db,
		logger:        logger,
		buildings:     buildings,
		activities:    activities,
		organizations: organizations,
		associations:  associations,
		directory:     directoryService,
		generator:     generator,
		emitter:       emitter,
	}); err != nil {
		return nil, fmt.Errorf("failed to register dependencies: %w", err)
	}

	s.health = health.NewChecker(sqlxDB, "1.0.0")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second
	e.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second
	e.Server.IdleTimeout = time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second
	e.Server.ReadHeaderTimeout = time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second
	e.Server.MaxHeaderBytes = cfg.MaxHeaderBytes
	e.HTTPErrorHandler = middleware.Error(logger)

	e.Use(otelecho.Middleware(cfg.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(injectContainer(container))

	api := e.Group("/api/v1")
	activityroutes.Register(api.Group("/activities"))
	buildingroutes.Register(api.Group("/buildings"))
	organizationroutes.Register(api.Group("/organizations"))
	seedroutes.Register(api.Group("/seed"))
	s.health.RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo = e
	s.startup = startup.NewStartup(logger, cfg.StartupMaxAttempts)
	s.registerStartupDependencies()

	return s, nil
}

// Start brings the dependencies up in order and blocks until the context is
// canceled or the HTTP server stops.
func (s *Server) Start(ctx context.Context) error {
	if err := s.startup.Start(ctx); err != nil {
		return err
	}
	s.health.SetReady(true)

	err := s.echo.Start(fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the dependencies down in reverse order
func (s *Server) Stop(ctx context.Context) error {
	s.health.SetReady(false)
	return s.startup.Stop(ctx)
}

func (s *Server) registerStartupDependencies() {
	s.startup.AddDependency(&dependency{
		name: "database",
		start: func(ctx context.Context) error {
			return s.db.PingContext(ctx)
		},
		stop: func(ctx context.Context) error {
			return s.db.Close()
		},
	})

	s.startup.AddDependency(&dependency{
		name:      "migrations",
		dependsOn: []string{"database"},
		start: func(ctx context.Context) error {
			driver, err := migratepg.WithInstance(s.sqlxDB.DB, &migratepg.Config{})
			if err != nil {
				return err
			}
			ms := database.NewMigrationService(s.logger, &database.MigrationConfig{
				MigrationFolderPath: s.cfg.DatabaseMigrationFolderPath,
				Version:             uint(s.cfg.DatabaseMigrationVersion),
				Force:               s.cfg.DatabaseMigrationForce,
				AutoRollback:        s.cfg.DatabaseMigrationAutoRollback,
			})
			return ms.Migrate(s.cfg.DatabaseName, driver)
		},
		stop: func(ctx context.Context) error { return nil },
	})

	if s.producer != nil {
		s.startup.AddDependency(&dependency{
			name:      "kafka-producer",
			dependsOn: []string{"database"},
			start:     func(ctx context.Context) error { return nil },
			stop: func(ctx context.Context) error {
				return s.producer.Close()
			},
		})
	}

	s.startup.AddDependency(&dependency{
		name:      "http-server",
		dependsOn: []string{"migrations"},
		start:     func(ctx context.Context) error { return nil },
		stop: func(ctx context.Context) error {
			return s.echo.Shutdown(ctx)
		},
	})
}

type dependency struct {
	name      string
	dependsOn []string
	start     func(ctx context.Context) error
	stop      func(ctx context.Context) error
}

func (d *dependency) GetName() string                 { return d.name }
func (d *dependency) DependsOn() []string             { return d.dependsOn }
func (d *dependency) Start(ctx context.Context) error { return d.start(ctx) }
func (d *dependency) Stop(ctx context.Context) error  { return d.stop(ctx) }

type registrations struct {
	db            database.DB
	logger        ectologger.Logger
	buildings     *buildingrepo.Repository
	activities    *activityrepo.Repository
	organizations *organizationrepo.Repository
	associations  *organizationactivityrepo.Repository
	directory     *directory.Service
	generator     *seedsvc.DataGenerator
	emitter       *events.Emitter
}

func registerDependencies(container ectocontainer.DIContainer, r registrations) error {
	if err := ectoinject.RegisterInstance[database.DB](container, r.db); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[ectologger.Logger](container, r.logger); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*buildingrepo.Repository](container, r.buildings); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*activityrepo.Repository](container, r.activities); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*organizationrepo.Repository](container, r.organizations); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*organizationactivityrepo.Repository](container, r.associations); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*directory.Service](container, r.directory); err != nil {
		return err
	}
	if err := ectoinject.RegisterInstance[*seedsvc.DataGenerator](container, r.generator); err != nil {
		return err
	}
	return ectoinject.RegisterInstance[*events.Emitter](container, r.emitter)
}

func injectContainer(container ectocontainer.DIContainer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, err := ectoinject.SetActiveContainer(c.Request().Context(), container.GetContainerID())
			if err != nil {
				return err
			}
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func postgresDSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseUserName,
		cfg.DatabasePassword,
		cfg.DatabaseName,
		cfg.DatabaseSSLMode,
	)
}
