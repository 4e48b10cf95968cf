package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/acme/intake-call-retry/internal/config"
	"github.com/acme/intake-call-retry/internal/engine"
	"github.com/acme/intake-call-retry/internal/engine/calendar"
	"github.com/acme/intake-call-retry/internal/engine/policy"
	"github.com/acme/intake-call-retry/internal/engine/timezone"
	"github.com/acme/intake-call-retry/internal/infra/db"
	"github.com/acme/intake-call-retry/internal/infra/redis"
	messagingMock "github.com/acme/intake-call-retry/internal/messaging/mock"
	"github.com/acme/intake-call-retry/internal/queue"
	"github.com/acme/intake-call-retry/internal/repository"
	pgrepo "github.com/acme/intake-call-retry/internal/repository/postgres"
	scyllarepo "github.com/acme/intake-call-retry/internal/repository/scylla"
	"github.com/acme/intake-call-retry/internal/service/idempotency"
	telephonyMock "github.com/acme/intake-call-retry/internal/telephony/mock"
	"github.com/acme/intake-call-retry/pkg/logger"

	messagingSvc "github.com/acme/intake-call-retry/internal/messaging"
	telephonySvc "github.com/acme/intake-call-retry/internal/telephony"
)

// Container wires together shared infrastructure dependencies.
type Container struct {
	Config *config.Config
	Logger *logger.Logger

	Postgres *db.Postgres
	Scylla   *db.Scylla
	Redis    *redis.Client
	Kafka    *queue.Kafka

	// lazily initialised components
	components struct {
		once         sync.Once
		engine       *engine.Engine
		repositories *repositories
		dispatchers  *dispatchers
		providers    *providers
		guards       *guards
		initErr      error
	}
}

type repositories struct {
	Contacts repository.ContactRepository
	Outcomes repository.OutcomeStore
}

type dispatchers struct {
	Dial     *queue.DialDispatcher
	Fallback *queue.FallbackPublisher
	Events   *queue.EventPublisher
}

type providers struct {
	Telephony telephonySvc.Provider
	Messaging messagingSvc.Provider
}

type guards struct {
	Idempotency *idempotency.Guard
}

// Build constructs a container for the given configuration path. Engine
// components validate their configuration here; any violation aborts the
// bootstrap rather than surfacing per request.
func Build(ctx context.Context, configPath string) (*Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	lg, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, err
	}

	pg, err := db.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("bootstrap postgres: %w", err)
	}

	scylla, err := db.NewScylla(cfg.Scylla)
	if err != nil {
		return nil, fmt.Errorf("bootstrap scylla: %w", err)
	}

	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("bootstrap redis: %w", err)
	}

	kafka, err := queue.NewKafka(cfg.Kafka)
	if err != nil {
		return nil, fmt.Errorf("bootstrap kafka: %w", err)
	}

	container := &Container{
		Config:   cfg,
		Logger:   lg,
		Postgres: pg,
		Scylla:   scylla,
		Redis:    redisClient,
		Kafka:    kafka,
	}

	// Fail fast on engine misconfiguration before any consumer starts.
	if _, err := container.Engine(); err != nil {
		return nil, err
	}

	return container, nil
}

func (c *Container) initComponents() {
	c.components.once.Do(func() {
		eng, err := buildEngine(c.Config, c.Logger)
		if err != nil {
			c.components.initErr = err
			return
		}

		c.components.engine = eng
		c.components.repositories = &repositories{
			Contacts: pgrepo.NewContactRepository(c.Postgres.DB()),
			Outcomes: scyllarepo.NewOutcomeStore(c.Scylla.Session()),
		}
		c.components.dispatchers = &dispatchers{
			Dial:     queue.NewDialDispatcher(c.Kafka, c.Config.Kafka.DialTopic),
			Fallback: queue.NewFallbackPublisher(c.Kafka, c.Config.Kafka.FallbackTopic),
			Events:   queue.NewEventPublisher(c.Kafka, c.Config.Kafka.EndOfCallTopic),
		}
		c.components.providers = &providers{
			Telephony: telephonyMock.NewProvider(c.Config.Dial),
			Messaging: messagingMock.NewProvider(c.Logger),
		}
		c.components.guards = &guards{
			Idempotency: idempotency.NewGuard(c.Redis.Inner(), c.Config.Dial.InFlightTTL),
		}
	})
}

func buildEngine(cfg *config.Config, lg *logger.Logger) (*engine.Engine, error) {
	entries := timezone.Merge(timezone.DefaultTable(), cfg.Timezone.Overrides)
	resolver, err := timezone.NewResolver(cfg.Timezone.DefaultZone, entries)
	if err != nil {
		return nil, fmt.Errorf("bootstrap timezone resolver: %w", err)
	}

	cal, err := calendar.New(cfg.BusinessHours.Start, cfg.BusinessHours.End, cfg.BusinessHours.Weekdays)
	if err != nil {
		return nil, fmt.Errorf("bootstrap calendar: %w", err)
	}

	entriesByReason := make(map[string]policy.Entry, len(cfg.Retry.Policies))
	for _, p := range cfg.Retry.Policies {
		entriesByReason[p.Reason] = policy.Entry{DelaysMinutes: p.DelaysMinutes, FallbackAction: p.Fallback}
	}
	table, err := policy.New(cfg.Retry.MaxAttempts, entriesByReason)
	if err != nil {
		return nil, fmt.Errorf("bootstrap retry policy: %w", err)
	}

	return engine.New(resolver, cal, table, engine.WithObserver(newLogObserver(lg))), nil
}

// Engine exposes the decision engine.
func (c *Container) Engine() (*engine.Engine, error) {
	c.initComponents()
	if c.components.initErr != nil {
		return nil, c.components.initErr
	}
	return c.components.engine, nil
}

// Repositories exposes initialized repositories.
func (c *Container) Repositories() *repositories {
	c.initComponents()
	return c.components.repositories
}

// Dispatchers exposes Kafka dispatchers.
func (c *Container) Dispatchers() *dispatchers {
	c.initComponents()
	return c.components.dispatchers
}

// Providers exposes external providers.
func (c *Container) Providers() *providers {
	c.initComponents()
	return c.components.providers
}

// Guards exposes idempotency utilities.
func (c *Container) Guards() *guards {
	c.initComponents()
	return c.components.guards
}

// EnsureTopics ensures required Kafka topics exist.
func (c *Container) EnsureTopics(ctx context.Context) error {
	topics := []string{
		c.Config.Kafka.EndOfCallTopic,
		c.Config.Kafka.DialTopic,
		c.Config.Kafka.FallbackTopic,
	}
	return c.Kafka.EnsureTopics(ctx, topics, 48, 1)
}

// Close releases all held resources.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if d := c.components.dispatchers; d != nil {
		if d.Dial != nil {
			if err := d.Dial.Close(); err != nil {
				errs = append(errs, fmt.Errorf("dial dispatcher close: %w", err))
			}
		}
		if d.Fallback != nil {
			if err := d.Fallback.Close(); err != nil {
				errs = append(errs, fmt.Errorf("fallback publisher close: %w", err))
			}
		}
		if d.Events != nil {
			if err := d.Events.Close(); err != nil {
				errs = append(errs, fmt.Errorf("event publisher close: %w", err))
			}
		}
	}
	if c.Kafka != nil {
		if err := c.Kafka.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka close: %w", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if c.Scylla != nil {
		if err := c.Scylla.Close(); err != nil {
			errs = append(errs, fmt.Errorf("scylla close: %w", err))
		}
	}
	if c.Postgres != nil {
		if err := c.Postgres.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("postgres close: %w", err))
		}
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
