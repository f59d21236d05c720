package container

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/category"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/client"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/config"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/queue"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/repository"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/service"
	"github.com/NatsionalnoeDostoyanie/fix-price-parser/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config       *config.Config
	Client       client.FixPriceClient
	Repository   repository.RecordRepository
	Queue        queue.Queue
	StateManager state.StateManager
	Resolver     *category.Resolver

	Service *service.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized. The one
// blocking fetch here is the category menu: without it every hierarchy
// lookup is meaningless, so a failure aborts startup.
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	if err := cfg.FixPrice.Validate(); err != nil {
		return nil, err
	}

	fixPriceClient := client.NewFixPriceClient(cfg.FixPrice)
	container.Client = fixPriceClient

	tree, err := category.NewTree(context.Background(), fixPriceClient)
	if err != nil {
		return nil, err
	}
	container.Resolver = category.NewResolver(tree)

	db, err := pgxpool.New(context.Background(),
		fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host,
			cfg.Database.Port,
			cfg.Database.User,
			cfg.Database.Password,
			cfg.Database.Name,
		))
	if err != nil {
		return nil, err
	}
	container.db = db

	recordRepo := repository.NewRecordRepository(db)
	container.Repository = recordRepo

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	// Test connection
	_, err = rdb.Ping(context.Background()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("✅ Connected to Redis successfully")

	redisQueue, err := queue.NewRedisQueue(rdb, cfg.Redis)
	if err != nil {
		return nil, err
	}
	container.Queue = redisQueue

	container.redis = rdb
	stateManager := state.NewRedisStateManager(rdb)
	container.StateManager = stateManager

	service := service.NewService(
		recordRepo,
		fixPriceClient,
		redisQueue,
		stateManager,
		container.Resolver,
		cfg.FixPrice.CategorySlugs(),
		cfg.Redis.ConsumerGroup,
		cfg.Redis.MinIdleTime,
	)
	container.Service = service

	return container, nil
}

// Run enqueues the crawl and processes tasks until the context is cancelled.
func (c *Container) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	// Run ParseAll to enqueue tasks
	g.Go(func() error {
		return c.Service.ParseAll(ctx)
	})

	// Run workers to process tasks
	g.Go(func() error {
		return c.Service.RunWorkers(ctx, c.Config.FixPrice.MaxWorkers)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	c.db.Close()
	c.redis.Close()

	log.Info("Container shut down successfully")
	return nil
}
