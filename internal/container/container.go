// Package container wires the gateway's components through samber/do.
// Each Package function registers one concern; the cmd entrypoints pick
// the set they need.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/hayattan/media-gateway/internal/audit"
	"github.com/hayattan/media-gateway/internal/auth"
	"github.com/hayattan/media-gateway/internal/handlers"
	"github.com/hayattan/media-gateway/internal/messaging"
	"github.com/hayattan/media-gateway/internal/middleware"
	"github.com/hayattan/media-gateway/internal/objectstore"
	"github.com/hayattan/media-gateway/internal/ratelimit"
	"github.com/hayattan/media-gateway/internal/store"
	"github.com/hayattan/media-gateway/internal/upload"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// Options holds the gateway configuration, populated by humacli from
// flags and environment variables.
type Options struct {
	Port            int    `default:"8888"                 help:"Port to listen on"                                        short:"p"`
	RedisAddr       string `default:"localhost:6379"       help:"Redis server address"                                     short:"r"`
	PostgresDSN     string `default:""                     help:"Postgres connection string for users and audit storage"`
	S3Endpoint      string `default:""                     help:"S3-compatible object store endpoint"`
	S3Region        string `default:"auto"                 help:"Object store region"`
	S3Bucket        string `default:""                     help:"Object store bucket name"`
	S3AccessKey     string `default:""                     help:"Object store access key id"`
	S3SecretKey     string `default:""                     help:"Object store secret access key"`
	PublicBaseURL   string `default:""                     help:"Public base URL for served media objects"`
	SessionTTLHours int    `default:"24"                   help:"Session lifetime in hours"`
	FailOpen        bool   `default:"true"                 help:"Admit requests when the rate limit store is unavailable"`
	LogFormat       string `default:"console"              enum:"console,json" help:"Log output format"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopmentConfig().Build()
	})
}

// RedisPackage provides the shared Redis client used for rate limit
// counters, sessions, and audit streams.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{Addr: options.RedisAddr}), nil
	})
}

// PostgresPackage provides the connection pool for users and audit events.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}

		return pool, nil
	})
}

// ObjectStorePackage provides the S3-compatible bucket client.
func ObjectStorePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*objectstore.Client, error) {
		options := do.MustInvoke[*Options](i)

		return objectstore.New(context.Background(), objectstore.Config{
			Endpoint:        options.S3Endpoint,
			Region:          options.S3Region,
			Bucket:          options.S3Bucket,
			AccessKeyID:     options.S3AccessKey,
			SecretAccessKey: options.S3SecretKey,
		})
	})
}

// RateLimitPackage provides the Redis-backed fixed-window limiter.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		return store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		options := do.MustInvoke[*Options](i)

		onFailure := ratelimit.FailClosed
		if options.FailOpen {
			onFailure = ratelimit.FailOpen
		}

		return ratelimit.NewFixedWindowLimiter(
			do.MustInvoke[ratelimit.Store](i),
			ratelimit.DefaultPolicy(),
			onFailure,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// AuthPackage provides the session store, user directory, and auth service.
func AuthPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (auth.SessionStore, error) {
		return store.NewSessionRedisStore(do.MustInvoke[*redis.Client](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (auth.UserDirectory, error) {
		return store.NewUsersPostgresStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*auth.Service, error) {
		options := do.MustInvoke[*Options](i)

		return auth.NewService(
			do.MustInvoke[auth.SessionStore](i),
			do.MustInvoke[auth.UserDirectory](i),
			time.Duration(options.SessionTTLHours)*time.Hour,
		), nil
	})
}

// PublisherGroupPackage provides the audit publisher and typed publish functions.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		publisher, err := messaging.NewRedisPublisher(do.MustInvoke[*redis.Client](i))
		if err != nil {
			return nil, fmt.Errorf("create audit publisher: %w", err)
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[audit.RateLimitExceededEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[audit.RateLimitExceededEvent](group.Publisher(), audit.TopicRateLimitExceeded), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[audit.UploadEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)

		return messaging.NewPublishFunc[audit.UploadEvent](group.Publisher(), audit.TopicUpload), nil
	})
}

// HTTPPackage provides the router and the API with all routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("Hayattan Media Gateway", "1.0.0"))

		api.UseMiddleware(
			middleware.RequestMeta(api),
			middleware.RateLimiter(
				api,
				do.MustInvoke[ratelimit.Limiter](i),
				ratelimit.NewPathClassResolver("/admin/giris"),
				do.MustInvoke[messaging.Publish[audit.RateLimitExceededEvent]](i),
				logger,
			),
			middleware.SessionAuth(api, do.MustInvoke[*auth.Service](i), logger),
		)

		keys, err := upload.NewKeyGenerator()
		if err != nil {
			return nil, err
		}

		objects := do.MustInvoke[*objectstore.Client](i)
		gate := upload.NewGate(objects, keys, options.PublicBaseURL)

		uploadHandler := handlers.NewUploadHandler(
			gate,
			do.MustInvoke[messaging.Publish[audit.UploadEvent]](i),
			logger,
		)
		loginHandler := handlers.NewLoginHandler(do.MustInvoke[*auth.Service](i), logger)
		healthHandler := handlers.NewHealthHandler(
			handlers.NewRedisHealthChecker(do.MustInvoke[*redis.Client](i)),
			objects,
		)

		handlers.RegisterRoutes(api, uploadHandler, loginHandler, healthHandler)

		return api, nil
	})
}

// ConsumerGroupPackage provides the audit consumers for the consumer binary.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (audit.Store, error) {
		return store.NewAuditPostgresStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := messaging.NewRedisSubscriber(do.MustInvoke[*redis.Client](i), "audit")
		if err != nil {
			return nil, fmt.Errorf("create audit subscriber: %w", err)
		}

		auditStore := do.MustInvoke[audit.Store](i)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(audit.NewRateLimitConsumer(subscriber, auditStore, logger))
		group.Add(audit.NewUploadConsumer(subscriber, auditStore, logger))

		return group, nil
	})
}
