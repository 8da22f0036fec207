// Package container wires the application with samber/do. Each package
// function provides one concern; binaries compose the packages they need.
package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/shortlink-go/internal/cache"
	"github.com/serroba/shortlink-go/internal/handlers"
	"github.com/serroba/shortlink-go/internal/headfetch"
	"github.com/serroba/shortlink-go/internal/health"
	"github.com/serroba/shortlink-go/internal/legacy"
	"github.com/serroba/shortlink-go/internal/mailer"
	"github.com/serroba/shortlink-go/internal/messaging"
	"github.com/serroba/shortlink-go/internal/middleware"
	"github.com/serroba/shortlink-go/internal/ratelimit"
	"github.com/serroba/shortlink-go/internal/resolver"
	"github.com/serroba/shortlink-go/internal/shortlink"
	"github.com/serroba/shortlink-go/internal/store"
	"github.com/serroba/shortlink-go/internal/webhook"
	"go.uber.org/zap"
)

// Event transport backends.
const (
	EventsBackendChannel = "channel"
	EventsBackendRedis   = "redis"
)

// Options configures the binaries via humacli flags.
type Options struct {
	Port             int    `default:"8888"                                  help:"Port to listen on"                                        short:"p"`
	BaseURL          string `default:"http://localhost:8888"                 help:"Public base URL used in verification mails"`
	DatabaseURL      string `default:"postgres://localhost:5432/shortlink"   help:"Postgres connection string"`
	RedisAddr        string `default:"localhost:6379"                        help:"Redis server address"                                     short:"r"`
	EventsBackend    string `default:"channel"                               enum:"channel,redis"                                            help:"Webhook event transport; redis offloads dispatch to the consumer binary"`
	RateLimitBackend string `default:"memory"                                enum:"memory,redis"                                             help:"Rate limit counter storage"`
	LegacyTablePath  string `default:""                                      help:"Path to the legacy key table; embedded table when empty"`
	LogFormat        string `default:"console"                               enum:"console,json"                                             help:"Log output format"`
	SMTPHost         string `default:"localhost"                             help:"SMTP relay host"`
	SMTPPort         string `default:"587"                                   help:"SMTP relay port"`
	SMTPUsername     string `default:""                                      help:"SMTP username"`
	SMTPPassword     string `default:""                                      help:"SMTP password"`
	SMTPFrom         string `default:"noreply@example.com"                   help:"Verification mail sender address"`
}

// LoggerPackage provides the zap logger.
func LoggerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*zap.Logger, error) {
		options := do.MustInvoke[*Options](i)

		if options.LogFormat == "json" {
			return zap.NewProduction()
		}

		return zap.NewDevelopment()
	})
}

// PostgresPackage provides the pgx connection pool.
func PostgresPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*pgxpool.Pool, error) {
		options := do.MustInvoke[*Options](i)

		pool, err := pgxpool.New(context.Background(), options.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("create postgres pool: %w", err)
		}

		return pool, nil
	})
}

// RedisPackage provides the shared Redis client.
func RedisPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*redis.Client, error) {
		options := do.MustInvoke[*Options](i)

		return redis.NewClient(&redis.Options{Addr: options.RedisAddr}), nil
	})
}

// RepositoryPackage provides the shortlink repository.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortlink.Repository, error) {
		return store.NewPostgresStore(do.MustInvoke[*pgxpool.Pool](i)), nil
	})
}

// CachePackage provides the in-process TTL cache. Its sweep goroutine is
// bound to the injector lifecycle through Shutdown.
func CachePackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*cache.Cache, error) {
		return cache.New(do.MustInvoke[*zap.Logger](i)), nil
	})
}

// LegacyPackage provides the static legacy key table.
func LegacyPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*legacy.Table, error) {
		options := do.MustInvoke[*Options](i)

		return legacy.Load(options.LegacyTablePath)
	})
}

// RateLimitPackage provides the request limiter.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*ratelimit.Limiter, error) {
		options := do.MustInvoke[*Options](i)

		var s ratelimit.Store
		if options.RateLimitBackend == "redis" {
			s = store.NewRateLimitRedisStore(do.MustInvoke[*redis.Client](i))
		} else {
			s = store.NewRateLimitMemoryStore()
		}

		return ratelimit.NewLimiter(s), nil
	})
}

// EventBusPackage provides the publisher group and subscriber for webhook
// events. The channel backend keeps everything in-process; the redis
// backend writes to a Redis stream consumed by the consumer binary.
func EventBusPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		options := do.MustInvoke[*Options](i)

		if options.EventsBackend == EventsBackendRedis {
			publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
				Client: do.MustInvoke[*redis.Client](i),
			}, watermill.NewStdLogger(false, false))
			if err != nil {
				return nil, fmt.Errorf("create redis stream publisher: %w", err)
			}

			return messaging.NewPublisherGroup(publisher), nil
		}

		return messaging.NewPublisherGroup(do.MustInvoke[*gochannel.GoChannel](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (message.Subscriber, error) {
		options := do.MustInvoke[*Options](i)

		if options.EventsBackend == EventsBackendRedis {
			subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
				Client:        do.MustInvoke[*redis.Client](i),
				ConsumerGroup: "webhook-notifier",
			}, watermill.NewStdLogger(false, false))
			if err != nil {
				return nil, fmt.Errorf("create redis stream subscriber: %w", err)
			}

			return subscriber, nil
		}

		return do.MustInvoke[*gochannel.GoChannel](i), nil
	})

	// Shared in-process pub/sub for the channel backend.
	do.Provide(injector, func(i *do.Injector) (*gochannel.GoChannel, error) {
		return gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false)), nil
	})
}

// WebhookPackage provides the notifier and its consumer group.
func WebhookPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*webhook.Notifier, error) {
		return webhook.NewNotifier(nil, do.MustInvoke[*zap.Logger](i)), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		subscriber := do.MustInvoke[message.Subscriber](i)
		notifier := do.MustInvoke[*webhook.Notifier](i)

		group := messaging.NewConsumerGroup(subscriber, logger)
		group.Add(messaging.NewBestEffortConsumer(subscriber, webhook.TopicLinkResolved,
			func(ctx context.Context, event *webhook.LinkResolvedEvent) error {
				return notifier.Notify(ctx, event)
			}, logger))

		return group, nil
	})
}

// MailerPackage provides the verification mail sender.
func MailerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (mailer.Sender, error) {
		options := do.MustInvoke[*Options](i)

		return mailer.NewSMTPSender(mailer.Config{
			Host:     options.SMTPHost,
			Port:     options.SMTPPort,
			Username: options.SMTPUsername,
			Password: options.SMTPPassword,
			From:     options.SMTPFrom,
			BaseURL:  options.BaseURL,
		}), nil
	})
}

// HTTPPackage provides the router and API with all routes registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		options := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		repo := do.MustInvoke[shortlink.Repository](i)
		publisherGroup := do.MustInvoke[*messaging.PublisherGroup](i)

		api := humachi.New(do.MustInvoke[*chi.Mux](i), huma.DefaultConfig("Short Link Service", "1.0.0"))

		api.UseMiddleware(middleware.RequestMeta(api))
		api.UseMiddleware(middleware.RateLimiter(api, do.MustInvoke[*ratelimit.Limiter](i), logger))

		publishResolved := messaging.NewPublishFunc[webhook.LinkResolvedEvent](
			publisherGroup.Publisher(), webhook.TopicLinkResolved)

		resolve := handlers.NewResolveHandler(resolver.New(
			do.MustInvoke[*legacy.Table](i),
			do.MustInvoke[*cache.Cache](i),
			repo,
			publishResolved,
			logger,
		))

		randomKeyGen, err := shortlink.NewRandomKeyGenerator()
		if err != nil {
			return nil, fmt.Errorf("create random key generator: %w", err)
		}

		authCodeGen, err := shortlink.NewAuthCodeGenerator()
		if err != nil {
			return nil, fmt.Errorf("create auth code generator: %w", err)
		}

		links := handlers.NewLinkHandler(
			repo,
			do.MustInvoke[mailer.Sender](i),
			headfetch.New(&http.Client{Timeout: 15 * time.Second}),
			randomKeyGen,
			authCodeGen,
			logger,
		)

		verify := handlers.NewVerifyHandler(repo, options.BaseURL, logger)

		handlers.RegisterRoutes(api, links, resolve, verify)
		health.RegisterRoutes(api, health.NewHandler(
			health.NewRedisChecker(do.MustInvoke[*redis.Client](i)),
			health.NewPostgresChecker(do.MustInvoke[*pgxpool.Pool](i)),
		))

		return api, nil
	})
}
