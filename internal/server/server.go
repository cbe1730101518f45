package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dishradar/internal/queue"
	mid "dishradar/internal/server/middleware"
	"dishradar/internal/util"
	"dishradar/pkg/ai"
	geminiai "dishradar/pkg/ai/gemini"
	oai "dishradar/pkg/ai/ollama"
	gai "dishradar/pkg/ai/openai"
	"dishradar/pkg/dishes"
	"dishradar/pkg/logger"
	"dishradar/pkg/places"
	"dishradar/pkg/store"
	memorystore "dishradar/pkg/store/memory"
	pgxstore "dishradar/pkg/store/pgx"
	redisstore "dishradar/pkg/store/redis"
	"dishradar/pkg/yelp"

	"github.com/go-playground/validator"
	goredis "github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	aiClient := NewAIClient(ctx)
	cache := NewResultCache(ctx)
	searcher, fetcher := NewVenueProvider()

	que := queue.Init()
	defer que.Close()
	ch, err := que.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}

	if err := queue.SetupQueues(ch, []string{queue.WarmQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	service := dishes.NewService(dishes.NewServiceParams{
		Searcher:    searcher,
		Fetcher:     fetcher,
		Extractor:   dishes.NewReviewExtractor(aiClient),
		Cache:       cache,
		CacheTTL:    time.Duration(util.GetEnvInt("CACHE_TTL_SECONDS", 3600)) * time.Second,
		ParallelMax: util.GetEnvInt("AI_PARALLEL_REQ", 4),
		MaxRetries:  util.GetEnvInt("EXTRACT_MAX_RETRIES", 2),
	})

	e.Use(mid.AppContextMiddleware(service, ch))
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())

	RegisterRoutes(e)

	go func() {
		port := util.GetEnv("PORT")
		if port == "" {
			port = "8080"
		}
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

// NewVenueProvider builds the venue lookup backend selected by
// VENUE_ADAPTER. Google Places is the default; Yelp Fusion needs a search
// location because its business search has no global scope.
func NewVenueProvider() (dishes.VenueSearcher, dishes.VenueFetcher) {
	adapter := util.GetEnv("VENUE_ADAPTER")

	switch adapter {
	case "yelp":
		client := yelp.NewClient(yelp.NewClientParams{
			ApiKey:   util.GetEnv("YELP_API_KEY"),
			Location: util.GetEnvString("YELP_LOCATION", "Los Angeles, CA"),
		})
		return client, client
	default:
		client := places.NewClient(places.NewClientParams{
			ApiKey: util.GetEnv("PLACES_API_KEY"),
		})
		return client, client
	}
}

// NewAIClient builds the extraction model client selected by AI_ADAPTER.
// OpenAI-compatible endpoints are the default.
func NewAIClient(ctx context.Context) ai.ReviewAIClient {
	adapter := util.GetEnv("AI_ADAPTER")

	switch adapter {
	case "ollama":
		client, err := oai.NewReviewOllamaClient(oai.NewReviewOllamaClientParams{
			ExtractionModel: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),

			BaseURL: util.GetEnv("AI_CHAT_URL"),
			ApiKey:  util.GetEnv("AI_CHAT_KEY"),
		})
		if err != nil {
			logger.Fatal("Failed to create Ollama client", "err", err)
		}
		return client
	case "gemini":
		client, err := geminiai.NewReviewGeminiClient(ctx, geminiai.NewReviewGeminiClientParams{
			ExtractionModel: util.GetEnvString("AI_CHAT_EXTRACT_MODEL", "gemini-2.5-flash"),
			ApiKey:          util.GetEnv("AI_CHAT_KEY"),
		})
		if err != nil {
			logger.Fatal("Failed to create Gemini client", "err", err)
		}
		return client
	default:
		client, err := gai.NewReviewOpenAIClient(gai.NewReviewOpenAIClientParams{
			ExtractionModel: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),

			ChatURL: util.GetEnv("AI_CHAT_URL"),
			ChatKey: util.GetEnv("AI_CHAT_KEY"),
		})
		if err != nil {
			logger.Fatal("Failed to create OpenAI client", "err", err)
		}
		return client
	}
}

// NewResultCache builds the cache backend selected by CACHE_ADAPTER. The
// in-memory backend is the default and needs no configuration.
func NewResultCache(ctx context.Context) store.ResultCache {
	adapter := util.GetEnv("CACHE_ADAPTER")

	switch adapter {
	case "redis":
		opts, err := goredis.ParseURL(util.GetEnv("REDIS_URL"))
		if err != nil {
			logger.Fatal("Invalid REDIS_URL", "err", err)
		}
		client := goredis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("Failed to connect to Redis", "err", err)
		}
		return redisstore.NewResultCache(client)
	case "postgres":
		cache, err := pgxstore.NewResultCache(ctx, pgxstore.NewResultCacheParams{
			DatabaseURL:   util.GetEnv("DATABASE_URL"),
			MigrationsURL: util.GetEnvString("MIGRATIONS_URL", "file://migrations"),
		})
		if err != nil {
			logger.Fatal("Failed to connect to Postgres cache", "err", err)
		}
		return cache
	default:
		return memorystore.NewResultCache()
	}
}
