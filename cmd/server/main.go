// @title           Vietnam Travel Recommendation API
// @version         1.0
// @description     REST API рекомендательной системы путешествий по Вьетнаму. Подбирает направления по погодным пожеланиям, месяцу, региону и рельефу; чат понимает вопросы на вьетнамском языке.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  akozadaev@inbox.ru
// @contact.url    https://github.com/akozadaev/go_travel_recommender

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @schemes   http https
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/sync/errgroup"

	_ "github.com/akozadaev/go_travel_recommender/docs" // swagger docs
	"github.com/akozadaev/go_travel_recommender/internal/chat"
	"github.com/akozadaev/go_travel_recommender/internal/config"
	"github.com/akozadaev/go_travel_recommender/internal/engine"
	"github.com/akozadaev/go_travel_recommender/internal/handlers"
	"github.com/akozadaev/go_travel_recommender/internal/llm"
	"github.com/akozadaev/go_travel_recommender/internal/logging"
	"github.com/akozadaev/go_travel_recommender/internal/metrics"
	"github.com/akozadaev/go_travel_recommender/internal/storage"
	"github.com/akozadaev/go_travel_recommender/internal/watcher"
)

func main() {
	logger := logging.Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("error loading configuration")
	}

	logger = logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped with error")
	}
	logger.Info().Msg("server exited")
}

func run(cfg *config.Config, logger zerolog.Logger) error {

	// Датасет обязателен: без него сервис не стартует
	holder, err := engine.LoadHolder(cfg.DatasetPath, logging.Component("engine"))
	if err != nil {
		return fmt.Errorf("error loading dataset: %w", err)
	}
	stats := holder.Current().Stats()
	metrics.DatasetRows.Set(float64(stats.Rows))
	logger.Info().
		Str("path", cfg.DatasetPath).
		Int("rows", stats.Rows).
		Int("centroids", stats.Centroids).
		Int("clusters", stats.Clusters).
		Msg("dataset loaded")

	// Инициализация PostgreSQL клиента (история чата)
	var (
		chatStore    chat.Store
		historyStore handlers.HistoryStore
	)
	if cfg.PostgresEnabled {
		pgStorage, err := storage.NewPostgresStorage(cfg.PostgresDSN())
		if err != nil {
			return fmt.Errorf("error creating PostgreSQL client: %w", err)
		}
		defer pgStorage.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = pgStorage.EnsureSchema(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("error creating chat history schema: %w", err)
		}
		chatStore, historyStore = pgStorage, pgStorage
		logger.Info().Str("host", cfg.PostgresHost).Str("db", cfg.PostgresDB).Msg("connected to PostgreSQL")
	} else {
		logger.Warn().Msg("PostgreSQL disabled, chat history will not be stored")
	}

	// Языковая модель необязательна: без ключа работают правила и шаблоны
	var assistant chat.Assistant
	if cfg.LLMEnabled() {
		assistant = llm.New(llm.Config{
			APIKey:  cfg.OpenAIAPIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		}, logging.Component("llm"))
		logger.Info().Str("model", cfg.OpenAIModel).Msg("language model enabled")
	} else {
		logger.Warn().Msg("OPENAI_API_KEY not set, using rule-based extraction and template responses")
	}

	chatService := chat.NewService(holder, assistant, chatStore, cfg.DefaultTopK, logging.Component("chat"))

	h := handlers.NewHandlers(holder, chatService, historyStore, handlers.Limits{
		DefaultTopK:  cfg.DefaultTopK,
		SearchTopK:   cfg.SearchTopK,
		HistoryLimit: cfg.HistoryLimit,
	}, logging.Component("http"))

	// Настройка сервера
	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      newRouter(h, logging.Component("http")),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var dw *watcher.DatasetWatcher
	if cfg.DatasetWatch {
		dw, err = watcher.New(cfg.DatasetPath, watcher.DefaultDebounce, reloadDataset(holder), logging.Component("watcher"))
		if err != nil {
			return fmt.Errorf("error creating dataset watcher: %w", err)
		}
		defer dw.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("port", cfg.AppPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if dw != nil {
		g.Go(func() error { return dw.Run(gctx) })
	}

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newRouter собирает маршруты API, /metrics и Swagger UI. CORS оборачивает весь роутер,
// иначе preflight OPTIONS отсекается проверкой методов маршрута.
func newRouter(h *handlers.Handlers, logger zerolog.Logger) http.Handler {
	router := mux.NewRouter()
	h.Register(router)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Swagger UI
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	router.Use(handlers.Instrument(logger))
	return handlers.CORS(router)
}

// reloadDataset пересобирает движок после изменения файла датасета.
func reloadDataset(holder *engine.Holder) watcher.ReloadFunc {
	return func(path string) error {
		err := holder.Reload(path)
		rows := 0
		if err == nil {
			rows = holder.Current().Dataset().Len()
		}
		metrics.RecordDatasetReload(rows, err)
		return err
	}
}
