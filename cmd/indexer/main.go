// Команда indexer загружает датасет наблюдений в Elasticsearch/OpenSearch
// для аналитики в Kibana/OpenSearch Dashboards.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/rs/zerolog"

	"github.com/akozadaev/go_travel_recommender/internal/config"
	"github.com/akozadaev/go_travel_recommender/internal/dataset"
	"github.com/akozadaev/go_travel_recommender/internal/logging"
	"github.com/akozadaev/go_travel_recommender/internal/storage"
)

func main() {
	recreate := flag.Bool("recreate", false, "delete the index before indexing")
	path := flag.String("dataset", "", "dataset CSV path (default: DATASET_PATH)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall indexing timeout")
	flag.Parse()

	logger := logging.Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("error loading configuration")
	}
	logger = logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}).
		With().Str("component", "indexer").Logger()

	if *path == "" {
		*path = cfg.DatasetPath
	}

	ds, err := dataset.Load(*path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *path).Msg("error loading dataset")
	}

	// Для OpenSearch заголовок метаданных клиента отключён
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:         []string{cfg.ElasticsearchURL},
		DisableMetaHeader: true,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("error creating Elasticsearch client")
	}

	esStorage := storage.NewElasticsearchStorage(esClient, cfg.ElasticsearchIndex, cfg.ElasticsearchURL)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, esStorage, ds, *recreate, logger); err != nil {
		logger.Fatal().Err(err).Str("index", esStorage.Index()).Msg("indexing failed")
	}
}

// run создаёт индекс (при recreate сначала удаляет его) и индексирует все наблюдения датасета.
func run(ctx context.Context, es *storage.ElasticsearchStorage, ds *dataset.Dataset, recreate bool, logger zerolog.Logger) error {
	if recreate {
		if err := es.DeleteIndex(ctx); err != nil {
			return err
		}
		logger.Info().Str("index", es.Index()).Msg("index deleted")
	}

	if err := es.CreateIndex(ctx, storage.ObservationMapping); err != nil {
		return err
	}

	logger.Info().Int("rows", ds.Len()).Str("index", es.Index()).Msg("indexing observations")

	start := time.Now()
	n, err := es.BulkIndexObservations(ctx, ds.Rows())
	if err != nil {
		return fmt.Errorf("indexed %d of %d observations: %w", n, ds.Len(), err)
	}

	count, err := es.Count(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not count indexed documents")
	}

	logger.Info().
		Int("indexed", n).
		Int("documents", count).
		Dur("took", time.Since(start)).
		Msg("indexing completed successfully")
	return nil
}
