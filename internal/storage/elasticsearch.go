// Package storage содержит хранилища сервиса: индекс наблюдений в Elasticsearch/OpenSearch
// и историю чата в PostgreSQL.
package storage

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/akozadaev/go_travel_recommender/internal/models"
)

// ObservationMapping содержит маппинг индекса наблюдений.
//
//go:embed observation_mapping.json
var ObservationMapping string

// DefaultBulkSize задаёт число документов в одном запросе _bulk.
const DefaultBulkSize = 500

// ElasticsearchStorage предоставляет методы для работы с Elasticsearch/OpenSearch.
// Управление индексом идёт через официальный клиент, массовая индексация и подсчёт идут
// прямыми HTTP запросами для совместимости с OpenSearch.
type ElasticsearchStorage struct {
	client     *elasticsearch.Client // Официальный клиент Elasticsearch
	index      string                // Имя индекса наблюдений
	httpClient *http.Client          // HTTP клиент для прямых запросов
	baseURL    string                // Базовый URL Elasticsearch/OpenSearch
	bulkSize   int
}

// NewElasticsearchStorage создает новый экземпляр ElasticsearchStorage.
func NewElasticsearchStorage(client *elasticsearch.Client, index string, baseURL string) *ElasticsearchStorage {
	return &ElasticsearchStorage{
		client:     client,
		index:      index,
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		bulkSize:   DefaultBulkSize,
	}
}

// Index возвращает имя индекса.
func (es *ElasticsearchStorage) Index() string { return es.index }

// ObservationID строит идентификатор документа: город, провинция и месяц.
func ObservationID(o models.LocationObservation) string {
	return o.Name + "-" + o.Province + "-" + strconv.Itoa(o.Month)
}

// CreateIndex создает индекс с заданным маппингом.
// Если индекс уже существует, функция возвращает nil без ошибки.
func (es *ElasticsearchStorage) CreateIndex(ctx context.Context, mappingJSON string) error {
	res, err := es.client.Indices.Exists([]string{es.index}, es.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = es.client.Indices.Create(
		es.index,
		es.client.Indices.Create.WithBody(strings.NewReader(mappingJSON)),
		es.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("error creating index: %s", string(body))
	}

	return nil
}

// DeleteIndex удаляет индекс. Отсутствующий индекс не считается ошибкой.
func (es *ElasticsearchStorage) DeleteIndex(ctx context.Context) error {
	req := esapi.IndicesDeleteRequest{Index: []string{es.index}}
	res, err := req.Do(ctx, es.client)
	if err != nil {
		return fmt.Errorf("failed to delete index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("error deleting index: %s", string(body))
	}

	return nil
}

// BulkIndexObservations индексирует наблюдения пачками по bulkSize через Bulk API.
// Повторная индексация перезаписывает документы с тем же ID.
func (es *ElasticsearchStorage) BulkIndexObservations(ctx context.Context, observations []models.LocationObservation) (int, error) {
	indexed := 0
	for start := 0; start < len(observations); start += es.bulkSize {
		end := min(start+es.bulkSize, len(observations))
		if err := es.bulk(ctx, observations[start:end]); err != nil {
			return indexed, err
		}
		indexed = end
	}
	return indexed, nil
}

func (es *ElasticsearchStorage) bulk(ctx context.Context, batch []models.LocationObservation) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)

	for _, o := range batch {
		meta := map[string]any{
			"index": map[string]any{
				"_index": es.index,
				"_id":    ObservationID(o),
			},
		}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("failed to encode meta: %w", err)
		}
		if err := enc.Encode(o); err != nil {
			return fmt.Errorf("failed to encode observation: %w", err)
		}
	}

	url := fmt.Sprintf("%s/_bulk", es.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	res, err := es.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to bulk index: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("error bulk indexing: status %d, body: %s", res.StatusCode, string(body))
	}

	var result struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  *struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if !result.Errors {
		return nil
	}

	failed := 0
	var first string
	for _, item := range result.Items {
		for _, op := range item {
			if op.Error == nil {
				continue
			}
			if failed == 0 {
				first = fmt.Sprintf("%s: %s (%s)", op.ID, op.Error.Reason, op.Error.Type)
			}
			failed++
		}
	}
	return fmt.Errorf("bulk indexing failed for %d of %d documents, first: %s", failed, len(batch), first)
}

// Count возвращает число документов в индексе.
func (es *ElasticsearchStorage) Count(ctx context.Context) (int, error) {
	url := fmt.Sprintf("%s/%s/_count", es.baseURL, es.index)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	res, err := es.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		body, _ := io.ReadAll(res.Body)
		return 0, fmt.Errorf("error counting documents: status %d, body: %s", res.StatusCode, string(body))
	}

	var result struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Count, nil
}
