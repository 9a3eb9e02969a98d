// Package llm обращается к языковой модели через OpenAI-совместимый API:
// проверка темы вопроса, извлечение пожеланий и генерация ответа.
//
// Вызовы идут через circuit breaker. Любая ошибка возвращается вызывающему,
// который переключается на правила (пакет preferences) и шаблоны ответов.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker/v2"

	"github.com/akozadaev/go_travel_recommender/internal/metrics"
	"github.com/akozadaev/go_travel_recommender/internal/models"
	"github.com/akozadaev/go_travel_recommender/internal/preferences"
)

// ErrNoJSON означает, что в ответе модели нет JSON-объекта.
var ErrNoJSON = errors.New("no JSON object in model response")

// ErrEmptyResponse означает, что модель не вернула ни одного варианта ответа.
var ErrEmptyResponse = errors.New("empty model response")

// Config содержит параметры подключения к модели.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string        // пусто: api.openai.com
	Timeout time.Duration // на один вызов; 0: 30s
}

// Client обращается к языковой модели через OpenAI-совместимый API.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[string]
	logger  zerolog.Logger
}

// New создаёт клиент.
func New(cfg Config, logger zerolog.Logger) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT3Dot5Turbo0125
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		model:   model,
		timeout: timeout,
		breaker: cb,
		logger:  logger,
	}
}

// CheckTopic спрашивает модель, относится ли вопрос к путешествиям.
func (c *Client) CheckTopic(ctx context.Context, text string) (preferences.TopicResult, error) {
	content, err := c.complete(ctx, "check_topic", topicSystemPrompt, fmt.Sprintf(topicPromptTemplate, text), 0.1, 200)
	if err != nil {
		return preferences.TopicResult{}, err
	}
	var result preferences.TopicResult
	if err := decodeJSONObject(content, &result); err != nil {
		return preferences.TopicResult{}, err
	}
	return result, nil
}

// ExtractPreferences просит модель извлечь пожелания. Поля ответа не проверяются:
// их дополняет preferences.RepairMissing и ограничивает preferences.Validate.
func (c *Client) ExtractPreferences(ctx context.Context, text string) (preferences.Raw, error) {
	content, err := c.complete(ctx, "extract_preferences", extractionSystemPrompt, fmt.Sprintf(extractionPromptTemplate, text), 0.1, 500)
	if err != nil {
		return preferences.Raw{}, err
	}
	var raw preferences.Raw
	if err := decodeJSONObject(content, &raw); err != nil {
		return preferences.Raw{}, err
	}
	return raw, nil
}

// GenerateResponse пишет ответ пользователю по найденным направлениям (не более пяти).
func (c *Client) GenerateResponse(ctx context.Context, text string, recs []models.Recommendation) (string, error) {
	var b strings.Builder
	for i, r := range recs {
		if i == 5 {
			break
		}
		fmt.Fprintf(&b, "%d. %s, %s (%s) - Tháng %d\n", i+1, r.City, r.Province, r.Region, r.Month)
		fmt.Fprintf(&b, "   Nhiệt độ: %.1f°C, Gió: %.1fkm/h, Mưa: %.1fmm, Độ ẩm: %.1f%%, Mây: %.1f%%\n",
			r.AvgTempC, r.MaxWindKph, r.TotalPrecipMM, r.AvgHumidity, r.CloudCoverMean)
		fmt.Fprintf(&b, "   Điểm phù hợp: %.2f\n\n", r.Score)
	}
	return c.complete(ctx, "generate_response", responseSystemPrompt, fmt.Sprintf(responsePromptTemplate, text, b.String()), 0.7, 800)
}

// GenerateRefusal пишет вежливый отказ на вопрос не о путешествиях.
func (c *Client) GenerateRefusal(ctx context.Context, text string) (string, error) {
	return c.complete(ctx, "generate_refusal", refusalSystemPrompt, fmt.Sprintf(refusalPromptTemplate, text), 0.7, 200)
}

func (c *Client) complete(ctx context.Context, op, system, prompt string, temperature float32, maxTokens int) (string, error) {
	content, err := c.breaker.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			Temperature: temperature,
			MaxTokens:   maxTokens,
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})
	if err != nil {
		metrics.RecordLLMCall(op, "error")
		c.logger.Warn().Err(err).Str("operation", op).Msg("language model call failed")
		return "", fmt.Errorf("llm %s: %w", op, err)
	}
	metrics.RecordLLMCall(op, "ok")
	return content, nil
}

var (
	jsonObject     = regexp.MustCompile(`(?s)\{.*\}`)
	trailingCommas = regexp.MustCompile(`,\s*}`)
)

// decodeJSONObject достаёт первый JSON-объект из текста модели
// (модель иногда окружает его пояснениями или оставляет висячую запятую).
func decodeJSONObject(content string, v any) error {
	obj := jsonObject.FindString(content)
	if obj == "" {
		return ErrNoJSON
	}
	obj = trailingCommas.ReplaceAllString(obj, "}")
	if err := json.Unmarshal([]byte(obj), v); err != nil {
		return fmt.Errorf("decode model JSON: %w", err)
	}
	return nil
}
