// Package chat обрабатывает сообщения чата: проверка темы, извлечение пожеланий,
// подбор направлений, формирование ответа и запись истории.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/akozadaev/go_travel_recommender/internal/metrics"
	"github.com/akozadaev/go_travel_recommender/internal/models"
	"github.com/akozadaev/go_travel_recommender/internal/preferences"
)

// ErrEmptyMessage возвращается для пустого (или состоящего из пробелов) сообщения.
var ErrEmptyMessage = errors.New("message cannot be empty")

// NonTravelPreferences сохраняются и возвращаются вместо пожеланий при отказе.
var NonTravelPreferences = map[string]string{"preferences": "non_travel_query"}

// Recommender подбирает направления по пожеланиям.
type Recommender interface {
	GetRecommendations(p models.PreferenceVector, topK int) []models.Recommendation
}

// Assistant представляет языковую модель. Любая ошибка означает переход на правила и шаблоны.
type Assistant interface {
	CheckTopic(ctx context.Context, text string) (preferences.TopicResult, error)
	ExtractPreferences(ctx context.Context, text string) (preferences.Raw, error)
	GenerateResponse(ctx context.Context, text string, recs []models.Recommendation) (string, error)
	GenerateRefusal(ctx context.Context, text string) (string, error)
}

// Store сохраняет историю чата.
type Store interface {
	SaveChat(ctx context.Context, rec *models.ChatRecord) error
}

// Input представляет одно сообщение пользователя.
type Input struct {
	Message   string
	SessionID string
	UserIP    string
}

// Result представляет ответ на сообщение.
type Result struct {
	Response        string
	IsTravelRelated bool
	Recommendations []models.Recommendation
	Preferences     any // models.PreferenceVector или NonTravelPreferences
	SessionID       string
}

// Service обрабатывает сообщения чата.
type Service struct {
	recommender Recommender
	assistant   Assistant // nil: только правила
	rules       *preferences.RuleExtractor
	store       Store // nil: история не сохраняется
	topK        int
	logger      zerolog.Logger
}

// NewService создаёт сервис. assistant и store могут быть nil.
func NewService(recommender Recommender, assistant Assistant, store Store, topK int, logger zerolog.Logger) *Service {
	return &Service{
		recommender: recommender,
		assistant:   assistant,
		rules:       preferences.NewRuleExtractor(),
		store:       store,
		topK:        topK,
		logger:      logger,
	}
}

// Handle обрабатывает сообщение. Ошибка возвращается только для пустого сообщения:
// сбои языковой модели и хранилища на ответ не влияют.
func (s *Service) Handle(ctx context.Context, in Input) (*Result, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	res := &Result{SessionID: sessionID}

	topic := s.checkTopic(ctx, message)
	if topic.ShouldRefuse() {
		res.Response = s.refusal(ctx, message, topic)
		res.Preferences = NonTravelPreferences
		res.Recommendations = []models.Recommendation{}
		metrics.RecordChat("refused")
		s.logger.Info().Str("session_id", sessionID).Str("reason", topic.Reason).Msg("non-travel query refused")
	} else {
		prefs := s.extract(ctx, message)
		recs := s.recommender.GetRecommendations(prefs, s.topK)
		metrics.RecordRecommendations(len(recs))

		res.IsTravelRelated = true
		res.Preferences = prefs
		res.Recommendations = recs
		res.Response = s.respond(ctx, message, recs)
		if len(recs) == 0 {
			metrics.RecordChat("no_results")
		} else {
			metrics.RecordChat("recommended")
		}
		s.logger.Info().Str("session_id", sessionID).Int("recommendations", len(recs)).Msg("chat message processed")
	}

	s.save(ctx, message, in.UserIP, res)
	return res, nil
}

func (s *Service) checkTopic(ctx context.Context, message string) preferences.TopicResult {
	if s.assistant != nil {
		topic, err := s.assistant.CheckTopic(ctx, message)
		if err == nil {
			return topic
		}
		metrics.RecordLLMCall("check_topic", "fallback")
	}
	return s.rules.CheckTopic(message)
}

func (s *Service) extract(ctx context.Context, message string) models.PreferenceVector {
	if s.assistant != nil {
		raw, err := s.assistant.ExtractPreferences(ctx, message)
		if err == nil {
			return preferences.Validate(preferences.RepairMissing(raw, message))
		}
		metrics.RecordLLMCall("extract_preferences", "fallback")
	}
	return s.rules.Extract(message)
}

func (s *Service) respond(ctx context.Context, message string, recs []models.Recommendation) string {
	if s.assistant != nil && len(recs) > 0 {
		text, err := s.assistant.GenerateResponse(ctx, message, recs)
		if err == nil && text != "" {
			return text
		}
		metrics.RecordLLMCall("generate_response", "fallback")
	}
	return TemplateResponse(recs)
}

func (s *Service) refusal(ctx context.Context, message string, topic preferences.TopicResult) string {
	if s.assistant != nil {
		text, err := s.assistant.GenerateRefusal(ctx, message)
		if err == nil && text != "" {
			return text
		}
		metrics.RecordLLMCall("generate_refusal", "fallback")
	}
	return TemplateRefusal(topic)
}

func (s *Service) save(ctx context.Context, message, userIP string, res *Result) {
	if s.store == nil {
		return
	}

	features, err := json.Marshal(res.Preferences)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode extracted features")
		return
	}
	locations, err := json.Marshal(res.Recommendations)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode recommendations")
		return
	}

	rec := &models.ChatRecord{
		Timestamp:            time.Now().UTC(),
		UserMessage:          message,
		BotResponse:          res.Response,
		ExtractedFeatures:    string(features),
		RecommendedLocations: string(locations),
		UserIP:               userIP,
		SessionID:            res.SessionID,
	}
	if err := s.store.SaveChat(ctx, rec); err != nil {
		metrics.RecordChatStoreError()
		s.logger.Error().Err(err).Str("session_id", res.SessionID).Msg("failed to save chat history")
	}
}
