// Package handlers содержит HTTP обработчики для REST API рекомендательной системы.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/akozadaev/go_travel_recommender/internal/chat"
	"github.com/akozadaev/go_travel_recommender/internal/engine"
	"github.com/akozadaev/go_travel_recommender/internal/metrics"
	"github.com/akozadaev/go_travel_recommender/internal/models"
	"github.com/akozadaev/go_travel_recommender/internal/preferences"
)

// Version содержит версию API для /health.
const Version = "1.0.0"

// maxHistoryLimit ограничивает ?limit= в /api/history.
const maxHistoryLimit = 1000

// EngineSource отдаёт текущий движок рекомендаций.
type EngineSource interface {
	Current() *engine.Engine
}

// ChatService обрабатывает сообщения чата.
type ChatService interface {
	Handle(ctx context.Context, in chat.Input) (*chat.Result, error)
}

// HistoryStore читает историю чата.
type HistoryStore interface {
	ListHistory(ctx context.Context, limit int) ([]models.HistoryEntry, error)
	Ping(ctx context.Context) error
}

// Limits задаёт размеры выдачи по умолчанию.
type Limits struct {
	DefaultTopK  int
	SearchTopK   int
	HistoryLimit int
}

// Handlers содержит зависимости для обработки HTTP запросов.
type Handlers struct {
	engines  EngineSource
	chat     ChatService
	history  HistoryStore // nil: PostgreSQL отключён
	limits   Limits
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewHandlers создает новый экземпляр Handlers. history может быть nil.
func NewHandlers(engines EngineSource, chatService ChatService, history HistoryStore, limits Limits, logger zerolog.Logger) *Handlers {
	return &Handlers{
		engines:  engines,
		chat:     chatService,
		history:  history,
		limits:   limits,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register регистрирует маршруты API в роутере.
func (h *Handlers) Register(router *mux.Router) {
	router.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/chat", h.Chat).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/recommend", h.Recommend).Methods(http.MethodPost)
	api.HandleFunc("/clusters", h.GetClusters).Methods(http.MethodGet)
	api.HandleFunc("/clusters/{id}", h.GetCluster).Methods(http.MethodGet)
	api.HandleFunc("/search/{location}", h.SearchLocation).Methods(http.MethodGet)
	api.HandleFunc("/history", h.GetHistory).Methods(http.MethodGet)
	api.HandleFunc("/dataset", h.GetDataset).Methods(http.MethodGet)
}

// Chat обрабатывает сообщение пользователя: подбирает направления или вежливо отказывает.
// Эндпоинт: POST /chat
//
// @Summary      Сообщение чата
// @Description  Проверяет тему вопроса, извлекает пожелания по погоде, месяцу, региону и рельефу и возвращает подходящие направления с текстовым ответом.
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        request  body      models.ChatRequest  true  "Сообщение пользователя"
// @Success      200      {object}  models.ChatResponse
// @Failure      400      {object}  models.ErrorResponse  "Неверный запрос"
// @Router       /chat [post]
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.chat.Handle(r.Context(), chat.Input{
		Message:   req.Message,
		SessionID: req.SessionID,
		UserIP:    clientIP(r),
	})
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			h.writeError(w, http.StatusBadRequest, "Message cannot be empty")
			return
		}
		h.logger.Error().Err(err).Msg("error handling chat message")
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, models.ChatResponse{
		Success:            true,
		Response:           res.Response,
		IsTravelRelated:    res.IsTravelRelated,
		Recommendations:    res.Recommendations,
		Preferences:        res.Preferences,
		SessionID:          res.SessionID,
		HasRecommendations: len(res.Recommendations) > 0,
	})
}

// Recommend подбирает направления по структурированным пожеланиям.
// Эндпоинт: POST /api/recommend
//
// @Summary      Рекомендации по пожеланиям
// @Description  Все пять погодных полей обязательны. Находит ближайший кластер, применяет фильтры по месяцу, региону и рельефу (фильтр, дающий пустой результат, пропускается) и возвращает до top_k направлений по убыванию hci.
// @Tags         recommendations
// @Accept       json
// @Produce      json
// @Param        request  body      models.RecommendRequest  true  "Пожелания"
// @Success      200      {object}  models.RecommendResponse
// @Failure      400      {object}  models.ErrorResponse  "Неверный запрос"
// @Router       /api/recommend [post]
func (h *Handlers) Recommend(w http.ResponseWriter, r *http.Request) {
	var req models.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.TopK == 0 {
		req.TopK = h.limits.DefaultTopK
	}
	prefs := req.Preferences.Vector()
	if prefs.Preferences == "" {
		prefs.Preferences = preferences.DefaultDescription
	}

	recs := h.engines.Current().GetRecommendations(prefs, req.TopK)
	metrics.RecordRecommendations(len(recs))

	h.writeJSON(w, http.StatusOK, models.RecommendResponse{
		Recommendations: recs,
		Total:           len(recs),
	})
}

// GetClusters возвращает сводку по всем кластерам.
// Эндпоинт: GET /api/clusters
//
// @Summary      Список кластеров
// @Description  Возвращает средние погодные показатели, средний hci и центроид каждого кластера
// @Tags         clusters
// @Produce      json
// @Success      200  {object}  models.ClustersResponse
// @Router       /api/clusters [get]
func (h *Handlers) GetClusters(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, models.ClustersResponse{
		Success:  true,
		Clusters: h.engines.Current().GetAllClustersSummary(),
	})
}

// GetCluster возвращает сводку по одному кластеру.
// Эндпоинт: GET /api/clusters/{id}
//
// @Summary      Сводка по кластеру
// @Tags         clusters
// @Produce      json
// @Param        id   path      int  true  "Идентификатор кластера"
// @Success      200  {object}  models.ClusterSummary
// @Failure      400  {object}  models.ErrorResponse  "Неверный идентификатор"
// @Failure      404  {object}  models.ErrorResponse  "Кластер не найден"
// @Router       /api/clusters/{id} [get]
func (h *Handlers) GetCluster(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "Cluster ID must be an integer")
		return
	}

	summary, ok := h.engines.Current().GetClusterInfo(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, "Cluster not found")
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// SearchLocation ищет наблюдения по названию города или провинции.
// Эндпоинт: GET /api/search/{location}
//
// @Summary      Поиск по названию
// @Description  Регистронезависимый поиск подстроки в названии города или провинции, результаты по убыванию hci
// @Tags         search
// @Produce      json
// @Param        location  path      string  true   "Часть названия города или провинции"
// @Param        top_k     query     int     false  "Максимум результатов"
// @Success      200       {object}  models.SearchResponse
// @Failure      400       {object}  models.ErrorResponse  "Неверный top_k"
// @Router       /api/search/{location} [get]
func (h *Handlers) SearchLocation(w http.ResponseWriter, r *http.Request) {
	topK, err := intParam(r, "top_k", h.limits.SearchTopK)
	if err != nil || topK < 0 {
		h.writeError(w, http.StatusBadRequest, "top_k must be a non-negative integer")
		return
	}

	results := h.engines.Current().SearchByLocation(mux.Vars(r)["location"], topK)
	h.writeJSON(w, http.StatusOK, models.SearchResponse{
		Success: true,
		Results: results,
		Total:   len(results),
	})
}

// GetHistory возвращает последние сообщения чата.
// Эндпоинт: GET /api/history
//
// @Summary      История чата
// @Tags         history
// @Produce      json
// @Param        limit  query     int  false  "Число записей"
// @Success      200    {object}  models.HistoryResponse
// @Failure      400    {object}  models.ErrorResponse  "Неверный limit"
// @Failure      500    {object}  models.ErrorResponse  "Внутренняя ошибка сервера"
// @Failure      503    {object}  models.ErrorResponse  "История отключена"
// @Router       /api/history [get]
func (h *Handlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.writeError(w, http.StatusServiceUnavailable, "Chat history is disabled")
		return
	}

	limit, err := intParam(r, "limit", h.limits.HistoryLimit)
	if err != nil || limit < 1 || limit > maxHistoryLimit {
		h.writeError(w, http.StatusBadRequest, "limit must be between 1 and 1000")
		return
	}

	history, err := h.history.ListHistory(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("error listing chat history")
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, models.HistoryResponse{
		Success: true,
		History: history,
		Total:   len(history),
	})
}

// GetDataset возвращает сведения о загруженном датасете.
// Эндпоинт: GET /api/dataset
//
// @Summary      Сведения о датасете
// @Tags         dataset
// @Produce      json
// @Success      200  {object}  models.DatasetStats
// @Router       /api/dataset [get]
func (h *Handlers) GetDataset(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.engines.Current().Stats())
}

// HealthCheck обрабатывает GET запрос на проверку работоспособности сервиса.
// Эндпоинт: GET /health
//
// @Summary      Проверка работоспособности сервиса
// @Description  Возвращает статус сервиса, размер датасета и состояние базы данных истории.
// @Tags         health
// @Produce      json
// @Success      200  {object}  models.HealthResponse
// @Router       /health [get]
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := models.HealthResponse{
		Status:      "healthy",
		Timestamp:   time.Now().UTC(),
		Version:     Version,
		DatasetRows: h.engines.Current().Dataset().Len(),
		Database:    "disabled",
	}
	if h.history != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.history.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("database ping failed")
			resp.Database = "unavailable"
		} else {
			resp.Database = "ok"
		}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("error encoding response")
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, models.ErrorResponse{Success: false, Error: message})
}

func intParam(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
