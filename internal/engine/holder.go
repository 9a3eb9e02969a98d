package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/akozadaev/go_travel_recommender/internal/dataset"
	"github.com/akozadaev/go_travel_recommender/internal/models"
)

// Holder хранит текущий движок и атомарно подменяет его при перезагрузке датасета.
// Читатели получают снимок через Current и никогда не видят частично обновлённое состояние.
type Holder struct {
	current atomic.Pointer[Engine]
	logger  zerolog.Logger
}

// NewHolder создаёт Holder с уже построенным движком.
func NewHolder(e *Engine, logger zerolog.Logger) *Holder {
	h := &Holder{logger: logger}
	h.current.Store(e)
	return h
}

// LoadHolder загружает датасет, строит движок и оборачивает его в Holder.
func LoadHolder(path string, logger zerolog.Logger) (*Holder, error) {
	e, err := build(path, logger)
	if err != nil {
		return nil, err
	}
	return NewHolder(e, logger), nil
}

// Current возвращает текущий движок.
func (h *Holder) Current() *Engine {
	return h.current.Load()
}

// Reload загружает датасет заново (нормализатор обучается на новых данных)
// и подменяет движок. При ошибке продолжает работать прежний движок.
func (h *Holder) Reload(path string) error {
	e, err := build(path, h.logger)
	if err != nil {
		h.logger.Error().Err(err).Str("path", path).Msg("dataset reload failed, keeping previous engine")
		return err
	}
	h.current.Store(e)
	h.logger.Info().
		Str("path", path).
		Int("rows", e.ds.Len()).
		Int("centroids", len(e.ds.Centroids())).
		Msg("dataset reloaded")
	return nil
}

func build(path string, logger zerolog.Logger) (*Engine, error) {
	ds, err := dataset.Load(path)
	if err != nil {
		return nil, err
	}
	e, err := New(ds, logger)
	if err != nil {
		return nil, fmt.Errorf("build engine from %s: %w", path, err)
	}
	return e, nil
}

// GetRecommendations подбирает направления на текущем движке.
func (h *Holder) GetRecommendations(p models.PreferenceVector, topK int) []models.Recommendation {
	return h.Current().GetRecommendations(p, topK)
}
