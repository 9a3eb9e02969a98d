// Package preferences превращает свободный текст пользователя в вектор пожеланий
// для движка рекомендаций: ограничивает значения допустимыми диапазонами,
// подставляет значения по умолчанию и извлекает пожелания правилами.
package preferences

import (
	"math"

	"github.com/akozadaev/go_travel_recommender/internal/models"
)

// DefaultDescription используется, если пользователь ничего не уточнил.
const DefaultDescription = "du lịch chung"

// Range задаёт допустимый диапазон погодного признака и значение по умолчанию.
type Range struct {
	Min     float64
	Max     float64
	Default float64
}

// Clamp ограничивает v диапазоном.
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Contains сообщает, лежит ли v в диапазоне.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

var (
	TempRange   = Range{Min: 15, Max: 35, Default: 25}
	WindRange   = Range{Min: 5, Max: 30, Default: 15}
	PrecipRange = Range{Min: 0, Max: 30, Default: 10}
	HumidRange  = Range{Min: 50, Max: 90, Default: 70}
	CloudRange  = Range{Min: 0, Max: 100, Default: 50}
)

// Raw содержит пожелания в том виде, в каком их вернул извлекатель: любое поле может отсутствовать
// или выходить за диапазон.
type Raw struct {
	AvgTempC       *float64 `json:"avgtemp_c"`
	MaxWindKph     *float64 `json:"maxwind_kph"`
	TotalPrecipMM  *float64 `json:"totalprecip_mm"`
	AvgHumidity    *float64 `json:"avghumidity"`
	CloudCoverMean *float64 `json:"cloud_cover_mean"`
	Month          *float64 `json:"month"`
	Region         *string  `json:"region"`
	Terrain        *string  `json:"terrain"`
	Preferences    *string  `json:"preferences"`
}

// Validate приводит сырые пожелания к вектору для движка.
// Отсутствующие погодные поля получают значения по умолчанию, присутствующие
// ограничиваются диапазоном. Месяц ограничивается 1–12.
func Validate(raw Raw) models.PreferenceVector {
	p := models.PreferenceVector{
		AvgTempC:       clampOrDefault(raw.AvgTempC, TempRange),
		MaxWindKph:     clampOrDefault(raw.MaxWindKph, WindRange),
		TotalPrecipMM:  clampOrDefault(raw.TotalPrecipMM, PrecipRange),
		AvgHumidity:    clampOrDefault(raw.AvgHumidity, HumidRange),
		CloudCoverMean: clampOrDefault(raw.CloudCoverMean, CloudRange),
		Region:         nonEmpty(raw.Region),
		Terrain:        nonEmpty(raw.Terrain),
		Preferences:    DefaultDescription,
	}
	if raw.Month != nil && !math.IsNaN(*raw.Month) {
		m := int(math.Max(1, math.Min(12, *raw.Month)))
		p.Month = &m
	}
	if raw.Preferences != nil && *raw.Preferences != "" {
		p.Preferences = *raw.Preferences
	}
	return p
}

// Default возвращает пожелания, используемые когда из текста ничего извлечь не удалось.
func Default() models.PreferenceVector {
	return models.PreferenceVector{
		AvgTempC:       27,
		MaxWindKph:     15,
		TotalPrecipMM:  10,
		AvgHumidity:    65,
		CloudCoverMean: 60,
		Preferences:    DefaultDescription,
	}
}

// FromVector переводит вектор обратно в сырые пожелания.
func FromVector(p models.PreferenceVector) Raw {
	raw := Raw{
		AvgTempC:       ptr(p.AvgTempC),
		MaxWindKph:     ptr(p.MaxWindKph),
		TotalPrecipMM:  ptr(p.TotalPrecipMM),
		AvgHumidity:    ptr(p.AvgHumidity),
		CloudCoverMean: ptr(p.CloudCoverMean),
		Region:         p.Region,
		Terrain:        p.Terrain,
		Preferences:    ptr(p.Preferences),
	}
	if p.Month != nil {
		raw.Month = ptr(float64(*p.Month))
	}
	return raw
}

func clampOrDefault(v *float64, r Range) float64 {
	if v == nil || math.IsNaN(*v) {
		return r.Default
	}
	return r.Clamp(*v)
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func ptr[T any](v T) *T {
	return &v
}
