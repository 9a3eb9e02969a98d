package models

import "time"

// NumFeatures содержит количество погодных признаков, по которым строится кластеризация.
const NumFeatures = 5

// Порядок признаков фиксирован: он совпадает при обучении нормализатора,
// при нормализации центроидов и при нормализации пожеланий пользователя.
const (
	FeatureAvgTemp = iota
	FeatureMaxWind
	FeatureTotalPrecip
	FeatureAvgHumidity
	FeatureCloudCover
)

// FeatureNames содержит имена колонок датасета в порядке признаков.
var FeatureNames = [NumFeatures]string{
	"avgtemp_c",
	"maxwind_kph",
	"totalprecip_mm",
	"avghumidity",
	"cloud_cover_mean",
}

// Features представляет вектор погодных признаков в фиксированном порядке.
type Features [NumFeatures]float64

// LocationObservation представляет одну строку датасета: локация × месяц.
type LocationObservation struct {
	Name           string  `json:"name"`
	Province       string  `json:"province"`
	Region         string  `json:"region"`
	Terrain        string  `json:"terrain"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	Month          int     `json:"month"`
	AvgTempC       float64 `json:"avgtemp_c"`
	MaxWindKph     float64 `json:"maxwind_kph"`
	TotalPrecipMM  float64 `json:"totalprecip_mm"`
	AvgHumidity    float64 `json:"avghumidity"`
	CloudCoverMean float64 `json:"cloud_cover_mean"`
	Cluster        int     `json:"cluster"`
	IsCentroid     bool    `json:"is_centroid"`
	HCI            float64 `json:"hci"`
}

// Features возвращает погодные признаки наблюдения.
func (o LocationObservation) Features() Features {
	return Features{o.AvgTempC, o.MaxWindKph, o.TotalPrecipMM, o.AvgHumidity, o.CloudCoverMean}
}

// PreferenceVector представляет пожелания пользователя по погоде, месяцу, региону и рельефу.
// Погодные поля всегда заполнены (значения ограничены и заданы по умолчанию до вызова движка),
// категориальные поля могут отсутствовать.
type PreferenceVector struct {
	AvgTempC       float64 `json:"avgtemp_c"`
	MaxWindKph     float64 `json:"maxwind_kph"`
	TotalPrecipMM  float64 `json:"totalprecip_mm"`
	AvgHumidity    float64 `json:"avghumidity"`
	CloudCoverMean float64 `json:"cloud_cover_mean"`
	Month          *int    `json:"month"`
	Region         *string `json:"region"`
	Terrain        *string `json:"terrain"`
	Preferences    string  `json:"preferences"`
}

// Features возвращает погодные пожелания в том же порядке, что и признаки датасета.
func (p PreferenceVector) Features() Features {
	return Features{p.AvgTempC, p.MaxWindKph, p.TotalPrecipMM, p.AvgHumidity, p.CloudCoverMean}
}

// Recommendation представляет одну рекомендацию движка.
type Recommendation struct {
	City           string  `json:"city"`
	Province       string  `json:"province"`
	Region         string  `json:"region"`
	Terrain        string  `json:"terrain"`
	Lat            float64 `json:"lat"`
	Lon            float64 `json:"lon"`
	Month          int     `json:"month"`
	AvgTempC       float64 `json:"avgtemp_c"`
	MaxWindKph     float64 `json:"maxwind_kph"`
	TotalPrecipMM  float64 `json:"totalprecip_mm"`
	AvgHumidity    float64 `json:"avghumidity"`
	CloudCoverMean float64 `json:"cloud_cover_mean"`
	Score          float64 `json:"score"`
	Cluster        int     `json:"cluster"`
}

// NewRecommendation строит рекомендацию из наблюдения датасета.
func NewRecommendation(o LocationObservation) Recommendation {
	return Recommendation{
		City:           o.Name,
		Province:       o.Province,
		Region:         o.Region,
		Terrain:        o.Terrain,
		Lat:            o.Lat,
		Lon:            o.Lon,
		Month:          o.Month,
		AvgTempC:       o.AvgTempC,
		MaxWindKph:     o.MaxWindKph,
		TotalPrecipMM:  o.TotalPrecipMM,
		AvgHumidity:    o.AvgHumidity,
		CloudCoverMean: o.CloudCoverMean,
		Score:          o.HCI,
		Cluster:        o.Cluster,
	}
}

// CentroidLocation представляет город и провинцию центроида кластера.
type CentroidLocation struct {
	City     string `json:"city"`
	Province string `json:"province"`
}

// ClusterSummary представляет агрегированную статистику по кластеру.
type ClusterSummary struct {
	ClusterID        int               `json:"cluster_id"`
	TotalLocations   int               `json:"total_locations"`
	AvgTemp          float64           `json:"avg_temp"`
	AvgWind          float64           `json:"avg_wind"`
	AvgPrecipitation float64           `json:"avg_precipitation"`
	AvgHumidity      float64           `json:"avg_humidity"`
	AvgCloudCover    float64           `json:"avg_cloud_cover"`
	AvgHCI           float64           `json:"avg_hci"`
	CentroidLocation *CentroidLocation `json:"centroid_location,omitempty"`
}

// DatasetStats описывает загруженный датасет.
type DatasetStats struct {
	Path      string    `json:"path"`
	LoadedAt  time.Time `json:"loaded_at"`
	Rows      int       `json:"rows"`
	Centroids int       `json:"centroids"`
	Clusters  int       `json:"clusters"`
	Months    []int     `json:"months"`
	Regions   []string  `json:"regions"`
	Terrains  []string  `json:"terrains"`
}

// ChatRecord представляет запись истории чата в PostgreSQL.
type ChatRecord struct {
	ID                   int64     `json:"id"`
	Timestamp            time.Time `json:"timestamp"`
	UserMessage          string    `json:"user_message"`
	BotResponse          string    `json:"bot_response"`
	ExtractedFeatures    string    `json:"extracted_features"`
	RecommendedLocations string    `json:"recommended_locations"`
	UserIP               string    `json:"user_ip"`
	SessionID            string    `json:"session_id"`
}

// ChatRequest представляет запрос к чату
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse представляет ответ чата
type ChatResponse struct {
	Success            bool             `json:"success"`
	Response           string           `json:"response"`
	IsTravelRelated    bool             `json:"is_travel_related"`
	Recommendations    []Recommendation `json:"recommendations"`
	Preferences        any              `json:"preferences"`
	SessionID          string           `json:"session_id"`
	HasRecommendations bool             `json:"has_recommendations"`
}

// PreferenceInput представляет пожелания в запросе /api/recommend.
// Все пять погодных полей обязательны: отсутствующее поле не превращается в ноль.
type PreferenceInput struct {
	AvgTempC       *float64 `json:"avgtemp_c" validate:"required,gte=15,lte=35"`
	MaxWindKph     *float64 `json:"maxwind_kph" validate:"required,gte=5,lte=30"`
	TotalPrecipMM  *float64 `json:"totalprecip_mm" validate:"required,gte=0,lte=30"`
	AvgHumidity    *float64 `json:"avghumidity" validate:"required,gte=50,lte=90"`
	CloudCoverMean *float64 `json:"cloud_cover_mean" validate:"required,gte=0,lte=100"`
	Month          *int     `json:"month" validate:"omitempty,gte=1,lte=12"`
	Region         *string  `json:"region"`
	Terrain        *string  `json:"terrain"`
	Preferences    string   `json:"preferences"`
}

// Vector возвращает пожелания для движка. Вызывается только после успешной валидации.
func (in PreferenceInput) Vector() PreferenceVector {
	return PreferenceVector{
		AvgTempC:       *in.AvgTempC,
		MaxWindKph:     *in.MaxWindKph,
		TotalPrecipMM:  *in.TotalPrecipMM,
		AvgHumidity:    *in.AvgHumidity,
		CloudCoverMean: *in.CloudCoverMean,
		Month:          in.Month,
		Region:         in.Region,
		Terrain:        in.Terrain,
		Preferences:    in.Preferences,
	}
}

// RecommendRequest представляет запрос на рекомендацию по структурированным пожеланиям
type RecommendRequest struct {
	Preferences PreferenceInput `json:"preferences"`
	TopK        int             `json:"top_k,omitempty" validate:"gte=0,lte=50"`
}

// RecommendResponse представляет ответ с рекомендациями
type RecommendResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
	Total           int              `json:"total"`
}

// SearchResponse представляет результат поиска по названию
type SearchResponse struct {
	Success bool             `json:"success"`
	Results []Recommendation `json:"results"`
	Total   int              `json:"total"`
}

// ClustersResponse представляет список кластеров
type ClustersResponse struct {
	Success  bool             `json:"success"`
	Clusters []ClusterSummary `json:"clusters"`
}

// HistoryEntry представляет запись истории в ответе API
type HistoryEntry struct {
	ID          int64     `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	SessionID   string    `json:"session_id"`
}

// HistoryResponse представляет историю чата
type HistoryResponse struct {
	Success bool           `json:"success"`
	History []HistoryEntry `json:"history"`
	Total   int            `json:"total"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// HealthResponse представляет состояние сервиса
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Version     string    `json:"version"`
	DatasetRows int       `json:"dataset_rows"`
	Database    string    `json:"database"`
}
