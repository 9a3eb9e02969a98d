// Package engine реализует подбор туристических направлений по погодным
// пожеланиям: поиск ближайшего центроида, поэтапную фильтрацию по месяцу,
// региону и рельефу и ранжирование по индексу hci.
//
// Engine неизменяем после создания и безопасен для конкурентного использования.
package engine

import (
	"errors"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/akozadaev/go_travel_recommender/internal/dataset"
	"github.com/akozadaev/go_travel_recommender/internal/models"
)

// ErrEmptyCentroidSet означает, что в датасете нет ни одной строки-центроида.
var ErrEmptyCentroidSet = errors.New("dataset has no centroid rows")

// Engine отвечает на запросы рекомендаций поверх одного загруженного датасета.
type Engine struct {
	ds     *dataset.Dataset
	logger zerolog.Logger

	searchKeys []searchKey // нормализованные название и провинция по строкам
	clusterIDs []int       // различные id кластеров по возрастанию
}

type searchKey struct {
	name     string
	province string
}

// New создаёт движок. Датасет без центроидов считается повреждённым.
func New(ds *dataset.Dataset, logger zerolog.Logger) (*Engine, error) {
	if len(ds.Centroids()) == 0 {
		return nil, ErrEmptyCentroidSet
	}

	rows := ds.Rows()
	keys := make([]searchKey, len(rows))
	seen := make(map[int]struct{})
	var clusterIDs []int
	for i, row := range rows {
		keys[i] = searchKey{name: foldText(row.Name), province: foldText(row.Province)}
		if _, ok := seen[row.Cluster]; !ok {
			seen[row.Cluster] = struct{}{}
			clusterIDs = append(clusterIDs, row.Cluster)
		}
	}
	sort.Ints(clusterIDs)

	return &Engine{
		ds:         ds,
		logger:     logger,
		searchKeys: keys,
		clusterIDs: clusterIDs,
	}, nil
}

// Dataset возвращает датасет, на котором построен движок.
func (e *Engine) Dataset() *dataset.Dataset { return e.ds }

// FindBestCluster возвращает id кластера, центроид которого ближе всего
// к пожеланиям в нормализованном пространстве признаков. При равных
// расстояниях выигрывает центроид, идущий раньше в датасете.
func (e *Engine) FindBestCluster(p models.PreferenceVector) (int, error) {
	centroids := e.ds.Centroids()
	if len(centroids) == 0 {
		return 0, ErrEmptyCentroidSet
	}

	target := e.ds.Normalizer().Transform(p.Features())

	best := centroids[0].Cluster
	bestDist := math.Inf(1)
	for _, c := range centroids {
		d := euclidean(target, c.Normalized)
		if d < bestDist {
			bestDist = d
			best = c.Cluster
		}
	}
	return best, nil
}

// GetRecommendations возвращает не более topK наблюдений, отсортированных по hci.
//
// Фильтры применяются по порядку: месяц, регион, рельеф. Фильтр, который
// оставил бы пустой набор, пропускается. Затем набор сужается до ближайшего
// кластера, если он больше 2*topK и пересечение с кластером не пусто.
// Пустой набор после фильтров заменяется всем ближайшим кластером.
func (e *Engine) GetRecommendations(p models.PreferenceVector, topK int) []models.Recommendation {
	rows := e.ds.Rows()
	log := e.logger.With().Int("top_k", topK).Logger()

	working := make([]int, len(rows))
	for i := range rows {
		working[i] = i
	}

	if p.Month != nil {
		month := *p.Month
		working = narrow(working, func(i int) bool { return rows[i].Month == month })
	}
	if p.Region != nil {
		region := *p.Region
		working = narrow(working, func(i int) bool { return rows[i].Region == region })
	}
	if p.Terrain != nil {
		terrain := *p.Terrain
		working = narrow(working, func(i int) bool { return rows[i].Terrain == terrain })
	}
	log.Debug().Int("filtered", len(working)).Msg("categorical filters applied")

	switch {
	case len(working) == 0:
		cluster, err := e.FindBestCluster(p)
		if err != nil {
			log.Warn().Err(err).Msg("cluster fallback unavailable")
			break
		}
		working = e.clusterMembers(cluster)
		log.Debug().Int("cluster", cluster).Int("members", len(working)).Msg("fell back to nearest cluster")
	case len(working) > 2*topK:
		cluster, err := e.FindBestCluster(p)
		if err != nil {
			log.Warn().Err(err).Msg("cluster narrowing skipped")
			break
		}
		inCluster := filter(working, func(i int) bool { return rows[i].Cluster == cluster })
		if len(inCluster) > 0 {
			working = inCluster
		}
		log.Debug().Int("cluster", cluster).Int("narrowed", len(working)).Msg("cluster narrowing applied")
	}

	return e.rank(working, topK)
}

// rank сортирует индексы по hci по убыванию (устойчиво) и отбирает первые topK.
func (e *Engine) rank(indices []int, topK int) []models.Recommendation {
	rows := e.ds.Rows()

	sort.SliceStable(indices, func(a, b int) bool {
		return rows[indices[a]].HCI > rows[indices[b]].HCI
	})

	if topK < 0 {
		topK = 0
	}
	if len(indices) > topK {
		indices = indices[:topK]
	}

	out := make([]models.Recommendation, 0, len(indices))
	for _, i := range indices {
		out = append(out, models.NewRecommendation(rows[i]))
	}
	return out
}

func (e *Engine) clusterMembers(cluster int) []int {
	var out []int
	for i, row := range e.ds.Rows() {
		if row.Cluster == cluster {
			out = append(out, i)
		}
	}
	return out
}

// narrow применяет фильтр, только если он оставляет хотя бы одну строку.
func narrow(indices []int, keep func(int) bool) []int {
	if filtered := filter(indices, keep); len(filtered) > 0 {
		return filtered
	}
	return indices
}

func filter(indices []int, keep func(int) bool) []int {
	var out []int
	for _, i := range indices {
		if keep(i) {
			out = append(out, i)
		}
	}
	return out
}

func euclidean(a, b models.Features) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
