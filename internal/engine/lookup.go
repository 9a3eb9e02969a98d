package engine

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/akozadaev/go_travel_recommender/internal/models"
)

// SearchByLocation ищет подстроку query (без учёта регистра) в названии города
// или провинции. Пустой запрос совпадает со всеми строками.
func (e *Engine) SearchByLocation(query string, topK int) []models.Recommendation {
	q := foldText(query)

	var matches []int
	for i, key := range e.searchKeys {
		if strings.Contains(key.name, q) || strings.Contains(key.province, q) {
			matches = append(matches, i)
		}
	}
	return e.rank(matches, topK)
}

// GetClusterInfo возвращает сводку по кластеру; false, если у кластера нет строк.
func (e *Engine) GetClusterInfo(clusterID int) (models.ClusterSummary, bool) {
	summary := models.ClusterSummary{ClusterID: clusterID}
	var centroid *models.CentroidLocation

	for _, row := range e.ds.Rows() {
		if row.Cluster != clusterID {
			continue
		}
		summary.TotalLocations++
		summary.AvgTemp += row.AvgTempC
		summary.AvgWind += row.MaxWindKph
		summary.AvgPrecipitation += row.TotalPrecipMM
		summary.AvgHumidity += row.AvgHumidity
		summary.AvgCloudCover += row.CloudCoverMean
		summary.AvgHCI += row.HCI
		if row.IsCentroid && centroid == nil {
			centroid = &models.CentroidLocation{City: row.Name, Province: row.Province}
		}
	}

	if summary.TotalLocations == 0 {
		return models.ClusterSummary{}, false
	}

	n := float64(summary.TotalLocations)
	summary.AvgTemp /= n
	summary.AvgWind /= n
	summary.AvgPrecipitation /= n
	summary.AvgHumidity /= n
	summary.AvgCloudCover /= n
	summary.AvgHCI /= n
	summary.CentroidLocation = centroid
	return summary, true
}

// GetAllClustersSummary возвращает сводки по всем кластерам в порядке возрастания id.
func (e *Engine) GetAllClustersSummary() []models.ClusterSummary {
	out := make([]models.ClusterSummary, 0, len(e.clusterIDs))
	for _, id := range e.clusterIDs {
		if info, ok := e.GetClusterInfo(id); ok {
			out = append(out, info)
		}
	}
	return out
}

// Stats описывает загруженный датасет.
func (e *Engine) Stats() models.DatasetStats {
	months := make(map[int]struct{})
	regions := make(map[string]struct{})
	terrains := make(map[string]struct{})
	for _, row := range e.ds.Rows() {
		months[row.Month] = struct{}{}
		regions[row.Region] = struct{}{}
		terrains[row.Terrain] = struct{}{}
	}

	stats := models.DatasetStats{
		Path:      e.ds.Path(),
		LoadedAt:  e.ds.LoadedAt(),
		Rows:      e.ds.Len(),
		Centroids: len(e.ds.Centroids()),
		Clusters:  len(e.clusterIDs),
		Months:    make([]int, 0, len(months)),
		Regions:   make([]string, 0, len(regions)),
		Terrains:  make([]string, 0, len(terrains)),
	}
	for m := range months {
		stats.Months = append(stats.Months, m)
	}
	for r := range regions {
		stats.Regions = append(stats.Regions, r)
	}
	for t := range terrains {
		stats.Terrains = append(stats.Terrains, t)
	}
	sort.Ints(stats.Months)
	sort.Strings(stats.Regions)
	sort.Strings(stats.Terrains)
	return stats
}

// foldText приводит строку к NFC и нижнему регистру: вьетнамские диакритики
// могут прийти как в составной, так и в разложенной форме.
func foldText(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
