// Package dataset загружает таблицу погодных наблюдений (локация × месяц)
// и обучает нормализатор признаков. Загруженный датасет неизменяем.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/akozadaev/go_travel_recommender/internal/models"
)

// Обязательные колонки файла датасета.
const (
	colName     = "name"
	colProvince = "province"
	colRegion   = "region"
	colTerrain  = "terrain"
	colLat      = "lat"
	colLon      = "lon"
	colMonth    = "month"
	colCluster  = "cluster"
	colCentroid = "is_centroid"
	colHCI      = "hci"
)

// RequiredColumns перечисляет колонки, без которых датасет не загружается.
var RequiredColumns = []string{
	colName, colProvince, colRegion, colTerrain, colLat, colLon, colMonth,
	models.FeatureNames[models.FeatureAvgTemp],
	models.FeatureNames[models.FeatureMaxWind],
	models.FeatureNames[models.FeatureTotalPrecip],
	models.FeatureNames[models.FeatureAvgHumidity],
	models.FeatureNames[models.FeatureCloudCover],
	colCluster, colCentroid, colHCI,
}

// Centroid представляет строку-центроид кластера вместе с её нормализованными признаками.
type Centroid struct {
	Row        int // индекс строки в датасете
	Cluster    int
	Normalized models.Features
}

// Dataset содержит загруженные наблюдения, подмножество центроидов
// и обученный на этих данных нормализатор.
type Dataset struct {
	path       string
	loadedAt   time.Time
	rows       []models.LocationObservation
	centroids  []Centroid
	normalizer Normalizer
}

// Load читает CSV-файл датасета, обучает нормализатор и выделяет центроиды.
// Любая ошибка возвращается как *DataLoadError.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataLoadError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := readObservations(path, f)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &DataLoadError{Path: path, Err: errors.New("dataset has no rows")}
	}

	ds := New(rows)
	ds.path = path
	return ds, nil
}

// New строит датасет из уже прочитанных строк. Используется загрузчиком и тестами.
func New(rows []models.LocationObservation) *Dataset {
	normalizer := FitNormalizer(rows)

	var centroids []Centroid
	for i, row := range rows {
		if !row.IsCentroid {
			continue
		}
		centroids = append(centroids, Centroid{
			Row:        i,
			Cluster:    row.Cluster,
			Normalized: normalizer.Transform(row.Features()),
		})
	}

	return &Dataset{
		loadedAt:   time.Now().UTC(),
		rows:       rows,
		centroids:  centroids,
		normalizer: normalizer,
	}
}

// Rows возвращает все наблюдения в порядке файла. Срез не должен изменяться.
func (d *Dataset) Rows() []models.LocationObservation { return d.rows }

// Centroids возвращает центроиды в порядке файла. Срез не должен изменяться.
func (d *Dataset) Centroids() []Centroid { return d.centroids }

// Len возвращает количество наблюдений.
func (d *Dataset) Len() int { return len(d.rows) }

// Normalizer возвращает нормализатор, обученный на этом датасете.
func (d *Dataset) Normalizer() Normalizer { return d.normalizer }

// Path возвращает путь к файлу, из которого загружен датасет.
func (d *Dataset) Path() string { return d.path }

// LoadedAt возвращает время загрузки.
func (d *Dataset) LoadedAt() time.Time { return d.loadedAt }

func readObservations(path string, r io.Reader) ([]models.LocationObservation, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &DataLoadError{Path: path, Err: errors.New("empty file")}
		}
		return nil, &DataLoadError{Path: path, Line: 1, Err: err}
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		index[name] = i
	}
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			return nil, &DataLoadError{Path: path, Column: col, Err: errors.New("missing required column")}
		}
	}
	reader.FieldsPerRecord = len(header)

	var rows []models.LocationObservation
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &DataLoadError{Path: path, Line: line, Err: err}
		}

		p := rowParser{path: path, line: line, record: record, index: index}
		obs := models.LocationObservation{
			Name:           p.str(colName),
			Province:       p.str(colProvince),
			Region:         p.str(colRegion),
			Terrain:        p.str(colTerrain),
			Lat:            p.float(colLat),
			Lon:            p.float(colLon),
			Month:          p.integer(colMonth),
			AvgTempC:       p.float(models.FeatureNames[models.FeatureAvgTemp]),
			MaxWindKph:     p.float(models.FeatureNames[models.FeatureMaxWind]),
			TotalPrecipMM:  p.float(models.FeatureNames[models.FeatureTotalPrecip]),
			AvgHumidity:    p.float(models.FeatureNames[models.FeatureAvgHumidity]),
			CloudCoverMean: p.float(models.FeatureNames[models.FeatureCloudCover]),
			Cluster:        p.integer(colCluster),
			IsCentroid:     p.boolean(colCentroid),
			HCI:            p.float(colHCI),
		}
		if p.err != nil {
			return nil, p.err
		}
		if obs.Month < 1 || obs.Month > 12 {
			return nil, &DataLoadError{Path: path, Line: line, Column: colMonth, Err: fmt.Errorf("month %d out of range 1-12", obs.Month)}
		}
		if obs.Cluster < 0 {
			return nil, &DataLoadError{Path: path, Line: line, Column: colCluster, Err: fmt.Errorf("negative cluster id %d", obs.Cluster)}
		}
		rows = append(rows, obs)
	}
	return rows, nil
}

// rowParser разбирает ячейки одной строки и запоминает первую ошибку.
type rowParser struct {
	path   string
	line   int
	record []string
	index  map[string]int
	err    error
}

func (p *rowParser) str(col string) string {
	return strings.TrimSpace(p.record[p.index[col]])
}

func (p *rowParser) fail(col string, err error) {
	if p.err == nil {
		p.err = &DataLoadError{Path: p.path, Line: p.line, Column: col, Err: err}
	}
}

func (p *rowParser) float(col string) float64 {
	v, err := strconv.ParseFloat(p.str(col), 64)
	if err != nil {
		p.fail(col, err)
		return 0
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(col, fmt.Errorf("non-finite value %q", p.str(col)))
		return 0
	}
	return v
}

// integer принимает и "5", и "5.0": pandas часто пишет целые как float.
func (p *rowParser) integer(col string) int {
	raw := p.str(col)
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.fail(col, err)
		return 0
	}
	if v != math.Trunc(v) {
		p.fail(col, fmt.Errorf("value %q is not an integer", raw))
		return 0
	}
	return int(v)
}

func (p *rowParser) boolean(col string) bool {
	switch strings.ToLower(p.str(col)) {
	case "true", "1", "1.0", "yes":
		return true
	case "false", "0", "0.0", "no", "":
		return false
	default:
		p.fail(col, fmt.Errorf("invalid boolean %q", p.str(col)))
		return false
	}
}
