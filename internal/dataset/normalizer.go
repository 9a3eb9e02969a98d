package dataset

import (
	"math"

	"github.com/akozadaev/go_travel_recommender/internal/models"
)

// Normalizer приводит признаки к нулевому среднему и единичной дисперсии.
// Параметры вычисляются один раз при загрузке датасета и больше не меняются.
type Normalizer struct {
	mean  models.Features
	scale models.Features
}

// FitNormalizer вычисляет среднее и стандартное отклонение (по генеральной совокупности)
// каждого признака по всем строкам. Для признака с нулевой дисперсией масштаб равен 1.
func FitNormalizer(rows []models.LocationObservation) Normalizer {
	var n Normalizer
	if len(rows) == 0 {
		for i := range n.scale {
			n.scale[i] = 1
		}
		return n
	}

	count := float64(len(rows))
	for _, row := range rows {
		f := row.Features()
		for i := range f {
			n.mean[i] += f[i]
		}
	}
	for i := range n.mean {
		n.mean[i] /= count
	}

	var variance models.Features
	for _, row := range rows {
		f := row.Features()
		for i := range f {
			d := f[i] - n.mean[i]
			variance[i] += d * d
		}
	}
	for i := range variance {
		std := math.Sqrt(variance[i] / count)
		if std == 0 {
			std = 1
		}
		n.scale[i] = std
	}
	return n
}

// Transform применяет обученное преобразование к вектору признаков.
func (n Normalizer) Transform(f models.Features) models.Features {
	var out models.Features
	for i := range f {
		out[i] = (f[i] - n.mean[i]) / n.scale[i]
	}
	return out
}

// Mean возвращает средние значения признаков.
func (n Normalizer) Mean() models.Features { return n.mean }

// Scale возвращает стандартные отклонения признаков.
func (n Normalizer) Scale() models.Features { return n.scale }
