package aggregate

import "github.com/contentops/benchconsole/internal/models"

// RadarPoint is one model's average on one dimension.
type RadarPoint struct {
	Model models.ModelConfig `json:"model"`
	Value float64            `json:"value"`
}

// RadarSeries holds every model's point for one dimension.
type RadarSeries struct {
	Dimension models.Dimension `json:"dimension"`
	Label     string           `json:"label"`
	Points    []RadarPoint     `json:"points"`
}

// DimensionPoints returns one point per row for dimension d. Failed models
// and models without a defined average contribute no point; they are not
// coerced to zero.
func DimensionPoints(rows []ComparisonRow, d models.Dimension) []RadarPoint {
	points := make([]RadarPoint, 0, len(rows))
	for i := range rows {
		if rows[i].Failed {
			continue
		}
		avg := d.Average(&rows[i].Summary)
		if avg == nil {
			continue
		}
		points = append(points, RadarPoint{Model: rows[i].Model, Value: *avg})
	}
	return points
}

// Radar builds one series per dimension in models.Dimensions order.
func Radar(rows []ComparisonRow) []RadarSeries {
	series := make([]RadarSeries, 0, len(models.Dimensions))
	for _, d := range models.Dimensions {
		series = append(series, RadarSeries{
			Dimension: d,
			Label:     d.Label(),
			Points:    DimensionPoints(rows, d),
		})
	}
	return series
}
