package model

import (
	"sort"
	"time"
)

// Metric identifies a tracked health series.
type Metric string

const (
	// MetricWeight is body weight in kg; the last recorded value wins per day.
	MetricWeight Metric = "weight"
	// MetricIntake is dietary energy in kcal; entries are summed per day.
	MetricIntake Metric = "intake"
	// MetricBodyFat is body-fat fraction 0-1; the last recorded value wins per day.
	MetricBodyFat Metric = "bodyfat"
)

// AllMetrics lists every valid metric.
var AllMetrics = []Metric{MetricWeight, MetricIntake, MetricBodyFat}

// IsValidMetric reports whether s names a known metric.
func IsValidMetric(s string) bool {
	for _, m := range AllMetrics {
		if string(m) == s {
			return true
		}
	}
	return false
}

// Sample is one raw user-entered or imported record.
type Sample struct {
	Metric   Metric    `json:"metric"`
	Day      time.Time `json:"day"`
	Value    float64   `json:"value"`
	LoggedAt time.Time `json:"logged_at,omitempty"`
}

// DailyPoint is one aggregated per-day value in a series.
type DailyPoint struct {
	Day   time.Time `json:"day"`
	Value float64   `json:"value"`
}

// DailySeries is an ordered day-to-value mapping with strictly
// increasing days. The zero value is an empty series.
type DailySeries struct {
	points []DailyPoint
}

// NewDailySeries builds a series from points, normalizing days, sorting,
// and keeping the last value for duplicate days.
func NewDailySeries(points []DailyPoint) DailySeries {
	if len(points) == 0 {
		return DailySeries{}
	}

	norm := make([]DailyPoint, len(points))
	for i, p := range points {
		norm[i] = DailyPoint{Day: DateOf(p.Day), Value: p.Value}
	}
	sort.SliceStable(norm, func(i, j int) bool {
		return norm[i].Day.Before(norm[j].Day)
	})

	out := norm[:0]
	for _, p := range norm {
		if len(out) > 0 && out[len(out)-1].Day.Equal(p.Day) {
			out[len(out)-1] = p
			continue
		}
		out = append(out, p)
	}
	return DailySeries{points: out}
}

// SeriesFromSamples aggregates raw samples of one metric into a daily
// series: intake entries sum per day, weight and body-fat keep the last
// logged value per day.
func SeriesFromSamples(samples []Sample, metric Metric) DailySeries {
	var filtered []Sample
	for _, s := range samples {
		if s.Metric == metric {
			filtered = append(filtered, s)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		di, dj := DateOf(filtered[i].Day), DateOf(filtered[j].Day)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return filtered[i].LoggedAt.Before(filtered[j].LoggedAt)
	})

	var points []DailyPoint
	for _, s := range filtered {
		day := DateOf(s.Day)
		if len(points) > 0 && points[len(points)-1].Day.Equal(day) {
			if metric == MetricIntake {
				points[len(points)-1].Value += s.Value
			} else {
				points[len(points)-1].Value = s.Value
			}
			continue
		}
		points = append(points, DailyPoint{Day: day, Value: s.Value})
	}
	return DailySeries{points: points}
}

// Len returns the number of distinct days in the series.
func (s DailySeries) Len() int { return len(s.points) }

// Empty reports whether the series has no points.
func (s DailySeries) Empty() bool { return len(s.points) == 0 }

// Points returns a copy of the ordered points.
func (s DailySeries) Points() []DailyPoint {
	out := make([]DailyPoint, len(s.points))
	copy(out, s.points)
	return out
}

// At returns the point at index i without copying the series.
func (s DailySeries) At(i int) DailyPoint { return s.points[i] }

// First returns the earliest point, if any.
func (s DailySeries) First() (DailyPoint, bool) {
	if len(s.points) == 0 {
		return DailyPoint{}, false
	}
	return s.points[0], true
}

// Latest returns the most recent point, if any.
func (s DailySeries) Latest() (DailyPoint, bool) {
	if len(s.points) == 0 {
		return DailyPoint{}, false
	}
	return s.points[len(s.points)-1], true
}

// Window returns the sub-series with from <= day <= to.
func (s DailySeries) Window(from, to time.Time) DailySeries {
	from, to = DateOf(from), DateOf(to)
	lo := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Day.Before(from)
	})
	hi := sort.Search(len(s.points), func(i int) bool {
		return s.points[i].Day.After(to)
	})
	if lo >= hi {
		return DailySeries{}
	}
	return DailySeries{points: s.points[lo:hi]}
}

// SpanDays returns the day count between the earliest and latest points.
func (s DailySeries) SpanDays() int {
	if len(s.points) < 2 {
		return 0
	}
	return DaysBetween(s.points[0].Day, s.points[len(s.points)-1].Day)
}
