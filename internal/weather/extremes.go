package weather

import (
	"math"
	"sort"
	"time"
)

// Summarize scans every point of the successfully fetched records and
// computes the cross-city extremes. Records with StatusFailed are skipped.
// The scan is deterministic: records are visited in input order, points in
// chronological order, and on equal values the first occurrence wins.
func Summarize(records []CityWeatherRecord) (ExtremeSummary, error) {
	s := ExtremeSummary{
		MaxTempValue:           math.Inf(-1),
		MinTempValue:           math.Inf(1),
		WidestDailyRangeSpread: math.Inf(-1),
	}

	// The volatility fields stay at their zero values when no record covers
	// two consecutive calendar days; the summary must remain JSON-encodable
	// even then.
	var any, haveSwing bool
	for _, rec := range records {
		if rec.Status == StatusFailed || len(rec.Points) == 0 {
			continue
		}
		any = true
		city := rec.Center.City.Name

		for _, pt := range rec.Points {
			if pt.Max > s.MaxTempValue {
				s.MaxTempValue = pt.Max
				s.MaxTempCity = city
				s.MaxTempDate = pt.Timestamp
			}
			if pt.Min < s.MinTempValue {
				s.MinTempValue = pt.Min
				s.MinTempCity = city
				s.MinTempDate = pt.Timestamp
			}
			if spread := pt.Max - pt.Min; spread > s.WidestDailyRangeSpread {
				s.WidestDailyRangeSpread = spread
				s.WidestDailyRangeCity = city
				s.WidestDailyRangeDate = pt.Timestamp
			}
		}

		if swing, ok := largestDailyMaxSwing(rec.Points); ok && (!haveSwing || swing > s.MostVolatileMaxSwing) {
			s.MostVolatileMaxSwing = swing
			s.MostVolatileMaxCity = city
			haveSwing = true
		}
	}

	if !any {
		return ExtremeSummary{}, ErrInsufficientData
	}
	return s, nil
}

// largestDailyMaxSwing returns the largest increase between the maximum
// temperatures of consecutive calendar days. ok is false when the series
// has no adjacent-day pair to compare.
func largestDailyMaxSwing(points []TemperaturePoint) (float64, bool) {
	// Collapse points onto calendar days; a day covered by more than one
	// datasource keeps its highest maximum.
	dailyMax := make(map[time.Time]float64)
	for _, pt := range points {
		day := toDay(pt.Timestamp)
		if v, ok := dailyMax[day]; !ok || pt.Max > v {
			dailyMax[day] = pt.Max
		}
	}

	days := make([]time.Time, 0, len(dailyMax))
	for day := range dailyMax {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best := math.Inf(-1)
	var found bool
	for i := 0; i+1 < len(days); i++ {
		if !days[i].AddDate(0, 0, 1).Equal(days[i+1]) {
			continue
		}
		if swing := dailyMax[days[i+1]] - dailyMax[days[i]]; !found || swing > best {
			best = swing
			found = true
		}
	}
	return best, found
}

func toDay(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
