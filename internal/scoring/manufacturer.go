package scoring

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/yourusername/podium-picks/internal/models"
)

type manufacturerAgg struct {
	name      string
	firstSeen int
	sum       int
	count     int
}

// better reports whether a has a strictly lower mean than b, falling back to
// which manufacturer appeared first in the entry list.
func (a manufacturerAgg) better(b manufacturerAgg) bool {
	// a.sum/a.count < b.sum/b.count without division
	lhs, rhs := a.sum*b.count, b.sum*a.count
	if lhs != rhs {
		return lhs < rhs
	}
	return a.firstSeen < b.firstSeen
}

// DeriveManufacturerStandings ranks manufacturers within every class that
// supports manufacturer predictions. Only finished entries count. A lower
// mean finishing position ranks higher; equal means go to the manufacturer
// seen first in entries. Ranks run 1..N per class with no gaps.
func DeriveManufacturerStandings(entries []models.EntryResult, classes []models.ClassMeta) []models.ManufacturerStanding {
	var standings []models.ManufacturerStanding
	for _, class := range classes {
		if !class.SupportsManufacturer {
			continue
		}

		index := make(map[string]int)
		var aggs []manufacturerAgg
		for i, e := range entries {
			if e.ClassID != class.ClassID || e.Manufacturer == "" || !e.Finished() {
				continue
			}
			idx, ok := index[e.Manufacturer]
			if !ok {
				idx = len(aggs)
				index[e.Manufacturer] = idx
				aggs = append(aggs, manufacturerAgg{name: e.Manufacturer, firstSeen: i})
			}
			aggs[idx].sum += e.FinishPosition
			aggs[idx].count++
		}

		sort.Slice(aggs, func(i, j int) bool { return aggs[i].better(aggs[j]) })

		for rank, a := range aggs {
			standings = append(standings, models.ManufacturerStanding{
				ClassID:      class.ClassID,
				Manufacturer: a.name,
				MeanPosition: decimal.NewFromInt(int64(a.sum)).Div(decimal.NewFromInt(int64(a.count))).Round(3),
				Entries:      a.count,
				Rank:         rank + 1,
			})
		}
	}
	return standings
}

// ManufacturerProximity maps the distance between predicted and actual rank
func ManufacturerProximity(predicted, actual int) models.Proximity {
	diff := predicted - actual
	if diff < 0 {
		diff = -diff
	}
	switch diff {
	case 0:
		return models.ProximityExact
	case 1:
		return models.ProximityOff1
	case 2:
		return models.ProximityOff2
	default:
		return models.ProximityNone
	}
}
