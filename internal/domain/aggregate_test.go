package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// obsAt builds an observation for aggregation tests; coordinates are
// irrelevant to the summary path.
func obsAt(species, region, location string, year, count int) Observation {
	return Observation{
		Species:    species,
		Region:     region,
		Location:   location,
		SampleDate: time.Date(year, 7, 1, 0, 0, 0, 0, time.UTC),
		Count:      count,
	}
}

func TestSummarizeEscapement(t *testing.T) {
	t.Run("one row per species", func(t *testing.T) {
		obs := []Observation{
			obsAt("sockeye", "Bristol Bay", "Kvichak River", 2010, 5),
			obsAt("sockeye", "Bristol Bay", "Wood River", 2010, 7),
			obsAt("chinook", "Kuskokwim", "Bethel", 2010, 3),
			obsAt("coho", "Cook Inlet", "Deshka River", 2011, 9),
		}

		rows := SummarizeEscapement(obs)

		require.Len(t, rows, 3)
		species := []string{rows[0].Species, rows[1].Species, rows[2].Species}
		assert.Equal(t, []string{"chinook", "coho", "sockeye"}, species)
	})

	t.Run("odd group count takes middle value", func(t *testing.T) {
		// Per-group escapements 3, 7, 5 → median 5.
		obs := []Observation{
			obsAt("sockeye", "Bristol Bay", "A", 2010, 3),
			obsAt("sockeye", "Bristol Bay", "B", 2010, 7),
			obsAt("sockeye", "Bristol Bay", "C", 2010, 5),
		}

		rows := SummarizeEscapement(obs)

		require.Len(t, rows, 1)
		assert.Equal(t, 5.0, rows[0].MedianEscapement)
		assert.Equal(t, 3, rows[0].Groups)
	})

	t.Run("even group count averages central values", func(t *testing.T) {
		// Per-group escapements 2, 4, 6, 8 → median (4+6)/2 = 5.
		obs := []Observation{
			obsAt("sockeye", "Bristol Bay", "A", 2010, 2),
			obsAt("sockeye", "Bristol Bay", "B", 2010, 4),
			obsAt("sockeye", "Bristol Bay", "C", 2010, 6),
			obsAt("sockeye", "Bristol Bay", "D", 2010, 8),
		}

		rows := SummarizeEscapement(obs)

		require.Len(t, rows, 1)
		assert.Equal(t, 5.0, rows[0].MedianEscapement)
	})

	t.Run("single group passes through unchanged", func(t *testing.T) {
		obs := []Observation{
			obsAt("chinook", "Kuskokwim", "Bethel", 2012, 40),
			obsAt("chinook", "Kuskokwim", "Bethel", 2012, 2),
		}

		rows := SummarizeEscapement(obs)

		require.Len(t, rows, 1)
		assert.Equal(t, 42.0, rows[0].MedianEscapement)
		assert.Equal(t, 1, rows[0].Groups)
	})

	t.Run("sums within group before median across groups", func(t *testing.T) {
		// LocA/2010 sums to 10+5=15, LocB/2011 is 20; median of [15,20] = 17.5.
		obs := []Observation{
			obsAt("SpeciesA", "RegionX", "LocA", 2010, 10),
			obsAt("SpeciesA", "RegionX", "LocA", 2010, 5),
			obsAt("SpeciesA", "RegionX", "LocB", 2011, 20),
		}

		rows := SummarizeEscapement(obs)

		require.Len(t, rows, 1)
		assert.Equal(t, "SpeciesA", rows[0].Species)
		assert.Equal(t, 17.5, rows[0].MedianEscapement)
		assert.Equal(t, 2, rows[0].Groups)
	})

	t.Run("year splits groups even at the same location", func(t *testing.T) {
		obs := []Observation{
			obsAt("sockeye", "Bristol Bay", "Kvichak River", 2010, 100),
			obsAt("sockeye", "Bristol Bay", "Kvichak River", 2011, 300),
		}

		rows := SummarizeEscapement(obs)

		require.Len(t, rows, 1)
		assert.Equal(t, 200.0, rows[0].MedianEscapement)
		assert.Equal(t, 2, rows[0].Groups)
	})

	t.Run("region splits groups even at the same location name", func(t *testing.T) {
		obs := []Observation{
			obsAt("sockeye", "Bristol Bay", "Weir 1", 2010, 10),
			obsAt("sockeye", "Cook Inlet", "Weir 1", 2010, 30),
		}

		rows := SummarizeEscapement(obs)

		require.Len(t, rows, 1)
		assert.Equal(t, 2, rows[0].Groups)
		assert.Equal(t, 20.0, rows[0].MedianEscapement)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, SummarizeEscapement(nil))
	})
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"single value", []float64{15}, 15},
		{"odd length", []float64{3, 7, 5}, 5},
		{"even length", []float64{2, 4, 6, 8}, 5},
		{"unsorted input", []float64{20, 15}, 17.5},
		{"duplicates", []float64{4, 4, 4, 9}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, median(tt.values))
		})
	}
}
