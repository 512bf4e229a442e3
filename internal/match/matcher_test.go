package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trimatch/internal/domain"
)

// stubSim scores pairs from a fixed table; unknown pairs score 0.
type stubSim struct {
	scores map[string]int
}

func (s stubSim) Score(a, b string) int {
	return s.scores[a+"|"+b]
}

func TestItemMatcher_ExactSKUWins(t *testing.T) {
	// Fuzzy would score the second PO line at 100, but an exact SKU hit on
	// the first settles the cascade before fuzzy runs.
	m := newItemMatcher(stubSim{scores: map[string]int{
		"Blue Widget|Blue Widget": 100,
	}})
	poItems := []domain.LineItem{
		{SKU: "WID-10", Description: "Widget assortment"},
		{SKU: "WID-99", Description: "Blue Widget"},
	}

	hit := m.bestMatch(&domain.LineItem{SKU: "WID-10", Description: "Blue Widget"}, poItems)
	require.NotNil(t, hit)
	assert.Equal(t, "Exact SKU Match", hit.method)
	assert.Equal(t, 100, hit.score)
	assert.Equal(t, "WID-10", hit.poItem.SKU)
}

func TestItemMatcher_SKUTrimmedBeforeComparison(t *testing.T) {
	m := newItemMatcher(stubSim{})
	poItems := []domain.LineItem{{SKU: " WID-10 "}}

	hit := m.bestMatch(&domain.LineItem{SKU: "WID-10"}, poItems)
	require.NotNil(t, hit)
	assert.Equal(t, "Exact SKU Match", hit.method)
}

func TestItemMatcher_HighConfidenceFuzzy(t *testing.T) {
	m := newItemMatcher(stubSim{scores: map[string]int{
		"Blue Widget 10mm|10mm widget, blue": 92,
		"Blue Widget 10mm|Gasket":            10,
	}})
	poItems := []domain.LineItem{
		{Description: "Gasket"},
		{Description: "10mm widget, blue"},
	}

	hit := m.bestMatch(&domain.LineItem{Description: "Blue Widget 10mm"}, poItems)
	require.NotNil(t, hit)
	assert.Equal(t, "Fuzzy Match (Score: 92)", hit.method)
	assert.Equal(t, 92, hit.score)
}

func TestItemMatcher_LowConfidenceFallback(t *testing.T) {
	m := newItemMatcher(stubSim{scores: map[string]int{
		"Widget|Widgt thing": 72,
	}})
	poItems := []domain.LineItem{{Description: "Widgt thing"}}

	hit := m.bestMatch(&domain.LineItem{Description: "Widget"}, poItems)
	require.NotNil(t, hit)
	assert.Equal(t, 72, hit.score)
	assert.Equal(t, "Fuzzy Match (Score: 72)", hit.method)
}

func TestItemMatcher_BelowThresholdNoMatch(t *testing.T) {
	m := newItemMatcher(stubSim{scores: map[string]int{
		"Widget|Unrelated": 59,
	}})
	poItems := []domain.LineItem{{Description: "Unrelated"}}

	assert.Nil(t, m.bestMatch(&domain.LineItem{Description: "Widget"}, poItems))
}

func TestItemMatcher_HighestScoreWins(t *testing.T) {
	m := newItemMatcher(stubSim{scores: map[string]int{
		"Widget|Widget A": 88,
		"Widget|Widget B": 95,
		"Widget|Widget C": 90,
	}})
	poItems := []domain.LineItem{
		{Description: "Widget A"},
		{Description: "Widget B"},
		{Description: "Widget C"},
	}

	hit := m.bestMatch(&domain.LineItem{Description: "Widget"}, poItems)
	require.NotNil(t, hit)
	assert.Equal(t, "Widget B", hit.poItem.Description)
	assert.Equal(t, 95, hit.score)
}

func TestItemMatcher_DeterministicAcrossRuns(t *testing.T) {
	m := newItemMatcher(stubSim{scores: map[string]int{
		"Widget|Widget A": 90,
		"Widget|Widget B": 90,
	}})
	poItems := []domain.LineItem{
		{Description: "Widget A"},
		{Description: "Widget B"},
	}

	first := m.bestMatch(&domain.LineItem{Description: "Widget"}, poItems)
	require.NotNil(t, first)
	for i := 0; i < 10; i++ {
		again := m.bestMatch(&domain.LineItem{Description: "Widget"}, poItems)
		require.NotNil(t, again)
		assert.Equal(t, first.poItem.Description, again.poItem.Description)
	}
}

func TestItemMatcher_NoIdentifiersNoMatch(t *testing.T) {
	m := newItemMatcher(stubSim{})
	poItems := []domain.LineItem{{SKU: "WID-10", Description: "Widget"}}

	assert.Nil(t, m.bestMatch(&domain.LineItem{}, poItems))
}

func TestItemLabel(t *testing.T) {
	assert.Equal(t, "Widget", itemLabel(&domain.LineItem{Description: "Widget", SKU: "W-1"}))
	assert.Equal(t, "W-1", itemLabel(&domain.LineItem{SKU: "W-1"}))
	assert.Equal(t, "(unnamed item)", itemLabel(&domain.LineItem{}))
}
