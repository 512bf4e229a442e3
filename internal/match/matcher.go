package match

import (
	"fmt"
	"strings"

	"trimatch/internal/domain"
	"trimatch/internal/port"
)

// Cascade thresholds on the 0-100 similarity scale.
const (
	highConfidenceScore = 85
	lowConfidenceScore  = 60
)

// itemMatch is the outcome of pairing one invoice line to a PO line.
type itemMatch struct {
	poItem *domain.LineItem
	method string
	score  int
}

// itemMatcher pairs invoice lines to PO lines with a three-stage cascade:
// exact SKU, then fuzzy description at high confidence, then fuzzy at low
// confidence. The first stage that yields a candidate wins; ties within a
// fuzzy stage go to the single highest-scoring candidate.
type itemMatcher struct {
	sim port.StringSimilarity
}

func newItemMatcher(sim port.StringSimilarity) *itemMatcher {
	return &itemMatcher{sim: sim}
}

// bestMatch returns the best PO line for an invoice line, or nil when no
// stage produces a candidate. Matching is single-pass per invoice item; a PO
// line may anchor more than one invoice line.
func (m *itemMatcher) bestMatch(invItem *domain.LineItem, poItems []domain.LineItem) *itemMatch {
	if sku := strings.TrimSpace(invItem.SKU); sku != "" {
		for i := range poItems {
			if strings.TrimSpace(poItems[i].SKU) == sku {
				return &itemMatch{poItem: &poItems[i], method: "Exact SKU Match", score: 100}
			}
		}
	}
	if hit := m.bestFuzzy(invItem, poItems, highConfidenceScore); hit != nil {
		return hit
	}
	return m.bestFuzzy(invItem, poItems, lowConfidenceScore)
}

func (m *itemMatcher) bestFuzzy(invItem *domain.LineItem, poItems []domain.LineItem, threshold int) *itemMatch {
	desc := strings.TrimSpace(invItem.Description)
	if desc == "" {
		return nil
	}
	var best *itemMatch
	for i := range poItems {
		score := m.sim.Score(desc, strings.TrimSpace(poItems[i].Description))
		if score < threshold {
			continue
		}
		if best == nil || score > best.score {
			best = &itemMatch{
				poItem: &poItems[i],
				method: fmt.Sprintf("Fuzzy Match (Score: %d)", score),
				score:  score,
			}
		}
	}
	return best
}

// itemLabel names a line item in trace steps: description first, SKU as a
// fallback for description-less lines.
func itemLabel(it *domain.LineItem) string {
	if desc := strings.TrimSpace(it.Description); desc != "" {
		return desc
	}
	if sku := strings.TrimSpace(it.SKU); sku != "" {
		return sku
	}
	return "(unnamed item)"
}
