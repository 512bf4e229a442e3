package port

// StringSimilarity scores how alike two item descriptions are on a 0-100
// scale. The matcher cascade depends only on this interface so the scoring
// algorithm can be swapped without touching cascade logic.
type StringSimilarity interface {
	Score(a, b string) int
}
