package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewCategoryHigherPriority(t *testing.T) {
	assert.True(t, CategoryMissingDocument.HigherPriority(CategoryPolicyViolation))
	assert.True(t, CategoryMissingDocument.HigherPriority(CategoryDataMismatch))
	assert.True(t, CategoryPolicyViolation.HigherPriority(CategoryDataMismatch))
	assert.False(t, CategoryDataMismatch.HigherPriority(CategoryPolicyViolation))
	assert.False(t, CategoryDataMismatch.HigherPriority(CategoryDataMismatch))
}

func TestStringListScan(t *testing.T) {
	var s StringList
	require.NoError(t, s.Scan([]byte(`["PO-1","PO-2"]`)))
	assert.Equal(t, StringList{"PO-1", "PO-2"}, s)

	t.Run("nil_source", func(t *testing.T) {
		var s StringList
		require.NoError(t, s.Scan(nil))
		assert.Nil(t, s)
	})

	t.Run("nil_value_encodes_empty_array", func(t *testing.T) {
		var s StringList
		v, err := s.Value()
		require.NoError(t, err)
		assert.Equal(t, []byte("[]"), v)
	})
}

func TestTraceEntriesScan(t *testing.T) {
	var entries TraceEntries
	src := `[{"step":"Final Result","status":"PASS","message":"all checks passed"}]`
	require.NoError(t, entries.Scan(src))
	require.Len(t, entries, 1)
	assert.Equal(t, "Final Result", entries[0].Step)
	assert.Equal(t, TracePass, entries[0].Status)
}
