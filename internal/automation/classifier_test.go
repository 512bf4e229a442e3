package automation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"trimatch/internal/automation"
)

func TestClassifierIsUrgent(t *testing.T) {
	classifier := automation.NewClassifier(3, 10000)

	t.Run("large_total", func(t *testing.T) {
		inv := testInvoice()
		inv.GrandTotal = 25000
		assert.True(t, classifier.IsUrgent(inv))
	})

	t.Run("due_soon", func(t *testing.T) {
		inv := testInvoice()
		due := time.Now().AddDate(0, 0, 1)
		inv.DueDate = &due
		assert.True(t, classifier.IsUrgent(inv))
	})

	t.Run("not_urgent", func(t *testing.T) {
		inv := testInvoice()
		due := time.Now().AddDate(0, 0, 30)
		inv.DueDate = &due
		assert.False(t, classifier.IsUrgent(inv))
	})

	t.Run("no_due_date_small_total", func(t *testing.T) {
		assert.False(t, classifier.IsUrgent(testInvoice()))
	})
}
