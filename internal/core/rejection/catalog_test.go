package rejection_test

import (
	"testing"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/SscSPs/admission_workflow_app/internal/core/rejection"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	e, err := rejection.Resolve("  name_mismatch ")
	require.NoError(t, err)
	assert.Equal(t, "NAME_MISMATCH", e.ID)
	assert.Equal(t, rejection.CategoryPersonal, e.Category)
	assert.NotEmpty(t, e.Title)

	_, err = rejection.Resolve("BAD_HANDWRITING")
	assert.ErrorIs(t, err, apperrors.ErrUnknownRejectionReason)

	_, err = rejection.Resolve("")
	assert.ErrorIs(t, err, apperrors.ErrUnknownRejectionReason)
}

func TestCatalog_EveryEntryBelongsToListedCategory(t *testing.T) {
	total := 0
	for _, c := range rejection.Categories() {
		assert.NotEmpty(t, c.Title(), c)
		entries := rejection.ByCategory(c)
		assert.NotEmpty(t, entries, c)
		for _, e := range entries {
			assert.Equal(t, c, e.Category)
		}
		total += len(entries)
	}
	assert.Equal(t, len(rejection.All()), total)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	e, err := rejection.Resolve("MISSING_DOCUMENT")
	require.NoError(t, err)
	e.Examples[0] = "tampered"

	again, _ := rejection.Resolve("MISSING_DOCUMENT")
	assert.NotEqual(t, "tampered", again.Examples[0])

	cats := rejection.Categories()
	cats[0] = "X"
	assert.Equal(t, rejection.CategoryDocument, rejection.Categories()[0])
}
