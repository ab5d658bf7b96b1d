package pagination

import (
	"testing"
	"time"

	"github.com/SscSPs/admission_workflow_app/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	createdAt := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(createdAt, "app-42")
	assert.NotEmpty(t, token, "Token should not be empty")

	cursor, err := DecodeToken(token)
	require.NoError(t, err, "Decoding should not return an error")
	assert.True(t, createdAt.Equal(cursor.CreatedAt), "Created at time should match after decode")
	assert.Equal(t, "app-42", cursor.ID)
}

func TestDecodeToken_Invalid(t *testing.T) {
	for name, token := range map[string]string{
		"not base64":   "%%%",
		"missing id":   EncodeToken(time.Now(), ""),
		"bad time":     "YmFkfGFwcA==",
		"empty string": "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeToken(token)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestCursorAfter(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := Cursor{CreatedAt: at, ID: "b"}

	assert.True(t, c.After(at.Add(time.Nanosecond), "a"))
	assert.True(t, c.After(at, "c"))
	assert.False(t, c.After(at, "b"))
	assert.False(t, c.After(at, "a"))
	assert.False(t, c.After(at.Add(-time.Second), "z"))
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, ClampLimit(0))
	assert.Equal(t, 7, ClampLimit(7))
	assert.Equal(t, MaxLimit, ClampLimit(1000))
}
