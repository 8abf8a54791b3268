package serrors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseError_IsMatchesByCode(t *testing.T) {
	a := NewError("IMPORT_NO_FILE", "no file", "")
	b := NewError("IMPORT_NO_FILE", "another message", "Import.Errors.NoFile")
	other := NewError("IMPORT_NO_CLUB", "no club", "")

	wrapped := fmt.Errorf("upload: %w", a)
	require.ErrorIs(t, wrapped, b)
	require.NotErrorIs(t, wrapped, other)
}

func TestCodeOf(t *testing.T) {
	code, ok := CodeOf(fmt.Errorf("x: %w", NewError("CLUB_NOT_FOUND", "club not found", "")))
	require.True(t, ok)
	require.Equal(t, "CLUB_NOT_FOUND", code)

	_, ok = CodeOf(fmt.Errorf("plain"))
	require.False(t, ok)
}
