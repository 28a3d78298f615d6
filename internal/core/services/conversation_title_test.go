package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestDeriveTitle(t *testing.T) {
	assert.Equal(t, "Neue Unterhaltung", deriveTitle(""))
	assert.Equal(t, "Neue Unterhaltung", deriveTitle("   \n\t "))
	assert.Equal(t, "Wie buche ich Miete?", deriveTitle("  Wie   buche\nich Miete?  "))
}

func TestDeriveTitleTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("ü", titleLimit+10)

	title := deriveTitle(long)

	assert.True(t, utf8.ValidString(title), "truncation must not split a multi-byte rune")
	assert.Equal(t, titleLimit+1, utf8.RuneCountInString(title), "limit runes plus the ellipsis")
	assert.True(t, strings.HasSuffix(title, "…"))
}

func TestDeriveTitleShortInputUntouched(t *testing.T) {
	assert.Equal(t, "Kurz", deriveTitle("Kurz"))
}
