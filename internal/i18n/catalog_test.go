package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhraseRendersTemplate(t *testing.T) {
	c := NewCatalog()

	assert.Equal(t, "We are open until 16:00.", c.Phrase("en", "status.open", "16:00"))
	assert.Equal(t, "Wir haben bis 16:00 geöffnet.", c.Phrase("de", "status.open", "16:00"))
	assert.Equal(t, "We open at 08:30, in 30 minutes.", c.Phrase("en", "status.opening_soon", "08:30", 30))
}

func TestPhraseFallsBackToEnglish(t *testing.T) {
	c := NewCatalog()
	assert.Equal(t, "We are currently closed.", c.Phrase("fr", "status.closed"))
}

func TestPhraseUnknownKeyStaysVisible(t *testing.T) {
	c := NewCatalog()
	assert.Equal(t, "status.nonexistent", c.Phrase("en", "status.nonexistent"))
}

func TestLoadEmptyPathYieldsDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "We are currently closed.", c.Phrase("en", "status.closed"))
}

func TestLoadMergesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "i18n.yaml")
	content := `
en:
  status.closed: "Sorry, we are closed right now."
fr:
  status.closed: "Nous sommes fermés."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Sorry, we are closed right now.", c.Phrase("en", "status.closed"))
	assert.Equal(t, "Nous sommes fermés.", c.Phrase("fr", "status.closed"))
	// Untouched keys keep their defaults.
	assert.Equal(t, "We are open until 16:00.", c.Phrase("en", "status.open", "16:00"))
	// New language without a key falls through to English.
	assert.Equal(t, "We are open until 16:00.", c.Phrase("fr", "status.open", "16:00"))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("{not yaml:::"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)
}

func TestLanguages(t *testing.T) {
	assert.ElementsMatch(t, []string{"en", "de", "th"}, NewCatalog().Languages())
}

func TestNewCatalogIsolatedCopies(t *testing.T) {
	a := NewCatalog()
	b := NewCatalog()
	a.phrases["en"]["status.closed"] = "mutated"
	assert.Equal(t, "We are currently closed.", b.Phrase("en", "status.closed"))
}
