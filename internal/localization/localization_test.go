package localization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalizerLoadsEmbeddedCatalogs(t *testing.T) {
	l, err := NewLocalizer()
	require.NoError(t, err)

	for _, lang := range []string{"en", "ru"} {
		assert.NotEmpty(t, l.translations[lang], "catalog %s should be embedded", lang)
	}
}

func TestGetString(t *testing.T) {
	l, err := NewLocalizer()
	require.NoError(t, err)

	t.Run("known language and key", func(t *testing.T) {
		assert.NotEqual(t, "not_bound", l.GetString("ru", "not_bound"))
	})

	t.Run("unknown language falls back to english", func(t *testing.T) {
		assert.Equal(t, l.GetString("en", "not_bound"), l.GetString("fr", "not_bound"))
	})

	t.Run("unknown key is returned as-is", func(t *testing.T) {
		assert.Equal(t, "no_such_key", l.GetString("en", "no_such_key"))
	})
}

func TestCatalogsCoverTheSameKeys(t *testing.T) {
	l, err := NewLocalizer()
	require.NoError(t, err)

	en := l.translations["en"]
	ru := l.translations["ru"]
	require.NotEmpty(t, en)
	require.NotEmpty(t, ru)

	for key := range en {
		assert.Contains(t, ru, key, "ru catalog is missing %q", key)
	}
	for key := range ru {
		assert.Contains(t, en, key, "en catalog is missing %q", key)
	}
}
