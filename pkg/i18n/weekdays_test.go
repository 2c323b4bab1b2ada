package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdaysEnglish(t *testing.T) {
	days, err := NewWeekdays("")
	require.NoError(t, err)
	assert.Equal(t, DefaultLocale, days.Locale())

	opts := days.Options()
	require.Len(t, opts, 7)
	assert.Equal(t, Option{Value: "Monday", Label: "Monday"}, opts[0])
	assert.Equal(t, Option{Value: "Sunday", Label: "Sunday"}, opts[6])
}

func TestWeekdaysRussian(t *testing.T) {
	days, err := NewWeekdays(" RU ")
	require.NoError(t, err)
	assert.Equal(t, "ru", days.Locale())

	assert.Equal(t, "Понедельник", days.Label("Monday"))
	assert.Equal(t, "Воскресенье", days.Label("Sunday"))
	assert.Equal(t, "Funday", days.Label("Funday"))

	for _, opt := range days.Options() {
		canonical, ok := days.Canonical(opt.Label)
		require.True(t, ok, opt.Label)
		assert.Equal(t, opt.Value, canonical)
	}
	_, ok := days.Canonical("Monday")
	assert.False(t, ok)
}

func TestWeekdaysUnsupported(t *testing.T) {
	_, err := NewWeekdays("de")
	assert.Error(t, err)
	assert.Equal(t, []string{"en", "ru"}, Supported())
}

func TestWeekdaysOptionsAreCopies(t *testing.T) {
	days, err := NewWeekdays("en")
	require.NoError(t, err)

	opts := days.Options()
	opts[0].Label = "changed"
	assert.Equal(t, "Monday", days.Options()[0].Label)
}
