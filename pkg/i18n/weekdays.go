// Package i18n maps canonical English weekday names to the labels shown in
// the admin forms. Group payloads always carry the canonical names; labels
// never reach the API layer.
package i18n

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/ru"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultLocale is used when the caller does not ask for one.
const DefaultLocale = "en"

var providers = map[string]struct {
	translator func() locales.Translator
	tag        language.Tag
}{
	"en": {translator: en.New, tag: language.English},
	"ru": {translator: ru.New, tag: language.Russian},
}

// week lists the weekdays in the order the studio schedule is displayed.
var week = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Option is a select-box entry: the canonical value and its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Weekdays is a bidirectional canonical <-> localized weekday table.
type Weekdays struct {
	locale      string
	options     []Option
	toLabel     map[string]string
	toCanonical map[string]string
}

// Supported returns the known locale codes in sorted order.
func Supported() []string {
	out := make([]string, 0, len(providers))
	for code := range providers {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// NewWeekdays builds the table for locale. An empty locale selects DefaultLocale.
func NewWeekdays(locale string) (*Weekdays, error) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		locale = DefaultLocale
	}
	p, ok := providers[locale]
	if !ok {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}

	wide := p.translator().WeekdaysWide()
	caser := cases.Title(p.tag)

	w := &Weekdays{
		locale:      locale,
		options:     make([]Option, 0, len(week)),
		toLabel:     make(map[string]string, len(week)),
		toCanonical: make(map[string]string, len(week)),
	}
	for _, day := range week {
		canonical := day.String()
		label := canonical
		if int(day) < len(wide) && wide[day] != "" {
			label = caser.String(wide[day])
		}
		w.options = append(w.options, Option{Value: canonical, Label: label})
		w.toLabel[canonical] = label
		w.toCanonical[label] = canonical
	}
	return w, nil
}

// Locale reports the locale code of the table.
func (w *Weekdays) Locale() string {
	return w.locale
}

// Options returns Monday..Sunday entries for form rendering.
func (w *Weekdays) Options() []Option {
	out := make([]Option, len(w.options))
	copy(out, w.options)
	return out
}

// Label translates a canonical day name. Unknown values are returned as-is.
func (w *Weekdays) Label(canonical string) string {
	if label, ok := w.toLabel[canonical]; ok {
		return label
	}
	return canonical
}

// Canonical translates a localized label back to its canonical name.
func (w *Weekdays) Canonical(label string) (string, bool) {
	canonical, ok := w.toCanonical[label]
	return canonical, ok
}
