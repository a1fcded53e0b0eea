package explorer

import (
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/pt"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var translators = map[string]func() locales.Translator{
	"en": en.New,
	"es": es.New,
	"de": de.New,
	"fr": fr.New,
	"pt": pt.New,
}

// Formatter renders dates and counts for one locale. Unknown locales fall
// back to English.
type Formatter struct {
	translator locales.Translator
	location   *time.Location

	mu      sync.Mutex
	printer *message.Printer
}

// NewFormatter builds a formatter for locale ("en", "es", "es-AR", ...).
// Dates are shown in loc, or UTC when loc is nil.
func NewFormatter(locale string, loc *time.Location) *Formatter {
	base := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(base, "-_"); i > 0 {
		base = base[:i]
	}

	newTranslator, ok := translators[base]
	if !ok {
		base = "en"
		newTranslator = en.New
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Formatter{
		translator: newTranslator(),
		location:   loc,
		printer:    message.NewPrinter(language.Make(base)),
	}
}

// Locale is the locale actually in use.
func (f *Formatter) Locale() string {
	return f.translator.Locale()
}

// DateTime formats t as a medium date plus a short time.
func (f *Formatter) DateTime(t time.Time) string {
	t = t.In(f.location)
	return f.translator.FmtDateMedium(t) + " " + f.translator.FmtTimeShort(t)
}

// Count formats n with the locale's digit grouping.
func (f *Formatter) Count(n int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.printer.Sprintf("%d", n)
}
