// Package fakeval produces plausible random numbers to stand in for
// masked values, formatted for a configured locale.
package fakeval

import (
	"fmt"
	"strings"
	"sync"

	"github.com/brianvoe/gofakeit/v7"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/example/go-numveil/internal/config"
)

// Value ranges per kind. Float and int cover salary-sized figures; price
// covers everyday amounts.
const (
	floatMin = 10000
	floatMax = 1000000
	priceMin = 10
	priceMax = 10000
)

// Generator draws random values of one kind and renders them with the
// number conventions of one locale, so "de_DE" yields "123.456,78".
// It is safe for concurrent use.
type Generator struct {
	kind    string
	locale  language.Tag
	printer *message.Printer

	mu    sync.Mutex
	faker *gofakeit.Faker
}

// New builds a Generator for the given value kind and locale tag. The kind
// is normalized (empty means float); the locale accepts BCP 47 tags with
// either "_" or "-" separators and defaults to en_US when empty. Both are
// validated here so misconfiguration surfaces before any masking starts.
func New(kind, locale string) (*Generator, error) {
	normalized, err := config.NormalizeValueKind(kind)
	if err != nil {
		return nil, err
	}
	tag, err := parseLocale(locale)
	if err != nil {
		return nil, err
	}
	return &Generator{
		kind:    normalized,
		locale:  tag,
		printer: message.NewPrinter(tag),
		faker:   gofakeit.New(0),
	}, nil
}

// Kind returns the normalized value kind.
func (g *Generator) Kind() string { return g.kind }

// Locale returns the canonical form of the configured locale.
func (g *Generator) Locale() string { return g.locale.String() }

// Value returns a freshly drawn value as locale-formatted text.
func (g *Generator) Value() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.kind {
	case config.KindFloat:
		return g.printer.Sprintf("%.2f", g.faker.Float64Range(floatMin, floatMax)), nil
	case config.KindInt:
		return g.printer.Sprintf("%d", g.faker.Number(floatMin, floatMax)), nil
	case config.KindPrice:
		return g.printer.Sprintf("%.2f", g.faker.Price(priceMin, priceMax)), nil
	default:
		return "", fmt.Errorf("value kind %q is not supported", g.kind)
	}
}

func parseLocale(locale string) (language.Tag, error) {
	trimmed := strings.TrimSpace(locale)
	if trimmed == "" {
		return language.AmericanEnglish, nil
	}
	tag, err := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("parse locale %q: %w", locale, err)
	}
	return tag, nil
}
