package fakeval

import (
	"strconv"
	"strings"
	"testing"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		locale  string
		wantErr bool
	}{
		{"defaults", "", "", false},
		{"float en_US", "float", "en_US", false},
		{"int with hyphen locale", "int", "en-US", false},
		{"price de_DE", "price", "de_DE", false},
		{"alias kind", "integer", "fr_FR", false},
		{"unknown kind", "decimal", "en_US", true},
		{"bad locale", "float", "no_such_locale!", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.kind, tt.locale)
			if tt.wantErr {
				if err == nil {
					t.Errorf("New(%q, %q) = %v, nil; want error", tt.kind, tt.locale, g)
				}

				return
			}

			if err != nil {
				t.Errorf("New(%q, %q) unexpected error: %v", tt.kind, tt.locale, err)
			}
		})
	}
}

func TestNew_NormalizesInputs(t *testing.T) {
	g, err := New("Integer", "en_US")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if g.Kind() != "int" {
		t.Errorf("Kind() = %q; want %q", g.Kind(), "int")
	}

	if g.Locale() != "en-US" {
		t.Errorf("Locale() = %q; want %q", g.Locale(), "en-US")
	}
}

// parseEnglish strips en-US grouping separators and parses the rest.
func parseEnglish(t *testing.T, s string) float64 {
	t.Helper()

	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		t.Fatalf("value %q does not parse as a number: %v", s, err)
	}

	return f
}

func TestValue_FloatRange(t *testing.T) {
	g, err := New("float", "en_US")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 50; i++ {
		v, err := g.Value()
		if err != nil {
			t.Fatalf("Value: %v", err)
		}

		f := parseEnglish(t, v)
		if f < floatMin || f > floatMax {
			t.Fatalf("Value() = %q (%v); want within [%d, %d]", v, f, floatMin, floatMax)
		}

		if !strings.Contains(v, ".") {
			t.Fatalf("Value() = %q; want two decimal places", v)
		}
	}
}

func TestValue_IntRange(t *testing.T) {
	g, err := New("int", "en_US")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 50; i++ {
		v, err := g.Value()
		if err != nil {
			t.Fatalf("Value: %v", err)
		}

		if strings.Contains(v, ".") {
			t.Fatalf("Value() = %q; want no fraction for int kind", v)
		}

		f := parseEnglish(t, v)
		if f < floatMin || f > floatMax {
			t.Fatalf("Value() = %q (%v); want within [%d, %d]", v, f, floatMin, floatMax)
		}
	}
}

func TestValue_PriceRange(t *testing.T) {
	g, err := New("price", "en_US")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 50; i++ {
		v, err := g.Value()
		if err != nil {
			t.Fatalf("Value: %v", err)
		}

		f := parseEnglish(t, v)
		if f < priceMin || f > priceMax {
			t.Fatalf("Value() = %q (%v); want within [%d, %d]", v, f, priceMin, priceMax)
		}
	}
}

func TestValue_GermanLocaleFormatting(t *testing.T) {
	g, err := New("float", "de_DE")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	v, err := g.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	// Values start at 10000, so German output always carries a "." grouping
	// separator and a "," before the two fraction digits.
	if !strings.Contains(v, ",") {
		t.Errorf("Value() = %q; want decimal comma for de_DE", v)
	}

	if !strings.Contains(v, ".") {
		t.Errorf("Value() = %q; want grouping dot for de_DE", v)
	}

	normalized := strings.ReplaceAll(v, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")

	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		t.Fatalf("value %q does not parse after normalization: %v", v, err)
	}

	if f < floatMin || f > floatMax {
		t.Errorf("Value() = %q (%v); want within [%d, %d]", v, f, floatMin, floatMax)
	}
}

func TestValue_ConcurrentUse(t *testing.T) {
	g, err := New("float", "en_US")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				if _, err := g.Value(); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}

	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Value: %v", err)
		}
	}
}
