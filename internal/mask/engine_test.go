package mask

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/go-numveil/internal/config"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr error
	}{
		{
			name:    "empty keywords",
			opts:    Options{Keywords: "", Window: 5, Policy: FixedPolicy{Value: "X"}},
			wantErr: ErrNoKeywords,
		},
		{
			name:    "negative window",
			opts:    Options{Keywords: "salary", Window: -1, Policy: FixedPolicy{Value: "X"}},
			wantErr: ErrNegativeWindow,
		},
		{
			name:    "missing policy",
			opts:    Options{Keywords: "salary", Window: 5},
			wantErr: ErrNoPolicy,
		},
		{
			name: "valid",
			opts: Options{Keywords: "salary", Window: 0, Policy: FixedPolicy{Value: "X"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := New(tt.opts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New error = %v; want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("New: %v", err)
			}

			if eng == nil {
				t.Fatal("New returned nil engine without error")
			}
		})
	}
}

func TestMask_FixedLiteral(t *testing.T) {
	eng, err := New(Options{
		Keywords: "salary",
		Window:   2,
		Policy:   FixedPolicy{Value: "XXXXX"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := eng.Mask("salary: 5000")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if res.Output != "salary: XXXXX" {
		t.Errorf("Output = %q; want %q", res.Output, "salary: XXXXX")
	}

	if res.Matches != 1 {
		t.Errorf("Matches = %d; want 1", res.Matches)
	}
}

func TestMask_NumericReplacementRetriggersOnSecondPass(t *testing.T) {
	eng, err := New(Options{
		Keywords: "salary",
		Window:   2,
		Policy:   FixedPolicy{Value: "99999"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first, err := eng.Mask("salary: 5000")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if first.Output != "salary: 99999" || first.Matches != 1 {
		t.Fatalf("first pass = %q with %d matches; want %q with 1",
			first.Output, first.Matches, "salary: 99999")
	}

	// A numeric replacement tokenizes as a Number inside the keyword window,
	// so masking already-masked output replaces it again.
	second, err := eng.Mask(first.Output)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if second.Matches != 1 {
		t.Errorf("second pass Matches = %d; want 1", second.Matches)
	}

	if second.Output != "salary: 99999" {
		t.Errorf("second pass Output = %q; want %q", second.Output, "salary: 99999")
	}
}

func TestMask_WindowBoundary(t *testing.T) {
	eng, err := New(Options{
		Keywords: "salary",
		Window:   0,
		Policy:   FixedPolicy{Value: "X"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := eng.Mask("salary 100 200")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if res.Output != "salary X 200" {
		t.Errorf("Output = %q; want %q", res.Output, "salary X 200")
	}

	if res.Matches != 1 {
		t.Errorf("Matches = %d; want 1", res.Matches)
	}
}

func TestMask_Deduplication(t *testing.T) {
	src := &stubSource{values: []string{"111"}}

	eng, err := New(Options{
		Keywords: "income,salary",
		Window:   3,
		Policy:   RandomPolicy{Source: src},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := eng.Mask("income and salary were 500 dollars")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if res.Output != "income and salary were 111 dollars" {
		t.Errorf("Output = %q", res.Output)
	}

	if res.Matches != 1 {
		t.Errorf("Matches = %d; want 1", res.Matches)
	}

	if src.calls != 1 {
		t.Errorf("source drawn %d times; want exactly 1", src.calls)
	}
}

func TestMask_NoMatchesIsUnchanged(t *testing.T) {
	eng, err := New(Options{
		Keywords: "salary",
		Window:   5,
		Policy:   FixedPolicy{Value: "X"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	inputs := []string{
		"The quick brown fox",
		"",
		"no numbers near anything",
		"the count was 100 but no keyword is close enough to matter here at all 5",
	}

	for _, input := range inputs {
		res, err := eng.Mask(input)
		if err != nil {
			t.Fatalf("Mask(%q): %v", input, err)
		}

		if res.Output != input {
			t.Errorf("Mask(%q) = %q; want unchanged", input, res.Output)
		}

		if res.Matches != 0 {
			t.Errorf("Mask(%q) Matches = %d; want 0", input, res.Matches)
		}
	}
}

func TestMask_PreservesSurroundingBytes(t *testing.T) {
	eng, err := New(Options{
		Keywords: "salary,bonus",
		Window:   2,
		Policy:   FixedPolicy{Value: "N"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	input := "Total salary:\t12,345.67 (gross), bonus: 500!"

	res, err := eng.Mask(input)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if want := "Total salary:\tN (gross), bonus: N!"; res.Output != want {
		t.Errorf("Output = %q; want %q", res.Output, want)
	}

	if res.Matches != 2 {
		t.Errorf("Matches = %d; want 2", res.Matches)
	}
}

func TestMask_GenerationFailureAborts(t *testing.T) {
	boom := errors.New("source broke")

	eng, err := New(Options{
		Keywords: "salary",
		Window:   1,
		Policy:   RandomPolicy{Source: &stubSource{err: boom}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := eng.Mask("salary 100")
	if !errors.Is(err, boom) {
		t.Fatalf("Mask error = %v; want wrapped source error", err)
	}

	if res.Output != "" || res.Matches != 0 {
		t.Errorf("Mask returned partial result %+v; want zero result", res)
	}
}

func TestMask_FreshValuePerMatch(t *testing.T) {
	src := &stubSource{values: []string{"111", "222"}}

	eng, err := New(Options{
		Keywords: "salary",
		Window:   1,
		Policy:   RandomPolicy{Source: src},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	res, err := eng.Mask("salary 100 200")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if res.Output != "salary 111 222" {
		t.Errorf("Output = %q; want %q", res.Output, "salary 111 222")
	}

	if src.calls != 2 {
		t.Errorf("source drawn %d times; want 2", src.calls)
	}
}

func TestMask_EngineIsReusable(t *testing.T) {
	eng, err := New(Options{
		Keywords: "salary",
		Window:   0,
		Policy:   FixedPolicy{Value: "X"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	first, err := eng.Mask("salary 100")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	second, err := eng.Mask("nothing to do")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	third, err := eng.Mask("salary 900")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if first.Output != "salary X" || second.Output != "nothing to do" || third.Output != "salary X" {
		t.Errorf("reuse produced %q, %q, %q", first.Output, second.Output, third.Output)
	}
}

func TestEngine_Accessors(t *testing.T) {
	eng, err := New(Options{
		Keywords: "Salary,income",
		Window:   7,
		Policy:   FixedPolicy{Value: "X"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	words := eng.Keywords()
	if len(words) != 2 || words[0] != "income" || words[1] != "salary" {
		t.Errorf("Keywords() = %v", words)
	}

	if eng.Window() != 7 {
		t.Errorf("Window() = %d; want 7", eng.Window())
	}
}

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.MaskConfig
		wantErr bool
	}{
		{
			name: "fixed policy",
			cfg: config.MaskConfig{
				Keywords:         "salary",
				WindowSize:       2,
				ReplacementValue: "XXXXX",
			},
		},
		{
			name: "random policy defaults",
			cfg: config.MaskConfig{
				Keywords:   "salary",
				WindowSize: 5,
			},
		},
		{
			name: "random policy with kind and locale",
			cfg: config.MaskConfig{
				Keywords:    "salary",
				WindowSize:  5,
				ValueKind:   "price",
				FakerLocale: "de_DE",
			},
		},
		{
			name:    "empty keywords",
			cfg:     config.MaskConfig{WindowSize: 5, ReplacementValue: "X"},
			wantErr: true,
		},
		{
			name: "unknown value kind",
			cfg: config.MaskConfig{
				Keywords:   "salary",
				WindowSize: 5,
				ValueKind:  "decimal",
			},
			wantErr: true,
		},
		{
			name: "bad locale",
			cfg: config.MaskConfig{
				Keywords:    "salary",
				WindowSize:  5,
				FakerLocale: "not a locale!",
			},
			wantErr: true,
		},
		{
			name: "negative window",
			cfg: config.MaskConfig{
				Keywords:         "salary",
				WindowSize:       -3,
				ReplacementValue: "X",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := NewFromConfig(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("NewFromConfig returned nil error; want failure")
				}

				return
			}

			if err != nil {
				t.Fatalf("NewFromConfig: %v", err)
			}

			if eng == nil {
				t.Fatal("NewFromConfig returned nil engine")
			}
		})
	}
}

func TestNewFromConfig_FixedBeatsRandom(t *testing.T) {
	eng, err := NewFromConfig(config.MaskConfig{
		Keywords:         "salary",
		WindowSize:       2,
		ReplacementValue: "XXXXX",
		ValueKind:        "float",
		FakerLocale:      "en_US",
	})
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}

	res, err := eng.Mask("salary: 5000")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if res.Output != "salary: XXXXX" {
		t.Errorf("Output = %q; want fixed value applied", res.Output)
	}
}

func TestNewFromConfig_RandomProducesFreshNumbers(t *testing.T) {
	eng, err := NewFromConfig(config.MaskConfig{
		Keywords:   "salary",
		WindowSize: 1,
	})
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}

	res, err := eng.Mask("salary 100")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}

	if res.Matches != 1 {
		t.Fatalf("Matches = %d; want 1", res.Matches)
	}

	if res.Output == "salary 100" {
		t.Error("Output unchanged; want the number replaced")
	}

	if !strings.HasPrefix(res.Output, "salary ") {
		t.Errorf("Output = %q; surrounding text altered", res.Output)
	}
}
