package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/example/go-numveil/internal/doctor"
	"github.com/example/go-numveil/internal/fakeval"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the masking configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			dcfg := doctor.Config{
				Keywords:    cfg.Mask.Keywords,
				WindowSize:  cfg.Mask.WindowSize,
				FixedValue:  cfg.Mask.ReplacementValue,
				ValueKind:   cfg.Mask.ValueKind,
				Locale:      cfg.Mask.FakerLocale,
				SampleValue: buildSampleProbe(cfg.Mask.ValueKind, cfg.Mask.FakerLocale),
			}

			result := doctor.Run(dcfg, os.Stdout)

			if result.Failed() {
				for _, f := range result.Failures() {
					fmt.Fprintf(os.Stderr, "FAIL: %s\n", f)
				}

				return errors.New("doctor checks failed")
			}

			_, _ = fmt.Fprintln(os.Stdout, "doctor checks passed")

			return nil
		},
	}

	return cmd
}

// buildSampleProbe constructs the generator lazily so an invalid kind or
// locale surfaces as a check failure instead of aborting the whole command.
func buildSampleProbe(kind, locale string) doctor.SampleFunc {
	return func() (string, error) {
		gen, err := fakeval.New(kind, locale)
		if err != nil {
			return "", err
		}

		return gen.Value()
	}
}
