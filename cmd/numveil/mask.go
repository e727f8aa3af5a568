package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/example/go-numveil/internal/mask"
	"github.com/spf13/cobra"
)

func newMaskCmd() *cobra.Command {
	var text string
	var in string
	var out string

	cmd := &cobra.Command{
		Use:   "mask",
		Short: "Mask numbers near configured keywords",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			input, err := readMaskText(text, in, os.Stdin)
			if err != nil {
				return err
			}

			eng, err := mask.NewFromConfig(cfg.Mask)
			if err != nil {
				return mapMaskError(fmt.Errorf("configure mask engine: %w", err))
			}

			res, err := eng.Mask(input)
			if err != nil {
				return fmt.Errorf("mask failed: %w", err)
			}

			return writeMaskOutput(out, res.Output, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Text to mask (if empty, read --in or stdin)")
	cmd.Flags().StringVar(&in, "in", "", "Input file path ('-' for stdin)")
	cmd.Flags().StringVar(&out, "out", "-", "Output path ('-' for stdout)")

	return cmd
}

// readMaskText selects the input source: --text wins, then --in, then stdin.
// Content is passed through unmodified; trimming would change bytes the
// masker is required to preserve.
func readMaskText(text, inPath string, stdin io.Reader) (string, error) {
	if text != "" {
		return text, nil
	}

	if inPath != "" && inPath != "-" {
		b, err := os.ReadFile(inPath)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", inPath, err)
		}
		return string(b), nil
	}

	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(b) == 0 {
		return "", errors.New("either provide --text, --in, or pipe text on stdin")
	}
	return string(b), nil
}

// writeMaskOutput writes exactly the masked bytes, with no added newline, so
// piping a file through the command yields a byte-exact masking of it.
func writeMaskOutput(outPath, output string, stdout io.Writer) error {
	if outPath == "" || outPath == "-" {
		_, err := io.WriteString(stdout, output)
		return err
	}
	return os.WriteFile(outPath, []byte(output), 0o644)
}

func mapMaskError(err error) error {
	if errors.Is(err, mask.ErrNoKeywords) {
		return fmt.Errorf(
			"no keywords configured; set --keywords, NUMVEIL_KEYWORDS, or mask.keywords in the config file: %w", err)
	}

	return err
}
