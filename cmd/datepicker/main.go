package main

import (
	"os"
	"strings"
	"time"

	"datepicker/internal/cli"
)

func isMonth(s string) bool {
	_, err := time.Parse("2006-01", strings.TrimSpace(s))
	return err == nil
}

func rewriteMonthShortcutArgs(argv []string) []string {
	// `datepicker 2024-02` works like `datepicker grid 2024-02`.
	//
	// Cobra treats the first non-flag token as a subcommand, so argv is
	// rewritten before parsing. Persistent flags may come first, so look for
	// the first positional token rather than argv[1].
	if len(argv) < 2 {
		return argv
	}

	// Unknown flags are skipped without consuming a value.
	valueFlags := map[string]bool{
		"--dir":       true,
		"--format":    true,
		"--log-level": true,
		"--theme":     true,
		"--mode":      true,
		"--view":      true,
		"--delimiter": true,
		"--min":       true,
		"--max":       true,
		"--disable":   true,
		"--field":     true,
		"--value":     true,
	}
	boolFlags := map[string]bool{
		"--pretty":          true,
		"--disable-past":    true,
		"--disable-future":  true,
		"--allow-input":     true,
		"--close-on-select": true,
	}

	insertGrid := func(at int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:at]...)
		out = append(out, "grid")
		out = append(out, argv[at:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			// Subcommands must precede "--".
			if i+1 < len(argv) && isMonth(argv[i+1]) {
				return insertGrid(i)
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isMonth(a) {
			return insertGrid(i)
		}
		return argv
	}

	return argv
}

func main() {
	os.Args = rewriteMonthShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
