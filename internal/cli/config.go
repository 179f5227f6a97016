package cli

import (
	"strings"

	"datepicker/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change default picker options",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the config file and its path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": path, "config": cfg, "keys": store.ConfigKeys()},
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> [value]",
		Short: "Set one config key; an omitted value resets it",
		Long: strings.TrimSpace(`
Set one dotted config key. Keys: ` + strings.Join(store.ConfigKeys(), ", ") + `.
picker.disabledDates takes a comma-separated list of YYYY-MM-DD dates.
`),
		Example: strings.TrimSpace(`
datepicker config set picker.selectionMode multiple
datepicker config set picker.disabledDates 2024-12-25,2024-12-26
datepicker config set tui.palette dark
datepicker config set picker.minDate
`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			if err := cfg.Set(args[0], value); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	})
	return cmd
}
