package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newRenderCmd(app *App) *cobra.Command {
	var value string
	var raw bool

	cmd := &cobra.Command{
		Use:   "render [YYYY-MM]",
		Short: "Print the popup markup a browser host would mount",
		Example: strings.TrimSpace(`
datepicker render 2024-02 --raw > popup.html
datepicker render --value 2024-03-15 --theme dark
`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := pickerConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			pg, err := newPage(value, cfg)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(args) == 1 {
				month, err := parseMonth(args[0])
				if err != nil {
					return writeErr(cmd, err)
				}
				pg.p.GoTo(month)
			}
			html := pg.popup().OuterHTML()
			if raw {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), html)
				return err
			}
			data := pg.stateOut()
			data["html"] = html
			return writeOut(cmd, app, map[string]any{"data": data})
		},
	}
	cmd.Flags().StringVar(&value, "value", "", "Input text to bootstrap the selection from")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print only the HTML (no envelope)")
	return cmd
}
