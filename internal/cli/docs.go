package cli

import (
	"fmt"

	"datepicker/internal/docs"
	"datepicker/internal/tui"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	var render bool
	var width int

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show on-demand documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				topics := []map[string]string{}
				for _, t := range docs.Topics() {
					topics = append(topics, map[string]string{"topic": t, "title": docs.Title(t)})
				}
				return writeOut(cmd, app, map[string]any{
					"data":   map[string]any{"topics": topics},
					"_hints": []string{"datepicker docs overview --render"},
				})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `datepicker docs` to list topics)", topic))
			}
			switch {
			case render:
				_, err := fmt.Fprint(cmd.OutOrStdout(), tui.RenderMarkdown(body, width))
				return err
			case raw:
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"topic": topic, "title": docs.Title(topic), "markdown": body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no envelope)")
	cmd.Flags().BoolVar(&render, "render", false, "Render markdown for the terminal")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")
	return cmd
}
