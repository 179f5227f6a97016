package cli

import (
	"errors"
	"strings"

	"datepicker/internal/datekey"
	"datepicker/internal/picker"
	"datepicker/internal/selection"
	"datepicker/internal/store"

	"github.com/spf13/cobra"
)

func newFieldsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fields",
		Aliases: []string{"field"},
		Short:   "Persisted input values",
	}
	cmd.AddCommand(newFieldsListCmd(app))
	cmd.AddCommand(newFieldsGetCmd(app))
	cmd.AddCommand(newFieldsSetCmd(app))
	cmd.AddCommand(newFieldsRmCmd(app))
	return cmd
}

// fieldOut adds the parsed date keys to a stored field.
func fieldOut(f store.Field, delimiter string) map[string]any {
	if delimiter == "" {
		delimiter = picker.DefaultDelimiter
	}
	keys := []string{}
	for _, k := range selection.Split(f.Value, delimiter) {
		if n := datekey.Normalize(k); n != "" {
			keys = append(keys, n)
		}
	}
	return map[string]any{
		"name":      f.Name,
		"value":     f.Value,
		"keys":      keys,
		"updatedAt": f.UpdatedAt,
	}
}

func newFieldsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := pickerConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			fields, err := st.ListFields(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]map[string]any, 0, len(fields))
			for _, f := range fields {
				out = append(out, fieldOut(f, cfg.Delimiter))
			}
			hints := []string{}
			if len(out) == 0 {
				hints = append(hints, "datepicker --field <name>", "datepicker fields set <name> <value>")
			}
			return writeOut(cmd, app, map[string]any{"data": out, "_hints": hints})
		},
	}
}

func newFieldsGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show one stored field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := pickerConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := st.LoadField(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": fieldOut(f, cfg.Delimiter)})
		},
	}
}

func newFieldsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Store a field's input text",
		Long: strings.TrimSpace(`
Store the text of a field's input. The value is kept as given, like text
typed into an input; the picker drops entries that are not YYYY-MM-DD when
it bootstraps its selection from it.
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return writeErr(cmd, errors.New("field name is empty"))
			}
			cfg, _, err := pickerConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := st.SaveField(cmd.Context(), name, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   fieldOut(f, cfg.Delimiter),
				"_hints": []string{"datepicker --field " + name},
			})
		},
	}
}

func newFieldsRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"delete"},
		Short:   "Delete a stored field",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := st.DeleteField(cmd.Context(), args[0]); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"name": args[0], "deleted": true}})
		},
	}
}
