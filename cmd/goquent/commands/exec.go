package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goquent/goquent/query/builder"
	"github.com/goquent/goquent/query/executor"
	"github.com/goquent/goquent/query/sqlgen"
	"github.com/goquent/goquent/runtime/types"
)

// writeVerbs are statement verbs that mutate the database and require
// confirmation before running.
var writeVerbs = map[string]bool{
	"INSERT":   true,
	"UPDATE":   true,
	"DELETE":   true,
	"REPLACE":  true,
	"ALTER":    true,
	"CREATE":   true,
	"DROP":     true,
	"TRUNCATE": true,
}

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "exec <sql>",
		Short: "Run a SQL statement against the configured database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			statement := strings.TrimSpace(args[0])
			write := isWrite(statement)

			if write && !yes {
				var confirmed bool
				prompt := &survey.Confirm{
					Message: fmt.Sprintf("Run %q against the configured database?", statement),
				}
				if err := survey.AskOne(prompt, &confirmed); err != nil {
					return err
				}
				if !confirmed {
					color.Yellow("aborted")
					return nil
				}
			}

			c, err := connect()
			if err != nil {
				return err
			}
			defer c.Close()

			exec := executor.New(c.DB())
			action := builder.ActionRaw
			if write {
				action = builder.ActionUpdate
			}

			out, err := exec.Run(cmd.Context(), action, &sqlgen.Query{SQL: statement})
			if err != nil {
				return err
			}

			if write {
				color.Green("✓ %d row(s) affected", out.Affected)
				return nil
			}
			renderRows(out.Rows)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt for write statements")
	return cmd
}

// renderRows prints a result set as a table, columns in sorted order.
func renderRows(rows []types.Row) {
	if len(rows) == 0 {
		color.Yellow("no rows")
		return
	}

	headers := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	data := pterm.TableData{headers}
	for _, row := range rows {
		line := make([]string, len(headers))
		for i, h := range headers {
			if v := row[h]; v != nil {
				line[i] = fmt.Sprint(v)
			} else {
				line[i] = "NULL"
			}
		}
		data = append(data, line)
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	fmt.Printf("%d row(s)\n", len(rows))
}

func isWrite(statement string) bool {
	fields := strings.Fields(statement)
	if len(fields) == 0 {
		return false
	}
	return writeVerbs[strings.ToUpper(fields[0])]
}
