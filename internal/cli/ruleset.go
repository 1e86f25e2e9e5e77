package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

func newRuleSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ruleset",
		Short: "Save, load, and list rule sets in the local store",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <file.json>",
		Short: "Save a rule set from a JSON file into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not initialized")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var rs ruleset.StrategyRuleSet
			if err := json.Unmarshal(data, &rs); err != nil {
				return fmt.Errorf("parsing rule set: %w", err)
			}
			if warnings, err := ruleset.Validate(rs); err != nil {
				return fmt.Errorf("invalid rule set: %w", err)
			} else {
				for _, w := range warnings {
					output.Warning("%s", w)
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.Store.SaveRuleSet(ctx, rs); err != nil {
				return err
			}
			output.Success("Saved rule set %s", rs.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved rule sets",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not initialized")
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			rulesets, err := app.Store.ListRuleSets(ctx)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(rulesets)
			}
			table := NewTable(output, "ID", "Name", "Mode")
			for _, rs := range rulesets {
				table.AddRow(rs.ID, rs.Name, string(rs.Mode.Kind))
			}
			table.Render()
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved rule set by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if app.Store == nil {
				return fmt.Errorf("store not initialized")
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.Store.DeleteRuleSet(ctx, args[0]); err != nil {
				return err
			}
			output.Success("Deleted rule set %s", args[0])
			return nil
		},
	})

	return cmd
}
