package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaibhavblayer/cryptobacktest/internal/applog"
	"github.com/vaibhavblayer/cryptobacktest/internal/ruleset"
)

func newValidateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a rule set / backtest config file without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			cfgPath, _ := cmd.Flags().GetString("ruleset")
			if cfgPath == "" {
				return fmt.Errorf("--ruleset is required")
			}

			cfg, err := loadBacktestConfig(cfgPath)
			if err != nil {
				return err
			}

			warnings, err := ruleset.ValidateConfig(cfg)
			if err != nil {
				if output.IsJSON() {
					return output.JSON(map[string]interface{}{"valid": false, "error": err.Error()})
				}
				output.Error("Invalid: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{"valid": true, "warnings": warnings})
			}
			output.Success("Rule set is valid")
			for _, w := range warnings {
				output.Warning("%s", w)
				applog.LogWarning(app.Logger, cfg.Rules.ID, w)
			}
			return nil
		},
	}
	cmd.Flags().String("ruleset", "", "path to a rule set / backtest config JSON file")
	return cmd
}
