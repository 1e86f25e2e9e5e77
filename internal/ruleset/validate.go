package ruleset

import (
	"fmt"

	"github.com/vaibhavblayer/cryptobacktest/internal/xerrors"
)

// Validate checks rs against every structural and semantic invariant in
// spec §4.1. It returns the full list of violations (never fails fast) and
// any non-blocking warnings; a non-nil error means the rule set is rejected
// as a whole and the engine must not run.
func Validate(rs StrategyRuleSet) (warnings []string, err error) {
	var errs xerrors.ValidationErrors

	switch rs.Mode.Kind {
	case ModeStandard:
		if len(rs.Entry.Conditions) == 0 {
			errs = append(errs, xerrors.NewValidationError("entry.conditions", len(rs.Entry.Conditions),
				"standard mode requires at least one entry condition", xerrors.ErrEmptyEntryConditions))
		}
		if len(rs.Exit.Conditions) == 0 {
			warnings = append(warnings, "no exit conditions — positions will be held until end of data")
		}
	case ModeDCA:
		if len(rs.Entry.Conditions) != 0 || len(rs.Exit.Conditions) != 0 {
			errs = append(errs, xerrors.NewValidationError("mode.dca", rs.Mode.Kind,
				"dca mode forbids entry/exit conditions", xerrors.ErrDCAConditionsNotEmpty))
		}
		if rs.Mode.DCA == nil {
			errs = append(errs, xerrors.NewValidationError("mode.dca", nil,
				"dca mode requires dca parameters", xerrors.ErrInvalidDCAInterval))
		} else {
			if rs.Mode.DCA.IntervalDays < 1 {
				errs = append(errs, xerrors.NewValidationError("mode.dca.interval_days", rs.Mode.DCA.IntervalDays,
					"must be >= 1", xerrors.ErrInvalidDCAInterval))
			}
			if rs.Mode.DCA.AmountUSD <= 0 {
				errs = append(errs, xerrors.NewValidationError("mode.dca.amount_usd", rs.Mode.DCA.AmountUSD,
					"must be > 0", xerrors.ErrInvalidDCAAmount))
			}
		}
	default:
		errs = append(errs, xerrors.NewValidationError("mode.kind", rs.Mode.Kind, "unknown strategy mode", nil))
	}

	for _, group := range []struct {
		name string
		g    ConditionGroup
	}{{"entry", rs.Entry}, {"exit", rs.Exit}} {
		for _, c := range group.g.Conditions {
			if c.Op.IsCross() {
				if !c.Left.IsIndicator() || !c.Right.IsIndicator() {
					errs = append(errs, xerrors.NewValidationError(
						fmt.Sprintf("%s.conditions[%s]", group.name, c.ID), c.Op,
						"crosses_above/crosses_below require indicator operands on both sides",
						xerrors.ErrCrossRequiresIndicator))
				}
			}
			if c.Scope == ScopePosition && !c.usesPositionScopeIndicator() {
				errs = append(errs, xerrors.NewValidationError(
					fmt.Sprintf("%s.conditions[%s]", group.name, c.ID), c.Scope,
					"position-scope condition requires a position-scope indicator operand",
					xerrors.ErrPositionScopeInvalid))
			}
		}
	}

	switch rs.Sizing.Kind {
	case SizingPercentEquity:
		if rs.Sizing.Pct < 1 || rs.Sizing.Pct > 100 {
			errs = append(errs, xerrors.NewValidationError("sizing.pct", rs.Sizing.Pct,
				"percent_equity sizing must be within [1, 100]", xerrors.ErrInvalidSizingPercent))
		}
	case SizingFixedAmount:
		if rs.Sizing.USD <= 0 {
			errs = append(errs, xerrors.NewValidationError("sizing.usd", rs.Sizing.USD,
				"fixed_amount sizing must be positive", xerrors.ErrInvalidSizingAmount))
		}
	default:
		errs = append(errs, xerrors.NewValidationError("sizing.kind", rs.Sizing.Kind, "unknown sizing kind", nil))
	}

	if len(errs) > 0 {
		return warnings, errs
	}
	return warnings, nil
}

// ValidateConfig validates the enclosing BacktestConfig in addition to its
// embedded rule set.
func ValidateConfig(cfg BacktestConfig) (warnings []string, err error) {
	warnings, err = Validate(cfg.Rules)
	if err != nil {
		return warnings, err
	}
	if cfg.InitialCapital <= 0 {
		return warnings, xerrors.NewValidationError("initial_capital", cfg.InitialCapital,
			"must be positive", xerrors.ErrInvalidInitialCapital)
	}
	return warnings, nil
}
