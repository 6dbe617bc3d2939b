package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Analysis is the fixed-shape value-betting verdict produced by the AI model.
// Numeric fields stay as strings to round-trip the model output unmodified.
type Analysis struct {
	RecommendedStake string   `json:"recommendedStake"`
	IsEvPositive     bool     `json:"isEvPositive"`
	FairOdds         string   `json:"fairOdds"`
	ValueVerdict     string   `json:"valueVerdict"`
	ExecutiveSummary string   `json:"executiveSummary"`
	EvOpportunities  []string `json:"evOpportunities"`
	AdvancedSignals  []string `json:"advancedSignals"`
	ActionPlan       []string `json:"actionPlan"`
}

// Validate checks the parsed analysis against the schema the model was asked
// to honor. An analysis is either fully valid or rejected; there is no
// partial result.
func (a *Analysis) Validate() error {
	stake, err := strconv.ParseFloat(strings.TrimSpace(a.RecommendedStake), 64)
	if err != nil {
		return fmt.Errorf("recommendedStake %q is not numeric", a.RecommendedStake)
	}
	if stake < 0 || stake > 10 {
		return fmt.Errorf("recommendedStake %.2f outside 0-10 bankroll range", stake)
	}

	fair, err := strconv.ParseFloat(strings.TrimSpace(a.FairOdds), 64)
	if err != nil {
		return fmt.Errorf("fairOdds %q is not numeric", a.FairOdds)
	}
	if fair <= 1.0 {
		return fmt.Errorf("fairOdds %.2f is not a decimal price above 1.0", fair)
	}

	if strings.TrimSpace(a.ValueVerdict) == "" {
		return fmt.Errorf("valueVerdict is empty")
	}
	if strings.TrimSpace(a.ExecutiveSummary) == "" {
		return fmt.Errorf("executiveSummary is empty")
	}

	for _, list := range []struct {
		name  string
		items []string
	}{
		{"evOpportunities", a.EvOpportunities},
		{"advancedSignals", a.AdvancedSignals},
		{"actionPlan", a.ActionPlan},
	} {
		if len(list.items) == 0 {
			return fmt.Errorf("%s is empty", list.name)
		}
	}

	return nil
}
