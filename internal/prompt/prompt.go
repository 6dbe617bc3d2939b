// Package prompt builds the deterministic instruction pair sent to the
// text-generation upstream. Same pick in, same strings out.
package prompt

import (
	"fmt"
	"strings"

	"betcopilot/gateway/pkg/models"
)

// systemInstruction pins the analyst role and the exact output schema. The
// schema directive is the contract the response parser relies on.
const systemInstruction = `You are an expert sports-betting value analyst. Evaluate whether the bet has positive expected value (EV), estimate an approximate fair price, and propose an actionable plan. ALWAYS return strict JSON in exactly this format:

{
  "recommendedStake": "Number between 0-10 representing the recommended % of bankroll",
  "isEvPositive": true,
  "fairOdds": "Estimated fair decimal odds. E.g.: 1.92",
  "valueVerdict": "Short sentence stating EV+, neutral or EV- and why",
  "executiveSummary": "Concise 2-3 sentence summary with the key conclusions",
  "evOpportunities": [
    "Value opportunity or adjustment 1",
    "Value opportunity or adjustment 2",
    "Value opportunity or adjustment 3"
  ],
  "advancedSignals": [
    "Advanced signal or flag (injuries, market, pace, weather, etc.)",
    "Another signal",
    "Another signal"
  ],
  "actionPlan": [
    "Action step 1",
    "Action step 2",
    "Action step 3",
    "Action step 4"
  ]
}`

// System returns the fixed system instruction
func System() string {
	return systemInstruction
}

// User interpolates the pick into the user-content string
func User(pick models.Pick) string {
	notes := strings.TrimSpace(pick.Notes)
	if notes == "" {
		notes = "N/A"
	}

	return fmt.Sprintf(`Analyze this bet:
Match: %s vs %s
Type: %s
Offered odds: %s
Selections:
%s
Additional notes from the user: %s

State whether it is EV+ or not, estimate the fair odds and the recommended stake.`,
		pick.HomeTeam, pick.AwayTeam, pick.BetType, pick.OfferedOdds, legLines(pick.Legs), notes)
}

// legLines enumerates the legs one per line, 1-based
func legLines(legs []models.BetLeg) string {
	if len(legs) == 0 {
		return "No selections provided."
	}

	lines := make([]string, len(legs))
	for i, leg := range legs {
		lines[i] = fmt.Sprintf("%d. Market: %s | Selection: %s | Odds: %s",
			i+1, leg.Market, leg.Selection, leg.Odds)
	}
	return strings.Join(lines, "\n")
}
