package models

import "strings"

// BetType distinguishes single-selection bets from multi-leg parlays
type BetType string

const (
	BetTypeSimple BetType = "simple"
	BetTypeParlay BetType = "parlay"
)

// Valid reports whether the bet type is one of the known values
func (t BetType) Valid() bool {
	return t == BetTypeSimple || t == BetTypeParlay
}

// BetLeg is one market/selection/odds triple within a bet.
// Odds are carried as text exactly as entered; parsing happens in oddsmath.
type BetLeg struct {
	Market    string `json:"market"`
	Selection string `json:"selection"`
	Odds      string `json:"odds"`
}

// Complete reports whether all three fields are non-empty after trimming
func (l BetLeg) Complete() bool {
	return strings.TrimSpace(l.Market) != "" &&
		strings.TrimSpace(l.Selection) != "" &&
		strings.TrimSpace(l.Odds) != ""
}

// Pick is the submission unit sent to the analysis gateway.
// Leg order is display order only and carries no meaning.
type Pick struct {
	HomeTeam    string   `json:"homeTeam"`
	AwayTeam    string   `json:"awayTeam"`
	OfferedOdds string   `json:"offeredOdds"`
	BetType     BetType  `json:"betType"`
	Legs        []BetLeg `json:"legs"`
	Notes       string   `json:"notes"`
}
