// Package composer maintains a pick while the bettor edits it and guarantees
// that what reaches the analysis gateway is well-formed and, for parlays,
// internally consistent with the leg set.
package composer

import (
	"fmt"
	"strings"

	"betcopilot/gateway/pkg/models"
	"betcopilot/gateway/pkg/oddsmath"
)

// OddsUndefined is the placeholder shown while combined odds have no value
// (for example an empty leg set). It is never submitted.
const OddsUndefined = "-"

// ValidationError reports why a pick cannot be submitted. It is raised
// locally; no network call is made for an invalid pick.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "pick validation failed: " + e.Reason
}

// CombinedOdds returns the product of the parseable leg odds formatted to
// 2 decimals, or OddsUndefined when the leg set is empty.
func CombinedOdds(legs []models.BetLeg) string {
	raw := make([]string, len(legs))
	for i, leg := range legs {
		raw[i] = leg.Odds
	}
	product, ok := oddsmath.Parlay(raw)
	if !ok {
		return OddsUndefined
	}
	return oddsmath.Format(product)
}

// EffectiveOdds resolves the odds a pick is submitted with: the computed
// combined value for parlays, the manually entered value for simple bets.
func EffectiveOdds(betType models.BetType, legs []models.BetLeg, manualOdds string) string {
	if betType == models.BetTypeParlay {
		return CombinedOdds(legs)
	}
	return manualOdds
}

// Session is one form session. A session is constructed fresh per pick and
// mutated only through its methods; Build consumes it exactly once.
type Session struct {
	pick models.Pick
}

// NewSession starts a simple-mode session seeded with one empty leg
func NewSession() *Session {
	return &Session{
		pick: models.Pick{
			BetType: models.BetTypeSimple,
			Legs:    []models.BetLeg{{}},
		},
	}
}

// SetTeams sets the matchup
func (s *Session) SetTeams(home, away string) {
	s.pick.HomeTeam = home
	s.pick.AwayTeam = away
}

// SetNotes attaches optional free-text context
func (s *Session) SetNotes(notes string) {
	s.pick.Notes = notes
}

// SetManualOdds sets the offered odds for a simple bet. In parlay mode the
// field tracks the computed combined odds and manual edits are ignored.
func (s *Session) SetManualOdds(odds string) {
	if s.pick.BetType == models.BetTypeParlay {
		return
	}
	s.pick.OfferedOdds = odds
}

// SetBetType switches between simple and parlay. Going simple truncates to
// the first leg; going parlay keeps whatever legs exist, seeding one empty
// leg when there are none.
func (s *Session) SetBetType(t models.BetType) error {
	if !t.Valid() {
		return fmt.Errorf("unknown bet type %q", t)
	}
	if t == s.pick.BetType {
		return nil
	}

	s.pick.BetType = t
	switch t {
	case models.BetTypeSimple:
		if len(s.pick.Legs) == 0 {
			s.pick.Legs = []models.BetLeg{{}}
		} else {
			s.pick.Legs = s.pick.Legs[:1]
		}
		// the last synced value stays in the field, now user-editable
	case models.BetTypeParlay:
		if len(s.pick.Legs) == 0 {
			s.pick.Legs = []models.BetLeg{{}}
		}
		s.syncOdds()
	}
	return nil
}

// AddLeg appends an empty leg (parlay mode only)
func (s *Session) AddLeg() error {
	if s.pick.BetType != models.BetTypeParlay {
		return fmt.Errorf("cannot add legs to a simple bet")
	}
	s.pick.Legs = append(s.pick.Legs, models.BetLeg{})
	s.syncOdds()
	return nil
}

// RemoveLeg drops the leg at index. The last remaining leg cannot be removed.
func (s *Session) RemoveLeg(index int) error {
	if index < 0 || index >= len(s.pick.Legs) {
		return fmt.Errorf("leg index %d out of range", index)
	}
	if len(s.pick.Legs) == 1 {
		return fmt.Errorf("a pick needs at least one leg")
	}
	s.pick.Legs = append(s.pick.Legs[:index], s.pick.Legs[index+1:]...)
	s.syncOdds()
	return nil
}

// SetLeg replaces the leg at index with the edited values
func (s *Session) SetLeg(index int, leg models.BetLeg) error {
	if index < 0 || index >= len(s.pick.Legs) {
		return fmt.Errorf("leg index %d out of range", index)
	}
	s.pick.Legs[index] = leg
	s.syncOdds()
	return nil
}

// Legs returns a copy of the current leg set
func (s *Session) Legs() []models.BetLeg {
	out := make([]models.BetLeg, len(s.pick.Legs))
	copy(out, s.pick.Legs)
	return out
}

// BetType returns the current mode
func (s *Session) BetType() models.BetType {
	return s.pick.BetType
}

// CombinedOdds returns the live parlay preview, OddsUndefined when it has
// no value. Only meaningful in parlay mode.
func (s *Session) CombinedOdds() string {
	return CombinedOdds(s.pick.Legs)
}

// OfferedOdds returns the authoritative offered-odds field
func (s *Session) OfferedOdds() string {
	return s.pick.OfferedOdds
}

// syncOdds keeps offeredOdds tracking the combined value in parlay mode.
// The write is skipped when the combined value is undefined or unchanged.
func (s *Session) syncOdds() {
	if s.pick.BetType != models.BetTypeParlay {
		return
	}
	combined := CombinedOdds(s.pick.Legs)
	if combined == OddsUndefined || combined == s.pick.OfferedOdds {
		return
	}
	s.pick.OfferedOdds = combined
}

// Validate reports the first reason the pick cannot be submitted, nil when
// it is submittable.
func (s *Session) Validate() error {
	if strings.TrimSpace(s.pick.HomeTeam) == "" {
		return &ValidationError{Reason: "home team is required"}
	}
	if strings.TrimSpace(s.pick.AwayTeam) == "" {
		return &ValidationError{Reason: "away team is required"}
	}
	if len(s.pick.Legs) == 0 {
		return &ValidationError{Reason: "at least one selection is required"}
	}
	for i, leg := range s.pick.Legs {
		if !leg.Complete() {
			return &ValidationError{Reason: fmt.Sprintf("selection %d is incomplete", i+1)}
		}
	}

	effective := EffectiveOdds(s.pick.BetType, s.pick.Legs, s.pick.OfferedOdds)
	if effective == OddsUndefined || strings.TrimSpace(effective) == "" {
		return &ValidationError{Reason: "offered odds are required"}
	}
	return nil
}

// Build validates the session and returns the submission payload with the
// effective odds resolved.
func (s *Session) Build() (models.Pick, error) {
	if err := s.Validate(); err != nil {
		return models.Pick{}, err
	}

	pick := s.pick
	pick.OfferedOdds = EffectiveOdds(pick.BetType, pick.Legs, pick.OfferedOdds)
	pick.Legs = make([]models.BetLeg, len(s.pick.Legs))
	copy(pick.Legs, s.pick.Legs)
	return pick, nil
}
