package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"betcopilot/gateway/pkg/models"
)

func completeSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	s.SetTeams("Real Madrid", "Barcelona")
	require.NoError(t, s.SetLeg(0, models.BetLeg{Market: "1X2", Selection: "Home", Odds: "1.85"}))
	s.SetManualOdds("1.85")
	return s
}

func TestNewSessionSeedsOneEmptyLeg(t *testing.T) {
	s := NewSession()
	assert.Equal(t, models.BetTypeSimple, s.BetType())
	require.Len(t, s.Legs(), 1)
	assert.False(t, s.Legs()[0].Complete())
}

func TestCombinedOdds(t *testing.T) {
	tests := []struct {
		name string
		legs []models.BetLeg
		want string
	}{
		{"single leg", []models.BetLeg{{Odds: "1.85"}}, "1.85"},
		{"two legs rounds half-up", []models.BetLeg{{Odds: "1.85"}, {Odds: "2.10"}}, "3.89"},
		{"mid-edit leg counts as identity", []models.BetLeg{{Odds: "1.85"}, {Odds: ""}}, "1.85"},
		{"no legs is undefined", nil, OddsUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CombinedOdds(tt.legs))
		})
	}
}

func TestEffectiveOdds(t *testing.T) {
	legs := []models.BetLeg{{Odds: "1.85"}, {Odds: "2.10"}}

	assert.Equal(t, "3.89", EffectiveOdds(models.BetTypeParlay, legs, "ignored"))
	assert.Equal(t, "2.50", EffectiveOdds(models.BetTypeSimple, legs, "2.50"))
}

func TestParlayOddsSyncAfterLegEdits(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SetBetType(models.BetTypeParlay))

	require.NoError(t, s.SetLeg(0, models.BetLeg{Market: "1X2", Selection: "Home", Odds: "1.85"}))
	assert.Equal(t, "1.85", s.OfferedOdds())

	require.NoError(t, s.AddLeg())
	require.NoError(t, s.SetLeg(1, models.BetLeg{Market: "O/U", Selection: "Over 2.5", Odds: "2.10"}))
	assert.Equal(t, "3.89", s.OfferedOdds())

	require.NoError(t, s.RemoveLeg(1))
	assert.Equal(t, "1.85", s.OfferedOdds())
}

func TestSimpleModeOddsAreUserOwned(t *testing.T) {
	s := NewSession()
	s.SetManualOdds("2.40")
	require.NoError(t, s.SetLeg(0, models.BetLeg{Market: "1X2", Selection: "Home", Odds: "1.85"}))

	// leg edits never touch the manual field in simple mode
	assert.Equal(t, "2.40", s.OfferedOdds())
}

func TestManualOddsIgnoredInParlayMode(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SetBetType(models.BetTypeParlay))
	require.NoError(t, s.SetLeg(0, models.BetLeg{Market: "1X2", Selection: "Home", Odds: "1.85"}))

	s.SetManualOdds("9.99")
	assert.Equal(t, "1.85", s.OfferedOdds())
}

func TestSimpleToParlayPreservesLeg(t *testing.T) {
	s := NewSession()
	leg := models.BetLeg{Market: "1X2", Selection: "Home", Odds: "1.85"}
	require.NoError(t, s.SetLeg(0, leg))

	require.NoError(t, s.SetBetType(models.BetTypeParlay))

	require.Len(t, s.Legs(), 1)
	assert.Equal(t, leg, s.Legs()[0])
	assert.Equal(t, "1.85", s.OfferedOdds())
}

func TestParlayToSimpleKeepsFirstLeg(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SetBetType(models.BetTypeParlay))
	first := models.BetLeg{Market: "1X2", Selection: "Home", Odds: "1.85"}
	require.NoError(t, s.SetLeg(0, first))
	require.NoError(t, s.AddLeg())
	require.NoError(t, s.SetLeg(1, models.BetLeg{Market: "O/U", Selection: "Over 2.5", Odds: "2.10"}))

	require.NoError(t, s.SetBetType(models.BetTypeSimple))

	require.Len(t, s.Legs(), 1)
	assert.Equal(t, first, s.Legs()[0])
}

func TestAddLegRejectedInSimpleMode(t *testing.T) {
	s := NewSession()
	assert.Error(t, s.AddLeg())
}

func TestRemoveLastLegRejected(t *testing.T) {
	s := NewSession()
	require.NoError(t, s.SetBetType(models.BetTypeParlay))
	assert.Error(t, s.RemoveLeg(0))
}

func TestValidateBlocksIncompletePicks(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Session)
	}{
		{"missing home team", func(s *Session) { s.SetTeams("  ", "Barcelona") }},
		{"missing away team", func(s *Session) { s.SetTeams("Real Madrid", "") }},
		{"leg missing market", func(s *Session) {
			s.SetLeg(0, models.BetLeg{Market: " ", Selection: "Home", Odds: "1.85"})
		}},
		{"leg missing selection", func(s *Session) {
			s.SetLeg(0, models.BetLeg{Market: "1X2", Selection: "", Odds: "1.85"})
		}},
		{"leg missing odds", func(s *Session) {
			s.SetLeg(0, models.BetLeg{Market: "1X2", Selection: "Home", Odds: " "})
		}},
		{"missing manual odds", func(s *Session) { s.SetManualOdds("") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := completeSession(t)
			tt.mutate(s)

			err := s.Validate()
			require.Error(t, err)

			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)

			_, err = s.Build()
			assert.Error(t, err)
		})
	}
}

func TestBuildResolvesEffectiveOdds(t *testing.T) {
	s := NewSession()
	s.SetTeams("Real Madrid", "Barcelona")
	s.SetNotes("derby, key injuries")
	require.NoError(t, s.SetBetType(models.BetTypeParlay))
	require.NoError(t, s.SetLeg(0, models.BetLeg{Market: "1X2", Selection: "Home", Odds: "1.85"}))
	require.NoError(t, s.AddLeg())
	require.NoError(t, s.SetLeg(1, models.BetLeg{Market: "O/U", Selection: "Over 2.5", Odds: "2.10"}))

	pick, err := s.Build()
	require.NoError(t, err)

	assert.Equal(t, "Real Madrid", pick.HomeTeam)
	assert.Equal(t, models.BetTypeParlay, pick.BetType)
	assert.Equal(t, "3.89", pick.OfferedOdds)
	assert.Equal(t, "derby, key injuries", pick.Notes)
	require.Len(t, pick.Legs, 2)
}

func TestBuildSimpleUsesManualOdds(t *testing.T) {
	s := completeSession(t)
	s.SetManualOdds("2.05")

	pick, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, "2.05", pick.OfferedOdds)
	assert.Equal(t, models.BetTypeSimple, pick.BetType)
}
