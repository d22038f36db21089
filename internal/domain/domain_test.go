package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreToBadge(t *testing.T) {
	rules := BadgeRules{Bronze: 1, Silver: 3, Gold: 5}

	tests := []struct {
		name    string
		correct int
		want    BadgeTier
	}{
		{"above gold", 7, BadgeGold},
		{"exactly gold", 5, BadgeGold},
		{"silver", 3, BadgeSilver},
		{"between silver and gold", 4, BadgeSilver},
		{"bronze", 1, BadgeBronze},
		{"nothing", 0, BadgeNone},
		{"negative", -1, BadgeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreToBadge(tt.correct, rules))
		})
	}
}

func TestScoreToBadge_EqualThresholdsPreferHighest(t *testing.T) {
	assert.Equal(t, BadgeGold, ScoreToBadge(2, BadgeRules{Bronze: 2, Silver: 2, Gold: 2}))
}

func TestBadgeRules_Validate(t *testing.T) {
	assert.NoError(t, DefaultBadgeConfig().Rules.Validate())
	assert.NoError(t, BadgeRules{Bronze: 0, Silver: 0, Gold: 0}.Validate())
	assert.Error(t, BadgeRules{Bronze: 3, Silver: 1, Gold: 5}.Validate())
	assert.Error(t, BadgeRules{Bronze: -1, Silver: 1, Gold: 5}.Validate())
}

func TestBadgeConfig_Validate(t *testing.T) {
	cfg := DefaultBadgeConfig()
	cfg.QAPairs = []QAPair{{Question: "Who hosted the event?", Answer: "GDSC"}}
	assert.NoError(t, cfg.Validate())

	cfg.QAPairs = append(cfg.QAPairs, QAPair{Question: "  ", Answer: "x"})
	assert.Error(t, cfg.Validate())
}

func TestBadgeConfig_Score(t *testing.T) {
	cfg := BadgeConfig{QAPairs: []QAPair{
		{Question: "q1", Answer: "Da Nang"},
		{Question: "q2", Answer: "42"},
		{Question: "q3", Answer: "go"},
	}}

	assert.Equal(t, []string{"q1", "q2", "q3"}, cfg.Questions())
	assert.Equal(t, 3, cfg.Score([]string{" da nang ", "42", "GO"}))
	assert.Equal(t, 1, cfg.Score([]string{"hue", "42"}))
	assert.Equal(t, 0, cfg.Score(nil))
	assert.Equal(t, 3, cfg.Score([]string{"da nang", "42", "go", "extra"}))
}

func TestCheckoutToken_RoundTrip(t *testing.T) {
	token := CheckoutToken{EventID: "hackathon_2024.final", Nonce: "abc123"}

	parsed, err := ParseCheckoutToken(token.Encode())
	require.NoError(t, err)
	assert.Equal(t, token, parsed)
}

func TestParseCheckoutToken_Invalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"20230592_hackathon-2024",
		"VNUK-CHECKOUT.aGFja2F0aG9u",
		"OTHER.aGFja2F0aG9u.nonce",
		"VNUK-CHECKOUT.!!!.nonce",
		"VNUK-CHECKOUT..nonce",
	} {
		_, err := ParseCheckoutToken(raw)
		assert.ErrorIs(t, err, ErrInvalidCheckoutToken, raw)
	}
}

func TestCheckoutQR_ExpiredAt(t *testing.T) {
	now := time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC)
	qr := CheckoutQR{ExpiresAt: now}

	assert.False(t, qr.ExpiredAt(now.Add(-time.Minute)))
	assert.False(t, qr.ExpiredAt(now))
	assert.True(t, qr.ExpiredAt(now.Add(time.Second)))
}

func TestCountStatistics(t *testing.T) {
	statuses := []RegistrationStatus{
		StatusRegistered, StatusRegistered, StatusPending,
		StatusCheckedIn, StatusCheckedIn,
		StatusCompleted,
		StatusAbsent,
	}
	regs := make([]Registration, 0, len(statuses))
	for _, s := range statuses {
		regs = append(regs, Registration{Status: s})
	}

	assert.Equal(t, Statistics{Total: 7, Pending: 3, CheckedIn: 2, Completed: 1, Absent: 1}, CountStatistics(regs))
}

func TestRegistrationPatch_Apply(t *testing.T) {
	checkIn := time.Date(2024, 11, 20, 8, 30, 0, 0, time.UTC)
	status := StatusCheckedIn
	reg := Registration{MSSV: "20230592", Status: StatusRegistered, CorrectAnswers: 2}

	RegistrationPatch{Status: &status, CheckInTime: &checkIn}.Apply(&reg)

	assert.Equal(t, StatusCheckedIn, reg.Status)
	require.NotNil(t, reg.CheckInTime)
	assert.True(t, checkIn.Equal(*reg.CheckInTime))
	assert.Equal(t, 2, reg.CorrectAnswers)
	assert.Nil(t, reg.CheckoutTime)
}
