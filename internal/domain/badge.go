package domain

import (
	"errors"
	"strings"
)

type BadgeTier string

const (
	BadgeNone   BadgeTier = ""
	BadgeBronze BadgeTier = "bronze"
	BadgeSilver BadgeTier = "silver"
	BadgeGold   BadgeTier = "gold"
)

var (
	errRulesNotAscending = errors.New("badge thresholds must satisfy 0 <= bronze <= silver <= gold")
	errEmptyQAPair       = errors.New("every quiz question needs a question and an answer")
)

type BadgeRules struct {
	Bronze int `json:"bronze"`
	Silver int `json:"silver"`
	Gold   int `json:"gold"`
}

func (r BadgeRules) Validate() error {
	if r.Bronze < 0 || r.Bronze > r.Silver || r.Silver > r.Gold {
		return errRulesNotAscending
	}

	return nil
}

type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type BadgeConfig struct {
	IsClaimable bool       `json:"is_claimable"`
	Rules       BadgeRules `json:"rules"`
	QAPairs     []QAPair   `json:"qa_pairs"`
}

func (c BadgeConfig) Validate() error {
	if err := c.Rules.Validate(); err != nil {
		return err
	}
	for _, p := range c.QAPairs {
		if strings.TrimSpace(p.Question) == "" || strings.TrimSpace(p.Answer) == "" {
			return errEmptyQAPair
		}
	}

	return nil
}

// Questions returns the quiz questions in order, without their answers.
func (c BadgeConfig) Questions() []string {
	questions := make([]string, len(c.QAPairs))
	for i, p := range c.QAPairs {
		questions[i] = p.Question
	}

	return questions
}

// Score counts the answers matching the expected ones position by position,
// ignoring case and surrounding whitespace.
func (c BadgeConfig) Score(answers []string) int {
	correct := 0
	for i, p := range c.QAPairs {
		if i >= len(answers) {
			break
		}
		if strings.EqualFold(strings.TrimSpace(answers[i]), strings.TrimSpace(p.Answer)) {
			correct++
		}
	}

	return correct
}

func DefaultBadgeConfig() BadgeConfig {
	return BadgeConfig{
		IsClaimable: false,
		Rules:       BadgeRules{Bronze: 1, Silver: 3, Gold: 5},
		QAPairs:     []QAPair{},
	}
}

// ScoreToBadge returns the highest tier whose threshold is met, or BadgeNone.
func ScoreToBadge(correctAnswers int, rules BadgeRules) BadgeTier {
	switch {
	case correctAnswers >= rules.Gold:
		return BadgeGold
	case correctAnswers >= rules.Silver:
		return BadgeSilver
	case correctAnswers >= rules.Bronze:
		return BadgeBronze
	default:
		return BadgeNone
	}
}
