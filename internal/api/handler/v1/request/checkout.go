package request

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/unidrl/campus-connect/internal/domain"
)

const maxValidMinutes = 24 * 60

type IssueQRRequest struct {
	// ValidMinutes of 0 means the configured default.
	ValidMinutes int `json:"valid_minutes"`
}

func (req *IssueQRRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ValidMinutes, validation.Min(0), validation.Max(maxValidMinutes)),
	)
}

type CheckoutRequest struct {
	Code string `json:"code"`
}

func (req *CheckoutRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(1, 500)),
	)
}

type QuizRequest struct {
	Code    string   `json:"code"`
	Answers []string `json:"answers"`
}

func (req *QuizRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.Answers, validation.NotNil, validation.Length(0, 100)),
	)
}

type QAPairRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type BadgeConfigRequest struct {
	IsClaimable bool              `json:"is_claimable"`
	Rules       domain.BadgeRules `json:"rules"`
	QAPairs     []QAPairRequest   `json:"qa_pairs"`
}

func (req *BadgeConfigRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.QAPairs, validation.Length(0, 50)),
	)
	if err != nil {
		return err
	}

	for i := range req.QAPairs {
		p := &req.QAPairs[i]
		err = validation.ValidateStruct(
			p,
			validation.Field(&p.Question, validation.Required, validation.Length(1, 500)),
			validation.Field(&p.Answer, validation.Required, validation.Length(1, 200)),
		)
		if err != nil {
			return fmt.Errorf("qa_pairs[%d]: %w", i, err)
		}
	}

	return req.Rules.Validate()
}

func (req *BadgeConfigRequest) ToDomain() domain.BadgeConfig {
	pairs := make([]domain.QAPair, len(req.QAPairs))
	for i, p := range req.QAPairs {
		pairs[i] = domain.QAPair{Question: p.Question, Answer: p.Answer}
	}

	return domain.BadgeConfig{
		IsClaimable: req.IsClaimable,
		Rules:       req.Rules,
		QAPairs:     pairs,
	}
}
