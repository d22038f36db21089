package repository

import (
	"context"
	"fmt"

	"github.com/unidrl/campus-connect/internal/domain"
	"github.com/unidrl/campus-connect/internal/repository/dao"
)

type BadgeConfigDAO interface {
	Put(ctx context.Context, eventID string, cfg dao.BadgeConfig) error
	PutIfAbsent(ctx context.Context, eventID string, cfg dao.BadgeConfig) (dao.BadgeConfig, error)
}

type BadgeConfigRepository struct {
	dao BadgeConfigDAO
}

func NewBadgeConfigRepository(dao BadgeConfigDAO) *BadgeConfigRepository {
	return &BadgeConfigRepository{
		dao: dao,
	}
}

// Get returns the event's badge config, storing the default one on first
// access.
func (r *BadgeConfigRepository) Get(ctx context.Context, eventID string) (domain.BadgeConfig, error) {
	stored, err := r.dao.PutIfAbsent(ctx, eventID, r.domainToDao(domain.DefaultBadgeConfig()))
	if err != nil {
		return domain.BadgeConfig{}, fmt.Errorf("r.dao.PutIfAbsent -> %w", err)
	}

	return r.daoToDomain(stored), nil
}

func (r *BadgeConfigRepository) Set(ctx context.Context, eventID string, cfg domain.BadgeConfig) error {
	if err := r.dao.Put(ctx, eventID, r.domainToDao(cfg)); err != nil {
		return fmt.Errorf("r.dao.Put -> %w", err)
	}

	return nil
}

func (r *BadgeConfigRepository) daoToDomain(c dao.BadgeConfig) domain.BadgeConfig {
	pairs := make([]domain.QAPair, len(c.QAPairs))
	for i, p := range c.QAPairs {
		pairs[i] = domain.QAPair{Question: p.Question, Answer: p.Answer}
	}

	return domain.BadgeConfig{
		IsClaimable: c.IsClaimable,
		Rules: domain.BadgeRules{
			Bronze: c.Rules.Bronze,
			Silver: c.Rules.Silver,
			Gold:   c.Rules.Gold,
		},
		QAPairs: pairs,
	}
}

func (r *BadgeConfigRepository) domainToDao(c domain.BadgeConfig) dao.BadgeConfig {
	pairs := make([]dao.QAPair, len(c.QAPairs))
	for i, p := range c.QAPairs {
		pairs[i] = dao.QAPair{Question: p.Question, Answer: p.Answer}
	}

	return dao.BadgeConfig{
		IsClaimable: c.IsClaimable,
		Rules: dao.BadgeRules{
			Bronze: c.Rules.Bronze,
			Silver: c.Rules.Silver,
			Gold:   c.Rules.Gold,
		},
		QAPairs: pairs,
	}
}
