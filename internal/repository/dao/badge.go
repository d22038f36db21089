package dao

import (
	"context"

	"github.com/unidrl/campus-connect/internal/kvstore"
)

type BadgeRules struct {
	Bronze int `json:"bronze"`
	Silver int `json:"silver"`
	Gold   int `json:"gold"`
}

type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type BadgeConfig struct {
	IsClaimable bool       `json:"isClaimable"`
	Rules       BadgeRules `json:"rules"`
	QAPairs     []QAPair   `json:"qa_pairs"`
}

type BadgeConfigDAO struct {
	doc *document[map[string]BadgeConfig]
}

func NewBadgeConfigDAO(store kvstore.Store) *BadgeConfigDAO {
	return &BadgeConfigDAO{
		doc: newDocument[map[string]BadgeConfig](store, KeyBadgeConfig),
	}
}

func (d *BadgeConfigDAO) Put(ctx context.Context, eventID string, cfg BadgeConfig) error {
	return d.doc.update(ctx, func(configs *map[string]BadgeConfig) error {
		if *configs == nil {
			*configs = make(map[string]BadgeConfig)
		}
		(*configs)[eventID] = cfg

		return nil
	})
}

// PutIfAbsent stores cfg only when the event has no config yet and returns
// whichever config ends up stored. An existing config is returned without
// rewriting the document.
func (d *BadgeConfigDAO) PutIfAbsent(ctx context.Context, eventID string, cfg BadgeConfig) (BadgeConfig, error) {
	stored := cfg

	err := d.doc.update(ctx, func(configs *map[string]BadgeConfig) error {
		if *configs == nil {
			*configs = make(map[string]BadgeConfig)
		}
		if existing, ok := (*configs)[eventID]; ok {
			stored = existing
			return errUnchanged
		}
		(*configs)[eventID] = cfg

		return nil
	})
	if err != nil {
		return BadgeConfig{}, err
	}

	return stored, nil
}
