// Package mapping indexes file property configurations by entity class.
package mapping

import (
	"fmt"
	"sort"

	"github.com/rohits-web03/webfile/internal/common"
	"github.com/rohits-web03/webfile/internal/models"
)

type key struct {
	entity   string
	property string
}

// Index is read-only after NewIndex and safe for concurrent use.
type Index struct {
	byPair   map[key]models.FilePropertyConfiguration
	byEntity map[string][]models.FilePropertyConfiguration
}

// Entry is one configuration plus entity aliases that resolve to it, which
// lets a subtype share the configuration of its parent entity.
type Entry struct {
	Configuration models.FilePropertyConfiguration
	Aliases       []string
}

func NewIndex(entries ...Entry) (*Index, error) {
	idx := &Index{
		byPair:   make(map[key]models.FilePropertyConfiguration),
		byEntity: make(map[string][]models.FilePropertyConfiguration),
	}
	for _, e := range entries {
		cfg := e.Configuration
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		names := append([]string{cfg.EntityClass}, e.Aliases...)
		for _, name := range names {
			k := key{entity: name, property: cfg.FileProperty}
			if _, dup := idx.byPair[k]; dup {
				return nil, fmt.Errorf("duplicate file property configuration %s.%s", name, cfg.FileProperty)
			}
			idx.byPair[k] = cfg
			idx.byEntity[name] = append(idx.byEntity[name], cfg)
		}
	}
	for name := range idx.byEntity {
		list := idx.byEntity[name]
		sort.Slice(list, func(i, j int) bool { return list[i].FileProperty < list[j].FileProperty })
	}
	return idx, nil
}

// Lookup returns the configuration for the pair or ErrConfigurationNotFound.
func (idx *Index) Lookup(entityClass, property string) (models.FilePropertyConfiguration, error) {
	if idx != nil {
		if cfg, ok := idx.byPair[key{entity: entityClass, property: property}]; ok {
			return cfg, nil
		}
	}
	return models.FilePropertyConfiguration{}, fmt.Errorf("%w: %s.%s", common.ErrConfigurationNotFound, entityClass, property)
}

// ForEntity lists the file properties configured for an entity, sorted by property name.
func (idx *Index) ForEntity(entityClass string) []models.FilePropertyConfiguration {
	if idx == nil {
		return nil
	}
	list := idx.byEntity[entityClass]
	out := make([]models.FilePropertyConfiguration, len(list))
	copy(out, list)
	return out
}
