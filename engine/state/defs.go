// Package state holds the case registry, the fact store and the progress
// table. It has no evaluation logic: the engine decides, state stores.
package state

import (
	"io"
	"log/slog"

	"github.com/nathoo/casefile/types"
)

// Registry is the read-only view of loaded case definitions.
type Registry interface {
	// Case returns the definition for id. Callers must not mutate it.
	Case(id string) (*types.CaseDef, bool)
	// CaseIDs returns every registered case id in registration order.
	CaseIDs() []string
}

// Defs holds the immutable content loaded at startup.
type Defs struct {
	Game  types.GameDef
	Cases map[string]*types.CaseDef
	Order []string
}

var _ Registry = (*Defs)(nil)

// NewDefs registers cases in order. Duplicate ids are logged and the first
// registration wins.
func NewDefs(game types.GameDef, cases []types.CaseDef, logger *slog.Logger) *Defs {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	defs := &Defs{
		Game:  game,
		Cases: make(map[string]*types.CaseDef, len(cases)),
		Order: make([]string, 0, len(cases)),
	}
	for i := range cases {
		c := cases[i]
		if _, dup := defs.Cases[c.ID]; dup {
			logger.Warn("duplicate case id, keeping first definition", "case", c.ID)
			continue
		}
		defs.Cases[c.ID] = &c
		defs.Order = append(defs.Order, c.ID)
	}
	return defs
}

// Case returns the definition for id.
func (d *Defs) Case(id string) (*types.CaseDef, bool) {
	c, ok := d.Cases[id]
	return c, ok
}

// CaseIDs returns every registered case id in registration order.
func (d *Defs) CaseIDs() []string {
	return d.Order
}

// ProvidedBy returns the ids of cases offered by the given NPC, in
// registration order.
func (d *Defs) ProvidedBy(npcID string) []string {
	var ids []string
	for _, id := range d.Order {
		if d.Cases[id].Provider == npcID {
			ids = append(ids, id)
		}
	}
	return ids
}
