// Package roster keeps the turn order of an encounter and the user's focus
// within it.
//
// Every exported method leaves the roster sorted by CompareTurnOrder with a
// cursor that is either unset or a valid index. Index arguments that are out
// of range make the call a no-op.
package roster

import (
	"cmp"
	"slices"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/tatianab/wtii/internal/errors"
	"github.com/tatianab/wtii/internal/models"
)

const noSelection = -1

// SeedSource supplies the default party for a new encounter.
type SeedSource interface {
	LoadParty() ([]models.Seed, error)
}

// HealthDelta is the running health change of the focused combatant since
// focus last moved.
type HealthDelta struct {
	CombatantID string
	Amount      int
}

// Roster is the ordered set of combatants in the current encounter.
type Roster struct {
	combatants []*models.Combatant
	cursor     int

	// peek shadow: the cursor as it was before the first uncommitted move
	shadow  int
	peeking bool

	delta    HealthDelta
	hasDelta bool

	roller dice.Roller
	seeds  SeedSource
}

// New creates a roster seeded from seeds. A seed failure still yields a usable
// empty roster alongside the error.
func New(seeds SeedSource, roller dice.Roller) (*Roster, error) {
	if roller == nil {
		roller = dice.DefaultRoller
	}
	r := &Roster{roller: roller, seeds: seeds}
	err := r.Reset()
	return r, err
}

// CompareTurnOrder orders combatants without initiative first, then by
// descending initiative.
func CompareTurnOrder(a, b *models.Combatant) int {
	switch {
	case a.Initiative == nil && b.Initiative == nil:
		return 0
	case a.Initiative == nil:
		return -1
	case b.Initiative == nil:
		return 1
	default:
		return cmp.Compare(*b.Initiative, *a.Initiative)
	}
}

// Reset starts a new encounter containing only the default party.
func (r *Roster) Reset() error {
	r.combatants = nil
	r.cursor = noSelection
	r.shadow = noSelection
	r.peeking = false
	r.hasDelta = false

	if r.seeds == nil {
		return nil
	}
	seeds, err := r.seeds.LoadParty()
	if err != nil {
		return errors.Wrap(err, "loading default party")
	}
	for _, s := range seeds {
		r.combatants = append(r.combatants, models.NewPlayer(s.Name, s.Description))
	}
	return nil
}

// Len returns the number of combatants.
func (r *Roster) Len() int {
	return len(r.combatants)
}

// Combatants returns the combatants in turn order. The slice is a copy; the
// combatants are not.
func (r *Roster) Combatants() []*models.Combatant {
	return slices.Clone(r.combatants)
}

// At returns the combatant at index i.
func (r *Roster) At(i int) (*models.Combatant, bool) {
	if !r.valid(i) {
		return nil, false
	}
	return r.combatants[i], true
}

// IndexOf returns the index of the combatant with the given ID.
func (r *Roster) IndexOf(id string) (int, bool) {
	i := slices.IndexFunc(r.combatants, func(c *models.Combatant) bool { return c.ID == id })
	return i, i >= 0
}

// Insert adds c and restores turn order. Combatants without initiative go to
// the front so they get attention first.
func (r *Roster) Insert(c *models.Combatant) {
	if c == nil {
		return
	}
	r.preserveFocus(func() {
		if c.Initiative == nil {
			r.combatants = slices.Insert(r.combatants, 0, c)
		} else {
			r.combatants = append(r.combatants, c)
		}
	})
}

// SetInitiative assigns initiative to the combatant at i and re-sorts. The
// combatant's index afterwards may differ; focus stays with it.
func (r *Roster) SetInitiative(i, value int) {
	if !r.valid(i) {
		return
	}
	r.preserveFocus(func() {
		r.combatants[i].SetInitiative(value)
	})
}

// SetDescription replaces the description of the combatant at i.
func (r *Roster) SetDescription(i int, description string) {
	if !r.valid(i) {
		return
	}
	r.combatants[i].Description = description
}

// ApplyHealthChange changes the health of the combatant at i and returns the
// change actually applied after clamping. Consecutive changes to the same
// combatant accumulate in HealthDelta until focus moves.
func (r *Roster) ApplyHealthChange(i, delta int) int {
	if !r.valid(i) {
		return 0
	}
	c := r.combatants[i]
	applied := c.ApplyHealthDelta(delta)

	if r.hasDelta && r.delta.CombatantID == c.ID {
		r.delta.Amount += applied
	} else {
		r.delta = HealthDelta{CombatantID: c.ID, Amount: applied}
		r.hasDelta = true
	}
	return applied
}

// HealthDelta returns the pending health annotation, if any.
func (r *Roster) HealthDelta() (HealthDelta, bool) {
	return r.delta, r.hasDelta
}

// Duplicate clones the combatant at i with freshly rolled initiative and
// focuses the clone.
func (r *Roster) Duplicate(i int) error {
	if !r.valid(i) {
		return nil
	}
	clone := r.combatants[i].Clone()
	initiative, err := models.RollInitiative(r.roller, clone.Abilities.Dexterity.Score)
	if err != nil {
		return errors.Wrapf(err, "rolling initiative for copy of %q", clone.Name)
	}
	clone.SetInitiative(initiative)

	r.combatants = slices.Insert(r.combatants, i+1, clone)
	r.sort()
	r.cursor, _ = r.IndexOf(clone.ID)
	r.peeking = false
	r.shadow = noSelection
	r.hasDelta = false
	return nil
}

// Remove deletes the combatant at i. Removing the focused combatant clears
// the focus.
func (r *Roster) Remove(i int) {
	if !r.valid(i) {
		return
	}
	removed := r.combatants[i]
	r.combatants = slices.Delete(r.combatants, i, i+1)

	r.cursor = shiftAfterRemove(r.cursor, i)
	if r.peeking {
		r.shadow = shiftAfterRemove(r.shadow, i)
	}
	if r.hasDelta && r.delta.CombatantID == removed.ID {
		r.hasDelta = false
	}
}

func shiftAfterRemove(index, removed int) int {
	switch {
	case index == removed:
		return noSelection
	case index > removed:
		return index - 1
	default:
		return index
	}
}

func (r *Roster) valid(i int) bool {
	return i >= 0 && i < len(r.combatants)
}

func (r *Roster) sort() {
	slices.SortStableFunc(r.combatants, CompareTurnOrder)
}

// preserveFocus runs mutate, re-sorts and moves the cursor and peek shadow
// to wherever their combatants ended up.
func (r *Roster) preserveFocus(mutate func()) {
	cursorID := r.idAt(r.cursor)
	shadowID := r.idAt(r.shadow)

	mutate()
	r.sort()

	r.cursor = r.indexOrNone(cursorID)
	if r.peeking {
		r.shadow = r.indexOrNone(shadowID)
	}
}

func (r *Roster) idAt(i int) string {
	if !r.valid(i) {
		return ""
	}
	return r.combatants[i].ID
}

func (r *Roster) indexOrNone(id string) int {
	if id == "" {
		return noSelection
	}
	if i, ok := r.IndexOf(id); ok {
		return i
	}
	return noSelection
}
