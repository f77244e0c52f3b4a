package roster

import "github.com/tatianab/wtii/internal/models"

// Direction is a focus movement through the turn order.
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Selected returns the focused index.
func (r *Roster) Selected() (int, bool) {
	return r.cursor, r.cursor != noSelection
}

// Focused returns the focused combatant, or nil.
func (r *Roster) Focused() *models.Combatant {
	c, _ := r.At(r.cursor)
	return c
}

// Peeking reports whether the focus is a preview that the next committed
// move will return from.
func (r *Roster) Peeking() bool {
	return r.peeking
}

// Unselect clears the focus and any peek in progress.
func (r *Roster) Unselect() {
	r.cursor = noSelection
	r.shadow = noSelection
	r.peeking = false
	r.hasDelta = false
}

// AdvanceFocus moves the focus one step, wrapping at either end. After a run
// of peeks the step is taken from where the first peek started.
func (r *Roster) AdvanceFocus(dir Direction) {
	from := r.cursor
	if r.peeking {
		from = r.shadow
		r.peeking = false
		r.shadow = noSelection
	}
	r.step(from, dir)
}

// Peek moves the focus like AdvanceFocus but remembers where it started so
// the next committed move acts from there.
func (r *Roster) Peek(dir Direction) {
	if !r.peeking {
		r.shadow = r.cursor
		r.peeking = true
	}
	r.step(r.cursor, dir)
}

func (r *Roster) step(from int, dir Direction) {
	r.hasDelta = false

	n := len(r.combatants)
	switch {
	case n == 0:
		r.cursor = noSelection
	case !r.valid(from):
		if dir == Forward {
			r.cursor = 0
		} else {
			r.cursor = n - 1
		}
	case dir == Forward:
		r.cursor = (from + 1) % n
	default:
		r.cursor = (from - 1 + n) % n
	}
}
