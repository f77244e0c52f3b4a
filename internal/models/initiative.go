package models

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// InitiativeDie is the die rolled for initiative.
const InitiativeDie = 20

// AbilityModifier returns the modifier for an ability score, treating a
// missing score as 0. Division floors, so 7 gives -2.
func AbilityModifier(score *int) int {
	s := 0
	if score != nil {
		s = *score
	}
	diff := s - 10
	mod := diff / 2
	if diff < 0 && diff%2 != 0 {
		mod--
	}
	return mod
}

// InitiativeModifier is the dexterity modifier added to initiative rolls.
func InitiativeModifier(dexterity *int) int {
	return AbilityModifier(dexterity)
}

// RollInitiative returns d20 + the dexterity modifier.
func RollInitiative(r dice.Roller, dexterity *int) (int, error) {
	roll, err := r.Roll(InitiativeDie)
	if err != nil {
		return 0, err
	}
	return roll + InitiativeModifier(dexterity), nil
}
