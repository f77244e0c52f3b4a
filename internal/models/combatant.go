package models

import (
	"maps"
	"slices"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/google/uuid"

	"github.com/tatianab/wtii/internal/errors"
)

// Status is whether a combatant is still standing.
type Status int

const (
	StatusAlive Status = iota
	StatusDead
)

func (s Status) String() string {
	if s == StatusDead {
		return "Dead"
	}
	return "Alive"
}

// Faction separates player characters from everything the GM runs.
type Faction int

const (
	FactionCreature Faction = iota
	FactionPlayer
)

func (f Faction) String() string {
	if f == FactionPlayer {
		return "Player"
	}
	return "Creature"
}

// Ability is one ability score with its optional saving throw bonus.
type Ability struct {
	Score *int
	Save  *int
}

// AbilityScores holds the six ability scores.
type AbilityScores struct {
	Strength     Ability
	Dexterity    Ability
	Constitution Ability
	Intelligence Ability
	Wisdom       Ability
	Charisma     Ability
}

// CombatText is the display-only part of a stat block.
type CombatText struct {
	Size                  string
	CreatureType          string
	Subtype               string
	Alignment             string
	ArmorDesc             string
	HitDice               string
	Speed                 *Speed
	Perception            *int
	Skills                map[string]int
	DamageVulnerabilities string
	DamageResistances     string
	DamageImmunities      string
	ConditionImmunities   string
	Senses                string
	Languages             string
	ChallengeRating       string
	Actions               []NamedEntry
	Reactions             []NamedEntry
	LegendaryDesc         string
	LegendaryActions      []NamedEntry
	SpecialAbilities      []NamedEntry
	SpellList             []string
	Source                string
}

// Combatant is one participant in an encounter.
//
// Invariant: Status is StatusDead exactly when CurrentHealth is 0, and
// 0 <= CurrentHealth <= MaxHealth.
type Combatant struct {
	ID          string
	Name        string
	Description string
	Status      Status
	Faction     Faction
	Initiative  *int

	CurrentHealth int
	MaxHealth     int
	ArmorClass    *int

	Abilities AbilityScores
	Combat    CombatText
}

// NewPlayer builds a player combatant from manually entered details. Players
// start at 1/1 health and without initiative.
func NewPlayer(name, description string) *Combatant {
	return &Combatant{
		ID:            uuid.NewString(),
		Name:          name,
		Description:   description,
		Status:        StatusAlive,
		Faction:       FactionPlayer,
		CurrentHealth: 1,
		MaxHealth:     1,
	}
}

// NewCreature builds a creature combatant from a search result and rolls its
// initiative with r.
//
// A result without hit points is rejected with a data quality error rather
// than defaulted, since zero health would mark the creature dead on arrival.
func NewCreature(result *CreatureSearchResult, r dice.Roller) (*Combatant, error) {
	if result == nil {
		return nil, errors.InvalidArgument("search result is required")
	}
	if result.HitPoints == nil {
		return nil, errors.DataQualityf("creature %q has no hit points", result.Name).
			WithMeta("field", "hit_points")
	}
	if *result.HitPoints < 0 {
		return nil, errors.DataQualityf("creature %q has negative hit points", result.Name).
			WithMeta("field", "hit_points")
	}

	initiative, err := RollInitiative(r, result.Dexterity)
	if err != nil {
		return nil, errors.Wrapf(err, "rolling initiative for %q", result.Name)
	}

	c := &Combatant{
		ID:            uuid.NewString(),
		Name:          result.Name,
		Description:   result.Description,
		Faction:       FactionCreature,
		Initiative:    &initiative,
		CurrentHealth: *result.HitPoints,
		MaxHealth:     *result.HitPoints,
		ArmorClass:    copyInt(result.ArmorClass),
		Abilities: AbilityScores{
			Strength:     Ability{Score: copyInt(result.Strength), Save: copyInt(result.StrengthSave)},
			Dexterity:    Ability{Score: copyInt(result.Dexterity), Save: copyInt(result.DexteritySave)},
			Constitution: Ability{Score: copyInt(result.Constitution), Save: copyInt(result.ConstitutionSave)},
			Intelligence: Ability{Score: copyInt(result.Intelligence), Save: copyInt(result.IntelligenceSave)},
			Wisdom:       Ability{Score: copyInt(result.Wisdom), Save: copyInt(result.WisdomSave)},
			Charisma:     Ability{Score: copyInt(result.Charisma), Save: copyInt(result.CharismaSave)},
		},
		Combat: CombatText{
			Size:                  result.Size,
			CreatureType:          result.Type,
			Subtype:               result.Subtype,
			Alignment:             result.Alignment,
			ArmorDesc:             result.ArmorDesc,
			HitDice:               result.HitDice,
			Speed:                 copySpeed(result.Speed),
			Perception:            copyInt(result.Perception),
			Skills:                maps.Clone(result.Skills),
			DamageVulnerabilities: result.DamageVulnerabilities,
			DamageResistances:     result.DamageResistances,
			DamageImmunities:      result.DamageImmunities,
			ConditionImmunities:   result.ConditionImmunities,
			Senses:                result.Senses,
			Languages:             result.Languages,
			ChallengeRating:       result.ChallengeRating,
			Actions:               slices.Clone([]NamedEntry(result.Actions)),
			Reactions:             slices.Clone([]NamedEntry(result.Reactions)),
			LegendaryDesc:         result.LegendaryDesc,
			LegendaryActions:      slices.Clone([]NamedEntry(result.LegendaryActions)),
			SpecialAbilities:      slices.Clone([]NamedEntry(result.SpecialAbilities)),
			SpellList:             slices.Clone(result.SpellList),
			Source:                result.DocumentTitle,
		},
	}
	c.syncStatus()
	return c, nil
}

// ApplyHealthDelta changes current health by delta, clamped to
// [0, MaxHealth], and returns the change actually applied.
func (c *Combatant) ApplyHealthDelta(delta int) int {
	before := c.CurrentHealth
	c.CurrentHealth = min(max(before+delta, 0), c.MaxHealth)
	c.syncStatus()
	return c.CurrentHealth - before
}

// HasInitiative reports whether initiative has been rolled or assigned.
func (c *Combatant) HasInitiative() bool {
	return c.Initiative != nil
}

// SetInitiative assigns an initiative value.
func (c *Combatant) SetInitiative(value int) {
	c.Initiative = &value
}

// Clone returns a deep copy of c under a fresh ID.
func (c *Combatant) Clone() *Combatant {
	clone := *c
	clone.ID = uuid.NewString()
	clone.Initiative = copyInt(c.Initiative)
	clone.ArmorClass = copyInt(c.ArmorClass)
	clone.Abilities = AbilityScores{
		Strength:     c.Abilities.Strength.clone(),
		Dexterity:    c.Abilities.Dexterity.clone(),
		Constitution: c.Abilities.Constitution.clone(),
		Intelligence: c.Abilities.Intelligence.clone(),
		Wisdom:       c.Abilities.Wisdom.clone(),
		Charisma:     c.Abilities.Charisma.clone(),
	}
	clone.Combat.Speed = copySpeed(c.Combat.Speed)
	clone.Combat.Perception = copyInt(c.Combat.Perception)
	clone.Combat.Skills = maps.Clone(c.Combat.Skills)
	clone.Combat.Actions = slices.Clone(c.Combat.Actions)
	clone.Combat.Reactions = slices.Clone(c.Combat.Reactions)
	clone.Combat.LegendaryActions = slices.Clone(c.Combat.LegendaryActions)
	clone.Combat.SpecialAbilities = slices.Clone(c.Combat.SpecialAbilities)
	clone.Combat.SpellList = slices.Clone(c.Combat.SpellList)
	return &clone
}

func (c *Combatant) syncStatus() {
	if c.CurrentHealth == 0 {
		c.Status = StatusDead
	} else {
		c.Status = StatusAlive
	}
}

func (a Ability) clone() Ability {
	return Ability{Score: copyInt(a.Score), Save: copyInt(a.Save)}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func copySpeed(s *Speed) *Speed {
	if s == nil {
		return nil
	}
	return &Speed{
		Walk:   copyInt(s.Walk),
		Fly:    copyInt(s.Fly),
		Swim:   copyInt(s.Swim),
		Burrow: copyInt(s.Burrow),
		Climb:  copyInt(s.Climb),
	}
}
