package models

import (
	"bytes"
	"encoding/json"
)

// NamedEntry is a titled block of rules text such as an action, a reaction
// or a special ability.
type NamedEntry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"desc" yaml:"desc"`
	AttackBonus *int   `json:"attack_bonus,omitempty" yaml:"attack_bonus,omitempty"`
	DamageDice  string `json:"damage_dice,omitempty" yaml:"damage_dice,omitempty"`
}

// NamedEntries decodes either a JSON list of entries or the empty string the
// monster database uses for "none".
type NamedEntries []NamedEntry

func (n *NamedEntries) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		*n = nil
		return nil
	}
	var entries []NamedEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return err
	}
	*n = entries
	return nil
}

// Speed holds movement speeds in feet.
type Speed struct {
	Walk   *int `json:"walk,omitempty"`
	Fly    *int `json:"fly,omitempty"`
	Swim   *int `json:"swim,omitempty"`
	Burrow *int `json:"burrow,omitempty"`
	Climb  *int `json:"climb,omitempty"`
}

// CreatureSearchResult is one record returned by the monster database search.
type CreatureSearchResult struct {
	Name        string `json:"name"`
	Description string `json:"desc"`
	Size        string `json:"size"`
	Type        string `json:"type"`
	Subtype     string `json:"subtype"`
	Group       string `json:"group"`
	Alignment   string `json:"alignment"`

	ArmorClass *int   `json:"armor_class"`
	ArmorDesc  string `json:"armor_desc"`
	HitPoints  *int   `json:"hit_points"`
	HitDice    string `json:"hit_dice"`
	Speed      *Speed `json:"speed"`

	Strength     *int `json:"strength"`
	Dexterity    *int `json:"dexterity"`
	Constitution *int `json:"constitution"`
	Intelligence *int `json:"intelligence"`
	Wisdom       *int `json:"wisdom"`
	Charisma     *int `json:"charisma"`

	StrengthSave     *int `json:"strength_save"`
	DexteritySave    *int `json:"dexterity_save"`
	ConstitutionSave *int `json:"constitution_save"`
	IntelligenceSave *int `json:"intelligence_save"`
	WisdomSave       *int `json:"wisdom_save"`
	CharismaSave     *int `json:"charisma_save"`

	Perception            *int           `json:"perception"`
	Skills                map[string]int `json:"skills"`
	DamageVulnerabilities string         `json:"damage_vulnerabilities"`
	DamageResistances     string         `json:"damage_resistances"`
	DamageImmunities      string         `json:"damage_immunities"`
	ConditionImmunities   string         `json:"condition_immunities"`
	Senses                string         `json:"senses"`
	Languages             string         `json:"languages"`
	ChallengeRating       string         `json:"challenge_rating"`

	Actions          NamedEntries `json:"actions"`
	Reactions        NamedEntries `json:"reactions"`
	LegendaryDesc    string       `json:"legendary_desc"`
	LegendaryActions NamedEntries `json:"legendary_actions"`
	SpecialAbilities NamedEntries `json:"special_abilities"`
	SpellList        []string     `json:"spell_list"`

	DocumentSlug  string `json:"document__slug"`
	DocumentTitle string `json:"document__title"`
}
