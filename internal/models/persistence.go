package models

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Seed is a saved party member used to populate a new encounter.
type Seed struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Party is the on-disk layout of the party file.
type Party struct {
	Members []Seed `yaml:"party"`
}

// PartyStore reads and writes the default party as YAML.
type PartyStore struct {
	Path string
}

// LoadParty returns the saved party. A missing file is an empty party.
func (s *PartyStore) LoadParty() ([]Seed, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var party Party
	if err := yaml.Unmarshal(data, &party); err != nil {
		return nil, err
	}

	seeds := party.Members[:0]
	for _, m := range party.Members {
		if m.Name != "" {
			seeds = append(seeds, m)
		}
	}
	return seeds, nil
}

// SaveParty replaces the party file with seeds.
func (s *PartyStore) SaveParty(seeds []Seed) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(Party{Members: seeds})
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0644)
}

// SeedsFrom extracts the player combatants of an encounter as seeds, in order.
func SeedsFrom(combatants []*Combatant) []Seed {
	var seeds []Seed
	for _, c := range combatants {
		if c.Faction == FactionPlayer {
			seeds = append(seeds, Seed{Name: c.Name, Description: c.Description})
		}
	}
	return seeds
}
