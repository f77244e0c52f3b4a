package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartyStore_RoundTrip(t *testing.T) {
	store := &PartyStore{Path: filepath.Join(t.TempDir(), "nested", "party.yaml")}
	seeds := []Seed{
		{Name: "Samson", Description: "A real bastard."},
		{Name: "Thaurun", Description: "Very nice guy!"},
		{Name: "Borbur"},
	}

	require.NoError(t, store.SaveParty(seeds))

	loaded, err := store.LoadParty()
	require.NoError(t, err)
	assert.Equal(t, seeds, loaded)
}

func TestPartyStore_MissingFileIsEmpty(t *testing.T) {
	store := &PartyStore{Path: filepath.Join(t.TempDir(), "absent.yaml")}

	seeds, err := store.LoadParty()
	require.NoError(t, err)
	assert.Empty(t, seeds)
}

func TestPartyStore_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "party.yaml")
	require.NoError(t, os.WriteFile(path, []byte("party: [name: :"), 0644))

	_, err := (&PartyStore{Path: path}).LoadParty()
	assert.Error(t, err)
}

func TestPartyStore_SkipsUnnamedMembers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "party.yaml")
	content := "party:\n  - name: Borbur\n    description: A king.\n  - description: nobody\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	seeds, err := (&PartyStore{Path: path}).LoadParty()
	require.NoError(t, err)
	assert.Equal(t, []Seed{{Name: "Borbur", Description: "A king."}}, seeds)
}

func TestSeedsFrom(t *testing.T) {
	goblin, err := NewCreature(&CreatureSearchResult{Name: "Goblin", HitPoints: intPtr(7)}, fixedRoller{value: 3})
	require.NoError(t, err)

	combatants := []*Combatant{
		NewPlayer("Samson", "A real bastard."),
		goblin,
		NewPlayer("Borbur", ""),
	}

	assert.Equal(t, []Seed{
		{Name: "Samson", Description: "A real bastard."},
		{Name: "Borbur"},
	}, SeedsFrom(combatants))
}
