package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/tatianab/wtii/internal/models"
	open5emock "github.com/tatianab/wtii/internal/open5e/mock"
	"github.com/tatianab/wtii/internal/roster"
	"github.com/tatianab/wtii/internal/search"
)

type fixedRoller struct{ value int }

func (f fixedRoller) Roll(_ int) (int, error) { return f.value, nil }
func (f fixedRoller) RollN(count, _ int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		out[i] = f.value
	}
	return out, nil
}

type party []models.Seed

func (p party) LoadParty() ([]models.Seed, error) { return p, nil }

// fakeSearcher hands out tickets whose results the test delivers by hand.
type fakeSearcher struct {
	latest  uint64
	queries []string
}

func (f *fakeSearcher) Issue(_ context.Context, query string) search.Ticket {
	f.latest++
	f.queries = append(f.queries, query)
	return search.Ticket{Seq: f.latest, Query: query, C: make(chan search.Result, 1)}
}

func (f *fakeSearcher) Accept(res search.Result) bool { return res.Seq == f.latest }

type fakeDescriber struct {
	text string
	err  error
}

func (f fakeDescriber) Describe(context.Context, *models.Combatant) (string, error) {
	return f.text, f.err
}

type recordingParty struct {
	saved []models.Seed
	err   error
}

func (r *recordingParty) SaveParty(seeds []models.Seed) error {
	r.saved = seeds
	return r.err
}

func intPtr(v int) *int { return &v }

func newTestModel(t *testing.T, opts Options) model {
	t.Helper()
	if opts.Roster == nil {
		r, err := roster.New(party{{Name: "Aria"}, {Name: "Borbur"}}, fixedRoller{value: 10})
		require.NoError(t, err)
		opts.Roster = r
	}
	if opts.Roller == nil {
		opts.Roller = fixedRoller{value: 10}
	}
	return NewModel(opts)
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func send(m model, msg tea.Msg) (model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func press(m model, keys ...string) model {
	for _, k := range keys {
		m, _ = send(m, keyMsg(k))
	}
	return m
}

func typeText(m model, text string) model {
	for _, r := range text {
		m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// drain runs cmd and any commands it batches, collecting their messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func names(r *roster.Roster) []string {
	var out []string
	for _, c := range r.Combatants() {
		out = append(out, c.Name)
	}
	return out
}

func TestNavigation(t *testing.T) {
	m := newTestModel(t, Options{})

	_, ok := m.roster.Selected()
	assert.False(t, ok)

	m = press(m, "j")
	assert.Equal(t, "Aria", m.roster.Focused().Name)

	m = press(m, "down")
	assert.Equal(t, "Borbur", m.roster.Focused().Name)

	m = press(m, "j")
	assert.Equal(t, "Aria", m.roster.Focused().Name, "focus wraps")

	m = press(m, "up", "k")
	assert.Equal(t, "Aria", m.roster.Focused().Name)

	m = press(m, "u")
	_, ok = m.roster.Selected()
	assert.False(t, ok)
}

func TestPeekShowsIndicator(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "j", "J")

	assert.True(t, m.roster.Peeking())
	assert.Contains(t, m.View(), "(peeking)")

	m = press(m, "j")
	assert.False(t, m.roster.Peeking())
	assert.Equal(t, "Borbur", m.roster.Focused().Name)
}

func TestHealthKeys(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "j", "h")

	aria := m.roster.Focused()
	assert.Equal(t, 0, aria.CurrentHealth)
	assert.Equal(t, models.StatusDead, aria.Status)

	d, ok := m.roster.HealthDelta()
	require.True(t, ok)
	assert.Equal(t, -1, d.Amount)
	assert.Contains(t, m.View(), "0/1 (-1)")

	m = press(m, "right")
	assert.Equal(t, 1, m.roster.Focused().CurrentHealth)
	assert.Equal(t, models.StatusAlive, m.roster.Focused().Status)
}

func TestSetInitiativePrompt(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "j", "i")
	require.Equal(t, statePrompt, m.state)

	m = typeText(m, "15")
	m = press(m, "enter")

	assert.Equal(t, stateRoster, m.state)
	assert.Equal(t, []string{"Borbur", "Aria"}, names(m.roster))
	assert.Equal(t, "Aria", m.roster.Focused().Name, "focus follows the re-sorted combatant")
	assert.Equal(t, 15, *m.roster.Focused().Initiative)
}

func TestSetInitiativeRejectsNonNumbers(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "j", "i")
	m = typeText(m, "fast")
	m = press(m, "enter")

	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "not a whole number")
	assert.Nil(t, m.roster.Focused().Initiative)
}

func TestInsertPlayer(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "c")
	m = typeText(m, "Zed")
	m = press(m, "enter")

	assert.Equal(t, []string{"Zed", "Aria", "Borbur"}, names(m.roster))
	assert.Equal(t, models.FactionPlayer, m.roster.Combatants()[0].Faction)
}

func TestPromptCancel(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "c")
	m = typeText(m, "Zed")
	m = press(m, "esc")

	assert.Equal(t, stateRoster, m.state)
	assert.Equal(t, 2, m.roster.Len())
	assert.Empty(t, m.textInput.Value())
}

func TestSetDescription(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "j", "d")
	m = typeText(m, "Elf ranger")
	m = press(m, "enter")

	assert.Equal(t, "Elf ranger", m.roster.Focused().Description)
}

func TestDeleteAndDuplicate(t *testing.T) {
	m := newTestModel(t, Options{})

	m = press(m, "j", "x")
	require.Equal(t, 3, m.roster.Len())
	focused := m.roster.Focused()
	assert.Equal(t, "Aria", focused.Name)
	// 10 rolled, missing dexterity counts as 0
	assert.Equal(t, 5, *focused.Initiative)

	m = press(m, "D")
	assert.Equal(t, []string{"Aria", "Borbur"}, names(m.roster))
	assert.Equal(t, "removed Aria", m.status)
}

func TestNewEncounterResets(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "c")
	m = typeText(m, "Zed")
	m = press(m, "enter", "e")

	assert.Equal(t, []string{"Aria", "Borbur"}, names(m.roster))
	assert.Equal(t, "new encounter with 2 players", m.status)
}

func TestSearchThroughDispatcher(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := open5emock.NewMockClient(ctrl)
	orc := &models.CreatureSearchResult{Name: "Orc", HitPoints: intPtr(15), Dexterity: intPtr(12)}
	client.EXPECT().SearchMonsters(gomock.Any(), "orc").Return([]*models.CreatureSearchResult{orc}, nil)

	m := newTestModel(t, Options{Search: search.NewDispatcher(client, nil)})
	m = press(m, "s")
	m = typeText(m, "orc")
	m, cmd := send(m, keyMsg("enter"))
	require.True(t, m.searching)
	assert.Contains(t, m.View(), `searching for "orc"`)

	var delivered bool
	for _, msg := range drain(cmd) {
		if res, ok := msg.(searchResultMsg); ok {
			m, _ = send(m, res)
			delivered = true
		}
	}
	require.True(t, delivered)
	require.Equal(t, stateResults, m.state)
	assert.False(t, m.searching)

	m = press(m, "enter")
	assert.Equal(t, stateRoster, m.state)
	assert.Equal(t, []string{"Aria", "Borbur", "Orc"}, names(m.roster))
	assert.Equal(t, "added Orc (initiative 11)", m.status)
}

func TestSearchDiscardsSupersededResults(t *testing.T) {
	s := &fakeSearcher{}
	m := newTestModel(t, Options{Search: s})

	m = press(m, "s")
	m = typeText(m, "gob")
	m = press(m, "enter", "s")
	m = typeText(m, "lin")
	m = press(m, "enter")
	require.Equal(t, []string{"gob", "goblin"}, s.queries, "the prompt reopens with the last query")

	m, _ = send(m, searchResultMsg{result: search.Result{Seq: 1, Query: "gob", Creatures: []*models.CreatureSearchResult{{Name: "Gob"}}}})
	assert.Equal(t, stateRoster, m.state)
	assert.True(t, m.searching, "stale result leaves the newer search pending")

	m, _ = send(m, searchResultMsg{result: search.Result{Seq: 2, Query: "goblin", Creatures: []*models.CreatureSearchResult{{Name: "Goblin"}}}})
	assert.Equal(t, stateResults, m.state)
	assert.Equal(t, "Goblin", m.results[0].Name)
}

func TestSearchResultsWaitForOpenPrompt(t *testing.T) {
	s := &fakeSearcher{}
	m := newTestModel(t, Options{Search: s})
	m = press(m, "s")
	m = typeText(m, "orc")
	m = press(m, "enter", "c")
	require.Equal(t, statePrompt, m.state)

	m, _ = send(m, searchResultMsg{result: search.Result{Seq: 1, Query: "orc", Creatures: []*models.CreatureSearchResult{{Name: "Orc"}}}})
	assert.Equal(t, statePrompt, m.state)

	m = press(m, "esc")
	assert.Equal(t, stateResults, m.state)
}

func TestSearchFailureAndEmpty(t *testing.T) {
	s := &fakeSearcher{}
	m := newTestModel(t, Options{Search: s})

	m = press(m, "s")
	m = typeText(m, "orc")
	m = press(m, "enter")
	m, _ = send(m, searchResultMsg{result: search.Result{Seq: 1, Query: "orc", Err: errors.New("offline")}})
	assert.True(t, m.statusErr)
	assert.Equal(t, `search for "orc" failed: offline`, m.status)

	m = press(m, "s", "enter")
	m, _ = send(m, searchResultMsg{result: search.Result{Seq: 2, Query: "orc"}})
	assert.Equal(t, stateRoster, m.state)
	assert.Equal(t, `no creatures match "orc"`, m.status)
}

func TestResultsPicker(t *testing.T) {
	s := &fakeSearcher{}
	m := newTestModel(t, Options{Search: s})
	m = press(m, "s")
	m = typeText(m, "o")
	m = press(m, "enter")

	results := []*models.CreatureSearchResult{
		{Name: "Ghost"},
		{Name: "Ogre", HitPoints: intPtr(59), Dexterity: intPtr(8)},
	}
	m, _ = send(m, searchResultMsg{result: search.Result{Seq: 1, Query: "o", Creatures: results}})
	require.Equal(t, stateResults, m.state)
	assert.Contains(t, m.View(), "no hit points listed")

	m = press(m, "enter")
	assert.Equal(t, stateResults, m.state, "picker stays open after a bad result")
	assert.True(t, m.statusErr)
	assert.Contains(t, m.status, "cannot add Ghost")
	assert.Equal(t, 2, m.roster.Len())

	m = press(m, "j", "enter")
	assert.Equal(t, stateRoster, m.state)
	ogre := m.roster.Combatants()[2]
	assert.Equal(t, "Ogre", ogre.Name)
	assert.Equal(t, 9, *ogre.Initiative)

	m = press(m, "s", "enter")
	m, _ = send(m, searchResultMsg{result: search.Result{Seq: 2, Query: "o", Creatures: results}})
	m = press(m, "esc")
	assert.Equal(t, stateRoster, m.state)
	assert.Nil(t, m.results)
}

func TestNarration(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		m := newTestModel(t, Options{})
		m = press(m, "j", "g")
		assert.Contains(t, m.status, "narration is disabled")
	})

	t.Run("sets description", func(t *testing.T) {
		m := newTestModel(t, Options{Narrator: fakeDescriber{text: "A wiry half-elf."}})
		m, cmd := send(press(m, "j"), keyMsg("g"))
		require.True(t, m.narrating)

		for _, msg := range drain(cmd) {
			if n, ok := msg.(narrationMsg); ok {
				m, _ = send(m, n)
			}
		}
		assert.False(t, m.narrating)
		assert.Equal(t, "A wiry half-elf.", m.roster.Focused().Description)
		assert.Equal(t, "narrated Aria", m.status)
	})

	t.Run("failure", func(t *testing.T) {
		m := newTestModel(t, Options{Narrator: fakeDescriber{err: errors.New("quota")}})
		m, cmd := send(press(m, "j"), keyMsg("g"))
		for _, msg := range drain(cmd) {
			if n, ok := msg.(narrationMsg); ok {
				m, _ = send(m, n)
			}
		}
		assert.True(t, m.statusErr)
		assert.Equal(t, "could not narrate Aria: quota", m.status)
		assert.Empty(t, m.roster.Focused().Description)
	})
}

func TestSaveParty(t *testing.T) {
	saver := &recordingParty{}
	m := newTestModel(t, Options{Party: saver})

	goblin := models.NewPlayer("Goblin", "")
	goblin.Faction = models.FactionCreature
	m.roster.Insert(goblin)

	m = press(m, "W")
	assert.Equal(t, []models.Seed{{Name: "Aria"}, {Name: "Borbur"}}, saver.saved)
	assert.Equal(t, "saved 2 players", m.status)

	saver.err = errors.New("read-only")
	m = press(m, "W")
	assert.True(t, m.statusErr)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Options{})
	_, cmd := send(m, keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m = press(m, "c", "q")
	assert.Equal(t, statePrompt, m.state)
	assert.Equal(t, "q", m.textInput.Value(), "q is text inside a prompt")

	_, cmd = send(m, keyMsg("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, Options{})
	m = press(m, "?")
	assert.True(t, m.help.ShowAll)
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t, Options{})
	m, _ = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, m.infoWidth(), m.viewport.Width)
	assert.Equal(t, 34, m.viewport.Height)
}

func TestRenderInfo(t *testing.T) {
	orc := &models.CreatureSearchResult{
		Name:       "Orc",
		Size:       "Medium",
		Type:       "humanoid",
		Subtype:    "orc",
		ArmorClass: intPtr(13),
		ArmorDesc:  "hide armor",
		HitPoints:  intPtr(15),
		Strength:   intPtr(16),
		Dexterity:  intPtr(12),
		Senses:     "darkvision 60 ft.",
		Actions: models.NamedEntries{
			{Name: "Greataxe", Description: "Melee Weapon Attack.", AttackBonus: intPtr(5), DamageDice: "1d12"},
		},
	}
	c, err := models.NewCreature(orc, fixedRoller{value: 10})
	require.NoError(t, err)
	c.ApplyHealthDelta(-3)

	out := renderInfo(c, -3, 80)
	assert.Contains(t, out, "12/15 (-3)")
	assert.Contains(t, out, "hide armor")
	assert.Contains(t, out, "Medium humanoid (orc)")
	assert.Contains(t, out, "STR")
	assert.Contains(t, out, "16 (+3)")
	assert.Contains(t, out, "darkvision 60 ft.")
	assert.Contains(t, out, "[+5 to hit, 1d12]")

	assert.Contains(t, renderInfo(nil, 0, 80), "Nobody is focused")
}

func TestRenderRowMarksStatus(t *testing.T) {
	waiting := models.NewPlayer("Aria", "")
	assert.Contains(t, renderRow(waiting, 0, true, 30), "> ")
	assert.Contains(t, renderRow(waiting, 0, false, 30), "·")

	waiting.SetInitiative(12)
	assert.Contains(t, renderRow(waiting, 1, false, 30), "✓ Aria")

	waiting.ApplyHealthDelta(-1)
	assert.Contains(t, renderRow(waiting, 1, false, 30), "X Aria")
}
