package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tatianab/wtii/internal/config"
	wtiierrors "github.com/tatianab/wtii/internal/errors"
	"github.com/tatianab/wtii/internal/models"
	"github.com/tatianab/wtii/internal/roster"
	"github.com/tatianab/wtii/internal/search"
)

// Searcher runs monster searches off the render loop.
type Searcher interface {
	Issue(ctx context.Context, query string) search.Ticket
	Accept(res search.Result) bool
}

// Describer writes flavour text for a combatant.
type Describer interface {
	Describe(ctx context.Context, c *models.Combatant) (string, error)
}

// PartySaver persists the player part of the roster.
type PartySaver interface {
	SaveParty(seeds []models.Seed) error
}

// Options wires the interface to the roster and its collaborators. Search,
// Narrator and Party may be nil, which disables the matching commands.
type Options struct {
	Context  context.Context
	Roster   *roster.Roster
	Search   Searcher
	Narrator Describer
	Party    PartySaver
	Roller   dice.Roller
	Keys     config.KeyBindings
	Logger   *zap.Logger
}

type sessionState int

const (
	stateRoster sessionState = iota
	statePrompt
	stateResults
)

type promptKind int

const (
	promptSearch promptKind = iota
	promptInitiative
	promptPlayer
	promptDescription
)

var promptLabels = map[promptKind]string{
	promptSearch:      "Search monsters:",
	promptInitiative:  "Initiative:",
	promptPlayer:      "Player name:",
	promptDescription: "Description:",
}

type model struct {
	state  sessionState
	prompt promptKind
	// target is the ID of the combatant an open prompt edits.
	target string

	ctx      context.Context
	roster   *roster.Roster
	searcher Searcher
	narrator Describer
	party    PartySaver
	roller   dice.Roller
	logger   *zap.Logger

	keys      keyMap
	help      help.Model
	textInput textinput.Model
	viewport  viewport.Model
	spinner   spinner.Model

	searching    bool
	searchQuery  string
	results      []*models.CreatureSearchResult
	resultsReady bool
	resultCursor int
	narrating    bool

	status    string
	statusErr bool
	infoFor   string
	width     int
	height    int
}

type searchResultMsg struct {
	result search.Result
}

type narrationMsg struct {
	combatantID string
	name        string
	text        string
	err         error
}

func NewModel(opts Options) model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Roller == nil {
		opts.Roller = dice.DefaultRoller
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Keys == (config.KeyBindings{}) {
		opts.Keys = config.DefaultKeyBindings()
	}

	ti := textinput.New()
	ti.CharLimit = 156
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	m := model{
		state:     stateRoster,
		ctx:       opts.Context,
		roster:    opts.Roster,
		searcher:  opts.Search,
		narrator:  opts.Narrator,
		party:     opts.Party,
		roller:    opts.Roller,
		logger:    opts.Logger,
		keys:      newKeyMap(opts.Keys),
		help:      help.New(),
		textInput: ti,
		spinner:   sp,
		width:     80,
		height:    24,
	}
	m.viewport = viewport.New(m.infoWidth(), m.paneHeight())
	m.refreshInfo()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.SetWindowTitle("wtii")
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.refreshInfo()
	return next, cmd
}

func (m model) update(msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.state {
		case statePrompt:
			return m.updatePrompt(msg)
		case stateResults:
			return m.updateResults(msg)
		default:
			return m.updateRoster(msg)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = m.infoWidth()
		m.viewport.Height = m.paneHeight()
		m.help.Width = msg.Width
		m.infoFor = ""
		return m, nil

	case searchResultMsg:
		return m.receiveResults(msg.result), nil

	case narrationMsg:
		return m.receiveNarration(msg), nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state == statePrompt {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateRoster(msg tea.KeyMsg) (model, tea.Cmd) {
	r := m.roster
	sel, hasSel := r.Selected()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.NewEncounter):
		if err := r.Reset(); err != nil {
			m.fail("could not load party", err)
		} else {
			m.note(fmt.Sprintf("new encounter with %d players", r.Len()))
		}

	case key.Matches(msg, m.keys.Next):
		r.AdvanceFocus(roster.Forward)
	case key.Matches(msg, m.keys.Prev):
		r.AdvanceFocus(roster.Backward)
	case key.Matches(msg, m.keys.PeekNext):
		r.Peek(roster.Forward)
	case key.Matches(msg, m.keys.PeekPrev):
		r.Peek(roster.Backward)
	case key.Matches(msg, m.keys.Unselect):
		r.Unselect()

	case key.Matches(msg, m.keys.LowerHealth):
		if hasSel {
			r.ApplyHealthChange(sel, -1)
		}
	case key.Matches(msg, m.keys.RaiseHealth):
		if hasSel {
			r.ApplyHealthChange(sel, 1)
		}

	case key.Matches(msg, m.keys.SetInitiative):
		if c := r.Focused(); c != nil {
			value := ""
			if c.Initiative != nil {
				value = strconv.Itoa(*c.Initiative)
			}
			return m.openPrompt(promptInitiative, value)
		}
	case key.Matches(msg, m.keys.SetDescription):
		if c := r.Focused(); c != nil {
			return m.openPrompt(promptDescription, c.Description)
		}
	case key.Matches(msg, m.keys.Search):
		if m.searcher == nil {
			m.note("search is unavailable")
			break
		}
		return m.openPrompt(promptSearch, m.searchQuery)
	case key.Matches(msg, m.keys.InsertPlayer):
		return m.openPrompt(promptPlayer, "")

	case key.Matches(msg, m.keys.Delete):
		if c := r.Focused(); c != nil {
			r.Remove(sel)
			m.note("removed " + c.Name)
		}
	case key.Matches(msg, m.keys.Duplicate):
		if hasSel {
			if err := r.Duplicate(sel); err != nil {
				m.fail("could not duplicate", err)
			}
		}

	case key.Matches(msg, m.keys.Narrate):
		return m.narrate()
	case key.Matches(msg, m.keys.SaveParty):
		m.saveParty()

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height)
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height)
	}
	return m, nil
}

func (m model) openPrompt(kind promptKind, value string) (model, tea.Cmd) {
	m.state = statePrompt
	m.prompt = kind
	m.target = ""
	if c := m.roster.Focused(); c != nil {
		m.target = c.ID
	}
	m.textInput.Reset()
	m.textInput.SetValue(value)
	return m, m.textInput.Focus()
}

func (m model) closePrompt() model {
	m.textInput.Blur()
	m.textInput.Reset()
	m.state = stateRoster
	if m.resultsReady {
		m.resultsReady = false
		m.state = stateResults
	}
	return m
}

func (m model) updatePrompt(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		return m.closePrompt(), nil
	case key.Matches(msg, m.keys.Confirm):
		value := strings.TrimSpace(m.textInput.Value())
		kind, target := m.prompt, m.target
		return m.closePrompt().submit(kind, target, value)
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m model) submit(kind promptKind, target, value string) (model, tea.Cmd) {
	switch kind {
	case promptSearch:
		if value == "" {
			return m, nil
		}
		return m.startSearch(value)

	case promptPlayer:
		if value == "" {
			m.note("a player needs a name")
			return m, nil
		}
		m.roster.Insert(models.NewPlayer(value, ""))
		m.note("added " + value)

	case promptInitiative:
		i, ok := m.roster.IndexOf(target)
		if !ok || value == "" {
			return m, nil
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			m.fail(fmt.Sprintf("initiative %q is not a whole number", value), nil)
			return m, nil
		}
		m.roster.SetInitiative(i, v)

	case promptDescription:
		if i, ok := m.roster.IndexOf(target); ok {
			m.roster.SetDescription(i, value)
		}
	}
	return m, nil
}

func (m model) startSearch(query string) (model, tea.Cmd) {
	tick := !m.busy()

	ticket := m.searcher.Issue(m.ctx, query)
	m.searching = true
	m.searchQuery = query
	m.results = nil
	m.resultsReady = false
	m.state = stateRoster
	m.logger.Debug("search issued", zap.Uint64("seq", ticket.Seq), zap.String("query", query))

	cmd := waitForSearch(ticket)
	if tick {
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

// waitForSearch blocks a Cmd goroutine, not the render loop, until the
// ticket delivers.
func waitForSearch(t search.Ticket) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-t.C
		if !ok {
			return nil
		}
		return searchResultMsg{result: res}
	}
}

func (m model) receiveResults(res search.Result) model {
	if m.searcher == nil || !m.searcher.Accept(res) {
		return m
	}
	m.searching = false

	if res.Err != nil {
		m.fail(fmt.Sprintf("search for %q failed", res.Query), res.Err)
		return m
	}
	if len(res.Creatures) == 0 {
		m.note(fmt.Sprintf("no creatures match %q", res.Query))
		return m
	}

	m.results = res.Creatures
	m.resultCursor = 0
	if m.state == stateRoster {
		m.state = stateResults
	} else {
		m.resultsReady = true
	}
	m.note(fmt.Sprintf("%d results for %q", len(res.Creatures), res.Query))
	return m
}

func (m model) updateResults(msg tea.KeyMsg) (model, tea.Cmd) {
	n := len(m.results)
	if n == 0 {
		m.state = stateRoster
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.results = nil
		m.state = stateRoster
	case key.Matches(msg, m.keys.Next):
		m.resultCursor = (m.resultCursor + 1) % n
	case key.Matches(msg, m.keys.Prev):
		m.resultCursor = (m.resultCursor - 1 + n) % n
	case key.Matches(msg, m.keys.Confirm):
		return m.insertResult(), nil
	}
	return m, nil
}

func (m model) insertResult() model {
	res := m.results[m.resultCursor]
	c, err := models.NewCreature(res, m.roller)
	if err != nil {
		// stay in the picker so another result can be chosen
		m.fail("cannot add "+res.Name, err)
		return m
	}

	m.roster.Insert(c)
	m.results = nil
	m.state = stateRoster
	m.note(fmt.Sprintf("added %s (initiative %d)", c.Name, *c.Initiative))
	return m
}

func (m model) narrate() (model, tea.Cmd) {
	if m.narrator == nil {
		m.note("narration is disabled, set GEMINI_API_KEY to enable it")
		return m, nil
	}
	c := m.roster.Focused()
	if c == nil || m.narrating {
		return m, nil
	}

	tick := !m.busy()
	m.narrating = true
	cmd := describe(m.ctx, m.narrator, c.ID, c.Clone())
	if tick {
		cmd = tea.Batch(cmd, m.spinner.Tick)
	}
	return m, cmd
}

// describe runs against a snapshot so the roster can keep changing while
// the request is out.
func describe(ctx context.Context, d Describer, id string, snapshot *models.Combatant) tea.Cmd {
	return func() tea.Msg {
		text, err := d.Describe(ctx, snapshot)
		return narrationMsg{combatantID: id, name: snapshot.Name, text: text, err: err}
	}
}

func (m model) receiveNarration(msg narrationMsg) model {
	m.narrating = false
	if msg.err != nil {
		m.fail("could not narrate "+msg.name, msg.err)
		return m
	}
	i, ok := m.roster.IndexOf(msg.combatantID)
	if !ok {
		m.note(msg.name + " left the encounter before the narration arrived")
		return m
	}
	m.roster.SetDescription(i, msg.text)
	m.note("narrated " + msg.name)
	return m
}

func (m *model) saveParty() {
	if m.party == nil {
		m.note("no party file configured")
		return
	}
	seeds := models.SeedsFrom(m.roster.Combatants())
	if err := m.party.SaveParty(seeds); err != nil {
		m.fail("could not save party", err)
		return
	}
	m.note(fmt.Sprintf("saved %d players", len(seeds)))
}

func (m model) busy() bool {
	return m.searching || m.narrating
}

func (m *model) note(s string) {
	m.status = s
	m.statusErr = false
}

func (m *model) fail(s string, err error) {
	m.statusErr = true
	if err == nil {
		m.status = s
		m.logger.Info(s)
		return
	}
	m.status = s + ": " + err.Error()
	m.logger.Warn(s, zap.Error(err), zap.String("code", string(wtiierrors.GetCode(err))))
}

// refreshInfo re-renders the info pane for the focused combatant and
// scrolls back to the top when the focus moved to someone else.
func (m *model) refreshInfo() {
	c := m.roster.Focused()
	id := ""
	if c != nil {
		id = c.ID
	}

	delta := 0
	if d, ok := m.roster.HealthDelta(); ok && d.CombatantID == id {
		delta = d.Amount
	}

	m.viewport.SetContent(renderInfo(c, delta, m.infoWidth()))
	if id != m.infoFor {
		m.viewport.GotoTop()
		m.infoFor = id
	}
}

func (m model) listWidth() int {
	return max(24, int(float64(m.width)*0.35))
}

func (m model) infoWidth() int {
	return max(20, m.width-m.listWidth()-3)
}

// paneHeight leaves room for the title, prompt, status and help lines.
func (m model) paneHeight() int {
	return max(5, m.height-6)
}

func Run(opts Options) error {
	p := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
