package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tatianab/wtii/internal/models"
)

var (
	readyColor   = lipgloss.Color("#22C55E")
	waitingColor = lipgloss.Color("#FDE047")
	deadColor    = lipgloss.Color("#EF4444")

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	peekStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	rowStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1C1C1C"))

	altRowStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#262626"))

	focusedRowStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#5F5F87")).
			Bold(true)

	listStyle = lipgloss.NewStyle().
			PaddingRight(1)

	infoStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(1)

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(deadColor)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500"))

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3C3C3C"))
)

func (m model) View() string {
	title := titleStyle.Render("Who's Turn Is It?")
	if m.roster.Peeking() {
		title += " " + peekStyle.Render("(peeking)")
	}

	left := m.renderList()
	right := infoStyle.Height(m.paneHeight()).Render(m.viewport.View())
	if m.state == stateResults && len(m.results) > 0 {
		left = m.renderResults()
		right = infoStyle.Height(m.paneHeight()).Render(renderPreview(m.results[m.resultCursor], m.infoWidth()))
	}
	main := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	lines := []string{title, main}
	if m.state == statePrompt {
		lines = append(lines, promptLabels[m.prompt]+" "+m.textInput.View())
	}
	lines = append(lines, m.renderStatus(), m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m model) renderList() string {
	style := listStyle.Width(m.listWidth()).Height(m.paneHeight())
	combatants := m.roster.Combatants()
	if len(combatants) == 0 {
		return style.Render(helpStyle.Render(fmt.Sprintf(
			"No combatants. Press %s to search or %s to add a player.",
			m.keys.Search.Help().Key, m.keys.InsertPlayer.Help().Key,
		)))
	}

	sel, hasSel := m.roster.Selected()
	rows := make([]string, 0, len(combatants))
	for i, c := range combatants {
		rows = append(rows, renderRow(c, i, hasSel && i == sel, m.listWidth()-1))
	}
	return style.Render(strings.Join(rows, "\n"))
}

// renderRow draws one roster line: green with a check once initiative is
// set, yellow while it is missing, red with an X when dead.
func renderRow(c *models.Combatant, i int, focused bool, width int) string {
	marker := "  "
	if focused {
		marker = "> "
	}

	initiative := " --"
	if c.Initiative != nil {
		initiative = fmt.Sprintf("%3d", *c.Initiative)
	}

	glyph, color := "·", waitingColor
	switch {
	case c.Status == models.StatusDead:
		glyph, color = "X", deadColor
	case c.HasInitiative():
		glyph, color = "✓", readyColor
	}

	style := rowStyle
	if i%2 == 1 {
		style = altRowStyle
	}
	if focused {
		style = focusedRowStyle
	}
	return style.Width(width).MaxWidth(width).Foreground(color).
		Render(fmt.Sprintf("%s%s %s %s", marker, initiative, glyph, c.Name))
}

func (m model) renderResults() string {
	style := listStyle.Width(m.listWidth()).Height(m.paneHeight())
	rows := []string{headingStyle.Render(fmt.Sprintf("Results for %q", m.searchQuery))}
	for i, r := range m.results {
		s := rowStyle
		if i%2 == 1 {
			s = altRowStyle
		}
		marker := "  "
		if i == m.resultCursor {
			s = focusedRowStyle
			marker = "> "
		}
		label := r.Name
		if r.ChallengeRating != "" {
			label += " (CR " + r.ChallengeRating + ")"
		}
		rows = append(rows, s.Width(m.listWidth()-1).MaxWidth(m.listWidth()-1).Render(marker+label))
	}
	rows = append(rows, helpStyle.Render("enter to add, esc to dismiss"))
	return style.Render(strings.Join(rows, "\n"))
}

func (m model) renderStatus() string {
	var parts []string
	if m.searching {
		parts = append(parts, m.spinner.View()+fmt.Sprintf(" searching for %q", m.searchQuery))
	}
	if m.narrating {
		parts = append(parts, m.spinner.View()+" narrating")
	}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, errorStyle.Render(m.status))
		} else {
			parts = append(parts, labelStyle.Render(m.status))
		}
	}
	return strings.Join(parts, "  ")
}

// renderInfo is the stat block for the focused combatant. delta is the
// pending health change shown next to the hit points.
func renderInfo(c *models.Combatant, delta, width int) string {
	if c == nil {
		return helpStyle.Render("Nobody is focused.")
	}

	var b strings.Builder
	text := lipgloss.NewStyle().Width(width - 2)

	initiative := "--"
	if c.Initiative != nil {
		initiative = fmt.Sprint(*c.Initiative)
	}
	fmt.Fprintf(&b, "%s %s %s\n", headingStyle.Render(initiative), headingStyle.Render(c.Name), labelStyle.Render("("+c.Faction.String()+")"))

	hp := fmt.Sprintf("%d/%d", c.CurrentHealth, c.MaxHealth)
	if delta != 0 {
		hp += fmt.Sprintf(" (%+d)", delta)
	}
	line := labelStyle.Render("HP ") + hp
	if c.ArmorClass != nil {
		line += "   " + labelStyle.Render("AC ") + fmt.Sprint(*c.ArmorClass)
		if c.Combat.ArmorDesc != "" {
			line += " (" + c.Combat.ArmorDesc + ")"
		}
	}
	if c.Combat.HitDice != "" {
		line += "   " + labelStyle.Render("HD ") + c.Combat.HitDice
	}
	b.WriteString(line + "\n")

	if kind := creatureKind(c.Combat); kind != "" {
		b.WriteString(labelStyle.Render(kind) + "\n")
	}
	if c.Description != "" {
		b.WriteString("\n" + text.Render(c.Description) + "\n")
	}

	if speed := formatSpeed(c.Combat.Speed); speed != "" {
		b.WriteString("\n" + field("Speed", speed))
	}
	if hasAbilities(c.Abilities) {
		b.WriteString("\n" + abilityTable(c.Abilities) + "\n")
	}

	if c.Combat.Perception != nil {
		b.WriteString(field("Perception", fmt.Sprintf("%+d", *c.Combat.Perception)))
	}
	b.WriteString(field("Skills", formatSkills(c.Combat.Skills)))
	b.WriteString(field("Vulnerabilities", c.Combat.DamageVulnerabilities))
	b.WriteString(field("Resistances", c.Combat.DamageResistances))
	b.WriteString(field("Immunities", c.Combat.DamageImmunities))
	b.WriteString(field("Condition immunities", c.Combat.ConditionImmunities))
	b.WriteString(field("Senses", c.Combat.Senses))
	b.WriteString(field("Languages", c.Combat.Languages))
	b.WriteString(field("CR", c.Combat.ChallengeRating))

	b.WriteString(entries("Special abilities", c.Combat.SpecialAbilities, text))
	b.WriteString(entries("Actions", c.Combat.Actions, text))
	b.WriteString(entries("Reactions", c.Combat.Reactions, text))
	if c.Combat.LegendaryDesc != "" || len(c.Combat.LegendaryActions) > 0 {
		b.WriteString("\n" + headingStyle.Render("Legendary actions") + "\n")
		if c.Combat.LegendaryDesc != "" {
			b.WriteString(text.Render(c.Combat.LegendaryDesc) + "\n")
		}
		b.WriteString(entries("", c.Combat.LegendaryActions, text))
	}
	if len(c.Combat.SpellList) > 0 {
		b.WriteString("\n" + field("Spells", strings.Join(c.Combat.SpellList, ", ")))
	}
	if c.Combat.Source != "" {
		b.WriteString("\n" + helpStyle.Render("Source: "+c.Combat.Source))
	}

	return strings.TrimRight(b.String(), "\n")
}

// renderPreview summarises a search result before it is added.
func renderPreview(r *models.CreatureSearchResult, width int) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(r.Name) + "\n")
	kind := strings.TrimSpace(r.Size + " " + r.Type)
	if kind != "" {
		b.WriteString(labelStyle.Render(kind) + "\n")
	}
	if r.HitPoints != nil {
		b.WriteString(field("HP", fmt.Sprint(*r.HitPoints)))
	} else {
		b.WriteString(errorStyle.Render("no hit points listed") + "\n")
	}
	if r.ArmorClass != nil {
		b.WriteString(field("AC", fmt.Sprint(*r.ArmorClass)))
	}
	b.WriteString(field("CR", r.ChallengeRating))
	b.WriteString(field("Source", r.DocumentTitle))
	if r.Description != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Width(width-2).Render(r.Description))
	}
	return strings.TrimRight(b.String(), "\n")
}

func creatureKind(t models.CombatText) string {
	kind := strings.TrimSpace(t.Size + " " + t.CreatureType)
	if t.Subtype != "" {
		kind += " (" + t.Subtype + ")"
	}
	if t.Alignment != "" {
		if kind != "" {
			kind += ", "
		}
		kind += t.Alignment
	}
	return kind
}

func field(label, value string) string {
	if value == "" {
		return ""
	}
	return labelStyle.Render(label+": ") + value + "\n"
}

func entries(heading string, list []models.NamedEntry, text lipgloss.Style) string {
	if len(list) == 0 {
		return ""
	}
	var b strings.Builder
	if heading != "" {
		b.WriteString("\n" + headingStyle.Render(heading) + "\n")
	}
	for _, e := range list {
		name := lipgloss.NewStyle().Bold(true).Render(e.Name + ".")
		extra := ""
		if e.AttackBonus != nil {
			extra += fmt.Sprintf(" [%+d to hit", *e.AttackBonus)
			if e.DamageDice != "" {
				extra += ", " + e.DamageDice
			}
			extra += "]"
		} else if e.DamageDice != "" {
			extra += " [" + e.DamageDice + "]"
		}
		b.WriteString(text.Render(name+" "+e.Description+extra) + "\n")
	}
	return b.String()
}

func formatSpeed(s *models.Speed) string {
	if s == nil {
		return ""
	}
	var parts []string
	add := func(mode string, v *int) {
		if v != nil {
			parts = append(parts, fmt.Sprintf("%s %d ft.", mode, *v))
		}
	}
	add("walk", s.Walk)
	add("fly", s.Fly)
	add("swim", s.Swim)
	add("climb", s.Climb)
	add("burrow", s.Burrow)
	return strings.Join(parts, ", ")
}

func formatSkills(skills map[string]int) string {
	if len(skills) == 0 {
		return ""
	}
	names := make([]string, 0, len(skills))
	for name := range skills {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s %+d", name, skills[name]))
	}
	return strings.Join(parts, ", ")
}

func hasAbilities(a models.AbilityScores) bool {
	for _, ab := range abilityList(a) {
		if ab.Score != nil || ab.Save != nil {
			return true
		}
	}
	return false
}

func abilityList(a models.AbilityScores) []models.Ability {
	return []models.Ability{a.Strength, a.Dexterity, a.Constitution, a.Intelligence, a.Wisdom, a.Charisma}
}

// abilityTable renders scores with their modifiers and, below, the saving
// throw bonuses. Missing values show as a dash.
func abilityTable(a models.AbilityScores) string {
	scores := make([]string, 0, 6)
	saves := make([]string, 0, 6)
	for _, ab := range abilityList(a) {
		if ab.Score != nil {
			scores = append(scores, fmt.Sprintf("%d (%+d)", *ab.Score, models.AbilityModifier(ab.Score)))
		} else {
			scores = append(scores, "-")
		}
		if ab.Save != nil {
			saves = append(saves, fmt.Sprintf("%+d", *ab.Save))
		} else {
			saves = append(saves, "-")
		}
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		BorderHeader(true).
		BorderRow(false).
		Headers("STR", "DEX", "CON", "INT", "WIS", "CHA").
		Rows(scores, saves).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headingStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}
