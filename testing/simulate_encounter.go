package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"go.uber.org/zap"

	"github.com/tatianab/wtii/internal/config"
	"github.com/tatianab/wtii/internal/models"
	"github.com/tatianab/wtii/internal/narrator"
	"github.com/tatianab/wtii/internal/open5e"
	"github.com/tatianab/wtii/internal/roster"
	"github.com/tatianab/wtii/internal/search"
)

const maxRounds = 10

func main() {
	monsters := flag.String("monsters", "goblin,wolf,orc", "comma separated monster searches")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.Load("")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, _ := zap.NewDevelopment()
	defer logger.Sync() //nolint:errcheck

	client, err := open5e.New(&open5e.Config{BaseURL: cfg.Open5e.BaseURL, Timeout: cfg.Open5e.Timeout, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to create search client: %v", err)
	}
	dispatcher := search.NewDispatcher(client, logger)

	party := fixedParty{{Name: "Aria", Description: "half-elf ranger"}, {Name: "Borbur", Description: "dwarf cleric"}}
	r, err := roster.New(party, dice.DefaultRoller)
	if err != nil {
		log.Fatalf("Failed to create roster: %v", err)
	}

	// 1. Fill the encounter from the monster database
	fmt.Println("--- Step 1: Searching monsters ---")
	for _, name := range strings.Split(*monsters, ",") {
		name = strings.TrimSpace(name)
		ticket := dispatcher.Issue(ctx, name)
		waitCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		res, ok := ticket.Wait(waitCtx)
		cancel()
		if !ok || !dispatcher.Accept(res) {
			fmt.Printf("Search for %q did not complete\n", name)
			continue
		}
		if res.Err != nil {
			fmt.Printf("Search for %q failed: %v\n", name, res.Err)
			continue
		}
		c, err := firstUsable(res.Creatures)
		if err != nil {
			fmt.Printf("No usable result for %q: %v\n", name, err)
			continue
		}
		r.Insert(c)
		fmt.Printf("Added %s (HP %d, initiative %d)\n", c.Name, c.MaxHealth, *c.Initiative)
	}

	// 2. Players roll with a +5 bonus
	fmt.Println("\n--- Step 2: Rolling player initiative ---")
	for _, c := range r.Combatants() {
		if c.HasInitiative() {
			continue
		}
		// players track their own hit points at the table; give them some here
		c.CurrentHealth, c.MaxHealth = 30, 30
		roll, err := dice.DefaultRoller.Roll(models.InitiativeDie)
		if err != nil {
			log.Fatalf("Failed to roll initiative: %v", err)
		}
		i, _ := r.IndexOf(c.ID)
		r.SetInitiative(i, roll+5)
		fmt.Printf("%s rolls %d\n", c.Name, roll+5)
	}
	printOrder(r)

	// 3. Trade blows until one side is down
	for round := 1; round <= maxRounds; round++ {
		fmt.Printf("\n--- Round %d ---\n", round)
		for range r.Len() {
			r.AdvanceFocus(roster.Forward)
			actor := r.Focused()
			if actor.Status == models.StatusDead {
				continue
			}
			target := pickTarget(r, actor)
			if target < 0 {
				break
			}
			damage, err := dice.DefaultRoller.Roll(8)
			if err != nil {
				log.Fatalf("Failed to roll damage: %v", err)
			}
			applied := r.ApplyHealthChange(target, -damage)
			victim, _ := r.At(target)
			fmt.Printf("%s hits %s for %d (%d/%d)\n", actor.Name, victim.Name, -applied, victim.CurrentHealth, victim.MaxHealth)
		}
		if standing(r, models.FactionCreature) == 0 || standing(r, models.FactionPlayer) == 0 {
			break
		}
	}
	printOrder(r)

	// 4. Optional epitaph for the first fallen creature
	if !cfg.Narration() {
		return
	}
	n, err := narrator.New(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, logger)
	if err != nil {
		log.Fatalf("Failed to create narrator: %v", err)
	}
	defer n.Close()
	for _, c := range r.Combatants() {
		if c.Faction == models.FactionCreature && c.Status == models.StatusDead {
			text, err := n.Describe(ctx, c)
			if err != nil {
				fmt.Printf("Narration failed: %v\n", err)
				return
			}
			fmt.Printf("\n%s\n", text)
			return
		}
	}
}

type fixedParty []models.Seed

func (p fixedParty) LoadParty() ([]models.Seed, error) { return p, nil }

func firstUsable(results []*models.CreatureSearchResult) (*models.Combatant, error) {
	var lastErr error
	for _, res := range results {
		c, err := models.NewCreature(res, dice.DefaultRoller)
		if err == nil {
			return c, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no results")
	}
	return nil, lastErr
}

// pickTarget returns the first living combatant on the other side, or -1.
func pickTarget(r *roster.Roster, actor *models.Combatant) int {
	for i, c := range r.Combatants() {
		if c.Faction != actor.Faction && c.Status == models.StatusAlive {
			return i
		}
	}
	return -1
}

func standing(r *roster.Roster, f models.Faction) int {
	n := 0
	for _, c := range r.Combatants() {
		if c.Faction == f && c.Status == models.StatusAlive {
			n++
		}
	}
	return n
}

func printOrder(r *roster.Roster) {
	fmt.Println("\nTurn order:")
	for _, c := range r.Combatants() {
		initiative := "--"
		if c.Initiative != nil {
			initiative = fmt.Sprint(*c.Initiative)
		}
		fmt.Printf("  %3s  %-20s %s %d/%d\n", initiative, c.Name, c.Status, c.CurrentHealth, c.MaxHealth)
	}
}
