package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/jackymlr/basketball/internal/config"
	"github.com/jackymlr/basketball/internal/league"
	"github.com/jackymlr/basketball/internal/store"
)

type seedPlayer struct {
	name     string
	number   int
	position string
}

// Seeds a demo league into the configured database: two teams of eight
// and one scheduled game. Refuses to touch a league that already has
// teams.
func main() {
	_ = godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabasePath == "" {
		log.Fatal("DATABASE_PATH required for seeding")
	}

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
	}
	db, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	registry := league.NewRegistry(db)
	registry.Load(ctx)

	if len(registry.Teams()) > 0 {
		log.Fatal("League already has teams, refusing to seed")
	}

	home := registry.CreateTeam(ctx, "Riverside Hawks", "", "Downtown league regulars")
	away := registry.CreateTeam(ctx, "Bayview Comets", "", "Sunday night squad")

	hawks := []seedPlayer{
		{"Marcus Webb", 4, "PG"},
		{"Terrell Brooks", 7, "SG"},
		{"Jayden Cole", 11, "SF"},
		{"Andre Simmons", 21, "PF"},
		{"Victor Okafor", 34, "C"},
		{"Reggie Pham", 2, "PG"},
		{"Dion Carter", 15, "SF"},
		{"Elias Moreno", 42, "PF"},
	}
	comets := []seedPlayer{
		{"Danny Alvarez", 3, "PG"},
		{"Chris Tanaka", 8, "SG"},
		{"Liam O'Neal", 13, "SF"},
		{"Sam Whitfield", 24, "PF"},
		{"Joe Kamara", 55, "C"},
		{"Tobias Reed", 6, "SG"},
		{"Marco Silva", 19, "SF"},
		{"Dwayne Potts", 31, "C"},
	}

	for _, p := range hawks {
		if _, err := registry.CreatePlayer(ctx, p.name, p.number, p.position, home.ID); err != nil {
			log.Fatalf("Failed to create player %s: %v", p.name, err)
		}
	}
	for _, p := range comets {
		if _, err := registry.CreatePlayer(ctx, p.name, p.number, p.position, away.ID); err != nil {
			log.Fatalf("Failed to create player %s: %v", p.name, err)
		}
	}

	game, err := registry.CreateGame(ctx, home.ID, away.ID, time.Time{}, "Riverside Community Gym")
	if err != nil {
		log.Fatalf("Failed to create game: %v", err)
	}

	fmt.Println("Seeded demo league:")
	fmt.Printf("  %s (%s)\n", home.Name, home.ID)
	fmt.Printf("  %s (%s)\n", away.Name, away.ID)
	fmt.Printf("  game %s at %s\n", game.ID, game.Location)
	fmt.Println()
	fmt.Printf("Open a scoring session with: POST /api/games/%s/open\n", game.ID)
}
