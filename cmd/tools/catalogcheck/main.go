package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/zhouzirui/mylife/backend/internal/config"
	"github.com/zhouzirui/mylife/backend/internal/model/questionary"
	"github.com/zhouzirui/mylife/backend/internal/storage/dialoglog/sqlite"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] .env not loaded, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	file := flag.String("file", cfg.Catalog.Path, "catalog YAML to validate (empty: embedded catalog)")
	section := flag.String("section", "", "draw questions from this section")
	theme := flag.String("theme", "", "restrict draws to this theme")
	draws := flag.Int("n", 3, "number of questions to draw")
	dialogs := flag.Bool("dialogs", false, "print dialog counts per state from DIALOG_LOG_PATH")
	flag.Parse()

	catalog, err := load(*file)
	if err != nil {
		log.Fatalf("catalog is invalid: %v", err)
	}
	repo := questionary.NewMemoryRepository(catalog)

	fmt.Printf("catalog OK: %d sections, %d questions\n", len(catalog.Sections), catalog.QuestionCount())
	for _, name := range repo.ListSections() {
		fmt.Printf("- %s\n", name)
		for _, th := range repo.ListThemes(name) {
			fmt.Printf("    * %s\n", th)
		}
	}

	if *section != "" {
		runDraws(repo, *section, *theme, *draws)
	}

	if *dialogs {
		if err := printDialogCounts(cfg.DialogLog.Path); err != nil {
			log.Fatalf("dialog log: %v", err)
		}
	}
}

func load(path string) (questionary.Catalog, error) {
	if path == "" {
		return questionary.Default()
	}
	return questionary.LoadFile(path)
}

func runDraws(repo questionary.Repository, section, theme string, n int) {
	fmt.Printf("\n%d draws from %q", n, section)
	if theme != "" {
		fmt.Printf(" / %q", theme)
	}
	fmt.Println()

	for i := 0; i < n; i++ {
		q, ok := repo.PickRandomQuestion(section, theme)
		if !ok {
			fmt.Fprintln(os.Stderr, "no question found")
			os.Exit(1)
		}
		fmt.Printf("%d. %s\n", i+1, q)
	}
}

func printDialogCounts(path string) error {
	store, err := sqlite.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	counts, err := store.CountByState(ctx)
	if err != nil {
		return err
	}

	states := make([]string, 0, len(counts))
	for state := range counts {
		states = append(states, state)
	}
	sort.Strings(states)

	fmt.Printf("\ndialogs in %s:\n", path)
	for _, state := range states {
		fmt.Printf("  %-40s %d\n", state, counts[state])
	}
	return nil
}
