package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/beka-birhanu/picobot-api/config"
	"github.com/beka-birhanu/picobot-api/game"
	"github.com/beka-birhanu/picobot-api/game/rules"
	"github.com/beka-birhanu/picobot-api/game/terrain"
	logger "github.com/beka-birhanu/picobot-api/infrastruture/log"
)

func main() {
	mapName := flag.String("map", "diamond", "bundled map name or \"maze\"")
	rulesFile := flag.String("rules", "", "rule file; defaults to the map's bundled rules")
	width := flag.Int("width", 10, "maze width in cells")
	height := flag.Int("height", 10, "maze height in cells")
	seed := flag.Int64("seed", 1, "maze seed")
	budget := flag.Int("budget", game.DefaultMoveBudget, "moves allowed per run")
	frames := flag.Bool("frames", false, "print every rendered frame")
	flag.Parse()

	log, err := logger.New("EXAMPLE", config.ColorBlue, os.Stderr)
	if err != nil {
		fmt.Printf("error while creating logger: %s", err)
		return
	}

	rows, key, err := terrain.Resolve(terrain.Spec{Name: *mapName, Width: *width, Height: *height, Seed: *seed})
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	text := terrain.WallFollowerRules
	if entry, ok := terrain.Lookup(*mapName); ok {
		text = entry.Rules
	}
	if *rulesFile != "" {
		raw, err := os.ReadFile(*rulesFile)
		if err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
		text = string(raw)
	}

	rs, err := rules.Parse(text)
	if err != nil {
		log.Error("rules rejected:\n" + err.Error())
		os.Exit(1)
	}
	if lint := rules.Lint(rs); !lint.Clean() {
		log.Warning(fmt.Sprintf("rule set has %d ambiguous patterns from %d overlapping rule pairs", len(lint.Ambiguous), len(lint.Overlaps)))
	}

	c := game.TesterConfig{Rows: rows, Rules: rs, MoveBudget: *budget}
	if *frames {
		c.Frames = os.Stdout
	} else {
		fmt.Print(terrain.Format(rows))
	}

	tester, err := game.NewTester(c)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	report, err := tester.TestAll(context.Background())
	if err != nil {
		log.Error(fmt.Sprintf("%s failed after %d starts: %s", key, report.Starts(), err))
		os.Exit(1)
	}
	log.Info(fmt.Sprintf("%s covered from all %d starts, worst %d moves, total %d", key, report.Starts(), report.WorstMoves, report.TotalMoves))
}
