package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/oomph-ac/blueprint/builder"
	"github.com/oomph-ac/blueprint/schematic"
	"github.com/oomph-ac/blueprint/settings"
	"github.com/oomph-ac/blueprint/state"
	"github.com/sirupsen/logrus"
)

func main() {
	var (
		settingsPath = flag.String("settings", "blueprint.toml", "path to the settings file, created with defaults if missing")
		anchors      = flag.String("anchor", "-1,0,-1", "semicolon separated anchors x,y,z relative to the schematic corner")
		stats        = flag.Bool("statsview", false, "serve runtime statistics on localhost:8080")
		debug        = flag.Bool("debug", false, "log at debug level")
	)
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Println("Usage: blueprint [flags] <schematic.schem>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
	})
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if *stats {
		// set configurations before calling `statsview.New()` method
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
	}

	s, err := loadSettings(*settingsPath)
	if err != nil {
		log.Fatalf("unable to load settings: %v", err)
	}
	candidates, err := parseAnchors(*anchors)
	if err != nil {
		log.Fatalf("invalid anchors: %v", err)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("unable to open schematic: %v", err)
	}
	schem, err := schematic.Decode(f)
	_ = f.Close()
	if err != nil {
		log.Fatalf("unable to read schematic: %v", err)
	}
	log.WithField("size", fmt.Sprintf("%dx%dx%d", schem.Bounds().SizeX(), schem.Bounds().SizeY(), schem.Bounds().SizeZ())).Info("schematic loaded")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	plan, err := builder.New(s, state.NewPalette(), log).PlanCandidates(ctx, schem, candidates)
	if err != nil {
		log.Fatalf("unable to plan schematic: %v", err)
	}
	log.WithFields(logrus.Fields{
		"steps":       len(plan.Steps),
		"scaffolds":   plan.ScaffoldCount,
		"left_behind": len(plan.LeftBehind),
		"anchor":      plan.Anchor,
	}).Info("plan ready")

	for i, step := range plan.Steps {
		fmt.Printf("%d\t%v\t%v\t%v\t%v\t%v\n", i, step.Action, step.Pos, step.Against, step.Stand, step.Data.Name)
	}
}

// loadSettings loads the settings at path, writing the defaults there first if the file does not exist.
func loadSettings(path string) (settings.Settings, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := settings.SaveDefault(path); err != nil {
			return settings.Settings{}, err
		}
	}
	return settings.Load(path)
}

func parseAnchors(s string) ([]cube.Pos, error) {
	var out []cube.Pos
	for _, a := range strings.Split(s, ";") {
		parts := strings.Split(strings.TrimSpace(a), ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("anchor %q must have three coordinates", a)
		}
		var pos cube.Pos
		for i, part := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return nil, fmt.Errorf("anchor %q: %w", a, err)
			}
			pos[i] = v
		}
		out = append(out, pos)
	}
	return out, nil
}
