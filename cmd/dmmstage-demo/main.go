// Command dmmstage-demo drives the staged map-loading pipeline end to end
// against an in-memory fake host, standing in for the game engine that
// would otherwise embed this module. It parses a .dmm file, plans a
// placement, and drains the resulting command buffer one yield slice at a
// time, printing progress at each step.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/bapicore/dmm"
	"github.com/bapicore/dmm/hostfake"
)

func main() {
	app := &cli.App{
		Name:  "dmmstage-demo",
		Usage: "parse and stage a BYOND-style map file against a fake host",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "demo config file (world bounds, load options)",
				Value:   ".dmmstage.kdl",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "dmmstage-demo: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: dmmstage-demo [--config FILE] <map.dmm>", 1)
	}
	mapPath := c.Args().First()

	cfg, err := loadDemoConfig(c.String("config"))
	if err != nil {
		return err
	}

	text, err := os.ReadFile(mapPath)
	if err != nil {
		return fmt.Errorf("read map: %w", err)
	}

	reg := dmm.NewRegistry()
	handle := &dmm.Handle{}
	if err := dmm.ParseBlocking(reg, mapPath, string(text), handle); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	fmt.Printf("parsed %s: format=%s key_len=%d line_len=%d bounds=%+v\n",
		mapPath, handle.MapFormat, handle.KeyLen, handle.LineLen, handle.ParsedBounds)
	for _, w := range handle.Warnings {
		fmt.Printf("warning: %s\n", w)
	}

	h := hostfake.New(cfg.WorldMaxX, cfg.WorldMaxY, cfg.WorldMaxZ)
	h.WorldTurf = cfg.WorldTurf
	h.WorldArea = cfg.WorldArea

	opts := dmm.LoadOptions{
		Offset:       [3]float32{float32(cfg.OffsetX), float32(cfg.OffsetY), float32(cfg.OffsetZ)},
		CropMap:      cfg.CropMap,
		NoChangeturf: cfg.NoChangeturf,
		PlaceOnTop:   cfg.PlaceOnTop,
		NewZ:         cfg.NewZ,
		LowerBounds:  [3]float32{0, 0, 0},
		UpperBounds:  [3]float32{1e9, 1e9, 1e9},
	}

	key, err := dmm.LoadMapBuffered(reg, h, handle, opts)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	fmt.Printf("planned; resume key %d, placed bounds=%+v\n", key, handle.Bounds)

	slice := 0
	for {
		slice++
		more, err := dmm.WorkCommandBuffer(reg, h, handle, key)
		if err != nil {
			return fmt.Errorf("work slice %d: %w", slice, err)
		}
		fmt.Printf("slice %d: tiles known so far = %d\n", slice, len(h.Tiles()))
		if !more {
			break
		}
	}

	for _, w := range handle.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
	fmt.Printf("done: %d tiles staged\n", len(h.Tiles()))
	return nil
}
