package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	towngen "github.com/IronJade/town-generator"
)

var (
	flagSeed    int64
	flagPatches int
	flagSize    string
	flagPlaza   string
	flagCitadel string
	flagWalls   string
	flagOut     string
	flagPNG     string
	flagScale   float64
	flagVerbose bool

	flagRenderPNG   string
	flagRenderScale float64
)

func main() {
	root := &cobra.Command{
		Use:   "towngen",
		Short: "towngen generates medieval town maps",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "generate a town and write it as JSON and/or PNG",
		RunE:  runGenerate,
	}
	generate.Flags().Int64Var(&flagSeed, "seed", 0, "random seed, 0 picks one")
	generate.Flags().IntVar(&flagPatches, "patches", 0, "number of city patches, overrides --size")
	generate.Flags().StringVar(&flagSize, "size", "small-city", "town size: "+strings.Join(sizeNames(), ", "))
	generate.Flags().StringVar(&flagPlaza, "plaza", "auto", "plaza: auto, always, never")
	generate.Flags().StringVar(&flagCitadel, "citadel", "auto", "citadel: auto, always, never")
	generate.Flags().StringVar(&flagWalls, "walls", "auto", "city walls: auto, always, never")
	generate.Flags().StringVarP(&flagOut, "out", "o", "", "write town JSON to this file")
	generate.Flags().StringVar(&flagPNG, "png", "", "render the town map to this file")
	generate.Flags().Float64Var(&flagScale, "scale", 4, "map render scale, pixels per unit")
	generate.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log generation details")

	render := &cobra.Command{
		Use:   "render <town.json>",
		Short: "render a previously generated town JSON to PNG",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	render.Flags().StringVar(&flagRenderPNG, "png", "town.png", "render the town map to this file")
	render.Flags().Float64Var(&flagRenderScale, "scale", 4, "map render scale, pixels per unit")

	root.AddCommand(generate, render)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		l := logrus.New()
		l.SetLevel(logrus.DebugLevel)
		towngen.SetLogger(l)
	}

	patches := flagPatches
	if patches == 0 {
		var ok bool
		patches, ok = towngen.SizeClasses[flagSize]
		if !ok {
			return fmt.Errorf("unknown size %q, expected one of: %s", flagSize, strings.Join(sizeNames(), ", "))
		}
	}

	m, err := towngen.New(towngen.TownConfig{
		NPatches: patches,
		Seed:     flagSeed,
		Plaza:    towngen.ParseToggle(flagPlaza),
		Citadel:  towngen.ParseToggle(flagCitadel),
		Walls:    towngen.ParseToggle(flagWalls),
	})
	if err != nil {
		return err
	}

	fmt.Printf("generated town: seed=%d patches=%d gates=%d buildings=%d walled=%v\n",
		m.Seed, len(m.Patches), m.Stats.NGates, m.Stats.NBuildings, m.Stats.Walled)

	if flagOut != "" {
		if err := m.SaveJSON(flagOut); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", flagOut)
	}
	if flagPNG != "" {
		tm := towngen.NewTownMap(m, flagScale)
		if err := tm.SavePNG(flagPNG, nil); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", flagPNG)
	}
	if flagOut == "" && flagPNG == "" {
		b, err := m.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(b))
	}
	return nil
}

func runRender(cmd *cobra.Command, args []string) error {
	m, err := towngen.LoadJSON(args[0])
	if err != nil {
		return err
	}
	tm := towngen.NewTownMap(m, flagRenderScale)
	if err := tm.SavePNG(flagRenderPNG, nil); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", flagRenderPNG)
	return nil
}

func sizeNames() []string {
	names := make([]string, 0, len(towngen.SizeClasses))
	for n := range towngen.SizeClasses {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
