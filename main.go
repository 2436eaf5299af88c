package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/unluckyjori/interior-title-cards/pkg/app"
	"github.com/unluckyjori/interior-title-cards/pkg/config"
)

func main() {
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	configPath := flag.String("config", "", "path to display config YAML (optional)")
	zone := flag.String("zone", "", "trigger this zone immediately on startup (optional)")
	flag.Parse()

	a, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		Zone:       *zone,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer a.Teardown()

	ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
	ebiten.SetWindowTitle("Interior Title Cards")

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
