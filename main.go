package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/grapple/common"
	"github.com/milk9111/grapple/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode (physics overlay, prefab hot reload, C copies state)")
	worldName := flag.String("world", prefabs.WorldFile, "world prefab in prefabs/ (basename, .yaml optional)")
	flag.Parse()

	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("grapple")

	game, err := NewGame(*worldName, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
