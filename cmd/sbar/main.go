package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/friedelschoen/sbar"
)

var version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("sbar " + version)
		return
	}

	ctx := &sbar.BuildContext{
		Fonts:  sbar.NewSystemFontProvider(),
		Images: sbar.NewFileImageProvider(),
	}

	driver, err := sbar.NewDriver(os.Getenv("WAYLAND_DISPLAY"))
	if err != nil {
		log.Fatalf("sbar: %v", err)
	}

	renderer := sbar.NewRenderer(ctx, driver)
	driver.Renderer = renderer

	if err := sbar.NewIOLoop(driver, renderer).Run(); err != nil {
		log.Fatalf("sbar: %v", err)
	}
}
