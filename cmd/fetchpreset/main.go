// Command fetchpreset downloads a bundle of world presets and checks that
// every preset in it parses.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	get "github.com/hashicorp/go-getter"

	"github.com/OCharnyshevich/worldgen/pkg/world/preset"
)

func main() {
	var (
		src   = flag.String("src", "", "go-getter source url, e.g. git::https://example.com/presets.git//worlds")
		out   = flag.String("o", "./presets", "output dir path")
		check = flag.Bool("check", true, "validate downloaded presets")
	)
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *src == "" {
		log.Error("source url required")
		os.Exit(2)
	}
	if *out == "" {
		log.Error("output dir path required")
		os.Exit(2)
	}

	if err := os.RemoveAll(*out); err != nil {
		log.Error("clear output dir", "path", *out, "error", err)
		os.Exit(1)
	}

	log.Info("start downloading presets", "src", *src, "path", *out)
	if err := get.Get(*out, *src); err != nil {
		log.Error("download presets", "error", err)
		os.Exit(1)
	}
	log.Info("done downloading presets", "path", *out)

	if !*check {
		return
	}
	files, err := filepath.Glob(filepath.Join(*out, "*.yaml"))
	if err != nil {
		log.Error("list presets", "error", err)
		os.Exit(1)
	}
	failed := 0
	for _, f := range files {
		p, err := preset.Load(f)
		if err != nil {
			log.Error("invalid preset", "file", f, "error", err)
			failed++
			continue
		}
		log.Info("preset ok", "file", f, "name", p.Name, "providers", len(p.Providers), "rasterizers", len(p.Rasterizers))
	}
	if failed > 0 {
		os.Exit(1)
	}
}
