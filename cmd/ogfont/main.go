package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/vahlcode/vahlcode-og/pkg/font"
)

func main() {
	resolve := flag.String("resolve", "", "Fetch fonts given as comma-separated family:weight:style specs")
	manifest := flag.String("manifest", "", "Fetch every font listed in a TOML manifest")
	outDir := flag.String("out", ".", "Directory to write font files to")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall fetch timeout")
	verbose := flag.Bool("v", false, "Log every fetch")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  ogfont -resolve <family:weight:style>[,...] [-out <dir>]\n")
		fmt.Fprintf(os.Stderr, "  ogfont -manifest <fonts.toml> [-out <dir>]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	nActions := 0
	if *resolve != "" {
		nActions++
	}
	if *manifest != "" {
		nActions++
	}

	if nActions != 1 {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	h := Handler{
		resolver: font.NewResolver(font.Config{Logger: logger}),
		out:      os.Stdout,
		err:      os.Stderr,
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch {
	case *resolve != "":
		if err := h.Resolve(ctx, *resolve, *outDir); err != nil {
			os.Exit(1)
		}

	case *manifest != "":
		if err := h.Prefetch(ctx, *manifest, *outDir); err != nil {
			os.Exit(1)
		}
	}
}
