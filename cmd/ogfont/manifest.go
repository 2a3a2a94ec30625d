package main

import (
	"errors"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/vahlcode/vahlcode-og/pkg/font"
)

// Manifest mirrors the expected fonts.toml schema:
//
//	out = "assets/fonts"
//
//	[[font]]
//	family = "Inter"
//	weights = [400, 700]
//	styles = ["normal", "italic"]
type Manifest struct {
	Out   string         `toml:"out"`
	Fonts []ManifestFont `toml:"font"`
}

type ManifestFont struct {
	Family  string   `toml:"family"`
	Weights []int    `toml:"weights"`
	Styles  []string `toml:"styles"`
}

// LoadManifest reads and validates a TOML font manifest.
func LoadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}

	if len(m.Fonts) == 0 {
		return Manifest{}, errors.New("manifest lists no fonts")
	}
	for i, f := range m.Fonts {
		if f.Family == "" {
			return Manifest{}, fmt.Errorf("font %d: family required", i+1)
		}
		for _, w := range f.Weights {
			if w <= 0 {
				return Manifest{}, fmt.Errorf("font %q: invalid weight %d", f.Family, w)
			}
		}
		for _, s := range f.Styles {
			if st := font.Style(s); st != font.StyleNormal && st != font.StyleItalic {
				return Manifest{}, fmt.Errorf("font %q: invalid style %q", f.Family, s)
			}
		}
	}

	return m, nil
}

// Faces expands the manifest into one request per weight/style pair.
// Missing weights default to [400], missing styles to ["normal"].
func (m Manifest) Faces() []faceRequest {
	var reqs []faceRequest

	for _, f := range m.Fonts {
		weights := f.Weights
		if len(weights) == 0 {
			weights = []int{400}
		}

		styles := f.Styles
		if len(styles) == 0 {
			styles = []string{string(font.StyleNormal)}
		}

		for _, w := range weights {
			for _, s := range styles {
				reqs = append(reqs, faceRequest{family: f.Family, weight: w, style: font.Style(s)})
			}
		}
	}

	return reqs
}
