package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/vahlcode/vahlcode-og/pkg/font"
)

type Handler struct {
	resolver *font.Resolver
	out      io.Writer
	err      io.Writer
}

type faceRequest struct {
	family string
	weight int
	style  font.Style
}

// Resolve fetches the faces named by a comma-separated spec list and
// writes the font files into outDir.
func (h *Handler) Resolve(ctx context.Context, specs string, outDir string) error {
	reqs, err := parseSpecs(specs)
	if err != nil {
		fmt.Fprintln(h.err, "spec error:", err)
		return err
	}

	return h.fetch(ctx, reqs, outDir)
}

// Prefetch fetches every face listed in a TOML manifest. The manifest's
// own `out` setting, when present, wins over outDir.
func (h *Handler) Prefetch(ctx context.Context, path string, outDir string) error {
	m, err := LoadManifest(path)
	if err != nil {
		fmt.Fprintln(h.err, "manifest error:", err)
		return err
	}

	if m.Out != "" {
		outDir = m.Out
	}

	return h.fetch(ctx, m.Faces(), outDir)
}

func (h *Handler) fetch(ctx context.Context, reqs []faceRequest, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintln(h.err, "output error:", err)
		return err
	}

	tw := tabwriter.NewWriter(h.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FAMILY\tWEIGHT\tSTYLE\tBYTES\tFILE")

	for _, req := range reqs {
		desc, err := h.resolver.Resolve(ctx, req.family, req.weight, req.style)
		if err != nil {
			fmt.Fprintln(h.err, "resolve error:", err)
			return err
		}

		name := fontFileName(desc)
		if err := os.WriteFile(filepath.Join(outDir, name), desc.Data, 0o644); err != nil {
			fmt.Fprintln(h.err, "write error:", err)
			return err
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\n", desc.Family, desc.Weight, desc.Style, len(desc.Data), name)
	}

	tw.Flush()
	return nil
}

// parseSpecs splits a comma-separated list of family:weight:style specs.
// Weight and style are optional and default to 400 and normal.
func parseSpecs(s string) ([]faceRequest, error) {
	var reqs []faceRequest

	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		req, err := parseSpec(part)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}

	if len(reqs) == 0 {
		return nil, errors.New("no font specs given")
	}

	return reqs, nil
}

func parseSpec(s string) (faceRequest, error) {
	fields := strings.Split(s, ":")
	if len(fields) > 3 {
		return faceRequest{}, fmt.Errorf("spec %q: want family[:weight[:style]]", s)
	}

	req := faceRequest{
		family: strings.TrimSpace(fields[0]),
		weight: 400,
		style:  font.StyleNormal,
	}
	if req.family == "" {
		return faceRequest{}, fmt.Errorf("spec %q: family required", s)
	}

	if len(fields) >= 2 && fields[1] != "" {
		weight, err := strconv.Atoi(fields[1])
		if err != nil || weight <= 0 {
			return faceRequest{}, fmt.Errorf("spec %q: invalid weight %q", s, fields[1])
		}
		req.weight = weight
	}

	if len(fields) == 3 {
		switch style := font.Style(fields[2]); style {
		case font.StyleNormal, font.StyleItalic:
			req.style = style
		default:
			return faceRequest{}, fmt.Errorf("spec %q: invalid style %q", s, fields[2])
		}
	}

	return req, nil
}

func fontFileName(d font.Descriptor) string {
	family := strings.ReplaceAll(d.Family, " ", "")
	return fmt.Sprintf("%s-%d-%s.ttf", family, d.Weight, d.Style)
}
