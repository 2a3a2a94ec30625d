package font

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// GoogleFontsURL is the default stylesheet endpoint.
const GoogleFontsURL = "https://fonts.googleapis.com/css2"

// The legacy user agent makes the provider emit plain TTF sources,
// which layout engines consume directly (modern agents get woff2).
const stylesheetUserAgent = "Mozilla/5.0 (Macintosh; U; Intel Mac OS X 10_6_8; de-at) AppleWebKit/533.21.1 (KHTML, like Gecko) Version/5.0.5 Safari/533.21.1"

var fontSrcPattern = regexp.MustCompile(`src:\s*url\(([^)]+)\)`)

// fetch performs the two-step miss path: look up the font file URL in
// the provider stylesheet, then download the binary.
func (r *Resolver) fetch(ctx context.Context, family string, weight int, style Style) (Descriptor, error) {
	src, err := r.lookupSource(ctx, family, weight, style)
	if err != nil {
		return Descriptor{}, err
	}

	data, err := r.download(ctx, src)
	if err != nil {
		return Descriptor{}, err
	}

	return Descriptor{Family: family, Weight: weight, Style: style, Data: data}, nil
}

// stylesheetURL builds the css2 query for one face, e.g.
// `?family=Inter:ital,wght@0,700` for Inter 700 normal.
func (r *Resolver) stylesheetURL(family string, weight int, style Style) string {
	ital := 0
	if style == StyleItalic {
		ital = 1
	}

	return fmt.Sprintf("%s?family=%s:ital,wght@%d,%d", r.baseURL, url.QueryEscape(family), ital, weight)
}

func (r *Resolver) lookupSource(ctx context.Context, family string, weight int, style Style) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.stylesheetURL(family, weight, style), nil)
	if err != nil {
		return "", fmt.Errorf("font: build stylesheet request: %w", err)
	}
	req.Header.Set("User-Agent", stylesheetUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("font: fetch stylesheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("font: fetch stylesheet for %q: unexpected status %d", family, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("font: read stylesheet: %w", err)
	}

	match := fontSrcPattern.FindSubmatch(body)
	if match == nil {
		return "", ErrNoFontSource
	}

	return strings.Trim(string(match[1]), `'"`), nil
}

func (r *Resolver) download(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("font: build download request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("font: download %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("font: download %s: unexpected status %d", src, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("font: download %s: %w", src, err)
	}

	return data, nil
}
