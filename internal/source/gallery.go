package source

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// galleryPage resolves a gallery id to the absolute URL of its image by
// fetching the gallery's per-id HTML page and scraping the element that
// carries the well-known id attribute (spec.md §4.1.1: "HTML scrape for a
// single element identified by a well-known attribute").
type galleryPage struct {
	client   *http.Client
	baseURL  string // e.g. "https://screenshots.example/"
	selector string // CSS selector, e.g. "img#screenshot-image"
	attr     string // attribute carrying the image URL, e.g. "src"
	userAgent string
}

func (g *galleryPage) resolveImageURL(id string) (string, error) {
	pageURL := fmt.Sprintf("%s/%s", trimTrailingSlash(g.baseURL), id)

	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("gallery: building request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", g.userAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gallery: fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gallery: unexpected status %d from %s", resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gallery: parsing %s: %w", pageURL, err)
	}

	sel := doc.Find(g.selector).First()
	if sel.Length() == 0 {
		return "", fmt.Errorf("gallery: selector %q not found on %s", g.selector, pageURL)
	}

	val, ok := sel.Attr(g.attr)
	if !ok || val == "" {
		return "", fmt.Errorf("gallery: attribute %q missing on matched element at %s", g.attr, pageURL)
	}

	resolved, err := resolveURL(pageURL, val)
	if err != nil {
		return "", fmt.Errorf("gallery: resolving image URL %q: %w", val, err)
	}

	return resolved, nil
}

func resolveURL(base, ref string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(refURL).String(), nil
}

func trimTrailingSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

func fetchImageBytes(client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("gallery: building image request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gallery: fetching image %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gallery: unexpected image status %d from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gallery: reading image body from %s: %w", url, err)
	}
	return data, nil
}
