package importer

import (
	"io"
	"net/url"
	"strings"

	"github.com/nikbrunner/favme/internal/model"
	"golang.org/x/net/html"
)

// ParseHTMLBookmarks parses Netscape bookmark HTML into favorites.
// file:// links become folder favorites, http(s) and scheme-less links
// become website favorites. Folder headings are flattened away.
func ParseHTMLBookmarks(r io.Reader) ([]model.Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var entries []model.Entry

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode && strings.ToLower(n.Data) == "a" {
			href := strings.TrimSpace(getAttr(n, "href"))
			if href == "" {
				// Skip bookmarks without URL
				return
			}

			title := getTextContent(n)
			if title == "" {
				title = href // fallback to URL as title
			}

			if entry, ok := entryFromHref(title, href); ok {
				entries = append(entries, entry)
			}
			return // Don't recurse into A
		}

		// Recurse into children
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return entries, nil
}

// entryFromHref classifies a link. Browser-internal schemes are dropped.
func entryFromHref(title, href string) (model.Entry, bool) {
	u, err := url.Parse(href)
	if err != nil {
		return model.Entry{}, false
	}

	switch strings.ToLower(u.Scheme) {
	case "file":
		if u.Path == "" {
			return model.Entry{}, false
		}
		return model.Entry{Kind: model.KindFolder, Name: title, Value: u.Path}, true
	case "http", "https", "":
		return model.Entry{Kind: model.KindWebsite, Name: title, Value: href}, true
	default:
		// javascript:, place:, chrome:, about: ...
		return model.Entry{}, false
	}
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
