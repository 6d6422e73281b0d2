package favicon

import (
	"errors"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// normalizeURL prepends http:// when rawURL has no http(s) scheme.
func normalizeURL(rawURL string) string {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	return "http://" + rawURL
}

// origin returns scheme://host of u, keeping any port.
func origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// resolveHref makes a scraped href absolute. Protocol-relative hrefs take
// the page scheme; anything else that is not absolute hangs off the origin
// root, whatever the page path.
func resolveHref(page *url.URL, href string) string {
	switch {
	case strings.HasPrefix(href, "http://"), strings.HasPrefix(href, "https://"):
		return href
	case strings.HasPrefix(href, "//"):
		return page.Scheme + ":" + href
	default:
		return origin(page) + "/" + strings.TrimLeft(href, "/")
	}
}

// findIconHref returns the href of the first <link> whose rel is "icon" or
// "shortcut icon", compared case-insensitively. Returns "" when none exists.
func findIconHref(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return "", nil
			}
			return "", z.Err()

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "link" || !hasAttr {
				continue
			}
			if href := iconLinkHref(z); href != "" {
				return href, nil
			}
		}
	}
}

// iconLinkHref reads the attributes of the current link tag.
func iconLinkHref(z *html.Tokenizer) string {
	var rel, href string
	for {
		key, val, more := z.TagAttr()
		switch string(key) {
		case "rel":
			rel = strings.TrimSpace(string(val))
		case "href":
			href = strings.TrimSpace(string(val))
		}
		if !more {
			break
		}
	}
	if href == "" {
		return ""
	}
	if strings.EqualFold(rel, "icon") || strings.EqualFold(rel, "shortcut icon") {
		return href
	}
	return ""
}
