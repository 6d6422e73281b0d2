package favicon

import (
	"net/url"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "example.com", want: "http://example.com"},
		{in: "example.com/path?q=1", want: "http://example.com/path?q=1"},
		{in: "http://example.com", want: "http://example.com"},
		{in: "https://example.com", want: "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, normalizeURL(tt.in), tt.want)
		})
	}
}

func TestResolveHref(t *testing.T) {
	tests := []struct {
		name string
		page string
		href string
		want string
	}{
		{
			name: "root relative",
			page: "https://site.test/page",
			href: "/static/icon.png",
			want: "https://site.test/static/icon.png",
		},
		{
			name: "path relative hangs off origin",
			page: "https://site.test/docs/page",
			href: "img/icon.png",
			want: "https://site.test/img/icon.png",
		},
		{
			name: "protocol relative",
			page: "https://site.test/",
			href: "//cdn.test/icon.ico",
			want: "https://cdn.test/icon.ico",
		},
		{
			name: "absolute untouched",
			page: "http://site.test",
			href: "https://cdn.test/icon.svg",
			want: "https://cdn.test/icon.svg",
		},
		{
			name: "port kept",
			page: "http://localhost:8080/app",
			href: "/favicon.png",
			want: "http://localhost:8080/favicon.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := url.Parse(tt.page)
			assert.NilError(t, err)
			assert.Equal(t, resolveHref(page, tt.href), tt.want)
		})
	}
}

func TestFindIconHref(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "icon link",
			doc:  `<html><head><link rel="icon" href="/a.png"></head></html>`,
			want: "/a.png",
		},
		{
			name: "shortcut icon uppercase",
			doc:  `<HTML><HEAD><LINK REL="Shortcut Icon" HREF="/b.ico"></HEAD></HTML>`,
			want: "/b.ico",
		},
		{
			name: "href before rel",
			doc:  `<link href='/c.png' rel='icon' />`,
			want: "/c.png",
		},
		{
			name: "first match wins",
			doc:  `<link rel="stylesheet" href="/s.css"><link rel="icon" href="/first.png"><link rel="icon" href="/second.png">`,
			want: "/first.png",
		},
		{
			name: "apple touch icon ignored",
			doc:  `<link rel="apple-touch-icon" href="/apple.png">`,
			want: "",
		},
		{
			name: "icon without href ignored",
			doc:  `<link rel="icon"><link rel="shortcut icon" href="/d.ico">`,
			want: "/d.ico",
		},
		{
			name: "no links",
			doc:  `<html><body>hello</body></html>`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := findIconHref(strings.NewReader(tt.doc))
			assert.NilError(t, err)
			assert.Equal(t, got, tt.want)
		})
	}
}
