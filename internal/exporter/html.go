package exporter

import (
	"fmt"
	"html"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nikbrunner/favme/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/favorites-export-YYYY-MM-DD.html
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("favorites-export-%s.html", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportHTML exports favorites to Netscape bookmark HTML format with one
// heading per collection. Folder paths are written as file:// links so
// the importer can tell them apart from websites.
func ExportHTML(fav *model.Favorites) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	writeSection(&b, "Folders", fav.Entries(model.KindFolder))
	writeSection(&b, "Websites", fav.Entries(model.KindWebsite))

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// writeSection writes a heading and its links. Empty sections are skipped.
func writeSection(b *strings.Builder, title string, entries []model.Entry) {
	if len(entries) == 0 {
		return
	}
	prefix := "    "

	fmt.Fprintf(b, "%s<DT><H3>%s</H3>\n", prefix, html.EscapeString(title))
	fmt.Fprintf(b, "%s<DL><p>\n", prefix)
	for _, e := range entries {
		fmt.Fprintf(b,
			"%s%s<DT><A HREF=\"%s\">%s</A>\n",
			prefix, prefix,
			html.EscapeString(href(e)),
			html.EscapeString(e.Name),
		)
	}
	fmt.Fprintf(b, "%s</DL><p>\n", prefix)
}

func href(e model.Entry) string {
	if e.Kind == model.KindFolder {
		return (&url.URL{Scheme: "file", Path: filepath.ToSlash(e.Value)}).String()
	}
	return e.Value
}
