package importer_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nikbrunner/favme/internal/importer"
	"github.com/nikbrunner/favme/internal/model"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestParseHTML_SingleBookmark(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	entries, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	assert.NilError(t, err)
	assert.DeepEqual(t, entries, []model.Entry{
		{Kind: model.KindWebsite, Name: "Example Site", Value: "https://example.com"},
	})
}

func TestParseHTML_NestedFoldersFlattened(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3 ADD_DATE="1234567890">Development</H3>
    <DL><p>
        <DT><H3 ADD_DATE="1234567890">React</H3>
        <DL><p>
            <DT><A HREF="https://react.dev" ADD_DATE="1234567890">React Docs</A>
        </DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1234567890">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com" ADD_DATE="1234567890">Google</A>
</DL><p>`

	entries, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	assert.NilError(t, err)
	assert.Assert(t, is.Len(entries, 3))
	assert.Equal(t, entries[0].Name, "React Docs")
	assert.Equal(t, entries[1].Name, "GitHub")
	assert.Equal(t, entries[2].Name, "Google")
}

func TestParseHTML_FileLinksBecomeFolders(t *testing.T) {
	html := `<DL><p>
    <DT><A HREF="file:///home/me/projects">Projects</A>
    <DT><A HREF="go.dev">Go</A>
</DL><p>`

	entries, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	assert.NilError(t, err)
	assert.DeepEqual(t, entries, []model.Entry{
		{Kind: model.KindFolder, Name: "Projects", Value: "/home/me/projects"},
		{Kind: model.KindWebsite, Name: "Go", Value: "go.dev"},
	})
}

func TestParseHTML_SkipsUnsupportedSchemes(t *testing.T) {
	html := `<DL><p>
    <DT><A HREF="javascript:alert(1)">Bookmarklet</A>
    <DT><A HREF="place:sort=8&maxResults=10">Recent</A>
    <DT><A HREF="https://valid.com">Valid</A>
</DL><p>`

	entries, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	assert.NilError(t, err)
	assert.Assert(t, is.Len(entries, 1))
	assert.Equal(t, entries[0].Name, "Valid")
}

func TestParseHTML_EmptyFile(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
</DL><p>`

	entries, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	assert.NilError(t, err)
	assert.Check(t, is.Len(entries, 0))
}

func TestParseHTML_MissingHrefAndTitle(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><A ADD_DATE="1234567890">No URL</A>
    <DT><A HREF="https://untitled.com"></A>
</DL><p>`

	entries, err := importer.ParseHTMLBookmarks(strings.NewReader(html))
	assert.NilError(t, err)
	assert.Assert(t, is.Len(entries, 1))
	assert.Equal(t, entries[0].Name, "https://untitled.com", "URL is the fallback title")
}

func TestParseYAML(t *testing.T) {
	doc := `
folders:
  Projects: /home/me/projects
websites:
  Go: https://go.dev
  HN: news.ycombinator.com
`
	entries, err := importer.ParseYAML(strings.NewReader(doc))
	assert.NilError(t, err)
	assert.DeepEqual(t, entries, []model.Entry{
		{Kind: model.KindFolder, Name: "Projects", Value: "/home/me/projects"},
		{Kind: model.KindWebsite, Name: "Go", Value: "https://go.dev"},
		{Kind: model.KindWebsite, Name: "HN", Value: "news.ycombinator.com"},
	})
}

func TestParseYAML_AcceptsJSON(t *testing.T) {
	doc := `{"folders": {}, "websites": {"Go": "https://go.dev"}}`

	entries, err := importer.ParseYAML(strings.NewReader(doc))
	assert.NilError(t, err)
	assert.Assert(t, is.Len(entries, 1))
	assert.Equal(t, entries[0].Kind, model.KindWebsite)
}

func TestParseYAML_Invalid(t *testing.T) {
	_, err := importer.ParseYAML(strings.NewReader("folders: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse favorites yaml")
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "favs.yml")
	assert.NilError(t, os.WriteFile(yamlPath, []byte("websites:\n  Go: go.dev\n"), 0644))
	entries, err := importer.ParseFile(yamlPath)
	assert.NilError(t, err)
	assert.Check(t, is.Len(entries, 1))

	htmlPath := filepath.Join(dir, "bookmarks.HTML")
	assert.NilError(t, os.WriteFile(htmlPath, []byte(`<a href="https://go.dev">Go</a>`), 0644))
	entries, err = importer.ParseFile(htmlPath)
	assert.NilError(t, err)
	assert.Check(t, is.Len(entries, 1))

	txtPath := filepath.Join(dir, "favs.txt")
	assert.NilError(t, os.WriteFile(txtPath, nil, 0644))
	_, err = importer.ParseFile(txtPath)
	assert.ErrorContains(t, err, "unsupported import format")
}
