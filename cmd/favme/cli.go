package main

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/nikbrunner/favme/internal/exporter"
	"github.com/nikbrunner/favme/internal/favicon"
	"github.com/nikbrunner/favme/internal/importer"
	"github.com/nikbrunner/favme/internal/logger"
	"github.com/nikbrunner/favme/internal/model"
	"github.com/nikbrunner/favme/internal/picker"
	"github.com/nikbrunner/favme/internal/reconcile"
	"github.com/nikbrunner/favme/internal/search"
	"github.com/nikbrunner/favme/internal/storage"
)

// opener launches or copies a favorite.
type opener interface {
	Open(e model.Entry) error
	Copy(e model.Entry) error
}

// deps are the external effects a command may trigger.
type deps struct {
	launcher opener
	client   *http.Client         // favicon requests; nil selects the resolver default
	exists   reconcile.ExistsFunc // folder check at startup; nil selects os.Stat
}

// iconWorkers bounds concurrent favicon lookups for list --icons.
const iconWorkers = 8

// errUsage reports a wrong number of positional arguments.
var errUsage = errors.New("invalid arguments")

// newCLIApp creates the CLI application.
func newCLIApp(d deps) *cli.App {
	app := &cli.App{
		Name:    "favme",
		Usage:   "Favorite folders and websites",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "data-dir", EnvVars: []string{"FAVME_DATA_DIR"}, Usage: "Directory holding favorites and settings"},
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "Log level (debug, info, warn, error)"},
			&cli.BoolFlag{Name: "pretty", Value: true, Usage: "Human-readable log output"},
		},
		Commands: []*cli.Command{
			listCmd(d),
			addCmd(d),
			editCmd(d),
			deleteCmd(d),
			openCmd(d),
			copyCmd(d),
			settingsCmd(d),
			importCmd(d),
			exportCmd(d),
			migrateCmd(d),
			faviconCmd(d),
		},
	}

	// Errors are printed by main, not by urfave's default os.Exit handler.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}

	return app
}

// withSession runs the startup sequence before fn and closes storage after.
func withSession(d deps, fn func(c *cli.Context, s *session) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		s, err := openSession(c, d.exists)
		if err != nil {
			return err
		}
		defer s.close()
		return fn(c, s)
	}
}

func requireArgs(c *cli.Context, min, max int) error {
	if n := c.NArg(); n < min || (max >= 0 && n > max) {
		return fmt.Errorf("%w: usage: favme %s %s", errUsage, c.Command.Name, c.Command.ArgsUsage)
	}
	return nil
}

// listCmd creates the list command.
func listCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List favorites",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Usage: "Only list folder or website favorites"},
			&cli.BoolFlag{Name: "icons", Usage: "Resolve website favicons and mark entries that have one"},
		},
		Action: withSession(d, func(c *cli.Context, s *session) error {
			kinds := []model.Kind{model.KindFolder, model.KindWebsite}
			if k := c.String("kind"); k != "" {
				kind, err := model.ParseKind(k)
				if err != nil {
					return err
				}
				kinds = []model.Kind{kind}
			}

			var icons map[string]bool
			if c.Bool("icons") {
				icons = resolveIcons(c, d, s)
			}

			fmt.Fprint(c.App.Writer, renderList(s.fav, s.settings, kinds, icons))
			return nil
		}),
	}
}

func resolveIcons(c *cli.Context, d deps, s *session) map[string]bool {
	urls := make([]string, 0, len(s.fav.Websites))
	for _, e := range s.fav.Entries(model.KindWebsite) {
		urls = append(urls, e.Value)
	}

	r := favicon.New(favicon.Options{Client: d.client, Logger: s.log})
	found := r.ResolveAll(c.Context, urls, iconWorkers, func(done, total int) {
		s.log.Debug("favicon progress", logger.Int("done", done), logger.Int("total", total))
	})

	icons := make(map[string]bool, len(found))
	for u := range found {
		icons[u] = true
	}
	return icons
}

// addCmd creates the add command.
func addCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a favorite",
		ArgsUsage: "<folder|website> <name> <path-or-url>",
		Action: withSession(d, func(c *cli.Context, s *session) error {
			if err := requireArgs(c, 3, 3); err != nil {
				return err
			}
			kind, err := model.ParseKind(c.Args().Get(0))
			if err != nil {
				return err
			}
			value, err := favoriteValue(d, kind, c.Args().Get(2))
			if err != nil {
				return err
			}

			if err := s.fav.Add(kind, c.Args().Get(1), value); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "Added %s %q\n", kind, strings.TrimSpace(c.Args().Get(1)))
			return nil
		}),
	}
}

// favoriteValue resolves folder paths to absolute ones and rejects folders
// that do not exist, since startup would prune them anyway.
func favoriteValue(d deps, kind model.Kind, value string) (string, error) {
	value = strings.TrimSpace(value)
	if kind != model.KindFolder || value == "" {
		return value, nil
	}

	abs, err := filepath.Abs(value)
	if err != nil {
		return "", err
	}
	exists := d.exists
	if exists == nil {
		exists = reconcile.PathExists
	}
	if !exists(abs) {
		return "", fmt.Errorf("folder %s does not exist", abs)
	}
	return abs, nil
}

// editCmd creates the edit command.
func editCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:      "edit",
		Usage:     "Rename a favorite or change its path or URL",
		ArgsUsage: "<folder|website> <name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"},
			&cli.StringFlag{Name: "value", Usage: "New path or URL"},
		},
		Action: withSession(d, func(c *cli.Context, s *session) error {
			if err := requireArgs(c, 2, 2); err != nil {
				return err
			}
			if !c.IsSet("name") && !c.IsSet("value") {
				return fmt.Errorf("%w: nothing to change, pass --name or --value", errUsage)
			}
			kind, err := model.ParseKind(c.Args().Get(0))
			if err != nil {
				return err
			}

			oldName := c.Args().Get(1)
			current, ok := s.fav.Get(kind, oldName)
			if !ok {
				return fmt.Errorf("%w: %s %q", model.ErrNotFound, kind, oldName)
			}

			newName, newValue := oldName, current
			if c.IsSet("name") {
				newName = c.String("name")
			}
			if c.IsSet("value") {
				if newValue, err = favoriteValue(d, kind, c.String("value")); err != nil {
					return err
				}
			}

			if err := s.fav.Edit(kind, oldName, newName, newValue); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "Updated %s %q\n", kind, strings.TrimSpace(newName))
			return nil
		}),
	}
}

// deleteCmd creates the delete command.
func deleteCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a favorite",
		ArgsUsage: "<folder|website> <name>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
		},
		Action: withSession(d, func(c *cli.Context, s *session) error {
			if err := requireArgs(c, 2, 2); err != nil {
				return err
			}
			kind, err := model.ParseKind(c.Args().Get(0))
			if err != nil {
				return err
			}
			name := c.Args().Get(1)
			if _, ok := s.fav.Get(kind, name); !ok {
				return fmt.Errorf("%w: %s %q", model.ErrNotFound, kind, name)
			}

			if !c.Bool("yes") {
				fmt.Fprintf(c.App.Writer, "Delete %s %q? [y/N] ", kind, name)
				if !confirm(c) {
					fmt.Fprintln(c.App.Writer, "Cancelled")
					return nil
				}
			}

			if err := s.fav.Remove(kind, name); err != nil {
				return err
			}
			if err := s.save(); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "Deleted %s %q\n", kind, name)
			return nil
		}),
	}
}

func confirm(c *cli.Context) bool {
	line, err := bufio.NewReader(c.App.Reader).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// openCmd creates the open command.
func openCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "Fuzzy find a favorite and open it",
		ArgsUsage: "<query>",
		Action: withSession(d, func(c *cli.Context, s *session) error {
			e, ok, err := choose(c, s)
			if err != nil || !ok {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Opening: %s\n", e.Name)
			return d.launcher.Open(e)
		}),
	}
}

// copyCmd creates the copy command.
func copyCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:      "copy",
		Usage:     "Fuzzy find a favorite and copy its path or URL",
		ArgsUsage: "<query>",
		Action: withSession(d, func(c *cli.Context, s *session) error {
			e, ok, err := choose(c, s)
			if err != nil || !ok {
				return err
			}
			if err := d.launcher.Copy(e); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Copied: %s\n", e.Value)
			return nil
		}),
	}
}

// choose resolves a query to one entry, asking with the picker when the
// match is ambiguous. ok is false when nothing matched or the user cancelled.
func choose(c *cli.Context, s *session) (model.Entry, bool, error) {
	if err := requireArgs(c, 1, -1); err != nil {
		return model.Entry{}, false, err
	}
	query := strings.Join(c.Args().Slice(), " ")

	results := search.Find(s.fav, query)
	if len(results) == 0 {
		fmt.Fprintf(c.App.Writer, "No favorites found for '%s'\n", query)
		return model.Entry{}, false, nil
	}
	if e, ok := search.Pick(results, query); ok {
		return e, true, nil
	}

	program := tea.NewProgram(picker.New(results, query), tea.WithOutput(c.App.ErrWriter))
	final, err := program.Run()
	if err != nil {
		return model.Entry{}, false, fmt.Errorf("failed to run picker: %w", err)
	}
	e, ok := final.(picker.Picker).Selected()
	return e, ok, nil
}

// settingsCmd creates the settings command and its set subcommand.
func settingsCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:  "settings",
		Usage: "Show or change appearance settings",
		Action: withSession(d, func(c *cli.Context, s *session) error {
			fmt.Fprint(c.App.Writer, renderSettings(s.settings))
			return nil
		}),
		Subcommands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Change appearance settings",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "appearance", Aliases: []string{"a"}, Usage: "Appearance mode (" + strings.Join(model.AppearanceModes, ", ") + ")"},
					&cli.StringFlag{Name: "theme", Aliases: []string{"t"}, Usage: "Color theme (" + strings.Join(model.ColorThemes, ", ") + ")"},
				},
				Action: withSession(d, func(c *cli.Context, s *session) error {
					if !c.IsSet("appearance") && !c.IsSet("theme") {
						return fmt.Errorf("%w: nothing to change, pass --appearance or --theme", errUsage)
					}

					next := s.settings
					if c.IsSet("appearance") {
						next.AppearanceMode = c.String("appearance")
						if !model.IsAppearanceMode(next.AppearanceMode) {
							return fmt.Errorf("unknown appearance mode %q (want one of %s)",
								next.AppearanceMode, strings.Join(model.AppearanceModes, ", "))
						}
					}
					if c.IsSet("theme") {
						next.ColorTheme = c.String("theme")
						if !model.IsColorTheme(next.ColorTheme) {
							return fmt.Errorf("unknown color theme %q (want one of %s)",
								next.ColorTheme, strings.Join(model.ColorThemes, ", "))
						}
					}

					if err := s.prefs.Save(next); err != nil {
						return err
					}
					s.settings = next
					fmt.Fprint(c.App.Writer, renderSettings(next))
					return nil
				}),
			},
		},
	}
}

// importCmd creates the import command.
func importCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Merge favorites from a browser HTML export or a YAML/JSON document",
		ArgsUsage: "<file>",
		Action: withSession(d, func(c *cli.Context, s *session) error {
			if err := requireArgs(c, 1, 1); err != nil {
				return err
			}
			entries, err := importer.ParseFile(c.Args().First())
			if err != nil {
				return err
			}

			added, skipped := s.fav.Merge(entries)
			if err := s.save(); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "Imported %d favorites", added)
			if skipped > 0 {
				fmt.Fprintf(c.App.Writer, " (%d duplicates skipped)", skipped)
			}
			fmt.Fprintln(c.App.Writer)
			return nil
		}),
	}
}

// exportCmd creates the export command.
func exportCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write favorites as a Netscape bookmark HTML file",
		ArgsUsage: "[path]",
		Action: withSession(d, func(c *cli.Context, s *session) error {
			if err := requireArgs(c, 0, 1); err != nil {
				return err
			}
			outputPath := c.Args().First()
			if outputPath == "" {
				var err error
				if outputPath, err = exporter.DefaultExportPath(); err != nil {
					return err
				}
			}

			if err := os.WriteFile(outputPath, []byte(exporter.ExportHTML(s.fav)), 0644); err != nil {
				return fmt.Errorf("failed to write export: %w", err)
			}

			fmt.Fprintf(c.App.Writer, "Exported %d folders, %d websites to %s\n",
				len(s.fav.Folders), len(s.fav.Websites), outputPath)
			return nil
		}),
	}
}

// migrateCmd creates the migrate command.
func migrateCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Move favorites from the JSON file into a SQLite database",
		Action: withSession(d, func(c *cli.Context, s *session) error {
			if _, ok := s.store.(*storage.SQLiteStorage); ok {
				return errors.New("favorites are already stored in SQLite")
			}

			dbPath := filepath.Join(s.dir, storage.SQLiteFile)
			db, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Save(s.fav); err != nil {
				return err
			}
			s.log.Info("migrated favorites", logger.String("path", dbPath))

			fmt.Fprintf(c.App.Writer, "Migrated %d favorites to %s\n", len(s.fav.All()), dbPath)
			return nil
		}),
	}
}

// faviconCmd creates the favicon command.
func faviconCmd(d deps) *cli.Command {
	return &cli.Command{
		Name:      "favicon",
		Usage:     "Resolve a website's favicon",
		ArgsUsage: "<url>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write the resized icon as PNG"},
			&cli.IntFlag{Name: "size", Value: favicon.DefaultSize, Usage: "Icon width and height in pixels"},
			&cli.BoolFlag{Name: "find", Usage: "Only print the icon URL"},
		},
		Action: withSession(d, func(c *cli.Context, s *session) error {
			if err := requireArgs(c, 1, 1); err != nil {
				return err
			}
			if c.Int("size") <= 0 {
				return fmt.Errorf("%w: --size must be positive", errUsage)
			}
			r := favicon.New(favicon.Options{Client: d.client, Size: c.Int("size"), Logger: s.log})
			target := c.Args().First()

			if c.Bool("find") {
				iconURL, err := r.FindIconURL(c.Context, target)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, iconURL)
				return nil
			}

			img, err := r.Resolve(c.Context, target)
			if err != nil {
				return err
			}

			out := c.String("output")
			if out == "" {
				b := img.Bounds()
				fmt.Fprintf(c.App.Writer, "Resolved %dx%d icon for %s\n", b.Dx(), b.Dy(), target)
				return nil
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := png.Encode(f, img); err != nil {
				f.Close()
				return fmt.Errorf("failed to encode icon: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "Wrote %s\n", out)
			return nil
		}),
	}
}
