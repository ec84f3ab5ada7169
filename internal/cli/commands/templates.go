package commands

import (
	"embed"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed all:templates
var templateFS embed.FS

// dotfiles maps template names to the names they are written under; embed
// cannot carry a leading dot portably.
var dotfiles = map[string]string{
	"gitignore": ".gitignore",
}

// dumpsDir holds sample record dumps inside a project.
const dumpsDir = "dumps"

// scaffold is the result of writing a template into a project.
type scaffold struct {
	// Config lists written project files outside dumps/
	Config []string
	// Dumps lists written sample dumps
	Dumps []string
	// Kept lists files that already existed and were left alone
	Kept []string
}

// writeTemplate writes the embedded template into targetDir. Existing files
// are kept unless force is set. Paths in the result are slash-separated and
// relative to targetDir.
func writeTemplate(templateName, targetDir string, force bool) (*scaffold, error) {
	root := path.Join("templates", templateName)
	out := &scaffold{}

	err := fs.WalkDir(templateFS, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := strings.TrimPrefix(strings.TrimPrefix(p, root), "/")
		if rel == "" {
			return nil
		}
		if name, ok := dotfiles[path.Base(rel)]; ok {
			rel = path.Join(path.Dir(rel), name)
		}
		target := filepath.Join(targetDir, filepath.FromSlash(rel))

		if d.IsDir() {
			return os.MkdirAll(target, 0750)
		}
		if !force {
			if _, err := os.Stat(target); err == nil {
				out.Kept = append(out.Kept, rel)
				return nil
			}
		}

		content, err := templateFS.ReadFile(p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(target, content, 0600); err != nil {
			return err
		}
		if strings.HasPrefix(rel, dumpsDir+"/") {
			out.Dumps = append(out.Dumps, rel)
		} else {
			out.Config = append(out.Config, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
