package commands

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

//go:embed all:templates
var templateFS embed.FS

// dotfiles are stored without their leading dot so that tooling ignores
// them inside the template tree.
var dotfiles = map[string]bool{"gitignore": true}

// scaffold writes the files of the named template below dir and returns
// the slash-separated paths it wrote. Existing files are left alone unless
// overwrite is set.
func scaffold(name, dir string, overwrite bool) ([]string, error) {
	tmpl, err := fs.Sub(templateFS, path.Join("templates", name))
	if err != nil {
		return nil, err
	}

	var written []string
	err = fs.WalkDir(tmpl, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || p == "." {
			return err
		}
		rel := targetName(p)
		dst := filepath.Join(dir, filepath.FromSlash(rel))
		if d.IsDir() {
			return os.MkdirAll(dst, 0750)
		}

		_, statErr := os.Stat(dst)
		switch {
		case statErr == nil && !overwrite:
			return nil
		case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
			return statErr
		}

		data, err := fs.ReadFile(tmpl, p)
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0600); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})
	return written, err
}

// targetName maps a template path to the path written on disk.
func targetName(p string) string {
	if dir, base := path.Split(p); dotfiles[base] {
		return dir + "." + base
	}
	return p
}
