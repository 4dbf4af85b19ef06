package gallery

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// DirectoryLister lists image files shipped with the site under Root.
type DirectoryLister struct {
	Root string
}

// List returns "/<dir>/<file>" paths for every image directly inside dir,
// sorted. dir must stay inside Root.
func (d DirectoryLister) List(dir string) ([]string, error) {
	clean := path.Clean("/" + strings.TrimSpace(dir))
	if clean == "/" || strings.Contains(dir, "..") {
		return nil, ErrInvalidDirectory
	}
	root, err := filepath.Abs(d.Root)
	if err != nil {
		return nil, err
	}
	full := filepath.Join(root, filepath.FromSlash(clean))
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return nil, ErrInvalidDirectory
	}

	info, err := os.Stat(full)
	if err != nil || !info.IsDir() {
		return nil, ErrDirectoryNotFound
	}
	entries, err := os.ReadDir(full)
	if err != nil {
		return nil, err
	}
	out := []string{}
	for _, e := range entries {
		if e.IsDir() || !IsImage(e.Name()) {
			continue
		}
		out = append(out, path.Join(clean, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
