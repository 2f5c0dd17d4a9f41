package gridfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/gridflow/internal/ctxlog"
)

// Loader reads grid definitions from disk. The zero value is ready to use.
type Loader struct{}

// NewLoader returns a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the grid at path, which may be a single grid file or a
// directory. Directories are scanned non-recursively; grid files inside are
// loaded in lexicographic order and merged into one model.
func (l *Loader) Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := collectGridFiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no grid files found at %s", path)
	}
	logger.Debug("Grid files collected.", "path", path, "count", len(files))

	model := &Model{}
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("reading grid file: %w", err)
		}
		part, err := parseGridFile(file, src)
		if err != nil {
			return nil, err
		}
		logger.Debug("Grid file parsed.", "file", file, "tasks", len(part.Tasks))
		model.merge(part)
	}

	if err := model.validate(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}
	logger.Debug("Grid model validated.", "tasks", len(model.Tasks))
	return model, nil
}

func parseGridFile(file string, src []byte) (*Model, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".hcl":
		return parseHCL(file, src)
	case ".yaml", ".yml":
		return parseYAML(file, src)
	default:
		return nil, fmt.Errorf("unsupported grid file extension: %s", file)
	}
}

func collectGridFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("locating grid path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading grid directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".hcl", ".yaml", ".yml":
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}
