package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"

	"github.com/vvka-141/rootmodel/internal/files/filesystem"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// rsmlPattern matches RSML file names, including numbered time-lapse exports.
var rsmlPattern = regexp.MustCompile(`.*\.(rsml|rsml\d{2})$`)

// IsRSMLPath reports whether p names an RSML file.
func IsRSMLPath(p string) bool {
	return rsmlPattern.MatchString(p)
}

// Result lists the discovered files and the explicit inputs that were ignored.
type Result struct {
	Files   []string
	Ignored []string
}

// Scanner discovers RSML files.
type Scanner struct {
	fsProvider filesystem.FileSystemProvider
}

// NewScanner creates a scanner over the OS filesystem.
func NewScanner() *Scanner {
	return NewScannerWithFS(filesystem.NewOSFileSystem())
}

// NewScannerWithFS creates a scanner with a custom filesystem provider.
// Panics if fsProvider is nil.
func NewScannerWithFS(fsProvider filesystem.FileSystemProvider) *Scanner {
	if fsProvider == nil {
		panic("fsProvider cannot be nil")
	}
	return &Scanner{fsProvider: fsProvider}
}

// Expand resolves inputs into RSML paths, dropping duplicates.
func (s *Scanner) Expand(inputs []string) (Result, error) {
	if len(inputs) == 0 {
		return Result{}, rootmodel.ErrNoInput
	}

	var res Result
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			res.Files = append(res.Files, p)
		}
	}

	for _, input := range inputs {
		info, err := s.fsProvider.Stat(input)
		switch {
		case err != nil && errors.Is(err, fs.ErrNotExist):
			if IsRSMLPath(input) {
				add(input)
			} else {
				res.Ignored = append(res.Ignored, input)
			}
		case err != nil:
			return Result{}, fmt.Errorf("failed to access %s: %w", input, err)
		case info.IsDir():
			found, err := s.ScanDirectory(input)
			if err != nil {
				return Result{}, err
			}
			for _, p := range found {
				add(p)
			}
		case IsRSMLPath(input):
			add(input)
		default:
			res.Ignored = append(res.Ignored, input)
		}
	}
	return res, nil
}

// ScanDirectory returns every RSML file under dir, sorted by path.
func (s *Scanner) ScanDirectory(dir string) ([]string, error) {
	d, err := s.fsProvider.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory: %w", err)
	}

	var files []string
	err = d.Walk(func(file filesystem.File, err error) error {
		if err != nil {
			return fmt.Errorf("error walking path: %w", err)
		}
		if file.Info().IsDir() {
			return nil
		}
		if IsRSMLPath(file.Path()) {
			files = append(files, file.Path())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
