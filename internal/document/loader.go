package document

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/beevik/etree"

	"github.com/vvka-141/rootmodel/internal/checksum"
	"github.com/vvka-141/rootmodel/internal/files/filesystem"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// Document is one loaded RSML file.
type Document struct {
	Path     string
	Tree     *etree.Document
	Checksum string // normalized SHA-256 of the file content
}

// Root returns the document element.
func (d *Document) Root() *etree.Element {
	return d.Tree.Root()
}

// BaseName returns the file name without directories.
func (d *Document) BaseName() string {
	p := d.Path
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		return p[i+1:]
	}
	return path.Base(p)
}

// Loader reads documents through a FileSystemProvider.
type Loader struct {
	fs       filesystem.FileSystemProvider
	checksum checksum.Calculator
}

// NewLoader creates a loader over the OS filesystem.
func NewLoader() *Loader {
	return NewLoaderWithFS(filesystem.NewOSFileSystem())
}

// NewLoaderWithFS creates a loader over a custom provider (e.g. an in-memory
// tree for tests or a Router that understands s3:// paths).
func NewLoaderWithFS(provider filesystem.FileSystemProvider) *Loader {
	return &Loader{fs: provider, checksum: checksum.New()}
}

// Load reads and parses the file at filePath.
func (l *Loader) Load(filePath string) (*Document, error) {
	data, err := l.fs.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{
				Path:    filePath,
				Kind:    rootmodel.ErrNotFound,
				Message: "file does not exist",
				Hint:    "Check the path, or list the directory to find .rsml files.",
			}
		}
		return nil, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	doc, err := Parse(filePath, data)
	if err != nil {
		return nil, err
	}
	doc.Checksum = l.checksum.CalculateNormalized(data)
	return doc, nil
}

// Parse builds a Document from raw bytes.
func Parse(filePath string, data []byte) (*Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(data); err != nil {
		return nil, wrapXMLError(err, filePath)
	}
	if tree.Root() == nil {
		return nil, &Error{
			Path:    filePath,
			Kind:    rootmodel.ErrMalformedDocument,
			Message: "document has no root element",
			Hint:    "The file is empty or contains only a prolog.",
		}
	}
	if err := checkSingleRoot(tree, filePath); err != nil {
		return nil, err
	}
	return &Document{Path: filePath, Tree: tree}, nil
}

// checkSingleRoot rejects documents with more than one top-level element
// or with text outside the document element.
func checkSingleRoot(tree *etree.Document, filePath string) error {
	elements := 0
	for _, tok := range tree.Child {
		switch t := tok.(type) {
		case *etree.Element:
			elements++
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return &Error{
					Path:    filePath,
					Kind:    rootmodel.ErrMalformedDocument,
					Message: fmt.Sprintf("text %q outside the document element", strings.TrimSpace(t.Data)),
					Hint:    "Only comments and processing instructions may appear around <rsml>.",
				}
			}
		}
	}
	if elements > 1 {
		return &Error{
			Path:    filePath,
			Kind:    rootmodel.ErrMalformedDocument,
			Message: fmt.Sprintf("content after the document element (%d top-level elements)", elements),
			Hint:    "A file holds exactly one <rsml> element. Concatenated exports must be split.",
		}
	}
	return nil
}
