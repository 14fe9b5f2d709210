package assembler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/vvka-141/rootmodel/internal/dates"
	"github.com/vvka-141/rootmodel/internal/document"
	"github.com/vvka-141/rootmodel/internal/extract"
	"github.com/vvka-141/rootmodel/internal/logging"
	"github.com/vvka-141/rootmodel/internal/metadata"
	"github.com/vvka-141/rootmodel/internal/model"
	"github.com/vvka-141/rootmodel/internal/tree"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// Options control one assembly run.
type Options struct {
	Mode   rootmodel.Mode
	Strict bool
}

// Status of one input file.
type Status string

const (
	StatusLoaded   Status = "loaded"
	StatusSkipped  Status = "skipped"
	StatusReplaced Status = "replaced"
)

// FileOutcome reports what happened to one input path.
type FileOutcome struct {
	Path         string
	Status       Status
	CaptureDate  time.Time
	DateFallback bool
	Checksum     string
	Roots        int
	Err          error
}

// Result is the output of Assemble.
type Result struct {
	Model       *model.RootModel
	Aggregate   *model.Metadata
	Files       []FileOutcome
	Diagnostics []rootmodel.Diagnostic
}

// Loaded returns the number of files that contributed to the model.
func (r *Result) Loaded() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == StatusLoaded {
			n++
		}
	}
	return n
}

// Skipped returns the number of files excluded from the model.
func (r *Result) Skipped() int {
	n := 0
	for _, f := range r.Files {
		if f.Status == StatusSkipped {
			n++
		}
	}
	return n
}

// Assembler wires the pipeline stages together.
type Assembler struct {
	loader   *document.Loader
	resolver *dates.Resolver
	metadata *metadata.Aggregator
	logger   rootmodel.Logger
}

// New creates an assembler. A nil logger discards output.
func New(loader *document.Loader, resolver *dates.Resolver, logger rootmodel.Logger) *Assembler {
	if loader == nil {
		loader = document.NewLoader()
	}
	if resolver == nil {
		resolver = dates.NewResolver(nil)
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Assembler{
		loader:   loader,
		resolver: resolver,
		metadata: metadata.NewAggregator(resolver),
		logger:   logger,
	}
}

// parsed is the per-file intermediate product.
type parsed struct {
	outcome    FileOutcome
	extraction *extract.Extraction
	metadata   *model.Metadata
}

// Assemble processes paths in order. It returns ErrNoInput for an empty
// list and, alongside the partial result, ErrNoUsableFiles when every file
// was skipped. With opts.Strict a NotFound or MalformedDocument error is
// returned as soon as it occurs.
func (a *Assembler) Assemble(ctx context.Context, paths []string, opts Options) (*Result, error) {
	if len(paths) == 0 {
		return nil, rootmodel.ErrNoInput
	}

	engine := extract.NewEngine(extract.StrategyFor(opts.Mode))
	result := &Result{Model: model.New()}
	var diags rootmodel.Diagnostics

	var files []*parsed
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := a.parse(engine, path, &diags)
		if err != nil {
			if opts.Strict && isFatal(err) {
				return nil, err
			}
			a.logger.Warn("skipping %s: %v", path, err)
			result.Files = append(result.Files, FileOutcome{Path: path, Status: StatusSkipped, Err: err})
			continue
		}
		a.logger.Verbose("loaded %s: %d roots, captured %s", path, p.outcome.Roots, p.outcome.CaptureDate.Format(time.RFC3339))
		files = append(files, p)
	}

	switch opts.Mode {
	case rootmodel.ModeTemporal:
		a.temporal(result, files, &diags)
	default:
		a.snapshot(result, files, &diags)
	}

	for _, p := range files {
		result.Files = append(result.Files, p.outcome)
	}
	sortOutcomes(result.Files, paths)

	for _, d := range diags.Items() {
		a.logger.Warn("%s", d.Error())
	}
	result.Diagnostics = diags.Items()

	if len(files) == 0 {
		return result, fmt.Errorf("%w: all %d input files were skipped", rootmodel.ErrNoUsableFiles, len(paths))
	}
	return result, nil
}

func (a *Assembler) parse(engine *extract.Engine, path string, diags *rootmodel.Diagnostics) (*parsed, error) {
	doc, err := a.loader.Load(path)
	if err != nil {
		return nil, err
	}

	resolution := a.resolver.InferEarliest(doc, diags)

	ext, err := engine.Extract(doc, resolution.Date, diags)
	if err != nil {
		return nil, err
	}

	md := a.metadata.Build(path, ext.Metadata, resolution.Date, diags)
	return &parsed{
		outcome: FileOutcome{
			Path:         path,
			Status:       StatusLoaded,
			CaptureDate:  resolution.Date,
			DateFallback: resolution.Fallback,
			Checksum:     doc.Checksum,
			Roots:        ext.RootCount(),
		},
		extraction: ext,
		metadata:   md,
	}, nil
}

// snapshot merges every file into a single entry.
func (a *Assembler) snapshot(result *Result, files []*parsed, diags *rootmodel.Diagnostics) {
	if len(files) == 0 {
		return
	}

	agg := files[0].metadata.Clone()
	for _, p := range files[1:] {
		a.metadata.Merge(agg, p.metadata, p.outcome.Path, diags)
	}
	date, _ := agg.FirstCaptureDate()

	scene := model.NewScene(date)
	builder := tree.NewBuilder(diags)
	var roots []*model.Root
	for _, p := range files {
		roots = append(roots, builder.Build(scene, p.extraction)...)
	}

	result.Model.Put(&model.Entry{Date: date, Scene: scene, Metadata: agg, Roots: roots})
	result.Aggregate = agg
}

// temporal keeps one entry per file. Files are applied in input order so
// the last file wins on a duplicate date.
func (a *Assembler) temporal(result *Result, files []*parsed, diags *rootmodel.Diagnostics) {
	builder := tree.NewBuilder(diags)
	byDate := make(map[time.Time]*parsed)

	for _, p := range files {
		date := p.outcome.CaptureDate
		scene := model.NewScene(date)
		roots := builder.Build(scene, p.extraction)

		if result.Model.Put(&model.Entry{Date: date, Scene: scene, Metadata: p.metadata, Roots: roots}) {
			prev := byDate[dateKey(date)]
			prev.outcome.Status = StatusReplaced
			diags.Addf(rootmodel.ErrDuplicateCaptureDate, p.outcome.Path, "", "capture-date",
				"capture date %s already used by %s, replacing it", date.Format(time.RFC3339), prev.outcome.Path)
		}
		byDate[dateKey(date)] = p

		if result.Aggregate == nil {
			result.Aggregate = p.metadata.Clone()
		} else {
			a.metadata.Merge(result.Aggregate, p.metadata, p.outcome.Path, diags)
		}
	}
}

// dateKey normalizes t for use as a map key. Equal instants map to the
// same key regardless of zone or monotonic reading.
func dateKey(t time.Time) time.Time {
	return t.UTC().Round(0)
}

func isFatal(err error) bool {
	return errors.Is(err, rootmodel.ErrNotFound) || errors.Is(err, rootmodel.ErrMalformedDocument)
}

// sortOutcomes restores input order.
func sortOutcomes(outcomes []FileOutcome, paths []string) {
	pos := make(map[string]int, len(paths))
	for i, p := range paths {
		if _, seen := pos[p]; !seen {
			pos[p] = i
		}
	}
	sort.SliceStable(outcomes, func(i, j int) bool {
		return pos[outcomes[i].Path] < pos[outcomes[j].Path]
	})
}
