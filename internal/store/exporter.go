package store

import (
	"context"
	"fmt"

	"github.com/vvka-141/rootmodel/internal/model"
	"github.com/vvka-141/rootmodel/pkg/rootmodel"
)

// Exporter writes a flattened model to a database.
type Exporter interface {
	Export(ctx context.Context, rows *Rows) error
	Close() error
}

// ExportModel flattens m and writes it with e. Failures wrap ErrExportFailed.
func ExportModel(ctx context.Context, e Exporter, m *model.RootModel) (*Rows, error) {
	rows := Flatten(m)
	if err := e.Export(ctx, rows); err != nil {
		return nil, fmt.Errorf("%w: %w", rootmodel.ErrExportFailed, err)
	}
	return rows, nil
}

// tables in dependency order; deletes run in reverse.
var tables = []string{"entries", "roots", "points", "properties", "functions"}
