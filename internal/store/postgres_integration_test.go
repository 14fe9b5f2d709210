package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/rootmodel/internal/testinfra"
)

func TestPostgresExporter(t *testing.T) {
	dsn := testinfra.RequireDatabase(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	exp, err := NewPostgresExporter(ctx, dsn, nil)
	require.NoError(t, err)
	defer exp.Close()

	for i := 0; i < 2; i++ {
		_, err = ExportModel(ctx, exp, sampleModel())
		require.NoError(t, err)
	}

	var roots, points int
	require.NoError(t, exp.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM roots`).Scan(&roots))
	require.NoError(t, exp.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM points`).Scan(&points))
	assert.Equal(t, 3, roots)
	assert.Equal(t, 7, points)

	var captured time.Time
	require.NoError(t, exp.Pool().QueryRow(ctx, `SELECT capture_date FROM entries WHERE entry_id = 1`).Scan(&captured))
	assert.True(t, captured.Equal(day1))
}

func TestNewPostgresExporter_EmptyDSN(t *testing.T) {
	_, err := NewPostgresExporter(context.Background(), "", nil)
	assert.Error(t, err)
}
