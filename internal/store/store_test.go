package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timeindex/internal/cell"
	"github.com/roach88/timeindex/internal/testutil"
)

var codeHash = cell.Hash{0x74, 0x69}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.Genesis(context.Background(), []cell.Output{testutil.PlainCell(10)})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	n, err := s2.TxCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHeadSeq(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	seq, err := s.HeadSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	points, err := s.Genesis(ctx, []cell.Output{testutil.PlainCell(10)})
	require.NoError(t, err)
	_, err = s.Genesis(ctx, []cell.Output{testutil.PlainCell(20)})
	require.NoError(t, err)

	seq, err = s.HeadSeq(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)

	lc, err := s.LiveCell(ctx, points[0])
	require.NoError(t, err)
	assert.Equal(t, int64(1), lc.CreatedSeq)
}

func TestOpen_Pragmas(t *testing.T) {
	s := openTemp(t)
	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(":memory:")
	require.NoError(t, err)
	defer s.Close()

	n, err := s.TxCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestClose_NilDB(t *testing.T) {
	assert.NoError(t, (&Store{}).Close())
}
