package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timeindex/internal/cell"
	"github.com/roach88/timeindex/internal/testutil"
)

func TestGenesis_MintsLiveCells(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	points, err := s.Genesis(ctx, []cell.Output{testutil.PlainCell(1000), testutil.PlainCell(20)})
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, points[0].TxHash, points[1].TxHash)
	assert.Equal(t, uint32(1), points[1].Index)

	lc, err := s.LiveCell(ctx, points[0])
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), lc.Output.Capacity)
	assert.Nil(t, lc.Output.Type)
	assert.True(t, lc.Output.Lock.Equal(testutil.AlwaysSuccessLock()))
	assert.Equal(t, []byte{}, lc.Output.Data)
	assert.Equal(t, int64(1), lc.CreatedSeq)
}

func TestGenesis_RepeatedOutputsGetDistinctHashes(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	a, err := s.Genesis(ctx, []cell.Output{testutil.PlainCell(1)})
	require.NoError(t, err)
	b, err := s.Genesis(ctx, []cell.Output{testutil.PlainCell(1)})
	require.NoError(t, err)
	assert.NotEqual(t, a[0].TxHash, b[0].TxHash)
}

func TestResolveAndCommit(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	points, err := s.Genesis(ctx, []cell.Output{testutil.PlainCell(1000)})
	require.NoError(t, err)
	funding := points[0]

	typ := testutil.TypeScript(codeHash, funding.Bytes())
	rtx, err := s.Resolve(ctx, cell.Transaction{
		Inputs:  []cell.OutPoint{funding},
		Outputs: []cell.Output{testutil.RecordCell(typ, 0)},
	})
	require.NoError(t, err)
	require.Len(t, rtx.Inputs, 1)
	assert.Equal(t, uint64(1000), rtx.Inputs[0].Cell.Capacity)

	created, err := s.Commit(ctx, rtx)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, cell.OutPoint{TxHash: rtx.Hash, Index: 0}, created[0])

	_, err = s.LiveCell(ctx, funding)
	assert.ErrorIs(t, err, ErrDeadCell)

	lc, err := s.LiveCell(ctx, created[0])
	require.NoError(t, err)
	require.NotNil(t, lc.Output.Type)
	assert.True(t, lc.Output.Type.Equal(*typ))
	assert.Equal(t, []byte{0, 12}, lc.Output.Data)

	live, err := s.LiveByType(ctx, typ.Hash())
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, created[0], live[0].OutPoint)

	byCode, err := s.LiveByCodeHash(ctx, codeHash)
	require.NoError(t, err)
	assert.Len(t, byCode, 1)

	n, err := s.TxCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestResolve_UnknownInput(t *testing.T) {
	s := openTemp(t)

	_, err := s.Resolve(context.Background(), cell.Transaction{
		Inputs: []cell.OutPoint{testutil.OutPoint(9, 0)},
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestCommit_DoubleSpend(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	points, err := s.Genesis(ctx, []cell.Output{testutil.PlainCell(1000)})
	require.NoError(t, err)

	first, err := s.Resolve(ctx, cell.Transaction{
		Inputs:  points,
		Outputs: []cell.Output{testutil.PlainCell(999)},
	})
	require.NoError(t, err)
	second, err := s.Resolve(ctx, cell.Transaction{
		Inputs:  points,
		Outputs: []cell.Output{testutil.PlainCell(998)},
	})
	require.NoError(t, err)

	_, err = s.Commit(ctx, first)
	require.NoError(t, err)
	_, err = s.Commit(ctx, second)
	assert.ErrorIs(t, err, ErrDeadCell)

	// The failed commit left nothing behind.
	n, err := s.TxCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = s.LiveCell(ctx, cell.OutPoint{TxHash: second.Hash, Index: 0})
	assert.True(t, IsNotFound(err))
}

func TestLiveByType_EmptyIsNotNil(t *testing.T) {
	s := openTemp(t)
	live, err := s.LiveByType(context.Background(), cell.Hash{1})
	require.NoError(t, err)
	assert.NotNil(t, live)
	assert.Empty(t, live)
}
