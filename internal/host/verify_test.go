package host

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timeindex/internal/cell"
	"github.com/roach88/timeindex/internal/testutil"
	"github.com/roach88/timeindex/internal/timeindex"
)

var funding = testutil.OutPoint(0x11, 0)

func lineage() *cell.Script {
	return testutil.TypeScript(DefaultCodeHash, funding.Bytes())
}

func createTx(outputs ...cell.Output) *cell.ResolvedTx {
	b := testutil.NewTx().Input(funding, testutil.PlainCell(1000))
	for _, o := range outputs {
		b.Output(o)
	}
	return b.Build()
}

func updateTx(in uint8, outputs ...cell.Output) *cell.ResolvedTx {
	b := testutil.NewTx().Input(testutil.OutPoint(0x22, 0), testutil.RecordCell(lineage(), in))
	for _, o := range outputs {
		b.Output(o)
	}
	return b.Build()
}

func TestVerify_CreateSuccess(t *testing.T) {
	v := NewVerifier(DefaultCodeHash)
	report, err := v.Verify(createTx(testutil.RecordCell(lineage(), 0)))
	require.NoError(t, err)
	assert.True(t, report.Accepted())
	assert.Equal(t, []string{"create"}, report.Paths())
}

func TestVerify_UpdateSuccess(t *testing.T) {
	v := NewVerifier(DefaultCodeHash)
	report, err := v.Verify(updateTx(0, testutil.RecordCell(lineage(), 1)))
	require.NoError(t, err)
	assert.True(t, report.Accepted())
	assert.Equal(t, []string{"update"}, report.Paths())
}

func TestVerify_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		tx       *cell.ResolvedTx
		kind     timeindex.Kind
		location string
	}{
		{
			name:     "create with two outputs",
			tx:       createTx(testutil.RecordCell(lineage(), 0), testutil.RecordCell(lineage(), 0)),
			kind:     timeindex.KindInvalidOutput,
			location: "output_type_script(0)",
		},
		{
			name:     "create at index one",
			tx:       createTx(testutil.RecordCell(lineage(), 1)),
			kind:     timeindex.KindInvalidTransition,
			location: "output_type_script(0)",
		},
		{
			name:     "create with unrelated args",
			tx:       createTx(testutil.RecordCell(testutil.TypeScript(DefaultCodeHash, []byte("test args")), 0)),
			kind:     timeindex.KindInvalidArgument,
			location: "output_type_script(0)",
		},
		{
			name:     "update with two outputs",
			tx:       updateTx(0, testutil.RecordCell(lineage(), 1), testutil.RecordCell(lineage(), 1)),
			kind:     timeindex.KindInvalidOutput,
			location: "input_type_script(0)",
		},
		{
			name:     "update standing still",
			tx:       updateTx(0, testutil.RecordCell(lineage(), 0)),
			kind:     timeindex.KindInvalidTransition,
			location: "input_type_script(0)",
		},
		{
			name: "update with two inputs",
			tx: testutil.NewTx().
				Input(testutil.OutPoint(0x22, 0), testutil.RecordCell(lineage(), 0)).
				Input(testutil.OutPoint(0x22, 1), testutil.RecordCell(lineage(), 0)).
				Output(testutil.RecordCell(lineage(), 1)).
				Build(),
			kind:     timeindex.KindInvalidInput,
			location: "input_type_script(0)",
		},
		{
			name: "update with empty args",
			tx: testutil.NewTx().
				Input(testutil.OutPoint(0x22, 0), testutil.RecordCell(testutil.TypeScript(DefaultCodeHash, []byte{}), 0)).
				Output(testutil.RecordCell(testutil.TypeScript(DefaultCodeHash, []byte{}), 1)).
				Build(),
			kind:     timeindex.KindInvalidArgument,
			location: "input_type_script(0)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewVerifier(DefaultCodeHash).Verify(tt.tx)
			require.Error(t, err)
			assert.False(t, report.Accepted())

			se, ok := AsScriptError(err)
			require.True(t, ok)
			assert.Equal(t, tt.location, se.Location)
			assert.Equal(t, tt.kind.Code(), se.Code())
			assert.True(t, timeindex.IsKind(err, tt.kind))
		})
	}
}

func TestVerify_WraparoundPair(t *testing.T) {
	v := NewVerifier(DefaultCodeHash)

	_, err := v.Verify(updateTx(11, testutil.RecordCell(lineage(), 0)))
	require.NoError(t, err)

	_, err = v.Verify(updateTx(11, testutil.RecordCell(lineage(), 1)))
	require.Error(t, err)
	assert.True(t, timeindex.IsKind(err, timeindex.KindInvalidTransition))
}

func TestVerify_IgnoresForeignScripts(t *testing.T) {
	foreign := testutil.TypeScript(cell.Hash{0x99}, []byte("whatever"))
	rtx := createTx(testutil.RecordCell(foreign, 7), testutil.RecordCell(foreign, 7))

	report, err := NewVerifier(DefaultCodeHash).Verify(rtx)
	require.NoError(t, err)
	assert.Empty(t, report.Groups)
	assert.True(t, report.Accepted())
}

func TestVerify_StopsAtFirstRejectedGroup(t *testing.T) {
	bad := testutil.TypeScript(DefaultCodeHash, []byte("bad"))
	rtx := createTx(testutil.RecordCell(lineage(), 0), testutil.RecordCell(bad, 0))

	report, err := NewVerifier(DefaultCodeHash).Verify(rtx)
	require.Error(t, err)
	require.Len(t, report.Groups, 2)
	assert.NoError(t, report.Groups[0].Err)
	assert.Error(t, report.Groups[1].Err)
	assert.Equal(t, "output_type_script(1)", report.Groups[1].Location)
}

func TestVerifier_CodeHash(t *testing.T) {
	assert.Equal(t, DefaultCodeHash, NewVerifier(DefaultCodeHash).CodeHash())
	assert.Equal(t, cell.Hash{0x42}, NewVerifier(cell.Hash{0x42}).CodeHash())
}

func TestVerify_Logs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	v := NewVerifier(DefaultCodeHash, WithLogger(logger))

	_, err := v.Verify(createTx(testutil.RecordCell(lineage(), 3)))
	require.Error(t, err)
	assert.Contains(t, buf.String(), "verifying script group")
	assert.Contains(t, buf.String(), "kind=InvalidTransition")
	assert.Contains(t, buf.String(), "code=9")
}

func TestScriptError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	se := &ScriptError{Location: "input_type_script(0)", Err: inner}
	assert.ErrorIs(t, se, inner)
	assert.Equal(t, "input_type_script(0): inner", se.Error())

	_, ok := AsScriptError(inner)
	assert.False(t, ok)
}
