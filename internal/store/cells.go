package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/timeindex/internal/canon"
	"github.com/roach88/timeindex/internal/cell"
)

// LiveCell is an unspent cell and the seq of the transaction that made it.
type LiveCell struct {
	OutPoint   cell.OutPoint
	Output     cell.Output
	CreatedSeq int64
}

const cellColumns = `tx_hash, out_index, capacity, lock_code_hash, lock_hash_type, lock_args,
	type_code_hash, type_hash_type, type_args, data, created_seq`

// Genesis mints outputs as live cells of a transaction with no inputs and
// returns their out-points in order. Each call is a distinct genesis
// transaction even when outputs repeat.
func (s *Store) Genesis(ctx context.Context, outputs []cell.Output) ([]cell.OutPoint, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("genesis: begin: %w", err)
	}
	defer tx.Rollback()

	seq, err := nextSeq(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}

	body := cell.Transaction{Outputs: outputs}.Canonical()
	sum, err := canon.Digest(canon.DomainGenesis, map[string]any{"seq": seq, "tx": body})
	if err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	hash := cell.Hash(sum)

	if err := insertTransaction(ctx, tx, hash, seq, body); err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	points, err := insertOutputs(ctx, tx, hash, seq, outputs)
	if err != nil {
		return nil, fmt.Errorf("genesis: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("genesis: commit: %w", err)
	}
	return points, nil
}

// Resolve loads the live cell behind every input of tx and computes the
// transaction hash. Unknown inputs fail with ErrNotFound, spent ones with
// ErrDeadCell.
func (s *Store) Resolve(ctx context.Context, tx cell.Transaction) (*cell.ResolvedTx, error) {
	hash, err := tx.Hash()
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	rtx := &cell.ResolvedTx{
		Hash:    hash,
		Inputs:  make([]cell.ResolvedInput, len(tx.Inputs)),
		Outputs: tx.Outputs,
	}
	for i, op := range tx.Inputs {
		c, err := s.LiveCell(ctx, op)
		if err != nil {
			return nil, fmt.Errorf("resolve input %d: %w", i, err)
		}
		rtx.Inputs[i] = cell.ResolvedInput{OutPoint: op, Cell: c.Output}
	}
	return rtx, nil
}

// Commit applies rtx: its inputs are consumed and its outputs become live
// cells at OutPoint{rtx.Hash, i}. Nothing is written if any input is no
// longer live.
func (s *Store) Commit(ctx context.Context, rtx *cell.ResolvedTx) ([]cell.OutPoint, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("commit: begin: %w", err)
	}
	defer tx.Rollback()

	seq, err := nextSeq(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	if err := insertTransaction(ctx, tx, rtx.Hash, seq, rtx.Transaction().Canonical()); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	for i, in := range rtx.Inputs {
		res, err := tx.ExecContext(ctx, `
			UPDATE cells SET consumed_seq = ?
			WHERE tx_hash = ? AND out_index = ? AND consumed_seq IS NULL
		`, seq, in.OutPoint.TxHash[:], in.OutPoint.Index)
		if err != nil {
			return nil, fmt.Errorf("commit: consume input %d: %w", i, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("commit: consume input %d: %w", i, err)
		}
		if n != 1 {
			return nil, fmt.Errorf("commit: input %d %s: %w", i, in.OutPoint, ErrDeadCell)
		}
	}

	points, err := insertOutputs(ctx, tx, rtx.Hash, seq, rtx.Outputs)
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return points, nil
}

// LiveCell returns the unspent cell at op.
func (s *Store) LiveCell(ctx context.Context, op cell.OutPoint) (LiveCell, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+cellColumns+`, consumed_seq IS NOT NULL
		FROM cells
		WHERE tx_hash = ? AND out_index = ?
	`, op.TxHash[:], op.Index)

	var dead bool
	lc, err := scanCell(row, &dead)
	if errors.Is(err, sql.ErrNoRows) {
		return LiveCell{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return LiveCell{}, fmt.Errorf("read cell %s: %w", op, err)
	}
	if dead {
		return LiveCell{}, fmt.Errorf("%s: %w", op, ErrDeadCell)
	}
	return lc, nil
}

// LiveByType lists unspent cells whose type hash is typeHash.
func (s *Store) LiveByType(ctx context.Context, typeHash cell.Hash) ([]LiveCell, error) {
	return s.queryLive(ctx, "type_hash = ?", typeHash[:])
}

// LiveByCodeHash lists unspent cells whose type script has codeHash.
func (s *Store) LiveByCodeHash(ctx context.Context, codeHash cell.Hash) ([]LiveCell, error) {
	return s.queryLive(ctx, "type_code_hash = ?", codeHash[:])
}

func (s *Store) queryLive(ctx context.Context, where string, arg any) ([]LiveCell, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+cellColumns+`
		FROM cells
		WHERE `+where+` AND consumed_seq IS NULL
		ORDER BY created_seq ASC, tx_hash ASC, out_index ASC
	`, arg)
	if err != nil {
		return nil, fmt.Errorf("query live cells: %w", err)
	}
	defer rows.Close()

	cells := []LiveCell{}
	for rows.Next() {
		lc, err := scanCell(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("scan live cell: %w", err)
		}
		cells = append(cells, lc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate live cells: %w", err)
	}
	return cells, nil
}

func nextSeq(ctx context.Context, tx *sql.Tx) (int64, error) {
	var seq int64
	if err := tx.QueryRowContext(ctx, "SELECT COALESCE(MAX(seq), 0) + 1 FROM transactions").Scan(&seq); err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return seq, nil
}

func insertTransaction(ctx context.Context, tx *sql.Tx, hash cell.Hash, seq int64, body map[string]any) error {
	data, err := canon.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO transactions (tx_hash, seq, body) VALUES (?, ?, ?)",
		hash[:], seq, string(data),
	); err != nil {
		return fmt.Errorf("insert transaction %s: %w", hash, err)
	}
	return nil
}

func insertOutputs(ctx context.Context, tx *sql.Tx, hash cell.Hash, seq int64, outputs []cell.Output) ([]cell.OutPoint, error) {
	points := make([]cell.OutPoint, len(outputs))
	for i, out := range outputs {
		op := cell.OutPoint{TxHash: hash, Index: uint32(i)}

		var typeCode, typeArgs, typeHash []byte
		var typeHashType sql.NullInt64
		if out.Type != nil {
			h := out.Type.Hash()
			typeCode = out.Type.CodeHash[:]
			typeArgs = nonNil(out.Type.Args)
			typeHash = h[:]
			typeHashType = sql.NullInt64{Int64: int64(out.Type.HashType), Valid: true}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO cells (`+cellColumns+`, type_hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			hash[:], op.Index, int64(out.Capacity),
			out.Lock.CodeHash[:], int64(out.Lock.HashType), nonNil(out.Lock.Args),
			typeCode, typeHashType, typeArgs,
			nonNil(out.Data), seq, typeHash,
		); err != nil {
			return nil, fmt.Errorf("insert cell %s: %w", op, err)
		}
		points[i] = op
	}
	return points, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCell(row scanner, dead *bool) (LiveCell, error) {
	var (
		txHash, lockCode, lockArgs, typeCode, typeArgs, data []byte
		index                                                uint32
		capacity, lockHashType, createdSeq                   int64
		typeHashType                                         sql.NullInt64
	)
	dest := []any{&txHash, &index, &capacity, &lockCode, &lockHashType, &lockArgs,
		&typeCode, &typeHashType, &typeArgs, &data, &createdSeq}
	if dead != nil {
		dest = append(dest, dead)
	}
	if err := row.Scan(dest...); err != nil {
		return LiveCell{}, err
	}

	lc := LiveCell{
		OutPoint: cell.OutPoint{TxHash: toHash(txHash), Index: index},
		Output: cell.Output{
			Capacity: uint64(capacity),
			Lock: cell.Script{
				CodeHash: toHash(lockCode),
				HashType: cell.HashType(lockHashType),
				Args:     nonNil(lockArgs),
			},
			Data: nonNil(data),
		},
		CreatedSeq: createdSeq,
	}
	if typeCode != nil {
		lc.Output.Type = &cell.Script{
			CodeHash: toHash(typeCode),
			HashType: cell.HashType(typeHashType.Int64),
			Args:     nonNil(typeArgs),
		}
	}
	return lc, nil
}

func toHash(b []byte) cell.Hash {
	var h cell.Hash
	copy(h[:], b)
	return h
}

// nonNil keeps empty byte strings out of NULL columns.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}
