package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/timeindex/internal/cell"
	"github.com/roach88/timeindex/internal/timeindex"
)

// DecodeOptions holds flags for the decode command.
type DecodeOptions struct {
	*RootOptions
	Identity bool // decode an identity tag instead of a payload
}

// DecodedRecord is the decode payload for cell data.
type DecodedRecord struct {
	Index   uint8 `json:"index"`
	Modulus uint8 `json:"modulus"`
	Next    uint8 `json:"next"`
}

// DecodedIdentity is the decode payload for an identity tag.
type DecodedIdentity struct {
	TxHash string `json:"tx_hash"`
	Index  uint32 `json:"index"`
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decode <hex>",
		Short: "Decode time index cell data or an identity tag",
		Long: `Decode the hex data of a time index cell and show its index and the
index its successor must carry. With --identity, decode type script args as
the out-point they are bound to.

A payload that would be rejected prints the failure kind and code and
exits with status 1.

Examples:
  timeindex decode 0x0b0c
  timeindex decode --identity 0x<64 hex tx hash><8 hex LE index>`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Identity, "identity", false, "decode an identity tag (36-byte out-point)")

	return cmd
}

func runDecode(opts *DecodeOptions, input string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	data, err := cell.DecodeHex(input)
	if err != nil {
		formatter.Error(CodeDecodeFailed, fmt.Sprintf("invalid hex: %v", err), input)
		return WrapExitError(ExitCommandError, "invalid hex", err)
	}

	if opts.Identity {
		op, err := cell.DecodeOutPoint(data)
		if err != nil {
			formatter.Error(CodeDecodeFailed, err.Error(), input)
			return WrapExitError(ExitFailure, "invalid identity tag", err)
		}
		if formatter.JSON() {
			return formatter.Success(DecodedIdentity{TxHash: op.TxHash.String(), Index: op.Index})
		}
		return formatter.Success(fmt.Sprintf("tx_hash: %s\nindex:   %d", op.TxHash, op.Index))
	}

	rec, err := timeindex.DecodeRecord(data)
	if err != nil {
		kind := timeindex.KindOf(err)
		formatter.Error(CodeDecodeFailed, err.Error(), map[string]any{
			"kind":   kind.String(),
			"code":   kind.Code(),
			"reason": string(timeindex.ReasonOf(err)),
		})
		return WrapExitError(ExitFailure, "payload rejected", err)
	}

	out := DecodedRecord{Index: rec.Index, Modulus: rec.Modulus, Next: timeindex.Next(rec.Index)}
	if formatter.JSON() {
		return formatter.Success(out)
	}
	return formatter.Success(fmt.Sprintf("index:   %d\nmodulus: %d\nnext:    %d", out.Index, out.Modulus, out.Next))
}
