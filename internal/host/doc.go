// Package host is the ledger-execution environment around the time index
// validator. It resolves the collaborator operations the validator needs
// against a resolved transaction (TxContext), discovers which time index
// type scripts a transaction touches, and runs the validator once per
// script group (Verifier).
//
// Only type scripts whose code hash equals the configured time index code
// hash are executed. Lock scripts and foreign type scripts are out of scope.
package host
