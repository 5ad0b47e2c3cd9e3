// Package canon provides the deterministic byte encodings used for
// content-addressed identity: RFC 8785 canonical JSON and domain-separated
// blake2b-256 digests.
//
// Every transaction hash and golden snapshot in this module is derived from
// these encodings, so their output must never change for a given input.
// Floats and nulls are rejected outright; integers are the only numbers.
package canon
