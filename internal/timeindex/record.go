package timeindex

const (
	// Modulus is the fixed cycle length of the counter.
	Modulus uint8 = 12
	// PayloadLen is the exact size of a record payload: [index, modulus].
	PayloadLen = 2
)

// Record is the decoded payload of a time index cell.
type Record struct {
	Index   uint8
	Modulus uint8
}

// NewRecord builds a record at index. It fails unless 0 <= index < Modulus.
func NewRecord(index uint8) (Record, error) {
	if index >= Modulus {
		return Record{}, newError(KindMalformedRecord, ReasonIndexOutOfRange,
			"index %d not below modulus %d", index, Modulus)
	}
	return Record{Index: index, Modulus: Modulus}, nil
}

// Encode returns the 2-byte payload.
func (r Record) Encode() []byte {
	return []byte{r.Index, r.Modulus}
}

// DecodeRecord validates and decodes a raw payload. The check is
// all-or-nothing: wrong length, an index at or past Modulus, or a self-check
// byte other than Modulus all fail with KindMalformedRecord.
func DecodeRecord(data []byte) (Record, error) {
	if len(data) != PayloadLen {
		return Record{}, newError(KindMalformedRecord, ReasonBadLength,
			"payload is %d bytes, want %d", len(data), PayloadLen)
	}
	if data[1] != Modulus {
		return Record{}, newError(KindMalformedRecord, ReasonBadModulus,
			"self-check byte is %d, want %d", data[1], Modulus)
	}
	if data[0] >= Modulus {
		return Record{}, newError(KindMalformedRecord, ReasonIndexOutOfRange,
			"index %d not below modulus %d", data[0], Modulus)
	}
	return Record{Index: data[0], Modulus: data[1]}, nil
}
