package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashWithDomain_SeparatesDomains(t *testing.T) {
	data := []byte("payload")
	a := HashWithDomain(DomainTransaction, data)
	b := HashWithDomain(DomainGenesis, data)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, HashWithDomain(DomainTransaction, data))
}

func TestHashWithDomain_BoundaryAmbiguity(t *testing.T) {
	// "ab"+"c" and "a"+"bc" must not collide.
	assert.NotEqual(t, HashWithDomain("ab", []byte("c")), HashWithDomain("a", []byte("bc")))
}

func TestDigest_Deterministic(t *testing.T) {
	v := map[string]any{"b": 1, "a": "x"}
	d1, err := Digest(DomainTransaction, v)
	require.NoError(t, err)
	d2, err := Digest(DomainTransaction, map[string]any{"a": "x", "b": 1})
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestDigest_PropagatesMarshalError(t *testing.T) {
	_, err := Digest(DomainTransaction, 2.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), DomainTransaction)
}

func TestSum256_Length(t *testing.T) {
	sum := Sum256([]byte("time_index_state_type_script"))
	assert.Len(t, sum, 32)
	assert.NotEqual(t, [32]byte{}, sum)
}
