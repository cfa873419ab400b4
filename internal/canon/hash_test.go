package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/camod/internal/engine"
)

func TestRunConfigHash_IgnoresMapOrder(t *testing.T) {
	a := map[string]any{"model": "pkc", "params": map[string]any{"k1": 1.0, "k2": 2.0}}
	b := map[string]any{"params": map[string]any{"k2": 2.0, "k1": 1.0}, "model": "pkc"}

	ha, err := RunConfigHash(a)
	require.NoError(t, err)
	hb, err := RunConfigHash(b)
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.Len(t, ha, 64, "SHA-256 hex is 64 characters")
}

func TestRunConfigHash_ChangesWithInput(t *testing.T) {
	a := MustRunConfigHash(map[string]any{"seed": 1})
	b := MustRunConfigHash(map[string]any{"seed": 2})
	assert.NotEqual(t, a, b)
}

func TestDomainSeparation(t *testing.T) {
	data := []byte(`{"columns":[],"rows":[]}`)
	assert.NotEqual(t,
		hashWithDomain(DomainRunConfig, data),
		hashWithDomain(DomainTable, data),
	)
}

func sampleTable(t *testing.T) *engine.Table {
	t.Helper()
	tbl := engine.NewTable([]string{"A", "B"}, 2)
	require.NoError(t, tbl.SetRow(0, 0, 1, []float64{5, 0}))
	require.NoError(t, tbl.SetRow(1, 1, 1, []float64{4, 1}))
	return tbl
}

func TestTableDigest_MatchesCanonicalBytes(t *testing.T) {
	tbl := sampleTable(t)

	got, err := TableDigest(tbl)
	require.NoError(t, err)

	want := hashWithDomain(DomainTable, []byte(`{"columns":["time","driving","A","B"],"rows":[[0,1,5,0],[1,1,4,1]]}`))
	assert.Equal(t, want, got)
}

func TestTableDigest_DetectsCellChange(t *testing.T) {
	a := sampleTable(t)
	b := sampleTable(t)
	require.NoError(t, b.SetRow(1, 1, 1, []float64{4, 1.0000000001}))

	da, err := TableDigest(a)
	require.NoError(t, err)
	db, err := TableDigest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)
}
