package canon

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"

	"github.com/roach88/camod/internal/engine"
)

// Domain prefixes for fingerprints. The version suffix allows the encoding
// to change without colliding with stored digests.
const (
	DomainRunConfig = "camod/run-config/v1"
	DomainTable     = "camod/table/v1"
)

// newDomainHash starts SHA256(domain + 0x00 + data).
// The null byte keeps the domain/data boundary unambiguous.
func newDomainHash(domain string) hash.Hash {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	return h
}

func hashWithDomain(domain string, data []byte) string {
	h := newDomainHash(domain)
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RunConfigHash fingerprints a resolved run configuration. cfg is encoded
// through its JSON form, so two configs that serialize to the same JSON
// hash the same regardless of map order.
func RunConfigHash(cfg any) (string, error) {
	data, err := MarshalValue(cfg)
	if err != nil {
		return "", fmt.Errorf("RunConfigHash: %w", err)
	}
	return hashWithDomain(DomainRunConfig, data), nil
}

// TableDigest fingerprints an output table: its column names and every
// cell, in canonical JSON of the shape {"columns":[...],"rows":[[...]]}.
//
// The canonical bytes are streamed into the hash, so large tables are
// never materialized twice.
func TableDigest(t *engine.Table) (string, error) {
	h := newDomainHash(DomainTable)
	w := bufio.NewWriter(h)

	head, err := Marshal(t.Columns())
	if err != nil {
		return "", fmt.Errorf("TableDigest: %w", err)
	}
	w.WriteString(`{"columns":`)
	w.Write(head)
	w.WriteString(`,"rows":[`)
	for i := 0; i < t.Rows(); i++ {
		if i > 0 {
			w.WriteByte(',')
		}
		row, err := Marshal(t.Row(i))
		if err != nil {
			return "", fmt.Errorf("TableDigest: row %d: %w", i, err)
		}
		w.Write(row)
	}
	w.WriteString(`]}`)
	if err := w.Flush(); err != nil {
		return "", fmt.Errorf("TableDigest: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// MustRunConfigHash is like RunConfigHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRunConfigHash(cfg any) string {
	h, err := RunConfigHash(cfg)
	if err != nil {
		panic(err)
	}
	return h
}
