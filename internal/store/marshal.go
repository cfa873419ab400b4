package store

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/roach88/camod/internal/canon"
)

// marshalFloats converts a row of concentrations to canonical JSON TEXT.
// Shortest round-trip formatting keeps every value bit-exact on reload.
func marshalFloats(values []float64) (string, error) {
	data, err := canon.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal concentrations: %w", err)
	}
	return string(data), nil
}

// marshalSpecies converts species names to canonical JSON TEXT.
func marshalSpecies(species []string) (string, error) {
	data, err := canon.Marshal(species)
	if err != nil {
		return "", fmt.Errorf("marshal species: %w", err)
	}
	return string(data), nil
}

// marshalConfig canonicalizes a JSON configuration document.
func marshalConfig(raw []byte) (string, error) {
	data, err := canon.MarshalValue(json.RawMessage(raw))
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}

func unmarshalFloats(data string) ([]float64, error) {
	var out []float64
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("unmarshal concentrations: %w", err)
	}
	return out, nil
}

func unmarshalSpecies(data string) ([]string, error) {
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("unmarshal species: %w", err)
	}
	return out, nil
}

func formatSeed(seed uint64) string { return strconv.FormatUint(seed, 10) }

func parseSeed(s string) (uint64, error) {
	seed, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse seed %q: %w", s, err)
	}
	return seed, nil
}
