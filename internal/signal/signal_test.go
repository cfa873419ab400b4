package signal

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		times   []float64
		values  []float64
		wantErr string
	}{
		{"single sample", []float64{0}, []float64{1}, "at least 2"},
		{"empty", nil, nil, "at least 2"},
		{"length mismatch", []float64{0, 1}, []float64{1}, "2 times but 1 values"},
		{"equal times", []float64{0, 1, 1}, []float64{1, 2, 3}, "not after"},
		{"decreasing times", []float64{0, 2, 1}, []float64{1, 2, 3}, "not after"},
		{"nan value", []float64{0, 1}, []float64{math.NaN(), 1}, "not finite"},
		{"inf time", []float64{0, math.Inf(1)}, []float64{1, 1}, "not finite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.times, tt.values)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	times := []float64{0, 1}
	values := []float64{5, 6}
	s, err := New(times, values)
	require.NoError(t, err)

	times[0] = 100
	values[0] = 100
	assert.Equal(t, 0.0, s.TimeAt(0))
	assert.Equal(t, 5.0, s.ValueAt(0))
}

func TestSignal_StepFunction(t *testing.T) {
	s, err := New([]float64{0, 10, 20, 30}, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	assert.Equal(t, 4, s.Len())
	assert.Equal(t, 0.0, s.Start())
	assert.Equal(t, 30.0, s.End())

	assert.Equal(t, 10.0, s.NextChangeTime(0))
	assert.Equal(t, 30.0, s.NextChangeTime(2))
	assert.True(t, math.IsInf(s.NextChangeTime(3), 1))
	assert.True(t, math.IsInf(s.NextChangeTime(10), 1))

	assert.Equal(t, 2.0, s.ValueAt(1))
}

func TestSignal_IndexAt(t *testing.T) {
	s, err := New([]float64{0, 10, 20, 30}, []float64{1, 2, 3, 4})
	require.NoError(t, err)

	tests := []struct {
		t    float64
		want int
	}{
		{-5, 0},
		{0, 0},
		{9.99, 0},
		{10, 1},
		{25, 2},
		{30, 3},
		{100, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.IndexAt(tt.t), "t=%v", tt.t)
	}
}

func TestConstant(t *testing.T) {
	s, err := Constant(0, 100, 1.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 100}, s.Times())
	assert.Equal(t, []float64{1.5, 1.5}, s.Values())

	_, err = Constant(5, 5, 1)
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	input := `# calcium trace
time,Ca,other
0,1.0,x
0.5, 2.5 ,y
1,3,z
`
	s, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.5, 1}, s.Times())
	assert.Equal(t, []float64{1, 2.5, 3}, s.Values())
}

func TestReadCSV_CalciumColumnAlias(t *testing.T) {
	s, err := ReadCSV(strings.NewReader("Calcium,TIME\n4,0\n5,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2}, s.Times())
	assert.Equal(t, []float64{4, 5}, s.Values())
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "", "empty input"},
		{"no time column", "t,Ca\n0,1\n", "no \"time\" column"},
		{"no value column", "time,X\n0,1\n", "no \"Ca\" column"},
		{"bad number", "time,Ca\n0,abc\n1,2\n", "line 2: value"},
		{"too short", "time,Ca\n0,1\n", "at least 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.csv")
	require.NoError(t, os.WriteFile(path, []byte("time,Ca\n0,1\n10,2\n"), 0644))

	s, err := ReadCSVFile(path)
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.End())

	_, err = ReadCSVFile(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}
