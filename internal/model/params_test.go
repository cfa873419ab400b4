package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParamSet_Overlay(t *testing.T) {
	base := ParamSet{{Name: "a", Value: 1}, {Name: "b", Value: 2}}

	got := base.Overlay(map[string]float64{"b": 20, "zzz": 99})

	assert.Equal(t, ParamSet{{Name: "a", Value: 1}, {Name: "b", Value: 20}}, got)
	assert.Equal(t, 2.0, base[1].Value, "base must not be mutated")
	_, added := got.Get("zzz")
	assert.False(t, added, "unmatched names are ignored, not added")
}

func TestParamSet_OverlayNil(t *testing.T) {
	base := ParamSet{{Name: "a", Value: 1}}
	assert.Equal(t, base, base.Overlay(nil))
}

func TestParamSet_Unmatched(t *testing.T) {
	base := ParamSet{{Name: "a", Value: 1}}
	assert.Equal(t, []string{"x", "y"}, base.Unmatched(map[string]float64{"y": 1, "a": 2, "x": 3}))
	assert.Empty(t, base.Unmatched(map[string]float64{"a": 2}))
}

func TestParameters_Overlay(t *testing.T) {
	defaults := NewCalmodulin().DefaultParameters()

	merged := defaults.Overlay(Overrides{
		Volumes:               map[string]float64{"vol": 1e-13},
		InitialConcentrations: map[string]float64{"Prot_act": 1.5, "Nope": 3},
		Kinetics:              map[string]float64{"h": 2},
	})

	vol, err := merged.Volume()
	require.NoError(t, err)
	assert.Equal(t, 1e-13, vol)

	act, _ := merged.InitialConcentrations.Get("Prot_act")
	assert.Equal(t, 1.5, act)
	assert.Len(t, merged.InitialConcentrations, 2)

	h, _ := merged.Kinetics.Get("h")
	assert.Equal(t, 2.0, h)

	origH, _ := defaults.Kinetics.Get("h")
	assert.Equal(t, 4.0, origH)
}

func TestOverrides_IsEmpty(t *testing.T) {
	assert.True(t, Overrides{}.IsEmpty())
	assert.False(t, Overrides{Kinetics: map[string]float64{"h": 1}}.IsEmpty())
}

func TestParameters_VolumeMissing(t *testing.T) {
	_, err := Parameters{}.Volume()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vol")
}

func TestParameters_InitialVector(t *testing.T) {
	m := NewCalmodulin()

	tests := []struct {
		name    string
		initial ParamSet
		want    []float64
		wantErr string
	}{
		{
			name:    "declaration order follows species",
			initial: ParamSet{{Name: "Prot_act", Value: 2}, {Name: "Prot_inact", Value: 3}},
			want:    []float64{3, 2},
		},
		{
			name:    "missing species",
			initial: ParamSet{{Name: "Prot_inact", Value: 3}},
			wantErr: "Prot_act",
		},
		{
			name:    "negative concentration",
			initial: ParamSet{{Name: "Prot_inact", Value: -1}, {Name: "Prot_act", Value: 0}},
			wantErr: ">= 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parameters{InitialConcentrations: tt.initial}.InitialVector(m)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{"calmodulin", "inert", "pkc"}, r.Names())

	m, err := r.Lookup("pkc")
	require.NoError(t, err)
	assert.Equal(t, "pkc", m.Name())

	_, err = r.Lookup("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown model")

	err = r.Register(NewCalmodulin())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	assert.Error(t, r.Register(nil))
}
