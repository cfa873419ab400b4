package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModels_List(t *testing.T) {
	out, err := execute(t, Env{}, "models")
	require.NoError(t, err)

	assert.Contains(t, out, "MODEL")
	assert.Contains(t, out, "calmodulin")
	assert.Contains(t, out, "Prot_inact, Prot_act")
	assert.Contains(t, out, "pkc")
	assert.Contains(t, out, "inert")
}

func TestModels_ListJSON(t *testing.T) {
	out, err := execute(t, Env{}, "--format", "json", "models")
	require.NoError(t, err)

	var infos []ModelInfo
	decodeResponse(t, out, &infos)

	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	assert.ElementsMatch(t, []string{"calmodulin", "pkc", "inert"}, names)
}

func TestModels_Describe(t *testing.T) {
	out, err := execute(t, Env{}, "models", "calmodulin")
	require.NoError(t, err)

	assert.Contains(t, out, "calmodulin (2 reactions)")
	assert.Contains(t, out, "species: Prot_inact, Prot_act")
	assert.Contains(t, out, "vols:")
	assert.Contains(t, out, "init_conc:")
	assert.Contains(t, out, "params:")
}

func TestModels_DescribeJSON(t *testing.T) {
	out, err := execute(t, Env{}, "--format", "json", "models", "inert")
	require.NoError(t, err)

	var info ModelInfo
	decodeResponse(t, out, &info)
	assert.Equal(t, "inert", info.Name)
	assert.Equal(t, []string{"X"}, info.Species)

	vol, ok := info.Parameters.Volumes.Get("vol")
	require.True(t, ok)
	assert.Equal(t, 1e-15, vol)
}

func TestModels_Unknown(t *testing.T) {
	out, err := execute(t, Env{}, "models", "troponin")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E002]")
}
