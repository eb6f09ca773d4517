package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func layerIndexOf(layers [][]string, name string) int {
	for i, layer := range layers {
		for _, n := range layer {
			if n == name {
				return i
			}
		}
	}
	return -1
}

func TestPlanOrdersDependenciesBeforeDependents(t *testing.T) {
	layers, err := Plan([]string{"ipps", "opps"})
	require.NoError(t, err)

	assert.Less(t, layerIndexOf(layers, "drg"), layerIndexOf(layers, "ipps"))
	assert.Less(t, layerIndexOf(layers, "ioce"), layerIndexOf(layers, "opps"))
}

func TestPlanAddsUnrequestedDependenciesImplicitly(t *testing.T) {
	layers, err := Plan([]string{"ipps"})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, layerIndexOf(layers, "drg"), 0)
}

func TestPlanGroupsIndependentModulesInTheSameLayer(t *testing.T) {
	layers, err := Plan([]string{"snf", "hospice"})
	require.NoError(t, err)

	require.Len(t, layers, 1)
	assert.ElementsMatch(t, []string{"snf", "hospice"}, layers[0])
}

func TestPlanRejectsUnknownModule(t *testing.T) {
	_, err := Plan([]string{"not-a-real-module"})
	require.Error(t, err)
}
