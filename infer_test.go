package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferLevel(t *testing.T) {
	table := DefaultLevelTable()

	t.Run("unique exact match", func(t *testing.T) {
		est, err := InferLevel(table, InferRequest{
			Base: hydreigonBase, IV: perfectIV,
			ObservedCP: 3325, ObservedHP: -1,
		})
		require.NoError(t, err)
		assert.Equal(t, 33.5, est.Level)
		assert.True(t, est.Exact)
		assert.Empty(t, est.Tied)
		assert.Equal(t, 3325, est.CP)
		assert.Equal(t, 173, est.HP)
		assert.InDelta(t, 0.7527645547, est.CPM, 1e-12)
	})

	t.Run("shadow best buddy build", func(t *testing.T) {
		est, err := InferLevel(table, InferRequest{
			Base:   BaseStats{Attack: 250, Defense: 180, Stamina: 180},
			IV:     IVSpread{Attack: 15, Defense: 13, Stamina: 14},
			Status: StatusFlags{Shadow: true, BestBuddy: true},
			ObservedCP: 3387, ObservedHP: -1,
		})
		require.NoError(t, err)
		assert.Equal(t, 36.5, est.Level)
		assert.True(t, est.Exact)
	})

	flatBase := BaseStats{Attack: 30, Defense: 30, Stamina: 30}

	t.Run("collision resolves to the lowest level", func(t *testing.T) {
		est, err := InferLevel(table, InferRequest{
			Base: flatBase, IV: IVSpread{},
			ObservedCP: 16, ObservedHP: -1,
		})
		require.NoError(t, err)
		assert.Equal(t, 10.0, est.Level)
		assert.True(t, est.Exact)
		assert.Empty(t, est.Tied)
	})

	t.Run("TieAll surfaces the tied set", func(t *testing.T) {
		est, err := InferLevel(table, InferRequest{
			Base: flatBase, IV: IVSpread{},
			ObservedCP: 16, ObservedHP: -1, Ties: TieAll,
		})
		require.NoError(t, err)
		assert.Equal(t, 10.0, est.Level)
		assert.Equal(t, []float64{10.0, 10.5}, est.Tied)
	})

	t.Run("HP that fits every candidate leaves the tie to policy", func(t *testing.T) {
		// both 10.0 and 10.5 yield 12 HP here
		est, err := InferLevel(table, InferRequest{
			Base: flatBase, IV: IVSpread{},
			ObservedCP: 16, ObservedHP: 12, Ties: TieAll,
		})
		require.NoError(t, err)
		assert.Equal(t, []float64{10.0, 10.5}, est.Tied)
	})

	t.Run("HP that fits no candidate is an inconsistent reading", func(t *testing.T) {
		_, err := InferLevel(table, InferRequest{
			Base: flatBase, IV: IVSpread{},
			ObservedCP: 16, ObservedHP: 40,
		})
		var invalid *InvalidInputError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "observedHP", invalid.Field)
	})

	t.Run("no exact match falls back to the closest level", func(t *testing.T) {
		est, err := InferLevel(table, InferRequest{
			Base: hydreigonBase, IV: perfectIV,
			ObservedCP: 2000, ObservedHP: -1,
		})
		require.NoError(t, err)
		assert.False(t, est.Exact)
		assert.Equal(t, 19.0, est.Level)
	})

	t.Run("empty ladder", func(t *testing.T) {
		_, err := InferLevel(&LevelTable{}, InferRequest{
			Base: hydreigonBase, IV: perfectIV, ObservedCP: 3325, ObservedHP: -1,
		})
		require.ErrorIs(t, err, ErrNoFeasibleLevel)
	})

	t.Run("rejects a sub-floor reading", func(t *testing.T) {
		_, err := InferLevel(table, InferRequest{
			Base: hydreigonBase, IV: perfectIV, ObservedCP: 5, ObservedHP: -1,
		})
		var invalid *InvalidInputError
		require.ErrorAs(t, err, &invalid)
	})
}
