package analyzer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLevelTable(t *testing.T) {
	table := DefaultLevelTable()
	require.False(t, table.empty())
	require.Len(t, table.mult, 101)

	t.Run("strictly increasing", func(t *testing.T) {
		for i := 1; i < len(table.mult); i++ {
			require.Greater(t, table.mult[i], table.mult[i-1], "index %d", i)
		}
	})

	t.Run("known multipliers", func(t *testing.T) {
		for _, tc := range []struct {
			level float64
			want  float64
		}{
			{1.0, 0.094},
			{10.0, 0.4225},
			{20.0, 0.5974},
			{30.0, 0.7317},
			{33.5, 0.7527645547},
			{40.0, 0.7903},
			{50.0, 0.8403},
		} {
			m, err := table.Multiplier(tc.level, false)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, m, 1e-12, "level %.1f", tc.level)
		}
	})

	t.Run("best buddy shifts one level", func(t *testing.T) {
		plain, err := table.Multiplier(33.5, false)
		require.NoError(t, err)
		buddy, err := table.Multiplier(33.5, true)
		require.NoError(t, err)
		next, err := table.Multiplier(34.5, false)
		require.NoError(t, err)
		assert.Greater(t, buddy, plain)
		assert.InDelta(t, next, buddy, 1e-12)
	})

	t.Run("best buddy clamps at the ladder top", func(t *testing.T) {
		buddy, err := table.Multiplier(50.0, true)
		require.NoError(t, err)
		assert.InDelta(t, 0.8453, buddy, 1e-12)
	})
}

func TestLevelIndex(t *testing.T) {
	for _, bad := range []float64{0, 0.5, 50.5, 51, 33.25, -3} {
		_, ok := levelIndex(bad)
		assert.False(t, ok, "level %v", bad)
	}
	i, ok := levelIndex(1.0)
	require.True(t, ok)
	assert.Equal(t, 0, i)
	i, ok = levelIndex(50.0)
	require.True(t, ok)
	assert.Equal(t, numBuildLevels-1, i)
}

func TestMultiplierRejectsOffLadderLevels(t *testing.T) {
	table := DefaultLevelTable()
	_, err := table.Multiplier(33.25, false)
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "level", invalid.Field)
}

func TestLoadLevelTable(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		var body []byte
		body = append(body, '[')
		def := DefaultLevelTable()
		for i, m := range def.mult {
			if i > 0 {
				body = append(body, ',')
			}
			body = appendEntry(body, levelAt(i), m)
		}
		body = append(body, ']')

		table, err := LoadLevelTable(body)
		require.NoError(t, err)
		assert.Equal(t, def.mult, table.mult)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := LoadLevelTable([]byte("{nope"))
		requireConfigErr(t, err)
	})

	t.Run("not an array", func(t *testing.T) {
		_, err := LoadLevelTable([]byte(`{"level":1}`))
		requireConfigErr(t, err)
	})

	t.Run("missing level", func(t *testing.T) {
		_, err := LoadLevelTable([]byte(`[{"level":1.0,"multiplier":0.094}]`))
		requireConfigErr(t, err)
	})
}

func TestNewLevelTableValidation(t *testing.T) {
	full := make(map[float64]float64)
	for i, m := range DefaultLevelTable().mult {
		full[levelAt(i)] = m
	}

	t.Run("accepts the full ladder", func(t *testing.T) {
		_, err := NewLevelTable(full)
		require.NoError(t, err)
	})

	t.Run("rejects non-increasing", func(t *testing.T) {
		broken := make(map[float64]float64, len(full))
		for k, v := range full {
			broken[k] = v
		}
		broken[20.0] = broken[30.0]
		_, err := NewLevelTable(broken)
		requireConfigErr(t, err)
	})

	t.Run("rejects non-positive", func(t *testing.T) {
		broken := make(map[float64]float64, len(full))
		for k, v := range full {
			broken[k] = v
		}
		broken[1.0] = 0
		_, err := NewLevelTable(broken)
		requireConfigErr(t, err)
	})
}

func appendEntry(b []byte, level, mult float64) []byte {
	return append(b, fmt.Sprintf(`{"level":%.1f,"multiplier":%.10f}`, level, mult)...)
}

func requireConfigErr(t *testing.T, err error) {
	t.Helper()
	var cfg *ConfigurationError
	require.ErrorAs(t, err, &cfg)
}
