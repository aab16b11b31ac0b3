package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	snarl       = FastMove{Name: "Snarl", Power: 12, EnergyGain: 13, Duration: 1.0, STAB: true}
	brutalSwing = ChargeMove{Name: "Brutal Swing", Power: 65, EnergyCost: 40, Duration: 1.9, STAB: true}
)

func hydreigonStats(t *testing.T) EffectiveStats {
	t.Helper()
	stats, err := Project(DefaultLevelTable(), hydreigonBase, perfectIV, StatusFlags{}, 33.5)
	require.NoError(t, err)
	return stats
}

func TestBestRotation(t *testing.T) {
	t.Run("golden hydreigon cycle", func(t *testing.T) {
		stats := hydreigonStats(t)
		rot, err := BestRotation(snarl, []ChargeMove{brutalSwing}, stats.Attack, 180, RotationOptions{})
		require.NoError(t, err)
		assert.InDelta(t, 14.605873261205565, rot.Rate, 1e-9)
		assert.InDelta(t, 72.6923076923077, rot.CycleDamage, 1e-9)
		assert.InDelta(t, 4.976923076923077, rot.CycleTime, 1e-9)
		assert.InDelta(t, 3.0769230769230766, rot.FastPerCycle, 1e-9)
		assert.Equal(t, map[string]int{"Brutal Swing": 1}, rot.ChargeUsage)
		assert.False(t, rot.FastOnly)
	})

	t.Run("charge cycle beats spamming the fast move", func(t *testing.T) {
		fast := FastMove{Name: "f", Power: 5, EnergyGain: 8, Duration: 1.0}
		charge := ChargeMove{Name: "c", Power: 65, EnergyCost: 40, Duration: 1.9}
		rot, err := BestRotation(fast, []ChargeMove{charge}, 150, 150, RotationOptions{})
		require.NoError(t, err)
		assert.InDelta(t, 6.956521739130435, rot.Rate, 1e-9)
		assert.Greater(t, rot.Rate, 3.0) // fast-only dps
		assert.GreaterOrEqual(t, rot.FastPerCycle, 0.0)
		assert.Greater(t, rot.CycleTime, 0.0)
	})

	t.Run("picks the better of two charge moves", func(t *testing.T) {
		fast := FastMove{Name: "Dragon Breath", Power: 16, EnergyGain: 9, Duration: 0.5, STAB: true}
		claw := ChargeMove{Name: "Dragon Claw", Power: 90, EnergyCost: 35, Duration: 1.7, STAB: true}
		outrage := ChargeMove{Name: "Outrage", Power: 110, EnergyCost: 50, Duration: 3.9, STAB: true}
		rot, err := BestRotation(fast, []ChargeMove{claw, outrage}, 230, 190, RotationOptions{})
		require.NoError(t, err)
		assert.InDelta(t, 30.914634146341463, rot.Rate, 1e-9)
		assert.Equal(t, map[string]int{"Dragon Claw": 1}, rot.ChargeUsage)
		assert.Greater(t, rot.Rate, 24.0) // fast-only dps
	})

	t.Run("energy from damage speeds the cycle up", func(t *testing.T) {
		stats := hydreigonStats(t)
		rot, err := BestRotation(snarl, []ChargeMove{brutalSwing}, stats.Attack, 180, RotationOptions{
			EnergyFromDamageRatio: 0.5, IncomingDPS: 35,
		})
		require.NoError(t, err)
		assert.InDelta(t, 22.152241112828438, rot.Rate, 1e-9)
	})

	t.Run("cycle energy books balance", func(t *testing.T) {
		// with rho off, the fractional fast credit leaves the cycle
		// energy-neutral: gains exactly fund the charge casts
		stats := hydreigonStats(t)
		for _, charges := range [][]ChargeMove{
			{brutalSwing},
			{{Name: "a", Power: 90, EnergyCost: 35, Duration: 1.7}, {Name: "b", Power: 110, EnergyCost: 50, Duration: 3.9}},
		} {
			rot, err := BestRotation(snarl, charges, stats.Attack, 180, RotationOptions{})
			require.NoError(t, err)
			require.False(t, rot.FastOnly)
			spent := 0.0
			for name, n := range rot.ChargeUsage {
				for _, c := range charges {
					if c.Name == name {
						spent += float64(n) * c.EnergyCost
					}
				}
			}
			gained := rot.FastPerCycle * snarl.EnergyGain
			assert.InDelta(t, spent, gained, 1e-6)
			assert.GreaterOrEqual(t, rot.FastPerCycle, 0.0)
		}
	})

	t.Run("no charge moves means fast only", func(t *testing.T) {
		rot, err := BestRotation(snarl, nil, 200, 180, RotationOptions{})
		require.NoError(t, err)
		assert.True(t, rot.FastOnly)
		assert.InDelta(t, rot.CycleDamage/rot.CycleTime, rot.Rate, 1e-12)
	})

	t.Run("unfundable charge move degrades to fast only", func(t *testing.T) {
		impossible := ChargeMove{Name: "x", Power: 300, EnergyCost: 150, Duration: 2.2}
		rot, err := BestRotation(snarl, []ChargeMove{impossible}, 200, 180, RotationOptions{})
		require.ErrorIs(t, err, ErrNoFeasibleRotation)
		assert.True(t, rot.FastOnly)
		assert.Greater(t, rot.Rate, 0.0)
	})

	t.Run("rejects rho without incoming damage", func(t *testing.T) {
		var invalid *InvalidInputError
		_, err := BestRotation(snarl, nil, 200, 180, RotationOptions{EnergyFromDamageRatio: 0.5})
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("rejects a broken move", func(t *testing.T) {
		var invalid *InvalidInputError
		_, err := BestRotation(FastMove{Name: "f", Power: 10, Duration: 1}, nil, 200, 180, RotationOptions{})
		require.ErrorAs(t, err, &invalid)
	})
}

func TestScorePvE(t *testing.T) {
	stats := hydreigonStats(t)
	scenario := PvEScenario{TargetDefense: 180, IncomingDPS: 35}

	t.Run("golden breakdown", func(t *testing.T) {
		score, err := ScorePvE(stats, snarl, []ChargeMove{brutalSwing}, scenario, DefaultTunables())
		require.NoError(t, err)
		assert.InDelta(t, 146.8685466472739, score.EHP, 1e-9)
		assert.InDelta(t, 61.28981081107256, score.TDO, 1e-9)
		assert.InDelta(t, 25.92219832673829, score.ValueRaw, 1e-9)
		assert.Equal(t, 1.0, score.PenaltyFactor)
		assert.InDelta(t, score.ValueRaw, score.Value, 1e-12)
	})

	t.Run("relobby penalty discounts the value", func(t *testing.T) {
		tn := DefaultTunables()
		tn.RelobbyPhi = 0.0003
		score, err := ScorePvE(stats, snarl, []ChargeMove{brutalSwing}, scenario, tn)
		require.NoError(t, err)
		assert.InDelta(t, 0.9817810653005594, score.PenaltyFactor, 1e-9)
		assert.InDelta(t, 25.4499234881575, score.Value, 1e-9)
	})

	t.Run("dodge factor multiplies in", func(t *testing.T) {
		tn := DefaultTunables()
		tn.DodgeFactor = 0.9
		score, err := ScorePvE(stats, snarl, []ChargeMove{brutalSwing}, scenario, tn)
		require.NoError(t, err)
		assert.InDelta(t, 0.9*score.ValueRaw, score.Value, 1e-9)
	})

	t.Run("rejects a bad scenario", func(t *testing.T) {
		var invalid *InvalidInputError
		_, err := ScorePvE(stats, snarl, nil, PvEScenario{TargetDefense: 0, IncomingDPS: 35}, DefaultTunables())
		require.ErrorAs(t, err, &invalid)
	})
}

func TestScorePvEScenarios(t *testing.T) {
	stats := hydreigonStats(t)
	scenarios := []PvEScenario{
		{TargetDefense: 180, IncomingDPS: 35, Weight: 2},
		{TargetDefense: 150, IncomingDPS: 50, Weight: 1},
	}

	scores, blended, err := ScorePvEScenarios(stats, snarl, []ChargeMove{brutalSwing}, scenarios, DefaultTunables())
	require.NoError(t, err)
	require.Len(t, scores, 2)
	want := (2*scores[0].Value + scores[1].Value) / 3
	assert.InDelta(t, want, blended, 1e-12)

	_, _, err = ScorePvEScenarios(stats, snarl, nil, nil, DefaultTunables())
	var invalid *InvalidInputError
	require.ErrorAs(t, err, &invalid)
}
