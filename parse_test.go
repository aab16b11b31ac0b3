package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const speciesJSON = `{
  "species": [
    {"name": "Hydreigon", "base_attack": 256, "base_defense": 188, "base_stamina": 216},
    {"name": "Azumarill", "base_attack": 112, "base_defense": 152, "base_stamina": 225, "availability_penalty": 0.1}
  ]
}`

func TestLoadSpecies(t *testing.T) {
	t.Run("wrapped form", func(t *testing.T) {
		species, err := LoadSpecies([]byte(speciesJSON))
		require.NoError(t, err)
		require.Len(t, species, 2)
		assert.Equal(t, "Hydreigon", species[0].Name)
		assert.Equal(t, BaseStats{Attack: 256, Defense: 188, Stamina: 216}, species[0].Base)
		assert.Equal(t, 0.1, species[1].AvailabilityPenalty)
	})

	t.Run("bare array form", func(t *testing.T) {
		species, err := LoadSpecies([]byte(`[{"name":"Mew","base_attack":210,"base_defense":210,"base_stamina":225}]`))
		require.NoError(t, err)
		require.Len(t, species, 1)
		assert.Equal(t, "Mew", species[0].Name)
	})

	t.Run("rejects nameless records", func(t *testing.T) {
		_, err := LoadSpecies([]byte(`[{"base_attack":10,"base_defense":10,"base_stamina":10}]`))
		requireConfigErr(t, err)
	})

	t.Run("rejects negative base stats", func(t *testing.T) {
		_, err := LoadSpecies([]byte(`[{"name":"x","base_attack":-1,"base_defense":10,"base_stamina":10}]`))
		requireConfigErr(t, err)
	})

	t.Run("rejects empty and invalid files", func(t *testing.T) {
		_, err := LoadSpecies([]byte(`[]`))
		requireConfigErr(t, err)
		_, err = LoadSpecies([]byte(`{broken`))
		requireConfigErr(t, err)
	})
}

const pveMovesJSON = `{
  "fast": [
    {"name": "Snarl", "power": 12, "energy_gain": 13, "duration": 1.0, "stab": true}
  ],
  "charge": [
    {"name": "Brutal Swing", "power": 65, "energy_cost": 40, "duration": 1.9, "stab": true}
  ]
}`

func TestLoadPvEMoves(t *testing.T) {
	fast, charge, err := LoadPvEMoves([]byte(pveMovesJSON))
	require.NoError(t, err)
	assert.Equal(t, snarl, fast["Snarl"])
	assert.Equal(t, brutalSwing, charge["Brutal Swing"])

	_, _, err = LoadPvEMoves([]byte(`{"fast":[{"name":"x","power":5,"energy_gain":0,"duration":1}]}`))
	requireConfigErr(t, err)

	_, _, err = LoadPvEMoves([]byte(`{"charge":[]}`))
	requireConfigErr(t, err)
}

const pvpMovesJSON = `{
  "fast": [
    {"name": "Snarl", "damage": 5, "energy_gain": 13, "turns": 4}
  ],
  "charge": [
    {"name": "Brutal Swing", "damage": 65, "energy_cost": 40},
    {"name": "Power-Up Punch", "damage": 20, "energy_cost": 35, "has_buff": true}
  ]
}`

func TestLoadPvPMoves(t *testing.T) {
	fast, charge, err := LoadPvPMoves([]byte(pvpMovesJSON))
	require.NoError(t, err)
	assert.Equal(t, pvpSnarl, fast["Snarl"])
	assert.Equal(t, pvpSwing, charge["Brutal Swing"])
	assert.True(t, charge["Power-Up Punch"].HasBuff)

	_, _, err = LoadPvPMoves([]byte(`{"fast":[]}`))
	requireConfigErr(t, err)
}

const learnsetsJSON = `{
  "Hydreigon": {"fast": ["Snarl"], "charge": ["Brutal Swing"]},
  "Azumarill": {"fast": ["Bubble"], "charge": ["Ice Beam", "Play Rough"]}
}`

func TestLoadLearnsets(t *testing.T) {
	learnsets, err := LoadLearnsets([]byte(learnsetsJSON))
	require.NoError(t, err)
	require.Len(t, learnsets, 2)
	assert.Equal(t, []string{"Snarl"}, learnsets["Hydreigon"].Fast)
	assert.Equal(t, []string{"Ice Beam", "Play Rough"}, learnsets["Azumarill"].Charge)

	_, err = LoadLearnsets([]byte(`{"X": {"charge": ["a"]}}`))
	requireConfigErr(t, err)

	_, err = LoadLearnsets([]byte(`[1,2]`))
	requireConfigErr(t, err)

	_, err = LoadLearnsets([]byte(`{}`))
	requireConfigErr(t, err)
}
