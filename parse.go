package analyzer

import "github.com/tidwall/gjson"

// ── Data-file loaders ───────────────────────────────────────────────
//
// The loaders accept the hand-maintained JSON shapes and reject anything
// structurally broken up front, so the search code never sees a half-read
// record.

// Species is one scored entry of a data file.
type Species struct {
	Name string    `json:"name"`
	Base BaseStats `json:"base"`
	// AvailabilityPenalty is the optional acquisition discount in [0,1).
	AvailabilityPenalty float64 `json:"availability_penalty"`
}

// Learnset names the moves a species can run.
type Learnset struct {
	Fast   []string `json:"fast"`
	Charge []string `json:"charge"`
}

// LoadSpecies reads either a bare array of species records or the
// {"species": [...]} wrapper.
func LoadSpecies(data []byte) ([]Species, error) {
	root, err := parseRoot(data, "species")
	if err != nil {
		return nil, err
	}
	var out []Species
	for _, row := range root.Array() {
		name := row.Get("name").String()
		if name == "" {
			return nil, configErr("species: record %d has no name", len(out))
		}
		sp := Species{
			Name: name,
			Base: BaseStats{
				Attack:  int(row.Get("base_attack").Int()),
				Defense: int(row.Get("base_defense").Int()),
				Stamina: int(row.Get("base_stamina").Int()),
			},
			AvailabilityPenalty: row.Get("availability_penalty").Float(),
		}
		if err := sp.Base.Validate(); err != nil {
			return nil, configErr("species %s: %v", name, err)
		}
		out = append(out, sp)
	}
	if len(out) == 0 {
		return nil, configErr("species: file holds no records")
	}
	return out, nil
}

// LoadPvEMoves reads the {"fast":[...], "charge":[...]} PvE move file into
// name-keyed tables.
func LoadPvEMoves(data []byte) (map[string]FastMove, map[string]ChargeMove, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, configErr("pve moves: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	fast := make(map[string]FastMove)
	for _, row := range root.Get("fast").Array() {
		m := FastMove{
			Name:              row.Get("name").String(),
			Power:             row.Get("power").Float(),
			EnergyGain:        row.Get("energy_gain").Float(),
			Duration:          row.Get("duration").Float(),
			STAB:              row.Get("stab").Bool(),
			WeatherBoosted:    row.Get("weather_boosted").Bool(),
			TypeEffectiveness: row.Get("type_effectiveness").Float(),
		}
		if err := m.Validate(); err != nil {
			return nil, nil, configErr("pve moves: %v", err)
		}
		fast[m.Name] = m
	}
	charge := make(map[string]ChargeMove)
	for _, row := range root.Get("charge").Array() {
		m := ChargeMove{
			Name:              row.Get("name").String(),
			Power:             row.Get("power").Float(),
			EnergyCost:        row.Get("energy_cost").Float(),
			Duration:          row.Get("duration").Float(),
			STAB:              row.Get("stab").Bool(),
			WeatherBoosted:    row.Get("weather_boosted").Bool(),
			TypeEffectiveness: row.Get("type_effectiveness").Float(),
		}
		if err := m.Validate(); err != nil {
			return nil, nil, configErr("pve moves: %v", err)
		}
		charge[m.Name] = m
	}
	if len(fast) == 0 {
		return nil, nil, configErr("pve moves: no fast moves")
	}
	return fast, charge, nil
}

// LoadPvPMoves reads the {"fast":[...], "charge":[...]} PvP move file into
// name-keyed tables.
func LoadPvPMoves(data []byte) (map[string]PvPFastMove, map[string]PvPChargeMove, error) {
	if !gjson.ValidBytes(data) {
		return nil, nil, configErr("pvp moves: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	fast := make(map[string]PvPFastMove)
	for _, row := range root.Get("fast").Array() {
		m := PvPFastMove{
			Name:       row.Get("name").String(),
			Damage:     row.Get("damage").Float(),
			EnergyGain: row.Get("energy_gain").Float(),
			Turns:      int(row.Get("turns").Int()),
		}
		if err := m.Validate(); err != nil {
			return nil, nil, configErr("pvp moves: %v", err)
		}
		fast[m.Name] = m
	}
	charge := make(map[string]PvPChargeMove)
	for _, row := range root.Get("charge").Array() {
		m := PvPChargeMove{
			Name:        row.Get("name").String(),
			Damage:      row.Get("damage").Float(),
			EnergyCost:  row.Get("energy_cost").Float(),
			Reliability: row.Get("reliability").Float(),
			HasBuff:     row.Get("has_buff").Bool(),
		}
		if err := m.Validate(); err != nil {
			return nil, nil, configErr("pvp moves: %v", err)
		}
		charge[m.Name] = m
	}
	if len(fast) == 0 || len(charge) == 0 {
		return nil, nil, configErr("pvp moves: need both fast and charge moves")
	}
	return fast, charge, nil
}

// LoadLearnsets reads the {"Name": {"fast":[...], "charge":[...]}} mapping.
func LoadLearnsets(data []byte) (map[string]Learnset, error) {
	if !gjson.ValidBytes(data) {
		return nil, configErr("learnsets: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, configErr("learnsets: expected a JSON object")
	}
	out := make(map[string]Learnset)
	var iterErr error
	root.ForEach(func(key, value gjson.Result) bool {
		ls := Learnset{}
		for _, v := range value.Get("fast").Array() {
			ls.Fast = append(ls.Fast, v.String())
		}
		for _, v := range value.Get("charge").Array() {
			ls.Charge = append(ls.Charge, v.String())
		}
		if len(ls.Fast) == 0 {
			iterErr = configErr("learnsets: %s has no fast moves", key.String())
			return false
		}
		out[key.String()] = ls
		return true
	})
	if iterErr != nil {
		return nil, iterErr
	}
	if len(out) == 0 {
		return nil, configErr("learnsets: file holds no entries")
	}
	return out, nil
}

func parseRoot(data []byte, wrapper string) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, configErr("%s: invalid JSON", wrapper)
	}
	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get(wrapper)
	}
	if !root.IsArray() {
		return gjson.Result{}, configErr("%s: expected a JSON array", wrapper)
	}
	return root, nil
}
