package analyzer

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ── Scoreboards ─────────────────────────────────────────────────────
//
// Batch evaluation over a species file. Work fans out across a bounded
// worker group; every worker writes only its own slot, and the final
// ordering is re-derived from the data, so runs are deterministic.

// PvPEntry is one ranked row of a league scoreboard.
type PvPEntry struct {
	Name    string      `json:"name"`
	Build   BuildResult `json:"build"`
	Fast    string      `json:"fast"`
	Charges []string    `json:"charges"`
	Score   PvPScore    `json:"score"`
}

// RaidEntry is one ranked row of a raid scoreboard.
type RaidEntry struct {
	Name   string   `json:"name"`
	Fast   string   `json:"fast"`
	Score  PvEScore `json:"score"`
	Attack float64  `json:"attack"`
}

// RaidProfile describes the boss a raid scoreboard is computed against.
type RaidProfile struct {
	TargetDefense float64 `json:"target_defense"`
	IncomingDPS   float64 `json:"incoming_dps"`
	// AttackerLevel is the level builds are projected at. Zero means 40.
	AttackerLevel float64 `json:"attacker_level"`
}

// PvPDataset bundles the loaded data files a PvP scoreboard runs over.
type PvPDataset struct {
	Species   []Species
	Fast      map[string]PvPFastMove
	Charge    map[string]PvPChargeMove
	Learnsets map[string]Learnset
}

// PvEDataset bundles the loaded data files a raid scoreboard runs over.
type PvEDataset struct {
	Species   []Species
	Fast      map[string]FastMove
	Charge    map[string]ChargeMove
	Learnsets map[string]Learnset
}

// BuildPvPScoreboard ranks every species with a learnset for a league. Per
// species it finds the best build under the league cap, then the fast plus
// one-or-two-charge moveset with the highest pressure; population-based
// normalization policies are resolved over the evaluated set in a second
// pass. Entries come back sorted by score, best first.
func BuildPvPScoreboard(ctx context.Context, data PvPDataset, league League, tn Tunables) ([]PvPEntry, error) {
	if err := tn.Validate(); err != nil {
		return nil, err
	}
	if err := league.validate(); err != nil {
		return nil, err
	}
	roster, err := rosterFor(data.Species, data.Learnsets)
	if err != nil {
		return nil, err
	}

	table := DefaultLevelTable()
	entries := make([]*PvPEntry, len(roster))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sp := range roster {
		i, sp := i, sp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry, err := bestPvPEntry(table, sp, data, league, tn)
			if errors.Is(err, ErrNoFeasibleBuild) {
				return nil // species cannot fit under the cap, skip it
			}
			if err != nil {
				return fmt.Errorf("%s: %w", sp.Name, err)
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]PvPEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			out = append(out, *e)
		}
	}
	if err := renormalize(out, league, tn); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score.Score != out[j].Score.Score {
			return out[i].Score.Score > out[j].Score.Score
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// bestPvPEntry evaluates one species: best build under the cap, then the
// moveset with the highest pressure (bulk is fixed per build, so pressure
// alone orders movesets under any normalization).
func bestPvPEntry(table *LevelTable, sp Species, data PvPDataset, league League, tn Tunables) (*PvPEntry, error) {
	build, err := MaxStatProduct(table, sp.Base, StatusFlags{}, league.Cap, FrontierOptions{IVFloor: tn.IVFloor})
	if err != nil {
		return nil, err
	}
	stats, err := Project(table, sp.Base, build.IV, StatusFlags{}, build.Level)
	if err != nil {
		return nil, err
	}

	ls := data.Learnsets[sp.Name]
	var best *PvPEntry
	for _, fastName := range ls.Fast {
		fast, ok := data.Fast[fastName]
		if !ok {
			return nil, configErr("learnset names unknown fast move %q", fastName)
		}
		for _, combo := range chargeCombos(ls.Charge) {
			charges := make([]PvPChargeMove, len(combo))
			for k, name := range combo {
				charge, ok := data.Charge[name]
				if !ok {
					return nil, configErr("learnset names unknown charge move %q", name)
				}
				charges[k] = charge
			}
			score, err := ScorePvP(stats, fast, charges, league, tn)
			if err != nil {
				return nil, err
			}
			if best == nil || score.MovePressure > best.Score.MovePressure {
				best = &PvPEntry{Name: sp.Name, Build: build, Fast: fastName, Charges: combo, Score: score}
			}
		}
	}
	if best != nil && sp.AvailabilityPenalty > 0 {
		best.Score = ApplyModifiers(best.Score, PvPModifiers{AvailabilityPenalty: sp.AvailabilityPenalty})
	}
	return best, nil
}

// chargeCombos yields every single charge move and every unordered pair.
func chargeCombos(charges []string) [][]string {
	var out [][]string
	for i, a := range charges {
		out = append(out, []string{a})
		for _, b := range charges[i+1:] {
			out = append(out, []string{a, b})
		}
	}
	return out
}

// renormalize rescales every entry under a population-based policy. The
// availability factor survives because it multiplies the blended score.
func renormalize(entries []PvPEntry, league League, tn Tunables) error {
	if tn.Norm == NormReference || len(entries) == 0 {
		return nil
	}
	bulks := make([]float64, len(entries))
	pressures := make([]float64, len(entries))
	for i, e := range entries {
		bulks[i] = e.Score.StatProduct
		pressures[i] = e.Score.MovePressure
	}
	bulkScale, err := normScale(tn.Norm, league.StatProductRef, bulks)
	if err != nil {
		return err
	}
	pressureScale, err := normScale(tn.Norm, league.MovePressureRef, pressures)
	if err != nil {
		return err
	}
	for i := range entries {
		s := &entries[i].Score
		s.StatProductNorm = s.StatProduct / bulkScale
		s.MovePressureNorm = s.MovePressure / pressureScale
		s.Score = blendScore(s.StatProductNorm, s.MovePressureNorm, tn.Beta)
		for _, f := range s.Modifiers {
			s.Score *= f
		}
	}
	return nil
}

// BuildRaidScoreboard ranks every species with a learnset against a boss
// profile. Builds are projected with full IVs at the profile's attacker
// level; each fast move is evaluated with all learnable charge moves and the
// best sustained value wins. Entries come back sorted by value, best first.
func BuildRaidScoreboard(ctx context.Context, data PvEDataset, profile RaidProfile, tn Tunables) ([]RaidEntry, error) {
	if err := tn.Validate(); err != nil {
		return nil, err
	}
	if profile.AttackerLevel == 0 {
		profile.AttackerLevel = 40
	}
	scenario := PvEScenario{TargetDefense: profile.TargetDefense, IncomingDPS: profile.IncomingDPS}
	if err := scenario.validate(); err != nil {
		return nil, err
	}
	roster, err := rosterFor(data.Species, data.Learnsets)
	if err != nil {
		return nil, err
	}

	table := DefaultLevelTable()
	entries := make([]*RaidEntry, len(roster))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, sp := range roster {
		i, sp := i, sp
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry, err := bestRaidEntry(table, sp, data, profile.AttackerLevel, scenario, tn)
			if err != nil {
				return fmt.Errorf("%s: %w", sp.Name, err)
			}
			entries[i] = entry
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]RaidEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score.Value != out[j].Score.Value {
			return out[i].Score.Value > out[j].Score.Value
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func bestRaidEntry(table *LevelTable, sp Species, data PvEDataset, level float64, scenario PvEScenario, tn Tunables) (*RaidEntry, error) {
	iv := IVSpread{Attack: maxIV, Defense: maxIV, Stamina: maxIV}
	stats, err := Project(table, sp.Base, iv, StatusFlags{}, level)
	if err != nil {
		return nil, err
	}

	ls := data.Learnsets[sp.Name]
	charges := make([]ChargeMove, 0, len(ls.Charge))
	for _, name := range ls.Charge {
		charge, ok := data.Charge[name]
		if !ok {
			return nil, configErr("learnset names unknown charge move %q", name)
		}
		charges = append(charges, charge)
	}

	var best *RaidEntry
	for _, fastName := range ls.Fast {
		fast, ok := data.Fast[fastName]
		if !ok {
			return nil, configErr("learnset names unknown fast move %q", fastName)
		}
		score, err := ScorePvE(stats, fast, charges, scenario, tn)
		if err != nil && !errors.Is(err, ErrNoFeasibleRotation) {
			return nil, err
		}
		if best == nil || score.Value > best.Score.Value {
			best = &RaidEntry{Name: sp.Name, Fast: fastName, Score: score, Attack: stats.Attack}
		}
	}
	return best, nil
}

// rosterFor restricts the species list to those with a learnset, sorted by
// name so work distribution is stable.
func rosterFor(species []Species, learnsets map[string]Learnset) ([]Species, error) {
	if len(species) == 0 {
		return nil, configErr("scoreboard needs at least one species")
	}
	roster := make([]Species, 0, len(species))
	for _, sp := range species {
		if _, ok := learnsets[sp.Name]; ok {
			roster = append(roster, sp)
		}
	}
	if len(roster) == 0 {
		return nil, configErr("no species has a learnset entry")
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].Name < roster[j].Name })
	return roster, nil
}
