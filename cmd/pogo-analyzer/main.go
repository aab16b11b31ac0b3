package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	analyzer "github.com/cortega26/pogo-analyzer"
)

// stringList collects a repeatable flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, "; ") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// AnalysisOutput is the JSON-serializable result of a single-build run.
type AnalysisOutput struct {
	Level *analyzer.LevelEstimate `json:"level,omitempty"`
	Build *analyzer.BuildResult   `json:"build,omitempty"`
	PvE   *analyzer.PvEScore      `json:"pve,omitempty"`
	PvP   *analyzer.PvPScore      `json:"pvp,omitempty"`
}

const usage = `Usage: pogo-analyzer [flags]

Single-build analysis (default mode):
  pogo-analyzer -base 256,188,216 -iv 15,15,15 -cp 3325
  pogo-analyzer -base 112,65,155 -league great
  pogo-analyzer -base 256,188,216 -iv 15,15,15 -level 33.5 \
      -fast "Snarl,12,13,1.0,stab" -charge "Brutal Swing,65,40,1.9,stab" \
      -target-def 180 -incoming-dps 35

Scoreboards:
  pogo-analyzer -mode pvp-scoreboard -species s.json -moves m.json -learnsets l.json -league great
  pogo-analyzer -mode raid-scoreboard -species s.json -moves m.json -learnsets l.json \
      -target-def 180 -incoming-dps 35

Flags:
`

type cliFlags struct {
	mode      string
	base      string
	iv        string
	level     float64
	cp        int
	hp        int
	shadow    bool
	bestBuddy bool
	purified  bool
	league    string
	ivFloor   int

	fast       string
	charges    stringList
	pvpFast    string
	pvpCharges stringList

	targetDef   float64
	incomingDPS float64

	species   string
	moves     string
	learnsets string
	top       int

	config   string
	enhanced bool
	jsonOut  bool
	table    string
}

func main() {
	var f cliFlags
	flag.StringVar(&f.mode, "mode", "analyze", "analyze | pvp-scoreboard | raid-scoreboard")
	flag.StringVar(&f.base, "base", "", "species base stats as attack,defense,stamina")
	flag.StringVar(&f.iv, "iv", "", "IV spread as attack,defense,stamina")
	flag.Float64Var(&f.level, "level", 0, "build level (skips inference)")
	flag.IntVar(&f.cp, "cp", 0, "observed CP to infer the level from")
	flag.IntVar(&f.hp, "hp", -1, "observed HP to break inference ties (-1 = not observed)")
	flag.BoolVar(&f.shadow, "shadow", false, "shadow build")
	flag.BoolVar(&f.bestBuddy, "best-buddy", false, "best-buddy build")
	flag.BoolVar(&f.purified, "purified", false, "purified build")
	flag.StringVar(&f.league, "league", "", "great | ultra | master (enables the build search)")
	flag.IntVar(&f.ivFloor, "iv-floor", 0, "minimum per-stat IV in the build search")
	flag.StringVar(&f.fast, "fast", "", "PvE fast move: name,power,energy,duration[,stab][,weather]")
	flag.Var(&f.charges, "charge", "PvE charge move: name,power,energy,duration[,stab][,weather] (repeatable)")
	flag.StringVar(&f.pvpFast, "pvp-fast", "", "PvP fast move: name,damage,energy,turns")
	flag.Var(&f.pvpCharges, "pvp-charge", "PvP charge move: name,damage,energy[,buff] (repeatable, max 2)")
	flag.Float64Var(&f.targetDef, "target-def", 0, "PvE target defense")
	flag.Float64Var(&f.incomingDPS, "incoming-dps", 0, "PvE sustained incoming damage per second")
	flag.StringVar(&f.species, "species", "", "species JSON path (scoreboard modes)")
	flag.StringVar(&f.moves, "moves", "", "moves JSON path (scoreboard modes)")
	flag.StringVar(&f.learnsets, "learnsets", "", "learnsets JSON path (scoreboard modes)")
	flag.IntVar(&f.top, "top", 25, "scoreboard rows to print (0 = all)")
	flag.StringVar(&f.config, "config", "", "tunables yaml path")
	flag.BoolVar(&f.enhanced, "enhanced-defaults", false, "start from the enhanced tunables preset")
	flag.BoolVar(&f.jsonOut, "json", false, "output results as JSON")
	flag.StringVar(&f.table, "level-table", "", "override the CP multiplier table (JSON path)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(log)

	tn, err := loadTunables(f)
	if err != nil {
		fatal(log, err)
	}
	table, err := loadTable(f.table)
	if err != nil {
		fatal(log, err)
	}

	switch f.mode {
	case "analyze":
		err = runAnalyze(log, table, tn, f)
	case "pvp-scoreboard":
		err = runPvPScoreboard(log, tn, f)
	case "raid-scoreboard":
		err = runRaidScoreboard(log, tn, f)
	default:
		flag.Usage()
		os.Exit(1)
	}
	if err != nil {
		fatal(log, err)
	}
}

func fatal(log *slog.Logger, err error) {
	log.Error("failed", "err", err)
	os.Exit(1)
}

func loadTunables(f cliFlags) (analyzer.Tunables, error) {
	if f.config != "" {
		return analyzer.LoadTunables(f.config)
	}
	if f.enhanced {
		return analyzer.EnhancedTunables(), nil
	}
	return analyzer.DefaultTunables(), nil
}

func loadTable(path string) (*analyzer.LevelTable, error) {
	if path == "" {
		return analyzer.DefaultLevelTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return analyzer.LoadLevelTable(data)
}

func runAnalyze(log *slog.Logger, table *analyzer.LevelTable, tn analyzer.Tunables, f cliFlags) error {
	if f.base == "" {
		return errors.New("analyze mode needs -base")
	}
	base, err := parseTriple(f.base)
	if err != nil {
		return fmt.Errorf("-base: %w", err)
	}
	baseStats := analyzer.BaseStats{Attack: base[0], Defense: base[1], Stamina: base[2]}
	status := analyzer.StatusFlags{Shadow: f.shadow, BestBuddy: f.bestBuddy, Purified: f.purified}

	var out AnalysisOutput
	var text strings.Builder

	iv := analyzer.IVSpread{}
	haveIV := f.iv != ""
	if haveIV {
		t, err := parseTriple(f.iv)
		if err != nil {
			return fmt.Errorf("-iv: %w", err)
		}
		iv = analyzer.IVSpread{Attack: t[0], Defense: t[1], Stamina: t[2]}
	}

	level := f.level
	if f.cp > 0 {
		if !haveIV {
			return errors.New("-cp inference needs -iv")
		}
		est, err := analyzer.InferLevel(table, analyzer.InferRequest{
			Base: baseStats, IV: iv, Status: status,
			ObservedCP: f.cp, ObservedHP: f.hp, Ties: tn.Ties,
		})
		if err != nil {
			return err
		}
		out.Level = &est
		text.WriteString(analyzer.FormatLevelEstimate(est))
		level = est.Level
	}

	if f.league != "" {
		league, err := analyzer.LeagueByName(f.league)
		if err != nil {
			return err
		}
		floor := f.ivFloor
		if floor == 0 {
			floor = tn.IVFloor
		}
		build, err := analyzer.MaxStatProduct(table, baseStats, status, league.Cap, analyzer.FrontierOptions{IVFloor: floor})
		if err != nil {
			return err
		}
		out.Build = &build
		text.WriteString(analyzer.FormatBuild(build))
		if !haveIV {
			iv, level = build.IV, build.Level
		}
	}

	needStats := f.fast != "" || f.pvpFast != ""
	if needStats && level == 0 {
		return errors.New("move scoring needs a level: pass -level, -cp, or -league")
	}

	if f.fast != "" {
		stats, err := analyzer.Project(table, baseStats, iv, status, level)
		if err != nil {
			return err
		}
		fast, err := parsePvEFast(f.fast)
		if err != nil {
			return err
		}
		charges := make([]analyzer.ChargeMove, len(f.charges))
		for i, spec := range f.charges {
			if charges[i], err = parsePvECharge(spec); err != nil {
				return err
			}
		}
		if f.targetDef <= 0 || f.incomingDPS <= 0 {
			return errors.New("PvE scoring needs -target-def and -incoming-dps")
		}
		scenario := analyzer.PvEScenario{TargetDefense: f.targetDef, IncomingDPS: f.incomingDPS}
		score, err := analyzer.ScorePvE(stats, fast, charges, scenario, tn)
		if err != nil && !errors.Is(err, analyzer.ErrNoFeasibleRotation) {
			return err
		}
		if errors.Is(err, analyzer.ErrNoFeasibleRotation) {
			log.Warn("no charge move is usable; fast-only rotation scored")
		}
		out.PvE = &score
		text.WriteString(analyzer.FormatPvEScore(score))
	}

	if f.pvpFast != "" {
		stats, err := analyzer.Project(table, baseStats, iv, status, level)
		if err != nil {
			return err
		}
		fast, err := parsePvPFast(f.pvpFast)
		if err != nil {
			return err
		}
		charges := make([]analyzer.PvPChargeMove, len(f.pvpCharges))
		for i, spec := range f.pvpCharges {
			if charges[i], err = parsePvPCharge(spec); err != nil {
				return err
			}
		}
		leagueName := f.league
		if leagueName == "" {
			leagueName = "great"
		}
		league, err := analyzer.LeagueByName(leagueName)
		if err != nil {
			return err
		}
		score, err := analyzer.ScorePvP(stats, fast, charges, league, tn)
		if err != nil {
			return err
		}
		out.PvP = &score
		text.WriteString(analyzer.FormatPvPScore(score))
	}

	if out.Level == nil && out.Build == nil && out.PvE == nil && out.PvP == nil {
		return errors.New("nothing to do: pass -cp, -league, -fast, or -pvp-fast")
	}
	return emit(f.jsonOut, out, text.String())
}

func runPvPScoreboard(log *slog.Logger, tn analyzer.Tunables, f cliFlags) error {
	species, learnsets, moves, err := readDataFiles(f)
	if err != nil {
		return err
	}
	fast, charge, err := analyzer.LoadPvPMoves(moves)
	if err != nil {
		return err
	}
	leagueName := f.league
	if leagueName == "" {
		leagueName = "great"
	}
	league, err := analyzer.LeagueByName(leagueName)
	if err != nil {
		return err
	}
	log.Info("building scoreboard", "league", league.Name, "species", len(species))
	entries, err := analyzer.BuildPvPScoreboard(context.Background(), analyzer.PvPDataset{
		Species: species, Fast: fast, Charge: charge, Learnsets: learnsets,
	}, league, tn)
	if err != nil {
		return err
	}
	return emit(f.jsonOut, entries, analyzer.FormatPvPScoreboard(entries, f.top))
}

func runRaidScoreboard(log *slog.Logger, tn analyzer.Tunables, f cliFlags) error {
	species, learnsets, moves, err := readDataFiles(f)
	if err != nil {
		return err
	}
	fast, charge, err := analyzer.LoadPvEMoves(moves)
	if err != nil {
		return err
	}
	if f.targetDef <= 0 || f.incomingDPS <= 0 {
		return errors.New("raid scoreboard needs -target-def and -incoming-dps")
	}
	profile := analyzer.RaidProfile{TargetDefense: f.targetDef, IncomingDPS: f.incomingDPS, AttackerLevel: f.level}
	log.Info("building raid scoreboard", "species", len(species))
	entries, err := analyzer.BuildRaidScoreboard(context.Background(), analyzer.PvEDataset{
		Species: species, Fast: fast, Charge: charge, Learnsets: learnsets,
	}, profile, tn)
	if err != nil {
		return err
	}
	return emit(f.jsonOut, entries, analyzer.FormatRaidScoreboard(entries, f.top))
}

func readDataFiles(f cliFlags) ([]analyzer.Species, map[string]analyzer.Learnset, []byte, error) {
	if f.species == "" || f.moves == "" || f.learnsets == "" {
		return nil, nil, nil, errors.New("scoreboard modes need -species, -moves, and -learnsets")
	}
	speciesData, err := os.ReadFile(f.species)
	if err != nil {
		return nil, nil, nil, err
	}
	species, err := analyzer.LoadSpecies(speciesData)
	if err != nil {
		return nil, nil, nil, err
	}
	learnsetData, err := os.ReadFile(f.learnsets)
	if err != nil {
		return nil, nil, nil, err
	}
	learnsets, err := analyzer.LoadLearnsets(learnsetData)
	if err != nil {
		return nil, nil, nil, err
	}
	movesData, err := os.ReadFile(f.moves)
	if err != nil {
		return nil, nil, nil, err
	}
	return species, learnsets, movesData, nil
}

func emit(jsonOut bool, v any, text string) error {
	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	fmt.Print(text)
	return nil
}

// ── Flag value parsing ──────────────────────────────────────────────

func parseTriple(s string) ([3]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return [3]int{}, fmt.Errorf("want three comma-separated integers, got %q", s)
	}
	var out [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return [3]int{}, fmt.Errorf("bad value %q", p)
		}
		out[i] = n
	}
	return out, nil
}

// moveFields splits "name,n1,n2,...[,stab][,weather]" into the name, the
// numeric fields, and the trailing keyword flags.
func moveFields(s string, numeric int) (string, []float64, map[string]bool, error) {
	parts := strings.Split(s, ",")
	if len(parts) < numeric+1 {
		return "", nil, nil, fmt.Errorf("move %q: want name plus %d numbers", s, numeric)
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return "", nil, nil, fmt.Errorf("move %q: empty name", s)
	}
	nums := make([]float64, numeric)
	for i := 0; i < numeric; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i+1]), 64)
		if err != nil {
			return "", nil, nil, fmt.Errorf("move %q: bad number %q", s, parts[i+1])
		}
		nums[i] = v
	}
	flags := make(map[string]bool)
	for _, p := range parts[numeric+1:] {
		key := strings.ToLower(strings.TrimSpace(p))
		switch key {
		case "stab", "weather", "buff":
			flags[key] = true
		default:
			return "", nil, nil, fmt.Errorf("move %q: unknown flag %q", s, p)
		}
	}
	return name, nums, flags, nil
}

func parsePvEFast(s string) (analyzer.FastMove, error) {
	name, nums, flags, err := moveFields(s, 3)
	if err != nil {
		return analyzer.FastMove{}, err
	}
	return analyzer.FastMove{
		Name: name, Power: nums[0], EnergyGain: nums[1], Duration: nums[2],
		STAB: flags["stab"], WeatherBoosted: flags["weather"],
	}, nil
}

func parsePvECharge(s string) (analyzer.ChargeMove, error) {
	name, nums, flags, err := moveFields(s, 3)
	if err != nil {
		return analyzer.ChargeMove{}, err
	}
	return analyzer.ChargeMove{
		Name: name, Power: nums[0], EnergyCost: nums[1], Duration: nums[2],
		STAB: flags["stab"], WeatherBoosted: flags["weather"],
	}, nil
}

func parsePvPFast(s string) (analyzer.PvPFastMove, error) {
	name, nums, _, err := moveFields(s, 3)
	if err != nil {
		return analyzer.PvPFastMove{}, err
	}
	return analyzer.PvPFastMove{
		Name: name, Damage: nums[0], EnergyGain: nums[1], Turns: int(nums[2]),
	}, nil
}

func parsePvPCharge(s string) (analyzer.PvPChargeMove, error) {
	name, nums, flags, err := moveFields(s, 2)
	if err != nil {
		return analyzer.PvPChargeMove{}, err
	}
	return analyzer.PvPChargeMove{
		Name: name, Damage: nums[0], EnergyCost: nums[1], HasBuff: flags["buff"],
	}, nil
}
