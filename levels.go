package analyzer

import (
	"math"

	"github.com/tidwall/gjson"
)

// ── Level ladder ────────────────────────────────────────────────────

const (
	// MinLevel and MaxLevel bound the discrete build levels. The table itself
	// extends one whole level past MaxLevel so the best-buddy lookup at the
	// ladder edge still resolves.
	MinLevel = 1.0
	MaxLevel = 50.0

	// numBuildLevels counts the half-step levels in [MinLevel, MaxLevel].
	numBuildLevels = 99
)

// defaultMultipliers is the canonical growth-multiplier ladder indexed by
// half-level (index i holds level (i+2)/2, covering 1.0 through 51.0). Whole
// levels carry the published constants; half levels below 40 follow the
// square-mean rule sqrt((m_l^2+m_{l+1}^2)/2), arithmetic midpoints above.
var defaultMultipliers = [101]float64{
	0.0940000000, 0.1351374322, 0.1663978700, 0.1926509145, 0.2157324700, // 1.0
	0.2365726554, 0.2557200500, 0.2735303793, 0.2902498800, 0.3060573800, // 3.5
	0.3210876000, 0.3354450348, 0.3492126800, 0.3624577571, 0.3752356000, // 6.0
	0.3875924191, 0.3995672800, 0.4111935440, 0.4225000000, 0.4329264088, // 8.5
	0.4431075500, 0.4530599629, 0.4627984000, 0.4723360827, 0.4816849500, // 11.0
	0.4908558093, 0.4998584400, 0.5087017592, 0.5173939500, 0.5259424956, // 13.5
	0.5343543000, 0.5426357509, 0.5507927000, 0.5588305922, 0.5667545000, // 16.0
	0.5745691345, 0.5822789000, 0.5898879035, 0.5974000000, 0.6048236602, // 18.5
	0.6121573000, 0.6194041051, 0.6265671000, 0.6336491668, 0.6406529500, // 21.0
	0.6475809587, 0.6544356300, 0.6612192610, 0.6679340000, 0.6745818888, // 23.5
	0.6811649000, 0.6876848943, 0.6941436500, 0.7005428891, 0.7068842000, // 26.0
	0.7131691024, 0.7193991000, 0.7255756181, 0.7317000000, 0.7347410173, // 28.5
	0.7377695000, 0.7407855801, 0.7437894300, 0.7467892661, 0.7497771000, // 31.0
	0.7527645547, 0.7557402000, 0.7587247973, 0.7616977000, 0.7646760578, // 33.5
	0.7676428600, 0.7706157424, 0.7735772000, 0.7765382741, 0.7794881000, // 36.0
	0.7824434102, 0.7853876000, 0.7878476287, 0.7903000000, 0.7928000050, // 38.5
	0.7953000100, 0.7978000050, 0.8003000000, 0.8028000000, 0.8053000000, // 41.0
	0.8077999950, 0.8102999900, 0.8127999950, 0.8153000000, 0.8178000000, // 43.5
	0.8203000000, 0.8228000000, 0.8253000000, 0.8278000000, 0.8303000000, // 46.0
	0.8328000000, 0.8353000000, 0.8378000000, 0.8403000000, 0.8428000000, // 48.5
	0.8453000000, // 51.0
}

// LevelTable maps the discrete level ladder to growth multipliers. It is
// loaded once and never mutated; any number of goroutines may read it.
type LevelTable struct {
	mult []float64
}

// DefaultLevelTable returns the table built from the embedded ladder.
func DefaultLevelTable() *LevelTable {
	return &LevelTable{mult: defaultMultipliers[:]}
}

// NewLevelTable builds a table from a level->multiplier mapping. The mapping
// must cover 1.0..51.0 in 0.5 steps with strictly increasing multipliers.
func NewLevelTable(multipliers map[float64]float64) (*LevelTable, error) {
	mult := make([]float64, len(defaultMultipliers))
	for i := range mult {
		level := levelAt(i)
		m, ok := multipliers[level]
		if !ok {
			return nil, configErr("level table missing level %.1f", level)
		}
		if m <= 0 {
			return nil, configErr("level table multiplier for %.1f must be positive, got %v", level, m)
		}
		mult[i] = m
	}
	for i := 1; i < len(mult); i++ {
		if mult[i] <= mult[i-1] {
			return nil, configErr("level table not strictly increasing at level %.1f", levelAt(i))
		}
	}
	return &LevelTable{mult: mult}, nil
}

// LoadLevelTable reads the [{"level":x,"multiplier":y}] JSON shape.
func LoadLevelTable(data []byte) (*LevelTable, error) {
	if !gjson.ValidBytes(data) {
		return nil, configErr("level table: invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, configErr("level table: expected a JSON array")
	}
	entries := make(map[float64]float64)
	for _, row := range root.Array() {
		level := row.Get("level")
		m := row.Get("multiplier")
		if !level.Exists() || !m.Exists() {
			return nil, configErr("level table: row missing level or multiplier")
		}
		entries[level.Float()] = m.Float()
	}
	return NewLevelTable(entries)
}

// ── Lookups ─────────────────────────────────────────────────────────

// levelAt returns the level stored at table index i.
func levelAt(i int) float64 { return float64(i+2) / 2 }

// levelIndex maps a level to its table index, rejecting values off the
// half-step ladder or outside [MinLevel, MaxLevel].
func levelIndex(level float64) (int, bool) {
	doubled := level * 2
	if doubled != math.Trunc(doubled) {
		return 0, false
	}
	i := int(doubled) - 2
	if i < 0 || i >= numBuildLevels {
		return 0, false
	}
	return i, true
}

// Multiplier returns the growth multiplier for a build level with the
// best-buddy shift applied, clamped to the table's last entry.
func (t *LevelTable) Multiplier(level float64, bestBuddy bool) (float64, error) {
	i, ok := levelIndex(level)
	if !ok {
		return 0, invalidInput("level", "%v is not on the %.1f..%.1f half-step ladder", level, MinLevel, MaxLevel)
	}
	return t.multiplierAt(i, bestBuddy), nil
}

func (t *LevelTable) multiplierAt(i int, bestBuddy bool) float64 {
	if bestBuddy {
		i += 2
	}
	if i >= len(t.mult) {
		i = len(t.mult) - 1
	}
	return t.mult[i]
}

// empty reports whether the table holds no levels. A zero-value LevelTable is
// a configuration defect, not a searchable domain.
func (t *LevelTable) empty() bool { return t == nil || len(t.mult) == 0 }
