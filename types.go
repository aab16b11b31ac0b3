package analyzer

// ── Build inputs ────────────────────────────────────────────────────

// BaseStats holds the species base attack, defense, and stamina.
type BaseStats struct {
	Attack  int `json:"base_attack"`
	Defense int `json:"base_defense"`
	Stamina int `json:"base_stamina"`
}

func (b BaseStats) Validate() error {
	if b.Attack < 0 || b.Defense < 0 || b.Stamina < 0 {
		return invalidInput("base stats", "must be non-negative, got (%d,%d,%d)", b.Attack, b.Defense, b.Stamina)
	}
	return nil
}

// maxIV caps each IV axis.
const maxIV = 15

// IVSpread is an individual's roll, one value in [0,maxIV] per stat axis.
type IVSpread struct {
	Attack  int `json:"iv_attack"`
	Defense int `json:"iv_defense"`
	Stamina int `json:"iv_stamina"`
}

func (iv IVSpread) Validate() error {
	for _, v := range [3]int{iv.Attack, iv.Defense, iv.Stamina} {
		if v < 0 || v > maxIV {
			return invalidInput("iv", "each value must be in [0,%d], got (%d,%d,%d)", maxIV, iv.Attack, iv.Defense, iv.Stamina)
		}
	}
	return nil
}

// StatusFlags carries the build's status booleans. Purified has no numeric
// effect and exists only for move-availability bookkeeping.
type StatusFlags struct {
	Shadow    bool `json:"shadow"`
	BestBuddy bool `json:"best_buddy"`
	Purified  bool `json:"purified"`
}

// EffectiveStats is the projected battle triple for a concrete
// (base, IV, flags, level). HP is floored; attack and defense are not.
type EffectiveStats struct {
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
	HP      int     `json:"hp"`
}

// ── PvE move descriptors ────────────────────────────────────────────

// FastMove is the repeatable PvE move: fixed duration, fixed energy gain.
type FastMove struct {
	Name              string  `json:"name"`
	Power             float64 `json:"power"`
	EnergyGain        float64 `json:"energy_gain"`
	Duration          float64 `json:"duration"`
	STAB              bool    `json:"stab"`
	WeatherBoosted    bool    `json:"weather_boosted"`
	TypeEffectiveness float64 `json:"type_effectiveness"` // 0 means 1.0
}

func (m FastMove) Validate() error {
	switch {
	case m.Power < 0:
		return invalidInput("fast move", "%s: power cannot be negative", m.Name)
	case m.EnergyGain <= 0:
		return invalidInput("fast move", "%s: energy gain must be positive", m.Name)
	case m.Duration <= 0:
		return invalidInput("fast move", "%s: duration must be positive", m.Name)
	case m.TypeEffectiveness < 0:
		return invalidInput("fast move", "%s: type effectiveness must be positive", m.Name)
	}
	return nil
}

func (m FastMove) effectiveness() float64 {
	if m.TypeEffectiveness == 0 {
		return 1.0
	}
	return m.TypeEffectiveness
}

// ChargeMove is the finishing PvE move: fixed duration, fixed energy cost.
type ChargeMove struct {
	Name              string  `json:"name"`
	Power             float64 `json:"power"`
	EnergyCost        float64 `json:"energy_cost"`
	Duration          float64 `json:"duration"`
	STAB              bool    `json:"stab"`
	WeatherBoosted    bool    `json:"weather_boosted"`
	TypeEffectiveness float64 `json:"type_effectiveness"`
}

func (m ChargeMove) Validate() error {
	switch {
	case m.Power < 0:
		return invalidInput("charge move", "%s: power cannot be negative", m.Name)
	case m.EnergyCost <= 0:
		return invalidInput("charge move", "%s: energy cost must be positive", m.Name)
	case m.Duration <= 0:
		return invalidInput("charge move", "%s: duration must be positive", m.Name)
	case m.TypeEffectiveness < 0:
		return invalidInput("charge move", "%s: type effectiveness must be positive", m.Name)
	}
	return nil
}

func (m ChargeMove) effectiveness() float64 {
	if m.TypeEffectiveness == 0 {
		return 1.0
	}
	return m.TypeEffectiveness
}

// ── PvP move descriptors ────────────────────────────────────────────

// PvPFastMove is the turn-based repeatable move. One turn is half a second.
type PvPFastMove struct {
	Name       string  `json:"name"`
	Damage     float64 `json:"damage"`
	EnergyGain float64 `json:"energy_gain"`
	Turns      int     `json:"turns"`
}

func (m PvPFastMove) Validate() error {
	switch {
	case m.Damage < 0:
		return invalidInput("pvp fast move", "%s: damage cannot be negative", m.Name)
	case m.EnergyGain <= 0:
		return invalidInput("pvp fast move", "%s: energy gain must be positive", m.Name)
	case m.Turns <= 0:
		return invalidInput("pvp fast move", "%s: turns must be positive", m.Name)
	}
	return nil
}

// Seconds returns the move's duration in seconds (turns are half-seconds).
func (m PvPFastMove) Seconds() float64 { return float64(m.Turns) * 0.5 }

// PvPChargeMove is the turn-based finishing move. Reliability is the
// expected-use-rate per unit pressure; zero means the 1/cost default.
type PvPChargeMove struct {
	Name        string  `json:"name"`
	Damage      float64 `json:"damage"`
	EnergyCost  float64 `json:"energy_cost"`
	Reliability float64 `json:"reliability"`
	HasBuff     bool    `json:"has_buff"`
}

func (m PvPChargeMove) Validate() error {
	switch {
	case m.Damage < 0:
		return invalidInput("pvp charge move", "%s: damage cannot be negative", m.Name)
	case m.EnergyCost <= 0:
		return invalidInput("pvp charge move", "%s: energy cost must be positive", m.Name)
	case m.Reliability < 0:
		return invalidInput("pvp charge move", "%s: reliability cannot be negative", m.Name)
	}
	return nil
}

// EffectiveReliability returns the reliability, defaulting to 1/energy-cost.
func (m PvPChargeMove) EffectiveReliability() float64 {
	if m.Reliability > 0 {
		return m.Reliability
	}
	return 1.0 / m.EnergyCost
}

// ── Results ─────────────────────────────────────────────────────────

// LevelEstimate is the outcome of level inference.
type LevelEstimate struct {
	Level float64 `json:"level"`
	// CPM is the growth multiplier actually applied to stats, including the
	// best-buddy shift.
	CPM   float64   `json:"cpm"`
	CP    int       `json:"cp"`
	HP    int       `json:"hp"`
	Exact bool      `json:"exact"`
	Tied  []float64 `json:"tied,omitempty"`
}

// BuildResult is the frontier optimizer's winning level/IV combination.
type BuildResult struct {
	Level       float64  `json:"level"`
	IV          IVSpread `json:"iv"`
	CP          int      `json:"cp"`
	StatProduct float64  `json:"stat_product"`
	RequiresXL  bool     `json:"requires_xl"`
}

// RotationResult describes the best sustainable PvE cycle. Cycle quantities
// carry the fractional fast-move credit for leftover energy, so they are not
// integral.
type RotationResult struct {
	Rate         float64        `json:"rate"`
	CycleDamage  float64        `json:"cycle_damage"`
	CycleTime    float64        `json:"cycle_time"`
	FastPerCycle float64        `json:"fast_per_cycle"`
	ChargeUsage  map[string]int `json:"charge_usage,omitempty"`
	FastOnly     bool           `json:"fast_only"`
}

// PvEScore is the full cooperative-combat score breakdown.
type PvEScore struct {
	Rotation      RotationResult `json:"rotation"`
	EHP           float64        `json:"ehp"`
	TimeToFaint   float64        `json:"time_to_faint"`
	TDO           float64        `json:"tdo"`
	ValueRaw      float64        `json:"value_raw"`
	PenaltyFactor float64        `json:"penalty_factor"`
	Value         float64        `json:"value"`
}

// ShieldScenario is the per-shield-count slice of the PvP pressure model.
type ShieldScenario struct {
	Shields         int     `json:"shields"`
	BaitProbability float64 `json:"bait_probability"`
	MovePressure    float64 `json:"move_pressure"`
}

// PvPScore is the full competitive-battle score breakdown. Modifiers records
// every post-hoc multiplicative adjustment that was applied.
type PvPScore struct {
	StatProduct      float64            `json:"stat_product"`
	StatProductNorm  float64            `json:"stat_product_norm"`
	MovePressure     float64            `json:"move_pressure"`
	MovePressureNorm float64            `json:"move_pressure_norm"`
	Score            float64            `json:"score"`
	ShieldBreakdown  []ShieldScenario   `json:"shield_breakdown,omitempty"`
	Modifiers        map[string]float64 `json:"modifiers,omitempty"`
}
