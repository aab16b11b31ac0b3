package analyzer

import (
	"math"
	"sort"
)

// ── Leagues ─────────────────────────────────────────────────────────

// League fixes a CP cap plus the reference scales scores normalize against.
type League struct {
	Name string `json:"name"`
	// Cap is the CP ceiling; zero means uncapped.
	Cap int `json:"cap"`
	// StatProductRef and MovePressureRef are the fixed normalization anchors
	// used under NormReference.
	StatProductRef  float64 `json:"stat_product_ref"`
	MovePressureRef float64 `json:"move_pressure_ref"`
	// BaitProbability is the fixed chance the cheap charge move baits a
	// shield, used when the sigmoid bait model is off.
	BaitProbability float64 `json:"bait_probability"`
}

func GreatLeague() League {
	return League{Name: "great", Cap: 1500, StatProductRef: 1.6e6, MovePressureRef: 48, BaitProbability: 0.55}
}

func UltraLeague() League {
	return League{Name: "ultra", Cap: 2500, StatProductRef: 2.4e6, MovePressureRef: 52, BaitProbability: 0.5}
}

func MasterLeague() League {
	return League{Name: "master", Cap: 0, StatProductRef: 3.0e6, MovePressureRef: 56, BaitProbability: 0.45}
}

// LeagueByName resolves a league preset from its CLI name.
func LeagueByName(name string) (League, error) {
	switch name {
	case "great":
		return GreatLeague(), nil
	case "ultra":
		return UltraLeague(), nil
	case "master":
		return MasterLeague(), nil
	}
	return League{}, invalidInput("league", "unknown league %q", name)
}

func (l League) validate() error {
	if l.StatProductRef <= 0 || l.MovePressureRef <= 0 {
		return configErr("league %s: reference scales must be positive", l.Name)
	}
	if l.BaitProbability < 0 || l.BaitProbability > 1 {
		return configErr("league %s: bait probability must be in [0,1]", l.Name)
	}
	return nil
}

// ── Normalization policies ──────────────────────────────────────────

// NormPolicy selects the scale a raw bulk or pressure value divides by.
type NormPolicy int

const (
	// NormReference divides by the league's fixed anchor.
	NormReference NormPolicy = iota
	// NormPopulationMax divides by the population maximum.
	NormPopulationMax
	// NormP95 divides by the population's 95th percentile.
	NormP95
	// NormP50 divides by the population median.
	NormP50
)

// normScale resolves the divisor for a policy. Population policies need a
// non-empty population.
func normScale(policy NormPolicy, reference float64, population []float64) (float64, error) {
	if policy == NormReference {
		return reference, nil
	}
	if len(population) == 0 {
		return 0, configErr("%s normalization needs a non-empty population", policy)
	}
	switch policy {
	case NormPopulationMax:
		max := population[0]
		for _, v := range population[1:] {
			if v > max {
				max = v
			}
		}
		return max, nil
	case NormP95:
		return percentile(population, 0.95), nil
	case NormP50:
		return percentile(population, 0.50), nil
	}
	return 0, configErr("unknown norm policy %d", policy)
}

// percentile interpolates linearly between order statistics.
func percentile(values []float64, q float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

// ── Pressure model ──────────────────────────────────────────────────

// fastPressure is damage flow plus kappa-weighted energy flow, per second.
func fastPressure(m PvPFastMove, kappa float64) float64 {
	sec := m.Seconds()
	return m.Damage/sec + kappa*(m.EnergyGain/sec)
}

// chargePressure is expected damage per use opportunity, with buff equity
// folded in at lambda points per buff.
func chargePressure(m PvPChargeMove, lambda float64) float64 {
	buff := 0.0
	if m.HasBuff {
		buff = lambda
	}
	return m.EffectiveReliability() * (m.Damage + buff)
}

// pairPressure blends the two charge moves by bait probability p: the
// expensive move lands a share p of the time, the cheap bait the rest.
func pairPressure(p, high, low float64) float64 {
	return p*high + (1-p)*low
}

func sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// baitProbability evaluates the bait chance at a shield count.
func baitProbability(tn Tunables, league League, fast PvPFastMove, shields int) float64 {
	if !tn.Bait.Sigmoid {
		return league.BaitProbability
	}
	sec := fast.Seconds()
	ept := fast.EnergyGain / sec
	dpt := fast.Damage / sec
	return sigmoid(tn.Bait.EPT*ept + tn.Bait.DPT*dpt + tn.Bait.Shields*float64(shields) + tn.Bait.Bias)
}

// ── Scoring ─────────────────────────────────────────────────────────

// ScorePvP rates a projected build with a fast move and one or two charge
// moves for a league. Bulk (stat product) and move pressure are normalized
// against the league anchors and blended as bulk^beta * pressure^(1-beta).
// With two charge moves the bait model decides how often the expensive one
// lands; under the sigmoid model the result carries the per-shield-count
// breakdown that was blended.
func ScorePvP(stats EffectiveStats, fast PvPFastMove, charges []PvPChargeMove, league League, tn Tunables) (PvPScore, error) {
	if err := tn.Validate(); err != nil {
		return PvPScore{}, err
	}
	if err := league.validate(); err != nil {
		return PvPScore{}, err
	}
	if err := fast.Validate(); err != nil {
		return PvPScore{}, err
	}
	if len(charges) < 1 || len(charges) > 2 {
		return PvPScore{}, invalidInput("charges", "need one or two charge moves, got %d", len(charges))
	}
	for _, c := range charges {
		if err := c.Validate(); err != nil {
			return PvPScore{}, err
		}
	}
	if stats.Attack <= 0 || stats.Defense <= 0 || stats.HP <= 0 {
		return PvPScore{}, invalidInput("stats", "effective stats must be positive")
	}

	pressure, breakdown := movePressure(fast, charges, league, tn)
	sp := StatProduct(stats)

	score := PvPScore{
		StatProduct:      sp,
		StatProductNorm:  sp / league.StatProductRef,
		MovePressure:     pressure,
		MovePressureNorm: pressure / league.MovePressureRef,
		ShieldBreakdown:  breakdown,
	}
	score.Score = blendScore(score.StatProductNorm, score.MovePressureNorm, tn.Beta)
	return score, nil
}

func blendScore(bulkNorm, pressureNorm, beta float64) float64 {
	return math.Pow(bulkNorm, beta) * math.Pow(pressureNorm, 1-beta)
}

// movePressure computes fast + charge pressure. Inputs are pre-validated.
func movePressure(fast PvPFastMove, charges []PvPChargeMove, league League, tn Tunables) (float64, []ShieldScenario) {
	fp := fastPressure(fast, tn.Kappa)

	if len(charges) == 1 {
		return fp + chargePressure(charges[0], tn.Lambda), nil
	}

	low, high := charges[0], charges[1]
	if low.EnergyCost > high.EnergyCost {
		low, high = high, low
	}
	lowP := chargePressure(low, tn.Lambda)
	highP := chargePressure(high, tn.Lambda)
	single := math.Max(lowP, highP)

	if !tn.Bait.Sigmoid {
		p := baitProbability(tn, league, fast, 0)
		return fp + math.Max(single, pairPressure(p, highP, lowP)), nil
	}

	breakdown := make([]ShieldScenario, 3)
	var blended, weightSum float64
	for s := 0; s < 3; s++ {
		p := baitProbability(tn, league, fast, s)
		pressure := fp + math.Max(single, pairPressure(p, highP, lowP))
		breakdown[s] = ShieldScenario{Shields: s, BaitProbability: p, MovePressure: pressure}
		blended += tn.ShieldWeights[s] * pressure
		weightSum += tn.ShieldWeights[s]
	}
	return blended / weightSum, breakdown
}

// ── Post-hoc modifiers ──────────────────────────────────────────────

// PvPModifiers are the independently toggleable multiplicative adjustments
// applied after the core score. A zero coefficient leaves its factor off.
type PvPModifiers struct {
	// CMPEta boosts the score ×(1+eta) when the build's attack stat
	// percentile within its population meets the threshold.
	CMPEta           float64 `json:"cmp_eta"`
	CMPThreshold     float64 `json:"cmp_threshold"`
	AttackPercentile float64 `json:"attack_percentile"`
	// CoverageTheta scales the coverage bonus ×(1+theta*coverage).
	CoverageTheta float64 `json:"coverage_theta"`
	Coverage      float64 `json:"coverage"`
	// AntiMetaMu scales the anti-meta bonus ×(1+mu*antiMeta).
	AntiMetaMu float64 `json:"anti_meta_mu"`
	AntiMeta   float64 `json:"anti_meta"`
	// AvailabilityPenalty discounts hard-to-get builds ×(1-penalty),
	// clamped so the score never collapses to zero.
	AvailabilityPenalty float64 `json:"availability_penalty"`
}

// ApplyModifiers returns the score with every active modifier multiplied in
// and recorded under Modifiers.
func ApplyModifiers(score PvPScore, m PvPModifiers) PvPScore {
	factors := make(map[string]float64)
	if m.CMPEta > 0 && m.AttackPercentile >= m.CMPThreshold {
		factors["cmp"] = 1 + m.CMPEta
	}
	if m.CoverageTheta > 0 {
		factors["coverage"] = 1 + m.CoverageTheta*m.Coverage
	}
	if m.AntiMetaMu > 0 {
		factors["anti_meta"] = 1 + m.AntiMetaMu*m.AntiMeta
	}
	if m.AvailabilityPenalty > 0 {
		penalty := math.Min(m.AvailabilityPenalty, 0.99)
		factors["availability"] = 1 - penalty
	}
	if len(factors) == 0 {
		return score
	}
	for _, f := range factors {
		score.Score *= f
	}
	score.Modifiers = factors
	return score
}
