package analyzer

import (
	"errors"
	"math"
)

// ── PvE rotation search ─────────────────────────────────────────────

// rateEpsilon breaks float-noise ties so the first (shortest) cycle found at
// a given rate wins.
const rateEpsilon = 1e-9

// RotationOptions tunes the rotation search.
type RotationOptions struct {
	// MaxChargeUses bounds charge casts per cycle. Zero means the default 6.
	MaxChargeUses int
	// EnergyFromDamageRatio feeds a share of damage taken back as energy
	// (rho). Zero disables the term; 0.5 is the conventional value.
	EnergyFromDamageRatio float64
	// IncomingDPS is the sustained damage taken, required when
	// EnergyFromDamageRatio is set.
	IncomingDPS float64
}

func (o RotationOptions) withDefaults() RotationOptions {
	if o.MaxChargeUses == 0 {
		o.MaxChargeUses = 6
	}
	return o
}

func (o RotationOptions) validate() error {
	if o.MaxChargeUses < 0 {
		return invalidInput("maxChargeUses", "cannot be negative, got %d", o.MaxChargeUses)
	}
	if o.EnergyFromDamageRatio < 0 {
		return invalidInput("energyFromDamageRatio", "cannot be negative, got %v", o.EnergyFromDamageRatio)
	}
	if o.EnergyFromDamageRatio > 0 && o.IncomingDPS <= 0 {
		return invalidInput("incomingDPS", "must be positive when energyFromDamageRatio is set")
	}
	return nil
}

// rotationState is one reachable point of the cycle search. Charge counts are
// folded into a fingerprint string so states differing only in energy share a
// table slot, where the higher energy dominates.
type rotationState struct {
	fastCasts int
	charges   string
	energy    float64
}

func (s rotationState) key() rotationKey {
	return rotationKey{fastCasts: s.fastCasts, charges: s.charges}
}

type rotationKey struct {
	fastCasts int
	charges   string
}

func bumpCharge(counts string, i int) string {
	b := []byte(counts)
	b[i]++
	return string(b)
}

// BestRotation finds the repeating fast/charge cycle with the highest
// sustained damage rate against a target of the given defense.
//
// The search is a frontier walk over (cast counts, energy) states: per
// distinct cast-count combination only the highest reachable energy survives.
// Energy is clamped to the cap after every change, a fast move is never cast
// at full energy, and every charge cast closes a candidate cycle whose rate
// refunds the fractional fast casts covering the leftover energy.
//
// Charge moves whose cost exceeds the energy cap cannot ever fire; when no
// supplied charge move is usable the fast-only rotation is returned together
// with ErrNoFeasibleRotation.
func BestRotation(fast FastMove, charges []ChargeMove, attack, targetDefense float64, opts RotationOptions) (RotationResult, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return RotationResult{}, err
	}
	fastDmg, err := fastDamage(fast, attack, targetDefense)
	if err != nil {
		return RotationResult{}, err
	}
	chargeDmg := make([]int, len(charges))
	for i, c := range charges {
		if chargeDmg[i], err = chargeDamage(c, attack, targetDefense); err != nil {
			return RotationResult{}, err
		}
	}

	fastOnly := RotationResult{
		Rate:         float64(fastDmg) / fast.Duration,
		CycleDamage:  float64(fastDmg),
		CycleTime:    fast.Duration,
		FastPerCycle: 1,
		FastOnly:     true,
	}

	usable := make([]int, 0, len(charges))
	for i, c := range charges {
		if c.EnergyCost <= energyCap+rateEpsilon {
			usable = append(usable, i)
		}
	}
	if len(usable) == 0 {
		if len(charges) > 0 {
			return fastOnly, ErrNoFeasibleRotation
		}
		return fastOnly, nil
	}

	rho := opts.EnergyFromDamageRatio
	incoming := opts.IncomingDPS
	effGain := fast.EnergyGain + rho*incoming*fast.Duration

	// Enough fast casts to refill from empty once per charge use, plus one
	// spare refill for the cycle tail.
	refill := int(math.Ceil(energyCap / fast.EnergyGain))
	maxFast := (opts.MaxChargeUses + 1) * refill

	best := fastOnly
	start := rotationState{charges: string(make([]byte, len(charges)))}
	seen := map[rotationKey]float64{start.key(): 0}
	queue := []rotationState{start}

	for len(queue) > 0 {
		st := queue[0]
		queue = queue[1:]
		if seen[st.key()] > st.energy+rateEpsilon {
			continue // superseded by a richer arrival
		}

		cycleTime := float64(st.fastCasts) * fast.Duration
		cycleDmg := float64(st.fastCasts * fastDmg)
		totalCharges := 0
		for i := 0; i < len(charges); i++ {
			n := int(st.charges[i])
			totalCharges += n
			cycleTime += float64(n) * charges[i].Duration
			cycleDmg += float64(n * chargeDmg[i])
		}

		if st.fastCasts < maxFast && st.energy < energyCap-rateEpsilon {
			next := rotationState{
				fastCasts: st.fastCasts + 1,
				charges:   st.charges,
				energy:    math.Min(energyCap, st.energy+fast.EnergyGain+rho*incoming*fast.Duration),
			}
			if prev, ok := seen[next.key()]; !ok || prev < next.energy-rateEpsilon {
				seen[next.key()] = next.energy
				queue = append(queue, next)
			}
		}

		if totalCharges >= opts.MaxChargeUses {
			continue
		}
		for _, i := range usable {
			c := charges[i]
			if st.energy+1e-6 < c.EnergyCost {
				continue
			}
			next := rotationState{
				fastCasts: st.fastCasts,
				charges:   bumpCharge(st.charges, i),
				energy:    math.Min(energyCap, st.energy-c.EnergyCost+rho*incoming*c.Duration),
			}
			if prev, ok := seen[next.key()]; !ok || prev < next.energy-rateEpsilon {
				seen[next.key()] = next.energy
				queue = append(queue, next)
			}

			// Closing the cycle here: leftover energy converts back into
			// fractional fast casts so short cycles are not undercharged.
			frac := math.Min(next.energy/effGain, float64(st.fastCasts))
			effTime := cycleTime + c.Duration - fast.Duration*frac
			effDmg := cycleDmg + float64(chargeDmg[i]) - float64(fastDmg)*frac
			effFast := float64(st.fastCasts) - frac
			if effTime <= 0 || effFast < 0 {
				continue
			}
			if rate := effDmg / effTime; rate > best.Rate+rateEpsilon {
				usage := make(map[string]int)
				for j := 0; j < len(charges); j++ {
					n := int(next.charges[j])
					if n > 0 {
						usage[charges[j].Name] = n
					}
				}
				best = RotationResult{
					Rate:         rate,
					CycleDamage:  effDmg,
					CycleTime:    effTime,
					FastPerCycle: effFast,
					ChargeUsage:  usage,
				}
			}
		}
	}
	return best, nil
}

// ── Cooperative-combat scoring ──────────────────────────────────────

// PvEScenario is one boss profile a build is scored against.
type PvEScenario struct {
	TargetDefense float64 `json:"target_defense"`
	IncomingDPS   float64 `json:"incoming_dps"`
	// Weight is the scenario's share in aggregation. Zero means 1.
	Weight float64 `json:"weight"`
}

func (s PvEScenario) validate() error {
	if s.TargetDefense <= 0 {
		return invalidInput("targetDefense", "must be positive, got %v", s.TargetDefense)
	}
	if s.IncomingDPS <= 0 {
		return invalidInput("incomingDPS", "must be positive, got %v", s.IncomingDPS)
	}
	if s.Weight < 0 {
		return invalidInput("weight", "cannot be negative, got %v", s.Weight)
	}
	return nil
}

// ScorePvE blends a build's best rotation with its durability against one
// scenario. Output lift (damage rate) and total output (TDO) are combined as
// rate^alpha * TDO^(1-alpha); a relobby penalty exp(-phi*TDO) discounts
// glassy builds that spend their time walking back in.
func ScorePvE(stats EffectiveStats, fast FastMove, charges []ChargeMove, scenario PvEScenario, tn Tunables) (PvEScore, error) {
	if err := scenario.validate(); err != nil {
		return PvEScore{}, err
	}
	if err := tn.Validate(); err != nil {
		return PvEScore{}, err
	}
	rotOpts := RotationOptions{
		MaxChargeUses:         tn.MaxChargeUses,
		EnergyFromDamageRatio: tn.EnergyFromDamageRatio,
		IncomingDPS:           scenario.IncomingDPS,
	}
	rotation, err := BestRotation(fast, charges, stats.Attack, scenario.TargetDefense, rotOpts)
	if err != nil && !errors.Is(err, ErrNoFeasibleRotation) {
		return PvEScore{}, err
	}

	ehp := float64(stats.HP) * (stats.Defense / scenario.TargetDefense)
	ttf := ehp / scenario.IncomingDPS
	tdo := rotation.Rate * ttf
	raw := math.Pow(rotation.Rate, tn.Alpha) * math.Pow(tdo, 1-tn.Alpha)
	penalty := math.Exp(-tn.RelobbyPhi * tdo)
	value := raw * penalty
	if tn.DodgeFactor > 0 {
		value *= tn.DodgeFactor
	}
	return PvEScore{
		Rotation:      rotation,
		EHP:           ehp,
		TimeToFaint:   ttf,
		TDO:           tdo,
		ValueRaw:      raw,
		PenaltyFactor: penalty,
		Value:         value,
	}, err
}

// ScorePvEScenarios scores a build against several boss profiles and returns
// the per-scenario breakdown plus the weighted mean value.
func ScorePvEScenarios(stats EffectiveStats, fast FastMove, charges []ChargeMove, scenarios []PvEScenario, tn Tunables) ([]PvEScore, float64, error) {
	if len(scenarios) == 0 {
		return nil, 0, invalidInput("scenarios", "at least one scenario is required")
	}
	scores := make([]PvEScore, len(scenarios))
	var weighted, totalWeight float64
	for i, sc := range scenarios {
		score, err := ScorePvE(stats, fast, charges, sc, tn)
		if err != nil && !errors.Is(err, ErrNoFeasibleRotation) {
			return nil, 0, err
		}
		scores[i] = score
		w := sc.Weight
		if w == 0 {
			w = 1
		}
		weighted += w * score.Value
		totalWeight += w
	}
	return scores, weighted / totalWeight, nil
}
