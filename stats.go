package analyzer

import "math"

// ── Stat projection ─────────────────────────────────────────────────

const (
	// floorEpsilon nudges products before flooring so values that are exact
	// integers up to float error do not truncate a point low.
	floorEpsilon = 1e-9

	shadowAttackMult  = 1.2
	shadowDefenseMult = 5.0 / 6.0

	// minCP is the floor every combat-power reading clamps to.
	minCP = 10

	// energyCap bounds stored move energy.
	energyCap = 100.0
)

// baseline folds base stats, IVs and status into pre-multiplier stat totals.
// Shadow scaling applies after the IV add, purified status cancels it.
func baseline(base BaseStats, iv IVSpread, status StatusFlags) (atk, def, sta float64) {
	atk = float64(base.Attack + iv.Attack)
	def = float64(base.Defense + iv.Defense)
	sta = float64(base.Stamina + iv.Stamina)
	if status.Shadow && !status.Purified {
		atk *= shadowAttackMult
		def *= shadowDefenseMult
	}
	return atk, def, sta
}

// Project computes the effective combat stats of a build at a level.
func Project(table *LevelTable, base BaseStats, iv IVSpread, status StatusFlags, level float64) (EffectiveStats, error) {
	if err := base.Validate(); err != nil {
		return EffectiveStats{}, err
	}
	if err := iv.Validate(); err != nil {
		return EffectiveStats{}, err
	}
	m, err := table.Multiplier(level, status.BestBuddy)
	if err != nil {
		return EffectiveStats{}, err
	}
	atk, def, sta := baseline(base, iv, status)
	return EffectiveStats{
		Attack:  atk * m,
		Defense: def * m,
		HP:      hpFromStamina(sta, m),
	}, nil
}

func hpFromStamina(sta, m float64) int {
	return int(math.Floor(sta*m + floorEpsilon))
}

// ComputeCP evaluates the combat-power formula for a build at a level.
func ComputeCP(table *LevelTable, base BaseStats, iv IVSpread, status StatusFlags, level float64) (int, error) {
	if err := base.Validate(); err != nil {
		return 0, err
	}
	if err := iv.Validate(); err != nil {
		return 0, err
	}
	m, err := table.Multiplier(level, status.BestBuddy)
	if err != nil {
		return 0, err
	}
	atk, def, sta := baseline(base, iv, status)
	return cpFrom(atk, def, sta, m), nil
}

func cpFrom(atk, def, sta, m float64) int {
	cp := int(math.Floor(atk*math.Sqrt(def)*math.Sqrt(sta)*m*m/10 + floorEpsilon))
	if cp < minCP {
		cp = minCP
	}
	return cp
}

// StatProduct is the bulk-times-pressure build metric Attack*Defense*HP.
func StatProduct(s EffectiveStats) float64 {
	return s.Attack * s.Defense * float64(s.HP)
}

// ── Per-hit damage ──────────────────────────────────────────────────

// damageModifiers multiplies the situational boosts of a strike.
func damageModifiers(stab, weather bool, effectiveness float64) float64 {
	mult := effectiveness
	if stab {
		mult *= 1.2
	}
	if weather {
		mult *= 1.2
	}
	return mult
}

// DamagePerHit resolves one strike of power pow from attack atk into defense
// def under the given modifiers. Always at least 1.
func DamagePerHit(pow, atk, def float64, stab, weather bool, effectiveness float64) (int, error) {
	if pow < 0 {
		return 0, invalidInput("power", "must be non-negative, got %v", pow)
	}
	if atk <= 0 {
		return 0, invalidInput("attack", "must be positive, got %v", atk)
	}
	if def <= 0 {
		return 0, invalidInput("defense", "must be positive, got %v", def)
	}
	if effectiveness <= 0 {
		return 0, invalidInput("effectiveness", "must be positive, got %v", effectiveness)
	}
	mult := damageModifiers(stab, weather, effectiveness)
	return int(math.Floor(0.5*pow*(atk/def)*mult+floorEpsilon)) + 1, nil
}

func fastDamage(m FastMove, atk, def float64) (int, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return DamagePerHit(m.Power, atk, def, m.STAB, m.WeatherBoosted, m.effectiveness())
}

func chargeDamage(m ChargeMove, atk, def float64) (int, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	return DamagePerHit(m.Power, atk, def, m.STAB, m.WeatherBoosted, m.effectiveness())
}
