package analyzer

// ── Build frontier search ───────────────────────────────────────────

// FrontierOptions tunes the build search domain.
type FrontierOptions struct {
	// IVFloor is the minimum value each IV may take (trade and hatch floors).
	IVFloor int
}

// MaxStatProduct finds the build (IV spread plus level) with the highest
// stat product whose CP stays within cap. A cap of zero or less means
// uncapped. Returns ErrNoFeasibleBuild when even the weakest build at the
// lowest level exceeds the cap.
//
// The search walks the defense/stamina grid and, per pair, binary-searches
// the level ceiling at the attack floor; only that level and its two lower
// neighbors can host the pair's optimum, since raising attack at a fixed
// level may force at most a small level drop.
func MaxStatProduct(table *LevelTable, base BaseStats, status StatusFlags, cap int, opts FrontierOptions) (BuildResult, error) {
	if table.empty() {
		return BuildResult{}, ErrNoFeasibleBuild
	}
	if err := base.Validate(); err != nil {
		return BuildResult{}, err
	}
	floor := opts.IVFloor
	if floor < 0 || floor > maxIV {
		return BuildResult{}, invalidInput("ivFloor", "must be in [0,%d], got %d", maxIV, floor)
	}

	best := BuildResult{Level: -1}
	for ivD := floor; ivD <= maxIV; ivD++ {
		for ivS := floor; ivS <= maxIV; ivS++ {
			top := topLevelIndex(table, base, status, cap, floor, ivD, ivS)
			if top < 0 {
				continue
			}
			for li := top; li >= 0 && li > top-3; li-- {
				ivA := maxFeasibleAttack(table, base, status, cap, floor, ivD, ivS, li)
				if ivA < floor {
					continue
				}
				iv := IVSpread{Attack: ivA, Defense: ivD, Stamina: ivS}
				m := table.multiplierAt(li, status.BestBuddy)
				atk, def, sta := baseline(base, iv, status)
				stats := EffectiveStats{
					Attack:  atk * m,
					Defense: def * m,
					HP:      hpFromStamina(sta, m),
				}
				product := StatProduct(stats)
				if best.Level < 0 || product > best.StatProduct {
					best = BuildResult{
						Level:       levelAt(li),
						IV:          iv,
						CP:          cpFrom(atk, def, sta, m),
						StatProduct: product,
						RequiresXL:  levelAt(li) > 40,
					}
				}
			}
		}
	}
	if best.Level < 0 {
		return BuildResult{}, ErrNoFeasibleBuild
	}
	return best, nil
}

// topLevelIndex binary-searches the highest level index at which the pair
// fits the cap with attack at the floor, or -1 when none does.
func topLevelIndex(table *LevelTable, base BaseStats, status StatusFlags, cap, floor, ivD, ivS int) int {
	iv := IVSpread{Attack: floor, Defense: ivD, Stamina: ivS}
	atk, def, sta := baseline(base, iv, status)
	fits := func(li int) bool {
		if cap <= 0 {
			return true
		}
		return cpFrom(atk, def, sta, table.multiplierAt(li, status.BestBuddy)) <= cap
	}
	if !fits(0) {
		return -1
	}
	lo, hi := 0, numBuildLevels-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// maxFeasibleAttack binary-searches the highest attack IV that keeps the
// build within the cap at a fixed level, or floor-1 when none does.
func maxFeasibleAttack(table *LevelTable, base BaseStats, status StatusFlags, cap, floor, ivD, ivS, li int) int {
	m := table.multiplierAt(li, status.BestBuddy)
	fits := func(ivA int) bool {
		if cap <= 0 {
			return true
		}
		iv := IVSpread{Attack: ivA, Defense: ivD, Stamina: ivS}
		atk, def, sta := baseline(base, iv, status)
		return cpFrom(atk, def, sta, m) <= cap
	}
	if !fits(floor) {
		return floor - 1
	}
	lo, hi := floor, maxIV
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}
