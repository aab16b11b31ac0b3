package analyzer

// ── Level inference ─────────────────────────────────────────────────

// TiePolicy selects how ambiguous readings resolve when several levels
// reproduce the same observation.
type TiePolicy int

const (
	// TieLowest resolves to the lowest matching level.
	TieLowest TiePolicy = iota
	// TieAll surfaces every matching level via LevelEstimate.Tied.
	TieAll
)

// InferRequest carries one observed build reading.
type InferRequest struct {
	Base       BaseStats
	IV         IVSpread
	Status     StatusFlags
	ObservedCP int
	// ObservedHP narrows ambiguous readings when set; pass a negative value
	// when the reading has no HP.
	ObservedHP int
	Ties       TiePolicy
}

// InferLevel recovers the build level that reproduces an observed CP, using
// HP to break ties when available. When no level reproduces the reading
// exactly it falls back to the closest CP on the ladder, marked Exact=false.
func InferLevel(table *LevelTable, req InferRequest) (LevelEstimate, error) {
	if table.empty() {
		return LevelEstimate{}, ErrNoFeasibleLevel
	}
	if err := req.Base.Validate(); err != nil {
		return LevelEstimate{}, err
	}
	if err := req.IV.Validate(); err != nil {
		return LevelEstimate{}, err
	}
	if req.ObservedCP < minCP {
		return LevelEstimate{}, invalidInput("observedCP", "must be at least %d, got %d", minCP, req.ObservedCP)
	}

	atk, def, sta := baseline(req.Base, req.IV, req.Status)

	var exact []LevelEstimate
	closest := LevelEstimate{Level: -1}
	closestDiff := 0
	for i := 0; i < numBuildLevels; i++ {
		m := table.multiplierAt(i, req.Status.BestBuddy)
		cp := cpFrom(atk, def, sta, m)
		est := LevelEstimate{
			Level: levelAt(i),
			CPM:   m,
			CP:    cp,
			HP:    hpFromStamina(sta, m),
			Exact: true,
		}
		if cp == req.ObservedCP {
			exact = append(exact, est)
		}
		diff := cp - req.ObservedCP
		if diff < 0 {
			diff = -diff
		}
		if closest.Level < 0 || diff < closestDiff {
			closest, closestDiff = est, diff
		}
	}

	if len(exact) == 0 {
		closest.Exact = false
		return closest, nil
	}

	if req.ObservedHP >= 0 {
		filtered := exact[:0]
		for _, est := range exact {
			if est.HP == req.ObservedHP {
				filtered = append(filtered, est)
			}
		}
		if len(filtered) == 0 {
			return LevelEstimate{}, invalidInput("observedHP", "no level matching CP %d has HP %d", req.ObservedCP, req.ObservedHP)
		}
		exact = filtered
	}

	best := exact[0]
	if req.Ties == TieAll && len(exact) > 1 {
		best.Tied = make([]float64, len(exact))
		for i, est := range exact {
			best.Tied[i] = est.Level
		}
	}
	return best, nil
}
