package analyzer

import (
	"fmt"
	"sort"
	"strings"
)

// ── Text output ─────────────────────────────────────────────────────

// FormatLevelEstimate renders an inference result for terminal output.
func FormatLevelEstimate(est LevelEstimate) string {
	var b strings.Builder
	fmt.Fprintf(&b, "level %.1f (cpm %.8f) -> CP %d / HP %d\n", est.Level, est.CPM, est.CP, est.HP)
	if !est.Exact {
		b.WriteString("no level reproduces the reading exactly; closest match shown\n")
	}
	if len(est.Tied) > 0 {
		parts := make([]string, len(est.Tied))
		for i, l := range est.Tied {
			parts[i] = fmt.Sprintf("%.1f", l)
		}
		fmt.Fprintf(&b, "tied levels: %s\n", strings.Join(parts, ", "))
	}
	return b.String()
}

// FormatBuild renders a frontier result for terminal output.
func FormatBuild(build BuildResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "best build: level %.1f IV %d/%d/%d -> CP %d\n",
		build.Level, build.IV.Attack, build.IV.Defense, build.IV.Stamina, build.CP)
	fmt.Fprintf(&b, "stat product: %.0f\n", build.StatProduct)
	if build.RequiresXL {
		b.WriteString("needs XL candy\n")
	}
	return b.String()
}

// FormatPvEScore renders a rotation plus durability breakdown.
func FormatPvEScore(score PvEScore) string {
	var b strings.Builder
	rot := score.Rotation
	if rot.FastOnly {
		fmt.Fprintf(&b, "rotation: fast only -> %.2f dps\n", rot.Rate)
	} else {
		fmt.Fprintf(&b, "rotation: %.2f dps (%.1f dmg / %.2fs, %.2f fast + %s)\n",
			rot.Rate, rot.CycleDamage, rot.CycleTime, rot.FastPerCycle, formatUsage(rot.ChargeUsage))
	}
	fmt.Fprintf(&b, "ehp %.1f, faints in %.1fs, total output %.1f\n", score.EHP, score.TimeToFaint, score.TDO)
	if score.PenaltyFactor != 1 {
		fmt.Fprintf(&b, "value: %.3f (raw %.3f, relobby ×%.3f)\n", score.Value, score.ValueRaw, score.PenaltyFactor)
	} else {
		fmt.Fprintf(&b, "value: %.3f\n", score.Value)
	}
	return b.String()
}

func formatUsage(usage map[string]int) string {
	if len(usage) == 0 {
		return "no charge"
	}
	names := make([]string, 0, len(usage))
	for name := range usage {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%d× %s", usage[name], name)
	}
	return strings.Join(parts, ", ")
}

// FormatPvPScore renders a league score breakdown.
func FormatPvPScore(score PvPScore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "bulk %.0f (norm %.3f), pressure %.2f (norm %.3f)\n",
		score.StatProduct, score.StatProductNorm, score.MovePressure, score.MovePressureNorm)
	for _, sc := range score.ShieldBreakdown {
		fmt.Fprintf(&b, "  %d shields: bait %.2f -> pressure %.2f\n", sc.Shields, sc.BaitProbability, sc.MovePressure)
	}
	if len(score.Modifiers) > 0 {
		names := make([]string, 0, len(score.Modifiers))
		for name := range score.Modifiers {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = fmt.Sprintf("%s ×%.3f", name, score.Modifiers[name])
		}
		fmt.Fprintf(&b, "modifiers: %s\n", strings.Join(parts, ", "))
	}
	fmt.Fprintf(&b, "score: %.4f\n", score.Score)
	return b.String()
}

// FormatPvPScoreboard renders the top rows of a league scoreboard.
func FormatPvPScoreboard(entries []PvPEntry, limit int) string {
	var b strings.Builder
	for i, e := range entries {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(&b, "%3d. %-20s %.4f  L%.1f %d/%d/%d  %s + %s\n",
			i+1, e.Name, e.Score.Score, e.Build.Level,
			e.Build.IV.Attack, e.Build.IV.Defense, e.Build.IV.Stamina,
			e.Fast, strings.Join(e.Charges, "/"))
	}
	return b.String()
}

// FormatRaidScoreboard renders the top rows of a raid scoreboard.
func FormatRaidScoreboard(entries []RaidEntry, limit int) string {
	var b strings.Builder
	for i, e := range entries {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(&b, "%3d. %-20s %.3f  %.2f dps  %s + %s\n",
			i+1, e.Name, e.Score.Value, e.Score.Rotation.Rate,
			e.Fast, formatUsage(e.Score.Rotation.ChargeUsage))
	}
	return b.String()
}
