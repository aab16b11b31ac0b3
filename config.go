package analyzer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ── Tunables ────────────────────────────────────────────────────────

// BaitModel controls the probability that the cheaper charge move lands.
// With Sigmoid off, the league's fixed bait probability applies. With it on,
// p = sigmoid(EPT*ept + DPT*dpt + Shields*shields + Bias) is evaluated per
// shield count and blended with the shield weights.
type BaitModel struct {
	Sigmoid bool    `yaml:"sigmoid"`
	EPT     float64 `yaml:"ept"`
	DPT     float64 `yaml:"dpt"`
	Shields float64 `yaml:"shields"`
	Bias    float64 `yaml:"bias"`
}

// Tunables gathers every scoring knob. All scoring calls take it explicitly;
// there is no package-level state.
type Tunables struct {
	// Alpha blends PvE damage rate against total output, in [0.5, 0.66].
	Alpha float64 `yaml:"alpha"`
	// RelobbyPhi discounts glassy PvE builds via exp(-phi*TDO). Zero is off.
	RelobbyPhi float64 `yaml:"relobby_phi"`
	// DodgeFactor multiplies the PvE value when set. Zero is off.
	DodgeFactor float64 `yaml:"dodge_factor"`
	// MaxChargeUses bounds charge casts per rotation cycle.
	MaxChargeUses int `yaml:"max_charge_uses"`
	// EnergyFromDamageRatio is the rotation search's rho term.
	EnergyFromDamageRatio float64 `yaml:"energy_from_damage_ratio"`

	// Kappa weights energy flow inside PvP fast-move pressure.
	Kappa float64 `yaml:"kappa"`
	// Lambda converts a charge move's buff into pressure points.
	Lambda float64 `yaml:"lambda"`
	// Beta blends PvP bulk against move pressure, in [0.5, 0.55].
	Beta float64 `yaml:"beta"`

	Bait BaitModel `yaml:"bait"`
	// ShieldWeights blends the 0/1/2-shield scenarios of the sigmoid model.
	ShieldWeights [3]float64 `yaml:"shield_weights"`

	Ties    TiePolicy  `yaml:"tie_policy"`
	Norm    NormPolicy `yaml:"norm_policy"`
	IVFloor int        `yaml:"iv_floor"`
}

// DefaultTunables returns the baseline knob set.
func DefaultTunables() Tunables {
	return Tunables{
		Alpha:         0.6,
		MaxChargeUses: 6,
		Kappa:         0.35,
		Lambda:        12.0,
		Beta:          0.52,
		ShieldWeights: [3]float64{0.2, 0.5, 0.3},
	}
}

// EnhancedTunables returns the preset with the sigmoid bait model and
// rebalanced pressure weights.
func EnhancedTunables() Tunables {
	tn := DefaultTunables()
	tn.Kappa = 1.0
	tn.Lambda = 0.6
	tn.Bait = BaitModel{Sigmoid: true, EPT: 0.4, DPT: -0.1, Shields: 0.35}
	return tn
}

func (tn Tunables) Validate() error {
	switch {
	case tn.Alpha < 0.5 || tn.Alpha > 0.66:
		return configErr("alpha must be in [0.5, 0.66], got %v", tn.Alpha)
	case tn.Beta < 0.5 || tn.Beta > 0.55:
		return configErr("beta must be in [0.5, 0.55], got %v", tn.Beta)
	case tn.RelobbyPhi < 0:
		return configErr("relobby_phi cannot be negative, got %v", tn.RelobbyPhi)
	case tn.DodgeFactor < 0:
		return configErr("dodge_factor cannot be negative, got %v", tn.DodgeFactor)
	case tn.MaxChargeUses < 1:
		return configErr("max_charge_uses must be at least 1, got %d", tn.MaxChargeUses)
	case tn.EnergyFromDamageRatio < 0:
		return configErr("energy_from_damage_ratio cannot be negative, got %v", tn.EnergyFromDamageRatio)
	case tn.Kappa < 0:
		return configErr("kappa cannot be negative, got %v", tn.Kappa)
	case tn.Lambda < 0:
		return configErr("lambda cannot be negative, got %v", tn.Lambda)
	case tn.IVFloor < 0 || tn.IVFloor > maxIV:
		return configErr("iv_floor must be in [0,%d], got %d", maxIV, tn.IVFloor)
	}
	var sum float64
	for i, w := range tn.ShieldWeights {
		if w < 0 {
			return configErr("shield_weights[%d] cannot be negative, got %v", i, w)
		}
		sum += w
	}
	if sum <= 0 {
		return configErr("shield_weights must not all be zero")
	}
	return nil
}

// LoadTunables reads a yaml knob file over the defaults. A missing file means
// plain defaults; a malformed or invalid one is a ConfigurationError.
func LoadTunables(path string) (Tunables, error) {
	tn := DefaultTunables()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return tn, nil
		}
		return Tunables{}, &ConfigurationError{Reason: fmt.Sprintf("read tunables %s", path), Err: err}
	}
	if err := yaml.Unmarshal(data, &tn); err != nil {
		return Tunables{}, &ConfigurationError{Reason: fmt.Sprintf("parse tunables %s", path), Err: err}
	}
	if err := tn.Validate(); err != nil {
		return Tunables{}, err
	}
	return tn, nil
}

// ── yaml names for the enum knobs ───────────────────────────────────

func (p TiePolicy) String() string {
	if p == TieAll {
		return "all"
	}
	return "lowest"
}

func (p *TiePolicy) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "lowest":
		*p = TieLowest
	case "all":
		*p = TieAll
	default:
		return configErr("tie_policy: unknown value %q", s)
	}
	return nil
}

func (p TiePolicy) MarshalYAML() (any, error) { return p.String(), nil }

func (p NormPolicy) String() string {
	switch p {
	case NormPopulationMax:
		return "max"
	case NormP95:
		return "p95"
	case NormP50:
		return "p50"
	default:
		return "reference"
	}
}

func (p *NormPolicy) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	switch s {
	case "", "reference":
		*p = NormReference
	case "max":
		*p = NormPopulationMax
	case "p95":
		*p = NormP95
	case "p50":
		*p = NormP50
	default:
		return configErr("norm_policy: unknown value %q", s)
	}
	return nil
}

func (p NormPolicy) MarshalYAML() (any, error) { return p.String(), nil }
