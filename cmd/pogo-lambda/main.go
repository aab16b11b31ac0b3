package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	analyzer "github.com/cortega26/pogo-analyzer"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

// analyzeRequest is the Function URL body. Op selects the operation; the
// remaining fields mirror the CLI inputs for that operation.
type analyzeRequest struct {
	Op string `json:"op"` // analyze | pvp-scoreboard | raid-scoreboard

	Base   analyzer.BaseStats   `json:"base"`
	IV     *analyzer.IVSpread   `json:"iv"`
	Status analyzer.StatusFlags `json:"status"`

	Level      float64 `json:"level"`
	ObservedCP int     `json:"observed_cp"`
	ObservedHP *int    `json:"observed_hp"`

	League string `json:"league"`

	Fast    *analyzer.FastMove    `json:"fast"`
	Charges []analyzer.ChargeMove `json:"charges"`

	PvPFast    *analyzer.PvPFastMove    `json:"pvp_fast"`
	PvPCharges []analyzer.PvPChargeMove `json:"pvp_charges"`

	Scenario analyzer.PvEScenario `json:"scenario"`
	Profile  analyzer.RaidProfile `json:"profile"`

	Species   json.RawMessage `json:"species"`
	Moves     json.RawMessage `json:"moves"`
	Learnsets json.RawMessage `json:"learnsets"`

	Tunables *analyzer.Tunables `json:"tunables"`
	Enhanced bool               `json:"enhanced"`
}

type analyzeResult struct {
	Level *analyzer.LevelEstimate `json:"level,omitempty"`
	Build *analyzer.BuildResult   `json:"build,omitempty"`
	PvE   *analyzer.PvEScore      `json:"pve,omitempty"`
	PvP   *analyzer.PvPScore      `json:"pvp,omitempty"`

	PvPScoreboard  []analyzer.PvPEntry  `json:"pvp_scoreboard,omitempty"`
	RaidScoreboard []analyzer.RaidEntry `json:"raid_scoreboard,omitempty"`
}

func handler(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(400, "invalid base64 body")
		}
		body = string(decoded)
	}

	var req analyzeRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return errResp(400, "invalid JSON: "+err.Error())
	}

	tn := analyzer.DefaultTunables()
	if req.Enhanced {
		tn = analyzer.EnhancedTunables()
	}
	if req.Tunables != nil {
		tn = *req.Tunables
	}

	var (
		result analyzeResult
		err    error
	)
	switch req.Op {
	case "analyze":
		result, err = runAnalyze(req, tn)
	case "pvp-scoreboard":
		result, err = runPvPScoreboard(ctx, req, tn)
	case "raid-scoreboard":
		result, err = runRaidScoreboard(ctx, req, tn)
	default:
		return errResp(400, "op must be analyze, pvp-scoreboard, or raid-scoreboard")
	}
	if err != nil {
		return errResp(statusFor(err), err.Error())
	}

	respJSON, _ := json.Marshal(result)
	return events.LambdaFunctionURLResponse{StatusCode: 200, Headers: jsonHeader, Body: string(respJSON)}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(map[string]string{"error": msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

// statusFor maps rejected inputs to 422; everything else is the caller's
// data being structurally unusable, which reads as 400.
func statusFor(err error) int {
	var invalid *analyzer.InvalidInputError
	if errors.As(err, &invalid) {
		return 422
	}
	if errors.Is(err, analyzer.ErrNoFeasibleLevel) || errors.Is(err, analyzer.ErrNoFeasibleBuild) {
		return 422
	}
	return 400
}

func runAnalyze(req analyzeRequest, tn analyzer.Tunables) (analyzeResult, error) {
	table := analyzer.DefaultLevelTable()
	var out analyzeResult

	iv := analyzer.IVSpread{}
	if req.IV != nil {
		iv = *req.IV
	}
	level := req.Level

	if req.ObservedCP > 0 {
		if req.IV == nil {
			return out, errors.New("inference needs iv")
		}
		hp := -1
		if req.ObservedHP != nil {
			hp = *req.ObservedHP
		}
		est, err := analyzer.InferLevel(table, analyzer.InferRequest{
			Base: req.Base, IV: iv, Status: req.Status,
			ObservedCP: req.ObservedCP, ObservedHP: hp, Ties: tn.Ties,
		})
		if err != nil {
			return out, err
		}
		out.Level = &est
		level = est.Level
	}

	var league analyzer.League
	if req.League != "" {
		var err error
		if league, err = analyzer.LeagueByName(req.League); err != nil {
			return out, err
		}
		build, err := analyzer.MaxStatProduct(table, req.Base, req.Status, league.Cap, analyzer.FrontierOptions{IVFloor: tn.IVFloor})
		if err != nil {
			return out, err
		}
		out.Build = &build
		if req.IV == nil {
			iv, level = build.IV, build.Level
		}
	}

	if req.Fast != nil || req.PvPFast != nil {
		if level == 0 {
			return out, errors.New("move scoring needs level, observed_cp, or league")
		}
		stats, err := analyzer.Project(table, req.Base, iv, req.Status, level)
		if err != nil {
			return out, err
		}
		if req.Fast != nil {
			score, err := analyzer.ScorePvE(stats, *req.Fast, req.Charges, req.Scenario, tn)
			if err != nil && !errors.Is(err, analyzer.ErrNoFeasibleRotation) {
				return out, err
			}
			out.PvE = &score
		}
		if req.PvPFast != nil {
			if req.League == "" {
				league = analyzer.GreatLeague()
			}
			score, err := analyzer.ScorePvP(stats, *req.PvPFast, req.PvPCharges, league, tn)
			if err != nil {
				return out, err
			}
			out.PvP = &score
		}
	}

	if out.Level == nil && out.Build == nil && out.PvE == nil && out.PvP == nil {
		return out, errors.New("nothing to do: set observed_cp, league, fast, or pvp_fast")
	}
	return out, nil
}

func runPvPScoreboard(ctx context.Context, req analyzeRequest, tn analyzer.Tunables) (analyzeResult, error) {
	var out analyzeResult
	species, learnsets, err := loadDataset(req)
	if err != nil {
		return out, err
	}
	fast, charge, err := analyzer.LoadPvPMoves(req.Moves)
	if err != nil {
		return out, err
	}
	leagueName := req.League
	if leagueName == "" {
		leagueName = "great"
	}
	league, err := analyzer.LeagueByName(leagueName)
	if err != nil {
		return out, err
	}
	entries, err := analyzer.BuildPvPScoreboard(ctx, analyzer.PvPDataset{
		Species: species, Fast: fast, Charge: charge, Learnsets: learnsets,
	}, league, tn)
	if err != nil {
		return out, err
	}
	out.PvPScoreboard = entries
	return out, nil
}

func runRaidScoreboard(ctx context.Context, req analyzeRequest, tn analyzer.Tunables) (analyzeResult, error) {
	var out analyzeResult
	species, learnsets, err := loadDataset(req)
	if err != nil {
		return out, err
	}
	fast, charge, err := analyzer.LoadPvEMoves(req.Moves)
	if err != nil {
		return out, err
	}
	entries, err := analyzer.BuildRaidScoreboard(ctx, analyzer.PvEDataset{
		Species: species, Fast: fast, Charge: charge, Learnsets: learnsets,
	}, req.Profile, tn)
	if err != nil {
		return out, err
	}
	out.RaidScoreboard = entries
	return out, nil
}

func loadDataset(req analyzeRequest) ([]analyzer.Species, map[string]analyzer.Learnset, error) {
	if len(req.Species) == 0 || len(req.Moves) == 0 || len(req.Learnsets) == 0 {
		return nil, nil, errors.New("scoreboard ops need species, moves, and learnsets")
	}
	species, err := analyzer.LoadSpecies(req.Species)
	if err != nil {
		return nil, nil, err
	}
	learnsets, err := analyzer.LoadLearnsets(req.Learnsets)
	if err != nil {
		return nil, nil, err
	}
	return species, learnsets, nil
}

func main() {
	lambda.Start(handler)
}
