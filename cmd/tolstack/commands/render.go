package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/alexshd/tolerance"
	"github.com/alexshd/tolerance/internal/config"
	"github.com/alexshd/tolerance/internal/stackfile"
)

type stackupReport struct {
	ID            string               `json:"id" yaml:"id"`
	Target        targetReport         `json:"target" yaml:"target"`
	WorstCase     worstCaseReport      `json:"worst_case" yaml:"worst_case"`
	RSS           rssReport            `json:"rss" yaml:"rss"`
	MonteCarlo    monteCarloReport     `json:"monte_carlo" yaml:"monte_carlo"`
	Contributions []contributionReport `json:"contributions" yaml:"contributions"`
}

type targetReport struct {
	Name       string  `json:"name" yaml:"name"`
	Nominal    float64 `json:"nominal" yaml:"nominal"`
	UpperLimit float64 `json:"upper_limit" yaml:"upper_limit"`
	LowerLimit float64 `json:"lower_limit" yaml:"lower_limit"`
	Units      string  `json:"units,omitempty" yaml:"units,omitempty"`
	Critical   bool    `json:"critical,omitempty" yaml:"critical,omitempty"`
}

type worstCaseReport struct {
	Min     float64           `json:"min" yaml:"min"`
	Max     float64           `json:"max" yaml:"max"`
	Margin  float64           `json:"margin" yaml:"margin"`
	Verdict tolerance.Verdict `json:"verdict" yaml:"verdict"`
}

type rssReport struct {
	Mean         float64 `json:"mean" yaml:"mean"`
	Sigma3       float64 `json:"sigma3" yaml:"sigma3"`
	Margin       float64 `json:"margin" yaml:"margin"`
	Cpk          float64 `json:"cpk" yaml:"cpk"`
	YieldPercent float64 `json:"yield_percent" yaml:"yield_percent"`
	Saturated    bool    `json:"saturated,omitempty" yaml:"saturated,omitempty"`
}

type monteCarloReport struct {
	Iterations   int     `json:"iterations" yaml:"iterations"`
	Seed         uint64  `json:"seed" yaml:"seed"`
	Mean         float64 `json:"mean" yaml:"mean"`
	StdDev       float64 `json:"std_dev" yaml:"std_dev"`
	Min          float64 `json:"min" yaml:"min"`
	Max          float64 `json:"max" yaml:"max"`
	Median       float64 `json:"median" yaml:"median"`
	P2_5         float64 `json:"p2_5" yaml:"p2_5"`
	P97_5        float64 `json:"p97_5" yaml:"p97_5"`
	YieldPercent float64 `json:"yield_percent" yaml:"yield_percent"`
	EmpiricalPpk float64 `json:"empirical_ppk" yaml:"empirical_ppk"`
}

type contributionReport struct {
	Name            string  `json:"name" yaml:"name"`
	Ref             string  `json:"ref,omitempty" yaml:"ref,omitempty"`
	Direction       string  `json:"direction" yaml:"direction"`
	Nominal         float64 `json:"nominal" yaml:"nominal"`
	PlusTol         float64 `json:"plus_tol" yaml:"plus_tol"`
	MinusTol        float64 `json:"minus_tol" yaml:"minus_tol"`
	Distribution    string  `json:"distribution" yaml:"distribution"`
	BandPercent     float64 `json:"band_percent" yaml:"band_percent"`
	VariancePercent float64 `json:"variance_percent" yaml:"variance_percent"`
}

func newStackupReport(id string, s tolerance.Stackup, r tolerance.AnalysisResults) stackupReport {
	rep := stackupReport{
		ID: id,
		Target: targetReport{
			Name:       s.Target.Name,
			Nominal:    s.Target.Nominal,
			UpperLimit: s.Target.UpperLimit,
			LowerLimit: s.Target.LowerLimit,
			Units:      s.Target.Units,
			Critical:   s.Target.Critical,
		},
		WorstCase: worstCaseReport{
			Min:     r.WorstCase.Min,
			Max:     r.WorstCase.Max,
			Margin:  r.WorstCase.Margin,
			Verdict: r.WorstCase.Verdict,
		},
		RSS: rssReport(r.RSS),
		MonteCarlo: monteCarloReport{
			Iterations:   r.MonteCarlo.Iterations,
			Seed:         r.MonteCarlo.Seed,
			Mean:         r.MonteCarlo.Mean,
			StdDev:       r.MonteCarlo.StdDev,
			Min:          r.MonteCarlo.Min,
			Max:          r.MonteCarlo.Max,
			Median:       r.MonteCarlo.Median,
			P2_5:         r.MonteCarlo.P2_5,
			P97_5:        r.MonteCarlo.P97_5,
			YieldPercent: r.MonteCarlo.YieldPercent,
			EmpiricalPpk: r.MonteCarlo.EmpiricalPpk,
		},
		Contributions: make([]contributionReport, len(r.Contributions)),
	}
	for i, c := range r.Contributions {
		src := s.Contributors[c.Index]
		rep.Contributions[i] = contributionReport{
			Name:            c.Name,
			Ref:             src.Ref,
			Direction:       src.Direction.String(),
			Nominal:         src.Nominal,
			PlusTol:         src.PlusTol,
			MinusTol:        src.MinusTol,
			Distribution:    src.Distribution.String(),
			BandPercent:     c.BandPercent,
			VariancePercent: c.VariancePercent,
		}
	}
	return rep
}

type fitReport struct {
	ID           string             `json:"id" yaml:"id"`
	Title        string             `json:"title,omitempty" yaml:"title,omitempty"`
	MateType     tolerance.MateType `json:"mate_type" yaml:"mate_type"`
	MinClearance float64            `json:"min_clearance" yaml:"min_clearance"`
	MaxClearance float64            `json:"max_clearance" yaml:"max_clearance"`
	Class        string             `json:"class" yaml:"class"`
	Satisfied    bool               `json:"satisfied" yaml:"satisfied"`
}

func newFitReport(m stackfile.ResolvedMate, fit tolerance.FitResult) fitReport {
	return fitReport{
		ID:           m.ID,
		Title:        m.Title,
		MateType:     m.Type,
		MinClearance: fit.MinClearance,
		MaxClearance: fit.MaxClearance,
		Class:        fit.Class.String(),
		Satisfied:    fit.Satisfies(m.Type),
	}
}

// render writes reports as JSON, YAML or human-readable tables.
func render[T any](w io.Writer, format string, reports []T, text func(io.Writer, []T) error) error {
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w, reports)
	}
}

func renderStackups(w io.Writer, reports []stackupReport) error {
	for i, r := range reports {
		if i > 0 {
			fmt.Fprintln(w)
		}

		title := fmt.Sprintf("%s: %s  [%g .. %g] %s", r.ID, r.Target.Name,
			r.Target.LowerLimit, r.Target.UpperLimit, r.Target.Units)
		if r.Target.Critical {
			title += "  (critical)"
		}
		fmt.Fprintln(w, pterm.LightCyan(title))

		cpk := fmt.Sprintf("Cpk %.3f", r.RSS.Cpk)
		if r.RSS.Saturated {
			cpk += " (saturated)"
		}
		methods := pterm.TableData{
			{"Method", "Centre", "Spread", "Margin", "Capability", "Yield %", "Verdict"},
			{"Worst case",
				fmt.Sprintf("%.4f", (r.WorstCase.Min+r.WorstCase.Max)/2),
				fmt.Sprintf("%.4f .. %.4f", r.WorstCase.Min, r.WorstCase.Max),
				fmt.Sprintf("%.4f", r.WorstCase.Margin),
				"", "", colourVerdict(r.WorstCase.Verdict)},
			{"RSS",
				fmt.Sprintf("%.4f", r.RSS.Mean),
				fmt.Sprintf("±3σ %.4f", r.RSS.Sigma3),
				fmt.Sprintf("%.4f", r.RSS.Margin),
				cpk,
				fmt.Sprintf("%.4f", r.RSS.YieldPercent), ""},
			{"Monte Carlo",
				fmt.Sprintf("%.4f", r.MonteCarlo.Mean),
				fmt.Sprintf("95%% %.4f .. %.4f", r.MonteCarlo.P2_5, r.MonteCarlo.P97_5),
				"",
				fmt.Sprintf("Ppk %.3f", r.MonteCarlo.EmpiricalPpk),
				fmt.Sprintf("%.4f", r.MonteCarlo.YieldPercent), ""},
		}
		if err := printTable(w, methods); err != nil {
			return err
		}

		contributors := pterm.TableData{
			{"#", "Contributor", "Dir", "Nominal", "+Tol", "-Tol", "Dist", "Band %", "Var %"},
		}
		for j, c := range r.Contributions {
			contributors = append(contributors, []string{
				fmt.Sprint(j + 1), c.Name, c.Direction,
				fmt.Sprintf("%g", c.Nominal), fmt.Sprintf("%g", c.PlusTol), fmt.Sprintf("%g", c.MinusTol),
				c.Distribution,
				fmt.Sprintf("%.1f", c.BandPercent), fmt.Sprintf("%.1f", c.VariancePercent),
			})
		}
		if err := printTable(w, contributors); err != nil {
			return err
		}

		fmt.Fprintf(w, "%s n=%d σ=%.4f median=%.4f seed=%d\n",
			pterm.Gray("Monte Carlo:"), r.MonteCarlo.Iterations, r.MonteCarlo.StdDev,
			r.MonteCarlo.Median, r.MonteCarlo.Seed)
	}
	return nil
}

func renderFits(w io.Writer, reports []fitReport) error {
	data := pterm.TableData{
		{"Mate", "Type", "Min clearance", "Max clearance", "Fit", "OK"},
	}
	for _, r := range reports {
		ok := pterm.Green("✓")
		if !r.Satisfied {
			ok = pterm.Red("✗")
		}
		data = append(data, []string{
			r.ID, string(r.MateType),
			fmt.Sprintf("%.4f", r.MinClearance), fmt.Sprintf("%.4f", r.MaxClearance),
			r.Class, ok,
		})
	}
	return printTable(w, data)
}

func printTable(w io.Writer, data pterm.TableData) error {
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, s)
	return err
}

func colourVerdict(v tolerance.Verdict) string {
	switch v {
	case tolerance.Pass:
		return pterm.Green(string(v))
	case tolerance.Marginal:
		return pterm.Yellow(string(v))
	default:
		return pterm.Red(string(v))
	}
}
