package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"text/tabwriter"
	"time"

	"github.com/lixenwraith/lra-cloth/cloth"
	"github.com/lixenwraith/lra-cloth/config"
	"github.com/lixenwraith/lra-cloth/parameter"
)

// Result summarizes one run
type Result struct {
	UseLRA      bool          `json:"use_lra"`
	Ticks       int           `json:"ticks"`
	PeakExcess  float64       `json:"peak_excess"`
	PeakTick    int           `json:"peak_tick"`
	FinalExcess float64       `json:"final_excess"`
	MaxStretch  float64       `json:"max_stretch"`
	Elapsed     time.Duration `json:"elapsed_ns"`
}

// Bounded reports whether every particle stayed within its attachment bound
func (r Result) Bounded(eps float64) bool {
	return r.PeakExcess <= eps
}

// runScenario steps a fresh world for ticks and tracks the worst LRA excess
func runScenario(p cloth.Params, opts []cloth.Option, ticks int) Result {
	w := cloth.NewWorld(p, opts...)
	res := Result{UseLRA: p.UseLRA, Ticks: ticks, PeakExcess: math.Inf(-1), MaxStretch: 1}

	start := time.Now()
	for i := 0; i < ticks; i++ {
		w.Step()
		if e := w.MaxLRAExcess(); e > res.PeakExcess {
			res.PeakExcess = e
			res.PeakTick = i + 1
		}
		res.MaxStretch = math.Max(res.MaxStretch, w.MaxStretch())
	}
	res.Elapsed = time.Since(start)
	res.FinalExcess = w.MaxLRAExcess()
	return res
}

func writeTable(out io.Writer, results []Result, eps float64) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LRA\tTICKS\tPEAK EXCESS\tPEAK TICK\tFINAL EXCESS\tMAX STRETCH\tBOUNDED\tELAPSED")
	for _, r := range results {
		lra := "off"
		if r.UseLRA {
			lra = "on"
		}
		fmt.Fprintf(tw, "%s\t%d\t%+.6f\t%d\t%+.6f\t%.4f\t%v\t%s\n",
			lra, r.Ticks, r.PeakExcess, r.PeakTick, r.FinalExcess, r.MaxStretch, r.Bounded(eps), r.Elapsed.Round(time.Microsecond))
	}
	return tw.Flush()
}

func main() {
	configPath := flag.String("config", "cloth.toml", "path to TOML configuration")
	ticks := flag.Int("ticks", 300, "ticks per run")
	asJSON := flag.Bool("json", false, "emit results as JSON")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *ticks <= 0 {
		fmt.Fprintf(os.Stderr, "ticks must be positive, got %d\n", *ticks)
		os.Exit(1)
	}

	p := cfg.ClothParams()
	opts := cfg.WorldOptions()

	var results []Result
	for _, useLRA := range []bool{true, false} {
		p.UseLRA = useLRA
		results = append(results, runScenario(p, opts, *ticks))
	}

	// No attachments means excess is undefined
	if math.IsInf(results[0].PeakExcess, -1) {
		fmt.Fprintln(os.Stderr, "pin rule produced no anchors, nothing to measure")
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(1)
		}
		return
	}
	if err := writeTable(os.Stdout, results, parameter.ClothEpsilon); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
}
