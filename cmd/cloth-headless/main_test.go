package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lixenwraith/lra-cloth/cloth"
	"github.com/lixenwraith/lra-cloth/parameter"
)

// TestRunScenario verifies the demo run is bounded with LRA and overshoots without
func TestRunScenario(t *testing.T) {
	p := cloth.DefaultParams()

	p.UseLRA = true
	on := runScenario(p, nil, 300)
	if !on.Bounded(parameter.ClothEpsilon) {
		t.Errorf("Expected bounded run with LRA, peak excess %g at tick %d", on.PeakExcess, on.PeakTick)
	}

	p.UseLRA = false
	off := runScenario(p, nil, 300)
	if off.Bounded(parameter.ClothEpsilon) {
		t.Errorf("Expected overshoot without LRA, peak excess %g", off.PeakExcess)
	}
	if off.PeakTick < 1 || off.PeakTick > 300 {
		t.Errorf("Expected peak tick within run, got %d", off.PeakTick)
	}
	if off.MaxStretch <= 1 {
		t.Errorf("Expected stretched edges, got %f", off.MaxStretch)
	}
}

func TestWriteTable(t *testing.T) {
	results := []Result{
		{UseLRA: true, Ticks: 10, PeakExcess: -0.01, FinalExcess: -0.02, MaxStretch: 1.01},
		{UseLRA: false, Ticks: 10, PeakExcess: 0.03, FinalExcess: 0.02, MaxStretch: 1.2},
	}

	var buf bytes.Buffer
	if err := writeTable(&buf, results, 1e-6); err != nil {
		t.Fatalf("writeTable failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "on") || !strings.Contains(lines[1], "true") {
		t.Errorf("Expected bounded LRA row, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "off") || !strings.Contains(lines[2], "false") {
		t.Errorf("Expected unbounded row, got %q", lines[2])
	}
}
