package calculator

import (
	"fmt"
	"math"
	"sort"

	"FXSentinel/internal/model"
)

// LevelStrategy derives support and resistance levels from price rows.
type LevelStrategy interface {
	Name() string
	Levels(points []model.PricePoint) (support, resistance []float64)
}

// LevelStrategyByName resolves a configured strategy name.
func LevelStrategyByName(name string) (LevelStrategy, error) {
	switch name {
	case "", "extrema":
		return ExtremaLevels{}, nil
	case "peaks":
		return PeakLevels{}, nil
	default:
		return nil, fmt.Errorf("unknown support/resistance strategy %q", name)
	}
}

// ExtremaLevels uses the lowest low and the highest high of a trailing window.
type ExtremaLevels struct {
	Window int // default 60
}

func (e ExtremaLevels) Name() string { return "extrema" }

func (e ExtremaLevels) Levels(points []model.PricePoint) (support, resistance []float64) {
	window := e.Window
	if window <= 0 {
		window = 60
	}
	high, low, err := TrailingRange(points, window)
	if err != nil {
		return nil, nil
	}
	return []float64{low}, []float64{high}
}

// PeakLevels detects local maxima of highs and local minima of lows over a
// trailing window. Peaks must stand out by a fraction of the window range and
// be at least Distance bars apart.
type PeakLevels struct {
	Window     int     // default 90
	Distance   int     // default 5
	Prominence float64 // fraction of (max high - min low), default 0.01
	MinTouches int     // default 1
	MaxLevels  int     // default 3
}

func (p PeakLevels) Name() string { return "peaks" }

func (p PeakLevels) withDefaults() PeakLevels {
	cfg := p
	if cfg.Window <= 0 {
		cfg.Window = 90
	}
	if cfg.Distance <= 0 {
		cfg.Distance = 5
	}
	if cfg.Prominence <= 0 {
		cfg.Prominence = 0.01
	}
	if cfg.MinTouches <= 0 {
		cfg.MinTouches = 1
	}
	if cfg.MaxLevels <= 0 {
		cfg.MaxLevels = 3
	}
	return cfg
}

func (p PeakLevels) Levels(points []model.PricePoint) (support, resistance []float64) {
	cfg := p.withDefaults()
	if len(points) == 0 {
		return nil, nil
	}
	if len(points) > cfg.Window {
		points = points[len(points)-cfg.Window:]
	}

	highs := make([]float64, len(points))
	negLows := make([]float64, len(points))
	for i, pt := range points {
		highs[i] = pt.High
		negLows[i] = -pt.Low
	}
	maxHigh, minLow, _ := TrailingRange(points, 0)
	threshold := cfg.Prominence * (maxHigh - minLow)

	var peakHighs []float64
	for _, i := range filterPeaks(highs, threshold, cfg.Distance) {
		peakHighs = append(peakHighs, highs[i])
	}
	var troughLows []float64
	for _, i := range filterPeaks(negLows, threshold, cfg.Distance) {
		troughLows = append(troughLows, -negLows[i])
	}

	resistance = collapse(peakHighs, cfg.MinTouches)
	sort.Sort(sort.Reverse(sort.Float64Slice(resistance)))
	if len(resistance) > cfg.MaxLevels {
		resistance = resistance[:cfg.MaxLevels]
	}
	support = collapse(troughLows, cfg.MinTouches)
	sort.Float64s(support)
	if len(support) > cfg.MaxLevels {
		support = support[:cfg.MaxLevels]
	}

	if len(support) == 0 {
		support = []float64{minLow}
	}
	if len(resistance) == 0 {
		resistance = []float64{maxHigh}
	}
	return support, resistance
}

// localMaxima returns the midpoints of strict local maxima, treating flat
// plateaus as a single peak.
func localMaxima(x []float64) []int {
	var peaks []int
	i := 1
	for i < len(x)-1 {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < len(x)-1 && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				peaks = append(peaks, (i+ahead-1)/2)
				i = ahead
				continue
			}
		}
		i++
	}
	return peaks
}

// prominence measures how far the peak rises above the higher of the two
// lowest points separating it from a taller neighbour (or the edge).
func prominence(x []float64, peak int) float64 {
	h := x[peak]
	leftMin := h
	for i := peak - 1; i >= 0 && x[i] <= h; i-- {
		leftMin = math.Min(leftMin, x[i])
	}
	rightMin := h
	for i := peak + 1; i < len(x) && x[i] <= h; i++ {
		rightMin = math.Min(rightMin, x[i])
	}
	return h - math.Max(leftMin, rightMin)
}

// filterPeaks keeps local maxima above the prominence threshold and drops the
// lower of any two peaks closer than distance bars.
func filterPeaks(x []float64, threshold float64, distance int) []int {
	var candidates []int
	for _, i := range localMaxima(x) {
		if prominence(x, i) >= threshold {
			candidates = append(candidates, i)
		}
	}

	byHeight := make([]int, len(candidates))
	copy(byHeight, candidates)
	sort.SliceStable(byHeight, func(a, b int) bool { return x[byHeight[a]] > x[byHeight[b]] })

	removed := make(map[int]bool)
	var kept []int
	for _, i := range byHeight {
		if removed[i] {
			continue
		}
		kept = append(kept, i)
		for _, j := range candidates {
			if j != i && abs(j-i) < distance {
				removed[j] = true
			}
		}
	}
	sort.Ints(kept)
	return kept
}

// collapse merges levels equal to five decimals and keeps those touched at
// least minTouches times.
func collapse(levels []float64, minTouches int) []float64 {
	touches := make(map[float64]int)
	var order []float64
	for _, l := range levels {
		key := math.Round(l*1e5) / 1e5
		if touches[key] == 0 {
			order = append(order, key)
		}
		touches[key]++
	}
	var out []float64
	for _, key := range order {
		if touches[key] >= minTouches {
			out = append(out, key)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
