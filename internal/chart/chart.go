package chart

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"FXSentinel/internal/model"
)

const (
	// MinBars is the shortest series worth drawing.
	MinBars = 20
	// DisplayBars is how many trailing rows the chart shows.
	DisplayBars = 60

	width  = 1024
	height = 512
)

// ErrTooShort is returned when the series has fewer than MinBars rows.
var ErrTooShort = errors.New("not enough rows to chart")

// Render draws closes, SMA20/SMA50 and support/resistance lines as a PNG.
// ind must be computed over the same series.
func Render(series model.PriceSeries, ind model.IndicatorSet) ([]byte, error) {
	n := series.Len()
	if n < MinBars {
		return nil, fmt.Errorf("%s: %d rows: %w", series.Pair, n, ErrTooShort)
	}
	points := series.Tail(DisplayBars).Points
	start := n - len(points)
	dates := make([]time.Time, len(points))
	closes := make([]float64, len(points))
	for i, p := range points {
		dates[i] = p.Date
		closes[i] = p.Close
	}

	lines := []gochart.Series{
		gochart.TimeSeries{
			Name:    "Close",
			XValues: dates,
			YValues: closes,
			Style:   gochart.Style{StrokeColor: gochart.ColorBlue, StrokeWidth: 2},
		},
	}
	if s, ok := definedSeries("SMA20", dates, column(ind.SMA20, start, n), gochart.ColorOrange); ok {
		lines = append(lines, s)
	}
	if s, ok := definedSeries("SMA50", dates, column(ind.SMA50, start, n), drawing.ColorFromHex("8e44ad")); ok {
		lines = append(lines, s)
	}
	first, last := dates[0], dates[len(dates)-1]
	for i, level := range ind.Support {
		lines = append(lines, levelLine(fmt.Sprintf("Support %d", i+1), first, last, level, gochart.ColorGreen))
	}
	for i, level := range ind.Resistance {
		lines = append(lines, levelLine(fmt.Sprintf("Resistance %d", i+1), first, last, level, gochart.ColorRed))
	}

	graph := gochart.Chart{
		Title:  series.Pair,
		Width:  width,
		Height: height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			ValueFormatter: gochart.TimeDateValueFormatter,
		},
		YAxis: gochart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.4f", f)
				}
				return ""
			},
		},
		Series: lines,
	}
	graph.Elements = []gochart.Renderable{gochart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render %s chart: %w", series.Pair, err)
	}
	return buf.Bytes(), nil
}

// column returns col[start:n], or nil when col is not aligned to the series.
func column(col []float64, start, n int) []float64 {
	if len(col) != n {
		return nil
	}
	return col[start:n]
}

// definedSeries keeps only the rows where values are defined.
func definedSeries(name string, dates []time.Time, values []float64, color drawing.Color) (gochart.Series, bool) {
	var xs []time.Time
	var ys []float64
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, dates[i])
		ys = append(ys, v)
	}
	if len(xs) < 2 {
		return nil, false
	}
	return gochart.TimeSeries{
		Name:    name,
		XValues: xs,
		YValues: ys,
		Style:   gochart.Style{StrokeColor: color, StrokeWidth: 1.5},
	}, true
}

func levelLine(name string, first, last time.Time, level float64, color drawing.Color) gochart.Series {
	return gochart.TimeSeries{
		Name:    name,
		XValues: []time.Time{first, last},
		YValues: []float64{level, level},
		Style: gochart.Style{
			StrokeColor:     color,
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
	}
}
