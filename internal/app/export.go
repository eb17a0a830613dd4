package app

import (
	"context"
	"encoding/csv"
	"errors"
	"math"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"gold-price-alerts/internal/agent"
	"gold-price-alerts/internal/schedule"
)

type pricePoint struct {
	At       time.Time
	PerOunce float64
	PerGram  float64
	Success  bool
}

// Export renders run history as CSV and/or a PNG price chart.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

	_, _, manager := a.components(nil)
	if manager.ManagedID() == "" {
		return errors.New("no schedule managed yet; nothing to export")
	}

	logs, err := manager.Executions(ctx, opts.MaxPoints)
	if err != nil {
		return err
	}

	points := collectPricePoints(logs)
	if len(points) == 0 {
		a.Logger.Info().Msg("no priced runs found for export")
		return nil
	}

	points = downsamplePoints(points, opts.MaxPoints)
	a.Logger.Info().Int("runs", len(logs)).Int("exported", len(points)).Msg("exporting run history")

	if opts.CSVPath != "" {
		if err := writePointsCSV(opts.CSVPath, points); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writePointsPNG(opts.PNGPath, points); err != nil {
			return err
		}
	}

	return nil
}

// collectPricePoints normalizes each run's raw output and keeps the runs
// that carried a usable price, oldest first.
func collectPricePoints(logs []schedule.ExecutionLog) []pricePoint {
	points := make([]pricePoint, 0, len(logs))
	for i := len(logs) - 1; i >= 0; i-- {
		entry := logs[i]
		result := agent.Normalize(entry.ResponseOutput)
		if result == nil || result.PriceData == nil {
			continue
		}

		point := pricePoint{At: entry.ExecutedAt, Success: entry.Success}
		if result.PriceData.PricePerOunce != nil {
			point.PerOunce = result.PriceData.PricePerOunce.InexactFloat64()
		}
		if result.PriceData.PricePerGram != nil {
			point.PerGram = result.PriceData.PricePerGram.InexactFloat64()
		}
		if point.PerOunce == 0 && point.PerGram == 0 {
			continue
		}
		points = append(points, point)
	}
	return points
}

func downsamplePoints(points []pricePoint, max int) []pricePoint {
	if max <= 0 || len(points) <= max {
		return points
	}

	result := make([]pricePoint, 0, max)
	step := float64(len(points)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(points) {
			idx = len(points) - 1
		}
		result = append(result, points[idx])
	}
	return result
}

func writePointsCSV(path string, points []pricePoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"executed_at", "price_per_ounce", "price_per_gram", "success"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, point := range points {
		record := []string{
			point.At.Format(time.RFC3339),
			formatFloat(point.PerOunce),
			formatFloat(point.PerGram),
			formatBool(point.Success),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func writePointsPNG(path string, points []pricePoint) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(points))
	perOunce := make([]float64, len(points))
	for i, point := range points {
		x[i] = point.At
		price := point.PerOunce
		if price == 0 && point.PerGram != 0 {
			// Gram-only runs are charted on the ounce axis for continuity.
			price = point.PerGram * gramsPerTroyOunce
		}
		perOunce[i] = price
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Gold price (USD/oz)",
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Price per ounce",
				XValues: x,
				YValues: perOunce,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

const gramsPerTroyOunce = 31.1034768

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func formatFloat(v float64) string {
	if v == 0 {
		return ""
	}
	return chart.FloatValueFormatterWithFormat(v, "%.2f")
}

func formatBool(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
