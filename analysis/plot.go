package analysis

import (
	"errors"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

var ErrNoStatistics = errors.New("no statistics to plot")

// PlotStatistics renders an HTML page with the distance raced, the top
// speed and the mean rewards of every episode.
func PlotStatistics(w io.Writer, title string, records []EpisodeStatistics) error {
	if len(records) == 0 {
		return ErrNoStatistics
	}

	epochs := make([]string, len(records))
	distance := make([]opts.LineData, len(records))
	speed := make([]opts.LineData, len(records))
	steer := make([]opts.LineData, len(records))
	accel := make([]opts.LineData, len(records))
	for i, r := range records {
		epochs[i] = strconv.Itoa(r.Epoch)
		distance[i] = opts.LineData{Value: r.Distance}
		speed[i] = opts.LineData{Value: r.HighSpeed}
		steer[i] = opts.LineData{Value: r.SteerReward}
		accel[i] = opts.LineData{Value: r.AccelReward}
	}

	progress := charts.NewLine()
	progress.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)
	progress.SetXAxis(epochs).
		AddSeries("distance raced", distance).
		AddSeries("high speed", speed)

	rewards := charts.NewLine()
	rewards.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: "mean reward per episode",
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)
	rewards.SetXAxis(epochs).
		AddSeries("steering", steer).
		AddSeries("acceleration", accel)

	page := components.NewPage()
	page.AddCharts(
		progress,
		rewards,
	)
	return page.Render(w)
}
