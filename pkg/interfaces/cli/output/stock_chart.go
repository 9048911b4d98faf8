package output

import (
	"fmt"
	"html"
	"strings"

	"github.com/vsinha/restock/pkg/application/dto"
	"github.com/vsinha/restock/pkg/domain/entities"
)

// StockChart renders the stock history of every item under every strategy as
// one SVG line chart
type StockChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	Days         int
	MaxStock     entities.Quantity
}

// StockLine is one strategy/item series
type StockLine struct {
	Label  string
	Color  string
	Points []entities.Quantity
}

var palette = []string{"#2196F3", "#4CAF50", "#FF9800", "#9C27B0", "#F44336", "#00BCD4", "#795548", "#607D8B"}

// NewStockChart sizes a chart for the comparison
func NewStockChart(result *dto.Comparison) *StockChart {
	chart := &StockChart{
		Width:        1200,
		Height:       600,
		MarginLeft:   80,
		MarginTop:    60,
		MarginRight:  260,
		MarginBottom: 60,
	}

	for _, run := range result.Runs {
		for _, item := range run.Items {
			chart.Days = max(chart.Days, item.History.Len())
			for _, s := range item.History.Stock {
				chart.MaxStock = max(chart.MaxStock, s)
			}
		}
	}
	if chart.MaxStock == 0 {
		chart.MaxStock = 1
	}

	return chart
}

// GenerateSVG creates an SVG representation of the stock histories
func (sc *StockChart) GenerateSVG(result *dto.Comparison) string {
	lines := sc.createLines(result)
	if len(lines) == 0 || sc.Days == 0 {
		return sc.generateEmptyChart()
	}

	var svg strings.Builder

	// SVG header
	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, sc.Width, sc.Height))
	svg.WriteString(`<defs>`)
	svg.WriteString(`<style>`)
	svg.WriteString(`.axis-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.legend-label { font-family: Arial, sans-serif; font-size: 11px; fill: #333; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.stock-line { fill: none; stroke-width: 1.5; }`)
	svg.WriteString(`</style>`)
	svg.WriteString(`</defs>`)

	// Background
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, sc.Width, sc.Height))

	// Title
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title" text-anchor="middle">Stock Levels by Strategy (seed %d)</text>`,
		sc.Width/2, result.Seed))

	sc.drawAxes(&svg)
	for _, line := range lines {
		sc.drawLine(&svg, line)
	}
	sc.drawLegend(&svg, lines)

	svg.WriteString(`</svg>`)
	return svg.String()
}

// createLines assigns one color per strategy/item pair
func (sc *StockChart) createLines(result *dto.Comparison) []StockLine {
	var lines []StockLine
	for _, run := range result.Runs {
		for _, item := range run.Items {
			lines = append(lines, StockLine{
				Label:  html.EscapeString(fmt.Sprintf("%s - %s", run.Strategy, item.Name)),
				Color:  palette[len(lines)%len(palette)],
				Points: item.History.Stock,
			})
		}
	}
	return lines
}

func (sc *StockChart) x(dayOffset int) float64 {
	chartWidth := float64(sc.Width - sc.MarginLeft - sc.MarginRight)
	span := float64(max(sc.Days-1, 1))
	return float64(sc.MarginLeft) + float64(dayOffset)/span*chartWidth
}

func (sc *StockChart) y(stock entities.Quantity) float64 {
	chartHeight := float64(sc.Height - sc.MarginTop - sc.MarginBottom)
	return float64(sc.Height-sc.MarginBottom) - float64(stock)/float64(sc.MaxStock)*chartHeight
}

// drawAxes draws horizontal stock gridlines and day labels
func (sc *StockChart) drawAxes(svg *strings.Builder) {
	const rows = 5
	for i := 0; i <= rows; i++ {
		stock := entities.Quantity(int64(sc.MaxStock) * int64(i) / rows)
		y := sc.y(stock)
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" class="grid-line"/>`,
			sc.MarginLeft, y, sc.Width-sc.MarginRight, y))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" class="axis-label" text-anchor="end">%d</text>`,
			sc.MarginLeft-8, y+3, stock))
	}

	// Weekly ticks, or daily for short runs
	interval := 7
	if sc.Days <= 30 {
		interval = 1
	}
	for d := 0; d < sc.Days; d += interval {
		x := sc.x(d)
		svg.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" class="axis-label" text-anchor="middle">%d</text>`,
			x, sc.Height-sc.MarginBottom+15, d+1))
	}

	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="axis-label" text-anchor="middle">Day</text>`,
		sc.MarginLeft+(sc.Width-sc.MarginLeft-sc.MarginRight)/2, sc.Height-sc.MarginBottom+35))
}

// drawLine draws one stock series as a polyline
func (sc *StockChart) drawLine(svg *strings.Builder, line StockLine) {
	points := make([]string, len(line.Points))
	for d, stock := range line.Points {
		points[d] = fmt.Sprintf("%.1f,%.1f", sc.x(d), sc.y(stock))
	}
	svg.WriteString(fmt.Sprintf(`<polyline points="%s" stroke="%s" class="stock-line"><title>%s</title></polyline>`,
		strings.Join(points, " "), line.Color, line.Label))
}

// drawLegend lists every series to the right of the plot area
func (sc *StockChart) drawLegend(svg *strings.Builder, lines []StockLine) {
	legendX := sc.Width - sc.MarginRight + 20
	legendY := sc.MarginTop

	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="white" stroke="#ccc" stroke-width="1"/>`,
		legendX, legendY, sc.MarginRight-30, 20+len(lines)*14))

	for i, line := range lines {
		itemY := legendY + 14 + i*14
		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="12" height="3" fill="%s"/>`,
			legendX+8, itemY-4, line.Color))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="legend-label">%s</text>`,
			legendX+26, itemY, line.Label))
	}
}

// generateEmptyChart creates an empty chart when nothing was simulated
func (sc *StockChart) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
		<rect width="%d" height="%d" fill="white"/>
		<text x="%d" y="%d" class="title" text-anchor="middle">No Stock History Recorded</text>
		<style>
			.title { font-family: Arial, sans-serif; font-size: 16px; fill: #666; }
		</style>
	</svg>`, sc.Width, sc.Height, sc.Width, sc.Height, sc.Width/2, sc.Height/2)
}
