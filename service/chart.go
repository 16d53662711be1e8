package service

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"github.com/BerniceZTT/crm_followup/models"
)

// ErrNoChartData 所有区间都为空，不绘制图表
var ErrNoChartData = errors.New("no chart data")

// ChartOptions 饼图绘制参数
type ChartOptions struct {
	Width    int
	Height   int
	Title    string
	FontPath string // 为空时使用内置字体
}

func (o ChartOptions) withDefaults() ChartOptions {
	if o.Width <= 0 {
		o.Width = 640
	}
	if o.Height <= 0 {
		o.Height = 350
	}
	if o.Title == "" {
		o.Title = "Breakdown by Value"
	}
	return o
}

// RenderPieChart 将区间数量绘制为环形饼图，返回 PNG 数据
func RenderPieChart(buckets []models.Bucket, opts ChartOptions) ([]byte, error) {
	if !HasBucketData(buckets) {
		return nil, ErrNoChartData
	}
	opts = opts.withDefaults()

	total := 0
	for _, b := range buckets {
		total += b.Count
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	if opts.FontPath != "" {
		// 字体加载失败时继续使用内置字体
		_ = dc.LoadFontFace(opts.FontPath, 14)
	}

	dc.SetHexColor("#1e293b")
	dc.DrawStringAnchored(opts.Title, float64(opts.Width)/2, 20, 0.5, 0.5)

	cx := float64(opts.Height) / 2
	cy := float64(opts.Height)/2 + 15
	radius := math.Min(cx, cy-15) - 30

	start := -math.Pi / 2
	for i, b := range buckets {
		if b.Count == 0 {
			continue
		}
		end := start + 2*math.Pi*float64(b.Count)/float64(total)
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, radius, start, end)
		dc.ClosePath()
		dc.SetHexColor(BucketColor(i))
		dc.Fill()
		start = end
	}

	// 中心挖空成环形
	dc.SetHexColor("#ffffff")
	dc.DrawCircle(cx, cy, radius*0.55)
	dc.Fill()

	// 图例
	legendX := float64(opts.Height) + 10
	legendY := 60.0
	for i, b := range buckets {
		y := legendY + float64(i)*28
		dc.SetHexColor(BucketColor(i))
		dc.DrawCircle(legendX, y, 6)
		dc.Fill()
		dc.SetHexColor("#334155")
		dc.DrawStringAnchored(fmt.Sprintf("%s  (%d)", b.Label, b.Count), legendX+14, y, 0, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("编码图表失败: %w", err)
	}
	return buf.Bytes(), nil
}
