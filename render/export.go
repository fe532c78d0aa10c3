package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/config"
	"github.com/ByLCY/bookcard/fonts"
	"github.com/ByLCY/bookcard/layout"
)

// ErrExportInFlight 表示已有一次导出在进行中，本次请求被拒绝。
var ErrExportInFlight = errors.New("已有导出任务进行中，请稍候")

// ZoomController 抽象预览缩放：导出前归一到 1，结束后恢复。
// 由 preview 包实现，这里只依赖接口避免反向引用。
type ZoomController interface {
	Zoom() float64
	SetZoom(zoom float64)
}

// Exporter 是导出编排器：同一时刻只允许一次导出，完整流程为
// 快照 → 标准捕获姿态 → 字体就绪与安定等待 → 克隆清理（竖排卡片
// 额外做竖排改写）→ 恢复快照与缩放 → 一次栅格化、逐格式编码落盘。
type Exporter struct {
	renderer *Renderer
	fonts    *fonts.Library
	cfg      *config.Config
	zoom     ZoomController
	log      *slog.Logger

	// OutDir 是输出目录，空值表示当前目录。
	OutDir string
	// DeviceScale 是栅格化倍率，下限 1。
	DeviceScale float64
	// SettleDelay 是字体就绪后的安定等待。
	SettleDelay time.Duration
	// FileDelay 是相邻两个输出文件之间的间隔。
	FileDelay time.Duration

	now      func() time.Time
	inFlight atomic.Bool
}

// NewExporter 创建导出器。zoom 可以为 nil（无预览场景）。
func NewExporter(renderer *Renderer, lib *fonts.Library, cfg *config.Config, zoom ZoomController, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{
		renderer:    renderer,
		fonts:       lib,
		cfg:         cfg,
		zoom:        zoom,
		log:         log,
		DeviceScale: card.DefaultDeviceScale,
		SettleDelay: card.DownloadDelay,
		FileDelay:   card.DownloadDelay,
		now:         time.Now,
	}
}

// ExportCard 按选定格式导出卡片，返回写出的文件路径。
// formats 为空时回退到状态里保存的格式集合；并发调用返回 ErrExportInFlight。
func (e *Exporter) ExportCard(ctx context.Context, doc *card.Document, state *card.State, formats []string) ([]string, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil, ErrExportInFlight
	}
	defer e.inFlight.Store(false)

	resolved, err := card.ResolveFormats(formats, state)
	if err != nil {
		return nil, err
	}

	cardEl := doc.GetElementByID(card.CardID)
	if cardEl == nil {
		return nil, fmt.Errorf("找不到卡片元素 #%s", card.CardID)
	}

	// 捕获一结束就恢复快照与缩放，不让界面在逐格式落盘
	// （含文件间隔等待）期间停留在捕获姿态；失败路径由 defer 兜底。
	snapshot := TakeSnapshot(cardEl)
	var prevZoom float64
	if e.zoom != nil {
		prevZoom = e.zoom.Zoom()
		e.zoom.SetZoom(1)
	}
	restored := false
	restore := func() {
		if restored {
			return
		}
		restored = true
		snapshot.Restore()
		if e.zoom != nil {
			e.zoom.SetZoom(prevZoom)
		}
	}
	defer restore()

	applyCaptureState(cardEl)

	if err := e.fonts.Ready(state.Font, state.SealFont); err != nil {
		return nil, fmt.Errorf("字体加载失败: %w", err)
	}
	if err := sleep(ctx, e.SettleDelay); err != nil {
		return nil, err
	}

	result, bg, err := e.capture(doc, state)
	restore()
	if err != nil {
		return nil, err
	}

	scale := math.Max(1, e.DeviceScale)
	var raster image.Image
	var written []string
	for i, format := range resolved {
		if i > 0 {
			if err := sleep(ctx, e.FileDelay); err != nil {
				return written, err
			}
		}
		spec := card.NormalizeFormat(format)
		path := filepath.Join(e.OutDir, FileName(spec.Extension, e.now()))

		if spec.Name == card.FormatSVG {
			if err := e.writeSVG(path, result, bg); err != nil {
				return written, err
			}
			written = append(written, path)
			e.log.Info("已导出", "format", spec.Name, "file", path)
			continue
		}

		// 栅格只生成一次，多个位图格式复用
		if raster == nil {
			raster, err = e.renderer.Rasterize(result, bg, scale)
			if err != nil {
				return written, fmt.Errorf("卡片栅格化失败: %w", err)
			}
		}
		if err := e.writeRaster(path, raster, spec); err != nil {
			return written, err
		}
		written = append(written, path)
		e.log.Info("已导出", "format", spec.Name, "file", path)
	}
	return written, nil
}

// capture 在克隆上完成清理与可选的竖排改写，产出最终布局与背景。
// 原文档在整个过程中保持原样。
func (e *Exporter) capture(doc *card.Document, state *card.State) (*layout.Result, CardBackground, error) {
	cardEl := doc.GetElementByID(card.CardID)
	bg := ResolveBackground(cardEl, e.cfg, state)

	clone := doc.Clone()
	SanitizeClone(clone, bg, state)

	opts := layout.BuildOptions{Typesetter: e.renderer}
	result, err := layout.Build(clone, opts)
	if err != nil {
		return nil, bg, fmt.Errorf("布局计算失败: %w", err)
	}

	if state.Layout == card.LayoutVertical {
		// 竖排改写需要知道卡片高度，先用横排结果回填，再排一次。
		// 改写不可重复，克隆上只调用这一次。
		cloneCard := clone.GetElementByID(card.CardID)
		cloneCard.Style.Set("height", fmt.Sprintf("%gpx", result.Height))
		layout.ApplyVerticalLayout(clone)
		result, err = layout.Build(clone, opts)
		if err != nil {
			return nil, bg, fmt.Errorf("竖排布局计算失败: %w", err)
		}
	}
	return result, bg, nil
}

func (e *Exporter) writeSVG(path string, result *layout.Result, bg CardBackground) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer f.Close()
	return e.renderer.RenderSVG(f, result, bg)
}

func (e *Exporter) writeRaster(path string, img image.Image, spec card.FormatSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建输出文件失败: %w", err)
	}
	defer f.Close()
	if err := EncodeImage(f, img, spec); err != nil {
		return fmt.Errorf("编码 %s 失败: %w", spec.Name, err)
	}
	return nil
}

// sleep 等待 d，上下文取消时提前返回。
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
