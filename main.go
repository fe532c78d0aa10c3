package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ByLCY/bookcard/binding"
	"github.com/ByLCY/bookcard/card"
	"github.com/ByLCY/bookcard/config"
	"github.com/ByLCY/bookcard/fonts"
	"github.com/ByLCY/bookcard/preview"
	"github.com/ByLCY/bookcard/render"
	"github.com/ByLCY/bookcard/server"
	"github.com/ByLCY/bookcard/store"
)

func main() {
	// 内容
	quote := flag.String("quote", "", "摘录正文（留空时取上次缓存）")
	book := flag.String("book", "", "书名")
	author := flag.String("author", "", "作者")
	seal := flag.String("seal", "", "印章落款（留空时隐藏印章）")
	dataJSON := flag.String("data", "", "供 ${path} 占位符引用的 JSON 数据")

	// 样式
	theme := flag.String("theme", "", "主题 ID，如 theme-clean / theme-gradient-blue")
	layoutMode := flag.String("layout", "", "排版方向：horizontal 或 vertical")
	font := flag.String("font", "", "正文字体（CSS font-family 写法）")
	fontSize := flag.Float64("font-size", 0, "字号（14-32）")
	fontColor := flag.String("font-color", "", "文字颜色")
	cardWidth := flag.Float64("card-width", 0, "卡片宽度（300-600）")
	textAlign := flag.String("text-align", "", "对齐方式")
	sealFont := flag.String("seal-font", "", "印章字体")

	// 导出
	formats := flag.String("formats", "", "导出格式，逗号分隔：png,jpg,svg,webp")
	outDir := flag.String("out", ".", "输出目录")
	thumbnail := flag.String("thumbnail", "", "同时生成缩略图（png）到该路径")
	fontsDir := flag.String("fonts-dir", "", "字体文件目录")

	// 配置与缓存
	cachePath := flag.String("cache", defaultCachePath(), "内容缓存数据库路径，空串禁用")
	configURL := flag.String("config-url", "", "远端配置服务地址，留空使用内置配置")
	importPath := flag.String("import-config", "", "导入配置存档 JSON")
	exportPath := flag.String("export-config", "", "导出配置存档 JSON 到该路径")
	force := flag.Bool("force", false, "版本不匹配时仍然导入存档")

	// 服务模式
	serveAddr := flag.String("serve", "", "以配置服务模式启动，监听该地址")
	serveConfig := flag.String("serve-config", "", "配置服务的 YAML 数据文件")

	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	log := newLogger(*verbose)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serveAddr != "" {
		srv, err := server.New(*serveConfig, log)
		if err != nil {
			fatal(log, "启动配置服务失败", err)
		}
		if err := srv.ListenAndServe(ctx, *serveAddr); err != nil {
			fatal(log, "配置服务异常退出", err)
		}
		return
	}

	opts := exportOptions{
		quote: *quote, book: *book, author: *author, seal: *seal,
		dataJSON: *dataJSON,
		theme:    *theme, layout: *layoutMode, font: *font,
		fontSize: *fontSize, fontColor: *fontColor, cardWidth: *cardWidth,
		textAlign: *textAlign, sealFont: *sealFont,
		formats: *formats, outDir: *outDir, fontsDir: *fontsDir,
		thumbnail: *thumbnail,
		cachePath: *cachePath, configURL: *configURL,
		importPath: *importPath, exportPath: *exportPath, force: *force,
	}
	if err := run(ctx, opts, log); err != nil {
		fatal(log, "生成卡片失败", err)
	}
}

type exportOptions struct {
	quote, book, author, seal string
	dataJSON                  string

	theme, layout, font  string
	fontSize, cardWidth  float64
	fontColor, textAlign string
	sealFont             string

	formats, outDir, fontsDir string
	thumbnail                 string
	cachePath, configURL      string
	importPath, exportPath    string
	force                     bool
}

// run 串联缓存、远端配置、插值、布局与导出。
func run(ctx context.Context, opts exportOptions, log *slog.Logger) error {
	if opts.cachePath != "" {
		_ = os.MkdirAll(filepath.Dir(opts.cachePath), 0o755)
	}
	cache := store.Open(opts.cachePath, log)
	defer cache.Close()

	state := card.NewState()
	content := cache.LoadContent()

	if opts.importPath != "" {
		if err := importArchive(opts.importPath, opts.force, &content, state); err != nil {
			return err
		}
	}

	applyContentFlags(&content, opts)
	if err := applyStyleFlags(state, opts); err != nil {
		return err
	}

	if opts.dataJSON != "" {
		data, err := binding.ParseData([]byte(opts.dataJSON))
		if err != nil {
			return err
		}
		content = binding.InterpolateContent(content, data)
	}

	if opts.exportPath != "" {
		if err := exportArchive(opts.exportPath, content, state); err != nil {
			return err
		}
		log.Info("配置存档已导出", "file", opts.exportPath)
	}

	if content.Quote == "" {
		return fmt.Errorf("没有可用的摘录内容，请通过 -quote 提供")
	}

	// 远端配置失败静默回退内置默认
	cfg := config.NewService(opts.configURL, log).Load(ctx)

	var selected []string
	if opts.formats != "" {
		var err error
		selected, err = card.ParseFormats(opts.formats)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}

	lib := fonts.NewLibrary(opts.fontsDir)
	renderer := render.NewRenderer(lib)
	exporter := render.NewExporter(renderer, lib, cfg, nil, log)
	exporter.OutDir = opts.outDir

	doc := card.NewDocument(content, state)
	written, err := exporter.ExportCard(ctx, doc, state, selected)
	if err != nil {
		return err
	}

	cache.SaveContent(content)
	for _, path := range written {
		fmt.Printf("已生成：%s\n", path)
	}

	if opts.thumbnail != "" {
		if err := writeThumbnail(written, opts.thumbnail); err != nil {
			return err
		}
		fmt.Printf("已生成缩略图：%s\n", opts.thumbnail)
	}
	return nil
}

// writeThumbnail 取第一个位图输出缩小为缩略图。
func writeThumbnail(written []string, path string) error {
	var source string
	for _, p := range written {
		if ext := filepath.Ext(p); ext == ".png" || ext == ".jpg" {
			source = p
			break
		}
	}
	if source == "" {
		return fmt.Errorf("缩略图需要 png 或 jpg 输出")
	}
	f, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("读取导出文件失败: %w", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("解码导出文件失败: %w", err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建缩略图文件失败: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, preview.Thumbnail(img)); err != nil {
		return fmt.Errorf("写入缩略图失败: %w", err)
	}
	return nil
}

func applyContentFlags(content *card.Content, opts exportOptions) {
	if opts.quote != "" {
		content.Quote = opts.quote
	}
	if opts.book != "" {
		content.Book = opts.book
	}
	if opts.author != "" {
		content.Author = opts.author
	}
	if opts.seal != "" {
		content.Seal = opts.seal
	}
}

func applyStyleFlags(state *card.State, opts exportOptions) error {
	patch := card.Patch{}
	if opts.theme != "" {
		patch.Theme = &opts.theme
	}
	if opts.layout != "" {
		if opts.layout != card.LayoutHorizontal && opts.layout != card.LayoutVertical {
			return fmt.Errorf("未知排版方向 %q", opts.layout)
		}
		patch.Layout = &opts.layout
	}
	if opts.font != "" {
		patch.Font = &opts.font
	}
	if opts.fontSize != 0 {
		if opts.fontSize < card.FontSizeMin || opts.fontSize > card.FontSizeMax {
			return fmt.Errorf("字号 %g 超出范围 %d-%d", opts.fontSize, card.FontSizeMin, card.FontSizeMax)
		}
		patch.FontSize = &opts.fontSize
	}
	if opts.fontColor != "" {
		patch.FontColor = &opts.fontColor
	}
	if opts.cardWidth != 0 {
		if opts.cardWidth < card.CardWidthMin || opts.cardWidth > card.CardWidthMax {
			return fmt.Errorf("卡片宽度 %g 超出范围 %d-%d", opts.cardWidth, card.CardWidthMin, card.CardWidthMax)
		}
		patch.CardWidth = &opts.cardWidth
	}
	if opts.textAlign != "" {
		patch.TextAlign = &opts.textAlign
	}
	if opts.sealFont != "" {
		patch.SealFont = &opts.sealFont
	}
	state.Update(patch)
	return nil
}

// importArchive 读取配置存档。大版本不一致时需要 -force 明确确认。
func importArchive(path string, force bool, content *card.Content, state *card.State) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("读取配置存档失败: %w", err)
	}
	archive, err := config.ParseArchive(data)
	if err != nil {
		return err
	}
	if archive.VersionMismatch() && !force {
		return fmt.Errorf("存档版本 %q 与当前版本 %s 不一致，追加 -force 仍可导入", archive.Version, card.Version)
	}
	archive.Apply(content, state)
	return nil
}

func exportArchive(path string, content card.Content, state *card.State) error {
	archive := config.ExportArchive(content, state)
	data, err := json.MarshalIndent(archive, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化配置存档失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入配置存档失败: %w", err)
	}
	return nil
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bookcard", "content.db")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
