package preview

import (
	"log/slog"
	"sync"

	"github.com/ByLCY/bookcard/card"
)

// ContentSaver 持久化内容字段，由 store 包实现。存储失败由实现方
// 自行降级，不向调用方传播。
type ContentSaver interface {
	SaveContent(content card.Content)
}

// Controller 维护预览的当前内容、样式与缩放。每次内容更新按固定
// 顺序推进：先重建预览文档，再（防抖地）刷新缩略图，最后写缓存。
type Controller struct {
	mu      sync.Mutex
	content card.Content
	state   *card.State
	doc     *card.Document
	zoom    float64

	saver    ContentSaver
	thumb    func(content card.Content, state *card.State)
	debounce *Debouncer
	log      *slog.Logger
}

// NewController 创建预览控制器。saver 与 thumb 都可以为 nil。
func NewController(content card.Content, state *card.State, saver ContentSaver, thumb func(card.Content, *card.State), log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	c := &Controller{
		content:  content,
		state:    state,
		zoom:     state.Zoom,
		saver:    saver,
		thumb:    thumb,
		debounce: NewDebouncer(card.ThumbnailUpdateDelay),
		log:      log,
	}
	c.doc = card.NewDocument(content, state)
	return c
}

// Document 返回当前预览文档。
func (c *Controller) Document() *card.Document {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc
}

// Content 返回当前内容的副本。
func (c *Controller) Content() card.Content {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.content
}

// UpdateContent 原子地修改内容并按既定顺序刷新：预览、缩略图、缓存。
func (c *Controller) UpdateContent(mutate func(*card.Content)) {
	c.mu.Lock()
	mutate(&c.content)
	c.doc = card.NewDocument(c.content, c.state)
	content, state := c.content, c.state
	c.mu.Unlock()

	if c.thumb != nil {
		c.debounce.Call(func() { c.thumb(content, state) })
	}
	if c.saver != nil {
		c.saver.SaveContent(content)
	}
}

// UpdateStyle 应用样式补丁并重建预览文档。
func (c *Controller) UpdateStyle(patch card.Patch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Update(patch)
	c.doc = card.NewDocument(c.content, c.state)
}

// Zoom 返回当前缩放。
func (c *Controller) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// SetZoom 设置缩放，非正值按 1 处理。
func (c *Controller) SetZoom(zoom float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if zoom <= 0 {
		zoom = 1
	}
	c.zoom = zoom
	c.state.Zoom = zoom
}

// Close 取消未执行的缩略图调度。
func (c *Controller) Close() {
	c.debounce.Stop()
}
