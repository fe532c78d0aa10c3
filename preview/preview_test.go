package preview

import (
	"image"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/bookcard/card"
)

func TestDebouncerCoalesces(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	var count atomic.Int32
	done := make(chan struct{})

	for i := 0; i < 5; i++ {
		d.Call(func() {
			count.Add(1)
			close(done)
		})
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("防抖回调未触发")
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), count.Load(), "密集触发应合并为一次")
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	var count atomic.Int32
	d.Call(func() { count.Add(1) })
	d.Stop()
	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, count.Load(), "Stop 后不应再触发")
}

func TestThrottlerLeadingOnly(t *testing.T) {
	th := NewThrottler(100 * time.Millisecond)
	now := time.Unix(0, 0)
	th.now = func() time.Time { return now }

	calls := 0
	fn := func() { calls++ }

	assert.True(t, th.Call(fn), "首次调用应放行")
	assert.False(t, th.Call(fn), "间隔内应丢弃")
	now = now.Add(99 * time.Millisecond)
	assert.False(t, th.Call(fn))
	now = now.Add(1 * time.Millisecond)
	assert.True(t, th.Call(fn), "到达间隔后应放行")
	assert.Equal(t, 2, calls)
}

func TestScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 400, 600))
	dst := Scale(src, 0.4)
	b := dst.Bounds()
	assert.Equal(t, 160, b.Dx())
	assert.Equal(t, 240, b.Dy())

	assert.Same(t, image.Image(src), Scale(src, 1), "比例为 1 时原样返回")
	assert.Nil(t, Scale(nil, 0.4))
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []card.Content
}

func (r *recordingSaver) SaveContent(c card.Content) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, c)
}

func TestControllerUpdateContent(t *testing.T) {
	state := card.NewState()
	saver := &recordingSaver{}
	thumbed := make(chan card.Content, 1)

	c := NewController(card.Content{Quote: "旧"}, state, saver, func(content card.Content, _ *card.State) {
		select {
		case thumbed <- content:
		default:
		}
	}, nil)
	defer c.Close()

	c.UpdateContent(func(content *card.Content) { content.Quote = "新" })

	// 缓存立即写入
	saver.mu.Lock()
	require.Len(t, saver.saved, 1)
	assert.Equal(t, "新", saver.saved[0].Quote)
	saver.mu.Unlock()

	// 预览文档已重建
	text := c.Document().GetElementByID(card.CardID).QueryClass(card.ClassTextContent)
	require.NotNil(t, text)
	assert.Equal(t, "新", text.Text)

	// 缩略图经防抖后刷新
	select {
	case content := <-thumbed:
		assert.Equal(t, "新", content.Quote)
	case <-time.After(time.Second):
		t.Fatal("缩略图回调未触发")
	}
}

func TestControllerZoom(t *testing.T) {
	state := card.NewState()
	c := NewController(card.Content{}, state, nil, nil, nil)
	defer c.Close()

	c.SetZoom(0.8)
	assert.Equal(t, 0.8, c.Zoom())
	assert.Equal(t, 0.8, state.Zoom)

	c.SetZoom(0)
	assert.Equal(t, 1.0, c.Zoom(), "非正缩放按 1 处理")
}

func TestControllerUpdateStyle(t *testing.T) {
	state := card.NewState()
	c := NewController(card.Content{}, state, nil, nil, nil)
	defer c.Close()

	layout := card.LayoutVertical
	c.UpdateStyle(card.Patch{Layout: &layout})
	assert.Equal(t, card.LayoutVertical, state.Layout)

	root := c.Document().GetElementByID(card.CardID)
	require.NotNil(t, root)
	assert.Contains(t, root.Class, "vertical-mode")
}
