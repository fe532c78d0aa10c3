package preview

import (
	"sync"
	"time"
)

// Debouncer 把密集触发合并为最后一次：每次 Call 取消上一次未执行的
// 调度，重新计时。用于缩略图刷新这类只关心最终状态的任务。
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer 创建延迟为 delay 的防抖器。
func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Call 调度 fn 在延迟之后执行；期间再次 Call 会作废之前的调度。
func (d *Debouncer) Call(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop 取消未执行的调度。
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Throttler 按固定间隔放行：间隔内只有第一次调用得到执行，
// 其余直接丢弃（不补尾调用）。
type Throttler struct {
	interval time.Duration

	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewThrottler 创建间隔为 interval 的节流器。
func NewThrottler(interval time.Duration) *Throttler {
	return &Throttler{interval: interval, now: time.Now}
}

// Call 在距上次放行不足 interval 时丢弃 fn，否则立即执行。
// 返回 fn 是否被执行。
func (t *Throttler) Call(fn func()) bool {
	t.mu.Lock()
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.interval {
		t.mu.Unlock()
		return false
	}
	t.last = now
	t.mu.Unlock()
	fn()
	return true
}
