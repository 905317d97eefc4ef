package rewrite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce 是文件事件的默认防抖窗口。
// 编辑器保存往往触发连续多个事件，窗口内只处理最后一次。
const defaultDebounce = 100 * time.Millisecond

// WatchOption 配置监视器。
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
}

// WithDebounce 设置事件防抖窗口，非正值忽略。
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// Watcher 监视目标目录，在 Go 源文件变更时增量改写。
//
// 监视对象是目录而不是单个文件：原子写风格的编辑器以临时文件加
// rename 落盘，直接监视文件会在第一次保存后失联。流水线自身的
// 写回通过内容摘要缓存识别并忽略，不会造成改写回环。
type Watcher struct {
	pipeline *Pipeline
	fsw      *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

// NewWatcher 创建监视器并注册 paths 下的全部目录。
func NewWatcher(p *Pipeline, paths []string, opts ...WatchOption) (*Watcher, error) {
	cfg := &watchConfig{debounce: defaultDebounce}
	for _, opt := range opts {
		opt(cfg)
	}

	dirs, err := collectDirs(paths)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("rewrite: create watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return nil, errors.Join(fmt.Errorf("rewrite: watch %s: %w", dir, err), fsw.Close())
		}
	}

	return &Watcher{
		pipeline: p,
		fsw:      fsw,
		debounce: cfg.debounce,
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Run 阻塞处理事件，直到 ctx 取消或 Stop 被调用。
// 正常停止返回 nil。
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.pipeline.log.Warn("watch error", "err", err)
		}
	}
}

// handleEvent 过滤文件事件并启动防抖定时器。
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	name := event.Name

	// 新建子目录动态纳入监视。
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(name); err == nil && info.IsDir() {
			if !skipDir(filepath.Base(name)) {
				if err := w.fsw.Add(name); err != nil {
					w.pipeline.log.Warn("watch add failed", "dir", name, "err", err)
				}
			}
			return
		}
	}

	if !isGoFile(filepath.Base(name)) || excluded(name, w.pipeline.exclude) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	if timer, ok := w.timers[name]; ok {
		timer.Stop()
	}
	w.timers[name] = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.rewriteChanged(name)
	})
}

// rewriteChanged 在内容真实变化时改写单个文件。
// 事件级错误就地记日志，监视会话继续。
func (w *Watcher) rewriteChanged(name string) {
	data, err := os.ReadFile(name)
	if err != nil {
		// 防抖窗口内文件可能已被删除或改名。
		w.pipeline.cache.forget(name)
		return
	}
	if !w.pipeline.cache.changed(name, data) {
		return
	}

	report := NewReport()
	w.pipeline.processOne(name, report)
	for _, err := range report.Errs() {
		w.pipeline.log.Error("rewrite failed", "err", err)
	}
	for _, changed := range report.Changed() {
		w.pipeline.log.Info("rewritten", "file", changed)
	}
}

// Stop 停止监视并取消未触发的防抖定时器，可安全重复调用。
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	for _, timer := range w.timers {
		timer.Stop()
	}
	return w.fsw.Close()
}
