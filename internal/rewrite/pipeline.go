package rewrite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/omeyang/xtimed/pkg/instrument/xwrap"
)

// Options 汇集一次运行的全部配置。
// Write、List、Diff 可叠加，三者都未指定时把处理后的源码打印到标准输出。
type Options struct {
	// Write 把有变化的文件原地写回。
	Write bool

	// List 列出有变化的文件路径。
	List bool

	// Diff 对有变化的文件输出统一 diff。
	Diff bool

	// Trace 让改写产物携带追踪跨度。
	Trace bool

	// Jobs 是并发处理的文件数上限，非正值取 GOMAXPROCS。
	Jobs int

	// Exclude 是跳过文件的 glob 模式，对文件名与完整路径各试一次。
	Exclude []string

	// RuntimePath 替换生成代码引用的运行时包导入路径，空值用默认。
	RuntimePath string

	// Verbose 打开调试日志，写标准错误。
	Verbose bool

	// Stdout、Stderr 供测试注入，为 nil 时用进程标准流。
	// 源码与 diff 走 Stdout，诊断日志走 Stderr。
	Stdout io.Writer
	Stderr io.Writer
}

// Pipeline 驱动文件收集、并发改写与结果落地。
// 文件改写并发执行，流式输出按文件收集顺序串行排出，结果可复现。
type Pipeline struct {
	tr      *xwrap.Transformer
	write   bool
	list    bool
	diff    bool
	jobs    int
	exclude []string
	log     *slog.Logger
	cache   *hashCache

	outMu  sync.Mutex
	stdout io.Writer
}

// NewPipeline 按选项创建流水线。
func NewPipeline(opts Options) *Pipeline {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}

	return &Pipeline{
		tr: xwrap.New(
			xwrap.WithTracing(opts.Trace),
			xwrap.WithRuntimePath(opts.RuntimePath),
		),
		write:   opts.Write,
		list:    opts.List,
		diff:    opts.Diff,
		jobs:    jobs,
		exclude: opts.Exclude,
		log:     slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		cache:   newHashCache(),
		stdout:  stdout,
	}
}

// Report 聚合一次运行的统计与错误，方法并发安全。
type Report struct {
	mu      sync.Mutex
	files   int
	changed []string
	errs    []error
}

// NewReport 创建空报告。
func NewReport() *Report { return &Report{} }

// Files 返回处理过的文件数。
func (r *Report) Files() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.files
}

// Changed 返回有变化的文件路径，已排序。
func (r *Report) Changed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.changed)
	slices.Sort(out)
	return out
}

// Errs 返回收集到的全部错误。
func (r *Report) Errs() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.errs)
}

func (r *Report) addFile() {
	r.mu.Lock()
	r.files++
	r.mu.Unlock()
}

func (r *Report) addChanged(name string) {
	r.mu.Lock()
	r.changed = append(r.changed, name)
	r.mu.Unlock()
}

func (r *Report) addErrs(errs ...error) {
	if len(errs) == 0 {
		return
	}
	r.mu.Lock()
	r.errs = append(r.errs, errs...)
	r.mu.Unlock()
}

// fileOutcome 是单个文件走完改写后的中间结果。
type fileOutcome struct {
	name string
	src  []byte
	res  *Result
	err  error
}

// Run 处理给定的文件或目录，返回聚合报告。
// 文件级与函数级错误进入报告而不中断其他文件；只有路径收集失败
// 或上下文取消会让 Run 返回错误。
func (p *Pipeline) Run(ctx context.Context, paths []string) (*Report, error) {
	files, err := collectFiles(paths, p.exclude)
	if err != nil {
		return nil, err
	}

	outcomes := make([]*fileOutcome, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.jobs)
	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = p.rewriteFile(name)
			return nil
		})
	}
	waitErr := g.Wait()

	report := NewReport()
	for _, oc := range outcomes {
		if oc == nil {
			// 上下文取消时未轮到的文件。
			continue
		}
		p.record(oc, report)
		if err := p.emit(oc); err != nil {
			report.addErrs(err)
		}
	}
	if waitErr != nil {
		return report, waitErr
	}
	return report, nil
}

// RunStdin 改写 in 中的源码并把结果写到标准输出。
// 与文件模式不同，源码无法解析时直接返回错误。
func (p *Pipeline) RunStdin(in io.Reader) (*Report, error) {
	const name = "<stdin>"

	src, err := io.ReadAll(in)
	if err != nil {
		return nil, err
	}
	res, err := Rewrite(name, src, p.tr)
	if err != nil {
		return nil, err
	}

	report := NewReport()
	oc := &fileOutcome{name: name, src: src, res: res}
	p.record(oc, report)
	if err := p.emit(oc); err != nil {
		return report, err
	}
	return report, nil
}

// rewriteFile 读取并改写单个文件。Write 模式下有变化就立即写回，
// 写回内容的摘要进缓存，供监视模式忽略自身触发的事件。
func (p *Pipeline) rewriteFile(name string) *fileOutcome {
	oc := &fileOutcome{name: name}

	src, err := os.ReadFile(name)
	if err != nil {
		oc.err = err
		return oc
	}
	oc.src = src

	res, err := Rewrite(name, src, p.tr)
	if err != nil {
		oc.err = err
		return oc
	}
	oc.res = res

	p.log.Debug("processed",
		"file", name,
		"directives", res.Matched,
		"rewritten", res.Rewritten,
		"changed", res.Changed,
	)

	if p.write && res.Changed {
		if err := p.writeBack(name, res.Output); err != nil {
			oc.err = err
		}
	}
	return oc
}

// writeBack 原地写回文件，保留原有权限位。
func (p *Pipeline) writeBack(name string, output []byte) error {
	info, err := os.Stat(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(name, output, info.Mode().Perm()); err != nil {
		return err
	}
	p.cache.update(name, output)
	return nil
}

// record 把单个文件的结果并入报告。
func (p *Pipeline) record(oc *fileOutcome, report *Report) {
	report.addFile()
	if oc.err != nil {
		report.addErrs(oc.err)
	}
	if oc.res == nil {
		return
	}
	report.addErrs(oc.res.Errs...)
	if oc.res.Changed {
		report.addChanged(oc.name)
	}
}

// emit 把单个文件的流式输出写到标准输出。
func (p *Pipeline) emit(oc *fileOutcome) error {
	if oc.res == nil {
		return nil
	}

	p.outMu.Lock()
	defer p.outMu.Unlock()

	if !p.write && !p.list && !p.diff {
		_, err := p.stdout.Write(oc.res.Output)
		return err
	}
	if !oc.res.Changed {
		return nil
	}
	if p.list {
		if _, err := fmt.Fprintln(p.stdout, oc.name); err != nil {
			return err
		}
	}
	if p.diff {
		if _, err := io.WriteString(p.stdout, Diff(oc.name, oc.src, oc.res.Output)); err != nil {
			return err
		}
	}
	return nil
}

// processOne 处理监视事件命中的单个文件，供监视器调用。
func (p *Pipeline) processOne(name string, report *Report) {
	oc := p.rewriteFile(name)
	p.record(oc, report)
	if err := p.emit(oc); err != nil {
		report.addErrs(err)
	}
}
