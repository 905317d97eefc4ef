package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xtimed/internal/rewrite"
)

// exitError 表示需要非零退出码但已完成输出的场景。
// 诊断信息在命令内部已经打印，main 只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// usageError 表示参数组合不合法，对应退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// rootAction 是根命令入口：无路径参数时改写标准输入，否则走流水线，
// 配合 --watch 在首轮处理后进入监视循环。
func rootAction(ctx context.Context, cmd *cli.Command) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	paths := cmd.Args().Slice()
	watch := cmd.Bool("watch")
	if err := validateFlags(opts, watch, len(paths) == 0); err != nil {
		return err
	}

	p := rewrite.NewPipeline(opts)

	if len(paths) == 0 {
		report, err := p.RunStdin(os.Stdin)
		if err != nil {
			return err
		}
		return finish(report)
	}

	report, err := p.Run(ctx, paths)
	if err != nil {
		if report != nil {
			printErrs(report)
		}
		return err
	}

	if watch {
		w, err := rewrite.NewWatcher(p, paths)
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()

		// 首轮的错误先亮出来，监视会话继续在日志里报告后续错误。
		printErrs(report)
		return w.Run(ctx)
	}

	return finish(report)
}

// buildOptions 合并配置文件与命令行旗标，显式旗标优先。
// exclude 取并集：文件里的模式与旗标给的模式都生效。
func buildOptions(cmd *cli.Command) (rewrite.Options, error) {
	fileCfg, err := rewrite.LoadConfig(cmd.String("config"))
	if err != nil {
		return rewrite.Options{}, err
	}

	opts := rewrite.Options{
		Write:       cmd.Bool("write"),
		List:        cmd.Bool("list"),
		Diff:        cmd.Bool("diff"),
		Trace:       fileCfg.Trace,
		Jobs:        fileCfg.Jobs,
		Exclude:     fileCfg.Exclude,
		RuntimePath: fileCfg.Runtime,
		Verbose:     fileCfg.Verbose,
	}
	if cmd.IsSet("trace") {
		opts.Trace = cmd.Bool("trace")
	}
	if cmd.IsSet("jobs") {
		opts.Jobs = cmd.Int("jobs")
	}
	if cmd.IsSet("runtime") {
		opts.RuntimePath = cmd.String("runtime")
	}
	if cmd.IsSet("verbose") {
		opts.Verbose = cmd.Bool("verbose")
	}
	opts.Exclude = append(opts.Exclude, cmd.StringSlice("exclude")...)
	return opts, nil
}

// validateFlags 校验旗标组合。stdin 表示没有路径参数的过滤器模式。
func validateFlags(opts rewrite.Options, watch, stdin bool) error {
	if watch && !opts.Write {
		return &usageError{msg: "--watch 需要配合 --write 使用"}
	}
	if stdin {
		switch {
		case watch:
			return &usageError{msg: "标准输入模式不能使用 --watch"}
		case opts.Write:
			return &usageError{msg: "标准输入模式不能使用 --write"}
		case opts.List:
			return &usageError{msg: "标准输入模式不能使用 --list"}
		}
	}
	return nil
}

// printErrs 把报告里的错误逐条打印到标准错误。
func printErrs(report *rewrite.Report) {
	for _, e := range report.Errs() {
		fmt.Fprintln(os.Stderr, e)
	}
}

// finish 打印错误并折算退出码：有处理错误时退出码为 1。
func finish(report *rewrite.Report) error {
	printErrs(report)
	if len(report.Errs()) > 0 {
		return &exitError{code: 1}
	}
	return nil
}
