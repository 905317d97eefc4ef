// xtimed 按源码指令为 Go 函数注入计时插桩。
//
// 在函数声明前写一行度量指令，再运行 xtimed 改写源码：
//
//	//xtimed:measure name="fetch users", level="debug", threshold="50ms"
//	func FetchUsers(ctx context.Context) ([]User, error) { ... }
//
// 改写后的函数保持签名与并发行为不变，执行耗时达到阈值时输出
// 一行计时日志；配合 --trace 还会为每次调用开启追踪跨度。
//
// 用法:
//
//	xtimed [选项] [路径 ...]
//
// 路径可以是文件或目录，目录递归处理（跳过 vendor、testdata、
// 隐藏目录与下划线开头的目录）。不带路径时从标准输入读取，
// 结果写到标准输出。
//
// 选项:
//
//	-w, --write    把改写结果原地写回（默认打印到标准输出）
//	-l, --list     列出会发生变化的文件
//	-d, --diff     输出统一 diff 而不落盘
//	    --trace    同时注入 OpenTelemetry 跨度
//	    --watch    持续监视并增量改写（需配合 --write）
//	-j, --jobs     并发处理的文件数（默认 CPU 数）
//	    --exclude  跳过匹配的文件，可重复指定
//	    --runtime  生成代码引用的运行时包导入路径
//	-c, --config   配置文件路径（默认探测 .xtimed.yaml/.xtimed.json）
//	    --verbose  输出调试日志
//
// 退出码:
//
//	0: 全部成功
//	1: 存在处理错误（逐条打印到标准错误）
//	2: 参数错误
//
// 示例:
//
//	xtimed main.go                  # 改写结果打印到标准输出
//	xtimed -w .                     # 递归原地改写当前目录
//	xtimed -l ./internal            # 列出会变化的文件
//	xtimed -d service.go            # 查看将要发生的变化
//	xtimed -w --trace ./pkg         # 插桩并注入追踪跨度
//	xtimed -w --watch ./internal    # 监视目录，保存即插桩
//	cat main.go | xtimed            # 过滤器模式
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:      "xtimed",
		Usage:     "按源码指令为 Go 函数注入计时插桩",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		ArgsUsage: "[path ...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "把改写结果原地写回",
			},
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "列出会发生变化的文件",
			},
			&cli.BoolFlag{
				Name:    "diff",
				Aliases: []string{"d"},
				Usage:   "输出统一 diff 而不落盘",
			},
			&cli.BoolFlag{
				Name:  "trace",
				Usage: "同时注入 OpenTelemetry 跨度",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "持续监视并增量改写（需配合 --write）",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "并发处理的文件数，默认取 CPU 数",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "跳过匹配的文件（glob），可重复指定",
			},
			&cli.StringFlag{
				Name:  "runtime",
				Usage: "生成代码引用的运行时包导入路径",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径，默认探测 .xtimed.yaml/.xtimed.json",
			},
			// -v 留给内建的 --version，这里只提供长旗标。
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "输出调试日志",
			},
		},
		Authors: []any{
			"xtimed Team",
		},
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			// ExitCoder 错误的消息需在此输出，
			// 替代 HandleExitCoder 的默认 os.Exit 行为。
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
		// flag 解析失败（未知旗标等）归入参数错误，映射退出码 2。
		OnUsageError: func(_ context.Context, _ *cli.Command, err error, _ bool) error {
			return &usageError{msg: err.Error()}
		},
		Action: rootAction,
	}
}

func run() int {
	app := createApp()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}
	return 0
}
