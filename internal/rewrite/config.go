package rewrite

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// FileConfig 是 .xtimed 配置文件的内容，为命令行旗标提供缺省值。
// 显式传入的旗标优先于文件取值。
type FileConfig struct {
	// Trace 开启追踪跨度注入。
	Trace bool `koanf:"trace"`

	// Jobs 是并发处理的文件数上限。
	Jobs int `koanf:"jobs"`

	// Exclude 是跳过文件的 glob 模式列表。
	Exclude []string `koanf:"exclude"`

	// Verbose 打开调试日志。
	Verbose bool `koanf:"verbose"`

	// Runtime 替换生成代码引用的运行时包导入路径。
	Runtime string `koanf:"runtime"`
}

// DefaultConfigNames 是未显式指定配置文件时按序探测的文件名。
var DefaultConfigNames = []string{".xtimed.yaml", ".xtimed.yml", ".xtimed.json"}

// LoadConfig 加载配置文件。path 为空时在当前目录按 DefaultConfigNames
// 探测，全部缺席返回零值配置；显式指定的路径必须存在且可解析。
func LoadConfig(path string) (FileConfig, error) {
	var cfg FileConfig

	if path == "" {
		for _, name := range DefaultConfigNames {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
		if path == "" {
			return cfg, nil
		}
	}

	parser, err := parserFor(path)
	if err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrConfigLoad, err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	return cfg, nil
}

// parserFor 按文件扩展名选择解析器。
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrConfigFormat, filepath.Ext(path))
	}
}
