package xopt

import (
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"
	"strconv"
	"strings"

	"github.com/omeyang/xtimed/pkg/instrument/xdur"
)

// 支持的选项键。
const (
	keyName      = "name"
	keyLevel     = "level"
	keyThreshold = "threshold"
)

// Config 是一条度量指令解析后的配置。
type Config struct {
	// Name 覆盖输出中的函数显示名。空串表示未设置。
	Name string

	// Level 指定计时结果的输出级别。
	Level Level

	// Threshold 为最小上报阈值，耗时低于它的调用不输出。
	// nil 表示不设阈值，任何耗时都输出。
	Threshold *xdur.Duration
}

// Parse 解析指令的选项文本。输入为空或全空白时返回零值配置。
// 每个选项形如 key = value，取值必须是一个完整的 Go 表达式。
func Parse(args string) (Config, error) {
	var cfg Config

	toks := scanAll(args)
	i := 0
	for i < len(toks) {
		if toks[i].tok != token.IDENT {
			return Config{}, fmt.Errorf("%w: got %q", ErrExpectedNameValuePair, tokenText(toks[i]))
		}
		key := toks[i].lit
		i++

		if i >= len(toks) || toks[i].tok != token.ASSIGN {
			return Config{}, fmt.Errorf("%w: option %q missing '='", ErrExpectedNameValuePair, key)
		}
		i++

		// 取值：深度 0 的逗号之前的全部 token。
		start := i
		depth := 0
		for i < len(toks) {
			t := toks[i].tok
			if depth == 0 && t == token.COMMA {
				break
			}
			switch t {
			case token.SEMICOLON:
				return Config{}, fmt.Errorf("%w: unexpected %q", ErrExpectedNameValuePair, ";")
			case token.LPAREN, token.LBRACK, token.LBRACE:
				depth++
			case token.RPAREN, token.RBRACK, token.RBRACE:
				depth--
			}
			i++
		}
		if start == i {
			return Config{}, fmt.Errorf("%w: option %q has no value", ErrExpectedNameValuePair, key)
		}

		value := toks[start:i]
		if !validExpr(value) {
			return Config{}, fmt.Errorf("%w: option %q has malformed value %q", ErrExpectedNameValuePair, key, joinTokens(value))
		}

		if err := cfg.apply(key, value); err != nil {
			return Config{}, err
		}

		// 分隔逗号，允许尾随。
		if i < len(toks) {
			i++
		}
	}
	return cfg, nil
}

// apply 把一对选项写入配置。
// 取值只认单个字符串字面量；已识别的键配上其他表达式时整对忽略。
func (c *Config) apply(key string, value []scannedToken) error {
	switch key {
	case keyName, keyLevel, keyThreshold:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOption, key)
	}

	str, ok := stringValue(value)
	if !ok {
		return nil
	}

	switch key {
	case keyName:
		c.Name = str
	case keyLevel:
		lvl, err := ParseLevel(str)
		if err != nil {
			return err
		}
		c.Level = lvl
	case keyThreshold:
		d, err := xdur.Parse(str)
		if err != nil {
			return fmt.Errorf("xopt: threshold: %w", err)
		}
		c.Threshold = &d
	}
	return nil
}

// validExpr 报告取值 token 串能否构成一个完整的 Go 表达式。
// 形如 = "x" 或 "a" "b" 的残缺取值在此拦下；
// 合法的非字符串表达式放行，由 apply 按忽略策略处理。
func validExpr(value []scannedToken) bool {
	_, err := parser.ParseExpr(joinTokens(value))
	return err == nil
}

// joinTokens 以空格拼回各 token 的显示文本。
// 空格不改变词法切分，拼接结果与原始取值等价。
func joinTokens(value []scannedToken) string {
	parts := make([]string, len(value))
	for i, t := range value {
		parts[i] = tokenText(t)
	}
	return strings.Join(parts, " ")
}

// stringValue 在取值恰为单个字符串字面量时返回其解码结果。
func stringValue(value []scannedToken) (string, bool) {
	if len(value) != 1 || value[0].tok != token.STRING {
		return "", false
	}
	s, err := strconv.Unquote(value[0].lit)
	if err != nil {
		return "", false
	}
	return s, true
}

// scannedToken 是扫描出的一个 token 及其字面量。
type scannedToken struct {
	tok token.Token
	lit string
}

// tokenText 返回 token 的显示文本，供错误信息使用。
func tokenText(t scannedToken) string {
	if t.lit != "" {
		return t.lit
	}
	return t.tok.String()
}

// scanAll 用 Go 词法扫描器切分选项文本。
// 扫描器在行尾自动补的分号（字面量为 "\n"）不是用户输入，直接丢弃；
// 显式分号（字面量为 ";"）保留，由解析环节报错。
func scanAll(src string) []scannedToken {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var s scanner.Scanner
	s.Init(file, []byte(src), nil, 0)

	var toks []scannedToken
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			return toks
		}
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		toks = append(toks, scannedToken{tok: tok, lit: lit})
	}
}
