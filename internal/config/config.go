package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultPath          = "config.json"
	DefaultEnvFile       = ".env"
	defaultBaseURL       = "http://localhost:4000"
	defaultAPIPrefix     = "/api/v1"
	defaultTimeout       = 10 * time.Second
	defaultFrontendURL   = "http://localhost:3000"
	defaultScreenshotDir = "/tmp"
	defaultSheetName     = "Sheet1"
	defaultHeaderRow     = 1
	defaultNavTimeout    = 60 * time.Second
	defaultRenderWait    = 5 * time.Second
	defaultActionWait    = 500 * time.Millisecond
	defaultQueryWait     = 5 * time.Second
	defaultPageWait      = 2 * time.Second
)

// 辅助结构体处理 JSON 解析，时长用字符串表示
type jsonConfig struct {
	BaseURL       string `json:"base_url"`
	APIPrefix     string `json:"api_prefix"`
	Timeout       string `json:"timeout"`
	SuitePath     string `json:"suite_path"`
	SheetName     string `json:"sheet_name"`
	HeaderRow     int    `json:"header_row"`
	Verbose       bool   `json:"verbose"`
	FrontendURL   string `json:"frontend_url"`
	ScreenshotDir string `json:"screenshot_dir"`
	NavTimeout    string `json:"nav_timeout"`
	RenderWait    string `json:"render_wait"`
	ActionWait    string `json:"action_wait"`
	QueryWait     string `json:"query_wait"`
	PageWait      string `json:"page_wait"`
}

type Config struct {
	BaseURL   string
	APIPrefix string
	Timeout   time.Duration
	SuitePath string
	SheetName string
	HeaderRow int
	Verbose   bool

	FrontendURL   string
	ScreenshotDir string
	NavTimeout    time.Duration
	RenderWait    time.Duration
	ActionWait    time.Duration
	QueryWait     time.Duration
	PageWait      time.Duration
}

// FlagOverrides 命令行参数，零值表示未设置
type FlagOverrides struct {
	BaseURL       string
	APIPrefix     string
	Timeout       time.Duration
	SuitePath     string
	SheetName     string
	HeaderRow     int
	Verbose       bool
	FrontendURL   string
	ScreenshotDir string
}

func Default() *Config {
	return &Config{
		BaseURL:       defaultBaseURL,
		APIPrefix:     defaultAPIPrefix,
		Timeout:       defaultTimeout,
		SheetName:     defaultSheetName,
		HeaderRow:     defaultHeaderRow,
		FrontendURL:   defaultFrontendURL,
		ScreenshotDir: defaultScreenshotDir,
		NavTimeout:    defaultNavTimeout,
		RenderWait:    defaultRenderWait,
		ActionWait:    defaultActionWait,
		QueryWait:     defaultQueryWait,
		PageWait:      defaultPageWait,
	}
}

// Load 按 默认值 -> 配置文件 -> .env/环境变量 -> 命令行 的顺序合并配置。
// 配置文件或 .env 不存在时跳过。
func Load(path, envFile string, flags FlagOverrides) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("加载 %s 失败: %w", envFile, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	cfg.applyFlags(flags)
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("读取配置文件失败: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setString(&c.BaseURL, jc.BaseURL)
	setString(&c.APIPrefix, jc.APIPrefix)
	setString(&c.SuitePath, jc.SuitePath)
	setString(&c.SheetName, jc.SheetName)
	setString(&c.FrontendURL, jc.FrontendURL)
	setString(&c.ScreenshotDir, jc.ScreenshotDir)
	if jc.HeaderRow > 0 {
		c.HeaderRow = jc.HeaderRow
	}
	c.Verbose = c.Verbose || jc.Verbose

	// 无法解析的时长保留默认值；超时必须为正
	setTimeout(&c.Timeout, jc.Timeout)
	setTimeout(&c.NavTimeout, jc.NavTimeout)
	setDuration(&c.RenderWait, jc.RenderWait)
	setDuration(&c.ActionWait, jc.ActionWait)
	setDuration(&c.QueryWait, jc.QueryWait)
	setDuration(&c.PageWait, jc.PageWait)
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.BaseURL, os.Getenv("SMOKE_BASE_URL"))
	setString(&c.APIPrefix, os.Getenv("SMOKE_API_PREFIX"))
	setString(&c.SuitePath, os.Getenv("SMOKE_SUITE"))
	setString(&c.FrontendURL, os.Getenv("SMOKE_FRONTEND_URL"))
	setString(&c.ScreenshotDir, os.Getenv("SMOKE_SCREENSHOT_DIR"))

	if v := os.Getenv("SMOKE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SMOKE_TIMEOUT 无效: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("SMOKE_TIMEOUT 必须大于 0: %s", v)
		}
		c.Timeout = d
	}
	if v := os.Getenv("SMOKE_VERBOSE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SMOKE_VERBOSE 无效: %w", err)
		}
		c.Verbose = b
	}
	return nil
}

func (c *Config) applyFlags(f FlagOverrides) {
	setString(&c.BaseURL, f.BaseURL)
	setString(&c.APIPrefix, f.APIPrefix)
	setString(&c.SuitePath, f.SuitePath)
	setString(&c.SheetName, f.SheetName)
	setString(&c.FrontendURL, f.FrontendURL)
	setString(&c.ScreenshotDir, f.ScreenshotDir)
	if f.Timeout > 0 {
		c.Timeout = f.Timeout
	}
	if f.HeaderRow > 0 {
		c.HeaderRow = f.HeaderRow
	}
	if f.Verbose {
		c.Verbose = true
	}
}

// APIBase 返回拼接了前缀的接口地址
func (c *Config) APIBase() string {
	base := strings.TrimRight(c.BaseURL, "/")
	prefix := strings.Trim(c.APIPrefix, "/")
	if prefix == "" {
		return base
	}
	return base + "/" + prefix
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		*dst = d
	}
}

func setTimeout(dst *time.Duration, v string) {
	var d time.Duration
	setDuration(&d, v)
	if d > 0 {
		*dst = d
	}
}
