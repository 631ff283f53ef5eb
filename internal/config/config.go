package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// 設定を上書きする環境変数名
const (
	ConfigFileEnv = "SHIORI_CONFIG"
	HostEnv       = "SERVER_HOST"
	PortEnv       = "PORT"
	RootEnv       = "SHIORI_ROOT"
	LogLevelEnv   = "LOG_LEVEL"
)

// ErrInvalidPort はポート番号が範囲外であることを示す
var ErrInvalidPort = errors.New("invalid port")

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server ServerConfig `yaml:"server"`
	Static StaticConfig `yaml:"static"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig はTCPサーバーの設定
type ServerConfig struct {
	Host    string `yaml:"host" validate:"omitempty,ip|hostname_rfc1123"` // リッスンするホスト
	Port    int    `yaml:"port" validate:"min=1,max=65535"`               // リッスンするポート番号
	Backlog int    `yaml:"backlog" validate:"min=1,max=65535"`            // listenのバックログ

	// 同時に処理する接続数の上限（0は無制限）
	MaxConnections int `yaml:"max_connections" validate:"min=0"`
	// リクエストとして読み取る最大バイト数
	MaxRequestSize int `yaml:"max_request_size" validate:"min=64"`

	// タイムアウト設定（0は無効）
	ReadTimeout     time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

// StaticConfig は静的ファイル配信の設定
type StaticConfig struct {
	// 相対パスの基準ディレクトリ
	Root string `yaml:"root" validate:"required"`
	// trueの場合、Rootの外を指すパスは見つからないものとして扱う
	Confine bool `yaml:"confine"`
	// 配信できるファイルの最大サイズ
	MaxFileSize int64 `yaml:"max_file_size" validate:"min=1"`
}

// LogConfig はログ出力の設定
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=trace debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default はデフォルト設定を返す
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			Backlog:         10,
			MaxConnections:  0,
			MaxRequestSize:  8 * 1024,
			ReadTimeout:     0,
			WriteTimeout:    0,
			ShutdownTimeout: 5 * time.Second,
		},
		Static: StaticConfig{
			Root:        ".",
			Confine:     true,
			MaxFileSize: 100 * 1024 * 1024,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load は設定を読み込む
// デフォルト値、SHIORI_CONFIGで指定されたYAMLファイル、環境変数の順に上書きする
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigFileEnv))
}

// LoadFile はYAMLファイルから設定を読み込み、検証する
// pathが空の場合はファイルを読まない。ファイルに書かれていない項目はデフォルト値のまま
func LoadFile(path string) (*Config, error) {
	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// ReadFile はLoadFileと同じ順に設定を組み立てるが、検証は行わない
// 呼び出し側で値を上書きしてからValidateを呼ぶ。ignoreEnvに挙げた環境変数は読まない
func ReadFile(path string, ignoreEnv ...string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(ignoreEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗: %s: %w", path, err)
	}
	return nil
}

// applyEnv は環境変数で設定を上書きする
func (c *Config) applyEnv(ignore []string) error {
	env := func(key string) string {
		if slices.Contains(ignore, key) {
			return ""
		}
		return os.Getenv(key)
	}

	c.Server.Host = valueOrDefault(env(HostEnv), c.Server.Host)

	port, err := intOrDefault(PortEnv, env(PortEnv), c.Server.Port)
	if err != nil {
		return err
	}
	c.Server.Port = port

	c.Static.Root = valueOrDefault(env(RootEnv), c.Static.Root)
	c.Log.Level = valueOrDefault(env(LogLevelEnv), c.Log.Level)
	return nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Server.Port)
	}

	if err := validate.Struct(c); err != nil {
		return err
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// ParsePort はコマンドライン引数のポート番号を解析する
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPort, port)
	}
	return port, nil
}

// valueOrDefault は環境変数の値を返し、設定されていない場合はデフォルト値を返す
func valueOrDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

// intOrDefault は環境変数の値を整数として返し、設定されていない場合はデフォルト値を返す
func intOrDefault(key, value string, defaultValue int) (int, error) {
	if value == "" {
		return defaultValue, nil
	}
	intVal, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("環境変数 %s が整数ではありません: %q", key, value)
	}
	return intVal, nil
}
