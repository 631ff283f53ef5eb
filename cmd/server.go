// Package main はShioriサーバーコマンドの実装です
//
// リポジトリ直下のコマンドはポート番号だけを受け取るが、こちらは
// ホスト、ポート、設定ファイルをフラグで指定できる運用向けの入口。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"shiori/internal/config"
	"shiori/internal/logging"
	"shiori/internal/server"
)

func main() {
	os.Exit(run(context.Background(), os.Args, os.Stdout, os.Stderr))
}

// run はフラグを解析してサーバーを起動し、終了コードを返す
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	name := "server"
	if len(args) > 0 {
		name = args[0]
		args = args[1:]
	}

	// コマンドラインオプション
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		host       = fs.String("host", "", "サーバーのホスト (デフォルト: 0.0.0.0)")
		port       = fs.Int("port", 0, "サーバーのポート (デフォルト: 8080)")
		configPath = fs.String("config", "", "YAML設定ファイルのパス (環境変数 "+config.ConfigFileEnv+" でも指定可)")
		help       = fs.Bool("help", false, "ヘルプを表示")
	)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	// ヘルプ表示
	if *help {
		fmt.Fprintln(stdout, "Shiori")
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "使用方法:")
		fmt.Fprintf(stdout, "  %s [オプション]\n", name)
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, "オプション:")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}

	// 設定を読み込む。フラグで指定した項目は環境変数を読まない
	path := *configPath
	if path == "" {
		path = os.Getenv(config.ConfigFileEnv)
	}
	var ignore []string
	if *host != "" {
		ignore = append(ignore, config.HostEnv)
	}
	if *port != 0 {
		ignore = append(ignore, config.PortEnv)
	}
	cfg, err := config.ReadFile(path, ignore...)
	if err != nil {
		fmt.Fprintf(stderr, "設定の読み込みに失敗しました: %v\n", err)
		return 1
	}

	// コマンドラインオプションで設定を上書き
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "設定の検証に失敗しました: %v\n", err)
		return 1
	}

	logger, err := logging.New(stderr, cfg.Log)
	if err != nil {
		fmt.Fprintf(stderr, "ロガーの作成に失敗しました: %v\n", err)
		return 1
	}

	srv := server.New(cfg, logger)

	// サーバーを起動
	logger.Info().Str("addr", cfg.ServerAddress()).Str("root", cfg.Static.Root).Bool("confine", cfg.Static.Confine).
		Msg("Shiori サーバーを起動します")
	if err := srv.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("サーバーの起動に失敗しました")
		return 1
	}
	return 0
}
