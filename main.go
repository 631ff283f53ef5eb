package main

import (
	"context"
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

// run はポート番号を1つだけ受け取ってサーバーを起動し、終了コードを返す
// 利用者向けのメッセージはstdout、ログはstderrに出力する
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	name := "shiori"
	if len(args) > 0 {
		name = args[0]
	}
	if len(args) != 2 {
		fmt.Fprintf(stdout, "使用方法: %s <port>\n", name)
		return 1
	}

	port, err := config.ParsePort(args[1])
	if err != nil {
		fmt.Fprintf(stdout, "無効なポート番号です (%s)\n", args[1])
		fmt.Fprintf(stdout, "使用方法: %s <port>\n", name)
		return 1
	}

	// 設定を読み込む。ポートは引数で決まるので環境変数PORTは読まない
	cfg, err := config.ReadFile(os.Getenv(config.ConfigFileEnv), config.PortEnv)
	if err != nil {
		fmt.Fprintf(stdout, "設定の読み込みに失敗しました: %v\n", err)
		return 1
	}
	cfg.Server.Port = port
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stdout, "設定の検証に失敗しました: %v\n", err)
		return 1
	}

	logger, err := logging.New(stderr, cfg.Log)
	if err != nil {
		fmt.Fprintf(stdout, "ロガーの作成に失敗しました: %v\n", err)
		return 1
	}

	srv := server.New(cfg, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case <-srv.Ready():
		fmt.Fprintf(stdout, "Server listening on port %d\n", port)
		fmt.Fprintf(stdout, "See http://localhost:%d/assets/example.html\n", port)
		err = <-errCh
	case err = <-errCh:
	}

	if err != nil {
		logger.Error().Err(err).Msg("サーバーが異常終了しました")
		fmt.Fprintf(stdout, "サーバーの起動に失敗しました: %v\n", err)
		return 1
	}
	return 0
}
