// Package logging はアプリケーション共通のロガーを作成します。
package logging

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"shiori/internal/config"
)

// New は設定に従ってロガーを作成する
// 出力は人が読むためのコンソール形式
func New(w io.Writer, cfg config.LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("ログレベルの解析に失敗: %w", err)
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
