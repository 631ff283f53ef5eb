package server

import (
	"net"
	"time"

	"github.com/google/uuid"

	"shiori/internal/protocol"
	"shiori/internal/urlpath"
)

// handleConnection は1つの接続で1つのリクエストを処理し、必ず接続を閉じる
//
// 処理の順序は 読み取り → 解析 → ルーティング → 送信 → クローズ。
// 解析できないリクエストや一致しないルートには何も送らない。
func (s *Server) handleConnection(conn net.Conn) {
	logger := s.logger.With().
		Str("conn_id", uuid.NewString()).
		Str("remote", conn.RemoteAddr().String()).
		Logger()

	defer func() {
		if err := conn.Close(); err != nil {
			logger.Debug().Err(err).Msg("接続のクローズに失敗しました")
		}
	}()

	if d := s.config.Server.ReadTimeout; d > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(d))
	}

	raw, err := protocol.ReadRequest(conn, s.config.Server.MaxRequestSize)
	if len(raw) == 0 {
		logger.Debug().Err(err).Msg("リクエストを読み取れませんでした")
		return
	}
	if err != nil {
		// 途中までは読めているので解析は続ける
		logger.Debug().Err(err).Int("bytes", len(raw)).Msg("リクエストの読み取りが途中で終了しました")
	}

	target, ok := protocol.ParseRequestLine(raw)
	if !ok {
		logger.Debug().Int("bytes", len(raw)).Msg("リクエスト行が一致しないため応答しません")
		return
	}

	path := urlpath.DecodeString(target)
	resp, route, err := s.router.Dispatch(path)
	if err != nil {
		logger.Error().Err(err).Str("route", route).Str("path", path).Msg("レスポンスの作成に失敗しました")
		return
	}
	if resp == nil {
		logger.Debug().Str("path", path).Msg("一致するルートがないため応答しません")
		return
	}

	if d := s.config.Server.WriteTimeout; d > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(d))
	}

	out := resp.Bytes()
	n, err := conn.Write(out)
	if err != nil {
		logger.Warn().Err(err).Int("written", n).Int("size", len(out)).Msg("レスポンスの送信に失敗しました")
		return
	}

	logger.Info().
		Str("route", route).
		Str("path", path).
		Int("status", resp.Status.Code).
		Int("size", n).
		Msg("レスポンスを送信しました")
}
