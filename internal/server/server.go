package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/netutil"

	"shiori/internal/config"
	"shiori/internal/router"
	"shiori/internal/static"
)

// Server はTCPの受け付けと接続ごとの処理を管理する構造体
type Server struct {
	config *config.Config
	router *router.Router
	logger zerolog.Logger

	mu       sync.Mutex
	listener net.Listener
	closing  bool
	ready    chan struct{}
	conns    sync.WaitGroup
}

// New は新しいServerインスタンスを作成する
func New(cfg *config.Config, logger zerolog.Logger) *Server {
	s := &Server{
		config: cfg,
		router: router.New(),
		logger: logger,
		ready:  make(chan struct{}),
	}
	s.setupRoutes(static.New(cfg.Static))
	return s
}

// Start はサーバーを起動する
// リッスンに失敗した場合はすぐにエラーを返す。それ以外はシグナルかコンテキストの
// キャンセルまで処理を続け、シャットダウンしてから戻る
func (s *Server) Start(ctx context.Context) error {
	ln, err := Listen(s.config.ServerAddress(), s.config.Server.Backlog)
	if err != nil {
		return fmt.Errorf("リッスンに失敗: %w", err)
	}

	serveCh := make(chan error, 1)
	go func() {
		serveCh <- s.Serve(ln)
	}()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		s.logger.Info().Msg("コンテキストがキャンセルされました")
	case sig := <-sigCh:
		s.logger.Info().Str("signal", sig.String()).Msg("シグナルを受信しました")
	case err := <-serveCh:
		return err
	}

	// Serveがまだリスナーを登録していない場合もあるので、ここでも閉じる
	_ = ln.Close()
	return s.Shutdown()
}

// Serve はlnで接続を受け付け、接続ごとにゴルーチンを起動する
// lnが閉じられるとnilを返す
func (s *Server) Serve(ln net.Listener) error {
	if n := s.config.Server.MaxConnections; n > 0 {
		ln = netutil.LimitListener(ln, n)
	}

	s.mu.Lock()
	if s.listener != nil {
		s.mu.Unlock()
		return errors.New("サーバーはすでに起動しています")
	}
	s.listener = ln
	close(s.ready)
	s.mu.Unlock()

	s.logger.Info().
		Str("addr", ln.Addr().String()).
		Int("max_connections", s.config.Server.MaxConnections).
		Strs("routes", s.router.Routes()).
		Msg("接続の受け付けを開始しました")

	var backoff time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}

			// 受け付けの失敗は致命的ではない。連続する場合は少し待つ
			if backoff == 0 {
				backoff = 5 * time.Millisecond
			} else {
				backoff = min(backoff*2, time.Second)
			}
			s.logger.Error().Err(err).Dur("retry_in", backoff).Msg("接続の受け付けに失敗しました")
			time.Sleep(backoff)
			continue
		}
		backoff = 0

		// シャットダウン開始後に受け付けた接続は処理しない
		s.mu.Lock()
		if s.closing {
			s.mu.Unlock()
			_ = conn.Close()
			continue
		}
		s.conns.Add(1)
		s.mu.Unlock()

		go func() {
			defer s.conns.Done()
			s.handleConnection(conn)
		}()
	}
}

// Ready はServeが接続の受け付けを始めると閉じられるチャンネルを返す
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr はリッスン中のアドレスを返す。起動前はnil
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown は新しい接続の受け付けを止め、処理中の接続の完了を待つ
func (s *Server) Shutdown() error {
	s.logger.Info().Msg("サーバーをシャットダウンしています...")

	s.mu.Lock()
	s.closing = true
	ln := s.listener
	s.mu.Unlock()

	if ln != nil {
		if err := ln.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			return fmt.Errorf("リスナーのクローズに失敗: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(done)
	}()

	timeout := s.config.Server.ShutdownTimeout
	select {
	case <-done:
	case <-time.After(timeout):
		return fmt.Errorf("処理中の接続が %v 以内に終了しませんでした", timeout)
	}

	s.logger.Info().Msg("サーバーが正常にシャットダウンされました")
	return nil
}
