package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"
)

// clearEnv は設定に影響する環境変数をテスト中だけ空にする
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SHIORI_CONFIG", "SERVER_HOST", "PORT", "SHIORI_ROOT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

// TestRunHelp はヘルプ表示をテストする
func TestRunHelp(t *testing.T) {
	var stdout bytes.Buffer
	if code := run(context.Background(), []string{"server", "-help"}, &stdout, io.Discard); code != 0 {
		t.Fatalf("終了コードが一致しません: got %d, want 0", code)
	}

	out := stdout.String()
	for _, want := range []string{"使用方法:", "-host", "-port", "-config"} {
		if !strings.Contains(out, want) {
			t.Errorf("ヘルプに %q が含まれていません: %q", want, out)
		}
	}
}

// TestRunErrors は起動前に失敗するケースをテストする
func TestRunErrors(t *testing.T) {
	clearEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	testCases := []struct {
		name string
		args []string
		code int
	}{
		{"不明なフラグ", []string{"server", "-verbose"}, 2},
		{"数値でないポート", []string{"server", "-port", "http"}, 2},
		{"範囲外のポート", []string{"server", "-port", "70000"}, 1},
		{"不正なホスト", []string{"server", "-host", "not a host"}, 1},
		{"存在しない設定ファイル", []string{"server", "-config", missing}, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if code := run(context.Background(), tc.args, io.Discard, io.Discard); code != tc.code {
				t.Errorf("終了コードが一致しません: got %d, want %d", code, tc.code)
			}
		})
	}
}

// TestRunWithFlags はフラグと設定ファイルで起動し、コンテキストで停止することをテストする
func TestRunWithFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "abc")

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "hello.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "shiori.yaml")
	if err := os.WriteFile(path, []byte("static:\n  root: "+dir+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	port := strconv.Itoa(freePort(t))
	addr := "127.0.0.1:" + port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"server", "-host", "127.0.0.1", "-port", port, "-config", path}, io.Discard, io.Discard)
	}()

	// 起動を待つ
	var conn net.Conn
	deadline := time.Now().Add(3 * time.Second)
	for {
		var err error
		conn, err = net.Dial("tcp", addr)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("サーバーが起動しませんでした: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	if _, err := conn.Write([]byte("GET /assets/hello.txt HTTP/1.1\r\n\r\n")); err != nil {
		t.Fatalf("送信に失敗しました: %v", err)
	}
	data, err := io.ReadAll(conn)
	conn.Close()
	if err != nil {
		t.Fatalf("受信に失敗しました: %v", err)
	}
	want := "HTTP/1.1 200 OK\r\nContent-Type: text/plain\r\n\r\nhello"
	if string(data) != want {
		t.Errorf("レスポンスが一致しません:\ngot  %q\nwant %q", data, want)
	}

	cancel()
	select {
	case code := <-done:
		if code != 0 {
			t.Errorf("終了コードが一致しません: got %d, want 0", code)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("サーバーが停止しませんでした")
	}
}
