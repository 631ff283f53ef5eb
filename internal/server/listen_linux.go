//go:build linux

package server

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// Listen はIPv4のTCPソケットをbacklogを指定してリッスンする
// net.Listenではバックログを指定できないため、ソケットを直接作成する
func Listen(addr string, backlog int) (net.Listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("アドレスの解決に失敗: %w", err)
	}

	sa := &unix.SockaddrInet4{Port: tcpAddr.Port}
	if tcpAddr.IP != nil {
		ip4 := tcpAddr.IP.To4()
		if ip4 == nil {
			return nil, fmt.Errorf("IPv4アドレスではありません: %s", tcpAddr.IP)
		}
		copy(sa.Addr[:], ip4)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("ソケットの作成に失敗: %w", err)
	}

	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("SO_REUSEADDRの設定に失敗: %w", err)
	}
	if err := unix.Bind(fd, sa); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("バインドに失敗: %s: %w", addr, err)
	}
	if err := unix.Listen(fd, backlog); err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("リッスンに失敗: %s: %w", addr, err)
	}

	// FileListenerはfdを複製するので、元のファイルは閉じてよい
	f := os.NewFile(uintptr(fd), "tcp:"+addr)
	defer f.Close()

	ln, err := net.FileListener(f)
	if err != nil {
		return nil, fmt.Errorf("リスナーの作成に失敗: %w", err)
	}
	return ln, nil
}
