//go:build !linux

package server

import (
	"fmt"
	"net"
)

// Listen はTCPでリッスンする
// Linux以外ではバックログを指定できず、OSのデフォルト値になる
func Listen(addr string, backlog int) (net.Listener, error) {
	_ = backlog

	ln, err := net.Listen("tcp4", addr)
	if err != nil {
		return nil, fmt.Errorf("リッスンに失敗: %s: %w", addr, err)
	}
	return ln, nil
}
