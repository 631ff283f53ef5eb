// Package protocol はHTTP/1.xのリクエスト読み取りとレスポンスの組み立てを扱います。
package protocol

import (
	"bytes"
	"errors"
	"io"
	"regexp"
)

// CRLF は行区切り
const CRLF = "\r\n"

// DefaultMaxRequestSize はリクエストバッファの既定の上限
const DefaultMaxRequestSize = 8 * 1024

// ErrEmptyRequest は1バイトも読めないまま接続が終わったことを示す
var ErrEmptyRequest = errors.New("empty request")

var (
	headerSeparator    = []byte("\r\n\r\n")
	bareLineSeparator  = []byte("\n\n")
	requestLinePattern = regexp.MustCompile(`^GET /([^ ]*) HTTP/1`)
)

// ReadRequest はヘッダーブロックの終端、EOF、またはlimitバイトに達するまで読み取る
//
// 読み取り途中でエラーになった場合も、それまでに読めたバイト列を返す。
// 呼び出し側はバイト列が空でなければ解析を続けてよい。
func ReadRequest(r io.Reader, limit int) ([]byte, error) {
	if limit <= 0 {
		limit = DefaultMaxRequestSize
	}

	buf := make([]byte, limit)
	n := 0
	for n < limit {
		m, err := r.Read(buf[n:])
		n += m

		if m > 0 && headerComplete(buf[:n], n-m) {
			return buf[:n], nil
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				err = nil
			}
			if n == 0 {
				if err == nil {
					return nil, ErrEmptyRequest
				}
				return nil, errors.Join(ErrEmptyRequest, err)
			}
			return buf[:n], err
		}
	}

	return buf[:n], nil
}

// headerComplete はbuf[from:]の付近にヘッダー終端が現れたかを調べる
func headerComplete(buf []byte, from int) bool {
	start := from - len(headerSeparator) + 1
	if start < 0 {
		start = 0
	}
	window := buf[start:]
	return bytes.Contains(window, headerSeparator) || bytes.Contains(window, bareLineSeparator)
}

// ParseRequestLine はバッファ先頭の "GET /<path> HTTP/1" からパス部分を取り出す
// 一致しない場合はfalseを返す。2行目以降は見ない。
func ParseRequestLine(buf []byte) (string, bool) {
	m := requestLinePattern.FindSubmatch(buf)
	if m == nil {
		return "", false
	}
	return string(m[1]), true
}
