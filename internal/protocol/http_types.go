package protocol

import (
	"strconv"

	"shiori/internal/contenttype"
)

// Status はレスポンスのステータスコードと理由句
type Status struct {
	Code   int
	Reason string
}

// 送信するステータスはこの2つだけ
var (
	StatusOK       = Status{Code: 200, Reason: "OK"}
	StatusNotFound = Status{Code: 404, Reason: "Not Found"}
)

// Response は1回のリクエストに対するレスポンス
//
// 送信形式は "HTTP/1.1 <code> <reason>\r\nContent-Type: <mime>\r\n\r\n<body>" に固定。
// Content-Length などのヘッダーは付けない。
type Response struct {
	Status      Status
	ContentType string
	Body        []byte
}

// NotFound は404レスポンスを返す
func NotFound() *Response {
	return &Response{
		Status:      StatusNotFound,
		ContentType: contenttype.PlainText,
		Body:        []byte("404 Not Found"),
	}
}

// Bytes はレスポンスをワイヤ形式に組み立てる
// ボディはバイナリを含み得るので、長さは返り値のスライス長で決まる
func (r *Response) Bytes() []byte {
	buf := make([]byte, 0, 64+len(r.ContentType)+len(r.Body))
	buf = append(buf, "HTTP/1.1 "...)
	buf = strconv.AppendInt(buf, int64(r.Status.Code), 10)
	buf = append(buf, ' ')
	buf = append(buf, r.Status.Reason...)
	buf = append(buf, CRLF...)
	buf = append(buf, "Content-Type: "...)
	buf = append(buf, r.ContentType...)
	buf = append(buf, CRLF+CRLF...)
	buf = append(buf, r.Body...)
	return buf
}
