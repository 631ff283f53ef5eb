// Package contenttype はファイル拡張子からContent-Typeを決定します。
//
// 対応表は意図的に小さく閉じている。ファイル内容からの推定は行わない。
package contenttype

import (
	"path"
	"strings"
)

// Content-Type の定数定義
const (
	HTML        = "text/html"
	PlainText   = "text/plain"
	JSON        = "application/json"
	OctetStream = "application/octet-stream"
)

// types は拡張子（小文字、ドットなし）とContent-Typeの対応表
var types = map[string]string{
	"html": HTML,
	"txt":  PlainText,
}

// Resolve は拡張子に対応するContent-Typeを返す
// 大文字小文字は区別しない。未知の拡張子と空文字列はapplication/octet-stream
func Resolve(ext string) string {
	if t, ok := types[strings.ToLower(ext)]; ok {
		return t
	}
	return OctetStream
}

// Extension はパスの最後の要素からドットを除いた拡張子を返す
// "assets/a.b/c.html" は "html"、".hidden" のような名前や拡張子のない名前は空文字列
func Extension(p string) string {
	if strings.HasSuffix(p, "/") {
		return ""
	}
	base := path.Base(p)
	ext := path.Ext(base)
	if ext == base {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}
