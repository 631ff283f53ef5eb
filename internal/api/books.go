// Package api は固定のJSONレスポンスを返すエンドポイントを提供します。
package api

import (
	"github.com/goccy/go-json"

	"shiori/internal/contenttype"
	"shiori/internal/protocol"
)

// Book は書籍情報
type Book struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// books は /api/books が返す書籍一覧。内容は固定
var books = []Book{
	{Title: "The Go Programming Language", Author: "Alan A. A. Donovan"},
	{Title: "The C Programming Language", Author: "Brian W. Kernighan"},
	{Title: "Structure and Interpretation of Computer Programs", Author: "Harold Abelson"},
	{Title: "The Pragmatic Programmer", Author: "Andrew Hunt"},
	{Title: "Clean Code", Author: "Robert C. Martin"},
}

// booksJSON は起動時に一度だけエンコードし、以降は同じバイト列を返す
var booksJSON = mustMarshal(books)

func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

// Books は書籍一覧のJSONを返すハンドラー
// パスは使わない
func Books(string) (*protocol.Response, error) {
	return &protocol.Response{
		Status:      protocol.StatusOK,
		ContentType: contenttype.JSON,
		Body:        booksJSON,
	}, nil
}

// BooksJSON は書籍一覧のJSONのコピーを返す
func BooksJSON() []byte {
	return append([]byte(nil), booksJSON...)
}
