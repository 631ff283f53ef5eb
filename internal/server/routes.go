package server

import (
	"shiori/internal/api"
	"shiori/internal/contenttype"
	"shiori/internal/protocol"
	"shiori/internal/router"
	"shiori/internal/static"
)

// ルートのパス（先頭の / を除いたもの）
const (
	BooksPath    = "api/books"
	AssetsPrefix = "assets/"
)

// setupRoutes はルーティングテーブルを設定する
// JSONルートを静的ファイルより先に評価する
func (s *Server) setupRoutes(files *static.Responder) {
	// 書籍一覧
	s.router.Handle("books", router.Exact(BooksPath), api.Books)

	// 静的ファイル。パスは加工せずそのままファイル名として使う
	s.router.Handle("assets", router.Prefix(AssetsPrefix), func(path string) (*protocol.Response, error) {
		return files.Respond(path, contenttype.Extension(path))
	})
}
