// Package router はデコード済みのパスをハンドラーに振り分けます。
//
// ルートは登録順に評価され、最初に一致したものが使われる。
// 一致するルートがない場合はレスポンスを返さない。
package router

import (
	"strings"

	"shiori/internal/protocol"
)

// Handler はパスからレスポンスを作る関数
// nilレスポンスは「何も送らない」を意味する
type Handler func(path string) (*protocol.Response, error)

// Matcher はパスがルートに一致するかを判定する
type Matcher func(path string) bool

// Route はルーティングテーブルの1行
type Route struct {
	Name   string
	Match  Matcher
	Handle Handler
}

// Router は順序付きのルーティングテーブル
// 構築後は変更しないため、複数のゴルーチンから同時に使ってよい
type Router struct {
	routes []Route
}

// New は新しいRouterを作成する
func New(routes ...Route) *Router {
	return &Router{routes: routes}
}

// Handle はルートを末尾に追加する
// サーバー起動前にのみ呼ぶこと
func (r *Router) Handle(name string, match Matcher, handler Handler) {
	r.routes = append(r.routes, Route{Name: name, Match: match, Handle: handler})
}

// Dispatch はpathに一致する最初のルートでレスポンスを作る
// 一致したルート名も返す。一致しない場合はnil, "", nil
func (r *Router) Dispatch(path string) (*protocol.Response, string, error) {
	for _, route := range r.routes {
		if !route.Match(path) {
			continue
		}
		resp, err := route.Handle(path)
		return resp, route.Name, err
	}
	return nil, "", nil
}

// Routes は登録済みのルート名を順に返す
func (r *Router) Routes() []string {
	names := make([]string, 0, len(r.routes))
	for _, route := range r.routes {
		names = append(names, route.Name)
	}
	return names
}

// Exact はtokenと完全に一致するパスにマッチする
func Exact(token string) Matcher {
	return func(path string) bool {
		return path == token
	}
}

// Prefix はtokenで始まるパスにマッチする
func Prefix(token string) Matcher {
	return func(path string) bool {
		return strings.HasPrefix(path, token)
	}
}
