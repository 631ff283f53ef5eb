// Package static はリクエストパスに対応するファイルを読み込み、レスポンスを組み立てます。
package static

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"shiori/internal/config"
	"shiori/internal/contenttype"
	"shiori/internal/protocol"
)

// ErrFileTooLarge はファイルが配信できるサイズを超えていることを示す
var ErrFileTooLarge = errors.New("file too large")

// Responder は静的ファイルのレスポンスを作る
// 生成後は読み取り専用なので、複数の接続から同時に使ってよい
type Responder struct {
	root        string
	confine     bool
	maxFileSize int64
}

// New は新しいResponderを作成する
func New(cfg config.StaticConfig) *Responder {
	return &Responder{
		root:        cfg.Root,
		confine:     cfg.Confine,
		maxFileSize: cfg.MaxFileSize,
	}
}

// Respond はnameのファイルを読み込み、extから決めたContent-Typeで200レスポンスを返す
//
// 開けないファイル（存在しない、権限がない、ディレクトリ、ルート外）は404になる。
// サイズが上限を超える場合はErrFileTooLargeを返す。
func (r *Responder) Respond(name, ext string) (*protocol.Response, error) {
	f, err := r.open(name)
	if err != nil {
		return protocol.NotFound(), nil
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return protocol.NotFound(), nil
	}
	if info.Size() > r.maxFileSize {
		return nil, fmt.Errorf("%w: %s (%d > %d bytes)", ErrFileTooLarge, name, info.Size(), r.maxFileSize)
	}

	// 読み込み中にファイルが伸びた場合に備えて上限+1バイトまで読む
	body, err := io.ReadAll(io.LimitReader(f, r.maxFileSize+1))
	if err != nil {
		return protocol.NotFound(), nil
	}
	if int64(len(body)) > r.maxFileSize {
		return nil, fmt.Errorf("%w: %s (> %d bytes)", ErrFileTooLarge, name, r.maxFileSize)
	}

	return &protocol.Response{
		Status:      protocol.StatusOK,
		ContentType: contenttype.Resolve(ext),
		Body:        body,
	}, nil
}

// open はルートの扱いに応じてファイルを開く
func (r *Responder) open(name string) (*os.File, error) {
	if r.confine {
		return os.OpenInRoot(r.root, name)
	}
	// ルートがカレントディレクトリならパスをそのまま使う
	if r.root == "" || r.root == "." {
		return os.Open(name)
	}
	return os.Open(filepath.Join(r.root, name))
}
