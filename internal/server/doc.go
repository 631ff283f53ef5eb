// Package server は、TCP接続の受け付けとHTTP/1.xのリクエスト処理を管理します。
//
// このパッケージは、リスニングソケットの作成、接続ごとのゴルーチンの起動、
// リクエスト行の解析、ルーティング、レスポンスの送信を担当します。
//
// 責務:
//   - TCPサーバーの起動と管理
//   - 1接続につき1リクエストの読み取りとレスポンスの送信
//   - /api/books の固定JSONと assets/ 以下の静的ファイルの配信
//
// 仕様:
//   - net/httpは使わず、接続のバイト列を直接扱う
//   - レスポンスのヘッダーはContent-Typeのみ
//   - GET以外や解析できないリクエストには何も返さずに接続を閉じる
//   - 同時接続数の上限とタイムアウトは設定で有効にできる（デフォルトは無制限）
//   - グレースフルシャットダウンに対応
package server
