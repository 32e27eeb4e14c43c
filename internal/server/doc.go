// Package server は、開発用の静的ファイルHTTPサーバーを管理します。
//
// このパッケージは、HTTPサーバーのリッスン、リクエスト処理、
// グレースフルシャットダウンを担当します。
//
// 責務:
//   - 設定されたホスト・ポートでのリッスン（使用中ポートの判別）
//   - ルートディレクトリ配下の静的ファイルの配信
//   - すべてのレスポンスへの CORS ヘッダーの付与
//   - アクセスログの出力
//   - 割り込みシグナルでの停止
//
// 仕様:
//   - リクエスト処理には gin を使用（ルーティングは行わない）
//   - .js は常に text/javascript で返す
//   - ルート外へのトラバーサルは 403
//   - リクエスト間で共有する可変状態は持たない
package server
