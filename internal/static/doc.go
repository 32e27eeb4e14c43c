// Package static は、ルートディレクトリ配下の静的ファイルの解決と種類判定を担当します。
//
// 責務:
//   - URLパスからルート配下のファイルへの解決
//   - ルート外へのトラバーサルの拒否（".."、シンボリックリンク）
//   - 拡張子による Content-Type の決定（.js は常に text/javascript）
//
// HTTPの入出力は扱いません。レスポンスの組み立ては server パッケージが行います。
package static
