package static

import (
	"io"
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// JavaScriptType は .js に対して常に返す Content-Type
	JavaScriptType = "text/javascript"
	// DefaultType は種類を判別できない場合の Content-Type
	DefaultType = "application/octet-stream"
)

// overrides は標準の拡張子テーブルより優先する Content-Type
// 環境によって .js が application/javascript などに判定されるのを防ぐ
var overrides = map[string]string{
	".js": JavaScriptType,
}

// ContentType はファイル名から Content-Type を決定する
//
// 拡張子のないファイルに限り、content から先頭バイトを読んで判定する。
// content が nil の場合は判定せず DefaultType を返す。
func ContentType(name string, content io.Reader) string {
	ext := strings.ToLower(path.Ext(name))

	if ctype, ok := overrides[ext]; ok {
		return ctype
	}

	if ext != "" {
		if ctype := mime.TypeByExtension(ext); ctype != "" {
			return ctype
		}
		return DefaultType
	}

	if content == nil {
		return DefaultType
	}
	detected, err := mimetype.DetectReader(content)
	if err != nil {
		return DefaultType
	}
	return detected.String()
}
