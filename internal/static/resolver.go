package static

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Resolver はURLパスをルートディレクトリ配下のパスに解決する
//
// ルートの外に出る解決はすべて ForbiddenError になる。
// 判定は字句的な ".." の検査と、シンボリックリンクを解決した実パスの検査の二段階で行う。
type Resolver struct {
	root string
}

// Resolved は解決済みのパス
type Resolved struct {
	Name string      // ルートからの相対パス ("/" 始まり、スラッシュ区切り)
	Path string      // ファイルシステム上の絶対パス
	Info fs.FileInfo // 実体の情報
}

// NewResolver は絶対パスかつシンボリックリンク解決済みのルートから Resolver を作成する
func NewResolver(root string) (*Resolver, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("ルートディレクトリは絶対パスである必要があります: %s", root)
	}
	return &Resolver{root: filepath.Clean(root)}, nil
}

// Root はルートディレクトリを返す
func (r *Resolver) Root() string {
	return r.root
}

// Resolve はURLパスを検証してルート配下の実体に解決する
func (r *Resolver) Resolve(urlPath string) (*Resolved, error) {
	name, err := cleanURLPath(urlPath)
	if err != nil {
		return nil, err
	}

	full := filepath.Join(r.root, filepath.FromSlash(name))

	// 存在しない・読めない・途中がディレクトリでない場合はすべて 404 として扱う
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		return nil, &NotFoundError{Path: urlPath, Err: err}
	}
	if !r.contains(resolved) {
		return nil, &ForbiddenError{Path: urlPath, Reason: "symlink points outside root"}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, &NotFoundError{Path: urlPath, Err: err}
	}

	return &Resolved{Name: name, Path: resolved, Info: info}, nil
}

// contains は p がルート自身かルート配下であるかを返す
func (r *Resolver) contains(p string) bool {
	rel, err := filepath.Rel(r.root, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// cleanURLPath はURLパスをセグメント単位で正規化する
// ルートより上に遡るセグメントがあれば ForbiddenError を返す
func cleanURLPath(urlPath string) (string, error) {
	if strings.ContainsRune(urlPath, 0) {
		return "", &ForbiddenError{Path: urlPath, Reason: "NUL byte in path"}
	}

	// Windows 形式の区切りも区切りとして扱う
	segments := strings.FieldsFunc(urlPath, func(c rune) bool {
		return c == '/' || c == '\\'
	})

	stack := make([]string, 0, len(segments))
	for _, seg := range segments {
		switch seg {
		case ".":
			continue
		case "..":
			if len(stack) == 0 {
				return "", &ForbiddenError{Path: urlPath, Reason: "path escapes root"}
			}
			stack = stack[:len(stack)-1]
		default:
			if filepath.VolumeName(seg) != "" {
				return "", &ForbiddenError{Path: urlPath, Reason: "volume name in path"}
			}
			stack = append(stack, seg)
		}
	}

	return path.Join("/", strings.Join(stack, "/")), nil
}
