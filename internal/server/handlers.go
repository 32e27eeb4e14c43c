package server

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"devserve/internal/static"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// StaticHandler はルートディレクトリ配下のファイルを配信する
type StaticHandler struct {
	resolver *static.Resolver
	fs       afero.Fs     // ルートを基点とした読み取り専用ファイルシステム
	dirs     http.Handler // ディレクトリは net/http の既定の挙動に任せる
	log      *logrus.Entry
}

// NewStaticHandler は root を配信する StaticHandler を作成する
// root は絶対パスかつシンボリックリンク解決済みであること
func NewStaticHandler(root string, log *logrus.Entry) (*StaticHandler, error) {
	resolver, err := static.NewResolver(root)
	if err != nil {
		return nil, err
	}

	rootFS := afero.NewReadOnlyFs(afero.NewBasePathFs(afero.NewOsFs(), root))

	return &StaticHandler{
		resolver: resolver,
		fs:       rootFS,
		dirs:     http.FileServer(containedFS{resolver: resolver, fs: afero.NewHttpFs(rootFS).Dir("/")}),
		log:      log,
	}, nil
}

// Serve は1リクエストを処理する
func (h *StaticHandler) Serve(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodOptions:
		// プリフライト。CORS ヘッダーはミドルウェアで付与済み
		c.Status(http.StatusNoContent)
		return
	default:
		writeErrorPage(c, http.StatusNotImplemented, fmt.Sprintf("Unsupported method (%q).", c.Request.Method))
		return
	}

	urlPath := c.Request.URL.Path
	res, err := h.resolver.Resolve(urlPath)
	if err != nil {
		h.handleError(c, err)
		return
	}

	if res.Info.IsDir() {
		h.serveDir(c, res)
		return
	}

	// ファイルに対する末尾スラッシュは存在しないパスとして扱う
	if strings.HasSuffix(urlPath, "/") {
		h.handleError(c, &static.NotFoundError{Path: urlPath})
		return
	}

	h.serveFile(c, res)
}

// serveFile は通常ファイルを配信する
func (h *StaticHandler) serveFile(c *gin.Context, res *static.Resolved) {
	f, err := h.fs.Open(res.Name)
	if err != nil {
		h.handleError(c, &static.NotFoundError{Path: res.Name, Err: err})
		return
	}
	defer f.Close()

	var sniff io.Reader
	if path.Ext(res.Name) == "" {
		sniff = io.NewSectionReader(f, 0, res.Info.Size())
	}

	// ServeContent は Content-Type が設定済みならそれを使う
	c.Header("Content-Type", static.ContentType(res.Name, sniff))
	http.ServeContent(c.Writer, c.Request, res.Name, res.Info.ModTime(), f)
}

// serveDir はディレクトリを net/http の FileServer に委譲する
// index.html があればそれを、なければ一覧を返す
func (h *StaticHandler) serveDir(c *gin.Context, res *static.Resolved) {
	name := res.Name
	if strings.HasSuffix(c.Request.URL.Path, "/") {
		// ルート外を指す index.html は一覧にも差し替えずに拒否する
		_, err := h.resolver.Resolve(path.Join(name, indexPage))
		var forbidden *static.ForbiddenError
		if errors.As(err, &forbidden) {
			h.handleError(c, err)
			return
		}
		if name != "/" {
			name += "/"
		}
	}

	req := c.Request.Clone(c.Request.Context())
	req.URL.Path = name
	req.URL.RawPath = ""

	h.dirs.ServeHTTP(c.Writer, req)
}

// handleError はリクエスト単位のエラーをレスポンスに変換する
// エラーはこのリクエストの中で完結し、サーバーの動作には影響しない
func (h *StaticHandler) handleError(c *gin.Context, err error) {
	_ = c.Error(err)

	var (
		notFound  *static.NotFoundError
		forbidden *static.ForbiddenError
	)
	switch {
	case errors.As(err, &forbidden):
		writeErrorPage(c, http.StatusForbidden, "Access outside the served directory is not allowed.")
	case errors.As(err, &notFound):
		writeErrorPage(c, http.StatusNotFound, "File not found.")
	default:
		h.log.WithError(err).Error("ファイルの配信に失敗しました")
		writeErrorPage(c, http.StatusInternalServerError, "Error reading file.")
	}
}

const indexPage = "index.html"

// containedFS は FileServer が開くすべてのパスを Resolver で検証する
// index.html や一覧のエントリがシンボリックリンクでルート外を指していても開かせない
type containedFS struct {
	resolver *static.Resolver
	fs       http.FileSystem
}

func (c containedFS) Open(name string) (http.File, error) {
	if _, err := c.resolver.Resolve(name); err != nil {
		var forbidden *static.ForbiddenError
		if errors.As(err, &forbidden) {
			return nil, fs.ErrPermission
		}
		return nil, fs.ErrNotExist
	}
	return c.fs.Open(name)
}
