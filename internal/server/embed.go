package server

import (
	"bytes"
	"embed"
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed templates/error.html
var embedFS embed.FS

var errorPage = mustParseErrorPage()

// mustParseErrorPage は埋め込みのエラーページテンプレートを読み込む
func mustParseErrorPage() *template.Template {
	tmpl, err := template.ParseFS(embedFS, "templates/error.html")
	if err != nil {
		log.Fatalf("埋め込みエラーページの読み込みに失敗: %v", err)
	}
	return tmpl
}

// writeErrorPage はステータスコードに応じた最小限のHTMLを返す
// 事前に設定された Content-Type などはここで上書きする
func writeErrorPage(c *gin.Context, code int, message string) {
	var buf bytes.Buffer
	err := errorPage.Execute(&buf, struct {
		Code    int
		Status  string
		Message string
	}{code, http.StatusText(code), message})
	if err != nil {
		c.String(code, "%d %s", code, http.StatusText(code))
		return
	}

	h := c.Writer.Header()
	h.Del("Content-Length")
	h.Del("Content-Encoding")
	h.Set("Content-Type", "text/html; charset=utf-8")
	c.Data(code, "text/html; charset=utf-8", buf.Bytes())
}
