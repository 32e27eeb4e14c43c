package server

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CORS ヘッダーの値
const (
	AllowOrigin  = "*"
	AllowMethods = "GET, POST, OPTIONS"
	AllowHeaders = "Content-Type"
)

const requestIDKey = "request_id"

// corsHeaders はすべてのレスポンスに CORS ヘッダーを付与する
// 後続のハンドラがエラーを返す場合も含め、本文を書く前に必ず設定される
func corsHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", AllowOrigin)
		h.Set("Access-Control-Allow-Methods", AllowMethods)
		h.Set("Access-Control-Allow-Headers", AllowHeaders)
		c.Next()
	}
}

// accessLog はリクエストごとに1行のアクセスログを出力する
func accessLog(log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()
		c.Set(requestIDKey, requestID)

		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"size":       humanize.Bytes(uint64(max(c.Writer.Size(), 0))),
			"duration":   time.Since(start),
			"remote":     c.ClientIP(),
		})
		if err := c.Errors.Last(); err != nil {
			entry = entry.WithError(err.Err)
		}

		switch {
		case status >= 500:
			entry.Error("リクエストの処理に失敗しました")
		case status >= 400:
			entry.Warn("リクエストを拒否しました")
		default:
			entry.Info("リクエストを処理しました")
		}
	}
}

// recovery はハンドラ内のパニックを 500 のエラーページに変換する
func recovery(log *logrus.Entry) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.WithField("panic", recovered).Error("ハンドラでパニックが発生しました")
		writeErrorPage(c, http.StatusInternalServerError, "Internal server error.")
		c.Abort()
	})
}
