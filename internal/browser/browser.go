// Package browser はサーバー起動時のブラウザ自動オープンを扱います。
//
// ブラウザの起動はベストエフォートで、失敗してもサーバーの動作には影響しません。
package browser

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
)

// テスト用に差し替え可能
var open = browser.OpenURL

func init() {
	// xdg-open などの出力を端末に流さない
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
}

// LaunchError はブラウザを起動できなかったことを示す
type LaunchError struct {
	URL string
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("ブラウザを起動できませんでした (%s): %v", e.URL, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Open は既定のブラウザで url を開く
// 失敗した場合は警告をログに残すだけで、呼び出し元には返さない。再試行もしない。
func Open(url string, log *logrus.Entry) {
	if err := open(url); err != nil {
		log.WithError(&LaunchError{URL: url, Err: err}).Warn("Could not open browser automatically")
		return
	}
	log.Info("Browser should open automatically...")
}
