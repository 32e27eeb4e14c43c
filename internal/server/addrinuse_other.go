//go:build !unix && !windows

package server

import "errors"

// ポート使用中を区別できないプラットフォームでは BindError として扱う
var errAddrInUse = errors.New("address already in use")
