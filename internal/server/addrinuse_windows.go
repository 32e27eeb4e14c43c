//go:build windows

package server

import "golang.org/x/sys/windows"

// Windows では bind が WSAEADDRINUSE を返し、syscall.EADDRINUSE とは一致しない
var errAddrInUse error = windows.WSAEADDRINUSE
