//go:build unix

package server

import "golang.org/x/sys/unix"

var errAddrInUse error = unix.EADDRINUSE
