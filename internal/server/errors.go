package server

import "fmt"

// PortInUseError はリッスンしようとしたアドレスが既に使用中であることを示す
type PortInUseError struct {
	Addr string
	Port int
	Err  error
}

func (e *PortInUseError) Error() string {
	return fmt.Sprintf("Port %d is already in use. Try stopping other servers or use a different port.", e.Port)
}

func (e *PortInUseError) Unwrap() error {
	return e.Err
}

// BindError はポート使用中以外の理由でリッスンに失敗したことを示す
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("%s でのリッスンに失敗: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// UnexpectedError は起動時のその他の失敗を示す
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("Unexpected error: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}
