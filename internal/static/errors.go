package static

import "fmt"

// NotFoundError はリクエストされたパスがルート配下に存在しないことを示す
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ForbiddenError はリクエストされたパスがルートディレクトリの外を指すことを示す
type ForbiddenError struct {
	Path   string
	Reason string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s (%s)", e.Path, e.Reason)
}
