package cserrors

import (
	"errors"
	"fmt"
)

// Kind identifies the high level class of an error surfaced by corosyncconf.
// Callers dispatch on Kind, never on message text.
type Kind string

const (
	// KindMissingClosingBrace indicates input ended with a section still open.
	KindMissingClosingBrace Kind = "missing-closing-brace"
	// KindUnexpectedClosingBrace indicates a "}" with no open section.
	KindUnexpectedClosingBrace Kind = "unexpected-closing-brace"
	// KindParse indicates any other malformed configuration line.
	KindParse Kind = "parse"
	// KindReport indicates a report processor refused a set of problems.
	KindReport Kind = "report"
	// KindAlreadyDefined 表示 quorum device 已存在，不可重复添加。
	KindAlreadyDefined Kind = "already-defined"
	// KindNotDefined indicates a quorum device operation without a device.
	KindNotDefined Kind = "not-defined"
	// KindInternal 表示未知或内部错误。
	KindInternal Kind = "internal"
)

// Error 包装底层错误并附加 Kind，方便调用方根据类型处理。
type Error struct {
	Kind Kind
	Err  error
}

// Error 实现 error 接口。
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap 允许 errors.Is/As 访问底层错误。
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New 创建指定 Kind 的错误。
func New(kind Kind, err error) error {
	if err == nil {
		err = errors.New(string(kind))
	}
	return &Error{Kind: kind, Err: err}
}

// Newf creates an error of the given Kind from a format string.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of err, or KindInternal when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
