package logger

import (
	"fmt"

	"github.com/pkg/errors"
)

type ErrorInfo struct {
	Msg   string `json:"msg"`
	Stack string `json:"stack"`
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

func newErrorInfo(err error) ErrorInfo {
	info := ErrorInfo{Msg: err.Error(), Stack: err.Error()}

	// innermost stack wins, that is where the error originated
	var st stackTracer
	for e := err; e != nil; e = errors.Unwrap(e) {
		if t, ok := e.(stackTracer); ok {
			st = t
		}
	}
	if st != nil {
		info.Stack = fmt.Sprintf("%+v", st.StackTrace())
	}

	return info
}
