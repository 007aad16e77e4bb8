package ui

import (
	"fmt"
	"io"
)

func OK(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Success.Render(Current().SymOK+" "+msg))
}

func Fail(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Error.Render(Current().SymFail+" "+msg))
}

func Warn(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Warn.Render(Current().SymWarn+" "+msg))
}

func Muted(w io.Writer, msg string) {
	fmt.Fprintln(w, Current().Muted.Render(msg))
}
