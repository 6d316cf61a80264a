package get_layout

import (
	"context"
	"io"
)

type TableService interface {
	RenderLayout(ctx context.Context, w io.Writer) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
