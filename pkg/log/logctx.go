// Package log протаскивает request-scoped slog-логгер через context.Context:
// HTTP-мидлвар кладёт логгер с request_id, сервисный слой достаёт его через
// From и дополняет полями операции.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер запроса в контекст.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// From возвращает логгер из контекста; если его там нет — slog.Default(),
// чтобы вызывающему не приходилось проверять nil.
func From(ctx context.Context) *slog.Logger {
	if v := ctx.Value(ctxKey{}); v != nil {
		if l, ok := v.(*slog.Logger); ok && l != nil {
			return l
		}
	}

	return slog.Default()
}
