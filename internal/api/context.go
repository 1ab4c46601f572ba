package api

import "context"

type ctxKey string

const ctxKeyOperator ctxKey = "operator"

func WithOperator(ctx context.Context, operator string) context.Context {
	return context.WithValue(ctx, ctxKeyOperator, operator)
}

// OperatorFromContext returns the identity recorded in appointment history,
// or "" when the request was not authenticated.
func OperatorFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyOperator).(string)
	return v
}
