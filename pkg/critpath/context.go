package critpath

import "context"

type senderKey struct{}

// WithSender returns a context carrying s, for execution contexts that only
// receive a context.Context.
func WithSender(ctx context.Context, s Sender) context.Context {
	return context.WithValue(ctx, senderKey{}, s)
}

// SenderFromContext returns the sender stored by WithSender. The second
// result is false, and the Sender a no-op, if none is present.
func SenderFromContext(ctx context.Context) (Sender, bool) {
	s, ok := ctx.Value(senderKey{}).(Sender)
	return s, ok
}
