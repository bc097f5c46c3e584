package auth

import "context"

// Identity is the verified caller. It travels through the request's
// context.Context only; there is no ambient per-request state anywhere.
type Identity struct {
	// Subject is the identity provider's stable subject id ("sub" claim).
	Subject string
	// Name is the display name claim when the token carries one.
	Name string
}

type identityKey struct{}

// WithIdentity stores the verified caller on the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the verified caller, or false for anonymous
// requests.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok
}

// SubjectFrom returns the caller's subject id, empty for anonymous
// requests.
func SubjectFrom(ctx context.Context) string {
	if id, ok := IdentityFrom(ctx); ok {
		return id.Subject
	}
	return ""
}
