package app

import "context"

type contextKey struct{}

var appContextKey = contextKey{}

// GetAppFromContext retrieves the App from context
func GetAppFromContext(ctx context.Context) *App {
	if ctx == nil {
		return nil
	}
	app, ok := ctx.Value(appContextKey).(*App)
	if !ok {
		return nil
	}
	return app
}

// SetAppInContext stores the App in context
func SetAppInContext(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appContextKey, app)
}

// RequireLogin returns the App from ctx, or ErrNotLoggedIn when the
// session holds no credentials.
func RequireLogin(ctx context.Context) (*App, error) {
	a := GetAppFromContext(ctx)
	if a == nil || !a.Session.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return a, nil
}
