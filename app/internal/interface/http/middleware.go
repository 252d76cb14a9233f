package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"example.com/storefront/app/internal/usecase/storefront"
)

const sessionCookieName = "sf_session"

type ctxStorefrontKey struct{}

// sessionMiddleware binds the request to the browser's storefront. A missing
// or invalid cookie starts a fresh anonymous storefront and a new cookie.
func (a *API) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var sf *storefront.Storefront
		if c, err := r.Cookie(sessionCookieName); err == nil {
			if id, err := a.tokens.ParseToken(c.Value); err == nil {
				sf, err = a.registry.Open(ctx, id)
				if err != nil {
					a.log.ErrorContext(ctx, "open storefront failed", slog.String("storefront", id), slog.Any("err", err))
					respondError(w, http.StatusServiceUnavailable, err)
					return
				}
			}
		}
		if sf == nil {
			sf = a.registry.Create(ctx)
			if err := a.setSessionCookie(w, sf.ID); err != nil {
				respondError(w, http.StatusInternalServerError, err)
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, ctxStorefrontKey{}, sf)))
	})
}

func (a *API) setSessionCookie(w http.ResponseWriter, storefrontID string) error {
	token, expiresAt, err := a.tokens.GenerateToken(storefrontID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   a.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func getStorefront(ctx context.Context) *storefront.Storefront {
	if sf, ok := ctx.Value(ctxStorefrontKey{}).(*storefront.Storefront); ok {
		return sf
	}
	return nil
}

func (a *API) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			a.log.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", chimw.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
