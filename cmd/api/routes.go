package main

import (
	"context"
	"net/http"
	"time"

	"locallibrary/internal/access"
	"locallibrary/internal/admin"
	"locallibrary/internal/auth"
	"locallibrary/internal/author"
	"locallibrary/internal/book"
	"locallibrary/internal/catalog"
	"locallibrary/internal/httpx"
	"locallibrary/internal/loan"
	"locallibrary/internal/user"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// handlers bundles everything the router dispatches to.
type handlers struct {
	catalog *catalog.HTTPHandler
	authors *author.HTTPHandler
	books   *book.HTTPHandler
	loans   *loan.HTTPHandler
	users   *user.HTTPHandler
	auth    *auth.HTTPHandler
	admin   *admin.HTTPHandler
	metrics http.Handler
	db      pinger
}

func newRouter(h handlers, secret string, authz access.Authorizer) *http.ServeMux {
	router := http.NewServeMux()

	authed := func(fn http.HandlerFunc) http.Handler {
		return httpx.AuthMiddleware(secret)(fn)
	}
	librarian := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.AuthMiddleware(secret),
			httpx.RequireCapability(authz, access.CanMarkReturned),
		)
	}

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	router.Handle("GET /metrics", h.metrics)

	router.Handle("GET /v1/{$}", httpx.VisitsMiddleware(http.HandlerFunc(h.catalog.Index)))

	router.HandleFunc("POST /v1/users/register", h.users.RegisterUser)
	router.HandleFunc("POST /v1/users/login", h.auth.Login)
	router.Handle("GET /v1/me", authed(h.users.GetCurrentUser))

	router.HandleFunc("GET /v1/books", h.books.List)
	router.Handle("POST /v1/books", librarian(h.books.Create))
	router.Handle("GET /v1/books/{id}", authed(h.books.Get))
	router.Handle("PUT /v1/books/{id}", librarian(h.books.Update))
	router.Handle("DELETE /v1/books/{id}", librarian(h.books.Delete))

	router.HandleFunc("GET /v1/authors", h.authors.List)
	router.Handle("POST /v1/authors", librarian(h.authors.Create))
	router.Handle("GET /v1/authors/{id}", authed(h.authors.Get))
	router.Handle("PUT /v1/authors/{id}", librarian(h.authors.Update))
	router.Handle("DELETE /v1/authors/{id}", librarian(h.authors.Delete))

	router.HandleFunc("GET /v1/genres", h.catalog.ListGenres)
	router.Handle("POST /v1/genres", librarian(h.catalog.CreateGenre))
	router.Handle("DELETE /v1/genres/{id}", librarian(h.catalog.DeleteGenre))
	router.HandleFunc("GET /v1/languages", h.catalog.ListLanguages)
	router.Handle("POST /v1/languages", librarian(h.catalog.CreateLanguage))
	router.Handle("DELETE /v1/languages/{id}", librarian(h.catalog.DeleteLanguage))

	router.Handle("GET /v1/bookinstances/mine", authed(h.loans.Mine))
	router.Handle("GET /v1/bookinstances/borrowed", librarian(h.loans.Borrowed))
	// The renewal workflow makes its own capability decision.
	router.Handle("GET /v1/bookinstances/{id}/renew", authed(h.loans.RenewForm))
	router.Handle("POST /v1/bookinstances/{id}/renew", authed(h.loans.Renew))

	router.Handle("GET /v1/admin/config", librarian(h.admin.Config))
	router.Handle("GET /v1/admin/bookinstances", librarian(h.loans.AdminList))
	router.Handle("POST /v1/admin/bookinstances", librarian(h.loans.AdminCreate))
	router.Handle("DELETE /v1/admin/bookinstances/{id}", librarian(h.loans.AdminDelete))

	return router
}
