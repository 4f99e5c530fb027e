package app

import (
	"fmt"
	"net/http"
)

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// requireAuthentication rejects requests whose gateway session carries no
// authenticated upstream session. The upstream still revalidates every call;
// this only keeps the booking endpoints from being reached as a guest.
func (app *application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.upstreamSession(r).Authenticated() {
			app.authRequiredResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
