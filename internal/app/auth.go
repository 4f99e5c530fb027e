package app

import (
	"errors"
	"net/http"

	"github.com/seatwise/cinegate/api"
	"github.com/seatwise/cinegate/internal/cinema"
	"github.com/seatwise/cinegate/internal/domain"
)

func (app *application) Login(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	var input api.LoginRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		logger.Warn("login validation failed")
		app.invalidCredentialsResponse(w, r)
		return
	}

	session := app.upstreamSession(r)
	client := app.cinemaClient(session)

	user, err := client.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		var serverErr *cinema.ServerError

		switch {
		case errors.Is(err, cinema.ErrAuthRequired):
			logger.Warn("login rejected by upstream")
			app.invalidCredentialsResponse(w, r)
		case errors.As(err, &serverErr) && serverErr.StatusCode == http.StatusBadRequest:
			logger.Warn("login rejected by upstream")
			app.invalidCredentialsResponse(w, r)
		default:
			app.upstreamErrorResponse(w, r, err)
		}

		return
	}

	// To help prevent session fixation attacks we should renew the session token after any privilege level change.
	// https://github.com/OWASP/CheatSheetSeries/blob/master/cheatsheets/Session_Management_Cheat_Sheet.md#renew-the-session-id-after-any-privilege-level-change
	err = app.sessionManager.RenewToken(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.saveUpstreamSession(r, session)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := toUserResponse(user)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) Logout(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	session := app.upstreamSession(r)
	if session.Authenticated() {
		err := app.cinemaClient(session).Logout(r.Context())
		if err != nil {
			// the gateway session is destroyed regardless; the upstream
			// session expires on its own
			logger.Warn("upstream logout failed", "error", err)
		}
	}

	err := app.sessionManager.Destroy(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) GetAuthStatus(w http.ResponseWriter, r *http.Request) {
	session := app.upstreamSession(r)
	if !session.Authenticated() {
		app.writeJSON(w, http.StatusOK, api.AuthStatusResponse{Authenticated: false}, nil)
		return
	}

	status, err := app.cinemaClient(session).AuthStatus(r.Context())
	if err != nil {
		if errors.Is(err, cinema.ErrAuthRequired) {
			// upstream session expired underneath us
			app.writeJSON(w, http.StatusOK, api.AuthStatusResponse{Authenticated: false}, nil)
			return
		}

		app.upstreamErrorResponse(w, r, err)
		return
	}

	resp := api.AuthStatusResponse{Authenticated: status.Authenticated}
	if status.User != nil {
		user := toUserResponse(status.User)
		resp.User = &user
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toUserResponse(user *domain.User) api.UserResponse {
	return api.UserResponse{
		Id:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
