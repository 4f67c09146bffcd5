package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/biblio/internal/biblio/iam"
	"github.com/aussiebroadwan/biblio/internal/biblio/service"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
)

type AuthenticationHandler struct {
	Service       *service.AuthenticationService
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SecureCookies bool
}

type SignUpRequest struct {
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignUp godoc
//
//	@Summary	Sign a user up
//	@Tags		Authentication
//	@Accept		json
//	@Produce	json
//	@Param		body	body	SignUpRequest	true	"New account"
//	@Success	201		"User has been successfully signed up"
//	@Failure	400		{object}	httpx.ErrorBody	"Validation failed"
//	@Failure	409		{object}	httpx.ErrorBody	"User already exists"
//	@Router		/authentication/sign-up [post]
func (h *AuthenticationHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var v validator
	v.required("firstname", req.Firstname)
	v.required("lastname", req.Lastname)
	v.email("email", req.Email)
	v.password("password", req.Password)
	if v.writeIfInvalid(w) {
		return
	}

	_, err := h.Service.SignUp(r.Context(), service.SignUpInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleSignIn godoc
//
//	@Summary		Sign a user in
//	@Description	Sets the accessToken and refreshToken HttpOnly cookies.
//	@Tags			Authentication
//	@Accept			json
//	@Param			body	body	SignInRequest	true	"Credentials"
//	@Success		200		"User has been successfully signed in"
//	@Failure		400		{object}	httpx.ErrorBody	"Validation failed"
//	@Failure		401		{object}	httpx.ErrorBody	"Invalid credentials"
//	@Router			/authentication/sign-in [post]
func (h *AuthenticationHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var v validator
	v.email("email", req.Email)
	v.password("password", req.Password)
	if v.writeIfInvalid(w) {
		return
	}

	pair, err := h.Service.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.setTokenCookies(w, pair.AccessToken, pair.RefreshToken)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusOK)
}

// HandleRefreshTokens godoc
//
//	@Summary		Refresh user tokens
//	@Description	Rotates the token pair using the refreshToken cookie. A refresh token works once.
//	@Tags			Authentication
//	@Success		200	"Tokens have been successfully renewed"
//	@Failure		401	{object}	httpx.ErrorBody	"Invalid refresh token"
//	@Router			/authentication/refresh-tokens [post]
func (h *AuthenticationHandler) HandleRefreshTokens(w http.ResponseWriter, r *http.Request) {
	token := httpx.CookieValue(r, iam.RefreshTokenCookie)
	if token == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}

	pair, err := h.Service.RefreshTokens(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.setTokenCookies(w, pair.AccessToken, pair.RefreshToken)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusOK)
}

// HandleSignOut godoc
//
//	@Summary		Sign the caller out
//	@Description	Revokes the caller's session and refresh token and clears both cookies.
//	@Tags			Authentication
//	@Success		204	"Signed out"
//	@Failure		401	{object}	httpx.ErrorBody	"Unauthorized"
//	@Security		CookieAuth
//	@Router			/authentication/sign-out [post]
func (h *AuthenticationHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	session, ok := iam.SessionFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.Service.SignOut(r.Context(), session.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.ClearCookie(w, iam.AccessTokenCookie, h.SecureCookies)
	httpx.ClearCookie(w, iam.RefreshTokenCookie, h.SecureCookies)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthenticationHandler) setTokenCookies(w http.ResponseWriter, access, refresh string) {
	httpx.SetAuthCookie(w, iam.AccessTokenCookie, access, h.AccessTTL, h.SecureCookies)
	httpx.SetAuthCookie(w, iam.RefreshTokenCookie, refresh, h.RefreshTTL, h.SecureCookies)
}
