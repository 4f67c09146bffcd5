package http

import (
	"net/http"

	"github.com/aussiebroadwan/biblio/internal/biblio/service"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
)

type UsersHandler struct {
	Service *service.UsersService
}

type CreateUserRequest struct {
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	CompanyID *string `json:"companyId"`
	RoleID    *string `json:"roleId"`
}

type UpdateUserRequest struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	CompanyID *string `json:"companyId"`
	RoleID    *string `json:"roleId"`
}

// HandleGet godoc
//
//	@Summary	Get a user
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	UserResponse
//	@Failure	400	{object}	httpx.ErrorBody
//	@Failure	401	{object}	httpx.ErrorBody
//	@Failure	403	{object}	httpx.ErrorBody	"Requires GET_USER"
//	@Failure	404	{object}	httpx.ErrorBody	"User not found"
//	@Security	CookieAuth
//	@Router		/users/{id} [get]
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserResponse(u))
}

// HandleList godoc
//
//	@Summary	List users
//	@Tags		Users
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (1-100, default 20)"
//	@Param		offset	query		int	false	"Rows to skip"
//	@Success	200		{array}		UserResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	401		{object}	httpx.ErrorBody
//	@Failure	403		{object}	httpx.ErrorBody	"Requires LIST_USERS"
//	@Security	CookieAuth
//	@Router		/users [get]
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, errs := parsePage(r)
	if len(errs) > 0 {
		httpx.WriteValidationErrors(w, errs)
		return
	}

	users, err := h.Service.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = newUserResponse(u)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate godoc
//
//	@Summary	Create a user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateUserRequest	true	"New user"
//	@Success	201		{object}	UserResponse
//	@Failure	400		{object}	httpx.ErrorBody	"Validation failed or unknown company"
//	@Failure	401		{object}	httpx.ErrorBody
//	@Failure	403		{object}	httpx.ErrorBody	"Requires CREATE_USER"
//	@Failure	409		{object}	httpx.ErrorBody	"User already exists"
//	@Security	CookieAuth
//	@Router		/users [post]
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var v validator
	v.required("firstname", req.Firstname)
	v.required("lastname", req.Lastname)
	v.email("email", req.Email)
	v.password("password", req.Password)
	v.id("companyId", req.CompanyID)
	v.id("roleId", req.RoleID)
	if v.writeIfInvalid(w) {
		return
	}

	u, err := h.Service.Create(r.Context(), service.CreateUserInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  req.Password,
		CompanyID: req.CompanyID,
		RoleID:    req.RoleID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newUserResponse(u))
}

// HandleUpdate godoc
//
//	@Summary	Update a user
//	@Tags		Users
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"User ID"
//	@Param		body	body		UpdateUserRequest	true	"Fields to change"
//	@Success	200		{object}	UserResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	401		{object}	httpx.ErrorBody
//	@Failure	403		{object}	httpx.ErrorBody	"Requires UPDATE_USER"
//	@Failure	404		{object}	httpx.ErrorBody	"User not found"
//	@Failure	409		{object}	httpx.ErrorBody	"Email is already used"
//	@Security	CookieAuth
//	@Router		/users/{id} [patch]
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var v validator
	if req.Firstname != nil {
		v.required("firstname", *req.Firstname)
	}
	if req.Lastname != nil {
		v.required("lastname", *req.Lastname)
	}
	if req.Email != nil {
		v.email("email", *req.Email)
	}
	if req.Password != nil {
		v.password("password", *req.Password)
	}
	v.id("companyId", req.CompanyID)
	v.id("roleId", req.RoleID)
	if v.writeIfInvalid(w) {
		return
	}

	u, err := h.Service.Update(r.Context(), id, service.UpdateUserInput{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Password:  req.Password,
		CompanyID: req.CompanyID,
		RoleID:    req.RoleID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserResponse(u))
}

// HandleDelete godoc
//
//	@Summary	Delete a user
//	@Tags		Users
//	@Produce	json
//	@Param		id	path		string	true	"User ID"
//	@Success	200	{object}	UserResponse	"The deleted user"
//	@Failure	400	{object}	httpx.ErrorBody
//	@Failure	401	{object}	httpx.ErrorBody
//	@Failure	403	{object}	httpx.ErrorBody	"Requires DELETE_USER"
//	@Failure	404	{object}	httpx.ErrorBody	"User not found"
//	@Security	CookieAuth
//	@Router		/users/{id} [delete]
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	u, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newUserResponse(u))
}
