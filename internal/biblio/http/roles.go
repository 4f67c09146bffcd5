package http

import (
	"net/http"

	"github.com/aussiebroadwan/biblio/internal/biblio/service"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
)

type RolesHandler struct {
	Service *service.RolesService
}

// ServeHTTP handles the list roles endpoint
//
//	@Summary		List roles
//	@Description	Returns every role with its permissions. Use the ids as roleId when creating or updating users.
//	@Tags			Roles
//	@Produce		json
//	@Success		200	{array}		RoleResponse
//	@Failure		401	{object}	httpx.ErrorBody
//	@Failure		403	{object}	httpx.ErrorBody	"Requires LIST_USERS"
//	@Failure		500	{object}	httpx.ErrorBody
//	@Security		CookieAuth
//	@Router			/roles [get]
func (h *RolesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]RoleResponse, len(roles))
	for i, role := range roles {
		resp[i] = newRoleResponse(role)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}
