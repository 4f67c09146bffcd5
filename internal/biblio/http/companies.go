package http

import (
	"net/http"

	"github.com/aussiebroadwan/biblio/internal/biblio/service"
	"github.com/aussiebroadwan/biblio/pkg/httpx"
)

type CompaniesHandler struct {
	Service *service.CompaniesService
}

type CreateCompanyRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Postcode string `json:"postcode"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

type UpdateCompanyRequest struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Postcode *string `json:"postcode"`
	City     *string `json:"city"`
	Country  *string `json:"country"`
}

// HandleGet godoc
//
//	@Summary	Get a company
//	@Tags		Companies
//	@Produce	json
//	@Param		id	path		string	true	"Company ID"
//	@Success	200	{object}	CompanyResponse
//	@Failure	400	{object}	httpx.ErrorBody
//	@Failure	401	{object}	httpx.ErrorBody
//	@Failure	403	{object}	httpx.ErrorBody	"Requires GET_COMPANY"
//	@Failure	404	{object}	httpx.ErrorBody	"Company not found"
//	@Security	CookieAuth
//	@Router		/companies/{id} [get]
func (h *CompaniesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	c, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newCompanyResponse(c))
}

// HandleList godoc
//
//	@Summary	List companies
//	@Tags		Companies
//	@Produce	json
//	@Param		limit	query		int	false	"Page size (1-100, default 20)"
//	@Param		offset	query		int	false	"Rows to skip"
//	@Success	200		{array}		CompanyResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	401		{object}	httpx.ErrorBody
//	@Failure	403		{object}	httpx.ErrorBody	"Requires LIST_COMPANIES"
//	@Security	CookieAuth
//	@Router		/companies [get]
func (h *CompaniesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page, errs := parsePage(r)
	if len(errs) > 0 {
		httpx.WriteValidationErrors(w, errs)
		return
	}

	companies, err := h.Service.List(r.Context(), page)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		resp[i] = newCompanyResponse(c)
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

// HandleCreate godoc
//
//	@Summary	Create a company
//	@Tags		Companies
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateCompanyRequest	true	"New company"
//	@Success	201		{object}	CompanyResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	401		{object}	httpx.ErrorBody
//	@Failure	403		{object}	httpx.ErrorBody	"Requires CREATE_COMPANY"
//	@Security	CookieAuth
//	@Router		/companies [post]
func (h *CompaniesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateCompanyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var v validator
	v.required("name", req.Name)
	v.required("address", req.Address)
	v.required("postcode", req.Postcode)
	v.required("city", req.City)
	v.required("country", req.Country)
	if v.writeIfInvalid(w) {
		return
	}

	c, err := h.Service.Create(r.Context(), service.CompanyInput{
		Name:     req.Name,
		Address:  req.Address,
		Postcode: req.Postcode,
		City:     req.City,
		Country:  req.Country,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, newCompanyResponse(c))
}

// HandleUpdate godoc
//
//	@Summary	Update a company
//	@Tags		Companies
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string					true	"Company ID"
//	@Param		body	body		UpdateCompanyRequest	true	"Fields to change"
//	@Success	200		{object}	CompanyResponse
//	@Failure	400		{object}	httpx.ErrorBody
//	@Failure	401		{object}	httpx.ErrorBody
//	@Failure	403		{object}	httpx.ErrorBody	"Requires UPDATE_COMPANY"
//	@Failure	404		{object}	httpx.ErrorBody	"Company not found"
//	@Security	CookieAuth
//	@Router		/companies/{id} [patch]
func (h *CompaniesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateCompanyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var v validator
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"name", req.Name},
		{"address", req.Address},
		{"postcode", req.Postcode},
		{"city", req.City},
		{"country", req.Country},
	} {
		if f.value != nil {
			v.required(f.name, *f.value)
		}
	}
	if v.writeIfInvalid(w) {
		return
	}

	c, err := h.Service.Update(r.Context(), id, service.UpdateCompanyInput{
		Name:     req.Name,
		Address:  req.Address,
		Postcode: req.Postcode,
		City:     req.City,
		Country:  req.Country,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newCompanyResponse(c))
}

// HandleDelete godoc
//
//	@Summary	Delete a company
//	@Tags		Companies
//	@Produce	json
//	@Param		id	path		string	true	"Company ID"
//	@Success	200	{object}	CompanyResponse	"The deleted company"
//	@Failure	400	{object}	httpx.ErrorBody
//	@Failure	401	{object}	httpx.ErrorBody
//	@Failure	403	{object}	httpx.ErrorBody	"Requires DELETE_COMPANY"
//	@Failure	404	{object}	httpx.ErrorBody	"Company not found"
//	@Failure	409	{object}	httpx.ErrorBody	"Company with users cannot be deleted"
//	@Security	CookieAuth
//	@Router		/companies/{id} [delete]
func (h *CompaniesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	c, err := h.Service.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, newCompanyResponse(c))
}
