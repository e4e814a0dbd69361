package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/alshifa/hospital-management/internal/transport"
)

type ServiceAPI interface {
	List(q ListQuery) (*ListResponse, error)
	GetByID(id string) (*User, error)
	Create(dto CreateUserDTO) (*User, error)
	Update(id string, dto UpdateUserDTO) (*User, error)
	Deactivate(id string) error
	ChangeRole(id string, dto ChangeRoleDTO) (*User, error)
	AssignDepartment(id string, dto AssignDepartmentDTO) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// List handles GET /users with optional role, department_id, skip and take
// query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := ListQuery{
		Role:         r.URL.Query().Get("role"),
		DepartmentID: r.URL.Query().Get("department_id"),
	}
	if v := r.URL.Query().Get("skip"); v != "" {
		q.Skip, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("take"); v != "" {
		q.Take, _ = strconv.Atoi(v)
	}

	resp, err := h.Service.List(q)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.Service.GetByID(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Create(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateUserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Update(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// Delete handles DELETE /users/{id}. The account is deactivated rather than
// removed.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Deactivate(id); err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto ChangeRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.ChangeRole(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) AssignDepartment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto AssignDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.AssignDepartment(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}
