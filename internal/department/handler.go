package department

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/alshifa/hospital-management/internal/transport"
)

type ServiceAPI interface {
	GetAll() ([]*Department, error)
	GetByID(id string) (*Department, error)
	Create(dto CreateDepartmentDTO) (*Department, error)
	Update(id string, dto UpdateDepartmentDTO) (*Department, error)
	Deactivate(id string) error
	DepartmentExists(id string) (bool, error)
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

func (h *Handler) GetAll(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.GetAll()
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, DepartmentsResponse{Departments: departments})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	dept, err := h.Service.GetByID(id)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dept)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var dto CreateDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dept, err := h.Service.Create(dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, dept)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var dto UpdateDepartmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dept, err := h.Service.Update(id, dto)
	if err != nil {
		h.WriteAppError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, dept)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Service.Deactivate(id); err != nil {
		h.WriteAppError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
