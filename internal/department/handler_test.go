package department_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	departmentDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/department"
	"github.com/alshifa/hospital-management/internal/department"
	departmentPostgres "github.com/alshifa/hospital-management/internal/department/postgres"
	"github.com/alshifa/hospital-management/internal/transport"
)

func TestDepartmentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Department Suite")
}

var _ = Describe("Department Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    department.RepositoryAPI
		service *department.Service
		handler *department.Handler
		router  *chi.Mux
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&departmentDatamodel.Department{})
		Expect(err).NotTo(HaveOccurred())

		repo = departmentPostgres.NewDepartmentRepository(db)
		service = department.NewService(repo, slogger)
		baseHandler := &transport.BaseHandler{Logger: slogger}
		handler = department.NewHandler(baseHandler, service)

		router = chi.NewRouter()
		router.Get("/departments", handler.GetAll)
		router.Post("/departments", handler.Create)
		router.Get("/departments/{id}", handler.GetByID)
		router.Patch("/departments/{id}", handler.Update)
		router.Delete("/departments/{id}", handler.Delete)
	})

	createDepartment := func(name string) *department.Department {
		dept, err := service.Create(department.CreateDepartmentDTO{Name: name})
		Expect(err).NotTo(HaveOccurred())
		return dept
	}

	It("should create and list departments", func() {
		createDepartment("Radiology")
		createDepartment("Surgery")

		req := httptest.NewRequest(http.MethodGet, "/departments", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var resp department.DepartmentsResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Departments).To(HaveLen(2))

		names := []string{resp.Departments[0].Name, resp.Departments[1].Name}
		Expect(names).To(ConsistOf("Radiology", "Surgery"))
	})

	It("should answer 201 with the created department", func() {
		body, _ := json.Marshal(department.CreateDepartmentDTO{Name: "Pharmacy", Description: "Dispensary"})
		req := httptest.NewRequest(http.MethodPost, "/departments", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))

		var created department.Department
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).NotTo(BeEmpty())
		Expect(created.IsActive).To(BeTrue())
		Expect(created.CreatedAt).NotTo(BeZero())
	})

	It("should answer 409 for a duplicate name", func() {
		createDepartment("Pharmacy")

		body, _ := json.Marshal(department.CreateDepartmentDTO{Name: "Pharmacy"})
		req := httptest.NewRequest(http.MethodPost, "/departments", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should answer 400 when the name is missing", func() {
		body, _ := json.Marshal(department.CreateDepartmentDTO{Description: "nameless"})
		req := httptest.NewRequest(http.MethodPost, "/departments", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should fetch a department by id", func() {
		dept := createDepartment("Radiology")

		req := httptest.NewRequest(http.MethodGet, "/departments/"+dept.ID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var fetched department.Department
		Expect(json.NewDecoder(w.Body).Decode(&fetched)).To(Succeed())
		Expect(fetched.Name).To(Equal("Radiology"))
	})

	It("should answer 404 for an unknown id", func() {
		req := httptest.NewRequest(http.MethodGet, "/departments/missing", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should patch only the provided fields", func() {
		dept := createDepartment("Radiology")

		manager := "Dr. Rahma"
		body, _ := json.Marshal(department.UpdateDepartmentDTO{Manager: &manager})
		req := httptest.NewRequest(http.MethodPatch, "/departments/"+dept.ID, bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))

		var updated department.Department
		Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
		Expect(updated.Name).To(Equal("Radiology"))
		Expect(updated.Manager).To(Equal("Dr. Rahma"))
	})

	It("should deactivate on delete and drop it from the listing", func() {
		dept := createDepartment("Radiology")

		req := httptest.NewRequest(http.MethodDelete, "/departments/"+dept.ID, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusNoContent))

		listReq := httptest.NewRequest(http.MethodGet, "/departments", nil)
		listW := httptest.NewRecorder()
		router.ServeHTTP(listW, listReq)

		var resp department.DepartmentsResponse
		Expect(json.NewDecoder(listW.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Departments).To(BeEmpty())

		exists, err := service.DepartmentExists(dept.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(exists).To(BeFalse())
	})
})
