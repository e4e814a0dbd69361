package rbac_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alshifa/hospital-management/internal/rbac"
)

var _ = Describe("Authorizer Middleware", func() {
	var authorizer *rbac.Authorizer

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	requestAs := func(principal *rbac.Principal, target string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		if principal != nil {
			req = req.WithContext(rbac.ContextWithPrincipal(req.Context(), principal))
		}
		return req
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		authorizer = rbac.NewAuthorizer(rbac.NewRegistry(), logger)
	})

	Describe("RequireRole", func() {
		It("should answer 401 when no principal is attached", func() {
			w := httptest.NewRecorder()
			authorizer.RequireRole(rbac.RoleAdmin)(okHandler).ServeHTTP(w, requestAs(nil, "/users"))
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should answer 403 for a role outside the allow-list", func() {
			principal := &rbac.Principal{UserID: "u1", Role: rbac.RoleNurse}
			w := httptest.NewRecorder()
			authorizer.RequireRole(rbac.RoleAdmin, rbac.RoleManager)(okHandler).ServeHTTP(w, requestAs(principal, "/users"))
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should pass through an allowed role", func() {
			principal := &rbac.Principal{UserID: "u1", Role: rbac.RoleManager}
			w := httptest.NewRecorder()
			authorizer.RequireRole(rbac.RoleAdmin, rbac.RoleManager)(okHandler).ServeHTTP(w, requestAs(principal, "/users"))
			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})

	Describe("RequirePermission", func() {
		It("should pass a role holding the grant", func() {
			principal := &rbac.Principal{UserID: "u1", Role: rbac.RoleDoctor}
			w := httptest.NewRecorder()
			authorizer.RequirePermission("prescriptions", rbac.ActionCreate)(okHandler).ServeHTTP(w, requestAs(principal, "/prescriptions"))
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should answer 403 for a role without the grant", func() {
			principal := &rbac.Principal{UserID: "u1", Role: rbac.RoleCleaner}
			w := httptest.NewRecorder()
			authorizer.RequirePermission("prescriptions", rbac.ActionCreate)(okHandler).ServeHTTP(w, requestAs(principal, "/prescriptions"))
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should answer 403 for an unknown role", func() {
			principal := &rbac.Principal{UserID: "u1", Role: rbac.Role("WIZARD")}
			w := httptest.NewRecorder()
			authorizer.RequirePermission("users", rbac.ActionRead)(okHandler).ServeHTTP(w, requestAs(principal, "/users"))
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("RequireAnyPermission", func() {
		grants := []rbac.ModuleAction{
			{Module: "billing", Action: rbac.ActionApprove},
			{Module: "reports", Action: rbac.ActionExport},
		}

		It("should pass when at least one grant is held", func() {
			principal := &rbac.Principal{UserID: "u1", Role: rbac.RoleDoctor}
			w := httptest.NewRecorder()
			authorizer.RequireAnyPermission(grants...)(okHandler).ServeHTTP(w, requestAs(principal, "/reports"))
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should answer 403 when none are held", func() {
			principal := &rbac.Principal{UserID: "u1", Role: rbac.RoleCleaner}
			w := httptest.NewRecorder()
			authorizer.RequireAnyPermission(grants...)(okHandler).ServeHTTP(w, requestAs(principal, "/reports"))
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})

	Describe("RequireSelfOrPermission", func() {
		newRouter := func() *chi.Mux {
			router := chi.NewRouter()
			router.Group(func(r chi.Router) {
				r.Use(authorizer.RequireSelfOrPermission("users", rbac.ActionRead))
				r.Get("/users/{id}", okHandler)
			})
			return router
		}

		It("should let a principal reach its own record without any grant", func() {
			principal := &rbac.Principal{UserID: "u1", Role: rbac.RolePatient}
			w := httptest.NewRecorder()
			newRouter().ServeHTTP(w, requestAs(principal, "/users/u1"))
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should block a stranger without the grant", func() {
			principal := &rbac.Principal{UserID: "u1", Role: rbac.RolePatient}
			w := httptest.NewRecorder()
			newRouter().ServeHTTP(w, requestAs(principal, "/users/u2"))
			Expect(w.Code).To(Equal(http.StatusForbidden))
		})

		It("should let a stranger with the grant through", func() {
			principal := &rbac.Principal{UserID: "admin-1", Role: rbac.RoleAdmin}
			w := httptest.NewRecorder()
			newRouter().ServeHTTP(w, requestAs(principal, "/users/u2"))
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should answer 401 without a principal", func() {
			w := httptest.NewRecorder()
			newRouter().ServeHTTP(w, requestAs(nil, "/users/u1"))
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
