package auth_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alshifa/hospital-management/internal/auth"
	"github.com/alshifa/hospital-management/internal/rbac"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

var _ = Describe("Auth Handler", func() {
	var (
		repo     *MockRepository
		tokenGen *auth.JWTTokenGenerator
		service  *auth.Service
		handler  *auth.Handler
	)

	const password = "correct-horse"

	seedUser := func(id, email string, role rbac.Role) {
		hash, err := auth.HashPassword(password, 4)
		Expect(err).NotTo(HaveOccurred())
		repo.Add(&auth.Identity{
			ID:           id,
			Email:        email,
			PasswordHash: hash,
			FirstName:    "Test",
			LastName:     "User",
			Role:         role,
			IsActive:     true,
		})
	}

	BeforeEach(func() {
		repo = NewMockRepository()
		tokenGen = auth.NewJWTTokenGenerator("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
		service = auth.NewService(repo, tokenGen, nil, testLogger())
		handler = auth.NewHandler(service)
	})

	Describe("Login endpoint", func() {
		It("should answer 200 with a session for valid credentials", func() {
			seedUser("u1", "doctor@example.com", rbac.RoleDoctor)

			body, _ := json.Marshal(auth.LoginDTO{Email: "doctor@example.com", Password: password})
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var session auth.Session
			Expect(json.NewDecoder(w.Body).Decode(&session)).To(Succeed())
			Expect(session.User.Email).To(Equal("doctor@example.com"))
			Expect(session.AccessToken).NotTo(BeEmpty())
		})

		It("should answer 401 with one body for unknown email and wrong password", func() {
			seedUser("u1", "doctor@example.com", rbac.RoleDoctor)

			post := func(email, pw string) *httptest.ResponseRecorder {
				body, _ := json.Marshal(auth.LoginDTO{Email: email, Password: pw})
				req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
				w := httptest.NewRecorder()
				handler.Login(w, req)
				return w
			}

			unknown := post("nobody@example.com", password)
			wrong := post("doctor@example.com", "wrong")

			Expect(unknown.Code).To(Equal(http.StatusUnauthorized))
			Expect(wrong.Code).To(Equal(http.StatusUnauthorized))
			Expect(unknown.Body.String()).To(Equal(wrong.Body.String()))
		})

		It("should answer 400 on a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("{not json")))
			w := httptest.NewRecorder()

			handler.Login(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("Register endpoint", func() {
		It("should answer 201 and a session", func() {
			body, _ := json.Marshal(auth.RegisterDTO{
				Email:     "new@example.com",
				Password:  password,
				FirstName: "New",
				LastName:  "Staff",
				Role:      string(rbac.RoleNurse),
			})
			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Register(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
		})

		It("should answer 409 for a duplicate email", func() {
			seedUser("u1", "taken@example.com", rbac.RoleDoctor)

			body, _ := json.Marshal(auth.RegisterDTO{
				Email:     "taken@example.com",
				Password:  password,
				FirstName: "Other",
				LastName:  "Person",
				Role:      string(rbac.RoleNurse),
			})
			req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Register(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("Refresh endpoint", func() {
		It("should answer 200 with a rotated pair", func() {
			seedUser("u1", "doctor@example.com", rbac.RoleDoctor)
			session, err := service.Login(auth.LoginDTO{Email: "doctor@example.com", Password: password})
			Expect(err).NotTo(HaveOccurred())

			body, _ := json.Marshal(auth.RefreshTokenDTO{RefreshToken: session.RefreshToken})
			req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Refresh(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var tokens auth.TokenPair
			Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(Succeed())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("should answer 401 for an invalid refresh token", func() {
			body, _ := json.Marshal(auth.RefreshTokenDTO{RefreshToken: "garbage"})
			req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
			w := httptest.NewRecorder()

			handler.Refresh(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("AuthMiddleware", func() {
		var next http.Handler
		var seenPrincipal *rbac.Principal

		BeforeEach(func() {
			seenPrincipal = nil
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seenPrincipal, _ = rbac.PrincipalFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
		})

		It("should attach the principal for a valid bearer token", func() {
			seedUser("u1", "doctor@example.com", rbac.RoleDoctor)
			session, err := service.Login(auth.LoginDTO{Email: "doctor@example.com", Password: password})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+session.AccessToken)
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(seenPrincipal).NotTo(BeNil())
			Expect(seenPrincipal.UserID).To(Equal("u1"))
			Expect(seenPrincipal.Role).To(Equal(rbac.RoleDoctor))
		})

		It("should answer 401 when the header is missing", func() {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(seenPrincipal).To(BeNil())
		})

		It("should answer 401 for a refresh token presented as access token", func() {
			seedUser("u1", "doctor@example.com", rbac.RoleDoctor)
			session, err := service.Login(auth.LoginDTO{Email: "doctor@example.com", Password: password})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			req.Header.Set("Authorization", "Bearer "+session.RefreshToken)
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should answer 401 for a token without the bearer scheme", func() {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			req.Header.Set("Authorization", "Token abc")
			w := httptest.NewRecorder()

			handler.AuthMiddleware(next).ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
