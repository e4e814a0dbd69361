package user_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	errors "github.com/alshifa/hospital-management/internal"
	"github.com/alshifa/hospital-management/internal/auth"
	userDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/user"
	"github.com/alshifa/hospital-management/internal/rbac"
	"github.com/alshifa/hospital-management/internal/user"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Service Suite")
}

// MockRepository implements user.RepositoryAPI for testing
type MockRepository struct {
	records map[string]*userDatamodel.User
}

func NewMockRepository() *MockRepository {
	return &MockRepository{records: make(map[string]*userDatamodel.User)}
}

func (m *MockRepository) List(q user.ListQuery) ([]*userDatamodel.User, int64, error) {
	var matched []*userDatamodel.User
	for _, record := range m.records {
		if q.Role != "" && record.Role != q.Role {
			continue
		}
		if q.DepartmentID != "" && (record.DepartmentID == nil || *record.DepartmentID != q.DepartmentID) {
			continue
		}
		matched = append(matched, record)
	}

	total := int64(len(matched))
	if q.Skip >= len(matched) {
		return nil, total, nil
	}
	end := q.Skip + q.Take
	if end > len(matched) {
		end = len(matched)
	}
	return matched[q.Skip:end], total, nil
}

func (m *MockRepository) GetByID(id string) (*userDatamodel.User, error) {
	record, ok := m.records[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return record, nil
}

func (m *MockRepository) Create(record *userDatamodel.User) error {
	for _, existing := range m.records {
		if existing.Email == record.Email {
			return errors.ErrEmailTaken
		}
	}
	m.records[record.ID] = record
	return nil
}

func (m *MockRepository) Update(record *userDatamodel.User) error {
	m.records[record.ID] = record
	return nil
}

// MockDepartmentChecker implements user.DepartmentCheckerAPI
type MockDepartmentChecker struct {
	existing map[string]bool
}

func (m *MockDepartmentChecker) DepartmentExists(id string) (bool, error) {
	return m.existing[id], nil
}

var _ = Describe("User Service", func() {
	var (
		repo        *MockRepository
		departments *MockDepartmentChecker
		service     *user.Service
	)

	addUser := func(id, email, role string) *userDatamodel.User {
		record := &userDatamodel.User{
			ID:       id,
			Email:    email,
			Role:     role,
			IsActive: true,
		}
		repo.records[id] = record
		return record
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo = NewMockRepository()
		departments = &MockDepartmentChecker{existing: map[string]bool{"dept-1": true}}
		service = user.NewService(repo, departments, logger, 4)
	})

	Describe("Create", func() {
		It("should hash the password and persist an active account", func() {
			created, err := service.Create(user.CreateUserDTO{
				Email:     "nurse@example.com",
				Password:  "secret-pass",
				FirstName: "Test",
				LastName:  "Nurse",
				Role:      string(rbac.RoleNurse),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.IsActive).To(BeTrue())

			stored := repo.records[created.ID]
			Expect(stored.PasswordHash).NotTo(Equal("secret-pass"))
			Expect(auth.VerifyPassword(stored.PasswordHash, "secret-pass")).To(Succeed())
		})

		It("should reject a nonexistent department", func() {
			deptID := "ghost-dept"
			_, err := service.Create(user.CreateUserDTO{
				Email:        "nurse@example.com",
				Password:     "secret-pass",
				FirstName:    "Test",
				LastName:     "Nurse",
				Role:         string(rbac.RoleNurse),
				DepartmentID: &deptID,
			})

			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
		})

		It("should surface a duplicate email as a conflict", func() {
			addUser("u1", "taken@example.com", string(rbac.RoleNurse))

			_, err := service.Create(user.CreateUserDTO{
				Email:     "taken@example.com",
				Password:  "secret-pass",
				FirstName: "Other",
				LastName:  "Person",
				Role:      string(rbac.RoleNurse),
			})
			Expect(err).To(Equal(errors.ErrEmailTaken))
		})

		It("should reject an invalid role", func() {
			_, err := service.Create(user.CreateUserDTO{
				Email:     "x@example.com",
				Password:  "secret-pass",
				FirstName: "X",
				LastName:  "Y",
				Role:      "WIZARD",
			})

			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
		})
	})

	Describe("List", func() {
		BeforeEach(func() {
			deptID := "dept-1"
			for i := 0; i < 3; i++ {
				record := addUser("d"+string(rune('1'+i)), "doctor"+string(rune('1'+i))+"@example.com", string(rbac.RoleDoctor))
				record.DepartmentID = &deptID
			}
			addUser("n1", "nurse@example.com", string(rbac.RoleNurse))
		})

		It("should filter by role and report the filtered total", func() {
			resp, err := service.List(user.ListQuery{Role: string(rbac.RoleDoctor)})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Total).To(Equal(int64(3)))
			Expect(resp.Users).To(HaveLen(3))
		})

		It("should filter by department", func() {
			resp, err := service.List(user.ListQuery{DepartmentID: "dept-1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Total).To(Equal(int64(3)))
		})

		It("should paginate with skip and take", func() {
			resp, err := service.List(user.ListQuery{Role: string(rbac.RoleDoctor), Skip: 2, Take: 2})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Total).To(Equal(int64(3)))
			Expect(resp.Users).To(HaveLen(1))
		})

		It("should clamp an oversized take", func() {
			resp, err := service.List(user.ListQuery{Take: 10000})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Take).To(Equal(100))
		})
	})

	Describe("Update", func() {
		It("should change only the provided fields", func() {
			record := addUser("u1", "old@example.com", string(rbac.RoleNurse))
			record.FirstName = "Old"
			record.LastName = "Name"

			first := "New"
			updated, err := service.Update("u1", user.UpdateUserDTO{FirstName: &first})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.FirstName).To(Equal("New"))
			Expect(updated.LastName).To(Equal("Name"))
			Expect(updated.Email).To(Equal("old@example.com"))
		})

		It("should report not found for an unknown id", func() {
			first := "New"
			_, err := service.Update("ghost", user.UpdateUserDTO{FirstName: &first})
			Expect(err).To(Equal(errors.ErrUserNotFound))
		})
	})

	Describe("Deactivate", func() {
		It("should flip the active flag and keep the record", func() {
			addUser("u1", "gone@example.com", string(rbac.RoleNurse))

			Expect(service.Deactivate("u1")).To(Succeed())
			Expect(repo.records["u1"].IsActive).To(BeFalse())
		})
	})

	Describe("ChangeRole", func() {
		It("should move the account to the new role", func() {
			addUser("u1", "doc@example.com", string(rbac.RoleDoctor))

			updated, err := service.ChangeRole("u1", user.ChangeRoleDTO{Role: string(rbac.RoleManager)})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Role).To(Equal(rbac.RoleManager))
		})

		It("should reject an unknown role", func() {
			addUser("u1", "doc@example.com", string(rbac.RoleDoctor))

			_, err := service.ChangeRole("u1", user.ChangeRoleDTO{Role: "WIZARD"})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
		})
	})

	Describe("AssignDepartment", func() {
		It("should attach an existing department", func() {
			addUser("u1", "doc@example.com", string(rbac.RoleDoctor))

			deptID := "dept-1"
			updated, err := service.AssignDepartment("u1", user.AssignDepartmentDTO{DepartmentID: &deptID})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.DepartmentID).To(Equal(&deptID))
		})

		It("should clear the assignment when the id is null", func() {
			record := addUser("u1", "doc@example.com", string(rbac.RoleDoctor))
			deptID := "dept-1"
			record.DepartmentID = &deptID

			updated, err := service.AssignDepartment("u1", user.AssignDepartmentDTO{DepartmentID: nil})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.DepartmentID).To(BeNil())
		})

		It("should reject an unknown department", func() {
			addUser("u1", "doc@example.com", string(rbac.RoleDoctor))

			ghost := "ghost-dept"
			_, err := service.AssignDepartment("u1", user.AssignDepartmentDTO{DepartmentID: &ghost})
			appErr, ok := errors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(errors.ErrorTypeValidation))
		})
	})
})
