package postgres_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	errors "github.com/alshifa/hospital-management/internal"
	userDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/user"
	"github.com/alshifa/hospital-management/internal/user"
	userPostgres "github.com/alshifa/hospital-management/internal/user/postgres"
)

func TestUserRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Repository Suite")
}

var _ = Describe("UserRepository", func() {
	var (
		db   *gorm.DB
		repo user.RepositoryAPI
	)

	newRecord := func(id, email, role string, departmentID *string) *userDatamodel.User {
		return &userDatamodel.User{
			ID:           id,
			Email:        email,
			PasswordHash: "hash",
			FirstName:    "Test",
			LastName:     "User",
			Role:         role,
			IsActive:     true,
			DepartmentID: departmentID,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		repo = userPostgres.NewUserRepository(db)
	})

	It("should translate a duplicate email into the conflict sentinel", func() {
		Expect(repo.Create(newRecord("u1", "dup@example.com", "DOCTOR", nil))).To(Succeed())

		err := repo.Create(newRecord("u2", "dup@example.com", "NURSE", nil))
		Expect(err).To(Equal(errors.ErrEmailTaken))
	})

	It("should stamp create and update times without database defaults", func() {
		Expect(repo.Create(newRecord("u1", "a@example.com", "DOCTOR", nil))).To(Succeed())

		stored, err := repo.GetByID("u1")
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.CreatedAt).NotTo(BeZero())
		Expect(stored.UpdatedAt).NotTo(BeZero())
	})

	It("should report not found for an unknown id", func() {
		_, err := repo.GetByID("ghost")
		Expect(err).To(Equal(errors.ErrUserNotFound))
	})

	It("should filter the listing by role and department", func() {
		dept := "dept-1"
		Expect(repo.Create(newRecord("u1", "a@example.com", "DOCTOR", &dept))).To(Succeed())
		Expect(repo.Create(newRecord("u2", "b@example.com", "DOCTOR", nil))).To(Succeed())
		Expect(repo.Create(newRecord("u3", "c@example.com", "NURSE", &dept))).To(Succeed())

		records, total, err := repo.List(user.ListQuery{Role: "DOCTOR", Skip: 0, Take: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(2)))
		Expect(records).To(HaveLen(2))

		records, total, err = repo.List(user.ListQuery{Role: "DOCTOR", DepartmentID: dept, Skip: 0, Take: 10})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(1)))
		Expect(records[0].ID).To(Equal("u1"))
	})

	It("should report the unpaged total while paging", func() {
		for _, id := range []string{"u1", "u2", "u3"} {
			Expect(repo.Create(newRecord(id, id+"@example.com", "DOCTOR", nil))).To(Succeed())
		}

		records, total, err := repo.List(user.ListQuery{Skip: 2, Take: 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(total).To(Equal(int64(3)))
		Expect(records).To(HaveLen(1))
	})

	It("should persist updates", func() {
		record := newRecord("u1", "a@example.com", "DOCTOR", nil)
		Expect(repo.Create(record)).To(Succeed())

		record.Role = "MANAGER"
		record.IsActive = false
		Expect(repo.Update(record)).To(Succeed())

		stored, err := repo.GetByID("u1")
		Expect(err).NotTo(HaveOccurred())
		Expect(stored.Role).To(Equal("MANAGER"))
		Expect(stored.IsActive).To(BeFalse())
	})
})
