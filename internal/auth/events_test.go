package auth_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alshifa/hospital-management/internal/auth"
	"github.com/alshifa/hospital-management/internal/core/events"
	"github.com/alshifa/hospital-management/internal/rbac"
)

var _ = Describe("LastLoginRecorder", func() {
	var (
		repo *MockRepository
		bus  *events.EventBus
	)

	BeforeEach(func() {
		repo = NewMockRepository()
		bus = events.NewEventBus(testLogger())
		bus.Subscribe(auth.EventUserLoggedIn, auth.LastLoginRecorder(repo, testLogger()))
	})

	It("should stamp the login time when the event fires", func() {
		repo.Add(&auth.Identity{ID: "u1", Email: "doctor@example.com", Role: rbac.RoleDoctor, IsActive: true})

		err := bus.PublishSync(context.Background(), auth.NewUserLoggedInEvent("u1", "doctor@example.com"))
		Expect(err).NotTo(HaveOccurred())

		Expect(repo.lastLogins).To(HaveKey("u1"))
		Expect(repo.lastLogins["u1"]).To(BeTemporally("~", time.Now(), time.Minute))
	})

	It("should ignore events without a subject id", func() {
		err := bus.PublishSync(context.Background(), auth.NewUserLoggedInEvent("", ""))
		Expect(err).NotTo(HaveOccurred())
		Expect(repo.lastLogins).To(BeEmpty())
	})
})
