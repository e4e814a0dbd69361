package cmd

import (
	stderrors "errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	departmentDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/department"
	userDatamodel "github.com/alshifa/hospital-management/internal/core/datamodel/user"
	"github.com/alshifa/hospital-management/internal/rbac"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with demo departments and one account per role for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlDB.Close()

		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			if err := db.Exec("DELETE FROM users").Error; err != nil {
				log.Fatalf("failed to clear users: %v", err)
			}
			if err := db.Exec("DELETE FROM departments").Error; err != nil {
				log.Fatalf("failed to clear departments: %v", err)
			}
			fmt.Println("Cleared existing users and departments")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte("password"), cfg.Security.BCryptCost)
		if err != nil {
			log.Fatalf("failed to hash seed password: %v", err)
		}

		departments := []string{"General Medicine", "Surgery", "Radiology", "Pharmacy", "Administration"}
		departmentIDs := make(map[string]string, len(departments))

		now := time.Now()
		for _, name := range departments {
			var existing departmentDatamodel.Department
			err := db.Where("name = ?", name).First(&existing).Error
			if err == nil {
				departmentIDs[name] = existing.ID
				continue
			}
			if !stderrors.Is(err, gorm.ErrRecordNotFound) {
				log.Fatalf("failed to check department %s: %v", name, err)
			}

			record := departmentDatamodel.Department{
				ID:        uuid.NewString(),
				Name:      name,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := db.Create(&record).Error; err != nil {
				log.Fatalf("failed to seed department %s: %v", name, err)
			}
			departmentIDs[name] = record.ID
			fmt.Println("Seeded department:", name)
		}

		adminDept := departmentIDs["Administration"]
		for _, role := range rbac.AllRoles {
			email := fmt.Sprintf("%s@alshifa.local", strings.ToLower(string(role)))

			var existing userDatamodel.User
			err := db.Where("email = ?", email).First(&existing).Error
			if err == nil {
				continue
			}
			if !stderrors.Is(err, gorm.ErrRecordNotFound) {
				log.Fatalf("failed to check user %s: %v", email, err)
			}

			record := userDatamodel.User{
				ID:           uuid.NewString(),
				Email:        email,
				PasswordHash: string(hash),
				FirstName:    "Demo",
				LastName:     roleDisplayName(role),
				Role:         string(role),
				IsActive:     true,
				DepartmentID: &adminDept,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := db.Create(&record).Error; err != nil {
				log.Fatalf("failed to seed user %s: %v", email, err)
			}
			fmt.Println("Seeded user:", email)
		}

		fmt.Println("Seeding complete; all demo accounts use password \"password\"")
	},
}

func roleDisplayName(role rbac.Role) string {
	words := strings.Split(strings.ToLower(string(role)), "_")
	for i, word := range words {
		if word != "" {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}
