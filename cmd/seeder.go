package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample employees",
	Long:  `Seed the database with sample employees for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		_, db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

		seedEmployee := func(email, name, role string, supervisorEmail string, hireDate time.Time, vacationDays int) {
			var exists int
			row := db.Raw("SELECT 1 FROM employees WHERE email = ?", email).Row()
			if err := row.Scan(&exists); err == nil {
				fmt.Println("employee already exists:", email)
				return
			}

			var supervisorID *int64
			if supervisorEmail != "" {
				var id int64
				row := db.Raw("SELECT id FROM employees WHERE email = ?", supervisorEmail).Row()
				if err := row.Scan(&id); err == nil {
					supervisorID = &id
				}
			}

			granted := vacationDays > 0
			var grantedAt *time.Time
			if granted {
				now := time.Now()
				grantedAt = &now
			}

			err := db.Exec(
				`INSERT INTO employees (full_name, email, password_hash, role, supervisor_id, hire_date, vacation_days, leave_granted_at, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, now(), now())`,
				name, email, string(hash), role, supervisorID, hireDate, vacationDays, grantedAt,
			).Error
			if err != nil {
				log.Fatalf("failed to insert employee %s: %v", email, err)
			}
			fmt.Println("Seeded employee:", email)
		}

		seedEmployee("admin@leave.local", "Admin", "admin", "", time.Now().AddDate(-5, 0, 0), 0)
		seedEmployee("sari@leave.local", "Sari Supervisor", "supervisor", "", time.Now().AddDate(-3, 0, 0), 15)
		seedEmployee("fadhil@leave.local", "Fadhil", "employee", "sari@leave.local", time.Now().AddDate(-2, 0, 0), 15)
		seedEmployee("nina@leave.local", "Nina", "employee", "sari@leave.local", time.Now().AddDate(0, -6, 0), 0)
	},
}
