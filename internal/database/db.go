package database

import (
	"backend/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
// Migration order is an explicit dependency declaration: Department and
// Position exist before EmployeeProfile (profile FKs reference them),
// EmployeeProfile before ChangeRequest and User.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.Department{},
		&model.Position{},
		&model.EmployeeProfile{},
		&model.ChangeRequest{},
		&model.User{},
		&model.RefreshToken{},
		&model.AuditLog{},
	)
	if err != nil {
		logrus.WithError(err).Warn("failed to auto-migrate models")
	}

	return db, nil
}
