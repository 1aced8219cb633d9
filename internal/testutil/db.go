package testutil

import (
	"fmt"
	"testing"

	mailboxDomain "mailgate-backend/internal/mailbox/domain"
	outboundDomain "mailgate-backend/internal/outbound/domain"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB creates an in-memory sqlite database with all schemas
// migrated. It automatically closes the database when the test completes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database so that every pooled connection sees
	// the same data. One open connection keeps sqlite's locking out of
	// concurrent test scenarios.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrapping test database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&mailboxDomain.User{}, &mailboxDomain.Item{}, &outboundDomain.QueuedDelivery{}); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}

	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("closing test database: %v", err)
		}
	})

	return db
}
