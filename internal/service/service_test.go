package service

import (
	"testing"

	"github.com/nirajkr26/linkly/internal/models"
	"github.com/nirajkr26/linkly/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testBaseURL = "http://localhost:8080"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serializes
	// concurrent writers.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Link{}, &models.Visit{}))
	return db
}

type testEnv struct {
	db        *gorm.DB
	linkRepo  *repository.LinkRepository
	visitRepo *repository.VisitRepository
	userRepo  *repository.UserRepository
	clicks    *ClickService
	links     *LinkService
	users     *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	log := zap.NewNop()

	linkRepo := repository.NewLinkRepository(db)
	visitRepo := repository.NewVisitRepository(db)
	userRepo := repository.NewUserRepository(db)

	clicks := NewClickService(visitRepo, linkRepo, log)
	links := NewLinkService(linkRepo, visitRepo, clicks, testBaseURL, 7, log)
	users := NewUserService(userRepo, log)

	return &testEnv{
		db:        db,
		linkRepo:  linkRepo,
		visitRepo: visitRepo,
		userRepo:  userRepo,
		clicks:    clicks,
		links:     links,
		users:     users,
	}
}

func (e *testEnv) mustCreateUser(t *testing.T, email string) *models.User {
	t.Helper()
	user, err := e.users.Register("Test User", email, "secret123")
	require.NoError(t, err)
	return user
}
