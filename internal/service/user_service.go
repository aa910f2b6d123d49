package service

import (
	"errors"

	"github.com/nirajkr26/linkly/internal/models"
	"github.com/nirajkr26/linkly/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type UserService struct {
	repo *repository.UserRepository
	log  *zap.Logger
}

func NewUserService(repo *repository.UserRepository, log *zap.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

func (s *UserService) Register(name, email, password string) (*models.User, error) {
	if _, err := s.repo.FindByEmail(email); err == nil {
		s.log.Warn("User already exists", zap.String("email", email))
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}
	hashStr := string(hash)

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: &hashStr,
		Provider:     models.ProviderLocal,
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserExists
		}
		s.log.Error("Failed to register user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

// Login verifies local credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *UserService) Login(email, password string) (*models.User, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// LoginWithGoogle consumes an external identity result: find by provider id,
// otherwise attach the id to the account with that email, otherwise create a
// federated account.
func (s *UserService) LoginWithGoogle(googleID, email, name, avatar string) (*models.User, error) {
	if user, err := s.repo.FindByGoogleID(googleID); err == nil {
		return user, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if user, err := s.repo.FindByEmail(email); err == nil {
		user.GoogleID = &googleID
		if user.Avatar == "" {
			user.Avatar = avatar
		}
		if err := s.repo.Save(user); err != nil {
			s.log.Error("Failed to link google identity", zap.Error(err))
			return nil, err
		}
		return user, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		GoogleID: &googleID,
		Avatar:   avatar,
		Provider: models.ProviderGoogle,
	}
	if err := s.repo.Create(user); err != nil {
		s.log.Error("Failed to create google user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (s *UserService) Profile(userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
