package service

import (
	"alcyxob/gym-tracker/internal/domain"
	"alcyxob/gym-tracker/internal/repository" // Import repository package
	"alcyxob/gym-tracker/internal/storage"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4" // Import JWT library
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt" // Import bcrypt
)

// --- Error Definitions ---
var (
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrPasswordMismatch = errors.New("password and confirmation do not match")
	ErrEmptyField       = errors.New("username and password cannot be empty")
	ErrInvalidUsername  = errors.New("username contains invalid characters")
	ErrUnknownUser      = errors.New("unknown user")
	ErrWrongPassword    = errors.New("wrong password")
	ErrHashingFailed    = errors.New("failed to hash password")
	ErrTokenGeneration  = errors.New("failed to generate authentication token")
)

// --- Service Interface ---
type AccountService interface {
	Register(ctx context.Context, username, password, confirmation string) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (*domain.Session, error)
	DeleteAccount(ctx context.Context, username, password string) error
}

// --- Service Implementation ---

// accountService implements the AccountService interface.
type accountService struct {
	creds         repository.CredentialRepository
	workouts      repository.WorkoutRepository
	snapshots     storage.Snapshotter // optional, may be nil
	logger        *logrus.Logger
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAccountService creates a new instance of accountService.
func NewAccountService(
	creds repository.CredentialRepository,
	workouts repository.WorkoutRepository,
	snapshots storage.Snapshotter,
	logger *logrus.Logger,
	jwtSecret string,
	jwtExpiration time.Duration,
) AccountService {
	if jwtSecret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 24
	}
	return &accountService{
		creds:         creds,
		workouts:      workouts,
		snapshots:     snapshots,
		logger:        logger,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

// Register handles new account creation. The account's workout log is
// provisioned immediately so the per-user directory and table exist before
// the first save.
func (s *accountService) Register(ctx context.Context, username, password, confirmation string) (*domain.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrEmptyField
	}
	// Usernames become directory names under the data root.
	if username != filepath.Base(username) || strings.Contains(username, "..") {
		return nil, ErrInvalidUsername
	}
	if password != confirmation {
		return nil, ErrPasswordMismatch
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	account := &domain.Account{
		Username:     username,
		PasswordHash: string(hashed),
	}
	if err := s.creds.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	// Provision an empty workout log (directory + table with header row).
	if err := s.workouts.Save(ctx, username, nil); err != nil {
		s.logger.WithError(err).WithField("username", username).
			Warn("failed to provision workout log")
	}

	account.PasswordHash = ""
	return account, nil
}

// Login authenticates an account and returns a session with a signed JWT.
// Unknown usernames and wrong passwords are reported distinctly.
func (s *accountService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	if username == "" || password == "" {
		return nil, ErrEmptyField
	}

	account, err := s.verifyPassword(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.generateJWT(account)
	if err != nil {
		return nil, ErrTokenGeneration
	}

	return &domain.Session{
		Username:  account.Username,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// DeleteAccount removes the credential entry and the account's entire
// workout storage. Destructive and unrecoverable; the caller must gate this
// behind an explicit confirmation step and re-entered password.
func (s *accountService) DeleteAccount(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return ErrEmptyField
	}

	if _, err := s.verifyPassword(ctx, username, password); err != nil {
		return err
	}

	if err := s.creds.Delete(ctx, username); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnknownUser
		}
		return err
	}

	if err := s.workouts.Destroy(ctx, username); err != nil && !errors.Is(err, repository.ErrNotFound) {
		// The credential is already gone; the account is dead either way.
		s.logger.WithError(err).WithField("username", username).
			Error("failed to remove workout storage")
	}

	if s.snapshots != nil {
		if err := s.snapshots.DeleteUser(ctx, username); err != nil {
			s.logger.WithError(err).WithField("username", username).
				Warn("failed to remove remote snapshot")
		}
	}

	return nil
}

// verifyPassword applies the authentication rule shared by Login and
// DeleteAccount.
func (s *accountService) verifyPassword(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := s.creds.Get(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrWrongPassword
	}
	return account, nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	Username string `json:"uname"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given account.
func (s *accountService) generateJWT(account *domain.Account) (string, time.Time, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		Username: account.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.Username,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "gym-tracker",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signedToken, expirationTime, nil
}
