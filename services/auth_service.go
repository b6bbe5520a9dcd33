// File: services/auth_service.go
package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-club-hub/logger"
	"go-club-hub/models"
	"go-club-hub/store"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

const minPasswordLength = 8

// ComparePasswords checks if the given password matches the hashed password
func ComparePasswords(hashedPassword, plainPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	return err == nil
}

// HashPassword hashes a password with the given bcrypt cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AuthService owns credentials and the server-side session table.
type AuthService struct {
	store         *store.Store
	limiter       *RateLimiter
	notifications *NotificationService
	cost          int
}

func NewAuthService(st *store.Store, limiter *RateLimiter, notifications *NotificationService) *AuthService {
	return &AuthService{store: st, limiter: limiter, notifications: notifications, cost: BcryptCost}
}

// WithBcryptCost overrides the hash cost (tests use bcrypt.MinCost).
func (a *AuthService) WithBcryptCost(cost int) *AuthService {
	a.cost = cost
	return a
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email && strings.Contains(email, ".")
}

func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// Register validates the input, applies the per-IP and per-email limits and
// creates an active account. Validation runs before any rate-limit write.
func (a *AuthService) Register(ctx context.Context, in RegisterInput, ip string) (*models.User, error) {
	email := NormalizeEmail(in.Email)
	firstName := stripControl(in.FirstName)
	lastName := stripControl(in.LastName)

	if email == "" || in.Password == "" || firstName == "" || lastName == "" {
		return nil, Validation("All fields are required")
	}
	if !isValidEmail(email) {
		return nil, Validation("Invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, Validation("Password must be at least 8 characters")
	}

	if err := a.limiter.Check(ctx, "register_ip", "", ip, LimitRegisterIP); err != nil {
		return nil, err
	}
	if err := a.limiter.Check(ctx, "register_email", email, ip, LimitRegisterEmail); err != nil {
		return nil, err
	}

	if _, err := a.store.GetUserByEmail(ctx, email); err == nil {
		return nil, Conflict("Email already registered")
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, Storage("Registration failed", err)
	}

	hash, err := HashPassword(in.Password, a.cost)
	if err != nil {
		return nil, Storage("Registration failed", err)
	}

	user := &models.User{
		Email:         email,
		PasswordHash:  hash,
		FirstName:     firstName,
		LastName:      lastName,
		IsActive:      true,
		EmailVerified: true,
	}
	if err := a.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, Conflict("Email already registered")
		}
		return nil, Storage("Registration failed", err)
	}
	if err := a.store.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn.Printf("[AuthService.Register] last_login update failed for user=%d: %v", user.ID, err)
	}

	a.notifications.Notify(ctx, user.ID, "Welcome to Club Hub!", "Your account has been created successfully.", models.NotificationSuccess, "")
	logger.Info.Printf("[AuthService.Register] user=%d registered email=%s", user.ID, email)
	return user, nil
}

// Login verifies credentials. Unknown email and wrong password produce the
// same error so accounts cannot be enumerated.
func (a *AuthService) Login(ctx context.Context, email, password, ip string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, Validation("Email and password are required")
	}

	if err := a.limiter.Check(ctx, "login_ip", "", ip, LimitLoginIP); err != nil {
		return nil, err
	}
	if err := a.limiter.Check(ctx, "login_email", email, ip, LimitLoginEmail); err != nil {
		return nil, err
	}

	user, err := a.store.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, Storage("Login failed", err)
	}
	if user == nil || !ComparePasswords(user.PasswordHash, password) {
		logger.Info.Printf("[AuthService.Login] failed login for email=%s ip=%s", email, ip)
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.Info.Printf("[AuthService.Login] deactivated account user=%d", user.ID)
		return nil, ErrAccountDeactivated
	}

	if err := a.store.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Warn.Printf("[AuthService.Login] last_login update failed for user=%d: %v", user.ID, err)
	}
	logger.Info.Printf("[AuthService.Login] user=%d logged in from %s", user.ID, ip)
	return user, nil
}

// StartSession issues a fresh session id and persists its row.
func (a *AuthService) StartSession(ctx context.Context, userID int64, ip, userAgent string) (string, error) {
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := a.store.CreateSession(ctx, sess); err != nil {
		return "", Storage("Failed to start session", err)
	}
	return sess.ID, nil
}

// ValidateSession confirms the session row still exists and bumps its activity.
func (a *AuthService) ValidateSession(ctx context.Context, sessionID string, userID int64) error {
	if sessionID == "" || userID == 0 {
		return ErrAuthenticationRequired
	}
	err := a.store.TouchSession(ctx, sessionID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrAuthenticationRequired
	}
	if err != nil {
		return Storage("Failed to verify session", err)
	}
	return nil
}

// EndSession deletes the session row. A missing row is not an error.
func (a *AuthService) EndSession(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := a.store.DeleteSession(ctx, sessionID); err != nil {
		return Storage("Logout failed", err)
	}
	return nil
}

// PruneSessions removes sessions idle longer than lifetimeSeconds.
func (a *AuthService) PruneSessions(ctx context.Context, lifetimeSeconds int) (int64, error) {
	return a.store.PruneSessions(ctx, lifetimeSeconds)
}

// CurrentUser loads the logged-in user's account.
func (a *AuthService) CurrentUser(ctx context.Context, userID int64) (*models.User, error) {
	u, err := a.store.GetUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAuthenticationRequired
	}
	if err != nil {
		return nil, Storage("Failed to load user", err)
	}
	return u, nil
}

// EnsureSystemOwner creates the system owner account when no user holds the
// email yet. An existing account is left untouched.
func (a *AuthService) EnsureSystemOwner(ctx context.Context, email, password string) (*models.User, bool, error) {
	email = NormalizeEmail(email)
	if !isValidEmail(email) {
		return nil, false, Validation("Invalid email address")
	}
	if len(password) < minPasswordLength {
		return nil, false, Validation("Password must be at least 8 characters")
	}

	existing, err := a.store.GetUserByEmail(ctx, email)
	if err == nil {
		if !existing.IsSystemOwner {
			logger.Warn.Printf("[AuthService.EnsureSystemOwner] %s exists but is not the system owner", email)
		}
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, Storage("Failed to load user", err)
	}

	hash, err := HashPassword(password, a.cost)
	if err != nil {
		return nil, false, Storage("Failed to hash password", err)
	}
	owner := &models.User{
		Email:         email,
		PasswordHash:  hash,
		FirstName:     "System",
		LastName:      "Owner",
		IsActive:      true,
		IsSystemOwner: true,
		EmailVerified: true,
	}
	if err := a.store.CreateUser(ctx, owner); err != nil {
		return nil, false, Storage("Failed to create system owner", err)
	}
	logger.Info.Printf("[AuthService.EnsureSystemOwner] created system owner user=%d", owner.ID)
	return owner, true, nil
}
