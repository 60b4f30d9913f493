package user

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kokifi/lottery/pkg/utils"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserUnauthorized is returned when credentials do not match.
	ErrUserUnauthorized = errors.New("user unauthorized")
	// ErrInsufficientBalance is returned when the game balance cannot cover a charge.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrInvalidAvatar is returned for an empty or oversized avatar value.
	ErrInvalidAvatar = errors.New("invalid avatar")
)

// User is a registered player. Balance is the game currency used to buy
// lottery tickets; KOKI points are tracked separately in the ledger.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Password       string     `json:"-"`
	Avatar         string     `json:"avatar"`
	Balance        int64      `json:"balance"`
	TicketsCount   int64      `json:"tickets_count"`
	TotalSpent     int64      `json:"total_spent"`
	IsVerified     bool       `json:"is_verified"`
	LastKoTicketAt *time.Time `json:"last_koticket_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// DefaultAvatar is assigned on registration.
const DefaultAvatar = "🐔"

// NewUser creates a new User with a hashed password, the welcome balance
// and the KoTicket accrual clock started.
func NewUser(username, email, password string, welcomeBalance int64) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" {
		return nil, errors.New("username cannot be empty")
	}
	if email == "" {
		return nil, errors.New("email cannot be empty")
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &User{
		ID:             uuid.New(),
		Username:       username,
		Email:          email,
		Password:       hashedPassword,
		Avatar:         DefaultAvatar,
		Balance:        welcomeBalance,
		LastKoTicketAt: &now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// ValidateAvatar accepts a short non-empty avatar (an emoji or a short code).
func ValidateAvatar(avatar string) error {
	avatar = strings.TrimSpace(avatar)
	if avatar == "" || len([]rune(avatar)) > 16 {
		return ErrInvalidAvatar
	}
	return nil
}
