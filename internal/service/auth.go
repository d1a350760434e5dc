package service

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"

	"gizmohub_back_end/internal/models"
	"gizmohub_back_end/internal/utils"
)

type LoginResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

type RegisterInput struct {
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Password  string  `json:"password"`
	Phone     *string `json:"phone"`
}

type AuthService struct {
	db      *gorm.DB
	tokens  *utils.TokenIssuer
	revoker TokenRevoker
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenIssuer, revoker TokenRevoker) *AuthService {
	return &AuthService{db: db, tokens: tokens, revoker: revoker}
}

// Login accepts an email, a first name or a phone number as credential.
// Several customers can share a first name, so each match is tried in id order.
func (s *AuthService) Login(ctx context.Context, credential, password string) (LoginResult, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" || password == "" {
		return LoginResult{}, ValidationError("credential and password are required")
	}

	var candidates []models.Customer
	err := s.db.WithContext(ctx).
		Where("email = ? OR first_name = ? OR phone = ?", strings.ToLower(credential), credential, credential).
		Order("customer_id").
		Find(&candidates).Error
	if err != nil {
		return LoginResult{}, err
	}

	for _, c := range candidates {
		ok, err := utils.VerifyPassword(password, c.Password)
		if err != nil {
			log.Printf("⚠️ Customer %d has an unreadable password hash: %v", c.ID, err)
			continue
		}
		if !ok {
			continue
		}
		s.upgradeHash(ctx, &models.Customer{}, "customer_id", c.ID, password, c.Password)
		return s.issue(models.User{
			ID:    c.ID,
			Email: c.Email,
			Name:  c.FullName(),
			Role:  models.RoleCustomer,
		})
	}

	return LoginResult{}, ErrInvalidCredentials
}

func (s *AuthService) AdminLogin(ctx context.Context, username, password string) (LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return LoginResult{}, ValidationError("username and password are required")
	}

	var admin models.Admin
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	ok, err := utils.VerifyPassword(password, admin.Password)
	if err != nil || !ok {
		return LoginResult{}, ErrInvalidCredentials
	}
	s.upgradeHash(ctx, &models.Admin{}, "admin_id", admin.ID, password, admin.Password)

	return s.issue(models.User{
		ID:       admin.ID,
		Email:    admin.Email,
		Username: admin.Username,
		Name:     admin.FullName,
		Role:     models.RoleAdmin,
	})
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)

	if in.Email == "" || in.FirstName == "" || in.LastName == "" || in.Password == "" {
		return ValidationError("missing required fields: email, first_name, last_name, password")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return ValidationError("invalid email address")
	}
	if len(in.Password) < 6 {
		return ValidationError("password must be at least 6 characters")
	}
	if in.Phone != nil {
		p := strings.TrimSpace(*in.Phone)
		if p == "" {
			in.Phone = nil
		} else {
			in.Phone = &p
		}
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Customer{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return newError(ErrDuplicate, "email already registered")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return err
	}

	customer := models.Customer{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hash,
		Phone:     in.Phone,
	}
	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		// a concurrent registration can slip past the count
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return newError(ErrDuplicate, "email already registered")
		}
		return err
	}

	log.Printf("✅ Customer %d registered", customer.ID)
	return nil
}

// Logout revokes the token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *utils.Claims) error {
	if s.revoker == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return s.revoker.Revoke(ctx, claims.ID, ttl)
}

func (s *AuthService) issue(user models.User) (LoginResult, error) {
	token, _, err := s.tokens.Generate(user)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: user}, nil
}

// upgradeHash rewrites legacy bcrypt hashes as argon2id after a successful login.
func (s *AuthService) upgradeHash(ctx context.Context, model any, idColumn string, id uint, password, current string) {
	if !utils.IsBcryptHash(current) {
		return
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return
	}
	err = s.db.WithContext(ctx).Model(model).Where(idColumn+" = ?", id).Update("password", hash).Error
	if err != nil {
		log.Printf("⚠️ Password rehash failed for %s %d: %v", idColumn, id, err)
	}
}
