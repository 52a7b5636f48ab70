package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookstore/internal/domain/model"
	"bookstore/internal/repository"
	"bookstore/internal/validator"

	"golang.org/x/crypto/bcrypt"
)

// 会員登録の入力
type RegisterUserInput struct {
	Username string
	Password string
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User `json:"user"`
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

var (
	// 入力が不正
	ErrInvalidUsername  = validator.ErrInvalidUsername
	ErrPasswordTooShort = validator.ErrPasswordTooShort
	ErrWeakPassword     = validator.ErrWeakPassword

	// 競合
	ErrUsernameAlreadyExists = errors.New("username already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	clock    Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		clock:    clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	return u.create(ctx, in, model.RoleUser)
}

// EnsureAdmin は管理者がいなければ作る（起動時）
func (u *RegisterUserUsecase) EnsureAdmin(ctx context.Context, username, password string) (model.User, error) {
	existing, err := u.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return model.User{}, err
	}
	if existing != nil {
		if existing.Role != model.RoleAdmin {
			existing.Role = model.RoleAdmin
			if err := u.userRepo.Update(ctx, existing); err != nil {
				return model.User{}, err
			}
		}
		return *existing, nil
	}
	out, err := u.create(ctx, RegisterUserInput{Username: username, Password: password}, model.RoleAdmin)
	if err != nil {
		return model.User{}, err
	}
	return out.User, nil
}

func (u *RegisterUserUsecase) create(ctx context.Context, in RegisterUserInput, role model.Role) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	username := strings.TrimSpace(in.Username)
	if err := validator.ValidateCredentials(username, in.Password); err != nil {
		return out, err
	}

	// username重複チェック
	existing, err := u.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return out, err
	}
	if existing != nil {
		return out, ErrUsernameAlreadyExists
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	now := u.clock.Now()
	user := &model.User{
		Username:     username,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// DBへ保存（同時登録の競合はここで弾かれる）
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return out, ErrUsernameAlreadyExists
		}
		return out, err
	}

	out.User = *user
	return out, nil
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

// 平文(plain)をbcryptで比較
func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
