package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"bookstore/internal/domain/model"
	"bookstore/internal/repository"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Username string
	Password string
}

// token 形（JwtAccessToken相当）
type JwtAccessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// handlerがJSONにして返す
type LoginOutput struct {
	User  model.User     `json:"user"`
	Token JwtAccessToken `json:"token"`
}

// ユーザー名またはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// 停止済みユーザー
var ErrUserInactive = errors.New("user is inactive")

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(user model.User, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	clock    Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	//usernameでユーザー取得（いなければ nil）
	user, err := u.userRepo.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return out, err
	}
	if user == nil {
		return out, ErrInvalidCredentials
	}

	//パスワード照合（平文比較はしない）
	if ok := u.verifier.Verify(in.Password, user.PasswordHash); !ok {
		return out, ErrInvalidCredentials
	}

	//停止ユーザーはログイン不可
	if !user.IsActive {
		return out, ErrUserInactive
	}

	//AccessToken発行
	now := u.clock.Now()
	accessToken, accessExp, err := u.issuer.Issue(*user, now)
	if err != nil {
		return out, err
	}

	//最終ログイン時刻更新
	user.LastLoginAt = &now
	if err := u.userRepo.Update(ctx, user); err != nil {
		return out, err
	}

	out.User = *user
	out.Token = JwtAccessToken{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(accessExp.Sub(now).Seconds()),
	}
	return out, nil
}
