package repository

import (
	"bookstore/internal/domain/model"
	"context"
	"errors"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// ユーザー名の重複
var ErrDuplicateUsername = errors.New("username already taken")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成。重複は ErrDuplicateUsername
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//ユーザー名から一件取得する。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// ユーザー情報の更新=>アクティブかどうか・ロールの変更・最後のログイン更新など
	Update(ctx context.Context, user *model.User) error
}
