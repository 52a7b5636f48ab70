package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bookstore/internal/catalog"
	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
	"bookstore/internal/validator"

	"github.com/rs/zerolog"
)

// CatalogUsecase は書籍の閲覧と管理者操作。
// 在庫と価格の正本はインメモリのカタログで、DBへは後から書き込む。
type CatalogUsecase struct {
	cat       *catalog.Catalog
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
	pub       EventPublisher
	log       zerolog.Logger
}

// DI
func NewCatalogUsecase(
	cat *catalog.Catalog,
	tx repo.TransactionManager,
	auditRepo repo.AuditLogRepository,
	pub EventPublisher,
	log zerolog.Logger,
) *CatalogUsecase {
	return &CatalogUsecase{
		cat:       cat,
		tx:        tx,
		auditRepo: auditRepo,
		pub:       pub,
		log:       log,
	}
}

// 詳細表示用（説明文つき）
type BookOutput struct {
	model.Book
	Description string `json:"description"`
}

func toBookOutput(b model.Book) BookOutput {
	return BookOutput{Book: b, Description: b.Describe()}
}

// ListBooks はcategoryが空なら全件、あればそのカテゴリだけ（名前でも番号でもよい）
func (u *CatalogUsecase) ListBooks(ctx context.Context, category string) ([]BookOutput, error) {
	var books []model.Book
	if strings.TrimSpace(category) == "" {
		books = u.cat.List()
	} else {
		cat, err := model.ParseCategory(category)
		if err != nil {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		books = u.cat.ListByCategory(cat)
	}

	out := make([]BookOutput, 0, len(books))
	for _, b := range books {
		out = append(out, toBookOutput(b))
	}
	return out, nil
}

func (u *CatalogUsecase) GetBook(ctx context.Context, bookID int64) (BookOutput, error) {
	if bookID <= 0 {
		return BookOutput{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	b, err := u.cat.Get(bookID)
	if err != nil {
		return BookOutput{}, fromDomainError(err)
	}
	return toBookOutput(b), nil
}

type AdminCreateBookInput struct {
	ISBN     string
	Title    string
	Author   string
	Price    int64
	Category string
	ImageURL string
	Stock    int64
}

func (u *CatalogUsecase) AdminCreateBook(ctx context.Context, adminUserID int64, in AdminCreateBookInput) (BookOutput, error) {
	if adminUserID <= 0 {
		return BookOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Stock < 0 {
		return BookOutput{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if err := validator.ValidateISBN(in.ISBN); err != nil {
		return BookOutput{}, NewHTTPError(http.StatusBadRequest, "invalid isbn")
	}
	cat, err := model.ParseCategory(in.Category)
	if err != nil {
		return BookOutput{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	now := time.Now()
	b, err := u.cat.Add(model.Book{
		ISBN:      strings.TrimSpace(in.ISBN),
		Title:     strings.TrimSpace(in.Title),
		Author:    strings.TrimSpace(in.Author),
		Price:     in.Price,
		Category:  cat,
		ImageURL:  strings.TrimSpace(in.ImageURL),
		Stock:     in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return BookOutput{}, fromDomainError(err)
	}

	u.persist(ctx, "create book", func(r repo.TxRepos) error {
		if err := r.Books().Save(ctx, b); err != nil {
			return err
		}
		if b.Stock > 0 {
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				BookID:      b.ID,
				ActorUserID: adminUserID,
				Delta:       b.Stock,
				StockAfter:  b.Stock,
				Reason:      "initial stock",
				CreatedAt:   now,
			}); err != nil {
				return err
			}
		}
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionCreateBook,
			ResourceType: model.AuditResourceBook,
			ResourceID:   b.ID,
			AfterJSON:    toJSON(b),
			CreatedAt:    now,
		})
	})
	u.publish(ctx, RoutingBookCreated, BookChangedEvent{Action: model.AuditActionCreateBook, Book: b})

	return toBookOutput(b), nil
}

func (u *CatalogUsecase) AdminUpdatePrice(ctx context.Context, adminUserID int64, bookID int64, price int64) (BookOutput, error) {
	if adminUserID <= 0 {
		return BookOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return BookOutput{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	//変更前（before）
	before, err := u.cat.Get(bookID)
	if err != nil {
		return BookOutput{}, fromDomainError(err)
	}
	after, err := u.cat.SetPrice(bookID, price)
	if err != nil {
		return BookOutput{}, fromDomainError(err)
	}

	u.persist(ctx, "update price", func(r repo.TxRepos) error {
		if err := r.Books().UpdatePrice(ctx, bookID, after.Price); err != nil {
			return err
		}
		//「誰が」「何を」「どの対象に」「どう変えたか」を残す
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionUpdatePrice,
			ResourceType: model.AuditResourceBook,
			ResourceID:   bookID,
			BeforeJSON:   fmt.Sprintf(`{"price":%d}`, before.Price),
			AfterJSON:    fmt.Sprintf(`{"price":%d}`, after.Price),
			CreatedAt:    time.Now(),
		})
	})
	u.publish(ctx, RoutingBookUpdated, BookChangedEvent{Action: model.AuditActionUpdatePrice, Book: after})

	return toBookOutput(after), nil
}

// AdminRestock は在庫をdeltaだけ増減する（マイナスは棚卸しの補正）
func (u *CatalogUsecase) AdminRestock(ctx context.Context, adminUserID int64, bookID int64, delta int64, reason string) (BookOutput, error) {
	if adminUserID <= 0 {
		return BookOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return BookOutput{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	if delta == 0 {
		return BookOutput{}, NewHTTPError(http.StatusBadRequest, "delta must not be 0")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "restock"
	}

	after, err := u.cat.Restock(bookID, delta)
	if err != nil {
		return BookOutput{}, fromDomainError(err)
	}

	u.persist(ctx, "restock", func(r repo.TxRepos) error {
		if err := r.Books().AdjustStock(ctx, bookID, delta); err != nil {
			return err
		}
		//履歴を作成（差分）
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			BookID:      bookID,
			ActorUserID: adminUserID,
			Delta:       delta,
			StockAfter:  after.Stock,
			Reason:      reason,
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  adminUserID,
			Action:       model.AuditActionRestock,
			ResourceType: model.AuditResourceBook,
			ResourceID:   bookID,
			BeforeJSON:   fmt.Sprintf(`{"stock":%d}`, after.Stock-delta),
			AfterJSON:    fmt.Sprintf(`{"stock":%d}`, after.Stock),
			CreatedAt:    time.Now(),
		})
	})
	u.publish(ctx, RoutingBookUpdated, BookChangedEvent{Action: model.AuditActionRestock, Book: after})

	return toBookOutput(after), nil
}

func (u *CatalogUsecase) ListAuditLogs(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

// カタログ側は確定済みなので、DBへの書き込み失敗はログに残すだけ
func (u *CatalogUsecase) persist(ctx context.Context, op string, fn func(r repo.TxRepos) error) {
	if err := u.tx.WithinTx(ctx, fn); err != nil {
		u.log.Error().Err(err).Str("op", op).Msg("persist catalog change failed")
	}
}

func (u *CatalogUsecase) publish(ctx context.Context, key string, ev any) {
	if err := u.pub.Publish(ctx, key, ev); err != nil {
		u.log.Warn().Err(err).Str("routing_key", key).Msg("publish event failed")
	}
}

func toJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
