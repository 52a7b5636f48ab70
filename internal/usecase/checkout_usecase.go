package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"bookstore/internal/cart"
	"bookstore/internal/checkout"
	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const StatusRejected = "rejected"

// CheckoutUsecase はカートを在庫の減算に変える。
// 在庫の確定はインメモリのカタログで行い、注文と履歴は後からDBへ書く。
type CheckoutUsecase struct {
	carts  *cart.Store
	engine *checkout.Engine
	tx     repo.TransactionManager
	pub    EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

// DI
func NewCheckoutUsecase(
	carts *cart.Store,
	engine *checkout.Engine,
	tx repo.TransactionManager,
	pub EventPublisher,
	log zerolog.Logger,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:  carts,
		engine: engine,
		tx:     tx,
		pub:    pub,
		log:    log,
		now:    time.Now,
	}
}

type CheckoutItemOutput struct {
	BookID    int64  `json:"book_id"`
	Title     string `json:"title"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int64  `json:"quantity"`
	LineTotal int64  `json:"line_total"`
}

// 成功: status=ok, charged, items / 拒否: status=rejected, problems
type CheckoutOutput struct {
	Status      string               `json:"status"`
	OrderNumber string               `json:"order_number,omitempty"`
	Charged     int64                `json:"charged"`
	Items       []CheckoutItemOutput `json:"items"`
	Problems    []checkout.Problem   `json:"problems,omitempty"`
}

func (o CheckoutOutput) Rejected() bool { return o.Status == StatusRejected }

// 成功時は items を必ず配列で出し、拒否時は status と problems だけにする
func (o CheckoutOutput) MarshalJSON() ([]byte, error) {
	if o.Rejected() {
		return json.Marshal(struct {
			Status   string             `json:"status"`
			Problems []checkout.Problem `json:"problems"`
		}{o.Status, o.Problems})
	}
	type plain CheckoutOutput
	if o.Items == nil {
		o.Items = []CheckoutItemOutput{}
	}
	return json.Marshal(plain(o))
}

// Checkout は拒否を error ではなく status=rejected で返す
func (u *CheckoutUsecase) Checkout(ctx context.Context, userID int64) (CheckoutOutput, error) {
	if userID <= 0 {
		return CheckoutOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c := u.carts.Get(SessionID(userID))
	rec, err := u.engine.Checkout(c)
	if err != nil {
		var rej *checkout.RejectionError
		if errors.As(err, &rej) {
			return CheckoutOutput{Status: StatusRejected, Problems: rej.Problems}, nil
		}
		return CheckoutOutput{}, fromDomainError(err)
	}

	out := CheckoutOutput{
		Status:  rec.Status,
		Charged: rec.Charged,
		Items:   make([]CheckoutItemOutput, 0, len(rec.Items)),
	}
	for _, it := range rec.Items {
		out.Items = append(out.Items, CheckoutItemOutput{
			BookID:    it.BookID,
			Title:     it.Title,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		})
	}

	//空カートは何も残さない
	if len(rec.Items) == 0 {
		return out, nil
	}

	out.OrderNumber = uuid.NewString()
	u.record(ctx, userID, out.OrderNumber, rec)
	if err := u.pub.Publish(ctx, RoutingCheckoutCompleted, CheckoutCompletedEvent{
		OrderNumber: out.OrderNumber,
		UserID:      userID,
		Charged:     out.Charged,
		Items:       out.Items,
	}); err != nil {
		u.log.Warn().Err(err).Str("order", out.OrderNumber).Msg("publish checkout event failed")
	}

	u.log.Info().
		Int64("user_id", userID).
		Str("order", out.OrderNumber).
		Int64("charged", out.Charged).
		Int("items", len(out.Items)).
		Msg("checkout done")
	return out, nil
}

// 注文・在庫・履歴を1トランザクションで書く。在庫は確定済みなので失敗はログだけ。
func (u *CheckoutUsecase) record(ctx context.Context, userID int64, number string, rec checkout.Receipt) {
	now := u.now()
	order := model.Order{
		Number:     number,
		UserID:     userID,
		Status:     model.OrderStatusConfirmed,
		TotalPrice: rec.Charged,
		CreatedAt:  now,
		Items:      make([]model.OrderItem, 0, len(rec.Items)),
	}
	for _, it := range rec.Items {
		//スナップショット
		order.Items = append(order.Items, model.OrderItem{
			BookID:            it.BookID,
			TitleSnapshot:     it.Title,
			UnitPriceSnapshot: it.UnitPrice,
			Quantity:          it.Quantity,
			CreatedAt:         now,
		})
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Orders().Create(ctx, &order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		for _, it := range rec.Items {
			if err := r.Books().AdjustStock(ctx, it.BookID, -it.Quantity); err != nil {
				return fmt.Errorf("update stock %d: %w", it.BookID, err)
			}
			if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
				BookID:      it.BookID,
				ActorUserID: userID,
				Delta:       -it.Quantity,
				StockAfter:  it.StockAfter,
				Reason:      "checkout " + number,
				CreatedAt:   now,
			}); err != nil {
				return fmt.Errorf("create adjustment %d: %w", it.BookID, err)
			}
		}
		return nil
	})
	if err != nil {
		u.log.Error().Err(err).Str("order", number).Msg("persist checkout failed")
	}
}
