package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/apierror"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/cache"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/config"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/infra"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/metrics"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/repository"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type OrderService interface {
	// Create stores the order with its lines and emits the OUT movements for
	// every line and gift tier, all in one transaction.
	Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	Get(ctx context.Context, id string) (*dto.OrderResponse, error)
	List(ctx context.Context, filter dto.OrderFilter) (*dto.Page[dto.OrderResponse], error)
	BulkImport(ctx context.Context, rows []dto.BulkOrderRow) (*dto.BulkResult, error)
	PackingSlip(ctx context.Context, id string) ([]byte, error)

	// RecordFailure writes an error log row for a rejected order request.
	// It runs outside any transaction and never fails the caller.
	RecordFailure(ctx context.Context, endpoint string, body []byte, cause error)
}

type orderService struct {
	repo     repository.OrderRepository
	bundles  repository.BundleProductRepository
	products repository.ProductRepository
	errLogs  repository.ErrorLogRepository
	stock    StockService
	stats    cache.StatsCache
	cfg      *config.Config
}

func NewOrderService(
	repo repository.OrderRepository,
	bundles repository.BundleProductRepository,
	products repository.ProductRepository,
	errLogs repository.ErrorLogRepository,
	stock StockService,
	stats cache.StatsCache,
	cfg *config.Config,
) OrderService {
	return &orderService{
		repo:     repo,
		bundles:  bundles,
		products: products,
		errLogs:  errLogs,
		stock:    stock,
		stats:    stats,
		cfg:      cfg,
	}
}

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	order := buildOrder(req)

	done := metrics.TrackFulfillment()
	err := withStatsCleared(ctx, s.stats, func() error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.repo.CreateTx(tx, order); err != nil {
				return err
			}
			// One transaction is one connection; pgx rejects a statement while
			// another is still reading rows, so statements on tx take mu.
			var mu sync.Mutex
			g := new(errgroup.Group)
			for _, line := range req.OrderDetails {
				line := line
				g.Go(func() error { return s.fulfillLine(tx, &mu, line) })
			}
			return g.Wait()
		})
	})
	done()
	if err != nil {
		metrics.OrdersTotal.WithLabelValues("failed").Inc()
		return nil, errors.WithStack(countRejection(err))
	}

	metrics.OrdersTotal.WithLabelValues("created").Inc()
	resp := toOrderResponse(order)
	return &resp, nil
}

// fulfillLine resolves the line's shop product id and records the OUT
// movements: one for the sold quantity and one per nonzero gift tier.
// A bundle id consumes bundle.pack units of the underlying product per unit
// sold; any other id is a product number.
func (s *orderService) fulfillLine(tx *gorm.DB, mu *sync.Mutex, line dto.OrderLineRequest) error {
	mu.Lock()
	productID, units, err := s.resolveLine(tx, line)
	mu.Unlock()
	if err != nil {
		return err
	}

	record := func(quantity int, remark string) func() error {
		return func() error {
			mu.Lock()
			defer mu.Unlock()
			return s.stock.RecordTx(tx, systemOut(productID, quantity, remark))
		}
	}

	g := new(errgroup.Group)
	g.Go(record(units, model.RemarkBySystem))
	for _, gift := range giftSchedule(line.Gift).Tiers() {
		if gift.Quantity == 0 {
			continue
		}
		g.Go(record(gift.Quantity, model.RemarkGiftBySystem))
	}
	return g.Wait()
}

func (s *orderService) resolveLine(tx *gorm.DB, line dto.OrderLineRequest) (productID int64, units int, err error) {
	bundle, err := s.bundles.FindByIDTx(tx, line.ShopProductID)
	if err == nil {
		return bundle.ProductID, bundle.Pack * line.Quantity, nil
	}
	if !repository.IsNotFound(err) {
		return 0, 0, err
	}
	p, err := s.products.FindByNumberTx(tx, line.ShopProductID)
	if err != nil {
		return 0, 0, notFound(err, "shop product", line.ShopProductID)
	}
	return p.ID, line.Quantity, nil
}

func systemOut(productID int64, quantity int, remark string) *model.StockMovement {
	r := remark
	return &model.StockMovement{
		ProductID:    productID,
		MovementType: model.MovementOut,
		Quantity:     quantity,
		Remarks:      &r,
	}
}

func (s *orderService) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	resp := toOrderResponse(o)
	return &resp, nil
}

func (s *orderService) List(ctx context.Context, filter dto.OrderFilter) (*dto.Page[dto.OrderResponse], error) {
	q := repository.OrderQuery{
		OrderID: strings.TrimSpace(filter.OrderID),
		Search:  strings.TrimSpace(filter.Search),
		Phone:   strings.TrimSpace(filter.Phone),
	}
	day, err := parseDay("date", filter.Date)
	if err != nil {
		return nil, err
	}
	q.Day = day

	limit := dto.NormalizeLimit(filter.Limit)
	total, err := s.repo.Count(ctx, q)
	if err != nil {
		return nil, err
	}
	page, totalPages := dto.ClampPage(filter.Page, limit, total)

	rows, err := s.repo.List(ctx, q, dto.Offset(page, limit), limit)
	if err != nil {
		return nil, err
	}
	data := make([]dto.OrderResponse, 0, len(rows))
	for i := range rows {
		data = append(data, toOrderResponse(&rows[i]))
	}
	return &dto.Page[dto.OrderResponse]{
		Data: data,
		Meta: dto.NewPageMeta(s.cfg.APIBaseURL+"/orders", total, page, totalPages, limit,
			dto.QueryParam{Key: "search", Value: q.Search},
			dto.QueryParam{Key: "phone", Value: q.Phone},
			dto.QueryParam{Key: "orderId", Value: q.OrderID},
			dto.QueryParam{Key: "date", Value: strings.TrimSpace(filter.Date)},
		),
	}, nil
}

// BulkImport stores historical order headers. It has no stock effect.
func (s *orderService) BulkImport(ctx context.Context, rows []dto.BulkOrderRow) (*dto.BulkResult, error) {
	if len(rows) == 0 {
		return nil, apierror.Invalid("body", "must be a non-empty array")
	}
	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		amount, err := parseAmount("order_amount", row.OrderAmount)
		if err != nil {
			return nil, err
		}
		shipping, err := parseAmount("shipping_amount", row.ShippingAmount)
		if err != nil {
			return nil, err
		}
		paid := decimal.Zero
		if row.PaymentAmount != nil {
			if paid, err = parseAmount("payment_amount", *row.PaymentAmount); err != nil {
				return nil, err
			}
		}
		o := model.Order{
			ID:             row.ID,
			OrderCode:      row.OrderCode,
			OrderAmount:    amount,
			ShippingAmount: shipping,
			PaymentAmount:  paid,
			ShippingName:   row.ShippingName,
			ShippingPhone:  row.ShippingPhone,
		}
		if row.PaymentStatus != nil {
			o.PaymentStatus = *row.PaymentStatus
		}
		orders = append(orders, o)
	}
	err := withStatsCleared(ctx, s.stats, func() error { return s.repo.CreateBatch(ctx, orders) })
	if err != nil {
		return nil, err
	}
	return &dto.BulkResult{Count: len(orders)}, nil
}

func (s *orderService) PackingSlip(ctx context.Context, id string) ([]byte, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return infra.GenerateOrderSlip(o)
}

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	StackTrace() errors.StackTrace
}

func (s *orderService) RecordFailure(ctx context.Context, endpoint string, body []byte, cause error) {
	entry := &model.ErrorLog{
		Timestamp:    time.Now(),
		Endpoint:     endpoint,
		RequestBody:  string(body),
		ErrorMessage: cause.Error(),
	}
	var st stackTracer
	if errors.As(cause, &st) {
		trace := fmt.Sprintf("%+v", cause)
		entry.StackTrace = &trace
	}
	// Detached from the request so a cancelled client still leaves a record.
	ctx = context.WithoutCancel(ctx)
	if err := s.errLogs.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("endpoint", endpoint).Msg("error log write failed")
	}
}

func buildOrder(req dto.CreateOrderRequest) *model.Order {
	o := &model.Order{
		ID:            req.ID,
		OrderCode:     req.OrderCode,
		OrderAmount:   req.OrderAmount,
		PaymentStatus: req.PaymentStatus,
		ShippingName:  req.ShippingName,
		ShippingPhone: req.ShippingPhone,
	}
	if req.ShippingAmount != nil {
		o.ShippingAmount = *req.ShippingAmount
	}
	for _, line := range req.OrderDetails {
		o.Details = append(o.Details, model.OrderDetail{
			ProductID:  line.ShopProductID,
			Quantity:   line.Quantity,
			Price:      line.Price,
			TotalPrice: line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))),
			Type:       line.Type,
			Pack:       line.Pack,
			Gifts:      giftSchedule(line.Gift),
		})
	}
	return o
}

func giftSchedule(g *dto.GiftInput) model.GiftSchedule {
	if g == nil {
		return model.GiftSchedule{}
	}
	val := func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	}
	return model.GiftSchedule{
		Normal250mlPack:    val(g.Normal250mlPack),
		Normal600mlPack:    val(g.Normal600mlPack),
		Normal1500mlPack:   val(g.Normal1500mlPack),
		Premium500mlPack:   val(g.Premium500mlPack),
		Premium500mlCarton: val(g.Premium500mlCarton),
	}
}

func toOrderResponse(o *model.Order) dto.OrderResponse {
	r := dto.OrderResponse{
		ID:             o.ID,
		OrderCode:      o.OrderCode,
		OrderAmount:    o.OrderAmount,
		PaymentStatus:  o.PaymentStatus,
		PaymentAmount:  o.PaymentAmount,
		ShippingName:   o.ShippingName,
		ShippingPhone:  o.ShippingPhone,
		ShippingAmount: o.ShippingAmount,
		CreatedAt:      o.CreatedAt,
	}
	for _, d := range o.Details {
		r.Details = append(r.Details, dto.OrderDetailResponse{
			ID:         d.ID,
			ProductID:  d.ProductID,
			Quantity:   d.Quantity,
			Price:      d.Price,
			TotalPrice: d.TotalPrice,
			Type:       d.Type,
			Pack:       d.Pack,
			Gift: dto.GiftResponse{
				Normal250mlPack:    d.Gifts.Normal250mlPack,
				Normal600mlPack:    d.Gifts.Normal600mlPack,
				Normal1500mlPack:   d.Gifts.Normal1500mlPack,
				Premium500mlPack:   d.Gifts.Premium500mlPack,
				Premium500mlCarton: d.Gifts.Premium500mlCarton,
			},
		})
	}
	return r
}
