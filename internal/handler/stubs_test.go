package handler

import (
	"context"
	"sync"

	"github.com/tonsisouvanh/mineral-inventory-system/internal/dto"
	"github.com/tonsisouvanh/mineral-inventory-system/internal/model"

	"gorm.io/gorm"
)

type failureRecord struct {
	endpoint string
	body     string
	cause    error
}

type stubOrderService struct {
	mu       sync.Mutex
	created  []dto.CreateOrderRequest
	failures []failureRecord
	createFn func(req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	pdf      []byte
	pdfErr   error
}

func (s *stubOrderService) Create(_ context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	s.mu.Lock()
	s.created = append(s.created, req)
	s.mu.Unlock()
	if s.createFn != nil {
		return s.createFn(req)
	}
	return &dto.OrderResponse{ID: req.ID, OrderCode: req.OrderCode}, nil
}

func (s *stubOrderService) Get(_ context.Context, id string) (*dto.OrderResponse, error) {
	return &dto.OrderResponse{ID: id}, nil
}

func (s *stubOrderService) List(_ context.Context, _ dto.OrderFilter) (*dto.Page[dto.OrderResponse], error) {
	return &dto.Page[dto.OrderResponse]{Data: []dto.OrderResponse{}}, nil
}

func (s *stubOrderService) BulkImport(_ context.Context, rows []dto.BulkOrderRow) (*dto.BulkResult, error) {
	return &dto.BulkResult{Count: len(rows)}, nil
}

func (s *stubOrderService) PackingSlip(_ context.Context, _ string) ([]byte, error) {
	return s.pdf, s.pdfErr
}

func (s *stubOrderService) RecordFailure(_ context.Context, endpoint string, body []byte, cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failureRecord{endpoint: endpoint, body: string(body), cause: cause})
}

type stubStockService struct {
	actor     *int64
	productID int64
	err       error
}

func (s *stubStockService) Create(_ context.Context, actorID *int64, productID int64, req dto.CreateStockRequest) (*dto.StockResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.actor = actorID
	s.productID = productID
	return &dto.StockResponse{ID: 1, ProductID: productID, MovementType: req.MovementType, Quantity: req.Quantity, CreatedBy: actorID}, nil
}

func (s *stubStockService) Update(_ context.Context, id int64, req dto.UpdateStockRequest) (*dto.StockResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.StockResponse{ID: id, MovementType: req.MovementType, Quantity: req.Quantity}, nil
}

func (s *stubStockService) Delete(_ context.Context, _ int64) error { return s.err }

func (s *stubStockService) List(_ context.Context, _ dto.StockFilter) (*dto.Page[dto.StockResponse], error) {
	return &dto.Page[dto.StockResponse]{Data: []dto.StockResponse{}}, s.err
}

func (s *stubStockService) Count(_ context.Context) (*dto.StockCountResponse, error) {
	return &dto.StockCountResponse{}, s.err
}

func (s *stubStockService) RecordTx(_ *gorm.DB, _ *model.StockMovement) error { return s.err }

type stubAuthService struct {
	tokens     *dto.SessionTokens
	err        error
	signedOut  []int64
	refreshArg string
}

func (s *stubAuthService) SignIn(_ context.Context, _ dto.SignInRequest) (*dto.SessionTokens, error) {
	return s.tokens, s.err
}

func (s *stubAuthService) Refresh(_ context.Context, token string) (*dto.SessionTokens, error) {
	s.refreshArg = token
	return s.tokens, s.err
}

func (s *stubAuthService) SignOut(_ context.Context, userID int64) error {
	s.signedOut = append(s.signedOut, userID)
	return s.err
}

func (s *stubAuthService) Me(_ context.Context, userID int64) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID}, s.err
}
