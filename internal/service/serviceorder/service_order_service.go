// Package serviceorder 服务订单管理
package serviceorder

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dumeirei/dorm-admin-backend/internal/common/errors"
	"github.com/dumeirei/dorm-admin-backend/internal/common/logger"
	"github.com/dumeirei/dorm-admin-backend/internal/common/utils"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
	"github.com/dumeirei/dorm-admin-backend/internal/models"
	"github.com/dumeirei/dorm-admin-backend/internal/notify"
	"github.com/dumeirei/dorm-admin-backend/internal/repository"
	"github.com/dumeirei/dorm-admin-backend/internal/service/reconcile"
	"github.com/dumeirei/dorm-admin-backend/internal/service/reference"
	"github.com/dumeirei/dorm-admin-backend/internal/service/validation"
)

// ServiceOrderService 服务订单服务
type ServiceOrderService struct {
	repos     *repository.Repositories
	loader    *reference.Loader
	validator *validation.Validator
	notifier  notify.Notifier
	log       *zap.Logger
	now       func() time.Time
}

// NewServiceOrderService 创建服务订单服务
func NewServiceOrderService(
	repos *repository.Repositories,
	loader *reference.Loader,
	validator *validation.Validator,
	notifier notify.Notifier,
) *ServiceOrderService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &ServiceOrderService{
		repos:     repos,
		loader:    loader,
		validator: validator,
		notifier:  notifier,
		log:       logger.Named("service_order"),
		now:       time.Now,
	}
}

func (s *ServiceOrderService) fail(ctx context.Context, err *errors.AppError) error {
	s.notifier.Error(ctx, err.UserMessage())
	return err
}

// Create 创建服务订单，总价 = 数量 × 单价
func (s *ServiceOrderService) Create(ctx context.Context, adminID string, form *validation.ServiceOrderForm) (*models.ServiceOrder, error) {
	if res := s.validator.ValidateServiceOrder(form); !res.IsValid {
		return nil, s.fail(ctx, errors.ErrInvalidParams.WithFields(res.Errors))
	}
	if _, err := s.repos.Services.Get(ctx, form.ServiceID); err != nil {
		if errors.GetAppError(err).Code == errors.ErrNotFound.Code {
			return nil, s.fail(ctx, errors.ErrServiceNotFound.WithError(err))
		}
		return nil, s.fail(ctx, errors.GetAppError(err))
	}

	price := validation.ParseMoney(form.PricePerUnit)
	status := form.Status
	if status == "" {
		status = models.ServiceOrderStatusPending
	}
	order := models.ServiceOrder{
		UserID:       form.UserID,
		ServiceID:    form.ServiceID,
		RoomID:       form.RoomID,
		Quantity:     form.Quantity,
		PricePerUnit: price,
		TotalAmount:  models.ComputeFinalAmount(float64(form.Quantity)*price, 0, 0),
		Status:       status,
		Notes:        strings.TrimSpace(form.Notes),
		OrderDate:    models.NewTime(s.now().UTC()),
	}

	created, err := s.repos.ServiceOrders.Create(ctx, uuid.NewString(), order)
	if err != nil {
		return nil, s.fail(ctx, errors.GetAppError(err))
	}
	s.log.Info("service order created", logger.OrderID(created.ID), logger.AdminID(adminID))
	s.notifier.Success(ctx, "服务订单已创建")
	return &created, nil
}

func (s *ServiceOrderService) notFound(ctx context.Context, err error) error {
	if errors.GetAppError(err).Code == errors.ErrNotFound.Code {
		return s.fail(ctx, errors.ErrServiceOrderNotFound.WithError(err))
	}
	return s.fail(ctx, errors.GetAppError(err))
}

// UpdateStatus 修改订单状态
func (s *ServiceOrderService) UpdateStatus(ctx context.Context, adminID, id, status string) (*models.ServiceOrder, error) {
	if !utils.Contains(models.ServiceOrderStatuses, status) {
		return nil, s.fail(ctx, errors.ErrInvalidParams.WithFields(map[string]string{
			"status": "必须是以下之一: " + strings.Join(models.ServiceOrderStatuses, ", "),
		}))
	}
	updated, err := s.repos.ServiceOrders.Update(ctx, id, map[string]interface{}{"status": status})
	if err != nil {
		return nil, s.notFound(ctx, err)
	}
	s.log.Info("service order status changed", logger.OrderID(id), logger.AdminID(adminID), zap.String("status", status))
	s.notifier.Success(ctx, "订单状态已更新")
	return &updated, nil
}

// Delete 删除订单
func (s *ServiceOrderService) Delete(ctx context.Context, adminID, id string) error {
	if err := s.repos.ServiceOrders.Delete(ctx, id); err != nil {
		return s.notFound(ctx, err)
	}
	s.log.Info("service order deleted", logger.OrderID(id), logger.AdminID(adminID))
	s.notifier.Success(ctx, "服务订单已删除")
	return nil
}

// ListFilter 过滤条件
type ListFilter struct {
	Status string
	UserID string
	Query  string
}

// ListResult 带关联信息的订单列表
type ListResult struct {
	Items    []reconcile.ServiceOrderView `json:"items"`
	Warnings []reference.Warning          `json:"warnings"`
}

// List 加载订单及学生、服务、房间并拼接
func (s *ServiceOrderService) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	var filters []docstore.Filter
	if f.Status != "" {
		filters = append(filters, docstore.Equal("status", f.Status))
	}
	if f.UserID != "" {
		filters = append(filters, docstore.Equal("userId", f.UserID))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		filters = append(filters, docstore.Search("notes", q))
	}

	r := s.repos
	snap, err := s.loader.LoadSet(ctx,
		reference.For(r.ServiceOrders.Name(), filters...),
		reference.For(r.Users.Name()),
		reference.For(r.Services.Name()),
		reference.For(r.Rooms.Name()),
	)
	if err != nil {
		return nil, err
	}

	views := reconcile.JoinServiceOrders(reference.Typed(snap, r.ServiceOrders), reconcile.Refs{
		Users:    reference.Typed(snap, r.Users),
		Services: reference.Typed(snap, r.Services),
		Rooms:    reference.Typed(snap, r.Rooms),
	})
	return &ListResult{Items: views, Warnings: snap.Warnings()}, nil
}

// Services 可选服务目录
func (s *ServiceOrderService) Services(ctx context.Context) ([]models.Service, error) {
	docs, err := s.loader.LoadAll(ctx, s.repos.Services.Name())
	if err != nil {
		return nil, s.fail(ctx, errors.ErrFetchFailed.WithError(err))
	}
	return s.repos.Services.DecodeAll(docs), nil
}
