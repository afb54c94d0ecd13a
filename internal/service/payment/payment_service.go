// Package payment 支付服务
// 创建前执行表单校验和重复支付检查，之后的状态流转不再检查重复
package payment

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dumeirei/dorm-admin-backend/internal/common/cache"
	"github.com/dumeirei/dorm-admin-backend/internal/common/errors"
	"github.com/dumeirei/dorm-admin-backend/internal/common/logger"
	"github.com/dumeirei/dorm-admin-backend/internal/common/metrics"
	"github.com/dumeirei/dorm-admin-backend/internal/common/qrcode"
	"github.com/dumeirei/dorm-admin-backend/internal/common/tracing"
	"github.com/dumeirei/dorm-admin-backend/internal/common/utils"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
	"github.com/dumeirei/dorm-admin-backend/internal/models"
	"github.com/dumeirei/dorm-admin-backend/internal/notify"
	"github.com/dumeirei/dorm-admin-backend/internal/repository"
	"github.com/dumeirei/dorm-admin-backend/internal/service/reconcile"
	"github.com/dumeirei/dorm-admin-backend/internal/service/reference"
	"github.com/dumeirei/dorm-admin-backend/internal/service/validation"
	"github.com/dumeirei/dorm-admin-backend/pkg/oss"
)

// MaxReceiptSize 凭证文件大小上限
const MaxReceiptSize = 10 << 20

// 允许的状态流转
var transitions = map[string][]string{
	models.PaymentStatusPending: {models.PaymentStatusPaid, models.PaymentStatusFailed},
	models.PaymentStatusPaid:    {models.PaymentStatusRefunded},
}

// CanTransition 判断状态流转是否允许
func CanTransition(from, to string) bool {
	return utils.Contains(transitions[from], to)
}

// PaymentService 支付服务
type PaymentService struct {
	repos     *repository.Repositories
	loader    *reference.Loader
	validator *validation.Validator
	notifier  notify.Notifier
	locker    *cache.Locker
	uploader  oss.Uploader
	metrics   *metrics.Metrics
	qr        *qrcode.Generator
	log       *zap.Logger
	now       func() time.Time
}

// NewPaymentService 创建支付服务，locker 和 uploader 可为 nil
func NewPaymentService(
	repos *repository.Repositories,
	loader *reference.Loader,
	validator *validation.Validator,
	notifier notify.Notifier,
	locker *cache.Locker,
	uploader oss.Uploader,
	m *metrics.Metrics,
) *PaymentService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &PaymentService{
		repos:     repos,
		loader:    loader,
		validator: validator,
		notifier:  notifier,
		locker:    locker,
		uploader:  uploader,
		metrics:   m,
		qr:        qrcode.NewGenerator(),
		log:       logger.Named("payment"),
		now:       time.Now,
	}
}

// fail 通知并返回错误
func (s *PaymentService) fail(ctx context.Context, err *errors.AppError) error {
	s.notifier.Error(ctx, err.UserMessage())
	return err
}

// Create 创建待支付记录：校验 → 重新拉取该账单的支付记录 → 重复检查 → 写入
func (s *PaymentService) Create(ctx context.Context, adminID string, form *validation.PaymentForm) (*models.Payment, error) {
	ctx, span := tracing.StartSpan(ctx, "payment.Create", tracing.WithOperation("create"))
	defer span.End()

	if res := s.validator.ValidatePayment(form); !res.IsValid {
		return nil, s.fail(ctx, errors.ErrInvalidParams.WithFields(res.Errors))
	}

	payment := s.fromForm(adminID, form)

	if err := s.ensureTargetExists(ctx, payment); err != nil {
		tracing.SetError(span, err)
		return nil, err
	}

	if s.locker != nil {
		lock, ok, err := s.locker.Acquire(ctx, reservationKey(payment))
		if err != nil {
			s.log.Error("acquire payment reservation failed", logger.Err(err))
			return nil, s.fail(ctx, errors.ErrCacheError.WithError(err))
		}
		if !ok {
			return nil, s.fail(ctx, errors.ErrPaymentBusy)
		}
		defer func() {
			if err := s.locker.Release(context.WithoutCancel(ctx), lock); err != nil {
				s.log.Warn("release payment reservation failed", zap.String("key", lock.Key), logger.Err(err))
			}
		}()
	}

	if err := s.guard(ctx, payment); err != nil {
		tracing.SetError(span, err)
		return nil, err
	}

	created, err := s.repos.Payments.Create(ctx, uuid.NewString(), *payment)
	if err != nil {
		tracing.SetError(span, err)
		return nil, s.fail(ctx, errors.GetAppError(err))
	}

	s.metrics.RecordPayment(created.PaymentType, created.Status)
	s.log.Info("payment created",
		logger.PaymentID(created.ID),
		logger.AdminID(adminID),
		zap.String("type", created.PaymentType),
		zap.Float64("final_amount", created.FinalAmount),
	)
	s.notifier.Success(ctx, "支付记录已创建")
	return &created, nil
}

func (s *PaymentService) fromForm(adminID string, form *validation.PaymentForm) *models.Payment {
	amount := validation.ParseMoney(form.Amount)
	tax := validation.ParseMoney(form.TaxAmount)
	discount := validation.ParseMoney(form.DiscountAmount)

	p := &models.Payment{
		UserID:         form.UserID,
		PaymentType:    form.PaymentType,
		Amount:         amount,
		TaxAmount:      tax,
		DiscountAmount: discount,
		FinalAmount:    models.ComputeFinalAmount(amount, discount, tax),
		Status:         models.PaymentStatusPending,
		PaymentMethod:  form.PaymentMethod,
		Notes:          strings.TrimSpace(form.Notes),
		CreatedBy:      adminID,
		CreatedAt:      models.NewTime(s.now().UTC()),
	}
	switch form.PaymentType {
	case models.PaymentTypeService:
		p.ServiceOrderID = form.ServiceOrderID
	case models.PaymentTypeFood:
		p.FoodOrderID = form.FoodOrderID
	case models.PaymentTypeContract:
		p.ContractID = form.ContractID
		if month, err := models.ParseTime(form.PaymentMonth); err == nil {
			p.PaymentMonth = models.NewTime(month)
		}
	}
	if due, err := models.ParseTime(form.DueDate); err == nil {
		p.DueDate = models.NewTime(due)
	}
	return p
}

// ensureTargetExists 确认支付关联的订单或合同存在
func (s *PaymentService) ensureTargetExists(ctx context.Context, p *models.Payment) error {
	var err error
	var notFound *errors.AppError
	switch p.PaymentType {
	case models.PaymentTypeService:
		_, err = s.repos.ServiceOrders.Get(ctx, p.ServiceOrderID)
		notFound = errors.ErrServiceOrderNotFound
	case models.PaymentTypeFood:
		_, err = s.repos.FoodOrders.Get(ctx, p.FoodOrderID)
		notFound = errors.ErrNotFound.WithMessage("餐饮订单不存在")
	case models.PaymentTypeContract:
		_, err = s.repos.Contracts.Get(ctx, p.ContractID)
		notFound = errors.ErrNotFound.WithMessage("合同不存在")
	}
	if err == nil {
		return nil
	}
	if errors.GetAppError(err).Code == errors.ErrNotFound.Code {
		return s.fail(ctx, notFound.WithError(err))
	}
	return s.fail(ctx, errors.GetAppError(err))
}

// reservationKey 账单预占键
func reservationKey(p *models.Payment) string {
	if p.PaymentType == models.PaymentTypeContract {
		return cache.BuildKey(cache.KeyPrefixPayment, "contract", p.ContractID, utils.MonthKey(p.PaymentMonth.Time))
	}
	return cache.BuildKey(cache.KeyPrefixPayment, "order", p.OrderID())
}

// billPayments 拉取同一账单的最新支付记录
// 有记录无法解析时返回错误，避免漏判已支付
func (s *PaymentService) billPayments(ctx context.Context, p *models.Payment) ([]models.Payment, error) {
	var filter docstore.Filter
	switch p.PaymentType {
	case models.PaymentTypeService:
		filter = docstore.Equal("serviceOrderId", p.ServiceOrderID)
	case models.PaymentTypeFood:
		filter = docstore.Equal("foodOrderId", p.FoodOrderID)
	default:
		filter = docstore.Equal("contractId", p.ContractID)
	}
	docs, err := s.loader.LoadAll(ctx, s.repos.Payments.Name(), filter)
	if err != nil {
		return nil, err
	}
	return s.repos.Payments.DecodeAllStrict(docs)
}

// guard 重复支付检查，命中时不写入
func (s *PaymentService) guard(ctx context.Context, p *models.Payment) error {
	existing, err := s.billPayments(ctx, p)
	if err != nil {
		return s.fail(ctx, errors.ErrFetchFailed.WithError(err))
	}

	if p.PaymentType == models.PaymentTypeContract {
		check := IsContractMonthPaid(p.ContractID, p.PaymentMonth.Time, existing)
		if check.IsPaid {
			s.metrics.RecordGuardRejection(errors.ErrMonthlyPaymentExists.Key)
			s.log.Info("payment rejected", logger.ContractID(p.ContractID),
				zap.String("month", utils.MonthKey(p.PaymentMonth.Time)),
				zap.Int("existing", len(check.ExistingPayments)))
			return s.fail(ctx, errors.ErrMonthlyPaymentExists.WithMessage(
				fmt.Sprintf("该合同 %s 已有支付记录: %s", utils.MonthKey(p.PaymentMonth.Time), paymentIDs(check.ExistingPayments))))
		}
		return nil
	}

	if IsOrderPaid(p.OrderID(), existing) {
		s.metrics.RecordGuardRejection(errors.ErrOrderAlreadyPaid.Key)
		s.log.Info("payment rejected", logger.OrderID(p.OrderID()))
		return s.fail(ctx, errors.ErrOrderAlreadyPaid)
	}
	return nil
}

func paymentIDs(payments []models.Payment) string {
	ids := make([]string, 0, len(payments))
	for _, p := range payments {
		ids = append(ids, p.ID)
	}
	return strings.Join(ids, ", ")
}

// get 获取支付记录
func (s *PaymentService) get(ctx context.Context, id string) (*models.Payment, error) {
	p, err := s.repos.Payments.Get(ctx, id)
	if err != nil {
		if errors.GetAppError(err).Code == errors.ErrNotFound.Code {
			return nil, s.fail(ctx, errors.ErrPaymentNotFound.WithError(err))
		}
		return nil, s.fail(ctx, errors.GetAppError(err))
	}
	return &p, nil
}

// transition 执行状态流转
func (s *PaymentService) transition(ctx context.Context, adminID, id, to string, patch map[string]interface{}, okMsg string) (*models.Payment, error) {
	ctx, span := tracing.StartSpan(ctx, "payment.Transition",
		tracing.WithOperation(to), tracing.AttrPaymentID.String(id))
	defer span.End()

	current, err := s.get(ctx, id)
	if err != nil {
		tracing.SetError(span, err)
		return nil, err
	}
	if !CanTransition(current.Status, to) {
		return nil, s.fail(ctx, errors.ErrPaymentStatusTransition.WithMessage(
			fmt.Sprintf("不能从 %s 变更为 %s", current.Status, to)))
	}

	patch["status"] = to
	updated, err := s.repos.Payments.Update(ctx, id, patch)
	if err != nil {
		tracing.SetError(span, err)
		return nil, s.fail(ctx, errors.GetAppError(err))
	}

	s.metrics.RecordPayment(updated.PaymentType, to)
	s.log.Info("payment status changed",
		logger.PaymentID(id),
		logger.AdminID(adminID),
		zap.String("from", current.Status),
		zap.String("to", to),
	)
	s.notifier.Success(ctx, okMsg)
	return &updated, nil
}

func (s *PaymentService) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

// MarkPaid 标记为已支付
func (s *PaymentService) MarkPaid(ctx context.Context, adminID, id string) (*models.Payment, error) {
	return s.transition(ctx, adminID, id, models.PaymentStatusPaid,
		map[string]interface{}{"paidDate": s.timestamp()}, "已标记为已支付")
}

// MarkFailed 标记为支付失败
func (s *PaymentService) MarkFailed(ctx context.Context, adminID, id string) (*models.Payment, error) {
	return s.transition(ctx, adminID, id, models.PaymentStatusFailed,
		map[string]interface{}{}, "已标记为支付失败")
}

// Refund 退款，必须填写原因
func (s *PaymentService) Refund(ctx context.Context, adminID, id, reason string) (*models.Payment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, s.fail(ctx, errors.ErrRefundReasonRequired)
	}
	return s.transition(ctx, adminID, id, models.PaymentStatusRefunded,
		map[string]interface{}{"refundDate": s.timestamp(), "refundReason": reason}, "退款已登记")
}

// Get 获取单条支付记录
func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	return s.get(ctx, id)
}

// ListFilter 列表过滤条件
type ListFilter struct {
	Status      string
	PaymentType string
	UserID      string
	Query       string
	Page        utils.Pagination // PageSize 为 0 时不分页
}

// ListResult 带关联信息的支付列表
type ListResult struct {
	Items    []reconcile.PaymentView `json:"items"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page,omitempty"`
	PageSize int                     `json:"pageSize,omitempty"`
	Warnings []reference.Warning     `json:"warnings"`
}

// List 加载支付及其关联集合并拼接，单个集合失败时降级为空
func (s *PaymentService) List(ctx context.Context, f ListFilter) (*ListResult, error) {
	var filters []docstore.Filter
	if f.Status != "" {
		filters = append(filters, docstore.Equal("status", f.Status))
	}
	if f.PaymentType != "" {
		filters = append(filters, docstore.Equal("paymentType", f.PaymentType))
	}
	if f.UserID != "" {
		filters = append(filters, docstore.Equal("userId", f.UserID))
	}

	r := s.repos
	snap, err := s.loader.LoadSet(ctx,
		reference.For(r.Payments.Name(), filters...),
		reference.For(r.Users.Name()),
		reference.For(r.ServiceOrders.Name()),
		reference.For(r.Services.Name()),
		reference.For(r.Contracts.Name()),
		reference.For(r.Rooms.Name()),
		reference.For(r.FoodOrders.Name()),
	)
	if err != nil {
		return nil, err
	}

	payments := reference.Typed(snap, r.Payments)
	// 最新的在前
	for i, j := 0, len(payments)-1; i < j; i, j = i+1, j-1 {
		payments[i], payments[j] = payments[j], payments[i]
	}

	views := reconcile.JoinPayments(payments, reconcile.Refs{
		Users:         reference.Typed(snap, r.Users),
		ServiceOrders: reference.Typed(snap, r.ServiceOrders),
		Services:      reference.Typed(snap, r.Services),
		Contracts:     reference.Typed(snap, r.Contracts),
		Rooms:         reference.Typed(snap, r.Rooms),
		FoodOrders:    reference.Typed(snap, r.FoodOrders),
	})

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		filtered := views[:0]
		for _, v := range views {
			if strings.Contains(strings.ToLower(v.StudentName), q) ||
				strings.Contains(strings.ToLower(v.ActivityName), q) ||
				strings.Contains(strings.ToLower(v.ID), q) {
				filtered = append(filtered, v)
			}
		}
		views = filtered
	}

	result := &ListResult{Total: len(views), Warnings: snap.Warnings()}
	if f.Page.PageSize > 0 {
		start := min(f.Page.GetOffset(), len(views))
		end := min(start+f.Page.GetLimit(), len(views))
		views = views[start:end]
		result.Page, result.PageSize = f.Page.Page, f.Page.PageSize
	}
	result.Items = views
	return result, nil
}

// paidIndex 拉取全部已支付记录并建立索引
func (s *PaymentService) paidIndex(ctx context.Context) (*Index, error) {
	docs, err := s.loader.LoadAll(ctx, s.repos.Payments.Name(), docstore.Equal("status", models.PaymentStatusPaid))
	if err != nil {
		return nil, errors.ErrFetchFailed.WithError(err)
	}
	payments, err := s.repos.Payments.DecodeAllStrict(docs)
	if err != nil {
		return nil, errors.ErrFetchFailed.WithError(err)
	}
	return NewIndex(payments), nil
}

// CheckOrder 对话框中的预检查：订单是否已支付
func (s *PaymentService) CheckOrder(ctx context.Context, orderID string) (bool, error) {
	idx, err := s.paidIndex(ctx)
	if err != nil {
		return false, err
	}
	return idx.OrderPaid(orderID), nil
}

// CheckContractMonth 对话框中的预检查：合同该月是否已支付
func (s *PaymentService) CheckContractMonth(ctx context.Context, contractID string, month time.Time) (MonthCheck, error) {
	idx, err := s.paidIndex(ctx)
	if err != nil {
		return MonthCheck{ExistingPayments: []models.Payment{}}, err
	}
	return idx.ContractMonth(contractID, month), nil
}

// Overdue 已过到期日仍待支付的记录
func (s *PaymentService) Overdue(ctx context.Context, now time.Time) ([]models.Payment, error) {
	docs, err := s.loader.LoadAll(ctx, s.repos.Payments.Name(), docstore.Equal("status", models.PaymentStatusPending))
	if err != nil {
		return nil, errors.ErrFetchFailed.WithError(err)
	}
	var overdue []models.Payment
	for _, p := range s.repos.Payments.DecodeAll(docs) {
		if p.DueDate.Valid() && p.DueDate.Before(now) {
			overdue = append(overdue, p)
		}
	}
	return overdue, nil
}

// AttachReceipt 上传支付凭证并记录地址
func (s *PaymentService) AttachReceipt(ctx context.Context, adminID, id, filename string, size int64, r io.Reader) (*models.Payment, error) {
	if s.uploader == nil {
		return nil, s.fail(ctx, errors.ErrUploadFailed.WithMessage("未配置对象存储"))
	}
	if _, err := s.get(ctx, id); err != nil {
		return nil, err
	}

	body, err := oss.ValidateReceipt(filename, size, MaxReceiptSize, r)
	if err != nil {
		return nil, s.fail(ctx, errors.ErrInvalidParams.WithFields(map[string]string{"file": err.Error()}))
	}
	url, err := s.uploader.Upload(ctx, oss.ReceiptKey(id, filename), body)
	if err != nil {
		s.log.Error("upload receipt failed", logger.PaymentID(id), logger.Err(err))
		return nil, s.fail(ctx, errors.ErrUploadFailed.WithError(err))
	}

	updated, err := s.repos.Payments.Update(ctx, id, map[string]interface{}{"receiptUrl": url})
	if err != nil {
		return nil, s.fail(ctx, errors.GetAppError(err))
	}
	s.log.Info("receipt attached", logger.PaymentID(id), logger.AdminID(adminID))
	s.notifier.Success(ctx, "凭证已上传")
	return &updated, nil
}

// PaymentQR 付款二维码
type PaymentQR struct {
	PaymentID string  `json:"paymentId"`
	Amount    float64 `json:"amount"`
	Reference string  `json:"reference"`
	Image     string  `json:"image"`
}

// Reference 转账备注使用的付款参考号
func Reference(paymentID string) string {
	ref := strings.ToUpper(strings.ReplaceAll(paymentID, "-", ""))
	if len(ref) > 10 {
		ref = ref[:10]
	}
	return "DORM" + ref
}

// QRCode 为待支付记录生成付款二维码
func (s *PaymentService) QRCode(ctx context.Context, id string) (*PaymentQR, error) {
	p, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status != models.PaymentStatusPending {
		return nil, s.fail(ctx, errors.ErrPaymentStatusTransition.WithMessage("仅待支付的记录可生成付款二维码"))
	}

	payload := qrcode.PaymentPayload{PaymentID: p.ID, Amount: p.FinalAmount, Reference: Reference(p.ID)}
	image, err := s.qr.DataURL(qrcode.EncodePayment(payload))
	if err != nil {
		return nil, s.fail(ctx, errors.ErrInternalError.WithError(err))
	}
	return &PaymentQR{
		PaymentID: p.ID,
		Amount:    p.FinalAmount,
		Reference: payload.Reference,
		Image:     image,
	}, nil
}
