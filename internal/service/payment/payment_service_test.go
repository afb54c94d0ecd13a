package payment

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/dorm-admin-backend/internal/common/cache"
	"github.com/dumeirei/dorm-admin-backend/internal/common/config"
	"github.com/dumeirei/dorm-admin-backend/internal/common/errors"
	"github.com/dumeirei/dorm-admin-backend/internal/common/metrics"
	"github.com/dumeirei/dorm-admin-backend/internal/common/utils"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore/docstoretest"
	"github.com/dumeirei/dorm-admin-backend/internal/models"
	"github.com/dumeirei/dorm-admin-backend/internal/notify"
	"github.com/dumeirei/dorm-admin-backend/internal/repository"
	"github.com/dumeirei/dorm-admin-backend/internal/service/reconcile"
	"github.com/dumeirei/dorm-admin-backend/internal/service/reference"
	"github.com/dumeirei/dorm-admin-backend/internal/service/validation"
	"github.com/dumeirei/dorm-admin-backend/pkg/oss"
)

var fixedNow = time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)

// testPaymentService 测试用支付服务及其依赖
type testPaymentService struct {
	*PaymentService
	repos    *repository.Repositories
	rec      *docstoretest.Recorder
	notes    *notify.Collector
	uploader *oss.MockUploader
}

// setupTestPaymentService 创建测试用的 PaymentService，locker 可为 nil
func setupTestPaymentService(t *testing.T, locker *cache.Locker) *testPaymentService {
	t.Helper()
	cfg := config.Default()
	rec := docstoretest.NewRecorder(docstoretest.NewStore(t))
	repos := repository.New(rec, &cfg.Collections)
	notes := notify.NewCollector()
	m := metrics.New("test")
	uploader := oss.NewMockUploader()

	loader := reference.NewLoader(rec, &config.ReferenceConfig{PageSize: 2, Concurrency: 3}, notes, m)
	svc := NewPaymentService(repos, loader, validation.New(cfg.Business.Buildings), notes, locker, uploader, m)
	svc.now = func() time.Time { return fixedNow }

	docstoretest.Seed(t, rec, "users", map[string]map[string]interface{}{
		"u1": {"name": "Nguyen An", "role": "student"},
		"u2": {"name": "Tran Binh", "role": "student"},
	})
	docstoretest.Seed(t, rec, "services", map[string]map[string]interface{}{
		"s1": {"name": "Laundry", "price": 50},
	})
	docstoretest.Seed(t, rec, "service_orders", map[string]map[string]interface{}{
		"SO1": {"userId": "u1", "serviceId": "s1", "quantity": 2, "pricePerUnit": 50, "totalAmount": 100, "status": "completed"},
		"SO2": {"userId": "u2", "serviceId": "s1", "quantity": 1, "pricePerUnit": 50, "totalAmount": 50, "status": "pending"},
	})
	docstoretest.Seed(t, rec, "food_orders", map[string]map[string]interface{}{
		"F1": {"userId": "u2", "totalAmount": 30, "status": "delivered", "orderTime": "2024-03-05T12:30:00Z"},
	})
	docstoretest.Seed(t, rec, "rooms", map[string]map[string]interface{}{
		"r1": {"roomNumber": "A101", "type": "double", "capacity": 2, "building": "A"},
	})
	docstoretest.Seed(t, rec, "contracts", map[string]map[string]interface{}{
		"C1": {"userId": "u1", "roomIds": []string{"r1"}, "status": "active", "startDate": "2024-01-01"},
	})

	return &testPaymentService{PaymentService: svc, repos: repos, rec: rec, notes: notes, uploader: uploader}
}

func (s *testPaymentService) seedPayments(t *testing.T, docs map[string]map[string]interface{}) {
	docstoretest.Seed(t, s.rec, "payments", docs)
}

func (s *testPaymentService) paymentCount(t *testing.T) int64 {
	_, total, err := s.repos.Payments.List(context.Background(), docstore.ListOptions{Limit: 1})
	require.NoError(t, err)
	return total
}

func (s *testPaymentService) lastNote(t *testing.T) notify.Message {
	msgs := s.notes.Messages()
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1]
}

func serviceForm(orderID string) *validation.PaymentForm {
	return &validation.PaymentForm{
		UserID:         "u1",
		PaymentType:    "service",
		ServiceOrderID: orderID,
		Amount:         "100",
		TaxAmount:      "5",
		DiscountAmount: "10",
		PaymentMethod:  "cash",
		DueDate:        "2024-03-31",
	}
}

func contractForm(month string) *validation.PaymentForm {
	return &validation.PaymentForm{
		UserID:        "u1",
		PaymentType:   "contract",
		ContractID:    "C1",
		Amount:        "1500000",
		PaymentMethod: "bank_transfer",
		PaymentMonth:  month,
	}
}

func TestPaymentService_Create(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	ctx := context.Background()

	p, err := s.Create(ctx, "admin-1", serviceForm("SO1"))
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, models.PaymentStatusPending, p.Status)
	assert.Equal(t, 95.0, p.FinalAmount)
	assert.Equal(t, "SO1", p.ServiceOrderID)
	assert.Empty(t, p.ContractID)
	assert.Equal(t, "admin-1", p.CreatedBy)
	require.True(t, p.DueDate.Valid())
	assert.Equal(t, "2024-03-31", p.DueDate.Format("2006-01-02"))

	stored, err := s.repos.Payments.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 95.0, stored.FinalAmount)
	assert.True(t, stored.CreatedAt.Equal(fixedNow))

	assert.Equal(t, notify.LevelSuccess, s.lastNote(t).Level)
}

func TestPaymentService_CreateRejectsPaidOrder(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	ctx := context.Background()
	s.seedPayments(t, map[string]map[string]interface{}{
		"p-old": {"userId": "u1", "paymentType": "service", "serviceOrderId": "SO1", "status": "paid", "amount": 100, "finalAmount": 100},
	})

	_, err := s.Create(ctx, "admin-1", serviceForm("SO1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrOrderAlreadyPaid)
	assert.Equal(t, "orderAlreadyPaid", errors.GetAppError(err).Key)
	assert.Equal(t, int64(1), s.paymentCount(t))

	note := s.lastNote(t)
	assert.Equal(t, notify.LevelError, note.Level)
	assert.Equal(t, "该订单已支付", note.Message)

	t.Run("其他订单不受影响", func(t *testing.T) {
		_, err := s.Create(ctx, "admin-1", serviceForm("SO2"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), s.paymentCount(t))
	})
}

// 已支付记录无法解析时拒绝写入，而不是当作不存在
func TestPaymentService_CreateFailsClosedOnMalformedPayment(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	ctx := context.Background()
	s.seedPayments(t, map[string]map[string]interface{}{
		"p-bad": {"userId": "u1", "paymentType": "service", "serviceOrderId": "SO1", "status": "paid", "amount": 100, "dueDate": "15/03/2024"},
	})

	_, err := s.Create(ctx, "admin-1", serviceForm("SO1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrFetchFailed)
	assert.Equal(t, int64(1), s.paymentCount(t))
	assert.Equal(t, notify.LevelError, s.lastNote(t).Level)

	t.Run("预检查同样报错", func(t *testing.T) {
		_, err := s.CheckOrder(ctx, "SO1")
		assert.ErrorIs(t, err, errors.ErrFetchFailed)
	})

	t.Run("其他订单不受影响", func(t *testing.T) {
		_, err := s.Create(ctx, "admin-1", serviceForm("SO2"))
		require.NoError(t, err)
		assert.Equal(t, int64(2), s.paymentCount(t))
	})
}

func TestPaymentService_CreateAllowsWhenOnlyUnpaidExists(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	s.seedPayments(t, map[string]map[string]interface{}{
		"p-pending":  {"paymentType": "service", "serviceOrderId": "SO1", "status": "pending"},
		"p-refunded": {"paymentType": "service", "serviceOrderId": "SO1", "status": "refunded"},
		"p-failed":   {"paymentType": "service", "serviceOrderId": "SO1", "status": "failed"},
	})

	_, err := s.Create(context.Background(), "admin-1", serviceForm("SO1"))
	assert.NoError(t, err)
}

func TestPaymentService_CreateFoodOrder(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	form := &validation.PaymentForm{UserID: "u2", PaymentType: "food", FoodOrderID: "F1", Amount: "30", PaymentMethod: "momo"}

	_, err := s.Create(context.Background(), "admin-1", form)
	require.NoError(t, err)

	id, err := s.Create(context.Background(), "admin-1", form)
	require.NoError(t, err, "待支付记录不拦截")

	_, err = s.MarkPaid(context.Background(), "admin-1", id.ID)
	require.NoError(t, err)

	_, err = s.Create(context.Background(), "admin-1", form)
	assert.ErrorIs(t, err, errors.ErrOrderAlreadyPaid)
}

func TestPaymentService_CreateRejectsPaidContractMonth(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	ctx := context.Background()
	s.seedPayments(t, map[string]map[string]interface{}{
		"p-march": {"userId": "u1", "paymentType": "contract", "contractId": "C1", "status": "paid", "paymentMonth": "2024-03-15"},
	})

	_, err := s.Create(ctx, "admin-1", contractForm("2024-03-01"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMonthlyPaymentExists)
	assert.Contains(t, err.Error(), "p-march")
	assert.Equal(t, int64(1), s.paymentCount(t))

	p, err := s.Create(ctx, "admin-1", contractForm("2024-04"))
	require.NoError(t, err)
	assert.Equal(t, "C1", p.ContractID)
	assert.Equal(t, 1500000.0, p.FinalAmount)
	assert.Equal(t, "2024-04", p.PaymentMonth.Format("2006-01"))
}

func TestPaymentService_CreateValidation(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	form := serviceForm("SO1")
	form.Amount = "0"
	form.PaymentMethod = "bitcoin"

	_, err := s.Create(context.Background(), "admin-1", form)
	require.Error(t, err)

	appErr := errors.GetAppError(err)
	assert.Equal(t, errors.ErrInvalidParams.Code, appErr.Code)
	assert.Contains(t, appErr.Fields, "amount")
	assert.Contains(t, appErr.Fields, "paymentMethod")
	assert.Equal(t, 0, s.rec.ListCalls("payments"), "校验失败时不拉取数据")
	assert.Equal(t, int64(0), s.paymentCount(t))
}

func TestPaymentService_CreateMissingTarget(t *testing.T) {
	s := setupTestPaymentService(t, nil)

	_, err := s.Create(context.Background(), "admin-1", serviceForm("SO404"))
	assert.ErrorIs(t, err, errors.ErrServiceOrderNotFound)

	_, err = s.Create(context.Background(), "admin-1", &validation.PaymentForm{
		UserID: "u1", PaymentType: "contract", ContractID: "C404", Amount: "1", PaymentMethod: "cash", PaymentMonth: "2024-03",
	})
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.Equal(t, int64(0), s.paymentCount(t))
}

func TestPaymentService_CreateWriteFailure(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	s.rec.FailWrite("payments", stderrors.New("disk full"))

	_, err := s.Create(context.Background(), "admin-1", serviceForm("SO1"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrWriteFailed)

	note := s.lastNote(t)
	assert.Equal(t, notify.LevelError, note.Level)
	assert.Contains(t, note.Message, "disk full")
}

func TestPaymentService_CreateWithReservation(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	locker := cache.NewLocker(client, 5*time.Second)
	s := setupTestPaymentService(t, locker)
	ctx := context.Background()

	t.Run("账单被占用时拒绝", func(t *testing.T) {
		held, ok, err := locker.Acquire(ctx, "lock:payment:order:SO1")
		require.NoError(t, err)
		require.True(t, ok)

		_, err = s.Create(ctx, "admin-1", serviceForm("SO1"))
		assert.ErrorIs(t, err, errors.ErrPaymentBusy)
		assert.Equal(t, int64(0), s.paymentCount(t))

		require.NoError(t, locker.Release(ctx, held))
	})

	t.Run("释放后可以创建且锁被释放", func(t *testing.T) {
		_, err := s.Create(ctx, "admin-1", serviceForm("SO1"))
		require.NoError(t, err)
		assert.False(t, mr.Exists("lock:payment:order:SO1"))
	})

	t.Run("合同按月份加锁", func(t *testing.T) {
		held, ok, err := locker.Acquire(ctx, "lock:payment:contract:C1:2024-05")
		require.NoError(t, err)
		require.True(t, ok)
		defer func() { _ = locker.Release(ctx, held) }()

		_, err = s.Create(ctx, "admin-1", contractForm("2024-05-10"))
		assert.ErrorIs(t, err, errors.ErrPaymentBusy)

		_, err = s.Create(ctx, "admin-1", contractForm("2024-06-10"))
		assert.NoError(t, err)
	})

	t.Run("Redis 不可用时拒绝写入", func(t *testing.T) {
		mr.SetError("READONLY")
		defer mr.SetError("")

		_, err := s.Create(ctx, "admin-1", serviceForm("SO2"))
		assert.ErrorIs(t, err, errors.ErrCacheError)
	})
}

func TestPaymentService_Transitions(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	ctx := context.Background()

	created, err := s.Create(ctx, "admin-1", serviceForm("SO1"))
	require.NoError(t, err)

	t.Run("待支付不能直接退款", func(t *testing.T) {
		_, err := s.Refund(ctx, "admin-1", created.ID, "duplicate")
		assert.ErrorIs(t, err, errors.ErrPaymentStatusTransition)
	})

	t.Run("标记已支付", func(t *testing.T) {
		paid, err := s.MarkPaid(ctx, "admin-1", created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, paid.Status)
		require.True(t, paid.PaidDate.Valid())
		assert.True(t, paid.PaidDate.Equal(fixedNow))
		assert.Equal(t, 95.0, paid.FinalAmount)
	})

	t.Run("已支付不能再次标记", func(t *testing.T) {
		_, err := s.MarkPaid(ctx, "admin-1", created.ID)
		assert.ErrorIs(t, err, errors.ErrPaymentStatusTransition)
		_, err = s.MarkFailed(ctx, "admin-1", created.ID)
		assert.ErrorIs(t, err, errors.ErrPaymentStatusTransition)
	})

	t.Run("退款必须填写原因", func(t *testing.T) {
		_, err := s.Refund(ctx, "admin-1", created.ID, "   ")
		assert.ErrorIs(t, err, errors.ErrRefundReasonRequired)

		p, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusPaid, p.Status)
	})

	t.Run("退款", func(t *testing.T) {
		refunded, err := s.Refund(ctx, "admin-1", created.ID, " 重复收费 ")
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusRefunded, refunded.Status)
		assert.Equal(t, "重复收费", refunded.RefundReason)
		assert.True(t, refunded.RefundDate.Valid())
		assert.True(t, refunded.PaidDate.Valid())
	})

	t.Run("退款后订单可重新收款", func(t *testing.T) {
		_, err := s.Create(ctx, "admin-1", serviceForm("SO1"))
		assert.NoError(t, err)
	})

	t.Run("支付失败", func(t *testing.T) {
		p, err := s.Create(ctx, "admin-1", serviceForm("SO2"))
		require.NoError(t, err)
		failed, err := s.MarkFailed(ctx, "admin-1", p.ID)
		require.NoError(t, err)
		assert.Equal(t, models.PaymentStatusFailed, failed.Status)
	})

	t.Run("记录不存在", func(t *testing.T) {
		_, err := s.MarkPaid(ctx, "admin-1", "missing")
		assert.ErrorIs(t, err, errors.ErrPaymentNotFound)
	})
}

func TestPaymentService_List(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	ctx := context.Background()
	s.seedPayments(t, map[string]map[string]interface{}{
		"p1": {"userId": "u1", "paymentType": "service", "serviceOrderId": "SO1", "status": "paid"},
		"p2": {"userId": "u2", "paymentType": "food", "foodOrderId": "F1", "status": "pending"},
		"p3": {"userId": "u1", "paymentType": "contract", "contractId": "C1", "status": "paid", "paymentMonth": "2024-03-01"},
		"p4": {"userId": "ghost", "paymentType": "service", "serviceOrderId": "SO404", "status": "failed"},
	})

	t.Run("全部并拼接", func(t *testing.T) {
		res, err := s.List(ctx, ListFilter{})
		require.NoError(t, err)
		require.Len(t, res.Items, 4)
		assert.Empty(t, res.Warnings)

		byID := map[string]reconcile.PaymentView{}
		for _, v := range res.Items {
			byID[v.ID] = v
		}
		assert.Equal(t, "Nguyen An", byID["p1"].StudentName)
		assert.Equal(t, "Laundry", byID["p1"].ActivityName)
		assert.Equal(t, "Food order 2024-03-05 12:30", byID["p2"].ActivityName)
		assert.Equal(t, "Contract A101 2024-03", byID["p3"].ActivityName)
		assert.Equal(t, reconcile.UnknownUser, byID["p4"].StudentName)
		assert.Equal(t, reconcile.UnknownActivity, byID["p4"].ActivityName)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		res, err := s.List(ctx, ListFilter{Status: "paid"})
		require.NoError(t, err)
		assert.Len(t, res.Items, 2)
	})

	t.Run("按姓名搜索", func(t *testing.T) {
		res, err := s.List(ctx, ListFilter{Query: "binh"})
		require.NoError(t, err)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "p2", res.Items[0].ID)
	})

	t.Run("分页", func(t *testing.T) {
		res, err := s.List(ctx, ListFilter{Page: utils.Pagination{Page: 2, PageSize: 3}})
		require.NoError(t, err)
		assert.Equal(t, 4, res.Total)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, 2, res.Page)

		res, err = s.List(ctx, ListFilter{Page: utils.Pagination{Page: 5, PageSize: 3}})
		require.NoError(t, err)
		assert.Equal(t, 4, res.Total)
		assert.Empty(t, res.Items)
	})

	t.Run("关联集合失败时降级", func(t *testing.T) {
		s.rec.FailList("services", stderrors.New("timeout"))
		defer s.rec.FailList("services", nil)

		res, err := s.List(ctx, ListFilter{})
		require.NoError(t, err)
		require.Len(t, res.Items, 4)
		require.Len(t, res.Warnings, 1)
		assert.Equal(t, "services", res.Warnings[0].Collection)
		for _, v := range res.Items {
			if v.ID == "p1" {
				assert.Equal(t, reconcile.UnknownActivity, v.ActivityName)
				assert.Equal(t, "Nguyen An", v.StudentName)
			}
		}
	})
}

func TestPaymentService_Checks(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	ctx := context.Background()
	s.seedPayments(t, map[string]map[string]interface{}{
		"p1": {"paymentType": "service", "serviceOrderId": "SO1", "status": "paid"},
		"p2": {"paymentType": "contract", "contractId": "C1", "status": "paid", "paymentMonth": "2024-03-15"},
		"p3": {"paymentType": "service", "serviceOrderId": "SO2", "status": "pending"},
	})

	paid, err := s.CheckOrder(ctx, "SO1")
	require.NoError(t, err)
	assert.True(t, paid)

	paid, err = s.CheckOrder(ctx, "SO2")
	require.NoError(t, err)
	assert.False(t, paid)

	check, err := s.CheckContractMonth(ctx, "C1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, check.IsPaid)
	require.Len(t, check.ExistingPayments, 1)
	assert.Equal(t, "p2", check.ExistingPayments[0].ID)

	check, err = s.CheckContractMonth(ctx, "C1", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, check.IsPaid)
}

func TestPaymentService_Overdue(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	s.seedPayments(t, map[string]map[string]interface{}{
		"late":    {"status": "pending", "dueDate": "2024-03-01"},
		"ontime":  {"status": "pending", "dueDate": "2024-04-01"},
		"nodue":   {"status": "pending"},
		"settled": {"status": "paid", "dueDate": "2024-02-01"},
	})

	overdue, err := s.Overdue(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "late", overdue[0].ID)
}

func TestPaymentService_AttachReceipt(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	ctx := context.Background()
	p, err := s.Create(ctx, "admin-1", serviceForm("SO1"))
	require.NoError(t, err)

	pdf := []byte("%PDF-1.4\n1 0 obj\n")
	updated, err := s.AttachReceipt(ctx, "admin-1", p.ID, "receipt.pdf", int64(len(pdf)), bytes.NewReader(pdf))
	require.NoError(t, err)
	assert.Contains(t, updated.ReceiptURL, "receipts/"+p.ID+"/")
	require.Len(t, s.uploader.Files, 1)

	t.Run("文件类型不合法", func(t *testing.T) {
		_, err := s.AttachReceipt(ctx, "admin-1", p.ID, "receipt.exe", 2, bytes.NewReader([]byte("MZ")))
		assert.ErrorIs(t, err, errors.ErrInvalidParams)
	})

	t.Run("记录不存在", func(t *testing.T) {
		_, err := s.AttachReceipt(ctx, "admin-1", "missing", "r.pdf", int64(len(pdf)), bytes.NewReader(pdf))
		assert.ErrorIs(t, err, errors.ErrPaymentNotFound)
	})
}

func TestPaymentService_QRCode(t *testing.T) {
	s := setupTestPaymentService(t, nil)
	ctx := context.Background()
	p, err := s.Create(ctx, "admin-1", serviceForm("SO2"))
	require.NoError(t, err)

	qr, err := s.QRCode(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, qr.PaymentID)
	assert.Equal(t, p.FinalAmount, qr.Amount)
	assert.Equal(t, Reference(p.ID), qr.Reference)
	assert.True(t, strings.HasPrefix(qr.Image, "data:image/png;base64,"))

	t.Run("已支付不再生成", func(t *testing.T) {
		_, err := s.MarkPaid(ctx, "admin-1", p.ID)
		require.NoError(t, err)
		_, err = s.QRCode(ctx, p.ID)
		assert.ErrorIs(t, err, errors.ErrPaymentStatusTransition)
	})
}

func TestReference(t *testing.T) {
	assert.Equal(t, "DORMP1", Reference("p1"))
	assert.Equal(t, "DORM3F2A9C1B7E", Reference("3f2a9c1b-7e44-4b7d-9a55-0c0e2f1d8a10"))
}
