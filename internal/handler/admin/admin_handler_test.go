package admin

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/dorm-admin-backend/internal/common/config"
	"github.com/dumeirei/dorm-admin-backend/internal/common/errors"
	"github.com/dumeirei/dorm-admin-backend/internal/common/jwt"
	"github.com/dumeirei/dorm-admin-backend/internal/common/metrics"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore/docstoretest"
	"github.com/dumeirei/dorm-admin-backend/internal/middleware"
	"github.com/dumeirei/dorm-admin-backend/internal/notify"
	"github.com/dumeirei/dorm-admin-backend/internal/repository"
	"github.com/dumeirei/dorm-admin-backend/internal/service/payment"
	"github.com/dumeirei/dorm-admin-backend/internal/service/reference"
	"github.com/dumeirei/dorm-admin-backend/internal/service/room"
	"github.com/dumeirei/dorm-admin-backend/internal/service/serviceorder"
	"github.com/dumeirei/dorm-admin-backend/internal/service/validation"
	"github.com/dumeirei/dorm-admin-backend/pkg/oss"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// body 通用响应结构，data 延迟解析
type body struct {
	Code          int               `json:"code"`
	Message       string            `json:"message"`
	Key           string            `json:"key"`
	Fields        map[string]string `json:"fields"`
	Data          json.RawMessage   `json:"data"`
	Notifications []notify.Message  `json:"notifications"`
}

type testServer struct {
	router   *gin.Engine
	rec      *docstoretest.Recorder
	uploader *oss.MockUploader
}

// setupTestServer 组装内存存储上的全部管理端路由，auth 为 false 时不注入管理员
func setupTestServer(t *testing.T, auth bool) *testServer {
	t.Helper()
	role := ""
	if auth {
		role = jwt.RoleAdmin
	}
	return setupTestServerAs(t, role)
}

// setupTestServerAs 以指定角色登录，role 为空时不注入管理员
func setupTestServerAs(t *testing.T, role string) *testServer {
	t.Helper()
	cfg := config.Default()
	rec := docstoretest.NewRecorder(docstoretest.NewStore(t))
	repos := repository.New(rec, &cfg.Collections)
	m := metrics.New("test")
	notifier := notify.Contextual{}
	uploader := oss.NewMockUploader()
	validator := validation.New(cfg.Business.Buildings)
	loader := reference.NewLoader(rec, &cfg.Reference, notifier, m)

	paymentSvc := payment.NewPaymentService(repos, loader, validator, notifier, nil, uploader, m)
	roomSvc := room.NewRoomService(repos, loader, validator, notifier, uploader)
	orderSvc := serviceorder.NewServiceOrderService(repos, loader, validator, notifier)

	r := gin.New()
	r.Use(middleware.Notifications())
	api := r.Group("/api/admin")
	if role != "" {
		api.Use(func(c *gin.Context) {
			c.Set(middleware.ContextKeyAdminID, "admin-1")
			c.Set(middleware.ContextKeyRole, role)
			c.Next()
		})
	}
	NewPaymentHandler(paymentSvc).RegisterRoutes(api)
	NewRoomHandler(roomSvc).RegisterRoutes(api)
	NewServiceOrderHandler(orderSvc).RegisterRoutes(api)
	NewReferenceHandler(loader, cfg.Collections.Users, cfg.Collections.Services, cfg.Collections.Rooms).RegisterRoutes(api)

	docstoretest.Seed(t, rec, "users", map[string]map[string]interface{}{
		"u1": {"name": "Nguyen An", "role": "student"},
	})
	docstoretest.Seed(t, rec, "services", map[string]map[string]interface{}{
		"s1": {"name": "Laundry", "price": 50},
	})
	docstoretest.Seed(t, rec, "service_orders", map[string]map[string]interface{}{
		"SO1": {"userId": "u1", "serviceId": "s1", "quantity": 2, "pricePerUnit": 50, "totalAmount": 100, "status": "completed"},
	})
	docstoretest.Seed(t, rec, "rooms", map[string]map[string]interface{}{
		"r1": {"roomNumber": "A101", "type": "double", "capacity": 2, "building": "A", "status": "available"},
	})
	docstoretest.Seed(t, rec, "contracts", map[string]map[string]interface{}{
		"C1": {"userId": "u1", "roomIds": []string{"r1"}, "status": "active", "startDate": "2024-01-01"},
	})

	return &testServer{router: r, rec: rec, uploader: uploader}
}

func (s *testServer) do(t *testing.T, method, path string, payload interface{}) (*httptest.ResponseRecorder, body) {
	t.Helper()
	var reader *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return s.serve(t, req)
}

func (s *testServer) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, body) {
	t.Helper()
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var b body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return w, b
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func servicePaymentForm() map[string]string {
	return map[string]string{
		"userId":         "u1",
		"paymentType":    "service",
		"serviceOrderId": "SO1",
		"amount":         "100",
		"taxAmount":      "5",
		"discountAmount": "10",
		"paymentMethod":  "cash",
	}
}

func TestPaymentHandler_CreateAndGuard(t *testing.T) {
	s := setupTestServer(t, true)

	w, b := s.do(t, http.MethodPost, "/api/admin/payments", servicePaymentForm())
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 0, b.Code, b.Message)
	created := decode[map[string]interface{}](t, b.Data)
	assert.Equal(t, 95.0, created["finalAmount"])
	assert.Equal(t, "pending", created["status"])
	require.NotEmpty(t, b.Notifications)
	assert.Equal(t, notify.LevelSuccess, b.Notifications[0].Level)

	id := created["id"].(string)
	_, b = s.do(t, http.MethodPost, "/api/admin/payments/"+id+"/paid", nil)
	require.Equal(t, 0, b.Code, b.Message)
	assert.Equal(t, "paid", decode[map[string]interface{}](t, b.Data)["status"])

	t.Run("订单已支付时拒绝", func(t *testing.T) {
		w, b := s.do(t, http.MethodPost, "/api/admin/payments", servicePaymentForm())
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, errors.ErrOrderAlreadyPaid.Code, b.Code)
		assert.Equal(t, "orderAlreadyPaid", b.Key)
		require.NotEmpty(t, b.Notifications)
		assert.Equal(t, notify.LevelError, b.Notifications[len(b.Notifications)-1].Level)
	})

	t.Run("查询订单支付状态", func(t *testing.T) {
		_, b := s.do(t, http.MethodGet, "/api/admin/payments/check/order/SO1", nil)
		require.Equal(t, 0, b.Code)
		assert.Equal(t, true, decode[map[string]interface{}](t, b.Data)["isPaid"])
	})

	t.Run("列表带学生姓名与服务名", func(t *testing.T) {
		_, b := s.do(t, http.MethodGet, "/api/admin/payments?status=paid", nil)
		require.Equal(t, 0, b.Code)
		result := decode[payment.ListResult](t, b.Data)
		require.Len(t, result.Items, 1)
		assert.Equal(t, "Nguyen An", result.Items[0].StudentName)
		assert.Equal(t, "Laundry", result.Items[0].ActivityName)
		assert.Empty(t, result.Warnings)
		assert.Equal(t, 1, result.Total)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 10, result.PageSize)
	})
}

func TestPaymentHandler_Validation(t *testing.T) {
	s := setupTestServer(t, true)

	_, b := s.do(t, http.MethodPost, "/api/admin/payments", map[string]string{
		"paymentType": "contract",
		"amount":      "0",
	})
	assert.Equal(t, errors.ErrInvalidParams.Code, b.Code)
	assert.Equal(t, "validationFailed", b.Key)
	for _, field := range []string{"userId", "contractId", "amount", "paymentMethod", "paymentMonth"} {
		assert.Contains(t, b.Fields, field)
	}
	assert.Zero(t, s.rec.ListCalls("payments"))
}

func TestPaymentHandler_Refund(t *testing.T) {
	s := setupTestServer(t, true)
	docstoretest.Seed(t, s.rec, "payments", map[string]map[string]interface{}{
		"p1": {"userId": "u1", "paymentType": "service", "serviceOrderId": "SO1", "amount": 100, "finalAmount": 100, "status": "paid"},
		"p2": {"userId": "u1", "paymentType": "service", "serviceOrderId": "SO1", "amount": 100, "finalAmount": 100, "status": "pending"},
	})

	t.Run("退款原因为空", func(t *testing.T) {
		_, b := s.do(t, http.MethodPost, "/api/admin/payments/p1/refund", RefundRequest{Reason: "  "})
		assert.Equal(t, errors.ErrRefundReasonRequired.Code, b.Code)
	})

	t.Run("待支付不可退款", func(t *testing.T) {
		_, b := s.do(t, http.MethodPost, "/api/admin/payments/p2/refund", RefundRequest{Reason: "重复收费"})
		assert.Equal(t, errors.ErrPaymentStatusTransition.Code, b.Code)
	})

	t.Run("已支付退款", func(t *testing.T) {
		_, b := s.do(t, http.MethodPost, "/api/admin/payments/p1/refund", RefundRequest{Reason: "重复收费"})
		require.Equal(t, 0, b.Code, b.Message)
		p := decode[map[string]interface{}](t, b.Data)
		assert.Equal(t, "refunded", p["status"])
		assert.Equal(t, "重复收费", p["refundReason"])
	})

	t.Run("不存在的支付", func(t *testing.T) {
		_, b := s.do(t, http.MethodPost, "/api/admin/payments/missing/failed", nil)
		assert.Equal(t, errors.ErrPaymentNotFound.Code, b.Code)
	})
}

func TestPaymentHandler_CheckContractMonth(t *testing.T) {
	s := setupTestServer(t, true)
	docstoretest.Seed(t, s.rec, "payments", map[string]map[string]interface{}{
		"p1": {"userId": "u1", "paymentType": "contract", "contractId": "C1", "paymentMonth": "2024-03-31", "status": "paid"},
	})

	_, b := s.do(t, http.MethodGet, "/api/admin/payments/check/contract/C1?month=2024-03", nil)
	require.Equal(t, 0, b.Code)
	check := decode[payment.MonthCheck](t, b.Data)
	assert.True(t, check.IsPaid)
	require.Len(t, check.ExistingPayments, 1)
	assert.Equal(t, "p1", check.ExistingPayments[0].ID)

	_, b = s.do(t, http.MethodGet, "/api/admin/payments/check/contract/C1?month=2024-04", nil)
	require.Equal(t, 0, b.Code)
	check = decode[payment.MonthCheck](t, b.Data)
	assert.False(t, check.IsPaid)
	assert.Empty(t, check.ExistingPayments)

	w, _ := s.do(t, http.MethodGet, "/api/admin/payments/check/contract/C1?month=April", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaymentHandler_UploadReceipt(t *testing.T) {
	s := setupTestServer(t, true)
	docstoretest.Seed(t, s.rec, "payments", map[string]map[string]interface{}{
		"p1": {"userId": "u1", "paymentType": "service", "serviceOrderId": "SO1", "status": "paid"},
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "receipt.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.4\n%test receipt\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/payments/p1/receipt", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	_, b := s.serve(t, req)
	require.Equal(t, 0, b.Code, b.Message)

	url := decode[map[string]interface{}](t, b.Data)["receiptUrl"].(string)
	assert.Contains(t, url, "receipts/p1/")
	assert.Len(t, s.uploader.Files, 1)
}

func TestPaymentHandler_Unauthorized(t *testing.T) {
	s := setupTestServer(t, false)

	w, _ := s.do(t, http.MethodPost, "/api/admin/payments", servicePaymentForm())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminOnlyRoutes(t *testing.T) {
	s := setupTestServerAs(t, jwt.RoleStaff)
	docstoretest.Seed(t, s.rec, "payments", map[string]map[string]interface{}{
		"p1": {"userId": "u1", "paymentType": "service", "serviceOrderId": "SO1", "amount": 100, "finalAmount": 100, "status": "paid"},
	})

	t.Run("staff 不能退款", func(t *testing.T) {
		w, _ := s.do(t, http.MethodPost, "/api/admin/payments/p1/refund", RefundRequest{Reason: "重复收费"})
		assert.Equal(t, http.StatusForbidden, w.Code)

		_, b := s.do(t, http.MethodGet, "/api/admin/payments/p1", nil)
		require.Equal(t, 0, b.Code, b.Message)
		assert.Equal(t, "paid", decode[map[string]interface{}](t, b.Data)["status"])
	})

	t.Run("staff 不能删除房间", func(t *testing.T) {
		w, _ := s.do(t, http.MethodDelete, "/api/admin/rooms/r1", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		_, b := s.do(t, http.MethodGet, "/api/admin/rooms/r1", nil)
		assert.Equal(t, 0, b.Code, b.Message)
	})

	t.Run("staff 不能删除服务订单", func(t *testing.T) {
		w, _ := s.do(t, http.MethodDelete, "/api/admin/service-orders/SO1", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin 可以删除服务订单", func(t *testing.T) {
		admin := setupTestServerAs(t, jwt.RoleAdmin)
		w, b := admin.do(t, http.MethodDelete, "/api/admin/service-orders/SO1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0, b.Code, b.Message)
	})
}

func TestRoomHandler_Lifecycle(t *testing.T) {
	s := setupTestServer(t, true)
	form := map[string]interface{}{
		"roomNumber": "B201",
		"type":       "single",
		"capacity":   1,
		"rentAmount": 120,
		"building":   "B",
		"floor":      2,
	}

	_, b := s.do(t, http.MethodPost, "/api/admin/rooms", form)
	require.Equal(t, 0, b.Code, b.Message)
	id := decode[map[string]interface{}](t, b.Data)["id"].(string)

	t.Run("同楼栋房间号重复", func(t *testing.T) {
		_, b := s.do(t, http.MethodPost, "/api/admin/rooms", form)
		assert.Equal(t, errors.ErrInvalidParams.Code, b.Code)
		assert.Contains(t, b.Fields, "roomNumber")
	})

	t.Run("更新并记录历史", func(t *testing.T) {
		form["capacity"] = 2
		_, b := s.do(t, http.MethodPut, "/api/admin/rooms/"+id, form)
		require.Equal(t, 0, b.Code, b.Message)
		assert.Equal(t, 2.0, decode[map[string]interface{}](t, b.Data)["capacity"])

		_, b = s.do(t, http.MethodGet, "/api/admin/rooms/"+id+"/history", nil)
		require.Equal(t, 0, b.Code)
		history := decode[[]map[string]interface{}](t, b.Data)
		assert.Len(t, history, 2)
	})

	t.Run("按楼栋筛选", func(t *testing.T) {
		_, b := s.do(t, http.MethodGet, "/api/admin/rooms?building=B", nil)
		require.Equal(t, 0, b.Code)
		rooms := decode[[]map[string]interface{}](t, b.Data)
		require.Len(t, rooms, 1)
		assert.Equal(t, "B201", rooms[0]["roomNumber"])
	})

	t.Run("删除后不存在", func(t *testing.T) {
		_, b := s.do(t, http.MethodDelete, "/api/admin/rooms/"+id, nil)
		require.Equal(t, 0, b.Code)

		_, b = s.do(t, http.MethodGet, "/api/admin/rooms/"+id, nil)
		assert.Equal(t, errors.ErrRoomNotFound.Code, b.Code)
	})
}

func TestServiceOrderHandler(t *testing.T) {
	s := setupTestServer(t, true)

	_, b := s.do(t, http.MethodPost, "/api/admin/service-orders", map[string]interface{}{
		"userId":       "u1",
		"serviceId":    "s1",
		"roomId":       "r1",
		"quantity":     3,
		"pricePerUnit": "50",
	})
	require.Equal(t, 0, b.Code, b.Message)
	order := decode[map[string]interface{}](t, b.Data)
	assert.Equal(t, 150.0, order["totalAmount"])
	id := order["id"].(string)

	_, b = s.do(t, http.MethodPut, "/api/admin/service-orders/"+id+"/status", UpdateStatusRequest{Status: "shipped"})
	assert.Equal(t, errors.ErrInvalidParams.Code, b.Code)

	_, b = s.do(t, http.MethodPut, "/api/admin/service-orders/"+id+"/status", UpdateStatusRequest{Status: "completed"})
	require.Equal(t, 0, b.Code, b.Message)

	_, b = s.do(t, http.MethodGet, "/api/admin/service-orders?status=completed", nil)
	require.Equal(t, 0, b.Code)
	result := decode[serviceorder.ListResult](t, b.Data)
	require.Len(t, result.Items, 2)
	for _, item := range result.Items {
		assert.Equal(t, "Laundry", item.ServiceName)
	}

	_, b = s.do(t, http.MethodGet, "/api/admin/services", nil)
	require.Equal(t, 0, b.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, b.Data), 1)
}

func TestReferenceHandler(t *testing.T) {
	s := setupTestServer(t, true)
	s.rec.FailList("services", stderrors.New("permission denied"))

	_, b := s.do(t, http.MethodGet, "/api/admin/reference?collections=users,services,users", nil)
	require.Equal(t, 0, b.Code)
	result := decode[ReferenceResult](t, b.Data)
	assert.Len(t, result.Collections["users"], 1)
	assert.Empty(t, result.Collections["services"])
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "services", result.Warnings[0].Collection)
	require.NotEmpty(t, b.Notifications)
	assert.Equal(t, notify.LevelWarning, b.Notifications[0].Level)

	t.Run("不允许的集合", func(t *testing.T) {
		w, _ := s.do(t, http.MethodGet, "/api/admin/reference?collections=payments", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("未指定集合", func(t *testing.T) {
		w, _ := s.do(t, http.MethodGet, "/api/admin/reference", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentHandler_QRCode(t *testing.T) {
	s := setupTestServer(t, true)
	docstoretest.Seed(t, s.rec, "payments", map[string]map[string]interface{}{
		"p1": {"userId": "u1", "paymentType": "service", "serviceOrderId": "SO1", "finalAmount": 95, "status": "pending"},
	})

	_, b := s.do(t, http.MethodGet, "/api/admin/payments/p1/qrcode", nil)
	require.Equal(t, 0, b.Code, b.Message)
	qr := decode[payment.PaymentQR](t, b.Data)
	assert.Equal(t, 95.0, qr.Amount)
	assert.Equal(t, "DORMP1", qr.Reference)
	assert.NotEmpty(t, qr.Image)
}
