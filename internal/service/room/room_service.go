// Package room 房间管理，每次变更追加一条房间历史
package room

import (
	"context"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dumeirei/dorm-admin-backend/internal/common/errors"
	"github.com/dumeirei/dorm-admin-backend/internal/common/logger"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
	"github.com/dumeirei/dorm-admin-backend/internal/models"
	"github.com/dumeirei/dorm-admin-backend/internal/notify"
	"github.com/dumeirei/dorm-admin-backend/internal/repository"
	"github.com/dumeirei/dorm-admin-backend/internal/service/reference"
	"github.com/dumeirei/dorm-admin-backend/internal/service/validation"
	"github.com/dumeirei/dorm-admin-backend/pkg/oss"
)

// MaxPhotoSize 房间照片大小上限
const MaxPhotoSize = 10 << 20

// RoomService 房间服务
type RoomService struct {
	repos     *repository.Repositories
	loader    *reference.Loader
	validator *validation.Validator
	notifier  notify.Notifier
	uploader  oss.Uploader
	log       *zap.Logger
	now       func() time.Time
}

// NewRoomService 创建房间服务
func NewRoomService(
	repos *repository.Repositories,
	loader *reference.Loader,
	validator *validation.Validator,
	notifier notify.Notifier,
	uploader oss.Uploader,
) *RoomService {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &RoomService{
		repos:     repos,
		loader:    loader,
		validator: validator,
		notifier:  notifier,
		uploader:  uploader,
		log:       logger.Named("room"),
		now:       time.Now,
	}
}

func (s *RoomService) fail(ctx context.Context, err *errors.AppError) error {
	s.notifier.Error(ctx, err.UserMessage())
	return err
}

func fromForm(f *validation.RoomForm) models.Room {
	status := f.Status
	if status == "" {
		status = models.RoomStatusAvailable
	}
	return models.Room{
		RoomNumber:  strings.TrimSpace(f.RoomNumber),
		Type:        f.Type,
		Capacity:    f.Capacity,
		RentAmount:  f.RentAmount,
		Status:      status,
		Building:    f.Building,
		Floor:       f.Floor,
		Amenities:   f.Amenities,
		Description: f.Description,
		PhotoURL:    f.PhotoURL,
	}
}

// fields 房间内容字段，用于历史记录
func fields(r models.Room) map[string]interface{} {
	m, _ := repository.Encode(r)
	return m
}

// record 追加房间历史，失败只记录日志
func (s *RoomService) record(ctx context.Context, roomID, action, adminID string, oldValues, newValues map[string]interface{}) {
	h := models.RoomHistory{
		RoomID:    roomID,
		Action:    action,
		OldValues: oldValues,
		NewValues: newValues,
		ChangedBy: adminID,
		Timestamp: models.NewTime(s.now().UTC()),
	}
	if _, err := s.repos.RoomHistory.Create(ctx, uuid.NewString(), h); err != nil {
		s.log.Warn("append room history failed", zap.String("room_id", roomID), logger.Action(action), logger.Err(err))
		s.notifier.Warning(ctx, "房间历史记录写入失败")
	}
}

// Create 创建房间
func (s *RoomService) Create(ctx context.Context, adminID string, form *validation.RoomForm) (*models.Room, error) {
	if res := s.validator.ValidateRoom(form); !res.IsValid {
		return nil, s.fail(ctx, errors.ErrInvalidParams.WithFields(res.Errors))
	}
	if err := s.ensureUniqueNumber(ctx, form.Building, strings.TrimSpace(form.RoomNumber), ""); err != nil {
		return nil, err
	}

	created, err := s.repos.Rooms.Create(ctx, uuid.NewString(), fromForm(form))
	if err != nil {
		return nil, s.fail(ctx, errors.GetAppError(err))
	}
	s.record(ctx, created.ID, models.RoomActionCreate, adminID, nil, fields(created))
	s.log.Info("room created", zap.String("room_id", created.ID), logger.AdminID(adminID))
	s.notifier.Success(ctx, "房间已创建")
	return &created, nil
}

// ensureUniqueNumber 同一楼栋内房间号唯一
func (s *RoomService) ensureUniqueNumber(ctx context.Context, building, number, exceptID string) error {
	rooms, _, err := s.repos.Rooms.List(ctx, docstore.ListOptions{
		Filters: []docstore.Filter{docstore.Equal("building", building), docstore.Equal("roomNumber", number)},
		Limit:   2,
	})
	if err != nil {
		return s.fail(ctx, errors.GetAppError(err))
	}
	for _, r := range rooms {
		if r.ID != exceptID {
			return s.fail(ctx, errors.ErrInvalidParams.WithFields(map[string]string{"roomNumber": "该楼栋已存在相同房间号"}))
		}
	}
	return nil
}

func (s *RoomService) get(ctx context.Context, id string) (*models.Room, error) {
	r, err := s.repos.Rooms.Get(ctx, id)
	if err != nil {
		if errors.GetAppError(err).Code == errors.ErrNotFound.Code {
			return nil, s.fail(ctx, errors.ErrRoomNotFound.WithError(err))
		}
		return nil, s.fail(ctx, errors.GetAppError(err))
	}
	return &r, nil
}

// Get 获取房间
func (s *RoomService) Get(ctx context.Context, id string) (*models.Room, error) {
	return s.get(ctx, id)
}

// Update 更新房间，历史中只记录变化的字段
func (s *RoomService) Update(ctx context.Context, adminID, id string, form *validation.RoomForm) (*models.Room, error) {
	if res := s.validator.ValidateRoom(form); !res.IsValid {
		return nil, s.fail(ctx, errors.ErrInvalidParams.WithFields(res.Errors))
	}
	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueNumber(ctx, form.Building, strings.TrimSpace(form.RoomNumber), id); err != nil {
		return nil, err
	}

	next := fromForm(form)
	if form.PhotoURL == "" {
		next.PhotoURL = current.PhotoURL
	}
	oldValues, newValues := diff(fields(*current), fields(next))
	if len(newValues) == 0 && len(oldValues) == 0 {
		return current, nil
	}

	patch := map[string]interface{}{}
	for k, v := range newValues {
		patch[k] = v
	}
	for k := range oldValues {
		if _, ok := newValues[k]; !ok {
			patch[k] = nil
		}
	}

	updated, err := s.repos.Rooms.Update(ctx, id, patch)
	if err != nil {
		return nil, s.fail(ctx, errors.GetAppError(err))
	}
	s.record(ctx, id, models.RoomActionUpdate, adminID, oldValues, newValues)
	s.notifier.Success(ctx, "房间已更新")
	return &updated, nil
}

// diff 返回变化字段的旧值与新值
func diff(before, after map[string]interface{}) (map[string]interface{}, map[string]interface{}) {
	oldValues := map[string]interface{}{}
	newValues := map[string]interface{}{}
	for k, v := range after {
		if prev, ok := before[k]; !ok || !reflect.DeepEqual(prev, v) {
			newValues[k] = v
			if ok {
				oldValues[k] = prev
			}
		}
	}
	for k, v := range before {
		if _, ok := after[k]; !ok {
			oldValues[k] = v
		}
	}
	return oldValues, newValues
}

// Delete 删除房间
func (s *RoomService) Delete(ctx context.Context, adminID, id string) error {
	current, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repos.Rooms.Delete(ctx, id); err != nil {
		return s.fail(ctx, errors.GetAppError(err))
	}
	s.record(ctx, id, models.RoomActionDelete, adminID, fields(*current), nil)
	s.notifier.Success(ctx, "房间已删除")
	return nil
}

// ListFilter 房间过滤条件
type ListFilter struct {
	Building string
	Status   string
	Type     string
	Query    string
}

// List 加载全部满足条件的房间
func (s *RoomService) List(ctx context.Context, f ListFilter) ([]models.Room, error) {
	var filters []docstore.Filter
	if f.Building != "" {
		filters = append(filters, docstore.Equal("building", f.Building))
	}
	if f.Status != "" {
		filters = append(filters, docstore.Equal("status", f.Status))
	}
	if f.Type != "" {
		filters = append(filters, docstore.Equal("type", f.Type))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		filters = append(filters, docstore.Search("roomNumber", q))
	}
	docs, err := s.loader.LoadAll(ctx, s.repos.Rooms.Name(), filters...)
	if err != nil {
		return nil, s.fail(ctx, errors.ErrFetchFailed.WithError(err))
	}
	return s.repos.Rooms.DecodeAll(docs), nil
}

// History 房间变更记录，最新的在前
func (s *RoomService) History(ctx context.Context, roomID string) ([]models.RoomHistory, error) {
	items, _, err := s.repos.RoomHistory.List(ctx, docstore.ListOptions{
		Filters:   []docstore.Filter{docstore.Equal("roomId", roomID)},
		SortField: "timestamp",
		SortDesc:  true,
		Limit:     200,
	})
	if err != nil {
		return nil, s.fail(ctx, errors.GetAppError(err))
	}
	return items, nil
}

// UploadPhoto 上传房间照片并更新 photoUrl
func (s *RoomService) UploadPhoto(ctx context.Context, adminID, id, filename string, size int64, r io.Reader) (*models.Room, error) {
	if s.uploader == nil {
		return nil, s.fail(ctx, errors.ErrUploadFailed.WithMessage("未配置对象存储"))
	}
	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	body, err := oss.ValidateImage(filename, size, MaxPhotoSize, r)
	if err != nil {
		return nil, s.fail(ctx, errors.ErrInvalidParams.WithFields(map[string]string{"file": err.Error()}))
	}
	url, err := s.uploader.Upload(ctx, oss.RoomPhotoKey(id, filename), body)
	if err != nil {
		return nil, s.fail(ctx, errors.ErrUploadFailed.WithError(err))
	}
	updated, err := s.repos.Rooms.Update(ctx, id, map[string]interface{}{"photoUrl": url})
	if err != nil {
		return nil, s.fail(ctx, errors.GetAppError(err))
	}
	s.record(ctx, id, models.RoomActionUpdate, adminID,
		map[string]interface{}{"photoUrl": current.PhotoURL}, map[string]interface{}{"photoUrl": url})
	s.notifier.Success(ctx, "照片已上传")
	return &updated, nil
}
