package repository

import (
	"github.com/dumeirei/dorm-admin-backend/internal/common/config"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
	"github.com/dumeirei/dorm-admin-backend/internal/models"
)

// Repositories 全部集合仓储
type Repositories struct {
	Store         docstore.Store
	Users         *Collection[models.User]
	Contracts     *Collection[models.Contract]
	Rooms         *Collection[models.Room]
	Services      *Collection[models.Service]
	ServiceOrders *Collection[models.ServiceOrder]
	FoodOrders    *Collection[models.FoodOrder]
	Payments      *Collection[models.Payment]
	RoomHistory   *Collection[models.RoomHistory]
}

// New 按配置的集合标识创建仓储
func New(store docstore.Store, cfg *config.CollectionsConfig) *Repositories {
	return &Repositories{
		Store:         store,
		Users:         NewCollection[models.User](store, cfg.Users),
		Contracts:     NewCollection[models.Contract](store, cfg.Contracts),
		Rooms:         NewCollection[models.Room](store, cfg.Rooms),
		Services:      NewCollection[models.Service](store, cfg.Services),
		ServiceOrders: NewCollection[models.ServiceOrder](store, cfg.ServiceOrders),
		FoodOrders:    NewCollection[models.FoodOrder](store, cfg.FoodOrders),
		Payments:      NewCollection[models.Payment](store, cfg.Payments),
		RoomHistory:   NewCollection[models.RoomHistory](store, cfg.RoomHistory),
	}
}
