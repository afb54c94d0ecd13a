// Package handler 按业务分组的 HTTP Handler，具体实现位于子包
//
// 保留该文件使 `swag init --dir ./internal/handler` 能把目录识别为 Go 包
package handler
