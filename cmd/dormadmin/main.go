// Package main 是应用程序入口
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dumeirei/dorm-admin-backend/internal/common/config"
	"github.com/dumeirei/dorm-admin-backend/internal/common/database"
	"github.com/dumeirei/dorm-admin-backend/internal/common/jwt"
	"github.com/dumeirei/dorm-admin-backend/internal/common/logger"
	"github.com/dumeirei/dorm-admin-backend/internal/docstore"
)

// version 构建时通过 -ldflags 注入
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "dormadmin",
		Short:         "Dormitory admin backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径，默认查找 ./configs/config.yaml")

	load := func() (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		if err := logger.Init(&cfg.Logger); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		return cfg, nil
	}

	root.AddCommand(newServeCmd(load), newMigrateCmd(load), newTokenCmd(load))
	return root
}

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动管理后台 API 与定时任务",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return runServe(cfg)
		},
	}
}

func newMigrateCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "创建或更新文档表结构",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := database.Init(&cfg.Database)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()
			if err := docstore.NewGormStore(db, cfg.Collections.DatabaseID).Migrate(ctx); err != nil {
				return fmt.Errorf("migrate failed: %w", err)
			}
			logger.Info("migration completed", zap.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}

// newTokenCmd 本地开发时签发管理员令牌
func newTokenCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		adminID string
		role    string
		name    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "签发管理员访问令牌（开发用）",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			token, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer).Issue(adminID, role, name, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&adminID, "admin-id", "", "管理员ID")
	cmd.Flags().StringVar(&role, "role", jwt.RoleAdmin, "角色 admin|staff")
	cmd.Flags().StringVar(&name, "name", "", "显示名称")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "有效期")
	_ = cmd.MarkFlagRequired("admin-id")
	return cmd
}
