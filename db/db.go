// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package db

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/config"
)

var (
	gormDB *gorm.DB
	once   sync.Once
)

// GetDB returns the shared gorm.DB instance, opening the connection on first use
func GetDB() *gorm.DB {
	once.Do(func() {
		cfg := config.GetConfig()
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			cfg.POSTGRESQL.Host, cfg.POSTGRESQL.Port, cfg.POSTGRESQL.User,
			cfg.POSTGRESQL.Password, cfg.POSTGRESQL.DBName)

		gormLogger := logger.New(
			slogWriter{},
			logger.Config{
				SlowThreshold:             time.Duration(cfg.POSTGRESQL.SlowThresholdMilliseconds) * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		)

		database, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			SkipDefaultTransaction: cfg.POSTGRESQL.SkipDefaultTransaction,
			Logger:                 gormLogger,
		})
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}

		sqlDB, err := database.DB()
		if err != nil {
			slog.Error("failed to get sql.DB from gorm", "error", err)
			os.Exit(1)
		}
		if v := cfg.POSTGRESQL.MaxIdleCount; v != nil {
			sqlDB.SetMaxIdleConns(int(*v))
		}
		if v := cfg.POSTGRESQL.MaxOpenCount; v != nil {
			sqlDB.SetMaxOpenConns(int(*v))
		}
		if v := cfg.POSTGRESQL.MaxLifetimeSeconds; v != nil {
			sqlDB.SetConnMaxLifetime(time.Duration(*v) * time.Second)
		}
		if v := cfg.POSTGRESQL.MaxIdleTimeSeconds; v != nil {
			sqlDB.SetConnMaxIdleTime(time.Duration(*v) * time.Second)
		}

		gormDB = database
	})
	return gormDB
}

// DB returns the shared instance bound to the given context so every operation
// inherits the caller's deadline and cancellation
func DB(ctx context.Context) *gorm.DB {
	return GetDB().WithContext(ctx)
}

// slogWriter adapts gorm's logger interface to slog
type slogWriter struct{}

func (slogWriter) Printf(format string, args ...interface{}) {
	slog.Warn(fmt.Sprintf(format, args...))
}
