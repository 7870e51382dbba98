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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/api"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/config"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/db"
	dbmigrations "github.com/wso2/device-update-management-platform/rollout-manager-service/db_migrations"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/server"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/signals"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/wiring"
)

func setupLogger(cfg *config.Config) {
	var level slog.Level
	switch cfg.LogLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo // default to INFO
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	slog.Info("Logger configured",
		"level", level.String())
}

func main() {
	cfg := config.GetConfig()

	setupLogger(cfg)

	if config.GetConfig().AutoMaxProcsEnabled {
		if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			// Convert printf-style format string to plain message for structured logging
			slog.Info(fmt.Sprintf(format, args...))
		})); err != nil {
			slog.Error("Failed to set maxprocs", "error", err)
			os.Exit(1)
		}
	}
	serverFlag := flag.Bool("server", true, "start the http Server")
	migrateFlag := flag.Bool("migrate", false, "migrate the database")

	flag.Parse()

	if *migrateFlag {
		if err := dbmigrations.Migrate(); err != nil {
			slog.Error("error occurred while migrating", "error", err)
			os.Exit(1)
		}
	}

	if !*serverFlag {
		return
	}
	// Get the raw DB instance without context - repositories will add context per-operation
	database := db.GetDB()
	dependencies, err := wiring.InitializeAppParams(cfg, database)
	if err != nil {
		slog.Error("failed to initialize app dependencies", "error", err)
		os.Exit(1)
	}

	// Start auto-assignment scheduler with background context
	schedulerCtx, schedulerCancel := context.WithCancel(context.Background())
	if cfg.AutoAssign.Enabled {
		if err := dependencies.AutoAssignScheduler.Start(schedulerCtx); err != nil {
			slog.Error("failed to start auto-assignment scheduler", "error", err)
			os.Exit(1)
		}
	}

	// Create management API server handler
	handler := api.MakeHTTPHandler(dependencies)
	mainServer := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:        handler,
		ReadTimeout:    time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:    time.Duration(cfg.IdleTimeoutSeconds) * time.Second,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	// Create device-facing HTTPS server for the controller polling protocol
	deviceHandler := api.MakeDeviceHandler(dependencies)
	deviceServer := server.NewDeviceServer(&cfg.DeviceServer, deviceHandler)

	stopCh := signals.SetupSignalHandler()

	// Setup graceful shutdown
	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		<-stopCh
		slog.Info("Shutdown signal received, stopping services...")
		// Stop scheduler first
		schedulerCancel()
		if cfg.AutoAssign.Enabled {
			if err := dependencies.AutoAssignScheduler.Stop(); err != nil {
				slog.Error("error stopping auto-assignment scheduler", "error", err)
			}
		}

		// Shutdown management server
		mainCtx, mainCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer mainCancel()
		if err := mainServer.Shutdown(mainCtx); err != nil {
			slog.Error("Management server forced shutdown after timeout", "error", err)
		}

		// Shutdown device server
		deviceCtx, deviceCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer deviceCancel()
		if err := deviceServer.Shutdown(deviceCtx); err != nil {
			slog.Error("Device server forced shutdown after timeout", "error", err)
		}
		wg.Done()
	}()

	// Start device server in a goroutine
	go func() {
		slog.Info("Device HTTPS server is running",
			"address", fmt.Sprintf("https://localhost:%d", cfg.DeviceServer.Port),
			"pollingInterval", fmt.Sprintf("%ds", cfg.DeviceServer.PollingIntervalSeconds))
		if err := deviceServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start device server", "error", err)
			os.Exit(1)
		}
	}()

	// Start management server (blocking)
	slog.Info("Management API server is running", "address", mainServer.Addr)
	if err := mainServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Failed to start management server", "error", err)
		os.Exit(1)
	}

	// Wait for graceful shutdown to complete
	wg.Wait()
	slog.Info("All servers shut down successfully")
}
