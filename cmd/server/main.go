/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	consentService "github.com/aarogyaai/consent-service/internal/consent/service"
	consentStore "github.com/aarogyaai/consent-service/internal/consent/store"
	dirStore "github.com/aarogyaai/consent-service/internal/directory/store"
	eventService "github.com/aarogyaai/consent-service/internal/events/service"
	healthService "github.com/aarogyaai/consent-service/internal/health_check/service"
	"github.com/aarogyaai/consent-service/internal/notification/dispatcher"
	"github.com/aarogyaai/consent-service/internal/system/config"
	"github.com/aarogyaai/consent-service/internal/system/constants"
	"github.com/aarogyaai/consent-service/internal/system/database/provider"
	"github.com/aarogyaai/consent-service/internal/system/log"
	"github.com/aarogyaai/consent-service/internal/system/managers"
	"github.com/aarogyaai/consent-service/internal/system/schedulers"
	"github.com/aarogyaai/consent-service/internal/system/security"
	"github.com/aarogyaai/consent-service/internal/system/workers"
)

const postgresSchemaFile = "dbscripts/postgres.sql"

func main() {
	serverHome := getServerHome()

	envFiles, _ := filepath.Glob(filepath.Join(serverHome, "config", "*.env"))
	if len(envFiles) > 0 {
		_ = godotenv.Load(envFiles...)
	}

	// Load the configuration file
	serverConfig, err := config.LoadConfig(serverHome, constants.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize runtime configurations.
	if err := config.InitializeRuntime(serverHome, serverConfig); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize runtime: %v\n", err)
		os.Exit(1)
	}

	if err := log.InitWithWriter(serverConfig.Log.LogLevel, serverConfig.Log.Format, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := log.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	directory, err := initUserDirectory(ctx, serverHome, serverConfig)
	if err != nil {
		logger.Fatal("Failed to initialize the user directory", log.Error(err))
	}

	notificationWorker := workers.NewNotificationWorker(
		dispatcher.NewBestEffort(initDispatchers(ctx, serverConfig.Notification)),
		serverConfig.Notification.QueueSize, serverConfig.Notification.Workers, serverConfig.Notification.Email.Timeout)
	notificationWorker.Start()

	publisher := eventService.NewEventPublisher(serverConfig.Events)

	repository := consentStore.NewConsentRepository(consentStore.NewConsentRequestStore(), directory,
		serverConfig.Consent.Validity, serverConfig.Consent.Scope, serverConfig.Consent.Purpose)
	engine := consentService.NewConsentService(repository, directory, notificationWorker, publisher,
		serverConfig.Consent)

	go schedulers.StartConsentSweepScheduler(ctx, engine, serverConfig.Consent.SweepInterval)

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux, engine,
		healthService.NewHealthCheckService(directory, 5*time.Second))
	if err := serviceManager.RegisterServices(); err != nil {
		logger.Fatal("Failed to register the services", log.Error(err))
	}

	serverAddr := fmt.Sprintf("%s:%d", serverConfig.Addr.Host, serverConfig.Addr.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           security.TraceMiddleware(security.CORSMiddleware(serverConfig.Auth.CORSAllowedOrigins, mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve requests", log.Error(err))
		}
	}()
	logger.Info(fmt.Sprintf("AarogyaAI consent service started in: %s", serverAddr))

	<-ctx.Done()
	logger.Info("Shutting down the consent service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", log.Error(err))
	}
	notificationWorker.Stop()
	if err := publisher.Close(); err != nil {
		logger.Warn("Failed to close the event publisher", log.Error(err))
	}
	if err := directory.Close(shutdownCtx); err != nil {
		logger.Warn("Failed to close the user directory", log.Error(err))
	}
}

func initUserDirectory(ctx context.Context, serverHome string, cfg *config.Config) (dirStore.UserDirectoryInterface, error) {

	switch cfg.Directory.Type {
	case config.DirectoryTypeMongoDB:
		directory, err := dirStore.NewMongoUserDirectory(ctx, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return directory, nil
	case config.DirectoryTypePostgres:
		dbClient, err := provider.NewDBProvider().GetDBClient()
		if err != nil {
			return nil, err
		}
		if cfg.Directory.InitSchema {
			if err := dbClient.InitDatabase(serverHome, postgresSchemaFile); err != nil {
				return nil, err
			}
		}
		return dirStore.NewPostgresUserDirectory(dbClient), nil
	default:
		return nil, fmt.Errorf("unsupported user directory type: %s", cfg.Directory.Type)
	}
}

func initDispatchers(ctx context.Context, cfg config.NotificationConfig) dispatcher.Dispatcher {

	logger := log.GetLogger()
	var channels []dispatcher.Dispatcher
	if cfg.Email.Enabled {
		channels = append(channels, dispatcher.NewEmailWebhookDispatcher(cfg.Email))
		logger.Info("Email notifications are enabled")
	}
	if cfg.SMS.Enabled {
		sms, err := dispatcher.NewSMSQueueDispatcherFromConfig(ctx, cfg.SMS)
		if err != nil {
			logger.Error("SMS notifications are disabled", log.Error(err))
		} else {
			channels = append(channels, sms)
			logger.Info("SMS notifications are enabled")
		}
	}
	return dispatcher.NewMultiDispatcher(channels...)
}

func getServerHome() string {

	homeFlag := flag.String("home", "", "Path to the consent service home directory")
	flag.Parse()

	if *homeFlag != "" {
		return *homeFlag
	}
	dir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get current working directory: %v\n", err)
		os.Exit(1)
	}
	return dir
}
