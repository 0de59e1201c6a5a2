// Package exportworker собирает воркер зеркалирования планов питания
// во внешнюю таблицу Google Sheets по событиям из очереди.
package exportworker

import (
	"context"
	"errors"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/ai-meal-planner/internal/config"
	"github.com/magabrotheeeer/ai-meal-planner/internal/lib/rabbitmq"
	exportservice "github.com/magabrotheeeer/ai-meal-planner/internal/services/export"
	"github.com/magabrotheeeer/ai-meal-planner/internal/sheets"
	"github.com/magabrotheeeer/ai-meal-planner/internal/storage/repository"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	db            *repository.Storage
	exportService *exportservice.ExportService
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if !cfg.SheetsExport.Enabled {
		return nil, errors.New("sheets export is disabled in config")
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetExportQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	sheetClient := sheets.NewClient(cfg.SheetsExport)
	exportService := exportservice.NewExportService(db, sheetClient, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		db:            db,
		exportService: exportService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.PlanExportQueue, a.exportService.HandlePlanGenerated)
	if err != nil {
		a.logger.Error("failed to start plan_export_queue consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.PlanDeleteQueue, a.exportService.HandlePlanDeleted)
	if err != nil {
		a.logger.Error("failed to start plan_delete_queue consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumerMessage(ctx, a.ch, rabbitmq.AccountDeleteQueue, a.exportService.HandleAccountDeleted)
	if err != nil {
		a.logger.Error("failed to start account_delete_queue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("export worker shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	a.db.DB.Close()

	return nil
}
