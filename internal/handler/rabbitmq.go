package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/rabbitmq"
	"github.com/rs/zerolog"
)

//go:generate mockery --name SiteProcessor --filename site_processor.go
//go:generate mockery --name Consumer --filename consumer.go

// SiteProcessor runs the pipeline for a site.
type SiteProcessor interface {
	ProcessSite(ctx context.Context, site string) (*models.RunSummary, error)
}

// Consumer consumes messages from queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler rabbitmq.HandlerFunc) (<-chan error, error)
}

// RMQHandler handles process site commands from RMQ.
type RMQHandler struct {
	consumer  Consumer
	processor SiteProcessor
	logger    *zerolog.Logger
}

// NewHandler returns new RMQHandler.
func NewHandler(consumer Consumer, processor SiteProcessor, logger *zerolog.Logger) *RMQHandler {
	return &RMQHandler{
		consumer:  consumer,
		processor: processor,
		logger:    logger,
	}
}

// Start starts consuming and handling process site commands from RMQ.
func (h *RMQHandler) Start(ctx context.Context, queue string) error {
	errorsChan, err := h.consumer.Consume(ctx, queue, h.Handle)
	if err != nil {
		return fmt.Errorf("can't consume %q: %w", queue, err)
	}

	go func() {
		for err := range errorsChan {
			h.logger.Error().
				Err(err).
				Str("code", string(platform.CodeOf(err))).
				Msg("can't handle message")
		}
	}()

	return nil
}

// Handle processes single command message.
// Runs which finished unsuccessfully are logged, not returned, so the command is acknowledged.
func (h *RMQHandler) Handle(ctx context.Context, message []byte) error {
	cmd, err := decodeMessage(message)
	if err != nil {
		return err
	}

	logger := h.logger.With().
		Str("site", cmd.Site).
		Str("commandId", cmd.ID).
		Logger()

	logger.Debug().Msg("site processing started")

	summary, err := h.processor.ProcessSite(ctx, cmd.Site)
	if errors.Is(err, platform.ErrAlreadyRunning) {
		logger.Warn().Msg("site is already processed, command dropped")
		return nil
	}
	if err != nil {
		return fmt.Errorf("processing %s failed: %w", cmd.Site, err)
	}

	if !summary.Success {
		logger.Warn().
			Int("processedCount", summary.ProcessedCount).
			Strs("errors", summary.Errors).
			Msg("site processing finished with errors")
		return nil
	}

	logger.Debug().
		Int("processedCount", summary.ProcessedCount).
		Msg("site processing finished")

	return nil
}
