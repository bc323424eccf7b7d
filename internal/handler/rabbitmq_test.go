package handler_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MichalMitros/property-translation-pipeline/internal/handler"
	"github.com/MichalMitros/property-translation-pipeline/internal/handler/mocks"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/models"
	"github.com/MichalMitros/property-translation-pipeline/internal/platform/rabbitmq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var logger = zerolog.Nop()

func TestUnitHandle(t *testing.T) {
	tests := map[string]struct {
		message      string
		site         string
		summary      *models.RunSummary
		processorErr error
		wantErr      bool
		wantCode     platform.Code
	}{
		"successful run": {
			message: `{"id":"3f0c9a5e-8e1b-4c55-9d1e-1f0b8f1b2a11","site":"suumo"}`,
			site:    "suumo",
			summary: &models.RunSummary{Site: "suumo", Success: true, ProcessedCount: 3},
		},
		"command without id": {
			message: `{"site":"athome"}`,
			site:    "athome",
			summary: &models.RunSummary{Site: "athome", Success: true},
		},
		"unsuccessful run is acknowledged": {
			message: `{"site":"suumo"}`,
			site:    "suumo",
			summary: &models.RunSummary{Site: "suumo", Errors: []string{"Scraping failed: timeout"}},
		},
		"already running": {
			message:      `{"site":"suumo"}`,
			site:         "suumo",
			processorErr: fmt.Errorf("can't process suumo: %w", platform.ErrAlreadyRunning),
		},
		"processor error": {
			message:      `{"site":"suumo"}`,
			site:         "suumo",
			processorErr: assert.AnError,
			wantErr:      true,
			wantCode:     platform.CodeUnknown,
		},
		"not json": {
			message:  `site=suumo`,
			wantErr:  true,
			wantCode: platform.CodeValidation,
		},
		"empty": {
			message:  `  `,
			wantErr:  true,
			wantCode: platform.CodeValidation,
		},
		"trailing content": {
			message:  `{"site":"suumo"}{}`,
			wantErr:  true,
			wantCode: platform.CodeValidation,
		},
		"missing site": {
			message:  `{"id":"3f0c9a5e-8e1b-4c55-9d1e-1f0b8f1b2a11"}`,
			wantErr:  true,
			wantCode: platform.CodeValidation,
		},
		"empty site": {
			message:  `{"site":""}`,
			wantErr:  true,
			wantCode: platform.CodeValidation,
		},
		"invalid site": {
			message:  `{"site":"../etc"}`,
			wantErr:  true,
			wantCode: platform.CodeValidation,
		},
		"invalid id": {
			message:  `{"id":"not-uuid","site":"suumo"}`,
			wantErr:  true,
			wantCode: platform.CodeValidation,
		},
		"unknown field": {
			message:  `{"site":"suumo","priority":1}`,
			wantErr:  true,
			wantCode: platform.CodeValidation,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			processor := mocks.NewSiteProcessor(t)
			if tt.site != "" {
				processor.On("ProcessSite", mock.Anything, tt.site).Return(tt.summary, tt.processorErr).Once()
			}

			h := handler.NewHandler(mocks.NewConsumer(t), processor, &logger)
			err := h.Handle(context.TODO(), []byte(tt.message))

			if !tt.wantErr {
				require.NoError(t, err, "shouldn't return any error")
				return
			}
			require.Error(t, err, "should return error")
			assert.Equal(t, tt.wantCode, platform.CodeOf(err), "should return correct error code")
		})
	}
}

func TestUnitStart(t *testing.T) {
	t.Run("consumes queue with handler", func(t *testing.T) {
		errs := make(chan error)
		handled := make(chan struct{})

		processor := mocks.NewSiteProcessor(t)
		processor.On("ProcessSite", mock.Anything, "suumo").
			Return(&models.RunSummary{Site: "suumo", Success: true}, nil).
			Run(func(mock.Arguments) { close(handled) }).
			Once()

		consumer := mocks.NewConsumer(t)
		consumer.On("Consume", mock.Anything, "commands", mock.AnythingOfType("rabbitmq.HandlerFunc")).
			Return((<-chan error)(errs), nil).
			Run(func(args mock.Arguments) {
				handle := args.Get(2).(rabbitmq.HandlerFunc)
				go func() { _ = handle(context.TODO(), []byte(`{"site":"suumo"}`)) }()
			}).
			Once()

		h := handler.NewHandler(consumer, processor, &logger)
		require.NoError(t, h.Start(context.TODO(), "commands"), "shouldn't return any error")

		select {
		case <-handled:
		case <-time.After(time.Second):
			t.Fatal("message should be handled")
		}
		close(errs)
	})

	t.Run("consume error", func(t *testing.T) {
		consumer := mocks.NewConsumer(t)
		consumer.On("Consume", mock.Anything, "commands", mock.Anything).Return(nil, assert.AnError).Once()

		h := handler.NewHandler(consumer, mocks.NewSiteProcessor(t), &logger)
		err := h.Start(context.TODO(), "commands")

		require.ErrorIs(t, err, assert.AnError, "should return consume error")
	})
}
