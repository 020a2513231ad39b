package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/library-lending-go/eventstore/oteladapters"
)

func Test_SlogBridgeLogger_AllLevels_With_Provider(t *testing.T) {
	// arrange
	logger := oteladapters.NewSlogBridgeLoggerWithProvider("lending", noop.NewLoggerProvider())
	ctx := context.Background()

	// act + assert
	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "debug message", "book_id", "b-1")
		logger.InfoContext(ctx, "info message", "book_id", "b-1")
		logger.WarnContext(ctx, "warn message", "book_id", "b-1")
		logger.ErrorContext(ctx, "error message", "book_id", "b-1")
	})
	assert.NotNil(t, logger.Slog())
}

func Test_SlogBridgeLogger_Uses_Global_Provider(t *testing.T) {
	// act
	logger := oteladapters.NewSlogBridgeLogger("lending")

	// assert
	assert.NotPanics(t, func() { logger.InfoContext(context.Background(), "reservation expired") })
}

func Test_OTelLogger_AllLevels(t *testing.T) {
	// arrange
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("lending"))
	ctx := context.Background()

	// act + assert
	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "debug message", "patron_id", "p-1")
		logger.InfoContext(ctx, "info message", "patron_id", "p-1")
		logger.WarnContext(ctx, "warn message", "patron_id", "p-1")
		logger.ErrorContext(ctx, "error message", "patron_id", "p-1")
	})
}

func Test_OTelLogger_ArgumentHandling(t *testing.T) {
	// arrange
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("lending"))
	ctx := context.Background()

	// act + assert
	assert.NotPanics(t, func() {
		logger.InfoContext(ctx, "late fee", "cents", 30, "days", 3.0, "blocked", true)
	}, "mixed value types")

	assert.NotPanics(t, func() {
		logger.InfoContext(ctx, "odd args", "key1", "value1", "key2")
	}, "odd number of args")

	assert.NotPanics(t, func() {
		logger.InfoContext(ctx, "non string key", 42, "value")
	}, "non string key")
}
