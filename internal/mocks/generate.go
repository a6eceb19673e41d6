// Package mocks provides mock implementations for testing the gateway.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the payment port interfaces. The mocks are generated using go:generate
// directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	processor := mocks.NewMockPaymentProcessor(ctrl)
//	processor.EXPECT().Confirm(gomock.Any(), "secret", gomock.Any()).Return(confirmation, nil)
package mocks

// Generate mocks for the payment ports: PaymentProcessor, IntentCreator,
// AttemptRecorder.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=ports_mock.go github.com/ospitek/ui-gateway/internal/ports PaymentProcessor,IntentCreator,AttemptRecorder
