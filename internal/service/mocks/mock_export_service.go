package mocks

import (
	"context"

	"urlexport/internal/diagnostics"
	"urlexport/internal/export"
	"github.com/stretchr/testify/mock"
)

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) ExportContent(ctx context.Context, diag *diagnostics.Buffer) (*export.Result, error) {
	args := m.Called(ctx, diag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Result), args.Error(1)
}

func (m *MockExportService) ExportMedia(ctx context.Context, diag *diagnostics.Buffer) (*export.Result, error) {
	args := m.Called(ctx, diag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*export.Result), args.Error(1)
}
