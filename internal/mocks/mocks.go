package mocks

import (
	"context"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/mock"
)

// MockChatModel is a mock implementation of the chat model
type MockChatModel struct {
	mock.Mock
}

// Generate mocks the Generate method; options are not forwarded to Called
func (m *MockChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schema.Message), args.Error(1)
}

// MockEmbedder is a mock implementation of the eino embedder
type MockEmbedder struct {
	mock.Mock
}

var _ embedding.Embedder = (*MockEmbedder)(nil)

// EmbedStrings mocks the EmbedStrings method. The first return value may be
// a func(context.Context, []string) [][]float64 to compute vectors per call.
func (m *MockEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	args := m.Called(ctx, texts)
	if fn, ok := args.Get(0).(func(context.Context, []string) [][]float64); ok {
		return fn(ctx, texts), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]float64), args.Error(1)
}
