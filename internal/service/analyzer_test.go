package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodwise/backend/internal/mocks"
)

func TestFoodAnalyzer_Analyze(t *testing.T) {
	chat := new(mocks.MockChatModel)
	dataURL := "data:image/png;base64,iVBORw0KGgo="

	var sent []*schema.Message
	chat.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]*schema.Message) }).
		Return(schema.AssistantMessage("This dish contains shrimp, so you should not eat it.", nil), nil)

	analyzer := NewFoodAnalyzer(chat, 2000)
	reply, err := analyzer.Analyze(context.Background(), dataURL, []string{"shrimp"})
	require.NoError(t, err)
	assert.Equal(t, "This dish contains shrimp, so you should not eat it.", reply)

	require.Len(t, sent, 2)
	assert.Equal(t, "You are a helpful assistant that have vast knowledge about food and culinary.", sent[0].Content)

	parts := sent[1].MultiContent
	require.Len(t, parts, 3)
	assert.Equal(t, "I have this list of food that I cannot eat: ['shrimp']", parts[0].Text)
	assert.Equal(t, schema.ChatMessagePartTypeImageURL, parts[1].Type)
	require.NotNil(t, parts[1].ImageURL)
	assert.Equal(t, dataURL, parts[1].ImageURL.URL)
	assert.Contains(t, parts[2].Text, "maximum 4 sentences")
}

func TestFoodAnalyzer_ModelError(t *testing.T) {
	chat := new(mocks.MockChatModel)
	chat.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("content filter triggered"))

	_, err := NewFoodAnalyzer(chat, 2000).Analyze(context.Background(), "data:image/png;base64,", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "content filter triggered")
}

func TestFormatFoodList(t *testing.T) {
	assert.Equal(t, "[]", formatFoodList(nil))
	assert.Equal(t, "['peanut', 'egg']", formatFoodList([]string{"peanut", "egg"}))
}
