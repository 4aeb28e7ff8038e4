package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/pageza/foodwise/backend/config"
	"github.com/pageza/foodwise/backend/internal/observability"
)

// NewChatModel creates the Azure OpenAI chat deployment used for both the
// recommendation filter and image analysis.
func NewChatModel(ctx context.Context, cfg config.OpenAIConfig, timeout time.Duration) (*openai.ChatModel, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.Endpoint,
		ByAzure:    true,
		APIVersion: cfg.ChatAPIVersion,
		Model:      cfg.ChatDeployment,
		Timeout:    timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return cm, nil
}

func textPart(text string) schema.ChatMessagePart {
	return schema.ChatMessagePart{
		Type: schema.ChatMessagePartTypeText,
		Text: text,
	}
}

func imagePart(url string) schema.ChatMessagePart {
	return schema.ChatMessagePart{
		Type:     schema.ChatMessagePartTypeImageURL,
		ImageURL: &schema.ChatMessageImageURL{URL: url},
	}
}

// conversation builds a system message followed by one multi-part user turn
func conversation(system string, parts ...schema.ChatMessagePart) []*schema.Message {
	return []*schema.Message{
		schema.SystemMessage(system),
		{
			Role:         schema.User,
			MultiContent: parts,
		},
	}
}

// generateText sends messages and returns the reply text untouched
func generateText(ctx context.Context, chat ChatModel, messages []*schema.Message, maxTokens int) (text string, err error) {
	defer observability.ObserveUpstream(observability.UpstreamChat, time.Now(), &err)

	var opts []model.Option
	if maxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(maxTokens))
	}

	reply, err := chat.Generate(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if reply == nil {
		return "", fmt.Errorf("chat model returned no message")
	}
	return reply.Content, nil
}

// formatFoodList renders a food list the way the prompts show it to the
// model, e.g. ['peanut', 'shrimp'].
func formatFoodList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = quoteLiteral(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// quoteLiteral quotes s the way the prompts have always shown strings to the
// model: single quotes unless s contains one and no double quote.
func quoteLiteral(s string) string {
	quote := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\x%02x`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
