package ocr_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/matheuscscp/splitbill/services/ocr"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	content string
	err     error
	req     openai.ChatCompletionRequest
}

func (f *fakeClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.req = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: f.content}}},
	}, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestRecognize(t *testing.T) {
	client := &fakeClient{content: "```text\n2 Iced Latte @Rp25.000\r\nRp50.000\n```"}
	r := ocr.NewRecognizerWithClient(client, "")

	text, err := r.Recognize(context.Background(), pngHeader, "")
	require.NoError(t, err)
	assert.Equal(t, "2 Iced Latte @Rp25.000\nRp50.000", text)

	assert.Equal(t, openai.GPT4VisionPreview, client.req.Model)
	require.Len(t, client.req.Messages, 1)
	parts := client.req.Messages[0].MultiContent
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].Text, ocr.DefaultLanguageHint)
	assert.True(t, strings.HasPrefix(parts[1].ImageURL.URL, "data:image/png;base64,"))
}

func TestRecognizeLanguageHint(t *testing.T) {
	client := &fakeClient{content: "1 Chicken Burger @Rp45.000"}
	r := ocr.NewRecognizerWithClient(client, "gpt-4o")

	_, err := r.Recognize(context.Background(), []byte("raw bytes"), "English")
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", client.req.Model)
	parts := client.req.Messages[0].MultiContent
	assert.Contains(t, parts[0].Text, "English")
	assert.True(t, strings.HasPrefix(parts[1].ImageURL.URL, "data:image/jpeg;base64,"))
}

func TestRecognizeFailures(t *testing.T) {
	for _, tt := range []struct {
		name   string
		client *fakeClient
		image  []byte
	}{
		{name: "api error", client: &fakeClient{err: errors.New("rate limited")}, image: pngHeader},
		{name: "empty transcript", client: &fakeClient{content: "```\n```"}, image: pngHeader},
		{name: "empty image", client: &fakeClient{content: "text"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tt := tt
			t.Parallel()

			_, err := ocr.NewRecognizerWithClient(tt.client, "").Recognize(context.Background(), tt.image, "")
			assert.ErrorIs(t, err, ocr.ErrRecognitionFailed)
		})
	}
}

func TestCleanTranscript(t *testing.T) {
	for _, tt := range []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "empty",
			content:  "",
			expected: "",
		},
		{
			name:     "plain",
			content:  "1 Es Teh @Rp5.000",
			expected: "1 Es Teh @Rp5.000",
		},
		{
			name:     "surrounding blank lines",
			content:  "\n\n1 Es Teh @Rp5.000\n  \n",
			expected: "1 Es Teh @Rp5.000",
		},
		{
			name:     "fenced",
			content:  "```\n1 Es Teh @Rp5.000\n```",
			expected: "1 Es Teh @Rp5.000",
		},
		{
			name:     "fenced with language tag and crlf",
			content:  "```text\r\n1 Es Teh @Rp5.000\r\nRp5.000\r\n```\r\n",
			expected: "1 Es Teh @Rp5.000\nRp5.000",
		},
		{
			name:     "only a fence",
			content:  "```",
			expected: "",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			tt := tt
			t.Parallel()

			assert.Equal(t, tt.expected, ocr.CleanTranscript(tt.content))
		})
	}
}
