// Package ocr turns a receipt photo into plain text using the OpenAI
// vision API. The transcript is meant for parser.ParseReceipt, so the model
// is asked to copy the receipt line by line without interpreting it.
package ocr

import (
	"context"
	"errors"
	"fmt"

	"github.com/matheuscscp/splitbill/models"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

type (
	// Recognizer ...
	Recognizer interface {
		Recognize(ctx context.Context, image []byte, languageHint string) (string, error)
	}

	// ChatCompleter is the part of the OpenAI client a Recognizer needs.
	ChatCompleter interface {
		CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	}

	recognizer struct {
		client ChatCompleter
		model  string
	}
)

const (
	// DefaultLanguageHint ...
	DefaultLanguageHint = "Indonesian"

	maxTokens = 4096
)

var (
	// ErrRecognitionFailed is the only error Recognize returns. Callers show
	// one message and let the user try again.
	ErrRecognitionFailed = errors.New("failed to process the bill image, please try again")
)

// NewRecognizer ...
func NewRecognizer(token, model string) Recognizer {
	return NewRecognizerWithClient(openai.NewClient(token), model)
}

// NewRecognizerWithClient ...
func NewRecognizerWithClient(client ChatCompleter, model string) Recognizer {
	if model == "" {
		model = openai.GPT4VisionPreview
	}
	return &recognizer{client: client, model: model}
}

func (r *recognizer) Recognize(ctx context.Context, image []byte, languageHint string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrRecognitionFailed)
	}
	if languageHint == "" {
		languageHint = DefaultLanguageHint
	}

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		MaxTokens: maxTokens,
		Model:     r.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt(languageHint),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: models.ImageDataURL(image),
						},
					},
				},
			},
		},
	})
	if err != nil {
		logrus.WithError(err).Error("ocr: chat completion failed")
		return "", fmt.Errorf("%w: %v", ErrRecognitionFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrRecognitionFailed)
	}

	text := CleanTranscript(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%w: empty transcript", ErrRecognitionFailed)
	}
	logrus.WithField("lines", countLines(text)).Debug("ocr: transcript received")
	return text, nil
}

func prompt(languageHint string) string {
	return fmt.Sprintf(`The attached photo is a food delivery receipt, most likely in %s.

Transcribe the text of the receipt exactly as printed, one receipt line per output line,
top to bottom. Keep quantities, item names, "@Rp" unit prices and amounts exactly as they
appear, including dots and commas. Do not translate, summarize, reorder or add anything.
Output only the transcript, without greetings, explanations or code blocks.`, languageHint)
}
