package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/matheuscscp/splitbill/config"
	_ "github.com/matheuscscp/splitbill/logging"
	"github.com/matheuscscp/splitbill/services/events"
	"github.com/matheuscscp/splitbill/services/ocr"
	"github.com/matheuscscp/splitbill/services/secrets"
	"github.com/matheuscscp/splitbill/services/snapshots"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

type (
	botClient struct {
		telegramToken  string
		telegramClient *tgbotapi.BotAPI
		chatID         int64
		closed         bool
		msgQueue       []string
	}
)

const (
	botLongPollingTimeout = 60 * time.Second
	botTimeout            = 540*time.Second - botLongPollingTimeout - 5*time.Second

	maxPhotoSize = 20 << 20
)

var (
	regexCya = regexp.MustCompile(`(?i)^\s*cya\s*$`)
)

func (b *botClient) account() string {
	return b.telegramClient.Self.UserName
}

func (b *botClient) shutdown() {
	b.closed = true
	b.telegramClient.StopReceivingUpdates()
}

func (b *botClient) enqueue(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	b.msgQueue = append(b.msgQueue, msg)
}

func (b *botClient) send(format string, args ...interface{}) {
	b.enqueue(format, args...)

	fullText := strings.Join(b.msgQueue, "\n\n")
	logrus.Infof("[%s] %s", b.account(), fullText)

	msg := tgbotapi.NewMessage(b.chatID, fullText)
	if _, err := b.telegramClient.Send(msg); err != nil {
		logrus.Errorf("error sending message: %v\n\nmessage text:\n%s", err, fullText)
	} else {
		b.msgQueue = nil
	}
}

func (b *botClient) shouldSkip(update *tgbotapi.Update) bool {
	if b.closed || update.Message == nil {
		return true
	}
	if update.Message.Chat.ID != b.chatID {
		logrus.WithField("chat_id", update.Message.Chat.ID).Warn("unallowed chat id")
		return true
	}
	return regexCya.MatchString(update.Message.Text)
}

func (b *botClient) downloadPhoto(update *tgbotapi.Update) ([]byte, error) {
	photos := update.Message.Photo
	fd, err := b.telegramClient.GetFile(tgbotapi.FileConfig{
		FileID: photos[len(photos)-1].FileID,
	})
	if err != nil {
		return nil, fmt.Errorf("error getting file descriptor: %w", err)
	}
	resp, err := http.Get(fd.Link(b.telegramToken))
	if err != nil {
		return nil, fmt.Errorf("error getting file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("error getting file: unexpected status %s", resp.Status)
	}
	image, err := io.ReadAll(io.LimitReader(resp.Body, maxPhotoSize))
	if err != nil {
		return nil, fmt.Errorf("error downloading file: %w", err)
	}
	return image, nil
}

// Run starts the bot and returns when the chat is finished or the function
// deadline approaches. user is who asked for the start.
func Run(ctx context.Context, user string) error {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(ctx, botTimeout)
	defer cancel()

	var conf config.Bot
	if err := config.Load(&conf); err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	var secretsService secrets.Service
	if conf.Telegram.TokenSecretID != "" || conf.OpenAI.TokenSecretID != "" {
		var err error
		if secretsService, err = secrets.NewService(ctx); err != nil {
			return fmt.Errorf("error creating secrets service: %w", err)
		}
		defer secretsService.Close()
	}
	telegramToken, err := secrets.Resolve(ctx, secretsService, conf.Telegram.Token, conf.Telegram.TokenSecretID)
	if err != nil {
		return fmt.Errorf("error resolving telegram token: %w", err)
	}
	openAIToken, err := secrets.Resolve(ctx, secretsService, conf.OpenAI.Token, conf.OpenAI.TokenSecretID)
	if err != nil {
		return fmt.Errorf("error resolving openai token: %w", err)
	}

	telegramClient, err := tgbotapi.NewBotAPI(telegramToken)
	if err != nil {
		return fmt.Errorf("error creating Telegram Bot API client: %w", err)
	}

	store, err := snapshots.NewStore(ctx, conf.Snapshots)
	if err != nil {
		return fmt.Errorf("error creating snapshot store: %w", err)
	}
	defer store.Close()

	eventsService, err := events.NewService(ctx, conf.Events.ProjectID)
	if err != nil {
		return fmt.Errorf("error creating events service: %w", err)
	}
	defer eventsService.Close()

	sess := newSession(
		store,
		ocr.NewRecognizer(openAIToken, conf.OpenAI.Model),
		eventsService,
		conf.Events.SnapshotTopicID,
		conf.OpenAI.LanguageHint,
	)

	updateConf := tgbotapi.NewUpdate(0 /*offset*/)
	updateConf.Timeout = int(botLongPollingTimeout.Seconds())
	updateChannel := telegramClient.GetUpdatesChan(updateConf)

	bot := &botClient{
		telegramToken:  telegramToken,
		telegramClient: telegramClient,
		chatID:         conf.Telegram.ChatID,
	}

	logrus.Infof("Authenticated on Telegram bot account %s", bot.account())

	// shutdown thread
	go func() {
		<-ctx.Done()
		bot.send("My context was cancelled, I'm shutting down.")
		bot.shutdown()
	}()

	if user != "" {
		bot.enqueue("Hi, %s.", user)
	} else {
		bot.enqueue("Hi.")
	}
	bot.send("Send me a receipt to split. /help shows what I can do.")

	for update := range updateChannel {
		if bot.shouldSkip(&update) {
			continue
		}

		msg := update.Message.Text
		if from := update.Message.From; from != nil {
			logrus.Infof("[%s] %s", from.UserName, msg)
		}
		logrus.WithField("msg", update.Message).Debug("msg")

		// handle lifecycle commands
		if cmd, ok := parseCommand(msg); ok {
			switch cmd.name {
			case cmdUptime:
				bot.send("I'm up for %s.", time.Since(startTime).Round(time.Second))
				continue
			case cmdFinish:
				cancel()
				continue
			}
		}

		reply := func() (reply string) {
			defer func() {
				if p := recover(); p != nil {
					logrus.Errorf("panic handling message: %v\n%s", p, string(debug.Stack()))
					reply = "Something went wrong on my side. Let's try again."
				}
			}()

			if len(update.Message.Photo) > 0 {
				bot.send("Okay, I'm reading this receipt...")
				image, err := bot.downloadPhoto(&update)
				if err != nil {
					return fmt.Sprintf("I got this error trying to get the photo you sent me:\n\n%v", err)
				}
				return sess.handlePhoto(ctx, image)
			}
			return sess.handleText(ctx, msg)
		}()
		bot.send("%s", reply)
	}

	bot.send("Cya.")
	return nil
}
