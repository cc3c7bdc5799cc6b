package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"pocat/internal/configurator"
)

// Sender is the part of the Telegram API the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// RateLimiter reports whether subject may place one more order.
type RateLimiter interface {
	Allow(ctx context.Context, subject string) (bool, error)
}

type Deps struct {
	Engine    *configurator.Engine
	Drafts    *configurator.Drafts
	Submitter configurator.Submitter
	States    StateStore

	// Limiter is optional.
	Limiter RateLimiter
}

type Bot struct {
	api      *tgbotapi.BotAPI
	sender   Sender
	logger   *zap.Logger
	deps     Deps
	mu       sync.Mutex
	commands map[string]func(context.Context, int64, *ChatState)
	now      func() time.Time
}

func New(token string, debug bool, deps Deps, logger *zap.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	botAPI.Debug = debug

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	b := newBot(botAPI, deps, logger)
	b.api = botAPI
	return b, nil
}

func newBot(sender Sender, deps Deps, logger *zap.Logger) *Bot {
	b := &Bot{
		sender: sender,
		logger: logger,
		deps:   deps,
		now:    time.Now,
	}
	b.registerHandlers()
	return b
}

func (b *Bot) registerHandlers() {
	b.commands = map[string]func(context.Context, int64, *ChatState){
		"start": b.handleStart,
		"new":   b.handleNew,
		"price": b.handlePrice,
		"quote": b.handleQuote,
		"save":  b.handleSave,
		"help":  b.handleHelp,
	}
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			b.api.StopReceivingUpdates()
			return nil

		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate processes one update. Updates are handled one at a time so a
// chat's state is never read and written concurrently.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if update.Message != nil {
		b.processMessage(ctx, update.Message)
	} else if update.CallbackQuery != nil {
		b.processCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	state, err := b.loadState(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get chat state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong, please try again.")
		return
	}

	switch {
	case msg.IsCommand():
		handler, ok := b.commands[msg.Command()]
		if !ok {
			handler = b.handleHelp
		}
		handler(ctx, chatID, state)
	case msg.Document != nil || len(msg.Photo) > 0:
		b.handleFile(ctx, chatID, state, msg)
	case state.Awaiting != "":
		b.handleInput(ctx, chatID, state, msg.Text)
	default:
		b.showStep(chatID, state)
	}

	b.saveState(ctx, chatID, state)
}

func (b *Bot) processCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		return
	}
	chatID := cq.Message.Chat.ID

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", cq.Data))

	if _, err := b.sender.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Warn("Failed to answer callback", zap.Int64("chat_id", chatID), zap.Error(err))
	}

	cb, err := parseCallback(cq.Data)
	if err != nil {
		b.logger.Warn("Ignoring callback", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}

	state, err := b.loadState(ctx, chatID)
	if err != nil {
		b.logger.Error("Failed to get chat state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Something went wrong, please try again.")
		return
	}

	b.handleCallback(ctx, chatID, state, cb)
	b.saveState(ctx, chatID, state)
}

// loadState returns the chat's state. An unknown chat, or one whose stored
// state no longer decodes, starts a fresh session.
func (b *Bot) loadState(ctx context.Context, chatID int64) (*ChatState, error) {
	var raw json.RawMessage
	found, err := b.deps.States.LoadChatState(ctx, chatID, &raw)
	if err != nil {
		return nil, err
	}
	if !found {
		return newChatState(configurator.NewSession()), nil
	}

	var state ChatState
	if err := json.Unmarshal(raw, &state); err != nil {
		b.logger.Warn("Dropping unreadable chat state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		if err := b.deps.States.DropChatState(ctx, chatID); err != nil {
			b.logger.Error("Failed to drop chat state",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		}
		return newChatState(configurator.NewSession()), nil
	}
	return &state, nil
}

func (b *Bot) saveState(ctx context.Context, chatID int64, state *ChatState) {
	if err := b.deps.States.SaveChatState(ctx, chatID, state); err != nil {
		b.logger.Error("Failed to save chat state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func draftOwner(chatID int64) string {
	return "tg:" + strconv.FormatInt(chatID, 10)
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "❌ "+text))
}
