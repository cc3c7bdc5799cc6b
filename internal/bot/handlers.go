package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"pocat/internal/configurator"
	"pocat/internal/quote"
)

const helpText = `PoCat order bot

Walk through the five steps with the buttons below each message.
/start - continue your order or restore your saved draft
/new - discard everything and start over
/price - show the full price of the current configuration
/quote - get the quote as an Excel file
/save - save the configuration for later`

var prompts = map[configurator.Field]string{
	configurator.FieldPageCount: "How many pages does your document have?",
	configurator.FieldCopies:    "How many copies do you need?",
	configurator.FieldSpineText: fmt.Sprintf("Enter the spine text (up to %d characters).", configurator.MaxSpineTextLength),
	configurator.FieldCoverNote: "Enter a note for the cover, for example the title of your work.",
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, state *ChatState) {
	state.Awaiting = ""
	if state.Session.Config.HasBinding() && !state.Session.Confirmed() {
		b.sendMessage(tgbotapi.NewMessage(chatID, "👋 Welcome back! Here is where you left off."))
		b.showStep(chatID, state)
		return
	}

	cfg, found := b.deps.Drafts.Restore(ctx, draftOwner(chatID))
	if found {
		*state = *newChatState(configurator.ResumeSession(cfg))
		b.sendMessage(tgbotapi.NewMessage(chatID, "👋 Welcome back! Your saved configuration was restored."))
	} else {
		*state = *newChatState(configurator.NewSession())
		b.sendMessage(tgbotapi.NewMessage(chatID, "👋 Welcome to PoCat! Let's configure your print order."))
	}
	b.showStep(chatID, state)
}

func (b *Bot) handleNew(ctx context.Context, chatID int64, state *ChatState) {
	*state = *newChatState(configurator.NewSession())
	if err := b.deps.Drafts.Discard(ctx, draftOwner(chatID)); err != nil {
		b.logger.Warn("Failed to discard draft",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	b.sendMessage(tgbotapi.NewMessage(chatID, "🆕 Started a new order."))
	b.showStep(chatID, state)
}

func (b *Bot) handlePrice(_ context.Context, chatID int64, state *ChatState) {
	price := b.deps.Engine.Price(state.Session.Config, configurator.FullConfiguration)
	b.sendMessage(tgbotapi.NewMessage(chatID, formatPrice(price)))
}

func (b *Bot) handleQuote(_ context.Context, chatID int64, state *ChatState) {
	cfg := state.Session.Config
	price := b.deps.Engine.Price(cfg, configurator.FullConfiguration)

	reference := state.Session.ConfirmationID
	if reference == "" {
		reference = draftOwner(chatID)
	}

	data, err := quote.Export(b.deps.Engine.Catalog(), quote.Input{
		Configuration: cfg,
		Price:         price,
		Reference:     reference,
		CreatedAt:     b.now(),
	})
	if err != nil {
		b.logger.Error("Failed to export quote",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "The quote could not be created.")
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "pocat-quote.xlsx", Bytes: data})
	doc.Caption = "Total: " + formatEUR(price.Total)
	if _, err := b.sender.Send(doc); err != nil {
		b.logger.Error("Failed to send quote",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func (b *Bot) handleSave(ctx context.Context, chatID int64, state *ChatState) {
	if err := b.deps.Drafts.Save(ctx, draftOwner(chatID), state.Session.Config); err != nil {
		b.sendError(chatID, "Your configuration could not be saved.")
		return
	}
	b.sendMessage(tgbotapi.NewMessage(chatID, "💾 Saved. Send /start any time to continue."))
}

func (b *Bot) handleHelp(_ context.Context, chatID int64, _ *ChatState) {
	b.sendMessage(tgbotapi.NewMessage(chatID, helpText))
}

// handleFile records an upload. Photos, and images sent on the cover step,
// count as the custom logo; any other file is the document to print.
func (b *Bot) handleFile(_ context.Context, chatID int64, state *ChatState, msg *tgbotapi.Message) {
	if state.Session.Confirmed() {
		b.sendConfirmedNotice(chatID, state)
		return
	}

	isImage := msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/")
	switch {
	case len(msg.Photo) > 0 || (isImage && state.Session.Step == configurator.StepCover):
		state.Session.Attachments.CustomLogo = true
		b.sendMessage(tgbotapi.NewMessage(chatID, "🖼 Logo received."))
	default:
		state.Session.Attachments.Document = true
		b.sendMessage(tgbotapi.NewMessage(chatID, fmt.Sprintf("📎 Document received: %s", msg.Document.FileName)))
	}

	b.logger.Info("Upload received",
		zap.Int64("chat_id", chatID),
		zap.Bool("document", state.Session.Attachments.Document),
		zap.Bool("custom_logo", state.Session.Attachments.CustomLogo))
	b.showStep(chatID, state)
}

// handleInput fills in the field the chat was asked for.
func (b *Bot) handleInput(ctx context.Context, chatID int64, state *ChatState, text string) {
	field := state.Awaiting
	text = strings.TrimSpace(text)

	if field == configurator.FieldPageCount || field == configurator.FieldCopies {
		if n, err := strconv.Atoi(text); err != nil || n <= 0 {
			b.sendError(chatID, "Please enter a whole number greater than zero.")
			return
		}
	}

	state.Awaiting = ""
	if !state.Session.Set(field, text) {
		b.sendConfirmedNotice(chatID, state)
		return
	}
	if field == configurator.FieldSpineText && utf8.RuneCountInString(text) > configurator.MaxSpineTextLength {
		b.sendMessage(tgbotapi.NewMessage(chatID,
			fmt.Sprintf("✂️ The spine text was shortened to %d characters.", configurator.MaxSpineTextLength)))
	}

	b.autosave(ctx, chatID, state)
	b.showStep(chatID, state)
}

func (b *Bot) handleCallback(ctx context.Context, chatID int64, state *ChatState, cb callback) {
	switch cb.action {
	case actionSet:
		if !state.Session.Set(cb.field, cb.value) {
			b.sendConfirmedNotice(chatID, state)
			return
		}
		b.autosave(ctx, chatID, state)
		b.showStep(chatID, state)

	case actionAsk:
		if state.Session.Confirmed() {
			b.sendConfirmedNotice(chatID, state)
			return
		}
		state.Awaiting = cb.field
		b.sendMessage(tgbotapi.NewMessage(chatID, "✏️ "+prompts[cb.field]))

	case actionNext:
		state.Awaiting = ""
		state.Session.Next(b.deps.Engine.Catalog())
		b.showStep(chatID, state)

	case actionBack:
		state.Awaiting = ""
		state.Session.Back()
		b.showStep(chatID, state)

	case actionSubmit:
		b.handleSubmit(ctx, chatID, state)

	case actionQuote:
		b.handleQuote(ctx, chatID, state)

	case actionReset:
		b.handleNew(ctx, chatID, state)
	}
}

func (b *Bot) handleSubmit(ctx context.Context, chatID int64, state *ChatState) {
	if state.Session.Confirmed() {
		b.sendConfirmedNotice(chatID, state)
		return
	}

	cat := b.deps.Engine.Catalog()
	if result := configurator.ValidateSubmission(state.Session.Config, cat, state.Session.Attachments); !result.Valid {
		b.sendRejected(chatID, result)
		return
	}

	if b.deps.Limiter != nil {
		allowed, err := b.deps.Limiter.Allow(ctx, draftOwner(chatID))
		if err != nil {
			b.logger.Warn("Rate limiter unavailable, allowing order",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
		} else if !allowed {
			b.sendError(chatID, "Too many orders, please try again later.")
			return
		}
	}

	id, err := state.Session.Submit(ctx, b.deps.Submitter, cat)
	var rejected *configurator.RejectedError
	switch {
	case errors.As(err, &rejected):
		b.sendRejected(chatID, rejected.Result)
		return
	case err != nil:
		b.logger.Error("Order submission failed",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
		b.sendError(chatID, "Your order could not be placed, please try again later.")
		return
	}

	b.logger.Info("Order placed",
		zap.Int64("chat_id", chatID),
		zap.String("order_number", id),
		zap.String("binding", state.Session.Config.BindingID))

	if err := b.deps.Drafts.Discard(ctx, draftOwner(chatID)); err != nil {
		b.logger.Warn("Failed to discard draft",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
	b.showStep(chatID, state)
}

func (b *Bot) sendRejected(chatID int64, result configurator.Result) {
	b.sendMessage(tgbotapi.NewMessage(chatID, "Your order is not complete yet:\n"+formatReasons(result)))
}

func (b *Bot) sendConfirmedNotice(chatID int64, state *ChatState) {
	b.sendMessage(tgbotapi.NewMessage(chatID,
		fmt.Sprintf("Order %s is already placed. Send /new to start another one.", state.Session.ConfirmationID)))
}

func (b *Bot) autosave(ctx context.Context, chatID int64, state *ChatState) {
	// Save logs its own failures.
	_ = b.deps.Drafts.Save(ctx, draftOwner(chatID), state.Session.Config)
}

func (b *Bot) showStep(chatID int64, state *ChatState) {
	cat := b.deps.Engine.Catalog()
	snap := b.deps.Engine.Snapshot(&state.Session)

	msg := tgbotapi.NewMessage(chatID, renderStep(cat, &state.Session, snap))
	msg.ReplyMarkup = stepKeyboard(cat, &state.Session)
	b.sendMessage(msg)
}
