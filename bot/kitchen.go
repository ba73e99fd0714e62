package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"cafe-telegram/config"
	"cafe-telegram/models"
	"cafe-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// KitchenBot is the staff-facing queue bot (uses KITCHEN_TOKEN). Each staff
// chat gets a queue board message that is edited in place as the poller
// refreshes. Status buttons issue the single forward transition and the
// board only changes once the re-poll confirms what the server stored.
type KitchenBot struct {
	api   *tgbotapi.BotAPI
	queue *services.Queue
	cfg   *config.Config

	boardsMu sync.Mutex
	boards   map[int64]int // chatID -> messageID of that chat's queue board
}

func NewKitchenBot(cfg *config.Config, queue *services.Queue) (*KitchenBot, error) {
	if cfg.Telegram.KitchenToken == "" {
		return nil, fmt.Errorf("KITCHEN_TOKEN not set")
	}
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.KitchenToken)
	if err != nil {
		return nil, err
	}
	return &KitchenBot{
		api:    api,
		queue:  queue,
		cfg:    cfg,
		boards: make(map[int64]int),
	}, nil
}

// Start runs the poller and the update loop. Cancelling ctx stops the poller
// so no refresh timer survives the queue view.
func (k *KitchenBot) Start(ctx context.Context) {
	k.queue.OnRefresh(k.refreshBoards)
	go k.queue.Run(ctx)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := k.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			k.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.CallbackQuery != nil {
				k.handleCallback(ctx, update.CallbackQuery)
				continue
			}
			if update.Message == nil {
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			if text == "/start" || text == "/queue" {
				k.handleQueue(ctx, update.Message.Chat.ID)
			}
		}
	}
}

func (k *KitchenBot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := k.api.Send(msg); err != nil {
		log.Printf("kitchen bot send error: %v", err)
	}
}

// handleQueue sends (or re-sends) the queue board for a staff chat.
func (k *KitchenBot) handleQueue(ctx context.Context, chatID int64) {
	text, kb := k.board(k.queue.Orders())
	msg := tgbotapi.NewMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	sent, err := k.api.Send(msg)
	if err != nil {
		log.Printf("kitchen bot send error: %v", err)
		return
	}
	k.boardsMu.Lock()
	k.boards[chatID] = sent.MessageID
	k.boardsMu.Unlock()

	// Pull fresh data for the new board; the refresh callback repaints it.
	go k.queue.Refresh(ctx)
}

func (k *KitchenBot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	data := cq.Data
	if !strings.HasPrefix(data, "advance:") {
		k.answerCallback(cq.ID, "")
		return
	}
	// advance:<orderID>:<currentStatus>
	parts := strings.SplitN(strings.TrimPrefix(data, "advance:"), ":", 2)
	if len(parts) != 2 {
		k.answerCallback(cq.ID, "")
		return
	}
	orderID, current := parts[0], parts[1]
	next, ok := services.NextStatus(current)
	if !ok {
		k.answerCallback(cq.ID, "Nothing left to do for this order.")
		return
	}
	k.answerCallback(cq.ID, orderID+" → "+next)
	k.queue.Advance(ctx, orderID, current)
}

func (k *KitchenBot) answerCallback(id, text string) {
	if _, err := k.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("kitchen bot answer callback error: %v", err)
	}
}

// board renders the visible queue as one message plus action buttons, one
// forward transition per order.
func (k *KitchenBot) board(orders []models.QueueOrder) (string, *tgbotapi.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("🔥 " + k.cfg.Cafe.Name + " — The Slow Bar\n")
	fmt.Fprintf(&sb, "Kitchen queue · auto-refreshes every %s\n", k.queue.Interval())

	if len(orders) == 0 {
		sb.WriteString("\nQuiet moment... no orders yet ✦")
		return sb.String(), nil
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, o := range orders {
		fmt.Fprintf(&sb, "\n%s · %s", o.OrderID, o.Status)
		if o.TableNumber != "" {
			fmt.Fprintf(&sb, " · %s", o.TableNumber)
		}
		if o.Timestamp != "" {
			fmt.Fprintf(&sb, " · %s", o.Timestamp)
		}
		if o.ItemsSummary != "" {
			fmt.Fprintf(&sb, "\n   %s", o.ItemsSummary)
		}
		fmt.Fprintf(&sb, "\n   %s\n", services.Price(o.Subtotal))

		if label := services.ActionLabel(o.Status); label != "" {
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(
					label+" · "+o.OrderID,
					"advance:"+o.OrderID+":"+o.Status,
				),
			))
		}
	}
	if len(rows) == 0 {
		return sb.String(), nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return sb.String(), &kb
}

// refreshBoards repaints every staff chat's board after a poll. "Not
// modified" answers from Telegram are expected when nothing changed.
func (k *KitchenBot) refreshBoards(orders []models.QueueOrder) {
	text, kb := k.board(orders)

	k.boardsMu.Lock()
	boards := make(map[int64]int, len(k.boards))
	for chatID, msgID := range k.boards {
		boards[chatID] = msgID
	}
	k.boardsMu.Unlock()

	for chatID, msgID := range boards {
		var err error
		if kb != nil {
			edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, *kb)
			_, err = k.api.Send(edit)
		} else {
			edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
			_, err = k.api.Send(edit)
		}
		if err != nil && !strings.Contains(err.Error(), "not modified") {
			log.Printf("kitchen bot board edit error (chat %d): %v", chatID, err)
		}
	}
}
