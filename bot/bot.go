package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	cafeapi "cafe-telegram/api"
	"cafe-telegram/config"
	"cafe-telegram/models"
	"cafe-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// categories are the menu pills shown to customers. "all" passes the whole
// menu through.
var categories = []struct{ Key, Label string }{
	{"all", "✦ All"},
	{models.CategoryCoffee, "☕ Coffee"},
	{models.CategoryColdBeverage, "❄ Cold Drinks"},
	{models.CategorySoda, "🫧 Soda"},
	{models.CategoryPastry, "🌿 Pastry"},
}

// session is the per-chat ordering state. It lives for the visit only:
// /start resets it, nothing is persisted.
type session struct {
	Zone    string
	Table   string
	Menu    []models.MenuItem
	Cart    *services.Cart
	Pending *models.OrderConfirmation
}

// Bot is the customer-facing ordering bot: welcome screen with seating zone
// and table, menu browsing by category, cart, checkout and receipt.
type Bot struct {
	api    *tgbotapi.BotAPI
	remote *cafeapi.Client // nil in demo mode
	cfg    *config.Config

	sessions   map[int64]*session
	sessionsMu sync.Mutex
}

func New(cfg *config.Config, remote *cafeapi.Client) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{
		api:      api,
		remote:   remote,
		cfg:      cfg,
		sessions: make(map[int64]*session),
	}, nil
}

// menuFetcher adapts the typed client to the catalog interface, keeping the
// interface nil (not a nil pointer in a non-nil interface) in demo mode.
func (b *Bot) menuFetcher() services.MenuFetcher {
	if b.remote == nil {
		return nil
	}
	return b.remote
}

func (b *Bot) submitter() services.OrderSubmitter {
	if b.remote == nil {
		return nil
	}
	return b.remote
}

func (b *Bot) getSession(chatID int64) *session {
	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()
	s, ok := b.sessions[chatID]
	if !ok {
		s = &session{Cart: services.NewCart()}
		b.sessions[chatID] = s
	}
	return s
}

func (b *Bot) resetSession(chatID int64) *session {
	b.sessionsMu.Lock()
	defer b.sessionsMu.Unlock()
	s := &session{Cart: services.NewCart()}
	b.sessions[chatID] = s
	return s
}

func (b *Bot) setBotCommands() error {
	cfg := tgbotapi.SetMyCommandsConfig{
		Commands: []tgbotapi.BotCommand{
			{Command: "start", Description: "Welcome screen"},
			{Command: "menu", Description: "Browse the menu"},
			{Command: "cart", Description: "Your order"},
		},
	}
	_, err := b.api.Request(cfg)
	return err
}

func (b *Bot) Start() {
	_ = b.setBotCommands()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.CallbackQuery != nil {
			b.handleCallback(update.CallbackQuery)
			continue
		}
		if update.Message == nil {
			continue
		}
		msg := update.Message
		text := strings.TrimSpace(msg.Text)

		switch {
		case text == "/start":
			b.handleStart(msg.Chat.ID)
		case text == "/menu":
			b.sendCategories(msg.Chat.ID)
		case text == "/cart":
			b.sendCart(msg.Chat.ID, 0)
		case text != "" && !strings.HasPrefix(text, "/"):
			b.handleTableNumber(msg.Chat.ID, text)
		}
	}
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

func (b *Bot) sendWithInline(chatID int64, text string, kb tgbotapi.InlineKeyboardMarkup) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("send error: %v", err)
	}
}

// editOrSend edits an existing message in place (menu pills, cart buttons);
// when editing fails, e.g. the message was deleted, it sends a fresh one.
func (b *Bot) editOrSend(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	if messageID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
		if _, err := b.api.Send(edit); err == nil {
			return
		} else if strings.Contains(err.Error(), "not modified") {
			return
		}
	}
	b.sendWithInline(chatID, text, kb)
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		log.Printf("answer callback error: %v", err)
	}
}

// ── Welcome ──

func (b *Bot) handleStart(chatID int64) {
	s := b.resetSession(chatID)
	s.Menu = services.LoadMenu(context.Background(), b.menuFetcher())

	var row []tgbotapi.InlineKeyboardButton
	for _, z := range b.cfg.Cafe.Zones {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(z, "zone:"+z))
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))

	text := "🌿☕ Welcome to " + b.cfg.Cafe.Name + "\nFeed your Soul.\n\n" +
		"Where are you seated? Pick a zone, then type your table number."
	if b.remote == nil {
		text += "\n\n✦ Demo mode: orders stay on this device."
	}
	b.sendWithInline(chatID, text, kb)
}

func (b *Bot) handleTableNumber(chatID int64, text string) {
	s := b.getSession(chatID)
	s.Table = text

	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("VIEW MENU →", "cat:all"),
		),
	)
	b.sendWithInline(chatID, "📍 "+services.Destination(s.Zone, s.Table)+"\nReady when you are.", kb)
}

// ── Menu browsing ──

func categoryKeyboard(active string) [][]tgbotapi.InlineKeyboardButton {
	var row []tgbotapi.InlineKeyboardButton
	for _, c := range categories {
		label := c.Label
		if strings.EqualFold(c.Key, active) {
			label = "· " + c.Label + " ·"
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, "cat:"+c.Key))
	}
	// Pills go two per row to stay readable on phones.
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := 0; i < len(row); i += 2 {
		end := i + 2
		if end > len(row) {
			end = len(row)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(row[i:end]...))
	}
	return rows
}

func itemButtonLabel(item models.MenuItem, inCart int) string {
	label := item.Name + " · " + services.Price(item.Price)
	if item.IsHot {
		label += " 🔥"
	}
	if item.IsCold {
		label += " 🧊"
	}
	if inCart > 0 {
		label += fmt.Sprintf(" (%d)", inCart)
	}
	return label
}

func (b *Bot) sendCategories(chatID int64) {
	b.sendCategoryMenu(chatID, "all", 0)
}

func (b *Bot) sendCategoryMenu(chatID int64, category string, editMsgID int) {
	s := b.getSession(chatID)
	if s.Menu == nil {
		s.Menu = services.LoadMenu(context.Background(), b.menuFetcher())
	}

	rows := categoryKeyboard(category)
	items := services.FilterByCategory(s.Menu, category)
	for _, item := range items {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ "+itemButtonLabel(item, s.Cart.Qty(item.ID)), "add:"+item.ID),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("🛒 Your Order (%d)", s.Cart.Count()), "cart:show"),
	))

	text := b.cfg.Cafe.Name + " — Menu"
	if len(items) == 0 {
		text += "\n\nNothing here yet... the garden grows 🌱"
	}
	b.editOrSend(chatID, editMsgID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

// ── Cart ──

func (b *Bot) cartView(s *session) (string, tgbotapi.InlineKeyboardMarkup) {
	lines := s.Cart.Lines()
	var sb strings.Builder
	sb.WriteString("🛒 Your Order\n")
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, line := range lines {
		fmt.Fprintf(&sb, "\n%d× %s — %s", line.Qty, line.Name, services.Price(line.Price*int64(line.Qty)))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("− "+line.Name, "dec:"+line.ID),
			tgbotapi.NewInlineKeyboardButtonData("＋", "inc:"+line.ID),
		))
	}
	fmt.Fprintf(&sb, "\n\nTotal: %s · %d item(s)", services.Price(s.Cart.Total()), s.Cart.Count())
	rows = append(rows,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Clear", "cart:clear"),
			tgbotapi.NewInlineKeyboardButtonData("← Menu", "cat:all"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✦ Place Order · "+services.Price(s.Cart.Total()), "cart:checkout"),
		),
	)
	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) sendCart(chatID int64, editMsgID int) {
	s := b.getSession(chatID)
	if s.Cart.Empty() {
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("VIEW MENU →", "cat:all"),
			),
		)
		b.editOrSend(chatID, editMsgID, "Your order is empty.", kb)
		return
	}
	text, kb := b.cartView(s)
	b.editOrSend(chatID, editMsgID, text, kb)
}

// ── Checkout ──

// receiptText is the order preview shown before the customer confirms.
func (b *Bot) receiptText(s *session) string {
	now := time.Now()
	var sb strings.Builder
	sb.WriteString(b.cfg.Cafe.Name + "\nFEED YOUR SOUL\n")
	sb.WriteString(now.Format("Mon, Jan 2 · 15:04") + "\n")
	if dest := services.Destination(s.Zone, s.Table); dest != "" {
		sb.WriteString("📍 " + dest + "\n")
	}
	sb.WriteString("\n")
	for _, line := range s.Cart.Lines() {
		fmt.Fprintf(&sb, "%d× %s  %s\n", line.Qty, line.Name, services.Price(line.Price*int64(line.Qty)))
	}
	fmt.Fprintf(&sb, "\nTotal  %s", services.Price(s.Cart.Total()))
	return sb.String()
}

func (b *Bot) sendReceiptPreview(chatID int64, editMsgID int) {
	s := b.getSession(chatID)
	if s.Cart.Empty() {
		b.sendCart(chatID, editMsgID)
		return
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("← Back", "order:back"),
			tgbotapi.NewInlineKeyboardButtonData("✦ Place Order", "order:place"),
		),
	)
	b.editOrSend(chatID, editMsgID, b.receiptText(s), kb)
}

// placeOrder submits the cart as an order. The cart is deliberately not
// cleared here: the customer still sees the receipt and clears it with Done.
func (b *Bot) placeOrder(chatID int64, editMsgID int) {
	s := b.getSession(chatID)
	if s.Cart.Empty() {
		b.sendCart(chatID, editMsgID)
		return
	}

	lines := s.Cart.Lines()
	items := make([]models.OrderLine, len(lines))
	for i, line := range lines {
		items[i] = models.OrderLine{ID: line.ID, Name: line.Name, Price: line.Price, Qty: line.Qty}
	}
	req := models.OrderRequest{
		TableNumber:   services.Destination(s.Zone, s.Table),
		Items:         items,
		PaymentMethod: services.PaymentPending,
	}

	conf := services.SubmitOrder(context.Background(), b.submitter(), req)
	s.Pending = conf

	text := "✦ ORDER " + conf.OrderID + "\n\n" + b.receiptText(s) +
		"\n\nOrder received. Your cup is being prepared with care."
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Done", "order:done"),
		),
	)
	b.editOrSend(chatID, editMsgID, text, kb)
}

func (b *Bot) finishOrder(chatID int64, editMsgID int) {
	s := b.getSession(chatID)
	orderID := ""
	if s.Pending != nil {
		orderID = s.Pending.OrderID
	}
	s.Cart.Clear()
	s.Pending = nil

	text := "Thank you! ✦"
	if orderID != "" {
		text = "Thank you! Order " + orderID + " is with the kitchen. ✦"
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("VIEW MENU →", "cat:all"),
		),
	)
	b.editOrSend(chatID, editMsgID, text, kb)
}

// ── Callbacks ──

func (b *Bot) handleCallback(cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil {
		b.answerCallback(cq.ID, "")
		return
	}
	chatID := cq.Message.Chat.ID
	msgID := cq.Message.MessageID
	data := cq.Data

	switch {
	case strings.HasPrefix(data, "zone:"):
		s := b.getSession(chatID)
		s.Zone = strings.TrimPrefix(data, "zone:")
		b.answerCallback(cq.ID, s.Zone)
		b.send(chatID, "🌿 "+s.Zone+" — now type your table number.")

	case strings.HasPrefix(data, "cat:"):
		b.answerCallback(cq.ID, "")
		b.sendCategoryMenu(chatID, strings.TrimPrefix(data, "cat:"), msgID)

	case strings.HasPrefix(data, "add:"):
		s := b.getSession(chatID)
		id := strings.TrimPrefix(data, "add:")
		item, ok := findItem(s.Menu, id)
		if !ok {
			b.answerCallback(cq.ID, "That item is gone from the menu.")
			return
		}
		s.Cart.Add(item)
		b.answerCallback(cq.ID, fmt.Sprintf("%s added (%d in cart)", item.Name, s.Cart.Qty(id)))
		b.sendCategoryMenu(chatID, activeCategory(cq), msgID)

	case strings.HasPrefix(data, "inc:"):
		s := b.getSession(chatID)
		s.Cart.Increment(strings.TrimPrefix(data, "inc:"))
		b.answerCallback(cq.ID, "")
		b.sendCart(chatID, msgID)

	case strings.HasPrefix(data, "dec:"):
		s := b.getSession(chatID)
		s.Cart.Decrement(strings.TrimPrefix(data, "dec:"))
		b.answerCallback(cq.ID, "")
		b.sendCart(chatID, msgID)

	case data == "cart:show":
		b.answerCallback(cq.ID, "")
		b.sendCart(chatID, msgID)

	case data == "cart:clear":
		s := b.getSession(chatID)
		s.Cart.Clear()
		b.answerCallback(cq.ID, "Cart cleared")
		b.sendCart(chatID, msgID)

	case data == "cart:checkout":
		b.answerCallback(cq.ID, "")
		b.sendReceiptPreview(chatID, msgID)

	case data == "order:back":
		b.answerCallback(cq.ID, "")
		b.sendCart(chatID, msgID)

	case data == "order:place":
		b.answerCallback(cq.ID, "Sending...")
		b.placeOrder(chatID, msgID)

	case data == "order:done":
		b.answerCallback(cq.ID, "")
		b.finishOrder(chatID, msgID)

	default:
		b.answerCallback(cq.ID, "")
	}
}

// activeCategory recovers which pill the tapped menu message was showing, so
// an add keeps the customer on the same category. Falls back to "all".
func activeCategory(cq *tgbotapi.CallbackQuery) string {
	if cq.Message == nil || cq.Message.ReplyMarkup == nil {
		return "all"
	}
	for _, row := range cq.Message.ReplyMarkup.InlineKeyboard {
		for _, btn := range row {
			if btn.Text != "" && strings.HasPrefix(btn.Text, "· ") && btn.CallbackData != nil {
				return strings.TrimPrefix(*btn.CallbackData, "cat:")
			}
		}
	}
	return "all"
}

func findItem(menu []models.MenuItem, id string) (models.MenuItem, bool) {
	for _, item := range menu {
		if item.ID == id {
			return item, true
		}
	}
	return models.MenuItem{}, false
}
