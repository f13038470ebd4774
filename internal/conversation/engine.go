// Package conversation implements the ordering flow as a per-user state
// machine. One inbound event produces one state transition and one
// outbound reply; events for the same user are processed in arrival
// order.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/handystore/storefront-bot/internal/catalog"
	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/notify"
	"github.com/handystore/storefront-bot/internal/pricing"
	"github.com/handystore/storefront-bot/internal/repository"
	"github.com/handystore/storefront-bot/internal/service"
)

// CallbackTrack is the single structured callback action: an operator
// attaching a tracking code to a buyer's order.
const CallbackTrack = "track"

// Config wires an Engine.
type Config struct {
	Sessions Store
	Catalog  *catalog.Catalog
	Ledger   *service.Ledger
	Orders   repository.OrderRepository
	Bridge   *notify.Bridge
	Sender   notify.Sender

	// Now and NewID are overridable for tests.
	Now   func() time.Time
	NewID func() string
}

// Engine is the conversation state machine.
type Engine struct {
	sessions Store
	catalog  *catalog.Catalog
	ledger   *service.Ledger
	orders   repository.OrderRepository
	bridge   *notify.Bridge
	sender   notify.Sender
	now      func() time.Time
	newID    func() string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates an Engine from cfg.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		sessions: cfg.Sessions,
		catalog:  cfg.Catalog,
		ledger:   cfg.Ledger,
		orders:   cfg.Orders,
		bridge:   cfg.Bridge,
		sender:   cfg.Sender,
		now:      cfg.Now,
		newID:    cfg.NewID,
		locks:    make(map[string]*sync.Mutex),
	}
	if e.sessions == nil {
		e.sessions = NewMemoryStore()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	return e
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		e.locks[userID] = m
	}
	return m
}

// Handle processes one inbound event and returns the reply. Turns for
// the same user are serialized; no failure inside a turn crosses into
// another user's session.
func (e *Engine) Handle(ctx context.Context, ev entity.Inbound) (entity.Outbound, error) {
	if ev.UserID == "" {
		return entity.Outbound{}, fmt.Errorf("inbound event without user id")
	}

	lock := e.userLock(ev.UserID)
	lock.Lock()
	defer lock.Unlock()

	ses, err := e.sessions.Load(ctx, ev.UserID)
	if err != nil {
		slog.Error("Failed to load session", "user_id", ev.UserID, "err", err)
		return e.apology(ev.UserID), nil
	}
	if ses == nil {
		ses = &entity.Session{UserID: ev.UserID, State: entity.MainMenu}
	}
	if ev.UserName != "" {
		ses.UserName = ev.UserName
	}

	var out entity.Outbound
	if ev.Callback != nil {
		out = e.handleCallback(ses, ev.Callback)
	} else {
		out = e.dispatch(ctx, ses, strings.TrimSpace(ev.Text))
	}
	out.UserID = ev.UserID

	if err := e.sessions.Save(ctx, ses); err != nil {
		slog.Error("Failed to save session", "user_id", ev.UserID, "err", err)
	}
	return out, nil
}

func (e *Engine) dispatch(ctx context.Context, ses *entity.Session, text string) entity.Outbound {
	// Restart works from any state, draft and all.
	if text == btnRestart || text == "/start" {
		ses.Reset()
		return e.mainMenu(welcomeText)
	}

	switch ses.State {
	case entity.MainMenu:
		return e.handleMainMenu(ctx, ses, text)
	case entity.Catalog:
		return e.handleCatalog(ses, text)
	case entity.SelectingQuantity:
		return e.handleQuantity(ctx, ses, text)
	case entity.UsePoints:
		return e.handleUsePoints(ctx, ses, text)
	case entity.DeliveryMethodSelect:
		return e.handleDeliveryMethod(ses, text)
	case entity.OrderComment:
		return e.handleOrderComment(ses, text)
	case entity.EnterUserData:
		return e.handleUserData(ses, text)
	case entity.ConfirmOrder:
		return e.handleConfirm(ctx, ses, text)
	case entity.AdminTrackingInput:
		return e.handleAdminTracking(ctx, ses, text)
	default:
		ses.Reset()
		return e.mainMenu(welcomeText)
	}
}

func (e *Engine) apology(userID string) entity.Outbound {
	return entity.Outbound{UserID: userID, Text: storeUnavailableText}
}

func (e *Engine) mainMenu(text string) entity.Outbound {
	return entity.Outbound{Text: text, Options: mainMenuOptions()}
}

// --- MAIN_MENU ---

func (e *Engine) handleMainMenu(ctx context.Context, ses *entity.Session, text string) entity.Outbound {
	switch text {
	case btnCatalog:
		ses.State = entity.Catalog
		ses.Category = ""
		return entity.Outbound{Text: "Выберите категорию товаров:", Options: categoryOptions(e.catalog)}
	case btnLoyalty:
		acc, err := e.ledger.Account(ctx, ses.UserID)
		if err != nil {
			slog.Error("Failed to load loyalty account", "user_id", ses.UserID, "err", err)
			return e.apology(ses.UserID)
		}
		return e.mainMenu(loyaltyText(acc))
	case btnMyOrders:
		return e.showOrders(ctx, ses)
	case btnFAQ:
		return e.mainMenu(faqText)
	case btnDelivery:
		return e.mainMenu(deliveryInfoText(e.catalog))
	default:
		return e.mainMenu(menuPromptText)
	}
}

func (e *Engine) showOrders(ctx context.Context, ses *entity.Session) entity.Outbound {
	orders, err := e.orders.ListByUser(ctx, ses.UserID)
	if err != nil {
		slog.Error("Failed to list orders", "user_id", ses.UserID, "err", err)
		return e.apology(ses.UserID)
	}
	if len(orders) == 0 {
		return e.mainMenu("У вас пока нет заказов.")
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return e.mainMenu(ordersListText(orders))
}

// --- CATALOG ---

func (e *Engine) handleCatalog(ses *entity.Session, text string) entity.Outbound {
	switch text {
	case btnMainMenu:
		ses.State = entity.MainMenu
		ses.Category = ""
		return e.mainMenu("Вы вернулись в главное меню")
	case btnBack:
		ses.Category = ""
		return entity.Outbound{Text: "Выберите категорию товаров:", Options: categoryOptions(e.catalog)}
	}

	category := strings.TrimSpace(strings.TrimPrefix(text, "📁"))
	for _, c := range e.catalog.Categories() {
		if c == category {
			ses.Category = c
			return entity.Outbound{Text: categoryText(e.catalog, c), Options: productOptions(e.catalog, c)}
		}
	}

	if ses.Category != "" {
		if p, ok := e.catalog.FindInCategory(ses.Category, text); ok {
			ses.Draft = &entity.DraftOrder{ProductID: p.ID, ProductName: p.Name}
			ses.State = entity.SelectingQuantity
			return entity.Outbound{
				Text:    fmt.Sprintf("Выберите количество для %s:", p.Name),
				Options: quantityOptions(),
			}
		}
	}

	return entity.Outbound{Text: "Выберите категорию из меню", Options: categoryOptions(e.catalog)}
}

// --- SELECTING_QUANTITY ---

func (e *Engine) handleQuantity(ctx context.Context, ses *entity.Session, text string) entity.Outbound {
	if text == btnBack {
		ses.State = entity.Catalog
		if ses.Category != "" {
			return entity.Outbound{Text: categoryText(e.catalog, ses.Category), Options: productOptions(e.catalog, ses.Category)}
		}
		return entity.Outbound{Text: "Выберите категорию товаров:", Options: categoryOptions(e.catalog)}
	}

	quantity, err := strconv.Atoi(text)
	if err != nil || !pricing.ValidQuantity(quantity) {
		// Recoverable validation failure: stay and re-prompt.
		return entity.Outbound{Text: "🔢 Пожалуйста, выберите количество от 1 до 9:", Options: quantityOptions()}
	}

	if ses.Draft == nil || ses.Draft.ProductID == "" {
		ses.State = entity.Catalog
		return entity.Outbound{Text: "❌ Товар не выбран. Пожалуйста, начните выбор заново.", Options: categoryOptions(e.catalog)}
	}
	product, ok := e.catalog.Product(ses.Draft.ProductID)
	if !ok {
		ses.State = entity.Catalog
		ses.Draft = nil
		return entity.Outbound{Text: "❌ Товар больше не доступен. Пожалуйста, выберите другой.", Options: categoryOptions(e.catalog)}
	}

	base := pricing.LineTotal(product.Price, quantity)
	// Recomputing the quantity always discards any earlier redemption
	// choice and commit progress.
	ses.Draft = &entity.DraftOrder{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		BaseTotal:   base,
		FinalPrice:  base,
	}

	acc, err := e.ledger.Account(ctx, ses.UserID)
	if err != nil {
		slog.Error("Failed to load loyalty account", "user_id", ses.UserID, "err", err)
		return e.apology(ses.UserID)
	}

	if acc.Points > 0 {
		ses.State = entity.UsePoints
		return entity.Outbound{
			Text:    pointsOfferText(ses.Draft, acc.Points),
			Options: []string{btnUsePoints, btnSkipPoints, btnBack},
		}
	}

	ses.State = entity.DeliveryMethodSelect
	return entity.Outbound{
		Text:    orderSummaryText(ses.Draft) + "\n\nℹ️ У вас пока нет бонусных баллов.\n" + deliveryPromptText,
		Options: deliveryOptions(e.catalog),
	}
}

// --- USE_POINTS ---

func (e *Engine) handleUsePoints(ctx context.Context, ses *entity.Session, text string) entity.Outbound {
	if ses.Draft == nil {
		ses.Reset()
		return e.mainMenu(menuPromptText)
	}

	switch text {
	case btnBack:
		// Discard the redemption choice; quantity gets re-entered fresh.
		ses.State = entity.SelectingQuantity
		ses.Draft = &entity.DraftOrder{ProductID: ses.Draft.ProductID, ProductName: ses.Draft.ProductName}
		return entity.Outbound{
			Text:    fmt.Sprintf("Выберите количество для %s:", ses.Draft.ProductName),
			Options: quantityOptions(),
		}
	case btnUsePoints:
		acc, err := e.ledger.Account(ctx, ses.UserID)
		if err != nil {
			slog.Error("Failed to load loyalty account", "user_id", ses.UserID, "err", err)
			return e.apology(ses.UserID)
		}
		// The redemption is locked into the draft here; the ledger is
		// only debited when the order commits.
		discount, used := pricing.RedeemableDiscount(acc.Points, ses.Draft.BaseTotal)
		ses.Draft.PointsUsed = used
		ses.Draft.PointsValue = discount
		ses.Draft.FinalPrice = ses.Draft.BaseTotal - discount
		ses.State = entity.DeliveryMethodSelect
		return entity.Outbound{Text: redeemedText(ses.Draft), Options: deliveryOptions(e.catalog)}
	case btnSkipPoints:
		ses.Draft.PointsUsed = 0
		ses.Draft.PointsValue = 0
		ses.Draft.FinalPrice = ses.Draft.BaseTotal
		ses.State = entity.DeliveryMethodSelect
		return entity.Outbound{Text: deliveryPromptText, Options: deliveryOptions(e.catalog)}
	default:
		return entity.Outbound{
			Text:    "Хотите использовать баллы для оплаты?",
			Options: []string{btnUsePoints, btnSkipPoints, btnBack},
		}
	}
}

// --- DELIVERY_METHOD ---

func (e *Engine) handleDeliveryMethod(ses *entity.Session, text string) entity.Outbound {
	if ses.Draft == nil {
		ses.Reset()
		return e.mainMenu(menuPromptText)
	}

	if text == btnBack {
		ses.State = entity.SelectingQuantity
		return entity.Outbound{
			Text:    fmt.Sprintf("Выберите количество для %s:", ses.Draft.ProductName),
			Options: quantityOptions(),
		}
	}

	method, ok := e.catalog.DeliveryMethodByName(text)
	if !ok {
		return entity.Outbound{
			Text:    "❌ Пожалуйста, выберите способ доставки из предложенных вариантов:",
			Options: deliveryOptions(e.catalog),
		}
	}

	ses.Draft.DeliveryMethod = method.ID
	ses.State = entity.OrderComment
	return entity.Outbound{Text: commentPromptText, Options: []string{btnNoComment, btnBack}}
}

// --- ORDER_COMMENT ---

func (e *Engine) handleOrderComment(ses *entity.Session, text string) entity.Outbound {
	if ses.Draft == nil {
		ses.Reset()
		return e.mainMenu(menuPromptText)
	}

	switch text {
	case btnBack:
		ses.State = entity.DeliveryMethodSelect
		return entity.Outbound{Text: deliveryPromptText, Options: deliveryOptions(e.catalog)}
	case btnNoComment:
		ses.Draft.Comment = ""
	default:
		ses.Draft.Comment = text
	}

	method, ok := e.catalog.DeliveryMethod(ses.Draft.DeliveryMethod)
	if !ok {
		ses.State = entity.DeliveryMethodSelect
		return entity.Outbound{Text: deliveryPromptText, Options: deliveryOptions(e.catalog)}
	}

	ses.State = entity.EnterUserData
	return entity.Outbound{Text: userDataPromptText(method), Options: []string{btnBack}}
}

// --- ENTER_USER_DATA ---

func (e *Engine) handleUserData(ses *entity.Session, text string) entity.Outbound {
	if ses.Draft == nil {
		ses.Reset()
		return e.mainMenu(menuPromptText)
	}

	if text == btnBack {
		ses.State = entity.DeliveryMethodSelect
		return entity.Outbound{Text: deliveryPromptText, Options: deliveryOptions(e.catalog)}
	}

	method, ok := e.catalog.DeliveryMethod(ses.Draft.DeliveryMethod)
	if !ok {
		ses.State = entity.DeliveryMethodSelect
		return entity.Outbound{Text: deliveryPromptText, Options: deliveryOptions(e.catalog)}
	}

	if missing := missingFields(text, method.Fields); len(missing) > 0 {
		return entity.Outbound{Text: missingFieldsText(missing), Options: []string{btnBack}}
	}

	ses.Draft.UserData = text
	ses.State = entity.ConfirmOrder
	return entity.Outbound{
		Text:    confirmText(ses.Draft, method.Name),
		Options: []string{btnConfirm, btnCancel, btnBack},
	}
}

// --- CONFIRM_ORDER ---

func (e *Engine) handleConfirm(ctx context.Context, ses *entity.Session, text string) entity.Outbound {
	if ses.Draft == nil {
		ses.Reset()
		return e.mainMenu(menuPromptText)
	}

	switch text {
	case btnBack:
		method, _ := e.catalog.DeliveryMethod(ses.Draft.DeliveryMethod)
		ses.State = entity.EnterUserData
		return entity.Outbound{Text: userDataPromptText(method), Options: []string{btnBack}}
	case btnCancel:
		// The draft is dropped; the ledger was never touched, so the
		// balance stays whatever it was.
		ses.Reset()
		return e.mainMenu("❌ Заказ отменен. Возвращаемся в главное меню.")
	case btnConfirm:
		return e.commit(ctx, ses)
	default:
		method, _ := e.catalog.DeliveryMethod(ses.Draft.DeliveryMethod)
		return entity.Outbound{
			Text:    confirmText(ses.Draft, method.Name),
			Options: []string{btnConfirm, btnCancel, btnBack},
		}
	}
}

// commit finalizes the draft: persist, notify the back office, settle
// the loyalty ledger, clear the session. Any failure before the success
// reply leaves the draft intact so the user can retry; the pre-assigned
// order id and the idempotent store keep retries from duplicating
// anything.
func (e *Engine) commit(ctx context.Context, ses *entity.Session) entity.Outbound {
	draft := ses.Draft
	if draft.OrderID == "" {
		draft.OrderID = e.newID()
		// The id must be durable before any side effect; otherwise a
		// replay after a lost session write would mint a second order.
		if err := e.sessions.Save(ctx, ses); err != nil {
			slog.Error("Failed to persist draft order id", "order_id", draft.OrderID, "err", err)
			draft.OrderID = ""
			return retryableCommitReply()
		}
	}

	method, _ := e.catalog.DeliveryMethod(draft.DeliveryMethod)
	order := entity.Order{
		ID:             draft.OrderID,
		UserID:         ses.UserID,
		UserName:       ses.UserName,
		ProductID:      draft.ProductID,
		ProductName:    draft.ProductName,
		Quantity:       draft.Quantity,
		BaseTotal:      draft.BaseTotal,
		PointsUsed:     draft.PointsUsed,
		PointsValue:    draft.PointsValue,
		FinalPrice:     draft.FinalPrice,
		DeliveryMethod: method.Name,
		UserData:       draft.UserData,
		Comment:        draft.Comment,
		Status:         entity.StatusPending,
		CreatedAt:      e.now(),
	}

	if err := e.orders.Append(ctx, order); err != nil {
		slog.Error("Failed to persist order", "order_id", order.ID, "err", err)
		return retryableCommitReply()
	}

	if !draft.Notified {
		if err := e.bridge.OrderCommitted(ctx, order); err != nil {
			slog.Error("Failed to notify admin channel", "order_id", order.ID, "err", err)
			return retryableCommitReply()
		}
		draft.Notified = true
		if err := e.sessions.Save(ctx, ses); err != nil {
			slog.Error("Failed to persist notification marker", "order_id", order.ID, "err", err)
		}
	}

	settlement, err := e.ledger.Settle(ctx, ses.UserID, order.ID, draft.PointsUsed, draft.FinalPrice)
	if err != nil {
		slog.Error("Failed to settle loyalty account", "order_id", order.ID, "err", err)
		return retryableCommitReply()
	}

	slog.Info("✅ Order committed",
		"order_id", order.ID,
		"user_id", ses.UserID,
		"final_price", order.FinalPrice,
		"points_used", settlement.PointsUsed,
	)

	ses.Reset()
	return e.mainMenu(committedText(order, settlement.PointsEarned, settlement.Account.Points))
}

func retryableCommitReply() entity.Outbound {
	return entity.Outbound{
		Text:    "😔 Не удалось оформить заказ. Пожалуйста, попробуйте ещё раз.",
		Options: []string{btnConfirm, btnCancel, btnBack},
	}
}

// --- ADMIN_TRACKING_INPUT ---

func (e *Engine) handleCallback(ses *entity.Session, cb *entity.Callback) entity.Outbound {
	if cb.Action != CallbackTrack || cb.TargetUserID == "" {
		return e.mainMenu(menuPromptText)
	}
	ses.Tracking = &entity.TrackingTarget{UserID: cb.TargetUserID, OrderID: cb.OrderID}
	ses.State = entity.AdminTrackingInput
	return entity.Outbound{
		Text: fmt.Sprintf("📝 Введите трек-код для отправки пользователю (ID: %s):", cb.TargetUserID),
	}
}

func (e *Engine) handleAdminTracking(ctx context.Context, ses *entity.Session, text string) entity.Outbound {
	target := ses.Tracking
	if target == nil {
		ses.Reset()
		return e.mainMenu("❌ Ошибка: не найден получатель трек-кода.")
	}

	code := strings.TrimSpace(text)
	if code == "" {
		return entity.Outbound{Text: fmt.Sprintf("📝 Введите трек-код для отправки пользователю (ID: %s):", target.UserID)}
	}

	orderID := target.OrderID
	if orderID == "" {
		var err error
		orderID, err = e.latestPendingOrder(ctx, target.UserID)
		if err != nil {
			slog.Error("Failed to resolve order for tracking", "user_id", target.UserID, "err", err)
			return e.apology(ses.UserID)
		}
	}

	if orderID != "" {
		if err := e.orders.SetTracking(ctx, orderID, code, entity.StatusShipped); err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				ses.Reset()
				return e.mainMenu(fmt.Sprintf("❌ Заказ %s не найден.", orderID))
			}
			slog.Error("Failed to persist tracking code", "order_id", orderID, "err", err)
			return e.apology(ses.UserID)
		}
	}

	if err := e.sender.Send(ctx, entity.Outbound{UserID: target.UserID, Text: trackingRelayText(code)}); err != nil {
		ses.Reset()
		if errors.Is(err, notify.ErrRecipientUnreachable) {
			// Non-retryable: the order record stands, only the relay failed.
			return e.mainMenu("❌ Ошибка: бот заблокирован пользователем.")
		}
		slog.Error("Failed to relay tracking code", "user_id", target.UserID, "err", err)
		return e.mainMenu("❌ Не удалось отправить трек-код. Заказ обновлён, попробуйте отправить позже.")
	}

	if err := e.bridge.TrackingAssigned(ctx, entity.TrackingAssigned{
		OrderID:      orderID,
		UserID:       target.UserID,
		TrackingCode: code,
		AssignedAt:   e.now(),
	}); err != nil {
		slog.Error("Failed to publish TrackingAssigned", "order_id", orderID, "err", err)
	}

	ses.Reset()
	return e.mainMenu(fmt.Sprintf("✅ Трек-код отправлен пользователю (ID: %s)", target.UserID))
}

func (e *Engine) latestPendingOrder(ctx context.Context, userID string) (string, error) {
	orders, err := e.orders.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	var latest *entity.Order
	for i := range orders {
		o := &orders[i]
		if o.Status != entity.StatusPending {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return "", nil
	}
	return latest.ID, nil
}
