package conversation

import (
	"fmt"
	"strings"

	"github.com/handystore/storefront-bot/internal/catalog"
	"github.com/handystore/storefront-bot/internal/entity"
	"github.com/handystore/storefront-bot/internal/pricing"
)

// Quick-reply vocabulary. The option set per state is fixed; free text
// is only parsed in quantity, comment, delivery-details and admin
// tracking input.
const (
	btnCatalog    = "🛍 Каталог"
	btnLoyalty    = "🎁 Бонусная программа"
	btnMyOrders   = "📦 Мои заказы"
	btnFAQ        = "❓ FAQ"
	btnDelivery   = "🚚 Доставка"
	btnRestart    = "🔄 Перезапустить бота"
	btnMainMenu   = "◀️ В главное меню"
	btnBack       = "◀️ Назад"
	btnUsePoints  = "✅ Использовать баллы"
	btnSkipPoints = "❌ Без баллов"
	btnConfirm    = "✅ Оформить заказ"
	btnCancel     = "❌ Отменить"
	btnNoComment  = "➖ Без комментария"
)

const welcomeText = "Привет👋\n\n" +
	"🌐 Мы розничный магазин, всегда в сети 24/7.\n\n" +
	"• Отличное качество\n" +
	"• Отправка по всей РБ и СНГ\n" +
	"• Отправка в день заказа\n\n" +
	"Выберите пункт меню ниже."

const menuPromptText = "Пожалуйста, используйте кнопки меню"

const storeUnavailableText = "😔 Извините, сервис временно недоступен. Попробуйте ещё раз через минуту."

func mainMenuOptions() []string {
	return []string{btnCatalog, btnLoyalty, btnMyOrders, btnFAQ, btnDelivery, btnRestart}
}

func quantityOptions() []string {
	return []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", btnBack}
}

func categoryOptions(c *catalog.Catalog) []string {
	var opts []string
	for _, cat := range c.Categories() {
		opts = append(opts, "📁 "+cat)
	}
	return append(opts, btnMainMenu)
}

func productOptions(c *catalog.Catalog, category string) []string {
	var opts []string
	for _, p := range c.ProductsIn(category) {
		opts = append(opts, p.Name)
	}
	return append(opts, btnBack, btnMainMenu)
}

func deliveryOptions(c *catalog.Catalog) []string {
	var opts []string
	for _, m := range c.DeliveryMethods() {
		opts = append(opts, m.Name)
	}
	return append(opts, btnBack)
}

func formatProduct(p entity.Product) string {
	text := fmt.Sprintf("📱 %s\n💰 Цена: %s р.", p.Name, pricing.FormatAmount(p.Price))
	if p.OldPrice > 0 {
		text += fmt.Sprintf(" (было %s р.)", pricing.FormatAmount(p.OldPrice))
	}
	if p.Description != "" {
		text += "\n\n" + p.Description
	}
	if p.Bonus != "" {
		text += "\n" + p.Bonus
	}
	return text
}

func categoryText(c *catalog.Catalog, category string) string {
	var parts []string
	for _, p := range c.ProductsIn(category) {
		parts = append(parts, formatProduct(p))
	}
	return fmt.Sprintf("📁 Категория: %s\n\n%s", category, strings.Join(parts, "\n\n"))
}

func orderSummaryText(d *entity.DraftOrder) string {
	return "🛍️ Ваш заказ:\n━━━━━━━━━━━━━━━\n" +
		fmt.Sprintf("📱 Товар: %s\n", d.ProductName) +
		fmt.Sprintf("📦 Количество: %d\n", d.Quantity) +
		fmt.Sprintf("💰 Сумма: %s р.\n", pricing.FormatAmount(d.BaseTotal)) +
		"━━━━━━━━━━━━━━━"
}

func pointsOfferText(d *entity.DraftOrder, balance int64) string {
	return orderSummaryText(d) + "\n\n" +
		fmt.Sprintf("🎁 У вас есть %d бонусных баллов!\n", balance) +
		fmt.Sprintf("💫 Можно оплатить до %s р.\n", pricing.FormatAmount(float64(balance)*pricing.PointValue)) +
		"Хотите использовать баллы для оплаты?"
}

func redeemedText(d *entity.DraftOrder) string {
	return "💫 Баллы будут списаны при оформлении!\n\n" +
		fmt.Sprintf("Начальная сумма: %s р.\n", pricing.FormatAmount(d.BaseTotal)) +
		fmt.Sprintf("Скидка баллами: %s р.\n", pricing.FormatAmount(d.PointsValue)) +
		fmt.Sprintf("Использовано баллов: %d\n", d.PointsUsed) +
		fmt.Sprintf("Итоговая сумма: %s р.\n\n", pricing.FormatAmount(d.FinalPrice)) +
		deliveryPromptText
}

const deliveryPromptText = "✨ Выберите способ доставки:"

const commentPromptText = "💬 Добавьте комментарий к заказу или нажмите «" + btnNoComment + "»"

func userDataPromptText(m entity.DeliveryMethod) string {
	var b strings.Builder
	b.WriteString("📋 Пожалуйста, укажите ваши данные в следующем формате:\n\n")
	for _, f := range m.Fields {
		b.WriteString(f)
		b.WriteString(": \n")
	}
	b.WriteString("\n✨ Скопируйте формат выше и заполните своими данными")
	return b.String()
}

func missingFieldsText(missing []string) string {
	return "❌ Пожалуйста, укажите все необходимые данные. Не заполнено:\n\n" +
		strings.Join(missing, "\n")
}

func confirmText(d *entity.DraftOrder, methodName string) string {
	return "📋 Подтверждение заказа:\n━━━━━━━━━━━━━━━\n" +
		fmt.Sprintf("📱 Товар: %s\n", d.ProductName) +
		fmt.Sprintf("📦 Количество: %d\n", d.Quantity) +
		fmt.Sprintf("🚚 Доставка: %s\n", methodName) +
		fmt.Sprintf("💰 Итоговая сумма: %s р.\n\n", pricing.FormatAmount(d.FinalPrice)) +
		fmt.Sprintf("👤 Данные получателя:\n%s\n", d.UserData) +
		"━━━━━━━━━━━━━━━\n\n✅ Подтвердите заказ"
}

func committedText(o entity.Order, earned, balance int64) string {
	return "✅ Заказ успешно оформлен!\n━━━━━━━━━━━━━━━\n" +
		fmt.Sprintf("🆔 Заказ: %s\n", o.ID) +
		fmt.Sprintf("• Товар: %s\n", o.ProductName) +
		fmt.Sprintf("• Количество: %d\n", o.Quantity) +
		fmt.Sprintf("• Сумма: %s р.\n\n", pricing.FormatAmount(o.FinalPrice)) +
		"🚚 Заказ принят в обработку, менеджер свяжется с вами.\n\n" +
		fmt.Sprintf("🎁 Начислено баллов: +%d\n", earned) +
		fmt.Sprintf("💎 Всего баллов: %d\n", balance) +
		"💫 Спасибо за покупку!"
}

func loyaltyText(acc entity.LoyaltyAccount) string {
	return "🎁 Бонусная программа\n━━━━━━━━━━━━━━━\n\n" +
		fmt.Sprintf("💎 Ваши бонусные баллы: %d\n", acc.Points) +
		fmt.Sprintf("💵 Сумма в рублях: %s р.\n", pricing.FormatAmount(float64(acc.Points)*pricing.PointValue)) +
		fmt.Sprintf("💰 Общая сумма покупок: %s р.\n", pricing.FormatAmount(acc.TotalSpent)) +
		fmt.Sprintf("📦 Количество заказов: %d\n\n", acc.Orders) +
		"📋 Правила программы:\n" +
		"• За каждую покупку 5% возвращается баллами\n" +
		"• 1 бонусный балл = 0.1 руб. скидки\n" +
		"• Баллами можно оплатить до 100% стоимости"
}

const faqText = "❓ Часто задаваемые вопросы\n\n" +
	"1️⃣ Как связаться с менеджером?\n• Напишите в поддержку\n\n" +
	"2️⃣ Как работает бонусная программа?\n" +
	"• За каждую покупку начисляются баллы\n" +
	"• 1 балл = 10 копеек скидки\n" +
	"• Баллы можно использовать при оформлении заказа\n\n" +
	"3️⃣ Есть ли гарантия на товар?\n" +
	"• Да, при обнаружении брака — замена\n\n" +
	"4️⃣ Какие способы оплаты?\n" +
	"• Наложенный платёж\n• Перевод на карту\n• Наличными при получении"

func deliveryInfoText(c *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString("🚚 Способы доставки\n\n")
	for _, m := range c.DeliveryMethods() {
		fmt.Fprintf(&b, "%s — %s\n%s\n\n", m.Name, m.Description, m.Details)
	}
	b.WriteString("ℹ️ Все посылки отправляются с наложенным платежом, оплата при получении.")
	return b.String()
}

func ordersListText(orders []entity.Order) string {
	var b strings.Builder
	b.WriteString("📦 Ваши заказы:\n\n")
	for _, o := range orders {
		status := "🚚 В пути"
		switch o.Status {
		case entity.StatusPending:
			status = "⏳ В обработке"
		case entity.StatusDelivered:
			status = "✅ Доставлен"
		}
		fmt.Fprintf(&b, "🆔 Заказ: %s\n📅 Дата: %s\n💰 Сумма: %s р.\n📦 Статус: %s\n",
			o.ID, o.CreatedAt.Format("2006-01-02 15:04"), pricing.FormatAmount(o.FinalPrice), status)
		if o.TrackingCode != "" {
			fmt.Fprintf(&b, "📤 Трек-код: %s\n", o.TrackingCode)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func trackingRelayText(code string) string {
	return "📦 Информация о доставке\n━━━━━━━━━━━━━━━\n\n" +
		"✨ Статус: Заказ отправлен\n\n" +
		fmt.Sprintf("📤 Трек-код для отслеживания:\n• %s\n\n", code) +
		"📍 Введите трек-код на сайте почтовой службы и проверяйте статус регулярно."
}
