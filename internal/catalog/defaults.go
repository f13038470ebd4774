package catalog

import "github.com/handystore/storefront-bot/internal/entity"

// Default returns the built-in storefront data used when no catalog file
// is configured.
func Default() (*Catalog, error) {
	return New(defaultProducts, defaultDeliveryMethods)
}

var defaultProducts = []entity.Product{
	{
		ID: "airpods_pro_2", Name: "AirPods Pro 2", Price: 65, OldPrice: 105,
		Category: "Наушники", Bonus: "🎁 Фирменный чехол в подарок",
		Description: "• Активное шумоподавление\n• Поддержка iOS и Android\n• До 6 часов работы\n• Прозрачный режим",
	},
	{
		ID: "airpods_4", Name: "AirPods 4", Price: 135, Category: "Наушники",
		Description: "• Улучшенный звук\n• Автоподключение\n• До 5 часов работы\n• Сенсорное управление",
	},
	{
		ID: "airpods_2", Name: "AirPods 2", Price: 35, Category: "Наушники",
		Description: "• Чистый звук\n• Быстрое подключение\n• До 4 часов работы",
	},
	{
		ID: "airpods_3", Name: "AirPods 3", Price: 50, Category: "Наушники",
		Description: "• Объемный звук\n• Автоподключение\n• До 5 часов работы\n• Влагозащита",
	},
	{
		ID: "watch_8_ultra", Name: "Apple Watch 8 Ultra", Price: 65, OldPrice: 75,
		Category:    "Часы",
		Description: "• Титановый корпус\n• Спортивный дизайн\n• Пульсометр\n• До 36 часов работы",
	},
	{
		ID: "watch_9", Name: "Apple Watch 9", Price: 100, Category: "Часы",
		Description: "• Алюминиевый корпус\n• Контроль здоровья\n• До 18 часов работы\n• Always-On Display",
	},
	{
		ID: "watch_ultra_2", Name: "Apple Watch Ultra 2", Price: 120, Category: "Часы",
		Description: "• Титановый корпус\n• Расширенные датчики\n• До 36 часов работы\n• Сверхяркий экран",
	},
	{
		ID: "casio_vintage", Name: "Casio Vintage square", Price: 35, Category: "Часы",
		Description: "• Стальной корпус\n• Календарь\n• Подсветка\n• Влагозащита",
	},
	{
		ID: "dyson_fan", Name: "Фен Dyson (full)", Price: 185, OldPrice: 220,
		Category: "Другое", Bonus: "🎁 AirPods 2 в подарок",
		Description: "• Мощный поток воздуха\n• Контроль температуры\n• Защита от перегрева\n• Полная комплектация",
	},
	{
		ID: "dualshock_4", Name: "DualShock 4 v2", Price: 50, Category: "Другое",
		Description: "• Беспроводной геймпад\n• До 8 часов работы\n• Тачпад\n• Поддержка PC/PS4",
	},
	{
		ID: "block_20w", Name: "Блок 20w (AAA+)", Price: 20, Category: "Аксессуары",
		Description: "• Быстрая зарядка 20W\n• Для iPhone/iPad\n• Защита от перегрева",
	},
	{
		ID: "cable_lightning", Name: "Кабель lightning", Price: 10, Category: "Аксессуары",
		Description: "• Быстрая зарядка\n• Усиленная оплетка\n• Длина 1 метр",
	},
	{
		ID: "cable_magsafe", Name: "Кабель Magsafe", Price: 20, Category: "Аксессуары",
		Description: "• Магнитное крепление\n• Быстрая зарядка 15W\n• Для iPhone 12+",
	},
}

var defaultDeliveryMethods = []entity.DeliveryMethod{
	{
		ID: "shuttle", Name: "🚐 Маршруткой", Description: "Отправка в день заказа",
		Details: "• Отправка в день заказа\n• Быстрая доставка\n• Оплата при получении\n• Проверка товара на месте",
		Fields:  []string{"Имя", "Телефон", "Город", "Желаемое время"},
	},
	{
		ID: "euro_post", Name: "📮 Европочтой", Description: "Доставка 1-3 дня",
		Details: "• Доставка по всей РБ\n• Оплата при получении\n• Срок доставки 1-3 дня",
		Fields:  []string{"ФИО", "Телефон", "Адрес", "Индекс", "Отделение"},
	},
	{
		ID: "bel_post", Name: "📫 Белпочтой", Description: "Доставка 2-5 дней",
		Details: "• Доставка по всей РБ\n• Оплата при получении\n• Срок доставки 2-5 дней",
		Fields:  []string{"ФИО", "Телефон", "Адрес", "Индекс", "Отделение"},
	},
	{
		ID: "pickup", Name: "🏃 Самовывоз", Description: "Бесплатно, в Гродно",
		Details: "• Без дополнительной платы\n• В любое удобное время\n• Проверка товара на месте",
		Fields:  []string{"Имя", "Телефон", "Желаемое время"},
	},
}
