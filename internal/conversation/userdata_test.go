package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFields(t *testing.T) {
	fields := parseFields("Имя: Иван\nТелефон: +375291234567\nкакая-то строка\nГород:  Минск ")
	assert.Equal(t, "Иван", fields["Имя"])
	assert.Equal(t, "+375291234567", fields["Телефон"])
	assert.Equal(t, "Минск", fields["Город"])
	assert.NotContains(t, fields, "какая-то строка")
}

func TestMissingFields(t *testing.T) {
	required := []string{"ФИО", "Телефон", "Адрес", "Индекс", "Отделение"}

	tests := []struct {
		name    string
		input   string
		missing []string
	}{
		{
			"all present",
			"ФИО: Иванов Иван\nТелефон: +375291234567\nАдрес: г. Минск, ул. Пушкина 5\nИндекс: 220000\nОтделение: №15",
			nil,
		},
		{
			"empty phone",
			"ФИО: Иванов Иван\nТелефон:\nАдрес: г. Минск\nИндекс: 220000\nОтделение: №15",
			[]string{"Телефон:"},
		},
		{
			"label absent entirely",
			"ФИО: Иванов Иван\nАдрес: г. Минск\nИндекс: 220000\nОтделение: №15",
			[]string{"Телефон:"},
		},
		{
			"several missing",
			"ФИО: Иванов Иван",
			[]string{"Телефон:", "Адрес:", "Индекс:", "Отделение:"},
		},
		{
			"whitespace-only value counts as empty",
			"ФИО: Иванов\nТелефон:    \nАдрес: а\nИндекс: б\nОтделение: в",
			[]string{"Телефон:"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.missing, missingFields(tt.input, required))
		})
	}
}
