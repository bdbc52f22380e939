// Package pricing считает итоги заявки: суммы по позициям, скидку по промокоду и итог.
package pricing

import "github.com/shopspring/decimal"

// MaxDiscountPercent ограничивает скидку по промокоду
const MaxDiscountPercent = 90

// Line позиция для расчёта
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// SubTotal стоимость позиции: цена × количество
func (l Line) SubTotal() decimal.Decimal {
	if l.Quantity <= 0 {
		return decimal.Zero
	}
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Result итоги заявки
type Result struct {
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent int             `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Total           decimal.Decimal `json:"total"`
}

// ClampPercent приводит процент скидки к диапазону [0, MaxDiscountPercent]
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > MaxDiscountPercent {
		return MaxDiscountPercent
	}
	return p
}

// Totals считает сумму, скидку (округление до копеек) и итог
func Totals(lines []Line, discountPercent int) Result {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.SubTotal())
	}
	subtotal = subtotal.Round(2)

	p := ClampPercent(discountPercent)
	discount := subtotal.Mul(decimal.NewFromInt(int64(p))).Div(decimal.NewFromInt(100)).Round(2)

	return Result{
		Subtotal:        subtotal,
		DiscountPercent: p,
		DiscountAmount:  discount,
		Total:           subtotal.Sub(discount),
	}
}

// UnitPrice цена позиции: базовая цена услуги плюс наценка за персонажа
func UnitPrice(servicePrice decimal.Decimal, characterExtra *decimal.Decimal) decimal.Decimal {
	if characterExtra == nil {
		return servicePrice
	}
	return servicePrice.Add(*characterExtra)
}
