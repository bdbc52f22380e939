package analytics

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"kidsevents/internal/app/ds"
)

// CSVHeader колонки выгрузки заявок
var CSVHeader = []string{"id", "created_at", "event_date", "stage", "customer", "items", "subtotal", "discount", "total"}

// safeCell экранирует ячейку, которую табличный редактор принял бы за формулу
func safeCell(s string) string {
	if s != "" && strings.ContainsRune("=+-@\t\r", rune(s[0])) {
		return "'" + s
	}
	return s
}

// CSVRow строка выгрузки для одной заявки
func CSVRow(o *ds.Order) []string {
	eventDate := ""
	if o.EventDate != nil {
		eventDate = o.EventDate.UTC().Format(dayLayout)
	}

	customer := o.Customer.FullName
	if customer == "" {
		customer = o.Customer.Login
	}

	items := make([]string, 0, len(o.Items))
	for _, it := range o.Items {
		name := it.Service.Name
		if it.Character != nil {
			name += " (" + it.Character.Name + ")"
		}
		items = append(items, name+" x"+strconv.Itoa(it.Quantity))
	}

	return []string{
		strconv.FormatUint(uint64(o.ID), 10),
		o.CreatedAt.UTC().Format(time.RFC3339),
		eventDate,
		o.Stage,
		safeCell(customer),
		safeCell(strings.Join(items, "; ")),
		o.Subtotal.StringFixed(2),
		o.DiscountAmount.StringFixed(2),
		o.Total.StringFixed(2),
	}
}

// WriteCSV пишет заявки в том же порядке, в каком они переданы: одна строка на заявку
func WriteCSV(w io.Writer, orders []ds.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for i := range orders {
		if err := cw.Write(CSVRow(&orders[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
