// Package analytics собирает дашборд исполнителя по оформленным заявкам и кампаниям.
package analytics

import (
	"sort"
	"time"

	"kidsevents/internal/app/ds"

	"github.com/shopspring/decimal"
)

// TopServicesLimit сколько услуг попадает в топ по выручке
const TopServicesLimit = 5

const dayLayout = "2006-01-02"

// DayPoint точка дневного ряда для графика
type DayPoint struct {
	Date    string          `json:"date"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ServiceStat выручка по услуге
type ServiceStat struct {
	ServiceID uint            `json:"service_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CampaignStat показатели рекламной кампании
type CampaignStat struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Status      string          `json:"status"`
	Impressions int64           `json:"impressions"`
	Clicks      int64           `json:"clicks"`
	CTR         float64         `json:"ctr"`
	Spent       decimal.Decimal `json:"spent"`
}

// Report дашборд исполнителя за период
type Report struct {
	From         string          `json:"date_from"`
	To           string          `json:"date_to"`
	OrdersTotal  int             `json:"orders_total"`
	ByStage      map[string]int  `json:"by_stage"`
	Revenue      decimal.Decimal `json:"revenue"`
	AverageCheck decimal.Decimal `json:"average_check"`
	Daily        []DayPoint      `json:"daily"`
	TopServices  []ServiceStat   `json:"top_services"`
	Campaigns    []CampaignStat  `json:"campaigns"`
}

// countsRevenue отменённые заявки не приносят выручку
func countsRevenue(o *ds.Order) bool {
	return o.Stage != ds.StageCancelled
}

// Build считает показатели. Дневной ряд покрывает каждый день периода [from, to],
// дни без заявок заполняются нулями.
func Build(orders []ds.Order, campaigns []ds.Campaign, from, to time.Time) Report {
	from, to = day(from), day(to)
	if to.Before(from) {
		from, to = to, from
	}

	rep := Report{
		From:         from.Format(dayLayout),
		To:           to.Format(dayLayout),
		OrdersTotal:  len(orders),
		ByStage:      make(map[string]int, len(ds.OrderStages)),
		Revenue:      decimal.Zero,
		AverageCheck: decimal.Zero,
		TopServices:  []ServiceStat{},
		Campaigns:    make([]CampaignStat, 0, len(campaigns)),
	}
	for _, s := range ds.OrderStages {
		rep.ByStage[s] = 0
	}

	var days []string
	daily := map[string]*DayPoint{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayLayout)
		days = append(days, key)
		daily[key] = &DayPoint{Date: key, Revenue: decimal.Zero}
	}

	services := map[uint]*ServiceStat{}
	paid := 0
	for i := range orders {
		o := &orders[i]
		rep.ByStage[o.Stage]++

		p, inRange := daily[day(submittedAt(o)).Format(dayLayout)]
		if inRange {
			p.Orders++
		}
		if !countsRevenue(o) {
			continue
		}

		paid++
		rep.Revenue = rep.Revenue.Add(o.Total)
		if inRange {
			p.Revenue = p.Revenue.Add(o.Total)
		}

		for _, it := range o.Items {
			st, ok := services[it.ServiceID]
			if !ok {
				st = &ServiceStat{ServiceID: it.ServiceID, Name: it.Service.Name, Revenue: decimal.Zero}
				services[it.ServiceID] = st
			}
			st.Quantity += it.Quantity
			st.Revenue = st.Revenue.Add(it.SubTotal)
		}
	}

	if paid > 0 {
		rep.AverageCheck = rep.Revenue.Div(decimal.NewFromInt(int64(paid))).Round(2)
	}

	rep.Daily = make([]DayPoint, 0, len(days))
	for _, key := range days {
		rep.Daily = append(rep.Daily, *daily[key])
	}

	for _, st := range services {
		rep.TopServices = append(rep.TopServices, *st)
	}
	sort.Slice(rep.TopServices, func(i, j int) bool {
		a, b := rep.TopServices[i], rep.TopServices[j]
		if !a.Revenue.Equal(b.Revenue) {
			return a.Revenue.GreaterThan(b.Revenue)
		}
		return a.ServiceID < b.ServiceID
	})
	if len(rep.TopServices) > TopServicesLimit {
		rep.TopServices = rep.TopServices[:TopServicesLimit]
	}

	for _, c := range campaigns {
		rep.Campaigns = append(rep.Campaigns, CampaignStat{
			ID:          c.ID,
			Name:        c.Name,
			Status:      c.Status,
			Impressions: c.Impressions,
			Clicks:      c.Clicks,
			CTR:         CTR(c.Clicks, c.Impressions),
			Spent:       c.Spent,
		})
	}

	return rep
}

// CTR доля кликов от показов; 0 при отсутствии показов
func CTR(clicks, impressions int64) float64 {
	if impressions <= 0 {
		return 0
	}
	return float64(clicks) / float64(impressions)
}

// submittedAt дата оформления; у заявок без неё дата создания
func submittedAt(o *ds.Order) time.Time {
	if o.SubmittedAt != nil {
		return *o.SubmittedAt
	}
	return o.CreatedAt
}

func day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
