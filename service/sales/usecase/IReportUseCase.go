package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/sales/cache"
	"retail_backoffice/service/sales/model/document"
	"retail_backoffice/service/sales/model/request"
	"retail_backoffice/service/sales/model/response"
	"retail_backoffice/service/sales/repository"
)

const (
	defaultReportDays = 30
	maxReportDays     = 366
	topProductsLimit  = 10
)

type IReportUseCase interface {
	SalesReport(ctx context.Context, query request.SalesReportQuery) (response.SalesReportDTO, error)
}

type reportUseCase struct {
	saleRepo repository.ISaleRepository
	cache    cache.IReportCache
	ttl      time.Duration
	log      *zap.Logger
	now      func() time.Time
}

func NewReportUseCase(saleRepo repository.ISaleRepository, reportCache cache.IReportCache, ttl time.Duration, log *zap.Logger) IReportUseCase {
	return &reportUseCase{
		saleRepo: saleRepo,
		cache:    reportCache,
		ttl:      ttl,
		log:      log.Named("reports"),
		now:      time.Now,
	}
}

// reportRange resolves the query to [from, to) on whole local days. to is
// inclusive in the query and defaults to today; from defaults to 30 days
// before to.
func reportRange(query request.SalesReportQuery, now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	day := func(t time.Time) time.Time { return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc) }

	to := day(now).AddDate(0, 0, 1)
	if !query.To.IsZero() {
		to = day(query.To).AddDate(0, 0, 1)
	}
	from := to.AddDate(0, 0, -defaultReportDays)
	if !query.From.IsZero() {
		from = day(query.From)
	}
	if !from.Before(to) {
		return time.Time{}, time.Time{}, apperr.Invalid("from must be before to")
	}
	if to.Sub(from) > maxReportDays*24*time.Hour {
		return time.Time{}, time.Time{}, apperr.Invalid(fmt.Sprintf("report range is limited to %d days", maxReportDays))
	}
	return from, to, nil
}

func reportKey(from, to time.Time) string {
	return fmt.Sprintf("report:sales:%d:%d", from.Unix(), to.Unix())
}

func (u *reportUseCase) SalesReport(ctx context.Context, query request.SalesReportQuery) (response.SalesReportDTO, error) {
	from, to, err := reportRange(query, u.now())
	if err != nil {
		return response.SalesReportDTO{}, err
	}
	key := reportKey(from, to)

	if cached, ok, err := u.cache.Get(ctx, key); err != nil {
		u.log.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var report response.SalesReportDTO
		if err := json.Unmarshal(cached, &report); err == nil {
			return report, nil
		}
		u.log.Warn("discarding unreadable cached report", zap.String("key", key))
	}

	sales, err := u.saleRepo.FindAll(ctx, repository.SaleFilter{From: from.UTC(), To: to.UTC()})
	if err != nil {
		return response.SalesReportDTO{}, err
	}
	report := BuildReport(sales, from, to)

	if body, err := json.Marshal(report); err == nil {
		if err := u.cache.Set(ctx, key, body, u.ttl); err != nil {
			u.log.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return report, nil
}

// BuildReport aggregates sales in [from, to). Daily buckets use from's
// location and cover every day in the range.
func BuildReport(sales []document.Sale, from, to time.Time) response.SalesReportDTO {
	report := response.SalesReportDTO{
		From:            from,
		To:              to,
		Revenue:         decimal.Zero,
		Discount:        decimal.Zero,
		AverageTicket:   decimal.Zero,
		Daily:           make([]response.DailyRevenueDTO, 0),
		TopProducts:     make([]response.TopProductDTO, 0),
		ByPaymentMethod: make(map[string]decimal.Decimal),
	}

	loc := from.Location()
	dayIndex := make(map[string]int)
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		dayIndex[key] = len(report.Daily)
		report.Daily = append(report.Daily, response.DailyRevenueDTO{Date: key, Revenue: decimal.Zero})
	}

	products := make(map[string]*response.TopProductDTO)
	for _, s := range sales {
		total := database.DecimalFromBSON(s.Total)
		report.SaleCount++
		report.Revenue = report.Revenue.Add(total)
		report.Discount = report.Discount.Add(database.DecimalFromBSON(s.Discount))
		report.ByPaymentMethod[s.PaymentMethod] = report.ByPaymentMethod[s.PaymentMethod].Add(total)

		if i, ok := dayIndex[s.CreatedAt.In(loc).Format("2006-01-02")]; ok {
			report.Daily[i].SaleCount++
			report.Daily[i].Revenue = report.Daily[i].Revenue.Add(total)
		}

		for _, l := range s.Items {
			report.ItemsSold += l.Quantity
			id := l.ProductID.Hex()
			p, ok := products[id]
			if !ok {
				p = &response.TopProductDTO{ProductID: id, Name: l.Name, Revenue: decimal.Zero}
				products[id] = p
			}
			p.Quantity += l.Quantity
			p.Revenue = p.Revenue.Add(database.DecimalFromBSON(l.LineTotal))
		}
	}

	if report.SaleCount > 0 {
		report.AverageTicket = report.Revenue.Div(decimal.NewFromInt(int64(report.SaleCount))).Round(2)
	}

	for _, p := range products {
		report.TopProducts = append(report.TopProducts, *p)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		a, b := report.TopProducts[i], report.TopProducts[j]
		if c := a.Revenue.Cmp(b.Revenue); c != 0 {
			return c > 0
		}
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return a.Name < b.Name
	})
	if len(report.TopProducts) > topProductsLimit {
		report.TopProducts = report.TopProducts[:topProductsLimit]
	}
	return report
}
