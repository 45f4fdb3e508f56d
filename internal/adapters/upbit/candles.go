package upbit

// candles.go — quotation endpoints: day candles and ticker.
//
// Upbit returns candles newest-first; the rest of the system expects
// ascending time order, so the response is reversed and validated here.

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"time"

	"github.com/hyunwoocho/upbot/internal/domain"
)

// kst is the exchange's candle timezone (candle_date_time_kst).
var kst = time.FixedZone("KST", 9*60*60)

const candleTimeLayout = "2006-01-02T15:04:05"

// candleDTO is the wire shape of GET /candles/days.
type candleDTO struct {
	Market            string  `json:"market"`
	CandleDateTimeKST string  `json:"candle_date_time_kst"`
	OpeningPrice      float64 `json:"opening_price"`
	HighPrice         float64 `json:"high_price"`
	LowPrice          float64 `json:"low_price"`
	TradePrice        float64 `json:"trade_price"`
	AccTradeVolume    float64 `json:"candle_acc_trade_volume"`
}

// tickerDTO is the wire shape of GET /ticker.
type tickerDTO struct {
	Market     string  `json:"market"`
	TradePrice float64 `json:"trade_price"`
}

// FetchDayCandles returns up to `count` daily candles for the market in
// ascending time order. Upbit caps count at 200 per request.
func (c *Client) FetchDayCandles(ctx context.Context, market string, count int) ([]domain.Candle, error) {
	if count <= 0 || count > 200 {
		count = 200
	}

	endpoint := fmt.Sprintf("%s/candles/days?market=%s&count=%d",
		c.baseURL, url.QueryEscape(market), count)

	var dtos []candleDTO
	if err := c.get(ctx, endpoint, &dtos); err != nil {
		return nil, fmt.Errorf("upbit.FetchDayCandles: %s: %w", market, err)
	}

	candles := make([]domain.Candle, 0, len(dtos))
	for _, d := range dtos {
		ts, err := time.ParseInLocation(candleTimeLayout, d.CandleDateTimeKST, kst)
		if err != nil {
			return nil, fmt.Errorf("upbit.FetchDayCandles: %s: parse time %q: %w", market, d.CandleDateTimeKST, err)
		}
		candles = append(candles, domain.Candle{
			Timestamp: ts,
			Open:      d.OpeningPrice,
			High:      d.HighPrice,
			Low:       d.LowPrice,
			Close:     d.TradePrice,
			Volume:    d.AccTradeVolume,
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	if err := domain.ValidateSeries(candles); err != nil {
		return nil, fmt.Errorf("upbit.FetchDayCandles: %s: %w", market, err)
	}
	return candles, nil
}

// CurrentPrice returns the latest trade price for the market.
func (c *Client) CurrentPrice(ctx context.Context, market string) (float64, error) {
	endpoint := fmt.Sprintf("%s/ticker?markets=%s", c.baseURL, url.QueryEscape(market))

	var dtos []tickerDTO
	if err := c.get(ctx, endpoint, &dtos); err != nil {
		return 0, fmt.Errorf("upbit.CurrentPrice: %s: %w", market, err)
	}
	if len(dtos) == 0 {
		return 0, fmt.Errorf("upbit.CurrentPrice: %s: empty ticker response", market)
	}
	return dtos[0].TradePrice, nil
}
