package remit

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// menuCacheTTL bounds staleness of the cached menu lookups. Rates themselves
// are never cached; only the country and payment-method menus are.
const menuCacheTTL = 5 * time.Minute

// ReceivingCountries lists destinations reachable from the source country.
// This is the read-only menu step shown before a transfer; it is not part of
// the pipeline.
func (p *Pipeline) ReceivingCountries(ctx context.Context, token string) ([]ReceivingCountry, error) {
	cacheKey := "countries:" + p.sourceCountry
	if cached, ok := p.cache.Get(cacheKey); ok {
		return cached.([]ReceivingCountry), nil
	}

	params := urlValues("currentUpdatedAt", "0")
	resp, err := p.gw.Get(ctx, p.endpoints.Country, token, params)
	if err != nil {
		return nil, err
	}

	var body struct {
		Items []struct {
			CountryCode        string             `json:"countryCode"`
			ReceivingCountries []ReceivingCountry `json:"receivingCountries"`
		} `json:"items"`
	}
	if err := resp.DecodeData(&body); err != nil {
		return nil, fmt.Errorf("decode country list: %w", err)
	}

	for _, country := range body.Items {
		if country.CountryCode == p.sourceCountry {
			p.cache.SetWithTTL(cacheKey, country.ReceivingCountries, 1, menuCacheTTL)
			return country.ReceivingCountries, nil
		}
	}
	return nil, fmt.Errorf("source country %s not present in gateway country list", p.sourceCountry)
}

// ExchangeRates returns the delivery product options for a destination,
// each with its rate, fees, and total payable amount. Multiple options may
// be shown to the user before one product is chosen for the rate-lock stage.
func (p *Pipeline) ExchangeRates(ctx context.Context, token, country, currency string, amount float64, receive bool) ([]ProductOption, error) {
	resp, err := p.gw.Post(ctx, p.endpoints.ExchangeRate, token, map[string]interface{}{
		"sendingCountry":    p.sourceCountry,
		"receivingCountry":  country,
		"receivingCurrency": currency,
		"amount":            fmt.Sprintf("%.2f", amount),
		"receive":           receive,
	})
	if err != nil {
		return nil, err
	}

	var body struct {
		Items []ProductOption `json:"items"`
	}
	if err := resp.DecodeData(&body); err != nil {
		return nil, fmt.Errorf("decode exchange rates: %w", err)
	}
	return body.Items, nil
}

func urlValues(key, value string) url.Values {
	v := url.Values{}
	v.Set(key, value)
	return v
}
