// Package prayersvc looks up daily prayer timings from the Aladhan API.
package prayersvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/joinquran/backend/core"
)

// calculation method 2: Islamic Society of North America / Muslim World League family
const calculationMethod = "2"

type (
	// Timings are the day's prayer times as returned by the upstream API.
	Timings struct {
		Fajr    string `json:"Fajr"`
		Sunrise string `json:"Sunrise"`
		Dhuhr   string `json:"Dhuhr"`
		Asr     string `json:"Asr"`
		Maghrib string `json:"Maghrib"`
		Isha    string `json:"Isha"`
	}

	DayTimings struct {
		Timings Timings `json:"timings"`
		Date    struct {
			Readable string `json:"readable"`
		} `json:"date"`
	}

	timingsResponse struct {
		Code   int        `json:"code"`
		Status string     `json:"status"`
		Data   DayTimings `json:"data"`
	}

	Service struct {
		baseURL string
		client  *http.Client
	}
)

func NewService(conf *core.Config) *Service {
	return &Service{
		baseURL: conf.PrayerApiBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Timings fetches today's prayer times for the given coordinates.
func (svc *Service) Timings(ctx context.Context, lat, lng string) (DayTimings, error) {
	now := time.Now()
	dateStr := fmt.Sprintf("%d-%d-%d", now.Day(), int(now.Month()), now.Year())

	q := make(url.Values)
	q.Set("latitude", lat)
	q.Set("longitude", lng)
	q.Set("method", calculationMethod)
	reqURL := fmt.Sprintf("%s/v1/timings/%s?%s", svc.baseURL, dateStr, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return DayTimings{}, errors.Wrap(err, "building prayer times request")
	}

	res, err := svc.client.Do(req)
	if err != nil {
		return DayTimings{}, errors.Wrap(err, "fetching prayer times")
	}
	defer res.Body.Close()

	var body timingsResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return DayTimings{}, errors.Wrap(err, "decoding prayer times response")
	}
	if body.Code != http.StatusOK {
		return DayTimings{}, errors.Errorf("prayer times upstream returned %d: %s", body.Code, body.Status)
	}
	return body.Data, nil
}
