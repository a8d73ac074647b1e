package get_offers

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getOffers "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_offers"
)

// OffersResponse HTTP response model
type OffersResponse struct {
	Date     string  `json:"date"`
	Timezone string  `json:"timezone"`
	Offers   []Offer `json:"offers"`
}

// Offer слот, который гость может забронировать
type Offer struct {
	SlotID          string    `json:"slotId"`
	SlotType        string    `json:"slotType"`
	StartTime       string    `json:"startTime"` // локальное время хоста, HH:MM
	EndTime         string    `json:"endTime"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	DurationMinutes int       `json:"durationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getOffers.Response) *OffersResponse {
	offers := make([]Offer, len(resp.Offers))
	for i, o := range resp.Offers {
		offers[i] = Offer{
			SlotID:          o.SlotID,
			SlotType:        o.SlotType,
			StartTime:       o.StartTime.String(),
			EndTime:         o.EndTime.String(),
			StartAt:         o.StartAt,
			EndAt:           o.EndAt,
			DurationMinutes: o.DurationMinutes,
		}
	}

	return &OffersResponse{
		Date:     resp.Date,
		Timezone: resp.Timezone,
		Offers:   offers,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(username, dateStr, slotType string) (*getOffers.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &getOffers.Request{
		Username: username,
		Date:     date,
	}
	if slotType != "" {
		req.SlotType = &slotType
	}
	return req, nil
}
