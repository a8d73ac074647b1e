package create_bulk_slots

import (
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	createBulkSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_bulk_slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CreateBulkSlotsRequest HTTP request model
type CreateBulkSlotsRequest struct {
	Days            []string         `json:"days"`            // ["Monday", "Wednesday"]
	TimeRanges      []TimeRangeModel `json:"timeRanges"`      // [{"start": "09:00", "end": "12:00"}]
	IntervalMinutes int              `json:"intervalMinutes"` // 30
	SlotType        string           `json:"slotType"`
}

// TimeRangeModel диапазон времени суток
type TimeRangeModel struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// CreateBulkSlotsResponse HTTP response model
type CreateBulkSlotsResponse struct {
	CreatedCount int                   `json:"createdCount"`
	Slots        []models.SlotResponse `json:"slots"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Формат времени проверяет use case
func (r *CreateBulkSlotsRequest) ToUseCaseRequest(hostID int64) *createBulkSlots.Request {
	ranges := make([]createBulkSlots.TimeRange, 0, len(r.TimeRanges))
	for _, tr := range r.TimeRanges {
		ranges = append(ranges, createBulkSlots.TimeRange{
			Start: types.TimeString(tr.Start),
			End:   types.TimeString(tr.End),
		})
	}

	return &createBulkSlots.Request{
		HostID:          hostID,
		Days:            r.Days,
		TimeRanges:      ranges,
		IntervalMinutes: r.IntervalMinutes,
		SlotType:        r.SlotType,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBulkSlots.Response) *CreateBulkSlotsResponse {
	return &CreateBulkSlotsResponse{
		CreatedCount: resp.CreatedCount,
		Slots:        models.FromDomainSlotList(resp.Slots).Slots,
	}
}
