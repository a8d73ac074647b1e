package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// InsertSlotRequest запрос на добавление одного слота
// Повторная отправка того же окна меняет тип слота на месте
type InsertSlotRequest struct {
	HostID    int64  `json:"-"`
	DayOfWeek string `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	SlotType  string `json:"slotType,omitempty"` // пусто = General Meeting
}

// Response модели

// SlotResponse опубликованный слот
type SlotResponse struct {
	ID              int64     `json:"id"`
	SlotID          string    `json:"slotId"`
	DayOfWeek       string    `json:"dayOfWeek"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	SlotType        string    `json:"slotType"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SlotListResponse плоский список слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// SlotGroupResponse слоты одного типа
type SlotGroupResponse struct {
	SlotType string         `json:"slotType"`
	Name     string         `json:"name"`
	Slots    []SlotResponse `json:"slots"`
}

// GroupedSlotsResponse слоты, сгруппированные по типу
type GroupedSlotsResponse struct {
	Groups []SlotGroupResponse `json:"groups"`
}

// HostProfile публичные данные хоста
type HostProfile struct {
	Username               string  `json:"username"`
	Name                   string  `json:"name"`
	Avatar                 *string `json:"avatar,omitempty"`
	Timezone               string  `json:"timezone"`
	DefaultMeetingDuration int     `json:"defaultMeetingDuration"`
}

// PublicAvailabilityResponse страница бронирования хоста
type PublicAvailabilityResponse struct {
	Host   HostProfile         `json:"host"`
	Groups []SlotGroupResponse `json:"groups"`
}

// DeleteResponse количество удалённых слотов
type DeleteResponse struct {
	Deleted int64 `json:"deleted"`
}

// Методы конвертации

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.AvailabilitySlot) *SlotResponse {
	if s == nil {
		return nil
	}

	return &SlotResponse{
		ID:              s.ID,
		SlotID:          s.SlotID,
		DayOfWeek:       s.DayOfWeek.String(),
		StartTime:       s.StartTime.String(),
		EndTime:         s.EndTime.String(),
		SlotType:        s.SlotType,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список слотов
func FromDomainSlotList(slots []*domain.AvailabilitySlot) *SlotListResponse {
	result := &SlotListResponse{Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		result.Slots = append(result.Slots, *FromDomainSlot(s))
	}
	return result
}

// FromDomainGroups конвертирует группы слотов
func FromDomainGroups(groups []domain.SlotGroup) []SlotGroupResponse {
	result := make([]SlotGroupResponse, 0, len(groups))
	for _, g := range groups {
		group := SlotGroupResponse{
			SlotType: g.SlotType,
			Name:     g.Name,
			Slots:    make([]SlotResponse, 0, len(g.Slots)),
		}
		for i := range g.Slots {
			group.Slots = append(group.Slots, *FromDomainSlot(&g.Slots[i]))
		}
		result = append(result, group)
	}
	return result
}

// FromDomainHost публичный профиль хоста
func FromDomainHost(h *domain.Host) HostProfile {
	return HostProfile{
		Username:               h.Username,
		Name:                   h.Name,
		Avatar:                 h.Avatar,
		Timezone:               h.Location().String(),
		DefaultMeetingDuration: h.DefaultMeetingDuration,
	}
}
