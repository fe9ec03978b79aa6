package api

import (
	"time"

	"hotel-waste-scheduler/internal/model"
	"hotel-waste-scheduler/internal/schedule"
	"hotel-waste-scheduler/internal/week"
)

type entryResponse struct {
	ID              string       `json:"id"`
	HotelID         string       `json:"hotel_id"`
	HotelName       string       `json:"hotel_name,omitempty"`
	Day             model.Day    `json:"day"`
	Slot            model.Slot   `json:"slot"`
	SlotDisplay     string       `json:"slot_display"`
	WeekStart       string       `json:"week_start"`
	Date            string       `json:"date,omitempty"`
	Status          model.Status `json:"status"`
	IsVisible       bool         `json:"is_visible"`
	CompletionNotes string       `json:"completion_notes"`
	CreatedAt       time.Time    `json:"created_at"`
}

func newEntryResponse(e model.ScheduleEntry) entryResponse {
	resp := entryResponse{
		ID:              e.ID,
		HotelID:         e.HotelID,
		Day:             e.Day,
		Slot:            e.Slot,
		SlotDisplay:     e.Slot.Display(),
		WeekStart:       week.FormatDate(e.WeekStart()),
		Status:          e.Status,
		IsVisible:       e.IsVisible,
		CompletionNotes: e.CompletionNotes,
		CreatedAt:       e.CreatedAt,
	}
	if e.Hotel != nil {
		resp.HotelName = e.Hotel.Name
	}
	if d := e.Date(); !d.IsZero() {
		resp.Date = week.FormatDate(d)
	}
	return resp
}

func newEntryResponses(entries []model.ScheduleEntry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, newEntryResponse(e))
	}
	return out
}

type writeResponse struct {
	Entry       entryResponse               `json:"entry"`
	Alert       *model.AlertRecord          `json:"alert,omitempty"`
	Maintenance *schedule.MaintenanceResult `json:"maintenance,omitempty"`
}

func newWriteResponse(res schedule.WriteResult) writeResponse {
	return writeResponse{
		Entry:       newEntryResponse(res.Entry),
		Alert:       res.Alert,
		Maintenance: res.Maintenance,
	}
}
