package response

import "github.com/farmlog/farmlog-api/internal/domain"

type FarmEvent struct {
	domain.FarmEvent
	Date       string `json:"date"`
	TotalDrops int    `json:"total_drops"`
}

func NewFarmEvent(e domain.FarmEvent) FarmEvent {
	if e.Drops == nil {
		e.Drops = []domain.FarmDrop{}
	}

	return FarmEvent{
		FarmEvent:  e,
		Date:       e.Date.Format("2006-01-02"),
		TotalDrops: e.TotalDrops(),
	}
}

func NewFarmEvents(events []domain.FarmEvent) []FarmEvent {
	out := make([]FarmEvent, 0, len(events))
	for _, e := range events {
		out = append(out, NewFarmEvent(e))
	}
	return out
}
