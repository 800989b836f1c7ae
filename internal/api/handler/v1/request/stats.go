package request

import (
	"errors"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/farmlog/farmlog-api/internal/domain"
)

const DateLayout = "2006-01-02"

var errInvalidID = errors.New("must be a positive integer")

func validID(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := ParseID(s); err != nil {
		return errInvalidID
	}
	return nil
}

var dateRule = validation.Date(DateLayout).Error("must be a date formatted as YYYY-MM-DD")

// ParseID parses a positive database identifier.
func ParseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

func optionalID(s string) uint {
	if s == "" {
		return 0
	}
	id, _ := ParseID(s)
	return id
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

// UserStatsQuery is bound from the query string of the per-user report.
type UserStatsQuery struct {
	GameID    string `form:"game_id" json:"game_id"`
	Source    string `form:"source" json:"source"`
	Item      string `form:"item" json:"item"`
	StartDate string `form:"start_date" json:"start_date"`
	EndDate   string `form:"end_date" json:"end_date"`
}

func (q *UserStatsQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.GameID, validation.Required, validation.By(validID)),
		validation.Field(&q.StartDate, dateRule),
		validation.Field(&q.EndDate, dateRule),
	)
}

func (q *UserStatsQuery) Filter(userID uint) domain.StatsFilter {
	return domain.StatsFilter{
		GameID:     optionalID(q.GameID),
		UserID:     &userID,
		SourceName: q.Source,
		ItemName:   q.Item,
		StartDate:  optionalDate(q.StartDate),
		EndDate:    optionalDate(q.EndDate),
	}
}

// FarmStatsQuery is bound from the query string of the per-game report.
type FarmStatsQuery struct {
	Type      string `form:"type" json:"type"`
	SourceID  string `form:"sourceID" json:"sourceID"`
	ItemID    string `form:"itemID" json:"itemID"`
	StartDate string `form:"startDate" json:"startDate"`
	EndDate   string `form:"endDate" json:"endDate"`
}

func (q *FarmStatsQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.SourceID, validation.By(validID)),
		validation.Field(&q.ItemID, validation.By(validID)),
		validation.Field(&q.StartDate, dateRule),
		validation.Field(&q.EndDate, dateRule),
	)
}

func (q *FarmStatsQuery) Filter(gameID uint) domain.StatsFilter {
	return domain.StatsFilter{
		GameID:    gameID,
		SourceID:  optionalID(q.SourceID),
		ItemID:    optionalID(q.ItemID),
		Type:      q.Type,
		StartDate: optionalDate(q.StartDate),
		EndDate:   optionalDate(q.EndDate),
	}
}

type DropRateQuery struct {
	SourceID string `form:"sourceID" json:"sourceID"`
	ItemID   string `form:"itemID" json:"itemID"`
}

func (q *DropRateQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.SourceID, validation.Required, validation.By(validID)),
		validation.Field(&q.ItemID, validation.By(validID)),
	)
}

// Filter scopes the drop rate to the requester's events.
func (q *DropRateQuery) Filter(gameID, userID uint) domain.StatsFilter {
	return domain.StatsFilter{
		GameID:   gameID,
		UserID:   &userID,
		SourceID: optionalID(q.SourceID),
		ItemID:   optionalID(q.ItemID),
	}
}

// ParsedItemID returns the parsed item filter, nil when absent.
func (q *DropRateQuery) ParsedItemID() *uint {
	if q.ItemID == "" {
		return nil
	}
	id := optionalID(q.ItemID)
	return &id
}

type HistoryQuery struct {
	User     string `form:"user" json:"user"`
	GameID   string `form:"gameID" json:"gameID"`
	SourceID string `form:"sourceID" json:"sourceID"`
	Type     string `form:"type" json:"type"`
}

func (q *HistoryQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.User, validation.Length(0, 150)),
		validation.Field(&q.GameID, validation.By(validID)),
		validation.Field(&q.SourceID, validation.By(validID)),
	)
}

func (q *HistoryQuery) ParsedGameID() uint {
	return optionalID(q.GameID)
}

func (q *HistoryQuery) ParsedSourceID() uint {
	return optionalID(q.SourceID)
}

type SourcesQuery struct {
	Type string `form:"type" json:"type"`
}

func (q *SourcesQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.Type, is.PrintableASCII),
	)
}
