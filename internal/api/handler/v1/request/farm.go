package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/farmlog/farmlog-api/internal/domain"
)

var (
	errInvalidSourceType = errors.New("must be BOSS, WEEKLY_BOSS, DOMAIN or a DOMAIN_ variant")
	errInvalidRarity     = errors.New("must be COMMON, RARE, EPIC or LEGENDARY")
	errInvalidQuantity   = errors.New("must be at least 1")
)

func validQuantity(value interface{}) error {
	q, _ := value.(*int)
	if q != nil && *q < 1 {
		return errInvalidQuantity
	}
	return nil
}

func validSourceType(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !domain.NormalizeSourceType(s).Valid() {
		return errInvalidSourceType
	}
	return nil
}

func validRarity(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !domain.NormalizeRarity(s).Valid() {
		return errInvalidRarity
	}
	return nil
}

type CreateGameRequest struct {
	Name string `json:"name"`
}

func (req *CreateGameRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}

type CreateSourceRequest struct {
	Name       string `json:"name"`
	Location   string `json:"location"`
	SourceType string `json:"source_type"`
}

func (req *CreateSourceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Location, validation.Length(0, 100)),
		validation.Field(&req.SourceType, validation.Required, validation.By(validSourceType)),
	)
}

func (req *CreateSourceRequest) ToDomain(gameID uint) domain.FarmSource {
	return domain.FarmSource{
		Name:       req.Name,
		Location:   req.Location,
		SourceType: domain.NormalizeSourceType(req.SourceType),
		GameID:     gameID,
	}
}

type DropRequest struct {
	RewardName string `json:"reward_name"`
	Rarity     string `json:"rarity"`
	Quantity   *int   `json:"quantity"`
}

func (d DropRequest) Validate() error {
	return validation.ValidateStruct(
		&d,
		validation.Field(&d.RewardName, validation.Required, validation.Length(1, 100)),
		validation.Field(&d.Rarity, validation.Required, validation.By(validRarity)),
		validation.Field(&d.Quantity, validation.By(validQuantity)),
	)
}

type CreateEventRequest struct {
	FarmType string        `json:"farm_type"`
	Source   uint          `json:"source"`
	Drops    []DropRequest `json:"drops"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.FarmType, validation.By(validSourceType)),
		validation.Field(&req.Source, validation.Required),
		validation.Field(&req.Drops),
	)
}

// ToDomain returns the event and its drops. A missing quantity counts as one.
func (req *CreateEventRequest) ToDomain() (domain.FarmEvent, []domain.NewDrop) {
	event := domain.FarmEvent{
		FarmType: domain.SourceType(req.FarmType),
		SourceID: req.Source,
	}

	drops := make([]domain.NewDrop, 0, len(req.Drops))
	for _, d := range req.Drops {
		qty := 1
		if d.Quantity != nil {
			qty = *d.Quantity
		}
		drops = append(drops, domain.NewDrop{
			RewardName: d.RewardName,
			Rarity:     domain.Rarity(d.Rarity),
			Quantity:   qty,
		})
	}

	return event, drops
}
