package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/Clementjatts/FantasyLeagueManager-sub000/internal/fpl"
)

// Team is a user's persisted squad state: picks, used chips and the
// transfer allowance, stored as JSON columns.
type Team struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Picks     datatypes.JSON `gorm:"type:jsonb" json:"picks"`
	Chips     datatypes.JSON `gorm:"type:jsonb" json:"chips"`
	Transfers datatypes.JSON `gorm:"type:jsonb" json:"transfers"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// DecodePicks unmarshals the picks column. A missing column yields an
// empty slice.
func (t *Team) DecodePicks() ([]fpl.Pick, error) {
	if len(t.Picks) == 0 {
		return []fpl.Pick{}, nil
	}
	var picks []fpl.Pick
	if err := json.Unmarshal(t.Picks, &picks); err != nil {
		return nil, err
	}
	return picks, nil
}

// SetPicks marshals picks into the JSON column.
func (t *Team) SetPicks(picks []fpl.Pick) error {
	data, err := json.Marshal(picks)
	if err != nil {
		return err
	}
	t.Picks = data
	return nil
}

// DecodeChips unmarshals the chips column.
func (t *Team) DecodeChips() ([]fpl.Chip, error) {
	if len(t.Chips) == 0 {
		return []fpl.Chip{}, nil
	}
	var chips []fpl.Chip
	if err := json.Unmarshal(t.Chips, &chips); err != nil {
		return nil, err
	}
	return chips, nil
}

// SetChips marshals chips into the JSON column.
func (t *Team) SetChips(chips []fpl.Chip) error {
	data, err := json.Marshal(chips)
	if err != nil {
		return err
	}
	t.Chips = data
	return nil
}

// DecodeTransfers unmarshals the transfer state column.
func (t *Team) DecodeTransfers() (fpl.TransferState, error) {
	var state fpl.TransferState
	if len(t.Transfers) == 0 {
		return state, nil
	}
	if err := json.Unmarshal(t.Transfers, &state); err != nil {
		return state, err
	}
	return state, nil
}

// SetTransfers marshals the transfer state into the JSON column.
func (t *Team) SetTransfers(state fpl.TransferState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	t.Transfers = data
	return nil
}
