package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlog/farmlog-api/internal/domain"
	"github.com/farmlog/farmlog-api/internal/stats"
)

func TestNewUserStatsReport_EchoesFiltersAndNeverNull(t *testing.T) {
	report := NewUserStatsReport("alice", 3, UserStatsFilters{Source: Optional("Abyss"), Item: Optional("")}, domain.StatsReport{})

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "alice", got["user"])
	assert.Equal(t, float64(3), got["game_id"])
	assert.Equal(t, map[string]any{"source": "Abyss", "item": nil, "start_date": nil, "end_date": nil}, got["filters"])
	assert.Equal(t, []any{}, got["drops"])
	assert.Equal(t, []any{}, got["by_type"])
	assert.Equal(t, []any{}, got["by_day"])
	assert.Equal(t, map[string]any{"total_events": float64(0), "total_drops": float64(0), "avg_drops": float64(0)}, got["summary"])
}

func TestNewFarmStatsReport_DateRange(t *testing.T) {
	report := NewFarmStatsReport(1, FarmStatsFilters{
		Type:      Optional("DOMAIN"),
		DateRange: [2]*string{Optional("2024-01-01"), nil},
	}, domain.StatsReport{})

	raw, err := json.Marshal(report.Filters)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"DOMAIN","sourceID":null,"itemID":null,"date_range":["2024-01-01",null]}`, string(raw))
}

func TestNewDropRateReport(t *testing.T) {
	empty := NewDropRateReport(1, 10, nil, stats.ComputeDropRate(0, nil))
	assert.Equal(t, stats.NoEventsMessage, empty.Message)
	assert.Equal(t, 0.0, empty.DropRate)
	assert.NotNil(t, empty.ByRarity)

	item := uint(4)
	half := NewDropRateReport(1, 10, &item, stats.ComputeDropRate(2, []domain.DropRecord{{EventID: 1, Rarity: domain.RarityRare, Quantity: 1}}))
	assert.Empty(t, half.Message)
	assert.Equal(t, 0.5, half.DropRate)
	assert.Equal(t, &item, half.ItemID)
}
