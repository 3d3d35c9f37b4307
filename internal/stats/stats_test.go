package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"timestamp_utc": "2023-09-01T06:00:00Z",
		"russia": {
			"personnel": {"personnel": 263000},
			"equipment_oryx": {
				"total_billion_usd_estimated": 34.2,
				"categories": {
					"Tanks": {"usd_estimated": 6.1, "count": 2300},
					"Aircraft": {"usd_estimated": 9.8, "count": 90}
				}
			}
		},
		"ukraine": {
			"personnel_dead_ualosses": 24500
		}
	}`), 0o644))

	snap, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "2023-09-01T06:00:00Z", snap.UpdatedAt())
	require.NotNil(t, snap.Russia.Personnel)
	require.Equal(t, 263000, snap.Russia.Personnel.Personnel)
	require.NotNil(t, snap.Russia.EquipmentOryx)
	require.InDelta(t, 34.2, snap.Russia.EquipmentOryx.TotalBillionUSD, 0.001)
	require.Len(t, snap.Russia.EquipmentOryx.Categories, 2)

	require.Nil(t, snap.Ukraine.Personnel)
	require.NotNil(t, snap.Ukraine.PersonnelDeadUALosses)
	require.Equal(t, 24500, *snap.Ukraine.PersonnelDeadUALosses)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{broken`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestUpdatedAt_FallsBack(t *testing.T) {
	snap := &Snapshot{Timestamp: "2023-09-01"}
	require.Equal(t, "2023-09-01", snap.UpdatedAt())

	snap.TimestampUTC = "2023-09-01T06:00:00Z"
	require.Equal(t, "2023-09-01T06:00:00Z", snap.UpdatedAt())
}

func usd(v float64) *float64 { return &v }

func TestTopCategories(t *testing.T) {
	cats := map[string]Category{
		"Tanks":     {USDEstimated: usd(6.1), Count: 2300},
		"Aircraft":  {USDEstimated: usd(9.8), Count: 90},
		"Trucks":    {USDEstimated: usd(0.4), Count: 3000},
		"Artillery": {USDEstimated: usd(6.1), Count: 1200},
		"Unpriced":  {Count: 50},
	}

	rows := TopCategories(cats, 3, 1.0)
	require.Len(t, rows, 3)
	require.Equal(t, "Aircraft", rows[0].Name)
	// Equal values fall back to name order for stable output.
	require.Equal(t, "Artillery", rows[1].Name)
	require.Equal(t, "Tanks", rows[2].Name)
}

func TestTopCategories_NoLimit(t *testing.T) {
	cats := map[string]Category{
		"A": {USDEstimated: usd(1)},
		"B": {USDEstimated: usd(2)},
	}
	rows := TopCategories(cats, 0, 0)
	require.Len(t, rows, 2)
}

func TestTopCategories_Empty(t *testing.T) {
	require.Empty(t, TopCategories(nil, 5, 0))
}
