package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `EJERCICIO,,WEEK 1,,,WEEK 2,,
,,Peso,Series,Notas,Peso,Series,Notas
Dia 1,,,,,,,
Press Banca,,60,3 x 6-10,,,,
Vuelos Laterales,,10,3 x 12-15,,,,
Dominadas,,,malformed,,,,
Dia 2,,,,,,,
Sentadilla Hack,,80,4 x 5,,,,
Curl Femoral,,35,3 x 10-15,,,,
`

func writeTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exercises.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	c, err := Load(writeTestCSV(t))
	require.NoError(t, err)

	assert.Len(t, c.All(), 5)
	assert.Len(t, c.ForDay(1), 3)
	assert.Len(t, c.ForDay(2), 2)
	assert.Empty(t, c.ForDay(3))

	bench := c.Find("Press Banca")
	require.NotNil(t, bench)
	assert.Equal(t, 1, bench.Day)
	assert.Equal(t, 3, bench.DefaultSets)
	assert.Equal(t, "6-10", bench.DefaultRepRange)
	require.NotNil(t, bench.DefaultWeight)
	assert.Equal(t, 60.0, *bench.DefaultWeight)
	assert.Equal(t, "Chest", bench.Category)

	squat := c.Find("sentadilla hack")
	require.NotNil(t, squat)
	assert.Equal(t, 2, squat.Day)
	assert.Equal(t, 4, squat.DefaultSets)
	assert.Equal(t, "5", squat.DefaultRepRange)
	assert.Equal(t, "Legs", squat.Category)
}

func TestLoadMalformedSeriesFallsBack(t *testing.T) {
	c, err := Load(writeTestCSV(t))
	require.NoError(t, err)

	pullups := c.Find("Dominadas")
	require.NotNil(t, pullups)
	assert.Equal(t, 3, pullups.DefaultSets)
	assert.Equal(t, "8-12", pullups.DefaultRepRange)
	assert.Nil(t, pullups.DefaultWeight)
	assert.Equal(t, "Back", pullups.Category)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestFind(t *testing.T) {
	c, err := Load(writeTestCSV(t))
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"exact", "Press Banca", "Press Banca"},
		{"case insensitive", "press banca", "Press Banca"},
		{"query contains name", "press banca con barra", "Press Banca"},
		{"name contains query", "vuelos", "Vuelos Laterales"},
		{"unknown", "burpees", ""},
		{"empty", "  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Find(tt.query)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestDaySummary(t *testing.T) {
	c, err := Load(writeTestCSV(t))
	require.NoError(t, err)

	summary := c.DaySummary(1)
	assert.Contains(t, summary, "Day 1 Exercises:")
	assert.Contains(t, summary, "Press Banca: 3 x 6-10 @ 60kg")
	assert.Contains(t, summary, "Dominadas: 3 x 8-12")

	assert.Equal(t, "No exercises found for Day 3", c.DaySummary(3))
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		exercise string
		want     string
	}{
		{"Face Pulls", "Shoulders"},
		{"Bench Press", "Chest"},
		{"Remo con Barra", "Back"},
		{"Curl Martillo", "Biceps"},
		{"Extensión de Tríceps", "Triceps"},
		{"Peso Muerto Rumano", "Legs"},
		{"Plancha", "Other"},
	}

	for _, tt := range tests {
		t.Run(tt.exercise, func(t *testing.T) {
			assert.Equal(t, tt.want, categorize(tt.exercise))
		})
	}
}
