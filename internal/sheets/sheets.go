package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// ErrExerciseNotFound means the exercise row is missing from the sheet's
// day section.
var ErrExerciseNotFound = errors.New("exercise not found in the sheet")

// LogEntry is one logged workout destined for the spreadsheet.
type LogEntry struct {
	ExerciseName string
	Week         int
	Day          int
	Sets         int
	Reps         string
	Weight       *float64
	Notes        string
}

func (e LogEntry) Summary() string {
	weightStr := ""
	if e.Weight != nil {
		weightStr = fmt.Sprintf(" @ %gkg", *e.Weight)
	}
	return fmt.Sprintf("%s: %d x %s%s", e.ExerciseName, e.Sets, e.Reps, weightStr)
}

// HistoryItem is one week's cells for an exercise row.
type HistoryItem struct {
	Week   int
	Weight *float64
	Series string
	Notes  string
}

// Service reads and writes the shared program spreadsheet through a
// service account.
type Service struct {
	sheets        *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewService connects with the service-account credentials file and
// resolves the spreadsheet from its URL. Writes go to the first worksheet.
func NewService(ctx context.Context, credentialsPath, sheetURL string) (*Service, error) {
	spreadsheetID, err := SpreadsheetIDFromURL(sheetURL)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(credentialsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data,
		sheets.SpreadsheetsScope,
		drive.DriveScope,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}

	client := config.Client(ctx)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Sheets service: %w", err)
	}

	meta, err := srv.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	if len(meta.Sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no worksheets")
	}
	sheetName := meta.Sheets[0].Properties.Title

	logrus.Infof("Connected to Google Sheets, worksheet %q", sheetName)

	return &Service{
		sheets:        srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// LogWorkout writes the entry's weight, series, and notes cells into the
// exercise's row for the given week.
func (s *Service) LogWorkout(ctx context.Context, entry LogEntry) error {
	row, err := s.findRow(ctx, entry.ExerciseName, entry.Day)
	if err != nil {
		return err
	}

	if entry.Weight != nil {
		if err := s.updateCell(ctx, row, columnForWeek(entry.Week, columnPeso), *entry.Weight); err != nil {
			return fmt.Errorf("failed to write weight: %w", err)
		}
	}

	series := fmt.Sprintf("%d x %s", entry.Sets, entry.Reps)
	if err := s.updateCell(ctx, row, columnForWeek(entry.Week, columnSeries), series); err != nil {
		return fmt.Errorf("failed to write series: %w", err)
	}

	if entry.Notes != "" {
		if err := s.updateCell(ctx, row, columnForWeek(entry.Week, columnNotas), entry.Notes); err != nil {
			return fmt.Errorf("failed to write notes: %w", err)
		}
	}

	logrus.Infof("Logged %s (week %d, day %d, row %d)", entry.ExerciseName, entry.Week, entry.Day, row)
	return nil
}

// DayProgress formats the logged series and weight for every exercise of a
// day section in the given week.
func (s *Service) DayProgress(ctx context.Context, day, week int) (string, error) {
	grid, err := s.readGrid(ctx)
	if err != nil {
		return "", err
	}

	dayHeader := fmt.Sprintf("Dia %d", day)
	dayRow := 0
	for i, row := range grid {
		if len(row) > 0 && strings.Contains(row[0], dayHeader) {
			dayRow = i + 1
			break
		}
	}
	if dayRow == 0 {
		return "", fmt.Errorf("day %d not found in sheet", day)
	}

	seriesCol := columnForWeek(week, columnSeries)
	pesoCol := columnForWeek(week, columnPeso)

	summary := fmt.Sprintf("Day %d, Week %d Progress:\n\n", day, week)
	for i := dayRow; i < len(grid); i++ {
		if len(grid[i]) == 0 || grid[i][0] == "" {
			break
		}
		name := grid[i][0]
		if strings.HasPrefix(strings.ToLower(name), dayHeaderPrefix) {
			break
		}

		series := cellAt(grid[i], seriesCol)
		if series == "" {
			series = "Not logged"
		}
		weightStr := ""
		if peso := cellAt(grid[i], pesoCol); peso != "" {
			weightStr = fmt.Sprintf(" @ %skg", peso)
		}
		summary += fmt.Sprintf("- %s: %s%s\n", name, series, weightStr)
	}

	return summary, nil
}

// ExerciseHistory collects an exercise's cells across all six weeks.
func (s *Service) ExerciseHistory(ctx context.Context, exerciseName string, day int) ([]HistoryItem, error) {
	grid, err := s.readGrid(ctx)
	if err != nil {
		return nil, err
	}

	columnA := make([]string, len(grid))
	for i, row := range grid {
		columnA[i] = cellAt(row, 1)
	}

	row := findExerciseRow(columnA, exerciseName, day)
	if row == 0 {
		return nil, ErrExerciseNotFound
	}

	var history []HistoryItem
	for week := 1; week <= 6; week++ {
		item := HistoryItem{
			Week:   week,
			Series: cellAt(grid[row-1], columnForWeek(week, columnSeries)),
			Notes:  cellAt(grid[row-1], columnForWeek(week, columnNotas)),
		}
		if peso := cellAt(grid[row-1], columnForWeek(week, columnPeso)); peso != "" {
			if w, err := strconv.ParseFloat(peso, 64); err == nil {
				item.Weight = &w
			}
		}
		history = append(history, item)
	}

	return history, nil
}

func (s *Service) findRow(ctx context.Context, exerciseName string, day int) (int, error) {
	readRange := fmt.Sprintf("%s!A:A", s.sheetName)
	resp, err := s.sheets.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet: %w", err)
	}

	columnA := make([]string, len(resp.Values))
	for i, row := range resp.Values {
		if len(row) > 0 {
			columnA[i] = fmt.Sprint(row[0])
		}
	}

	row := findExerciseRow(columnA, exerciseName, day)
	if row == 0 {
		logrus.Warnf("Exercise %q not found in Day %d section", exerciseName, day)
		return 0, ErrExerciseNotFound
	}
	return row, nil
}

func (s *Service) updateCell(ctx context.Context, row, col int, value interface{}) error {
	writeRange := fmt.Sprintf("%s!%s%d", s.sheetName, columnLetter(col), row)
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{{value}},
	}
	_, err := s.sheets.Spreadsheets.Values.Update(s.spreadsheetID, writeRange, valueRange).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	return err
}

func (s *Service) readGrid(ctx context.Context) ([][]string, error) {
	readRange := fmt.Sprintf("%s!A:T", s.sheetName)
	resp, err := s.sheets.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		grid[i] = cells
	}
	return grid, nil
}

// cellAt reads a 1-based column from a row, tolerating short rows.
func cellAt(row []string, col int) string {
	if col < 1 || col > len(row) {
		return ""
	}
	return row[col-1]
}
