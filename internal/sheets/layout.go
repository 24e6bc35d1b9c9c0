package sheets

import (
	"fmt"
	"regexp"
	"strings"
)

// The program sheet keeps exercise names in column A under "Dia N" section
// headers. Each week owns three columns starting at column C: Peso, Series,
// Notas. Week 1 is C/D/E, week 2 is F/G/H, and so on through week 6.

type weekColumn int

const (
	columnPeso weekColumn = iota
	columnSeries
	columnNotas
)

const weekBaseColumn = 3 // 1-based; week 1 Peso lives in column C

func columnForWeek(week int, col weekColumn) int {
	return weekBaseColumn + (week-1)*3 + int(col)
}

// columnLetter converts a 1-based column index to its A1 letter.
func columnLetter(col int) string {
	letters := ""
	for col > 0 {
		col--
		letters = string(rune('A'+col%26)) + letters
		col /= 26
	}
	return letters
}

var dayHeaderPrefix = "dia"

// findExerciseRow returns the 1-based row of an exercise inside its day
// section of column A, or 0 when the exercise is absent. The search starts
// after the day's "Dia N" header and stops at the next one.
func findExerciseRow(columnA []string, exerciseName string, day int) int {
	dayHeader := fmt.Sprintf("Dia %d", day)

	dayRow := 0
	for i, value := range columnA {
		if strings.Contains(value, dayHeader) {
			dayRow = i + 1
			break
		}
	}
	if dayRow == 0 {
		return 0
	}

	exerciseLower := strings.ToLower(exerciseName)
	for i := dayRow; i < len(columnA); i++ {
		cell := strings.ToLower(columnA[i])
		if strings.HasPrefix(cell, dayHeaderPrefix) {
			break
		}
		if cell == "" {
			continue
		}
		if strings.Contains(cell, exerciseLower) || strings.Contains(exerciseLower, cell) {
			return i + 1
		}
	}

	return 0
}

var spreadsheetIDRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9\-_]+)`)

// SpreadsheetIDFromURL extracts the document ID from a full sheet URL. A
// bare ID passes through unchanged.
func SpreadsheetIDFromURL(url string) (string, error) {
	if m := spreadsheetIDRe.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if url != "" && !strings.Contains(url, "/") {
		return url, nil
	}
	return "", fmt.Errorf("could not extract spreadsheet ID from %q", url)
}
