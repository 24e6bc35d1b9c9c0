package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Exercise is one entry of the workout program reference data.
type Exercise struct {
	Name            string
	Day             int
	DefaultSets     int
	DefaultRepRange string
	DefaultWeight   *float64
	Category        string
}

func (e Exercise) String() string {
	weightStr := ""
	if e.DefaultWeight != nil {
		weightStr = fmt.Sprintf(" @ %gkg", *e.DefaultWeight)
	}
	return fmt.Sprintf("%s: %d x %s%s", e.Name, e.DefaultSets, e.DefaultRepRange, weightStr)
}

type Catalog struct {
	byName map[string]*Exercise
	byDay  map[int][]*Exercise
}

var (
	dayHeaderRe = regexp.MustCompile(`Dia\s*(\d+)`)
	setsRepsRe  = regexp.MustCompile(`(\d+)\s*x\s*([\d\-]+)`)
)

// Load reads the program CSV once at startup. The sheet layout is a header
// row, a week-label row, then "Dia N" section headers in column A with the
// day's exercise rows below them. Week 1 Peso sits in column C and week 1
// Series ("3 x 6-10") in column D.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open exercises CSV: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse exercises CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("exercises CSV is missing header rows")
	}

	c := &Catalog{
		byName: make(map[string]*Exercise),
		byDay:  map[int][]*Exercise{1: {}, 2: {}, 3: {}, 4: {}},
	}

	currentDay := 0
	for _, row := range rows[2:] {
		if len(row) == 0 || row[0] == "" {
			continue
		}

		if m := dayHeaderRe.FindStringSubmatch(row[0]); m != nil {
			currentDay, _ = strconv.Atoi(m[1])
			continue
		}
		if currentDay == 0 {
			continue
		}

		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}

		var weight *float64
		if len(row) > 2 && row[2] != "" {
			if w, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64); err == nil {
				weight = &w
			}
		}

		setsReps := "3 x 8-12"
		if len(row) > 3 && row[3] != "" {
			setsReps = row[3]
		}
		sets, repRange := parseSetsReps(setsReps)

		ex := &Exercise{
			Name:            name,
			Day:             currentDay,
			DefaultSets:     sets,
			DefaultRepRange: repRange,
			DefaultWeight:   weight,
			Category:        categorize(name),
		}

		c.byName[strings.ToLower(name)] = ex
		c.byDay[currentDay] = append(c.byDay[currentDay], ex)
	}

	logrus.Infof("Loaded %d exercises from %s", len(c.byName), path)
	return c, nil
}

// parseSetsReps splits a "3 x 6-10" cell into sets and rep range, falling
// back to 3 x 8-12 for malformed cells.
func parseSetsReps(s string) (int, string) {
	if m := setsRepsRe.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
		sets, _ := strconv.Atoi(m[1])
		return sets, m[2]
	}
	return 3, "8-12"
}

var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"Shoulders", []string{"vuelos", "laterales", "hombro", "shoulder", "deltoides", "face pulls"}},
	{"Chest", []string{"press", "banca", "bench", "pec", "mariposa", "aperturas", "pecho", "chest"}},
	{"Back", []string{"dorsal", "remo", "row", "dominadas", "pull", "espalda", "back"}},
	{"Biceps", []string{"curl", "bíceps", "biceps", "bicep"}},
	{"Triceps", []string{"tríceps", "triceps", "extensión", "extension"}},
	{"Legs", []string{"zancadas", "lunge", "femoral", "cuádriceps", "quadriceps", "hacka", "hack", "squat", "glúteo", "glute", "aductores", "peso muerto", "deadlift", "rdl", "piernas", "legs"}},
}

func categorize(name string) string {
	nameLower := strings.ToLower(name)
	for _, group := range categoryKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(nameLower, kw) {
				return group.category
			}
		}
	}
	return "Other"
}

// Find looks an exercise up by name, exact match first, then substring in
// either direction. Names come from users and the LLM, so matching stays
// case-insensitive and loose.
func (c *Catalog) Find(query string) *Exercise {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return nil
	}

	if ex, ok := c.byName[queryLower]; ok {
		return ex
	}

	for name, ex := range c.byName {
		if strings.Contains(name, queryLower) || strings.Contains(queryLower, name) {
			return ex
		}
	}

	return nil
}

func (c *Catalog) ForDay(day int) []*Exercise {
	return c.byDay[day]
}

func (c *Catalog) All() []*Exercise {
	all := make([]*Exercise, 0, len(c.byName))
	for _, exercises := range c.byDay {
		all = append(all, exercises...)
	}
	return all
}

func (c *Catalog) DaySummary(day int) string {
	exercises := c.ForDay(day)
	if len(exercises) == 0 {
		return fmt.Sprintf("No exercises found for Day %d", day)
	}

	summary := fmt.Sprintf("Day %d Exercises:\n\n", day)
	for _, ex := range exercises {
		summary += fmt.Sprintf("- %s\n", ex)
	}
	return summary
}
