package report

import (
	"math"
	"strings"
	"time"
)

// Row is the fully enriched, externally visible representation of one
// session. Field order here is the column order of tabular output.
type Row struct {
	StartDate       string  `json:"startDate"` // YYYY-MM-DD, local time
	EndDate         string  `json:"endDate"`
	Client          string  `json:"client"`
	Project         string  `json:"project"`
	Repository      string  `json:"repository"`
	Description     string  `json:"description"`
	StartTimestamp  int64   `json:"startTimestamp"` // epoch ms
	EndTimestamp    int64   `json:"endTimestamp"`
	DurationHours   float64 `json:"durationHours"`
	DurationMinutes int64   `json:"durationMinutes"`
	MessageCount    int     `json:"messageCount"`
	Topics          string  `json:"topics"`
	ProjectPath     string  `json:"projectPath"`
}

// NewRow assembles a report row from session data and its billing identity.
func NewRow(projectPath, repoName, client, project, description, topics string, start, end int64, messages int) Row {
	millis := end - start
	hours := math.Round(float64(millis)/3600000*100) / 100

	return Row{
		StartDate:       formatDate(start),
		EndDate:         formatDate(end),
		Client:          client,
		Project:         project,
		Repository:      repoName,
		Description:     description,
		StartTimestamp:  start,
		EndTimestamp:    end,
		DurationHours:   hours,
		DurationMinutes: millis / 60000,
		MessageCount:    messages,
		Topics:          topics,
		ProjectPath:     projectPath,
	}
}

func formatDate(epochMillis int64) string {
	return time.UnixMilli(epochMillis).Format("2006-01-02")
}

// flatten collapses newlines to spaces so tabular rows stay single-line.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return s
}
