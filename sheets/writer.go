package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"

	"shakeup-scraper/models"

	"github.com/rs/zerolog"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Writer handles writing shakeup results to Google Sheets
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
	logger        zerolog.Logger
}

// NewWriter creates a new Google Sheets writer.
// Credentials come from credentialsPath or the GOOGLE_SHEETS_CREDENTIALS environment variable.
func NewWriter(ctx context.Context, spreadsheetID string, credentialsPath string, logger zerolog.Logger) (*Writer, error) {
	credsJSON, err := readCredentials(credentialsPath)
	if err != nil {
		return nil, err
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
		logger:        logger,
	}, nil
}

func readCredentials(credentialsPath string) ([]byte, error) {
	var credsJSON []byte
	if credentialsPath != "" {
		data, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		credsJSON = data
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	return credsJSON, nil
}

// CreateSheetAndWriteResults creates a new tab at index 0 and writes results to it.
// source is recorded in a metadata row above the header.
// Returns the sheet name and sheet ID (gid) that was created
func (w *Writer) CreateSheetAndWriteResults(ctx context.Context, sheetName string, results []models.ShakeupResult, source string) (string, int64, error) {
	sheetName = sanitizeSheetName(sheetName)
	if len(sheetName) > 100 {
		sheetName = sheetName[:100]
	}

	batchUpdateRequest := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: sheetName,
						Index: 0,
					},
				},
			},
		},
	}

	batchUpdateResp, err := w.service.Spreadsheets.BatchUpdate(w.spreadsheetID, batchUpdateRequest).Context(ctx).Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	var sheetID int64
	if len(batchUpdateResp.Replies) > 0 && batchUpdateResp.Replies[0].AddSheet != nil {
		sheetID = batchUpdateResp.Replies[0].AddSheet.Properties.SheetId
	}

	valueRange := &sheets.ValueRange{
		Values: buildValues(results, source),
	}

	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, fmt.Sprintf("%s!A1", sheetName), valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return "", 0, fmt.Errorf("failed to write to sheet: %w", err)
	}

	w.logger.Info().Str("sheet", sheetName).Int64("sheet_id", sheetID).Int("results", len(results)).
		Msg("wrote results to Google Sheets")
	return sheetName, sheetID, nil
}

// buildValues lays out the metadata row, header row and one row per result
func buildValues(results []models.ShakeupResult, source string) [][]interface{} {
	var values [][]interface{}
	if source != "" {
		values = append(values, []interface{}{"Source", source})
	}
	values = append(values, []interface{}{"Competition", "Shakeup (all)", "Shakeup (top 10%)", "Spearman", "Entries"})

	for _, r := range results {
		values = append(values, []interface{}{
			r.CompetitionName,
			cellValue(r.ShakeupAll),
			cellValue(r.ShakeupTop10Pct),
			cellValue(r.RankCorrelation),
			r.Entries,
		})
	}
	return values
}

// cellValue leaves NaN cells empty; the Sheets API rejects NaN numbers
func cellValue(v float64) interface{} {
	if math.IsNaN(v) {
		return ""
	}
	return v
}

// sanitizeSheetName removes invalid characters from sheet name
func sanitizeSheetName(name string) string {
	// Google Sheets sheet names cannot contain: / \ ? * [ ]
	invalidChars := []string{"/", "\\", "?", "*", "[", "]"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = "Sheet1"
	}
	return result
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
// such as https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing
func ExtractSpreadsheetID(url string) string {
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.IndexAny(idPart, "/?#"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
