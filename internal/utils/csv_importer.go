package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
)

// ParseSubscribersCSV reads subscriber rows from r. The header must contain
// an email column; firstName, lastName and tags columns are optional and
// every other column becomes a custom field. Rows that cannot be read are
// reported in rowErrors and skipped.
func ParseSubscribersCSV(r io.Reader) (inputs []models.SubscriberInput, rowErrors []string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	emailIdx := findColumnIndex(header, []string{"email", "email address", "e-mail"})
	firstIdx := findColumnIndex(header, []string{"firstName", "first name", "first_name"})
	lastIdx := findColumnIndex(header, []string{"lastName", "last name", "last_name"})
	tagsIdx := findColumnIndex(header, []string{"tags", "tag"})
	if emailIdx == -1 {
		return nil, nil, errors.New("email column not found in CSV")
	}

	known := map[int]bool{emailIdx: true, firstIdx: true, lastIdx: true, tagsIdx: true}

	line := 1
	for {
		record, readErr := reader.Read()
		if readErr == io.EOF {
			break
		}
		line++
		if readErr != nil {
			rowErrors = append(rowErrors, fmt.Sprintf("line %d: %v", line, readErr))
			continue
		}

		in := models.SubscriberInput{
			Email:     cell(record, emailIdx),
			FirstName: cell(record, firstIdx),
			LastName:  cell(record, lastIdx),
		}
		if tagsIdx != -1 {
			in.Tags = SplitTags(cell(record, tagsIdx))
		}
		for i, name := range header {
			if known[i] || i >= len(record) {
				continue
			}
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if in.CustomFields == nil {
				in.CustomFields = make(map[string]interface{})
			}
			in.CustomFields[name] = strings.TrimSpace(record[i])
		}
		inputs = append(inputs, in)
	}
	return inputs, rowErrors, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func findColumnIndex(header []string, possibleNames []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, name := range possibleNames {
			if strings.ToLower(name) == h {
				return i
			}
		}
	}
	return -1
}
