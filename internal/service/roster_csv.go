package service

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/noah-isme/career-roadmap-api/internal/models"
	"github.com/noah-isme/career-roadmap-api/pkg/config"
	"github.com/noah-isme/career-roadmap-api/pkg/export"
)

// RosterCSVHeaders is the column order of roster CSV files.
var RosterCSVHeaders = []string{
	"student_number",
	"name",
	"password",
	"first_login",
	"is_data_confirmed",
	"department",
	"class_name",
	"gender",
	"clubs_joined",
	"parent_share_consent",
	"photo",
}

const (
	colNumber = iota
	colName
	colPassword
	colFirstLogin
	colConfirmed
	colDepartment
	colClassName
	colGender
	colClubs
	colConsent
	colPhoto
)

// RosterCSV converts between roster rows and CSV. In legacy inverted mode the
// is_data_confirmed column holds the negation of the stored flag.
type RosterCSV struct {
	invertConfirmed bool
	reader          *export.CSVReader
	writer          *export.CSVExporter
}

// NewRosterCSV builds a codec for the given confirmed-column mode.
func NewRosterCSV(confirmedMode string) *RosterCSV {
	return &RosterCSV{
		invertConfirmed: confirmedMode == config.CSVConfirmedLegacyInverted,
		reader:          export.NewCSVReader(RosterCSVHeaders),
		writer:          export.NewCSVExporter(),
	}
}

// Decode parses data into students. Any diagnostic means the data must not
// be applied.
func (c *RosterCSV) Decode(data []byte) ([]models.Student, []export.Diagnostic) {
	records, diagnostics := c.reader.Read(data)
	students := make([]models.Student, 0, len(records))
	for _, record := range records {
		student, rowDiagnostics := c.decodeRow(record)
		if len(rowDiagnostics) > 0 {
			diagnostics = append(diagnostics, rowDiagnostics...)
			continue
		}
		students = append(students, student)
	}
	sort.SliceStable(diagnostics, func(i, j int) bool { return diagnostics[i].Line < diagnostics[j].Line })
	return students, diagnostics
}

func (c *RosterCSV) decodeRow(record export.Record) (models.Student, []export.Diagnostic) {
	f := record.Fields
	var diagnostics []export.Diagnostic
	fail := func(col int, reason string) {
		diagnostics = append(diagnostics, export.Diagnostic{
			Line:   record.Line,
			Column: col + 1,
			Field:  RosterCSVHeaders[col],
			Reason: reason,
		})
	}

	number, err := strconv.Atoi(strings.TrimSpace(f[colNumber]))
	if err != nil {
		fail(colNumber, fmt.Sprintf("student number %q is not an integer", f[colNumber]))
	} else if number <= 0 {
		fail(colNumber, fmt.Sprintf("student number %d must be positive", number))
	}

	firstLogin, ok := parseBool(f[colFirstLogin])
	if !ok {
		fail(colFirstLogin, fmt.Sprintf("invalid boolean %q, want TRUE or FALSE", f[colFirstLogin]))
	}
	confirmed, ok := parseBool(f[colConfirmed])
	if !ok {
		fail(colConfirmed, fmt.Sprintf("invalid boolean %q, want TRUE or FALSE", f[colConfirmed]))
	}
	if c.invertConfirmed {
		// legacy files: confirmed exactly when the raw token is "FALSE"
		confirmed = f[colConfirmed] == "FALSE"
	}

	return models.Student{
		StudentNumber:      number,
		Name:               f[colName],
		Password:           f[colPassword],
		FirstLogin:         firstLogin,
		IsDataConfirmed:    confirmed,
		Department:         f[colDepartment],
		ClassName:          f[colClassName],
		Gender:             f[colGender],
		ClubsJoined:        f[colClubs],
		ParentShareConsent: f[colConsent],
		Photo:              f[colPhoto],
	}, diagnostics
}

// Encode writes students in roster order.
func (c *RosterCSV) Encode(students []models.Student) ([]byte, error) {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		confirmed := s.IsDataConfirmed
		if c.invertConfirmed {
			confirmed = !confirmed
		}
		rows = append(rows, []string{
			strconv.Itoa(s.StudentNumber),
			s.Name,
			s.Password,
			formatBool(s.FirstLogin),
			formatBool(confirmed),
			s.Department,
			s.ClassName,
			s.Gender,
			s.ClubsJoined,
			s.ParentShareConsent,
			s.Photo,
		})
	}
	return c.writer.Render(export.Table{Headers: RosterCSVHeaders, Rows: rows})
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "TRUE":
		return true, true
	case "FALSE":
		return false, true
	default:
		return false, false
	}
}

func formatBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}
