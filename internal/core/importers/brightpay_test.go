package importers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallyben/autoenroll-core/internal/core"
)

const bpHeader = "Employee ID,First Name,Last Name,Email,DOB,Start Date,Salary,PPSN\n"

func TestMapBrightPay_ValidFile(t *testing.T) {
	csv := bpHeader +
		"E1,John,Doe,john@example.ie,15/03/1990,2020-09-01,50000,1234567T\n" +
		"E2, Mary , Byrne ,,,,\"€42,500.50\",7654321WA\n"

	res := MapBrightPay([]byte(csv), core.ImportOptions{ValidatePPSN: true})

	require.True(t, res.Success)
	require.Equal(t, 2, res.RecordCount)
	require.Len(t, res.Employees, 2)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)

	john := res.Employees[0]
	assert.Equal(t, "E1", john.EmployeeID)
	assert.Equal(t, "john@example.ie", john.Email)
	assert.Equal(t, "1990-03-15", john.DateOfBirth)
	assert.Equal(t, "2020-09-01", john.StartDate)
	assert.Equal(t, "1234567T", john.PPSN)
	require.True(t, john.Salary.Valid)
	assert.True(t, john.Salary.Decimal.Equal(decimal.NewFromInt(50000)))

	mary := res.Employees[1]
	assert.Equal(t, "Mary", mary.FirstName)
	assert.Equal(t, "Byrne", mary.LastName)
	assert.Empty(t, mary.Email)
	assert.True(t, mary.Salary.Decimal.Equal(decimal.RequireFromString("42500.5")))
}

func TestMapBrightPay_ShortRowsAreSkippedWithOneWarning(t *testing.T) {
	csv := bpHeader +
		"E1,John\n" +
		"E2\n" +
		"E3,Ann,Lee\n"

	res := MapBrightPay([]byte(csv), core.ImportOptions{})

	assert.True(t, res.Success)
	require.Len(t, res.Employees, 1)
	assert.Equal(t, "E3", res.Employees[0].EmployeeID)
	assert.Equal(t, []string{
		"Row 2: Insufficient columns, skipping",
		"Row 3: Insufficient columns, skipping",
	}, res.Warnings)
}

func TestMapBrightPay_MissingRequiredFields(t *testing.T) {
	csv := bpHeader +
		",John,Doe\n" +
		"E2,  ,Doe\n" +
		"E3,Ann,\n"

	res := MapBrightPay([]byte(csv), core.ImportOptions{})

	assert.True(t, res.Success)
	assert.Zero(t, res.RecordCount)
	require.Len(t, res.Warnings, 3)
	for i, w := range res.Warnings {
		assert.Contains(t, w, "Missing required fields (ID, First Name, or Last Name), skipping")
		assert.True(t, strings.HasPrefix(w, fmt.Sprintf("Row %d:", i+2)), w)
	}
}

func TestMapBrightPay_PPSN(t *testing.T) {
	csv := bpHeader +
		"E1,John,Doe,,,,,123456T\n" +
		"E2,Mary,Byrne,,,,,1234567T\n"

	tests := []struct {
		name         string
		opts         core.ImportOptions
		wantSuccess  bool
		wantRecords  int
		wantErrors   []string
		wantWarnings []string
	}{
		{
			name:         "validation off ignores format",
			opts:         core.ImportOptions{},
			wantSuccess:  true,
			wantRecords:  2,
			wantErrors:   []string{},
			wantWarnings: []string{},
		},
		{
			name:         "lenient keeps row with warning",
			opts:         core.ImportOptions{ValidatePPSN: true},
			wantSuccess:  true,
			wantRecords:  2,
			wantErrors:   []string{},
			wantWarnings: []string{"Row 2: Invalid PPSN format: 123456T"},
		},
		{
			name:         "strict drops row with error",
			opts:         core.ImportOptions{ValidatePPSN: true, StrictMode: true},
			wantSuccess:  false,
			wantRecords:  1,
			wantErrors:   []string{"Row 2: Invalid PPSN format: 123456T"},
			wantWarnings: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := MapBrightPay([]byte(csv), tt.opts)

			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.Equal(t, tt.wantRecords, res.RecordCount)
			assert.Len(t, res.Employees, res.RecordCount)
			assert.Equal(t, tt.wantErrors, res.Errors)
			assert.Equal(t, tt.wantWarnings, res.Warnings)
		})
	}
}

func TestMapBrightPay_InvalidSalary(t *testing.T) {
	csv := bpHeader + "E1,John,Doe,,,,lots,\n" + "E2,Mary,Byrne,,,,-100,\n"

	lenient := MapBrightPay([]byte(csv), core.ImportOptions{})
	assert.True(t, lenient.Success)
	require.Len(t, lenient.Employees, 2)
	assert.False(t, lenient.Employees[0].Salary.Valid)
	assert.False(t, lenient.Employees[1].Salary.Valid)
	assert.Equal(t, []string{
		`Row 2: Invalid salary "lots"`,
		`Row 3: Invalid salary "-100"`,
	}, lenient.Warnings)

	strict := MapBrightPay([]byte(csv), core.ImportOptions{StrictMode: true})
	assert.False(t, strict.Success)
	assert.Zero(t, strict.RecordCount)
	assert.Len(t, strict.Errors, 2)
}

func TestMapBrightPay_UnrecognisedDateIsKept(t *testing.T) {
	csv := bpHeader + "E1,John,Doe,,sometime,,,\n"

	res := MapBrightPay([]byte(csv), core.ImportOptions{})

	require.Len(t, res.Employees, 1)
	assert.Equal(t, "sometime", res.Employees[0].DateOfBirth)
	assert.Equal(t, []string{`Row 2: Unrecognised date of birth "sometime", kept as is`}, res.Warnings)
}

func TestMapBrightPay_NamesKeepQuotesAndApostrophes(t *testing.T) {
	csv := bpHeader +
		"E1,\"Anne \"\"Nan\"\"\",Smith\n" +
		"E2,=Bob,O'Neill'\n" +
		"E3,Ann,D'\n" +
		"E4,Tom,Lee,,,,,=\"1234567T\"\n"

	res := MapBrightPay([]byte(csv), core.ImportOptions{ValidatePPSN: true})

	require.Len(t, res.Employees, 4)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, `Anne "Nan"`, res.Employees[0].FirstName)
	assert.Equal(t, "=Bob", res.Employees[1].FirstName)
	assert.Equal(t, "O'Neill'", res.Employees[1].LastName)
	assert.Equal(t, "D'", res.Employees[2].LastName)
	assert.Equal(t, "1234567T", res.Employees[3].PPSN, "Excel text formula is unwrapped")
}

func TestMapBrightPay_Empty(t *testing.T) {
	res := MapBrightPay(nil, core.ImportOptions{})

	assert.False(t, res.Success)
	assert.Zero(t, res.RecordCount)
	assert.Empty(t, res.Employees)
	assert.Equal(t, []string{"CSV file is empty"}, res.Errors)
}

func TestMapBrightPay_HeaderOnly(t *testing.T) {
	res := MapBrightPay([]byte(bpHeader), core.ImportOptions{})

	assert.True(t, res.Success)
	assert.Zero(t, res.RecordCount)
	assert.NotNil(t, res.Employees)
}

func TestMapBrightPay_UnsupportedEncodingFailsWholeCall(t *testing.T) {
	res := MapBrightPay([]byte(bpHeader+"E1,John,Doe\n"), core.ImportOptions{Encoding: "ebcdic"})

	assert.False(t, res.Success)
	assert.Zero(t, res.RecordCount)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "CSV Parse Error")
}

func TestMapBrightPay_Windows1252(t *testing.T) {
	data := []byte(bpHeader + "E1,Se\xe1n,\xd3 Murch\xfa\n")

	res := MapBrightPay(data, core.ImportOptions{Encoding: "windows-1252"})

	require.Len(t, res.Employees, 1)
	assert.Equal(t, "Seán", res.Employees[0].FirstName)
	assert.Equal(t, "Ó Murchú", res.Employees[0].LastName)
}

func TestMapBrightPay_InvariantsHoldForMixedInput(t *testing.T) {
	csv := bpHeader +
		"E1,John,Doe,,,,,1234567T\n" +
		"E2\n" +
		"E3,Ann,Lee,,,,x,BAD\n" +
		",,\n" +
		"E5,Tom,Ryan,,,,,\n"

	for _, strict := range []bool{false, true} {
		res := MapBrightPay([]byte(csv), core.ImportOptions{ValidatePPSN: true, StrictMode: strict})

		assert.Equal(t, len(res.Employees), res.RecordCount)
		assert.Equal(t, len(res.Errors) == 0, res.Success)

		ids := make([]string, 0, len(res.Employees))
		for _, e := range res.Employees {
			ids = append(ids, e.EmployeeID)
		}
		if strict {
			assert.Equal(t, []string{"E1", "E5"}, ids)
		} else {
			assert.Equal(t, []string{"E1", "E3", "E5"}, ids)
		}
	}
}

func TestBrightPayIsRegistered(t *testing.T) {
	imp, err := core.LookupImporter("brightpay")
	require.NoError(t, err)
	assert.Equal(t, "brightpay", imp.Source())

	_, err = core.LookupImporter("sage")
	assert.ErrorIs(t, err, core.ErrSourceNotImplemented)
}
