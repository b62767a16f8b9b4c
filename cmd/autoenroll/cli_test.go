package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wallyben/autoenroll-core/internal/core"
	"github.com/wallyben/autoenroll-core/internal/model"
)

const (
	employeesCSV = "id,employer_id,first_name,last_name,pps_number,date_of_birth,address_line1,city,county,postal_code,employment_start_date,salary\n" +
		"123,emp-1,John,Doe,1234567T,01/01/1990,1 Main St,Dublin,Co. Dublin,d01a1b2,2020-01-01,50000\n"

	contributionsCSV = "id,employee_id,employer_id,period_start,period_end,employee_amount,employer_amount\n" +
		"c1,123,emp-1,2024-01-01,2024-01-31,150.00,150.00\n"

	brightPayCSV = "Employee ID,First Name,Last Name,Email,DOB,Start Date,Salary,PPSN\n" +
		"E1,John,Doe,john@example.ie,15/03/1990,2020-09-01,50000,1234567T\n" +
		"E2,Mary,Byrne,,,,,BAD\n"
)

// workspace moves the test into an empty directory and writes files there.
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	chdirForTest(t, dir)
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestImportCmd_Employees(t *testing.T) {
	workspace(t, map[string]string{"employees.csv": employeesCSV})

	out, err := run(t, "import", "employees", "employees.csv")
	require.NoError(t, err)

	var employees []model.Employee
	require.NoError(t, json.Unmarshal([]byte(out), &employees))
	require.Len(t, employees, 1)
	assert.Equal(t, "123", employees[0].ID)
	assert.Equal(t, "1990-01-01", employees[0].DateOfBirth)
	assert.Equal(t, "Dublin", employees[0].Address.County)
	assert.Equal(t, "D01 A1B2", employees[0].Address.PostalCode)
	assert.Equal(t, model.DefaultCountry, employees[0].Address.Country)
}

func TestImportCmd_SemicolonDelimiter(t *testing.T) {
	workspace(t, map[string]string{"c.csv": strings.ReplaceAll(contributionsCSV, ",", ";")})

	out, err := run(t, "import", "contributions", "c.csv", "--delimiter", ";")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "c1"`)
}

func TestImportCmd_Errors(t *testing.T) {
	workspace(t, map[string]string{
		"bad.csv": "id,employee_id,employee_amount,employer_amount\nc1,123,abc,1\n",
	})

	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"unknown type", []string{"import", "payslips", "bad.csv"}, "ERR000"},
		{"missing file", []string{"import", "employees", "nope.csv"}, "FILE006"},
		{"bad amount", []string{"import", "contributions", "bad.csv"}, "VAL001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, core.MapError(err).Code, err.Error())
		})
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"", ',', false},
		{",", ',', false},
		{";", ';', false},
		{`\t`, '\t', false},
		{"tab", '\t', false},
		{"|", '|', false},
		{";;", 0, true},
	}

	for _, tt := range tests {
		got, err := parseDelimiter(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestMapCmd(t *testing.T) {
	workspace(t, map[string]string{"export.csv": brightPayCSV})

	out, err := run(t, "map", "export.csv")
	require.NoError(t, err)

	var res model.ImportResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.RecordCount)
	assert.Equal(t, []string{"Row 3: Invalid PPSN format: BAD"}, res.Warnings)
}

func TestMapCmd_StrictFlag(t *testing.T) {
	workspace(t, map[string]string{"export.csv": brightPayCSV})

	out, err := run(t, "map", "export.csv", "--strict")
	require.NoError(t, err)

	var res model.ImportResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.RecordCount)
}

func TestMapCmd_PlannedSource(t *testing.T) {
	workspace(t, map[string]string{"export.csv": brightPayCSV})

	_, err := run(t, "map", "export.csv", "--source", "sage")
	assert.ErrorIs(t, err, core.ErrSourceNotImplemented)
}

func TestAssembleCmd_PrintsSubmission(t *testing.T) {
	workspace(t, map[string]string{"e.csv": employeesCSV, "c.csv": contributionsCSV})

	out, err := run(t, "assemble",
		"--employer-id", "emp-1", "--period-start", "2024-01-01", "--period-end", "2024-01-31",
		"--employees", "e.csv", "--contributions", "c.csv")
	require.NoError(t, err)

	var sub model.Submission
	require.NoError(t, json.Unmarshal([]byte(out), &sub))
	assert.Equal(t, "emp-1", sub.EmployerID)
	require.Len(t, sub.Contributions, 1)
	assert.Equal(t, "300", sub.Contributions[0].TotalAmount.String())
}

func TestAssembleCmd_WritesArchive(t *testing.T) {
	dir := workspace(t, map[string]string{"e.csv": employeesCSV, "c.csv": contributionsCSV})

	out, err := run(t, "assemble",
		"--employer-id", "emp-1", "--period-start", "2024-01-01", "--period-end", "2024-01-31",
		"--employees", "e.csv", "--contributions", "c.csv", "--output", "out/sub.zip")
	require.NoError(t, err)
	assert.Equal(t, "out/sub.zip", strings.TrimSpace(out))

	r, err := zip.OpenReader(filepath.Join(dir, "out", "sub.zip"))
	require.NoError(t, err)
	defer r.Close()
	assert.Len(t, r.File, 2)
}

func TestAssembleCmd_ValidationFailure(t *testing.T) {
	workspace(t, map[string]string{"e.csv": employeesCSV, "c.csv": contributionsCSV})

	_, err := run(t, "assemble",
		"--employer-id", "emp-2", "--period-start", "2024-01-01", "--period-end", "2024-01-31",
		"--employees", "e.csv", "--contributions", "c.csv")
	require.Error(t, err)
	assert.Equal(t, "SUB001", core.MapError(err).Code)
	assert.Contains(t, err.Error(), "employee 123 belongs to employer emp-1, not emp-2")

	_, err = run(t, "assemble", "--no-validate",
		"--employer-id", "emp-2", "--period-start", "2024-01-01", "--period-end", "2024-01-31",
		"--employees", "e.csv", "--contributions", "c.csv")
	assert.NoError(t, err)
}

func TestAssembleCmd_RequiresFlags(t *testing.T) {
	workspace(t, nil)

	_, err := run(t, "assemble", "--employer-id", "emp-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s)")
}

func TestGenerateCmd(t *testing.T) {
	sub := `{"employerId":"emp-1","periodStart":"2024-01-01","periodEnd":"2024-01-31",
		"employees":[{"id":"123","firstName":"John","lastName":"Doe","salary":null,"address":{}}],
		"contributions":[{"id":"c1","employeeId":"123","employeeAmount":"1","employerAmount":"2","totalAmount":"3"}]}`
	dir := workspace(t, map[string]string{"sub.json": sub})

	out, err := run(t, "generate", "sub.json")
	require.NoError(t, err)
	assert.Equal(t, "./naersa-submission.zip", strings.TrimSpace(out))
	assert.FileExists(t, filepath.Join(dir, "naersa-submission.zip"))
}

func TestGenerateCmd_Errors(t *testing.T) {
	workspace(t, map[string]string{
		"broken.json": `{"employerId":`,
		"empty.json":  `{}`,
	})

	_, err := run(t, "generate", "broken.json")
	require.Error(t, err)
	assert.Equal(t, "SUB002", core.MapError(err).Code)

	_, err = run(t, "generate", "empty.json", "--output", "x.zip")
	require.Error(t, err)
	assert.Equal(t, "SUB001", core.MapError(err).Code)
	assert.NoFileExists(t, "x.zip")

	_, err = run(t, "generate", "empty.json", "--output", "x.zip", "--no-validate")
	require.NoError(t, err)
	assert.FileExists(t, "x.zip")
}

func TestBuildZipCmd(t *testing.T) {
	dir := workspace(t, map[string]string{"export.csv": brightPayCSV})

	out, err := run(t, "build-zip", "export.csv", "--run-id", "RUN-9")
	require.NoError(t, err)

	var res buildZipOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "RUN-9", res.RunID)
	assert.Equal(t, 2, res.RecordCount)
	assert.Len(t, res.Warnings, 1)

	want, err := filepath.EvalSymlinks(filepath.Join(dir, ".worm", "submissions"))
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(filepath.Dir(res.ZipPath))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.True(t, strings.HasPrefix(filepath.Base(res.ZipPath), "NAERSA_RUN-9_"))
}

func TestBuildZipCmd_DefaultRunIDIsUUID(t *testing.T) {
	workspace(t, map[string]string{"export.csv": brightPayCSV})

	out, err := run(t, "build-zip", "export.csv", "--dir", "archives")
	require.NoError(t, err)

	var res buildZipOutput
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.RunID, 36)
	assert.FileExists(t, res.ZipPath)
}

func TestBuildZipCmd_Rejections(t *testing.T) {
	workspace(t, map[string]string{
		"export.csv": brightPayCSV,
		"header.csv": "Employee ID,First Name,Last Name\n",
	})

	_, err := run(t, "build-zip", "export.csv", "--run-id", "../../etc")
	require.Error(t, err)
	assert.Equal(t, "PKG001", core.MapError(err).Code)

	_, err = run(t, "build-zip", "header.csv", "--run-id", "r1")
	require.Error(t, err)
	assert.Equal(t, "REQ004", core.MapError(err).Code)

	_, statErr := os.Stat(".worm")
	assert.True(t, os.IsNotExist(statErr), "nothing may be written on rejection")
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory %s: %v", prev, err)
		}
	})
}
