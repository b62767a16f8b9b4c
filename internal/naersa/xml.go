// Package naersa renders and packages regulator submissions.
//
// The document layout is fixed: employer and period first, then one
// Employee block per employee and one Contribution block per contribution,
// each with its children in a fixed order. Output is byte-for-byte
// deterministic for a given Submission.
package naersa

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wallyben/autoenroll-core/internal/model"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Serialize renders sub as the submission.xml document.
// Every value is escaped; an absent salary renders as an empty element.
func Serialize(sub *model.Submission) []byte {
	var b bytes.Buffer
	b.WriteString(xmlHeader)
	b.WriteString("<NAERSASubmission>\n")

	elem(&b, 1, "EmployerID", sub.EmployerID)
	elem(&b, 1, "PeriodStart", sub.PeriodStart)
	elem(&b, 1, "PeriodEnd", sub.PeriodEnd)

	open(&b, 1, "Employees")
	for _, e := range sub.Employees {
		open(&b, 2, "Employee")
		elem(&b, 3, "ID", e.ID)
		elem(&b, 3, "FirstName", e.FirstName)
		elem(&b, 3, "LastName", e.LastName)
		elem(&b, 3, "PPSNumber", e.PPSNumber)
		elem(&b, 3, "DateOfBirth", e.DateOfBirth)
		elem(&b, 3, "Salary", nullAmount(e.Salary))
		closeTag(&b, 2, "Employee")
	}
	closeTag(&b, 1, "Employees")

	open(&b, 1, "Contributions")
	for _, c := range sub.Contributions {
		open(&b, 2, "Contribution")
		elem(&b, 3, "ID", c.ID)
		elem(&b, 3, "EmployeeID", c.EmployeeID)
		elem(&b, 3, "EmployeeAmount", c.EmployeeAmount.String())
		elem(&b, 3, "EmployerAmount", c.EmployerAmount.String())
		elem(&b, 3, "TotalAmount", c.TotalAmount.String())
		closeTag(&b, 2, "Contribution")
	}
	closeTag(&b, 1, "Contributions")

	b.WriteString("</NAERSASubmission>\n")
	return b.Bytes()
}

func indent(b *bytes.Buffer, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func open(b *bytes.Buffer, depth int, name string) {
	indent(b, depth)
	b.WriteString("<" + name + ">\n")
}

func closeTag(b *bytes.Buffer, depth int, name string) {
	indent(b, depth)
	b.WriteString("</" + name + ">\n")
}

func elem(b *bytes.Buffer, depth int, name, value string) {
	indent(b, depth)
	b.WriteString("<" + name + ">")
	// EscapeText only fails when the writer does; bytes.Buffer never does.
	_ = xml.EscapeText(b, []byte(value))
	b.WriteString("</" + name + ">\n")
}

func nullAmount(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
