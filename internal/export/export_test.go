package export

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"

	"logframe-studio/internal/domain"
)

func sampleProject() *domain.Project {
	return &domain.Project{
		ID:           "p1",
		Name:         "Literacy Pilot / Phase 2",
		Description:  "Foundational literacy in Gaya",
		Organization: "Pratham",
		Status:       domain.StatusInProgress,
		CurrentStep:  4,
		Progress:     43,
		Data: domain.ProjectData{
			ProblemDefinition: &domain.ProblemDefinition{
				MainProblem: "Low reading proficiency",
				Location:    domain.Location{State: "Bihar", District: "Gaya"},
			},
			Stakeholders: []domain.Stakeholder{
				{ID: "s1", Name: "Block Education Officer", Category: "government"},
			},
			Logframe: []domain.LogframeRow{
				{ID: "l1", Level: "outcome", Summary: "Children read at grade level"},
			},
			Monitoring: []domain.MonitoringIndicator{
				{ID: "m1", Name: "ASER reading score", Frequency: "quarterly"},
			},
		},
	}
}

func TestRenderFormats(t *testing.T) {
	p := sampleProject()
	cases := []struct {
		format      string
		contentType string
		ext         string
	}{
		{FormatPDF, "application/pdf", ".pdf"},
		{FormatDOCX, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ".docx"},
		{FormatXLSX, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ".xlsx"},
	}
	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			data, ct, name, err := Render(tc.format, p)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			if len(data) == 0 {
				t.Fatal("empty document")
			}
			if ct != tc.contentType {
				t.Errorf("content type = %q", ct)
			}
			if !strings.HasSuffix(name, tc.ext) {
				t.Errorf("filename = %q, want suffix %q", name, tc.ext)
			}
			if strings.ContainsAny(name, "/ ") {
				t.Errorf("filename %q not sanitized", name)
			}
		})
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	if _, _, _, err := Render("csv", sampleProject()); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("err = %v, want ErrUnknownFormat", err)
	}
}

func TestRenderPDFMagic(t *testing.T) {
	data, _, _, err := Render(FormatPDF, sampleProject())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("missing pdf header, got %q", data[:4])
	}
}

func TestRenderDOCXIsValidArchive(t *testing.T) {
	data, _, _, err := Render(FormatDOCX, sampleProject())
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("not a zip: %v", err)
	}
	want := map[string]bool{"[Content_Types].xml": false, "word/document.xml": false}
	for _, f := range zr.File {
		if _, ok := want[f.Name]; ok {
			want[f.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("archive missing %s", name)
		}
	}
}

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"Literacy Pilot / Phase 2": "Literacy-Pilot--Phase-2",
		"   ":                      "project",
		"../../etc/passwd":         "etcpasswd",
	}
	for in, want := range cases {
		if got := safeName(in); got != want {
			t.Errorf("safeName(%q) = %q, want %q", in, got, want)
		}
	}
}
