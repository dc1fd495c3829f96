// Command gradebook-report prints the grade report of one group from a backup
// file, without a server.
//
//	gradebook-report -in gradebook_backup_2024-06-01_<id>.json -group g1 -view recovery -format yaml
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mind-engage/mindengage-gradebook/internal/backup"
	"github.com/mind-engage/mindengage-gradebook/internal/config"
	"github.com/mind-engage/mindengage-gradebook/internal/gradebook"
	"github.com/mind-engage/mindengage-gradebook/internal/grading"
)

type Line struct {
	StudentID   string                   `json:"student_id" yaml:"student_id"`
	Name        string                   `json:"name" yaml:"name"`
	P1          *float64                 `json:"p1" yaml:"p1"`
	P2          *float64                 `json:"p2" yaml:"p2"`
	Attendance  float64                  `json:"attendance" yaml:"attendance"`
	Score       float64                  `json:"score" yaml:"score"`
	Failing     bool                     `json:"failing" yaml:"failing"`
	Status      grading.AttendanceStatus `json:"attendance_status" yaml:"attendance_status"`
	Eligibility grading.Eligibility      `json:"eligibility" yaml:"eligibility"`
}

type Report struct {
	Group   string         `json:"group" yaml:"group"`
	View    gradebook.View `json:"view" yaml:"view"`
	Passing float64        `json:"passing_score" yaml:"passing_score"`
	Lines   []Line         `json:"lines" yaml:"lines"`
}

func round(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := grading.Round1(*v)
	return &r
}

// Build resolves the rows of one view.
func Build(b *gradebook.Book, v gradebook.View, search string) Report {
	rep := Report{Group: b.Group().Name, View: v, Passing: b.Policy().PassingScore, Lines: []Line{}}
	for _, s := range b.Rows(v, search) {
		rep.Lines = append(rep.Lines, Line{
			StudentID:   s.Student.ID,
			Name:        s.Student.Name,
			P1:          round(s.P1),
			P2:          round(s.P2),
			Attendance:  grading.Round1(s.Attendance.Global),
			Score:       grading.Round1(s.Resolution.Score),
			Failing:     s.Resolution.IsFailing,
			Status:      s.Resolution.AttendanceStatus,
			Eligibility: s.Resolution.Eligibility,
		})
	}
	return rep
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("gradebook-report", flag.ContinueOnError)
	in := fs.String("in", "-", "backup file (- for stdin)")
	group := fs.String("group", "", "group id")
	view := fs.String("view", "recovery", "ordinary or recovery")
	search := fs.String("q", "", "student filter")
	format := fs.String("format", "json", "json or yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *group == "" {
		return errors.New("-group is required")
	}
	v, err := gradebook.ParseView(*view)
	if err != nil {
		return err
	}

	r := stdin
	if *in != "-" {
		f, err := os.Open(*in)
		if err != nil {
			return errors.Wrap(err, "open backup")
		}
		defer f.Close()
		r = f
	}
	snap, err := backup.Decode(r)
	if err != nil {
		return err
	}

	// policy defaults come from the same environment as the server
	b, err := gradebook.NewBook(snap, *group, config.FromEnv().Policy())
	if err != nil {
		return errors.Wrap(err, *group)
	}
	rep := Build(b, v, *search)

	switch *format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	}
	return errors.Errorf("unknown format %q", *format)
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "env:", err)
		os.Exit(1)
	}
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "gradebook-report:", err)
		os.Exit(1)
	}
}
