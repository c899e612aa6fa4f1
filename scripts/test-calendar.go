package main

import (
	"fmt"
	"os"

	"github.com/watplan/watplan/internal/calendar"
	"github.com/watplan/watplan/internal/lesson"
	"github.com/watplan/watplan/internal/scraper"
	"github.com/watplan/watplan/internal/staff"
)

// Builds a calendar from the bundled timetable fixture, without touching the network.
func main() {
	page, err := os.ReadFile("testdata/fixtures/schedule.html")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading fixture: %v\n", err)
		os.Exit(1)
	}

	results, err := scraper.Extract(string(page))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing fixture: %v\n", err)
		os.Exit(1)
	}

	index, err := staff.Load("testdata/fixtures/staff.txt")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading staff listing: %v\n", err)
		os.Exit(1)
	}

	sink := lesson.SinkFunc(func(d lesson.Diagnostic) {
		fmt.Fprintf(os.Stderr, "skipped: %s\n", d)
	})
	records := lesson.NewNormalizer(lesson.WithTitles(index), lesson.WithSink(sink)).
		Normalize(scraper.Split(results, sink))

	icsContent := calendar.New().Serialize(records, "Plan zajęć (fixture)")

	filename := "test-watplan.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated calendar file with %d lessons: %s\n\n", len(records), filename)
	fmt.Println("Import it into Google Calendar, Apple Calendar or Outlook to check the layout.")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
