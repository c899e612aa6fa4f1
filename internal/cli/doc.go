// Package cli implements the command-line interface for watplan.
//
// The root command generates the calendar for the configured group. Subcommands
// preview the parsed lessons (text/JSON/YAML), refresh the staff listing used for
// academic titles, and regenerate the calendar on a cron schedule.
package cli
