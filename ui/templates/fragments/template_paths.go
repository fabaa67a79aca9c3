// Package fragments provides template path constants for the dashboard templates
package fragments

// Template names, relative to the templates directory
const (
	Dashboard = "dashboard.html"
	Report    = "report.html"
	Filtered  = "fragments/filtered.html"
	Error     = "fragments/error.html"
)

// Required lists the templates the server cannot start without
func Required() []string {
	return []string{Dashboard, Report, Filtered, Error}
}
