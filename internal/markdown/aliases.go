package markdown

// Logical columns of a job table. Curated job-list repositories do not
// share a header convention, so each logical column maps to an ordered
// list of accepted spellings; the first spelling present in a row wins.
// Adding support for a new repository's header is a one-line change here.
const (
	colCompany  = "company"
	colPosition = "position"
	colLocation = "location"
	colSalary   = "salary"
	colLink     = "link"
	colAge      = "age"
)

var headerAliases = map[string][]string{
	colCompany:  {"company", "company name", "employer"},
	colPosition: {"position", "role", "title", "job title", "program"},
	colLocation: {"location", "locations", "office"},
	colSalary:   {"salary", "compensation", "pay"},
	colLink:     {"posting", "link", "apply", "application", "application link", "application/link", "url"},
	colAge:      {"age", "posted", "date posted", "date"},
}

// resolve returns the first non-empty cell matching one of the accepted
// header spellings for the logical column.
func resolve(row map[string]string, column string) string {
	for _, alias := range headerAliases[column] {
		if v := row[alias]; v != "" {
			return v
		}
	}
	return ""
}
