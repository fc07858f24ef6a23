package shortener

import "fmt"

// PublicView is the externally visible representation of a record.
type PublicView struct {
	URL       string `doc:"The original URL"               example:"http://example.com/page"                                           json:"url"`
	Hash      string `doc:"The short hash"                 example:"Bp8pXyD4vJ0mZk3oXG-iAg"                                            json:"hash"`
	Shorten   string `doc:"The short link"                 example:"http://localhost:8888/Bp8pXyD4vJ0mZk3oXG-iAg"                      json:"shorten"`
	RemoveURL string `doc:"Link that disables the URL"     example:"http://localhost:8888/Bp8pXyD4vJ0mZk3oXG-iAg/remove/<token>"       json:"removeUrl"`
	Visits    string `doc:"Number of visits since enabled" example:"1 visits recorded"                                                 json:"visits"`
}

// ViewFormatter projects records onto PublicView using the public server address.
type ViewFormatter struct {
	server string
}

// NewViewFormatter creates a formatter building links as protocol://host/...
func NewViewFormatter(protocol, host string) *ViewFormatter {
	return &ViewFormatter{server: fmt.Sprintf("%s://%s", protocol, host)}
}

// View returns the public view of rec. The remove token only leaves through
// RemoveURL.
func (f *ViewFormatter) View(rec *Record) PublicView {
	return PublicView{
		URL:       rec.URL,
		Hash:      string(rec.Hash),
		Shorten:   fmt.Sprintf("%s/%s", f.server, rec.Hash),
		RemoveURL: fmt.Sprintf("%s/%s/remove/%s", f.server, rec.Hash, rec.RemoveToken),
		Visits:    fmt.Sprintf("%d visits recorded", rec.VisitCounter),
	}
}
