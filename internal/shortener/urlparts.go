package shortener

import (
	"fmt"
	"net/url"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Components are the parts of a URL kept on a record and fed to the
// dictionary strategy.
type Components struct {
	Protocol string
	Domain   string
	Path     string
}

// ValidateURL reports whether rawURL is a well-formed absolute URI.
func ValidateURL(rawURL string) error {
	if err := validate.Var(rawURL, "required,url"); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	return nil
}

// SplitURL validates rawURL and extracts its protocol, domain and path.
//   - protocol is the scheme followed by a colon ("https:")
//   - domain is the host, port included, followed by any userinfo
//   - path is the request URI followed by the fragment, if any
func SplitURL(rawURL string) (Components, error) {
	if err := ValidateURL(rawURL); err != nil {
		return Components{}, err
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Components{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	domain := u.Host
	if u.User != nil {
		domain += u.User.String()
	}

	path := u.RequestURI()
	if u.Fragment != "" {
		path += "#" + u.EscapedFragment()
	}

	return Components{
		Protocol: u.Scheme + ":",
		Domain:   domain,
		Path:     path,
	}, nil
}
