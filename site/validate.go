package site

import (
	"errors"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate checks that every field is set and that URLs are absolute.
// The record never validates itself; the server calls this once at start.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required),
		validation.Field(&c.URL, validation.Required, is.URL, validation.By(absoluteURL)),
		validation.Field(&c.Description, validation.Required),
		validation.Field(&c.Author, validation.Required),
		validation.Field(&c.Links),
	)
}

// Validate checks that every link is an absolute URL.
func (l Links) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Twitter, validation.Required, is.URL, validation.By(absoluteURL)),
		validation.Field(&l.GitHub, validation.Required, is.URL, validation.By(absoluteURL)),
		validation.Field(&l.PersonalSite, validation.Required, is.URL, validation.By(absoluteURL)),
	)
}

var errNotAbsolute = errors.New("must be an absolute URL with scheme and host")

func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errNotAbsolute
	}
	return nil
}
