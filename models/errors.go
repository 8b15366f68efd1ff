package models

import "errors"

// Error kinds shared by the discovery core and the CLI.
var (
	// ErrInvalidURL means the input could not be parsed as a URL even after normalization.
	ErrInvalidURL = errors.New("invalid url")

	// ErrBaseURLMissing means no site base URL has been configured.
	ErrBaseURLMissing = errors.New("site base url is not set")

	// ErrSitemapUnavailable covers fetch failures, non-success status and malformed XML.
	ErrSitemapUnavailable = errors.New("sitemap unavailable")

	// ErrHomepageUnavailable covers fetch failures, non-success status and unparseable HTML.
	ErrHomepageUnavailable = errors.New("homepage unavailable")

	// ErrNoPagesDiscovered means the fetch succeeded but yielded nothing usable.
	ErrNoPagesDiscovered = errors.New("no pages discovered")
)

// Registry edit errors.
var (
	// ErrPageNotFound means no record has the requested id.
	ErrPageNotFound = errors.New("page not found")

	// ErrDuplicatePath means another record already owns the page path.
	ErrDuplicatePath = errors.New("page path already exists")

	// ErrDuplicateID means two records share an id.
	ErrDuplicateID = errors.New("page id already exists")
)
