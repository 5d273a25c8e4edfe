package provider

import (
	"context"

	"github.com/robotomize/gorates/ratetable"
)

// Source is a single web page publishing bank rate tables. Source takes care of receiving the page,
// decoding it and giving back the extracted branches
//
//go:generate mockgen -source source.go -destination mock_source.go -package provider
type Source interface {
	// Name identifies the mirror in logs and errors
	Name() string

	// FetchLatest downloads the page and extracts its rate tables
	FetchLatest(ctx context.Context) (Page, error)
}

// Page is a fetched and parsed rates page
type Page struct {
	URL string
	// Raw is the body as served, before charset decoding
	Raw    []byte
	Result ratetable.Result
}
