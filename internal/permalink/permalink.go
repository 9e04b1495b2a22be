// Package permalink builds public URLs for content records.
package permalink

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"urlexport/internal/model"
	"urlexport/internal/posttype"
)

// Permalink structures.
const (
	Plain  = "plain"
	Pretty = "pretty"
)

// Statuses that never get a pretty link because the record is not reachable by slug yet.
var unpublished = map[string]bool{
	"draft":               true,
	"pending":             true,
	"future":              true,
	model.StatusAutoDraft: true,
}

// Resolver turns a record into its absolute URL.
type Resolver struct {
	home      string
	structure string
	types     *posttype.Registry
}

// NewResolver validates the structure and normalises the site URL.
func NewResolver(siteURL, structure string, types *posttype.Registry) (*Resolver, error) {
	u, err := url.Parse(siteURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid site url %q", siteURL)
	}
	switch structure {
	case Plain, Pretty:
	case "":
		structure = Plain
	default:
		return nil, fmt.Errorf("unknown permalink structure %q", structure)
	}
	return &Resolver{
		home:      strings.TrimRight(siteURL, "/"),
		structure: structure,
		types:     types,
	}, nil
}

// Permalink returns the URL for p.
func (r *Resolver) Permalink(p *model.Post) string {
	if r.structure == Pretty && p.Slug != "" && !unpublished[p.Status] {
		switch p.Type {
		case model.TypeAttachment:
		case "post", "page":
			return r.home + "/" + url.PathEscape(p.Slug) + "/"
		default:
			prefix := p.Type
			if r.types != nil {
				if t, ok := r.types.Get(p.Type); ok {
					prefix = t.RewriteSlug()
				}
			}
			return r.home + "/" + url.PathEscape(prefix) + "/" + url.PathEscape(p.Slug) + "/"
		}
	}
	return r.plain(p)
}

func (r *Resolver) plain(p *model.Post) string {
	id := strconv.FormatInt(p.ID, 10)
	switch p.Type {
	case "post":
		return r.home + "/?p=" + id
	case "page":
		return r.home + "/?page_id=" + id
	case model.TypeAttachment:
		return r.home + "/?attachment_id=" + id
	default:
		return r.home + "/?post_type=" + url.QueryEscape(p.Type) + "&p=" + id
	}
}
