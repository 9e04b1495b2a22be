package model

// PostType describes a registered content type.
type PostType struct {
	Name         string `json:"name" yaml:"name"`
	Label        string `json:"label" yaml:"label"`
	Public       bool   `json:"public" yaml:"public"`
	Hierarchical bool   `json:"hierarchical" yaml:"hierarchical"`
	// Rewrite is the URL prefix used for pretty permalinks; defaults to Name.
	Rewrite string `json:"rewrite,omitempty" yaml:"rewrite"`
}

// RewriteSlug returns the permalink prefix for the type.
func (t PostType) RewriteSlug() string {
	if t.Rewrite != "" {
		return t.Rewrite
	}
	return t.Name
}
