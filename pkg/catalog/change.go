package catalog

import "fmt"

// ChangeRecord captures a single field-level change applied during an
// update, for audit purposes. Old and New hold string representations of
// the field value before and after.
type ChangeRecord struct {
	Path string `json:"path" yaml:"path"`
	Old  string `json:"old" yaml:"old"`
	New  string `json:"new" yaml:"new"`
}

// String renders the record as `path: "old" -> "new"`.
func (r ChangeRecord) String() string {
	return fmt.Sprintf("%s: %q -> %q", r.Path, r.Old, r.New)
}
