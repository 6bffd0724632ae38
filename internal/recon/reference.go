package recon

// RefKind tells how a foreign-key field arrived on the wire.
type RefKind int

const (
	RefAbsent RefKind = iota
	RefID
	RefEmbedded
)

// Reference is the single canonical shape for foreign keys that the
// backend serves inconsistently: sometimes a bare id string, sometimes
// a populated object, sometimes missing entirely.
type Reference struct {
	Kind RefKind
	ID   string
	Name string // only set for RefEmbedded, and only when the object carried one
}

var (
	idKeys   = []string{"_id", "id"}
	nameKeys = []string{"name", "projectName", "materialName", "clientName", "fullName", "title"}
)

// ParseReference resolves a raw foreign-key value into a Reference.
// An object is treated as a populated document; a string or number is
// treated as a bare identifier.
func ParseReference(raw interface{}) Reference {
	switch t := raw.(type) {
	case nil:
		return Reference{Kind: RefAbsent}
	case map[string]interface{}:
		ref := Reference{Kind: RefEmbedded}
		for _, k := range idKeys {
			if id := asString(t[k]); id != "" {
				ref.ID = id
				break
			}
		}
		for _, k := range nameKeys {
			if name := asString(t[k]); name != "" {
				ref.Name = name
				break
			}
		}
		if ref.ID == "" && ref.Name == "" {
			return Reference{Kind: RefAbsent}
		}
		return ref
	default:
		id := asString(raw)
		if id == "" {
			return Reference{Kind: RefAbsent}
		}
		return Reference{Kind: RefID, ID: id}
	}
}

// DisplayName resolves the reference to a label. An embedded name wins;
// otherwise the id is looked up in the collection index built for this
// run. A failed join keeps the id and labels the row "Unknown <entity>"
// rather than dropping it -- a missing parent is a data-quality signal,
// not a reason to discard the child.
func (r Reference) DisplayName(lookup func(id string) (string, bool), entity string) string {
	if r.Kind == RefEmbedded && r.Name != "" {
		return r.Name
	}
	if r.ID != "" && lookup != nil {
		if name, ok := lookup(r.ID); ok {
			return name
		}
	}
	return UnknownLabel(entity)
}

// Resolved reports whether the reference can be joined against the
// given index without falling back to an Unknown label.
func (r Reference) Resolved(lookup func(id string) (string, bool)) bool {
	if r.Kind == RefEmbedded && r.Name != "" {
		return true
	}
	if r.ID == "" || lookup == nil {
		return false
	}
	_, ok := lookup(r.ID)
	return ok
}

// Matches reports whether the reference points at the given id.
func (r Reference) Matches(id string) bool {
	return id != "" && r.ID == id
}
