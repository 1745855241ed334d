package models

// SourceKind enumerates the request-value sources a handler parameter can
// bind to. The vocabulary is closed: classification is a total function over
// these seven kinds.
type SourceKind int

const (
	SourcePath SourceKind = iota
	SourceBody
	SourceQuery
	SourceQueryContent
	SourceAuth
	SourceRequestField
	SourceRawRequest
)

func (k SourceKind) String() string {
	switch k {
	case SourcePath:
		return "path"
	case SourceBody:
		return "body"
	case SourceQuery:
		return "query"
	case SourceQueryContent:
		return "query-content"
	case SourceAuth:
		return "auth"
	case SourceRequestField:
		return "request-field"
	case SourceRawRequest:
		return "raw-request"
	default:
		return "unknown"
	}
}

// ParameterSource is the resolved binding of one handler parameter. Exactly
// one source per parameter; a parameter with no markers defaults to
// SourcePath keyed by its own bound name.
type ParameterSource struct {
	Kind    SourceKind
	Key     string // path/query key; unused for other kinds
	KeyPath string // field projection for SourceRequestField/SourceRawRequest; "" = identity
}

// MarkerFlag maps a loom::param flag label to its source kind. The bool
// result is false for labels outside the source-marker vocabulary
// (e.g. -Default, -As).
func MarkerFlag(label string) (SourceKind, bool) {
	switch label {
	case "Path":
		return SourcePath, true
	case "Body":
		return SourceBody, true
	case "Query":
		return SourceQuery, true
	case "QueryContent":
		return SourceQueryContent, true
	case "Auth":
		return SourceAuth, true
	case "Field":
		return SourceRequestField, true
	case "Request":
		return SourceRawRequest, true
	default:
		return 0, false
	}
}
