// Package store describes how persistence failures are reported to usecases
// without exposing driver specific error types.
package store

// ErrorKind classifies a persistence error.
type ErrorKind int

const (
	// KindOther is any failure that is neither a uniqueness violation nor a missing record.
	KindOther ErrorKind = iota
	// KindUnique means a uniqueness constraint rejected the write.
	KindUnique
	// KindNotFound means no record matched the lookup.
	KindNotFound
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnique:
		return "unique"
	case KindNotFound:
		return "not_found"
	default:
		return "other"
	}
}

// ErrorClassifier is implemented by repositories that can map their own
// driver errors to an ErrorKind.
type ErrorClassifier interface {
	ClassifyError(err error) ErrorKind
}
