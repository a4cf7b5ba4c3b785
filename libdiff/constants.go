package libdiff

// Names of the operations in a diff. Each operation carries the index it
// applies at as its int value.
const (
	InsertOp  = "insert"
	DeleteOp  = "delete"
	ReplaceOp = "replace"
	ChangeOp  = "change"
)

// Names of the children of replace and change operations.
const (
	fromKey     = "from"
	toKey       = "to"
	valueKey    = "value"
	textKey     = "text"
	childrenKey = "children"
)
