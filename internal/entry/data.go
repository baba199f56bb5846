package entry

// Kind identifies an entry category. Kind names double as the top-level keys
// of the serialised knowledge base.
type Kind string

const (
	KindPackage  Kind = "Package"
	KindFile     Kind = "File"
	KindModule   Kind = "Module"
	KindContext  Kind = "Context"
	KindCommand  Kind = "Command"
	KindFunction Kind = "Function"
	KindCallback Kind = "Callback"
	KindMode     Kind = "Mode"
	KindTag      Kind = "Tag"

	KindAction  Kind = "Action"
	KindCapture Kind = "Capture"
	KindList    Kind = "List"
	KindSetting Kind = "Setting"
)

// SimpleKinds lists the categories with exactly one entry per resolved name.
var SimpleKinds = []Kind{
	KindPackage, KindFile, KindModule, KindContext, KindCommand,
	KindFunction, KindMode, KindTag,
}

// GroupKinds lists the categories where many entries may share a name: one
// module-scoped declaration plus any number of context-scoped overrides.
var GroupKinds = []Kind{KindAction, KindCapture, KindList, KindSetting}

// Data is the interface shared by every entry record.
type Data interface {
	// EntryName returns the fully resolved name, unique within the entry's
	// category (and, for grouped data, shared by the whole group).
	EntryName() string
	// EntryDescription returns the docstring, or "" when there is none.
	EntryDescription() string
	// EntryLocation returns where the entry was declared.
	EntryLocation() Location
	// Parent returns the name and kind of the owning entry, or ("", "")
	// for packages.
	Parent() (string, Kind)
	// Kind returns the entry's category.
	Kind() Kind
	// Serialisable reports whether the entry survives a cache round-trip.
	// Functions and callbacks hold live interpreter state and do not.
	Serialisable() bool
}

// SimpleData marks categories with at most one entry per name.
type SimpleData interface {
	Data
	simpleData()
}

// GroupData marks categories where a name resolves to a group. The parent
// kind decides the role: a Module parent makes the entry a declaration, a
// Context parent makes it an override.
type GroupData interface {
	Data
	// IsDeclaration reports whether the entry is the module-scoped
	// declaration of its name rather than a context-scoped override.
	IsDeclaration() bool
}
