package pkguid

// StringID generates unique string identifiers.
type StringID interface {
	Generate() string
}

// NumberID generates unique, time-ordered numeric identifiers.
type NumberID interface {
	Generate() int64
}

// StringFunc adapts a plain function to StringID.
type StringFunc func() string

func (f StringFunc) Generate() string { return f() }

// NumberFunc adapts a plain function to NumberID.
type NumberFunc func() int64

func (f NumberFunc) Generate() int64 { return f() }
