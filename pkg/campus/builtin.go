package campus

// BuiltinName is the display name of the built-in campus map
const BuiltinName = "Campus"

// BuiltinEdges are the paths of the built-in campus in definition order
var BuiltinEdges = []Edge{
	{From: "Library", To: "Canteen", Weight: 5},
	{From: "Library", To: "Admin Block", Weight: 2},
	{From: "Admin Block", To: "Hostel", Weight: 3},
	{From: "Canteen", To: "Hostel", Weight: 6},
	{From: "Hostel", To: "Auditorium", Weight: 8},
	{From: "E-Block", To: "Admin Block", Weight: 4},
}

// Builtin returns the built-in six location campus.
// It panics if the built-in definition is invalid, which only a code change can cause.
func Builtin() *Map {
	m, err := New(BuiltinName, nil, BuiltinEdges)
	if err != nil {
		panic(err)
	}
	return m
}
