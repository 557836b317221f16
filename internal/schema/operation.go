package schema

import "fmt"

// Operation is the kind of write a payload is validated for.
type Operation int

const (
	Insert Operation = iota
	Update
)

func (o Operation) String() string {
	switch o {
	case Insert:
		return "INSERT"
	case Update:
		return "UPDATE"
	}
	return fmt.Sprintf("Operation(%d)", int(o))
}
