package order

import "fmt"

// Kind is the closed set of order variants the store knows about.
// Logic dispatches on it with exhaustive switches instead of comparing
// wire strings.
type Kind int

const (
	KindArtwork Kind = iota + 1
	KindExhibition
)

func ParseKind(s string) (Kind, error) {
	switch s {
	case "artwork":
		return KindArtwork, nil
	case "exhibition":
		return KindExhibition, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

func (k Kind) String() string {
	switch k {
	case KindArtwork:
		return "artwork"
	case KindExhibition:
		return "exhibition"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}
