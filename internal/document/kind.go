package document

// Kind identifies one of the seven content block variants.
type Kind int

const (
	KindText Kind = iota
	KindCode
	KindImage
	KindTable
	KindList
	KindLink
	KindCheckbox

	numKinds
)

var kindNames = [numKinds]string{"text", "code", "image", "table", "list", "link", "checkbox"}

func (k Kind) String() string {
	if k < 0 || k >= numKinds {
		return "unknown"
	}
	return kindNames[k]
}

func kindFromString(s string) (Kind, bool) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), true
		}
	}
	return 0, false
}
