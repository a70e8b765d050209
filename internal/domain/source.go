package domain

type Source string

func (s Source) String() string {
	return string(s)
}

const (
	SourceFBRef     Source = "fbref"
	SourceUnderstat Source = "understat"
)

var Sources = []Source{
	SourceFBRef,
	SourceUnderstat,
}

func (s Source) GetSourceName() string {
	switch s {
	case SourceFBRef:
		return "FBRef"
	case SourceUnderstat:
		return "Understat"
	default:
		return "Unknown"
	}
}
