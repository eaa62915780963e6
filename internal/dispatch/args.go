package dispatch

// Args holds the positional values handed to the dispatcher. Absent values
// are represented as empty strings.
type Args struct {
	Arg1 string
	Arg2 string
	Arg3 string
}

// Forwarded returns the argv tail appended to the task command. When Arg2 is
// empty only Arg1 is forwarded; otherwise all three values are forwarded and
// an absent Arg3 travels as an empty string rather than being dropped.
func (a Args) Forwarded() []string {
	if a.Arg2 == "" {
		return []string{a.Arg1}
	}
	return []string{a.Arg1, a.Arg2, a.Arg3}
}
