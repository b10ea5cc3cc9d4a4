package signature

// Convention how an overload is declared and how it calls the original function
type Convention int

const (
	// Plain free function forwarding to a free function
	Plain Convention = iota
	// Method forwarding to the method of the same receiver
	Method
	// Infix two-operand function: the receiver is the left operand, the only parameter is the right one
	Infix
)

func (c Convention) String() string {
	switch c {
	case Plain:
		return "plain"
	case Method:
		return "method"
	case Infix:
		return "infix"
	default:
		return "unknown"
	}
}

// Choice alternative chosen for a sum-typed parameter
type Choice int

const (
	// ChooseFirst the first alternative
	ChooseFirst Choice = iota
	// ChooseSecond the second alternative
	ChooseSecond
)

// Overload a generated forwarding function
type Overload struct {
	Source      *Function
	Name        string
	Convention  Convention
	Combination []Choice

	// Receiver is the receiver name of Method overloads.
	Receiver string

	// Left is the left operand for Infix overloads with receivers, nil otherwise.
	Left   *Param
	Params []Param
	Args   []string

	// TypeParams of the overload itself and TypeArgs to instantiate the original function with.
	TypeParams []TypeParam
	TypeArgs   []string
}
