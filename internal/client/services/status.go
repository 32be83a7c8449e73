package services

// Status is the outcome of an authenticated operation.
type Status int

const (
	StatusOK Status = iota
	StatusForbidden
	StatusError
	// StatusNoConnectivity means no host is configured; nothing was sent.
	StatusNoConnectivity
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusForbidden:
		return "forbidden"
	case StatusNoConnectivity:
		return "no connectivity"
	default:
		return "error"
	}
}

// RequestCodeStatus is the outcome of asking for a login code.
type RequestCodeStatus int

const (
	RequestCodeOK RequestCodeStatus = iota
	RequestCodeBadRecipient
	RequestCodeError
)

func (s RequestCodeStatus) String() string {
	switch s {
	case RequestCodeOK:
		return "ok"
	case RequestCodeBadRecipient:
		return "bad recipient"
	default:
		return "error"
	}
}

// LoginStatus is the outcome of submitting a login code.
type LoginStatus int

const (
	LoginOK LoginStatus = iota
	LoginBadCode
	LoginError
)

func (s LoginStatus) String() string {
	switch s {
	case LoginOK:
		return "ok"
	case LoginBadCode:
		return "bad code"
	default:
		return "error"
	}
}
