package response

// exchangeState orders the parts of a message. Both the parser and the
// writer move through it front to back, never backwards.
type exchangeState string

const (
	stateStatusLine exchangeState = "status line"
	stateHeaders    exchangeState = "headers"
	stateBody       exchangeState = "body"
	stateDone       exchangeState = "done"
)

func newExchangeState() exchangeState {
	return stateStatusLine
}

func (s exchangeState) advance() exchangeState {
	switch s {
	case stateStatusLine:
		return stateHeaders
	case stateHeaders:
		return stateBody
	case stateBody:
		return stateDone
	default:
		panic("invalid exchange state advance: " + s)
	}
}
