package entity

// Conn is the outbound half of a client's transport channel. Send never blocks.
type Conn interface {
	Send(opCode string, data any)
}

// Session is the handle a client keeps on the game room it plays in.
type Session interface {
	ID() string
	SubmitMove(submitter *Client, x, y int) error
	Abort(leaver *Client)
}

// State is one of Unattached, Challenging, Challenged or InSession.
type State interface {
	isState()
}

type Unattached struct{}

// Challenging means the client invited Target and waits for the answer.
type Challenging struct {
	Target string
}

// Challenged means From invited the client and waits for the answer.
type Challenged struct {
	From string
}

type InSession struct {
	Session Session
}

func (Unattached) isState()  {}
func (Challenging) isState() {}
func (Challenged) isState()  {}
func (InSession) isState()   {}

// Client is a connected identity. Pairing relations are kept by PIN or by
// session handle; the client owns neither its peer nor its room.
type Client struct {
	PIN  string
	Conn Conn

	state State
}

func NewClient(pin string, conn Conn) *Client {
	return &Client{
		PIN:   pin,
		Conn:  conn,
		state: Unattached{},
	}
}

func (that *Client) State() State {
	if that.state == nil {
		return Unattached{}
	}

	return that.state
}

func (that *Client) SetState(state State) {
	that.state = state
}

func (that *Client) Release() {
	that.state = Unattached{}
}

func (that *Client) IsUnattached() bool {
	_, ok := that.State().(Unattached)
	return ok
}

func (that *Client) Session() (Session, bool) {
	inSession, ok := that.State().(InSession)
	if !ok {
		return nil, false
	}

	return inSession.Session, true
}

func (that *Client) Send(opCode string, data any) {
	if that.Conn == nil {
		return
	}

	that.Conn.Send(opCode, data)
}
