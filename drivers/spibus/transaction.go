package spibus

// Kind tells the peripheral how to interpret a transfer. It drives the D/C
// strobe on buses that have one.
type Kind uint8

const (
	KindData Kind = iota
	KindCommand
)

func (k Kind) String() string {
	if k == KindCommand {
		return "command"
	}
	return "data"
}

// Transaction is one queued transfer. It is a value: the bus copies it into
// its queue, but the payload and response slices are shared with the caller
// until the next WaitForAll.
type Transaction struct {
	kind     Kind
	payload  []byte
	response []byte
}

func (t Transaction) Kind() Kind       { return t.kind }
func (t Transaction) Payload() []byte  { return t.payload }
func (t Transaction) Response() []byte { return t.response }
func (t Transaction) Len() int         { return len(t.payload) }
func (t Transaction) ResponseLen() int { return len(t.response) }
func (t Transaction) IsCommand() bool  { return t.kind == KindCommand }

// Builder assembles a Transaction.
type Builder struct {
	t Transaction
}

// NewTransaction starts a transaction of the given kind.
func NewTransaction(kind Kind) Builder {
	return Builder{t: Transaction{kind: kind}}
}

// Payload sets the bytes clocked out.
func (b Builder) Payload(p []byte) Builder {
	b.t.payload = p
	return b
}

// Response sets the buffer the bytes clocked in are written to. Full-duplex
// buses need it to be as long as the payload.
func (b Builder) Response(rx []byte) Builder {
	b.t.response = rx
	return b
}

func (b Builder) Build() Transaction { return b.t }

// Command is a single command byte.
func Command(cmd byte) Transaction {
	return NewTransaction(KindCommand).Payload([]byte{cmd}).Build()
}

// Data is a write-only data transfer.
func Data(p []byte) Transaction {
	return NewTransaction(KindData).Payload(p).Build()
}
