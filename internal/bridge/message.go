// Package bridge carries Multegula peer messages over websockets. A hub
// relays messages between the peers of one arena; each peer simulates the
// whole arena and reports the results of its own seat.
package bridge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Delimiter separates the four message fields on the wire.
const Delimiter = "##"

// PayloadDelimiter separates the fields of a message content.
const PayloadDelimiter = "|"

// Destinations with a special meaning. Anything else names a peer.
const (
	DestEverybody = "EVERYBODY" // every other peer of the arena
	DestMultegula = "MULTEGULA" // the hub itself
)

// Message kinds.
const (
	KindMyName    = "MSG_MYNAME"     // content: peer name
	KindGameType  = "MSG_GAME_TYPE"  // content: game mode
	KindStart     = "MSG_START"      // content: seed|name1|name2|...
	KindPaddleDir = "MSG_PADDLE_DIR" // content: seat|direction|center
	KindPaddlePos = "MSG_PADDLE_POS" // content: seat|center
	KindEvent     = "MSG_EVENT"      // content: an encoded arena event
	KindLeave     = "MSG_LEAVE"      // source: the peer that left
	KindError     = "MSG_ERROR"      // content: reason
)

// ErrMalformedMessage is returned for frames that are not four '##'
// separated fields with a kind.
var ErrMalformedMessage = errors.New("bridge: malformed message")

// Message is one wire message.
type Message struct {
	Source      string
	Destination string
	Content     string
	Kind        string
}

// NewMessage builds a message whose content is fields joined by '|'.
func NewMessage(source, destination, kind string, fields ...string) Message {
	return Message{
		Source:      source,
		Destination: destination,
		Content:     strings.Join(fields, PayloadDelimiter),
		Kind:        kind,
	}
}

// Encode renders the message as Source##Destination##Content##Kind.
func (m Message) Encode() string {
	return strings.Join([]string{m.Source, m.Destination, m.Content, m.Kind}, Delimiter)
}

// Decode parses the output of Encode. A trailing newline is ignored.
func Decode(s string) (Message, error) {
	parts := strings.Split(strings.TrimRight(s, "\r\n"), Delimiter)
	if len(parts) != 4 {
		return Message{}, fmt.Errorf("%w: want 4 fields, got %d", ErrMalformedMessage, len(parts))
	}
	if parts[3] == "" {
		return Message{}, fmt.Errorf("%w: empty kind", ErrMalformedMessage)
	}
	return Message{Source: parts[0], Destination: parts[1], Content: parts[2], Kind: parts[3]}, nil
}

// Fields splits the content on '|'.
func (m Message) Fields() []string {
	if m.Content == "" {
		return nil
	}
	return strings.Split(m.Content, PayloadDelimiter)
}

// Multicast reports whether the message goes to every peer.
func (m Message) Multicast() bool {
	return m.Destination == DestEverybody
}

// Start announces the arena once every peer has joined. Roster lists the
// peer names in seat order.
type Start struct {
	Seed   int64
	Roster []string
}

// Message returns the MSG_START message the hub multicasts.
func (s Start) Message() Message {
	fields := append([]string{strconv.FormatInt(s.Seed, 10)}, s.Roster...)
	return NewMessage(DestMultegula, DestEverybody, KindStart, fields...)
}

// ParseStart decodes a MSG_START message.
func ParseStart(m Message) (Start, error) {
	if m.Kind != KindStart {
		return Start{}, fmt.Errorf("%w: kind %s is not %s", ErrMalformedMessage, m.Kind, KindStart)
	}
	fields := m.Fields()
	if len(fields) < 2 {
		return Start{}, fmt.Errorf("%w: start needs a seed and a roster", ErrMalformedMessage)
	}
	seed, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Start{}, fmt.Errorf("%w: seed: %v", ErrMalformedMessage, err)
	}
	return Start{Seed: seed, Roster: fields[1:]}, nil
}

// validName reports whether a peer name can travel in a message.
func validName(name string) bool {
	switch name {
	case "", DestEverybody, DestMultegula:
		return false
	}
	return !strings.Contains(name, Delimiter) && !strings.Contains(name, PayloadDelimiter)
}
