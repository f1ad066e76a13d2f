package queuecore

import (
	"errors"
	"testing"
)

func TestParseNMDCMessage_SplitsCommandAndArgs(t *testing.T) {
	msg, err := ParseNMDCMessage("$MyNick Alice|")
	if err != nil {
		t.Fatalf("ParseNMDCMessage() error = %v", err)
	}
	if msg.Cmd != "MyNick" || msg.Args != "Alice" {
		t.Errorf("msg = %+v", msg)
	}
	if got := msg.Encode(); got != "$MyNick Alice|" {
		t.Errorf("Encode() = %q", got)
	}
}

func TestParseNMDCMessage_PlainChatHasNoCommand(t *testing.T) {
	msg, err := ParseNMDCMessage("hello there|")
	if err != nil {
		t.Fatalf("ParseNMDCMessage() error = %v", err)
	}
	if msg.Cmd != "" || msg.Args != "hello there" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestParseNMDCMessage_EmptyLineErrors(t *testing.T) {
	if _, err := ParseNMDCMessage("|"); !errors.Is(err, ErrProtocolMalformed) {
		t.Errorf("err = %v, want ErrProtocolMalformed", err)
	}
}

func TestNMDCMyNick(t *testing.T) {
	msg, _ := ParseNMDCMessage("$MyNick Bob|")
	nick, err := NMDCMyNick(msg)
	if err != nil || nick != "Bob" {
		t.Errorf("NMDCMyNick() = %q, %v", nick, err)
	}
}

func TestNMDCParseLock_WithAndWithoutPK(t *testing.T) {
	msg, _ := ParseNMDCMessage("$Lock EXTENDEDPROTOCOL_lock Pk=dctransfer|")
	lock, err := NMDCParseLock(msg)
	if err != nil {
		t.Fatalf("NMDCParseLock() error = %v", err)
	}
	if lock.Lock != "EXTENDEDPROTOCOL_lock" || lock.PK != "dctransfer" {
		t.Errorf("lock = %+v", lock)
	}

	msg2, _ := ParseNMDCMessage("$Lock justalock|")
	lock2, err := NMDCParseLock(msg2)
	if err != nil {
		t.Fatalf("NMDCParseLock() error = %v", err)
	}
	if lock2.Lock != "justalock" || lock2.PK != "" {
		t.Errorf("lock2 = %+v", lock2)
	}
}

func TestNMDCLockToKey_IsDeterministic(t *testing.T) {
	k1 := NMDCLockToKey("EXTENDEDPROTOCOL_ABCDEF0123456789")
	k2 := NMDCLockToKey("EXTENDEDPROTOCOL_ABCDEF0123456789")
	if k1 != k2 {
		t.Error("NMDCLockToKey() is not deterministic")
	}
	if k1 == "" {
		t.Error("NMDCLockToKey() returned empty key")
	}
}

func TestNMDCParseDirection_PicksWinnerByNumber(t *testing.T) {
	msg, _ := ParseNMDCMessage("$Direction Download 12345|")
	d, err := NMDCParseDirection(msg)
	if err != nil {
		t.Fatalf("NMDCParseDirection() error = %v", err)
	}
	if !d.Download || d.Number != 12345 {
		t.Errorf("d = %+v", d)
	}
	if got := d.Encode().Encode(); got != "$Direction Download 12345|" {
		t.Errorf("Encode() = %q", got)
	}
}

func TestNMDCAdcGet_RoundTrips(t *testing.T) {
	msg, _ := ParseNMDCMessage("$ADCGET file TTH/ABC123 0 1048576|")
	g, err := NMDCParseAdcGet(msg)
	if err != nil {
		t.Fatalf("NMDCParseAdcGet() error = %v", err)
	}
	want := NMDCAdcGet{Type: "file", TTH: "ABC123", Start: 0, Size: 1048576}
	if g != want {
		t.Errorf("NMDCParseAdcGet() = %+v, want %+v", g, want)
	}
	if got := g.Encode().Encode(); got != "$ADCGET file TTH/ABC123 0 1048576|" {
		t.Errorf("Encode() = %q", got)
	}
}

func TestNMDCParseAdcGet_WrongCommandErrors(t *testing.T) {
	msg := NMDCMessage{Cmd: "ADCSND", Args: "file TTH/ABC 0 1"}
	if _, err := NMDCParseAdcGet(msg); !errors.Is(err, ErrProtocolMalformed) {
		t.Errorf("err = %v, want ErrProtocolMalformed", err)
	}
}
