package queuecore

import (
	"errors"
	"testing"
)

func TestADCMessage_RoundTripsEscaping(t *testing.T) {
	line := `INF NIHello\sWorld IDabc\\def`
	msg, err := ParseADCMessage(line)
	if err != nil {
		t.Fatalf("ParseADCMessage() error = %v", err)
	}
	if msg.Cmd != "INF" {
		t.Fatalf("Cmd = %q, want INF", msg.Cmd)
	}
	if msg.Params[0] != "NIHello World" {
		t.Errorf("Params[0] = %q, want %q", msg.Params[0], "NIHello World")
	}
	if msg.Params[1] != `IDabc\def` {
		t.Errorf("Params[1] = %q, want %q", msg.Params[1], `IDabc\def`)
	}

	if got := msg.Encode(); got != line {
		t.Errorf("Encode() = %q, want %q", got, line)
	}
}

func TestParseADCMessage_EmptyLineErrors(t *testing.T) {
	if _, err := ParseADCMessage(""); !errors.Is(err, ErrProtocolMalformed) {
		t.Errorf("err = %v, want ErrProtocolMalformed", err)
	}
}

func TestADCGetRequest_RoundTrips(t *testing.T) {
	msg, err := ParseADCMessage("GET file TTH/ABC123 1024 4096")
	if err != nil {
		t.Fatalf("ParseADCMessage() error = %v", err)
	}
	got, err := ParseADCGet(msg)
	if err != nil {
		t.Fatalf("ParseADCGet() error = %v", err)
	}
	want := ADCGetRequest{Type: "file", Identifier: "TTH/ABC123", Start: 1024, Size: 4096}
	if got != want {
		t.Errorf("ParseADCGet() = %+v, want %+v", got, want)
	}
	if got.Encode().Encode() != "GET file TTH/ABC123 1024 4096" {
		t.Errorf("Encode() round trip mismatch: %q", got.Encode().Encode())
	}
}

func TestParseADCGet_TooFewParamsErrors(t *testing.T) {
	msg := ADCMessage{Cmd: "GET", Params: []string{"file", "TTH/ABC"}}
	if _, err := ParseADCGet(msg); !errors.Is(err, ErrProtocolMalformed) {
		t.Errorf("err = %v, want ErrProtocolMalformed", err)
	}
}

func TestParseADCInfo_ExtractsKnownTags(t *testing.T) {
	msg := ADCMessage{Cmd: "INF", Params: []string{"NIAlice", "IDcid123", "SL3", "CO2"}}
	info := ParseADCInfo(msg)
	if info.Nick != "Alice" || info.CID != "cid123" || info.SlotCount != 3 || !info.SupportsMCN {
		t.Errorf("ParseADCInfo() = %+v", info)
	}
}

func TestParseADCInfo_SingleSlotNoMCN(t *testing.T) {
	msg := ADCMessage{Cmd: "INF", Params: []string{"CO1"}}
	if info := ParseADCInfo(msg); info.SupportsMCN {
		t.Error("SupportsMCN = true for CO1, want false")
	}
}

func TestParseADCUBN_RoundTrips(t *testing.T) {
	msg := ADCUBNStatus{BundleToken: "tok", Downloaded: 50, Size: 100}.Encode()
	got, err := ParseADCUBN(msg)
	if err != nil {
		t.Fatalf("ParseADCUBN() error = %v", err)
	}
	if got.BundleToken != "tok" || got.Downloaded != 50 || got.Size != 100 {
		t.Errorf("ParseADCUBN() = %+v", got)
	}
}

func TestADCPartialBitmap_DecodesHexNibbles(t *testing.T) {
	// "A0" -> 1010 0000
	got := ADCPartialBitmap("A0")
	want := []bool{true, false, true, false, false, false, false, false}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bit %d = %v, want %v", i, got[i], want[i])
		}
	}
}
