package queuecore

import (
	"fmt"
	"strconv"
	"strings"
)

// ADCMessage is one decoded ADC protocol line: a command followed by a
// sequence of space-delimited parameters, with ADC's backslash escaping
// already resolved. Mirrors the Headers key/value pairing in header.go,
// generalized from HTTP's key:value lines to ADC's positional fields.
type ADCMessage struct {
	Cmd    string
	Params []string
}

// adcEscape applies ADC's backslash escaping: space, backslash, and
// newline are escaped as \s, \\, and \n respectively.
func adcEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, " ", `\s`, "\n", `\n`)
	return r.Replace(s)
}

func adcUnescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 's':
			b.WriteByte(' ')
		case 'n':
			b.WriteByte('\n')
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// ParseADCMessage splits a single ADC protocol line into its command and
// unescaped parameters. An empty line yields ErrProtocolMalformed.
func ParseADCMessage(line string) (ADCMessage, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, " ")
	if len(fields) == 0 || fields[0] == "" {
		return ADCMessage{}, ErrProtocolMalformed
	}
	msg := ADCMessage{Cmd: fields[0], Params: make([]string, 0, len(fields)-1)}
	for _, f := range fields[1:] {
		msg.Params = append(msg.Params, adcUnescape(f))
	}
	return msg, nil
}

// Encode renders the message back into a single ADC wire line, without a
// trailing terminator.
func (m ADCMessage) Encode() string {
	var b strings.Builder
	b.WriteString(m.Cmd)
	for _, p := range m.Params {
		b.WriteByte(' ')
		b.WriteString(adcEscape(p))
	}
	return b.String()
}

// ADCGetRequest is a decoded GET request: GET <type> <identifier> <start> <size>.
type ADCGetRequest struct {
	Type       string // "file" or "tthl"
	Identifier string // TTH or "TTH/<hash>"
	Start      int64
	Size       int64
}

// ParseADCGet decodes a GET message's parameters. The caller is expected
// to have already confirmed msg.Cmd == "GET".
func ParseADCGet(msg ADCMessage) (ADCGetRequest, error) {
	if len(msg.Params) < 4 {
		return ADCGetRequest{}, fmt.Errorf("%w: GET wants 4 params, got %d", ErrProtocolMalformed, len(msg.Params))
	}
	start, err := strconv.ParseInt(msg.Params[2], 10, 64)
	if err != nil {
		return ADCGetRequest{}, fmt.Errorf("%w: GET start: %v", ErrProtocolMalformed, err)
	}
	size, err := strconv.ParseInt(msg.Params[3], 10, 64)
	if err != nil {
		return ADCGetRequest{}, fmt.Errorf("%w: GET size: %v", ErrProtocolMalformed, err)
	}
	return ADCGetRequest{Type: msg.Params[0], Identifier: msg.Params[1], Start: start, Size: size}, nil
}

// Encode renders a GET request as an ADCMessage.
func (g ADCGetRequest) Encode() ADCMessage {
	return ADCMessage{Cmd: "GET", Params: []string{
		g.Type, g.Identifier,
		strconv.FormatInt(g.Start, 10),
		strconv.FormatInt(g.Size, 10),
	}}
}

// ADCSendResponse is a decoded SND response confirming a GET: SND <type> <identifier> <start> <size>.
type ADCSendResponse struct {
	Type       string
	Identifier string
	Start      int64
	Size       int64
}

// ParseADCSend decodes a SND message's parameters.
func ParseADCSend(msg ADCMessage) (ADCSendResponse, error) {
	g, err := ParseADCGet(ADCMessage{Cmd: "GET", Params: msg.Params})
	if err != nil {
		return ADCSendResponse{}, err
	}
	return ADCSendResponse(g), nil
}

// Encode renders a SND response as an ADCMessage.
func (s ADCSendResponse) Encode() ADCMessage {
	return ADCMessage{Cmd: "SND", Params: []string{
		s.Type, s.Identifier,
		strconv.FormatInt(s.Start, 10),
		strconv.FormatInt(s.Size, 10),
	}}
}

// ADCInfo is a subset of an INF message's fields relevant to source
// bookkeeping: nick (NI), CID (ID), and MCN slot count (SL / CO).
type ADCInfo struct {
	Nick      string
	CID       string
	SlotCount int
	SupportsMCN bool
}

// ParseADCInfo scans an INF message's "<tag><value>" fields (no
// separating space between tag and value, per ADC's INF encoding) and
// extracts the fields queuecore cares about. Unknown tags are ignored.
func ParseADCInfo(msg ADCMessage) ADCInfo {
	var info ADCInfo
	for _, p := range msg.Params {
		if len(p) < 2 {
			continue
		}
		tag, val := p[:2], p[2:]
		switch tag {
		case "NI":
			info.Nick = val
		case "ID":
			info.CID = val
		case "SL":
			if n, err := strconv.Atoi(val); err == nil {
				info.SlotCount = n
			}
		case "CO":
			if n, err := strconv.Atoi(val); err == nil && n > 1 {
				info.SupportsMCN = true
			}
		}
	}
	return info
}

// ADCUBNStatus mirrors a UBN (upload bundle notification) message used to
// report bundle-level transfer progress to a peer that requested MCN
// segments of the same bundle.
type ADCUBNStatus struct {
	BundleToken string
	Downloaded  int64
	Size        int64
}

// ParseADCUBN decodes a UBN message: UBN <token> <downloaded> <size>.
func ParseADCUBN(msg ADCMessage) (ADCUBNStatus, error) {
	if len(msg.Params) < 3 {
		return ADCUBNStatus{}, fmt.Errorf("%w: UBN wants 3 params, got %d", ErrProtocolMalformed, len(msg.Params))
	}
	dl, err := strconv.ParseInt(msg.Params[1], 10, 64)
	if err != nil {
		return ADCUBNStatus{}, fmt.Errorf("%w: UBN downloaded: %v", ErrProtocolMalformed, err)
	}
	sz, err := strconv.ParseInt(msg.Params[2], 10, 64)
	if err != nil {
		return ADCUBNStatus{}, fmt.Errorf("%w: UBN size: %v", ErrProtocolMalformed, err)
	}
	return ADCUBNStatus{BundleToken: msg.Params[0], Downloaded: dl, Size: sz}, nil
}

// Encode renders a UBN status as an ADCMessage.
func (u ADCUBNStatus) Encode() ADCMessage {
	return ADCMessage{Cmd: "UBN", Params: []string{
		u.BundleToken,
		strconv.FormatInt(u.Downloaded, 10),
		strconv.FormatInt(u.Size, 10),
	}}
}

// ADCPartialBitmap decodes a PBD (partial bundle) or PSR (partial source
// request) message's block-bitmap parameter into a []bool, one entry per
// block, matching GetPartialInfo's encoding.
func ADCPartialBitmap(bitfield string) []bool {
	out := make([]bool, 0, len(bitfield)*4)
	for _, c := range bitfield {
		var v int
		switch {
		case c >= '0' && c <= '9':
			v = int(c - '0')
		case c >= 'A' && c <= 'F':
			v = int(c-'A') + 10
		case c >= 'a' && c <= 'f':
			v = int(c-'a') + 10
		default:
			continue
		}
		for bit := 3; bit >= 0; bit-- {
			out = append(out, v&(1<<uint(bit)) != 0)
		}
	}
	return out
}
