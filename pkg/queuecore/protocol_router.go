package queuecore

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// HubScheme identifies which wire codec a hub or peer URL speaks.
type HubScheme string

const (
	SchemeADC    HubScheme = "adc"
	SchemeADCS   HubScheme = "adcs"
	SchemeNMDC   HubScheme = "dchub"
	SchemeNMDCS  HubScheme = "nmdcs"
)

// LineCodec is the minimal interface both the ADC and NMDC wire formats
// implement: decode one framed protocol line into a Cmd/params pair, and
// re-encode one back onto the wire. ConnectionManager and its callers
// work against this interface so the rest of queuecore never needs to
// know which dialect a given peer speaks.
type LineCodec interface {
	// Decode parses one line (already split on the codec's frame
	// terminator, terminator stripped) into a command name and its
	// unescaped parameters.
	Decode(line string) (cmd string, params []string, err error)
	// Encode renders a command and parameters back into one wire line,
	// including the codec's frame terminator.
	Encode(cmd string, params []string) string
	// Terminator returns the byte that frames one message on the wire
	// ('\n' for ADC, '|' for NMDC), for use by a bufio.Scanner split func.
	Terminator() byte
}

type adcCodec struct{}

func (adcCodec) Decode(line string) (string, []string, error) {
	msg, err := ParseADCMessage(line)
	if err != nil {
		return "", nil, err
	}
	return msg.Cmd, msg.Params, nil
}

func (adcCodec) Encode(cmd string, params []string) string {
	return ADCMessage{Cmd: cmd, Params: params}.Encode() + "\n"
}

func (adcCodec) Terminator() byte { return '\n' }

type nmdcCodec struct{}

func (nmdcCodec) Decode(line string) (string, []string, error) {
	msg, err := ParseNMDCMessage(line)
	if err != nil {
		return "", nil, err
	}
	return msg.Cmd, strings.Fields(msg.Args), nil
}

func (nmdcCodec) Encode(cmd string, params []string) string {
	return NMDCMessage{Cmd: cmd, Args: strings.Join(params, " ")}.Encode()
}

func (nmdcCodec) Terminator() byte { return '|' }

// SchemeRouter maps a hub or peer URL's scheme to the LineCodec that
// speaks it. It replaces the teacher's HTTP/FTP/SFTP transport dispatch
// with ADC/NMDC wire-format dispatch: there is no file-transport scheme
// to add here, only the two hub dialects the spec supports.
type SchemeRouter struct {
	codecs map[HubScheme]LineCodec
}

// NewSchemeRouter builds a SchemeRouter pre-registered with the ADC and
// NMDC codecs.
func NewSchemeRouter() *SchemeRouter {
	return &SchemeRouter{codecs: map[HubScheme]LineCodec{
		SchemeADC:   adcCodec{},
		SchemeADCS:  adcCodec{},
		SchemeNMDC:  nmdcCodec{},
		SchemeNMDCS: nmdcCodec{},
	}}
}

// Register adds or replaces the codec for a scheme, letting a caller wire
// in a custom dialect without touching this file.
func (r *SchemeRouter) Register(scheme HubScheme, codec LineCodec) {
	r.codecs[scheme] = codec
}

// CodecFor returns the LineCodec registered for rawURL's scheme.
func (r *SchemeRouter) CodecFor(rawURL string) (LineCodec, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("%w: empty hub URL", ErrUnsupportedDownloadScheme)
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid hub URL %q: %w", rawURL, err)
	}
	scheme := HubScheme(strings.ToLower(parsed.Scheme))
	if scheme == "" {
		return nil, fmt.Errorf("%w: no scheme in hub URL %q", ErrUnsupportedDownloadScheme, rawURL)
	}
	codec, ok := r.codecs[scheme]
	if !ok {
		return nil, fmt.Errorf("%w %q — supported: %s", ErrUnsupportedDownloadScheme, scheme, strings.Join(r.SupportedSchemes(), ", "))
	}
	return codec, nil
}

// SupportedSchemes returns a sorted list of every registered scheme.
func (r *SchemeRouter) SupportedSchemes() []string {
	out := make([]string, 0, len(r.codecs))
	for s := range r.codecs {
		out = append(out, string(s))
	}
	sort.Strings(out)
	return out
}
