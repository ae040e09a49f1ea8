package relay

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/aladhefafalquran/tts/internal/metrics"
)

const (
	MaxTextLength = 5000
	MinRate       = -50
	MaxRate       = 100

	DefaultVoice  = "en-US-AriaNeural"
	DefaultFormat = "mp3"
)

// Client-visible error messages.
const (
	MsgInvalidJSON   = "Invalid JSON data"
	MsgNoText        = "No text provided"
	MsgTextTooLong   = "Text too long (max 5000 characters)"
	MsgInvalidFormat = "Unsupported format (use mp3, wav or ogg)"
	MsgInvalidRate   = "Rate out of range (-50 to 100)"
)

// Formats the relay accepts. The value only picks the temp file suffix and is
// echoed back; providers are not asked to transcode.
var Formats = []string{"mp3", "wav", "ogg"}

// Request is the body of POST /tts. Pointer fields are optional.
type Request struct {
	Text   string  `json:"text"`
	Voice  *string `json:"voice"`  // default DefaultVoice (or the configured one)
	Rate   *int    `json:"rate"`   // percent, default 0
	Format *string `json:"format"` // default "mp3"
}

var errNotObject = errors.New("request body is not a JSON object")

// ParseRequest decodes a raw body. Any decode failure, including a body that is
// not an object or has mistyped fields, is an error.
func ParseRequest(body []byte) (Request, error) {
	var req Request
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		if len(trimmed) == 0 {
			return req, errors.New("empty request body")
		}
		return req, errNotObject
	}
	if err := json.Unmarshal(trimmed, &req); err != nil {
		return req, err
	}
	return req, nil
}

// Normalized is a request with defaults applied and text trimmed.
type Normalized struct {
	Text   string
	Voice  string
	Rate   int
	Format string
}

func (r Request) normalize(defaultVoice string) Normalized {
	n := Normalized{
		Text:   strings.TrimSpace(r.Text),
		Voice:  defaultVoice,
		Format: DefaultFormat,
	}
	if r.Voice != nil && *r.Voice != "" {
		n.Voice = *r.Voice
	}
	if r.Rate != nil {
		n.Rate = *r.Rate
	}
	if r.Format != nil && *r.Format != "" {
		n.Format = *r.Format
	}
	return n
}

// Failure is a validation error with its metrics outcome.
type Failure struct {
	Outcome string
	Message string
}

// validate applies the checks in order; the first failure wins.
func (n Normalized) validate() *Failure {
	if n.Text == "" {
		return &Failure{Outcome: metrics.OutcomeEmptyText, Message: MsgNoText}
	}
	if utf8.RuneCountInString(n.Text) > MaxTextLength {
		return &Failure{Outcome: metrics.OutcomeTextTooLong, Message: MsgTextTooLong}
	}
	if !supportedFormat(n.Format) {
		return &Failure{Outcome: metrics.OutcomeInvalidFormat, Message: MsgInvalidFormat}
	}
	if n.Rate < MinRate || n.Rate > MaxRate {
		return &Failure{Outcome: metrics.OutcomeInvalidRate, Message: MsgInvalidRate}
	}
	return nil
}

func supportedFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// FormatRate renders a rate for the provider: 0 -> "", 10 -> "+10%", -10 -> "-10%".
func FormatRate(rate int) string {
	switch {
	case rate == 0:
		return ""
	case rate > 0:
		return "+" + strconv.Itoa(rate) + "%"
	default:
		return strconv.Itoa(rate) + "%"
	}
}
