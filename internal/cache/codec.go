package cache

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/klauspost/compress/zstd"

	"github.com/noodle-lang/noodlec/internal/bytecode"
	"github.com/noodle-lang/noodlec/internal/compiler"
)

// envelope carries the constant types next to the result, since JSON alone
// cannot tell the integer 1 from the float 1.0. String constants that are not
// valid UTF-8 are stored base64 encoded under the "bytes" type.
type envelope struct {
	Result        *compiler.Result `json:"result"`
	ConstantTypes []string         `json:"constant_types"`
}

// codec compresses cache payloads. A zstd encoder and decoder are safe for
// concurrent EncodeAll/DecodeAll calls.
type codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCodec() (*codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	return &codec{enc: enc, dec: dec}, nil
}

func (c *codec) close() {
	c.dec.Close()
	_ = c.enc.Close()
}

// encode returns the compressed payload and the size of the JSON it holds.
func (c *codec) encode(res *compiler.Result) ([]byte, int, error) {
	stored := *res
	stored.Constants = make([]any, len(res.Constants))
	env := envelope{Result: &stored, ConstantTypes: make([]string, len(res.Constants))}
	for i, v := range res.Constants {
		env.ConstantTypes[i] = bytecode.ConstantType(v)
		stored.Constants[i] = v
		if s, ok := v.(string); ok && !utf8.ValidString(s) {
			env.ConstantTypes[i] = constantTypeBytes
			stored.Constants[i] = base64.StdEncoding.EncodeToString([]byte(s))
		}
	}

	raw, err := json.Marshal(env)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode result: %w", err)
	}
	return c.enc.EncodeAll(raw, nil), len(raw), nil
}

func (c *codec) decode(payload []byte) (*compiler.Result, error) {
	raw, err := c.dec.DecodeAll(payload, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress payload: %w", err)
	}

	var env envelope
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()
	if err := d.Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	if env.Result == nil {
		return nil, fmt.Errorf("payload has no result")
	}
	if len(env.ConstantTypes) != len(env.Result.Constants) {
		return nil, fmt.Errorf("payload has %d constant types for %d constants",
			len(env.ConstantTypes), len(env.Result.Constants))
	}

	for i, v := range env.Result.Constants {
		restored, err := restoreConstant(v, env.ConstantTypes[i])
		if err != nil {
			return nil, fmt.Errorf("constant %d: %w", i, err)
		}
		env.Result.Constants[i] = restored
	}
	return env.Result, nil
}

const constantTypeBytes = "bytes"

func restoreConstant(v any, typ string) (any, error) {
	n, isNumber := v.(json.Number)
	switch typ {
	case "int":
		if !isNumber {
			return nil, fmt.Errorf("expected int, got %T", v)
		}
		return n.Int64()
	case "float":
		if !isNumber {
			return nil, fmt.Errorf("expected float, got %T", v)
		}
		return n.Float64()
	case "string", "bool", "none":
		return v, nil
	case constantTypeBytes:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected bytes, got %T", v)
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid bytes constant: %w", err)
		}
		return string(raw), nil
	default:
		return nil, fmt.Errorf("unknown constant type %q", typ)
	}
}
