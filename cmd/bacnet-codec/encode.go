// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edgeo-scada/bacnet/bacnet"
)

var encodeContext int

var encodeCmd = &cobra.Command{
	Use:   "encode <type> [value]",
	Short: "Encode a value as a tagged primitive",
	Long: `Encode prints the application or context tagged encoding of one value.

Types:
  null, boolean, unsigned, signed, real, double, enumerated,
  octets (hex), string, bitstring (e.g. 1011), date (YYYY-MM-DD),
  time (HH:MM:SS[.hh]), object (type:instance), address (net:mac-hex)

Date and time fields may be "*". Strings are encoded with --charset.

Examples:
  bacnet-codec encode boolean true
  bacnet-codec encode unsigned 1000 --context 2
  bacnet-codec encode object analog-input:1
  bacnet-codec encode string "Zone 1" --charset ucs-2`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().IntVarP(&encodeContext, "context", "c", -1, "Context tag number (default: application tag)")
}

func runEncode(cmd *cobra.Command, args []string) error {
	typ := strings.ToLower(args[0])
	value := ""
	if len(args) > 1 {
		value = args[1]
	}

	cs, _ := bacnet.ParseCharacterSet(viper.GetString("charset"))
	data, err := encodeValue(typ, value, encodeContext, cs)
	if err != nil {
		return err
	}
	logger.Debug("encoded", slog.String("type", typ), slog.Int("length", len(data)))

	f, err := newFormatter(cmd)
	if err != nil {
		return err
	}
	return f.PrintEncoded(EncodeResult{
		Type:   typ,
		Input:  value,
		Length: len(data),
		Hex:    hex.EncodeToString(data),
	})
}

type encodeFunc func(buf []byte) int

func tagged[T any](contextTag int, v T, app func([]byte, T) int, ctx func([]byte, uint8, T) int) encodeFunc {
	if contextTag >= 0 {
		return func(buf []byte) int { return ctx(buf, uint8(contextTag), v) }
	}
	return func(buf []byte) int { return app(buf, v) }
}

// encodeValue encodes value as an application tag, or as context tag
// contextTag when it is not negative.
func encodeValue(typ, value string, contextTag int, cs bacnet.CharacterSet) ([]byte, error) {
	if contextTag > bacnet.MaxTagNumber {
		return nil, fmt.Errorf("context tag %d out of range 0-%d", contextTag, bacnet.MaxTagNumber)
	}

	fn, err := valueEncoder(typ, value, contextTag, cs)
	if err != nil {
		return nil, err
	}

	n := fn(nil)
	if n == 0 {
		return nil, fmt.Errorf("cannot encode %s %q", typ, value)
	}
	buf := make([]byte, n)
	return buf[:fn(buf)], nil
}

func valueEncoder(typ, value string, contextTag int, cs bacnet.CharacterSet) (encodeFunc, error) {
	switch typ {
	case "null":
		if contextTag >= 0 {
			return func(buf []byte) int { return bacnet.EncodeContextNull(buf, uint8(contextTag)) }, nil
		}
		return bacnet.EncodeApplicationNull, nil

	case "bool", "boolean":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean %q", value)
		}
		return tagged(contextTag, v, bacnet.EncodeApplicationBoolean, bacnet.EncodeContextBoolean), nil

	case "unsigned", "uint":
		v, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid unsigned %q: %w", value, err)
		}
		return tagged(contextTag, v, bacnet.EncodeApplicationUnsigned, bacnet.EncodeContextUnsigned), nil

	case "signed", "int":
		v, err := strconv.ParseInt(value, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid signed %q: %w", value, err)
		}
		return tagged(contextTag, int32(v), bacnet.EncodeApplicationSigned, bacnet.EncodeContextSigned), nil

	case "real", "float":
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid real %q: %w", value, err)
		}
		return tagged(contextTag, float32(v), bacnet.EncodeApplicationReal, bacnet.EncodeContextReal), nil

	case "double":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid double %q: %w", value, err)
		}
		return tagged(contextTag, v, bacnet.EncodeApplicationDouble, bacnet.EncodeContextDouble), nil

	case "enumerated", "enum":
		v, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid enumerated %q: %w", value, err)
		}
		return tagged(contextTag, uint32(v), bacnet.EncodeApplicationEnumerated, bacnet.EncodeContextEnumerated), nil

	case "octets", "octetstring":
		v, err := parseHex(value)
		if err != nil {
			return nil, err
		}
		return tagged(contextTag, v, bacnet.EncodeApplicationOctetString, bacnet.EncodeContextOctetString), nil

	case "string", "charstring":
		v, err := bacnet.NewCharacterString(value, cs)
		if err != nil {
			return nil, err
		}
		return tagged(contextTag, v, bacnet.EncodeApplicationCharacterString, bacnet.EncodeContextCharacterString), nil

	case "bitstring", "bits":
		v, err := bacnet.ParseBitString(value)
		if err != nil {
			return nil, err
		}
		return tagged(contextTag, v, bacnet.EncodeApplicationBitString, bacnet.EncodeContextBitString), nil

	case "date":
		v, err := bacnet.ParseDate(value)
		if err != nil {
			return nil, err
		}
		return tagged(contextTag, v, bacnet.EncodeApplicationDate, bacnet.EncodeContextDate), nil

	case "time":
		v, err := bacnet.ParseTime(value)
		if err != nil {
			return nil, err
		}
		return tagged(contextTag, v, bacnet.EncodeApplicationTime, bacnet.EncodeContextTime), nil

	case "object", "objectid":
		v, err := bacnet.ParseObjectIdentifier(value)
		if err != nil {
			return nil, err
		}
		return tagged(contextTag, v, bacnet.EncodeApplicationObjectIdentifier, bacnet.EncodeContextObjectIdentifier), nil

	case "address":
		v, err := parseAddress(value)
		if err != nil {
			return nil, err
		}
		return tagged(contextTag, v, bacnet.EncodeAddress, bacnet.EncodeContextAddress), nil

	default:
		return nil, fmt.Errorf("unknown type %q", typ)
	}
}

// parseAddress parses "net:mac" with the MAC in hex; an empty MAC is a
// broadcast.
func parseAddress(s string) (bacnet.Address, error) {
	netStr, mac, ok := strings.Cut(s, ":")
	if !ok {
		return bacnet.Address{}, fmt.Errorf("invalid address %q: want net:mac", s)
	}
	net, err := strconv.ParseUint(netStr, 10, 16)
	if err != nil {
		return bacnet.Address{}, fmt.Errorf("invalid network number %q: %w", netStr, err)
	}
	addr, err := parseHex(mac)
	if err != nil {
		return bacnet.Address{}, err
	}
	if len(addr) > bacnet.MaxMACLength {
		return bacnet.Address{}, fmt.Errorf("%w: MAC of %d octets", bacnet.ErrValueOutOfRange, len(addr))
	}
	return bacnet.Address{Net: uint16(net), Addr: addr}, nil
}
