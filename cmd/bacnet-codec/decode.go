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
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/edgeo-scada/bacnet/bacnet"
)

const (
	kindPrimitive = "primitive"
	kindOpening   = "opening"
	kindClosing   = "closing"
)

var decodePacket bool

var decodeCmd = &cobra.Command{
	Use:   "decode <hex>...",
	Short: "List the tags of an encoded APDU",
	Long: `Decode walks a tag stream and prints one line per tag.

Hex may be split across arguments and may contain spaces, colons or a 0x
prefix. With --packet the input is a BACnet/IP packet and the BVLC, NPDU
and APDU headers are stripped first. Input longer than --max-apdu is
truncated, so a declared length past the limit fails as a buffer overrun.

Examples:
  # Context tag 2 holding unsigned 1000
  bacnet-codec decode 2a03e8

  # A BACnet/IP ReadProperty request, as JSON
  bacnet-codec decode --packet -o json 810a001101040005010c0c020003e8194d`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDecode,
}

func init() {
	decodeCmd.Flags().BoolVar(&decodePacket, "packet", false, "Input is a BACnet/IP packet")
}

func runDecode(cmd *cobra.Command, args []string) error {
	data, err := parseHex(strings.Join(args, ""))
	if err != nil {
		return err
	}

	payload := data
	if decodePacket {
		if payload, err = stripPacket(data); err != nil {
			return err
		}
	}

	if limit := viper.GetInt("max-apdu"); len(payload) > limit {
		logger.Warn("input exceeds max-apdu, truncating",
			slog.Int("length", len(payload)),
			slog.Int("max-apdu", limit))
		payload = payload[:limit]
	}

	f, err := newFormatter(cmd)
	if err != nil {
		return err
	}

	records, decodeErr := decodeTags(payload)
	if err := f.PrintTags(records); err != nil {
		return err
	}
	if decodeErr != nil {
		attrs := []any{
			slog.String("error", decodeErr.Error()),
			slog.String("reject-reason", bacnet.RejectReasonFor(decodeErr).String()),
		}
		var de *bacnet.DecodeError
		if errors.As(decodeErr, &de) {
			attrs = append(attrs, slog.Int("offset", de.Offset))
		}
		logger.Error("decode failed", attrs...)
		return decodeErr
	}
	return nil
}

// parseHex accepts hex with optional 0x prefix and space, colon or dash
// separators.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	s = strings.NewReplacer(" ", "", ":", "", "-", "", "\t", "", "\n", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return data, nil
}

// stripPacket returns the APDU service parameters of a BACnet/IP packet
func stripPacket(data []byte) ([]byte, error) {
	bvlc, n, err := bacnet.DecodeBVLC(data)
	if err != nil {
		return nil, err
	}
	npdu, m, err := bacnet.DecodeNPDU(data[n:bvlc.Length])
	if err != nil {
		return nil, err
	}
	logger.Debug("npdu",
		slog.Int("function", int(bvlc.Function)),
		slog.Int("control", int(npdu.Control)),
		slog.Int("header", n+m))
	if npdu.IsNetworkMessage() {
		return nil, fmt.Errorf("network layer message 0x%02x carries no APDU", uint8(npdu.MessageType))
	}

	apdu, err := bacnet.DecodeAPDU(npdu.Data)
	if err != nil {
		return nil, err
	}
	logger.Debug("apdu",
		slog.String("type", apdu.Type.String()),
		slog.Int("invoke-id", int(apdu.InvokeID)),
		slog.Int("service", int(apdu.Service)))
	return apdu.Data, nil
}

// decodeTags lists the tags of payload. On error the records decoded
// before the failure are returned with it.
func decodeTags(payload []byte) ([]TagRecord, error) {
	var records []TagRecord

	err := bacnet.Walk(payload, func(offset, depth int, tag bacnet.Tag, content []byte) error {
		_, headerLen, err := bacnet.DecodeTag(payload[offset:])
		if err != nil {
			return err
		}

		r := TagRecord{
			Offset: offset,
			Depth:  depth,
			Class:  tag.Class.String(),
			Number: tag.Number,
			Kind:   kindPrimitive,
			Length: tag.ContentLength(),
			Raw:    hex.EncodeToString(payload[offset : offset+headerLen+len(content)]),
		}

		switch {
		case tag.Opening:
			r.Kind = kindOpening
		case tag.Closing:
			r.Kind = kindClosing
		case tag.Class == bacnet.TagClassApplication:
			v, err := bacnet.DecodeApplicationContent(tag, content)
			if err != nil {
				return err
			}
			r.Type = bacnet.ApplicationTag(tag.Number).String()
			r.Value = formatValue(v)
		default:
			r.Value = hex.EncodeToString(content)
		}

		records = append(records, r)
		return nil
	})

	return records, err
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case []byte:
		return hex.EncodeToString(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bacnet.CharacterString:
		return fmt.Sprintf("%s %q", v.Encoding, v.String())
	default:
		return fmt.Sprint(v)
	}
}
