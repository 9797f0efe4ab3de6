package network_ie

import (
	"errors"
	"fmt"
	"strconv"

	winwifi "github.com/dogeorg/winwifi/pkg"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
)

var ErrShortElement = errors.New("information element body too short")

// Bits of the HT Capabilities Info field (first body byte).
const htCapSupportedChannelWidth = 0x02

// Secondary channel offset, low two bits of the second HT Operation body byte.
const (
	secondaryChannelOffsetMask  = 0x03
	secondaryChannelOffsetAbove = 0x01 // SCA
	secondaryChannelOffsetBelow = 0x03 // SCB
)

// OUI plus vendor type, as gopacket splits vendor elements.
const vendorHeaderSize = 4

// Distance between a primary channel and its 40 MHz secondary.
const secondaryChannelSpacing = 4

type HTInfo struct {
	FortyMHz bool
	Channel1 int
	Channel2 int
}

// Channels returns the primary channel, followed by the secondary one when bonded.
func (h HTInfo) Channels() []int {
	if h.Channel2 != 0 {
		return []int{h.Channel1, h.Channel2}
	}
	return []int{h.Channel1}
}

// Decode walks the elements in order. A later element with the same id
// overrides what an earlier one set.
func Decode(elements []winwifi.InformationElement) (HTInfo, error) {
	var info HTInfo
	supports40MHz := false

	for _, e := range elements {
		switch e.ID {
		case winwifi.ElementHTCapabilities:
			if len(e.Body) < 1 {
				return HTInfo{}, fmt.Errorf("element %d: %w", e.ID, ErrShortElement)
			}
			supports40MHz = e.Body[0]&htCapSupportedChannelWidth != 0

		case winwifi.ElementHTOperation:
			if len(e.Body) < 1 || (supports40MHz && len(e.Body) < 2) {
				return HTInfo{}, fmt.Errorf("element %d: %w", e.ID, ErrShortElement)
			}
			info.Channel1 = int(e.Body[0])
			info.Channel2 = 0
			info.FortyMHz = false
			if !supports40MHz {
				continue
			}
			// Offset 2 is reserved and 0 means no secondary channel.
			offset := e.Body[1] & secondaryChannelOffsetMask
			switch offset {
			case secondaryChannelOffsetBelow:
				info.FortyMHz = true
				info.Channel2 = info.Channel1 - secondaryChannelSpacing
			case secondaryChannelOffsetAbove:
				info.FortyMHz = true
				info.Channel2 = info.Channel1 + secondaryChannelSpacing
			}

		case winwifi.ElementVHTCapabilities, winwifi.ElementVHTOperation:
			// 80/160 MHz widths are not reported.
		}
	}

	return info, nil
}

// BandFromFrequency only looks at the leading decimal digit of the center
// frequency. Anything not starting with 5 is reported as 2.4 GHz, 6 GHz included.
func BandFromFrequency(freq uint32) winwifi.Band {
	if strconv.FormatUint(uint64(freq), 10)[0] == '5' {
		return winwifi.Band5GHz
	}
	return winwifi.Band2_4GHz
}

// ParseElements splits a raw buffer of id, length, body triplets. On a
// malformed element it returns the elements before it and an error wrapping
// ErrShortElement.
func ParseElements(b []byte) ([]winwifi.InformationElement, error) {
	var elements []winwifi.InformationElement
	for offset := 0; offset < len(b); {
		var e layers.Dot11InformationElement
		if err := decodeElement(&e, b[offset:]); err != nil {
			return elements, fmt.Errorf("element at offset %d: %w: %v", offset, ErrShortElement, err)
		}
		elements = append(elements, winwifi.InformationElement{
			ID:   byte(e.ID),
			Body: append([]byte{}, e.Contents[2:]...),
		})
		offset += len(e.Contents)
	}
	return elements, nil
}

// decodeElement decodes the element at the start of b. The gopacket decoder
// neither checks the length byte against the buffer nor splits a vendor
// element without room for its OUI, so both are rejected here. It also wants
// four bytes after every header, so a short element at the end of the buffer
// is decoded from a padded copy.
func decodeElement(e *layers.Dot11InformationElement, b []byte) error {
	if len(b) < 2 {
		return fmt.Errorf("%d byte header", len(b))
	}
	n := 2 + int(b[1])
	if len(b) < n {
		return fmt.Errorf("element %d needs %d bytes, %d left", b[0], n, len(b))
	}
	if b[0] == byte(layers.Dot11InformationElementIDVendor) && b[1] < vendorHeaderSize {
		return fmt.Errorf("vendor element of %d bytes has no room for its OUI", b[1])
	}
	if len(b) >= 2+vendorHeaderSize {
		return e.DecodeFromBytes(b, gopacket.NilDecodeFeedback)
	}
	padded := make([]byte, 2+vendorHeaderSize)
	copy(padded, b)
	if err := e.DecodeFromBytes(padded, gopacket.NilDecodeFeedback); err != nil {
		return err
	}
	e.Contents = b[:n]
	return nil
}

// Enrich derives band and channels for one observation. The observation
// itself is left untouched.
func Enrich(raw winwifi.BssObservation) (winwifi.Bss, error) {
	if raw.ElementsErr != nil {
		return winwifi.Bss{}, winwifi.BssError{BSSID: raw.BSSID, SSID: raw.SSID, Err: raw.ElementsErr}
	}
	info, err := Decode(raw.InformationElements)
	if err != nil {
		return winwifi.Bss{}, winwifi.BssError{BSSID: raw.BSSID, SSID: raw.SSID, Err: err}
	}
	return winwifi.Bss{
		BssObservation: raw,
		Band:           BandFromFrequency(raw.CenterFrequency),
		FortyMHz:       info.FortyMHz,
		Channels:       info.Channels(),
	}, nil
}
