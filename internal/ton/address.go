// Package ton provides TON primitives: addresses, nanoton amounts,
// cell construction with standard-representation hashing, and the
// wallet-contract transfer messages the signing pipeline emits.
package ton

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	walleterr "github.com/tonhold/tonhold/pkg/errors"
)

// Address flag bytes for the user-friendly form.
const (
	tagBounceable    = 0x11
	tagNonBounceable = 0x51
	tagTestOnly      = 0x80
)

// Address is a TON account address: a workchain and a 256-bit account
// identifier.
type Address struct {
	Workchain int32
	Hash      [32]byte
}

// ParseAddress parses either the raw form ("0:<64 hex>") or the
// 48-character user-friendly base64 form.
func ParseAddress(s string) (Address, error) {
	if s == "" {
		return Address{}, walleterr.ErrInvalidAddress
	}
	if strings.Contains(s, ":") {
		return parseRaw(s)
	}
	return parseUserFriendly(s)
}

func parseRaw(s string) (Address, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || len(parts[1]) != 64 {
		return Address{}, walleterr.WithDetails(walleterr.ErrInvalidAddress,
			map[string]string{"address": s})
	}

	wc, err := strconv.ParseInt(parts[0], 10, 32)
	if err != nil {
		return Address{}, walleterr.WithDetails(walleterr.ErrInvalidAddress,
			map[string]string{"address": s})
	}

	raw, err := hex.DecodeString(parts[1])
	if err != nil {
		return Address{}, walleterr.WithDetails(walleterr.ErrInvalidAddress,
			map[string]string{"address": s})
	}

	var addr Address
	addr.Workchain = int32(wc)
	copy(addr.Hash[:], raw)
	return addr, nil
}

func parseUserFriendly(s string) (Address, error) {
	if len(s) != 48 {
		return Address{}, walleterr.WithDetails(walleterr.ErrInvalidAddress,
			map[string]string{"address": s})
	}

	// Accept both URL-safe and standard alphabets.
	normalized := strings.ReplaceAll(strings.ReplaceAll(s, "-", "+"), "_", "/")
	raw, err := base64.StdEncoding.DecodeString(normalized)
	if err != nil || len(raw) != 36 {
		return Address{}, walleterr.WithDetails(walleterr.ErrInvalidAddress,
			map[string]string{"address": s})
	}

	if crc16(raw[:34]) != uint16(raw[34])<<8|uint16(raw[35]) {
		return Address{}, walleterr.WithDetails(walleterr.ErrInvalidAddress,
			map[string]string{"address": s, "reason": "checksum mismatch"})
	}

	tag := raw[0] &^ tagTestOnly
	if tag != tagBounceable && tag != tagNonBounceable {
		return Address{}, walleterr.WithDetails(walleterr.ErrInvalidAddress,
			map[string]string{"address": s, "reason": "unknown tag"})
	}

	var addr Address
	addr.Workchain = int32(int8(raw[1]))
	copy(addr.Hash[:], raw[2:34])
	return addr, nil
}

// String returns the raw "wc:hex" form.
func (a Address) String() string {
	return fmt.Sprintf("%d:%s", a.Workchain, hex.EncodeToString(a.Hash[:]))
}

// UserFriendly returns the base64url form with the given bounce and
// test-only flags.
func (a Address) UserFriendly(bounceable, testOnly bool) string {
	buf := make([]byte, 36)
	tag := byte(tagNonBounceable)
	if bounceable {
		tag = tagBounceable
	}
	if testOnly {
		tag |= tagTestOnly
	}
	buf[0] = tag
	buf[1] = byte(int8(a.Workchain))
	copy(buf[2:34], a.Hash[:])

	sum := crc16(buf[:34])
	buf[34] = byte(sum >> 8)
	buf[35] = byte(sum)

	return base64.URLEncoding.EncodeToString(buf)
}

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool {
	if a.Workchain != 0 {
		return false
	}
	for _, b := range a.Hash {
		if b != 0 {
			return false
		}
	}
	return true
}

// IsDNSName reports whether the destination looks like a human-readable
// TON DNS name (e.g. "alice.ton") rather than an address.
func IsDNSName(s string) bool {
	if s == "" || strings.Contains(s, ":") {
		return false
	}
	if _, err := ParseAddress(s); err == nil {
		return false
	}
	return strings.Contains(s, ".")
}

// crc16 computes CRC-16/XMODEM, the checksum used by the user-friendly
// address form.
func crc16(data []byte) uint16 {
	const poly = 0x1021
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ poly
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
