// Package export implements the binary snapshot format served by the users
// export endpoint. Records are laid out in protobuf wire encoding with fixed
// field numbers, so generic protobuf tooling can inspect a snapshot.
package export

import (
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/rosterkeeper/internal/shared"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers are the wire contract. Changing them breaks every deployed
// verifier, so they are frozen.
const (
	userFieldID        protowire.Number = 1
	userFieldEmail     protowire.Number = 2
	userFieldRole      protowire.Number = 3
	userFieldStatus    protowire.Number = 4
	userFieldCreatedAt protowire.Number = 5
	userFieldEmailHash protowire.Number = 6
	userFieldSignature protowire.Number = 7

	exportFieldUsers      protowire.Number = 1
	exportFieldExportedAt protowire.Number = 2
	exportFieldTotalCount protowire.Number = 3
)

var timeNow = time.Now

// User is a single record in a snapshot. EmailHash and Signature are carried
// verbatim from storage so clients can re-verify them offline.
type User struct {
	ID        int64
	Email     string
	Role      string
	Status    string
	CreatedAt string
	EmailHash string
	Signature string
}

// UsersExport is a decoded snapshot. ExportedAt and TotalCount are derived at
// encode time and are never taken from the caller.
type UsersExport struct {
	Users      []User
	ExportedAt string
	TotalCount int32
}

// Encode serializes users into a snapshot, stamping it with the current UTC
// time and the record count.
func Encode(users []User) ([]byte, error) {
	var buf []byte
	for _, u := range users {
		msg, err := appendUser(nil, u)
		if err != nil {
			return nil, err
		}
		buf = protowire.AppendTag(buf, exportFieldUsers, protowire.BytesType)
		buf = protowire.AppendBytes(buf, msg)
	}

	buf = protowire.AppendTag(buf, exportFieldExportedAt, protowire.BytesType)
	buf = protowire.AppendString(buf, timeNow().UTC().Format(time.RFC3339))

	if len(users) > 0 {
		buf = protowire.AppendTag(buf, exportFieldTotalCount, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(len(users)))
	}

	return buf, nil
}

func appendUser(buf []byte, u User) ([]byte, error) {
	if u.ID < 0 || u.ID > math.MaxInt32 {
		return nil, fmt.Errorf("%w: user id %d does not fit int32", shared.ErrorEncoding, u.ID)
	}

	if u.ID != 0 {
		buf = protowire.AppendTag(buf, userFieldID, protowire.VarintType)
		buf = protowire.AppendVarint(buf, uint64(u.ID))
	}
	buf = appendString(buf, userFieldEmail, u.Email)
	buf = appendString(buf, userFieldRole, u.Role)
	buf = appendString(buf, userFieldStatus, u.Status)
	buf = appendString(buf, userFieldCreatedAt, u.CreatedAt)
	buf = appendString(buf, userFieldEmailHash, u.EmailHash)
	buf = appendString(buf, userFieldSignature, u.Signature)

	return buf, nil
}

// appendString writes a length-delimited field, omitting empty values the way
// proto3 omits defaults.
func appendString(buf []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return buf
	}
	buf = protowire.AppendTag(buf, num, protowire.BytesType)
	return protowire.AppendString(buf, s)
}

// Decode parses a snapshot produced by Encode or by any protobuf writer that
// honors the field numbers. Unknown fields are skipped; structural damage is
// reported as ErrorDecoding.
func Decode(data []byte) (*UsersExport, error) {
	out := &UsersExport{}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, decodeError("invalid tag", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case exportFieldUsers:
			if typ != protowire.BytesType {
				return nil, decodeError("unexpected wire type for users", nil)
			}
			msg, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, decodeError("truncated users entry", protowire.ParseError(n))
			}
			data = data[n:]

			u, err := decodeUser(msg)
			if err != nil {
				return nil, err
			}
			out.Users = append(out.Users, u)

		case exportFieldExportedAt:
			if typ != protowire.BytesType {
				return nil, decodeError("unexpected wire type for exportedAt", nil)
			}
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return nil, decodeError("truncated exportedAt", protowire.ParseError(n))
			}
			data = data[n:]
			out.ExportedAt = v

		case exportFieldTotalCount:
			if typ != protowire.VarintType {
				return nil, decodeError("unexpected wire type for totalCount", nil)
			}
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return nil, decodeError("truncated totalCount", protowire.ParseError(n))
			}
			if v > math.MaxInt32 {
				return nil, decodeError("totalCount overflows int32", nil)
			}
			data = data[n:]
			out.TotalCount = int32(v)

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, decodeError("malformed unknown field", protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	return out, nil
}

func decodeUser(data []byte) (User, error) {
	var u User

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return u, decodeError("invalid user tag", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case userFieldID:
			if typ != protowire.VarintType {
				return u, decodeError("unexpected wire type for id", nil)
			}
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return u, decodeError("truncated id", protowire.ParseError(n))
			}
			if v > math.MaxInt32 {
				return u, decodeError("user id overflows int32", nil)
			}
			data = data[n:]
			u.ID = int64(v)

		case userFieldEmail, userFieldRole, userFieldStatus,
			userFieldCreatedAt, userFieldEmailHash, userFieldSignature:
			if typ != protowire.BytesType {
				return u, decodeError("unexpected wire type for string field", nil)
			}
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return u, decodeError("truncated string field", protowire.ParseError(n))
			}
			data = data[n:]

			switch num {
			case userFieldEmail:
				u.Email = v
			case userFieldRole:
				u.Role = v
			case userFieldStatus:
				u.Status = v
			case userFieldCreatedAt:
				u.CreatedAt = v
			case userFieldEmailHash:
				u.EmailHash = v
			case userFieldSignature:
				u.Signature = v
			}

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return u, decodeError("malformed unknown user field", protowire.ParseError(n))
			}
			data = data[n:]
		}
	}

	return u, nil
}

func decodeError(msg string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrorDecoding, msg, cause)
	}
	return fmt.Errorf("%w: %s", shared.ErrorDecoding, msg)
}
