package upstream

import (
	"github.com/go-faster/jx"
)

// decodeEnvelope reads the common {success, count, page, data} wrapper.
// Bodies that are not objects are kept whole in Body.
func decodeEnvelope(body []byte, r *Response) error {
	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return nil
	}
	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "success":
			if d.Next() != jx.Bool {
				return d.Skip()
			}
			v, err := d.Bool()
			if err != nil {
				return err
			}
			r.Success = &v
		case "count", "page":
			if d.Next() != jx.Number {
				return d.Skip()
			}
			f, err := d.Float64()
			if err != nil {
				return err
			}
			n := int(f)
			if string(key) == "count" {
				r.Count = &n
			} else {
				r.Page = &n
			}
		case "message", "error":
			if d.Next() != jx.String {
				return d.Skip()
			}
			s, err := d.Str()
			if err != nil {
				return err
			}
			if r.Message == "" {
				r.Message = s
			}
		case "data":
			raw, err := d.Raw()
			if err != nil {
				return err
			}
			if raw.Type() != jx.Null {
				r.Data = raw
			}
		default:
			return d.Skip()
		}
		return nil
	})
}

// peekMessage extracts an error message from a failed response body, if any.
func peekMessage(body []byte) string {
	if !jx.Valid(body) {
		return ""
	}
	var r Response
	if err := decodeEnvelope(body, &r); err != nil {
		return ""
	}
	return r.Message
}
