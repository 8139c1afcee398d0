package v1handler

import (
	"medscan/pkg/domain"
	"medscan/pkg/storage"
	"strings"
	"time"

	faster "github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

func encodeError(e *jx.Encoder, body ErrorBody) {
	e.ObjStart()
	e.FieldStart("code")
	e.Str(body.Code)
	e.FieldStart("message")
	e.Str(body.Message)
	e.ObjEnd()
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.UTC().Format(time.RFC3339Nano))
}

func encodeProfile(e *jx.Encoder, p domain.HealthProfile) {
	e.ObjStart()
	e.FieldStart("allergies")
	e.Str(p.Allergies)
	e.FieldStart("conditions")
	e.Str(p.Conditions)
	if !p.UpdatedAt.IsZero() {
		e.FieldStart("updatedAt")
		encodeTime(e, p.UpdatedAt)
	}
	e.ObjEnd()
}

func encodeProduct(e *jx.Encoder, p domain.ProductRecord) {
	e.ObjStart()
	e.FieldStart("title")
	e.Str(p.Title)
	for _, f := range []struct{ name, value string }{
		{"brand", p.Brand},
		{"description", p.Description},
		{"ingredients", p.Ingredients},
	} {
		if f.value != "" {
			e.FieldStart(f.name)
			e.Str(f.value)
		}
	}
	e.ObjEnd()
}

func encodeVerdict(e *jx.Encoder, v domain.SafetyVerdict) {
	e.ObjStart()
	e.FieldStart("status")
	e.Str(string(v.Status))
	e.FieldStart("explanation")
	e.Str(v.Explanation)
	e.FieldStart("rawResponse")
	e.Str(v.RawResponse)
	e.ObjEnd()
}

// encodeScan writes a scan snapshot. The id is null for the idle state.
func encodeScan(e *jx.Encoder, s domain.Scan) {
	e.ObjStart()
	e.FieldStart("id")
	if s.ID == (domain.ScanID{}) {
		e.Null()
	} else {
		e.Str(s.ID.String())
	}
	e.FieldStart("seq")
	e.UInt64(s.Seq)
	e.FieldStart("state")
	e.Str(string(s.State))
	if s.Barcode != "" {
		e.FieldStart("barcode")
		e.Str(s.Barcode.String())
		e.FieldStart("format")
		e.Str(string(s.Barcode.Format()))
	}
	e.FieldStart("profile")
	encodeProfile(e, s.Profile)
	if s.Product != nil {
		e.FieldStart("product")
		encodeProduct(e, *s.Product)
	}
	if s.Verdict != nil {
		e.FieldStart("verdict")
		encodeVerdict(e, *s.Verdict)
	}
	if s.Failure != nil {
		e.FieldStart("failure")
		e.ObjStart()
		e.FieldStart("kind")
		e.Str(s.Failure.Kind)
		e.FieldStart("message")
		e.Str(s.Failure.Message)
		e.ObjEnd()
	}
	if !s.StartedAt.IsZero() {
		e.FieldStart("startedAt")
		encodeTime(e, s.StartedAt)
	}
	e.FieldStart("updatedAt")
	encodeTime(e, s.UpdatedAt)
	e.ObjEnd()
}

func encodeScanPage(e *jx.Encoder, page storage.ScanPage) {
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, s := range page.Scans {
		encodeScan(e, s)
	}
	e.ArrEnd()
	e.FieldStart("nextCursor")
	if page.NextCursor != nil {
		encodeTime(e, *page.NextCursor)
	} else {
		e.Null()
	}
	e.ObjEnd()
}

func encodeCredentialStatus(e *jx.Encoder, configured bool) {
	e.ObjStart()
	e.FieldStart("configured")
	e.Bool(configured)
	e.ObjEnd()
}

// createScanRequest is the body of POST /v1/scans. Exactly one of Barcode
// and DecodeError is set.
type createScanRequest struct {
	Barcode          string
	DecodeError      string
	Profile          domain.HealthProfile
	UseStoredProfile bool
}

func decodeCreateScan(b []byte) (createScanRequest, error) {
	var req createScanRequest
	d := jx.DecodeBytes(b)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "barcode":
			req.Barcode, err = optString(d)
		case "decodeError":
			req.DecodeError, err = optString(d)
		case "profile":
			req.Profile, err = decodeProfile(d)
		case "useStoredProfile":
			req.UseStoredProfile, err = d.Bool()
		default:
			return d.Skip()
		}
		if err != nil {
			return faster.Wrapf(err, "field %q", key)
		}

		return nil
	})
	if err != nil {
		return req, faster.Wrap(err, "scan request")
	}

	switch {
	case strings.TrimSpace(req.Barcode) == "" && strings.TrimSpace(req.DecodeError) == "":
		return req, faster.New(`one of "barcode" or "decodeError" is required`)
	case req.Barcode != "" && req.DecodeError != "":
		return req, faster.New(`"barcode" and "decodeError" are mutually exclusive`)
	}

	return req, nil
}

func decodeProfile(d *jx.Decoder) (domain.HealthProfile, error) {
	var p domain.HealthProfile
	if d.Next() == jx.Null {
		return p, d.Null()
	}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "allergies":
			p.Allergies, err = optString(d)
		case "conditions":
			p.Conditions, err = optString(d)
		default:
			return d.Skip()
		}
		if err != nil {
			return faster.Wrapf(err, "field %q", key)
		}

		return nil
	})

	return p.Normalized(), err
}

func decodeProfileBody(b []byte) (domain.HealthProfile, error) {
	p, err := decodeProfile(jx.DecodeBytes(b))
	if err != nil {
		return p, faster.Wrap(err, "profile")
	}

	return p, nil
}

func decodeCredential(b []byte) (string, error) {
	var key string
	d := jx.DecodeBytes(b)
	err := d.Obj(func(d *jx.Decoder, k string) error {
		if k != "apiKey" {
			return d.Skip()
		}
		var err error
		key, err = optString(d)

		return err
	})
	if err != nil {
		// the body may hold the secret, keep it out of the message
		return "", faster.New("credential body is not a JSON object with a string apiKey")
	}

	return key, nil
}

func optString(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}

	return d.Str()
}
