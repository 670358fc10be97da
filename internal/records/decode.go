package records

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
)

// DecodeOptions controls how strictly payloads are validated.
type DecodeOptions struct {
	// SkipMalformed drops rows that fail the schema instead of failing the
	// whole payload. Dropped rows are counted in Payload.Skipped.
	SkipMalformed bool

	// Logger receives a warning per skipped row. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o DecodeOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// DecodeFinancial decodes a /financial/ response body.
func DecodeFinancial(body []byte, opts DecodeOptions) (*FinancialPayload, error) {
	return decode[FinancialRecord](CategoryFinancial, body, opts)
}

// DecodeHR decodes an /hr/ response body.
func DecodeHR(body []byte, opts DecodeOptions) (*HRPayload, error) {
	return decode[HRRecord](CategoryHR, body, opts)
}

// DecodeRND decodes an /rnd/ response body.
func DecodeRND(body []byte, opts DecodeOptions) (*RNDPayload, error) {
	return decode[RNDRecord](CategoryRND, body, opts)
}

// DecodeSecurity decodes a /security/ response body.
func DecodeSecurity(body []byte, opts DecodeOptions) (*SecurityPayload, error) {
	return decode[SecurityRecord](CategorySecurity, body, opts)
}

// decode validates the envelope, validates every row against the category
// schema, and only then converts rows into typed records.
//
// Envelope problems (not JSON, no records key, records not a list) always
// fail. Row problems fail unless opts.SkipMalformed is set.
func decode[T Row](c Category, body []byte, opts DecodeOptions) (*Payload[T], error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &SchemaError{Category: c, Index: EnvelopeIndex, Message: fmt.Sprintf("invalid JSON body: %v", err)}
	}

	rawRecords, ok := envelope["records"]
	if !ok {
		return nil, &SchemaError{Category: c, Index: EnvelopeIndex, Field: "records", Message: "field is required"}
	}

	var rows []json.RawMessage
	if !bytes.Equal(bytes.TrimSpace(rawRecords), []byte("null")) {
		if err := json.Unmarshal(rawRecords, &rows); err != nil {
			return nil, &SchemaError{Category: c, Index: EnvelopeIndex, Field: "records", Message: "must be a list"}
		}
	}

	payload := &Payload[T]{
		Records: make([]T, 0, len(rows)),
		Summary: envelope["summary"],
	}
	if len(rows) == 0 {
		return payload, nil
	}

	v, err := newRowValidator(c)
	if err != nil {
		return nil, err
	}

	for i, raw := range rows {
		if se := v.check(c, i, raw); se != nil {
			if !opts.SkipMalformed {
				return nil, se
			}
			opts.logger().Warn("skipping malformed row",
				"category", c,
				"index", i,
				"field", se.Field,
				"error", se.Message)
			payload.Skipped++
			continue
		}

		var rec T
		if err := json.Unmarshal(raw, &rec); err != nil {
			se := &SchemaError{Category: c, Index: i, Message: err.Error()}
			if !opts.SkipMalformed {
				return nil, se
			}
			opts.logger().Warn("skipping malformed row", "category", c, "index", i, "error", err)
			payload.Skipped++
			continue
		}
		payload.Records = append(payload.Records, rec)
	}

	return payload, nil
}
